// Package postgres — долговечный бэкенд хранилища на database/sql
// поверх драйвера pgx. Схема накатывается goose-миграциями из embed FS.
package postgres

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/Spok95/school-portal/internal/store"
	"github.com/Spok95/school-portal/internal/store/postgres/migrations"
)

type Store struct {
	db *sql.DB
}

// New оборачивает уже открытое соединение (используется тестами).
func New(db *sql.DB) *Store { return &Store{db: db} }

func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Migrate() error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.Up(s.db, ".")
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }

// mapErr переводит коды Postgres в сентинели хранилища:
// 23505 — дубликат уникального поля, 23503 — битая ссылка.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return store.ErrConflict
		case "23503":
			return store.ErrReferential
		}
	}
	return err
}

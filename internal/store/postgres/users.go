package postgres

import (
	"context"

	"github.com/Spok95/school-portal/internal/ctxutil"
	"github.com/Spok95/school-portal/internal/models"
	"github.com/Spok95/school-portal/internal/store"
)

func (s *Store) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (name, email, role, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, u.Name, u.Email, u.Role, u.Phone).Scan(&u.ID)
	if err != nil {
		return models.User{}, mapErr(err)
	}
	return u, nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (models.User, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	var u models.User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, role, phone FROM users WHERE id = $1
	`, id).Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Phone)
	if err != nil {
		return models.User{}, mapErr(err)
	}
	return u, nil
}

func (s *Store) ListParents(ctx context.Context) ([]models.User, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, role, phone
		FROM users
		WHERE role = 'parent'
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make([]models.User, 0)
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Phone); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// DeleteUser — политика «сначала переназначить»: пока на родителя ссылаются
// ученики, удаление отклоняется (FK RESTRICT даёт 23503).
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) CreateStudent(ctx context.Context, st models.Student) (models.Student, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	// FK гарантирует существование, роль проверяем отдельно
	var role models.Role
	err := s.db.QueryRowContext(ctx, `SELECT role FROM users WHERE id = $1`, st.ParentID).Scan(&role)
	if err != nil {
		return models.Student{}, store.ErrReferential
	}
	if role != models.Parent {
		return models.Student{}, store.ErrReferential
	}

	err = s.db.QueryRowContext(ctx, `
		INSERT INTO students (first_name, last_name, birth_date, class_label, parent_id, archived, photo_ref)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, st.FirstName, st.LastName, st.BirthDate, st.ClassLabel, st.ParentID, st.Archived, st.PhotoRef).Scan(&st.ID)
	if err != nil {
		return models.Student{}, mapErr(err)
	}
	return st, nil
}

func (s *Store) GetStudent(ctx context.Context, id int64) (models.Student, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	var st models.Student
	err := s.db.QueryRowContext(ctx, `
		SELECT id, first_name, last_name, birth_date, class_label, parent_id, archived, photo_ref
		FROM students WHERE id = $1
	`, id).Scan(&st.ID, &st.FirstName, &st.LastName, &st.BirthDate, &st.ClassLabel, &st.ParentID, &st.Archived, &st.PhotoRef)
	if err != nil {
		return models.Student{}, mapErr(err)
	}
	return st, nil
}

func (s *Store) ListActiveStudentsByClass(ctx context.Context, classLabel string) ([]models.Student, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, first_name, last_name, birth_date, class_label, parent_id, archived, photo_ref
		FROM students
		WHERE NOT archived
		  AND lower(btrim(class_label)) = lower(btrim($1))
		ORDER BY id
	`, classLabel)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make([]models.Student, 0)
	for rows.Next() {
		var st models.Student
		if err := rows.Scan(&st.ID, &st.FirstName, &st.LastName, &st.BirthDate, &st.ClassLabel, &st.ParentID, &st.Archived, &st.PhotoRef); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *Store) SetStudentArchived(ctx context.Context, id int64, archived bool) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `UPDATE students SET archived = $1 WHERE id = $2`, archived, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

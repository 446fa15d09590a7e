package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Spok95/school-portal/internal/app"
	"github.com/Spok95/school-portal/internal/config"
	"github.com/Spok95/school-portal/internal/jobs"
	"github.com/Spok95/school-portal/internal/logging"
	"github.com/Spok95/school-portal/internal/observability"
	"github.com/Spok95/school-portal/internal/portal"
	"github.com/Spok95/school-portal/internal/push"
	"github.com/Spok95/school-portal/internal/store"
	"github.com/Spok95/school-portal/internal/store/memory"
	"github.com/Spok95/school-portal/internal/store/postgres"
)

const release = "school-portal@dev"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("нет .env, используем переменные окружения")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("конфигурация: %v", err)
	}

	lg, err := logging.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("логгер: %v", err)
	}
	defer lg.Closer()

	flush, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, release)
	if err != nil {
		lg.Sugar.Warnw("sentry не инициализирован", "err", err)
	}
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		st   store.Store
		ping func(context.Context) error
	)
	switch cfg.StoreKind {
	case "memory":
		st = memory.New()
	default:
		pg, err := postgres.Open(cfg.DatabaseURL)
		if err != nil {
			lg.Sugar.Fatalw("подключение к БД", "err", err)
		}
		if err := pg.Migrate(); err != nil {
			lg.Sugar.Fatalw("миграция", "err", err)
		}
		st = pg
		ping = func(ctx context.Context) error { return pg.DB().PingContext(ctx) }
	}
	defer func() { _ = st.Close() }()

	pusher, err := push.New(cfg.BotToken, cfg.AdminChatIDs)
	if err != nil {
		lg.Sugar.Warnw("пуш-канал не запущен", "err", err)
	}

	svc := portal.New(st, lg.Sugar, cfg.AbsenceThreshold, pusher, cfg.Location)

	app.StartHTTP(ctx, cfg.HTTPAddr, ping, svc, lg.Sugar)

	runner := jobs.New(ctx, lg.Sugar)
	runner.Every(12*time.Hour, "notif_retention",
		jobs.NotificationRetention(st, lg.Sugar, time.Duration(cfg.NotifRetentionDays)*24*time.Hour))

	lg.Sugar.Infow("портал запущен",
		"store", cfg.StoreKind,
		"addr", cfg.HTTPAddr,
		"threshold", cfg.AbsenceThreshold,
	)

	<-ctx.Done()
	lg.Sugar.Infow("остановка по сигналу")
}

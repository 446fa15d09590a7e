package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	DatabaseURL        string
	StoreKind          string // postgres|memory
	AbsenceThreshold   int    // порог повышенного алерта по отсутствиям
	HTTPAddr           string
	LogLevel           string
	Env                string // dev|prod
	SentryDSN          string
	BotToken           string  // пусто — пуш-канал выключен
	AdminChatIDs       []int64 // получатели пуш-алертов
	NotifRetentionDays int
	Location           *time.Location
}

func Load() (*Config, error) {
	tz := getenv("TZ", "Europe/Paris")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.Local
	}

	adminIDs, err := parseIDs(os.Getenv("ADMIN_CHAT_IDS"))
	if err != nil {
		return nil, fmt.Errorf("ADMIN_CHAT_IDS: %w", err)
	}

	threshold, err := getenvInt("ABSENCE_ALERT_THRESHOLD", 3)
	if err != nil {
		return nil, err
	}
	retention, err := getenvInt("NOTIF_RETENTION_DAYS", 90)
	if err != nil {
		return nil, err
	}

	storeKind := getenv("STORE", "postgres")
	cfg := &Config{
		StoreKind:          storeKind,
		AbsenceThreshold:   threshold,
		HTTPAddr:           getenv("HTTP_ADDR", ":8080"),
		LogLevel:           getenv("LOG_LEVEL", "info"),
		Env:                getenv("ENV", "dev"),
		SentryDSN:          os.Getenv("SENTRY_DSN"),
		BotToken:           os.Getenv("BOT_TOKEN"),
		AdminChatIDs:       adminIDs,
		NotifRetentionDays: retention,
		Location:           loc,
	}
	if storeKind == "postgres" {
		cfg.DatabaseURL = mustEnv("DATABASE_URL")
	}
	return cfg, nil
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("required env " + k + " is empty")
	}
	return v
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return n, nil
}

func parseIDs(s string) ([]int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad id %q: %w", p, err)
		}
		out = append(out, n)
	}
	return out, nil
}

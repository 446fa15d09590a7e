package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/Spok95/school-portal/internal/ctxutil"
	"github.com/Spok95/school-portal/internal/export"
	"github.com/Spok95/school-portal/internal/metrics"
	"github.com/Spok95/school-portal/internal/portal"
	"github.com/Spok95/school-portal/internal/store"
)

type HTTPServer struct {
	srv *http.Server
}

// StartHTTP — служебный сервер: health, метрики и тонкое чтение/ack журнала
// уведомлений (его опрашивает UI). Остальной REST живёт во внешнем слое.
func StartHTTP(ctx context.Context, addr string, ping func(context.Context) error, svc *portal.Service, log *zap.SugaredLogger) *HTTPServer {
	srv := &http.Server{Addr: addr, Handler: logRequests(log, newMux(ping, svc, log))}

	go func() {
		_ = srv.ListenAndServe() // закрываем аккуратно при Shutdown
	}()

	go func() {
		<-ctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shCtx)
	}()

	return &HTTPServer{srv: srv}
}

func newMux(ping func(context.Context) error, svc *portal.Service, log *zap.SugaredLogger) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if ping != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 800*time.Millisecond)
			defer cancel()
			t0 := time.Now()
			if err := ping(ctx); err != nil {
				http.Error(w, "db not ok: "+err.Error(), http.StatusServiceUnavailable)
				return
			}
			metrics.ObserveDBPing(time.Since(t0))
		}
		_, _ = w.Write([]byte("ok"))
	})

	mux.Handle("/metrics", metrics.Handler())

	mux.HandleFunc("GET /notifications", func(w http.ResponseWriter, r *http.Request) {
		var userID *int64
		if v := r.URL.Query().Get("user_id"); v != "" {
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				http.Error(w, "bad user_id", http.StatusBadRequest)
				return
			}
			userID = &id
		}
		ns, err := svc.ListNotifications(r.Context(), userID)
		if err != nil {
			log.Errorw("список уведомлений", "err", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(ns)
	})

	mux.HandleFunc("POST /notifications/read", func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
		if err != nil {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		if err := svc.MarkNotificationRead(r.Context(), id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				http.Error(w, "not found", http.StatusNotFound)
				return
			}
			log.Errorw("пометка уведомления", "id", id, "err", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("POST /notifications/read-all", func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
		if err != nil {
			http.Error(w, "bad user_id", http.StatusBadRequest)
			return
		}
		if err := svc.MarkAllRead(r.Context(), userID); err != nil {
			log.Errorw("пометка всех уведомлений", "user", userID, "err", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	// выгрузка журнала для админ-экранов
	mux.HandleFunc("GET /export/notifications.xlsx", func(w http.ResponseWriter, r *http.Request) {
		ns, err := svc.ListNotifications(r.Context(), nil)
		if err != nil {
			log.Errorw("выгрузка журнала", "err", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		wb, err := export.NewWorkbook([]export.SheetSpec{export.NotificationsSheet(ns)})
		if err != nil {
			log.Errorw("сборка книги", "err", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="notifications.xlsx"`)
		if err := wb.File.Write(w); err != nil {
			log.Errorw("отдача книги", "err", err)
		}
	})

	mux.HandleFunc("GET /export/attendance.xlsx", func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.URL.Query().Get("student_id"), 10, 64)
		if err != nil {
			http.Error(w, "bad student_id", http.StatusBadRequest)
			return
		}
		st, recap, err := svc.AttendanceRecap(r.Context(), id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				http.Error(w, "not found", http.StatusNotFound)
				return
			}
			log.Errorw("выгрузка посещаемости", "student", id, "err", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		wb, err := export.NewWorkbook([]export.SheetSpec{export.AttendanceSheet(st, recap)})
		if err != nil {
			log.Errorw("сборка книги", "err", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="attendance.xlsx"`)
		if err := wb.File.Write(w); err != nil {
			log.Errorw("отдача книги", "err", err)
		}
	})

	return mux
}

// logRequests размечает контекст (операция, userID из запроса) и пишет
// access-лог на debug-уровне.
func logRequests(log *zap.SugaredLogger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := ctxutil.WithOp(r.Context(), r.Method+" "+r.URL.Path)
		if v := r.URL.Query().Get("user_id"); v != "" {
			if id, err := strconv.ParseInt(v, 10, 64); err == nil {
				ctx = ctxutil.WithUserID(ctx, id)
			}
		}
		t0 := time.Now()
		next.ServeHTTP(w, r.WithContext(ctx))

		op, _ := ctxutil.Op(ctx)
		if id, ok := ctxutil.UserID(ctx); ok {
			log.Debugw("http", "op", op, "user", id, "dur", time.Since(t0))
			return
		}
		log.Debugw("http", "op", op, "dur", time.Since(t0))
	})
}

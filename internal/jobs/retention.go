package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Spok95/school-portal/internal/store"
)

// NotificationRetention — очистка прочитанных уведомлений старше ttl.
// Журнал append-only, поэтому единственный способ не дать ему распухнуть —
// периодический вынос уже прочитанного.
func NotificationRetention(st store.Store, log *zap.SugaredLogger, ttl time.Duration) Job {
	return func(ctx context.Context) error {
		n, err := st.PurgeReadNotificationsBefore(ctx, time.Now().UTC().Add(-ttl))
		if err != nil {
			return err
		}
		if n > 0 {
			log.Infow("журнал уведомлений очищен", "removed", n)
		}
		return nil
	}
}

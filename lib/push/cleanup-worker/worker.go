package pushcleanupworker

import (
	"context"
	"party-find-backend/config"
	"party-find-backend/db"
	pushdatastore "party-find-backend/lib/push/data-store"
	baseworker "party-find-backend/lib/utils/base-worker"
	initchecker "party-find-backend/lib/utils/init-checker"
	"time"
)

const firstRunDelay = time.Minute

// StartWorker removes notifications nobody came online to receive.
func StartWorker(ctx context.Context) {
	retention := time.Duration(config.Conf.Push.RetentionDays) * 24 * time.Hour
	interval := time.Duration(config.Conf.Push.CleanupIntervalMinutes) * time.Minute
	w := NewInstance(pushdatastore.NewInstance(db.DB), retention, interval, time.Now)
	go w.Run(ctx, w.Cleanup)
}

func NewInstance(store pushdatastore.Provider, retention, interval time.Duration, now func() time.Time) *Worker {
	w := &Worker{
		BaseImpl:  baseworker.NewInstance("push_cleanup", firstRunDelay, interval),
		store:     store,
		retention: retention,
		now:       now,
	}
	initchecker.CheckInit(
		"store", w.store,
	)
	return w
}

type Worker struct {
	*baseworker.BaseImpl
	store     pushdatastore.Provider
	retention time.Duration
	now       func() time.Time
}

func (w *Worker) Cleanup(ctx context.Context) {
	before := w.now().Add(-w.retention)
	count, err := w.store.DeleteOlderThan(ctx, before)
	if err != nil {
		w.GetLogger().WithError(err).Error("error deleting stale notifications")
		return
	}
	if count > 0 {
		w.GetLogger().WithField("count", count).Info("stale notifications deleted")
	}
}

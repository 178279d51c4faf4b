package services

import (
	"context"
	"sync"
	"time"

	"ff-portal/logger"
	"ff-portal/models"
	"ff-portal/rules"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StatusWatcher re-derives tournament statuses on a schedule. Derived status
// is never stored, so the only way subscribers learn that a match went live
// is this periodic check.
type StatusWatcher struct {
	DB  *gorm.DB
	Hub *ChangeHub

	mu   sync.Mutex
	last map[string]models.MatchStatus
	now  func() time.Time
}

func NewStatusWatcher(db *gorm.DB, hub *ChangeHub) *StatusWatcher {
	return &StatusWatcher{DB: db, Hub: hub, last: map[string]models.MatchStatus{}, now: time.Now}
}

// Check returns the ids whose derived status moved since the previous call
// and publishes a tournaments change when there are any.
func (w *StatusWatcher) Check(ctx context.Context) ([]string, error) {
	var rows []struct {
		ID        string
		StartTime int64
		Status    models.MatchStatus
	}
	if err := w.DB.WithContext(ctx).Model(&models.Tournament{}).Select("id", "start_time", "status").Find(&rows).Error; err != nil {
		return nil, err
	}

	now := w.now()
	w.mu.Lock()
	current := make(map[string]models.MatchStatus, len(rows))
	var changed []string
	for _, r := range rows {
		st := rules.DeriveStatus(r.StartTime, r.Status, now)
		current[r.ID] = st
		if prev, ok := w.last[r.ID]; ok && prev != st {
			changed = append(changed, r.ID)
		}
	}
	w.last = current
	w.mu.Unlock()

	if len(changed) > 0 {
		logger.Info("[Scheduler] tournament status changed", zap.Strings("tournament_ids", changed))
		w.Hub.Publish(TopicTournaments, "")
	}
	return changed, nil
}

// Tick runs one scheduled pass: a clock tick for clients plus a status check.
func (w *StatusWatcher) Tick(ctx context.Context) {
	w.Hub.Publish(TopicTick, "")
	if _, err := w.Check(ctx); err != nil {
		logger.Error("[Scheduler] status check failed", zap.Error(err))
	}
}

// StartStatusScheduler runs w.Tick every interval until the returned
// scheduler is shut down.
func StartStatusScheduler(w *StatusWatcher, interval time.Duration) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			w.Tick(context.Background())
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, err
	}
	sched.Start()
	return sched, nil
}

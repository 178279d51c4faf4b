package workers

import (
	"context"
	"time"

	"ff-portal/logger"
	"ff-portal/models"
	"ff-portal/services"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// watchedTable is one table behind a topic. owner names the column holding
// the user a row belongs to; it is empty for collections everyone sees.
type watchedTable struct {
	model any
	owner string
}

// watchedCollection ties a hub topic to the tables that back it.
type watchedCollection struct {
	topic  services.Topic
	tables []watchedTable
}

var watchedCollections = []watchedCollection{
	{services.TopicProfile, []watchedTable{{&models.UserProfile{}, "id"}}},
	{services.TopicTournaments, []watchedTable{{&models.Tournament{}, ""}, {&models.PlayerRecord{}, ""}}},
	{services.TopicTransactions, []watchedTable{{&models.Transaction{}, "user_id"}}},
	{services.TopicMessages, []watchedTable{{&models.SupportMessage{}, "user_id"}}},
	{services.TopicNotices, []watchedTable{{&models.Notice{}, ""}}},
	{services.TopicSettings, []watchedTable{{&models.AdminSettings{}, ""}}},
	{services.TopicMarquee, []watchedTable{{&models.Marquee{}, ""}}},
}

// fingerprint identifies the state of one table: its row count and the most
// recent updated_at. Inserts, updates and deletes all move it.
type fingerprint struct {
	rows    int64
	updated time.Time
}

// ChangePoller notices writes made directly in the database by processes
// other than this server and forwards them to the change hub. Writes the
// server already announced on the hub are not published again.
type ChangePoller struct {
	db       *gorm.DB
	hub      *services.ChangeHub
	interval time.Duration
	seen     map[string]fingerprint
	lastPoll time.Time
}

func NewChangePoller(db *gorm.DB, hub *services.ChangeHub, interval time.Duration) *ChangePoller {
	return &ChangePoller{
		db:       db,
		hub:      hub,
		interval: interval,
		seen:     map[string]fingerprint{},
	}
}

func (p *ChangePoller) Start(ctx context.Context) {
	logger.Info("🔁 Starting change poller", zap.Duration("interval", p.interval))
	go p.run(ctx)
}

func (p *ChangePoller) run(ctx context.Context) {
	// First pass only records baselines.
	p.Poll(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.Poll(ctx)
		case <-ctx.Done():
			logger.Info("⏹️ Change poller stopped")
			return
		}
	}
}

// Poll compares every watched table against its last fingerprint and
// returns the topics it published.
func (p *ChangePoller) Poll(ctx context.Context) []services.Topic {
	started := time.Now()
	var published []services.Topic
	for _, wc := range watchedCollections {
		if p.pollCollection(ctx, wc) {
			published = append(published, wc.topic)
		}
	}
	p.lastPoll = started
	return published
}

// pollCollection publishes wc's topic for every change the hub has not
// announced since the previous poll. Changes to owned rows go to their
// owners; deletes and shared tables go to everyone.
func (p *ChangePoller) pollCollection(ctx context.Context, wc watchedCollection) bool {
	owners := map[string]time.Time{}
	broadcast := false
	var newest time.Time

	for _, table := range wc.tables {
		name, fp, err := p.fingerprint(ctx, table.model)
		if err != nil {
			logger.Warn("[POLL] fingerprint failed", zap.String("topic", string(wc.topic)), zap.Error(err))
			continue
		}
		prev, known := p.seen[name]
		p.seen[name] = fp
		if !known || (prev.rows == fp.rows && prev.updated.Equal(fp.updated)) {
			continue
		}
		if fp.updated.After(newest) {
			newest = fp.updated
		}
		if table.owner == "" || fp.rows < prev.rows {
			broadcast = true
			continue
		}
		changed, err := p.changedOwners(ctx, table, prev.updated)
		if err != nil || len(changed) == 0 {
			if err != nil {
				logger.Warn("[POLL] owner lookup failed", zap.String("topic", string(wc.topic)), zap.Error(err))
			}
			broadcast = true
			continue
		}
		for owner, at := range changed {
			if at.After(owners[owner]) {
				owners[owner] = at
			}
		}
	}

	if broadcast {
		if p.announced(wc.topic, "", newest) {
			return false
		}
		logger.Debug("[POLL] external change detected", zap.String("topic", string(wc.topic)))
		p.hub.Publish(wc.topic, "")
		return true
	}

	sent := false
	for owner, at := range owners {
		if p.announced(wc.topic, owner, at) {
			continue
		}
		logger.Debug("[POLL] external change detected",
			zap.String("topic", string(wc.topic)),
			zap.String("user_id", owner))
		p.hub.Publish(wc.topic, owner)
		sent = true
	}
	return sent
}

// announced reports whether the hub published topic for userID after the
// previous poll and no earlier than the write at. Snapshots are built after
// the event is received, so such a subscriber has already seen the write.
func (p *ChangePoller) announced(topic services.Topic, userID string, at time.Time) bool {
	last := p.hub.LastPublished(topic, userID)
	return last.After(p.lastPoll) && !at.After(last)
}

// changedOwners returns the owners of rows written after since, with each
// owner's latest write.
func (p *ChangePoller) changedOwners(ctx context.Context, table watchedTable, since time.Time) (map[string]time.Time, error) {
	var rows []struct {
		Owner     string
		UpdatedAt time.Time
	}
	err := p.db.WithContext(ctx).Model(table.model).
		Select(table.owner+" AS owner", "updated_at").
		Where("updated_at > ?", since).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	owners := make(map[string]time.Time, len(rows))
	for _, r := range rows {
		if r.UpdatedAt.After(owners[r.Owner]) {
			owners[r.Owner] = r.UpdatedAt
		}
	}
	return owners, nil
}

func (p *ChangePoller) fingerprint(ctx context.Context, table any) (string, fingerprint, error) {
	stmt := &gorm.Statement{DB: p.db}
	if err := stmt.Parse(table); err != nil {
		return "", fingerprint{}, err
	}
	name := stmt.Schema.Table

	var fp fingerprint
	if err := p.db.WithContext(ctx).Model(table).Count(&fp.rows).Error; err != nil {
		return name, fp, err
	}

	var latest struct {
		UpdatedAt time.Time
	}
	err := p.db.WithContext(ctx).Model(table).
		Select("updated_at").
		Order("updated_at DESC").
		Limit(1).
		Scan(&latest).Error
	if err != nil {
		return name, fp, err
	}
	fp.updated = latest.UpdatedAt
	return name, fp, nil
}

package services

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ff-portal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// StreamService pushes full collection snapshots to subscribers over SSE.
type StreamService struct {
	Hub         *ChangeHub
	Identity    IdentityProvider
	Tournaments *TournamentService
	Wallet      *WalletService
	Support     *SupportService
	Content     *ContentService
	Accounts    *AccountService
	KeepAlive   time.Duration
}

func NewStreamService(hub *ChangeHub, identity IdentityProvider, t *TournamentService, w *WalletService, s *SupportService, c *ContentService, a *AccountService) *StreamService {
	return &StreamService{
		Hub:         hub,
		Identity:    identity,
		Tournaments: t,
		Wallet:      w,
		Support:     s,
		Content:     c,
		Accounts:    a,
		KeepAlive:   15 * time.Second,
	}
}

// Snapshot builds the current contents of topic as seen by viewer.
func (s *StreamService) Snapshot(ctx context.Context, viewer Viewer, topic Topic) (any, error) {
	switch topic {
	case TopicProfile:
		return s.Accounts.Profile(ctx, viewer)
	case TopicTournaments:
		return s.Tournaments.List(ctx, viewer, ViewAll)
	case TopicTransactions:
		return s.Wallet.Transactions(ctx, viewer)
	case TopicMessages:
		return s.Support.Messages(ctx, viewer)
	case TopicNotices:
		return s.Content.Notices(ctx)
	case TopicSettings:
		return s.Content.Settings(ctx)
	case TopicMarquee:
		return s.Content.Marquee(ctx)
	case TopicTick:
		return fiber.Map{"now": time.Now().UnixMilli()}, nil
	}
	return nil, fmt.Errorf("unknown topic %q", topic)
}

// relevant reports whether ev concerns viewer. Profile changes go only to
// their owner; ledger and support changes also reach administrators.
func relevant(ev ChangeEvent, viewer Viewer) bool {
	if ev.UserID == "" {
		return true
	}
	switch ev.Topic {
	case TopicProfile:
		return ev.UserID == viewer.UserID
	case TopicTransactions, TopicMessages:
		return ev.UserID == viewer.UserID || viewer.IsAdmin()
	}
	return true
}

// sessionEnded reports whether the identity provider no longer accepts the
// viewer's token. A provider that cannot be reached does not end the stream.
func (s *StreamService) sessionEnded(ctx context.Context, viewer Viewer) bool {
	if s.Identity == nil || viewer.Token == "" {
		return false
	}
	_, err := s.Identity.Validate(ctx, viewer.Token)
	var idErr *IdentityError
	if errors.As(err, &idErr) {
		return true
	}
	if err != nil {
		logger.Warn("[STREAM] session check failed", zap.String("user_id", viewer.UserID), zap.Error(err))
	}
	return false
}

func (s *StreamService) writeEvent(ctx context.Context, w *bufio.Writer, viewer Viewer, topic Topic) error {
	data, err := s.Snapshot(ctx, viewer, topic)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", topic, payload)
	return err
}

// StreamUpdates sends every snapshot on connect and then re-sends a
// collection whenever it changes. The session is re-checked on every
// keep-alive so a signed-out or expired token stops receiving data.
func (s *StreamService) StreamUpdates(c *fiber.Ctx) error {
	viewer := ViewerFrom(c)

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		ctx := context.Background()
		sub := s.Hub.Subscribe(viewer.UserID)
		defer s.Hub.Unsubscribe(sub)

		for _, topic := range SnapshotTopics {
			if err := s.writeEvent(ctx, w, viewer, topic); err != nil {
				logger.Warn("[STREAM] initial snapshot failed",
					zap.String("user_id", viewer.UserID),
					zap.String("topic", string(topic)),
					zap.Error(err))
			}
		}
		if err := w.Flush(); err != nil {
			return
		}

		keepAlive := time.NewTicker(s.KeepAlive)
		defer keepAlive.Stop()

		for {
			select {
			case ev, ok := <-sub.Events():
				if !ok {
					return
				}
				if !relevant(ev, viewer) {
					continue
				}
				if err := s.writeEvent(ctx, w, viewer, ev.Topic); err != nil {
					logger.Warn("[STREAM] snapshot failed",
						zap.String("user_id", viewer.UserID),
						zap.String("topic", string(ev.Topic)),
						zap.Error(err))
					continue
				}
				if err := w.Flush(); err != nil {
					return
				}

			case <-keepAlive.C:
				if s.sessionEnded(ctx, viewer) {
					logger.Info("[STREAM] session ended, closing stream", zap.String("user_id", viewer.UserID))
					return
				}
				w.WriteString(":\n\n")
				if err := w.Flush(); err != nil {
					// Client disconnected
					return
				}
			}
		}
	})

	return nil
}

package services

import (
	"context"
	"sync"
	"time"

	"ff-portal/logger"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
)

// Topic names a collection that subscribers receive as a full snapshot.
type Topic string

const (
	TopicProfile      Topic = "profile"
	TopicTournaments  Topic = "tournaments"
	TopicTransactions Topic = "transactions"
	TopicMessages     Topic = "messages"
	TopicNotices      Topic = "notices"
	TopicSettings     Topic = "settings"
	TopicMarquee      Topic = "marquee"
	TopicTick         Topic = "tick"
)

// SnapshotTopics are sent to every subscriber right after it connects.
var SnapshotTopics = []Topic{
	TopicProfile,
	TopicTournaments,
	TopicTransactions,
	TopicMessages,
	TopicNotices,
	TopicSettings,
	TopicMarquee,
}

// ChangeEvent says that a collection changed. UserID narrows user-scoped
// collections to one owner; empty means everyone.
type ChangeEvent struct {
	Topic  Topic
	UserID string
	At     time.Time
}

type Subscriber struct {
	ID     string
	UserID string
	events chan ChangeEvent
}

func (s *Subscriber) Events() <-chan ChangeEvent { return s.events }

type publishKey struct {
	topic  Topic
	userID string
}

// ChangeHub fans change events out to connected stream subscribers.
type ChangeHub struct {
	clients    map[*Subscriber]bool
	register   chan *Subscriber
	unregister chan *Subscriber
	broadcast  chan ChangeEvent
	done       chan struct{}
	mu         sync.RWMutex

	publishedMu sync.Mutex
	published   map[publishKey]time.Time
}

func NewChangeHub() *ChangeHub {
	return &ChangeHub{
		clients:    make(map[*Subscriber]bool),
		register:   make(chan *Subscriber),
		unregister: make(chan *Subscriber),
		broadcast:  make(chan ChangeEvent, 256),
		done:       make(chan struct{}),
		published:  make(map[publishKey]time.Time),
	}
}

// Run serves registrations and broadcasts until ctx is cancelled, then closes
// every subscriber channel.
func (h *ChangeHub) Run(ctx context.Context) {
	defer func() {
		h.mu.Lock()
		for sub := range h.clients {
			delete(h.clients, sub)
			close(sub.events)
		}
		h.mu.Unlock()
		close(h.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case sub := <-h.register:
			h.mu.Lock()
			h.clients[sub] = true
			total := len(h.clients)
			h.mu.Unlock()
			logger.Debug("[HUB] subscriber connected",
				zap.String("subscriber", sub.ID),
				zap.String("user_id", sub.UserID),
				zap.Int("total", total))

		case sub := <-h.unregister:
			h.mu.Lock()
			if h.clients[sub] {
				delete(h.clients, sub)
				close(sub.events)
			}
			h.mu.Unlock()

		case ev := <-h.broadcast:
			var slow []*Subscriber
			h.mu.RLock()
			for sub := range h.clients {
				select {
				case sub.events <- ev:
				default:
					slow = append(slow, sub)
				}
			}
			h.mu.RUnlock()

			// A subscriber that cannot keep up is dropped; it reconnects and
			// receives fresh snapshots.
			if len(slow) > 0 {
				h.mu.Lock()
				for _, sub := range slow {
					if h.clients[sub] {
						delete(h.clients, sub)
						close(sub.events)
						logger.Warn("[HUB] dropped slow subscriber", zap.String("subscriber", sub.ID))
					}
				}
				h.mu.Unlock()
			}
		}
	}
}

// Subscribe registers a new subscriber. If the hub has stopped the returned
// subscriber's channel is already closed.
func (h *ChangeHub) Subscribe(userID string) *Subscriber {
	id, err := gonanoid.New()
	if err != nil {
		id = time.Now().Format("150405.000000000")
	}
	sub := &Subscriber{ID: id, UserID: userID, events: make(chan ChangeEvent, 32)}
	select {
	case h.register <- sub:
	case <-h.done:
		close(sub.events)
	}
	return sub
}

func (h *ChangeHub) Unsubscribe(sub *Subscriber) {
	select {
	case h.unregister <- sub:
	case <-h.done:
	}
}

// Publish queues an event without blocking the caller.
func (h *ChangeHub) Publish(topic Topic, userID string) {
	ev := ChangeEvent{Topic: topic, UserID: userID, At: time.Now()}
	select {
	case h.broadcast <- ev:
		h.publishedMu.Lock()
		h.published[publishKey{topic, userID}] = ev.At
		h.publishedMu.Unlock()
	default:
		logger.Warn("[HUB] broadcast queue full, event dropped", zap.String("topic", string(topic)))
	}
}

// LastPublished returns when an event for topic that reaches userID was last
// queued, counting broadcasts. It is zero if there was none. An empty userID
// asks about broadcasts only.
func (h *ChangeHub) LastPublished(topic Topic, userID string) time.Time {
	h.publishedMu.Lock()
	defer h.publishedMu.Unlock()
	last := h.published[publishKey{topic, ""}]
	if userID != "" {
		if at := h.published[publishKey{topic, userID}]; at.After(last) {
			last = at
		}
	}
	return last
}

func (h *ChangeHub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

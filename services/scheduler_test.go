package services

import (
	"context"
	"testing"
	"time"

	"ff-portal/models"
)

func TestStatusWatcherReportsTransitions(t *testing.T) {
	db := newTestDB(t)
	hub := newTestHub(t)
	now := time.Now()
	soon := seedTournament(t, db, now.Add(15*time.Minute), 10, 48)
	seedTournament(t, db, now.Add(3*time.Hour), 10, 48)

	w := NewStatusWatcher(db, hub)
	w.now = fixedClock(now)
	if changed, err := w.Check(context.Background()); err != nil || len(changed) != 0 {
		t.Fatalf("baseline got=%v err=%v want none", changed, err)
	}

	sub := hub.Subscribe("")
	defer hub.Unsubscribe(sub)

	w.now = fixedClock(now.Add(6 * time.Minute))
	changed, err := w.Check(context.Background())
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if len(changed) != 1 || changed[0] != soon.ID {
		t.Fatalf("changed got=%v want [%s]", changed, soon.ID)
	}
	select {
	case ev := <-sub.Events():
		if ev.Topic != TopicTournaments {
			t.Fatalf("topic got=%s want=%s", ev.Topic, TopicTournaments)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no tournaments event")
	}

	if changed, _ := w.Check(context.Background()); len(changed) != 0 {
		t.Fatalf("repeat check got=%v want none", changed)
	}
}

func TestStatusWatcherSeesStoredFinish(t *testing.T) {
	db := newTestDB(t)
	now := time.Now()
	tr := seedTournament(t, db, now.Add(3*time.Hour), 10, 48)

	w := NewStatusWatcher(db, newTestHub(t))
	w.now = fixedClock(now)
	w.Check(context.Background())

	if err := db.Model(&models.Tournament{}).Where("id = ?", tr.ID).Update("status", models.StatusFinished).Error; err != nil {
		t.Fatalf("finish: %v", err)
	}
	changed, err := w.Check(context.Background())
	if err != nil || len(changed) != 1 {
		t.Fatalf("changed got=%v err=%v want one", changed, err)
	}
}

func TestTickPublishesClock(t *testing.T) {
	hub := newTestHub(t)
	w := NewStatusWatcher(newTestDB(t), hub)
	sub := hub.Subscribe("")
	defer hub.Unsubscribe(sub)

	w.Tick(context.Background())
	select {
	case ev := <-sub.Events():
		if ev.Topic != TopicTick {
			t.Fatalf("topic got=%s want=%s", ev.Topic, TopicTick)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no tick event")
	}
}

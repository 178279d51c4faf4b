package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"ff-portal/models"
	"ff-portal/rules"

	"gorm.io/gorm"
)

func newTournamentService(t *testing.T, now time.Time) (*TournamentService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc := NewTournamentService(db, newTestHub(t), nil)
	svc.now = fixedClock(now)
	return svc, db
}

func rosterCount(t *testing.T, db *gorm.DB, tournamentID string) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&models.PlayerRecord{}).Where("tournament_id = ?", tournamentID).Count(&n).Error; err != nil {
		t.Fatalf("count roster: %v", err)
	}
	return n
}

func TestJoinDebitsFeeAndAppendsRecord(t *testing.T) {
	now := time.Now()
	svc, db := newTournamentService(t, now)
	seedProfile(t, db, "u1", 100)
	tr := seedTournament(t, db, now.Add(2*time.Hour), 20, 48)

	rec, err := svc.Join(context.Background(), user("u1"), tr.ID, JoinRequest{
		ParticipationType: models.MatchDuo,
		Names:             []string{" Alpha ", "Bravo"},
	})
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if got := balanceOf(t, db, "u1"); got != 60 {
		t.Fatalf("balance got=%d want=60", got)
	}
	if rec.Position != 1 {
		t.Fatalf("position got=%d want=1", rec.Position)
	}
	if rec.Names[0] != "Alpha" || rec.Names[1] != "Bravo" {
		t.Fatalf("names not trimmed: %v", rec.Names)
	}

	got, err := svc.Get(context.Background(), user("u1"), tr.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.JoinedPlayers) != 1 || got.JoinedPlayers[0].UserID != "u1" {
		t.Fatalf("joined players got=%v", got.JoinedPlayers)
	}
	if got.FilledSlots != 1 {
		t.Fatalf("filled slots got=%d want=1", got.FilledSlots)
	}
}

func TestJoinSpendsExactBalance(t *testing.T) {
	now := time.Now()
	svc, db := newTournamentService(t, now)
	seedProfile(t, db, "u1", 100)
	tr := seedTournament(t, db, now.Add(2*time.Hour), 50, 48)

	// Squad would cost 200; Duo costs exactly the balance.
	_, err := svc.Join(context.Background(), user("u1"), tr.ID, JoinRequest{
		ParticipationType: models.MatchSquad,
		Names:             []string{"A", "B", "C", "D"},
	})
	if !errors.Is(err, rules.ErrInsufficientBalance) {
		t.Fatalf("squad got err=%v want=%v", err, rules.ErrInsufficientBalance)
	}

	rec, err := svc.Join(context.Background(), user("u1"), tr.ID, JoinRequest{
		ParticipationType: models.MatchDuo,
		Names:             []string{"Alpha", "Bravo"},
	})
	if err != nil {
		t.Fatalf("duo join: %v", err)
	}
	if got := balanceOf(t, db, "u1"); got != 0 {
		t.Fatalf("balance got=%d want=0", got)
	}
	if n := rosterCount(t, db, tr.ID); n != 1 {
		t.Fatalf("roster got=%d want=1", n)
	}
	if rec.ParticipationType != models.MatchDuo || len(rec.Names) != 2 {
		t.Fatalf("record got=%+v", rec)
	}
}

func TestJoinRejectsBlankNameWithoutWriting(t *testing.T) {
	now := time.Now()
	svc, db := newTournamentService(t, now)
	seedProfile(t, db, "u1", 100)
	tr := seedTournament(t, db, now.Add(2*time.Hour), 20, 48)

	_, err := svc.Join(context.Background(), user("u1"), tr.ID, JoinRequest{
		ParticipationType: models.MatchDuo,
		Names:             []string{"Alpha", ""},
	})
	if !errors.Is(err, rules.ErrBlankPlayerName) {
		t.Fatalf("got err=%v want=%v", err, rules.ErrBlankPlayerName)
	}
	if got := balanceOf(t, db, "u1"); got != 100 {
		t.Fatalf("balance changed: got=%d want=100", got)
	}
	if n := rosterCount(t, db, tr.ID); n != 0 {
		t.Fatalf("roster got=%d want=0", n)
	}
}

func TestJoinRejectsLowBalanceAtomically(t *testing.T) {
	now := time.Now()
	svc, db := newTournamentService(t, now)
	seedProfile(t, db, "u1", 50)
	tr := seedTournament(t, db, now.Add(2*time.Hour), 20, 48)

	_, err := svc.Join(context.Background(), user("u1"), tr.ID, JoinRequest{
		ParticipationType: models.MatchSquad,
		Names:             []string{"A", "B", "C", "D"},
	})
	if !errors.Is(err, rules.ErrInsufficientBalance) {
		t.Fatalf("got err=%v want=%v", err, rules.ErrInsufficientBalance)
	}
	if got := balanceOf(t, db, "u1"); got != 50 {
		t.Fatalf("balance got=%d want=50", got)
	}
	if n := rosterCount(t, db, tr.ID); n != 0 {
		t.Fatalf("roster got=%d want=0", n)
	}
}

func TestJoinTwiceIsRejected(t *testing.T) {
	now := time.Now()
	svc, db := newTournamentService(t, now)
	seedProfile(t, db, "u1", 100)
	tr := seedTournament(t, db, now.Add(2*time.Hour), 10, 48)

	req := JoinRequest{ParticipationType: models.MatchSolo, Names: []string{"Alpha"}}
	if _, err := svc.Join(context.Background(), user("u1"), tr.ID, req); err != nil {
		t.Fatalf("first join: %v", err)
	}
	_, err := svc.Join(context.Background(), user("u1"), tr.ID, req)
	if !errors.Is(err, rules.ErrAlreadyJoined) {
		t.Fatalf("got err=%v want=%v", err, rules.ErrAlreadyJoined)
	}
	if got := balanceOf(t, db, "u1"); got != 90 {
		t.Fatalf("second join charged: balance got=%d want=90", got)
	}
}

func TestCapacityCountsTeamsNotNames(t *testing.T) {
	now := time.Now()
	svc, db := newTournamentService(t, now)
	tr := seedTournament(t, db, now.Add(2*time.Hour), 10, 2)
	for _, id := range []string{"u1", "u2", "u3"} {
		seedProfile(t, db, id, 100)
	}

	squad := JoinRequest{ParticipationType: models.MatchSquad, Names: []string{"A", "B", "C", "D"}}
	for _, id := range []string{"u1", "u2"} {
		if _, err := svc.Join(context.Background(), user(id), tr.ID, squad); err != nil {
			t.Fatalf("join %s: %v", id, err)
		}
	}
	_, err := svc.Join(context.Background(), user("u3"), tr.ID, JoinRequest{ParticipationType: models.MatchSolo, Names: []string{"Solo"}})
	if !errors.Is(err, rules.ErrTournamentFull) {
		t.Fatalf("got err=%v want=%v", err, rules.ErrTournamentFull)
	}
	if got := balanceOf(t, db, "u3"); got != 100 {
		t.Fatalf("rejected join charged: balance got=%d want=100", got)
	}
	if n := rosterCount(t, db, tr.ID); n != 2 {
		t.Fatalf("roster got=%d want=2", n)
	}
}

func TestJoinFinishedTournamentIsRejected(t *testing.T) {
	now := time.Now()
	svc, db := newTournamentService(t, now)
	seedProfile(t, db, "u1", 100)
	early := seedTournament(t, db, now.Add(3*time.Hour), 10, 48)
	past := seedTournament(t, db, now.Add(-time.Hour), 10, 48)

	if _, err := svc.SetStatus(context.Background(), early.ID, models.StatusFinished); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	req := JoinRequest{ParticipationType: models.MatchSolo, Names: []string{"Alpha"}}
	for _, id := range []string{early.ID, past.ID} {
		if _, err := svc.Join(context.Background(), user("u1"), id, req); !errors.Is(err, rules.ErrTournamentClosed) {
			t.Fatalf("tournament %s: got err=%v want=%v", id, err, rules.ErrTournamentClosed)
		}
	}
	if got := balanceOf(t, db, "u1"); got != 100 {
		t.Fatalf("balance got=%d want=100", got)
	}
}

func TestJoinUnknownTournament(t *testing.T) {
	svc, db := newTournamentService(t, time.Now())
	seedProfile(t, db, "u1", 100)

	_, err := svc.Join(context.Background(), user("u1"), "missing", JoinRequest{ParticipationType: models.MatchSolo, Names: []string{"A"}})
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("got err=%v want NotFoundError", err)
	}
}

func TestRoomCredentialsVisibility(t *testing.T) {
	now := time.Now()
	svc, db := newTournamentService(t, now)
	seedProfile(t, db, "u1", 100)
	seedProfile(t, db, "u2", 100)
	live := seedTournament(t, db, now.Add(5*time.Minute), 10, 48)

	if _, err := svc.Join(context.Background(), user("u1"), live.ID, JoinRequest{ParticipationType: models.MatchSolo, Names: []string{"A"}}); err != nil {
		t.Fatalf("Join: %v", err)
	}

	joined, _ := svc.Get(context.Background(), user("u1"), live.ID)
	if joined.DerivedStatus != models.StatusLive || joined.RoomID != "778899" || joined.RoomPass != "ff123" {
		t.Fatalf("joined live viewer got status=%s room=%q pass=%q", joined.DerivedStatus, joined.RoomID, joined.RoomPass)
	}
	other, _ := svc.Get(context.Background(), user("u2"), live.ID)
	if other.RoomID != "" || other.RoomPass != "" {
		t.Fatalf("room leaked to non-member: %q/%q", other.RoomID, other.RoomPass)
	}
	boss, _ := svc.Get(context.Background(), admin("boss"), live.ID)
	if boss.RoomID == "" {
		t.Fatal("admin should see room credentials")
	}

	svc.now = fixedClock(now.Add(-time.Hour))
	early, _ := svc.Get(context.Background(), user("u1"), live.ID)
	if early.DerivedStatus != models.StatusUpcoming || early.RoomID != "" {
		t.Fatalf("upcoming match exposed room: status=%s room=%q", early.DerivedStatus, early.RoomID)
	}
}

func TestListViews(t *testing.T) {
	now := time.Now()
	svc, db := newTournamentService(t, now)
	seedProfile(t, db, "u1", 100)
	upcoming := seedTournament(t, db, now.Add(2*time.Hour), 10, 48)
	seedTournament(t, db, now.Add(-2*time.Hour), 10, 48)

	all, err := svc.List(context.Background(), user("u1"), ViewAll)
	if err != nil || len(all) != 2 {
		t.Fatalf("all got=%d err=%v want=2", len(all), err)
	}
	home, _ := svc.List(context.Background(), user("u1"), ViewHome)
	if len(home) != 1 || home[0].ID != upcoming.ID {
		t.Fatalf("home got=%v want only %s", home, upcoming.ID)
	}
	mine, _ := svc.List(context.Background(), user("u1"), ViewMine)
	if len(mine) != 0 {
		t.Fatalf("mine got=%d want=0", len(mine))
	}

	if _, err := svc.Join(context.Background(), user("u1"), upcoming.ID, JoinRequest{ParticipationType: models.MatchSolo, Names: []string{"A"}}); err != nil {
		t.Fatalf("Join: %v", err)
	}
	mine, _ = svc.List(context.Background(), user("u1"), ViewMine)
	if len(mine) != 1 || mine[0].ID != upcoming.ID {
		t.Fatalf("mine got=%v want %s", mine, upcoming.ID)
	}
}

func TestQuote(t *testing.T) {
	now := time.Now()
	svc, db := newTournamentService(t, now)
	seedProfile(t, db, "u1", 50)
	tr := seedTournament(t, db, now.Add(2*time.Hour), 20, 48)

	q, err := svc.Quote(context.Background(), user("u1"), tr.ID, models.MatchSquad)
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if q.Slots != 4 || q.Fee != 80 || q.Affordable {
		t.Fatalf("quote got=%+v want slots=4 fee=80 affordable=false", q)
	}
	if _, err := svc.Quote(context.Background(), user("u1"), tr.ID, "Trio"); !errors.Is(err, rules.ErrInvalidMatchType) {
		t.Fatalf("got err=%v want=%v", err, rules.ErrInvalidMatchType)
	}
}

func TestAdminTournamentLifecycle(t *testing.T) {
	now := time.Now()
	svc, db := newTournamentService(t, now)

	_, err := svc.Create(context.Background(), TournamentInput{Title: "", Type: models.MatchSolo, StartTime: 1, MaxPlayers: 10}, nil)
	var bad *invalidInput
	if !errors.As(err, &bad) {
		t.Fatalf("empty title got err=%v want invalidInput", err)
	}

	tr, err := svc.Create(context.Background(), TournamentInput{
		Title:        "Kalahari Duo Cup",
		Type:         models.MatchDuo,
		BaseEntryFee: 15,
		StartTime:    now.Add(time.Hour).UnixMilli(),
		MaxPlayers:   24,
		Map:          "Kalahari",
	}, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	fee := int64(25)
	updated, err := svc.Update(context.Background(), tr.ID, TournamentPatch{BaseEntryFee: &fee})
	if err != nil || updated.BaseEntryFee != 25 {
		t.Fatalf("Update got=%+v err=%v", updated, err)
	}

	room, err := svc.SetRoom(context.Background(), tr.ID, " 1234 ", "pw")
	if err != nil || room.RoomID != "1234" {
		t.Fatalf("SetRoom got=%+v err=%v", room, err)
	}

	seedProfile(t, db, "u1", 100)
	if _, err := svc.Join(context.Background(), user("u1"), tr.ID, JoinRequest{ParticipationType: models.MatchSolo, Names: []string{"A"}}); err != nil {
		t.Fatalf("Join: %v", err)
	}
	kills, rank := 7, 1
	rec, err := svc.RecordResult(context.Background(), tr.ID, "u1", ResultInput{Kills: &kills, Rank: &rank})
	if err != nil || *rec.Kills != 7 || *rec.Rank != 1 {
		t.Fatalf("RecordResult got=%+v err=%v", rec, err)
	}

	if _, err := svc.SetStatus(context.Background(), tr.ID, "Paused"); err == nil {
		t.Fatal("unknown status accepted")
	}
	cleared, err := svc.SetStatus(context.Background(), tr.ID, "")
	if err != nil || cleared.Status != "" {
		t.Fatalf("clear status got=%+v err=%v", cleared, err)
	}

	if err := svc.Delete(context.Background(), tr.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if n := rosterCount(t, db, tr.ID); n != 0 {
		t.Fatalf("roster left behind: %d", n)
	}
	if err := svc.Delete(context.Background(), tr.ID); err == nil {
		t.Fatal("second delete should report not found")
	}
}

func TestStatusChangeNeverTouchesBalance(t *testing.T) {
	now := time.Now()
	svc, db := newTournamentService(t, now)
	seedProfile(t, db, "u1", 100)
	tr := seedTournament(t, db, now.Add(time.Hour), 10, 48)
	if _, err := svc.Join(context.Background(), user("u1"), tr.ID, JoinRequest{ParticipationType: models.MatchSolo, Names: []string{"A"}}); err != nil {
		t.Fatalf("Join: %v", err)
	}
	if _, err := svc.SetStatus(context.Background(), tr.ID, models.StatusFinished); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if got := balanceOf(t, db, "u1"); got != 90 {
		t.Fatalf("balance got=%d want=90", got)
	}
}

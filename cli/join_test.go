package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ff-portal/client"
	"ff-portal/models"
	"ff-portal/shell"
)

type fakePortal struct {
	t        *testing.T
	joinCode int
	joins    []map[string]any
}

func (f *fakePortal) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/s/me":
		fmt.Fprint(w, `{"id":"u1","name":"Rafi","balance":100}`)
	case "/s/tournaments":
		start := time.Now().Add(24 * time.Hour).UnixMilli()
		fmt.Fprintf(w, `[{"id":"t1","title":"Clash","type":"Squad","base_entry_fee":50,"max_players":4,"start_time":%d}]`, start)
	case "/s/wallet":
		fmt.Fprint(w, `{"balance":100,"transactions":[]}`)
	case "/s/settings":
		fmt.Fprint(w, `{"bkash_number":"017","nagad_number":"019"}`)
	case "/s/support/messages", "/s/notices":
		fmt.Fprint(w, `[]`)
	case "/s/marquee":
		fmt.Fprint(w, `{"text":"welcome"}`)
	case "/s/tournaments/t1/join":
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			f.t.Errorf("decode join: %v", err)
		}
		f.joins = append(f.joins, body)
		if f.joinCode != 0 {
			w.WriteHeader(f.joinCode)
			fmt.Fprint(w, `{"error":"already joined this tournament","code":"already_joined"}`)
			return
		}
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id":"r1","user_id":"u1","position":1}`)
	default:
		f.t.Errorf("unexpected request %s", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	}
}

func signedInApp(t *testing.T, portal *fakePortal) (*app, *bytes.Buffer) {
	srv := httptest.NewServer(portal)
	t.Cleanup(srv.Close)

	var out bytes.Buffer
	a := newAppWith(t.TempDir(), Settings{Server: srv.URL, Lang: "en"}, &out)
	a.signIn(&shell.Session{Token: "tok", UserID: "u1"})
	if err := a.refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	return a, &out
}

func TestJoinChecksLocallyFirst(t *testing.T) {
	cases := []struct {
		name  string
		typ   models.MatchType
		names []string
		want  string
	}{
		{"blank name", models.MatchDuo, []string{"Rafi"}, "Enter all player names!"},
		{"too many names", models.MatchSolo, []string{"Rafi", "Nila"}, "Enter all player names!"},
		{"over balance", models.MatchSquad, []string{"a", "b", "c", "d"}, "Balance is not enough!"},
		{"unknown tournament", models.MatchSolo, []string{"Rafi"}, "Tournament not found!"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			portal := &fakePortal{t: t}
			a, _ := signedInApp(t, portal)
			id := "t1"
			if tc.name == "unknown tournament" {
				id = "nope"
			}
			err := a.join(context.Background(), id, tc.typ, tc.names)
			if err == nil || err.Error() != tc.want {
				t.Fatalf("error got=%v want=%s", err, tc.want)
			}
			if len(portal.joins) != 0 {
				t.Fatalf("join request sent: %v", portal.joins)
			}
		})
	}
}

func TestJoinSendsRoster(t *testing.T) {
	portal := &fakePortal{t: t}
	a, out := signedInApp(t, portal)

	if err := a.join(context.Background(), "t1", models.MatchDuo, []string{"Rafi", "Nila"}); err != nil {
		t.Fatalf("join: %v", err)
	}
	if len(portal.joins) != 1 {
		t.Fatalf("join requests got=%d want=1", len(portal.joins))
	}
	if got := portal.joins[0]["participation_type"]; got != "Duo" {
		t.Fatalf("type got=%v", got)
	}
	if !strings.Contains(out.String(), "Total fee: ৳100") || !strings.Contains(out.String(), "Joined successfully!") {
		t.Fatalf("output:\n%s", out.String())
	}
	if a.state.Join != nil {
		t.Fatalf("dialog left open: %+v", a.state.Join)
	}
}

func TestJoinShowsServerRejection(t *testing.T) {
	portal := &fakePortal{t: t, joinCode: http.StatusConflict}
	a, _ := signedInApp(t, portal)

	err := a.join(context.Background(), "t1", models.MatchSolo, []string{"Rafi"})
	if err == nil || err.Error() != "You already joined this match!" {
		t.Fatalf("error got=%v", err)
	}
	if a.state.Join == nil || a.state.Join.Submitting {
		t.Fatalf("dialog should be unlocked: %+v", a.state.Join)
	}
}

func TestApplySkipsUnknownTopics(t *testing.T) {
	a := newAppWith(t.TempDir(), Settings{Server: "http://x", Lang: "en"}, &bytes.Buffer{})
	a.apply("marquee", []byte(`{"text":"hello"}`))
	a.apply("bogus", []byte(`{}`))
	if a.state.Marquee != "hello" {
		t.Fatalf("marquee got=%q", a.state.Marquee)
	}
}

func TestFailLocalizesAPIErrors(t *testing.T) {
	a := newAppWith(t.TempDir(), Settings{Server: "http://x", Lang: "en"}, &bytes.Buffer{})
	err := a.fail(fmt.Errorf("wrapped: %w", &client.APIError{Status: 400, Code: "deposit_below_minimum"}))
	if err.Error() != "Minimum deposit is 100 Taka!" {
		t.Fatalf("known code got=%q", err)
	}
	err = a.fail(&client.APIError{Status: 500, Message: "internal error"})
	if err.Error() != "Error: internal error" {
		t.Fatalf("unknown code got=%q", err)
	}
}

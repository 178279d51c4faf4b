package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"ff-portal/models"
	"ff-portal/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type testServer struct {
	t   *testing.T
	app *fiber.App
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "portal.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	hub := services.NewChangeHub()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	identity := services.NewLocalIdentityProvider(db, map[string]bool{"boss@ffportal.com": true})
	accounts := services.NewAccountService(db, identity, hub, "ffportal.com")
	tournaments := services.NewTournamentService(db, hub, nil)
	wallet := services.NewWalletService(db, hub)
	support := services.NewSupportService(db, hub)
	content := services.NewContentService(db, hub)

	app := fiber.New()
	Setup(app, Deps{
		Identity:    identity,
		Accounts:    accounts,
		Tournaments: tournaments,
		Wallet:      wallet,
		Support:     support,
		Content:     content,
		Rewards:     services.NewRewardService(db, hub),
		Stream:      services.NewStreamService(hub, identity, tournaments, wallet, support, content, accounts),
	})
	return &testServer{t: t, app: app}
}

func (s *testServer) do(method, path, token string, body any) (int, map[string]any) {
	s.t.Helper()
	var r io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	return s.send(req, token)
}

func (s *testServer) form(method, path, token string, values url.Values) (int, map[string]any) {
	s.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.send(req, token)
}

func (s *testServer) send(req *http.Request, token string) (int, map[string]any) {
	s.t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	if err != nil {
		s.t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	var out map[string]any
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 && raw[0] == '{' {
		json.Unmarshal(raw, &out)
	}
	return resp.StatusCode, out
}

// register returns the session token and user id of a new account.
func (s *testServer) register(loginID string) (string, string) {
	s.t.Helper()
	status, body := s.do("POST", "/auth/register", "", map[string]string{
		"name":     "Player " + loginID,
		"login_id": loginID,
		"game_id":  "51234567",
		"password": "secret1",
	})
	if status != fiber.StatusCreated {
		s.t.Fatalf("register %s got=%d body=%v", loginID, status, body)
	}
	sess := body["session"].(map[string]any)
	return sess["token"].(string), sess["user_id"].(string)
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	if status, body := s.do("GET", "/healthz", "", nil); status != 200 || body["status"] != "ok" {
		t.Fatalf("healthz got=%d %v", status, body)
	}
}

func TestSessionRequired(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/s/me", "/s/tournaments", "/admin/transactions"} {
		if status, _ := s.do("GET", path, "", nil); status != fiber.StatusUnauthorized {
			t.Fatalf("%s without token got=%d want=401", path, status)
		}
	}
	if status, _ := s.do("GET", "/s/me", "not-a-session", nil); status != fiber.StatusUnauthorized {
		t.Fatalf("bogus token got=%d want=401", status)
	}
	if status, _ := s.do("GET", "/stream", "", nil); status != fiber.StatusBadRequest {
		t.Fatalf("stream without token got=%d want=400", status)
	}
}

func TestAdminRoutesNeedAdminClaim(t *testing.T) {
	s := newTestServer(t)
	userToken, _ := s.register("rafi")
	if status, body := s.do("GET", "/admin/transactions", userToken, nil); status != fiber.StatusForbidden {
		t.Fatalf("user on admin route got=%d body=%v want=403", status, body)
	}

	bossToken, _ := s.register("boss")
	if status, _ := s.do("GET", "/admin/transactions", bossToken, nil); status != fiber.StatusOK {
		t.Fatalf("admin got=%d want=200", status)
	}
	_, me := s.do("GET", "/s/me", bossToken, nil)
	if me["role"] != "admin" {
		t.Fatalf("admin profile role got=%v", me["role"])
	}
}

func TestRegisterAndLoginMessages(t *testing.T) {
	s := newTestServer(t)
	s.register("rafi")

	status, body := s.do("POST", "/auth/register", "", map[string]string{
		"name": "Again", "login_id": "rafi", "game_id": "1", "password": "secret1",
	})
	if status != fiber.StatusConflict || body["error"] != "This user ID is already in use." {
		t.Fatalf("duplicate got=%d %v", status, body)
	}

	status, body = s.do("POST", "/auth/login", "", map[string]string{"login_id": "rafi", "password": "wrong12"})
	if status != fiber.StatusUnauthorized || body["error"] != "Wrong ID or password!" {
		t.Fatalf("wrong password got=%d %v", status, body)
	}

	status, body = s.do("POST", "/auth/login", "", map[string]string{"login_id": "rafi@ffportal.com", "password": "secret1"})
	if status != fiber.StatusOK {
		t.Fatalf("login got=%d %v", status, body)
	}
	token := body["session"].(map[string]any)["token"].(string)
	if status, _ := s.do("POST", "/auth/logout", token, nil); status != fiber.StatusNoContent {
		t.Fatalf("logout got=%d", status)
	}
	if status, _ := s.do("GET", "/s/me", token, nil); status != fiber.StatusUnauthorized {
		t.Fatalf("token after logout got=%d want=401", status)
	}
}

func TestJoinFlow(t *testing.T) {
	s := newTestServer(t)
	bossToken, _ := s.register("boss")
	userToken, userID := s.register("rafi")

	start := time.Now().Add(2 * time.Hour).UnixMilli()
	status, created := s.form("POST", "/admin/tournaments", bossToken, url.Values{
		"title":          {"Bermuda Duo Cup"},
		"type":           {"Duo"},
		"base_entry_fee": {"25"},
		"max_players":    {"12"},
		"start_time":     {strconv.FormatInt(start, 10)},
	})
	if status != fiber.StatusCreated {
		t.Fatalf("create got=%d %v", status, created)
	}
	id := created["id"].(string)
	joinPath := "/s/tournaments/" + id + "/join"
	duo := map[string]any{"participation_type": "Duo", "names": []string{"Rafi", "Tanim"}}

	status, body := s.do("POST", joinPath, userToken, duo)
	if status != fiber.StatusBadRequest || body["code"] != "insufficient_balance" {
		t.Fatalf("broke join got=%d %v", status, body)
	}

	if status, body := s.do("POST", "/admin/users/"+userID+"/balance", bossToken, map[string]any{"amount": 100, "note": "bKash REF1"}); status != fiber.StatusCreated {
		t.Fatalf("adjust got=%d %v", status, body)
	}

	status, body = s.do("POST", joinPath, userToken, duo)
	if status != fiber.StatusCreated || body["position"] != float64(1) {
		t.Fatalf("join got=%d %v", status, body)
	}
	if status, body := s.do("POST", joinPath, userToken, duo); status != fiber.StatusConflict {
		t.Fatalf("rejoin got=%d %v want=409", status, body)
	}

	_, me := s.do("GET", "/s/me", userToken, nil)
	if me["balance"] != float64(50) {
		t.Fatalf("balance got=%v want=50", me["balance"])
	}

	status, quote := s.do("GET", "/s/tournaments/"+id+"/quote?type=Squad", userToken, nil)
	if status != fiber.StatusOK || quote["fee"] != float64(100) {
		t.Fatalf("quote got=%d %v", status, quote)
	}
}

func TestWalletRoutes(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.register("rafi")

	status, body := s.do("POST", "/s/wallet/deposits", token, map[string]any{"amount": 50, "sender_number": "017", "transaction_id": "X"})
	if status != fiber.StatusBadRequest || body["code"] != "deposit_below_minimum" {
		t.Fatalf("small deposit got=%d %v", status, body)
	}
	status, body = s.do("POST", "/s/wallet/deposits", token, map[string]any{"amount": 500, "sender_number": "017", "transaction_id": "X"})
	if status != fiber.StatusCreated || body["status"] != "Pending" {
		t.Fatalf("deposit got=%d %v", status, body)
	}
	_, wallet := s.do("GET", "/s/wallet", token, nil)
	if wallet["balance"] != float64(0) {
		t.Fatalf("deposit credited balance: %v", wallet["balance"])
	}
}

func TestPrizeRouteWaitsForFinish(t *testing.T) {
	s := newTestServer(t)
	bossToken, _ := s.register("boss")
	userToken, userID := s.register("rafi")

	status, created := s.form("POST", "/admin/tournaments", bossToken, url.Values{
		"title":          {"Kalahari Solo"},
		"type":           {"Solo"},
		"base_entry_fee": {"0"},
		"prize1":         {"300"},
		"start_time":     {strconv.FormatInt(time.Now().Add(2*time.Hour).UnixMilli(), 10)},
		"max_players":    {"10"},
		"map":            {"Kalahari"},
	})
	if status != fiber.StatusCreated {
		t.Fatalf("create got=%d %v", status, created)
	}
	id := created["id"].(string)
	if status, body := s.do("POST", "/s/tournaments/"+id+"/join", userToken, map[string]any{
		"participation_type": "Solo", "names": []string{"Rafi"},
	}); status != fiber.StatusCreated {
		t.Fatalf("join got=%d %v", status, body)
	}

	reward := "/admin/tournaments/" + id + "/players/" + userID + "/reward"
	if status, _ := s.do("POST", reward, userToken, map[string]any{"amount": 10}); status != fiber.StatusForbidden {
		t.Fatalf("user paying prize got=%d want=403", status)
	}
	status, body := s.do("POST", reward, bossToken, map[string]any{"amount": 10})
	if status != fiber.StatusForbidden || body["code"] != "tournament_not_finished" {
		t.Fatalf("early prize got=%d %v", status, body)
	}

	if status, _ := s.do("PATCH", "/admin/tournaments/"+id+"/status", bossToken, map[string]string{"status": "Finished"}); status != fiber.StatusOK {
		t.Fatalf("finish got=%d", status)
	}
	if status, _ := s.do("PATCH", "/admin/tournaments/"+id+"/players/"+userID+"/result", bossToken, map[string]int{"rank": 1, "kills": 0}); status != fiber.StatusOK {
		t.Fatalf("result got=%d", status)
	}
	status, body = s.do("POST", reward, bossToken, nil)
	if status != fiber.StatusCreated || body["amount"] != float64(300) || body["type"] != "Reward" {
		t.Fatalf("prize got=%d %v", status, body)
	}
	if status, body := s.do("POST", reward, bossToken, nil); status != fiber.StatusConflict {
		t.Fatalf("second prize got=%d %v want=409", status, body)
	}
	if _, me := s.do("GET", "/s/me", userToken, nil); me["balance"] != float64(300) {
		t.Fatalf("balance got=%v want=300", me["balance"])
	}
}

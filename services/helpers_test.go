package services

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"ff-portal/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "portal.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestHub(t *testing.T) *ChangeHub {
	t.Helper()
	hub := NewChangeHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func seedProfile(t *testing.T, db *gorm.DB, id string, balance int64) models.UserProfile {
	t.Helper()
	p := models.UserProfile{ID: id, Name: "Player " + id, Balance: balance, GameID: "5" + id, Role: models.RoleUser}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	return p
}

func seedTournament(t *testing.T, db *gorm.DB, start time.Time, base int64, maxPlayers int) models.Tournament {
	t.Helper()
	tr := models.Tournament{
		ID:           uuid.NewString(),
		Title:        "Bermuda Squad Clash",
		Type:         models.MatchSquad,
		BaseEntryFee: base,
		PerKill:      5,
		Prize1:       500,
		StartTime:    start.UnixMilli(),
		MaxPlayers:   maxPlayers,
		Map:          "Bermuda",
		RoomID:       "778899",
		RoomPass:     "ff123",
	}
	if err := db.Create(&tr).Error; err != nil {
		t.Fatalf("seed tournament: %v", err)
	}
	return tr
}

func balanceOf(t *testing.T, db *gorm.DB, id string) int64 {
	t.Helper()
	var p models.UserProfile
	if err := db.First(&p, "id = ?", id).Error; err != nil {
		t.Fatalf("load profile %s: %v", id, err)
	}
	return p.Balance
}

func user(id string) Viewer {
	return Viewer{UserID: id, Roles: []string{string(models.RoleUser)}}
}

func admin(id string) Viewer {
	return Viewer{UserID: id, Roles: []string{string(models.RoleUser), string(models.RoleAdmin)}}
}

// fakeIdentity is an in-memory IdentityProvider.
type fakeIdentity struct {
	mu        sync.Mutex
	accounts  map[string]fakeAccount
	sessions  map[string]*Session
	federated map[string]*Session
	signUpErr error
	// validateErr stands in for a provider that cannot be reached.
	validateErr error
}

type fakeAccount struct {
	id, password, name string
	roles              []string
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{
		accounts:  map[string]fakeAccount{},
		sessions:  map[string]*Session{},
		federated: map[string]*Session{},
	}
}

func (f *fakeIdentity) addAdmin(email, password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts[email] = fakeAccount{id: uuid.NewString(), password: password, name: "Admin", roles: []string{"user", "admin"}}
}

func (f *fakeIdentity) issue(email string, a fakeAccount) *Session {
	s := &Session{Token: uuid.NewString(), UserID: a.id, Email: email, DisplayName: a.name, Roles: a.roles}
	f.sessions[s.Token] = s
	return s
}

func (f *fakeIdentity) SignUp(ctx context.Context, email, password, displayName string) (*Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.signUpErr != nil {
		return nil, f.signUpErr
	}
	if _, ok := f.accounts[email]; ok {
		return nil, &IdentityError{Code: CodeEmailInUse, Message: "in use", Status: 409}
	}
	a := fakeAccount{id: uuid.NewString(), password: password, name: displayName, roles: []string{"user"}}
	f.accounts[email] = a
	return f.issue(email, a), nil
}

func (f *fakeIdentity) SignIn(ctx context.Context, email, password string) (*Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[email]
	if !ok || a.password != password {
		return nil, &IdentityError{Code: CodeInvalidCredential, Message: "bad credential", Status: 401}
	}
	return f.issue(email, a), nil
}

func (f *fakeIdentity) SignInFederated(ctx context.Context, provider, idToken string) (*Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if strings.HasPrefix(idToken, "bad") {
		return nil, &IdentityError{Code: "auth/popup-closed-by-user", Message: "The popup has been closed by the user.", Status: 400}
	}
	s, ok := f.federated[idToken]
	if !ok {
		s = &Session{UserID: uuid.NewString(), Email: idToken + "@gmail.com", Roles: []string{"user"}}
		if idToken != "anon" {
			s.DisplayName = "Google " + idToken
		}
		f.federated[idToken] = s
	}
	out := *s
	out.Token = uuid.NewString()
	f.sessions[out.Token] = &out
	return &out, nil
}

func (f *fakeIdentity) SignOut(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, token)
	return nil
}

func (f *fakeIdentity) Validate(ctx context.Context, token string) (*Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.validateErr != nil {
		return nil, f.validateErr
	}
	s, ok := f.sessions[token]
	if !ok {
		return nil, &IdentityError{Code: CodeInvalidToken, Message: "invalid", Status: 401}
	}
	return s, nil
}

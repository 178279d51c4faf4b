package services

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLocalIdentityRoundTrip(t *testing.T) {
	p := NewLocalIdentityProvider(newTestDB(t), map[string]bool{"boss@ffportal.com": true})
	ctx := context.Background()

	sess, err := p.SignUp(ctx, " Rafi@FFPortal.com ", "secret1", "Rafi")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if sess.Email != "rafi@ffportal.com" || sess.IsAdmin() {
		t.Fatalf("session got=%+v", sess)
	}

	got, err := p.Validate(ctx, sess.Token)
	if err != nil || got.UserID != sess.UserID {
		t.Fatalf("Validate got=%+v err=%v", got, err)
	}

	if _, err := p.SignUp(ctx, "rafi@ffportal.com", "other12", "R"); !hasIdentityCode(err, CodeEmailInUse) {
		t.Fatalf("duplicate got err=%v", err)
	}
	if _, err := p.SignIn(ctx, "rafi@ffportal.com", "nope123"); !hasIdentityCode(err, CodeInvalidCredential) {
		t.Fatalf("wrong password got err=%v", err)
	}

	again, err := p.SignIn(ctx, "rafi@ffportal.com", "secret1")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if err := p.SignOut(ctx, again.Token); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if _, err := p.Validate(ctx, again.Token); !hasIdentityCode(err, CodeInvalidToken) {
		t.Fatalf("signed-out token got err=%v", err)
	}
}

func TestLocalIdentityAdminClaim(t *testing.T) {
	p := NewLocalIdentityProvider(newTestDB(t), map[string]bool{"boss@ffportal.com": true})
	sess, err := p.SignUp(context.Background(), "boss@ffportal.com", "secret1", "Boss")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if !sess.IsAdmin() {
		t.Fatalf("roles got=%v want admin", sess.Roles)
	}
}

func TestLocalIdentitySessionExpires(t *testing.T) {
	p := NewLocalIdentityProvider(newTestDB(t), nil)
	start := time.Now()
	p.now = fixedClock(start)
	sess, err := p.SignUp(context.Background(), "a@ffportal.com", "secret1", "A")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	p.now = fixedClock(start.Add(p.SessionTTL + time.Minute))
	if _, err := p.Validate(context.Background(), sess.Token); !hasIdentityCode(err, CodeInvalidToken) {
		t.Fatalf("expired token got err=%v", err)
	}
}

func TestLocalIdentityHasNoFederatedSignIn(t *testing.T) {
	p := NewLocalIdentityProvider(newTestDB(t), nil)
	if _, err := p.SignInFederated(context.Background(), "google", "tok"); !hasIdentityCode(err, CodeOperationNotAllowed) {
		t.Fatalf("got err=%v", err)
	}
}

func hasIdentityCode(err error, code string) bool {
	var idErr *IdentityError
	return errors.As(err, &idErr) && idErr.Code == code
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAuthServiceClientSignIn(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer svc-token" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		switch r.URL.Path {
		case "/auth/sign-in":
			if body["password"] != "secret1" {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"code": CodeInvalidCredential, "message": "bad"})
				return
			}
			json.NewEncoder(w).Encode(map[string]any{
				"access_token": "tok-1",
				"user_id":      "u1",
				"email":        body["email"],
				"roles":        []string{"user", "admin"},
			})
		case "/auth/validate":
			json.NewEncoder(w).Encode(map[string]any{"user_id": "u1", "roles": []string{"user"}})
		default:
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("boom"))
		}
	}))
	defer srv.Close()

	c := NewAuthServiceClient(srv.URL, "svc-token")
	ctx := context.Background()

	sess, err := c.SignIn(ctx, "a@ffportal.com", "secret1")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if sess.Token != "tok-1" || !sess.IsAdmin() {
		t.Fatalf("session got=%+v", sess)
	}

	_, err = c.SignIn(ctx, "a@ffportal.com", "nope")
	if !hasIdentityCode(err, CodeInvalidCredential) {
		t.Fatalf("got err=%v want %s", err, CodeInvalidCredential)
	}

	v, err := c.Validate(ctx, "tok-9")
	if err != nil || v.Token != "tok-9" || v.UserID != "u1" {
		t.Fatalf("Validate got=%+v err=%v", v, err)
	}

	err = c.SignOut(ctx, "tok-9")
	var idErr *IdentityError
	if err == nil || errors.As(err, &idErr) {
		t.Fatalf("unstructured error got err=%v want plain error", err)
	}
}

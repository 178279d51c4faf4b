package services

import (
	"context"
	"fmt"

	"ff-portal/config"
	"ff-portal/models"

	"gorm.io/gorm"
)

// Error codes shared by every identity provider.
const (
	CodeEmailInUse          = "auth/email-already-in-use"
	CodeInvalidCredential   = "auth/invalid-credential"
	CodeInvalidToken        = "auth/invalid-token"
	CodeOperationNotAllowed = "auth/operation-not-allowed"
)

// Session is an authenticated identity. Roles are claims issued by the
// provider; "admin" grants the administration routes.
type Session struct {
	Token       string   `json:"token"`
	UserID      string   `json:"user_id"`
	Email       string   `json:"email"`
	DisplayName string   `json:"display_name,omitempty"`
	Roles       []string `json:"roles"`
}

func (s *Session) IsAdmin() bool {
	for _, r := range s.Roles {
		if r == string(models.RoleAdmin) {
			return true
		}
	}
	return false
}

func (s *Session) Role() models.Role {
	if s.IsAdmin() {
		return models.RoleAdmin
	}
	return models.RoleUser
}

// IdentityProvider authenticates users and issues session tokens.
type IdentityProvider interface {
	SignUp(ctx context.Context, email, password, displayName string) (*Session, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignInFederated(ctx context.Context, provider, idToken string) (*Session, error)
	SignOut(ctx context.Context, token string) error
	Validate(ctx context.Context, token string) (*Session, error)
}

// IdentityError is a provider rejection carrying the provider's code.
type IdentityError struct {
	Code    string
	Message string
	Status  int
}

func (e *IdentityError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewIdentityProvider picks the provider named in cfg.
func NewIdentityProvider(cfg config.Config, db *gorm.DB) (IdentityProvider, error) {
	switch cfg.IdentityProvider {
	case "remote":
		return NewAuthServiceClient(cfg.IdentityServiceURL, cfg.IdentityServiceToken), nil
	case "local", "":
		return NewLocalIdentityProvider(db, cfg.AdminEmails), nil
	}
	return nil, fmt.Errorf("unknown identity provider %q", cfg.IdentityProvider)
}

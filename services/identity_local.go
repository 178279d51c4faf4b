package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ff-portal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// LocalIdentityProvider keeps accounts and sessions in the portal database.
// It has no federated sign-in.
type LocalIdentityProvider struct {
	DB          *gorm.DB
	AdminEmails map[string]bool
	SessionTTL  time.Duration
	now         func() time.Time
}

func NewLocalIdentityProvider(db *gorm.DB, adminEmails map[string]bool) *LocalIdentityProvider {
	if adminEmails == nil {
		adminEmails = map[string]bool{}
	}
	return &LocalIdentityProvider{
		DB:          db,
		AdminEmails: adminEmails,
		SessionTTL:  30 * 24 * time.Hour,
		now:         time.Now,
	}
}

func (p *LocalIdentityProvider) SignUp(ctx context.Context, email, password, displayName string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var existing int64
	if err := p.DB.WithContext(ctx).Model(&models.LocalAccount{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, &IdentityError{Code: CodeEmailInUse, Message: "The email address is already in use by another account.", Status: fiber.StatusConflict}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	acct := models.LocalAccount{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  displayName,
		Role:         models.RoleUser,
	}
	if p.AdminEmails[email] {
		acct.Role = models.RoleAdmin
	}
	if err := p.DB.WithContext(ctx).Create(&acct).Error; err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}
	return p.openSession(ctx, acct)
}

func (p *LocalIdentityProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var acct models.LocalAccount
	if err := p.DB.WithContext(ctx).First(&acct, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalidCredential()
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)) != nil {
		return nil, invalidCredential()
	}
	return p.openSession(ctx, acct)
}

func (p *LocalIdentityProvider) SignInFederated(ctx context.Context, provider, idToken string) (*Session, error) {
	return nil, &IdentityError{
		Code:    CodeOperationNotAllowed,
		Message: fmt.Sprintf("%s sign-in is not enabled", provider),
		Status:  fiber.StatusBadRequest,
	}
}

func (p *LocalIdentityProvider) SignOut(ctx context.Context, token string) error {
	return p.DB.WithContext(ctx).Delete(&models.LocalSession{}, "token = ?", token).Error
}

func (p *LocalIdentityProvider) Validate(ctx context.Context, token string) (*Session, error) {
	var sess models.LocalSession
	if err := p.DB.WithContext(ctx).First(&sess, "token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalidToken()
		}
		return nil, err
	}
	if p.now().After(sess.ExpiresAt) {
		p.DB.WithContext(ctx).Delete(&sess)
		return nil, invalidToken()
	}

	var acct models.LocalAccount
	if err := p.DB.WithContext(ctx).First(&acct, "id = ?", sess.AccountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalidToken()
		}
		return nil, err
	}
	return p.session(token, acct), nil
}

func (p *LocalIdentityProvider) openSession(ctx context.Context, acct models.LocalAccount) (*Session, error) {
	sess := models.LocalSession{
		Token:     uuid.NewString(),
		AccountID: acct.ID,
		ExpiresAt: p.now().Add(p.SessionTTL),
	}
	if err := p.DB.WithContext(ctx).Create(&sess).Error; err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return p.session(sess.Token, acct), nil
}

func (p *LocalIdentityProvider) session(token string, acct models.LocalAccount) *Session {
	roles := []string{string(models.RoleUser)}
	if acct.Role == models.RoleAdmin || p.AdminEmails[acct.Email] {
		roles = append(roles, string(models.RoleAdmin))
	}
	return &Session{
		Token:       token,
		UserID:      acct.ID,
		Email:       acct.Email,
		DisplayName: acct.DisplayName,
		Roles:       roles,
	}
}

func invalidCredential() error {
	return &IdentityError{Code: CodeInvalidCredential, Message: "The supplied auth credential is incorrect.", Status: fiber.StatusUnauthorized}
}

func invalidToken() error {
	return &IdentityError{Code: CodeInvalidToken, Message: "session is invalid or expired", Status: fiber.StatusUnauthorized}
}

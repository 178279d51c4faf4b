package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ff-portal/logger"
	"ff-portal/models"
	"ff-portal/rules"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	msgUserIDTaken     = "This user ID is already in use."
	msgWrongCredential = "Wrong ID or password!"
	unnamedProfile     = "Unnamed"
)

// AccountService handles registration, sign-in and profiles on top of an
// IdentityProvider.
type AccountService struct {
	DB          *gorm.DB
	Identity    IdentityProvider
	Hub         *ChangeHub
	LoginDomain string
}

func NewAccountService(db *gorm.DB, identity IdentityProvider, hub *ChangeHub, loginDomain string) *AccountService {
	return &AccountService{DB: db, Identity: identity, Hub: hub, LoginDomain: loginDomain}
}

type RegisterRequest struct {
	Name     string `json:"name"`
	LoginID  string `json:"login_id"`
	GameID   string `json:"game_id"`
	Password string `json:"password"`
}

type LoginRequest struct {
	LoginID  string `json:"login_id"`
	Password string `json:"password"`
}

type FederatedRequest struct {
	Provider string `json:"provider"`
	IDToken  string `json:"id_token"`
}

// AuthResult is returned by every successful sign-in.
type AuthResult struct {
	Session *Session           `json:"session"`
	Profile models.UserProfile `json:"profile"`
}

func (s *AccountService) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	if err := rules.ValidateRegistration(req.Name, req.LoginID, req.GameID, req.Password); err != nil {
		return nil, err
	}
	email := rules.NormalizeLoginID(req.LoginID, s.LoginDomain)
	name := strings.TrimSpace(req.Name)

	sess, err := s.Identity.SignUp(ctx, email, req.Password, name)
	if err != nil {
		var idErr *IdentityError
		if errors.As(err, &idErr) {
			if idErr.Code == CodeEmailInUse {
				return nil, &IdentityError{Code: idErr.Code, Message: msgUserIDTaken, Status: fiber.StatusConflict}
			}
			return nil, &IdentityError{Code: idErr.Code, Message: "Error: " + idErr.Message, Status: fiber.StatusBadRequest}
		}
		return nil, fmt.Errorf("sign up: %w", err)
	}

	profile := models.UserProfile{
		ID:      sess.UserID,
		Name:    name,
		Balance: 0,
		GameID:  strings.TrimSpace(req.GameID),
		Role:    sess.Role(),
	}
	if err := s.ensureProfile(ctx, &profile); err != nil {
		return nil, err
	}
	logger.Info("[ACCOUNT] registered", zap.String("user_id", sess.UserID), zap.String("email", email))
	return &AuthResult{Session: sess, Profile: withClaims(profile, sess)}, nil
}

// Login reports every identity rejection as the same wrong-credential error.
func (s *AccountService) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	email := rules.NormalizeLoginID(req.LoginID, s.LoginDomain)
	if email == "" || req.Password == "" {
		return nil, &IdentityError{Code: CodeInvalidCredential, Message: msgWrongCredential, Status: fiber.StatusUnauthorized}
	}

	sess, err := s.Identity.SignIn(ctx, email, req.Password)
	if err != nil {
		var idErr *IdentityError
		if errors.As(err, &idErr) {
			return nil, &IdentityError{Code: idErr.Code, Message: msgWrongCredential, Status: fiber.StatusUnauthorized}
		}
		return nil, fmt.Errorf("sign in: %w", err)
	}

	var profile models.UserProfile
	if err := s.DB.WithContext(ctx).First(&profile, "id = ?", sess.UserID).Error; err != nil {
		return nil, notFound(err, "profile")
	}
	return &AuthResult{Session: sess, Profile: withClaims(profile, sess)}, nil
}

// FederatedLogin signs in through an external provider and creates the
// profile on first use.
func (s *AccountService) FederatedLogin(ctx context.Context, req FederatedRequest) (*AuthResult, error) {
	if strings.TrimSpace(req.Provider) == "" || strings.TrimSpace(req.IDToken) == "" {
		return nil, rules.ErrMissingFields
	}
	sess, err := s.Identity.SignInFederated(ctx, req.Provider, req.IDToken)
	if err != nil {
		var idErr *IdentityError
		if errors.As(err, &idErr) {
			return nil, &IdentityError{Code: idErr.Code, Message: idErr.Message, Status: fiber.StatusUnauthorized}
		}
		return nil, fmt.Errorf("federated sign in: %w", err)
	}

	name := strings.TrimSpace(sess.DisplayName)
	if name == "" {
		name = unnamedProfile
	}
	profile := models.UserProfile{
		ID:      sess.UserID,
		Name:    name,
		Balance: 0,
		GameID:  models.DefaultGameID,
		Role:    models.RoleUser,
	}
	if err := s.ensureProfile(ctx, &profile); err != nil {
		return nil, err
	}
	return &AuthResult{Session: sess, Profile: withClaims(profile, sess)}, nil
}

func (s *AccountService) Logout(ctx context.Context, token string) error {
	if err := s.Identity.SignOut(ctx, token); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}

func (s *AccountService) Profile(ctx context.Context, viewer Viewer) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := s.DB.WithContext(ctx).First(&profile, "id = ?", viewer.UserID).Error; err != nil {
		return nil, notFound(err, "profile")
	}
	if viewer.IsAdmin() {
		profile.Role = models.RoleAdmin
	}
	return &profile, nil
}

// ensureProfile inserts profile unless one already exists for its id, then
// loads the stored row into profile.
func (s *AccountService) ensureProfile(ctx context.Context, profile *models.UserProfile) error {
	res := s.DB.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(profile)
	if res.Error != nil {
		return fmt.Errorf("create profile: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		s.Hub.Publish(TopicProfile, profile.ID)
	}
	if err := s.DB.WithContext(ctx).First(profile, "id = ?", profile.ID).Error; err != nil {
		return fmt.Errorf("load profile: %w", err)
	}
	return nil
}

func withClaims(p models.UserProfile, sess *Session) models.UserProfile {
	p.Role = sess.Role()
	return p
}

// --- HTTP handlers ---

func (s *AccountService) RegisterUser(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid JSON")
	}
	res, err := s.Register(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

func (s *AccountService) LoginUser(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid JSON")
	}
	res, err := s.Login(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

func (s *AccountService) FederatedLoginUser(c *fiber.Ctx) error {
	var req FederatedRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid JSON")
	}
	res, err := s.FederatedLogin(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

func (s *AccountService) LogoutUser(c *fiber.Ctx) error {
	viewer := ViewerFrom(c)
	if err := s.Logout(c.UserContext(), viewer.Token); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *AccountService) GetMe(c *fiber.Ctx) error {
	profile, err := s.Profile(c.UserContext(), ViewerFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

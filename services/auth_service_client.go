package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"ff-portal/logger"

	"go.uber.org/zap"
)

// AuthServiceClient talks to a remote identity service over HTTP.
type AuthServiceClient struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

type identityResponse struct {
	AccessToken string   `json:"access_token"`
	UserID      string   `json:"user_id"`
	Email       string   `json:"email"`
	DisplayName string   `json:"display_name"`
	Roles       []string `json:"roles"`
}

func (r identityResponse) session(token string) *Session {
	if r.AccessToken != "" {
		token = r.AccessToken
	}
	return &Session{
		Token:       token,
		UserID:      r.UserID,
		Email:       r.Email,
		DisplayName: r.DisplayName,
		Roles:       r.Roles,
	}
}

func NewAuthServiceClient(baseURL, token string) *AuthServiceClient {
	return &AuthServiceClient{
		BaseURL: baseURL,
		Token:   token,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *AuthServiceClient) SignUp(ctx context.Context, email, password, displayName string) (*Session, error) {
	var out identityResponse
	err := c.post(ctx, "/auth/sign-up", map[string]string{
		"email":        email,
		"password":     password,
		"display_name": displayName,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.session(""), nil
}

func (c *AuthServiceClient) SignIn(ctx context.Context, email, password string) (*Session, error) {
	var out identityResponse
	if err := c.post(ctx, "/auth/sign-in", map[string]string{"email": email, "password": password}, &out); err != nil {
		return nil, err
	}
	return out.session(""), nil
}

func (c *AuthServiceClient) SignInFederated(ctx context.Context, provider, idToken string) (*Session, error) {
	var out identityResponse
	if err := c.post(ctx, "/auth/federated", map[string]string{"provider": provider, "id_token": idToken}, &out); err != nil {
		return nil, err
	}
	return out.session(""), nil
}

func (c *AuthServiceClient) SignOut(ctx context.Context, token string) error {
	return c.post(ctx, "/auth/sign-out", map[string]string{"access_token": token}, nil)
}

// Validate resolves an access token into its session and role claims.
func (c *AuthServiceClient) Validate(ctx context.Context, token string) (*Session, error) {
	var out identityResponse
	if err := c.post(ctx, "/auth/validate", map[string]string{"access_token": token}, &out); err != nil {
		return nil, err
	}
	return out.session(token), nil
}

func (c *AuthServiceClient) post(ctx context.Context, path string, body any, out any) error {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("identity service %s: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("identity service %s: read body: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if jsonErr := json.Unmarshal(raw, &apiErr); jsonErr != nil || apiErr.Code == "" {
			logger.Warn("[IDENTITY] unexpected error response",
				zap.String("path", path),
				zap.Int("status", resp.StatusCode),
				zap.ByteString("body", raw))
			return fmt.Errorf("identity service %s returned %d", path, resp.StatusCode)
		}
		return &IdentityError{Code: apiErr.Code, Message: apiErr.Message, Status: resp.StatusCode}
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("identity service %s: decode: %w", path, err)
	}
	return nil
}

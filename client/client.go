package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ff-portal/models"
)

// APIError is a non-2xx response from the portal API.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Code)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

// Client calls the portal API on behalf of one session.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client

	// OnReconnect, when set, is told why Follow lost the stream and how long
	// it waits before dialing again.
	OnReconnect func(err error, wait time.Duration)

	retryDelay time.Duration
}

func New(baseURL, token string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTP: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type Session struct {
	Token  string   `json:"token"`
	UserID string   `json:"user_id"`
	Email  string   `json:"email"`
	Roles  []string `json:"roles"`
}

type AuthResult struct {
	Session *Session           `json:"session"`
	Profile models.UserProfile `json:"profile"`
}

type Registration struct {
	Name     string `json:"name"`
	LoginID  string `json:"login_id"`
	GameID   string `json:"game_id"`
	Password string `json:"password"`
}

type Quote struct {
	Slots      int   `json:"slots"`
	Fee        int64 `json:"fee"`
	Balance    int64 `json:"balance"`
	Affordable bool  `json:"affordable"`
}

type Wallet struct {
	Balance      int64                `json:"balance"`
	Settings     models.AdminSettings `json:"settings"`
	Transactions []models.Transaction `json:"transactions"`
}

type Deposit struct {
	Amount        int64                `json:"amount"`
	Method        models.PaymentMethod `json:"method"`
	SenderNumber  string               `json:"sender_number"`
	TransactionID string               `json:"transaction_id"`
}

type Withdrawal struct {
	Amount int64                `json:"amount"`
	Method models.PaymentMethod `json:"method"`
	Number string               `json:"number"`
}

func (c *Client) Register(ctx context.Context, r Registration) (*AuthResult, error) {
	var out AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/register", r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, loginID, password string) (*AuthResult, error) {
	var out AuthResult
	err := c.do(ctx, http.MethodPost, "/auth/login", map[string]string{"login_id": loginID, "password": password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Federated signs in with an identity token from an external provider.
func (c *Client) Federated(ctx context.Context, provider, idToken string) (*AuthResult, error) {
	var out AuthResult
	err := c.do(ctx, http.MethodPost, "/auth/federated", map[string]string{"provider": provider, "id_token": idToken}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

func (c *Client) Me(ctx context.Context) (*models.UserProfile, error) {
	var out models.UserProfile
	if err := c.do(ctx, http.MethodGet, "/s/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Tournaments lists tournaments; view is all, home or mine.
func (c *Client) Tournaments(ctx context.Context, view string) ([]models.Tournament, error) {
	var out []models.Tournament
	path := "/s/tournaments"
	if view != "" {
		path += "?view=" + url.QueryEscape(view)
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Tournament(ctx context.Context, id string) (*models.Tournament, error) {
	var out models.Tournament
	if err := c.do(ctx, http.MethodGet, "/s/tournaments/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Players(ctx context.Context, id string) ([]models.PlayerRecord, error) {
	var out []models.PlayerRecord
	if err := c.do(ctx, http.MethodGet, "/s/tournaments/"+url.PathEscape(id)+"/players", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Quote(ctx context.Context, id string, typ models.MatchType) (*Quote, error) {
	var out Quote
	path := "/s/tournaments/" + url.PathEscape(id) + "/quote?type=" + url.QueryEscape(string(typ))
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Join(ctx context.Context, id string, typ models.MatchType, names []string) (*models.PlayerRecord, error) {
	var out models.PlayerRecord
	body := map[string]any{"participation_type": typ, "names": names}
	if err := c.do(ctx, http.MethodPost, "/s/tournaments/"+url.PathEscape(id)+"/join", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Wallet(ctx context.Context) (*Wallet, error) {
	var out Wallet
	if err := c.do(ctx, http.MethodGet, "/s/wallet", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Deposit(ctx context.Context, d Deposit) (*models.Transaction, error) {
	var out models.Transaction
	if err := c.do(ctx, http.MethodPost, "/s/wallet/deposits", d, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Withdraw(ctx context.Context, w Withdrawal) (*models.Transaction, error) {
	var out models.Transaction
	if err := c.do(ctx, http.MethodPost, "/s/wallet/withdrawals", w, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Messages(ctx context.Context) ([]models.SupportMessage, error) {
	var out []models.SupportMessage
	if err := c.do(ctx, http.MethodGet, "/s/support/messages", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SendMessage(ctx context.Context, text string) (*models.SupportMessage, error) {
	var out models.SupportMessage
	if err := c.do(ctx, http.MethodPost, "/s/support/messages", map[string]string{"message": text}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Notices(ctx context.Context) ([]models.Notice, error) {
	var out []models.Notice
	if err := c.do(ctx, http.MethodGet, "/s/notices", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Settings(ctx context.Context) (*models.AdminSettings, error) {
	var out models.AdminSettings
	if err := c.do(ctx, http.MethodGet, "/s/settings", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Marquee(ctx context.Context) (string, error) {
	var out models.Marquee
	if err := c.do(ctx, http.MethodGet, "/s/marquee", nil, &out); err != nil {
		return "", err
	}
	return out.Text, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var payload struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		if json.Unmarshal(raw, &payload) == nil {
			apiErr.Code, apiErr.Message = payload.Code, payload.Error
		}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s %s: decode: %w", method, path, err)
	}
	return nil
}

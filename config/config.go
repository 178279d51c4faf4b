package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr       string
	AllowedOrigins string
	Debug          bool

	DBDriver    string
	DatabaseURL string
	SQLitePath  string

	IdentityProvider     string
	IdentityServiceURL   string
	IdentityServiceToken string
	AdminEmails          map[string]bool
	LoginEmailDomain     string

	R2AccountID       string
	R2AccessKeyID     string
	R2AccessKeySecret string
	R2Bucket          string
	CDNBaseURL        string

	StatusTickInterval time.Duration
	ChangePollInterval time.Duration
}

// R2Enabled reports whether banner uploads go to object storage rather than
// the local uploads directory.
func (c Config) R2Enabled() bool {
	return c.R2AccountID != "" && c.R2Bucket != ""
}

func FromEnv() (Config, error) {
	var c Config
	c.HTTPAddr = env("HTTP_ADDR", ":5200")
	c.AllowedOrigins = env("ALLOWED_ORIGINS", "http://localhost:3000")
	c.Debug = strings.EqualFold(env("DEBUG", ""), "true")

	c.DBDriver = strings.ToLower(env("DB_DRIVER", "postgres"))
	c.DatabaseURL = env("DATABASE_URL", "")
	c.SQLitePath = env("SQLITE_PATH", "ffportal.db")

	c.IdentityProvider = strings.ToLower(env("IDENTITY_PROVIDER", "local"))
	c.IdentityServiceURL = strings.TrimRight(env("IDENTITY_SERVICE_URL", ""), "/")
	c.IdentityServiceToken = env("IDENTITY_SERVICE_TOKEN", "")
	c.AdminEmails = parseEmails(os.Getenv("ADMIN_EMAILS"))
	c.LoginEmailDomain = env("LOGIN_EMAIL_DOMAIN", "ffportal.com")

	c.R2AccountID = env("CLOUDFLARE_ACCOUNT_ID", "")
	c.R2AccessKeyID = env("R2_ACCESS_KEY_ID", "")
	c.R2AccessKeySecret = env("R2_ACCESS_KEY_SECRET", "")
	c.R2Bucket = env("R2_BUCKET_NAME", "")
	c.CDNBaseURL = strings.TrimRight(env("CDN_BASE_URL", ""), "/")

	var err error
	if c.StatusTickInterval, err = duration("STATUS_TICK_INTERVAL", time.Minute); err != nil {
		return c, err
	}
	if c.ChangePollInterval, err = duration("CHANGE_POLL_INTERVAL", 5*time.Second); err != nil {
		return c, err
	}

	switch c.DBDriver {
	case "postgres":
		if c.DatabaseURL == "" {
			return c, fmt.Errorf("DATABASE_URL is empty")
		}
	case "sqlite":
	default:
		return c, fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", c.DBDriver)
	}

	switch c.IdentityProvider {
	case "remote":
		if c.IdentityServiceURL == "" {
			return c, fmt.Errorf("IDENTITY_SERVICE_URL is empty")
		}
		if c.IdentityServiceToken == "" {
			return c, fmt.Errorf("IDENTITY_SERVICE_TOKEN is empty")
		}
	case "local":
	default:
		return c, fmt.Errorf("IDENTITY_PROVIDER must be local or remote, got %q", c.IdentityProvider)
	}

	return c, nil
}

func env(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func duration(key string, def time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d, nil
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second, nil
	}
	return 0, fmt.Errorf("%s: invalid duration %q", key, raw)
}

func parseEmails(raw string) map[string]bool {
	m := map[string]bool{}
	for _, p := range strings.Split(raw, ",") {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			m[p] = true
		}
	}
	return m
}

// OriginsList splits AllowedOrigins for CORS configuration.
func (c Config) OriginsList() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

package config

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("IDENTITY_PROVIDER", "")
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("STATUS_TICK_INTERVAL", "")
	t.Setenv("ADMIN_EMAILS", " Boss@ffportal.com ,ops@ffportal.com,")

	c, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if c.HTTPAddr != ":5200" {
		t.Fatalf("HTTPAddr got=%q want=%q", c.HTTPAddr, ":5200")
	}
	if c.IdentityProvider != "local" {
		t.Fatalf("IdentityProvider got=%q want=local", c.IdentityProvider)
	}
	if c.StatusTickInterval != time.Minute {
		t.Fatalf("StatusTickInterval got=%s want=1m", c.StatusTickInterval)
	}
	if !c.AdminEmails["boss@ffportal.com"] || !c.AdminEmails["ops@ffportal.com"] || len(c.AdminEmails) != 2 {
		t.Fatalf("AdminEmails got=%v", c.AdminEmails)
	}
	if c.R2Enabled() {
		t.Fatal("R2 should be disabled without an account id")
	}
}

func TestFromEnvRequiresDatabaseURLForPostgres(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")
	if _, err := FromEnv(); err == nil {
		t.Fatal("expected error for missing DATABASE_URL")
	}
}

func TestFromEnvRemoteIdentityNeedsURL(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("IDENTITY_PROVIDER", "remote")
	t.Setenv("IDENTITY_SERVICE_URL", "")
	if _, err := FromEnv(); err == nil {
		t.Fatal("expected error for missing IDENTITY_SERVICE_URL")
	}
}

func TestDurationAcceptsSeconds(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("IDENTITY_PROVIDER", "local")
	t.Setenv("CHANGE_POLL_INTERVAL", "15")
	c, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if c.ChangePollInterval != 15*time.Second {
		t.Fatalf("ChangePollInterval got=%s want=15s", c.ChangePollInterval)
	}
}

func TestOriginsList(t *testing.T) {
	c := Config{AllowedOrigins: "http://a.test, http://b.test ,"}
	got := c.OriginsList()
	if len(got) != 2 || got[0] != "http://a.test" || got[1] != "http://b.test" {
		t.Fatalf("OriginsList got=%v", got)
	}
}

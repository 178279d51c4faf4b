package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"ff-portal/shell"

	"gopkg.in/yaml.v3"
)

var errNotSignedIn = errors.New("not signed in; run `ffportal login` first")

type sessionFile struct {
	Server  string         `yaml:"server"`
	Session *shell.Session `yaml:"session"`
}

func sessionPath(dir string) string {
	return filepath.Join(dir, "session.yaml")
}

func saveSession(dir, server string, sess *shell.Session) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	data, err := yaml.Marshal(sessionFile{Server: server, Session: sess})
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return os.WriteFile(sessionPath(dir), data, 0600)
}

// loadSession returns the cached session for server, or errNotSignedIn when
// there is none or it belongs to another server.
func loadSession(dir, server string) (*shell.Session, error) {
	data, err := os.ReadFile(sessionPath(dir))
	if os.IsNotExist(err) {
		return nil, errNotSignedIn
	}
	if err != nil {
		return nil, err
	}
	var f sessionFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse session: %w", err)
	}
	if f.Session == nil || f.Session.Token == "" || f.Server != server {
		return nil, errNotSignedIn
	}
	return f.Session, nil
}

func clearSession(dir string) error {
	if err := os.Remove(sessionPath(dir)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultServer = "http://localhost:5200"

// Settings are the client's persistent preferences.
type Settings struct {
	Server string `mapstructure:"server"`
	Lang   string `mapstructure:"lang"`
}

// Dir is the client's state directory, ~/.ffportal.
func Dir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".ffportal")
}

// loadSettings merges defaults, the config file, FFPORTAL_* variables and
// the command's flags, later sources winning.
func loadSettings(cmd *cobra.Command, dir string) (Settings, error) {
	v := viper.New()
	v.SetDefault("server", defaultServer)
	v.SetDefault("lang", "en")
	v.SetEnvPrefix("FFPORTAL")
	v.AutomaticEnv()

	path := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, err
		}
	}

	for _, name := range []string{"server", "lang"} {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			if err := v.BindPFlag(name, f); err != nil {
				return Settings{}, err
			}
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, err
	}
	return s, nil
}

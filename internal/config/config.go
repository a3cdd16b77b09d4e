package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config is everything the tool needs to find its inputs. Values come from
// /etc/logaudit.yaml (then $HOME/.logaudit.yaml, then the working
// directory), with LOGAUDIT_* environment variables overriding the file.
type Config struct {
	DefinitionsURL string
	LogPath        string
	ArchiveGlob    string
	CachePath      string
	WebhookURL     string
}

// Load reads configuration. cfgFile, when non-empty, names an explicit
// config file and missing it is an error; otherwise a missing config file
// just means defaults.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetDefault("definitions_url", "")
	v.SetDefault("log_path", "/var/log/proxy/access.log")
	v.SetDefault("archive_glob", "/var/log/proxy/access.log.*.gz")
	v.SetDefault("cache_path", "/var/cache/logaudit/definitions.db")
	v.SetDefault("webhook_url", "")

	v.SetEnvPrefix("LOGAUDIT")
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("logaudit")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	return &Config{
		DefinitionsURL: v.GetString("definitions_url"),
		LogPath:        v.GetString("log_path"),
		ArchiveGlob:    v.GetString("archive_glob"),
		CachePath:      v.GetString("cache_path"),
		WebhookURL:     v.GetString("webhook_url"),
	}, nil
}

package cli

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"github.com/ecoleta/ecoleta-backend/internal/client"
	"github.com/ecoleta/ecoleta-backend/pkg/env"
)

// Config is read from ECOLETA_* variables.
type Config struct {
	APIURL      string `envconfig:"ECOLETA_API_URL" default:"http://localhost:8080"`
	SessionFile string `envconfig:"ECOLETA_SESSION_FILE"`
	LogLevel    string `envconfig:"ECOLETA_CLI_LOG_LEVEL" default:"warn"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing cli config: %w", err)
	}
	if cfg.APIURL == "" {
		cfg.APIURL = client.DefaultBaseURL
	}
	if cfg.SessionFile == "" {
		cfg.SessionFile = env.ConfigPath("ecoleta", "session.json")
	}
	return cfg, nil
}

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// AppConfig holds process level settings read from the environment.
type AppConfig struct {
	DBPath        string `env:"RISEPLAN_DB_PATH"        envDefault:"riseplan.db"`
	LogLevel      string `env:"RISEPLAN_LOG_LEVEL"      envDefault:"info"`
	LogFormat     string `env:"RISEPLAN_LOG_FORMAT"     envDefault:"text"`
	HTTPAddr      string `env:"RISEPLAN_HTTP_ADDR"      envDefault:":8080"`
	DefaultFormat string `env:"RISEPLAN_DEFAULT_FORMAT" envDefault:"console"`
}

// LoadAppConfig parses AppConfig from the environment.
func LoadAppConfig() (AppConfig, error) {
	var cfg AppConfig
	if err := ParseEnv(&cfg); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// ParseEnv parses environment variables into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

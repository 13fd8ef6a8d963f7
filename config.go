package insider

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is the run configuration, loaded from INSIDER_* environment
// variables. SECEmail falls back to the SEC_EMAIL variable the fetcher has
// always honored.
type Config struct {
	SECEmail    string        `envconfig:"SEC_EMAIL"`
	StartDate   string        `envconfig:"START_DATE"`
	EndDate     string        `envconfig:"END_DATE"`
	Proxies     []string      `envconfig:"PROXIES"`
	PaceDelay   time.Duration `envconfig:"PACE_DELAY" default:"1s"`
	OutputDir   string        `envconfig:"OUTPUT_DIR" default:"output"`
	FilingLimit int           `envconfig:"FILING_LIMIT" default:"0"`
	LogLevel    string        `envconfig:"LOG_LEVEL" default:"info"`
}

// LoadConfig reads configuration from the environment.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("INSIDER", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if cfg.SECEmail == "" {
		email, err := GetSecEmail()
		if err != nil {
			return nil, err
		}
		cfg.SECEmail = email
	}
	return &cfg, nil
}

// DateRange parses and validates the configured range. Both bounds are
// required and inclusive.
func (c *Config) DateRange() (start, end time.Time, err error) {
	start, err = time.Parse("2006-01-02", c.StartDate)
	if err != nil {
		return start, end, fmt.Errorf("invalid start date %q: %w", c.StartDate, err)
	}
	end, err = time.Parse("2006-01-02", c.EndDate)
	if err != nil {
		return start, end, fmt.Errorf("invalid end date %q: %w", c.EndDate, err)
	}
	if end.Before(start) {
		return start, end, fmt.Errorf("end date %s precedes start date %s", c.EndDate, c.StartDate)
	}
	return start, end, nil
}

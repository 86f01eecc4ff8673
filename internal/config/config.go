// Package config loads the run configuration from the environment.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// SMTP relay settings are fixed; credentials come from the environment.
const (
	SMTPHost = "smtp.sendgrid.net"
	SMTPPort = 587
)

// DefaultPlan is the addon plan requested for the fork unless overridden.
const DefaultPlan = "heroku-postgresql:standard-0"

// AlertFrom is the fixed sender address for operator alerts.
const AlertFrom = "snapfork@localhost"

// Config holds everything a workflow run needs.
type Config struct {
	// App is the scratch application the fork lives on.
	App string
	// ForkFromApp owns the production database to fork.
	ForkFromApp string
	// APIKey authenticates against both platform APIs.
	APIKey string
	// Plan is the addon plan for the fork.
	Plan string

	// Alert mail settings.
	Recipients   []string
	SMTPUsername string
	SMTPPassword string

	// Logging settings.
	LogLevel string
	LogFile  string
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("SNAPFORK_PLAN", DefaultPlan)
	v.SetDefault("SNAPFORK_LOG_LEVEL", "info")

	cfg := &Config{
		App:          v.GetString("APP"),
		ForkFromApp:  v.GetString("FORK_FROM_APP"),
		APIKey:       v.GetString("HEROKU_API_KEY"),
		Plan:         v.GetString("SNAPFORK_PLAN"),
		Recipients:   splitRecipients(v.GetString("RECIPIENT_EMAILS")),
		SMTPUsername: v.GetString("SENDGRID_USERNAME"),
		SMTPPassword: v.GetString("SENDGRID_PASSWORD"),
		LogLevel:     v.GetString("SNAPFORK_LOG_LEVEL"),
		LogFile:      v.GetString("SNAPFORK_LOG_FILE"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var missing []string
	if c.App == "" {
		missing = append(missing, "APP")
	}
	if c.ForkFromApp == "" {
		missing = append(missing, "FORK_FROM_APP")
	}
	if c.APIKey == "" {
		missing = append(missing, "HEROKU_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

// splitRecipients parses the comma-separated recipient list, dropping empty
// entries.
func splitRecipients(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	recipients := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			recipients = append(recipients, p)
		}
	}
	return recipients
}

// Package profile holds the runtime configuration of the service.
package profile

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Profile is loaded once at startup and treated as read-only afterwards.
type Profile struct {
	// Addr is the address to bind the HTTP server to.
	Addr string
	// Port is the HTTP server port.
	Port int
	// Driver is the storage backend: sqlite, mysql, or postgres.
	Driver string
	// DSN is the database connection string (file path for sqlite).
	DSN string

	// AIBaseURL is the OpenAI-compatible API root, e.g.
	// https://api.groq.com/openai/v1.
	AIBaseURL string
	// AIAPIKey is the upstream credential. Empty degrades /health instead
	// of aborting startup.
	AIAPIKey string
	// AIModel is the completion model identifier.
	AIModel string
	// AITimeout bounds each upstream attempt.
	AITimeout time.Duration
	// AIMaxRetries is the number of additional attempts after the first.
	AIMaxRetries int

	// CompactThreshold is the history size in characters past which older
	// turns are summarized.
	CompactThreshold int
	// KeepRecent is the number of recent turns kept verbatim after
	// compaction.
	KeepRecent int
}

// ListenAddr returns the host:port the server binds to.
func (p *Profile) ListenAddr() string {
	return fmt.Sprintf("%s:%d", p.Addr, p.Port)
}

func (p *Profile) validate() error {
	switch p.Driver {
	case "sqlite", "mysql", "postgres":
	default:
		return errors.Errorf("unsupported driver %q", p.Driver)
	}
	if p.DSN == "" {
		return errors.New("dsn is required")
	}
	if p.Port <= 0 || p.Port > 65535 {
		return errors.Errorf("invalid port %d", p.Port)
	}
	if p.KeepRecent <= 0 {
		return errors.New("keep-recent must be positive")
	}
	return nil
}

func init() {
	viper.SetDefault("addr", "")
	viper.SetDefault("port", 8000)
	viper.SetDefault("driver", "sqlite")
	viper.SetDefault("dsn", "assistant.db")
	viper.SetDefault("ai-base-url", "https://api.groq.com/openai/v1")
	viper.SetDefault("ai-model", "llama-3.1-8b-instant")
	viper.SetDefault("ai-timeout", 30*time.Second)
	viper.SetDefault("ai-max-retries", 2)
	viper.SetDefault("compact-threshold", 400_000)
	viper.SetDefault("keep-recent", 10)

	viper.SetEnvPrefix("assistant")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// GetProfile reads configuration from the environment (ASSISTANT_ prefix)
// and flags bound by the caller.
func GetProfile() (*Profile, error) {
	p := &Profile{
		Addr:             viper.GetString("addr"),
		Port:             viper.GetInt("port"),
		Driver:           viper.GetString("driver"),
		DSN:              viper.GetString("dsn"),
		AIBaseURL:        viper.GetString("ai-base-url"),
		AIAPIKey:         viper.GetString("ai-api-key"),
		AIModel:          viper.GetString("ai-model"),
		AITimeout:        viper.GetDuration("ai-timeout"),
		AIMaxRetries:     viper.GetInt("ai-max-retries"),
		CompactThreshold: viper.GetInt("compact-threshold"),
		KeepRecent:       viper.GetInt("keep-recent"),
	}
	if err := p.validate(); err != nil {
		return nil, errors.Wrap(err, "invalid profile")
	}
	return p, nil
}

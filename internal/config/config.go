// Package config provides configuration for the storefront client,
// combining command-line flags with environment variable overrides.
package config

import (
	"flag"
	"time"

	"github.com/joeshaw/envdecode"
)

// Options holds the configuration values for the client.
type Options struct {
	// APIURL is the base URL of the storefront REST API.
	APIURL string

	// StateDir is the directory holding the durable session files.
	StateDir string

	// AdminEmail is the identity granted the admin role client-side.
	AdminEmail string

	// PageSize is the catalog page size requested from the server.
	PageSize int

	// HTTPTimeout bounds every outbound request at the transport level.
	HTTPTimeout time.Duration

	// LogLevel sets the zap log level.
	LogLevel string
}

// envOptions mirrors Options for environment decoding. A field left unset
// in the environment keeps its flag value.
type envOptions struct {
	APIURL      string        `env:"SHOP_API_URL"`
	StateDir    string        `env:"SHOP_STATE_DIR"`
	AdminEmail  string        `env:"SHOP_ADMIN_EMAIL"`
	PageSize    int           `env:"SHOP_PAGE_SIZE"`
	HTTPTimeout time.Duration `env:"SHOP_HTTP_TIMEOUT"`
	LogLevel    string        `env:"SHOP_LOG_LEVEL"`
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.APIURL, "url", "http://localhost:8080", "storefront API base URL")
	flag.StringVar(&options.StateDir, "state", ".shopfront", "directory for session state files")
	flag.StringVar(&options.AdminEmail, "admin", "admin@admin.com", "email granted the admin role")
	flag.IntVar(&options.PageSize, "size", 100, "catalog page size fetched from the server")
	flag.DurationVar(&options.HTTPTimeout, "timeout", 15*time.Second, "HTTP request timeout")
	flag.StringVar(&options.LogLevel, "log", "info", "log level: debug, info, warn, error")
}

// Parse parses the command-line flags and environment variables and
// returns the resulting configuration. Environment variables win over
// flags when both are set.
func Parse() (*Options, error) {
	flag.Parse()

	var env envOptions
	if err := envdecode.Decode(&env); err != nil && err != envdecode.ErrNoTargetFieldsAreSet {
		return nil, err
	}

	if env.APIURL != "" {
		options.APIURL = env.APIURL
	}
	if env.StateDir != "" {
		options.StateDir = env.StateDir
	}
	if env.AdminEmail != "" {
		options.AdminEmail = env.AdminEmail
	}
	if env.PageSize != 0 {
		options.PageSize = env.PageSize
	}
	if env.HTTPTimeout != 0 {
		options.HTTPTimeout = env.HTTPTimeout
	}
	if env.LogLevel != "" {
		options.LogLevel = env.LogLevel
	}

	return options, nil
}

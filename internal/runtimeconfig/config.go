package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	urlkit "github.com/goliatone/go-urlkit"
)

var (
	ErrStorageProviderUnknown  = errors.New("l10n config: storage provider is invalid")
	ErrStorageDSNRequired      = errors.New("l10n config: storage dsn is required")
	ErrCacheTTLInvalid         = errors.New("l10n config: cache ttl must be positive when cache is enabled")
	ErrViewCacheTimeoutInvalid = errors.New("l10n config: view cache timeout must be zero or positive")
	ErrImportMaxUploadInvalid  = errors.New("l10n config: import max upload bytes must be positive")
	ErrImportRowPolicyInvalid  = errors.New("l10n config: import row error policy is invalid")
	ErrLoggingProviderRequired = errors.New("l10n config: logging provider is required when logging feature is enabled")
	ErrLoggingProviderUnknown  = errors.New("l10n config: logging provider is invalid")
	ErrLoggingLevelInvalid     = errors.New("l10n config: logging level is invalid")
	ErrLoggingFormatInvalid    = errors.New("l10n config: logging format is invalid")
	ErrRoutesBaseURLRequired   = errors.New("l10n config: routes base url is required")
)

// Row error policies for CSV imports.
const (
	RowErrorAbort = "abort"
	RowErrorSkip  = "skip"
)

// Config aggregates feature flags and adapter bindings for the module.
type Config struct {
	Storage  StorageConfig
	Cache    CacheConfig
	Views    ViewsConfig
	Features Features
	Logging  LoggingConfig
	Routes   RoutesConfig
	Import   ImportConfig
}

// StorageConfig selects the database driver and connection string.
type StorageConfig struct {
	Provider string
	DSN      string
}

// CacheConfig controls go-repository-cache wrapping of read-mostly
// repositories.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// ViewsConfig captures view rendering options.
type ViewsConfig struct {
	CacheTimeout time.Duration
	TemplateDir  string
}

// Features toggles module functionality.
type Features struct {
	Insights      bool
	Notifications bool
	Logger        bool
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// RoutesConfig feeds the go-urlkit route manager used for reverse routing.
type RoutesConfig struct {
	BaseURL string
	Config  *urlkit.Config
}

// ImportConfig bounds CSV uploads.
type ImportConfig struct {
	MaxUploadBytes int64
	OnRowError     string
}

// DefaultConfig returns the defaults used by the server and CLI.
func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Provider: "sqlite",
			DSN:      "file:l10n.db?cache=shared&_fk=1",
		},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: time.Minute,
		},
		Views: ViewsConfig{
			CacheTimeout: 15 * time.Minute,
		},
		Features: Features{
			Insights:      true,
			Notifications: true,
		},
		Logging: LoggingConfig{
			Provider: "gologger",
			Level:    "info",
			Format:   "console",
		},
		Routes: RoutesConfig{
			BaseURL: "/",
		},
		Import: ImportConfig{
			MaxUploadBytes: 10 << 20,
			OnRowError:     RowErrorAbort,
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	switch normalize(cfg.Storage.Provider) {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, cfg.Storage.Provider)
	}
	if strings.TrimSpace(cfg.Storage.DSN) == "" {
		return ErrStorageDSNRequired
	}
	if cfg.Cache.Enabled && cfg.Cache.DefaultTTL <= 0 {
		return ErrCacheTTLInvalid
	}
	if cfg.Views.CacheTimeout < 0 {
		return ErrViewCacheTimeoutInvalid
	}
	if cfg.Import.MaxUploadBytes <= 0 {
		return ErrImportMaxUploadInvalid
	}
	switch normalize(cfg.Import.OnRowError) {
	case "", RowErrorAbort, RowErrorSkip:
	default:
		return fmt.Errorf("%w: %s", ErrImportRowPolicyInvalid, cfg.Import.OnRowError)
	}
	if cfg.Routes.Config == nil && strings.TrimSpace(cfg.Routes.BaseURL) == "" {
		return ErrRoutesBaseURLRequired
	}
	if cfg.Features.Logger {
		provider := normalize(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "gologger", "noop":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}

package runtimeconfig_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-l10n/internal/runtimeconfig"
)

func TestDefaultConfigValidates(t *testing.T) {
	if err := runtimeconfig.DefaultConfig().Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*runtimeconfig.Config)
		want   error
	}{
		{
			name:   "unknown storage provider",
			mutate: func(c *runtimeconfig.Config) { c.Storage.Provider = "mysql" },
			want:   runtimeconfig.ErrStorageProviderUnknown,
		},
		{
			name:   "postgres accepted",
			mutate: func(c *runtimeconfig.Config) { c.Storage.Provider = "postgres"; c.Storage.DSN = "postgres://localhost/l10n" },
		},
		{
			name:   "missing dsn",
			mutate: func(c *runtimeconfig.Config) { c.Storage.DSN = " " },
			want:   runtimeconfig.ErrStorageDSNRequired,
		},
		{
			name:   "cache without ttl",
			mutate: func(c *runtimeconfig.Config) { c.Cache.DefaultTTL = 0 },
			want:   runtimeconfig.ErrCacheTTLInvalid,
		},
		{
			name:   "disabled cache ignores ttl",
			mutate: func(c *runtimeconfig.Config) { c.Cache.Enabled = false; c.Cache.DefaultTTL = 0 },
		},
		{
			name:   "negative view cache timeout",
			mutate: func(c *runtimeconfig.Config) { c.Views.CacheTimeout = -1 },
			want:   runtimeconfig.ErrViewCacheTimeoutInvalid,
		},
		{
			name:   "zero upload limit",
			mutate: func(c *runtimeconfig.Config) { c.Import.MaxUploadBytes = 0 },
			want:   runtimeconfig.ErrImportMaxUploadInvalid,
		},
		{
			name:   "unknown row policy",
			mutate: func(c *runtimeconfig.Config) { c.Import.OnRowError = "retry" },
			want:   runtimeconfig.ErrImportRowPolicyInvalid,
		},
		{
			name:   "missing route base",
			mutate: func(c *runtimeconfig.Config) { c.Routes.BaseURL = "" },
			want:   runtimeconfig.ErrRoutesBaseURLRequired,
		},
		{
			name:   "logger without provider",
			mutate: func(c *runtimeconfig.Config) { c.Features.Logger = true; c.Logging.Provider = "" },
			want:   runtimeconfig.ErrLoggingProviderRequired,
		},
		{
			name:   "unknown logger provider",
			mutate: func(c *runtimeconfig.Config) { c.Features.Logger = true; c.Logging.Provider = "syslog" },
			want:   runtimeconfig.ErrLoggingProviderUnknown,
		},
		{
			name:   "invalid level",
			mutate: func(c *runtimeconfig.Config) { c.Features.Logger = true; c.Logging.Level = "verbose" },
			want:   runtimeconfig.ErrLoggingLevelInvalid,
		},
		{
			name:   "invalid format",
			mutate: func(c *runtimeconfig.Config) { c.Features.Logger = true; c.Logging.Format = "xml" },
			want:   runtimeconfig.ErrLoggingFormatInvalid,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := runtimeconfig.DefaultConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.want == nil {
				if err != nil {
					t.Fatalf("Validate() returned unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

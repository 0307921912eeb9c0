package l10n

import "github.com/goliatone/go-l10n/internal/runtimeconfig"

var (
	ErrStorageProviderUnknown  = runtimeconfig.ErrStorageProviderUnknown
	ErrStorageDSNRequired      = runtimeconfig.ErrStorageDSNRequired
	ErrCacheTTLInvalid         = runtimeconfig.ErrCacheTTLInvalid
	ErrViewCacheTimeoutInvalid = runtimeconfig.ErrViewCacheTimeoutInvalid
	ErrImportMaxUploadInvalid  = runtimeconfig.ErrImportMaxUploadInvalid
	ErrImportRowPolicyInvalid  = runtimeconfig.ErrImportRowPolicyInvalid
	ErrLoggingProviderRequired = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown  = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
	ErrRoutesBaseURLRequired   = runtimeconfig.ErrRoutesBaseURLRequired
)

const (
	RowErrorAbort = runtimeconfig.RowErrorAbort
	RowErrorSkip  = runtimeconfig.RowErrorSkip
)

type (
	Config        = runtimeconfig.Config
	StorageConfig = runtimeconfig.StorageConfig
	CacheConfig   = runtimeconfig.CacheConfig
	ViewsConfig   = runtimeconfig.ViewsConfig
	Features      = runtimeconfig.Features
	LoggingConfig = runtimeconfig.LoggingConfig
	RoutesConfig  = runtimeconfig.RoutesConfig
	ImportConfig  = runtimeconfig.ImportConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

package notebridge

import "github.com/goliatone/go-notebridge/internal/runtimeconfig"

var (
	ErrAPIBaseURLRequired      = runtimeconfig.ErrAPIBaseURLRequired
	ErrDefaultModeInvalid      = runtimeconfig.ErrDefaultModeInvalid
	ErrConcurrencyInvalid      = runtimeconfig.ErrConcurrencyInvalid
	ErrRetryAttemptsInvalid    = runtimeconfig.ErrRetryAttemptsInvalid
	ErrRetryDelayInvalid       = runtimeconfig.ErrRetryDelayInvalid
	ErrCacheBudgetInvalid      = runtimeconfig.ErrCacheBudgetInvalid
	ErrNotesContentDirRequired = runtimeconfig.ErrNotesContentDirRequired
	ErrLoggingProviderRequired = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown  = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config         = runtimeconfig.Config
	APIConfig      = runtimeconfig.APIConfig
	CacheConfig    = runtimeconfig.CacheConfig
	ResolverConfig = runtimeconfig.ResolverConfig
	RetryConfig    = runtimeconfig.RetryConfig
	NotesConfig    = runtimeconfig.NotesConfig
	PreviewConfig  = runtimeconfig.PreviewConfig
	LoggingConfig  = runtimeconfig.LoggingConfig
	Features       = runtimeconfig.Features
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

package docs

import "github.com/riguelni/go-docs/internal/runtimeconfig"

var (
	ErrRevealDelayNegative        = runtimeconfig.ErrRevealDelayNegative
	ErrNavigationLevelRange       = runtimeconfig.ErrNavigationLevelRange
	ErrHeaderOffsetNegative       = runtimeconfig.ErrHeaderOffsetNegative
	ErrServerAddrRequired         = runtimeconfig.ErrServerAddrRequired
	ErrGeneratorOutputDirRequired = runtimeconfig.ErrGeneratorOutputDirRequired
	ErrGeneratorWorkersInvalid    = runtimeconfig.ErrGeneratorWorkersInvalid
	ErrMarkdownCacheSizeInvalid   = runtimeconfig.ErrMarkdownCacheSizeInvalid
	ErrBaseURLInvalid             = runtimeconfig.ErrBaseURLInvalid
	ErrMCPEndpointInvalid         = runtimeconfig.ErrMCPEndpointInvalid
	ErrLoggingProviderUnknown     = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid        = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid       = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config           = runtimeconfig.Config
	SiteConfig       = runtimeconfig.SiteConfig
	ContentConfig    = runtimeconfig.ContentConfig
	MarkdownConfig   = runtimeconfig.MarkdownConfig
	RevealConfig     = runtimeconfig.RevealConfig
	NavigationConfig = runtimeconfig.NavigationConfig
	ServerConfig     = runtimeconfig.ServerConfig
	GeneratorConfig  = runtimeconfig.GeneratorConfig
	LoggingConfig    = runtimeconfig.LoggingConfig
	MCPConfig        = runtimeconfig.MCPConfig
	ThemeConfig      = runtimeconfig.ThemeConfig
)

// DefaultConfig returns the configuration used when no file is supplied.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads a YAML config file over the defaults.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.LoadFile(path)
}

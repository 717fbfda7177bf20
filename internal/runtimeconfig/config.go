package runtimeconfig

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

var (
	ErrRevealDelayNegative        = errors.New("docs config: reveal delay must be zero or positive")
	ErrNavigationLevelRange       = errors.New("docs config: on-this-page level range must satisfy 1 <= min <= max <= 6")
	ErrHeaderOffsetNegative       = errors.New("docs config: scroll header offset must be zero or positive")
	ErrServerAddrRequired         = errors.New("docs config: server address is required")
	ErrGeneratorOutputDirRequired = errors.New("docs config: generator output directory is required")
	ErrGeneratorWorkersInvalid    = errors.New("docs config: generator workers must be zero or positive")
	ErrMarkdownCacheSizeInvalid   = errors.New("docs config: markdown cache size must be zero or positive")
	ErrBaseURLInvalid             = errors.New("docs config: site base url must be an absolute http(s) url")
	ErrMCPEndpointInvalid         = errors.New("docs config: mcp endpoint must start with /")
	ErrLoggingProviderUnknown     = errors.New("docs config: logging provider is invalid")
	ErrLoggingLevelInvalid        = errors.New("docs config: logging level is invalid")
	ErrLoggingFormatInvalid       = errors.New("docs config: logging format is invalid")
)

// Config aggregates every runtime knob of the docs site. Zero-value sections
// are valid; DefaultConfig fills in the values used by the binaries.
type Config struct {
	Site       SiteConfig       `yaml:"site"`
	Content    ContentConfig    `yaml:"content"`
	Markdown   MarkdownConfig   `yaml:"markdown"`
	Reveal     RevealConfig     `yaml:"reveal"`
	Navigation NavigationConfig `yaml:"navigation"`
	Server     ServerConfig     `yaml:"server"`
	Generator  GeneratorConfig  `yaml:"generator"`
	Logging    LoggingConfig    `yaml:"logging"`
	MCP        MCPConfig        `yaml:"mcp"`
	Theme      ThemeConfig      `yaml:"theme"`
}

// SiteConfig overrides manifest values when set.
type SiteConfig struct {
	Title   string `yaml:"title"`
	BaseURL string `yaml:"base_url"`
}

// ContentConfig selects where pages come from. An empty Dir uses the content
// embedded in the binary.
type ContentConfig struct {
	Dir      string        `yaml:"dir"`
	Watch    bool          `yaml:"watch"`
	Debounce time.Duration `yaml:"debounce"`
}

// MarkdownConfig mirrors markdown.Options.
type MarkdownConfig struct {
	Extensions       []string `yaml:"extensions"`
	HardWraps        bool     `yaml:"hard_wraps"`
	SafeMode         bool     `yaml:"safe_mode"`
	UniqueHeadingIDs bool     `yaml:"unique_heading_ids"`
	CacheSize        int      `yaml:"cache_size"`
}

// RevealConfig controls the skeleton phase. Delay zero disables it.
type RevealConfig struct {
	Delay time.Duration `yaml:"delay"`
}

// NavigationConfig holds the on-this-page range and the scroll contract sent
// to the client script.
type NavigationConfig struct {
	MinLevel     int           `yaml:"min_level"`
	MaxLevel     int           `yaml:"max_level"`
	HeaderOffset int           `yaml:"header_offset"`
	SettleDelay  time.Duration `yaml:"settle_delay"`
}

type ServerConfig struct {
	Addr              string        `yaml:"addr"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`
	Metrics           bool          `yaml:"metrics"`
}

type GeneratorConfig struct {
	OutputDir       string        `yaml:"output_dir"`
	Workers         int           `yaml:"workers"`
	CleanBuild      bool          `yaml:"clean_build"`
	Incremental     bool          `yaml:"incremental"`
	CopyAssets      bool          `yaml:"copy_assets"`
	GenerateSitemap bool          `yaml:"generate_sitemap"`
	GenerateRobots  bool          `yaml:"generate_robots"`
	RenderTimeout   time.Duration `yaml:"render_timeout"`
}

// LoggingConfig selects the provider. Format only applies to gologger.
type LoggingConfig struct {
	Provider  string   `yaml:"provider"`
	Level     string   `yaml:"level"`
	Format    string   `yaml:"format"`
	AddSource bool     `yaml:"add_source"`
	Focus     []string `yaml:"focus"`
}

type MCPConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"`
	Name     string `yaml:"name"`
	Version  string `yaml:"version"`
}

// ThemeConfig points at an optional go-theme manifest directory. Without one
// the built-in assets are used.
type ThemeConfig struct {
	Dir     string `yaml:"dir"`
	Name    string `yaml:"name"`
	Variant string `yaml:"variant"`
}

// DefaultConfig returns the configuration used when no file is supplied.
func DefaultConfig() Config {
	return Config{
		Content: ContentConfig{
			Debounce: 200 * time.Millisecond,
		},
		Markdown: MarkdownConfig{
			Extensions: []string{"gfm", "linkify", "tasklist"},
			CacheSize:  256,
		},
		Reveal: RevealConfig{
			Delay: time.Second,
		},
		Navigation: NavigationConfig{
			MinLevel:     2,
			MaxLevel:     3,
			HeaderOffset: 80,
			SettleDelay:  100 * time.Millisecond,
		},
		Server: ServerConfig{
			Addr:              ":8080",
			ReadHeaderTimeout: 5 * time.Second,
			ShutdownTimeout:   10 * time.Second,
			Metrics:           true,
		},
		Generator: GeneratorConfig{
			OutputDir:       "dist",
			CleanBuild:      true,
			CopyAssets:      true,
			GenerateSitemap: true,
			GenerateRobots:  true,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
		MCP: MCPConfig{
			Endpoint: "/mcp",
			Name:     "riguelni-docs",
			Version:  "0.1.0",
		},
		Theme: ThemeConfig{
			Name:    "default",
			Variant: "light",
		},
	}
}

// Validate performs consistency checks across sections.
func (cfg Config) Validate() error {
	if base := strings.TrimSpace(cfg.Site.BaseURL); base != "" {
		parsed, err := url.Parse(base)
		if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
			return fmt.Errorf("%w: %q", ErrBaseURLInvalid, base)
		}
	}
	if cfg.Reveal.Delay < 0 {
		return ErrRevealDelayNegative
	}
	if cfg.Markdown.CacheSize < 0 {
		return ErrMarkdownCacheSizeInvalid
	}
	nav := cfg.Navigation
	if nav.MinLevel < 1 || nav.MaxLevel > 6 || nav.MinLevel > nav.MaxLevel {
		return fmt.Errorf("%w: %d..%d", ErrNavigationLevelRange, nav.MinLevel, nav.MaxLevel)
	}
	if nav.HeaderOffset < 0 {
		return ErrHeaderOffsetNegative
	}
	if strings.TrimSpace(cfg.Server.Addr) == "" {
		return ErrServerAddrRequired
	}
	if strings.TrimSpace(cfg.Generator.OutputDir) == "" {
		return ErrGeneratorOutputDirRequired
	}
	if cfg.Generator.Workers < 0 {
		return ErrGeneratorWorkersInvalid
	}
	if cfg.MCP.Enabled && !strings.HasPrefix(cfg.MCP.Endpoint, "/") {
		return fmt.Errorf("%w: %q", ErrMCPEndpointInvalid, cfg.MCP.Endpoint)
	}

	provider := normalize(cfg.Logging.Provider)
	if !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := normalize(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == "gologger" {
		if format := normalize(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
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
	case "", "none", "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch level {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch format {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}

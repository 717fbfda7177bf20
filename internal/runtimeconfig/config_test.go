package runtimeconfig_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/riguelni/go-docs/internal/runtimeconfig"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.Reveal.Delay != time.Second {
		t.Fatalf("expected one second reveal delay, got %s", cfg.Reveal.Delay)
	}
}

func TestConfigValidateErrors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*runtimeconfig.Config)
		want   error
	}{
		{"negative delay", func(c *runtimeconfig.Config) { c.Reveal.Delay = -time.Millisecond }, runtimeconfig.ErrRevealDelayNegative},
		{"level range inverted", func(c *runtimeconfig.Config) { c.Navigation.MinLevel = 4; c.Navigation.MaxLevel = 2 }, runtimeconfig.ErrNavigationLevelRange},
		{"level above six", func(c *runtimeconfig.Config) { c.Navigation.MaxLevel = 7 }, runtimeconfig.ErrNavigationLevelRange},
		{"negative offset", func(c *runtimeconfig.Config) { c.Navigation.HeaderOffset = -1 }, runtimeconfig.ErrHeaderOffsetNegative},
		{"empty addr", func(c *runtimeconfig.Config) { c.Server.Addr = " " }, runtimeconfig.ErrServerAddrRequired},
		{"empty output", func(c *runtimeconfig.Config) { c.Generator.OutputDir = "" }, runtimeconfig.ErrGeneratorOutputDirRequired},
		{"negative workers", func(c *runtimeconfig.Config) { c.Generator.Workers = -2 }, runtimeconfig.ErrGeneratorWorkersInvalid},
		{"negative cache", func(c *runtimeconfig.Config) { c.Markdown.CacheSize = -1 }, runtimeconfig.ErrMarkdownCacheSizeInvalid},
		{"relative base url", func(c *runtimeconfig.Config) { c.Site.BaseURL = "docs.riguelni.dev" }, runtimeconfig.ErrBaseURLInvalid},
		{"mcp endpoint", func(c *runtimeconfig.Config) { c.MCP.Enabled = true; c.MCP.Endpoint = "mcp" }, runtimeconfig.ErrMCPEndpointInvalid},
		{"unknown provider", func(c *runtimeconfig.Config) { c.Logging.Provider = "syslog" }, runtimeconfig.ErrLoggingProviderUnknown},
		{"unknown level", func(c *runtimeconfig.Config) { c.Logging.Level = "loud" }, runtimeconfig.ErrLoggingLevelInvalid},
		{"gologger format", func(c *runtimeconfig.Config) { c.Logging.Provider = "gologger"; c.Logging.Format = "xml" }, runtimeconfig.ErrLoggingFormatInvalid},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := runtimeconfig.DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestConsoleProviderIgnoresFormat(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("format should only matter for gologger: %v", err)
	}
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := runtimeconfig.Parse([]byte(`
site:
  base_url: https://docs.riguelni.dev
reveal:
  delay: 250ms
navigation:
  min_level: 2
  max_level: 4
logging:
  provider: gologger
  format: json
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Reveal.Delay != 250*time.Millisecond {
		t.Fatalf("expected 250ms delay, got %s", cfg.Reveal.Delay)
	}
	if cfg.Navigation.MaxLevel != 4 || cfg.Navigation.HeaderOffset != 80 {
		t.Fatalf("expected override with defaults kept, got %+v", cfg.Navigation)
	}
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("expected default addr to survive, got %q", cfg.Server.Addr)
	}
}

func TestParseEmptyDocumentYieldsDefaults(t *testing.T) {
	cfg, err := runtimeconfig.Parse(nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Generator.OutputDir != "dist" {
		t.Fatalf("expected defaults, got %+v", cfg.Generator)
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	if _, err := runtimeconfig.Parse([]byte("revael:\n  delay: 1s\n")); err == nil {
		t.Fatalf("expected unknown key to be rejected")
	}
}

func TestParseValidates(t *testing.T) {
	_, err := runtimeconfig.Parse([]byte("reveal:\n  delay: -1s\n"))
	if !errors.Is(err, runtimeconfig.ErrRevealDelayNegative) {
		t.Fatalf("expected ErrRevealDelayNegative, got %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs.yaml")
	if err := os.WriteFile(path, []byte("server:\n  addr: 127.0.0.1:9000\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := runtimeconfig.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Fatalf("unexpected addr %q", cfg.Server.Addr)
	}

	if _, err := runtimeconfig.LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

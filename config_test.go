package docs_test

import (
	"errors"
	"testing"

	docs "github.com/riguelni/go-docs"
)

func TestConfigValidateRevealDelay(t *testing.T) {
	cfg := docs.DefaultConfig()
	cfg.Reveal.Delay = -1
	if err := cfg.Validate(); !errors.Is(err, docs.ErrRevealDelayNegative) {
		t.Fatalf("expected ErrRevealDelayNegative, got %v", err)
	}
}

func TestConfigValidateNavigationRange(t *testing.T) {
	cfg := docs.DefaultConfig()
	cfg.Navigation.MinLevel = 4
	cfg.Navigation.MaxLevel = 2
	if err := cfg.Validate(); !errors.Is(err, docs.ErrNavigationLevelRange) {
		t.Fatalf("expected ErrNavigationLevelRange, got %v", err)
	}
}

func TestConfigValidateMCPEndpoint(t *testing.T) {
	cfg := docs.DefaultConfig()
	cfg.MCP.Enabled = true
	cfg.MCP.Endpoint = "mcp"
	if err := cfg.Validate(); !errors.Is(err, docs.ErrMCPEndpointInvalid) {
		t.Fatalf("expected ErrMCPEndpointInvalid, got %v", err)
	}
}

func TestConfigValidateLoggingProvider(t *testing.T) {
	cfg := docs.DefaultConfig()
	cfg.Logging.Provider = "syslog"
	if err := cfg.Validate(); !errors.Is(err, docs.ErrLoggingProviderUnknown) {
		t.Fatalf("expected ErrLoggingProviderUnknown, got %v", err)
	}
}

func TestConfigValidateBaseURL(t *testing.T) {
	cfg := docs.DefaultConfig()
	cfg.Site.BaseURL = "docs.example.com"
	if err := cfg.Validate(); !errors.Is(err, docs.ErrBaseURLInvalid) {
		t.Fatalf("expected ErrBaseURLInvalid, got %v", err)
	}
}

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/riguelni/go-docs/cmd/markdown/internal/bootstrap"
	"github.com/riguelni/go-docs/internal/logging"
	"github.com/riguelni/go-docs/pkg/interfaces"
)

type noopProvider struct{}

func (noopProvider) GetLogger(string) interfaces.Logger { return logging.NoOp() }

func captureOutput(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	prevOut, prevErr := stdout, stderr
	stdout, stderr = &out, &errOut
	t.Cleanup(func() { stdout, stderr = prevOut, prevErr })
	return &out, &errOut
}

func withQuietModule(t *testing.T) {
	t.Helper()
	original := moduleBuilder
	moduleBuilder = func(opts bootstrap.Options) (*bootstrap.Module, error) {
		opts.LoggerProvider = noopProvider{}
		return original(opts)
	}
	t.Cleanup(func() { moduleBuilder = original })
}

func TestRunPreviewRendersEmbeddedRoute(t *testing.T) {
	withQuietModule(t)
	out, errOut := captureOutput(t)

	if err := runPreview([]string{"-route", "/docs/integrations/content/github/setup"}); err != nil {
		t.Fatalf("runPreview returned error: %v", err)
	}
	if !strings.Contains(out.String(), `id="install-the-app"`) {
		t.Fatalf("expected heading anchor in output, got %q", out.String())
	}
	if !strings.Contains(errOut.String(), "headings=") {
		t.Fatalf("expected summary on stderr, got %q", errOut.String())
	}
}

func TestRunPreviewRendersFileAsJSON(t *testing.T) {
	withQuietModule(t)
	out, _ := captureOutput(t)

	file := filepath.Join(t.TempDir(), "draft.md")
	if err := os.WriteFile(file, []byte("# Title\n\nSome text.\n\n## Sub Heading\n\nMore text."), 0o644); err != nil {
		t.Fatalf("write draft: %v", err)
	}
	if err := runPreview([]string{"-file", file, "-format", "json"}); err != nil {
		t.Fatalf("runPreview returned error: %v", err)
	}
	if !strings.Contains(out.String(), `"sub-heading"`) {
		t.Fatalf("expected sub-heading id in json, got %q", out.String())
	}
}

func TestRunPreviewRequiresSource(t *testing.T) {
	withQuietModule(t)
	captureOutput(t)

	if err := runPreview(nil); err == nil {
		t.Fatal("expected validation error without route or file")
	}
}

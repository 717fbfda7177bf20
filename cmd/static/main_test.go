package main

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"
	"time"

	staticcmd "github.com/riguelni/go-docs/internal/commands/static"
	"github.com/riguelni/go-docs/internal/generator"
)

type stubHandlers struct {
	build *stubBuildHandler
	diff  *stubDiffHandler
	clean *stubCleanHandler
}

type stubBuildHandler struct {
	last staticcmd.BuildSiteCommand
	err  error
}

func (s *stubBuildHandler) Execute(_ context.Context, msg staticcmd.BuildSiteCommand) error {
	s.last = msg
	if msg.ResultCallback != nil {
		msg.ResultCallback(staticcmd.ResultEnvelope{
			Result: &generator.BuildResult{
				PagesBuilt: 3,
				Duration:   12 * time.Millisecond,
				DryRun:     msg.DryRun,
				Diagnostics: []generator.RenderDiagnostic{
					{Route: "/docs/a/content/b/broken", Err: errors.New("template failed")},
				},
			},
			Metadata: map[string]any{"operation": "build"},
		})
	}
	return s.err
}

type stubDiffHandler struct {
	last staticcmd.DiffSiteCommand
}

func (s *stubDiffHandler) Execute(_ context.Context, msg staticcmd.DiffSiteCommand) error {
	s.last = msg
	if msg.ResultCallback != nil {
		msg.ResultCallback(staticcmd.ResultEnvelope{
			Result:   &generator.BuildResult{DryRun: true},
			Metadata: map[string]any{"operation": "diff"},
		})
	}
	return nil
}

type stubCleanHandler struct {
	calls int
	err   error
}

func (s *stubCleanHandler) Execute(context.Context, staticcmd.CleanSiteCommand) error {
	s.calls++
	return s.err
}

func withStubModule(t *testing.T) (*stubHandlers, *moduleOptions) {
	t.Helper()
	original := moduleBuilder
	stubs := &stubHandlers{
		build: &stubBuildHandler{},
		diff:  &stubDiffHandler{},
		clean: &stubCleanHandler{},
	}
	captured := &moduleOptions{}
	moduleBuilder = func(opts moduleOptions) (*moduleResources, error) {
		*captured = opts
		return &moduleResources{
			handlers: handlerSet{
				build: stubs.build,
				diff:  stubs.diff,
				clean: stubs.clean,
			},
		}, nil
	}
	t.Cleanup(func() { moduleBuilder = original })
	return stubs, captured
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevOutput := log.Writer()
	prevFlags := log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(prevOutput)
		log.SetFlags(prevFlags)
	})
	return &buf
}

func TestRunBuild_UsesCommandHandler(t *testing.T) {
	stubs, opts := withStubModule(t)
	buf := captureLogs(t)

	err := run([]string{"build",
		"--route", "/docs/integrations/content/github/overview,/docs/integrations/content/jira/setup",
		"--output", "public",
		"--incremental",
	})
	if err != nil {
		t.Fatalf("run build: %v", err)
	}

	got := stubs.build.last
	if len(got.Routes) != 2 || got.Routes[1] != "/docs/integrations/content/jira/setup" {
		t.Fatalf("unexpected routes %#v", got.Routes)
	}
	if got.DryRun {
		t.Fatal("expected dry run to be false")
	}
	if opts.OutputDir != "public" || !opts.Incremental {
		t.Fatalf("expected flags to reach bootstrap, got %#v", opts)
	}
	logOutput := buf.String()
	if !strings.Contains(logOutput, "module=static operation=build summary pages_built=3") {
		t.Fatalf("expected build summary log, got %q", logOutput)
	}
	if !strings.Contains(logOutput, "route=/docs/a/content/b/broken error=template failed") {
		t.Fatalf("expected diagnostic log, got %q", logOutput)
	}
}

func TestRunBuild_DryRunFlag(t *testing.T) {
	stubs, _ := withStubModule(t)
	captureLogs(t)

	if err := run([]string{"build", "--dry-run"}); err != nil {
		t.Fatalf("run build: %v", err)
	}
	if !stubs.build.last.DryRun {
		t.Fatal("expected dry run to propagate")
	}
}

func TestRunDiff_UsesCommandHandler(t *testing.T) {
	stubs, _ := withStubModule(t)
	buf := captureLogs(t)

	if err := run([]string{"diff", "--route", "/docs/integrations/content/github/setup"}); err != nil {
		t.Fatalf("run diff: %v", err)
	}
	if len(stubs.diff.last.Routes) != 1 {
		t.Fatalf("expected one route, got %#v", stubs.diff.last.Routes)
	}
	if !strings.Contains(buf.String(), "module=static operation=diff summary") {
		t.Fatalf("expected diff summary log, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "dry_run=true") {
		t.Fatalf("expected dry_run=true, got %q", buf.String())
	}
}

func TestRunClean_UsesCommandHandler(t *testing.T) {
	stubs, _ := withStubModule(t)
	buf := captureLogs(t)

	if err := run([]string{"clean"}); err != nil {
		t.Fatalf("run clean: %v", err)
	}
	if stubs.clean.calls != 1 {
		t.Fatalf("expected clean handler called once, got %d", stubs.clean.calls)
	}
	if !strings.Contains(buf.String(), "module=static operation=clean") {
		t.Fatalf("expected clean log, got %q", buf.String())
	}
}

func TestRun_ErrorsWhenHandlersMissing(t *testing.T) {
	original := moduleBuilder
	moduleBuilder = func(moduleOptions) (*moduleResources, error) {
		return &moduleResources{}, nil
	}
	t.Cleanup(func() { moduleBuilder = original })

	err := run([]string{"build"})
	if err == nil || !strings.Contains(err.Error(), "not configured") {
		t.Fatalf("expected handler error, got %v", err)
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	err := run([]string{"unknown"})
	if err == nil || !strings.Contains(err.Error(), "unknown subcommand") {
		t.Fatalf("expected unknown subcommand error, got %v", err)
	}
}

func TestRun_NoArgs(t *testing.T) {
	err := run([]string{})
	if err == nil || !strings.Contains(err.Error(), "missing subcommand") {
		t.Fatalf("expected missing subcommand error, got %v", err)
	}
}

func TestRunHandlersPropagateErrors(t *testing.T) {
	stubs, _ := withStubModule(t)
	stubs.build.err = errors.New("boom")
	captureLogs(t)

	err := run([]string{"build"})
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected propagated error, got %v", err)
	}
}

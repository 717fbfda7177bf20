package staticcmd

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/riguelni/go-docs/internal/commands"
	"github.com/riguelni/go-docs/internal/commands/fixtures"
	"github.com/riguelni/go-docs/internal/generator"
)

func TestBuildSiteHandler_Execute_Build(t *testing.T) {
	cmd := loadBuildFixture(t, "build_basic.json")

	var capturedOpts generator.BuildOptions
	callbackInvoked := false

	svc := &fakeGeneratorService{
		buildFunc: func(ctx context.Context, opts generator.BuildOptions) (*generator.BuildResult, error) {
			capturedOpts = opts
			return &generator.BuildResult{PagesBuilt: 2}, nil
		},
	}
	observer := &recordingObserver{}
	handler := NewBuildSiteHandler(svc, nil, observer)

	cmd.ResultCallback = func(env ResultEnvelope) {
		callbackInvoked = true
		if env.Result == nil || env.Result.PagesBuilt != 2 {
			t.Fatalf("unexpected build result %#v", env.Result)
		}
		if env.Metadata["operation"] != "build" {
			t.Fatalf("expected operation build, got %v", env.Metadata["operation"])
		}
	}

	if err := handler.Execute(context.Background(), cmd); err != nil {
		t.Fatalf("execute build: %v", err)
	}
	if capturedOpts.DryRun {
		t.Fatalf("expected DryRun false")
	}
	if len(capturedOpts.Routes) != 2 {
		t.Fatalf("expected duplicate routes collapsed to 2, got %v", capturedOpts.Routes)
	}
	if !callbackInvoked {
		t.Fatal("expected callback to be invoked")
	}
	if len(observer.calls) != 1 || observer.calls[0] != "docs.static.build:success" {
		t.Fatalf("unexpected observer calls %v", observer.calls)
	}
}

func TestBuildSiteHandler_Execute_DryRun(t *testing.T) {
	cmd := loadBuildFixture(t, "build_dry_run.json")

	var capturedOpts generator.BuildOptions
	svc := &fakeGeneratorService{
		buildFunc: func(ctx context.Context, opts generator.BuildOptions) (*generator.BuildResult, error) {
			capturedOpts = opts
			return &generator.BuildResult{DryRun: true}, nil
		},
	}
	if err := NewBuildSiteHandler(svc, nil, nil).Execute(context.Background(), cmd); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !capturedOpts.DryRun || capturedOpts.Routes != nil {
		t.Fatalf("unexpected options %+v", capturedOpts)
	}
}

func TestBuildSiteHandler_Execute_PropagatesFailure(t *testing.T) {
	buildErr := errors.New("render failed")
	svc := &fakeGeneratorService{
		buildFunc: func(ctx context.Context, opts generator.BuildOptions) (*generator.BuildResult, error) {
			return &generator.BuildResult{Errors: []error{buildErr}}, buildErr
		},
	}
	observer := &recordingObserver{}
	var envelope ResultEnvelope
	err := NewBuildSiteHandler(svc, nil, observer).Execute(context.Background(), BuildSiteCommand{
		ResultCallback: func(env ResultEnvelope) { envelope = env },
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if envelope.Result == nil || len(envelope.Result.Errors) != 1 {
		t.Fatalf("expected partial result delivered to callback")
	}
	if observer.calls[0] != "docs.static.build:failed" {
		t.Fatalf("unexpected observer calls %v", observer.calls)
	}
}

func TestBuildSiteCommandValidate(t *testing.T) {
	cmd := loadBuildFixture(t, "build_invalid_route.json")
	if err := cmd.Validate(); err == nil {
		t.Fatal("expected validation error for invalid routes")
	}

	called := false
	svc := &fakeGeneratorService{
		buildFunc: func(context.Context, generator.BuildOptions) (*generator.BuildResult, error) {
			called = true
			return nil, nil
		},
	}
	err := NewBuildSiteHandler(svc, nil, nil).Execute(context.Background(), cmd)
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if called {
		t.Fatal("expected build not to run")
	}
}

func TestDiffSiteHandler_Execute_AlwaysDryRun(t *testing.T) {
	var capturedOpts generator.BuildOptions
	svc := &fakeGeneratorService{
		buildFunc: func(ctx context.Context, opts generator.BuildOptions) (*generator.BuildResult, error) {
			capturedOpts = opts
			return &generator.BuildResult{DryRun: true, PagesBuilt: 1}, nil
		},
	}
	var envelope ResultEnvelope
	err := NewDiffSiteHandler(svc, nil, nil).Execute(context.Background(), DiffSiteCommand{
		Routes:         []string{"/docs/integrations/content/github/overview"},
		ResultCallback: func(env ResultEnvelope) { envelope = env },
	})
	if err != nil {
		t.Fatalf("execute diff: %v", err)
	}
	if !capturedOpts.DryRun {
		t.Fatal("expected dry run")
	}
	if envelope.Metadata["operation"] != "diff" {
		t.Fatalf("unexpected metadata %v", envelope.Metadata)
	}
}

func TestCleanSiteHandler_Execute(t *testing.T) {
	cleanCalled := false
	svc := &fakeGeneratorService{
		cleanFunc: func(ctx context.Context) error {
			cleanCalled = true
			return nil
		},
	}
	if err := NewCleanSiteHandler(svc, nil, nil).Execute(context.Background(), CleanSiteCommand{}); err != nil {
		t.Fatalf("execute clean: %v", err)
	}
	if !cleanCalled {
		t.Fatal("expected Clean to be called")
	}
}

func TestCleanSiteHandler_Execute_WithoutService(t *testing.T) {
	err := NewCleanSiteHandler(nil, nil, nil).Execute(context.Background(), CleanSiteCommand{})
	if !errors.Is(err, errServiceRequired) {
		t.Fatalf("expected errServiceRequired, got %v", err)
	}
}

func TestRegisterStaticCommands(t *testing.T) {
	reg := fixtures.NewRecordingRegistry()
	set, err := RegisterStaticCommands(reg, &fakeGeneratorService{}, nil, nil)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if len(reg.Handlers) != 3 {
		t.Fatalf("expected 3 handlers registered, got %d", len(reg.Handlers))
	}
	if reg.Handlers[0] != any(set.Build) {
		t.Fatalf("expected build handler registered first")
	}
	if _, err := RegisterStaticCommands(reg, nil, nil, nil); !errors.Is(err, errServiceRequired) {
		t.Fatalf("expected errServiceRequired, got %v", err)
	}
}

func loadBuildFixture(t *testing.T, name string) BuildSiteCommand {
	t.Helper()
	var cmd BuildSiteCommand
	path := filepath.Join("testdata", name)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture %s: %v", name, err)
	}
	if err := json.Unmarshal(data, &cmd); err != nil {
		t.Fatalf("unmarshal fixture %s: %v", name, err)
	}
	return cmd
}

type recordingObserver struct {
	calls []string
}

func (r *recordingObserver) ObserveCommand(command, status string) {
	r.calls = append(r.calls, command+":"+status)
}

var _ commands.CommandObserver = (*recordingObserver)(nil)

type fakeGeneratorService struct {
	buildFunc     func(context.Context, generator.BuildOptions) (*generator.BuildResult, error)
	buildPageFunc func(context.Context, string) (*generator.RenderedPage, error)
	cleanFunc     func(context.Context) error
}

func (f *fakeGeneratorService) Build(ctx context.Context, opts generator.BuildOptions) (*generator.BuildResult, error) {
	if f.buildFunc != nil {
		return f.buildFunc(ctx, opts)
	}
	return nil, nil
}

func (f *fakeGeneratorService) BuildPage(ctx context.Context, route string) (*generator.RenderedPage, error) {
	if f.buildPageFunc != nil {
		return f.buildPageFunc(ctx, route)
	}
	return nil, nil
}

func (f *fakeGeneratorService) Clean(ctx context.Context) error {
	if f.cleanFunc != nil {
		return f.cleanFunc(ctx)
	}
	return nil
}

package staticcmd

import (
	"context"
	"errors"

	command "github.com/goliatone/go-command"
	"github.com/riguelni/go-docs/internal/commands"
	"github.com/riguelni/go-docs/internal/generator"
	"github.com/riguelni/go-docs/pkg/interfaces"
)

var errServiceRequired = errors.New("static command: generator service required")

var (
	_ command.Commander[BuildSiteCommand] = (*BuildSiteHandler)(nil)
	_ command.Commander[DiffSiteCommand]  = (*DiffSiteHandler)(nil)
	_ command.Commander[CleanSiteCommand] = (*CleanSiteHandler)(nil)
)

// BuildSiteHandler renders the site (or a route subset) to the output directory.
type BuildSiteHandler struct {
	*commands.Handler[BuildSiteCommand]
}

// DiffSiteHandler reports what a build would change without writing.
type DiffSiteHandler struct {
	*commands.Handler[DiffSiteCommand]
}

// CleanSiteHandler removes generated output.
type CleanSiteHandler struct {
	*commands.Handler[CleanSiteCommand]
}

func NewBuildSiteHandler(service generator.Service, logger interfaces.Logger, observer commands.CommandObserver, opts ...commands.HandlerOption[BuildSiteCommand]) *BuildSiteHandler {
	exec := func(ctx context.Context, msg BuildSiteCommand) error {
		return runBuild(ctx, service, "build", msg.Routes, msg.DryRun, msg.ResultCallback)
	}
	fields := func(msg BuildSiteCommand) map[string]any {
		out := map[string]any{"routes": len(msg.Routes)}
		if msg.DryRun {
			out["dry_run"] = true
		}
		return out
	}
	// Full builds can outlive the default command timeout.
	base := withDefaults[BuildSiteCommand](logger, observer, "static.build", fields)
	base = append(base, commands.WithTimeout[BuildSiteCommand](0))
	return &BuildSiteHandler{commands.NewHandler(exec, append(base, opts...)...)}
}

func NewDiffSiteHandler(service generator.Service, logger interfaces.Logger, observer commands.CommandObserver, opts ...commands.HandlerOption[DiffSiteCommand]) *DiffSiteHandler {
	exec := func(ctx context.Context, msg DiffSiteCommand) error {
		return runBuild(ctx, service, "diff", msg.Routes, true, msg.ResultCallback)
	}
	fields := func(msg DiffSiteCommand) map[string]any {
		return map[string]any{"routes": len(msg.Routes)}
	}
	base := withDefaults[DiffSiteCommand](logger, observer, "static.diff", fields)
	return &DiffSiteHandler{commands.NewHandler(exec, append(base, opts...)...)}
}

func NewCleanSiteHandler(service generator.Service, logger interfaces.Logger, observer commands.CommandObserver, opts ...commands.HandlerOption[CleanSiteCommand]) *CleanSiteHandler {
	exec := func(ctx context.Context, _ CleanSiteCommand) error {
		if service == nil {
			return errServiceRequired
		}
		return service.Clean(ctx)
	}
	base := withDefaults[CleanSiteCommand](logger, observer, "static.clean", nil)
	return &CleanSiteHandler{commands.NewHandler(exec, append(base, opts...)...)}
}

// HandlerSet groups the static command handlers.
type HandlerSet struct {
	Build *BuildSiteHandler
	Diff  *DiffSiteHandler
	Clean *CleanSiteHandler
}

// RegisterStaticCommands builds the static handlers and registers them with reg.
func RegisterStaticCommands(reg commands.CommandRegistry, service generator.Service, provider interfaces.LoggerProvider, observer commands.CommandObserver) (*HandlerSet, error) {
	if service == nil {
		return nil, errServiceRequired
	}
	logger := commands.CommandLogger(provider, "static")
	set := &HandlerSet{
		Build: NewBuildSiteHandler(service, logger, observer),
		Diff:  NewDiffSiteHandler(service, logger, observer),
		Clean: NewCleanSiteHandler(service, logger, observer),
	}
	if err := commands.Register(reg, set.Build, set.Diff, set.Clean); err != nil {
		return nil, err
	}
	return set, nil
}

func withDefaults[T command.Message](logger interfaces.Logger, observer commands.CommandObserver, operation string, fields func(T) map[string]any) []commands.HandlerOption[T] {
	logger = commands.EnsureLogger(logger)
	opts := []commands.HandlerOption[T]{
		commands.WithLogger[T](logger),
		commands.WithOperation[T](operation),
		commands.WithTelemetry(commands.DefaultTelemetry[T](logger, observer)),
	}
	if fields != nil {
		opts = append(opts, commands.WithMessageFields(fields))
	}
	return opts
}

// runBuild drives generator.Build and reports the result to cb, even when
// the build fails part way.
func runBuild(ctx context.Context, service generator.Service, operation string, routes []string, dryRun bool, cb ResultCallback) error {
	if service == nil {
		return errServiceRequired
	}
	result, err := service.Build(ctx, generator.BuildOptions{
		Routes: normalizeRoutes(routes),
		DryRun: dryRun,
	})
	if cb != nil {
		cb(ResultEnvelope{Result: result, Metadata: map[string]any{"operation": operation}})
	}
	return err
}

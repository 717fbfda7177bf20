package markdowncmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	command "github.com/goliatone/go-command"
	"github.com/riguelni/go-docs/internal/commands"
	"github.com/riguelni/go-docs/internal/generator"
	"github.com/riguelni/go-docs/internal/importer"
	"github.com/riguelni/go-docs/internal/markdown"
	"github.com/riguelni/go-docs/internal/placeholder"
	"github.com/riguelni/go-docs/pkg/interfaces"
)

var (
	// ErrPreviewUnavailable is returned when the collaborator needed for the
	// requested preview source was not wired.
	ErrPreviewUnavailable = errors.New("markdown command: preview source unavailable")
)

var (
	_ command.Commander[RenderPageCommand] = (*RenderPageHandler)(nil)
	_ command.Commander[ImportPageCommand] = (*ImportPageHandler)(nil)
)

// PageBuilder renders catalog pages; generator.Service satisfies it.
type PageBuilder interface {
	BuildPage(ctx context.Context, route string) (*generator.RenderedPage, error)
}

// MarkdownRenderer renders standalone markdown; *markdown.Renderer satisfies it.
type MarkdownRenderer interface {
	Render(ctx context.Context, source []byte, set placeholder.Set) (*markdown.Result, error)
}

// RenderPageHandler previews a page or a markdown file.
type RenderPageHandler struct {
	inner *commands.Handler[RenderPageCommand]
}

// NewRenderPageHandler creates a preview handler. Either collaborator may be
// nil; commands that need a missing one fail with ErrPreviewUnavailable.
func NewRenderPageHandler(pages PageBuilder, renderer MarkdownRenderer, logger interfaces.Logger, observer commands.CommandObserver, opts ...commands.HandlerOption[RenderPageCommand]) *RenderPageHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg RenderPageCommand) error {
		format := msg.Format
		if format == "" {
			format = FormatHTML
		}
		preview := PreviewResult{Route: strings.TrimSpace(msg.Route), Path: strings.TrimSpace(msg.Path), Format: format}

		var out []byte
		switch {
		case preview.Route != "":
			if pages == nil {
				return fmt.Errorf("%w: page builder", ErrPreviewUnavailable)
			}
			page, err := pages.BuildPage(ctx, preview.Route)
			if err != nil {
				return err
			}
			preview.Collisions = page.Collisions
			out = []byte(page.HTML)
			if format == FormatJSON {
				data, err := json.MarshalIndent(page, "", "  ")
				if err != nil {
					return err
				}
				out = data
			}
		default:
			if renderer == nil {
				return fmt.Errorf("%w: markdown renderer", ErrPreviewUnavailable)
			}
			result, err := renderFile(ctx, renderer, preview.Path)
			if err != nil {
				return err
			}
			preview.Headings = len(result.Headings)
			preview.Collisions = len(result.Collisions)
			out = []byte(result.HTML)
			if format == FormatJSON {
				data, err := json.MarshalIndent(result, "", "  ")
				if err != nil {
					return err
				}
				out = data
			}
		}

		preview.Bytes = len(out)
		if msg.Output != nil {
			if _, err := io.Copy(msg.Output, bytes.NewReader(out)); err != nil {
				return fmt.Errorf("markdown command: write preview: %w", err)
			}
		}
		if msg.ResultCallback != nil {
			msg.ResultCallback(preview)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[RenderPageCommand]{
		commands.WithLogger[RenderPageCommand](baseLogger),
		commands.WithOperation[RenderPageCommand]("markdown.render_page"),
		commands.WithMessageFields(func(msg RenderPageCommand) map[string]any {
			fields := map[string]any{}
			if msg.Route != "" {
				fields["route"] = msg.Route
			}
			if msg.Path != "" {
				fields["path"] = msg.Path
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[RenderPageCommand](baseLogger, observer)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &RenderPageHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[RenderPageCommand].
func (h *RenderPageHandler) Execute(ctx context.Context, msg RenderPageCommand) error {
	return h.inner.Execute(ctx, msg)
}

func renderFile(ctx context.Context, renderer MarkdownRenderer, path string) (*markdown.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("markdown command: read %s: %w", path, err)
	}
	meta, body, err := markdown.ParseFrontMatter(data)
	if err != nil {
		return nil, err
	}
	set, err := meta.PlaceholderSet()
	if err != nil {
		return nil, err
	}
	return renderer.Render(ctx, body, set)
}

// ImportPageHandler converts HTML pages into page files.
type ImportPageHandler struct {
	inner *commands.Handler[ImportPageCommand]
}

// NewImportPageHandler creates an import handler.
func NewImportPageHandler(logger interfaces.Logger, observer commands.CommandObserver, opts ...commands.HandlerOption[ImportPageCommand]) *ImportPageHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg ImportPageCommand) error {
		doc, err := importer.Import(ctx, msg.Source, importer.Options{
			Selector:     msg.Selector,
			Placeholders: msg.Placeholders,
			Timeout:      msg.Timeout,
		})
		if err != nil {
			return err
		}
		path, err := importer.Write(doc, importer.Target{
			Root:       msg.Root,
			Section:    msg.Section,
			Subsection: msg.Subsection,
			Slug:       msg.Slug,
			Order:      msg.Order,
			Overwrite:  msg.Overwrite,
		})
		if err != nil {
			return err
		}
		baseLogger.Info("markdown.command.import_page.written", "path", path, "placeholders", len(doc.Placeholders))
		if msg.ResultCallback != nil {
			msg.ResultCallback(path)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ImportPageCommand]{
		commands.WithLogger[ImportPageCommand](baseLogger),
		commands.WithOperation[ImportPageCommand]("markdown.import_page"),
		commands.WithMessageFields(func(msg ImportPageCommand) map[string]any {
			return map[string]any{
				"source":     msg.Source,
				"section":    msg.Section,
				"subsection": msg.Subsection,
			}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[ImportPageCommand](baseLogger, observer)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ImportPageHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ImportPageCommand].
func (h *ImportPageHandler) Execute(ctx context.Context, msg ImportPageCommand) error {
	return h.inner.Execute(ctx, msg)
}

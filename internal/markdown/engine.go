package markdown

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// figurePriority sits ahead of the stock html renderer (1000) so Figure nodes
// reach figureRenderer.
const figurePriority = 500

// newEngine builds the goldmark instance for opts. Heading ids are assigned by
// the walker, so auto heading ids stay off; attribute parsing stays on so
// `## Title {#custom}` is honoured.
func newEngine(opts Options) goldmark.Markdown {
	rendererOptions := []renderer.Option{
		renderer.WithNodeRenderers(util.Prioritized(&figureRenderer{}, figurePriority)),
	}
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	if !opts.SafeMode {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	engineOptions := []goldmark.Option{
		goldmark.WithParserOptions(parser.WithAttribute()),
		goldmark.WithRendererOptions(rendererOptions...),
	}
	if exts := collectExtensions(opts.Extensions); len(exts) > 0 {
		engineOptions = append(engineOptions, goldmark.WithExtensions(exts...))
	}
	return goldmark.New(engineOptions...)
}

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
}

var defaultExtensions = []string{"gfm", "linkify", "tasklist"}

// collectExtensions resolves names against extensionRegistry; a nil list
// selects defaultExtensions. New has already rejected unknown names.
func collectExtensions(names []string) []goldmark.Extender {
	if names == nil {
		names = defaultExtensions
	}

	var extenders []goldmark.Extender
	seen := map[string]struct{}{}
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, ok := seen[key]; ok || key == "" {
			continue
		}
		ext, ok := extensionRegistry[key]
		if !ok {
			continue
		}
		extenders = append(extenders, ext)
		seen[key] = struct{}{}
	}
	return extenders
}

// ErrUnknownExtension is returned by New for extension names missing from
// the registry.
var ErrUnknownExtension = errors.New("markdown: unknown extension")

func knownExtension(name string) bool {
	_, ok := extensionRegistry[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// checkExtensions rejects names that would otherwise be dropped silently.
// Blank entries are ignored.
func checkExtensions(names []string) error {
	for _, name := range names {
		if strings.TrimSpace(name) != "" && !knownExtension(name) {
			return fmt.Errorf("%w: %q", ErrUnknownExtension, name)
		}
	}
	return nil
}

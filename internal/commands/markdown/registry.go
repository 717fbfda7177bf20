package markdowncmd

import (
	"github.com/riguelni/go-docs/internal/commands"
	"github.com/riguelni/go-docs/pkg/interfaces"
)

// HandlerSet groups the markdown command handlers.
type HandlerSet struct {
	Render *RenderPageHandler
	Import *ImportPageHandler
}

// RegisterMarkdownCommands builds the markdown handlers and registers them
// with reg. The returned set lets callers execute handlers directly.
func RegisterMarkdownCommands(reg commands.CommandRegistry, pages PageBuilder, renderer MarkdownRenderer, provider interfaces.LoggerProvider, observer commands.CommandObserver) (*HandlerSet, error) {
	logger := commands.CommandLogger(provider, "markdown")
	set := &HandlerSet{
		Render: NewRenderPageHandler(pages, renderer, logger, observer),
		Import: NewImportPageHandler(logger, observer),
	}
	if err := commands.Register(reg, set.Render, set.Import); err != nil {
		return nil, err
	}
	return set, nil
}

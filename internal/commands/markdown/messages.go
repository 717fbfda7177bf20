package markdowncmd

import (
	"io"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/riguelni/go-docs/internal/catalog"
)

const (
	renderPageMessageType = "docs.markdown.render_page"
	importPageMessageType = "docs.markdown.import_page"
)

// Preview output formats.
const (
	FormatHTML = "html"
	FormatJSON = "json"
)

// RenderPageCommand renders one page for preview. Exactly one of Route (a
// catalog page rendered through the full page template) or Path (a markdown
// file rendered on its own) must be set.
type RenderPageCommand struct {
	Route string `json:"route,omitempty"`
	Path  string `json:"path,omitempty"`
	// Format is html (default) or json. JSON emits the rendered node tree,
	// headings and collisions.
	Format string    `json:"format,omitempty"`
	Output io.Writer `json:"-"`
	// ResultCallback receives the preview after Output has been written.
	ResultCallback func(PreviewResult) `json:"-"`
}

// Type implements command.Message.
func (RenderPageCommand) Type() string { return renderPageMessageType }

// Validate ensures exactly one source is given and the format is known.
func (cmd RenderPageCommand) Validate() error {
	route := strings.TrimSpace(cmd.Route)
	path := strings.TrimSpace(cmd.Path)
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Route,
			validation.When(path == "", validation.Required.Error("route or path is required")),
			validation.When(path != "", validation.Empty.Error("route and path are mutually exclusive")),
			validation.When(route != "", validation.By(func(value any) error {
				if !strings.HasPrefix(strings.TrimSpace(value.(string)), catalog.RoutePrefix+"/") {
					return validation.NewError("docs.markdown.render_page.route_invalid", "route must start with "+catalog.RoutePrefix+"/")
				}
				return nil
			})),
		),
		validation.Field(&cmd.Format, validation.In(FormatHTML, FormatJSON)),
	)
}

// PreviewResult describes a rendered preview.
type PreviewResult struct {
	Route      string
	Path       string
	Format     string
	Bytes      int
	Headings   int
	Collisions int
}

// ImportPageCommand converts an HTML page into a markdown page file under
// Root/pages/<section>/<subsection>/<slug>.md.
type ImportPageCommand struct {
	Source       string        `json:"source"`
	Selector     string        `json:"selector,omitempty"`
	Root         string        `json:"root"`
	Section      string        `json:"section"`
	Subsection   string        `json:"subsection"`
	Slug         string        `json:"slug,omitempty"`
	Order        int           `json:"order,omitempty"`
	Placeholders bool          `json:"placeholders,omitempty"`
	Overwrite    bool          `json:"overwrite,omitempty"`
	Timeout      time.Duration `json:"timeout,omitempty"`
	// ResultCallback receives the written file path.
	ResultCallback func(path string) `json:"-"`
}

// Type implements command.Message.
func (ImportPageCommand) Type() string { return importPageMessageType }

// Validate ensures the source and target location are present.
func (cmd ImportPageCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Source, validation.Required),
		validation.Field(&cmd.Root, validation.Required),
		validation.Field(&cmd.Section, validation.Required, validation.By(segment)),
		validation.Field(&cmd.Subsection, validation.Required, validation.By(segment)),
		validation.Field(&cmd.Slug, validation.When(cmd.Slug != "", validation.By(segment))),
		validation.Field(&cmd.Order, validation.Min(0)),
		validation.Field(&cmd.Timeout, validation.Min(time.Duration(0))),
	)
}

func segment(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if err := catalog.ValidateSegment(s); err != nil {
		return validation.NewError("docs.markdown.segment_invalid", err.Error())
	}
	return nil
}

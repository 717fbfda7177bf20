package themes

import (
	"bytes"
	"embed"
	"fmt"
	"html"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/riguelni/go-docs/pkg/interfaces"
)

// Template names. A streamed page is ShellOpen, Skeleton, then Content and
// Reveal once loaded, then ShellClose. Page renders the loaded page in one go.
const (
	TemplateShellOpen  = "shell_open"
	TemplateSkeleton   = "skeleton"
	TemplateContent    = "content"
	TemplateReveal     = "reveal"
	TemplateShellClose = "shell_close"
	TemplatePage       = "page"
	TemplateNotFound   = "not_found"
)

//go:embed templates/*.html
var builtinTemplates embed.FS

// RendererOptions configures the template renderer. Files in Dir with an
// .html or .tmpl extension are parsed after the built-in templates, so a
// {{define}} there replaces the built-in block of the same name.
type RendererOptions struct {
	Dir   string
	Funcs template.FuncMap
}

// Renderer executes the page templates.
type Renderer struct {
	tpl   *template.Template
	funcs template.FuncMap
}

var _ interfaces.TemplateRenderer = (*Renderer)(nil)

// NewRenderer parses the built-in templates and any overrides.
func NewRenderer(opts RendererOptions) (*Renderer, error) {
	funcs := defaultFuncs()
	for name, fn := range opts.Funcs {
		funcs[name] = fn
	}

	tpl, err := template.New("docs").Funcs(funcs).ParseFS(builtinTemplates, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("themes: parse built-in templates: %w", err)
	}

	if dir := strings.TrimSpace(opts.Dir); dir != "" {
		files, err := overrideFiles(dir)
		if err != nil {
			return nil, err
		}
		if len(files) > 0 {
			if tpl, err = tpl.ParseFiles(files...); err != nil {
				return nil, fmt.Errorf("themes: parse templates in %s: %w", dir, err)
			}
		}
	}
	return &Renderer{tpl: tpl, funcs: funcs}, nil
}

// Render executes the named template. The output is returned and also copied
// to every writer in out.
func (r *Renderer) Render(name string, data any, out ...io.Writer) (string, error) {
	if r.tpl.Lookup(name) == nil {
		return "", fmt.Errorf("themes: template %q not defined", name)
	}
	var buf bytes.Buffer
	if err := r.tpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("themes: render %s: %w", name, err)
	}
	return buf.String(), writeAll(buf.Bytes(), out)
}

// RenderString parses content as a one-off template sharing the renderer's
// functions.
func (r *Renderer) RenderString(content string, data any, out ...io.Writer) (string, error) {
	tpl, err := template.New("inline").Funcs(r.funcs).Parse(content)
	if err != nil {
		return "", fmt.Errorf("themes: parse inline template: %w", err)
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("themes: render inline template: %w", err)
	}
	return buf.String(), writeAll(buf.Bytes(), out)
}

func writeAll(data []byte, out []io.Writer) error {
	for _, w := range out {
		if w == nil {
			continue
		}
		if _, err := w.Write(data); err != nil {
			return err
		}
	}
	return nil
}

func overrideFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("themes: read template directory: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".html", ".tmpl":
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

func defaultFuncs() template.FuncMap {
	return template.FuncMap{
		"safeHTML": func(value any) template.HTML {
			switch v := value.(type) {
			case template.HTML:
				return v
			case string:
				return template.HTML(v)
			case []byte:
				return template.HTML(v)
			case nil:
				return ""
			default:
				return template.HTML(fmt.Sprint(v))
			}
		},
		"attrs": attrs,
	}
}

// attrs renders a map as sorted, escaped HTML attributes.
func attrs(values map[string]string) template.HTMLAttr {
	if len(values) == 0 {
		return ""
	}
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf(`%s="%s"`, html.EscapeString(key), html.EscapeString(values[key])))
	}
	return template.HTMLAttr(strings.Join(parts, " "))
}

package interfaces

import (
	"io"
)

// TemplateRenderer executes named page templates. Output is returned and
// copied to any writers passed in out.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
}

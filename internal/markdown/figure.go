package markdown

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"

	"github.com/riguelni/go-docs/internal/placeholder"
)

// KindFigure identifies Figure nodes in the goldmark AST.
var KindFigure = ast.NewNodeKind("Figure")

// Figure replaces a paragraph that referenced a placeholder token.
type Figure struct {
	ast.BaseBlock
	Token string
	View  placeholder.View
}

func newFigure(token string, view placeholder.View) *Figure {
	return &Figure{Token: token, View: view}
}

func (n *Figure) Kind() ast.NodeKind {
	return KindFigure
}

func (n *Figure) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Token":   n.Token,
		"Caption": n.View.Caption,
	}, nil)
}

type figureRenderer struct{}

func (r *figureRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindFigure, r.renderFigure)
}

func (r *figureRenderer) renderFigure(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	fig := node.(*Figure)

	if fig.View.Gallery() {
		_, _ = w.WriteString(`<figure class="doc-figure doc-gallery">` + "\n")
	} else {
		_, _ = w.WriteString(`<figure class="doc-figure">` + "\n")
	}
	for _, img := range fig.View.Sources() {
		_, _ = w.WriteString(`<img src="`)
		_, _ = w.Write(util.EscapeHTML(util.URLEscape([]byte(img.Src), false)))
		_, _ = w.WriteString(`" alt="`)
		_, _ = w.Write(util.EscapeHTML([]byte(img.Alt)))
		_, _ = w.WriteString(`" loading="lazy">` + "\n")
	}
	if fig.View.Caption != "" {
		_, _ = w.WriteString("<figcaption>")
		_, _ = w.Write(util.EscapeHTML([]byte(fig.View.Caption)))
		_, _ = w.WriteString("</figcaption>\n")
	}
	_, _ = w.WriteString("</figure>\n")
	return ast.WalkSkipChildren, nil
}

package markdown

import (
	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"

	"github.com/riguelni/go-docs/internal/placeholder"
	"github.com/riguelni/go-docs/internal/slug"
)

// strategy projects one goldmark block node into a display node. Strategies
// may mutate the AST through the walker (heading ids, figure swaps) so the
// HTML rendered afterwards matches the display tree.
type strategy func(w *walker, n ast.Node) Node

func strategyTable() map[ast.NodeKind]strategy {
	return map[ast.NodeKind]strategy{
		ast.KindHeading:         headingStrategy,
		ast.KindParagraph:       paragraphStrategy,
		ast.KindTextBlock:       paragraphStrategy,
		ast.KindFencedCodeBlock: codeStrategy,
		ast.KindCodeBlock:       codeStrategy,
		ast.KindList:            listStrategy,
		ast.KindListItem:        containerStrategy(KindListItem),
		ast.KindBlockquote:      containerStrategy(KindBlockquote),
		ast.KindThematicBreak:   thematicBreakStrategy,
		ast.KindHTMLBlock:       htmlStrategy,
		east.KindTable:          tableStrategy,
	}
}

func headingStrategy(w *walker, n ast.Node) Node {
	h := n.(*ast.Heading)
	assigned := slug.Assign(flatten(h, w.source))
	if id, ok := explicitID(h); ok {
		assigned.ID = id
		assigned.Explicit = true
	}

	id := w.claimHeadingID(assigned, lineOf(h, w.source))
	if id != "" {
		h.SetAttributeString("id", []byte(id))
	} else {
		dropAttribute(h, "id")
	}

	w.headings = append(w.headings, Heading{
		Level:    h.Level,
		Text:     assigned.Text,
		ID:       id,
		Explicit: assigned.Explicit,
	})
	return Node{Kind: KindHeading, Level: h.Level, Text: assigned.Text, ID: id}
}

// dropAttribute removes one attribute and keeps the rest ({.class} etc).
func dropAttribute(n ast.Node, name string) {
	attrs := n.Attributes()
	n.RemoveAttributes()
	for _, attr := range attrs {
		if string(attr.Name) != name {
			n.SetAttribute(attr.Name, attr.Value)
		}
	}
}

// explicitID reads an id set through attribute syntax ({#custom}).
func explicitID(h *ast.Heading) (string, bool) {
	value, ok := h.AttributeString("id")
	if !ok {
		return "", false
	}
	var id string
	switch v := value.(type) {
	case []byte:
		id = string(v)
	case string:
		id = v
	}
	return id, id != ""
}

func paragraphStrategy(w *walker, n ast.Node) Node {
	text := flatten(n, w.source)
	entry, ok := w.placeholders.Resolve(text)
	if !ok {
		return Node{Kind: KindParagraph, Text: text}
	}

	view := entry.View
	w.swap(n, newFigure(entry.Token, view))
	w.used = append(w.used, entry.Token)
	return Node{Kind: KindFigureNode, Text: text, Token: entry.Token, View: &view}
}

func codeStrategy(w *walker, n ast.Node) Node {
	node := Node{Kind: KindCode, Text: rawLines(n, w.source)}
	if fenced, ok := n.(*ast.FencedCodeBlock); ok {
		node.Language = string(fenced.Language(w.source))
	}
	return node
}

func listStrategy(w *walker, n ast.Node) Node {
	list := n.(*ast.List)
	return Node{Kind: KindList, Ordered: list.IsOrdered(), Children: w.children(n)}
}

func containerStrategy(kind Kind) strategy {
	return func(w *walker, n ast.Node) Node {
		return Node{Kind: kind, Children: w.children(n)}
	}
}

func thematicBreakStrategy(*walker, ast.Node) Node {
	return Node{Kind: KindThematicBreak}
}

func htmlStrategy(w *walker, n ast.Node) Node {
	text := rawLines(n, w.source)
	if block, ok := n.(*ast.HTMLBlock); ok && block.HasClosure() {
		closure := block.ClosureLine
		text += string(closure.Value(w.source))
	}
	return Node{Kind: KindHTML, Text: text}
}

func tableStrategy(w *walker, n ast.Node) Node {
	table := Node{Kind: KindTable}
	for row := n.FirstChild(); row != nil; row = row.NextSibling() {
		rowNode := Node{Kind: KindTableRow}
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			rowNode.Children = append(rowNode.Children, Node{Kind: KindTableCell, Text: flatten(cell, w.source)})
		}
		table.Children = append(table.Children, rowNode)
	}
	return table
}

// fallbackStrategy handles kinds without a registered strategy (definition
// lists, footnotes, extension blocks). Nested blocks are still visited so
// headings and placeholders inside them are processed.
func fallbackStrategy(w *walker, n ast.Node) Node {
	children := w.children(n)
	if len(children) > 0 {
		return Node{Kind: KindBlock, Children: children}
	}
	return Node{Kind: KindBlock, Text: flatten(n, w.source)}
}

type pendingSwap struct {
	old ast.Node
	new ast.Node
}

// walker carries per-render state. It is not shared between renders.
type walker struct {
	source       []byte
	placeholders placeholder.Set
	strategies   map[ast.NodeKind]strategy
	unique       bool

	deduper    *slug.Deduper
	firstText  map[string]string
	headings   []Heading
	collisions []Collision
	used       []string
	swaps      []pendingSwap
}

func newWalker(source []byte, set placeholder.Set, strategies map[ast.NodeKind]strategy, unique bool) *walker {
	return &walker{
		source:       source,
		placeholders: set,
		strategies:   strategies,
		unique:       unique,
		deduper:      slug.NewDeduper(),
		firstText:    map[string]string{},
	}
}

func (w *walker) visit(n ast.Node) Node {
	if s, ok := w.strategies[n.Kind()]; ok {
		return s(w, n)
	}
	return fallbackStrategy(w, n)
}

// children visits the block children of n. Inline children are folded into
// the parent's text by the strategies themselves.
func (w *walker) children(n ast.Node) []Node {
	var out []Node
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if c.Type() != ast.TypeBlock {
			continue
		}
		out = append(out, w.visit(c))
	}
	return out
}

// claimHeadingID records the heading id and reports collisions. Repeated ids
// are kept as-is unless unique ids were requested; explicit ids are never
// rewritten.
func (w *walker) claimHeadingID(h slug.Heading, line int) string {
	if h.ID == "" {
		return ""
	}
	first, seen := w.firstText[h.ID]
	if !seen {
		w.firstText[h.ID] = h.Text
	}

	id := h.ID
	if w.unique && !h.Explicit {
		id = w.deduper.Next(h.ID)
	} else {
		w.deduper.Next(h.ID)
	}

	if seen {
		c := Collision{ID: h.ID, Text: h.Text, FirstText: first, Line: line}
		if id != h.ID {
			c.Renamed = id
		}
		w.collisions = append(w.collisions, c)
	}
	return id
}

// swap schedules a node replacement. Replacements are applied after the walk
// so sibling iteration is not disturbed.
func (w *walker) swap(old, replacement ast.Node) {
	w.swaps = append(w.swaps, pendingSwap{old: old, new: replacement})
}

func (w *walker) applySwaps() {
	for _, s := range w.swaps {
		parent := s.old.Parent()
		if parent == nil {
			continue
		}
		parent.ReplaceChild(parent, s.old, s.new)
	}
}

package markdown

import "github.com/riguelni/go-docs/internal/placeholder"

// Kind names a display node type.
type Kind string

const (
	KindHeading       Kind = "heading"
	KindParagraph     Kind = "paragraph"
	KindFigureNode    Kind = "figure"
	KindCode          Kind = "code"
	KindList          Kind = "list"
	KindListItem      Kind = "list_item"
	KindBlockquote    Kind = "blockquote"
	KindThematicBreak Kind = "thematic_break"
	KindHTML          Kind = "html"
	KindTable         Kind = "table"
	KindTableRow      Kind = "table_row"
	KindTableCell     Kind = "table_cell"
	KindBlock         Kind = "block"
)

// Node is one entry of the display tree. Which fields are set depends on
// Kind: headings carry Level and ID, figures carry Token and View, code
// blocks carry Language, lists carry Ordered.
type Node struct {
	Kind     Kind              `json:"kind"`
	Level    int               `json:"level,omitempty"`
	Text     string            `json:"text,omitempty"`
	ID       string            `json:"id,omitempty"`
	Language string            `json:"language,omitempty"`
	Ordered  bool              `json:"ordered,omitempty"`
	Token    string            `json:"token,omitempty"`
	View     *placeholder.View `json:"view,omitempty"`
	Children []Node            `json:"children,omitempty"`
}

// Heading is a heading in document order.
type Heading struct {
	Level    int    `json:"level"`
	Text     string `json:"text"`
	ID       string `json:"id"`
	Explicit bool   `json:"explicit,omitempty"`
}

// Collision records a heading whose id was already used earlier in the same
// document. Line is 1-based; zero when unknown.
type Collision struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	FirstText string `json:"first_text"`
	Line      int    `json:"line,omitempty"`
	// Renamed holds the id actually emitted when unique ids are enabled.
	Renamed string `json:"renamed,omitempty"`
}

// Result is the output of one render. Results may be shared through the
// cache and must be treated as read-only.
type Result struct {
	Nodes        []Node      `json:"nodes"`
	Headings     []Heading   `json:"headings"`
	HTML         string      `json:"html"`
	Collisions   []Collision `json:"collisions,omitempty"`
	Placeholders []string    `json:"placeholders,omitempty"`
	Checksum     string      `json:"checksum"`
}


// Package markdown renders page sources into a display tree and HTML.
//
// Parsing is delegated to goldmark. After parsing, every block node is handed
// to the strategy registered for its kind: headings receive a slug id,
// paragraphs that mention a placeholder token are swapped for a Figure, and
// everything else is projected into a plain display node. The same mutated
// AST is then rendered to HTML, so the display tree and the markup always
// agree on anchor ids.
package markdown

// Package site embeds the default Riguelni documentation content: the
// manifest, the page sources and the static assets they reference.
package site

import (
	"embed"
	"io/fs"
)

//go:embed all:content
var content embed.FS

// Content returns the embedded content root, the layout catalog.Load expects.
func Content() fs.FS {
	sub, err := fs.Sub(content, "content")
	if err != nil {
		panic(err)
	}
	return sub
}

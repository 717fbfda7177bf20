package markdown

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/adrg/frontmatter"

	"github.com/riguelni/go-docs/internal/placeholder"
)

// ErrFrontMatter wraps every frontmatter decoding failure.
var ErrFrontMatter = errors.New("markdown: invalid frontmatter")

// FrontMatter is the metadata block at the top of a page file.
type FrontMatter struct {
	Title        string              `yaml:"title"`
	Slug         string              `yaml:"slug"`
	Description  string              `yaml:"description"`
	Order        int                 `yaml:"order"`
	Placeholders []placeholder.Entry `yaml:"placeholders"`
	Custom       map[string]any      `yaml:",inline"`
}

// PlaceholderSet validates the declared placeholders in order.
func (fm FrontMatter) PlaceholderSet() (placeholder.Set, error) {
	return placeholder.NewSet(fm.Placeholders...)
}

// ParseFrontMatter splits source into metadata and markdown body. Sources
// without a frontmatter block return a zero FrontMatter and the full body.
func ParseFrontMatter(source []byte) (FrontMatter, []byte, error) {
	var meta FrontMatter
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return FrontMatter{}, nil, fmt.Errorf("%w: %v", ErrFrontMatter, err)
	}
	meta.Title = strings.TrimSpace(meta.Title)
	meta.Slug = strings.TrimSpace(meta.Slug)
	if meta.Custom == nil {
		meta.Custom = map[string]any{}
	}
	return meta, body, nil
}

package placeholder

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrTokenRequired = errors.New("placeholder: token is required")
	ErrViewRequired  = errors.New("placeholder: view requires at least one image source")
)

// Image is a single picture inside a placeholder view.
type Image struct {
	Src string `yaml:"src" json:"src"`
	Alt string `yaml:"alt" json:"alt,omitempty"`
}

// View describes the rich block substituted for a placeholder paragraph.
// When Images is non-empty the view renders as a gallery; otherwise Src/Alt
// describe a single figure.
type View struct {
	Src     string  `yaml:"src" json:"src,omitempty"`
	Alt     string  `yaml:"alt" json:"alt,omitempty"`
	Caption string  `yaml:"caption" json:"caption,omitempty"`
	Images  []Image `yaml:"images" json:"images,omitempty"`
}

// Gallery reports whether the view carries more than a single image.
func (v View) Gallery() bool {
	return len(v.Images) > 1
}

// Sources returns every image in display order.
func (v View) Sources() []Image {
	if len(v.Images) > 0 {
		return append([]Image(nil), v.Images...)
	}
	if strings.TrimSpace(v.Src) == "" {
		return nil
	}
	return []Image{{Src: v.Src, Alt: v.Alt}}
}

// Entry binds a token to the view that replaces any paragraph containing it.
type Entry struct {
	Token string `yaml:"token" json:"token"`
	View  `yaml:",inline"`
}

// Set is an ordered list of placeholder entries. Resolution scans entries in
// order and the first token contained in the paragraph wins.
type Set struct {
	entries []Entry
}

// NewSet validates entries and builds a Set. Repeated tokens keep the first
// occurrence.
func NewSet(entries ...Entry) (Set, error) {
	set := Set{entries: make([]Entry, 0, len(entries))}
	seen := make(map[string]struct{}, len(entries))
	for i, entry := range entries {
		if entry.Token == "" {
			return Set{}, fmt.Errorf("%w: entry %d", ErrTokenRequired, i)
		}
		if len(entry.Sources()) == 0 {
			return Set{}, fmt.Errorf("%w: token %s", ErrViewRequired, entry.Token)
		}
		if _, ok := seen[entry.Token]; ok {
			continue
		}
		seen[entry.Token] = struct{}{}
		set.entries = append(set.entries, entry)
	}
	return set, nil
}

// MustSet is NewSet for literals known to be valid.
func MustSet(entries ...Entry) Set {
	set, err := NewSet(entries...)
	if err != nil {
		panic(err)
	}
	return set
}

// Resolve returns the first entry whose token is a substring of text.
func (s Set) Resolve(text string) (Entry, bool) {
	if text == "" {
		return Entry{}, false
	}
	for _, entry := range s.entries {
		if strings.Contains(text, entry.Token) {
			return entry, true
		}
	}
	return Entry{}, false
}

// Len returns the number of entries.
func (s Set) Len() int {
	return len(s.entries)
}

// Entries returns a copy of the ordered entries.
func (s Set) Entries() []Entry {
	return append([]Entry(nil), s.entries...)
}

// Tokens lists the registered tokens in resolution order.
func (s Set) Tokens() []string {
	out := make([]string, 0, len(s.entries))
	for _, entry := range s.entries {
		out = append(out, entry.Token)
	}
	return out
}

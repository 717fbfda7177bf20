// Package slug derives URL-fragment-safe identifiers from heading text.
//
// Ids are a pure function of the text: lower-case, collapse whitespace runs
// into a single hyphen, then drop every rune outside [a-z0-9-]. Identical
// texts always produce identical ids, so two headings with the same text
// collide within a document. Callers that need unique anchors must opt in to
// de-duplication explicitly (see Deduper).
package slug

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Heading is the result of assigning an id to raw heading text.
type Heading struct {
	// Text is the display text with any explicit id annotation removed.
	Text string
	// ID is the fragment identifier for the heading.
	ID string
	// Explicit reports whether ID came from a {#custom-id} annotation.
	Explicit bool
}

var explicitIDPattern = regexp.MustCompile(`\s*\{#([^{}\s]+)\}\s*$`)

// Slugify converts text into a fragment id. Empty text yields an empty id.
func Slugify(text string) string {
	if text == "" {
		return ""
	}
	lowered := strings.ToLower(text)

	var builder strings.Builder
	builder.Grow(len(lowered))
	inSpace := false
	for _, r := range lowered {
		if unicode.IsSpace(r) {
			if !inSpace {
				builder.WriteByte('-')
			}
			inSpace = true
			continue
		}
		inSpace = false
		if isAllowed(r) {
			builder.WriteRune(r)
		}
	}
	return builder.String()
}

// Assign resolves the id for raw heading text. A trailing {#custom-id}
// annotation is used verbatim and stripped from the display text; otherwise
// the id is Slugify(text).
func Assign(raw string) Heading {
	if match := explicitIDPattern.FindStringSubmatchIndex(raw); match != nil {
		return Heading{
			Text:     raw[:match[0]],
			ID:       raw[match[2]:match[3]],
			Explicit: true,
		}
	}
	return Heading{
		Text: raw,
		ID:   Slugify(raw),
	}
}

// IsFragmentSafe reports whether id only contains runes from [a-z0-9-].
func IsFragmentSafe(id string) bool {
	for _, r := range id {
		if !isAllowed(r) {
			return false
		}
	}
	return true
}

func isAllowed(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-'
}

// Deduper suffixes repeated ids with -1, -2, ... in the order they are seen.
// It is only used when unique anchors are requested; the default rendering
// path keeps colliding ids as they are.
type Deduper struct {
	seen map[string]int
}

// NewDeduper returns an empty Deduper.
func NewDeduper() *Deduper {
	return &Deduper{seen: map[string]int{}}
}

// Next returns id unchanged the first time it is seen and a suffixed variant
// afterwards.
func (d *Deduper) Next(id string) string {
	if d.seen == nil {
		d.seen = map[string]int{}
	}
	count, ok := d.seen[id]
	if !ok {
		d.seen[id] = 0
		return id
	}
	for {
		count++
		candidate := id + "-" + strconv.Itoa(count)
		if _, taken := d.seen[candidate]; taken {
			continue
		}
		d.seen[id] = count
		d.seen[candidate] = 0
		return candidate
	}
}

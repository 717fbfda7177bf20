package importer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	goslug "github.com/goliatone/go-slug"

	"github.com/riguelni/go-docs/internal/catalog"
)

// ErrPageExists is returned when the target file exists and overwrite is off.
var ErrPageExists = errors.New("importer: page already exists")

// Target locates the page file inside a content root.
type Target struct {
	Root       string
	Section    string
	Subsection string
	// Slug defaults to the normalized document title.
	Slug      string
	Order     int
	Overwrite bool
}

// Path returns pages/<section>/<subsection>/<slug>.md under Root.
func (t Target) Path() (string, error) {
	for _, segment := range []string{t.Section, t.Subsection, t.Slug} {
		if err := catalog.ValidateSegment(segment); err != nil {
			return "", err
		}
	}
	return filepath.Join(t.Root, "pages", t.Section, t.Subsection, t.Slug+".md"), nil
}

// Write stores doc at target and returns the written path.
func Write(doc *Document, target Target) (string, error) {
	if doc == nil {
		return "", errors.New("importer: document required")
	}
	if strings.TrimSpace(target.Slug) == "" {
		slug, err := goslug.Normalize(doc.Title)
		if err != nil {
			return "", fmt.Errorf("importer: derive slug from %q: %w", doc.Title, err)
		}
		target.Slug = slug
	}
	path, err := target.Path()
	if err != nil {
		return "", err
	}
	if !target.Overwrite {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("%w: %s", ErrPageExists, path)
		}
	}

	data, err := doc.Page(target.Order)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("importer: create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("importer: write %s: %w", path, err)
	}
	return path, nil
}

package generator

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	manifestFileName    = ".docs-manifest.json"
	manifestFileVersion = 1
)

// buildManifest stores checksums from the last successful build so
// incremental runs can skip unchanged outputs.
type buildManifest struct {
	Version     int                      `json:"version"`
	BuildID     string                   `json:"build_id,omitempty"`
	GeneratedAt time.Time                `json:"generated_at"`
	Pages       map[string]manifestPage  `json:"pages"`
	Assets      map[string]manifestAsset `json:"assets"`
}

type manifestPage struct {
	PageID       string    `json:"page_id"`
	Route        string    `json:"route"`
	Output       string    `json:"output"`
	Checksum     string    `json:"checksum"`
	LastModified time.Time `json:"last_modified"`
	RenderedAt   time.Time `json:"rendered_at"`
}

type manifestAsset struct {
	Source   string    `json:"source"`
	Output   string    `json:"output"`
	Checksum string    `json:"checksum"`
	Size     int64     `json:"size"`
	CopiedAt time.Time `json:"copied_at"`
}

func newBuildManifest() *buildManifest {
	return &buildManifest{
		Version: manifestFileVersion,
		Pages:   map[string]manifestPage{},
		Assets:  map[string]manifestAsset{},
	}
}

// parseManifest accepts both the map form and the ordered list form written
// by marshal.
func parseManifest(data []byte) (*buildManifest, error) {
	manifest := newBuildManifest()
	if len(data) == 0 {
		return manifest, nil
	}
	var ordered orderedManifest
	if err := json.Unmarshal(data, &ordered); err != nil {
		return nil, fmt.Errorf("generator: parse manifest: %w", err)
	}
	if ordered.Version != 0 {
		manifest.Version = ordered.Version
	}
	manifest.BuildID = ordered.BuildID
	manifest.GeneratedAt = ordered.GeneratedAt
	for _, page := range ordered.Pages {
		manifest.setPage(page)
	}
	for _, asset := range ordered.Assets {
		manifest.setAsset(asset)
	}
	return manifest, nil
}

type orderedManifest struct {
	Version     int             `json:"version"`
	BuildID     string          `json:"build_id,omitempty"`
	GeneratedAt time.Time       `json:"generated_at"`
	Pages       []manifestPage  `json:"pages"`
	Assets      []manifestAsset `json:"assets"`
}

func (m *buildManifest) marshal() ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	ordered := orderedManifest{
		Version:     m.Version,
		BuildID:     m.BuildID,
		GeneratedAt: m.GeneratedAt,
		Pages:       make([]manifestPage, 0, len(m.Pages)),
		Assets:      make([]manifestAsset, 0, len(m.Assets)),
	}
	if ordered.Version == 0 {
		ordered.Version = manifestFileVersion
	}
	for _, entry := range m.Pages {
		ordered.Pages = append(ordered.Pages, entry)
	}
	sort.Slice(ordered.Pages, func(i, j int) bool {
		return ordered.Pages[i].Route < ordered.Pages[j].Route
	})
	for _, entry := range m.Assets {
		ordered.Assets = append(ordered.Assets, entry)
	}
	sort.Slice(ordered.Assets, func(i, j int) bool {
		return ordered.Assets[i].Output < ordered.Assets[j].Output
	})
	return json.MarshalIndent(ordered, "", "  ")
}

func pageKey(route string) string {
	return strings.ToLower(strings.TrimRight(strings.TrimSpace(route), "/"))
}

func (m *buildManifest) setPage(entry manifestPage) {
	if m.Pages == nil {
		m.Pages = map[string]manifestPage{}
	}
	m.Pages[pageKey(entry.Route)] = entry
}

func (m *buildManifest) setAsset(entry manifestAsset) {
	if m.Assets == nil {
		m.Assets = map[string]manifestAsset{}
	}
	m.Assets[strings.TrimSpace(entry.Output)] = entry
}

func (m *buildManifest) shouldSkipPage(route, checksum, output string) bool {
	entry, ok := m.Pages[pageKey(route)]
	if !ok {
		return false
	}
	return entry.Checksum == checksum && strings.TrimSpace(entry.Output) == strings.TrimSpace(output)
}

func (m *buildManifest) shouldSkipAsset(output, checksum string) bool {
	entry, ok := m.Assets[strings.TrimSpace(output)]
	if !ok {
		return false
	}
	return entry.Checksum == checksum
}

// prunePages drops entries for routes that no longer exist.
func (m *buildManifest) prunePages(keep map[string]struct{}) {
	for key := range m.Pages {
		if _, ok := keep[key]; !ok {
			delete(m.Pages, key)
		}
	}
}

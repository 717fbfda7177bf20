package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"time"

	goslug "github.com/goliatone/go-slug"

	"github.com/riguelni/go-docs/internal/identity"
	"github.com/riguelni/go-docs/internal/logging"
	"github.com/riguelni/go-docs/internal/markdown"
	"github.com/riguelni/go-docs/pkg/interfaces"
)

// LoadOptions overrides manifest values and supplies collaborators.
type LoadOptions struct {
	Title   string
	BaseURL string
	Logger  interfaces.Logger
	Now     func() time.Time
}

// Load reads site.yaml and every page it references from fsys.
func Load(ctx context.Context, fsys fs.FS, opts LoadOptions) (*Site, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	data, err := fs.ReadFile(fsys, ManifestFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &PageError{Path: ManifestFile, Err: ErrContentNotFound}
		}
		return nil, fmt.Errorf("catalog: read %s: %w", ManifestFile, err)
	}
	manifest, err := ParseManifest(data)
	if err != nil {
		return nil, err
	}
	if title := strings.TrimSpace(opts.Title); title != "" {
		manifest.Title = title
	}
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		manifest.BaseURL = base
	}

	site := &Site{
		Title:       manifest.Title,
		Description: manifest.Description,
		BaseURL:     strings.TrimRight(manifest.BaseURL, "/"),
		AssetsDir:   manifest.Assets,
		Links:       append([]Link(nil), manifest.Links...),
		LoadedAt:    now().UTC(),
		byRoute:     map[string]*Page{},
	}
	urls := newURLBuilder(site.BaseURL)

	for _, ms := range manifest.Sections {
		section := &Section{Slug: ms.Slug, Title: ms.Title}
		for _, msub := range ms.Subsections {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			sub := &Subsection{Slug: msub.Slug, Title: msub.Title, Section: section}

			files := msub.Pages
			explicit := len(files) > 0
			if !explicit {
				files, err = fs.Glob(fsys, path.Join("pages", ms.Slug, msub.Slug, "*.md"))
				if err != nil {
					return nil, fmt.Errorf("catalog: glob %s/%s: %w", ms.Slug, msub.Slug, err)
				}
			}

			for _, file := range files {
				page, err := loadPage(fsys, file)
				if err != nil {
					return nil, err
				}
				page.Section = section
				page.Subsection = sub
				sub.Pages = append(sub.Pages, page)
			}
			if !explicit {
				sortPages(sub.Pages)
			}

			for _, page := range sub.Pages {
				page.Route = Route(section.Slug, sub.Slug, page.Slug)
				if _, dup := site.byRoute[page.Route]; dup {
					return nil, &PageError{Path: page.SourcePath, Err: fmt.Errorf("%w: duplicate route %s", ErrRouteInvalid, page.Route)}
				}
				page.ID = identity.PageUUID(page.Route)
				page.CanonicalURL, err = urls.Canonical(section.Slug, sub.Slug, page.Slug)
				if err != nil {
					return nil, &PageError{Path: page.SourcePath, Err: fmt.Errorf("%w: %v", ErrRouteInvalid, err)}
				}
				page.Index = len(site.pages)
				site.pages = append(site.pages, page)
				site.byRoute[page.Route] = page
			}
			section.Subsections = append(section.Subsections, sub)
		}
		site.Sections = append(site.Sections, section)
	}

	logger.Info("catalog.loaded",
		"title", site.Title,
		"sections", len(site.Sections),
		"pages", len(site.pages),
	)
	return site, nil
}

func loadPage(fsys fs.FS, file string) (*Page, error) {
	file = path.Clean(strings.TrimPrefix(file, "/"))
	source, err := fs.ReadFile(fsys, file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &PageError{Path: file, Err: ErrContentNotFound}
		}
		return nil, &PageError{Path: file, Err: err}
	}

	var modified time.Time
	if info, err := fs.Stat(fsys, file); err == nil {
		modified = info.ModTime().UTC()
	}

	fm, body, err := markdown.ParseFrontMatter(source)
	if err != nil {
		return nil, &PageError{Path: file, Err: fmt.Errorf("%w: %v", ErrContentParse, err)}
	}
	set, err := fm.PlaceholderSet()
	if err != nil {
		return nil, &PageError{Path: file, Err: fmt.Errorf("%w: %v", ErrContentParse, err)}
	}

	pageSlug := fm.Slug
	stem := strings.TrimSuffix(path.Base(file), path.Ext(file))
	if pageSlug == "" {
		pageSlug = stem
	}
	if err := ValidateSegment(pageSlug); err != nil {
		return nil, &PageError{Path: file, Err: err}
	}

	title := fm.Title
	if title == "" {
		title = stem
	}

	return &Page{
		Slug:         pageSlug,
		Title:        title,
		Description:  fm.Description,
		Order:        fm.Order,
		Source:       body,
		Placeholders: set,
		SourcePath:   file,
		LastModified: modified,
	}, nil
}

// ValidateSegment checks that value is already in go-slug normal form so it
// can be used verbatim as a route segment.
func ValidateSegment(value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: empty segment", ErrRouteInvalid)
	}
	normalized, err := goslug.Normalize(value)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrRouteInvalid, value, err)
	}
	if normalized != value {
		return fmt.Errorf("%w: %q (expected %q)", ErrRouteInvalid, value, normalized)
	}
	return nil
}

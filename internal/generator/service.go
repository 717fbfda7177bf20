package generator

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/riguelni/go-docs/internal/catalog"
	"github.com/riguelni/go-docs/internal/identity"
	"github.com/riguelni/go-docs/internal/logging"
	"github.com/riguelni/go-docs/internal/metrics"
	"github.com/riguelni/go-docs/internal/themes"
	"github.com/riguelni/go-docs/internal/view"
	"github.com/riguelni/go-docs/pkg/interfaces"
)

var (
	// ErrOutputDirRequired indicates a build that would write without a target.
	ErrOutputDirRequired = errors.New("generator: output directory required")
	errTemplatesRequired = errors.New("generator: template renderer is required")
	errCatalogRequired   = errors.New("generator: catalog is required")
)

const redirectTemplate = `<!DOCTYPE html>
<html lang="en"><head><meta charset="utf-8"><meta http-equiv="refresh" content="0; url={{.}}"><link rel="canonical" href="{{.}}"></head>
<body><a href="{{.}}">{{.}}</a></body></html>
`

// Service describes the static site generator contract.
type Service interface {
	Build(ctx context.Context, opts BuildOptions) (*BuildResult, error)
	BuildPage(ctx context.Context, route string) (*RenderedPage, error)
	Clean(ctx context.Context) error
}

// Config captures runtime behaviour toggles for the generator.
type Config struct {
	OutputDir       string
	BaseURL         string
	CleanBuild      bool
	Incremental     bool
	CopyAssets      bool
	GenerateSitemap bool
	GenerateRobots  bool
	Workers         int
	RenderTimeout   time.Duration
}

// BuildOptions narrows the scope of a generator run. A build limited to
// Routes writes only those pages: no index, sitemap, robots or assets.
type BuildOptions struct {
	Routes []string
	DryRun bool
}

// BuildResult reports aggregated build metadata.
type BuildResult struct {
	// BuildID is derived from the route and checksum of every page the build
	// leaves in place, so identical output yields the same id.
	BuildID       uuid.UUID
	PagesBuilt    int
	PagesSkipped  int
	AssetsBuilt   int
	AssetsSkipped int
	Duration      time.Duration
	Rendered      []RenderedPage
	Diagnostics   []RenderDiagnostic
	Errors        []error
	DryRun        bool
}

// RenderedPage captures the rendered HTML output for a page.
type RenderedPage struct {
	PageID     uuid.UUID
	Route      string
	Output     string
	HTML       string
	Checksum   string
	Collisions int
	Duration   time.Duration
}

// RenderDiagnostic records rendering timing and errors for individual pages.
type RenderDiagnostic struct {
	PageID   uuid.UUID
	Route    string
	Duration time.Duration
	Skipped  bool
	Err      error
}

// Dependencies lists the collaborators required by the generator.
type Dependencies struct {
	Catalog     *catalog.Store
	Builder     view.Builder
	Templates   interfaces.TemplateRenderer
	ThemeAssets fs.FS
	Content     fs.FS
	Metrics     *metrics.Metrics
	Logger      interfaces.Logger
}

// NewService wires a generator implementation with the provided configuration and dependencies.
func NewService(cfg Config, deps Dependencies) Service {
	if deps.Logger == nil {
		deps.Logger = logging.NoOp()
	}
	return &service{
		cfg:  cfg,
		deps: deps,
		now:  time.Now,
	}
}

type service struct {
	cfg  Config
	deps Dependencies
	now  func() time.Time
}

type renderOutcome struct {
	page       RenderedPage
	diagnostic RenderDiagnostic
	err        error
	skipped    bool
}

func (s *service) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.deps.Templates == nil {
		return nil, errTemplatesRequired
	}
	site := s.site()
	if site == nil {
		return nil, errCatalogRequired
	}
	if !opts.DryRun && strings.TrimSpace(s.cfg.OutputDir) == "" {
		return nil, ErrOutputDirRequired
	}

	start := time.Now()
	generatedAt := s.now().UTC()
	fullBuild := len(opts.Routes) == 0
	result := &BuildResult{DryRun: opts.DryRun}

	var errorsSlice []error
	pages, err := selectPages(site, opts.Routes)
	if err != nil {
		errorsSlice = append(errorsSlice, err)
	}

	var writer artifactWriter = noopWriter{}
	if !opts.DryRun {
		writer = newDirWriter(s.cfg.OutputDir)
	}

	if fullBuild && s.cfg.CleanBuild && !s.cfg.Incremental && !opts.DryRun {
		if err := writer.RemoveAll(ctx); err != nil {
			return nil, err
		}
	}

	manifest := newBuildManifest()
	if s.cfg.Incremental {
		loaded, err := s.loadManifest(ctx, writer)
		if err != nil {
			errorsSlice = append(errorsSlice, err)
		} else {
			manifest = loaded
		}
	}

	var (
		mu       sync.Mutex
		rendered = make([]RenderedPage, 0, len(pages))
	)
	collect := func(outcome renderOutcome) {
		mu.Lock()
		defer mu.Unlock()
		result.Diagnostics = append(result.Diagnostics, outcome.diagnostic)
		switch {
		case outcome.err != nil:
			errorsSlice = append(errorsSlice, outcome.err)
			s.deps.Metrics.ObserveBuild(metrics.BuildFailed)
		case outcome.skipped:
			result.PagesSkipped++
			s.deps.Metrics.ObserveBuild(metrics.BuildSkipped)
		default:
			result.PagesBuilt++
			rendered = append(rendered, outcome.page)
			s.deps.Metrics.ObserveBuild(metrics.BuildWritten)
		}
	}

	workers := s.effectiveWorkerCount(len(pages))
	if workers <= 1 {
		for _, page := range pages {
			if err := ctx.Err(); err != nil {
				collect(renderOutcome{diagnostic: RenderDiagnostic{PageID: page.ID, Route: page.Route, Err: err}, err: err})
				break
			}
			collect(s.renderPage(ctx, site, page, manifest, writer))
		}
	} else {
		s.renderConcurrently(ctx, site, pages, workers, manifest, writer, collect)
	}
	sort.Slice(rendered, func(i, j int) bool { return rendered[i].Route < rendered[j].Route })

	if err := ctx.Err(); err != nil {
		result.Rendered = rendered
		result.Duration = time.Since(start)
		result.Errors = append(errorsSlice, err)
		return result, errors.Join(result.Errors...)
	}

	if err := s.persistPages(ctx, writer, rendered); err != nil {
		errorsSlice = append(errorsSlice, err)
	}

	if fullBuild {
		if err := s.writeIndex(ctx, writer, site); err != nil {
			errorsSlice = append(errorsSlice, err)
		}
		if err := s.writeNotFound(ctx, writer, site); err != nil {
			errorsSlice = append(errorsSlice, err)
		}
		if s.cfg.CopyAssets {
			summary, err := s.copyAssets(ctx, writer, site, manifest, generatedAt)
			if err != nil {
				errorsSlice = append(errorsSlice, err)
			}
			result.AssetsBuilt += summary.Built
			result.AssetsSkipped += summary.Skipped
		}
		if s.cfg.GenerateSitemap {
			content, err := buildSitemap(s.baseURL(site), site.Pages(), generatedAt)
			if err != nil {
				errorsSlice = append(errorsSlice, err)
			} else if err := writer.WriteFile(ctx, writeFileRequest{Path: "sitemap.xml", Content: strings.NewReader(content), Category: categorySitemap}); err != nil {
				errorsSlice = append(errorsSlice, err)
			}
		}
		if s.cfg.GenerateRobots {
			content := buildRobots(s.baseURL(site), s.cfg.GenerateSitemap)
			if err := writer.WriteFile(ctx, writeFileRequest{Path: "robots.txt", Content: strings.NewReader(content), Category: categoryRobots}); err != nil {
				errorsSlice = append(errorsSlice, err)
			}
		}
	}

	var keep map[string]struct{}
	if fullBuild {
		keep = make(map[string]struct{}, site.Len())
		for _, page := range site.Pages() {
			keep[pageKey(page.Route)] = struct{}{}
		}
	}
	result.BuildID = identity.BuildUUID(contentDigest(manifest, rendered, keep))

	if len(errorsSlice) == 0 && !opts.DryRun {
		manifest.GeneratedAt = generatedAt
		manifest.BuildID = result.BuildID.String()
		for _, page := range rendered {
			manifest.setPage(manifestPage{
				PageID:       page.PageID.String(),
				Route:        page.Route,
				Output:       page.Output,
				Checksum:     page.Checksum,
				LastModified: lastModified(site, page.Route),
				RenderedAt:   generatedAt,
			})
		}
		if fullBuild {
			manifest.prunePages(keep)
		}
		if err := s.persistManifest(ctx, writer, manifest); err != nil {
			errorsSlice = append(errorsSlice, err)
		}
	}

	result.Rendered = rendered
	result.Duration = time.Since(start)
	s.deps.Logger.Info("generator.build_completed",
		"build_id", result.BuildID,
		"pages_built", result.PagesBuilt,
		"pages_skipped", result.PagesSkipped,
		"assets_built", result.AssetsBuilt,
		"dry_run", opts.DryRun,
		"duration", result.Duration,
		"errors", len(errorsSlice),
	)
	if len(errorsSlice) > 0 {
		result.Errors = append(result.Errors, errorsSlice...)
		return result, errors.Join(errorsSlice...)
	}
	return result, nil
}

// BuildPage renders a single page without writing anything.
func (s *service) BuildPage(ctx context.Context, route string) (*RenderedPage, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if s.deps.Templates == nil {
		return nil, errTemplatesRequired
	}
	site := s.site()
	if site == nil {
		return nil, errCatalogRequired
	}
	page, err := site.Page(route)
	if err != nil {
		return nil, err
	}
	outcome := s.renderPage(ctx, site, page, nil, noopWriter{})
	if outcome.err != nil {
		return nil, outcome.err
	}
	return &outcome.page, nil
}

// Clean empties the output directory.
func (s *service) Clean(ctx context.Context) error {
	if strings.TrimSpace(s.cfg.OutputDir) == "" {
		return ErrOutputDirRequired
	}
	return newDirWriter(s.cfg.OutputDir).RemoveAll(ctx)
}

func (s *service) site() *catalog.Site {
	if s.deps.Catalog == nil {
		return nil
	}
	return s.deps.Catalog.Site()
}

func (s *service) baseURL(site *catalog.Site) string {
	if base := strings.TrimSpace(s.cfg.BaseURL); base != "" {
		return base
	}
	return site.BaseURL
}

func selectPages(site *catalog.Site, routes []string) ([]*catalog.Page, error) {
	if len(routes) == 0 {
		return site.Pages(), nil
	}
	var (
		pages []*catalog.Page
		errs  []error
		seen  = map[string]struct{}{}
	)
	for _, route := range routes {
		page, err := site.Page(route)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if _, ok := seen[page.Route]; ok {
			continue
		}
		seen[page.Route] = struct{}{}
		pages = append(pages, page)
	}
	return pages, errors.Join(errs...)
}

func (s *service) effectiveWorkerCount(pages int) int {
	workers := s.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > pages {
		workers = pages
	}
	return workers
}

func (s *service) renderConcurrently(
	ctx context.Context,
	site *catalog.Site,
	pages []*catalog.Page,
	workers int,
	manifest *buildManifest,
	writer artifactWriter,
	collect func(renderOutcome),
) {
	jobs := make(chan *catalog.Page)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for page := range jobs {
				collect(s.renderPage(ctx, site, page, manifest, writer))
			}
		}()
	}

	defer func() {
		close(jobs)
		wg.Wait()
	}()
	for _, page := range pages {
		select {
		case <-ctx.Done():
			err := ctx.Err()
			collect(renderOutcome{diagnostic: RenderDiagnostic{PageID: page.ID, Route: page.Route, Err: err}, err: err})
			return
		case jobs <- page:
		}
	}
}

func (s *service) renderPage(
	ctx context.Context,
	site *catalog.Site,
	page *catalog.Page,
	manifest *buildManifest,
	writer artifactWriter,
) renderOutcome {
	outcome := renderOutcome{
		diagnostic: RenderDiagnostic{PageID: page.ID, Route: page.Route},
	}
	if err := ctx.Err(); err != nil {
		outcome.err = err
		outcome.diagnostic.Err = err
		return outcome
	}

	if s.cfg.RenderTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.RenderTimeout)
		defer cancel()
	}

	start := time.Now()
	model, err := s.deps.Builder.Build(ctx, site, page)
	if err == nil {
		model.RevealDelay = 0
		var html string
		html, err = s.deps.Templates.Render(themes.TemplatePage, model)
		if err == nil {
			outcome.page = RenderedPage{
				PageID:     page.ID,
				Route:      page.Route,
				Output:     buildOutputPath(page.Route),
				HTML:       html,
				Checksum:   computeHash(html),
				Collisions: len(model.Result.Collisions),
			}
		}
	}
	duration := time.Since(start)
	outcome.diagnostic.Duration = duration
	outcome.page.Duration = duration
	if err != nil {
		wrapped := fmt.Errorf("generator: render %s: %w", page.Route, err)
		outcome.err = wrapped
		outcome.diagnostic.Err = wrapped
		logging.WithPageContext(s.deps.Logger, page.Route, sectionSlug(page), page.SourcePath).Error("generator.render_failed", "error", err)
		return outcome
	}

	if manifest != nil && s.cfg.Incremental &&
		manifest.shouldSkipPage(page.Route, outcome.page.Checksum, outcome.page.Output) &&
		writer.Exists(ctx, outcome.page.Output) {
		outcome.skipped = true
		outcome.diagnostic.Skipped = true
	}
	return outcome
}

func (s *service) persistPages(ctx context.Context, writer artifactWriter, pages []RenderedPage) error {
	for _, page := range pages {
		req := writeFileRequest{
			Path:     page.Output,
			Content:  strings.NewReader(page.HTML),
			Category: categoryPage,
			Checksum: page.Checksum,
		}
		if err := writer.WriteFile(ctx, req); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) writeIndex(ctx context.Context, writer artifactWriter, site *catalog.Site) error {
	first := site.First()
	if first == nil {
		return nil
	}
	var buf bytes.Buffer
	if _, err := s.deps.Templates.RenderString(redirectTemplate, first.Route, &buf); err != nil {
		return fmt.Errorf("generator: render index redirect: %w", err)
	}
	return writer.WriteFile(ctx, writeFileRequest{Path: "index.html", Content: &buf, Category: categoryPage})
}

func (s *service) writeNotFound(ctx context.Context, writer artifactWriter, site *catalog.Site) error {
	var buf bytes.Buffer
	if _, err := s.deps.Templates.Render(themes.TemplateNotFound, s.deps.Builder.NotFound(site, "/404.html"), &buf); err != nil {
		return fmt.Errorf("generator: render 404 page: %w", err)
	}
	return writer.WriteFile(ctx, writeFileRequest{Path: "404.html", Content: &buf, Category: categoryPage})
}

type assetCopySummary struct {
	Built   int
	Skipped int
}

// assetSource is a tree of files copied under prefix in the output root.
type assetSource struct {
	fsys   fs.FS
	prefix string
}

// copyAssets copies theme assets under assets/theme/ and the site's asset
// directory to the output root, so literal paths like /GitHub/x.png resolve.
func (s *service) copyAssets(
	ctx context.Context,
	writer artifactWriter,
	site *catalog.Site,
	manifest *buildManifest,
	copiedAt time.Time,
) (assetCopySummary, error) {
	summary := assetCopySummary{}
	var sources []assetSource
	if s.deps.ThemeAssets != nil {
		sources = append(sources, assetSource{fsys: s.deps.ThemeAssets, prefix: strings.Trim(themes.AssetPrefix, "/")})
	}
	if s.deps.Content != nil && strings.TrimSpace(site.AssetsDir) != "" {
		if sub, err := fs.Sub(s.deps.Content, site.AssetsDir); err == nil {
			sources = append(sources, assetSource{fsys: sub})
		}
	}

	for _, source := range sources {
		err := fs.WalkDir(source.fsys, ".", func(name string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				if errors.Is(walkErr, fs.ErrNotExist) && name == "." {
					return fs.SkipDir
				}
				return walkErr
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if d.IsDir() || strings.HasPrefix(path.Base(name), ".") {
				return nil
			}
			data, err := fs.ReadFile(source.fsys, name)
			if err != nil {
				return fmt.Errorf("generator: read asset %s: %w", name, err)
			}
			output := path.Join(source.prefix, name)
			checksum := computeHash(string(data))
			if s.cfg.Incremental && manifest.shouldSkipAsset(output, checksum) && writer.Exists(ctx, output) {
				summary.Skipped++
				return nil
			}
			if err := writer.WriteFile(ctx, writeFileRequest{Path: output, Content: bytes.NewReader(data), Category: categoryAsset, Checksum: checksum}); err != nil {
				return err
			}
			manifest.setAsset(manifestAsset{Source: name, Output: output, Checksum: checksum, Size: int64(len(data)), CopiedAt: copiedAt})
			summary.Built++
			return nil
		})
		if err != nil {
			return summary, err
		}
	}
	return summary, nil
}

func (s *service) loadManifest(ctx context.Context, writer artifactWriter) (*buildManifest, error) {
	data, err := writer.ReadFile(ctx, manifestFileName)
	if err != nil {
		return nil, fmt.Errorf("generator: read manifest: %w", err)
	}
	return parseManifest(data)
}

func (s *service) persistManifest(ctx context.Context, writer artifactWriter, manifest *buildManifest) error {
	data, err := manifest.marshal()
	if err != nil {
		return fmt.Errorf("generator: marshal manifest: %w", err)
	}
	return writer.WriteFile(ctx, writeFileRequest{Path: manifestFileName, Content: bytes.NewReader(data), Category: categoryManifest})
}

// contentDigest hashes the route/checksum pairs of the pages a build leaves
// behind: freshly rendered pages over the ones the manifest already records.
// A non-nil keep restricts the set to those route keys.
func contentDigest(manifest *buildManifest, rendered []RenderedPage, keep map[string]struct{}) string {
	sums := make(map[string]string, len(rendered))
	if manifest != nil {
		for key, entry := range manifest.Pages {
			sums[key] = entry.Checksum
		}
	}
	for _, page := range rendered {
		sums[pageKey(page.Route)] = page.Checksum
	}
	keys := make([]string, 0, len(sums))
	for key := range sums {
		if keep != nil {
			if _, ok := keep[key]; !ok {
				continue
			}
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	h := sha256.New()
	for _, key := range keys {
		fmt.Fprintf(h, "%s\x00%s\n", key, sums[key])
	}
	return hex.EncodeToString(h.Sum(nil))
}

func computeHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

func lastModified(site *catalog.Site, route string) time.Time {
	page, err := site.Page(route)
	if err != nil {
		return time.Time{}
	}
	return page.LastModified
}

func sectionSlug(page *catalog.Page) string {
	if page.Section == nil {
		return ""
	}
	return page.Section.Slug
}

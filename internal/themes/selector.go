package themes

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	gotheme "github.com/goliatone/go-theme"
	"github.com/riguelni/go-docs/internal/logging"
	"github.com/riguelni/go-docs/pkg/interfaces"
)

// ManifestLoader reads a go-theme manifest from a theme directory.
type ManifestLoader interface {
	Load(dir string) (*gotheme.Manifest, error)
}

// DirLoader loads manifests from disk.
type DirLoader struct{}

func (DirLoader) Load(dir string) (*gotheme.Manifest, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, fmt.Errorf("themes: theme directory required")
	}
	return gotheme.LoadDir(os.DirFS(filepath.Clean(dir)), ".")
}

// Config selects the theme. An empty Dir means the built-in theme.
type Config struct {
	Dir               string
	Name              string
	Variant           string
	CSSVariablePrefix string
}

// Selector resolves the configured theme once and hands out template
// contexts per variant.
type Selector struct {
	cfg      Config
	loader   ManifestLoader
	registry *gotheme.MemoryRegistry
	logger   interfaces.Logger

	mu       sync.Mutex
	loaded   bool
	manifest *gotheme.Manifest
	loadErr  error
}

// NewSelector builds a selector. A nil loader reads manifests from disk.
func NewSelector(cfg Config, loader ManifestLoader, logger interfaces.Logger) *Selector {
	if loader == nil {
		loader = DirLoader{}
	}
	if logger == nil {
		logger = logging.NoOp()
	}
	cfg.Name = strings.TrimSpace(cfg.Name)
	if cfg.Name == "" {
		cfg.Name = DefaultName
	}
	cfg.Variant = strings.TrimSpace(cfg.Variant)
	if cfg.Variant == "" {
		cfg.Variant = DefaultVariant
	}
	return &Selector{
		cfg:      cfg,
		loader:   loader,
		registry: gotheme.NewRegistry(),
		logger:   logger,
	}
}

// Select returns the template context for variant (empty means the
// configured default). Without a theme directory the built-in context is
// returned.
func (s *Selector) Select(variant string) (Context, error) {
	variant = strings.TrimSpace(variant)
	if variant == "" {
		variant = s.cfg.Variant
	}
	if strings.TrimSpace(s.cfg.Dir) == "" {
		return Builtin(variant), nil
	}

	if _, err := s.ensureManifest(); err != nil {
		return Context{}, err
	}

	selector := gotheme.Selector{
		Registry:       s.registry,
		DefaultTheme:   s.cfg.Name,
		DefaultVariant: s.cfg.Variant,
	}
	selection, err := selector.Select(s.cfg.Name, variant)
	if err != nil {
		return Context{}, fmt.Errorf("themes: select %s/%s: %w", s.cfg.Name, variant, err)
	}
	return buildContext(selection, s.cfg.CSSVariablePrefix), nil
}

// Dir is the configured theme directory, empty for the built-in theme.
func (s *Selector) Dir() string {
	return strings.TrimSpace(s.cfg.Dir)
}

func (s *Selector) ensureManifest() (*gotheme.Manifest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		return s.manifest, s.loadErr
	}
	s.loaded = true

	manifest, err := s.loader.Load(s.cfg.Dir)
	if err != nil {
		s.loadErr = fmt.Errorf("themes: load manifest from %s: %w", s.cfg.Dir, err)
		return nil, s.loadErr
	}

	normalized := *manifest
	if strings.TrimSpace(normalized.Name) == "" {
		normalized.Name = s.cfg.Name
	}
	if !strings.EqualFold(normalized.Name, s.cfg.Name) {
		s.logger.Warn("theme.name_mismatch", "manifest", normalized.Name, "configured", s.cfg.Name)
		normalized.Name = s.cfg.Name
	}
	if err := s.registry.Register(&normalized); err != nil {
		s.loadErr = fmt.Errorf("themes: register manifest: %w", err)
		return nil, s.loadErr
	}
	s.manifest = &normalized
	s.logger.Info("theme.loaded", "theme", normalized.Name, "dir", s.cfg.Dir)
	return s.manifest, nil
}

func buildContext(selection *gotheme.Selection, cssPrefix string) Context {
	ctx := Builtin(selection.Variant)
	ctx.Name = selection.Theme
	if tokens := selection.Tokens(); tokens != nil {
		ctx.Tokens = tokens
	}
	if vars := selection.CSSVariables(cssPrefix); vars != nil {
		ctx.CSSVars = vars
	}

	var styles, scripts []string
	for _, asset := range collectManifestAssets(selection) {
		switch strings.ToLower(path.Ext(asset)) {
		case ".css":
			styles = append(styles, AssetPrefix+asset)
		case ".js":
			scripts = append(scripts, AssetPrefix+asset)
		}
	}
	if len(styles) > 0 {
		ctx.Stylesheets = styles
	}
	if len(scripts) > 0 {
		ctx.Scripts = scripts
	}
	return ctx
}

// collectManifestAssets merges the manifest files with the selected variant's
// overrides, deduplicated and sorted.
func collectManifestAssets(selection *gotheme.Selection) []string {
	if selection == nil || selection.Manifest == nil {
		return nil
	}

	files := map[string]string{}
	for key, file := range selection.Manifest.Assets.Files {
		files[key] = file
	}
	if variant := strings.TrimSpace(selection.Variant); variant != "" {
		if v, ok := selection.Manifest.Variants[variant]; ok {
			for key, file := range v.Assets.Files {
				files[key] = file
			}
		}
	}

	seen := map[string]struct{}{}
	var out []string
	for _, file := range files {
		file = strings.TrimPrefix(filepath.ToSlash(strings.TrimSpace(file)), "/")
		if file == "" {
			continue
		}
		if _, ok := seen[file]; ok {
			continue
		}
		seen[file] = struct{}{}
		out = append(out, file)
	}
	sort.Strings(out)
	return out
}

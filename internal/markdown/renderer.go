package markdown

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/riguelni/go-docs/internal/logging"
	"github.com/riguelni/go-docs/internal/placeholder"
	"github.com/riguelni/go-docs/pkg/interfaces"
)

// Options configures a Renderer.
type Options struct {
	// Extensions lists goldmark extensions by name. Nil selects gfm, linkify
	// and tasklist; an empty non-nil slice disables extensions.
	Extensions []string
	HardWraps  bool
	// SafeMode drops raw HTML from the output.
	SafeMode bool
	// UniqueHeadingIDs suffixes repeated slug ids with -1, -2, ...
	UniqueHeadingIDs bool
	// CacheSize bounds the number of cached results. Zero disables caching.
	CacheSize int
	Logger    interfaces.Logger
	Observer  Observer
}

// Observer is notified after every render.
type Observer interface {
	ObserveRender(elapsed time.Duration, cached bool, collisions int)
}

// Renderer turns markdown sources into Results. It is safe for concurrent
// use.
type Renderer struct {
	opts       Options
	engine     goldmark.Markdown
	strategies map[ast.NodeKind]strategy
	cache      *lru.Cache[string, *Result]
	logger     interfaces.Logger
}

// New constructs a Renderer.
func New(opts Options) (*Renderer, error) {
	if err := checkExtensions(opts.Extensions); err != nil {
		return nil, err
	}
	r := &Renderer{
		opts:       opts,
		engine:     newEngine(opts),
		strategies: strategyTable(),
		logger:     opts.Logger,
	}
	if r.logger == nil {
		r.logger = logging.NoOp()
	}
	if opts.CacheSize > 0 {
		cache, err := lru.New[string, *Result](opts.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("markdown: render cache: %w", err)
		}
		r.cache = cache
	}
	return r, nil
}

// Render parses source, applies heading ids and placeholder substitution and
// renders HTML. Identical inputs return the same cached *Result.
func (r *Renderer) Render(ctx context.Context, source []byte, set placeholder.Set) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	started := time.Now()
	key := r.checksum(source, set)

	if r.cache != nil {
		if cached, ok := r.cache.Get(key); ok {
			r.observe(started, true, len(cached.Collisions))
			return cached, nil
		}
	}

	doc := r.engine.Parser().Parse(text.NewReader(source))

	w := newWalker(source, set, r.strategies, r.opts.UniqueHeadingIDs)
	nodes := w.children(doc)
	w.applySwaps()

	var buf bytes.Buffer
	if err := r.engine.Renderer().Render(&buf, source, doc); err != nil {
		return nil, fmt.Errorf("markdown: render html: %w", err)
	}

	result := &Result{
		Nodes:        nodes,
		Headings:     w.headings,
		HTML:         buf.String(),
		Collisions:   w.collisions,
		Placeholders: w.used,
		Checksum:     key,
	}

	for _, c := range result.Collisions {
		r.logger.Warn("heading.collision",
			"id", c.ID,
			"text", c.Text,
			"first_text", c.FirstText,
			"line", c.Line,
			"renamed", c.Renamed,
		)
	}

	if r.cache != nil {
		r.cache.Add(key, result)
	}
	r.observe(started, false, len(result.Collisions))
	return result, nil
}

// RenderString is a convenience wrapper around Render.
func (r *Renderer) RenderString(ctx context.Context, source string, set placeholder.Set) (*Result, error) {
	return r.Render(ctx, []byte(source), set)
}

// Purge drops every cached result.
func (r *Renderer) Purge() {
	if r.cache != nil {
		r.cache.Purge()
	}
}

func (r *Renderer) observe(started time.Time, cached bool, collisions int) {
	if r.opts.Observer != nil {
		r.opts.Observer.ObserveRender(time.Since(started), cached, collisions)
	}
}

// checksum fingerprints the source together with the placeholder set, so a
// page whose placeholders change is re-rendered even if its body did not.
func (r *Renderer) checksum(source []byte, set placeholder.Set) string {
	h := sha256.New()
	_, _ = h.Write(source)
	for _, e := range set.Entries() {
		writeField(h, e.Token)
		writeField(h, e.Src)
		writeField(h, e.Alt)
		writeField(h, e.Caption)
		for _, img := range e.Images {
			writeField(h, img.Src)
			writeField(h, img.Alt)
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

func writeField(w io.Writer, value string) {
	_, _ = io.WriteString(w, "\x00"+strconv.Itoa(len(value))+":"+value)
}

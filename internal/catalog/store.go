package catalog

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/riguelni/go-docs/internal/logging"
	"github.com/riguelni/go-docs/pkg/interfaces"
)

// Reloader builds a fresh Site, typically by calling Load again.
type Reloader func(ctx context.Context) (*Site, error)

// Store holds the active Site. Reads never block; reloads replace the whole
// Site at once.
type Store struct {
	current atomic.Pointer[Site]
	logger  interfaces.Logger

	mu        sync.Mutex
	listeners []func(*Site)
}

// NewStore returns a store serving site.
func NewStore(site *Site, logger interfaces.Logger) *Store {
	if logger == nil {
		logger = logging.NoOp()
	}
	s := &Store{logger: logger}
	s.current.Store(site)
	return s
}

// Site returns the active site.
func (s *Store) Site() *Site {
	return s.current.Load()
}

// OnSwap registers fn to run after every successful swap.
func (s *Store) OnSwap(fn func(*Site)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Swap installs site and returns the previous one.
func (s *Store) Swap(site *Site) *Site {
	previous := s.current.Swap(site)

	s.mu.Lock()
	listeners := append([]func(*Site){}, s.listeners...)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn(site)
	}
	return previous
}

// Reload runs reload and swaps in the result. On failure the active site is
// kept and the error returned.
func (s *Store) Reload(ctx context.Context, reload Reloader) error {
	site, err := reload(ctx)
	if err != nil {
		s.logger.Error("catalog.reload_failed", "error", err)
		return err
	}
	s.Swap(site)
	s.logger.Info("catalog.reloaded", "pages", site.Len())
	return nil
}

// Package view holds the per-request page state: a Shell that moves from
// Loading to Loaded once, and the Page model templates render.
package view

import (
	"context"
	"time"

	"github.com/riguelni/go-docs/internal/reveal"
)

// State is the lifecycle of a page view.
type State uint8

const (
	Loading State = iota
	Loaded
)

func (s State) String() string {
	if s == Loaded {
		return "loaded"
	}
	return "loading"
}

// Shell owns a page's content for the lifetime of one view. Content is only
// handed out after the reveal fires; closing the shell before that keeps it in
// Loading forever.
type Shell[T any] struct {
	content T
	reveal  *reveal.Reveal
}

// NewShell starts the reveal timer. A non-positive delay yields a shell that is
// already Loaded.
func NewShell[T any](content T, delay time.Duration) *Shell[T] {
	return &Shell[T]{content: content, reveal: reveal.New(delay)}
}

func (s *Shell[T]) State() State {
	if s.reveal.IsReady() {
		return Loaded
	}
	return Loading
}

// Content returns the content and true once Loaded.
func (s *Shell[T]) Content() (T, bool) {
	if !s.reveal.IsReady() {
		var zero T
		return zero, false
	}
	return s.content, true
}

// Wait blocks until the shell is Loaded or ctx ends. When ctx ends first the
// timer is cancelled and the shell stays Loading.
func (s *Shell[T]) Wait(ctx context.Context) (T, error) {
	if err := s.reveal.Wait(ctx); err != nil {
		var zero T
		return zero, err
	}
	return s.content, nil
}

// Close tears the view down. It is safe to call more than once.
func (s *Shell[T]) Close() {
	s.reveal.Cancel()
}

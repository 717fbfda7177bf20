package http

import (
	"errors"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/riguelni/go-docs/internal/catalog"
	"github.com/riguelni/go-docs/internal/logging"
	"github.com/riguelni/go-docs/internal/metrics"
	"github.com/riguelni/go-docs/internal/themes"
	"github.com/riguelni/go-docs/internal/view"
)

const htmlContentType = "text/html; charset=utf-8"

func (s *Server) site() *catalog.Site {
	if s.store == nil {
		return nil
	}
	return s.store.Site()
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	site := s.site()
	if site == nil || site.First() == nil {
		s.writeNotFound(w, r, site)
		return
	}
	http.Redirect(w, r, site.First().Route, http.StatusFound)
}

// handlePage streams the page: the shell and skeleton are flushed right away,
// the content follows once the reveal fires. A client that goes away first
// cancels the reveal and gets nothing more.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	site := s.site()
	if site == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	page, err := site.Page(r.URL.Path)
	if err != nil {
		if errors.Is(err, catalog.ErrContentNotFound) {
			s.writeNotFound(w, r, site)
			return
		}
		writeError(w, err)
		return
	}

	logger := logging.WithPageContext(logging.WithFields(s.logger, logging.ContextFields(r.Context())), page.Route, sectionSlug(page), page.SourcePath)
	model, err := s.builder.Build(r.Context(), site, page)
	if err != nil {
		logger.Error("page.render_failed", "error", err)
		writeError(w, err)
		return
	}

	delay := s.revealDelay
	if !parseBoolQuery(r.URL.Query().Get("reveal"), true) {
		delay = 0
	}
	model.RevealDelay = delay

	w.Header().Set("Content-Type", htmlContentType)
	if delay <= 0 {
		s.metrics.ObserveReveal(metrics.RevealImmediate)
		if _, err := s.templates.Render(themes.TemplatePage, model, w); err != nil {
			logger.Error("page.write_failed", "error", err)
		}
		return
	}

	shell := view.NewShell(model, delay)
	defer shell.Close()

	for _, name := range []string{themes.TemplateShellOpen, themes.TemplateSkeleton} {
		if _, err := s.templates.Render(name, model, w); err != nil {
			logger.Error("page.write_failed", "template", name, "error", err)
			return
		}
	}
	if err := http.NewResponseController(w).Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
		logger.Debug("page.flush_failed", "error", err)
	}

	started := time.Now()
	loaded, err := shell.Wait(r.Context())
	if err != nil {
		s.metrics.ObserveReveal(metrics.RevealCancelled)
		logger.Debug("page.reveal_cancelled", "waited", time.Since(started), "error", err)
		return
	}
	s.metrics.ObserveReveal(metrics.RevealShown)

	for _, name := range []string{themes.TemplateContent, themes.TemplateReveal, themes.TemplateShellClose} {
		if _, err := s.templates.Render(name, loaded, w); err != nil {
			logger.Error("page.write_failed", "template", name, "error", err)
			return
		}
	}
}

// handleAsset serves files from the site's asset directory, so markdown can
// reference images by literal paths like /GitHub/install.png.
func (s *Server) handleAsset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method_not_allowed"})
		return
	}
	site := s.site()
	if assets := s.siteAssets(site); assets != nil {
		name := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
		if info, err := fs.Stat(assets, name); err == nil && !info.IsDir() {
			http.ServeFileFS(w, r, assets, name)
			return
		}
	}
	s.writeNotFound(w, r, site)
}

func (s *Server) siteAssets(site *catalog.Site) fs.FS {
	if s.content == nil || site == nil || strings.TrimSpace(site.AssetsDir) == "" {
		return nil
	}
	sub, err := fs.Sub(s.content, site.AssetsDir)
	if err != nil {
		return nil
	}
	return sub
}

func (s *Server) writeNotFound(w http.ResponseWriter, r *http.Request, site *catalog.Site) {
	w.Header().Set("Content-Type", htmlContentType)
	w.WriteHeader(http.StatusNotFound)
	if s.templates == nil {
		return
	}
	if _, err := s.templates.Render(themes.TemplateNotFound, s.builder.NotFound(site, r.URL.Path), w); err != nil {
		s.logger.Error("page.not_found_failed", "route", r.URL.Path, "error", err)
	}
}

type searchResult struct {
	Title   string `json:"title"`
	Route   string `json:"route"`
	Section string `json:"section"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	site := s.site()
	if site == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "query parameter q required"})
		return
	}
	results := []searchResult{}
	for _, page := range site.Search(query) {
		results = append(results, searchResult{Title: page.Title, Route: page.Route, Section: sectionSlug(page)})
	}
	writeJSON(w, http.StatusOK, results)
}

type healthResponse struct {
	Status       string    `json:"status"`
	Pages        int       `json:"pages"`
	LoadedAt     time.Time `json:"loaded_at"`
	LastModified time.Time `json:"last_modified"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	site := s.site()
	if site == nil {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "loading"})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status:       "ok",
		Pages:        site.Len(),
		LoadedAt:     site.LoadedAt,
		LastModified: site.LastModified(),
	})
}

func sectionSlug(page *catalog.Page) string {
	if page == nil || page.Section == nil {
		return ""
	}
	return page.Section.Slug
}

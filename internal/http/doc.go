// Package http serves the documentation site over HTTP.
//
// Routes:
//   - GET /                  redirects to the first page
//   - GET /docs/...          streams a page: shell and skeleton first, content once revealed
//   - GET /assets/theme/...  theme stylesheet and script
//   - GET /api/search?q=     page titles matching q, as JSON
//   - GET /healthz           catalog status
//   - GET /metrics           Prometheus exposition, when metrics are enabled
//
// Any other GET is looked up in the site's asset directory and falls back to
// the 404 page. Pass ?reveal=0 to skip the loading state.
package http

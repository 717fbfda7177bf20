package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/riguelni/go-docs/internal/catalog"
)

type errorResponse struct {
	Error   string          `json:"error"`
	Message string          `json:"message,omitempty"`
	Issues  []catalog.Issue `json:"issues,omitempty"`
}

// errorRules are checked in order; the first match decides the response.
var errorRules = []struct {
	match  func(error) bool
	status int
	code   string
}{
	{func(err error) bool { return errors.Is(err, catalog.ErrContentNotFound) }, http.StatusNotFound, "not_found"},
	{func(err error) bool { return errors.Is(err, catalog.ErrRouteInvalid) }, http.StatusNotFound, "not_found"},
	{func(err error) bool {
		var m *catalog.ManifestError
		return errors.As(err, &m)
	}, http.StatusUnprocessableEntity, "manifest_invalid"},
	{func(err error) bool { return errors.Is(err, catalog.ErrContentParse) }, http.StatusUnprocessableEntity, "content_invalid"},
}

func mapError(err error) (int, errorResponse) {
	if err == nil {
		return http.StatusInternalServerError, errorResponse{Error: "unknown_error"}
	}
	status, body := http.StatusInternalServerError, errorResponse{Error: "internal_error", Message: err.Error()}
	for _, rule := range errorRules {
		if rule.match(err) {
			status, body.Error = rule.status, rule.code
			break
		}
	}
	var manifestErr *catalog.ManifestError
	if errors.As(err, &manifestErr) {
		body.Issues = manifestErr.Issues
	}
	return status, body
}

func writeError(w http.ResponseWriter, err error) {
	status, body := mapError(err)
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func parseBoolQuery(value string, fallback bool) bool {
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return parsed
}

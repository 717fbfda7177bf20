package catalog

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrContentNotFound = errors.New("catalog: content not found")
	ErrContentParse    = errors.New("catalog: content could not be parsed")
	ErrManifestInvalid = errors.New("catalog: site manifest is invalid")
	ErrRouteInvalid    = errors.New("catalog: route is invalid")
)

// PageError ties a failure to the page file that caused it.
type PageError struct {
	Path string
	Err  error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *PageError) Unwrap() error {
	return e.Err
}

// Issue is one schema violation in site.yaml.
type Issue struct {
	Location string `json:"location"`
	Message  string `json:"message"`
}

// ManifestError lists every schema violation found in site.yaml.
type ManifestError struct {
	Issues []Issue
	Cause  error
}

func (e *ManifestError) Error() string {
	if len(e.Issues) == 0 {
		if e.Cause != nil {
			return fmt.Sprintf("%v: %v", ErrManifestInvalid, e.Cause)
		}
		return ErrManifestInvalid.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := strings.TrimSpace(issue.Location)
		if !strings.HasPrefix(location, "#") {
			location = "#" + location
		}
		parts = append(parts, location+": "+issue.Message)
	}
	return ErrManifestInvalid.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ManifestError) Unwrap() error {
	return ErrManifestInvalid
}

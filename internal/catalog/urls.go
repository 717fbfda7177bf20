package catalog

import (
	"fmt"
	"strings"

	urlkit "github.com/goliatone/go-urlkit"
)

const (
	urlGroup = "docs"
	urlRoute = "page"
)

// urlBuilder resolves canonical page URLs through go-urlkit. Without a base
// URL it returns the bare route.
type urlBuilder struct {
	manager *urlkit.RouteManager
}

func newURLBuilder(baseURL string) *urlBuilder {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return &urlBuilder{}
	}
	manager := urlkit.NewRouteManager(&urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    urlGroup,
				BaseURL: baseURL,
				Paths: map[string]string{
					urlRoute: RoutePrefix + "/:section/content/:subsection/:page",
				},
			},
		},
	})
	return &urlBuilder{manager: manager}
}

func (b *urlBuilder) Canonical(section, subsection, page string) (string, error) {
	if b == nil || b.manager == nil {
		return Route(section, subsection, page), nil
	}
	builder, err := b.builder()
	if err != nil {
		return "", err
	}
	builder.WithParam("section", section)
	builder.WithParam("subsection", subsection)
	builder.WithParam("page", page)
	return builder.Build()
}

// builder guards the urlkit lookups, which panic on unknown names.
func (b *urlBuilder) builder() (builder *urlkit.Builder, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("catalog: urlkit route %s.%s: %v", urlGroup, urlRoute, rec)
		}
	}()
	return b.manager.Group(urlGroup).Builder(urlRoute), nil
}

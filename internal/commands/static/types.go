package staticcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/riguelni/go-docs/internal/catalog"
	"github.com/riguelni/go-docs/internal/generator"
)

const (
	buildSiteMessageType = "docs.static.build"
	diffSiteMessageType  = "docs.static.diff"
	cleanSiteMessageType = "docs.static.clean"
)

// ResultCallback is called synchronously once a build or diff returns,
// including failed runs that produced a partial result.
type ResultCallback func(ResultEnvelope)

// ResultEnvelope pairs a build result with the operation that produced it.
type ResultEnvelope struct {
	Result   *generator.BuildResult
	Metadata map[string]any
}

// BuildSiteCommand executes a generator build. Routes narrows the build to
// specific pages; empty builds the whole site.
type BuildSiteCommand struct {
	Routes         []string       `json:"routes,omitempty"`
	DryRun         bool           `json:"dry_run,omitempty"`
	ResultCallback ResultCallback `json:"-"`
}

func (BuildSiteCommand) Type() string { return buildSiteMessageType }

func (m BuildSiteCommand) Validate() error {
	return validation.ValidateStruct(&m, routesField(&m.Routes))
}

// DiffSiteCommand performs a dry-run build to report what would change.
type DiffSiteCommand struct {
	Routes         []string       `json:"routes,omitempty"`
	ResultCallback ResultCallback `json:"-"`
}

func (DiffSiteCommand) Type() string { return diffSiteMessageType }

func (m DiffSiteCommand) Validate() error {
	return validation.ValidateStruct(&m, routesField(&m.Routes))
}

// CleanSiteCommand clears generator artifacts from the output directory.
type CleanSiteCommand struct{}

func (CleanSiteCommand) Type() string    { return cleanSiteMessageType }
func (CleanSiteCommand) Validate() error { return nil }

// routesField requires every entry to be a non-empty /docs/ route.
func routesField(routes *[]string) *validation.FieldRules {
	return validation.Field(routes, validation.Each(validation.By(docsRoute)))
}

func docsRoute(value any) error {
	route, _ := value.(string)
	route = strings.TrimSpace(route)
	if route == "" {
		return validation.NewError("docs.static.route_required", "routes must not contain empty values")
	}
	if !strings.HasPrefix(route, catalog.RoutePrefix+"/") {
		return validation.NewError("docs.static.route_invalid", "routes must start with "+catalog.RoutePrefix+"/")
	}
	return nil
}

// normalizeRoutes trims trailing slashes and drops blanks and repeats,
// keeping first-seen order. It returns nil when nothing is left.
func normalizeRoutes(values []string) []string {
	var out []string
	seen := make(map[string]bool, len(values))
	for _, route := range values {
		route = strings.TrimRight(strings.TrimSpace(route), "/")
		if route != "" && !seen[route] {
			seen[route] = true
			out = append(out, route)
		}
	}
	return out
}

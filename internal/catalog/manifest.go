package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// ManifestFile is the manifest path inside a content filesystem.
const ManifestFile = "site.yaml"

//go:embed schema.json
var manifestSchema []byte

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

// Manifest mirrors site.yaml.
type Manifest struct {
	Title       string            `yaml:"title"`
	Description string            `yaml:"description"`
	BaseURL     string            `yaml:"base_url"`
	Assets      string            `yaml:"assets"`
	Links       []Link            `yaml:"links"`
	Sections    []ManifestSection `yaml:"sections"`
}

type ManifestSection struct {
	Slug        string               `yaml:"slug"`
	Title       string               `yaml:"title"`
	Subsections []ManifestSubsection `yaml:"subsections"`
}

// ManifestSubsection lists page files relative to the content root. An empty
// Pages list picks up every pages/<section>/<subsection>/*.md file.
type ManifestSubsection struct {
	Slug  string   `yaml:"slug"`
	Title string   `yaml:"title"`
	Pages []string `yaml:"pages"`
}

// ParseManifest decodes site.yaml and validates it against the embedded JSON
// Schema. Schema violations are reported as *ManifestError.
func ParseManifest(data []byte) (Manifest, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Manifest{}, &ManifestError{Cause: err}
	}
	if err := validateManifest(raw); err != nil {
		return Manifest{}, err
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, &ManifestError{Cause: err}
	}
	if strings.TrimSpace(m.Assets) == "" {
		m.Assets = "assets"
	}
	return m, nil
}

// validateManifest round-trips the YAML value through encoding/json so the
// validator sees plain JSON types.
func validateManifest(raw any) error {
	schema, err := manifestValidator()
	if err != nil {
		return err
	}

	encoded, err := json.Marshal(raw)
	if err != nil {
		return &ManifestError{Cause: err}
	}
	var doc any
	if err := json.Unmarshal(encoded, &doc); err != nil {
		return &ManifestError{Cause: err}
	}

	if err := schema.Validate(doc); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return &ManifestError{Issues: collectIssues(validationErr), Cause: err}
		}
		return &ManifestError{Cause: err}
	}
	return nil
}

func manifestValidator() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource("site.schema.json", bytes.NewReader(manifestSchema)); err != nil {
			compileErr = fmt.Errorf("catalog: load manifest schema: %w", err)
			return
		}
		compiledSchema, compileErr = compiler.Compile("site.schema.json")
	})
	return compiledSchema, compileErr
}

func collectIssues(err *jsonschema.ValidationError) []Issue {
	var issues []Issue
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, Issue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}

// Package themes renders documentation pages through html/template and
// resolves the active theme (stylesheets, scripts, design tokens) with
// go-theme, falling back to the built-in assets.
package themes

import (
	"html/template"
	"sort"
	"strings"
)

// AssetPrefix is the URL prefix theme assets are served under.
const AssetPrefix = "/assets/theme/"

const (
	DefaultName    = "default"
	DefaultVariant = "light"
)

// Context is the theme data handed to templates.
type Context struct {
	Name        string
	Variant     string
	Tokens      map[string]string
	CSSVars     map[string]string
	Stylesheets []string
	Scripts     []string
}

// Builtin is the context used when no theme directory is configured.
func Builtin(variant string) Context {
	variant = strings.TrimSpace(variant)
	if variant == "" {
		variant = DefaultVariant
	}
	return Context{
		Name:        DefaultName,
		Variant:     variant,
		Tokens:      map[string]string{},
		CSSVars:     map[string]string{},
		Stylesheets: []string{AssetPrefix + "docs.css"},
		Scripts:     []string{AssetPrefix + "docs.js"},
	}
}

// Style renders CSSVars as a :root rule. Empty when there are no variables.
func (c Context) Style() template.CSS {
	if len(c.CSSVars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(c.CSSVars))
	for key := range c.CSSVars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root{")
	for _, key := range keys {
		name := strings.TrimSpace(key)
		if !strings.HasPrefix(name, "--") {
			name = "--" + name
		}
		value := strings.NewReplacer(";", "", "}", "", "{", "", "<", "").Replace(c.CSSVars[key])
		b.WriteString(name)
		b.WriteByte(':')
		b.WriteString(strings.TrimSpace(value))
		b.WriteByte(';')
	}
	b.WriteString("}")
	return template.CSS(b.String())
}

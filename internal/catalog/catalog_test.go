package catalog

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/riguelni/go-docs/internal/identity"
)

const testManifest = `title: Riguelni Docs
description: Platform documentation
base_url: https://docs.riguelni.dev
links:
  - label: Home
    href: https://riguelni.com
sections:
  - slug: getting-started
    title: Getting Started
    subsections:
      - slug: introduction
        title: Introduction
        pages:
          - pages/getting-started/introduction/overview.md
          - pages/getting-started/introduction/modern-app-router.md
  - slug: integrations
    title: Integrations
    subsections:
      - slug: github
        title: GitHub
      - slug: jira
        title: Jira
`

var fixedTime = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

func testFS() fstest.MapFS {
	file := func(body string) *fstest.MapFile {
		return &fstest.MapFile{Data: []byte(body), ModTime: fixedTime}
	}
	return fstest.MapFS{
		"site.yaml": file(testManifest),
		"pages/getting-started/introduction/overview.md": file("---\ntitle: Overview\n---\n# Overview\n\nWelcome.\n"),
		"pages/getting-started/introduction/modern-app-router.md": file(`---
title: Modern App Router
placeholders:
  - token: "[IMAGE_PLACEHOLDER_1]"
    src: /GitHub/app-router.png
    alt: App router
---
# Modern App Router

[IMAGE_PLACEHOLDER_1]
`),
		"pages/integrations/github/api-integration.md": file("---\ntitle: API Integration\norder: 2\n---\n# API Integration\n"),
		"pages/integrations/github/overview.md":        file("---\ntitle: GitHub Overview\norder: 1\n---\n# GitHub\n"),
		"pages/integrations/jira/setup.md":             file("---\ntitle: Jira Setup\n---\n# Setup\n\nConnect Jira.\n"),
		"assets/GitHub/app-router.png":                 file("png"),
	}
}

func loadTestSite(t *testing.T, fsys fstest.MapFS, opts LoadOptions) *Site {
	t.Helper()
	site, err := Load(context.Background(), fsys, opts)
	require.NoError(t, err)
	return site
}

func TestLoadBuildsRoutesInReadingOrder(t *testing.T) {
	site := loadTestSite(t, testFS(), LoadOptions{})

	var routes []string
	for _, p := range site.Pages() {
		routes = append(routes, p.Route)
	}
	require.Equal(t, []string{
		"/docs/getting-started/content/introduction/overview",
		"/docs/getting-started/content/introduction/modern-app-router",
		"/docs/integrations/content/github/overview",
		"/docs/integrations/content/github/api-integration",
		"/docs/integrations/content/jira/setup",
	}, routes)

	for i, p := range site.Pages() {
		require.Equal(t, i, p.Index)
		require.Equal(t, identity.PageUUID(p.Route), p.ID)
	}
	require.Equal(t, "Riguelni Docs", site.Title)
	require.Equal(t, "assets", site.AssetsDir)
	require.Len(t, site.Links, 1)
	require.Equal(t, fixedTime, site.LastModified())
}

func TestLoadResolvesPageDetails(t *testing.T) {
	site := loadTestSite(t, testFS(), LoadOptions{})

	page, err := site.Page("/docs/getting-started/content/introduction/modern-app-router/")
	require.NoError(t, err)
	require.Equal(t, "Modern App Router", page.Title)
	require.Equal(t, "Getting Started", page.Section.Title)
	require.Equal(t, "Introduction", page.Subsection.Title)
	require.Equal(t, "https://docs.riguelni.dev/docs/getting-started/content/introduction/modern-app-router", page.CanonicalURL)
	require.Equal(t, []string{"[IMAGE_PLACEHOLDER_1]"}, page.Placeholders.Tokens())
	require.Contains(t, string(page.Source), "# Modern App Router")
	require.NotContains(t, string(page.Source), "placeholders:")

	_, err = site.Page("/docs/nope")
	require.ErrorIs(t, err, ErrContentNotFound)
}

func TestLoadWithoutBaseURLUsesRoutes(t *testing.T) {
	fsys := testFS()
	fsys["site.yaml"] = &fstest.MapFile{Data: []byte("title: Docs\nsections:\n  - slug: a\n    title: A\n    subsections:\n      - slug: b\n        title: B\n")}
	fsys["pages/a/b/c.md"] = &fstest.MapFile{Data: []byte("# C\n")}

	site := loadTestSite(t, fsys, LoadOptions{})
	page := site.First()
	require.NotNil(t, page)
	require.Equal(t, "/docs/a/content/b/c", page.CanonicalURL)
	require.Equal(t, "c", page.Title)
}

func TestLoadOverrides(t *testing.T) {
	site := loadTestSite(t, testFS(), LoadOptions{
		Title:   "Staging Docs",
		BaseURL: "https://staging.riguelni.dev/",
		Now:     func() time.Time { return fixedTime },
	})
	require.Equal(t, "Staging Docs", site.Title)
	require.Equal(t, "https://staging.riguelni.dev", site.BaseURL)
	require.Equal(t, fixedTime, site.LoadedAt)
	require.Equal(t, "https://staging.riguelni.dev/docs/integrations/content/jira/setup", site.At(4).CanonicalURL)
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(fstest.MapFS)
		want   error
	}{
		{
			name:   "missing manifest",
			mutate: func(fsys fstest.MapFS) { delete(fsys, "site.yaml") },
			want:   ErrContentNotFound,
		},
		{
			name: "manifest schema violation",
			mutate: func(fsys fstest.MapFS) {
				fsys["site.yaml"] = &fstest.MapFile{Data: []byte("title: Docs\nsections:\n  - slug: Getting Started\n    title: x\n    subsections: []\n")}
			},
			want: ErrManifestInvalid,
		},
		{
			name: "manifest yaml syntax",
			mutate: func(fsys fstest.MapFS) {
				fsys["site.yaml"] = &fstest.MapFile{Data: []byte("title: [\n")}
			},
			want: ErrManifestInvalid,
		},
		{
			name:   "missing page file",
			mutate: func(fsys fstest.MapFS) { delete(fsys, "pages/getting-started/introduction/overview.md") },
			want:   ErrContentNotFound,
		},
		{
			name: "broken frontmatter",
			mutate: func(fsys fstest.MapFS) {
				fsys["pages/integrations/jira/setup.md"] = &fstest.MapFile{Data: []byte("---\ntitle: [\n---\nbody\n")}
			},
			want: ErrContentParse,
		},
		{
			name: "placeholder without source",
			mutate: func(fsys fstest.MapFS) {
				fsys["pages/integrations/jira/setup.md"] = &fstest.MapFile{Data: []byte("---\nplaceholders:\n  - token: \"[X]\"\n---\nbody\n")}
			},
			want: ErrContentParse,
		},
		{
			name: "invalid page slug",
			mutate: func(fsys fstest.MapFS) {
				fsys["pages/integrations/jira/setup.md"] = &fstest.MapFile{Data: []byte("---\nslug: Jira Setup\n---\nbody\n")}
			},
			want: ErrRouteInvalid,
		},
		{
			name: "duplicate route",
			mutate: func(fsys fstest.MapFS) {
				fsys["pages/integrations/jira/other.md"] = &fstest.MapFile{Data: []byte("---\nslug: setup\n---\nbody\n")}
			},
			want: ErrRouteInvalid,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fsys := testFS()
			tc.mutate(fsys)
			_, err := Load(context.Background(), fsys, LoadOptions{})
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestManifestErrorListsIssues(t *testing.T) {
	_, err := ParseManifest([]byte("title: Docs\nsections:\n  - slug: Bad Slug\n    title: Bad\n    subsections:\n      - slug: ok\n        title: Ok\nextra: true\n"))
	var manifestErr *ManifestError
	require.True(t, errors.As(err, &manifestErr))
	require.NotEmpty(t, manifestErr.Issues)
	require.Contains(t, err.Error(), "site manifest is invalid")
}

func TestLoadHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Load(ctx, testFS(), LoadOptions{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestSiteSearchAndSections(t *testing.T) {
	site := loadTestSite(t, testFS(), LoadOptions{})

	hits := site.Search("jira")
	require.Len(t, hits, 1)
	require.Equal(t, "Jira Setup", hits[0].Title)
	require.Empty(t, site.Search("  "))

	section := site.Section("integrations")
	require.NotNil(t, section)
	require.Len(t, section.Subsections, 2)
	require.Nil(t, site.Section("missing"))
	require.Nil(t, site.At(99))
}

func TestValidateSegment(t *testing.T) {
	require.NoError(t, ValidateSegment("modern-app-router"))
	require.ErrorIs(t, ValidateSegment(""), ErrRouteInvalid)
	require.ErrorIs(t, ValidateSegment("Modern App Router"), ErrRouteInvalid)
}

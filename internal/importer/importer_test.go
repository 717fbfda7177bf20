package importer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/riguelni/go-docs/internal/catalog"
	"github.com/riguelni/go-docs/internal/markdown"
)

const samplePage = `<!DOCTYPE html>
<html><head>
<title>GitHub Overview</title>
<meta name="description" content="Connect GitHub to Riguelni.">
</head><body>
<nav class="menu"><a href="/">Home</a></nav>
<main id="content" class="doc body">
<h2>Install the app</h2>
<p>Open the marketplace listing.</p>
<p><img src="/GitHub/install.png" alt="Install"></p>
<p><img src="/GitHub/install.png" alt="Again"></p>
<p><img src="/GitHub/permissions.png" alt="Permissions"></p>
</main>
</body></html>`

func TestConvertSelectors(t *testing.T) {
	for _, selector := range []string{"#content", ".doc", "main"} {
		doc, err := Convert(strings.NewReader(samplePage), Options{Selector: selector})
		require.NoError(t, err, selector)
		require.Contains(t, doc.Markdown, "## Install the app", selector)
		require.NotContains(t, doc.Markdown, "Home", selector)
	}
}

func TestConvertDefaultsToBody(t *testing.T) {
	doc, err := Convert(strings.NewReader(samplePage), Options{})
	require.NoError(t, err)
	require.Contains(t, doc.Markdown, "Home")
	require.Equal(t, "GitHub Overview", doc.Title)
	require.Equal(t, "Connect GitHub to Riguelni.", doc.Description)
}

func TestConvertMissingSelector(t *testing.T) {
	_, err := Convert(strings.NewReader(samplePage), Options{Selector: "#missing"})
	require.ErrorIs(t, err, ErrSelectorNotFound)
}

func TestConvertLiftsImagesIntoPlaceholders(t *testing.T) {
	doc, err := Convert(strings.NewReader(samplePage), Options{Selector: "main", Placeholders: true})
	require.NoError(t, err)
	require.Len(t, doc.Placeholders, 2)
	require.Equal(t, "[IMAGE_PLACEHOLDER_1]", doc.Placeholders[0].Token)
	require.Equal(t, "/GitHub/install.png", doc.Placeholders[0].Src)
	require.Equal(t, "[IMAGE_PLACEHOLDER_2]", doc.Placeholders[1].Token)
	require.NotContains(t, doc.Markdown, "![")
	require.Equal(t, 2, strings.Count(doc.Markdown, "[IMAGE_PLACEHOLDER_1]"))
}

func TestFetchTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	_, err := Fetch(context.Background(), server.Client(), server.URL, 20*time.Millisecond)
	require.ErrorIs(t, err, ErrNetworkTimeout)
}

func TestFetchUnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	_, err := Fetch(context.Background(), server.Client(), server.URL, time.Second)
	require.ErrorIs(t, err, ErrUnexpectedStatus)
}

func TestImportWritesLoadablePage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(samplePage))
	}))
	defer server.Close()

	doc, err := Import(context.Background(), server.URL, Options{Selector: "main", Placeholders: true, Client: server.Client()})
	require.NoError(t, err)
	require.Equal(t, server.URL, doc.Source)

	root := t.TempDir()
	path, err := Write(doc, Target{Root: root, Section: "integrations", Subsection: "github", Slug: "overview", Order: 3})
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, "pages", "integrations", "github", "overview.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	meta, body, err := markdown.ParseFrontMatter(data)
	require.NoError(t, err)
	require.Equal(t, "GitHub Overview", meta.Title)
	require.Equal(t, 3, meta.Order)
	require.Contains(t, string(body), "# GitHub Overview\n")

	set, err := meta.PlaceholderSet()
	require.NoError(t, err)
	require.Equal(t, 2, set.Len())

	_, err = Write(doc, Target{Root: root, Section: "integrations", Subsection: "github", Slug: "overview"})
	require.ErrorIs(t, err, ErrPageExists)
}

func TestTargetRejectsInvalidSegments(t *testing.T) {
	_, err := Target{Root: t.TempDir(), Section: "Integrations", Subsection: "github", Slug: "x"}.Path()
	require.ErrorIs(t, err, catalog.ErrRouteInvalid)
}

// Package importer converts existing HTML documentation into page files.
//
// A source (URL or local file) is parsed with golang.org/x/net/html, narrowed
// to one element by a simple selector, and converted to markdown with
// html-to-markdown. Images may be lifted out into placeholder tokens so the
// resulting page renders them as figures.
package importer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html"
	"gopkg.in/yaml.v3"

	"github.com/riguelni/go-docs/internal/placeholder"
)

var (
	// ErrNetworkTimeout reports a fetch that ran past its deadline.
	ErrNetworkTimeout   = errors.New("importer: network timeout")
	ErrSelectorNotFound = errors.New("importer: selector matched nothing")
	ErrUnexpectedStatus = errors.New("importer: unexpected status")
)

const (
	defaultTimeout = 15 * time.Second
	maxBodyBytes   = 8 << 20
)

var imagePattern = regexp.MustCompile(`!\[([^\]]*)\]\(([^)\s]+)(?:\s+"[^"]*")?\)`)

// Options tune a single import.
type Options struct {
	Selector string
	// Placeholders replaces every markdown image with a placeholder token and
	// records the image in the page frontmatter.
	Placeholders bool
	Client       *http.Client
	Timeout      time.Duration
}

// Document is the converted page.
type Document struct {
	Source       string
	Title        string
	Description  string
	Markdown     string
	Placeholders []placeholder.Entry
}

// Import reads source, which is either an http(s) URL or a local path.
func Import(ctx context.Context, source string, opts Options) (*Document, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, errors.New("importer: source required")
	}

	var (
		body []byte
		err  error
	)
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		body, err = Fetch(ctx, opts.Client, source, opts.Timeout)
	} else {
		body, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, err
	}

	doc, err := Convert(bytes.NewReader(body), opts)
	if err != nil {
		return nil, fmt.Errorf("importer: %s: %w", source, err)
	}
	doc.Source = source
	return doc, nil
}

// Fetch downloads url. Deadlines, whether from ctx or timeout, surface as
// ErrNetworkTimeout.
func Fetch(ctx context.Context, client *http.Client, url string, timeout time.Duration) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("importer: create request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, classify(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d from %s", ErrUnexpectedStatus, resp.StatusCode, url)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, classify(ctx, err)
	}
	return body, nil
}

func classify(ctx context.Context, err error) error {
	var netErr net.Error
	if errors.Is(ctx.Err(), context.DeadlineExceeded) ||
		errors.Is(err, context.DeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %v", ErrNetworkTimeout, err)
	}
	return fmt.Errorf("importer: fetch: %w", err)
}

// Convert parses an HTML document and converts the selected element.
func Convert(r io.Reader, opts Options) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	node, err := selectNode(root, opts.Selector)
	if err != nil {
		return nil, err
	}
	converted, err := htmltomarkdown.ConvertNode(node)
	if err != nil {
		return nil, fmt.Errorf("convert to markdown: %w", err)
	}

	doc := &Document{
		Title:       extractTitle(root),
		Description: extractMeta(root, "description"),
		Markdown:    strings.TrimSpace(string(converted)) + "\n",
	}
	if opts.Placeholders {
		doc.Markdown, doc.Placeholders = liftImages(doc.Markdown)
	}
	return doc, nil
}

// liftImages swaps each markdown image for a numbered token. Repeated sources
// reuse the first token.
func liftImages(markdown string) (string, []placeholder.Entry) {
	var (
		entries []placeholder.Entry
		bySrc   = map[string]string{}
	)
	out := imagePattern.ReplaceAllStringFunc(markdown, func(match string) string {
		parts := imagePattern.FindStringSubmatch(match)
		alt, src := parts[1], parts[2]
		if token, ok := bySrc[src]; ok {
			return token
		}
		token := Token(len(entries) + 1)
		bySrc[src] = token
		entries = append(entries, placeholder.Entry{Token: token, View: placeholder.View{Src: src, Alt: alt}})
		return token
	})
	return out, entries
}

type pageFrontMatter struct {
	Title        string              `yaml:"title"`
	Description  string              `yaml:"description,omitempty"`
	Order        int                 `yaml:"order,omitempty"`
	Source       string              `yaml:"source,omitempty"`
	Placeholders []placeholder.Entry `yaml:"placeholders,omitempty"`
}

// Page renders the document as a page file with a YAML frontmatter block.
func (d *Document) Page(order int) ([]byte, error) {
	meta := pageFrontMatter{
		Title:        d.Title,
		Description:  d.Description,
		Order:        order,
		Source:       d.Source,
		Placeholders: d.Placeholders,
	}
	head, err := yaml.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("importer: marshal frontmatter: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(head)
	buf.WriteString("---\n")
	if !strings.HasPrefix(strings.TrimSpace(d.Markdown), "# ") && d.Title != "" {
		buf.WriteString("# " + d.Title + "\n\n")
	}
	buf.WriteString(d.Markdown)
	return buf.Bytes(), nil
}

// Token returns the placeholder token for the nth lifted image, starting at 1.
func Token(n int) string {
	return "[IMAGE_PLACEHOLDER_" + strconv.Itoa(n) + "]"
}

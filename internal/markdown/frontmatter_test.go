package markdown

import (
	"errors"
	"strings"
	"testing"
)

const pageSource = `---
title: Modern App Router
description: Route layouts and nested views
order: 2
placeholders:
  - token: "[IMAGE_PLACEHOLDER_1]"
    src: /GitHub/app-router.png
    alt: App router
    caption: Nested layouts
  - token: "[JIRA_GALLERY]"
    images:
      - src: /Jira/step-1.png
        alt: Step 1
      - src: /Jira/step-2.png
        alt: Step 2
draft_note: keep
---
# Modern App Router

[IMAGE_PLACEHOLDER_1]
`

func TestParseFrontMatter(t *testing.T) {
	fm, body, err := ParseFrontMatter([]byte(pageSource))
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}
	if fm.Title != "Modern App Router" || fm.Order != 2 || fm.Description != "Route layouts and nested views" {
		t.Fatalf("unexpected frontmatter %+v", fm)
	}
	if len(fm.Placeholders) != 2 {
		t.Fatalf("expected two placeholders, got %+v", fm.Placeholders)
	}
	if fm.Placeholders[0].Src != "/GitHub/app-router.png" || fm.Placeholders[0].Caption != "Nested layouts" {
		t.Fatalf("unexpected first placeholder %+v", fm.Placeholders[0])
	}
	if !fm.Placeholders[1].Gallery() {
		t.Fatalf("expected gallery placeholder, got %+v", fm.Placeholders[1])
	}
	if fm.Custom["draft_note"] != "keep" {
		t.Fatalf("expected unknown keys in Custom, got %v", fm.Custom)
	}
	if !strings.HasPrefix(strings.TrimSpace(string(body)), "# Modern App Router") {
		t.Fatalf("unexpected body %q", body)
	}

	set, err := fm.PlaceholderSet()
	if err != nil {
		t.Fatalf("PlaceholderSet: %v", err)
	}
	if set.Len() != 2 {
		t.Fatalf("expected two entries, got %d", set.Len())
	}
}

func TestParseFrontMatterWithoutBlock(t *testing.T) {
	fm, body, err := ParseFrontMatter([]byte("# Plain\n"))
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}
	if fm.Title != "" || string(body) != "# Plain\n" {
		t.Fatalf("expected passthrough body, got %+v %q", fm, body)
	}
}

func TestParseFrontMatterInvalidYAML(t *testing.T) {
	_, _, err := ParseFrontMatter([]byte("---\ntitle: [unclosed\n---\nbody\n"))
	if !errors.Is(err, ErrFrontMatter) {
		t.Fatalf("expected ErrFrontMatter, got %v", err)
	}
}

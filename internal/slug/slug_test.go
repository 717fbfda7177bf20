package slug

import (
	"testing"

	"pgregory.net/rapid"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Modern App Router", "modern-app-router"},
		{"API Integration", "api-integration"},
		{"Title", "title"},
		{"Sub Heading", "sub-heading"},
		{"", ""},
		{"Hello,   World!", "hello-world"},
		{"Tabs\tand\nnewlines", "tabs-and-newlines"},
		{"a - b", "a---b"},
		{"Café & Crème", "caf--crme"},
		{"Step 2: Configure OAuth", "step-2-configure-oauth"},
		{" leading", "-leading"},
	}
	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Fatalf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSlugifyProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := rapid.String().Draw(t, "text")
		first := Slugify(text)
		if second := Slugify(text); first != second {
			t.Fatalf("Slugify not deterministic for %q: %q vs %q", text, first, second)
		}
		if !IsFragmentSafe(first) {
			t.Fatalf("Slugify(%q) = %q contains runes outside [a-z0-9-]", text, first)
		}
	})
}

func TestAssignExplicitID(t *testing.T) {
	heading := Assign("Install the CLI {#setup}")
	if !heading.Explicit {
		t.Fatalf("expected explicit id")
	}
	if heading.ID != "setup" {
		t.Fatalf("expected id setup, got %q", heading.ID)
	}
	if heading.Text != "Install the CLI" {
		t.Fatalf("expected annotation stripped from text, got %q", heading.Text)
	}
}

func TestAssignExplicitIDVerbatim(t *testing.T) {
	heading := Assign("Overview {#Custom_ID.v2}")
	if heading.ID != "Custom_ID.v2" {
		t.Fatalf("explicit id must be used verbatim, got %q", heading.ID)
	}
}

func TestAssignDerivedID(t *testing.T) {
	heading := Assign("Modern App Router")
	if heading.Explicit {
		t.Fatalf("did not expect explicit id")
	}
	if heading.ID != "modern-app-router" || heading.Text != "Modern App Router" {
		t.Fatalf("unexpected heading %#v", heading)
	}
}

func TestIdenticalTextsCollide(t *testing.T) {
	first := Assign("Configuration")
	second := Assign("Configuration")
	if first.ID != second.ID {
		t.Fatalf("identical heading texts must produce identical ids: %q vs %q", first.ID, second.ID)
	}
}

func TestDeduper(t *testing.T) {
	d := NewDeduper()
	got := []string{d.Next("setup"), d.Next("setup"), d.Next("setup-1"), d.Next("setup")}
	want := []string{"setup", "setup-1", "setup-1-1", "setup-2"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Next #%d = %q, want %q (all: %v)", i, got[i], want[i], got)
		}
	}
}

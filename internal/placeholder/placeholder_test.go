package placeholder

import (
	"errors"
	"testing"
)

func TestResolveSelectsMappedView(t *testing.T) {
	set := MustSet(Entry{
		Token: "[IMAGE_PLACEHOLDER_1]",
		View:  View{Src: "/GitHub/connect.png", Alt: "Connect GitHub", Caption: "Connecting a repository"},
	})

	entry, ok := set.Resolve("See below: [IMAGE_PLACEHOLDER_1]")
	if !ok {
		t.Fatalf("expected token to resolve")
	}
	if entry.Src != "/GitHub/connect.png" {
		t.Fatalf("expected mapped view, got %#v", entry.View)
	}
}

func TestResolvePassesThroughUnmatchedText(t *testing.T) {
	set := MustSet(Entry{Token: "[IMAGE_PLACEHOLDER_1]", View: View{Src: "/a.png"}})
	if _, ok := set.Resolve("Plain paragraph text."); ok {
		t.Fatalf("did not expect a match")
	}
	if _, ok := set.Resolve("[IMAGE_PLACEHOLDER_9]"); ok {
		t.Fatalf("unknown tokens must not resolve")
	}
}

func TestResolveFirstMatchWins(t *testing.T) {
	set := MustSet(
		Entry{Token: "[IMAGE_PLACEHOLDER_1]", View: View{Src: "/one.png"}},
		Entry{Token: "[IMAGE_PLACEHOLDER_1", View: View{Src: "/overlap.png"}},
	)
	entry, ok := set.Resolve("[IMAGE_PLACEHOLDER_1]")
	if !ok || entry.Src != "/one.png" {
		t.Fatalf("expected first entry to win, got %#v", entry)
	}
}

func TestNewSetRejectsInvalidEntries(t *testing.T) {
	if _, err := NewSet(Entry{View: View{Src: "/a.png"}}); !errors.Is(err, ErrTokenRequired) {
		t.Fatalf("expected ErrTokenRequired, got %v", err)
	}
	if _, err := NewSet(Entry{Token: "{{IMG:1}}"}); !errors.Is(err, ErrViewRequired) {
		t.Fatalf("expected ErrViewRequired, got %v", err)
	}
}

func TestNewSetKeepsFirstDuplicate(t *testing.T) {
	set := MustSet(
		Entry{Token: "{{IMG:1}}", View: View{Src: "/first.png"}},
		Entry{Token: "{{IMG:1}}", View: View{Src: "/second.png"}},
	)
	if set.Len() != 1 {
		t.Fatalf("expected duplicate token to be dropped, got %d entries", set.Len())
	}
	if set.Entries()[0].Src != "/first.png" {
		t.Fatalf("expected first entry to be kept")
	}
}

func TestViewSources(t *testing.T) {
	gallery := View{Images: []Image{{Src: "/a.png"}, {Src: "/b.png"}}}
	if !gallery.Gallery() || len(gallery.Sources()) != 2 {
		t.Fatalf("expected gallery with two sources")
	}
	single := View{Src: "/a.png", Alt: "A"}
	if single.Gallery() {
		t.Fatalf("single image is not a gallery")
	}
	if got := single.Sources(); len(got) != 1 || got[0].Alt != "A" {
		t.Fatalf("unexpected sources %#v", got)
	}
}

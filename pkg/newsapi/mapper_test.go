package newsapi

import "testing"

func strPtr(s string) *string { return &s }

func TestToDomainCopiesFields(t *testing.T) {
	raw := Article{
		Source:      Source{ID: strPtr("bbc-news"), Name: "BBC"},
		Author:      strPtr("someone"),
		Title:       "T",
		Description: strPtr("D"),
		URL:         "https://x/1",
		URLToImage:  strPtr("https://x/1.jpg"),
		PublishedAt: "2024-01-01T00:00:00Z",
		Content:     strPtr("body"),
	}

	got := ToDomain(raw)
	if got.ID != StableID("https://x/1") {
		t.Fatalf("id = %q", got.ID)
	}
	if got.Title != "T" || got.Description != "D" || got.ImageURL != "https://x/1.jpg" {
		t.Fatalf("unexpected article %+v", got)
	}
	if got.URL != "https://x/1" || got.PublishedAt != "2024-01-01T00:00:00Z" || got.SourceName != "BBC" {
		t.Fatalf("unexpected article %+v", got)
	}
}

func TestToDomainLeavesAbsentFieldsEmpty(t *testing.T) {
	got := ToDomain(Article{Source: Source{Name: "BBC"}, Title: "T", URL: "https://x/1"})
	if got.Description != "" || got.ImageURL != "" {
		t.Fatalf("expected empty optional fields, got %+v", got)
	}
}

func TestStableIDIsPureFunctionOfURL(t *testing.T) {
	a := StableID("https://x/1")
	if a != StableID("https://x/1") {
		t.Fatalf("StableID not deterministic")
	}
	if a == StableID("https://x/2") {
		t.Fatalf("distinct urls produced the same id")
	}
	if a != "c988935235fdecd2804f8f3d1c5386f8f580ae18" {
		t.Fatalf("id changed across releases: %s", a)
	}
}

func TestToDomainListPreservesOrderAndLength(t *testing.T) {
	raw := []Article{
		{Title: "a", URL: "https://x/a"},
		{Title: "b", URL: "https://x/b"},
		{Title: "dup", URL: "https://x/a"},
	}

	got := ToDomainList(raw)
	if len(got) != len(raw) {
		t.Fatalf("length %d != %d", len(got), len(raw))
	}
	for i := range raw {
		if got[i].Title != raw[i].Title {
			t.Fatalf("order changed at %d: %q", i, got[i].Title)
		}
	}
	if got[0].ID != got[2].ID {
		t.Fatalf("same url must map to same id")
	}
}

func TestToDomainListNilInput(t *testing.T) {
	got := ToDomainList(nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

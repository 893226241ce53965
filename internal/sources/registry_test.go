package sources

import "testing"

func TestRegistry_Lookup(t *testing.T) {
	registry := NewRegistry()

	tests := []struct {
		url  string
		want float64
	}{
		{"https://www.reuters.com/fact-check/some-article", 0.95},
		{"https://apnews.com/hub/ap-fact-check", 0.94},
		{"https://www.snopes.com/fact-check/x", 0.88},
		{"https://blog.unknown-site.example/post", DefaultCredibility},
		{"not a url at all", DefaultCredibility},
		{"", DefaultCredibility},
	}

	for _, tt := range tests {
		if got := registry.Lookup(tt.url); got != tt.want {
			t.Errorf("Lookup(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestRegistry_LookupSubdomain(t *testing.T) {
	registry := NewRegistry()
	if got := registry.Lookup("https://toolbox.cdc.gov/page"); got != 0.97 {
		t.Errorf("expected subdomain to resolve to parent credibility 0.97, got %v", got)
	}
}

func TestRegistry_LookupByName(t *testing.T) {
	registry := NewRegistry()

	src, ok := registry.LookupByName("Snope")
	if ok {
		t.Errorf("partial names should not match, got %v", src)
	}

	src, ok = registry.LookupByName("snopes")
	if !ok {
		t.Fatalf("expected Snopes to be registered")
	}
	if src.CredibilityScore != 0.88 {
		t.Errorf("expected credibility 0.88, got %v", src.CredibilityScore)
	}
}

func TestRegistry_ListSorted(t *testing.T) {
	registry := NewRegistry()
	list := registry.List()

	if len(list) == 0 {
		t.Fatalf("expected built-in sources")
	}
	for i := 1; i < len(list); i++ {
		if list[i].CredibilityScore > list[i-1].CredibilityScore {
			t.Errorf("list not sorted by descending credibility at index %d", i)
		}
	}
	if list[0].Name != "National Institutes of Health" {
		t.Errorf("expected NIH first, got %s", list[0].Name)
	}
}

package sources

import (
	"net/url"
	"sort"
	"strings"
)

// DefaultCredibility is assigned to sources not present in the registry
const DefaultCredibility = 0.5

// Source describes one known fact-check or reference publisher
type Source struct {
	Name             string  `json:"name"`
	URL              string  `json:"url"`
	CredibilityScore float64 `json:"credibility_score"`
}

// Registry maps source domains to static credibility metadata.
// Read-only after construction; safe for concurrent use.
type Registry struct {
	byDomain map[string]Source
}

// NewRegistry creates a registry seeded with the built-in source table
func NewRegistry() *Registry {
	r := &Registry{byDomain: make(map[string]Source)}
	for domain, src := range builtinSources {
		r.byDomain[domain] = src
	}
	return r
}

// builtinSources is the static credibility table. Scores are source-level
// trust weights, independent of any particular claim.
var builtinSources = map[string]Source{
	"reuters.com":    {Name: "Reuters Fact Check", URL: "https://www.reuters.com/fact-check/", CredibilityScore: 0.95},
	"apnews.com":     {Name: "Associated Press Fact Check", URL: "https://apnews.com/hub/ap-fact-check", CredibilityScore: 0.94},
	"bbc.com":        {Name: "BBC", URL: "https://www.bbc.com/", CredibilityScore: 0.92},
	"npr.org":        {Name: "NPR", URL: "https://www.npr.org/", CredibilityScore: 0.91},
	"factcheck.org":  {Name: "FactCheck.org", URL: "https://www.factcheck.org/", CredibilityScore: 0.90},
	"snopes.com":     {Name: "Snopes", URL: "https://www.snopes.com/", CredibilityScore: 0.88},
	"politifact.com": {Name: "PolitiFact", URL: "https://www.politifact.com/", CredibilityScore: 0.87},
	"nih.gov":        {Name: "National Institutes of Health", URL: "https://www.nih.gov/", CredibilityScore: 0.98},
	"cdc.gov":        {Name: "Centers for Disease Control", URL: "https://www.cdc.gov/", CredibilityScore: 0.97},
	"who.int":        {Name: "World Health Organization", URL: "https://www.who.int/", CredibilityScore: 0.96},
}

// Lookup returns the credibility score for the source behind rawURL.
// Unknown or unparseable sources get DefaultCredibility.
func (r *Registry) Lookup(rawURL string) float64 {
	domain := r.normalizeDomain(rawURL)
	if domain == "" {
		return DefaultCredibility
	}
	if src, ok := r.byDomain[domain]; ok {
		return src.CredibilityScore
	}
	return DefaultCredibility
}

// LookupByName returns the source registered under the given display name
func (r *Registry) LookupByName(name string) (Source, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	for _, src := range r.byDomain {
		if strings.ToLower(src.Name) == needle {
			return src, true
		}
	}
	return Source{}, false
}

// List returns all known sources, highest credibility first
func (r *Registry) List() []Source {
	out := make([]Source, 0, len(r.byDomain))
	for _, src := range r.byDomain {
		out = append(out, src)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CredibilityScore != out[j].CredibilityScore {
			return out[i].CredibilityScore > out[j].CredibilityScore
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// normalizeDomain extracts the registrable host from a URL, without www.
func (r *Registry) normalizeDomain(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := strings.ToLower(parsed.Host)
	if host == "" {
		// Bare domains like "snopes.com" are accepted too
		host = strings.ToLower(strings.Split(rawURL, "/")[0])
	}
	host = strings.TrimPrefix(host, "www.")
	// Collapse subdomains to the parent domain when the parent is registered
	parts := strings.Split(host, ".")
	for i := 0; i < len(parts)-1; i++ {
		candidate := strings.Join(parts[i:], ".")
		if _, ok := r.byDomain[candidate]; ok {
			return candidate
		}
	}
	return host
}

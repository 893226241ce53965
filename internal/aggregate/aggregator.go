package aggregate

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/factify/factify/internal/evidence"
	"github.com/factify/factify/internal/model"
	"github.com/factify/factify/internal/sources"
)

// Aggregator fans a claim out to all configured evidence adapters and
// merges their findings into a single verdict.
type Aggregator struct {
	adapters []evidence.Adapter
	registry *sources.Registry
	timeout  time.Duration
	log      *slog.Logger
}

// New creates an aggregator. timeout bounds each individual adapter call;
// the aggregate latency is that of the slowest adapter, not the sum.
func New(adapters []evidence.Adapter, registry *sources.Registry, timeout time.Duration, log *slog.Logger) *Aggregator {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Aggregator{
		adapters: adapters,
		registry: registry,
		timeout:  timeout,
		log:      log,
	}
}

// Check queries every adapter concurrently and synthesizes one verdict.
// Individual adapter failures degrade to error findings and never abort
// the aggregate; the result is deterministic for a given set of findings.
func (a *Aggregator) Check(ctx context.Context, claim model.Claim) model.Verdict {
	start := time.Now()

	findings := a.gather(ctx, claim)
	verdict := Synthesize(findings, a.registry)

	verdict.Timestamp = time.Now().UTC()
	verdict.ProcessingTimeMS = time.Since(start).Milliseconds()
	return verdict
}

// gather runs all adapter queries concurrently with individual timeouts.
// A timeout on one call does not cancel its siblings.
func (a *Aggregator) gather(ctx context.Context, claim model.Claim) []model.Finding {
	findings := make([]model.Finding, len(a.adapters))
	var wg sync.WaitGroup

	for i, adapter := range a.adapters {
		wg.Add(1)
		go func(idx int, ad evidence.Adapter) {
			defer wg.Done()

			callCtx, cancel := context.WithTimeout(ctx, a.timeout)
			defer cancel()

			finding, err := ad.Query(callCtx, claim)
			if err != nil {
				a.log.Warn("adapter query failed",
					slog.String("adapter", ad.Name()),
					slog.Any("err", err))
				findings[idx] = model.ErrorFinding(ad.Name(), fmt.Sprintf("evidence source unavailable: %v", err))
				return
			}
			findings[idx] = finding
		}(i, adapter)
	}

	wg.Wait()
	return findings
}

// Synthesize merges findings into a verdict using confidence-weighted
// majority voting. Exported separately from Check so the voting logic
// can be exercised without live adapters.
func Synthesize(findings []model.Finding, registry *sources.Registry) model.Verdict {
	voting := make([]model.Finding, 0, len(findings))
	for _, f := range findings {
		if f.Label != model.LabelError {
			voting = append(voting, f)
		}
	}

	verdict := model.Verdict{
		Analysis: buildAnalysis(findings),
		Sources:  mergeSources(findings, registry),
	}

	if len(voting) == 0 {
		verdict.Status = model.StatusQuestionable
		verdict.ConfidenceScore = 0
		verdict.Summary = "No evidence could be retrieved for this claim. Treat it as unverified until independent sources confirm it."
		finishVerdict(&verdict)
		return verdict
	}

	supports := filterByLabel(voting, model.LabelSupports)
	refutes := filterByLabel(voting, model.LabelRefutes)
	supportWeight := totalConfidence(supports)
	refuteWeight := totalConfidence(refutes)

	switch {
	case len(supports) > 0 && len(refutes) > 0:
		verdict.Status = model.StatusMixed
		if supportWeight == refuteWeight {
			// Exact tie: neither side outweighs the other
			verdict.ConfidenceScore = meanConfidence(append(append([]model.Finding{}, supports...), refutes...))
		} else if supportWeight > refuteWeight {
			verdict.ConfidenceScore = meanConfidence(supports)
		} else {
			verdict.ConfidenceScore = meanConfidence(refutes)
		}
	case len(supports) > 0:
		verdict.Status = model.StatusVerified
		verdict.ConfidenceScore = meanConfidence(supports)
	case len(refutes) > 0:
		verdict.Status = model.StatusFalse
		verdict.ConfidenceScore = meanConfidence(refutes)
	default:
		verdict.Status = model.StatusQuestionable
		verdict.ConfidenceScore = meanConfidence(voting)
	}

	verdict.Summary = summaryFor(verdict.Status, len(voting))
	finishVerdict(&verdict)
	return verdict
}

// finishVerdict fills the status-derived template fields
func finishVerdict(v *model.Verdict) {
	v.VerdictText = verdictText[v.Status]
	v.Education = educationTips[v.Status]
}

func filterByLabel(findings []model.Finding, label model.FindingLabel) []model.Finding {
	var out []model.Finding
	for _, f := range findings {
		if f.Label == label {
			out = append(out, f)
		}
	}
	return out
}

func totalConfidence(findings []model.Finding) float64 {
	total := 0.0
	for _, f := range findings {
		total += f.Confidence
	}
	return total
}

func meanConfidence(findings []model.Finding) float64 {
	if len(findings) == 0 {
		return 0
	}
	return totalConfidence(findings) / float64(len(findings))
}

// buildAnalysis assembles the detailed analysis text, keeping the partial
// explanations of failed adapters so an all-error result still explains
// why nothing was found.
func buildAnalysis(findings []model.Finding) string {
	var parts []string
	for _, f := range findings {
		if f.Explanation == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("[%s] %s", f.AdapterID, f.Explanation))
	}
	if len(parts) == 0 {
		return "Our analysis examined this claim using multiple verification methods but found no definitive matches. We recommend verifying this information through multiple reliable sources."
	}
	return strings.Join(parts, " ")
}

// mergeSources unions all citations, annotates them with registry
// credibility, deduplicates by URL keeping the highest score, and sorts
// by descending credibility. A citation whose domain is not registered
// may still resolve through its title: claim-review publishers cite
// themselves by display name, often behind aggregator or archive URLs.
func mergeSources(findings []model.Finding, registry *sources.Registry) []model.Citation {
	byURL := make(map[string]model.Citation)
	for _, f := range findings {
		for _, c := range f.Citations {
			if c.URL == "" {
				continue
			}
			c.CredibilityScore = registry.Lookup(c.URL)
			if c.CredibilityScore == sources.DefaultCredibility {
				if src, ok := registry.LookupByName(c.Title); ok {
					c.CredibilityScore = src.CredibilityScore
				}
			}
			existing, ok := byURL[c.URL]
			if !ok || c.CredibilityScore > existing.CredibilityScore {
				byURL[c.URL] = c
			}
		}
	}

	merged := make([]model.Citation, 0, len(byURL))
	for _, c := range byURL {
		merged = append(merged, c)
	}
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].CredibilityScore != merged[j].CredibilityScore {
			return merged[i].CredibilityScore > merged[j].CredibilityScore
		}
		return merged[i].URL < merged[j].URL
	})
	return merged
}

func summaryFor(status model.VerdictStatus, votingCount int) string {
	noun := "source"
	if votingCount != 1 {
		noun = "sources"
	}
	switch status {
	case model.StatusVerified:
		return fmt.Sprintf("The available evidence from %d %s supports this claim.", votingCount, noun)
	case model.StatusFalse:
		return fmt.Sprintf("The available evidence from %d %s contradicts this claim.", votingCount, noun)
	case model.StatusMixed:
		return fmt.Sprintf("Evidence from %d %s is conflicting: parts of this claim are supported while others are contradicted.", votingCount, noun)
	default:
		return fmt.Sprintf("The %d consulted %s did not provide enough evidence to judge this claim either way.", votingCount, noun)
	}
}

// verdictText is the short badge shown by the extension widget
var verdictText = map[model.VerdictStatus]string{
	model.StatusVerified:     "✓ Verified",
	model.StatusFalse:        "❌ False",
	model.StatusMixed:        "⚠ Mixed Evidence",
	model.StatusQuestionable: "⚠ Needs Verification",
}

// educationTips are fixed per-status media-literacy hints
var educationTips = map[model.VerdictStatus]string{
	model.StatusVerified:     "When information is verified, still consider: Is the source recent? Are there multiple independent confirmations? Does the context matter?",
	model.StatusQuestionable: "Red flags to watch for: Lack of credible sources, emotional language, absolute statements, missing context, or outdated information.",
	model.StatusFalse:        "This appears to be misinformation. Always check: Original source, publication date, author credentials, and cross-reference with fact-checkers.",
	model.StatusMixed:        "Mixed evidence requires careful evaluation. Look for: Which parts are accurate, what context is missing, and whether the overall conclusion is supported.",
}

package evidence

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"

	"github.com/factify/factify/internal/model"
)

const factCheckAdapterID = "fact-check-db"

// maxQueryLen bounds the query sent to the claims:search endpoint,
// which rejects very long queries
const maxQueryLen = 500

// FactCheckAdapter queries the Google Fact Check Tools claim-review
// database and maps published ratings onto finding labels.
type FactCheckAdapter struct {
	apiKey     string
	baseURL    string
	language   string
	maxResults int
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewFactCheckAdapter creates an adapter for the claims:search API
func NewFactCheckAdapter(cfg model.FactCheckConfig, shared model.AdapterConfig) *FactCheckAdapter {
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://factchecktools.googleapis.com"
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 5
	}

	return &FactCheckAdapter{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		language:   cfg.Language,
		maxResults: maxResults,
		httpClient: &http.Client{},
		limiter:    rate.NewLimiter(rate.Limit(shared.OutboundRPS), shared.OutboundBurst),
	}
}

// Name returns the adapter identifier
func (a *FactCheckAdapter) Name() string {
	return factCheckAdapterID
}

// claimSearchResponse mirrors the claims:search payload
type claimSearchResponse struct {
	Claims []struct {
		Text        string `json:"text"`
		Claimant    string `json:"claimant"`
		ClaimReview []struct {
			Publisher struct {
				Name string `json:"name"`
				Site string `json:"site"`
			} `json:"publisher"`
			URL           string `json:"url"`
			Title         string `json:"title"`
			TextualRating string `json:"textualRating"`
		} `json:"claimReview"`
	} `json:"claims"`
}

// Query searches the claim-review database for reviews matching the claim.
// Zero matching reviews yields an insufficient finding with zero confidence.
func (a *FactCheckAdapter) Query(ctx context.Context, claim model.Claim) (model.Finding, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return model.Finding{}, fmt.Errorf("outbound limiter: %w", err)
	}

	query := claim.Text
	if len(query) > maxQueryLen {
		query = query[:maxQueryLen]
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("key", a.apiKey)
	if a.language != "" {
		params.Set("languageCode", a.language)
	}

	endpoint := a.baseURL + "/v1alpha1/claims:search?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return model.Finding{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return model.Finding{}, fmt.Errorf("claims search: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.Finding{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return model.Finding{}, fmt.Errorf("claims search returned status %d", resp.StatusCode)
	}

	var search claimSearchResponse
	if err := json.Unmarshal(body, &search); err != nil {
		return model.Finding{}, fmt.Errorf("decode response: %w", err)
	}

	return a.buildFinding(search), nil
}

// buildFinding folds the returned claim reviews into a single finding.
// The label is the rating-weight majority across reviews; confidence is
// the average weight of the reviews that carried the majority label.
func (a *FactCheckAdapter) buildFinding(search claimSearchResponse) model.Finding {
	weight := map[model.FindingLabel]float64{}
	count := map[model.FindingLabel]int{}
	var citations []model.Citation
	var ratings []string

	reviews := 0
	for _, claim := range search.Claims {
		for _, review := range claim.ClaimReview {
			if reviews >= a.maxResults {
				break
			}
			label, confidence, ok := MapRating(review.TextualRating)
			if !ok {
				continue
			}
			reviews++
			weight[label] += confidence
			count[label]++
			ratings = append(ratings, fmt.Sprintf("%s rated this %q", review.Publisher.Name, review.TextualRating))

			title := review.Title
			if title == "" {
				title = review.Publisher.Name
			}
			if review.URL != "" {
				citations = append(citations, model.Citation{Title: title, URL: review.URL})
			}
		}
	}

	if reviews == 0 {
		return model.Finding{
			AdapterID:   factCheckAdapterID,
			Label:       model.LabelInsufficient,
			Explanation: "No matching claim reviews found in fact-check databases.",
			Confidence:  0,
		}
	}

	majority := model.LabelInsufficient
	best := -1.0
	// Deterministic order so equal weights never flip between runs
	for _, label := range []model.FindingLabel{model.LabelSupports, model.LabelRefutes, model.LabelInsufficient} {
		if weight[label] > best {
			best = weight[label]
			majority = label
		}
	}

	confidence := 0.0
	if count[majority] > 0 {
		confidence = weight[majority] / float64(count[majority])
	}

	return model.Finding{
		AdapterID:   factCheckAdapterID,
		Label:       majority,
		Explanation: fmt.Sprintf("Cross-referenced %d published claim reviews. %s", reviews, strings.Join(ratings, "; ")),
		Confidence:  confidence,
		Citations:   citations,
	}
}

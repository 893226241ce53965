package evidence

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/factify/factify/internal/model"
)

const generativeAdapterID = "generative-model"

const generativeSystemPrompt = `You are a professional fact-checker with expertise in identifying misinformation, verifying claims, and assessing source credibility.

Analyze the given text and return your assessment as a JSON object with exactly these fields:
{
  "label": "supports|refutes|insufficient",
  "confidence": 0.0-1.0,
  "explanation": "detailed analysis of factual accuracy",
  "sources": [{"title": "...", "url": "https://..."}]
}

Guidelines:
- "supports": strong evidence supports the claim
- "refutes": evidence contradicts the claim
- "insufficient": not enough evidence to judge either way
- Only list sources you are confident exist. An empty list is acceptable.
- Be thorough but concise. Focus on factual accuracy, not opinions.`

// GenerativeAdapter queries a language-model completion interface for a
// structured judgment about a claim.
type GenerativeAdapter struct {
	client    *openai.Client
	model     string
	maxTokens int
	limiter   *rate.Limiter
}

// NewGenerativeAdapter creates an adapter backed by an OpenAI-compatible endpoint
func NewGenerativeAdapter(cfg model.LLMConfig, shared model.AdapterConfig) *GenerativeAdapter {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1200
	}

	return &GenerativeAdapter{
		client:    openai.NewClientWithConfig(clientConfig),
		model:     cfg.Model,
		maxTokens: maxTokens,
		limiter:   rate.NewLimiter(rate.Limit(shared.OutboundRPS), shared.OutboundBurst),
	}
}

// Name returns the adapter identifier
func (a *GenerativeAdapter) Name() string {
	return generativeAdapterID
}

// Query sends the claim to the model and parses its judgment. A response
// that is not parseable into the expected shape yields an error-labelled
// finding with the raw text preserved for diagnostics.
func (a *GenerativeAdapter) Query(ctx context.Context, claim model.Claim) (model.Finding, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return model.Finding{}, fmt.Errorf("outbound limiter: %w", err)
	}

	userContent := fmt.Sprintf("Please fact-check this text: %s", claim.Text)
	if claim.Context != "" {
		userContent += fmt.Sprintf("\n\nAdditional context: %s", claim.Context)
	}

	chatModel := a.model
	if chatModel == "" {
		chatModel = openai.GPT4oMini
	}

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: chatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: generativeSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userContent},
		},
		MaxTokens:   a.maxTokens,
		Temperature: 0.2, // Low temperature for focused, factual output
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return model.Finding{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return model.Finding{}, fmt.Errorf("empty response from model %s", chatModel)
	}

	raw := strings.TrimSpace(resp.Choices[0].Message.Content)
	return a.parseJudgment(raw), nil
}

// modelJudgment is the shape the model is instructed to return
type modelJudgment struct {
	Label       string  `json:"label"`
	Confidence  float64 `json:"confidence"`
	Explanation string  `json:"explanation"`
	Sources     []struct {
		Title string `json:"title"`
		URL   string `json:"url"`
	} `json:"sources"`
}

// parseJudgment turns the raw model output into a finding
func (a *GenerativeAdapter) parseJudgment(raw string) model.Finding {
	var judgment modelJudgment
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &judgment); err != nil {
		// Keep the raw text so operators can see what the model actually said
		return model.ErrorFinding(generativeAdapterID, raw)
	}

	label := model.FindingLabel(strings.ToLower(strings.TrimSpace(judgment.Label)))
	switch label {
	case model.LabelSupports, model.LabelRefutes, model.LabelInsufficient:
	default:
		label = model.LabelInsufficient
	}

	confidence := judgment.Confidence
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	var citations []model.Citation
	for _, src := range judgment.Sources {
		if !strings.HasPrefix(src.URL, "http") {
			continue
		}
		citations = append(citations, model.Citation{Title: src.Title, URL: src.URL})
	}

	return model.Finding{
		AdapterID:   generativeAdapterID,
		Label:       label,
		Explanation: judgment.Explanation,
		Confidence:  confidence,
		Citations:   citations,
	}
}

// stripCodeFence removes a surrounding markdown code fence, which models
// sometimes wrap JSON in despite instructions
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

package model

// Claim represents a user-submitted statement to verify
type Claim struct {
	Text      string `json:"text"`              // The claim text itself
	SourceURL string `json:"url,omitempty"`     // Page the text was selected from
	Context   string `json:"context,omitempty"` // Optional surrounding text
}

package evidence

import (
	"testing"

	"github.com/factify/factify/internal/model"
)

func TestMapRating(t *testing.T) {
	tests := []struct {
		rating    string
		wantLabel model.FindingLabel
		wantOK    bool
	}{
		{"True", model.LabelSupports, true},
		{"  true ", model.LabelSupports, true},
		{"Mostly True", model.LabelSupports, true},
		{"False", model.LabelRefutes, true},
		{"Pants on Fire", model.LabelRefutes, true},
		{"Four Pinocchios", model.LabelRefutes, true},
		{"Unproven", model.LabelInsufficient, true},
		{"Half True", model.LabelInsufficient, true},
		{"Needs Context", model.LabelInsufficient, true},
		{"Not true", model.LabelRefutes, true},
		{"Untrue", model.LabelRefutes, true},
		{"This is not correct", model.LabelRefutes, true},
		{"Inaccurate", model.LabelRefutes, true},
		{"", "", false},
		{"Totally Novel Rating", "", false},
		{"Construed", "", false},
	}

	for _, tt := range tests {
		label, confidence, ok := MapRating(tt.rating)
		if ok != tt.wantOK {
			t.Errorf("MapRating(%q) ok = %v, want %v", tt.rating, ok, tt.wantOK)
			continue
		}
		if !ok {
			continue
		}
		if label != tt.wantLabel {
			t.Errorf("MapRating(%q) label = %s, want %s", tt.rating, label, tt.wantLabel)
		}
		if confidence <= 0 || confidence > 1 {
			t.Errorf("MapRating(%q) confidence = %f, want in (0,1]", tt.rating, confidence)
		}
	}
}

func TestMapRating_SubstringPrefersLongestPhrase(t *testing.T) {
	// "rated mostly false" contains both "false" and "mostly false";
	// the longer phrase must win
	label, confidence, ok := MapRating("Rated Mostly False by our reviewers")
	if !ok {
		t.Fatalf("expected a match")
	}
	if label != model.LabelRefutes {
		t.Errorf("expected refutes, got %s", label)
	}
	if confidence != 0.7 {
		t.Errorf("expected mostly-false weight 0.7, got %f", confidence)
	}
}

func TestMapRating_NegatedRatingsRefute(t *testing.T) {
	// Negations must not inherit the polarity of the word they negate
	tests := []struct {
		rating    string
		wantLabel model.FindingLabel
	}{
		{"Not true", model.LabelRefutes},
		{"Untrue", model.LabelRefutes},
		{"This is not correct", model.LabelRefutes},
		{"Never true", model.LabelRefutes},
		{"The claim is not accurate at all", model.LabelRefutes},
		{"Not false", model.LabelSupports},
	}

	for _, tt := range tests {
		label, _, ok := MapRating(tt.rating)
		if !ok {
			t.Errorf("MapRating(%q) should match", tt.rating)
			continue
		}
		if label != tt.wantLabel {
			t.Errorf("MapRating(%q) label = %s, want %s", tt.rating, label, tt.wantLabel)
		}
	}
}

func TestMapRating_RequiresWordBoundaries(t *testing.T) {
	// "construed" contains "true" but must never match it
	for _, rating := range []string{"Construed", "Untrustworthy source"} {
		if _, _, ok := MapRating(rating); ok {
			t.Errorf("MapRating(%q) matched, want no match", rating)
		}
	}
}

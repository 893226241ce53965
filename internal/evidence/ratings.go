package evidence

import (
	"strings"

	"github.com/factify/factify/internal/model"
)

// ratingEntry maps one publisher rating phrase onto a finding label and
// the trust weight that rating carries.
type ratingEntry struct {
	Label      model.FindingLabel
	Confidence float64
}

// ratingVocabulary translates the textual ratings used by claim-review
// publishers into finding labels. Publishers use free-form vocabularies
// ("Pants on Fire", "Four Pinocchios"), so lookup is exact-match first,
// then longest whole-word phrase. Negated phrases must be listed with
// their real polarity: "not true" refutes. Extend this table to support
// new publishers; do not branch on publisher names elsewhere.
var ratingVocabulary = map[string]ratingEntry{
	// Supporting ratings
	"true":           {model.LabelSupports, 0.95},
	"correct":        {model.LabelSupports, 0.9},
	"accurate":       {model.LabelSupports, 0.9},
	"verified":       {model.LabelSupports, 0.9},
	"mostly true":    {model.LabelSupports, 0.7},
	"mostly correct": {model.LabelSupports, 0.7},

	// Refuting ratings
	"false":           {model.LabelRefutes, 0.95},
	"not true":        {model.LabelRefutes, 0.9},
	"untrue":          {model.LabelRefutes, 0.9},
	"incorrect":       {model.LabelRefutes, 0.9},
	"not correct":     {model.LabelRefutes, 0.9},
	"inaccurate":      {model.LabelRefutes, 0.9},
	"not accurate":    {model.LabelRefutes, 0.9},
	"fake":            {model.LabelRefutes, 0.9},
	"pants on fire":   {model.LabelRefutes, 0.95},
	"four pinocchios": {model.LabelRefutes, 0.9},
	"misleading":      {model.LabelRefutes, 0.7},
	"mostly false":    {model.LabelRefutes, 0.7},
	"distorts":        {model.LabelRefutes, 0.6},

	// Indeterminate ratings
	"unproven":      {model.LabelInsufficient, 0.5},
	"unverified":    {model.LabelInsufficient, 0.5},
	"mixture":       {model.LabelInsufficient, 0.5},
	"mixed":         {model.LabelInsufficient, 0.5},
	"half true":     {model.LabelInsufficient, 0.5},
	"needs context": {model.LabelInsufficient, 0.5},
	"outdated":      {model.LabelInsufficient, 0.4},
}

// negators flip the polarity of the phrase they precede: "never true"
// refutes even though "true" supports
var negators = map[string]bool{
	"not":     true,
	"no":      true,
	"never":   true,
	"isn't":   true,
	"wasn't":  true,
	"aren't":  true,
	"weren't": true,
}

// MapRating maps a publisher's textual rating onto a finding label and
// confidence. Ratings the vocabulary does not recognize are reported as
// not ok and excluded from the adapter's vote.
func MapRating(textualRating string) (model.FindingLabel, float64, bool) {
	normalized := strings.ToLower(strings.TrimSpace(textualRating))
	if normalized == "" {
		return "", 0, false
	}

	if entry, ok := ratingVocabulary[normalized]; ok {
		return entry.Label, entry.Confidence, true
	}

	// Whole-word fallback: prefer the longest matching phrase so that
	// "not true" and "mostly false" win over the bare "true"/"false"
	// they contain. Ties break lexicographically to stay deterministic.
	bestLen := 0
	bestIdx := -1
	bestPhrase := ""
	var best ratingEntry
	for phrase, entry := range ratingVocabulary {
		idx := findWholePhrase(normalized, phrase)
		if idx < 0 {
			continue
		}
		if len(phrase) > bestLen || (len(phrase) == bestLen && phrase < bestPhrase) {
			bestLen = len(phrase)
			bestIdx = idx
			bestPhrase = phrase
			best = entry
		}
	}
	if bestLen == 0 {
		return "", 0, false
	}

	// A negator directly before the matched phrase flips its polarity
	if precededByNegator(normalized[:bestIdx]) {
		best.Label = invertLabel(best.Label)
	}
	return best.Label, best.Confidence, true
}

// findWholePhrase returns the index of phrase in s when it appears on
// word boundaries, or -1. Substrings inside larger words ("true" in
// "construed") never match.
func findWholePhrase(s, phrase string) int {
	for start := 0; start <= len(s)-len(phrase); {
		i := strings.Index(s[start:], phrase)
		if i < 0 {
			return -1
		}
		i += start
		beforeOK := i == 0 || !isWordByte(s[i-1])
		afterOK := i+len(phrase) == len(s) || !isWordByte(s[i+len(phrase)])
		if beforeOK && afterOK {
			return i
		}
		start = i + 1
	}
	return -1
}

// isWordByte treats ASCII letters, digits, apostrophes and all multibyte
// characters as word content, so boundaries fall only on punctuation and
// whitespace
func isWordByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		return true
	case b == '\'' || b >= 0x80:
		return true
	}
	return false
}

// precededByNegator reports whether the last word before the matched
// phrase negates it
func precededByNegator(prefix string) bool {
	words := strings.Fields(prefix)
	if len(words) == 0 {
		return false
	}
	last := strings.Trim(words[len(words)-1], ",.;:!?\"()")
	return negators[last]
}

// invertLabel swaps evidence polarity; insufficient stays insufficient
func invertLabel(label model.FindingLabel) model.FindingLabel {
	switch label {
	case model.LabelSupports:
		return model.LabelRefutes
	case model.LabelRefutes:
		return model.LabelSupports
	}
	return label
}

package emotion

import "time"

// Labels the product's expression classifier can produce.
var Labels = []string{"happy", "sad", "angry", "surprised", "neutral", "fearful", "disgusted"}

// Sample is one timestamped classification. Samples are append-only: created
// by the sampler, never mutated, reduced into a summary at session end.
type Sample struct {
	Timestamp time.Time `json:"time"`
	Label     string    `json:"emotion"`
}

// Score pairs a label with the classifier's confidence for it.
type Score struct {
	Label      string
	Confidence float64
}

// Scores is a classifier result in the order the classifier produced it.
// Order matters: Dominant breaks confidence ties in favor of the
// first-occurring label.
type Scores []Score

// Dominant returns the label with the highest confidence, or false for an
// empty result.
func (s Scores) Dominant() (string, bool) {
	if len(s) == 0 {
		return "", false
	}
	best := s[0]
	for _, candidate := range s[1:] {
		if candidate.Confidence > best.Confidence {
			best = candidate
		}
	}
	return best.Label, true
}

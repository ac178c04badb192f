package report

import (
	"time"

	"github.com/akward-edu/story-player/internal/model/emotion"
)

// Report is the end-of-session aggregate handed to the UI and, optionally,
// the progress service.
type Report struct {
	SessionID     string         `json:"sessionId"`
	StoryID       string         `json:"storyId"`
	Emotions      map[string]int `json:"emotions"`
	SampleCount   int            `json:"sampleCount"`
	UnsafeChoices int            `json:"unsafeChoices"`
	AlertRaised   bool           `json:"alertRaised"`
	CompletedAt   time.Time      `json:"completedAt"`
}

// Summarize reduces the emotion log into occurrence counts per label. Every
// sample weighs the same regardless of age. An empty log yields an empty,
// non-nil map.
func Summarize(samples []emotion.Sample) map[string]int {
	counts := make(map[string]int, len(samples))
	for _, sample := range samples {
		counts[sample.Label]++
	}
	return counts
}

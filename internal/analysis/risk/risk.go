package risk

import (
	"strings"
	"sync"
)

// DefaultKeywords flag the choices the curriculum treats as unsafe. Matched
// case-insensitively as substrings of the option text.
var DefaultKeywords = []string{
	"stay silent",
	"keep it secret",
	"don't resist",
	"go with",
}

// DefaultThreshold is the unsafe-choice count at which the alert fires.
const DefaultThreshold = 2

// Unsafe reports whether the option text matches any of the keywords.
func Unsafe(text string, keywords []string) bool {
	normalized := strings.ToLower(text)
	for _, keyword := range keywords {
		if keyword == "" {
			continue
		}
		if strings.Contains(normalized, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}

// Tracker counts unsafe choices within one session and raises a one-shot
// alert when the count reaches the threshold. The alert is a monotonic latch:
// further unsafe choices keep counting but never re-fire it.
type Tracker struct {
	mu        sync.Mutex
	keywords  []string
	threshold int
	count     int
	alerted   bool
	onAlert   func(count int)
}

// NewTracker builds a per-session tracker. onAlert may be nil. Empty keywords
// or a non-positive threshold fall back to the defaults.
func NewTracker(keywords []string, threshold int, onAlert func(count int)) *Tracker {
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Tracker{
		keywords:  append([]string(nil), keywords...),
		threshold: threshold,
		onAlert:   onAlert,
	}
}

// RecordChoice classifies the option text as displayed at selection time and
// updates the count. Returns whether the choice was unsafe.
func (t *Tracker) RecordChoice(text string) bool {
	if !Unsafe(text, t.keywords) {
		return false
	}

	t.mu.Lock()
	t.count++
	fire := !t.alerted && t.count >= t.threshold
	if fire {
		t.alerted = true
	}
	count := t.count
	onAlert := t.onAlert
	t.mu.Unlock()

	if fire && onAlert != nil {
		onAlert(count)
	}
	return true
}

// UnsafeCount returns the number of unsafe choices recorded so far.
func (t *Tracker) UnsafeCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.count
}

// Alerted reports whether the alert latch has fired.
func (t *Tracker) Alerted() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.alerted
}

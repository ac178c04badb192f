package report

import (
	"testing"
	"time"

	"github.com/akward-edu/story-player/internal/model/emotion"
)

func TestSummarizeEmptyLog(t *testing.T) {
	counts := Summarize(nil)
	if counts == nil {
		t.Fatal("expected non-nil map")
	}
	if len(counts) != 0 {
		t.Fatalf("expected empty summary, got %v", counts)
	}
}

func TestSummarizeCountsByLabel(t *testing.T) {
	now := time.Now()
	samples := []emotion.Sample{
		{Timestamp: now, Label: "happy"},
		{Timestamp: now.Add(3 * time.Second), Label: "happy"},
		{Timestamp: now.Add(6 * time.Second), Label: "sad"},
	}

	counts := Summarize(samples)
	if counts["happy"] != 2 || counts["sad"] != 1 {
		t.Fatalf("expected happy=2 sad=1, got %v", counts)
	}
	if len(counts) != 2 {
		t.Fatalf("unexpected labels in summary: %v", counts)
	}
}

package report

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/akward-edu/story-player/internal/config"
)

func TestSubmitterPostsReport(t *testing.T) {
	received := make(chan Report, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var rep Report
		if err := json.NewDecoder(r.Body).Decode(&rep); err != nil {
			t.Errorf("bad payload: %v", err)
		}
		received <- rep
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	sub := NewSubmitter(config.ProgressConfig{URL: srv.URL, Timeout: 2 * time.Second}, zap.NewNop())
	if sub == nil {
		t.Fatal("expected submitter")
	}

	sub.Submit(context.Background(), Report{
		SessionID: "s1",
		StoryID:   "stranger-candy",
		Emotions:  map[string]int{"happy": 2},
	})

	select {
	case rep := <-received:
		if rep.StoryID != "stranger-candy" || rep.Emotions["happy"] != 2 {
			t.Fatalf("unexpected report %+v", rep)
		}
	case <-time.After(time.Second):
		t.Fatal("progress service never received the report")
	}
}

func TestSubmitterFailureDoesNotPanic(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	sub := NewSubmitter(config.ProgressConfig{URL: srv.URL, Timeout: 2 * time.Second}, zap.NewNop())
	// Logged only; no retry, no error surfaced.
	sub.Submit(context.Background(), Report{SessionID: "s1"})
}

func TestNewSubmitterWithoutEndpoint(t *testing.T) {
	if sub := NewSubmitter(config.ProgressConfig{}, zap.NewNop()); sub != nil {
		t.Fatal("expected nil submitter without endpoint")
	}
}

package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/akward-edu/story-player/internal/config"
	"github.com/akward-edu/story-player/internal/metrics"
)

// Submitter posts completed-session reports to the external progress service.
// Submission is fire-and-forget from the player's perspective: failures are
// logged, never retried, and never block session completion.
type Submitter struct {
	endpoint string
	client   *http.Client
	log      *zap.Logger
}

// NewSubmitter builds a submitter, or nil when no endpoint is configured.
func NewSubmitter(cfg config.ProgressConfig, log *zap.Logger) *Submitter {
	if cfg.URL == "" {
		return nil
	}
	return &Submitter{
		endpoint: cfg.URL,
		client:   &http.Client{Timeout: cfg.Timeout},
		log:      log,
	}
}

// Submit posts one report. Callers run it in its own goroutine.
func (s *Submitter) Submit(ctx context.Context, rep Report) {
	if err := s.post(ctx, rep); err != nil {
		metrics.ReportSubmissionsTotal.WithLabelValues("error").Inc()
		s.log.Warn("progress submission failed",
			zap.String("session_id", rep.SessionID),
			zap.Error(err))
		return
	}
	metrics.ReportSubmissionsTotal.WithLabelValues("ok").Inc()
	s.log.Info("progress submitted",
		zap.String("session_id", rep.SessionID),
		zap.String("story_id", rep.StoryID))
}

func (s *Submitter) post(ctx context.Context, rep Report) error {
	payload, err := json.Marshal(rep)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("progress service returned %d", resp.StatusCode)
	}
	return nil
}

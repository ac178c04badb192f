package sampler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/akward-edu/story-player/internal/metrics"
	"github.com/akward-edu/story-player/internal/model/emotion"
)

// DefaultInterval matches the product's sampling cadence.
const DefaultInterval = 3 * time.Second

// Classifier turns a video frame into per-label confidence scores. It is an
// external capability and may fail on any call; a failed call only costs one
// sample.
type Classifier interface {
	Classify(ctx context.Context, frame []byte) (emotion.Scores, error)
}

// Sampler owns a session's sampling loop: every interval it takes the latest
// frame from the source, classifies it, and appends the dominant label to the
// session log. One Sampler per session; the log has a single writer and is
// read after Stop.
type Sampler struct {
	interval   time.Duration
	source     FrameSource
	classifier Classifier
	log        *zap.Logger

	mu      sync.Mutex
	samples []emotion.Sample
	cancel  context.CancelFunc
	done    chan struct{}
}

// New builds a sampler over the given source and classifier.
func New(source FrameSource, classifier Classifier, interval time.Duration, log *zap.Logger) *Sampler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Sampler{
		interval:   interval,
		source:     source,
		classifier: classifier,
		log:        log,
	}
}

// Start launches the sampling loop. Calling Start while running is a no-op,
// as is starting a sampler that has no classifier to feed.
func (s *Sampler) Start() {
	if s.classifier == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.run(ctx, s.done)
}

func (s *Sampler) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sample(ctx)
		}
	}
}

func (s *Sampler) sample(ctx context.Context) {
	frame, ok := s.source.Frame()
	if !ok {
		// No frame yet: a missed sample, not an error.
		return
	}

	scores, err := s.classifier.Classify(ctx, frame)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		metrics.ClassifierFailuresTotal.Inc()
		s.log.Debug("frame classification failed, skipping sample", zap.Error(err))
		return
	}

	label, ok := scores.Dominant()
	if !ok {
		return
	}

	s.mu.Lock()
	s.samples = append(s.samples, emotion.Sample{Timestamp: time.Now().UTC(), Label: label})
	s.mu.Unlock()
	metrics.EmotionSamplesTotal.Inc()
}

// Stop cancels the loop and releases the frame source. Safe to call multiple
// times and before Start.
func (s *Sampler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	done := s.done
	s.cancel = nil
	s.done = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
	_ = s.source.Close()
}

// Samples returns a copy of the log accumulated so far.
func (s *Sampler) Samples() []emotion.Sample {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make([]emotion.Sample, len(s.samples))
	copy(copied, s.samples)
	return copied
}

package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/akward-edu/story-player/internal/analysis/risk"
	"github.com/akward-edu/story-player/internal/config"
	"github.com/akward-edu/story-player/internal/metrics"
	"github.com/akward-edu/story-player/internal/model/story"
	"github.com/akward-edu/story-player/internal/service/report"
	"github.com/akward-edu/story-player/internal/service/sampler"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionActive   = errors.New("session not completed yet")
	ErrStoryIDRequired = errors.New("story id is required")
)

// StoryProvider resolves validated stories for new sessions.
type StoryProvider interface {
	Get(ctx context.Context, id string) (*story.Story, error)
}

// Snapshot is the session view returned to handlers after every operation.
type Snapshot struct {
	ID            string      `json:"id"`
	StoryID       string      `json:"storyId"`
	State         State       `json:"state"`
	SceneIndex    int         `json:"sceneIndex"`
	SceneCount    int         `json:"sceneCount"`
	Scene         story.Scene `json:"scene"`
	UnsafeChoices int         `json:"unsafeChoices"`
	AlertRaised   bool        `json:"alertRaised"`
	SampleCount   int         `json:"sampleCount"`
	CreatedAt     time.Time   `json:"createdAt"`
}

// playSession bundles everything one session exclusively owns: the state
// machine, the risk tracker, the frame buffer, and the sampling loop. Two
// sessions never share any of it.
type playSession struct {
	mu        sync.Mutex
	id        string
	story     *story.Story
	ctrl      *Controller
	tracker   *risk.Tracker
	frames    *sampler.FrameBuffer
	sampler   *sampler.Sampler
	report    *report.Report
	createdAt time.Time
}

// Service is the in-memory session registry and the single entry point for
// driving sessions. Scene transitions are serialized per session; the sampler
// runs independently in the background.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]*playSession

	stories    StoryProvider
	classifier sampler.Classifier
	submitter  *report.Submitter
	interval   time.Duration
	riskCfg    config.RiskConfig
	log        *zap.Logger
}

// NewService wires the session service. classifier and submitter may be nil;
// sessions then run without emotion data or without progress submission.
func NewService(stories StoryProvider, classifier sampler.Classifier, submitter *report.Submitter,
	samplerCfg config.SamplerConfig, riskCfg config.RiskConfig, log *zap.Logger) *Service {
	return &Service{
		sessions:   make(map[string]*playSession),
		stories:    stories,
		classifier: classifier,
		submitter:  submitter,
		interval:   samplerCfg.Interval,
		riskCfg:    riskCfg,
		log:        log,
	}
}

// Create starts a session on the given story: validates it, positions the
// machine on scene 0, and starts the sampling loop. A story whose first scene
// is already terminal yields a completed session right away.
func (s *Service) Create(ctx context.Context, storyID string) (Snapshot, error) {
	if storyID == "" {
		return Snapshot{}, ErrStoryIDRequired
	}

	st, err := s.stories.Get(ctx, storyID)
	if err != nil {
		return Snapshot{}, err
	}

	id := uuid.NewString()
	tracker := risk.NewTracker(s.riskCfg.Keywords, s.riskCfg.Threshold, func(count int) {
		metrics.RiskAlertsTotal.Inc()
		s.log.Warn("unsafe-choice alert raised",
			zap.String("session_id", id),
			zap.Int("unsafe_choices", count))
	})

	ctrl, err := NewController(st, func(opt story.Option) {
		if tracker.RecordChoice(opt.Text) {
			metrics.UnsafeChoicesTotal.Inc()
		}
	})
	if err != nil {
		return Snapshot{}, err
	}

	frames := sampler.NewFrameBuffer()
	sess := &playSession{
		id:        id,
		story:     st,
		ctrl:      ctrl,
		tracker:   tracker,
		frames:    frames,
		sampler:   sampler.New(frames, s.classifier, s.interval, s.log),
		createdAt: time.Now().UTC(),
	}

	sess.mu.Lock()
	if s.classifier == nil {
		// Degraded mode: navigation works, the emotion log stays empty.
		s.log.Warn("classifier unavailable, session runs without emotion data",
			zap.String("session_id", id))
	}
	sess.sampler.Start()
	if ctrl.State() == StateCompleted {
		s.finishLocked(sess)
	}
	snapshot := s.snapshotLocked(sess)
	sess.mu.Unlock()

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	metrics.SessionsStartedTotal.Inc()
	s.log.Info("session started",
		zap.String("session_id", id),
		zap.String("story_id", st.ID))
	return snapshot, nil
}

// Get returns the current snapshot.
func (s *Service) Get(_ context.Context, id string) (Snapshot, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return Snapshot{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.snapshotLocked(sess), nil
}

// Choose routes one option selection through the risk tracker and the state
// machine. A stale or out-of-range index is ignored and the unchanged
// snapshot returned; an out-of-range target is rejected with a
// NavigationError and the session stays put.
func (s *Service) Choose(_ context.Context, id string, optionIndex int) (Snapshot, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return Snapshot{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	switch err := sess.ctrl.SelectOption(optionIndex); {
	case errors.Is(err, ErrInvalidChoice):
		// UI race, not a failure: ignore the click.
		s.log.Debug("stale choice ignored",
			zap.String("session_id", id),
			zap.Int("option_index", optionIndex))
	case err != nil:
		s.log.Error("navigation rejected, story data corrupt",
			zap.String("session_id", id),
			zap.String("story_id", sess.story.ID),
			zap.Error(err))
		return Snapshot{}, err
	default:
		if sess.ctrl.State() == StateCompleted {
			s.finishLocked(sess)
		}
	}

	return s.snapshotLocked(sess), nil
}

// Complete finishes the session explicitly (finish screen, back button).
// Idempotent.
func (s *Service) Complete(_ context.Context, id string) (Snapshot, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return Snapshot{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.ctrl.Complete()
	s.finishLocked(sess)
	return s.snapshotLocked(sess), nil
}

// Report returns the aggregate for a completed session.
func (s *Service) Report(_ context.Context, id string) (report.Report, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return report.Report{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.report == nil {
		return report.Report{}, ErrSessionActive
	}
	return *sess.report, nil
}

// AttachFrames hands out the session's frame buffer for the websocket ingest.
func (s *Service) AttachFrames(id string) (*sampler.FrameBuffer, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return sess.frames, nil
}

// Destroy tears the session down on navigation-away: stops the sampler,
// releases the frame buffer, and drops the session. Safe on completed and
// never-started sessions alike.
func (s *Service) Destroy(id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	sess.sampler.Stop()
	s.log.Info("session destroyed", zap.String("session_id", id))
	return nil
}

// Shutdown stops every live sampler. Used on process exit.
func (s *Service) Shutdown() {
	s.mu.Lock()
	sessions := make([]*playSession, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.sessions = make(map[string]*playSession)
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.sampler.Stop()
	}
}

func (s *Service) lookup(id string) (*playSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// finishLocked stops the sampler, reduces the emotion log, and kicks off the
// fire-and-forget progress submission. Requires sess.mu. Idempotent.
func (s *Service) finishLocked(sess *playSession) {
	if sess.report != nil {
		return
	}
	sess.ctrl.Complete()
	sess.sampler.Stop()

	samples := sess.sampler.Samples()
	rep := report.Report{
		SessionID:     sess.id,
		StoryID:       sess.story.ID,
		Emotions:      report.Summarize(samples),
		SampleCount:   len(samples),
		UnsafeChoices: sess.tracker.UnsafeCount(),
		AlertRaised:   sess.tracker.Alerted(),
		CompletedAt:   time.Now().UTC(),
	}
	sess.report = &rep

	metrics.SessionsCompletedTotal.Inc()
	s.log.Info("session completed",
		zap.String("session_id", sess.id),
		zap.String("story_id", sess.story.ID),
		zap.Int("samples", rep.SampleCount),
		zap.Int("unsafe_choices", rep.UnsafeChoices))

	if s.submitter != nil {
		go s.submitter.Submit(context.Background(), rep)
	}
}

func (s *Service) snapshotLocked(sess *playSession) Snapshot {
	return Snapshot{
		ID:            sess.id,
		StoryID:       sess.story.ID,
		State:         sess.ctrl.State(),
		SceneIndex:    sess.ctrl.SceneIndex(),
		SceneCount:    len(sess.story.Scenes),
		Scene:         sess.ctrl.Scene(),
		UnsafeChoices: sess.tracker.UnsafeCount(),
		AlertRaised:   sess.tracker.Alerted(),
		SampleCount:   len(sess.sampler.Samples()),
		CreatedAt:     sess.createdAt,
	}
}

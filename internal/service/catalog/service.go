package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"go.uber.org/zap"

	"github.com/akward-edu/story-player/internal/config"
	"github.com/akward-edu/story-player/internal/model/story"
)

var (
	ErrStoryNotFound = errors.New("story not found")
	// ErrStoryLoad wraps malformed or unreachable upstream payloads. The
	// player never starts a session on a story that failed validation,
	// because a corrupt graph would silently mis-navigate the user.
	ErrStoryLoad = errors.New("story load failed")
)

// Service resolves stories for the player: a built-in seed library, plus an
// optional upstream content service whose responses are validated and cached.
// Stories are immutable once loaded and shared read-only across sessions.
type Service struct {
	store    story.Store
	upstream string
	client   *http.Client
	log      *zap.Logger

	mu    sync.RWMutex
	cache map[string]*story.Story
}

// NewService builds the catalog. An empty upstream URL serves seeds only.
func NewService(cfg config.StoriesConfig, store story.Store, log *zap.Logger) *Service {
	return &Service{
		store:    store,
		upstream: cfg.UpstreamURL,
		client:   &http.Client{Timeout: cfg.Timeout},
		log:      log,
		cache:    make(map[string]*story.Story),
	}
}

// List returns the locally known stories.
func (s *Service) List(_ context.Context) []story.Story {
	return s.store.List()
}

// Get resolves a story by id: cache, then upstream (when configured), then
// the seed library. The returned story always passed Validate.
func (s *Service) Get(ctx context.Context, id string) (*story.Story, error) {
	s.mu.RLock()
	cached, ok := s.cache[id]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	if s.upstream != "" {
		st, err := s.fetch(ctx, id)
		if err == nil {
			s.mu.Lock()
			s.cache[id] = st
			s.mu.Unlock()
			return st, nil
		}
		if !errors.Is(err, ErrStoryNotFound) {
			return nil, err
		}
		s.log.Debug("story not found upstream, trying seeds", zap.String("story_id", id))
	}

	seeded, ok := s.store.FindByID(id)
	if !ok {
		return nil, ErrStoryNotFound
	}
	if err := seeded.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoryLoad, err)
	}
	return &seeded, nil
}

func (s *Service) fetch(ctx context.Context, id string) (*story.Story, error) {
	endpoint := fmt.Sprintf("%s/stories/%s", s.upstream, url.PathEscape(id))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoryLoad, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoryLoad, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrStoryNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: upstream returned %d", ErrStoryLoad, resp.StatusCode)
	}

	var st story.Story
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoryLoad, err)
	}
	if st.ID == "" {
		st.ID = id
	}
	if err := st.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoryLoad, err)
	}

	s.log.Info("story loaded from upstream",
		zap.String("story_id", st.ID),
		zap.Int("scenes", len(st.Scenes)))
	return &st, nil
}

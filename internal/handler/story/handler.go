package story

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/akward-edu/story-player/internal/service/catalog"
	"github.com/akward-edu/story-player/pkg/utils"
)

// Handler serves the story catalog.
type Handler struct {
	catalog *catalog.Service
}

// New creates the story handler.
func New(catalogSvc *catalog.Service) *Handler {
	return &Handler{catalog: catalogSvc}
}

// RegisterRoutes mounts the story routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/stories", h.handleList)
	r.Get("/stories/{storyID}", h.handleGet)
}

type storySummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	SceneCount  int    `json:"sceneCount"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	stories := h.catalog.List(r.Context())
	summaries := make([]storySummary, 0, len(stories))
	for _, st := range stories {
		summaries = append(summaries, storySummary{
			ID:          st.ID,
			Title:       st.Title,
			Description: st.Description,
			SceneCount:  len(st.Scenes),
		})
	}
	utils.RespondJSON(w, http.StatusOK, summaries)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "storyID")

	st, err := h.catalog.Get(r.Context(), id)
	switch {
	case errors.Is(err, catalog.ErrStoryNotFound):
		utils.RespondError(w, http.StatusNotFound, "story not found")
		return
	case err != nil:
		utils.RespondError(w, http.StatusBadGateway, "failed to load story")
		return
	}

	utils.RespondJSON(w, http.StatusOK, st)
}

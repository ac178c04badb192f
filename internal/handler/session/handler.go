package session

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/akward-edu/story-player/internal/service/catalog"
	sessionservice "github.com/akward-edu/story-player/internal/service/session"
	"github.com/akward-edu/story-player/pkg/utils"
)

// Handler exposes the session lifecycle over HTTP.
type Handler struct {
	svc *sessionservice.Service
	log *zap.Logger
}

// New creates the session handler.
func New(svc *sessionservice.Service, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// RegisterRoutes mounts the session routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/sessions", h.handleCreate)
	r.Get("/sessions/{sessionID}", h.handleGet)
	r.Post("/sessions/{sessionID}/choice", h.handleChoice)
	r.Post("/sessions/{sessionID}/complete", h.handleComplete)
	r.Get("/sessions/{sessionID}/report", h.handleReport)
	r.Delete("/sessions/{sessionID}", h.handleDestroy)
	r.Get("/sessions/{sessionID}/events", h.handleEvents)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		StoryID string `json:"storyId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	snapshot, err := h.svc.Create(r.Context(), payload.StoryID)
	switch {
	case errors.Is(err, sessionservice.ErrStoryIDRequired):
		utils.RespondError(w, http.StatusBadRequest, "storyId is required")
		return
	case errors.Is(err, catalog.ErrStoryNotFound):
		utils.RespondError(w, http.StatusNotFound, "story not found")
		return
	case err != nil:
		utils.RespondError(w, http.StatusBadGateway, "failed to load story")
		return
	}

	utils.RespondJSON(w, http.StatusCreated, snapshot)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.svc.Get(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, snapshot)
}

func (h *Handler) handleChoice(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		OptionIndex *int `json:"optionIndex"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.OptionIndex == nil {
		utils.RespondError(w, http.StatusBadRequest, "optionIndex is required")
		return
	}

	snapshot, err := h.svc.Choose(r.Context(), chi.URLParam(r, "sessionID"), *payload.OptionIndex)
	var navErr *sessionservice.NavigationError
	switch {
	case errors.Is(err, sessionservice.ErrSessionNotFound):
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	case errors.As(err, &navErr):
		// Corrupt story data; the session stays on the current scene.
		utils.RespondError(w, http.StatusUnprocessableEntity, "invalid story path")
		return
	case err != nil:
		utils.RespondError(w, http.StatusInternalServerError, "choice failed")
		return
	}

	utils.RespondJSON(w, http.StatusOK, snapshot)
}

func (h *Handler) handleComplete(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.svc.Complete(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, snapshot)
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	rep, err := h.svc.Report(r.Context(), chi.URLParam(r, "sessionID"))
	switch {
	case errors.Is(err, sessionservice.ErrSessionActive):
		utils.RespondError(w, http.StatusConflict, "session not completed yet")
		return
	case err != nil:
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, rep)
}

func (h *Handler) handleDestroy(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Destroy(chi.URLParam(r, "sessionID")); err != nil {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleEvents streams session snapshots over SSE so the UI can surface the
// alert latch and completion without polling.
func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	snapshot, err := h.svc.Get(r.Context(), sessionID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}

	utils.SetupSSEHeaders(w)
	utils.SendSSEEvent(w, flusher, "snapshot", snapshot)

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			snapshot, err := h.svc.Get(ctx, sessionID)
			if err != nil {
				// Session destroyed while streaming.
				return
			}
			utils.SendSSEEvent(w, flusher, "snapshot", snapshot)
			if snapshot.State == sessionservice.StateCompleted {
				if rep, err := h.svc.Report(ctx, sessionID); err == nil {
					utils.SendSSEEvent(w, flusher, "completed", rep)
				}
				return
			}
		}
	}
}

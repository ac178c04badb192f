package frames

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	sessionservice "github.com/akward-edu/story-player/internal/service/session"
	"github.com/akward-edu/story-player/pkg/utils"
)

// Handler ingests video frames over a websocket and feeds them into the
// session's frame buffer. The sampler reads whatever frame is newest; the
// connection never drives the story.
type Handler struct {
	svc      *sessionservice.Service
	log      *zap.Logger
	upgrader websocket.Upgrader
}

// New creates the frame ingest handler.
func New(svc *sessionservice.Service, log *zap.Logger) *Handler {
	return &Handler{
		svc: svc,
		log: log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 4 * 1024,
		},
	}
}

// RegisterRoutes mounts the websocket route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/sessions/{sessionID}/frames", h.handleFrames)
}

type inboundMessage struct {
	Type string `json:"type"`
	Data string `json:"data"` // base64-encoded frame for "frame" messages
}

type outgoingMessage struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

func (h *Handler) handleFrames(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	buffer, err := h.svc.AttachFrames(sessionID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed",
			zap.String("session_id", sessionID),
			zap.Error(err))
		return
	}
	defer conn.Close()

	ready := outgoingMessage{Type: "ready", SessionID: sessionID, Timestamp: time.Now().UnixMilli()}
	if err := conn.WriteJSON(ready); err != nil {
		return
	}

	h.log.Info("frame feed connected", zap.String("session_id", sessionID))
	defer h.log.Info("frame feed closed", zap.String("session_id", sessionID))

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Debug("frame feed read error",
					zap.String("session_id", sessionID),
					zap.Error(err))
			}
			return
		}

		switch messageType {
		case websocket.BinaryMessage:
			buffer.Put(data)
		case websocket.TextMessage:
			var msg inboundMessage
			if err := json.Unmarshal(data, &msg); err != nil {
				continue
			}
			if msg.Type != "frame" || msg.Data == "" {
				continue
			}
			frame, err := base64.StdEncoding.DecodeString(msg.Data)
			if err != nil {
				continue
			}
			buffer.Put(frame)
		}
	}
}

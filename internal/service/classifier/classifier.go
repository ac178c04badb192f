package classifier

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/akward-edu/story-player/internal/config"
	"github.com/akward-edu/story-player/internal/model/emotion"
)

const systemPrompt = "You are a facial expression classifier. You are shown a single video frame " +
	"of a person's face. Respond with only a JSON object mapping each of these labels to a " +
	"confidence between 0 and 1: happy, sad, angry, surprised, neutral, fearful, disgusted. " +
	"No other text."

// Service classifies video frames into emotion scores through an Ark chat
// model. The model is an opaque capability: the service only shapes the
// request and parses the JSON object out of the reply.
type Service struct {
	chatModel model.ChatModel
}

// NewService creates the classifier, or (nil, nil) when the model credentials
// are not configured; sessions then run without emotion data.
func NewService(ctx context.Context, cfg config.AIConfig) (*Service, error) {
	if !cfg.Enabled() {
		return nil, nil
	}

	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("create classifier model: %w", err)
	}

	return &Service{chatModel: chatModel}, nil
}

// Classify submits one frame and returns the scores in the order the model
// produced them, so confidence ties resolve to the first-listed label.
func (s *Service) Classify(ctx context.Context, frame []byte) (emotion.Scores, error) {
	dataURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(frame)

	messages := []*schema.Message{
		schema.SystemMessage(systemPrompt),
		{
			Role: schema.User,
			MultiContent: []schema.ChatMessagePart{
				{
					Type:     schema.ChatMessagePartTypeImageURL,
					ImageURL: &schema.ChatMessageImageURL{URL: dataURL},
				},
			},
		},
	}

	reply, err := s.chatModel.Generate(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("classifier invoke: %w", err)
	}
	if reply == nil || strings.TrimSpace(reply.Content) == "" {
		return nil, fmt.Errorf("classifier returned empty reply")
	}

	scores, err := parseScores(reply.Content)
	if err != nil {
		return nil, fmt.Errorf("classifier output: %w", err)
	}
	return scores, nil
}

// parseScores extracts the JSON object from the reply and decodes it
// preserving key order, which a plain map unmarshal would lose.
func parseScores(content string) (emotion.Scores, error) {
	trimmed := strings.TrimSpace(content)
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("missing json object")
	}

	dec := json.NewDecoder(strings.NewReader(trimmed[start : end+1]))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}

	var scores emotion.Scores
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected string key, got %v", keyTok)
		}

		valTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		confidence, ok := valTok.(float64)
		if !ok {
			return nil, fmt.Errorf("label %q: expected number, got %v", key, valTok)
		}

		scores = append(scores, emotion.Score{Label: key, Confidence: confidence})
	}

	if len(scores) == 0 {
		return nil, fmt.Errorf("empty score object")
	}
	return scores, nil
}

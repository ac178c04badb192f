package story

import (
	"errors"
	"fmt"
	"strings"
)

// End is the sentinel target an option may use instead of a scene index to
// finish the story.
const End = -1

// EndingKeyword marks an option as story-ending by its visible text alone,
// regardless of its target. Matched case-insensitively as a substring.
const EndingKeyword = "end"

var ErrNoScenes = errors.New("story has no scenes")

// Story is the immutable branching-story graph. Scenes reference each other
// by index; the graph is shared read-only across sessions once loaded.
type Story struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Scenes      []Scene `json:"scenes"`
}

// Scene is one node of the graph. A scene with no options is terminal.
type Scene struct {
	Title   string   `json:"title"`
	Image   string   `json:"image,omitempty"`
	Options []Option `json:"options"`
}

// Option is a labeled edge to another scene index or the End sentinel.
type Option struct {
	Text string `json:"text"`
	To   int    `json:"to"`
}

// Ending reports whether selecting this option finishes the story: either the
// target is the End sentinel or the label contains the ending keyword. Both
// heuristics coexist in the product, so either one suffices.
func (o Option) Ending() bool {
	return o.To == End || strings.Contains(strings.ToLower(o.Text), EndingKeyword)
}

// Terminal reports whether the scene offers no further choices.
func (s Scene) Terminal() bool {
	return len(s.Options) == 0
}

// Validate checks the structural invariants the player relies on: at least
// one scene, and every option target resolvable: a valid scene index, the
// End sentinel, or an option that ends the story by text.
func (s *Story) Validate() error {
	if len(s.Scenes) == 0 {
		return ErrNoScenes
	}
	for i, scene := range s.Scenes {
		for j, opt := range scene.Options {
			if opt.Ending() {
				continue
			}
			if opt.To < 0 || opt.To >= len(s.Scenes) {
				return fmt.Errorf("scene %d option %d: target %d out of range [0,%d)", i, j, opt.To, len(s.Scenes))
			}
		}
	}
	return nil
}

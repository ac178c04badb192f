package session

import (
	"errors"
	"fmt"

	"github.com/akward-edu/story-player/internal/model/story"
)

// State of the traversal. Loading happens in the catalog before a controller
// exists, so the machine itself only moves Playing -> Completed.
type State string

const (
	StatePlaying   State = "playing"
	StateCompleted State = "completed"
)

// ErrInvalidChoice marks a stale or out-of-range option selection, e.g. a
// double click racing a scene transition. Callers ignore it: the session is
// unchanged and the user never sees an error.
var ErrInvalidChoice = errors.New("invalid choice")

// NavigationError is fatal: an option resolved to a scene index outside the
// graph and the story data is corrupt. The transition is rejected and the
// session stays on the current scene.
type NavigationError struct {
	Target     int
	SceneCount int
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("option target %d outside scene range [0,%d)", e.Target, e.SceneCount)
}

// Choice records one applied selection.
type Choice struct {
	SceneIndex  int
	OptionIndex int
	Option      story.Option
}

// Controller is the traversal state machine for one session. It owns the
// current-scene pointer, the choice history, and the termination state. Not
// safe for concurrent use; the owning session serializes calls.
type Controller struct {
	story      *story.Story
	state      State
	sceneIndex int
	history    []Choice
	onChoice   func(story.Option)
}

// NewController validates the story and positions the machine on scene 0.
// A story whose first scene is already terminal completes immediately.
// onChoice, if set, observes every resolved option before the transition is
// applied.
func NewController(st *story.Story, onChoice func(story.Option)) (*Controller, error) {
	if err := st.Validate(); err != nil {
		return nil, err
	}

	c := &Controller{story: st, state: StatePlaying, onChoice: onChoice}
	if st.Scenes[0].Terminal() {
		c.state = StateCompleted
	}
	return c, nil
}

// SelectOption applies one choice from the scene currently shown.
//
// Resolution order matches the product: the option is risk-classified as
// displayed (via onChoice) before anything else, then an ending option (text
// contains "end", or the End sentinel target) completes the session even if
// the target index would be invalid, then the target is bounds-checked and an
// out-of-range target rejects the transition. A destination with no options
// auto-completes so dead-end scenes never wait for a phantom click.
func (c *Controller) SelectOption(optionIndex int) error {
	if c.state != StatePlaying {
		return ErrInvalidChoice
	}

	scene := c.story.Scenes[c.sceneIndex]
	if optionIndex < 0 || optionIndex >= len(scene.Options) {
		return ErrInvalidChoice
	}

	opt := scene.Options[optionIndex]
	if c.onChoice != nil {
		c.onChoice(opt)
	}
	c.history = append(c.history, Choice{SceneIndex: c.sceneIndex, OptionIndex: optionIndex, Option: opt})

	if opt.Ending() {
		c.state = StateCompleted
		return nil
	}

	if opt.To < 0 || opt.To >= len(c.story.Scenes) {
		return &NavigationError{Target: opt.To, SceneCount: len(c.story.Scenes)}
	}

	c.sceneIndex = opt.To
	if c.story.Scenes[opt.To].Terminal() {
		c.state = StateCompleted
	}
	return nil
}

// Complete forces the terminal state. Idempotent.
func (c *Controller) Complete() {
	c.state = StateCompleted
}

// State returns the current machine state.
func (c *Controller) State() State {
	return c.state
}

// SceneIndex returns the current scene position.
func (c *Controller) SceneIndex() int {
	return c.sceneIndex
}

// Scene returns the scene the session currently points at.
func (c *Controller) Scene() story.Scene {
	return c.story.Scenes[c.sceneIndex]
}

// History returns the applied choices in order.
func (c *Controller) History() []Choice {
	return append([]Choice(nil), c.history...)
}

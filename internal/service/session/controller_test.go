package session

import (
	"errors"
	"testing"

	"github.com/akward-edu/story-player/internal/analysis/risk"
	"github.com/akward-edu/story-player/internal/model/story"
)

// demoStory is the stranger-danger walkthrough the product demos with.
func demoStory() *story.Story {
	return &story.Story{
		ID:    "demo",
		Title: "Demo",
		Scenes: []story.Scene{
			{Title: "S0", Options: []story.Option{
				{Text: "Take candy", To: 1},
				{Text: "Say no", To: 2},
			}},
			{Title: "S1", Options: []story.Option{
				{Text: "Keep it secret", To: 3},
				{Text: "Tell someone", To: 2},
			}},
			{Title: "S2"},
			{Title: "S3", Options: []story.Option{
				{Text: "Stay silent", To: 2},
				{Text: "End — tell parent", To: 2},
			}},
		},
	}
}

func TestControllerDemoWalkthrough(t *testing.T) {
	alerts := 0
	tracker := risk.NewTracker(nil, 2, func(int) { alerts++ })
	ctrl, err := NewController(demoStory(), func(opt story.Option) {
		tracker.RecordChoice(opt.Text)
	})
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}

	// S0 -> S1 (safe choice)
	if err := ctrl.SelectOption(0); err != nil {
		t.Fatalf("S0 choice: %v", err)
	}
	if ctrl.SceneIndex() != 1 || ctrl.State() != StatePlaying {
		t.Fatalf("expected playing at scene 1, got %v scene %d", ctrl.State(), ctrl.SceneIndex())
	}

	// S1 -> S3, "Keep it secret" is unsafe #1
	if err := ctrl.SelectOption(0); err != nil {
		t.Fatalf("S1 choice: %v", err)
	}
	if tracker.UnsafeCount() != 1 || alerts != 0 {
		t.Fatalf("expected 1 unsafe choice and no alert, got %d/%d", tracker.UnsafeCount(), alerts)
	}

	// S3 "Stay silent" is unsafe #2: alert fires, target S2 is terminal so the
	// session auto-completes.
	if err := ctrl.SelectOption(0); err != nil {
		t.Fatalf("S3 choice: %v", err)
	}
	if tracker.UnsafeCount() != 2 {
		t.Fatalf("expected 2 unsafe choices, got %d", tracker.UnsafeCount())
	}
	if alerts != 1 {
		t.Fatalf("expected exactly one alert, got %d", alerts)
	}
	if ctrl.State() != StateCompleted {
		t.Fatalf("terminal destination should auto-complete, state %v", ctrl.State())
	}
}

func TestControllerEndingKeywordOverridesTarget(t *testing.T) {
	ctrl, err := NewController(demoStory(), nil)
	if err != nil {
		t.Fatal(err)
	}

	mustSelect(t, ctrl, 0) // S0 -> S1
	mustSelect(t, ctrl, 0) // S1 -> S3

	// "End — tell parent" points at a valid scene but completes anyway.
	if err := ctrl.SelectOption(1); err != nil {
		t.Fatalf("ending option: %v", err)
	}
	if ctrl.State() != StateCompleted {
		t.Fatalf("expected completed, got %v", ctrl.State())
	}
	if ctrl.SceneIndex() != 3 {
		t.Fatalf("ending option should not move the scene pointer, got %d", ctrl.SceneIndex())
	}
}

func TestControllerEndSentinelCompletes(t *testing.T) {
	st := &story.Story{
		ID: "sentinel",
		Scenes: []story.Scene{
			{Title: "S0", Options: []story.Option{{Text: "walk away", To: story.End}}},
		},
	}
	ctrl, err := NewController(st, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := ctrl.SelectOption(0); err != nil {
		t.Fatal(err)
	}
	if ctrl.State() != StateCompleted {
		t.Fatalf("sentinel target should complete, got %v", ctrl.State())
	}
}

func TestControllerInvalidChoiceIsNoOp(t *testing.T) {
	ctrl, err := NewController(demoStory(), nil)
	if err != nil {
		t.Fatal(err)
	}

	if err := ctrl.SelectOption(5); !errors.Is(err, ErrInvalidChoice) {
		t.Fatalf("expected ErrInvalidChoice, got %v", err)
	}
	if err := ctrl.SelectOption(-1); !errors.Is(err, ErrInvalidChoice) {
		t.Fatalf("expected ErrInvalidChoice, got %v", err)
	}
	if ctrl.SceneIndex() != 0 || ctrl.State() != StatePlaying {
		t.Fatal("invalid choice must not change the session")
	}
	if len(ctrl.History()) != 0 {
		t.Fatal("invalid choice must not be recorded")
	}
}

func TestControllerNavigationErrorStaysPut(t *testing.T) {
	st := demoStory()
	st.Scenes[0].Options[0] = story.Option{Text: "broken path", To: 42}

	ctrl := mustController(t, st)
	err := ctrl.SelectOption(0)
	var navErr *NavigationError
	if !errors.As(err, &navErr) {
		t.Fatalf("expected NavigationError, got %v", err)
	}
	if navErr.Target != 42 {
		t.Fatalf("expected target 42, got %d", navErr.Target)
	}
	if ctrl.SceneIndex() != 0 || ctrl.State() != StatePlaying {
		t.Fatal("rejected transition must leave the session on the current scene")
	}
}

func TestControllerRiskRecordedEvenWhenNavigationFails(t *testing.T) {
	st := demoStory()
	st.Scenes[0].Options[0] = story.Option{Text: "Go with the stranger", To: 42}

	var seen []string
	ctrl := mustController(t, st)
	ctrl.onChoice = func(opt story.Option) { seen = append(seen, opt.Text) }

	if err := ctrl.SelectOption(0); err == nil {
		t.Fatal("expected navigation error")
	}
	if len(seen) != 1 || seen[0] != "Go with the stranger" {
		t.Fatalf("choice observer should see the displayed option, got %v", seen)
	}
}

func TestControllerTerminalFirstSceneCompletesImmediately(t *testing.T) {
	st := &story.Story{ID: "t", Scenes: []story.Scene{{Title: "only"}}}
	ctrl, err := NewController(st, nil)
	if err != nil {
		t.Fatal(err)
	}
	if ctrl.State() != StateCompleted {
		t.Fatalf("expected completed, got %v", ctrl.State())
	}
	if err := ctrl.SelectOption(0); !errors.Is(err, ErrInvalidChoice) {
		t.Fatalf("completed session must ignore selections, got %v", err)
	}
}

func TestControllerCompleteIdempotent(t *testing.T) {
	ctrl := mustController(t, demoStory())
	ctrl.Complete()
	ctrl.Complete()
	if ctrl.State() != StateCompleted {
		t.Fatalf("expected completed, got %v", ctrl.State())
	}
}

func TestControllerRejectsInvalidStory(t *testing.T) {
	if _, err := NewController(&story.Story{ID: "empty"}, nil); err == nil {
		t.Fatal("expected validation error for story without scenes")
	}
}

// First-option traversal over the seed stories stays in range and terminates.
func TestControllerFirstOptionTraversalTerminates(t *testing.T) {
	for _, seed := range story.Seed() {
		st := seed
		ctrl := mustController(t, &st)

		for steps := 0; ctrl.State() == StatePlaying; steps++ {
			if steps > len(st.Scenes) {
				t.Fatalf("story %s: traversal did not terminate", st.ID)
			}
			idx := ctrl.SceneIndex()
			if idx < 0 || idx >= len(st.Scenes) {
				t.Fatalf("story %s: scene index %d out of range", st.ID, idx)
			}
			if err := ctrl.SelectOption(0); err != nil {
				t.Fatalf("story %s: %v", st.ID, err)
			}
		}
	}
}

func mustController(t *testing.T, st *story.Story) *Controller {
	t.Helper()
	ctrl, err := NewController(st, nil)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	return ctrl
}

func mustSelect(t *testing.T, ctrl *Controller, idx int) {
	t.Helper()
	if err := ctrl.SelectOption(idx); err != nil {
		t.Fatalf("SelectOption(%d): %v", idx, err)
	}
}

package story

import "testing"

func validStory() *Story {
	return &Story{
		ID:    "test",
		Title: "Test",
		Scenes: []Scene{
			{Title: "start", Options: []Option{{Text: "go", To: 1}}},
			{Title: "middle", Options: []Option{{Text: "finish", To: End}}},
			{Title: "terminal"},
		},
	}
}

func TestValidateAcceptsValidStory(t *testing.T) {
	if err := validStory().Validate(); err != nil {
		t.Fatalf("expected valid story, got %v", err)
	}
}

func TestValidateRejectsEmptyScenes(t *testing.T) {
	st := &Story{ID: "empty"}
	if err := st.Validate(); err != ErrNoScenes {
		t.Fatalf("expected ErrNoScenes, got %v", err)
	}
}

func TestValidateRejectsOutOfRangeTarget(t *testing.T) {
	st := validStory()
	st.Scenes[0].Options[0].To = 7
	if err := st.Validate(); err == nil {
		t.Fatal("expected validation error for out-of-range target")
	}
}

func TestValidateAllowsEndingTextWithBadTarget(t *testing.T) {
	st := validStory()
	st.Scenes[0].Options[0] = Option{Text: "End the story", To: 99}
	if err := st.Validate(); err != nil {
		t.Fatalf("ending-by-text option should not need a valid target, got %v", err)
	}
}

func TestOptionEnding(t *testing.T) {
	cases := []struct {
		opt  Option
		want bool
	}{
		{Option{Text: "keep going", To: 1}, false},
		{Option{Text: "anything", To: End}, true},
		{Option{Text: "End — tell a parent", To: 2}, true},
		{Option{Text: "THE END", To: 2}, true},
		{Option{Text: "defend yourself", To: 1}, true}, // substring match, as in the product
	}
	for _, tc := range cases {
		if got := tc.opt.Ending(); got != tc.want {
			t.Errorf("Ending(%q, to=%d) = %v, want %v", tc.opt.Text, tc.opt.To, got, tc.want)
		}
	}
}

func TestSeedStoriesAreValid(t *testing.T) {
	for _, st := range Seed() {
		if err := st.Validate(); err != nil {
			t.Errorf("seed story %s invalid: %v", st.ID, err)
		}
	}
}

package story

// Store exposes story retrieval for the catalog service.
type Store interface {
	List() []Story
	FindByID(id string) (Story, bool)
}

// MemoryStore implements Store with an in-memory slice, suitable for running
// the service without an upstream content service.
type MemoryStore struct {
	items []Story
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied stories.
func NewMemoryStore(items []Story) *MemoryStore {
	return &MemoryStore{items: append([]Story(nil), items...)}
}

// List returns the stored stories.
func (s *MemoryStore) List() []Story {
	return append([]Story(nil), s.items...)
}

// FindByID looks up a story by identifier.
func (s *MemoryStore) FindByID(id string) (Story, bool) {
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return Story{}, false
}

// Seed provides the built-in safety-education stories used by the product demo.
func Seed() []Story {
	return []Story{
		{
			ID:          "stranger-candy",
			Title:       "The Stranger at the Park",
			Description: "A story about what to do when a stranger offers you something.",
			Scenes: []Scene{
				{
					Title: "You're playing at the park when a stranger walks up and offers you candy.",
					Options: []Option{
						{Text: "Take the candy", To: 1},
						{Text: "Say no and walk away", To: 2},
					},
				},
				{
					Title: "You took the candy. The stranger smiles and says this should be your little secret.",
					Options: []Option{
						{Text: "Keep it secret", To: 3},
						{Text: "Tell someone you trust", To: 2},
					},
				},
				{
					Title: "You told a trusted adult right away. That was the safest choice — well done!",
				},
				{
					Title: "Keeping secrets from your family can be dangerous. What do you do now?",
					Options: []Option{
						{Text: "Stay silent", To: 2},
						{Text: "End — tell a parent what happened", To: 2},
					},
				},
			},
		},
		{
			ID:          "online-friend",
			Title:       "The Online Friend",
			Description: "Someone you only know from a game asks to meet you in real life.",
			Scenes: []Scene{
				{
					Title: "A player you've chatted with for a week asks where you live and wants to meet.",
					Options: []Option{
						{Text: "Go with their plan and pick a meeting spot", To: 1},
						{Text: "Refuse and tell a parent", To: 3},
					},
				},
				{
					Title: "They ask you to keep the meeting a secret from your parents.",
					Options: []Option{
						{Text: "Keep it secret", To: 2},
						{Text: "Stop and tell a trusted adult", To: 3},
					},
				},
				{
					Title: "Meeting strangers from the internet alone is never safe. You still have a way out.",
					Options: []Option{
						{Text: "Stay silent and go anyway", To: 3},
						{Text: "End the chat and block them", To: End},
					},
				},
				{
					Title: "People online are not always who they claim to be. Always tell a trusted adult before meeting anyone.",
				},
			},
		},
	}
}

package services

// Typed inbound events, one per interaction the webhook layer can deliver.
// They are decoded once at the HTTP boundary and never re-inspected as raw
// payloads downstream.

// IssueChallengeEvent is the `/pingpong ...` slash command.
type IssueChallengeEvent struct {
	Text        string
	UserID      string
	ChannelID   string
	TriggerID   string
	ResponseURL string
}

// PickedOpponentEvent is the submission of the opponent-picker modal; it
// resumes the challenge that could not be resolved from text.
type PickedOpponentEvent struct {
	ChannelID    string
	ChallengerID string
	OpponentID   string
	ViewID       string
}

// AcceptEvent is the Accept button on a challenge announcement.
type AcceptEvent struct {
	MatchID     string
	ResponseURL string
}

// DeclineEvent is the Decline button on a challenge announcement.
type DeclineEvent struct {
	MatchID     string
	ResponseURL string
}

// OpenScoreEntryEvent is the Submit Score button after acceptance.
type OpenScoreEntryEvent struct {
	MatchID   string
	UserID    string
	TriggerID string
}

// SubmitScoreEvent is the submission of the score-entry modal. Scores
// arrive as raw text and are validated by the coordinator.
type SubmitScoreEvent struct {
	MatchID            string
	RawChallengerScore string
	RawOpponentScore   string
	UserID             string
}

// SubmitScoreOutcome reports field-level validation errors back to the
// modal. Empty FieldErrors means the submission was processed.
type SubmitScoreOutcome struct {
	FieldErrors map[string]string
}

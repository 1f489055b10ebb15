package models

// Result is the immutable record of a completed match. Rows are only ever
// inserted; duplicate submissions are prevented upstream by the Match row
// being deleted on first success, not by a uniqueness constraint here.
type Result struct {
	ID              uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	MatchID         string  `gorm:"index;not null" json:"match_id"`
	Challenger      string  `gorm:"not null" json:"challenger"`
	Opponent        string  `gorm:"not null" json:"opponent"`
	ChallengerScore int     `gorm:"not null" json:"challenger_score"`
	OpponentScore   int     `gorm:"not null" json:"opponent_score"`
	Winner          *string `json:"winner,omitempty"` // nil = tie
	Channel         string  `gorm:"not null" json:"channel"`
	SubmittedBy     string  `gorm:"not null" json:"submitted_by"`
	SubmittedAt     int64   `gorm:"not null" json:"submitted_at"` // unix seconds
}

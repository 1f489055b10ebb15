package models

// Match is a challenge that has been issued but not yet resolved.
// The row exists exactly as long as the challenge is in flight: it is
// created when the opponent is known and deleted on decline or on the
// first successful score submission. Acceptance is not persisted — the
// score flow re-validates against this row anyway.
type Match struct {
	ID         string `gorm:"primaryKey" json:"id"`
	Challenger string `gorm:"not null" json:"challenger"`
	Opponent   string `gorm:"not null" json:"opponent"`
	Channel    string `gorm:"not null" json:"channel"`
	CreatedAt  int64  `gorm:"not null" json:"created_at"` // unix seconds
}

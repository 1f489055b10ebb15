package services

// ComputeWinner picks the winning user id, or nil for a tie. Strictly
// greater wins both ways; no bounds are enforced on the scores — negative
// and arbitrarily large values are accepted, which keeps unusual scoring
// systems usable.
func ComputeWinner(challenger, opponent string, challengerScore, opponentScore int) *string {
	if challengerScore > opponentScore {
		return &challenger
	}
	if opponentScore > challengerScore {
		return &opponent
	}
	return nil
}

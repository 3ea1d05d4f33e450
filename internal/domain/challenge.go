package domain

// Challenge is one day's puzzle: a secret word plus aggregate counters.
// The secret word is immutable after creation and must never be sent to clients.
type Challenge struct {
	Number       int    `json:"number"`
	Word         string `json:"word"`
	TotalGuesses int    `json:"totalGuesses"`
	TotalPlayers int    `json:"totalPlayers"`
	TotalSolves  int    `json:"totalSolves"`
	TotalHints   int    `json:"totalHints"`
	TotalGiveUps int    `json:"totalGiveUps"`
}

// UserChallenge is one player's record for one challenge: when they started,
// every guess they made, and how (or whether) the game ended for them.
// Guesses is append-only until the player solves or gives up.
type UserChallenge struct {
	Username           string            `json:"username"`
	StartedPlayingAtMs int64             `json:"startedPlayingAtMs,omitempty"`
	Guesses            []Guess           `json:"guesses"`
	SolvedAtMs         int64             `json:"solvedAtMs,omitempty"`
	GaveUpAtMs         int64             `json:"gaveUpAtMs,omitempty"`
	Score              *ScoreExplanation `json:"score,omitempty"`
}

// Started reports whether the player has interacted with the challenge yet.
func (uc *UserChallenge) Started() bool {
	return uc.StartedPlayingAtMs != 0
}

// Solved reports whether the player has found the secret word.
func (uc *UserChallenge) Solved() bool {
	return uc.SolvedAtMs != 0
}

// GaveUp reports whether the player has abandoned the challenge.
func (uc *UserChallenge) GaveUp() bool {
	return uc.GaveUpAtMs != 0
}

// Finished reports whether the player's game is over either way.
func (uc *UserChallenge) Finished() bool {
	return uc.Solved() || uc.GaveUp()
}

// PlayerProfile is the display identity kept in the per-challenge player registry.
type PlayerProfile struct {
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
}

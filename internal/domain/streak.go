package domain

// Streak counts consecutive daily challenges a user has solved.
type Streak struct {
	Username            string `json:"username"`
	Count               int    `json:"count"`
	LastSolvedChallenge int    `json:"lastSolvedChallenge,omitempty"`
}

// Advance records a solve of the given challenge number and returns the
// updated streak. Challenge numbers are sequential and daily, so a gap of more
// than one since the last solved challenge means a missed day: the streak
// resets before counting the new solve. Re-advancing the same challenge is a
// no-op so retried writes cannot double-count.
func (s Streak) Advance(challenge int) Streak {
	if s.LastSolvedChallenge == challenge && s.Count > 0 {
		return s
	}
	if s.LastSolvedChallenge != 0 && challenge-s.LastSolvedChallenge > 1 {
		s.Count = 0
	}
	s.Count++
	s.LastSolvedChallenge = challenge
	return s
}

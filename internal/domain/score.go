package domain

// ScoreExplanation is the breakdown returned alongside a final score so
// clients can show players where the points came from.
type ScoreExplanation struct {
	Version     string `json:"version"`
	TimePoints  int    `json:"timePoints"`
	GuessPoints int    `json:"guessPoints"`
	HintPoints  int    `json:"hintPoints"`
	FinalScore  int    `json:"finalScore"`
}

// Perfect reports whether this is the best achievable score.
func (e ScoreExplanation) Perfect() bool {
	return e.FinalScore == 100
}

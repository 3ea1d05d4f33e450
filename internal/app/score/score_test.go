package score

import (
	"testing"
	"time"
)

func TestCalculatePerfectSolve(t *testing.T) {
	got := NewDefault().Calculate(10*time.Second, 1, 0)
	if got.FinalScore != 100 {
		t.Fatalf("Expected perfect score 100, got %d", got.FinalScore)
	}
	if !got.Perfect() {
		t.Fatal("Expected Perfect() to report true")
	}
}

func TestCalculateComponents(t *testing.T) {
	cases := []struct {
		name      string
		solveTime time.Duration
		guesses   int
		hints     int
		wantTime  int
		wantGuess int
		wantHint  int
		wantFinal int
	}{
		{"fast few guesses", 20 * time.Second, 3, 0, 40, 36, 20, 96},
		{"one hint taken", 90 * time.Second, 5, 1, 34, 32, 13, 79},
		{"slow grind", 2 * time.Hour, 30, 3, 4, 0, 0, 4},
		{"hint budget floors at zero", 10 * time.Second, 1, 5, 40, 40, 0, 80},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NewDefault().Calculate(tc.solveTime, tc.guesses, tc.hints)
			if got.TimePoints != tc.wantTime {
				t.Fatalf("Expected time points %d, got %d", tc.wantTime, got.TimePoints)
			}
			if got.GuessPoints != tc.wantGuess {
				t.Fatalf("Expected guess points %d, got %d", tc.wantGuess, got.GuessPoints)
			}
			if got.HintPoints != tc.wantHint {
				t.Fatalf("Expected hint points %d, got %d", tc.wantHint, got.HintPoints)
			}
			if got.FinalScore != tc.wantFinal {
				t.Fatalf("Expected final score %d, got %d", tc.wantFinal, got.FinalScore)
			}
		})
	}
}

func TestCalculateNeverRewardsMoreEffort(t *testing.T) {
	s := NewDefault()
	base := s.Calculate(time.Minute, 5, 1).FinalScore

	if more := s.Calculate(time.Minute, 6, 1).FinalScore; more > base {
		t.Fatalf("Expected extra guess not to raise score, %d > %d", more, base)
	}
	if more := s.Calculate(time.Minute, 5, 2).FinalScore; more > base {
		t.Fatalf("Expected extra hint not to raise score, %d > %d", more, base)
	}
	if more := s.Calculate(20*time.Minute, 5, 1).FinalScore; more > base {
		t.Fatalf("Expected slower solve not to raise score, %d > %d", more, base)
	}
}

func TestCalculateStampsVersion(t *testing.T) {
	got := NewDefault().Calculate(time.Minute, 2, 0)
	if got.Version != version {
		t.Fatalf("Expected version %q, got %q", version, got.Version)
	}
}

package domain

import "testing"

func TestGuessHeatBands(t *testing.T) {
	cases := []struct {
		name       string
		normalized int
		want       Heat
	}{
		{"zero is cold", 0, HeatCold},
		{"just below warm", 39, HeatCold},
		{"warm lower bound", 40, HeatWarm},
		{"just below hot", 79, HeatWarm},
		{"hot lower bound", 80, HeatHot},
		{"maximum", 100, HeatHot},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := Guess{NormalizedSimilarity: tc.normalized}
			if got := g.Heat(); got != tc.want {
				t.Fatalf("Expected heat %s for %d, got %s", tc.want, tc.normalized, got)
			}
		})
	}
}

func TestFindGuess(t *testing.T) {
	guesses := []Guess{
		{Word: "ocean", NormalizedSimilarity: 55},
		{Word: "river", NormalizedSimilarity: 70},
	}

	g, ok := FindGuess(guesses, "river")
	if !ok {
		t.Fatal("Expected to find river")
	}
	if g.NormalizedSimilarity != 70 {
		t.Fatalf("Expected normalized similarity 70, got %d", g.NormalizedSimilarity)
	}

	if _, ok := FindGuess(guesses, "lake"); ok {
		t.Fatal("Expected lake to be absent")
	}
}

func TestAppendGuessRepairsCorruptWinEntries(t *testing.T) {
	// A stored entry carrying the secret word but a non-winning similarity is
	// corrupt and must be dropped on the next write.
	existing := []Guess{
		{Word: "water", Similarity: 0.42, NormalizedSimilarity: 60},
		{Word: "ocean", Similarity: 0.3, NormalizedSimilarity: 45},
	}

	got := AppendGuess(existing, Guess{Word: "river", Similarity: 0.5}, "water")
	if len(got) != 2 {
		t.Fatalf("Expected 2 guesses after repair, got %d", len(got))
	}
	if got[0].Word != "ocean" || got[1].Word != "river" {
		t.Fatalf("Expected [ocean river], got [%s %s]", got[0].Word, got[1].Word)
	}
}

func TestAppendGuessKeepsGenuineWin(t *testing.T) {
	got := AppendGuess(nil, Guess{Word: "water", Similarity: 1}, "water")
	if len(got) != 1 {
		t.Fatalf("Expected winning guess to be kept, got %d entries", len(got))
	}
}

func TestAppendGuessDoesNotMutateInput(t *testing.T) {
	existing := []Guess{{Word: "ocean"}}
	_ = AppendGuess(existing, Guess{Word: "river"}, "water")
	if len(existing) != 1 || existing[0].Word != "ocean" {
		t.Fatal("Expected input slice to be unchanged")
	}
}

func TestBestProgressIgnoresHints(t *testing.T) {
	cases := []struct {
		name    string
		guesses []Guess
		want    int
	}{
		{"no guesses", nil, 0},
		{"hints only", []Guess{{NormalizedSimilarity: 90, IsHint: true}}, 0},
		{
			"hint above best earned guess",
			[]Guess{
				{NormalizedSimilarity: 30},
				{NormalizedSimilarity: 85, IsHint: true},
				{NormalizedSimilarity: 60},
			},
			60,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := BestProgress(tc.guesses); got != tc.want {
				t.Fatalf("Expected progress %d, got %d", tc.want, got)
			}
		})
	}
}

func TestCountHints(t *testing.T) {
	guesses := []Guess{{IsHint: true}, {}, {IsHint: true}}
	if got := CountHints(guesses); got != 2 {
		t.Fatalf("Expected 2 hints, got %d", got)
	}
}

func TestColdestGuess(t *testing.T) {
	guesses := []Guess{
		{Word: "warm", NormalizedSimilarity: 70},
		{Word: "freezing", NormalizedSimilarity: 5},
		{Word: "cool", NormalizedSimilarity: 30},
	}
	if got := ColdestGuess(guesses); got.Word != "freezing" {
		t.Fatalf("Expected freezing, got %s", got.Word)
	}
}

func TestAverageHeat(t *testing.T) {
	guesses := []Guess{
		{NormalizedSimilarity: 10},
		{NormalizedSimilarity: 20},
		{NormalizedSimilarity: 31},
	}
	// Mean 20.33 rounds to 20.
	if got := AverageHeat(guesses); got != 20 {
		t.Fatalf("Expected average heat 20, got %d", got)
	}
	if got := AverageHeat(nil); got != 0 {
		t.Fatalf("Expected 0 for no guesses, got %d", got)
	}
}

package domain

import "math"

// SimilarWord is one precomputed neighbor of the secret word.
type SimilarWord struct {
	Word       string  `json:"word"`
	Similarity float64 `json:"similarity"`
}

// NeighborTable is the secret word's precomputed nearest-neighbor list plus the
// similarity bounds used for normalization. It is immutable once computed for a
// challenge; SimilarWords is ordered closest-first and excludes the secret word.
type NeighborTable struct {
	SimilarWords       []SimilarWord `json:"similar_words"`
	ClosestSimilarity  float64       `json:"closest_similarity"`
	FurthestSimilarity float64       `json:"furthest_similarity"`
}

// RankOf assigns the display rank for a normalized guess word. Rank 0 is
// reserved for the secret word itself (similarity 1), even if the word also
// appears in the neighbor list. The neighbor list excludes the secret word, so
// the closest possible non-winning guess has rank 1.
func (t NeighborTable) RankOf(word string, similarity float64) int {
	if similarity == 1 {
		return 0
	}
	for i, sw := range t.SimilarWords {
		if sw.Word == word {
			return i + 1
		}
	}
	return -1
}

// Normalize rescales a raw similarity into the 0-100 band between the furthest
// and closest known neighbors.
func (t NeighborTable) Normalize(similarity float64) int {
	spread := t.ClosestSimilarity - t.FurthestSimilarity
	if spread <= 0 {
		return 0
	}
	scaled := 100 * (similarity - t.FurthestSimilarity) / spread
	return int(math.Round(math.Min(100, math.Max(0, scaled))))
}

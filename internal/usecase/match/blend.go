package match

import "math"

// Blend weights: the oracle's judgment dominates, similarity nudges.
const (
	oracleWeight     = 0.7
	similarityWeight = 0.3
)

// blendScore combines the raw oracle score (1-3) with the cosine
// similarity into the final star rating. The oracle score is normalized
// to [0,1], blended with the raw (unclamped here, already in [-1,1])
// similarity, and mapped back onto the 1-3 scale with rounding. A
// missing similarity counts as 0, so the blend always runs.
func blendScore(oracleScore int, similarity *float64) int {
	sim := 0.0
	if similarity != nil {
		sim = *similarity
	}

	normalized := (float64(oracleScore) - 1) / 2
	combined := oracleWeight*normalized + similarityWeight*sim
	blended := int(math.Round(1 + combined*2))
	return clampScore(blended)
}

func clampScore(score int) int {
	if score < 1 {
		return 1
	}
	if score > 3 {
		return 3
	}
	return score
}

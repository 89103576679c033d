package domain

import (
	"encoding/json"
	"fmt"
	"math"
)

// KeyPrefix is the storage namespace for all matchdex keys.
const KeyPrefix = "matchdex:"

// CosineSimilarity computes the cosine of the angle between two vectors,
// clamped to [-1, 1] to absorb floating-point drift.
// ok is false when either vector is nil or empty, the lengths differ,
// or either vector has zero magnitude — callers must treat that as
// "no similarity available", not as zero similarity.
func CosineSimilarity(a, b []float32) (float64, bool) {
	if len(a) == 0 || len(b) == 0 {
		return 0, false
	}
	if len(a) != len(b) {
		return 0, false
	}

	var dot, magA, magB float64
	for i := range a {
		av := float64(a[i])
		bv := float64(b[i])
		dot += av * bv
		magA += av * av
		magB += bv * bv
	}

	if magA == 0 || magB == 0 {
		return 0, false
	}

	sim := dot / (math.Sqrt(magA) * math.Sqrt(magB))
	return math.Max(-1, math.Min(1, sim)), true
}

// ParseVector decodes a JSON number array into a vector.
// Empty input yields a nil vector without error.
func ParseVector(data string) ([]float32, error) {
	if data == "" {
		return nil, nil
	}
	var vec []float32
	if err := json.Unmarshal([]byte(data), &vec); err != nil {
		return nil, fmt.Errorf("parse vector: %w", err)
	}
	return vec, nil
}

// EncodeVector serializes a vector as a JSON number array.
func EncodeVector(vec []float32) (string, error) {
	data, err := json.Marshal(vec)
	if err != nil {
		return "", fmt.Errorf("encode vector: %w", err)
	}
	return string(data), nil
}

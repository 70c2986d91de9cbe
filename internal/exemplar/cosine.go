package exemplar

import "math"

// cosineSimilarity computes dot(a,b) / (||a|| * ||b||). Defined as 0
// when either norm is zero. Callers guarantee equal dimensions.
func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		x := float64(a[i])
		y := float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

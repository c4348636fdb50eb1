package domain

import "math"

// Vector is a sparse term-weight vector. Keys are vocabulary dimension
// indices, values are TF-IDF weights. Dimensions absent from the map are
// zero, so vectors built against older vocabulary snapshots remain
// comparable after the vocabulary grows.
type Vector map[int]float64

// Norm returns the Euclidean magnitude of the vector.
func (v Vector) Norm() float64 {
	var sum float64
	for _, w := range v {
		sum += w * w
	}
	return math.Sqrt(sum)
}

// Dot returns the dot product with another sparse vector.
func (v Vector) Dot(other Vector) float64 {
	// Iterate the smaller map.
	a, b := v, other
	if len(b) < len(a) {
		a, b = b, a
	}
	var sum float64
	for i, w := range a {
		if ow, ok := b[i]; ok {
			sum += w * ow
		}
	}
	return sum
}

// Cosine returns the cosine similarity between two sparse vectors,
// in [-1, 1]. A zero-magnitude operand yields 0 rather than a fault:
// no shared vocabulary simply means no similarity.
func Cosine(a, b Vector) float64 {
	na := a.Norm()
	nb := b.Norm()
	if na == 0 || nb == 0 {
		return 0
	}
	return a.Dot(b) / (na * nb)
}

// IsZero returns true if the vector has no non-zero dimensions.
func (v Vector) IsZero() bool {
	for _, w := range v {
		if w != 0 {
			return false
		}
	}
	return true
}

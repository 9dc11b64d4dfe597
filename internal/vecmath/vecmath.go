// Package vecmath provides the small set of dense-vector operations shared by
// the lexical and semantic similarity code.
package vecmath

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Cosine returns the cosine similarity of a and b.
// A zero-norm vector on either side yields 0.
func Cosine(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	na := floats.Norm(a, 2)
	nb := floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 0
	}
	sim := floats.Dot(a, b) / (na * nb)
	if math.IsNaN(sim) {
		return 0
	}
	return sim
}

// Clamp01 bounds v to [0,1]
func Clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// Mean returns the element-wise mean of equal-length vectors
func Mean(vectors [][]float64) ([]float64, error) {
	if len(vectors) == 0 {
		return nil, fmt.Errorf("cannot average zero vectors")
	}
	dim := len(vectors[0])
	out := make([]float64, dim)
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("vector %d has dimension %d, expected %d", i, len(v), dim)
		}
		floats.Add(out, v)
	}
	floats.Scale(1/float64(len(vectors)), out)
	return out, nil
}

// Normalize scales v to unit L2 norm in place. Zero vectors are left unchanged.
func Normalize(v []float64) {
	n := floats.Norm(v, 2)
	if n == 0 {
		return
	}
	floats.Scale(1/n, v)
}

// Finite reports whether v is neither NaN nor infinite
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

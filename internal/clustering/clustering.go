// Package clustering provides the numeric core of topic training: seeded
// dimensionality reduction and the clustering algorithms that partition the
// reduced embeddings into topics.
package clustering

import (
	"fmt"
	"math"
)

// Noise is the cluster id for points no cluster claimed.
const Noise = -1

// Algorithm partitions points into clusters. Returned ids are contiguous
// from 0; Noise marks unassigned points.
type Algorithm interface {
	Cluster(points [][]float64) ([]int, error)
}

// Distance computes the euclidean distance between two vectors.
func Distance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// Cosine computes the cosine similarity between two vectors. Zero vectors
// have similarity 0.
func Cosine(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// Centroid returns the mean of the given vectors.
func Centroid(vectors [][]float64) []float64 {
	if len(vectors) == 0 {
		return nil
	}
	c := make([]float64, len(vectors[0]))
	for _, v := range vectors {
		for i, x := range v {
			c[i] += x
		}
	}
	for i := range c {
		c[i] /= float64(len(vectors))
	}
	return c
}

// checkDims verifies all points share one dimensionality.
func checkDims(points [][]float64) error {
	if len(points) == 0 {
		return fmt.Errorf("no points to cluster")
	}
	dims := len(points[0])
	for i, p := range points {
		if len(p) != dims {
			return fmt.Errorf("point %d has %d dims, want %d", i, len(p), dims)
		}
	}
	return nil
}

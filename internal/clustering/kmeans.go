package clustering

import (
	"fmt"

	"github.com/biogo/cluster/kmeans"
)

// KMeans implements Algorithm using the standard k-means algorithm. Every
// point is assigned to a cluster; k-means produces no Noise. It fits the
// severity model, whose topic count is a small known band.
//
// The library picks initial centers from its own random source, so two
// runs over the same points may converge to different clusterings.
type KMeans struct {
	K int
}

// NewKMeans returns a k-means clusterer for k clusters.
func NewKMeans(k int) (*KMeans, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be larger than 0, got %d", k)
	}
	return &KMeans{K: k}, nil
}

// vectors adapts a point slice to the kmeans library's data interface.
type vectors [][]float64

func (v vectors) Len() int               { return len(v) }
func (v vectors) Values(i int) []float64 { return v[i] }

// Cluster is KMeans' implementation for Algorithm.
func (km *KMeans) Cluster(points [][]float64) ([]int, error) {
	if err := checkDims(points); err != nil {
		return nil, err
	}
	if len(points) < km.K {
		return nil, fmt.Errorf("%d points cannot form %d clusters", len(points), km.K)
	}

	trainer, err := kmeans.New(vectors(points))
	if err != nil {
		return nil, fmt.Errorf("instantiating kmeans: %w", err)
	}
	trainer.Seed(km.K)
	trainer.Cluster()

	assignments := make([]int, len(points))
	for i := range assignments {
		assignments[i] = Noise
	}
	next := 0
	for _, c := range trainer.Centers() {
		if len(c.Members()) == 0 {
			continue
		}
		for _, idx := range c.Members() {
			assignments[idx] = next
		}
		next++
	}

	// Relabel by size for a stable id order.
	return renumber(assignments, 1), nil
}

package clustering

import (
	"fmt"
	"sort"
)

// DBSCAN implements Algorithm using density-based clustering. Points with
// at least MinSamples neighbors within Eps are core points; core points
// whose neighborhoods overlap merge into one cluster, non-core points join
// a neighboring core's cluster or stay Noise. Clusters smaller than
// MinClusterSize are dissolved back into Noise.
type DBSCAN struct {
	// Eps is the neighborhood radius. Zero means estimate it from the
	// data (mean distance to the MinSamples-th nearest neighbor), which
	// is deterministic for a fixed point set.
	Eps float64

	MinSamples     int
	MinClusterSize int
}

// NewDBSCAN returns a DBSCAN clusterer with the given density parameters.
func NewDBSCAN(eps float64, minSamples, minClusterSize int) (*DBSCAN, error) {
	if minSamples <= 0 {
		return nil, fmt.Errorf("minSamples must be positive, got %d", minSamples)
	}
	if minClusterSize <= 0 {
		return nil, fmt.Errorf("minClusterSize must be positive, got %d", minClusterSize)
	}
	return &DBSCAN{
		Eps:            eps,
		MinSamples:     minSamples,
		MinClusterSize: minClusterSize,
	}, nil
}

// Cluster is DBSCAN's implementation for Algorithm.
func (d *DBSCAN) Cluster(points [][]float64) ([]int, error) {
	if err := checkDims(points); err != nil {
		return nil, err
	}
	if len(points) < d.MinClusterSize {
		return nil, fmt.Errorf("%d points cannot satisfy minimum cluster size %d", len(points), d.MinClusterSize)
	}

	eps := d.Eps
	if eps == 0 {
		eps = estimateEps(points, d.MinSamples)
	}

	neighbors := neighborLists(points, eps)

	// Core points: dense enough neighborhoods (self included).
	core := make([]bool, len(points))
	for i, ns := range neighbors {
		core[i] = len(ns)+1 >= d.MinSamples
	}

	// Merge density-reachable core points, then attach border points to
	// the first core neighbor's set.
	sets := newDSU(len(points))
	for i, ns := range neighbors {
		if !core[i] {
			continue
		}
		for _, j := range ns {
			if core[j] {
				sets.union(i, j)
			}
		}
	}

	assignments := make([]int, len(points))
	for i := range assignments {
		assignments[i] = Noise
	}
	for i := range points {
		if core[i] {
			assignments[i] = sets.find(i)
			continue
		}
		for _, j := range neighbors[i] {
			if core[j] {
				assignments[i] = sets.find(j)
				break
			}
		}
	}

	return renumber(assignments, d.MinClusterSize), nil
}

// estimateEps picks a neighborhood radius as the mean distance to the
// k-th nearest neighbor across all points.
func estimateEps(points [][]float64, k int) float64 {
	if k >= len(points) {
		k = len(points) - 1
	}
	if k < 1 {
		k = 1
	}

	var total float64
	dists := make([]float64, 0, len(points)-1)
	for i, p := range points {
		dists = dists[:0]
		for j, q := range points {
			if i == j {
				continue
			}
			dists = append(dists, Distance(p, q))
		}
		sort.Float64s(dists)
		total += dists[k-1]
	}
	return total / float64(len(points))
}

// neighborLists returns, per point, the indices of points within eps.
func neighborLists(points [][]float64, eps float64) [][]int {
	neighbors := make([][]int, len(points))
	for i := range points {
		for j := i + 1; j < len(points); j++ {
			if Distance(points[i], points[j]) <= eps {
				neighbors[i] = append(neighbors[i], j)
				neighbors[j] = append(neighbors[j], i)
			}
		}
	}
	return neighbors
}

// renumber dissolves clusters below minSize into Noise and relabels the
// survivors 0..k-1, largest first. Ties break on first occurrence so the
// output is deterministic.
func renumber(assignments []int, minSize int) []int {
	sizes := make(map[int]int)
	firstSeen := make(map[int]int)
	for i, id := range assignments {
		if id == Noise {
			continue
		}
		if _, ok := firstSeen[id]; !ok {
			firstSeen[id] = i
		}
		sizes[id]++
	}

	ids := make([]int, 0, len(sizes))
	for id, size := range sizes {
		if size >= minSize {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(a, b int) bool {
		if sizes[ids[a]] != sizes[ids[b]] {
			return sizes[ids[a]] > sizes[ids[b]]
		}
		return firstSeen[ids[a]] < firstSeen[ids[b]]
	})

	remap := make(map[int]int, len(ids))
	for rank, id := range ids {
		remap[id] = rank
	}

	out := make([]int, len(assignments))
	for i, id := range assignments {
		if mapped, ok := remap[id]; ok {
			out[i] = mapped
		} else {
			out[i] = Noise
		}
	}
	return out
}

package clustering

import "testing"

// duplicated returns n copies of the given point.
func duplicated(point []float64, n int) [][]float64 {
	out := make([][]float64, n)
	for i := range out {
		out[i] = point
	}
	return out
}

func TestDBSCANSeparatesTightClusters(t *testing.T) {
	points := append(duplicated([]float64{0, 0}, 6), duplicated([]float64{10, 10}, 4)...)

	d, err := NewDBSCAN(0.5, 3, 3)
	if err != nil {
		t.Fatalf("NewDBSCAN failed: %v", err)
	}
	assignments, err := d.Cluster(points)
	if err != nil {
		t.Fatalf("Cluster failed: %v", err)
	}

	// Largest cluster first.
	for i := 0; i < 6; i++ {
		if assignments[i] != 0 {
			t.Errorf("Point %d: expected cluster 0, got %d", i, assignments[i])
		}
	}
	for i := 6; i < 10; i++ {
		if assignments[i] != 1 {
			t.Errorf("Point %d: expected cluster 1, got %d", i, assignments[i])
		}
	}
}

func TestDBSCANMarksIsolatedPointsNoise(t *testing.T) {
	points := append(duplicated([]float64{0, 0}, 5), []float64{100, 100})

	d, err := NewDBSCAN(0.5, 3, 3)
	if err != nil {
		t.Fatalf("NewDBSCAN failed: %v", err)
	}
	assignments, err := d.Cluster(points)
	if err != nil {
		t.Fatalf("Cluster failed: %v", err)
	}

	if assignments[5] != Noise {
		t.Errorf("Expected the isolated point to be noise, got %d", assignments[5])
	}
	for i := 0; i < 5; i++ {
		if assignments[i] != 0 {
			t.Errorf("Point %d: expected cluster 0, got %d", i, assignments[i])
		}
	}
}

func TestDBSCANDissolvesSmallClusters(t *testing.T) {
	points := append(duplicated([]float64{0, 0}, 8), duplicated([]float64{10, 10}, 3)...)

	d, err := NewDBSCAN(0.5, 2, 5)
	if err != nil {
		t.Fatalf("NewDBSCAN failed: %v", err)
	}
	assignments, err := d.Cluster(points)
	if err != nil {
		t.Fatalf("Cluster failed: %v", err)
	}

	for i := 8; i < 11; i++ {
		if assignments[i] != Noise {
			t.Errorf("Point %d of an undersized cluster should be noise, got %d", i, assignments[i])
		}
	}
}

func TestDBSCANRejectsTooFewPoints(t *testing.T) {
	d, err := NewDBSCAN(0.5, 2, 10)
	if err != nil {
		t.Fatalf("NewDBSCAN failed: %v", err)
	}
	if _, err := d.Cluster(duplicated([]float64{0, 0}, 3)); err == nil {
		t.Errorf("Expected an error when points cannot satisfy the minimum cluster size")
	}
}

func TestDBSCANAutoEpsOnDuplicatePoints(t *testing.T) {
	points := append(duplicated([]float64{0, 0}, 5), duplicated([]float64{5, 5}, 5)...)

	d, err := NewDBSCAN(0, 3, 3)
	if err != nil {
		t.Fatalf("NewDBSCAN failed: %v", err)
	}
	assignments, err := d.Cluster(points)
	if err != nil {
		t.Fatalf("Cluster failed: %v", err)
	}

	clusters := map[int]int{}
	for _, id := range assignments {
		clusters[id]++
	}
	if len(clusters) != 2 || clusters[Noise] > 0 {
		t.Errorf("Expected two clusters and no noise, got %v", clusters)
	}
}

func TestRenumberOrdersBySizeDescending(t *testing.T) {
	assignments := []int{7, 7, 3, 3, 3, Noise}
	out := renumber(assignments, 1)

	want := []int{1, 1, 0, 0, 0, Noise}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("Position %d: expected %d, got %d", i, want[i], out[i])
		}
	}
}

func TestDSUUnionFind(t *testing.T) {
	sets := newDSU(5)
	sets.union(0, 1)
	sets.union(1, 2)

	if sets.find(0) != sets.find(2) {
		t.Errorf("Expected 0 and 2 in the same set")
	}
	if sets.find(3) == sets.find(0) {
		t.Errorf("Expected 3 in its own set")
	}
}

package clustering

import (
	"math"
	"testing"
)

func TestProjectionIsDeterministicPerSeed(t *testing.T) {
	a, err := NewProjection(8, 3, 42)
	if err != nil {
		t.Fatalf("NewProjection failed: %v", err)
	}
	b, err := NewProjection(8, 3, 42)
	if err != nil {
		t.Fatalf("NewProjection failed: %v", err)
	}

	for i := range a.Matrix {
		for j := range a.Matrix[i] {
			if a.Matrix[i][j] != b.Matrix[i][j] {
				t.Fatalf("Same seed produced different matrices at %d,%d", i, j)
			}
		}
	}

	c, err := NewProjection(8, 3, 43)
	if err != nil {
		t.Fatalf("NewProjection failed: %v", err)
	}
	same := true
	for i := range a.Matrix {
		for j := range a.Matrix[i] {
			if a.Matrix[i][j] != c.Matrix[i][j] {
				same = false
			}
		}
	}
	if same {
		t.Errorf("Different seeds produced identical matrices")
	}
}

func TestProjectionClampsOutputDims(t *testing.T) {
	p, err := NewProjection(3, 10, 1)
	if err != nil {
		t.Fatalf("NewProjection failed: %v", err)
	}
	if p.OutputDims != 3 {
		t.Errorf("Expected output dims clamped to 3, got %d", p.OutputDims)
	}
}

func TestTransformChecksDims(t *testing.T) {
	p, err := NewProjection(4, 2, 1)
	if err != nil {
		t.Fatalf("NewProjection failed: %v", err)
	}

	out, err := p.Transform([]float64{1, 0, 0, 0})
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	if len(out) != 2 {
		t.Errorf("Expected 2 output dims, got %d", len(out))
	}

	if _, err := p.Transform([]float64{1, 0}); err == nil {
		t.Errorf("Expected an error for a wrong-size vector")
	}
}

func TestTransformIsLinear(t *testing.T) {
	p, err := NewProjection(4, 2, 5)
	if err != nil {
		t.Fatalf("NewProjection failed: %v", err)
	}

	x := []float64{1, 2, 3, 4}
	doubled := []float64{2, 4, 6, 8}

	px, _ := p.Transform(x)
	pd, _ := p.Transform(doubled)
	for i := range px {
		if math.Abs(pd[i]-2*px[i]) > 1e-9 {
			t.Errorf("Projection not linear at dim %d: %f vs %f", i, pd[i], 2*px[i])
		}
	}
}

func TestSmoothTightensClustersWithoutMutation(t *testing.T) {
	points := [][]float64{
		{0, 0}, {0.2, 0}, {0, 0.2},
		{10, 10}, {10.2, 10}, {10, 10.2},
	}
	original := make([][]float64, len(points))
	for i, p := range points {
		original[i] = append([]float64(nil), p...)
	}

	smoothed := Smooth(points, 2)

	for i := range points {
		for d := range points[i] {
			if points[i][d] != original[i][d] {
				t.Fatalf("Smooth mutated its input at %d,%d", i, d)
			}
		}
	}

	// Within-cluster spread shrinks.
	before := Distance(points[0], points[1])
	after := Distance(smoothed[0], smoothed[1])
	if after >= before {
		t.Errorf("Expected smoothing to tighten the cluster: %f -> %f", before, after)
	}

	// Clusters stay far apart.
	if Distance(smoothed[0], smoothed[3]) < 5 {
		t.Errorf("Smoothing collapsed distinct clusters")
	}
}

func TestSmoothIdenticalPointsUnchanged(t *testing.T) {
	points := [][]float64{{1, 1}, {1, 1}, {1, 1}, {1, 1}}
	smoothed := Smooth(points, 2)
	for i, p := range smoothed {
		for d, x := range p {
			if x != 1 {
				t.Errorf("Point %d dim %d moved to %f", i, d, x)
			}
		}
	}
}

func TestCosineAndCentroid(t *testing.T) {
	if c := Cosine([]float64{1, 0}, []float64{1, 0}); math.Abs(c-1) > 1e-9 {
		t.Errorf("Expected cosine 1 for identical directions, got %f", c)
	}
	if c := Cosine([]float64{1, 0}, []float64{0, 1}); math.Abs(c) > 1e-9 {
		t.Errorf("Expected cosine 0 for orthogonal vectors, got %f", c)
	}
	if c := Cosine([]float64{0, 0}, []float64{1, 1}); c != 0 {
		t.Errorf("Expected cosine 0 for a zero vector, got %f", c)
	}

	centroid := Centroid([][]float64{{0, 0}, {2, 4}})
	if centroid[0] != 1 || centroid[1] != 2 {
		t.Errorf("Expected centroid [1 2], got %v", centroid)
	}
}

package clustering

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// Projection is a seeded Gaussian random projection into a low-dimensional
// space. The same seed and input dimensionality always produce the same
// matrix, so reduction is fully reproducible.
type Projection struct {
	InputDims  int         `json:"input_dims"`
	OutputDims int         `json:"output_dims"`
	Seed       int64       `json:"seed"`
	Matrix     [][]float64 `json:"matrix"`
}

// NewProjection builds the projection matrix for the given dimensions.
func NewProjection(inputDims, outputDims int, seed int64) (*Projection, error) {
	if inputDims <= 0 || outputDims <= 0 {
		return nil, fmt.Errorf("invalid projection dims %dx%d", inputDims, outputDims)
	}
	if outputDims > inputDims {
		outputDims = inputDims
	}

	rng := rand.New(rand.NewSource(seed))
	scale := 1 / math.Sqrt(float64(outputDims))

	matrix := make([][]float64, outputDims)
	for i := range matrix {
		row := make([]float64, inputDims)
		for j := range row {
			row[j] = rng.NormFloat64() * scale
		}
		matrix[i] = row
	}

	return &Projection{
		InputDims:  inputDims,
		OutputDims: outputDims,
		Seed:       seed,
		Matrix:     matrix,
	}, nil
}

// Transform projects a single vector into the reduced space.
func (p *Projection) Transform(vec []float64) ([]float64, error) {
	if len(vec) != p.InputDims {
		return nil, fmt.Errorf("vector has %d dims, projection expects %d", len(vec), p.InputDims)
	}
	out := make([]float64, p.OutputDims)
	for i, row := range p.Matrix {
		var sum float64
		for j, x := range vec {
			sum += row[j] * x
		}
		out[i] = sum
	}
	return out, nil
}

// TransformAll projects a batch of vectors.
func (p *Projection) TransformAll(vecs [][]float64) ([][]float64, error) {
	out := make([][]float64, len(vecs))
	for i, v := range vecs {
		reduced, err := p.Transform(v)
		if err != nil {
			return nil, err
		}
		out[i] = reduced
	}
	return out, nil
}

// Smooth pulls each point halfway toward the mean of its k nearest
// neighbors, tightening local structure before density clustering. The
// input is not modified.
func Smooth(points [][]float64, k int) [][]float64 {
	if k <= 0 || len(points) < 3 {
		return points
	}
	if k >= len(points) {
		k = len(points) - 1
	}

	type neighbor struct {
		idx  int
		dist float64
	}

	out := make([][]float64, len(points))
	neighbors := make([]neighbor, 0, len(points)-1)
	for i, p := range points {
		neighbors = neighbors[:0]
		for j, q := range points {
			if i == j {
				continue
			}
			neighbors = append(neighbors, neighbor{idx: j, dist: Distance(p, q)})
		}
		sort.Slice(neighbors, func(a, b int) bool {
			if neighbors[a].dist != neighbors[b].dist {
				return neighbors[a].dist < neighbors[b].dist
			}
			return neighbors[a].idx < neighbors[b].idx
		})

		mean := make([]float64, len(p))
		for _, n := range neighbors[:k] {
			for d, x := range points[n.idx] {
				mean[d] += x
			}
		}
		smoothed := make([]float64, len(p))
		for d := range smoothed {
			smoothed[d] = 0.5*p[d] + 0.5*mean[d]/float64(k)
		}
		out[i] = smoothed
	}
	return out
}

package clustering

// dsu is a disjoint set union over integer indices, used to merge the
// neighborhoods of density-reachable core points.
type dsu struct {
	root []int
	rank []int
}

func newDSU(n int) *dsu {
	d := &dsu{
		root: make([]int, n),
		rank: make([]int, n),
	}
	for i := range d.root {
		d.root[i] = i
	}
	return d
}

func (d *dsu) find(x int) int {
	if d.root[x] == x {
		return x
	}

	d.root[x] = d.find(d.root[x]) // Path compression
	return d.root[x]
}

func (d *dsu) union(x, y int) {
	rootX := d.find(x)
	rootY := d.find(y)

	if rootX == rootY {
		return
	}

	// Union by rank
	if d.rank[rootX] < d.rank[rootY] {
		rootX, rootY = rootY, rootX
	}
	d.root[rootY] = rootX
	if d.rank[rootX] == d.rank[rootY] {
		d.rank[rootX]++
	}
}

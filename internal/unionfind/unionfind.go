// Package unionfind implements a fixed-size disjoint-set (union-find)
// structure over integer elements. It uses union by size with path
// splitting, giving near-constant amortized cost per operation.
package unionfind

// node holds the parent link and, for roots, the size of the component.
type node struct {
	parent int
	size   int
}

// DisjointSet tracks the partition of elements 0..size-1 into components.
// Every element starts as a singleton. The zero value is not usable; create
// instances with New.
type DisjointSet struct {
	nodes []node
}

// New creates a DisjointSet over the elements 0..size-1, each in its own
// component of size 1.
func New(size int) *DisjointSet {
	nodes := make([]node, size)
	for i := range nodes {
		nodes[i] = node{parent: i, size: 1}
	}
	return &DisjointSet{nodes: nodes}
}

// Len returns the number of elements in the set.
func (d *DisjointSet) Len() int {
	return len(d.nodes)
}

// Find returns the representative of x's component. Representatives are
// stable across calls until a Union merges the component into a larger one.
// Paths are split during traversal to keep trees shallow.
func (d *DisjointSet) Find(x int) int {
	for d.nodes[x].parent != x {
		x, d.nodes[x].parent = d.nodes[x].parent, d.nodes[d.nodes[x].parent].parent
	}
	return x
}

// Union merges the components containing x and y. It returns false if they
// were already in the same component. The smaller component is attached
// under the larger one; the surviving root's size becomes the sum of both.
func (d *DisjointSet) Union(x, y int) bool {
	rx, ry := d.Find(x), d.Find(y)
	if rx == ry {
		return false
	}
	if d.nodes[rx].size < d.nodes[ry].size {
		rx, ry = ry, rx
	}
	d.nodes[ry].parent = rx
	d.nodes[rx].size += d.nodes[ry].size
	return true
}

// Connected reports whether x and y are in the same component.
func (d *DisjointSet) Connected(x, y int) bool {
	return d.Find(x) == d.Find(y)
}

// Size returns the size of the component containing x.
func (d *DisjointSet) Size(x int) int {
	return d.nodes[d.Find(x)].size
}

// Components returns the number of distinct components among the first
// limit elements, counting each element that is its own representative.
// Elements never touched by a Union count as singletons.
func (d *DisjointSet) Components(limit int) int {
	count := 0
	for i := 0; i < limit; i++ {
		if d.Find(i) == i {
			count++
		}
	}
	return count
}

// Package percolation implements incremental site percolation on a square
// lattice. Nodes carry fixed activation thresholds; as the occupation
// probability p sweeps upward, nodes with threshold <= p activate and edges
// between two active nodes merge clusters. A second disjoint-set holding two
// virtual boundary nodes detects the appearance of a top-to-bottom spanning
// cluster.
package percolation

import (
	"errors"
	"fmt"
	"math"

	"github.com/mtoledo/siteperc/internal/lattice"
	"github.com/mtoledo/siteperc/internal/unionfind"
)

// ErrDecreasingP is returned by Step when the requested p is below the
// engine's current p. Activation is monotone; the simulation cannot move
// backwards.
var ErrDecreasingP = errors.New("percolation: p below current p")

// Engine drives one percolation run. It owns two disjoint-sets: the cluster
// set over the n real nodes, used for component counts and sizes, and the
// boundary set over n+2 elements, used only to answer the spanning question.
// The two extra elements are virtual nodes pre-wired to the top and bottom
// lattice rows.
//
// The engine advances only forward in p. All activation, cluster and
// boundary state accumulated at one p is reused verbatim at the next, so a
// full sweep costs one pass over the edge list per step rather than a
// rebuild from scratch.
type Engine struct {
	n           int
	side        int
	clusters    *unionfind.DisjointSet
	boundary    *unionfind.DisjointSet
	active      []bool
	currentP    float64
	smax        int
	superTop    int
	superBottom int
}

// NewEngine creates an engine for a run over n nodes, all inactive, at
// current p = 0. n must be positive and is treated as the node count of a
// square lattice: the boundary rows span the first and last sqrt(n) nodes.
func NewEngine(n int) *Engine {
	return &Engine{
		n:           n,
		side:        int(math.Sqrt(float64(n))),
		clusters:    unionfind.New(n),
		boundary:    unionfind.New(n + 2),
		active:      make([]bool, n),
		smax:        1,
		superTop:    n,
		superBottom: n + 1,
	}
}

// Nodes returns the number of real nodes in the run.
func (e *Engine) Nodes() int {
	return e.n
}

// CurrentP returns the highest p the engine has stepped to.
func (e *Engine) CurrentP() float64 {
	return e.currentP
}

// LargestCluster returns the size of the largest cluster seen so far.
// The value starts at 1 and is maintained incrementally from merges; it is
// never recomputed by scanning all clusters.
func (e *Engine) LargestCluster() int {
	return e.smax
}

// ActiveCount returns the number of currently active nodes.
func (e *Engine) ActiveCount() int {
	count := 0
	for _, a := range e.active {
		if a {
			count++
		}
	}
	return count
}

// Components returns the current number of connected components, counting
// every inactive node as a singleton.
func (e *Engine) Components() int {
	return e.clusters.Components(e.n)
}

// ClusterIDs returns the cluster representative of every node, in node
// order. Inactive nodes are their own representatives.
func (e *Engine) ClusterIDs() []int {
	ids := make([]int, e.n)
	for i := range ids {
		ids[i] = e.clusters.Find(i)
	}
	return ids
}

// InitializeBoundaries joins the virtual top node to every node of the top
// lattice row and the virtual bottom node to every node of the bottom row,
// in the boundary set only. The wiring is unconditional: it happens before
// any activation, so HasPercolation answers purely from edge unions later.
// Safe to call more than once; repeated unions are no-ops.
func (e *Engine) InitializeBoundaries() {
	for i := 0; i < e.side; i++ {
		e.boundary.Union(e.superTop, i)
		e.boundary.Union(e.superBottom, e.n-e.side+i)
	}
}

// Step advances the run to occupation probability p and returns the number
// of connected components. It activates every inactive node whose threshold
// is <= p, then rescans the full edge list and merges the endpoints of every
// edge whose two ends are active, in both disjoint-sets. Merges of
// already-joined nodes are no-ops, which makes Step at an unchanged p
// idempotent.
//
// If p is below the engine's current p, Step mutates nothing and returns
// the current component count alongside ErrDecreasingP. Malformed input
// (threshold count mismatch, edge endpoint out of range) fails before any
// state is touched.
func (e *Engine) Step(edges []lattice.Edge, thresholds []float64, p float64) (int, error) {
	if p < e.currentP {
		return e.clusters.Components(e.n), fmt.Errorf("%w (p=%g, current=%g)", ErrDecreasingP, p, e.currentP)
	}
	if len(thresholds) != e.n {
		return 0, fmt.Errorf("thresholds length %d does not match %d nodes", len(thresholds), e.n)
	}
	for _, edge := range edges {
		if edge.U < 0 || edge.U >= e.n || edge.V < 0 || edge.V >= e.n {
			return 0, fmt.Errorf("edge (%d,%d) out of range [0,%d)", edge.U, edge.V, e.n)
		}
	}

	// Activate newly reachable nodes.
	for i := 0; i < e.n; i++ {
		if !e.active[i] && thresholds[i] <= p {
			e.active[i] = true
		}
	}

	// Merge along every edge with two active endpoints. The largest-cluster
	// size is updated only from the edges processed here: after each union
	// both endpoints report the merged component's size.
	for _, edge := range edges {
		if e.active[edge.U] && e.active[edge.V] {
			e.clusters.Union(edge.U, edge.V)

			merged := e.clusters.Size(edge.U)
			if s := e.clusters.Size(edge.V); s > merged {
				merged = s
			}
			if merged > e.smax {
				e.smax = merged
			}

			e.boundary.Union(edge.U, edge.V)
		}
	}

	e.currentP = p

	return e.clusters.Components(e.n), nil
}

// HasPercolation reports whether the two virtual boundary nodes are in the
// same component of the boundary set, i.e. whether an active path connects
// the top row to the bottom row. Once true it stays true.
func (e *Engine) HasPercolation() bool {
	return e.boundary.Find(e.superTop) == e.boundary.Find(e.superBottom)
}

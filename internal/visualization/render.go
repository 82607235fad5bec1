package visualization

import (
	"fmt"
	"math"
	"strings"
)

// cellSize is the edge length of one lattice site in SVG user units.
const cellSize = 10

// clusterFill returns the SVG fill for a node given its cluster
// representative and the cluster's size. Singleton clusters render gray
// so merged structure stands out.
func clusterFill(rep, size int) string {
	if size <= 1 {
		return "#d9d9d9"
	}
	hue := math.Mod(float64(rep)*137.508, 360)
	return fmt.Sprintf("hsl(%.1f, 65%%, 55%%)", hue)
}

// RenderSVG produces a self-contained SVG cluster map for one frame of a
// completed run: one square per lattice site, colored by cluster.
func RenderSVG(run *RunData, frame Frame) ([]byte, error) {
	if len(frame.Clusters) != run.Nodes {
		return nil, fmt.Errorf("frame has %d clusters, lattice has %d nodes",
			len(frame.Clusters), run.Nodes)
	}

	sizes := make(map[int]int, len(frame.Clusters))
	for _, rep := range frame.Clusters {
		sizes[rep]++
	}

	side := run.Side
	var b strings.Builder
	fmt.Fprintf(&b, "<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"0 0 %d %d\">\n",
		side*cellSize, side*cellSize)
	fmt.Fprintf(&b, "  <title>%dx%d lattice at p = %g</title>\n", side, side, frame.P)
	fmt.Fprintf(&b, "  <rect width=\"100%%\" height=\"100%%\" fill=\"#ffffff\"/>\n")

	for i, rep := range frame.Clusters {
		row := i / side
		col := i % side
		fmt.Fprintf(&b, "  <rect x=\"%d\" y=\"%d\" width=\"%d\" height=\"%d\" fill=\"%s\"/>\n",
			col*cellSize, row*cellSize, cellSize-1, cellSize-1, clusterFill(rep, sizes[rep]))
	}

	b.WriteString("</svg>\n")
	return []byte(b.String()), nil
}

package simulation

// Blocked is a threshold above the sweep's upper bound. A node carrying it
// never activates.
const Blocked = 2.0

// UniformThresholds returns n copies of v.
func UniformThresholds(n int, v float64) []float64 {
	thresholds := make([]float64, n)
	for i := range thresholds {
		thresholds[i] = v
	}
	return thresholds
}

// BuildThresholds fills a side*side threshold slice by calling f for every
// node coordinate, in row-major order.
func BuildThresholds(side int, f func(row, col int) float64) []float64 {
	thresholds := make([]float64, side*side)
	for row := 0; row < side; row++ {
		for col := 0; col < side; col++ {
			thresholds[row*side+col] = f(row, col)
		}
	}
	return thresholds
}

// BlockRow overwrites one full lattice row with Blocked, cutting every
// top-to-bottom path through it.
func BlockRow(thresholds []float64, side, row int) {
	for col := 0; col < side; col++ {
		thresholds[row*side+col] = Blocked
	}
}

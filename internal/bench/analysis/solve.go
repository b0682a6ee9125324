package analysis

import (
	"fmt"
	"math"
)

// solveLinearSystem solves Ab = y by Gaussian elimination with partial
// pivoting. A is modified in place. A near-zero pivot means the system is
// singular, i.e. the sweep never varied some component independently.
func solveLinearSystem(a [][]float64, y []float64) ([]float64, error) {
	n := len(a)
	if n == 0 || len(y) != n {
		return nil, fmt.Errorf("solve: invalid system dimensions")
	}

	const eps = 1e-12

	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) < eps {
			return nil, fmt.Errorf("solve: singular system at column %d", col)
		}
		a[col], a[pivot] = a[pivot], a[col]
		y[col], y[pivot] = y[pivot], y[col]

		for r := col + 1; r < n; r++ {
			factor := a[r][col] / a[col][col]
			if factor == 0 {
				continue
			}
			for c := col; c < n; c++ {
				a[r][c] -= factor * a[col][c]
			}
			y[r] -= factor * y[col]
		}
	}

	b := make([]float64, n)
	for row := n - 1; row >= 0; row-- {
		sum := y[row]
		for c := row + 1; c < n; c++ {
			sum -= a[row][c] * b[c]
		}
		b[row] = sum / a[row][row]
	}
	return b, nil
}

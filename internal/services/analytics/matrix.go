package analytics

import "math"

const pivotEpsilon = 1e-12

// invertMatrix computes the inverse of a square matrix via Gauss-Jordan
// elimination with partial pivoting. Returns (nil, false) when the
// matrix is singular or near-singular.
func invertMatrix(m [][]float64) ([][]float64, bool) {
	n := len(m)
	if n == 0 {
		return nil, false
	}

	// augmented [m | I]
	aug := make([][]float64, n)
	for i := 0; i < n; i++ {
		if len(m[i]) != n {
			return nil, false
		}
		aug[i] = make([]float64, 2*n)
		copy(aug[i], m[i])
		aug[i][n+i] = 1
	}

	for col := 0; col < n; col++ {
		// partial pivot: pick the row with the largest magnitude in col
		pivot := col
		for row := col + 1; row < n; row++ {
			if math.Abs(aug[row][col]) > math.Abs(aug[pivot][col]) {
				pivot = row
			}
		}
		if math.Abs(aug[pivot][col]) < pivotEpsilon {
			return nil, false
		}
		aug[col], aug[pivot] = aug[pivot], aug[col]

		pv := aug[col][col]
		for j := 0; j < 2*n; j++ {
			aug[col][j] /= pv
		}

		for row := 0; row < n; row++ {
			if row == col {
				continue
			}
			factor := aug[row][col]
			if factor == 0 {
				continue
			}
			for j := 0; j < 2*n; j++ {
				aug[row][j] -= factor * aug[col][j]
			}
		}
	}

	inv := make([][]float64, n)
	for i := 0; i < n; i++ {
		inv[i] = aug[i][n:]
	}
	return inv, true
}

// covarianceMatrix computes the sample covariance of the window rows.
// window is laid out as [day][asset]; means has one entry per asset.
func covarianceMatrix(window [][]float64, means []float64) [][]float64 {
	n := len(means)
	rows := len(window)
	cov := make([][]float64, n)
	for i := range cov {
		cov[i] = make([]float64, n)
	}
	if rows < 2 {
		return cov
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sum := 0.0
			for r := 0; r < rows; r++ {
				sum += (window[r][i] - means[i]) * (window[r][j] - means[j])
			}
			c := sum / float64(rows-1)
			cov[i][j], cov[j][i] = c, c
		}
	}
	return cov
}

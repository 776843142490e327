// Package interp samples regular lat/lon grids.
package interp

import (
	"fmt"
	"math"
	"sort"
)

// GridCell is one rectangle of a regular grid with its four corner values.
// A NaN corner is treated as missing.
type GridCell struct {
	X0, X1 float64 // Longitude bounds.
	Y0, Y1 float64 // Latitude bounds.

	// V00 is at (X0, Y0), V10 at (X1, Y0), V01 at (X0, Y1), V11 at (X1, Y1).
	V00, V10, V01, V11 float64
}

// BilinearInterpolate interpolates within cell:
//
//	f(x,y) ≈ (1-t)(1-u)f(x0,y0) + t(1-u)f(x1,y0) + (1-t)u*f(x0,y1) + tu*f(x1,y1)
//
// with t = (x - x0) / (x1 - x0) and u = (y - y0) / (y1 - y0).
//
// Missing corners are dropped and the remaining weights renormalized, so a
// point next to a land/sea mask edge still gets a value. It returns NaN when
// every corner with a non-zero weight is missing.
func BilinearInterpolate(cell GridCell, x, y float64) (float64, error) {
	if cell.X1 <= cell.X0 {
		return 0, fmt.Errorf("invalid grid cell: X1 must be > X0")
	}
	if cell.Y1 <= cell.Y0 {
		return 0, fmt.Errorf("invalid grid cell: Y1 must be > Y0")
	}

	const epsilon = 1e-9
	if x < cell.X0-epsilon || x > cell.X1+epsilon {
		return 0, fmt.Errorf("x coordinate %.6f is outside grid cell [%.6f, %.6f]", x, cell.X0, cell.X1)
	}
	if y < cell.Y0-epsilon || y > cell.Y1+epsilon {
		return 0, fmt.Errorf("y coordinate %.6f is outside grid cell [%.6f, %.6f]", y, cell.Y0, cell.Y1)
	}

	t := math.Max(0, math.Min(1, (x-cell.X0)/(cell.X1-cell.X0)))
	u := math.Max(0, math.Min(1, (y-cell.Y0)/(cell.Y1-cell.Y0)))

	corners := [4]struct{ w, v float64 }{
		{(1 - t) * (1 - u), cell.V00},
		{t * (1 - u), cell.V10},
		{(1 - t) * u, cell.V01},
		{t * u, cell.V11},
	}

	var sum, weight float64
	for _, c := range corners {
		if c.w == 0 || math.IsNaN(c.v) {
			continue
		}
		sum += c.w * c.v
		weight += c.w
	}
	if weight == 0 {
		return math.NaN(), nil
	}
	return sum / weight, nil
}

// Grid2D is a regular grid with strictly increasing axes.
type Grid2D struct {
	X      []float64   // Longitudes.
	Y      []float64   // Latitudes.
	Values [][]float64 // Values[i][j] is the sample at (X[j], Y[i]).
}

// Validate checks the grid shape and axis ordering.
func (g *Grid2D) Validate() error {
	if len(g.X) < 2 {
		return fmt.Errorf("grid must have at least 2 X coordinates")
	}
	if len(g.Y) < 2 {
		return fmt.Errorf("grid must have at least 2 Y coordinates")
	}
	if len(g.Values) != len(g.Y) {
		return fmt.Errorf("number of value rows (%d) must match Y coordinates (%d)", len(g.Values), len(g.Y))
	}
	for i, row := range g.Values {
		if len(row) != len(g.X) {
			return fmt.Errorf("row %d has %d values, expected %d", i, len(row), len(g.X))
		}
	}
	if !strictlyIncreasing(g.X) {
		return fmt.Errorf("X coordinates must be strictly increasing")
	}
	if !strictlyIncreasing(g.Y) {
		return fmt.Errorf("Y coordinates must be strictly increasing")
	}
	return nil
}

func strictlyIncreasing(axis []float64) bool {
	for i := 1; i < len(axis); i++ {
		if axis[i] <= axis[i-1] {
			return false
		}
	}
	return true
}

// Contains reports whether (x, y) lies inside the grid extent.
func (g *Grid2D) Contains(x, y float64) bool {
	if len(g.X) == 0 || len(g.Y) == 0 {
		return false
	}
	return x >= g.X[0] && x <= g.X[len(g.X)-1] && y >= g.Y[0] && y <= g.Y[len(g.Y)-1]
}

// cellIndex returns i such that axis[i] <= v <= axis[i+1].
func cellIndex(axis []float64, v float64) int {
	i := sort.SearchFloat64s(axis, v)
	if i > 0 {
		i--
	}
	if i > len(axis)-2 {
		i = len(axis) - 2
	}
	return i
}

// InterpolateAt interpolates the grid at (x, y).
func (g *Grid2D) InterpolateAt(x, y float64) (float64, error) {
	if err := g.Validate(); err != nil {
		return 0, fmt.Errorf("invalid grid: %w", err)
	}
	if x < g.X[0] || x > g.X[len(g.X)-1] {
		return 0, fmt.Errorf("x coordinate %.6f is outside grid range [%.6f, %.6f]", x, g.X[0], g.X[len(g.X)-1])
	}
	if y < g.Y[0] || y > g.Y[len(g.Y)-1] {
		return 0, fmt.Errorf("y coordinate %.6f is outside grid range [%.6f, %.6f]", y, g.Y[0], g.Y[len(g.Y)-1])
	}

	xi := cellIndex(g.X, x)
	yi := cellIndex(g.Y, y)

	return BilinearInterpolate(GridCell{
		X0:  g.X[xi],
		X1:  g.X[xi+1],
		Y0:  g.Y[yi],
		Y1:  g.Y[yi+1],
		V00: g.Values[yi][xi],
		V10: g.Values[yi][xi+1],
		V01: g.Values[yi+1][xi],
		V11: g.Values[yi+1][xi+1],
	}, x, y)
}

// Nearest returns the sample closest to (x, y), clamped to the grid edge.
func (g *Grid2D) Nearest(x, y float64) float64 {
	return g.Values[nearestIndex(g.Y, y)][nearestIndex(g.X, x)]
}

func nearestIndex(axis []float64, v float64) int {
	i := sort.SearchFloat64s(axis, v)
	switch {
	case i == 0:
		return 0
	case i == len(axis):
		return len(axis) - 1
	case v-axis[i-1] < axis[i]-v:
		return i - 1
	}
	return i
}

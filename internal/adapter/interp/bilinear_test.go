package interp

import (
	"math"
	"testing"
)

func terrainGrid() *Grid2D {
	return &Grid2D{
		X: []float64{39.0, 39.5, 40.0},
		Y: []float64{21.0, 21.5, 22.0},
		Values: [][]float64{
			{100, 200, 300},
			{400, 500, 600},
			{700, 800, 900},
		},
	}
}

// TestBilinearInterpolate_CenterPoint tests interpolation at the center of a grid cell
func TestBilinearInterpolate_CenterPoint(t *testing.T) {
	cell := GridCell{
		X0: 0, X1: 2,
		Y0: 0, Y1: 2,
		V00: 1, V10: 3,
		V01: 5, V11: 7,
	}

	result, err := BilinearInterpolate(cell, 1, 1)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if math.Abs(result-4) > 1e-9 {
		t.Errorf("Center point: expected 4, got %.10f", result)
	}
}

// TestBilinearInterpolate_MissingCorners tests that NaN corners are dropped
func TestBilinearInterpolate_MissingCorners(t *testing.T) {
	nan := math.NaN()
	cell := GridCell{
		X0: 0, X1: 1,
		Y0: 0, Y1: 1,
		V00: 10, V10: nan,
		V01: 30, V11: nan,
	}

	// Only the x=0 edge has data, so the x weight drops out.
	result, err := BilinearInterpolate(cell, 0.5, 0.5)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if math.Abs(result-20) > 1e-9 {
		t.Errorf("expected 20, got %.10f", result)
	}

	// On the missing edge itself nothing contributes.
	result, err = BilinearInterpolate(cell, 1, 0.5)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !math.IsNaN(result) {
		t.Errorf("expected NaN on missing edge, got %.10f", result)
	}
}

// TestBilinearInterpolate_OutOfBounds tests error handling for out-of-bounds points
func TestBilinearInterpolate_OutOfBounds(t *testing.T) {
	cell := GridCell{X0: 0, X1: 10, Y0: 0, Y1: 10, V00: 1, V10: 2, V01: 3, V11: 4}

	for _, p := range [][2]float64{{-1, 5}, {11, 5}, {5, -1}, {5, 11}} {
		if _, err := BilinearInterpolate(cell, p[0], p[1]); err == nil {
			t.Errorf("expected error for point (%.1f, %.1f)", p[0], p[1])
		}
	}
}

// TestGrid2D_InterpolateAt tests sampling at nodes and between them
func TestGrid2D_InterpolateAt(t *testing.T) {
	grid := terrainGrid()

	tests := []struct {
		x, y     float64
		expected float64
	}{
		{39.0, 21.0, 100},
		{40.0, 22.0, 900},
		{39.5, 21.5, 500},
		{39.25, 21.25, 300},
		{39.75, 21.0, 250},
	}

	for _, tt := range tests {
		result, err := grid.InterpolateAt(tt.x, tt.y)
		if err != nil {
			t.Fatalf("Unexpected error at (%.2f, %.2f): %v", tt.x, tt.y, err)
		}
		if math.Abs(result-tt.expected) > 1e-9 {
			t.Errorf("At (%.2f, %.2f): expected %.4f, got %.4f", tt.x, tt.y, tt.expected, result)
		}
	}

	if _, err := grid.InterpolateAt(41, 21.5); err == nil {
		t.Error("expected error outside the grid")
	}
}

// TestGrid2D_Nearest tests nearest-node lookup and edge clamping
func TestGrid2D_Nearest(t *testing.T) {
	grid := terrainGrid()

	if got := grid.Nearest(39.2, 21.9); got != 700 {
		t.Errorf("Nearest(39.2, 21.9) = %v, want 700", got)
	}
	if got := grid.Nearest(50, -10); got != 300 {
		t.Errorf("Nearest clamped = %v, want 300", got)
	}
	if !grid.Contains(39.5, 21.5) || grid.Contains(38, 21.5) {
		t.Error("Contains mismatch")
	}
}

// TestGrid2D_Validate tests grid validation
func TestGrid2D_Validate(t *testing.T) {
	tests := []struct {
		name    string
		grid    *Grid2D
		wantErr bool
	}{
		{"valid grid", terrainGrid(), false},
		{"too few X coords", &Grid2D{X: []float64{0}, Y: []float64{0, 1}, Values: [][]float64{{1}, {2}}}, true},
		{"mismatched row count", &Grid2D{X: []float64{0, 1}, Y: []float64{0, 1}, Values: [][]float64{{1, 2}}}, true},
		{"mismatched column count", &Grid2D{X: []float64{0, 1, 2}, Y: []float64{0, 1}, Values: [][]float64{{1, 2}, {3, 4}}}, true},
		{"descending Y", &Grid2D{X: []float64{0, 1}, Y: []float64{1, 0}, Values: [][]float64{{1, 2}, {3, 4}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.grid.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

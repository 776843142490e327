package elevation

import (
	"fmt"
	"math"

	"github.com/fhs/go-netcdf/netcdf"

	"go.ngs.io/praytimes/internal/adapter/interp"
)

// variableNames lists candidate variable names, tried in order.
type variableNames struct {
	lat  []string
	lon  []string
	data []string
}

var (
	terrainVars = variableNames{
		lat:  []string{"lat", "latitude", "y"},
		lon:  []string{"lon", "longitude", "x"},
		data: []string{"elevation", "z", "Band1"},
	}
	geoidVars = variableNames{
		lat:  []string{"lat", "latitude", "y"},
		lon:  []string{"lon", "longitude", "x"},
		data: []string{"geoid", "N", "z"},
	}
)

func findVar(nc netcdf.Dataset, names []string) (netcdf.Var, string, error) {
	for _, name := range names {
		if v, err := nc.Var(name); err == nil {
			return v, name, nil
		}
	}
	return netcdf.Var{}, "", fmt.Errorf("variable not found (tried: %v)", names)
}

// loadGridSubset reads the part of a 2D grid within ±margin degrees of the
// target. A zero margin loads the whole grid. Descending latitude axes are
// flipped so the result always has increasing axes.
//
//nolint:gocyclo // Axis orientation and subset bounds are handled inline.
func loadGridSubset(path string, names variableNames, targetLat, targetLon, margin float64) (*interp.Grid2D, error) {
	nc, err := netcdf.OpenFile(path, netcdf.NOWRITE)
	if err != nil {
		return nil, fmt.Errorf("failed to open NetCDF file: %w", err)
	}
	defer func() { _ = nc.Close() }()

	latVar, _, err := findVar(nc, names.lat)
	if err != nil {
		return nil, fmt.Errorf("latitude: %w", err)
	}
	lonVar, _, err := findVar(nc, names.lon)
	if err != nil {
		return nil, fmt.Errorf("longitude: %w", err)
	}
	dataVar, dataName, err := findVar(nc, names.data)
	if err != nil {
		return nil, fmt.Errorf("data: %w", err)
	}

	lats, err := readAxis(latVar)
	if err != nil {
		return nil, fmt.Errorf("failed to read latitude: %w", err)
	}
	lons, err := readAxis(lonVar)
	if err != nil {
		return nil, fmt.Errorf("failed to read longitude: %w", err)
	}
	if len(lats) < 2 || len(lons) < 2 {
		return nil, fmt.Errorf("grid axes too short: %d x %d", len(lats), len(lons))
	}

	latDescending := lats[0] > lats[len(lats)-1]
	latStart, latEnd := 0, len(lats)
	lonStart, lonEnd := 0, len(lons)

	if margin > 0 {
		latStart, latEnd = axisWindow(lats, targetLat-margin, targetLat+margin)
		lon := normalizeLonForAxis(lons, targetLon)
		lonStart, lonEnd = axisWindow(lons, lon-margin, lon+margin)
	}

	dims, err := dataVar.Dims()
	if err != nil {
		return nil, fmt.Errorf("failed to get dimensions of %s: %w", dataName, err)
	}
	if len(dims) != 2 {
		return nil, fmt.Errorf("expected 2D %s, got %dD", dataName, len(dims))
	}
	dim0, err := dims[0].Len()
	if err != nil {
		return nil, err
	}
	dim1, err := dims[1].Len()
	if err != nil {
		return nil, err
	}

	nLat, nLon := latEnd-latStart, lonEnd-lonStart
	var values [][]float64
	//nolint:gosec // G115: indices come from axis lengths.
	switch {
	case dim0 == uint64(len(lats)) && dim1 == uint64(len(lons)):
		values, err = readWindow(dataVar, []uint64{uint64(latStart), uint64(lonStart)}, nLat, nLon)
	case dim0 == uint64(len(lons)) && dim1 == uint64(len(lats)):
		var transposed [][]float64
		transposed, err = readWindow(dataVar, []uint64{uint64(lonStart), uint64(latStart)}, nLon, nLat)
		values = transpose2D(transposed)
	default:
		return nil, fmt.Errorf("dimension mismatch: %s is [%d, %d], axes are lat=%d lon=%d",
			dataName, dim0, dim1, len(lats), len(lons))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dataName, err)
	}

	subLat := append([]float64(nil), lats[latStart:latEnd]...)
	subLon := append([]float64(nil), lons[lonStart:lonEnd]...)
	if latDescending {
		reverse(subLat)
		reverse(values)
	}

	grid := &interp.Grid2D{X: subLon, Y: subLat, Values: values}
	if err := grid.Validate(); err != nil {
		return nil, fmt.Errorf("invalid grid: %w", err)
	}
	return grid, nil
}

// axisWindow returns the half-open index range covering [lo, hi], widened
// to at least two points.
func axisWindow(axis []float64, lo, hi float64) (int, int) {
	a := findNearestIndex(axis, lo)
	b := findNearestIndex(axis, hi)
	if a > b {
		a, b = b, a
	}
	start := clamp(a, 0, len(axis)-2)
	end := clamp(b+1, start+2, len(axis))
	return start, end
}

func readAxis(v netcdf.Var) ([]float64, error) {
	dims, err := v.Dims()
	if err != nil {
		return nil, err
	}
	if len(dims) != 1 {
		return nil, fmt.Errorf("expected 1D axis, got %dD", len(dims))
	}
	n, err := dims[0].Len()
	if err != nil {
		return nil, err
	}
	return readWindow1D(v, n)
}

func readWindow1D(v netcdf.Var, n uint64) ([]float64, error) {
	rows, err := readWindow(v, []uint64{0}, 1, int(n)) //nolint:gosec // axis length
	if err != nil {
		return nil, err
	}
	return rows[0], nil
}

// readWindow reads nRows x nCols values starting at start, converting the
// stored type to float64. _FillValue cells become NaN; scale_factor and
// add_offset are applied.
func readWindow(v netcdf.Var, start []uint64, nRows, nCols int) ([][]float64, error) {
	varType, err := v.Type()
	if err != nil {
		return nil, fmt.Errorf("failed to get variable type: %w", err)
	}

	total := nRows * nCols
	count := []uint64{uint64(nRows), uint64(nCols)} //nolint:gosec // window sizes are positive
	if len(start) == 1 {
		count = count[1:]
	}

	flat := make([]float64, total)
	switch varType {
	case netcdf.DOUBLE:
		err = v.ReadFloat64Slice(flat, start, count)
	case netcdf.FLOAT:
		buf := make([]float32, total)
		if err = v.ReadFloat32Slice(buf, start, count); err == nil {
			for i, x := range buf {
				flat[i] = float64(x)
			}
		}
	case netcdf.INT:
		buf := make([]int32, total)
		if err = v.ReadInt32Slice(buf, start, count); err == nil {
			for i, x := range buf {
				flat[i] = float64(x)
			}
		}
	case netcdf.SHORT:
		buf := make([]int16, total)
		if err = v.ReadInt16Slice(buf, start, count); err == nil {
			for i, x := range buf {
				flat[i] = float64(x)
			}
		}
	default:
		return nil, fmt.Errorf("unsupported data type %v (expected DOUBLE, FLOAT, INT or SHORT)", varType)
	}
	if err != nil {
		return nil, err
	}

	fill, hasFill := scalarAttr(v, "_FillValue")
	scale, hasScale := scalarAttr(v, "scale_factor")
	offset, _ := scalarAttr(v, "add_offset")
	if !hasScale || scale == 0 {
		scale = 1
	}
	for i, x := range flat {
		if hasFill && x == fill {
			flat[i] = math.NaN()
			continue
		}
		flat[i] = x*scale + offset
	}

	values := make([][]float64, nRows)
	for i := range values {
		values[i] = flat[i*nCols : (i+1)*nCols]
	}
	return values, nil
}

// scalarAttr reads a numeric attribute of any common type.
func scalarAttr(v netcdf.Var, name string) (float64, bool) {
	a := v.Attr(name)
	if n, err := a.Len(); err != nil || n == 0 {
		return 0, false
	}
	if buf := make([]float64, 1); a.ReadFloat64s(buf) == nil {
		return buf[0], true
	}
	if buf := make([]float32, 1); a.ReadFloat32s(buf) == nil {
		return float64(buf[0]), true
	}
	if buf := make([]int32, 1); a.ReadInt32s(buf) == nil {
		return float64(buf[0]), true
	}
	if buf := make([]int16, 1); a.ReadInt16s(buf) == nil {
		return float64(buf[0]), true
	}
	return 0, false
}

func transpose2D(data [][]float64) [][]float64 {
	if len(data) == 0 {
		return data
	}
	out := make([][]float64, len(data[0]))
	for i := range out {
		out[i] = make([]float64, len(data))
		for j := range data {
			out[i][j] = data[j][i]
		}
	}
	return out
}

func reverse[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// findNearestIndex returns the index of the value closest to target in a
// monotonic axis.
func findNearestIndex(axis []float64, target float64) int {
	best := 0
	if len(axis) < 2 {
		return best
	}
	descending := axis[0] > axis[len(axis)-1]
	left, right := 0, len(axis)-1
	for left < right {
		mid := (left + right) / 2
		below := axis[mid] < target
		if descending {
			below = axis[mid] > target
		}
		if below {
			left = mid + 1
		} else {
			right = mid
		}
	}
	best = left
	if left > 0 && math.Abs(axis[left-1]-target) < math.Abs(axis[left]-target) {
		best = left - 1
	}
	return best
}

func clamp(value, lo, hi int) int {
	return max(lo, min(value, hi))
}

// lonAxisRequiresWrap reports whether the axis runs 0..360.
func lonAxisRequiresWrap(lons []float64) bool {
	if len(lons) == 0 {
		return false
	}
	lo, hi := lons[0], lons[len(lons)-1]
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo >= 0 && hi > 180
}

func normalizeLon360(lon float64) float64 {
	lon = math.Mod(lon, 360)
	if lon < 0 {
		lon += 360
	}
	return lon
}

func normalizeLonForAxis(lons []float64, lon float64) float64 {
	if lonAxisRequiresWrap(lons) {
		return normalizeLon360(lon)
	}
	return lon
}

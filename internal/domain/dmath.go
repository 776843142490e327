package domain

import "math"

// Degree-based trigonometry. Every angle that enters or leaves the solar
// model is expressed in degrees.

func degToRad(d float64) float64 { return d * math.Pi / 180.0 }

func radToDeg(r float64) float64 { return r * 180.0 / math.Pi }

func dsin(d float64) float64 { return math.Sin(degToRad(d)) }

func dcos(d float64) float64 { return math.Cos(degToRad(d)) }

func dtan(d float64) float64 { return math.Tan(degToRad(d)) }

func darcsin(x float64) float64 { return radToDeg(math.Asin(x)) }

// darccos returns NaN when x is outside [-1, 1].
func darccos(x float64) float64 { return radToDeg(math.Acos(x)) }

func darctan(x float64) float64 { return radToDeg(math.Atan(x)) }

func darccot(x float64) float64 { return radToDeg(math.Atan(1.0 / x)) }

func darctan2(y, x float64) float64 { return radToDeg(math.Atan2(y, x)) }

// fixAngle reduces an angle to [0, 360).
func fixAngle(a float64) float64 { return fix(a, 360.0) }

// fixHour reduces an hour value to [0, 24).
func fixHour(h float64) float64 { return fix(h, 24.0) }

// fix is a floored modulo: the result has the sign of base.
// NaN stays NaN.
func fix(num, base float64) float64 {
	num = math.Mod(num, base)
	if num < 0 {
		return num + base
	}
	return num
}

// timeDiff returns the forward distance in hours from t1 to t2, modulo 24.
func timeDiff(t1, t2 float64) float64 {
	return fixHour(t2 - t1)
}

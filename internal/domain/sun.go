package domain

// sunPosition holds the solar quantities needed by the hour-angle solver.
type sunPosition struct {
	declination float64 // Degrees.
	equation    float64 // Equation of time in hours.
}

// computeSunPosition evaluates the low-precision solar model at a Julian
// instant. All angles are in degrees.
//
//	d    = jd - 2451545.0
//	g    = 357.529 + 0.98560028 d           (mean anomaly)
//	q    = 280.459 + 0.98564736 d           (mean longitude)
//	L    = q + 1.915 sin g + 0.020 sin 2g   (ecliptic longitude)
//	e    = 23.439 - 0.00000036 d            (obliquity)
//	RA   = atan2(cos e sin L, cos L) / 15
//	eqt  = q/15 - RA
//	decl = asin(sin e sin L)
func computeSunPosition(jd float64) sunPosition {
	d := jd - J2000

	g := fixAngle(357.529 + 0.98560028*d)
	q := fixAngle(280.459 + 0.98564736*d)
	l := fixAngle(q + 1.915*dsin(g) + 0.020*dsin(2*g))

	e := 23.439 - 0.00000036*d

	ra := darctan2(dcos(e)*dsin(l), dcos(l)) / 15.0
	eqt := q/15.0 - fixHour(ra)
	decl := darcsin(dsin(e) * dsin(l))

	return sunPosition{
		declination: decl,
		equation:    eqt,
	}
}

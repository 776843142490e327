package domain

// hourAngle returns the time in hours between solar noon and the moment the
// sun is angle degrees below the horizon (negative angles are above it).
// The declination is evaluated at jd + fraction.
//
// When the sun never reaches the requested angle on that day the arc-cosine
// argument leaves [-1, 1] and the result is NaN. Callers let the NaN flow
// through their arithmetic and only turn it into an absent value when the
// final timestamp is built.
func hourAngle(jd, fraction, angle, latitude float64) float64 {
	decl := computeSunPosition(jd + fraction).declination

	return (1.0 / 15.0) * darccos(
		(-dsin(angle)-dsin(decl)*dsin(latitude))/
			(dcos(decl)*dcos(latitude)),
	)
}

// solarNoon returns the hour of local solar noon, expressed in UTC hours,
// using the equation of time evaluated at jd + fraction.
func solarNoon(jd, fraction, longitude float64) float64 {
	eqt := computeSunPosition(jd + fraction).equation
	return fixHour(12.0-eqt) - longitude/15.0
}

package domain

import (
	"math"
	"time"
)

// Time fractions of the day at which each event is first estimated.
const (
	fracFajr    = 5.0 / 24.0
	fracSunrise = 6.0 / 24.0
	fracDhuhr   = 12.0 / 24.0
	fracAsr     = 13.0 / 24.0
	fracSunset  = 18.0 / 24.0
)

// Calculator computes prayer times for a fixed set of parameters and
// tuning offsets. It holds no mutable state, so one Calculator may be
// shared between goroutines.
type Calculator struct {
	params Parameters
	tune   TuneOffsets
}

// NewCalculator returns a calculator for params with tune applied to every
// result.
func NewCalculator(params Parameters, tune TuneOffsets) *Calculator {
	return &Calculator{params: params, tune: tune}
}

// Parameters returns the calculation parameters.
func (c *Calculator) Parameters() Parameters { return c.params }

// Tuning returns the tuning offsets.
func (c *Calculator) Tuning() TuneOffsets { return c.tune }

// Calculate returns the tuned prayer times for loc on date.
func (c *Calculator) Calculate(loc Location, date CalendarDate) Times {
	return Tune(c.CalculateRaw(loc, date), c.tune)
}

// CalculateRaw returns the prayer times for loc on date without tuning.
func (c *Calculator) CalculateRaw(loc Location, date CalendarDate) Times {
	h := computeHours(c.params, loc, JulianDate(date, loc.Longitude))

	return Times{
		Imsak:    hoursToTime(date, h.imsak),
		Fajr:     hoursToTime(date, h.fajr),
		Sunrise:  hoursToTime(date, h.sunrise),
		Dhuhr:    hoursToTime(date, h.dhuhr),
		Asr:      hoursToTime(date, h.asr),
		Sunset:   hoursToTime(date, h.sunset),
		Maghrib:  hoursToTime(date, h.maghrib),
		Isha:     hoursToTime(date, h.isha),
		Midnight: hoursToTime(date, h.midnight),
	}
}

// Hours returns the untuned event times as UTC hours after the date's
// midnight. Absent events are NaN.
func (c *Calculator) Hours(loc Location, date CalendarDate) map[Prayer]float64 {
	h := computeHours(c.params, loc, JulianDate(date, loc.Longitude))
	return map[Prayer]float64{
		Imsak:    h.imsak,
		Fajr:     h.fajr,
		Sunrise:  h.sunrise,
		Dhuhr:    h.dhuhr,
		Asr:      h.asr,
		Sunset:   h.sunset,
		Maghrib:  h.maghrib,
		Isha:     h.isha,
		Midnight: h.midnight,
	}
}

// dayHours are the raw event times in UTC hours. NaN marks an event the
// sun never reaches.
type dayHours struct {
	imsak, fajr, sunrise, dhuhr, asr, sunset, maghrib, isha, midnight float64
}

// dayContext carries the per-call inputs shared by every event formula.
type dayContext struct {
	p   *Parameters
	loc Location
	jd  float64
}

func computeHours(p Parameters, loc Location, jd float64) dayHours {
	dc := dayContext{p: &p, loc: loc, jd: jd}

	var h dayHours
	h.sunrise = dc.sunrise()
	h.sunset = dc.sunset()
	night := timeDiff(h.sunset, h.sunrise)

	h.fajr = dc.fajr(h.sunrise, night)
	h.imsak = dc.imsak(h.fajr, h.sunrise, night)
	h.dhuhr = dc.dhuhr()
	h.asr = dc.asr()
	h.maghrib = dc.maghrib(h.sunset, night)
	h.isha = dc.isha(h.maghrib, h.sunset, night)
	h.midnight = dc.midnight(h.sunset, h.sunrise, h.fajr)
	return h
}

func (dc dayContext) noon(fraction float64) float64 {
	return solarNoon(dc.jd, fraction, dc.loc.Longitude)
}

func (dc dayContext) sunAngleTime(fraction, angle float64) float64 {
	return hourAngle(dc.jd, fraction, angle, dc.loc.Latitude)
}

// riseSetAngle is the refraction correction plus the dip of the horizon
// seen from elev meters. A negative elevation yields NaN.
func (dc dayContext) riseSetAngle() float64 {
	return 0.833 + 0.0347*math.Sqrt(dc.loc.Elevation)
}

func (dc dayContext) sunrise() float64 {
	return dc.noon(fracSunrise) - dc.sunAngleTime(fracSunrise, dc.riseSetAngle())
}

func (dc dayContext) sunset() float64 {
	return dc.noon(fracSunset) + dc.sunAngleTime(fracSunset, dc.riseSetAngle())
}

func (dc dayContext) dhuhr() float64 {
	return dc.noon(fracDhuhr) + dc.p.Dhuhr/60.0
}

// asr is the time the shadow of an object equals factor times its length
// plus the noon shadow.
func (dc dayContext) asr() float64 {
	decl := computeSunPosition(dc.jd + fracAsr).declination
	angle := -darccot(dc.p.Asr + dtan(math.Abs(dc.loc.Latitude-decl)))
	return dc.noon(fracAsr) + dc.sunAngleTime(fracAsr, angle)
}

// beforeSunrise solves a dawn angle and applies the high latitude policy
// against sunrise.
func (dc dayContext) beforeSunrise(angle, sunrise, night float64) float64 {
	t := dc.noon(fracFajr) - dc.sunAngleTime(fracFajr, angle)
	portion := nightPortion(dc.p.HighLats, angle, night)
	if needsAdjustment(dc.p.HighLats, t, sunrise, portion) {
		return sunrise - portion
	}
	return t
}

// afterSunset solves a dusk angle and applies the high latitude policy
// against sunset.
func (dc dayContext) afterSunset(angle, sunset, night float64) float64 {
	t := dc.noon(fracSunset) + dc.sunAngleTime(fracSunset, angle)
	portion := nightPortion(dc.p.HighLats, angle, night)
	if needsAdjustment(dc.p.HighLats, t, sunset, portion) {
		return sunset + portion
	}
	return t
}

func (dc dayContext) fajr(sunrise, night float64) float64 {
	return dc.beforeSunrise(dc.p.Fajr, sunrise, night)
}

func (dc dayContext) imsak(fajr, sunrise, night float64) float64 {
	switch dc.p.Imsak.Kind {
	case UnitMinutes:
		return fajr - dc.p.Imsak.Value/60.0
	default:
		return dc.beforeSunrise(dc.p.Imsak.Value, sunrise, night)
	}
}

func (dc dayContext) maghrib(sunset, night float64) float64 {
	switch dc.p.Maghrib.Kind {
	case UnitMinutes:
		return sunset + dc.p.Maghrib.Value/60.0
	default:
		return dc.afterSunset(dc.p.Maghrib.Value, sunset, night)
	}
}

func (dc dayContext) isha(maghrib, sunset, night float64) float64 {
	switch dc.p.Isha.Kind {
	case UnitMinutes:
		return maghrib + dc.p.Isha.Value/60.0
	default:
		return dc.afterSunset(dc.p.Isha.Value, sunset, night)
	}
}

func (dc dayContext) midnight(sunset, sunrise, fajr float64) float64 {
	switch dc.p.Midnight {
	case MidnightJafari:
		return sunset + timeDiff(sunset, fajr)/2.0
	default:
		return sunset + timeDiff(sunset, sunrise)/2.0
	}
}

// nightPortion returns the share of the night that bounds an event under
// policy. It is NaN for HighLatNone.
func nightPortion(policy HighLatMethod, angle, night float64) float64 {
	var portion float64
	switch policy {
	case HighLatAngleBased:
		portion = angle / 60.0
	case HighLatOneSeventh:
		portion = 1.0 / 7.0
	case HighLatNone:
		portion = math.NaN()
	default:
		portion = 1.0 / 2.0
	}
	return portion * night
}

// needsAdjustment reports whether a solved time t must be replaced by the
// night-portion estimate. NaN always needs it; under HighLatNone the
// replacement is itself NaN, so the event stays absent.
func needsAdjustment(policy HighLatMethod, t, base, portion float64) bool {
	if math.IsNaN(t) {
		return true
	}
	return policy != HighLatNone && math.Abs(t-base) > portion
}

// hoursToTime anchors an hour value to the date's UTC midnight with
// millisecond resolution. NaN and infinite hours are absent.
func hoursToTime(date CalendarDate, hours float64) *time.Time {
	if math.IsNaN(hours) || math.IsInf(hours, 0) {
		return nil
	}
	ms := int64(hours * 3600.0 * 1000.0)
	t := date.Midnight().Add(time.Duration(ms) * time.Millisecond)
	return &t
}

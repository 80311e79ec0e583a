package astro

import (
	"math"
	"time"
)

// This file is the lunar position routine: a truncated-series geocentric
// ephemeris good to a fraction of a degree, which is plenty for rise/set
// times on a printed schedule (a degree of position error moves moonrise
// by a couple of minutes).

// DMS is a degree-minute-second triple, the coordinate form the lunar
// routine accepts at its boundary. Neg carries the sign so that values
// between -1 and 0 degrees survive the round trip.
type DMS struct {
	Deg int
	Min int
	Sec float64
	Neg bool
}

// DMSFromDegrees converts decimal degrees into a DMS triple.
func DMSFromDegrees(d float64) DMS {
	var out DMS
	if d < 0 {
		out.Neg = true
		d = -d
	}
	out.Deg = int(d)
	rem := (d - float64(out.Deg)) * 60
	out.Min = int(rem)
	out.Sec = (rem - float64(out.Min)) * 60
	return out
}

// Degrees converts the triple back to decimal degrees.
func (d DMS) Degrees() float64 {
	v := float64(d.Deg) + float64(d.Min)/60 + d.Sec/3600
	if d.Neg {
		return -v
	}
	return v
}

// MoonTimes are the rise and set instants of the moon within one local
// calendar day. A nil field means the event does not occur that day.
type MoonTimes struct {
	Rise *time.Time
	Set  *time.Time
}

// MoonState is the phase description of the moon at one instant. The
// phase is a global property, independent of the observer.
type MoonState struct {
	// PhaseIndex grows monotonically over the synodic cycle on a 0-100
	// scale matching the classification table: ~0 new, ~25 full.
	PhaseIndex float64
	// Illumination is the illuminated fraction in percent (0 new, 100 full).
	Illumination float64
	// Colongitude is the approximate selenographic colongitude in degrees.
	Colongitude float64
}

func deg2rad(d float64) float64 { return d * math.Pi / 180 }

func normalize360(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}

// julianDay returns the Julian day number for t.
func julianDay(t time.Time) float64 {
	t = t.UTC()
	y := t.Year()
	m := int(t.Month())
	if m <= 2 {
		y--
		m += 12
	}
	a := y / 100
	b := 2 - a + a/4
	day := float64(t.Day()) +
		(float64(t.Hour())+float64(t.Minute())/60+float64(t.Second())/3600)/24
	return math.Floor(365.25*float64(y+4716)) +
		math.Floor(30.6001*float64(m+1)) +
		day + float64(b) - 1524.5
}

// sunEclipticLongitude returns the sun's apparent ecliptic longitude in
// degrees at Julian centuries T from J2000.
func sunEclipticLongitude(T float64) float64 {
	l0 := 280.46646 + 36000.76983*T + 0.0003032*T*T
	m := deg2rad(357.52911 + 35999.05029*T - 0.0001537*T*T)
	c := (1.914602-0.004817*T-0.000014*T*T)*math.Sin(m) +
		(0.019993-0.000101*T)*math.Sin(2*m) +
		0.000289*math.Sin(3*m)
	return normalize360(l0 + c)
}

// moonEcliptic returns the moon's geocentric ecliptic longitude and
// latitude (degrees) and equatorial horizontal parallax (degrees),
// using the largest periodic terms only.
func moonEcliptic(T float64) (lon, lat, parallax float64) {
	lp := 218.3164477 + 481267.88123421*T // mean longitude
	d := deg2rad(297.8501921 + 445267.1114034*T)
	m := deg2rad(357.5291092 + 35999.0502909*T)
	mp := deg2rad(134.9633964 + 477198.8675055*T)
	f := deg2rad(93.2720950 + 483202.0175233*T)

	lon = normalize360(lp +
		6.289*math.Sin(mp) +
		1.274*math.Sin(2*d-mp) +
		0.658*math.Sin(2*d) -
		0.214*math.Sin(2*mp) -
		0.186*math.Sin(m) -
		0.114*math.Sin(2*f))

	lat = 5.128*math.Sin(f) +
		0.280*math.Sin(mp+f) +
		0.277*math.Sin(mp-f) +
		0.173*math.Sin(2*d-f)

	parallax = 0.9508 +
		0.0518*math.Cos(mp) +
		0.0095*math.Cos(2*d-mp) +
		0.0078*math.Cos(2*d) +
		0.0028*math.Cos(2*mp)

	return lon, lat, parallax
}

// eclipticToEquatorial converts ecliptic (lon, lat) to right ascension
// and declination, all in degrees.
func eclipticToEquatorial(lon, lat, T float64) (ra, dec float64) {
	eps := deg2rad(23.4392911 - 0.0130042*T)
	lr := deg2rad(lon)
	br := deg2rad(lat)

	ra = math.Atan2(
		math.Sin(lr)*math.Cos(eps)-math.Tan(br)*math.Sin(eps),
		math.Cos(lr),
	) * 180 / math.Pi
	dec = math.Asin(
		math.Sin(br)*math.Cos(eps)+math.Cos(br)*math.Sin(eps)*math.Sin(lr),
	) * 180 / math.Pi
	return normalize360(ra), dec
}

// gmst returns Greenwich mean sidereal time in degrees at Julian day jd.
func gmst(jd float64) float64 {
	return normalize360(280.46061837 + 360.98564736629*(jd-2451545.0))
}

// moonAltitude returns the moon's topocentric altitude in degrees above
// the horizon for an observer at (lat, lon) at instant t.
func moonAltitude(lat, lon float64, t time.Time) float64 {
	jd := julianDay(t)
	T := (jd - 2451545.0) / 36525

	mlon, mlat, _ := moonEcliptic(T)
	ra, dec := eclipticToEquatorial(mlon, mlat, T)

	lst := normalize360(gmst(jd) + lon)
	h := deg2rad(normalize360(lst - ra))

	latR := deg2rad(lat)
	decR := deg2rad(dec)

	sinAlt := math.Sin(latR)*math.Sin(decR) + math.Cos(latR)*math.Cos(decR)*math.Cos(h)
	return math.Asin(sinAlt) * 180 / math.Pi
}

// MoonRiseSet computes moonrise and moonset within the local calendar
// day of date (date's location defines both the zone and the day
// boundaries). The observer position is given as DMS triples.
//
// The implementation samples the moon's altitude through the day and
// refines each horizon crossing by linear interpolation; near the
// horizon the altitude is close to linear over the ten-minute step, so
// the result is good to about a minute.
func MoonRiseSet(lat, lon DMS, date time.Time) MoonTimes {
	latDeg := lat.Degrees()
	lonDeg := lon.Degrees()

	loc := date.Location()
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	// Rise/set altitude: refraction (-0.567 deg) offset by the moon's
	// parallax, evaluated at local noon.
	noonT := (julianDay(dayStart.Add(12*time.Hour)) - 2451545.0) / 36525
	_, _, par := moonEcliptic(noonT)
	h0 := 0.7275*par - 0.5667

	const step = 10 * time.Minute

	var out MoonTimes
	prevT := dayStart
	prevAlt := moonAltitude(latDeg, lonDeg, prevT)

	for t := dayStart.Add(step); !t.After(dayEnd); t = t.Add(step) {
		alt := moonAltitude(latDeg, lonDeg, t)

		if (prevAlt-h0)*(alt-h0) < 0 {
			// Crossing within (prevT, t]; interpolate.
			frac := (h0 - prevAlt) / (alt - prevAlt)
			cross := prevT.Add(time.Duration(frac * float64(step)))
			if alt > prevAlt {
				if out.Rise == nil {
					c := cross
					out.Rise = &c
				}
			} else {
				if out.Set == nil {
					c := cross
					out.Set = &c
				}
			}
		}

		prevT = t
		prevAlt = alt
	}

	return out
}

// MoonPhaseAt evaluates the moon's phase at instant t.
func MoonPhaseAt(t time.Time) MoonState {
	T := (julianDay(t) - 2451545.0) / 36525

	mlon, _, _ := moonEcliptic(T)
	slon := sunEclipticLongitude(T)

	// Elongation in longitude: 0 at new moon, 180 at full.
	elong := normalize360(mlon - slon)

	// Phase angle of the illuminated disc; cos form keeps the fraction
	// well behaved at the cycle ends.
	illum := 50 * (1 - math.Cos(deg2rad(elong)))

	return MoonState{
		PhaseIndex:   elong / 360 * 50,
		Illumination: illum,
		Colongitude:  normalize360(elong - 90),
	}
}

package astro

import (
	"math"
	"time"
)

// JulianDay is a moment expressed as a Julian Day Number in Universal Time:
// the count of days, including the day fraction, since noon on 1 January
// 4713 BC. All ephemeris math in this package runs on this scale;
// conversion to and from civil time happens only at the edges.
type JulianDay float64

// unixEpochJD is the Julian Day of the Unix epoch, 1970-01-01 00:00 UT.
const unixEpochJD = 2440587.5

// JulianDayFromTime converts a time.Time to a Julian Day. The instant is
// taken in UT, so the value is independent of the time's location.
func JulianDayFromTime(t time.Time) JulianDay {
	return JulianDay(unixEpochJD + float64(t.UnixMilli())/86400000.0)
}

// Time converts the Julian Day back to civil time in UTC, rounded to the
// nearest millisecond.
func (jd JulianDay) Time() time.Time {
	ms := (float64(jd) - unixEpochJD) * 86400000.0
	return time.UnixMilli(int64(math.Round(ms))).UTC()
}

// Add returns the Julian Day offset by the given number of days.
func (jd JulianDay) Add(days float64) JulianDay {
	return jd + JulianDay(days)
}

// Sub returns the difference jd - other in days.
func (jd JulianDay) Sub(other JulianDay) float64 {
	return float64(jd - other)
}

// centuries returns Julian centuries elapsed since the J2000.0 epoch.
func (jd JulianDay) centuries() float64 {
	return (float64(jd) - 2451545.0) / 36525.0
}

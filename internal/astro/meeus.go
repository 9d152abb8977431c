package astro

import "math"

// Meeus computes Sun and Moon positions from truncated trigonometric series
// in Meeus, Astronomical Algorithms (2nd ed.). Solar longitude is good to
// about 0.01 degrees and lunar longitude to about 0.3 degrees, which keeps
// derived rise, set, and boundary instants within roughly a minute of a
// full ephemeris without any external data files.
//
// The zero value is ready to use and safe for concurrent use.
type Meeus struct{}

// NewMeeus returns the built-in ephemeris provider.
func NewMeeus() Meeus { return Meeus{} }

var _ Provider = Meeus{}

// Lahiri ayanamsa at J2000.0 in degrees and its drift per Julian century.
// The linear model tracks the reference value to within a few arcseconds
// over the date range the service accepts.
const (
	lahiriAtJ2000    = 23.85300
	lahiriPerCentury = 1.396971
)

// SolarLongitude implements Provider with the solar theory of Meeus ch. 25:
// geometric mean longitude corrected by the equation of center.
func (Meeus) SolarLongitude(jd JulianDay) (float64, error) {
	T := jd.centuries()

	L0 := 280.46646 + 36000.76983*T + 0.0003032*T*T
	M := Norm360(solarMeanAnomaly(T))

	C := (1.914602-0.004817*T-0.000014*T*T)*sind(M) +
		(0.019993-0.000101*T)*sind(2*M) +
		0.000289*sind(3*M)

	return Norm360(L0 + C), nil
}

// LunarLongitude implements Provider with the dominant periodic terms of
// the lunar theory in Meeus ch. 47.
func (Meeus) LunarLongitude(jd JulianDay) (float64, error) {
	T := jd.centuries()

	L := lunarMeanLongitude(T)
	D := Norm360(lunarMeanElongation(T))
	Mp := Norm360(lunarMeanAnomaly(T))

	lon := L +
		6.289*sind(Mp) +
		1.274*sind(2*D-Mp) +
		0.658*sind(2*D) +
		0.214*sind(2*Mp) +
		0.110*sind(D)

	return Norm360(lon), nil
}

// LunarLatitude implements Provider with the dominant terms of Meeus
// table 47.B.
func (Meeus) LunarLatitude(jd JulianDay) (float64, error) {
	T := jd.centuries()

	F := Norm360(lunarArgumentOfLatitude(T))
	D := Norm360(lunarMeanElongation(T))
	Mp := Norm360(lunarMeanAnomaly(T))

	beta := 5.128*sind(F) +
		0.2806*sind(Mp+F) +
		0.2777*sind(Mp-F) +
		0.1732*sind(2*D-F)

	return beta, nil
}

// Ayanamsa implements Provider with a linear Lahiri model.
func (Meeus) Ayanamsa(jd JulianDay) (float64, error) {
	return lahiriAtJ2000 + lahiriPerCentury*jd.centuries(), nil
}

// Obliquity implements Provider with the IAU mean obliquity polynomial.
func (Meeus) Obliquity(jd JulianDay) (float64, error) {
	T := jd.centuries()
	return 23.439291111 - 0.013004167*T - 0.00000164*T*T + 0.000000504*T*T*T, nil
}

// SiderealTime implements Provider with the IAU 1982 model (Meeus eq. 12.4):
// sidereal time at the preceding UT midnight, advanced by the elapsed UT
// hours scaled with the sidereal-to-solar day ratio.
func (Meeus) SiderealTime(jd JulianDay) (float64, error) {
	jd0 := math.Floor(float64(jd)-0.5) + 0.5
	T := (jd0 - 2451545.0) / 36525.0

	gmst := 6.697374558 + 2400.0513369*T + 0.0000258622*T*T - 1.7222e-9*T*T*T

	ut := (float64(jd) - jd0) * 24
	gmst += 1.00273790935 * ut

	gmst = math.Mod(gmst, 24)
	if gmst < 0 {
		gmst += 24
	}
	return gmst, nil
}

// Fundamental arguments of the solar and lunar theories in degrees,
// not normalized. T is Julian centuries since J2000.0.

func solarMeanAnomaly(T float64) float64 {
	return 357.52911 + 35999.05029*T - 0.0001537*T*T
}

func lunarMeanLongitude(T float64) float64 {
	return 218.3164477 + 481267.88123421*T - 0.0015786*T*T +
		T*T*T/538841 - T*T*T*T/65194000
}

func lunarMeanElongation(T float64) float64 {
	return 297.8501921 + 445267.1114034*T - 0.0018819*T*T +
		T*T*T/545868 - T*T*T*T/113065000
}

func lunarMeanAnomaly(T float64) float64 {
	return 134.9633964 + 477198.8675055*T + 0.0087414*T*T +
		T*T*T/69699 - T*T*T*T/14712000
}

func lunarArgumentOfLatitude(T float64) float64 {
	return 93.2720950 + 483202.0175233*T - 0.0036539*T*T -
		T*T*T/3526000 + T*T*T*T/863310000
}

package astro

// EquatorialPosition returns the apparent right ascension and declination
// of a body in degrees, derived from the provider's ecliptic coordinates.
func EquatorialPosition(p Provider, b Body, jd JulianDay) (ra, dec float64, err error) {
	var lon, lat float64
	switch b {
	case Sun:
		lon, err = p.SolarLongitude(jd)
	case Moon:
		lon, err = p.LunarLongitude(jd)
		if err == nil {
			lat, err = p.LunarLatitude(jd)
		}
	}
	if err != nil {
		return 0, 0, err
	}

	eps, err := p.Obliquity(jd)
	if err != nil {
		return 0, 0, err
	}

	ra, dec = EclipticToEquatorial(lon, lat, eps)
	return ra, dec, nil
}

// EclipticToEquatorial converts ecliptic longitude and latitude to right
// ascension and declination for the given obliquity. All angles are in
// degrees; right ascension is normalized to [0, 360).
func EclipticToEquatorial(lonDeg, latDeg, obliquityDeg float64) (ra, dec float64) {
	sinDec := sind(latDeg)*cosd(obliquityDeg) + cosd(latDeg)*sind(obliquityDeg)*sind(lonDeg)
	dec = asind(sinDec)

	y := sind(lonDeg)*cosd(obliquityDeg) - tand(latDeg)*sind(obliquityDeg)
	x := cosd(lonDeg)
	ra = Norm360(atan2d(y, x))
	return ra, dec
}

// Altitude returns the geometric altitude of a body above the horizon in
// degrees for an observer at the given geographic coordinates. Longitude is
// positive east. Atmospheric refraction is not applied here; rise and set
// searches account for it by lowering the threshold altitude instead.
func Altitude(p Provider, b Body, jd JulianDay, latDeg, lonDeg float64) (float64, error) {
	ra, dec, err := EquatorialPosition(p, b, jd)
	if err != nil {
		return 0, err
	}

	gmst, err := p.SiderealTime(jd)
	if err != nil {
		return 0, err
	}

	lst := Norm360(gmst*15 + lonDeg)
	ha := Norm180(lst - ra)

	sinAlt := sind(latDeg)*sind(dec) + cosd(latDeg)*cosd(dec)*cosd(ha)
	return asind(sinAlt), nil
}

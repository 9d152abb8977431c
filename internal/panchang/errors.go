package panchang

import "errors"

// ErrNoWindow reports that no sunrise exists to anchor a Hindu day at the
// requested date and location, which happens inside polar night or polar
// day. The almanac cannot be built for such days and no time is ever
// substituted for the missing sunrise.
var ErrNoWindow = errors.New("panchang: no sunrise to anchor the day")

// ErrDegenerate reports angle samples with no usable motion, leaving a
// boundary projection impossible even after the constant-rate fallback.
// A real ephemeris never produces this; a broken provider can.
var ErrDegenerate = errors.New("panchang: angle samples show no motion")

package panchang

import (
	"math"
	"time"

	"github.com/subhashmahimaluri/panchangam/internal/astro"
)

// Category identifies one of the four angle-driven almanac elements. Each
// divides a 360 degree cycle into equal periods; which angle drives it is
// decided by the engine's tracker functions.
type Category int

const (
	Tithi Category = iota
	Nakshatra
	Yoga
	Karana
)

func (c Category) String() string {
	switch c {
	case Tithi:
		return "tithi"
	case Nakshatra:
		return "nakshatra"
	case Yoga:
		return "yoga"
	case Karana:
		return "karana"
	default:
		return "unknown"
	}
}

// Step returns the angular width of one period in degrees.
func (c Category) Step() float64 {
	switch c {
	case Tithi:
		return 12
	case Karana:
		return 6
	default:
		return 360.0 / 27.0
	}
}

// Count returns the number of periods in a full cycle.
func (c Category) Count() int {
	switch c {
	case Tithi:
		return 30
	case Karana:
		return 60
	default:
		return 27
	}
}

// NumberAt returns the 1-based number of the period that contains the given
// angle. An angle exactly on a boundary belongs to the period it closes.
func (c Category) NumberAt(angleDeg float64) int {
	n := int(math.Ceil(astro.Norm360(angleDeg) / c.Step()))
	if n < 1 {
		n = 1
	}
	if n > c.Count() {
		n = c.Count()
	}
	return n
}

// Name returns the display name of period n in this category.
func (c Category) Name(n int) string {
	switch c {
	case Tithi:
		return TithiName(n)
	case Nakshatra:
		return nakshatraNames[n-1]
	case Yoga:
		return yogaNames[n-1]
	case Karana:
		return KaranaName(n)
	default:
		return ""
	}
}

// nominalAdvance is how many boundaries the category passes on an ordinary
// day. Crossing more than this inside one Hindu day means a period was
// skipped entirely.
func (c Category) nominalAdvance() int {
	if c == Karana {
		return 2
	}
	return 1
}

// Categories lists all four angle-driven elements in presentation order.
var Categories = [4]Category{Tithi, Nakshatra, Yoga, Karana}

// The fifteen tithi names repeat across both halves of the lunar month; only
// the fifteenth differs: Purnima closes the bright half, Amavasya the dark.
var tithiNames = [30]string{
	"Pratipada", "Dwitiya", "Tritiya", "Chaturthi", "Panchami",
	"Shashthi", "Saptami", "Ashtami", "Navami", "Dashami",
	"Ekadashi", "Dwadashi", "Trayodashi", "Chaturdashi", "Purnima",
	"Pratipada", "Dwitiya", "Tritiya", "Chaturthi", "Panchami",
	"Shashthi", "Saptami", "Ashtami", "Navami", "Dashami",
	"Ekadashi", "Dwadashi", "Trayodashi", "Chaturdashi", "Amavasya",
}

var nakshatraNames = [27]string{
	"Ashwini", "Bharani", "Krittika", "Rohini", "Mrigashira",
	"Ardra", "Punarvasu", "Pushya", "Ashlesha", "Magha",
	"Purva Phalguni", "Uttara Phalguni", "Hasta", "Chitra", "Swati",
	"Vishakha", "Anuradha", "Jyeshtha", "Mula", "Purva Ashadha",
	"Uttara Ashadha", "Shravana", "Dhanishta", "Shatabhisha", "Purva Bhadrapada",
	"Uttara Bhadrapada", "Revati",
}

var yogaNames = [27]string{
	"Vishkambha", "Priti", "Ayushman", "Saubhagya", "Shobhana",
	"Atiganda", "Sukarman", "Dhriti", "Shula", "Ganda",
	"Vriddhi", "Dhruva", "Vyaghata", "Harshana", "Vajra",
	"Siddhi", "Vyatipata", "Variyan", "Parigha", "Shiva",
	"Siddha", "Sadhya", "Shubha", "Shukla", "Brahma",
	"Indra", "Vaidhriti",
}

// Seven movable karana names cycle through steps 1-56 of the half-tithi
// sequence; the four fixed names close the cycle at steps 57-60.
var karanaNames = [11]string{
	"Bava", "Balava", "Kaulava", "Taitila", "Garija", "Vanija", "Vishti",
	"Shakuni", "Chatushpada", "Naga", "Kimstughno",
}

var vaaraNames = [7]string{
	"Ravivara", "Somavara", "Mangalavara", "Budhavara",
	"Guruvara", "Shukravara", "Shanivara",
}

// PakshaName returns the lunar fortnight of tithi n: Shukla Paksha while the
// moon waxes (1-15), Krishna Paksha while it wanes (16-30).
func PakshaName(n int) string {
	if n <= 15 {
		return "Shukla Paksha"
	}
	return "Krishna Paksha"
}

// TithiName returns the paksha-qualified name of tithi n in [1,30].
func TithiName(n int) string {
	return PakshaName(n) + " " + tithiNames[n-1]
}

// KaranaName maps the half-tithi step number n in [1,60] to its name:
// steps up to 56 cycle through the seven movable karanas, steps 57-60 take
// the fixed names in order.
func KaranaName(n int) string {
	if n >= 57 {
		return karanaNames[7+n-57]
	}
	return karanaNames[(n-1)%7]
}

// VaaraName returns the Sanskrit weekday name.
func VaaraName(d time.Weekday) string {
	return vaaraNames[d]
}

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// dateLayout is the wire format for calendar dates.
const dateLayout = "2006-01-02"

// defaultTimezone is assumed when a periods request names no timezone.
const defaultTimezone = "Asia/Kolkata"

// PanchangamRequest asks for the full almanac of one day at one place.
type PanchangamRequest struct {
	Date      string  `json:"date"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	City      string  `json:"city"`
}

// Validate checks everything except the city, which needs a catalog lookup.
func (r *PanchangamRequest) Validate() error {
	var errs []error

	if _, err := parseDate(r.Date); err != nil {
		errs = append(errs, err)
	}
	if err := validateCoordinates(r.Latitude, r.Longitude); err != nil {
		errs = append(errs, err)
	}
	if r.City == "" {
		errs = append(errs, errors.New("city is required"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// PeriodsRequest asks for every period overlapping one Hindu day. The
// timezone only affects display; computation runs on the coordinates.
type PeriodsRequest struct {
	Date      string  `json:"date"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone,omitempty"`
}

func (r *PeriodsRequest) Validate() error {
	var errs []error

	if _, err := parseDate(r.Date); err != nil {
		errs = append(errs, err)
	}
	if err := validateCoordinates(r.Latitude, r.Longitude); err != nil {
		errs = append(errs, err)
	}
	if r.Timezone != "" {
		if _, err := time.LoadLocation(r.Timezone); err != nil {
			errs = append(errs, fmt.Errorf("unknown timezone %q", r.Timezone))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// LocationRequest adds or updates a catalog city.
type LocationRequest struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone"`
}

func (r *LocationRequest) Validate() error {
	var errs []error

	if r.Name == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if err := validateCoordinates(r.Latitude, r.Longitude); err != nil {
		errs = append(errs, err)
	}
	if r.Timezone == "" {
		errs = append(errs, errors.New("timezone is required"))
	} else if _, err := time.LoadLocation(r.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("unknown timezone %q", r.Timezone))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// parseDate parses an ISO calendar date and rejects dates more than one year
// ahead or ten years behind today, the range the ephemeris series is tuned
// for and far more than any almanac lookup needs.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("date is required")
	}

	date, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date must be in ISO format (YYYY-MM-DD), got %q", s)
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	if date.After(today.AddDate(1, 0, 0)) {
		return time.Time{}, errors.New("date cannot be more than 1 year in the future")
	}
	if date.Before(today.AddDate(-10, 0, 0)) {
		return time.Time{}, errors.New("date cannot be more than 10 years in the past")
	}

	return date, nil
}

func validateCoordinates(lat, lon float64) error {
	var errs []error

	if lat < -90 || lat > 90 {
		errs = append(errs, fmt.Errorf("latitude must be between -90 and 90 degrees, got %g", lat))
	}
	if lon < -180 || lon > 180 {
		errs = append(errs, fmt.Errorf("longitude must be between -180 and 180 degrees, got %g", lon))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// decodeJSON decodes a JSON request body.
func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return errors.New("request body is empty")
	}
	defer r.Body.Close()

	return json.NewDecoder(r.Body).Decode(v)
}

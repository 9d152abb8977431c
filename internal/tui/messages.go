package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/subhashmahimaluri/panchangam/internal/astro"
	"github.com/subhashmahimaluri/panchangam/internal/panchang"
	"github.com/subhashmahimaluri/panchangam/internal/store"
)

// Message types for async operations

// citiesLoadedMsg is sent when the city catalog has been read
type citiesLoadedMsg struct {
	cities []store.Location
	err    error
}

// dayComputedMsg is sent when the almanac for one day has been computed
type dayComputedMsg struct {
	day *panchang.Day
	err error
}

// errMsg is a message type for errors
type errMsg struct {
	err error
}

// loadCities reads the city catalog
func loadCities(st *store.Store) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		cities, err := st.ListLocations(ctx)
		return citiesLoadedMsg{cities: cities, err: err}
	}
}

// computeDay runs the engine for one civil date at the given city
func computeDay(engine *panchang.Engine, date time.Time, city store.Location, tz *time.Location) tea.Cmd {
	return func() tea.Msg {
		midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, tz)
		day, err := engine.BuildDay(astro.JulianDayFromTime(midnight), city.Latitude, city.Longitude)
		return dayComputedMsg{day: day, err: err}
	}
}

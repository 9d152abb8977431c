// Package tui is a terminal almanac browser: pick a catalog city, step
// through days, and read the computed panchangam.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/subhashmahimaluri/panchangam/internal/panchang"
	"github.com/subhashmahimaluri/panchangam/internal/store"
)

// AppState represents the current state of the application
type AppState int

const (
	StateLoading  AppState = iota // Loading the catalog or computing a day
	StateBrowse                   // Display the computed almanac
	StateCityPick                 // Show the city catalog
	StateError                    // Error state
)

// Model represents the application's state
type Model struct {
	state  AppState
	width  int
	height int
	err    error

	store  *store.Store
	engine *panchang.Engine

	// City catalog
	cities   []store.Location
	cityList list.Model
	city     store.Location
	tz       *time.Location

	// Almanac
	date time.Time // civil date being browsed, midnight UTC
	day  *panchang.Day

	spinner spinner.Model
}

// NewModel creates a new application model
func NewModel(st *store.Store, engine *panchang.Engine) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(colorPrimary)

	now := time.Now()
	return Model{
		state:   StateLoading,
		store:   st,
		engine:  engine,
		tz:      time.UTC,
		date:    time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		spinner: s,
	}
}

// Init loads the city catalog
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, loadCities(m.store))
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	// Handle window size
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		if m.state == StateCityPick {
			m.cityList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil
	}

	// Handle custom messages
	switch msg := msg.(type) {
	case errMsg:
		m.err = msg.err
		m.state = StateError
		return m, nil

	case citiesLoadedMsg:
		if msg.err != nil {
			m.err = fmt.Errorf("loading city catalog: %w", msg.err)
			m.state = StateError
			return m, nil
		}
		if len(msg.cities) == 0 {
			m.err = fmt.Errorf("the city catalog is empty")
			m.state = StateError
			return m, nil
		}
		m.cities = msg.cities
		return m.selectCity(defaultCity(msg.cities))

	case dayComputedMsg:
		if msg.err != nil {
			m.err = fmt.Errorf("computing almanac for %s: %w",
				m.date.Format("2006-01-02"), msg.err)
			m.state = StateError
			return m, nil
		}
		m.day = msg.day
		m.state = StateBrowse
		return m, nil
	}

	// Handle keyboard input
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		// Global keys
		if keyMsg.String() == "ctrl+c" || keyMsg.String() == "q" {
			return m, tea.Quit
		}

		switch m.state {
		case StateBrowse:
			return m.handleBrowseKeys(keyMsg)

		case StateCityPick:
			return m.handleCityPick(keyMsg)

		case StateError:
			// Any key retries: reload the catalog if it never arrived,
			// otherwise jump back to today
			m.err = nil
			if len(m.cities) == 0 {
				m.state = StateLoading
				return m, tea.Batch(m.spinner.Tick, loadCities(m.store))
			}
			return m.browseDate(m.today())
		}
	}

	// Update appropriate component based on state
	switch m.state {
	case StateLoading:
		m.spinner, cmd = m.spinner.Update(msg)
	case StateCityPick:
		m.cityList, cmd = m.cityList.Update(msg)
	}

	return m, cmd
}

// handleBrowseKeys handles keyboard input while displaying a day
func (m Model) handleBrowseKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left", "h":
		return m.browseDate(m.date.AddDate(0, 0, -1))
	case "right", "l":
		return m.browseDate(m.date.AddDate(0, 0, 1))
	case "t":
		return m.browseDate(m.today())
	case "c":
		m.cityList = createCityList(m.cities, m.width-4, m.height-8)
		m.state = StateCityPick
		return m, nil
	}
	return m, nil
}

// handleCityPick handles keyboard input in the city list
func (m Model) handleCityPick(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		if item, ok := m.cityList.SelectedItem().(cityItem); ok {
			return m.selectCity(item.city)
		}
	}
	if msg.Type == tea.KeyEsc {
		if m.day != nil {
			m.state = StateBrowse
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.cityList, cmd = m.cityList.Update(msg)
	return m, cmd
}

// selectCity switches the browser to a city and recomputes the current date
func (m Model) selectCity(city store.Location) (tea.Model, tea.Cmd) {
	tz, err := time.LoadLocation(city.Timezone)
	if err != nil {
		m.err = fmt.Errorf("timezone %q for %s: %w", city.Timezone, city.Name, err)
		m.state = StateError
		return m, nil
	}
	m.city = city
	m.tz = tz
	return m.browseDate(m.date)
}

// browseDate kicks off computation for a civil date
func (m Model) browseDate(date time.Time) (tea.Model, tea.Cmd) {
	m.date = date
	m.day = nil
	m.state = StateLoading
	return m, tea.Batch(m.spinner.Tick, computeDay(m.engine, date, m.city, m.tz))
}

// today returns the current civil date in the selected city
func (m Model) today() time.Time {
	now := time.Now().In(m.tz)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// defaultCity prefers Bengaluru, the traditional reference city, falling back
// to the first catalog entry
func defaultCity(cities []store.Location) store.Location {
	for _, c := range cities {
		if c.Slug == "bengaluru" {
			return c
		}
	}
	return cities[0]
}

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	switch m.state {
	case StateLoading:
		return m.viewLoading()
	case StateBrowse:
		return m.viewBrowse()
	case StateCityPick:
		return m.viewCityPick()
	case StateError:
		return m.viewError()
	}

	return ""
}

// viewLoading renders the computing screen
func (m Model) viewLoading() string {
	what := "Loading city catalog..."
	if m.city.Name != "" {
		what = fmt.Sprintf("Computing panchangam for %s, %s...",
			m.city.Name, m.date.Format("02 Jan 2006"))
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		"",
		fmt.Sprintf("%s %s", m.spinner.View(), mutedStyle.Render(what)),
	)
}

// viewError renders the error view
func (m Model) viewError() string {
	title := errorStyle.Render("Error")

	var errorMsg string
	if m.err != nil {
		errorMsg = m.err.Error()
	} else {
		errorMsg = "An unknown error occurred"
	}

	help := helpStyle.Render("Press any key to retry · Q: Quit")

	return lipgloss.JoinVertical(lipgloss.Left, title, "", errorMsg, "", help)
}

// viewCityPick renders the city selection list
func (m Model) viewCityPick() string {
	help := helpStyle.Render("↑/↓: Navigate · Enter: Select · Esc: Back · Q: Quit")
	return lipgloss.JoinVertical(lipgloss.Left, m.cityList.View(), help)
}

// viewBrowse renders the main almanac display
func (m Model) viewBrowse() string {
	if m.day == nil {
		return "No day computed"
	}

	title := titleStyle.Render(fmt.Sprintf("Panchangam · %s", m.city.Name))
	subtitle := subtitleStyle.Render(m.date.Format("Monday, 02 January 2006"))

	paneWidth := (m.width - 8) / 2
	if paneWidth < 30 {
		paneWidth = 30
	}

	top := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderElementsPane(paneWidth),
		m.renderTimingsPane(paneWidth),
	)

	help := helpStyle.Render("←/→: Day · T: Today · C: City · Q: Quit")

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		subtitle,
		"",
		top,
		m.renderMuhurtaPane(m.width - 6),
		help,
	)
}

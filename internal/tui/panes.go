package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/subhashmahimaluri/panchangam/internal/astro"
	"github.com/subhashmahimaluri/panchangam/internal/panchang"
)

func (m Model) clock(jd astro.JulianDay) string {
	return jd.Time().In(m.tz).Format("03:04 PM")
}

func (m Model) eventClock(ev panchang.Event) string {
	if !ev.Ok {
		return "--"
	}
	return m.clock(ev.At)
}

// splitAtSunrise returns the period in force at sunrise and whatever follows
// it within the day.
func splitAtSunrise(elem panchang.Element, sunrise astro.JulianDay) (*panchang.Period, []panchang.Period) {
	for i, p := range elem.Periods {
		if p.Start <= sunrise && sunrise < p.End {
			return &elem.Periods[i], elem.Periods[i+1:]
		}
	}
	if len(elem.Periods) > 0 {
		return &elem.Periods[0], elem.Periods[1:]
	}
	return nil, nil
}

// renderTimingsPane renders rise and set times
func (m Model) renderTimingsPane(width int) string {
	var content strings.Builder

	content.WriteString(titleStyle.Render("Timings"))
	content.WriteString("\n\n")

	rows := []struct {
		label string
		value string
	}{
		{"Sunrise", m.clock(m.day.Window.Start)},
		{"Sunset", m.eventClock(m.day.Sunset)},
		{"Moonrise", m.eventClock(m.day.Moonrise)},
		{"Moonset", m.eventClock(m.day.Moonset)},
	}
	for _, row := range rows {
		content.WriteString(fmt.Sprintf("%s %s\n",
			labelStyle.Width(10).Render(row.label),
			valueStyle.Render(row.value)))
	}

	return paneStyle.Width(width).Render(content.String())
}

// renderElementsPane renders the five limbs of the day: the period of each
// element in force at sunrise, then the ones that follow
func (m Model) renderElementsPane(width int) string {
	var content strings.Builder

	content.WriteString(titleStyle.Render("Elements"))
	content.WriteString("\n\n")

	content.WriteString(fmt.Sprintf("%s %s\n",
		labelStyle.Width(10).Render("Vaara"),
		valueStyle.Render(panchang.VaaraName(m.date.Weekday()))))

	rows := []struct {
		label string
		elem  panchang.Element
	}{
		{"Tithi", m.day.Tithi},
		{"Nakshatra", m.day.Nakshatra},
		{"Yoga", m.day.Yoga},
		{"Karana", m.day.Karana},
	}
	indent := lipgloss.NewStyle().Width(10)
	for _, row := range rows {
		active, rest := splitAtSunrise(row.elem, m.day.Window.Start)
		if active == nil {
			content.WriteString(fmt.Sprintf("%s %s\n",
				labelStyle.Width(10).Render(row.label),
				mutedStyle.Render("unavailable")))
			continue
		}

		content.WriteString(fmt.Sprintf("%s %s %s\n",
			labelStyle.Width(10).Render(row.label),
			valueStyle.Render(active.Name),
			mutedStyle.Render("until "+m.clock(active.End))))
		for _, p := range rest {
			content.WriteString(fmt.Sprintf("%s %s\n",
				indent.Render(""),
				mutedStyle.Render("then "+p.Name+" until "+m.clock(p.End))))
		}
		if row.elem.Skipped {
			content.WriteString(fmt.Sprintf("%s %s\n",
				indent.Render(""),
				badStyle.Render("a period is skipped this day")))
		}
	}

	return paneStyle.Width(width).Render(content.String())
}

// renderMuhurtaPane renders the day's auspicious and inauspicious windows
func (m Model) renderMuhurtaPane(width int) string {
	var content strings.Builder

	content.WriteString(titleStyle.Render("Muhurtas"))
	content.WriteString("\n\n")

	if !m.day.Sunset.Ok {
		content.WriteString(mutedStyle.Render("No sunset today; the day windows are undefined"))
		return paneStyle.Width(width).Render(content.String())
	}

	windows := panchang.MuhurtaWindows(m.day.Window.Start, m.day.Sunset.At, m.date.Weekday())
	for _, win := range windows {
		style := badStyle
		if win.Auspicious {
			style = goodStyle
		}
		content.WriteString(fmt.Sprintf("%s %s\n",
			style.Width(18).Render(win.Name),
			valueStyle.Render(m.clock(win.Start)+" to "+m.clock(win.End))))
	}

	return paneStyle.Width(width).Render(content.String())
}

package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/subhashmahimaluri/panchangam/internal/store"
)

// cityItem wraps a catalog city for use in a list
type cityItem struct {
	city store.Location
}

// FilterValue implements list.Item
func (c cityItem) FilterValue() string {
	return c.city.Name
}

// Title implements list.DefaultItem
func (c cityItem) Title() string {
	return c.city.Name
}

// Description implements list.DefaultItem
func (c cityItem) Description() string {
	return fmt.Sprintf("%.4f, %.4f · %s", c.city.Latitude, c.city.Longitude, c.city.Timezone)
}

// createCityList creates a list.Model from the catalog
func createCityList(cities []store.Location, width, height int) list.Model {
	items := make([]list.Item, len(cities))
	for i, city := range cities {
		items[i] = cityItem{city: city}
	}

	l := list.New(items, list.NewDefaultDelegate(), width, height)
	l.Title = "Choose a City"
	l.SetShowHelp(true)
	l.SetFilteringEnabled(false)

	return l
}

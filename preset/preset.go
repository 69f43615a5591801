package preset

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// Preset is a named partition of mixer channels into "up" (audible) and
// "down" (silenced) sets. Channels listed in neither set are left untouched
// by a transition. Presets are defined at startup and read-only thereafter.
type Preset struct {
	ID   int
	Name string

	// Up holds the channels that should be audible in this mood.
	Up []int

	// Down holds the channels that should be silenced in this mood.
	Down []int

	// Scene is the Ableton scene that matches this mood, or -1 if none.
	Scene int
}

// IsUp reports whether the channel belongs to the preset's audible set.
func (p Preset) IsUp(channel int) bool {
	return slices.Contains(p.Up, channel)
}

// IsDown reports whether the channel belongs to the preset's silenced set.
func (p Preset) IsDown(channel int) bool {
	return slices.Contains(p.Down, channel)
}

// Catalog is the static table of known presets, indexed by id and name.
type Catalog struct {
	presets []Preset
	byID    map[int]Preset
	byName  map[string]Preset
}

// NewCatalog builds a catalog from the given presets. It rejects duplicate
// ids or names and any preset whose up and down sets overlap.
func NewCatalog(presets ...Preset) (*Catalog, error) {
	c := &Catalog{
		byID:   make(map[int]Preset),
		byName: make(map[string]Preset),
	}
	for _, p := range presets {
		if _, exists := c.byID[p.ID]; exists {
			return nil, fmt.Errorf("duplicate preset id: %d", p.ID)
		}
		if _, exists := c.byName[p.Name]; exists {
			return nil, fmt.Errorf("duplicate preset name: %q", p.Name)
		}
		for _, ch := range p.Up {
			if slices.Contains(p.Down, ch) {
				return nil, fmt.Errorf("preset %q lists channel %d as both up and down", p.Name, ch)
			}
		}
		c.presets = append(c.presets, p)
		c.byID[p.ID] = p
		c.byName[p.Name] = p
	}
	return c, nil
}

// ByID looks up a preset by its id.
func (c *Catalog) ByID(id int) (Preset, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// ByName looks up a preset by its name.
func (c *Catalog) ByName(name string) (Preset, bool) {
	p, ok := c.byName[name]
	return p, ok
}

// All returns the presets in definition order.
func (c *Catalog) All() []Preset {
	return c.presets
}

package preset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogLookups(t *testing.T) {
	t.Parallel()

	catalog, err := NewCatalog(
		Preset{ID: 0, Name: "Daytime", Up: []int{0, 1}, Down: []int{2, 3}, Scene: 0},
		Preset{ID: 1, Name: "Nocturnal", Up: []int{2, 3}, Down: []int{0, 1}, Scene: 1},
	)
	require.NoError(t, err)

	p, ok := catalog.ByID(1)
	require.True(t, ok)
	assert.Equal(t, "Nocturnal", p.Name)

	p, ok = catalog.ByName("Daytime")
	require.True(t, ok)
	assert.Equal(t, 0, p.ID)

	_, ok = catalog.ByID(99)
	assert.False(t, ok)

	assert.Len(t, catalog.All(), 2)
}

func TestCatalogRejectsOverlappingSets(t *testing.T) {
	t.Parallel()

	_, err := NewCatalog(Preset{ID: 0, Name: "Broken", Up: []int{0, 1}, Down: []int{1, 2}})
	require.Error(t, err)
}

func TestCatalogRejectsDuplicates(t *testing.T) {
	t.Parallel()

	_, err := NewCatalog(
		Preset{ID: 0, Name: "A", Up: []int{0}},
		Preset{ID: 0, Name: "B", Up: []int{1}},
	)
	require.Error(t, err)

	_, err = NewCatalog(
		Preset{ID: 0, Name: "A", Up: []int{0}},
		Preset{ID: 1, Name: "A", Up: []int{1}},
	)
	require.Error(t, err)
}

func TestSetMembership(t *testing.T) {
	t.Parallel()

	p := Preset{ID: 0, Name: "Daytime", Up: []int{0, 1}, Down: []int{4}}
	assert.True(t, p.IsUp(1))
	assert.False(t, p.IsUp(4))
	assert.True(t, p.IsDown(4))
	assert.False(t, p.IsDown(7))
}

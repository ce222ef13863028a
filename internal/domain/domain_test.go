package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestamp_UnmarshalNaive(t *testing.T) {
	var src PrimarySource
	err := json.Unmarshal([]byte(`{"encyclopedia_id":"en-denshopd-i35-00437","modified":"2013-02-14T09:12:03"}`), &src)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2013, 2, 14, 9, 12, 3, 0, time.UTC), src.Modified.Time)
}

func TestTimestamp_UnmarshalEmptyAndNull(t *testing.T) {
	var src PrimarySource
	require.NoError(t, json.Unmarshal([]byte(`{"modified":""}`), &src))
	assert.True(t, src.Modified.IsZero())
	require.NoError(t, json.Unmarshal([]byte(`{"modified":null}`), &src))
	assert.True(t, src.Modified.IsZero())
}

func TestTimestamp_UnmarshalGarbage(t *testing.T) {
	var src PrimarySource
	assert.Error(t, json.Unmarshal([]byte(`{"modified":"yesterday"}`), &src))
}

func TestInventory_IndexLastWins(t *testing.T) {
	t0 := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	inv := Inventory{
		{ID: "A", Modified: t0},
		{ID: "A", Modified: t0.Add(time.Hour)},
	}
	idx := inv.Index()
	require.Len(t, idx, 1)
	assert.Equal(t, t0.Add(time.Hour), idx["A"].Modified)
	assert.Equal(t, []string{"A", "A"}, inv.IDs())
}

func TestPage_HasCategory(t *testing.T) {
	p := Page{Categories: []string{"Published", "Camps", "Japanese_American_press"}}
	assert.True(t, p.HasCategory("published"))
	assert.True(t, p.HasCategory("Japanese American press"))
	assert.False(t, p.HasCategory("Authors"))
}

func TestTitleSort(t *testing.T) {
	assert.Equal(t, "manzanar", TitleSort("Manzanar"))
	assert.Equal(t, "national archives", TitleSort("The National Archives"))
	assert.Equal(t, "niiya brian", AuthorTitleSort("Brian Niiya"))
	assert.Equal(t, "cher", AuthorTitleSort("Cher"))
}

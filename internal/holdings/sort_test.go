package holdings

import (
	"testing"

	"bibresolver/internal/config"
	"bibresolver/internal/entity"

	"github.com/stretchr/testify/assert"
)

var libs = config.Libraries{Preferred: []string{"GW"}, Shared: []string{"WR"}}

func ids(hs []entity.Holding) []string {
	out := make([]string, 0, len(hs))
	for _, h := range hs {
		out = append(out, h.MfhdID)
	}
	return out
}

func onShelf() []entity.Item {
	return []entity.Item{{StatusDescription: entity.StatusDescNotCharged}}
}

func TestSortHoldings(t *testing.T) {
	base := []entity.Holding{
		{MfhdID: "gt", LibraryCode: "GT", Items: onShelf()},
		{MfhdID: "wr", LibraryCode: "WR"},
		{MfhdID: "gw-e", LibraryCode: "GW", Electronic: true},
		{MfhdID: "gw", LibraryCode: "GW", Items: onShelf()},
		{MfhdID: "au", LibraryCode: "AU"},
	}

	t.Run("ownership is stable", func(t *testing.T) {
		hs := append([]entity.Holding(nil), base...)
		SortHoldings(hs, ByOwnership(libs))
		assert.Equal(t, []string{"gw-e", "gw", "wr", "gt", "au"}, ids(hs))
	})

	t.Run("electronic last then availability", func(t *testing.T) {
		hs := append([]entity.Holding(nil), base...)
		SortHoldings(hs, ByOwnership(libs), ByElectronic(false), ByAvailability())
		assert.Equal(t, []string{"gw", "gw-e", "wr", "gt", "au"}, ids(hs))
	})

	t.Run("electronic first as primary key", func(t *testing.T) {
		hs := append([]entity.Holding(nil), base...)
		SortHoldings(hs, ByElectronic(true), ByOwnership(libs))
		assert.Equal(t, []string{"gw-e", "gw", "wr", "gt", "au"}, ids(hs))
	})

	t.Run("availability alone", func(t *testing.T) {
		hs := append([]entity.Holding(nil), base...)
		SortHoldings(hs, ByAvailability())
		assert.Equal(t, []string{"gt", "gw", "wr", "gw-e", "au"}, ids(hs))
	})

	t.Run("no orderings keeps input", func(t *testing.T) {
		hs := append([]entity.Holding(nil), base...)
		SortHoldings(hs)
		assert.Equal(t, ids(base), ids(hs))
	})
}

func TestSortItems(t *testing.T) {
	items := []entity.Item{
		{ItemID: "1", StatusDescription: "Charged"},
		{ItemID: "2", StatusDescription: "Not Charged"},
		{ItemID: "3", StatusDescription: "Missing"},
		{ItemID: "4", StatusDescription: "Not Charged"},
	}
	SortItems(items)

	var got []string
	for _, it := range items {
		got = append(got, it.ItemID)
	}
	assert.Equal(t, []string{"2", "4", "1", "3"}, got)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Gelman Stacks", DisplayName("GW: Gelman Stacks"))
	assert.Equal(t, "WRLC Shared Collections Facility", DisplayName("WRLC Shared Collections Facility"))
	assert.Equal(t, "https://catalog.gmu.example/1", DisplayName("https://catalog.gmu.example/1"))
	assert.Equal(t, "", DisplayName(""))
	assert.Equal(t, "GW: ", DisplayName("GW: "))
}

package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlatUnflatRoundTrip(t *testing.T) {
	g := SamsungPro970()
	cases := []Ppa{
		{Ch: 0, Lun: 0, Pl: 0, Blk: 0, Pg: 0},
		{Ch: 7, Lun: 1, Pl: 0, Blk: 511, Pg: 511},
		{Ch: 3, Lun: 0, Pl: 0, Blk: 42, Pg: 17},
	}
	for _, p := range cases {
		flat := g.Flat(p)
		assert.Equal(t, p, g.Unflat(flat), "round trip for %v", p)
	}
}

func TestGeometryDerivedFields(t *testing.T) {
	g := SamsungPro970()
	assert.Equal(t, g.PgsPerBlk*g.Channels*g.LunsPerCh, g.PgsPerLine)
	assert.Equal(t, g.BlksPerPl, g.TtLines)
	assert.Equal(t, g.PgsPerCh*g.Channels, g.TotalPgs)
}

func TestLastInWordline(t *testing.T) {
	g := SamsungPro970()
	assert.False(t, g.LastInWordline(Ppa{Pg: 0}))
	assert.False(t, g.LastInWordline(Ppa{Pg: 2}))
	assert.True(t, g.LastInWordline(Ppa{Pg: 3}))
	assert.True(t, g.LastInWordline(Ppa{Pg: 7}))
}

func TestFlashPgGroup(t *testing.T) {
	g := SamsungPro970()
	ch, lun, wl := g.FlashPgGroup(Ppa{Ch: 2, Lun: 1, Pg: 9})
	assert.Equal(t, 2, ch)
	assert.Equal(t, 1, lun)
	assert.Equal(t, 2, wl)
}

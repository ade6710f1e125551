package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pony1357/nvmevirt/internal/geometry"
	"github.com/pony1357/nvmevirt/internal/lines"
)

func smallGeo() geometry.Geometry {
	// 2 channels, 1 LUN/ch, 1 plane, 4 blocks/plane, 4 pages/block,
	// 2-page oneshot.
	return geometry.New(2, 1, 1, 4, 4, 1, 512, 2)
}

func TestAdvanceStripesPageThenChannel(t *testing.T) {
	geo := smallGeo()
	lm := lines.New(geo)
	a := New(geo, lm)

	first := a.GetNewPage(User)
	assert.Equal(t, geometry.Ppa{Ch: 0, Lun: 0, Pl: 0, Blk: first.Blk, Pg: 0}, first)

	a.Advance(User)
	second := a.GetNewPage(User)
	assert.Equal(t, 1, second.Pg, "within a wordline, page advances first")
	assert.Equal(t, 0, second.Ch)

	a.Advance(User)
	third := a.GetNewPage(User)
	assert.Equal(t, 0, third.Pg, "page rewinds to the start of the wordline")
	assert.Equal(t, 1, third.Ch, "and steps the channel")
}

func TestFinishLineDrawsFreshFreeLine(t *testing.T) {
	geo := smallGeo()
	lm := lines.New(geo)
	a := New(geo, lm)

	startLine := a.CurrentLine(User)
	stepsPerLine := geo.Channels * geo.LunsPerCh * geo.PgsPerBlk

	for i := 0; i < stepsPerLine; i++ {
		ppa := a.GetNewPage(User)
		lm.MarkPageValid(ppa, a.CurrentLine(User))
		a.Advance(User)
	}

	require.NotEqual(t, startLine, a.CurrentLine(User), "exhausting a line must draw a new one")
	assert.Equal(t, geo.PgsPerLine, startLine.Vpc)
	assert.Equal(t, 0, a.GetNewPage(User).Pg)
}

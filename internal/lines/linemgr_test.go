package lines

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pony1357/nvmevirt/internal/geometry"
)

func smallGeo() geometry.Geometry {
	// 2 channels, 1 LUN/ch, 1 plane, 4 blocks/plane, 4 pages/block,
	// 2-page oneshot: tiny enough to exercise every state transition
	// by hand.
	return geometry.New(2, 1, 1, 4, 4, 1, 512, 2)
}

func TestMarkPageValidInvalidSingleDecrement(t *testing.T) {
	geo := smallGeo()
	m := New(geo)
	l := m.Line(0)

	ppa := geometry.Ppa{Ch: 0, Lun: 0, Blk: 0, Pg: 0}
	m.MarkPageValid(ppa, l)
	assert.Equal(t, 1, l.Vpc)
	assert.Equal(t, Valid, m.PageStatus(geo.Flat(ppa)))

	m.MarkPageInvalid(ppa, l)
	assert.Equal(t, 0, l.Vpc)
	assert.Equal(t, 1, l.Ipc)
	assert.Equal(t, Invalid, m.PageStatus(geo.Flat(ppa)))
}

func TestMarkPageInvalidDecrementsOnceWhileQueued(t *testing.T) {
	geo := smallGeo()
	m := New(geo)
	l := m.Line(0)

	pages := []geometry.Ppa{
		{Ch: 0, Lun: 0, Blk: 0, Pg: 0},
		{Ch: 0, Lun: 0, Blk: 0, Pg: 1},
		{Ch: 1, Lun: 0, Blk: 0, Pg: 0},
	}
	for _, p := range pages {
		m.MarkPageValid(p, l)
	}
	assert.Equal(t, 3, l.Vpc)

	m.MarkPageInvalid(pages[0], l)
	assert.False(t, l.InQueue(), "single invalidation below full should not enqueue")
	assert.Equal(t, 2, l.Vpc)

	m.InsertVictim(l)
	require.True(t, l.InQueue())

	m.MarkPageInvalid(pages[1], l)
	assert.Equal(t, 1, l.Vpc, "changePriority must decrement exactly once")
	assert.Equal(t, 2, l.Ipc)
}

func TestMarkPageInvalidFullToVictimTransition(t *testing.T) {
	geo := smallGeo()
	m := New(geo)
	l := m.Line(0)

	var pages []geometry.Ppa
	for ch := 0; ch < geo.Channels; ch++ {
		for pg := 0; pg < geo.PgsPerBlk; pg++ {
			p := geometry.Ppa{Ch: ch, Lun: 0, Blk: 0, Pg: pg}
			pages = append(pages, p)
			m.MarkPageValid(p, l)
		}
	}
	require.Equal(t, geo.PgsPerLine, l.Vpc)
	m.InsertFull(l)
	assert.Equal(t, 1, m.FullCount())

	m.MarkPageInvalid(pages[0], l)
	assert.Equal(t, 0, m.FullCount(), "line must leave the full list on first invalidation")
	assert.Equal(t, geo.PgsPerLine-1, l.Vpc, "exactly one decrement during the full-to-victim transition")
	assert.True(t, l.InQueue())
}

func TestAcquireFreeLineAndMarkLineFree(t *testing.T) {
	geo := smallGeo()
	m := New(geo)
	initialFree := m.FreeCount()

	l, ok := m.AcquireFreeLine()
	require.True(t, ok)
	assert.Equal(t, initialFree-1, m.FreeCount())

	m.MarkLineFree(l)
	assert.Equal(t, initialFree, m.FreeCount())
}

func TestMarkBlockFreeResetsPages(t *testing.T) {
	geo := smallGeo()
	m := New(geo)
	l := m.Line(0)

	ppa := geometry.Ppa{Ch: 0, Lun: 0, Blk: 0, Pg: 0}
	m.MarkPageValid(ppa, l)
	m.MarkPageInvalid(ppa, l)

	m.MarkBlockFree(0, 0, l)
	assert.Equal(t, Free, m.PageStatus(geo.Flat(ppa)))
	assert.Equal(t, 0, l.Blocks[m.blockIdx(0, 0)].Vpc)
	assert.Equal(t, 0, l.Blocks[m.blockIdx(0, 0)].Ipc)
	assert.Equal(t, uint64(1), l.Blocks[m.blockIdx(0, 0)].EraseCnt)
}

func TestGreedyVictimOrdering(t *testing.T) {
	geo := smallGeo()
	m := New(geo)

	lo := m.Line(0)
	hi := m.Line(1)
	m.MarkPageValid(geometry.Ppa{Ch: 0, Lun: 0, Blk: 0, Pg: 0}, lo)
	m.MarkPageValid(geometry.Ppa{Ch: 0, Lun: 0, Blk: 1, Pg: 0}, hi)
	m.MarkPageValid(geometry.Ppa{Ch: 0, Lun: 0, Blk: 1, Pg: 1}, hi)

	m.InsertVictim(lo)
	m.InsertVictim(hi)

	assert.Equal(t, lo, m.PeekGreedyVictim(), "lowest VPC line must be the heap root")
	assert.Equal(t, 2, m.VictimCount())

	popped := m.PopGreedyVictim()
	assert.Equal(t, lo, popped)
	assert.Equal(t, 0, popped.Pos())
	assert.Equal(t, 1, m.VictimCount())
}

// Package lines implements the per-partition line manager: the
// free/full/victim membership state machine for super-blocks, and the
// victim priority queue described in the component design (4.C).
package lines

import (
	"container/list"

	"github.com/pony1357/nvmevirt/internal/fault"
	"github.com/pony1357/nvmevirt/internal/geometry"
)

// LineManager owns every Line in a partition plus the free list, full
// list and victim priority queue that classify them.
type LineManager struct {
	geo      geometry.Geometry
	nBlocks  int // channels * lunsPerCh, blocks per line
	lines    []*Line
	free     *list.List
	full     *list.List
	heap     victimHeap
	freeElem map[int]*list.Element
	fullElem map[int]*list.Element
	status   []PageStatus
}

// New builds a line manager with every line initially free and every
// physical page FREE.
func New(geo geometry.Geometry) *LineManager {
	nBlocks := geo.Channels * geo.LunsPerCh
	m := &LineManager{
		geo:      geo,
		nBlocks:  nBlocks,
		lines:    make([]*Line, geo.TtLines),
		free:     list.New(),
		full:     list.New(),
		freeElem: make(map[int]*list.Element, geo.TtLines),
		fullElem: make(map[int]*list.Element),
		status:   make([]PageStatus, geo.TotalPgs),
	}
	for i := 0; i < geo.TtLines; i++ {
		l := newLine(i, nBlocks)
		m.lines[i] = l
		m.freeElem[l.Id] = m.free.PushBack(l)
	}
	return m
}

// Line returns the line with the given id.
func (m *LineManager) Line(id int) *Line { return m.lines[id] }

// TotalLines returns the number of lines the manager was built with.
func (m *LineManager) TotalLines() int { return len(m.lines) }

// FreeCount, FullCount and VictimCount report current list sizes; used
// by invariant checks (spec §8, invariant 2) and by foreground_gc's
// watermark comparison.
func (m *LineManager) FreeCount() int   { return m.free.Len() }
func (m *LineManager) FullCount() int   { return m.full.Len() }
func (m *LineManager) VictimCount() int { return len(m.heap) }

// AcquireFreeLine pops the head of the free list, detached from any
// list or queue. Returns false if none remain.
func (m *LineManager) AcquireFreeLine() (*Line, bool) {
	front := m.free.Front()
	if front == nil {
		return nil, false
	}
	m.free.Remove(front)
	l := front.Value.(*Line)
	delete(m.freeElem, l.Id)
	return l, true
}

// blockIdx maps (ch, lun) to the flat index into Line.Blocks.
func (m *LineManager) blockIdx(ch, lun int) int { return ch*m.geo.LunsPerCh + lun }

// PageStatus returns the current status of the physical page at flat
// index idx.
func (m *LineManager) PageStatus(idx uint64) PageStatus { return m.status[idx] }

// MarkPageValid marks ppa (whose owning line is l) VALID. The page
// must currently be FREE.
func (m *LineManager) MarkPageValid(ppa geometry.Ppa, l *Line) {
	flat := m.geo.Flat(ppa)
	fault.Assert(m.status[flat] == Free, "mark_page_valid: page %v not free", ppa)
	m.status[flat] = Valid
	bi := m.blockIdx(ppa.Ch, ppa.Lun)
	l.Blocks[bi].Vpc++
	l.Vpc++
}

// MarkPageInvalid flips ppa (whose owning line is l) from VALID to
// INVALID, maintaining the single-decrement invariant on l.Vpc
// regardless of whether l is queued, full, or neither (design note in
// §9: change_priority's side effect must fire exactly once).
func (m *LineManager) MarkPageInvalid(ppa geometry.Ppa, l *Line) {
	flat := m.geo.Flat(ppa)
	fault.Assert(m.status[flat] == Valid, "mark_page_invalid: page %v not valid", ppa)
	m.status[flat] = Invalid
	bi := m.blockIdx(ppa.Ch, ppa.Lun)
	l.Blocks[bi].Ipc++
	l.Blocks[bi].Vpc--
	l.Ipc++

	wasFull := l.Vpc == m.geo.PgsPerLine && l.Ipc == 1
	switch {
	case wasFull:
		if e, ok := m.fullElem[l.Id]; ok {
			m.full.Remove(e)
			delete(m.fullElem, l.Id)
		}
		l.Vpc--
		m.insertVictim(l)
	case l.InQueue():
		m.changePriority(l, l.Vpc-1)
	default:
		l.Vpc--
	}
}

// MarkBlockFree resets every page of the (ch, lun) block belonging to
// line l to FREE, zeroes that block's IPC/VPC (folding their last
// values out of the line's aggregate counts first, since those pages
// are gone for good once erased), and bumps its erase count.
func (m *LineManager) MarkBlockFree(ch, lun int, l *Line) {
	bi := m.blockIdx(ch, lun)
	for pg := 0; pg < m.geo.PgsPerBlk; pg++ {
		flat := m.geo.Flat(geometry.Ppa{Ch: ch, Lun: lun, Pl: 0, Blk: l.Id, Pg: pg})
		m.status[flat] = Free
	}
	l.Vpc -= l.Blocks[bi].Vpc
	l.Ipc -= l.Blocks[bi].Ipc
	l.Blocks[bi].Ipc = 0
	l.Blocks[bi].Vpc = 0
	l.Blocks[bi].EraseCnt++
}

// MarkLineFree asserts that l's aggregate counts are already zero and
// appends it to the free list. l must already be detached from the
// full list / victim queue.
func (m *LineManager) MarkLineFree(l *Line) {
	fault.Assert(l.Vpc == 0 && l.Ipc == 0, "mark_line_free: line %d not clean (vpc=%d ipc=%d)", l.Id, l.Vpc, l.Ipc)
	m.freeElem[l.Id] = m.free.PushBack(l)
}

// InsertFull appends l, which has just finished with VPC at maximum,
// to the full list.
func (m *LineManager) InsertFull(l *Line) {
	m.fullElem[l.Id] = m.full.PushBack(l)
}

// InsertVictim enqueues l, which has just finished with at least one
// invalidation, into the victim priority queue.
func (m *LineManager) InsertVictim(l *Line) {
	m.insertVictim(l)
}

// PeekGreedyVictim returns the lowest-VPC victim without removing it.
func (m *LineManager) PeekGreedyVictim() *Line { return m.peekVictimRoot() }

// PopGreedyVictim removes and returns the lowest-VPC victim.
func (m *LineManager) PopGreedyVictim() *Line { return m.popVictimRoot() }

// RemoveVictim detaches l from the victim queue wherever it sits,
// clearing its pos back to 0.
func (m *LineManager) RemoveVictim(l *Line) {
	m.removeVictim(l)
}

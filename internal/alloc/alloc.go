// Package alloc implements the write pointer / page allocator:
// component design 4.D. Two independent cursors — USER and GC — each
// walk their current line in the striping order that maximises
// parallelism across channels and LUNs before crossing a wordline
// boundary, and hand off to a freshly acquired free line when their
// current one is exhausted.
package alloc

import (
	"github.com/pony1357/nvmevirt/internal/fault"
	"github.com/pony1357/nvmevirt/internal/geometry"
	"github.com/pony1357/nvmevirt/internal/lines"
)

// Kind distinguishes the two write-pointer purposes.
type Kind int

const (
	User Kind = iota
	GC
)

// WritePointer is one cursor: a line plus its (ch, lun, pl, pg)
// position within that line's blocks. Upon acquiring a fresh line,
// ch = lun = pl = pg = 0 and blk = line.Id.
type WritePointer struct {
	Line *lines.Line
	Ch   int
	Lun  int
	Pl   int
	Pg   int
}

func (wp *WritePointer) ppa() geometry.Ppa {
	return geometry.Ppa{Ch: wp.Ch, Lun: wp.Lun, Pl: wp.Pl, Blk: wp.Line.Id, Pg: wp.Pg}
}

// Allocator owns the USER and GC write pointers for one partition.
type Allocator struct {
	geo  geometry.Geometry
	lm   *lines.LineManager
	user WritePointer
	gc   WritePointer
}

// New draws one free line for each of the USER and GC pointers. There
// must be at least two free lines at init time.
func New(geo geometry.Geometry, lm *lines.LineManager) *Allocator {
	a := &Allocator{geo: geo, lm: lm}
	ul, ok := lm.AcquireFreeLine()
	fault.Assert(ok, "alloc.New: no free line for USER write pointer")
	a.user = WritePointer{Line: ul}
	gl, ok := lm.AcquireFreeLine()
	fault.Assert(ok, "alloc.New: no free line for GC write pointer")
	a.gc = WritePointer{Line: gl}
	return a
}

func (a *Allocator) wp(kind Kind) *WritePointer {
	if kind == User {
		return &a.user
	}
	return &a.gc
}

// GetNewPage returns the PPA the given cursor currently points at,
// without advancing it.
func (a *Allocator) GetNewPage(kind Kind) geometry.Ppa {
	return a.wp(kind).ppa()
}

// CurrentLine returns the line currently open under the given cursor.
func (a *Allocator) CurrentLine(kind Kind) *lines.Line {
	return a.wp(kind).Line
}

// Advance steps the cursor in stripe order: page, then channel, then
// LUN, then the next wordline within the block. When the block (and
// so the line) is exhausted, it is classified into the full list or
// the victim queue and a fresh free line is drawn — a failure to find
// one is a fatal internal error, matching spec §4.D step 6 and the
// error taxonomy in §7.
func (a *Allocator) Advance(kind Kind) {
	wp := a.wp(kind)
	g := a.geo

	wp.Pg++
	if wp.Pg%g.OneshotPgs != 0 {
		return
	}

	wp.Pg -= g.OneshotPgs
	wp.Ch++
	if wp.Ch < g.Channels {
		return
	}
	wp.Ch = 0
	wp.Lun++
	if wp.Lun < g.LunsPerCh {
		return
	}
	wp.Lun = 0
	wp.Pg += g.OneshotPgs
	if wp.Pg < g.PgsPerBlk {
		return
	}

	a.finishLine(wp)
}

func (a *Allocator) finishLine(wp *WritePointer) {
	l := wp.Line
	if l.Vpc == a.geo.PgsPerLine && l.Ipc == 0 {
		a.lm.InsertFull(l)
	} else {
		fault.Assert(l.Ipc > 0, "finishLine: line %d finished neither full nor invalidated", l.Id)
		a.lm.InsertVictim(l)
	}

	next, ok := a.lm.AcquireFreeLine()
	fault.Assert(ok, "finishLine: no free line available")

	wp.Line = next
	wp.Ch, wp.Lun, wp.Pl, wp.Pg = 0, 0, 0, 0
}

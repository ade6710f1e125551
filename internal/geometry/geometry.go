// Package geometry packs and unpacks physical page addresses and
// derives the per-namespace page counts from a NAND configuration.
package geometry

import "fmt"

// UnmappedPPA is the sentinel physical address meaning "no mapping".
const UnmappedPPA = ^uint64(0)

// InvalidLPN is the sentinel reverse-map entry meaning "no logical page".
const InvalidLPN = ^uint64(0)

// Ppa identifies exactly one NAND page: channel, LUN within channel,
// plane within LUN, block within plane, page within block.
type Ppa struct {
	Ch  int
	Lun int
	Pl  int
	Blk int
	Pg  int
}

// Geometry holds the fixed-at-init NAND configuration and the values
// derived from it.
type Geometry struct {
	Channels     int // nchs
	LunsPerCh    int
	PlsPerLun    int // assumed 1
	BlksPerPl    int
	PgsPerBlk    int
	SecsPerPg    int
	PgSizeBytes  int
	OneshotPgs   int // pages committed per wordline program

	// Derived.
	PgsPerLine int
	PgsPerLun  int
	PgsPerCh   int
	PgsPerPl   int
	TotalPgs   int
	TtLines    int
}

// New derives the geometry's cached fields from its configured ones.
func New(channels, lunsPerCh, plsPerLun, blksPerPl, pgsPerBlk, secsPerPg,
	pgSizeBytes, oneshotPgs int) Geometry {
	g := Geometry{
		Channels:    channels,
		LunsPerCh:   lunsPerCh,
		PlsPerLun:   plsPerLun,
		BlksPerPl:   blksPerPl,
		PgsPerBlk:   pgsPerBlk,
		SecsPerPg:   secsPerPg,
		PgSizeBytes: pgSizeBytes,
		OneshotPgs:  oneshotPgs,
	}
	g.PgsPerPl = g.PgsPerBlk * g.BlksPerPl
	g.PgsPerLun = g.PgsPerPl * g.PlsPerLun
	g.PgsPerCh = g.PgsPerLun * g.LunsPerCh
	g.TotalPgs = g.PgsPerCh * g.Channels
	g.PgsPerLine = g.PgsPerBlk * g.Channels * g.LunsPerCh * g.PlsPerLun
	g.TtLines = g.BlksPerPl
	return g
}

// SamsungPro970 is a representative consumer-NVMe geometry profile,
// modelled after the SAMSUNG_970PRO configuration entries in the
// original C reference (ssd_config.h): 8 channels, 2 LUNs per channel,
// a single plane per LUN, 512 pages of 4 sectors (16 KiB) per block,
// and a 4-page (64 KiB) wordline.
func SamsungPro970() Geometry {
	return New(8, 2, 1, 512, 512, 4, 16*1024, 4)
}

// Flat converts a PPA to a dense physical page index using the
// channel/LUN/plane/block/page mixed-radix formula.
func (g Geometry) Flat(p Ppa) uint64 {
	idx := p.Ch*g.PgsPerCh + p.Lun*g.PgsPerLun + p.Pl*g.PgsPerPl +
		p.Blk*g.PgsPerBlk + p.Pg
	return uint64(idx)
}

// Unflat is the inverse of Flat: it recovers the PPA from a dense
// physical page index.
func (g Geometry) Unflat(flat uint64) Ppa {
	idx := int(flat)
	pg := idx % g.PgsPerBlk
	idx /= g.PgsPerBlk
	blk := idx % g.BlksPerPl
	idx /= g.BlksPerPl
	pl := idx % g.PlsPerLun
	idx /= g.PlsPerLun
	lun := idx % g.LunsPerCh
	idx /= g.LunsPerCh
	ch := idx
	return Ppa{Ch: ch, Lun: lun, Pl: pl, Blk: blk, Pg: pg}
}

// Valid reports whether every sub-index of p is in range.
func (g Geometry) Valid(p Ppa) bool {
	return p.Ch >= 0 && p.Ch < g.Channels &&
		p.Lun >= 0 && p.Lun < g.LunsPerCh &&
		p.Pl >= 0 && p.Pl < g.PlsPerLun &&
		p.Blk >= 0 && p.Blk < g.BlksPerPl &&
		p.Pg >= 0 && p.Pg < g.PgsPerBlk
}

// LastInWordline reports whether p is the final page of its wordline,
// i.e. the one-shot program group it belongs to has just been filled.
func (g Geometry) LastInWordline(p Ppa) bool {
	return p.Pg%g.OneshotPgs == g.OneshotPgs-1
}

// FlashPgGroup identifies the (ch, lun, wordline-within-block) group p
// belongs to, used to coalesce reads and batch GC copies.
func (g Geometry) FlashPgGroup(p Ppa) (ch, lun, wordline int) {
	return p.Ch, p.Lun, p.Pg / g.OneshotPgs
}

func (p Ppa) String() string {
	return fmt.Sprintf("ppa(ch=%d,lun=%d,pl=%d,blk=%d,pg=%d)", p.Ch, p.Lun, p.Pl, p.Blk, p.Pg)
}

package ftl

import (
	"github.com/pony1357/nvmevirt/internal/accounting"
	"github.com/pony1357/nvmevirt/internal/alloc"
	"github.com/pony1357/nvmevirt/internal/dbgstats"
	"github.com/pony1357/nvmevirt/internal/fault"
	"github.com/pony1357/nvmevirt/internal/flowctl"
	"github.com/pony1357/nvmevirt/internal/gc"
	"github.com/pony1357/nvmevirt/internal/geometry"
	"github.com/pony1357/nvmevirt/internal/lines"
	"github.com/pony1357/nvmevirt/internal/mapping"
	"github.com/pony1357/nvmevirt/internal/nand"
)

// Partition owns one independent slice of the namespace's logical
// address space: its own geometry, mapping tables, line manager,
// write pointers and credit counter. Partitions share no mutable FTL
// state (spec §5) — only the NAND timing model and the write buffer,
// both owned by the enclosing Namespace, are shared.
type Partition struct {
	id  int
	geo geometry.Geometry

	lm    *lines.LineManager
	mt    *mapping.Table
	al    *alloc.Allocator
	flow  *flowctl.FlowControl
	gcEng *gc.Engine

	stats dbgstats.Partition
	acct  accounting.Accnt

	// Backing is never set or read by this package; it stays nil.
	Backing *nand.BackingStore
}

func newPartition(id int, cfg Config, nandModel *nand.Model) *Partition {
	geo := cfg.partitionGeometry()
	lm := lines.New(geo)
	nLpn := geo.TotalPgs * 100 / cfg.PbaPcent()
	mt := mapping.New(nLpn, geo.TotalPgs)
	al := alloc.New(geo, lm)

	p := &Partition{id: id, geo: geo, lm: lm, mt: mt, al: al}

	p.gcEng = &gc.Engine{
		Geo:           geo,
		Lines:         lm,
		Mapping:       mt,
		Alloc:         al,
		Policy:        newPolicy(cfg),
		Nand:          nandModel,
		EnableGCDelay: cfg.EnableGCDelay,
		Stats:         &p.stats,
		Acct:          &p.acct,
	}
	p.flow = flowctl.New(geo.PgsPerLine, flowctl.Config{GCThresLinesHigh: cfg.GCThresLinesHigh}, p.gcEng, lm)
	p.flow.OnForegroundGC = func() { p.stats.ForegroundGCs.Inc() }
	return p
}

// NumLpn returns the number of logical pages this partition addresses.
func (p *Partition) NumLpn() int { return p.mt.NumLpn() }

// ID implements metrics.PartitionStats.
func (p *Partition) ID() int { return p.id }

// FreeLines implements metrics.PartitionStats.
func (p *Partition) FreeLines() int { return p.lm.FreeCount() }

// FullLines implements metrics.PartitionStats.
func (p *Partition) FullLines() int { return p.lm.FullCount() }

// VictimLines implements metrics.PartitionStats.
func (p *Partition) VictimLines() int { return p.lm.VictimCount() }

// WriteCredits implements metrics.PartitionStats.
func (p *Partition) WriteCredits() int64 { return p.flow.WriteCredits() }

// GCCycles implements metrics.PartitionStats.
func (p *Partition) GCCycles() int64 { return p.stats.GCCycles.Get() }

// PagesCopied implements metrics.PartitionStats.
func (p *Partition) PagesCopied() int64 { return p.stats.PagesCopied.Get() }

// ForegroundGCs implements metrics.PartitionStats.
func (p *Partition) ForegroundGCs() int64 { return p.stats.ForegroundGCs.Get() }

// UserIoNs implements metrics.PartitionStats.
func (p *Partition) UserIoNs() int64 { return p.acct.Now().UserNs }

// GCIoNs implements metrics.PartitionStats.
func (p *Partition) GCIoNs() int64 { return p.acct.Now().GCNs }

// recordUserTime attributes dur nanoseconds of simulated time to this
// partition's user-I/O accounting bucket.
func (p *Partition) recordUserTime(dur int64) {
	if dur > 0 {
		p.acct.AddUser(dur)
	}
}

// OpenLineCount returns the number of write pointers currently holding
// a line open (always 2: USER and GC), used by the line-count identity
// check in spec §8 invariant 2.
func (p *Partition) OpenLineCount() int { return 2 }

// TotalLines returns this partition's total line count.
func (p *Partition) TotalLines() int { return p.lm.TotalLines() }

// CheckInvariants checks the line-count identity (spec §8 invariant
// 2); no other invariant is checked here. It panics (via
// internal/fault) on violation, matching the fatal-invariant-violation
// error class in spec §7.
func (p *Partition) CheckInvariants() {
	total := p.lm.FreeCount() + p.lm.FullCount() + p.lm.VictimCount() + p.OpenLineCount()
	fault.Assert(total == p.lm.TotalLines(), "line count identity violated: free=%d full=%d victim=%d open=%d total=%d",
		p.lm.FreeCount(), p.lm.FullCount(), p.lm.VictimCount(), p.OpenLineCount(), p.lm.TotalLines())
}

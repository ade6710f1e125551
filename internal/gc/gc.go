// Package gc is the garbage-collection pipeline: component design
// 4.F. For a chosen victim line it copies every still-valid page out
// flash-page-group by flash-page-group, erases each of the victim's
// per-(channel, LUN) blocks, and returns the line to the free pool.
package gc

import (
	"github.com/pony1357/nvmevirt/internal/accounting"
	"github.com/pony1357/nvmevirt/internal/alloc"
	"github.com/pony1357/nvmevirt/internal/dbgstats"
	"github.com/pony1357/nvmevirt/internal/geometry"
	"github.com/pony1357/nvmevirt/internal/lines"
	"github.com/pony1357/nvmevirt/internal/mapping"
	"github.com/pony1357/nvmevirt/internal/nand"
	"github.com/pony1357/nvmevirt/internal/victim"
)

// Engine runs do_gc cycles for one partition.
type Engine struct {
	Geo           geometry.Geometry
	Lines         *lines.LineManager
	Mapping       *mapping.Table
	Alloc         *alloc.Allocator
	Policy        victim.Policy
	Nand          *nand.Model
	EnableGCDelay bool
	Stats         *dbgstats.Partition
	Acct          *accounting.Accnt
}

// RunForced attempts one do_gc(force=true) cycle at simulated time
// nowNs, satisfying flowctl.GCRunner. The original only ever invokes
// do_gc with force=true, from foreground_gc; there is no separate
// non-forced call site, so that variant is not exposed here.
func (e *Engine) RunForced(nowNs int64) (int, bool) { return e.doGC(nowNs, true) }

// doGC implements spec §4.F steps 1-5.
func (e *Engine) doGC(nowNs int64, force bool) (reclaimed int, ok bool) {
	v, ok := e.Policy.Select(e.Lines, e.Geo, force)
	if !ok {
		return 0, false
	}
	creditsToRefill := v.Ipc
	maxDoneNs := nowNs

	wordlinesPerBlock := e.Geo.PgsPerBlk / e.Geo.OneshotPgs
	for ch := 0; ch < e.Geo.Channels; ch++ {
		for lun := 0; lun < e.Geo.LunsPerCh; lun++ {
			for wl := 0; wl < wordlinesPerBlock; wl++ {
				if done := e.cleanOneFlashPg(nowNs, v, ch, lun, wl); done > maxDoneNs {
					maxDoneNs = done
				}
			}
			if e.EnableGCDelay {
				done := e.Nand.AdvanceNand(nand.Request{
					Kind:        nand.OpErase,
					Ppa:         geometry.Ppa{Ch: ch, Lun: lun, Blk: v.Id},
					StartTimeNs: nowNs,
				})
				if done > maxDoneNs {
					maxDoneNs = done
				}
			}
			e.Lines.MarkBlockFree(ch, lun, v)
		}
	}

	e.Lines.MarkLineFree(v)
	if e.Stats != nil {
		e.Stats.GCCycles.Inc()
	}
	if e.Acct != nil {
		e.Acct.AddGC(maxDoneNs - nowNs)
	}
	return creditsToRefill, true
}

// cleanOneFlashPg handles one flash-page group (one wordline's worth
// of pages at a given channel/LUN): it counts and (optionally) times
// a batched NAND read for the valid pages, then individually copies
// each valid page to a freshly allocated GC-write-pointer page. It
// returns the latest NAND completion time it charged, or nowNs if
// EnableGCDelay is off.
func (e *Engine) cleanOneFlashPg(nowNs int64, v *lines.Line, ch, lun, wordline int) int64 {
	base := wordline * e.Geo.OneshotPgs
	maxDoneNs := nowNs

	validCount := 0
	for i := 0; i < e.Geo.OneshotPgs; i++ {
		ppa := geometry.Ppa{Ch: ch, Lun: lun, Blk: v.Id, Pg: base + i}
		if e.Lines.PageStatus(e.Geo.Flat(ppa)) == lines.Valid {
			validCount++
		}
	}
	if validCount > 0 && e.EnableGCDelay {
		done := e.Nand.AdvanceNand(nand.Request{
			Kind:        nand.OpRead,
			Ppa:         geometry.Ppa{Ch: ch, Lun: lun, Blk: v.Id, Pg: base},
			XferBytes:   validCount * e.Geo.PgSizeBytes,
			StartTimeNs: nowNs,
		})
		if done > maxDoneNs {
			maxDoneNs = done
		}
	}

	for i := 0; i < e.Geo.OneshotPgs; i++ {
		oldPpa := geometry.Ppa{Ch: ch, Lun: lun, Blk: v.Id, Pg: base + i}
		oldFlat := e.Geo.Flat(oldPpa)
		if e.Lines.PageStatus(oldFlat) != lines.Valid {
			continue
		}

		lpn := e.Mapping.RevLookup(oldFlat)
		newPpa := e.Alloc.GetNewPage(alloc.GC)
		newFlat := e.Geo.Flat(newPpa)
		newLine := e.Alloc.CurrentLine(alloc.GC)

		e.Mapping.SetFwd(lpn, newFlat)
		e.Mapping.SetRev(newFlat, lpn)
		e.Lines.MarkPageValid(newPpa, newLine)
		e.Alloc.Advance(alloc.GC)
		if e.Stats != nil {
			e.Stats.PagesCopied.Inc()
		}

		if !e.EnableGCDelay {
			continue
		}
		var done int64
		if e.Geo.LastInWordline(newPpa) {
			done = e.Nand.AdvanceNand(nand.Request{
				Kind:        nand.OpWrite,
				Ppa:         newPpa,
				XferBytes:   e.Geo.OneshotPgs * e.Geo.PgSizeBytes,
				StartTimeNs: nowNs,
			})
		} else {
			done = e.Nand.AdvanceNand(nand.Request{
				Kind:        nand.OpNop,
				Ppa:         newPpa,
				StartTimeNs: nowNs,
			})
		}
		if done > maxDoneNs {
			maxDoneNs = done
		}
	}
	return maxDoneNs
}

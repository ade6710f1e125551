package ftl

import (
	"github.com/pony1357/nvmevirt/internal/alloc"
	"github.com/pony1357/nvmevirt/internal/geometry"
	"github.com/pony1357/nvmevirt/internal/lines"
	"github.com/pony1357/nvmevirt/internal/nand"
	"github.com/pony1357/nvmevirt/internal/worker"
)

// write implements component design 4.H's Write handler: admit
// against the write buffer, then for every logical page invalidate
// any prior mapping, allocate a fresh one, and consume a write
// credit.
func (ns *Namespace) write(req Request) (Result, bool) {
	if !ns.validateRange(req) {
		ns.log.Warn().Uint64("lba", req.StartLBA).Uint64("len", req.NumPages).Msg("write: LBA range out of bounds")
		return Result{}, false
	}

	totalBytes := int(req.NumPages) * ns.cfg.PgSize
	if _, ok := ns.wbuf.Allocate(totalBytes); !ok {
		ns.log.Warn().Int("bytes", totalBytes).Msg("write: write buffer allocation refused")
		return Result{}, false
	}
	bufCompletion := ns.nand.AdvanceWriteBuffer(req.StartNs, totalBytes)

	var maxNandCompletion int64
	for i := uint64(0); i < req.NumPages; i++ {
		lpn := req.StartLBA + i
		part, localLpn := ns.route(lpn)
		geo := part.geo

		if oldFlat := part.mt.Lookup(localLpn); oldFlat != geometry.UnmappedPPA {
			oldPpa := geo.Unflat(oldFlat)
			oldLine := part.lm.Line(oldPpa.Blk)
			oldLine.Age = req.StartNs / int64(1_000_000_000)
			part.lm.MarkPageInvalid(oldPpa, oldLine)
			part.mt.ClearRev(oldFlat)
		}

		newPpa := part.al.GetNewPage(alloc.User)
		newFlat := geo.Flat(newPpa)
		newLine := part.al.CurrentLine(alloc.User)

		part.mt.SetFwd(localLpn, newFlat)
		part.mt.SetRev(newFlat, localLpn)
		part.lm.MarkPageValid(newPpa, newLine)
		part.al.Advance(alloc.User)

		if geo.LastInWordline(newPpa) {
			bytes := geo.OneshotPgs * geo.PgSizeBytes
			completed := ns.nand.AdvanceNand(nand.Request{
				Kind:        nand.OpWrite,
				Ppa:         newPpa,
				XferBytes:   bytes,
				StartTimeNs: req.StartNs,
			})
			if completed > maxNandCompletion {
				maxNandCompletion = completed
			}
			part.recordUserTime(completed - req.StartNs)
			ns.pool.Schedule(worker.Op{
				SqID:         req.SqID,
				TargetNs:     completed,
				BufferHandle: ns.wbuf,
				Bytes:        bytes,
			})
		}

		part.flow.ConsumeWriteCredit()
		part.flow.CheckAndRefill(req.StartNs)
	}

	target := bufCompletion
	if req.FUA || !ns.cfg.EarlyCompletion {
		target = maxNandCompletion
		if target < bufCompletion {
			target = bufCompletion
		}
	}
	return Result{NsecsTarget: target, Status: StatusSuccess}, true
}

// read implements component design 4.H's Read handler: unmapped pages
// are skipped silently; consecutive pages landing in the same
// flash-page group are coalesced into one NAND read call; a small
// total request size short-circuits to a fixed firmware latency with
// no NAND calls at all.
func (ns *Namespace) read(req Request) (Result, bool) {
	if !ns.validateRange(req) {
		ns.log.Warn().Uint64("lba", req.StartLBA).Uint64("len", req.NumPages).Msg("read: LBA range out of bounds")
		return Result{}, false
	}

	totalBytes := int(req.NumPages) * ns.cfg.PgSize
	if totalBytes <= 4096*len(ns.parts) {
		return Result{NsecsTarget: req.StartNs + ns.cfg.Latencies.FwRead4kLatNs, Status: StatusSuccess}, true
	}

	type group struct {
		ch, lun, wl int
		count       int
	}
	var cur *group
	var maxCompletion int64

	flush := func() {
		if cur == nil || cur.count == 0 {
			return
		}
		completed := ns.nand.AdvanceNand(nand.Request{
			Kind:        nand.OpRead,
			Ppa:         geometry.Ppa{Ch: cur.ch, Lun: cur.lun},
			XferBytes:   cur.count * ns.cfg.PgSize,
			StartTimeNs: req.StartNs,
		})
		if completed > maxCompletion {
			maxCompletion = completed
		}
	}

	for i := uint64(0); i < req.NumPages; i++ {
		lpn := req.StartLBA + i
		part, localLpn := ns.route(lpn)
		flat := part.mt.Lookup(localLpn)
		if flat == geometry.UnmappedPPA {
			continue
		}
		if part.lm.PageStatus(flat) != lines.Valid {
			continue
		}
		ppa := part.geo.Unflat(flat)
		ch, lun, wl := part.geo.FlashPgGroup(ppa)
		if cur == nil || cur.ch != ch || cur.lun != lun || cur.wl != wl {
			flush()
			cur = &group{ch: ch, lun: lun, wl: wl}
		}
		cur.count++
	}
	flush()

	return Result{NsecsTarget: maxCompletion + ns.cfg.Latencies.FwReadLatNs, Status: StatusSuccess}, true
}

// flush implements component design 4.H's Flush handler: report the
// latest next-idle time across the shared NAND timing model.
func (ns *Namespace) flush(req Request) (Result, bool) {
	return Result{NsecsTarget: ns.nand.NextIdleTime(), Status: StatusSuccess}, true
}

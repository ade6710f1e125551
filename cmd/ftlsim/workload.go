package main

import (
	"context"
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/pony1357/nvmevirt/ftl"
)

// runWorkload replays a small scripted sequence against ns: a
// sequential fill of the whole namespace, a pass of random
// overwrites (to exercise invalidation and GC), a pass of random
// reads, and a final flush. It stops early if ctx is cancelled.
func runWorkload(ctx context.Context, log zerolog.Logger, ns *ftl.Namespace) error {
	total := ns.TotalLpn()
	if total == 0 {
		return nil
	}

	const batchPages = 8
	var nowNs int64
	const stepNs = 4_000

	issue := func(req ftl.Request) bool {
		select {
		case <-ctx.Done():
			return false
		default:
		}
		req.StartNs = nowNs
		res, ok := ns.ProcIOCmd(req)
		if !ok {
			log.Warn().Uint64("lba", req.StartLBA).Msg("workload: command rejected")
		}
		if res.NsecsTarget > nowNs {
			nowNs = res.NsecsTarget
		}
		nowNs += stepNs
		return true
	}

	log.Info().Uint64("total_lpn", total).Msg("workload: sequential fill")
	for lba := uint64(0); lba < total; lba += batchPages {
		n := batchPages
		if remaining := total - lba; uint64(n) > remaining {
			n = int(remaining)
		}
		if !issue(ftl.Request{Opcode: ftl.OpWrite, StartLBA: lba, NumPages: uint64(n)}) {
			return ctx.Err()
		}
	}

	rng := rand.New(rand.NewSource(1))
	log.Info().Msg("workload: random overwrite pass")
	for i := 0; i < int(total)/4; i++ {
		lba := uint64(rng.Int63n(int64(total)))
		if !issue(ftl.Request{Opcode: ftl.OpWrite, StartLBA: lba, NumPages: 1}) {
			return ctx.Err()
		}
	}

	log.Info().Msg("workload: random read pass")
	for i := 0; i < int(total)/4; i++ {
		lba := uint64(rng.Int63n(int64(total)))
		if !issue(ftl.Request{Opcode: ftl.OpRead, StartLBA: lba, NumPages: 1}) {
			return ctx.Err()
		}
	}

	issue(ftl.Request{Opcode: ftl.OpFlush, StartLBA: 0, NumPages: 1})
	log.Info().Int64("final_ns", nowNs).Msg("workload: complete")
	return nil
}

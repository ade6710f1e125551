// Package flowctl couples host writes to garbage collection through a
// credit counter — component design 4.G. Every user-page allocation
// consumes one credit; once credits run out, a foreground GC cycle is
// attempted and the refill quantum becomes however many pages that
// cycle reclaimed (or the initial quantum, if no cycle ran). This
// closed loop bounds how far writes can outrun reclamation.
package flowctl

// GCRunner is satisfied by *gc.Engine's forced-run entry point.
type GCRunner interface {
	// RunForced attempts one do_gc(force=true) cycle at simulated time
	// nowNs. ok is false if no victim could be found even under force
	// (e.g. no lines have any invalidations yet); reclaimed is the
	// victim's IPC at selection time, which becomes the next refill
	// quantum.
	RunForced(nowNs int64) (reclaimed int, ok bool)
}

// FreeCounter is satisfied by *lines.LineManager's FreeCount.
type FreeCounter interface {
	FreeCount() int
}

// Config holds the watermarks that gate foreground GC.
type Config struct {
	// GCThresLinesHigh is the free-line watermark above which
	// foreground GC is skipped. The design notes (§9) record that the
	// source uses only this high watermark, even though a separate low
	// watermark field exists; both were 2 in the original and this
	// implementation preserves that single-watermark behaviour.
	GCThresLinesHigh int
}

// DefaultConfig matches the original's defaults.
func DefaultConfig() Config {
	return Config{GCThresLinesHigh: 2}
}

// FlowControl is the per-partition write-credit state machine.
type FlowControl struct {
	writeCredits    int64
	creditsToRefill int64
	cfg             Config
	gc              GCRunner
	free            FreeCounter

	// OnForegroundGC, if set, is called every time foreground GC is
	// attempted (whether or not it actually found a victim) — used to
	// feed the foreground-GC debug counter.
	OnForegroundGC func()
}

// New initializes both the credit counter and the refill quantum to
// pgsPerLine.
func New(pgsPerLine int, cfg Config, gc GCRunner, free FreeCounter) *FlowControl {
	return &FlowControl{
		writeCredits:    int64(pgsPerLine),
		creditsToRefill: int64(pgsPerLine),
		cfg:             cfg,
		gc:              gc,
		free:            free,
	}
}

// ConsumeWriteCredit debits one credit per user page allocation.
func (f *FlowControl) ConsumeWriteCredit() {
	f.writeCredits--
}

// CheckAndRefill runs foreground GC when credits are exhausted and
// refills by however many pages the most recent GC cycle reclaimed
// (or the initial quantum, if none ran). nowNs is the simulated time
// charged to any NAND requests the GC cycle issues.
func (f *FlowControl) CheckAndRefill(nowNs int64) {
	if f.writeCredits <= 0 {
		f.foregroundGC(nowNs)
		f.writeCredits += f.creditsToRefill
	}
}

// foregroundGC runs do_gc(force=true) only when free lines have
// dropped to the high watermark or below. A forced GC may reclaim a
// line the normal VPC guard would have refused.
func (f *FlowControl) foregroundGC(nowNs int64) {
	if f.OnForegroundGC != nil {
		f.OnForegroundGC()
	}
	if f.free.FreeCount() > f.cfg.GCThresLinesHigh {
		return
	}
	if reclaimed, ok := f.gc.RunForced(nowNs); ok {
		f.creditsToRefill = int64(reclaimed)
	}
}

// WriteCredits returns the current signed credit balance.
func (f *FlowControl) WriteCredits() int64 { return f.writeCredits }

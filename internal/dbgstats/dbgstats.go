// Package dbgstats reinstates the debug counters the original
// convparams struct carried (gc_cnt, pg_cnt) that spec.md's
// distillation dropped as incidental. Grounded on the teacher's
// Counter_t (biscuit/src/stats/stats.go): a plain atomic counter,
// gated by nothing — cheap enough to always run — and feeding
// internal/metrics.
package dbgstats

import "sync/atomic"

// Counter is a monotonically increasing, concurrency-safe counter.
type Counter struct{ v int64 }

func (c *Counter) Inc()           { atomic.AddInt64(&c.v, 1) }
func (c *Counter) Add(n int64)    { atomic.AddInt64(&c.v, n) }
func (c *Counter) Get() int64     { return atomic.LoadInt64(&c.v) }

// Partition groups the counters kept per partition: GC cycles run and
// pages copied by GC.
type Partition struct {
	GCCycles Counter
	PagesCopied Counter
	ForegroundGCs Counter
}

// Package accounting tracks, per partition, how much simulated time
// went to servicing host requests versus garbage collection — an
// observability hook, not a core invariant. Grounded on the teacher's
// per-process time accounting (biscuit/src/accnt/accnt.go), whose
// Userns/Sysns nanosecond counters are repurposed here as
// UserNs/GCNs.
package accounting

import "sync/atomic"

// Accnt accumulates nanoseconds spent on user I/O versus GC for one
// partition. Safe for concurrent use; in practice a partition is
// single-threaded (spec §5) so the atomics are cheap insurance for
// the metrics collector reading concurrently.
type Accnt struct {
	userNs int64
	gcNs   int64
	gcRuns int64
}

// AddUser records dur nanoseconds of host-request processing time.
func (a *Accnt) AddUser(dur int64) { atomic.AddInt64(&a.userNs, dur) }

// AddGC records dur nanoseconds spent in one GC cycle and counts the
// cycle.
func (a *Accnt) AddGC(dur int64) {
	atomic.AddInt64(&a.gcNs, dur)
	atomic.AddInt64(&a.gcRuns, 1)
}

// Snapshot is an immutable read of the current counters.
type Snapshot struct {
	UserNs int64
	GCNs   int64
	GCRuns int64
}

// Now returns a Snapshot of the current counters.
func (a *Accnt) Now() Snapshot {
	return Snapshot{
		UserNs: atomic.LoadInt64(&a.userNs),
		GCNs:   atomic.LoadInt64(&a.gcNs),
		GCRuns: atomic.LoadInt64(&a.gcRuns),
	}
}

// IoTime returns the total nanoseconds attributed to this partition,
// user time plus GC time.
func (a *Accnt) IoTime() int64 {
	return atomic.LoadInt64(&a.userNs) + atomic.LoadInt64(&a.gcNs)
}

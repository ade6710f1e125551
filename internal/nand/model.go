// Package nand is the external NAND timing collaborator: it answers
// "when would this operation complete" without performing any actual
// data movement. The FTL core only calls it; it never models the
// NAND core itself. This is the out-of-scope external interface named
// in spec §1/§6.
package nand

import (
	"sync"

	"github.com/pony1357/nvmevirt/internal/geometry"
)

// OpKind distinguishes the timing model applied to a request. Nop is
// used to charge a channel transfer without an accompanying program,
// e.g. for wordline pages other than the last.
type OpKind int

const (
	OpRead OpKind = iota
	OpWrite
	OpNop
	OpErase
)

// Request describes one timing query.
type Request struct {
	Kind          OpKind
	Ppa           geometry.Ppa
	XferBytes     int
	StartTimeNs   int64
	InterleaveDMA bool
}

// Latencies holds the fixed per-operation NAND timing constants,
// representative of the SAMSUNG_970PRO profile used by the original
// reference (ssd_config.h): cell-level read/program/erase latency and
// the per-channel transfer bandwidth.
type Latencies struct {
	ReadNs        int64
	ProgramNs     int64
	EraseNs       int64
	ChannelBpsNs  float64 // bytes per nanosecond of channel bandwidth
	FwRead4kLatNs int64   // fixed firmware latency for the small-request (≤4KiB*partitions) read branch
	FwReadLatNs   int64   // fixed firmware latency for the general read branch
	BufferBpsNs   float64 // write-buffer drain bandwidth
}

// DefaultLatencies returns a representative consumer-NVMe timing
// profile, matching the SAMSUNG_970PRO constants in
// original_source/ssd_config.h.
func DefaultLatencies() Latencies {
	return Latencies{
		ReadNs:        40_000,
		ProgramNs:     200_000,
		EraseNs:       3_000_000,
		ChannelBpsNs:  4.0, // ~4 GB/s
		FwRead4kLatNs: 21_500,
		FwReadLatNs:   30_490,
		BufferBpsNs:   8.0, // ~8 GB/s PCIe-side buffer drain
	}
}

// Model tracks per-channel and per-LUN availability clocks and
// answers timing queries against them.
type Model struct {
	geo geometry.Geometry
	lat Latencies

	mu       sync.Mutex
	chClock  []int64 // next-available ns, indexed by channel
	lunClock []int64 // next-available ns, indexed by ch*lunsPerCh+lun
}

// NewModel builds a timing model for the given geometry and latency
// profile, all clocks starting at time zero.
func NewModel(geo geometry.Geometry, lat Latencies) *Model {
	return &Model{
		geo:      geo,
		lat:      lat,
		chClock:  make([]int64, geo.Channels),
		lunClock: make([]int64, geo.Channels*geo.LunsPerCh),
	}
}

func (m *Model) lunIdx(ch, lun int) int { return ch*m.geo.LunsPerCh + lun }

// AdvanceNand advances the channel/LUN clocks for req and returns the
// absolute completion time in nanoseconds.
func (m *Model) AdvanceNand(req Request) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	li := m.lunIdx(req.Ppa.Ch, req.Ppa.Lun)
	lunReady := m.lunClock[li]
	chReady := m.chClock[req.Ppa.Ch]
	start := req.StartTimeNs
	if lunReady > start {
		start = lunReady
	}

	var cellLat int64
	switch req.Kind {
	case OpRead:
		cellLat = m.lat.ReadNs
	case OpWrite:
		cellLat = m.lat.ProgramNs
	case OpErase:
		cellLat = m.lat.EraseNs
	case OpNop:
		cellLat = 0
	}

	xferStart := start
	if !req.InterleaveDMA && chReady > xferStart {
		xferStart = chReady
	}
	xferNs := int64(0)
	if req.XferBytes > 0 && m.lat.ChannelBpsNs > 0 {
		xferNs = int64(float64(req.XferBytes) / m.lat.ChannelBpsNs)
	}

	done := start + cellLat
	chDone := xferStart + xferNs
	if chDone > done {
		done = chDone
	}

	m.lunClock[li] = done
	if chDone > m.chClock[req.Ppa.Ch] {
		m.chClock[req.Ppa.Ch] = chDone
	}
	return done
}

// NextIdleTime returns the latest next-available time across every
// channel and LUN — the value reported to a flush request.
func (m *Model) NextIdleTime() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	var max int64
	for _, t := range m.chClock {
		if t > max {
			max = t
		}
	}
	for _, t := range m.lunClock {
		if t > max {
			max = t
		}
	}
	return max
}

// Lat exposes the model's fixed timing profile.
func (m *Model) Lat() Latencies { return m.lat }

// AdvanceWriteBuffer answers the write-buffer timing collaborator's
// ssd_advance_write_buffer query: the time at which bytes starting at
// startTimeNs would finish draining across the PCIe-side buffer.
func (m *Model) AdvanceWriteBuffer(startTimeNs int64, bytes int) int64 {
	if m.lat.BufferBpsNs <= 0 || bytes <= 0 {
		return startTimeNs
	}
	return startTimeNs + int64(float64(bytes)/m.lat.BufferBpsNs)
}

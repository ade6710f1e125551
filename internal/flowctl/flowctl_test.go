package flowctl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeGC struct {
	calls     int
	reclaimed int
	ok        bool
}

func (f *fakeGC) RunForced(nowNs int64) (int, bool) {
	f.calls++
	return f.reclaimed, f.ok
}

type fakeFree struct{ n int }

func (f fakeFree) FreeCount() int { return f.n }

func TestConsumeWriteCreditDebitsOne(t *testing.T) {
	f := New(8, DefaultConfig(), &fakeGC{}, fakeFree{n: 10})
	f.ConsumeWriteCredit()
	assert.Equal(t, int64(7), f.WriteCredits())
}

func TestCheckAndRefillSkipsAboveWatermark(t *testing.T) {
	gc := &fakeGC{reclaimed: 3, ok: true}
	f := New(1, Config{GCThresLinesHigh: 2}, gc, fakeFree{n: 10})
	f.ConsumeWriteCredit() // credits -> 0
	f.CheckAndRefill(123)
	assert.Equal(t, 0, gc.calls, "GC should not run while free lines are above the watermark")
	assert.Equal(t, int64(1), f.WriteCredits(), "refilled by the unchanged initial quantum")
}

func TestCheckAndRefillRunsForcedGCBelowWatermark(t *testing.T) {
	gc := &fakeGC{reclaimed: 5, ok: true}
	var fgTriggered bool
	f := New(1, Config{GCThresLinesHigh: 2}, gc, fakeFree{n: 1})
	f.OnForegroundGC = func() { fgTriggered = true }

	f.ConsumeWriteCredit() // credits -> 0
	f.CheckAndRefill(123)

	assert.Equal(t, 1, gc.calls)
	assert.True(t, fgTriggered)
	assert.Equal(t, int64(5), f.WriteCredits(), "refill quantum follows the reclaimed count")
}

func TestCheckAndRefillNoOpWhileCreditsPositive(t *testing.T) {
	gc := &fakeGC{}
	f := New(8, DefaultConfig(), gc, fakeFree{n: 0})
	f.CheckAndRefill(1)
	assert.Equal(t, 0, gc.calls)
	assert.Equal(t, int64(8), f.WriteCredits())
}

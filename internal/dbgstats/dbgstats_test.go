package dbgstats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCounterIncAndAdd(t *testing.T) {
	var c Counter
	c.Inc()
	c.Add(4)
	assert.Equal(t, int64(5), c.Get())
}

func TestPartitionCountersAreIndependent(t *testing.T) {
	var p Partition
	p.GCCycles.Inc()
	p.PagesCopied.Add(10)
	assert.Equal(t, int64(1), p.GCCycles.Get())
	assert.Equal(t, int64(10), p.PagesCopied.Get())
	assert.Equal(t, int64(0), p.ForegroundGCs.Get())
}

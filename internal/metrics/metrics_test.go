package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePartition struct{ id int }

func (f fakePartition) ID() int             { return f.id }
func (f fakePartition) FreeLines() int      { return 3 }
func (f fakePartition) FullLines() int      { return 4 }
func (f fakePartition) VictimLines() int    { return 1 }
func (f fakePartition) WriteCredits() int64 { return 8 }
func (f fakePartition) GCCycles() int64     { return 2 }
func (f fakePartition) PagesCopied() int64  { return 16 }
func (f fakePartition) ForegroundGCs() int64 { return 1 }
func (f fakePartition) UserIoNs() int64      { return 1000 }
func (f fakePartition) GCIoNs() int64        { return 500 }

type fakeSource struct{ parts []PartitionStats }

func (s fakeSource) Partitions() []PartitionStats { return s.parts }
func (s fakeSource) WriteBufferUsed() int         { return 1024 }
func (s fakeSource) WriteBufferCapacity() int     { return 4096 }

func TestCollectorEmitsOneSeriesPerPartition(t *testing.T) {
	source := fakeSource{parts: []PartitionStats{fakePartition{id: 0}, fakePartition{id: 1}}}
	c, err := NewCollector(zerolog.Nop(), source)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(c))

	families, err := reg.Gather()
	require.NoError(t, err)

	var freeLines *dto.MetricFamily
	for _, f := range families {
		if f.GetName() == "nvmevirt_ftl_free_lines" {
			freeLines = f
		}
	}
	require.NotNil(t, freeLines, "free_lines metric family must be present")
	assert.Len(t, freeLines.Metric, 2, "one series per partition")
}

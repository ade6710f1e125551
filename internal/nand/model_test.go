package nand

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pony1357/nvmevirt/internal/geometry"
)

func TestAdvanceNandSerializesSameLun(t *testing.T) {
	geo := geometry.SamsungPro970()
	m := NewModel(geo, DefaultLatencies())

	ppa := geometry.Ppa{Ch: 0, Lun: 0, Blk: 0, Pg: 0}
	first := m.AdvanceNand(Request{Kind: OpRead, Ppa: ppa, StartTimeNs: 0})
	assert.Equal(t, m.Lat().ReadNs, first)

	second := m.AdvanceNand(Request{Kind: OpRead, Ppa: ppa, StartTimeNs: 0})
	assert.Equal(t, first+m.Lat().ReadNs, second, "same LUN back-to-back must serialize")
}

func TestAdvanceNandIndependentLunsDoNotSerialize(t *testing.T) {
	geo := geometry.SamsungPro970()
	m := NewModel(geo, DefaultLatencies())

	a := m.AdvanceNand(Request{Kind: OpRead, Ppa: geometry.Ppa{Ch: 0, Lun: 0}, StartTimeNs: 0})
	b := m.AdvanceNand(Request{Kind: OpRead, Ppa: geometry.Ppa{Ch: 1, Lun: 0}, StartTimeNs: 0})
	assert.Equal(t, a, b, "independent channels starting at the same time complete at the same time")
}

func TestNextIdleTimeTracksMax(t *testing.T) {
	geo := geometry.SamsungPro970()
	m := NewModel(geo, DefaultLatencies())
	assert.Equal(t, int64(0), m.NextIdleTime())

	done := m.AdvanceNand(Request{Kind: OpErase, Ppa: geometry.Ppa{Ch: 3, Lun: 1}, StartTimeNs: 100})
	assert.Equal(t, done, m.NextIdleTime())
}

func TestAdvanceWriteBuffer(t *testing.T) {
	geo := geometry.SamsungPro970()
	m := NewModel(geo, DefaultLatencies())

	completion := m.AdvanceWriteBuffer(0, 8)
	assert.Equal(t, int64(1), completion)
	assert.Equal(t, int64(500), m.AdvanceWriteBuffer(500, 0), "zero bytes completes immediately")
}

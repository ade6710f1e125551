package ftl

import (
	"github.com/pony1357/nvmevirt/internal/flowctl"
	"github.com/pony1357/nvmevirt/internal/geometry"
	"github.com/pony1357/nvmevirt/internal/nand"
	"github.com/pony1357/nvmevirt/internal/victim"
)

// PolicyKind names the victim-selection policy (spec §4.E, §9: modelled
// as a tagged variant switchable at build or config time).
type PolicyKind int

const (
	PolicyGreedy PolicyKind = iota
	PolicyCostBenefit
	PolicyRandom
)

// Config is the per-namespace configuration named in spec §6.
type Config struct {
	NPartitions int

	Channels  int
	LunsPerCh int
	BlksPerPl int // total blocks/plane across the namespace, split evenly across partitions
	PgsPerBlk int
	SecsPerPg int
	PgSize    int
	OneshotPgs int

	OPAreaPercent int // over-provisioning percentage

	GCThresLinesHigh int
	EnableGCDelay    bool

	VictimPolicy PolicyKind
	RandomSeed   int64

	WriteBufferBytes int

	// EarlyCompletion: when true (and FUA is not set) a write responds
	// at the buffer-transfer completion time rather than the NAND
	// program completion time.
	EarlyCompletion bool

	Latencies nand.Latencies
}

// DefaultConfig returns a Config built around the SamsungPro970
// geometry profile.
func DefaultConfig() Config {
	g := geometry.SamsungPro970()
	return Config{
		NPartitions:      1,
		Channels:         g.Channels,
		LunsPerCh:        g.LunsPerCh,
		BlksPerPl:        g.BlksPerPl,
		PgsPerBlk:        g.PgsPerBlk,
		SecsPerPg:        g.SecsPerPg,
		PgSize:           g.PgSizeBytes,
		OneshotPgs:       g.OneshotPgs,
		OPAreaPercent:    20,
		GCThresLinesHigh: flowctl.DefaultConfig().GCThresLinesHigh,
		EnableGCDelay:    true,
		VictimPolicy:     PolicyGreedy,
		RandomSeed:       1,
		WriteBufferBytes: 64 * 1024 * 1024,
		EarlyCompletion:  true,
		Latencies:        nand.DefaultLatencies(),
	}
}

// PbaPcent is (1 + OP) * 100: physical capacity as a percentage of
// logical capacity.
func (c Config) PbaPcent() int {
	return (100 + c.OPAreaPercent) * 100 / 100
}

func (c Config) partitionGeometry() geometry.Geometry {
	return geometry.New(c.Channels, c.LunsPerCh, 1, c.BlksPerPl/c.NPartitions,
		c.PgsPerBlk, c.SecsPerPg, c.PgSize, c.OneshotPgs)
}

func newPolicy(c Config) victim.Policy {
	switch c.VictimPolicy {
	case PolicyCostBenefit:
		return victim.CostBenefit{}
	case PolicyRandom:
		return victim.NewRandom(c.RandomSeed)
	default:
		return victim.Greedy{}
	}
}

// Package victim implements the three victim-selection policies from
// component design 4.E: Greedy, Cost-Benefit and Random.
package victim

import (
	"math/rand"
	"time"

	"github.com/pony1357/nvmevirt/internal/geometry"
	"github.com/pony1357/nvmevirt/internal/lines"
)

// Policy selects the next line to reclaim from the victim pool. A
// non-forced selection that would exceed the VPC guard returns
// (nil, false); the caller decides whether to retry forced.
type Policy interface {
	Select(lm *lines.LineManager, geo geometry.Geometry, force bool) (*lines.Line, bool)
}

// guard reports whether a pick of l is allowed: always when forced,
// otherwise only while l holds at most PgsPerLine/8 valid pages.
func guard(l *lines.Line, geo geometry.Geometry, force bool) bool {
	if force {
		return true
	}
	return l.Vpc <= geo.PgsPerLine/8
}

// Greedy always takes the heap root — the line with the lowest VPC.
type Greedy struct{}

func (Greedy) Select(lm *lines.LineManager, geo geometry.Geometry, force bool) (*lines.Line, bool) {
	l := lm.PeekGreedyVictim()
	if l == nil {
		return nil, false
	}
	if !guard(l, geo, force) {
		return nil, false
	}
	return lm.PopGreedyVictim(), true
}

// AgeLevel buckets an age-in-seconds value the same way the original
// cost-benefit scorer does.
func AgeLevel(ageSeconds int64) int {
	switch {
	case ageSeconds <= 10:
		return 1
	case ageSeconds <= 20:
		return 2
	case ageSeconds <= 45:
		return 3
	case ageSeconds <= 90:
		return 4
	case ageSeconds <= 180:
		return 5
	case ageSeconds <= 360:
		return 6
	default:
		return 7
	}
}

// CostBenefit scores every line in the victim pool by
// (VPC << 10) / (IPC * age_level) and picks the minimum, favouring
// lines that are both sparsely valid and old.
type CostBenefit struct {
	// Now returns the current time in unix seconds; overridable for
	// deterministic tests. Defaults to time.Now when nil.
	Now func() int64
}

func (c CostBenefit) now() int64 {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now().Unix()
}

func (c CostBenefit) Select(lm *lines.LineManager, geo geometry.Geometry, force bool) (*lines.Line, bool) {
	victims := lm.Victims()
	if len(victims) == 0 {
		return nil, false
	}
	now := c.now()
	var best *lines.Line
	var bestScore int64
	for _, l := range victims {
		if l.Ipc == 0 {
			continue
		}
		level := AgeLevel(now - l.Age)
		score := int64(l.Vpc<<10) / int64(l.Ipc*level)
		if best == nil || score < bestScore {
			best = l
			bestScore = score
		}
	}
	if best == nil {
		return nil, false
	}
	if !guard(best, geo, force) {
		return nil, false
	}
	lm.RemoveVictim(best)
	return best, true
}

// Random picks a uniformly random member of the victim pool.
type Random struct {
	Rng *rand.Rand
}

// NewRandom builds a Random policy seeded deterministically.
func NewRandom(seed int64) *Random {
	return &Random{Rng: rand.New(rand.NewSource(seed))}
}

func (r *Random) Select(lm *lines.LineManager, geo geometry.Geometry, force bool) (*lines.Line, bool) {
	victims := lm.Victims()
	if len(victims) == 0 {
		return nil, false
	}
	rng := r.Rng
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	l := victims[rng.Intn(len(victims))]
	if !guard(l, geo, force) {
		return nil, false
	}
	lm.RemoveVictim(l)
	return l, true
}

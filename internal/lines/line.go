package lines

import "container/list"

// PageStatus is the three-state lifecycle of one physical page.
type PageStatus uint8

const (
	Free PageStatus = iota
	Valid
	Invalid
)

// Block aggregates one (channel, LUN) slot of a Line — i.e. the
// physical NAND block at that line's index within that channel/LUN.
// Blk carries its own valid/invalid counts and a monotonically
// increasing erase count, matching the NAND Block invariants in the
// data model: IPC + VPC + free == pages/block, and after erase
// IPC = VPC = 0.
type Block struct {
	Vpc      int
	Ipc      int
	EraseCnt uint64
}

// Line is the reclamation unit: the same-indexed block across every
// channel, LUN and plane. Vpc/Ipc are the sums of the per-block
// counts. Age is set on every overwrite touching the line and feeds
// the cost-benefit victim policy. pos is the line's 1-based index in
// the victim priority queue; 0 means "not enqueued" — the queue uses
// 1-based indexing specifically to reserve 0 as that sentinel.
type Line struct {
	Id     int
	Vpc    int
	Ipc    int
	Age    int64
	Blocks []Block

	pos  int
	elem *list.Element
}

// Pos reports the line's current victim-queue index (0 if absent).
func (l *Line) Pos() int { return l.pos }

// InQueue reports whether the line is currently in the victim queue.
func (l *Line) InQueue() bool { return l.pos != 0 }

func newLine(id int, nBlocks int) *Line {
	return &Line{Id: id, Blocks: make([]Block, nBlocks)}
}

package lines

import "container/heap"

// victimHeap is a min-heap over *Line ordered by Vpc: the root is
// always the line with the lowest valid-page count, the greediest GC
// candidate. It implements container/heap.Interface; Swap keeps each
// Line's 1-based pos field in sync with its slot so change-priority
// and remove operations can locate their target in O(1) before the
// O(log n) sift.
type victimHeap []*Line

func (h victimHeap) Len() int            { return len(h) }
func (h victimHeap) Less(i, j int) bool  { return h[i].Vpc < h[j].Vpc }
func (h victimHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].pos = i + 1
	h[j].pos = j + 1
}

func (h *victimHeap) Push(x interface{}) {
	l := x.(*Line)
	l.pos = len(*h) + 1
	*h = append(*h, l)
}

func (h *victimHeap) Pop() interface{} {
	old := *h
	n := len(old)
	l := old[n-1]
	old[n-1] = nil
	l.pos = 0
	*h = old[:n-1]
	return l
}

func (m *LineManager) insertVictim(l *Line) {
	heap.Push(&m.heap, l)
}

func (m *LineManager) popVictimRoot() *Line {
	if len(m.heap) == 0 {
		return nil
	}
	return heap.Pop(&m.heap).(*Line)
}

func (m *LineManager) peekVictimRoot() *Line {
	if len(m.heap) == 0 {
		return nil
	}
	return m.heap[0]
}

// changePriority sets l.Vpc to newVpc and repositions l in the heap.
// This is the single place the spec's "decrement as part of the
// priority update" side effect happens: callers must not also
// decrement Vpc themselves when the line is already enqueued.
func (m *LineManager) changePriority(l *Line, newVpc int) {
	l.Vpc = newVpc
	heap.Fix(&m.heap, l.pos-1)
}

// removeVictim detaches l from the heap wherever it currently sits.
func (m *LineManager) removeVictim(l *Line) {
	heap.Remove(&m.heap, l.pos-1)
}

// Victims returns the live backing slice of the victim heap, valid
// only until the next mutating call. Used by victim-selection
// policies that need to scan or index into it (cost-benefit, random).
func (m *LineManager) Victims() []*Line {
	return m.heap
}

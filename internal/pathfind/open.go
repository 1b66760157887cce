package pathfind

import "container/heap"

// openEntry is one OPEN list record. A cell may appear several times;
// stale entries are skipped when popped.
type openEntry struct {
	idx int
	f   int
	g   int
	seq uint64
}

// openList is a binary min-heap on f. Equal f prefers the larger g
// (closer to the goal), then the earlier push.
type openList []openEntry

func (h openList) Len() int { return len(h) }

func (h openList) Less(i, j int) bool {
	a, b := h[i], h[j]
	if a.f != b.f {
		return a.f < b.f
	}
	if a.g != b.g {
		return a.g > b.g
	}
	return a.seq < b.seq
}

func (h openList) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *openList) Push(x any) { *h = append(*h, x.(openEntry)) }

func (h *openList) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}

// push adds e without boxing it through heap.Push.
func (h *openList) push(e openEntry) {
	*h = append(*h, e)
	heap.Fix(h, len(*h)-1)
}

// pop removes the minimum without boxing it through heap.Pop.
func (h *openList) pop() openEntry {
	old := *h
	n := len(old) - 1
	top := old[0]
	old[0] = old[n]
	*h = old[:n]
	if n > 0 {
		heap.Fix(h, 0)
	}
	return top
}

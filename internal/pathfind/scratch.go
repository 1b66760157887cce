package pathfind

// scratch holds per-search node state indexed by y*width+x.
// It is reset, not reallocated, between searches.
type scratch interface {
	reset(cells int)
	gScore(i int) (int, bool)
	parent(i int) int
	update(i, g, parent int)
	closed(i int) bool
	close(i int)
}

// denseScratch uses flat slices and generation stamps, so a reset costs
// O(1) unless the grid grew.
type denseScratch struct {
	stamp   uint32
	seen    []uint32
	done    []uint32
	g       []int
	parents []int32
}

func (s *denseScratch) reset(cells int) {
	if len(s.seen) < cells {
		s.seen = make([]uint32, cells)
		s.done = make([]uint32, cells)
		s.g = make([]int, cells)
		s.parents = make([]int32, cells)
		s.stamp = 0
	}
	s.stamp++
	if s.stamp == 0 {
		clear(s.seen)
		clear(s.done)
		s.stamp = 1
	}
}

func (s *denseScratch) gScore(i int) (int, bool) {
	if s.seen[i] != s.stamp {
		return 0, false
	}
	return s.g[i], true
}

func (s *denseScratch) parent(i int) int { return int(s.parents[i]) }

func (s *denseScratch) update(i, g, parent int) {
	s.seen[i] = s.stamp
	s.g[i] = g
	s.parents[i] = int32(parent)
}

func (s *denseScratch) closed(i int) bool { return s.done[i] == s.stamp }

func (s *denseScratch) close(i int) { s.done[i] = s.stamp }

type sparseNode struct {
	g      int
	parent int
	closed bool
}

// sparseScratch keeps only touched cells, for grids too large to mirror.
type sparseScratch struct {
	nodes map[int]sparseNode
}

func (s *sparseScratch) reset(int) {
	if s.nodes == nil {
		s.nodes = make(map[int]sparseNode, 1024)
		return
	}
	clear(s.nodes)
}

func (s *sparseScratch) gScore(i int) (int, bool) {
	n, ok := s.nodes[i]
	return n.g, ok
}

func (s *sparseScratch) parent(i int) int { return s.nodes[i].parent }

func (s *sparseScratch) update(i, g, parent int) {
	n := s.nodes[i]
	n.g, n.parent = g, parent
	s.nodes[i] = n
}

func (s *sparseScratch) closed(i int) bool { return s.nodes[i].closed }

func (s *sparseScratch) close(i int) {
	n := s.nodes[i]
	n.closed = true
	s.nodes[i] = n
}

// Package particles simulates the ember and smoke fields as fixed-capacity
// pools that rewrite flat GPU-visible buffers every frame.
package particles

// Stats counts pool traffic since construction.
type Stats struct {
	Spawned uint64
	Dropped uint64
	Expired uint64
}

// Pool tracks which of a fixed number of slots are in use. Free slots are
// kept on a stack, so acquiring and releasing are O(1) and the active count
// can never exceed the capacity.
type Pool struct {
	active []bool
	free   []int
	count  int
	stats  Stats
}

func NewPool(capacity int) *Pool {
	if capacity < 0 {
		capacity = 0
	}
	p := &Pool{
		active: make([]bool, capacity),
		free:   make([]int, capacity),
	}
	// Lowest indices on top of the stack.
	for i := range p.free {
		p.free[i] = capacity - 1 - i
	}
	return p
}

// Acquire claims a free slot. A saturated pool drops the request silently
// and reports false.
func (p *Pool) Acquire() (int, bool) {
	n := len(p.free)
	if n == 0 {
		p.stats.Dropped++
		return -1, false
	}
	idx := p.free[n-1]
	p.free = p.free[:n-1]
	p.active[idx] = true
	p.count++
	p.stats.Spawned++
	return idx, true
}

// Release returns slot i to the free stack. Releasing an inactive slot is a
// no-op.
func (p *Pool) Release(i int) {
	if i < 0 || i >= len(p.active) || !p.active[i] {
		return
	}
	p.active[i] = false
	p.free = append(p.free, i)
	p.count--
	p.stats.Expired++
}

func (p *Pool) Active(i int) bool { return p.active[i] }

func (p *Pool) ActiveCount() int { return p.count }

func (p *Pool) Capacity() int { return len(p.active) }

func (p *Pool) Stats() Stats { return p.stats }

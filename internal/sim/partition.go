package sim

import "github.com/san-kum/gravsim/internal/physics"

// spread splits n items over parts as evenly as integer division allows;
// the first n%parts partitions take one extra.
func spread(n, parts int) []int {
	counts := make([]int, parts)
	if parts == 0 || n <= 0 {
		return counts
	}
	base, extra := n/parts, n%parts
	for i := range counts {
		counts[i] = base
		if i < extra {
			counts[i]++
		}
	}
	return counts
}

// fill appends bodies produced by next to the partitions following counts.
// next reports false to stop early; fill returns the number appended.
func (s *BodySystem) fill(counts []int, next func() (physics.Body, bool)) int {
	added := 0
	for i, n := range counts {
		for k := 0; k < n; k++ {
			b, ok := next()
			if !ok {
				return added
			}
			s.nextID++
			b.ID = s.nextID
			s.parts[i] = append(s.parts[i], b)
			added++
		}
	}
	return added
}

// Rebalance redistributes the transient bodies evenly across partitions,
// keeping their overall order.
func (s *BodySystem) Rebalance() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rebalance()
}

func (s *BodySystem) rebalance() {
	all := s.buffers.Get(s.transients())
	for i, p := range s.parts {
		all = append(all, p...)
		s.parts[i] = p[:0]
	}

	counts := spread(len(all), len(s.parts))
	off := 0
	for i, n := range counts {
		s.parts[i] = append(s.parts[i], all[off:off+n]...)
		off += n
	}
	s.buffers.Put(all)
	s.cursor = 0
}

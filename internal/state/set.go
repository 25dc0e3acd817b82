package state

type entry[V any] struct {
	state *State
	value V
}

// Map keyed by search equivalence rather than value equality.
type Map[V any] struct {
	buckets map[uint64][]entry[V]
	n       int
}

func NewMap[V any]() *Map[V] {
	return &Map[V]{buckets: make(map[uint64][]entry[V])}
}

func (m *Map[V]) Get(s *State) (V, bool) {
	for _, e := range m.buckets[s.hash] {
		if e.state.Equivalent(s) {
			return e.value, true
		}
	}
	var zero V
	return zero, false
}

// Put stores v for the equivalence class of s, replacing any previous value.
func (m *Map[V]) Put(s *State, v V) {
	bucket := m.buckets[s.hash]
	for i, e := range bucket {
		if e.state.Equivalent(s) {
			bucket[i].value = v
			return
		}
	}
	m.buckets[s.hash] = append(bucket, entry[V]{state: s, value: v})
	m.n++
}

func (m *Map[V]) Delete(s *State) {
	bucket := m.buckets[s.hash]
	for i, e := range bucket {
		if e.state.Equivalent(s) {
			bucket = append(bucket[:i], bucket[i+1:]...)
			if len(bucket) == 0 {
				delete(m.buckets, s.hash)
			} else {
				m.buckets[s.hash] = bucket
			}
			m.n--
			return
		}
	}
}

func (m *Map[V]) Len() int { return m.n }

// Set of states under search equivalence.
type Set struct {
	m *Map[struct{}]
}

func NewSet() *Set { return &Set{m: NewMap[struct{}]()} }

// Add reports whether s was not already present.
func (s *Set) Add(st *State) bool {
	if s.Contains(st) {
		return false
	}
	s.m.Put(st, struct{}{})
	return true
}

func (s *Set) Contains(st *State) bool {
	_, ok := s.m.Get(st)
	return ok
}

// Delete reports whether st was present.
func (s *Set) Delete(st *State) bool {
	if !s.Contains(st) {
		return false
	}
	s.m.Delete(st)
	return true
}

func (s *Set) Len() int { return s.m.Len() }

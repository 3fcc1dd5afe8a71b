package ecs

// store is the type-erased view of a component set used when destroying
// entities.
type store interface {
	remove(id entityID) bool
	len() int
}

// sparseSet stores components of one kind keyed by entity id. Dense slices
// keep iteration cache friendly; sparse maps id-1 to a dense index.
type sparseSet[T any] struct {
	dense    []entityID
	entities []Entity
	values   []*T
	sparse   []int32
}

func newSparseSet[T any]() *sparseSet[T] {
	return &sparseSet[T]{}
}

func (s *sparseSet[T]) has(id entityID) bool {
	if s == nil || id == 0 || int(id) > len(s.sparse) {
		return false
	}
	idx := s.sparse[id-1]
	return idx >= 0 && int(idx) < len(s.dense) && s.dense[idx] == id
}

func (s *sparseSet[T]) get(id entityID) (*T, bool) {
	if !s.has(id) {
		return nil, false
	}
	return s.values[s.sparse[id-1]], true
}

func (s *sparseSet[T]) set(e Entity, v *T) {
	id := e.id()
	for int(id) > len(s.sparse) {
		s.sparse = append(s.sparse, -1)
	}
	if s.has(id) {
		idx := s.sparse[id-1]
		s.values[idx] = v
		s.entities[idx] = e
		return
	}
	s.dense = append(s.dense, id)
	s.entities = append(s.entities, e)
	s.values = append(s.values, v)
	s.sparse[id-1] = int32(len(s.dense) - 1)
}

func (s *sparseSet[T]) remove(id entityID) bool {
	if !s.has(id) {
		return false
	}
	idx := s.sparse[id-1]
	last := int32(len(s.dense) - 1)
	lastID := s.dense[last]

	s.dense[idx] = s.dense[last]
	s.entities[idx] = s.entities[last]
	s.values[idx] = s.values[last]
	s.sparse[lastID-1] = idx

	s.dense = s.dense[:last]
	s.entities = s.entities[:last]
	s.values[last] = nil
	s.values = s.values[:last]
	s.sparse[id-1] = -1
	return true
}

func (s *sparseSet[T]) len() int {
	if s == nil {
		return 0
	}
	return len(s.dense)
}

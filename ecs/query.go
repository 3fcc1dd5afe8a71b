package ecs

import "github.com/milk9111/motionseq/ecs/component"

// snapshot copies the dense entity list so callbacks may add or remove
// components of the iterated kind.
func snapshot[T any](s *sparseSet[T]) []Entity {
	if s == nil || len(s.entities) == 0 {
		return nil
	}
	return append([]Entity(nil), s.entities...)
}

// Query returns the live entities carrying kind.
func Query[T any](w *World, kind component.ComponentKind[T]) []Entity {
	var out []Entity
	for _, e := range snapshot(storeFor(w, kind, false)) {
		if IsAlive(w, e) {
			out = append(out, e)
		}
	}
	return out
}

// First returns some live entity carrying kind.
func First[T any](w *World, kind component.ComponentKind[T]) (Entity, bool) {
	s := storeFor(w, kind, false)
	if s == nil {
		return 0, false
	}
	for _, e := range s.entities {
		if IsAlive(w, e) {
			return e, true
		}
	}
	return 0, false
}

// ForEach calls fn for every entity carrying kind.
func ForEach[T any](w *World, kind component.ComponentKind[T], fn func(Entity, *T)) {
	s := storeFor(w, kind, false)
	for _, e := range snapshot(s) {
		if v, ok := s.get(e.id()); ok && IsAlive(w, e) {
			fn(e, v)
		}
	}
}

// ForEach2 calls fn for every entity carrying both kinds.
func ForEach2[A, B any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], fn func(Entity, *A, *B)) {
	sa, sb := storeFor(w, ka, false), storeFor(w, kb, false)
	if sa == nil || sb == nil {
		return
	}
	for _, e := range snapshot(sa) {
		if !IsAlive(w, e) {
			continue
		}
		a, ok := sa.get(e.id())
		if !ok {
			continue
		}
		b, ok := sb.get(e.id())
		if !ok {
			continue
		}
		fn(e, a, b)
	}
}

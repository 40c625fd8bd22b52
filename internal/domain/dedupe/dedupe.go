// Package dedupe tracks place ids already seen while paging through one search.
package dedupe

import "context"

// Deduper records seen ids.
type Deduper interface {
	// SeenAndRecord reports whether id was seen before and records it if not.
	// Empty ids are never recorded and always reported as unseen.
	SeenAndRecord(ctx context.Context, id string) bool

	Size() int
}

// Set is an id set. It lives for a single collection run, which the page cap
// bounds, and is not safe for concurrent use.
type Set struct {
	seen map[string]struct{}
}

// New creates an empty Set.
func New() *Set {
	return &Set{seen: make(map[string]struct{})}
}

// SeenAndRecord implements Deduper.
func (s *Set) SeenAndRecord(_ context.Context, id string) bool {
	if id == "" {
		return false
	}
	if _, ok := s.seen[id]; ok {
		return true
	}
	s.seen[id] = struct{}{}
	return false
}

// Size returns the number of remembered ids.
func (s *Set) Size() int {
	return len(s.seen)
}

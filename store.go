package offerletter

import "sync"

// Store holds the current document. Reads return snapshots and updates
// notify subscribers synchronously in subscription order.
type Store struct {
	mu        sync.Mutex
	doc       Document
	nextID    int
	listeners []listener
}

type listener struct {
	id int
	fn func(Document)
}

// NewStore returns a store holding a repaired copy of doc.
func NewStore(doc Document) *Store {
	return &Store{doc: repair(doc.Clone())}
}

// Current returns a snapshot of the current document.
func (s *Store) Current() Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// Update merges p into the current document and returns the new snapshot.
// Patches are never rejected; invalid structure is repaired.
func (s *Store) Update(p Patch) Document {
	s.mu.Lock()
	s.doc = ApplyPatch(s.doc, p)
	snap := s.doc.Clone()
	listeners := append([]listener(nil), s.listeners...)
	s.mu.Unlock()

	for _, l := range listeners {
		l.fn(snap.Clone())
	}
	return snap
}

// Subscribe registers fn for every later update. The returned function
// removes it and may be called more than once.
func (s *Store) Subscribe(fn func(Document)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, listener{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, l := range s.listeners {
				if l.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

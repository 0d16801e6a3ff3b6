package music

import (
	"iter"
	"sync"
)

// ActiveNoteSet holds the MIDI notes currently sounding. It is a set: a
// repeated Add is absorbed, and a single Remove clears the note. All methods
// are safe for one writer and any number of concurrent readers.
type ActiveNoteSet struct {
	mu    sync.RWMutex
	held  [128]bool
	count int
}

// NewActiveNoteSet returns an empty set.
func NewActiveNoteSet() *ActiveNoteSet {
	return &ActiveNoteSet{}
}

// Add inserts note and reports whether it was absent.
func (s *ActiveNoteSet) Add(note uint8) bool {
	note &= 0x7F
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.held[note] {
		return false
	}
	s.held[note] = true
	s.count++
	return true
}

// Remove deletes note and reports whether it was present. Removing an absent
// note is a no-op.
func (s *ActiveNoteSet) Remove(note uint8) bool {
	note &= 0x7F
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.held[note] {
		return false
	}
	s.held[note] = false
	s.count--
	return true
}

// Contains reports whether note is held.
func (s *ActiveNoteSet) Contains(note uint8) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.held[note&0x7F]
}

// Len returns the number of held notes.
func (s *ActiveNoteSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.count
}

// Clear empties the set and returns the notes it held, lowest first.
func (s *ActiveNoteSet) Clear() []uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	notes := s.snapshotLocked()
	s.held = [128]bool{}
	s.count = 0
	return notes
}

// Snapshot returns the held notes in ascending order as of the call.
func (s *ActiveNoteSet) Snapshot() []uint8 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// All iterates a snapshot taken when iteration starts, so a renderer can
// range over it without holding the lock.
func (s *ActiveNoteSet) All() iter.Seq[uint8] {
	return func(yield func(uint8) bool) {
		for _, note := range s.Snapshot() {
			if !yield(note) {
				return
			}
		}
	}
}

func (s *ActiveNoteSet) snapshotLocked() []uint8 {
	notes := make([]uint8, 0, s.count)
	for n, on := range s.held {
		if on {
			notes = append(notes, uint8(n))
		}
	}
	return notes
}

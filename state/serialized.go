// Package state holds the shared session records read and written by
// the cursor tracker, per-monitor capturers, and overlay renderers.
// Records behave as mutex-guarded monitors: any in-progress access
// completes before the next accessor is admitted. The one exception is
// the cursor position, which uses an atomic exchange because it is
// written on a hot loop and read by every renderer without blocking.
package state

import "sync"

// Serialized guards a record with exclusive access scopes.
type Serialized[T any] struct {
	mu    sync.Mutex
	value T
}

// Access runs f with exclusive read/write access to the record.
func (s *Serialized[T]) Access(f func(*T)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f(&s.value)
}

// Read runs f with a copy-free view of the record. Readers and writers
// are never both active; Read is Access without the mutation intent.
func (s *Serialized[T]) Read(f func(*T)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f(&s.value)
}

// Reset replaces the record with its zero value.
func (s *Serialized[T]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero T
	s.value = zero
}

// GPULock serializes every graphics-API call (capture, bitmap
// conversion, drawing) across all threads. The underlying driver does
// not tolerate concurrent calls, so every GPU-touching component holds
// this lock for the duration of the call. Code is structured so no
// locked path re-enters, and no operation ever holds two state-record
// locks; only the GPU lock may be held alongside a single record lock.
type GPULock struct {
	sync.Mutex
}

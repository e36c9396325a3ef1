// Package tracked provides a reference-counted store for payloads shared
// across many cells, such as image data and hyperlink targets. Payloads are
// deduplicated by content: storing the same bytes twice yields the same
// handle with its count bumped.
package tracked

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

// Kind tags a payload category so identical bytes in different roles do not
// collide (an image and a hyperlink never share a handle).
type Kind uint8

const (
	// KindImage marks pixel payloads.
	KindImage Kind = iota
	// KindHyperlink marks hyperlink payloads.
	KindHyperlink
)

// Key identifies a payload by kind and content hash.
type Key struct {
	Kind Kind
	Hash uint64
}

// Ref is a handle into a Store. Copying a Ref value does not change the
// reference count; callers that duplicate ownership must Retain.
type Ref struct {
	store   *Store
	key     Key
	payload any
}

// Key returns the dedup key for this handle.
func (r *Ref) Key() Key { return r.key }

// Payload returns the stored payload.
func (r *Ref) Payload() any { return r.payload }

// Retain increments the reference count.
func (r *Ref) Retain() {
	if r == nil {
		return
	}
	r.store.addRef(r.key)
}

// Release decrements the reference count, evicting the entry at zero.
func (r *Ref) Release() {
	if r == nil {
		return
	}
	r.store.release(r.key)
}

type entry struct {
	ref   *Ref
	count int
}

// Store holds reference-counted payloads keyed by content. The zero value is
// not usable; use NewStore. The mutex protects only the bucket bookkeeping;
// payloads themselves are immutable once stored.
type Store struct {
	mu      sync.Mutex
	entries map[Key]*entry
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{entries: make(map[Key]*entry)}
}

// Acquire returns a handle for the payload identified by fingerprint,
// creating it on first use. The returned handle starts with (or gains) one
// reference owned by the caller. build is invoked only when the content is
// not already present.
func (s *Store) Acquire(kind Kind, fingerprint []byte, build func() any) *Ref {
	key := Key{Kind: kind, Hash: xxhash.Sum64(fingerprint)}

	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok {
		e.count++
		return e.ref
	}

	ref := &Ref{store: s, key: key, payload: build()}
	s.entries[key] = &entry{ref: ref, count: 1}
	return ref
}

// AddRef increments the count for key. No-op for unknown keys.
func (s *Store) AddRef(key Key) { s.addRef(key) }

// Release decrements the count for key, evicting at zero.
func (s *Store) Release(key Key) { s.release(key) }

// Count reports the current reference count for key, zero if absent.
func (s *Store) Count(key Key) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[key]; ok {
		return e.count
	}
	return 0
}

// Len reports how many distinct payloads are live.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Store) addRef(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[key]; ok {
		e.count++
	}
}

func (s *Store) release(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return
	}
	e.count--
	if e.count <= 0 {
		delete(s.entries, key)
	}
}

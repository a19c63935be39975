package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"
)

// Store holds short-lived verification codes keyed by phone number. It is a
// collaborator owned by the caller, never package-level state.
type Store interface {
	Put(phone, code string)
	// Verify consumes the code on success.
	Verify(phone, code string) bool
}

type entry struct {
	code      string
	expiresAt time.Time
}

// MemoryStore is an in-process Store with TTL expiry. Entries are reaped
// lazily on access.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry
	now     func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Put(phone, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[phone] = entry{code: code, expiresAt: s.now().Add(s.ttl)}
}

func (s *MemoryStore) Verify(phone, code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[phone]
	if !ok {
		return false
	}
	if s.now().After(e.expiresAt) {
		delete(s.entries, phone)
		return false
	}
	if e.code != code {
		return false
	}
	delete(s.entries, phone)
	return true
}

// GenerateCode returns a random 6-digit code.
func GenerateCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		// crypto/rand only fails when the OS entropy source is broken
		return "000000"
	}
	return fmt.Sprintf("%06d", n.Int64())
}

package fallback

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"sync"

	"vantage/internal/domain"

	"github.com/hashicorp/golang-lru/v2/simplelru"
	"golang.org/x/crypto/blake2b"
)

// Seed policy names accepted by configuration
const (
	ModeMemoize    = "memoize"
	ModeRegenerate = "regenerate"
)

// DefaultCacheSize bounds the in-memory seed cache when none is configured
const DefaultCacheSize = 4096

// Seeder decides which seed a fallback render of a view gets
type Seeder interface {
	Seed(ctx context.Context, session string, key domain.ViewKey) (uint64, error)
}

// SeedStore persists memoized seeds across restarts. PutSeed returns the
// seed actually stored, which is an earlier writer's seed if one exists.
type SeedStore interface {
	GetSeed(ctx context.Context, session string, key domain.ViewKey) (uint64, bool, error)
	PutSeed(ctx context.Context, session string, key domain.ViewKey, seed uint64) (uint64, error)
}

// Forgetter is implemented by seeders that keep per-session state
type Forgetter interface {
	Forget(session string) int
}

// NewSeed draws a seed from crypto/rand
func NewSeed() (uint64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// FreshSeeds hands out a new seed on every call, so each render shows
// different numbers
type FreshSeeds struct{}

// Seed implements Seeder
func (FreshSeeds) Seed(context.Context, string, domain.ViewKey) (uint64, error) {
	return NewSeed()
}

type memoKey struct {
	session string
	key     domain.ViewKey
}

// MemoSeeds gives every (session, view) pair one stable seed. Seeds are
// derived from a salt and kept in a bounded LRU cache; with a store they
// also survive restarts and evictions, even if the salt changes.
type MemoSeeds struct {
	salt  []byte
	store SeedStore

	mu    sync.Mutex
	cache *simplelru.LRU[memoKey, uint64]
}

// MemoOption configures a MemoSeeds
type MemoOption func(*MemoSeeds)

// WithCacheSize bounds the number of seeds held in memory. Sizes below one
// fall back to DefaultCacheSize.
func WithCacheSize(n int) MemoOption {
	return func(m *MemoSeeds) {
		if n < 1 {
			n = DefaultCacheSize
		}
		m.cache, _ = simplelru.NewLRU[memoKey, uint64](n, nil)
	}
}

// NewMemoSeeds creates a memoizing seeder. store may be nil.
func NewMemoSeeds(salt []byte, store SeedStore, opts ...MemoOption) *MemoSeeds {
	m := &MemoSeeds{
		salt:  append([]byte(nil), salt...),
		store: store,
	}
	WithCacheSize(DefaultCacheSize)(m)
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Seed implements Seeder
func (m *MemoSeeds) Seed(ctx context.Context, session string, key domain.ViewKey) (uint64, error) {
	mk := memoKey{session: session, key: key}

	m.mu.Lock()
	defer m.mu.Unlock()

	if seed, ok := m.cache.Get(mk); ok {
		return seed, nil
	}

	if m.store != nil {
		seed, ok, err := m.store.GetSeed(ctx, session, key)
		if err != nil {
			return 0, fmt.Errorf("load seed for %s: %w", key, err)
		}
		if ok {
			m.cache.Add(mk, seed)
			return seed, nil
		}
	}

	seed := DeriveSeed(m.salt, session, key)
	if m.store != nil {
		stored, err := m.store.PutSeed(ctx, session, key, seed)
		if err != nil {
			return 0, fmt.Errorf("save seed for %s: %w", key, err)
		}
		// Another process may have stored this view first
		seed = stored
	}
	m.cache.Add(mk, seed)
	return seed, nil
}

// Forget drops every cached seed of session and reports how many went
func (m *MemoSeeds) Forget(session string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, mk := range m.cache.Keys() {
		if mk.session == session && m.cache.Remove(mk) {
			n++
		}
	}
	return n
}

// Len returns the number of memoized seeds held in memory
func (m *MemoSeeds) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cache.Len()
}

// DeriveSeed hashes salt, session and view key into a seed. Fields are
// separated by a zero byte so ("ab","c") and ("a","bc") differ.
func DeriveSeed(salt []byte, session string, key domain.ViewKey) uint64 {
	buf := make([]byte, 0, len(salt)+len(session)+len(key.DomainID)+len(key.ToolID)+3)
	buf = append(buf, salt...)
	buf = append(buf, 0)
	buf = append(buf, session...)
	buf = append(buf, 0)
	buf = append(buf, key.DomainID...)
	buf = append(buf, 0)
	buf = append(buf, key.ToolID...)

	sum := blake2b.Sum256(buf)
	return binary.LittleEndian.Uint64(sum[:8])
}

// NewSeeder returns the seeder for a configured mode
func NewSeeder(mode string, salt []byte, store SeedStore, opts ...MemoOption) (Seeder, error) {
	switch mode {
	case "", ModeMemoize:
		return NewMemoSeeds(salt, store, opts...), nil
	case ModeRegenerate:
		return FreshSeeds{}, nil
	default:
		return nil, fmt.Errorf("unknown fallback mode %q", mode)
	}
}

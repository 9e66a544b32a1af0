package sqlite

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"vantage/internal/domain"
	"vantage/internal/repository"
)

// ============================================================================
// Test Helpers
// ============================================================================

// newTestRepo creates an in-memory SQLite repository for testing
func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(MemoryPath)
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}

	t.Cleanup(func() {
		repo.Close()
	})
	return repo
}

// assertNoError fails the test if err is not nil
func assertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// assertEqual fails the test if expected != actual
func assertEqual(t *testing.T, expected, actual interface{}) {
	t.Helper()
	if !reflect.DeepEqual(expected, actual) {
		t.Fatalf("expected %v, got %v", expected, actual)
	}
}

// putSeed stores a seed and fails the test on error
func putSeed(t *testing.T, repo *Repository, session string, key domain.ViewKey, seed uint64) {
	t.Helper()
	if _, err := repo.PutSeed(context.Background(), session, key, seed); err != nil {
		t.Fatalf("PutSeed() error: %v", err)
	}
}

var (
	portfolio = domain.ViewKey{DomainID: "finance", ToolID: "portfolio-optimization"}
	scouting  = domain.ViewKey{DomainID: "sports", ToolID: "scouting"}
)

func newEvent(id string, kind domain.ActionKind, key domain.ViewKey, session string, at time.Time) *domain.ActionEvent {
	ev := domain.NewActionEvent(id, kind, key, session)
	ev.OccurredAt = at
	return ev
}

// ============================================================================
// Seed Tests
// ============================================================================

func TestSeeds(t *testing.T) {
	ctx := context.Background()

	t.Run("missing seed", func(t *testing.T) {
		repo := newTestRepo(t)
		_, ok, err := repo.GetSeed(ctx, "s1", portfolio)
		assertNoError(t, err)
		assertEqual(t, false, ok)
	})

	t.Run("put and get", func(t *testing.T) {
		repo := newTestRepo(t)
		stored, err := repo.PutSeed(ctx, "s1", portfolio, 42)
		assertNoError(t, err)
		assertEqual(t, uint64(42), stored)

		seed, ok, err := repo.GetSeed(ctx, "s1", portfolio)
		assertNoError(t, err)
		assertEqual(t, true, ok)
		assertEqual(t, uint64(42), seed)

		_, ok, err = repo.GetSeed(ctx, "s2", portfolio)
		assertNoError(t, err)
		assertEqual(t, false, ok)
	})

	t.Run("full uint64 range", func(t *testing.T) {
		repo := newTestRepo(t)
		for i, want := range []uint64{0, math.MaxInt64, math.MaxInt64 + 1, math.MaxUint64} {
			key := domain.ViewKey{DomainID: "d", ToolID: strings.Repeat("t", i+1)}
			_, err := repo.PutSeed(ctx, "s", key, want)
			assertNoError(t, err)
			got, ok, err := repo.GetSeed(ctx, "s", key)
			assertNoError(t, err)
			assertEqual(t, true, ok)
			assertEqual(t, want, got)
		}
	})

	t.Run("first write wins", func(t *testing.T) {
		repo := newTestRepo(t)
		putSeed(t, repo, "s1", portfolio, 1)

		// A second writer gets the stored seed back, not its own
		stored, err := repo.PutSeed(ctx, "s1", portfolio, 2)
		assertNoError(t, err)
		assertEqual(t, uint64(1), stored)

		seed, _, err := repo.GetSeed(ctx, "s1", portfolio)
		assertNoError(t, err)
		assertEqual(t, uint64(1), seed)
	})

	t.Run("delete and count", func(t *testing.T) {
		repo := newTestRepo(t)
		putSeed(t, repo, "s1", portfolio, 1)
		putSeed(t, repo, "s1", scouting, 2)
		putSeed(t, repo, "s2", portfolio, 3)

		n, err := repo.CountSeeds(ctx)
		assertNoError(t, err)
		assertEqual(t, int64(3), n)

		deleted, err := repo.DeleteSeeds(ctx, "s1")
		assertNoError(t, err)
		assertEqual(t, int64(2), deleted)

		n, err = repo.CountSeeds(ctx)
		assertNoError(t, err)
		assertEqual(t, int64(1), n)
	})

	t.Run("prune by age", func(t *testing.T) {
		repo := newTestRepo(t)
		putSeed(t, repo, "s1", portfolio, 1)
		putSeed(t, repo, "s2", scouting, 2)

		pruned, err := repo.PruneSeeds(ctx, time.Now().Add(-time.Hour))
		assertNoError(t, err)
		assertEqual(t, int64(0), pruned)

		pruned, err = repo.PruneSeeds(ctx, time.Now().Add(time.Hour))
		assertNoError(t, err)
		assertEqual(t, int64(2), pruned)

		n, err := repo.CountSeeds(ctx)
		assertNoError(t, err)
		assertEqual(t, int64(0), n)
	})
}

func TestSeedsSurviveReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "vantage.db")

	repo, err := New(path)
	assertNoError(t, err)
	putSeed(t, repo, "s1", portfolio, 7)
	assertNoError(t, repo.Close())

	repo, err = New(path)
	assertNoError(t, err)
	defer repo.Close()

	seed, ok, err := repo.GetSeed(ctx, "s1", portfolio)
	assertNoError(t, err)
	assertEqual(t, true, ok)
	assertEqual(t, uint64(7), seed)
}

// ============================================================================
// Action Tests
// ============================================================================

func TestRecordAndGetAction(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	at := time.Date(2025, 4, 1, 10, 30, 0, 123_000_000, time.UTC)
	ev := newEvent("a1", domain.ActionExport, portfolio, "s1", at)
	ev.Format = "csv"
	assertNoError(t, repo.RecordAction(ctx, ev))

	got, err := repo.GetAction(ctx, "a1")
	assertNoError(t, err)
	assertEqual(t, *ev, *got)

	_, err = repo.GetAction(ctx, "missing")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRecordActionValidation(t *testing.T) {
	repo := newTestRepo(t)
	if err := repo.RecordAction(context.Background(), &domain.ActionEvent{}); err == nil {
		t.Fatal("expected error for event without id")
	}
	if err := repo.RecordAction(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil event")
	}
}

func TestRecordActionDuplicateID(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	ev := newEvent("a1", domain.ActionPrimary, portfolio, "", time.Now())
	assertNoError(t, repo.RecordAction(ctx, ev))
	if err := repo.RecordAction(ctx, ev); err == nil {
		t.Fatal("expected error for duplicate id")
	}
}

func TestListActions(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	base := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	events := []*domain.ActionEvent{
		newEvent("a1", domain.ActionPrimary, portfolio, "s1", base),
		newEvent("a2", domain.ActionExport, portfolio, "s1", base.Add(time.Minute)),
		newEvent("a3", domain.ActionPrimary, scouting, "s2", base.Add(2*time.Minute)),
		newEvent("a4", domain.ActionPrimary, portfolio, "s2", base.Add(3*time.Minute)),
	}
	for _, ev := range events {
		assertNoError(t, repo.RecordAction(ctx, ev))
	}

	ids := func(evs []domain.ActionEvent) []string {
		out := make([]string, len(evs))
		for i, ev := range evs {
			out[i] = ev.ID
		}
		return out
	}

	tests := []struct {
		name     string
		filter   repository.ActionFilter
		expected []string
	}{
		{"all newest first", repository.ActionFilter{}, []string{"a4", "a3", "a2", "a1"}},
		{"limit", repository.ActionFilter{Limit: 2}, []string{"a4", "a3"}},
		{"by view", repository.ActionFilter{DomainID: "finance", ToolID: "portfolio-optimization"}, []string{"a4", "a2", "a1"}},
		{"by domain", repository.ActionFilter{DomainID: "sports"}, []string{"a3"}},
		{"by session", repository.ActionFilter{Session: "s1"}, []string{"a2", "a1"}},
		{"by kind", repository.ActionFilter{Kind: domain.ActionExport}, []string{"a2"}},
		{"no match", repository.ActionFilter{DomainID: "legal"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.ListActions(ctx, tt.filter)
			assertNoError(t, err)
			assertEqual(t, tt.expected, ids(got))
		})
	}
}

func TestBuildActionQuery(t *testing.T) {
	query, args := buildActionQuery(repository.ActionFilter{DomainID: "finance", Kind: domain.ActionPrimary})

	if !strings.Contains(query, "WHERE domain_id = ? AND kind = ?") {
		t.Errorf("unexpected where clause: %s", query)
	}
	assertEqual(t, []interface{}{"finance", "primary", repository.DefaultActionLimit}, args)
}

func TestNewRequiresPath(t *testing.T) {
	if _, err := New("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestPing(t *testing.T) {
	repo := newTestRepo(t)
	assertNoError(t, repo.Ping(context.Background()))
}

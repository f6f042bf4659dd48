// ABOUTME: Tests for the per-owner vector cache
// ABOUTME: Covers TTL behavior, invalidation, zero-norm guard, and rebuild collapsing
package recommend

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/samsam9395/my-ootd/internal/models"
)

// fakeCatalog implements the catalog reads the pipeline needs, counting calls
type fakeCatalog struct {
	mu        sync.Mutex
	embedded  map[string][]models.EmbeddedCloth
	details   map[int64]models.ClothDetail
	listCalls int
	listDelay time.Duration
}

func (f *fakeCatalog) ListEmbedded(ctx context.Context, ownerID string) ([]models.EmbeddedCloth, error) {
	f.mu.Lock()
	f.listCalls++
	f.mu.Unlock()
	if f.listDelay > 0 {
		time.Sleep(f.listDelay)
	}
	return f.embedded[ownerID], nil
}

func (f *fakeCatalog) DetailsForIDs(ctx context.Context, ownerID string, ids []int64, withImage bool) ([]models.ClothDetail, error) {
	var details []models.ClothDetail
	for _, id := range ids {
		if d, ok := f.details[id]; ok {
			details = append(details, d)
		}
	}
	return details, nil
}

func (f *fakeCatalog) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

func TestVectorCache_HitWithinTTL(t *testing.T) {
	catalog := &fakeCatalog{embedded: map[string][]models.EmbeddedCloth{
		"alice": {
			{ID: 1, Category: "top", Embedding: []float64{1, 0}},
			{ID: 2, Category: "shoes", Embedding: []float64{0, 1}},
		},
	}}
	cache := NewVectorCache(catalog, time.Hour)
	ctx := context.Background()

	first, err := cache.Fetch(ctx, "alice")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	second, err := cache.Fetch(ctx, "alice")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if first != second {
		t.Error("second Fetch() within TTL should return the same snapshot")
	}
	if catalog.calls() != 1 {
		t.Errorf("catalog reads = %d, want 1", catalog.calls())
	}
	if first.Len() != 2 {
		t.Errorf("snapshot Len() = %d, want 2", first.Len())
	}
}

func TestVectorCache_ExpiryTriggersRebuild(t *testing.T) {
	catalog := &fakeCatalog{embedded: map[string][]models.EmbeddedCloth{
		"alice": {{ID: 1, Category: "top", Embedding: []float64{1, 0}}},
	}}
	cache := NewVectorCache(catalog, time.Hour)
	ctx := context.Background()

	snap, err := cache.Fetch(ctx, "alice")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	// Age the snapshot past the TTL
	snap.CreatedAt = time.Now().Add(-2 * time.Hour)

	fresh, err := cache.Fetch(ctx, "alice")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if fresh == snap {
		t.Error("Fetch() after expiry should publish a new snapshot")
	}
	if catalog.calls() != 2 {
		t.Errorf("catalog reads = %d, want 2 after expiry", catalog.calls())
	}
}

func TestVectorCache_InvalidateForcesRead(t *testing.T) {
	catalog := &fakeCatalog{embedded: map[string][]models.EmbeddedCloth{
		"alice": {{ID: 1, Category: "top", Embedding: []float64{1, 0}}},
	}}
	cache := NewVectorCache(catalog, time.Hour)
	ctx := context.Background()

	if _, err := cache.Fetch(ctx, "alice"); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	cache.Invalidate("alice")
	// Invalidating an owner with no entry is a no-op, not an error
	cache.Invalidate("nobody")

	if _, err := cache.Fetch(ctx, "alice"); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if catalog.calls() != 2 {
		t.Errorf("catalog reads = %d, want 2 after invalidate", catalog.calls())
	}
}

func TestVectorCache_ZeroNormRowsExcluded(t *testing.T) {
	catalog := &fakeCatalog{embedded: map[string][]models.EmbeddedCloth{
		"alice": {
			{ID: 1, Category: "top", Embedding: []float64{3, 4}},
			{ID: 2, Category: "shoes", Embedding: []float64{0, 0}},
		},
	}}
	cache := NewVectorCache(catalog, time.Hour)

	snap, err := cache.Fetch(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if snap.Len() != 1 {
		t.Fatalf("snapshot Len() = %d, want 1 (zero-norm row dropped)", snap.Len())
	}
	if snap.IDs[0] != 1 {
		t.Errorf("surviving id = %d, want 1", snap.IDs[0])
	}

	// Norm row must be unit length
	length := math.Hypot(snap.Norms[0][0], snap.Norms[0][1])
	if math.Abs(length-1) > 1e-9 {
		t.Errorf("norm row length = %f, want 1", length)
	}
}

func TestVectorCache_EmptyCatalogIsValid(t *testing.T) {
	catalog := &fakeCatalog{embedded: map[string][]models.EmbeddedCloth{}}
	cache := NewVectorCache(catalog, time.Hour)

	snap, err := cache.Fetch(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if snap.Len() != 0 {
		t.Errorf("snapshot Len() = %d, want 0", snap.Len())
	}
}

func TestVectorCache_ConcurrentMissesCollapse(t *testing.T) {
	catalog := &fakeCatalog{
		embedded: map[string][]models.EmbeddedCloth{
			"alice": {{ID: 1, Category: "top", Embedding: []float64{1, 0}}},
		},
		listDelay: 50 * time.Millisecond,
	}
	cache := NewVectorCache(catalog, time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snap, err := cache.Fetch(context.Background(), "alice")
			if err != nil {
				t.Errorf("Fetch() error = %v", err)
				return
			}
			if snap.Len() != 1 {
				t.Errorf("snapshot Len() = %d, want 1", snap.Len())
			}
		}()
	}
	wg.Wait()

	if catalog.calls() != 1 {
		t.Errorf("catalog reads = %d, want 1 (singleflight collapse)", catalog.calls())
	}
}

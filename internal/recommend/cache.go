// ABOUTME: Per-owner vector cache with TTL and singleflight rebuilds
// ABOUTME: Snapshots are immutable and replaced wholesale, never mutated
package recommend

import (
	"context"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/samsam9395/my-ootd/internal/models"
	"golang.org/x/sync/singleflight"
)

// Snapshot is one owner's cached embedding matrix. All slices share length N
// and index alignment; Norms rows are unit length. A snapshot is read-only
// once published.
type Snapshot struct {
	IDs        []int64
	Vectors    [][]float64
	Norms      [][]float64
	Categories []string
	CreatedAt  time.Time
}

// Len returns the number of embedded entries in the snapshot
func (s *Snapshot) Len() int {
	return len(s.IDs)
}

// indexOf returns the snapshot row for an id, or -1
func (s *Snapshot) indexOf(id int64) int {
	for i, candidate := range s.IDs {
		if candidate == id {
			return i
		}
	}
	return -1
}

// embeddedLister is the slice of the catalog store the cache reads
type embeddedLister interface {
	ListEmbedded(ctx context.Context, ownerID string) ([]models.EmbeddedCloth, error)
}

// VectorCache holds one Snapshot per owner, rebuilt from the catalog store on
// miss or TTL expiry. Concurrent misses for the same owner are collapsed into
// a single rebuild; a duplicate rebuild is only wasted work, never corruption.
type VectorCache struct {
	store embeddedLister
	ttl   time.Duration

	mu      sync.RWMutex
	byOwner map[string]*Snapshot
	group   singleflight.Group
}

// NewVectorCache creates a cache backed by the given catalog reader
func NewVectorCache(store embeddedLister, ttl time.Duration) *VectorCache {
	return &VectorCache{
		store:   store,
		ttl:     ttl,
		byOwner: make(map[string]*Snapshot),
	}
}

// Fetch returns the owner's snapshot, rebuilding it from the catalog store
// when missing or older than the TTL. An owner with no embedded entries gets
// a valid empty snapshot.
func (c *VectorCache) Fetch(ctx context.Context, ownerID string) (*Snapshot, error) {
	c.mu.RLock()
	snap, ok := c.byOwner[ownerID]
	c.mu.RUnlock()

	if ok && time.Since(snap.CreatedAt) < c.ttl {
		return snap, nil
	}

	result, err, _ := c.group.Do(ownerID, func() (interface{}, error) {
		return c.rebuild(ctx, ownerID)
	})
	if err != nil {
		return nil, err
	}

	return result.(*Snapshot), nil
}

// Invalidate drops the owner's cached snapshot so the next Fetch rebuilds.
// Called by the catalog mutation path; a no-op when nothing is cached.
func (c *VectorCache) Invalidate(ownerID string) {
	c.mu.Lock()
	delete(c.byOwner, ownerID)
	c.mu.Unlock()
}

// rebuild reads the owner's embedded entries and publishes a fresh snapshot
func (c *VectorCache) rebuild(ctx context.Context, ownerID string) (*Snapshot, error) {
	entries, err := c.store.ListEmbedded(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild vector cache: %w", err)
	}

	snap := &Snapshot{CreatedAt: time.Now()}
	for _, entry := range entries {
		normed, ok := normalize(entry.Embedding)
		if !ok {
			// Zero-norm vectors cannot be ranked; leave them out
			log.Printf("[VectorCache] skipping cloth %d with zero-norm embedding", entry.ID)
			continue
		}
		snap.IDs = append(snap.IDs, entry.ID)
		snap.Vectors = append(snap.Vectors, entry.Embedding)
		snap.Norms = append(snap.Norms, normed)
		snap.Categories = append(snap.Categories, entry.Category)
	}

	c.mu.Lock()
	c.byOwner[ownerID] = snap
	c.mu.Unlock()

	return snap, nil
}

// normalize returns the unit-length copy of v, or ok=false for a zero vector
func normalize(v []float64) ([]float64, bool) {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	if sum == 0 {
		return nil, false
	}

	length := math.Sqrt(sum)
	normed := make([]float64, len(v))
	for i, x := range v {
		normed[i] = x / length
	}
	return normed, true
}

// dot computes the inner product of two equal-length vectors
func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

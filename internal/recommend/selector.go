// ABOUTME: Category-constrained candidate selection over cached vectors
// ABOUTME: Plain cosine similarity via pre-normalized dot products, top-N per category
package recommend

import (
	"context"
	"fmt"
	"sort"

	"github.com/samsam9395/my-ootd/internal/models"
)

// Selector ranks an owner's embedded entries against a selected item and
// groups the most similar ones per eligible category.
type Selector struct {
	cache *VectorCache
	topN  int
}

// NewSelector creates a selector over the given cache keeping topN per category
func NewSelector(cache *VectorCache, topN int) *Selector {
	return &Selector{cache: cache, topN: topN}
}

// Select builds the candidate set for one recommendation request. Fails with
// ErrNotFound when the selected id has no embedded entry in the owner's
// catalog (which covers the empty-catalog case).
func (s *Selector) Select(ctx context.Context, ownerID string, selectedID int64) (*models.CandidateSet, error) {
	snap, err := s.cache.Fetch(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	selectedIdx := snap.indexOf(selectedID)
	if selectedIdx < 0 {
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, selectedID)
	}

	selectedNorm := snap.Norms[selectedIdx]
	selectedCategory := snap.Categories[selectedIdx]
	excluded := excludedCategories(selectedCategory)

	byCategory := make(map[string][]models.Candidate)
	for i := range snap.IDs {
		if snap.IDs[i] == selectedID {
			continue
		}
		if excluded[snap.Categories[i]] {
			continue
		}
		byCategory[snap.Categories[i]] = append(byCategory[snap.Categories[i]], models.Candidate{
			ID:    snap.IDs[i],
			Score: dot(snap.Norms[i], selectedNorm),
		})
	}

	for cat, candidates := range byCategory {
		// Score descending, ties broken by ascending id for determinism
		sort.Slice(candidates, func(i, j int) bool {
			if candidates[i].Score != candidates[j].Score {
				return candidates[i].Score > candidates[j].Score
			}
			return candidates[i].ID < candidates[j].ID
		})
		if len(candidates) > s.topN {
			candidates = candidates[:s.topN]
		}
		byCategory[cat] = candidates
	}

	return &models.CandidateSet{
		SelectedID:       selectedID,
		SelectedCategory: selectedCategory,
		ByCategory:       byCategory,
	}, nil
}

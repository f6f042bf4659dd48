// ABOUTME: The recommendation pipeline wiring cache, selector, composer, and validator
// ABOUTME: Stages run strictly in order; nothing is persisted before the final Outfit
package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/samsam9395/my-ootd/internal/models"
)

// catalogReader is the slice of the catalog store the pipeline depends on
type catalogReader interface {
	ListEmbedded(ctx context.Context, ownerID string) ([]models.EmbeddedCloth, error)
	DetailsForIDs(ctx context.Context, ownerID string, ids []int64, withImage bool) ([]models.ClothDetail, error)
}

// Service runs the full outfit recommendation pipeline for one owner request:
// vector cache fetch, candidate selection, stylist completion, validation.
type Service struct {
	cache     *VectorCache
	selector  *Selector
	composer  *Composer
	validator *Validator
	store     catalogReader
}

// NewService wires the pipeline stages around one shared vector cache
func NewService(store catalogReader, stylist Stylist, cacheTTL time.Duration, topN int) *Service {
	cache := NewVectorCache(store, cacheTTL)
	return &Service{
		cache:     cache,
		selector:  NewSelector(cache, topN),
		composer:  NewComposer(stylist),
		validator: NewValidator(store),
		store:     store,
	}
}

// Cache exposes the vector cache so the catalog mutation path can invalidate
// an owner after embedding-affecting writes
func (s *Service) Cache() *VectorCache {
	return s.cache
}

// RecommendOutfit recommends a complete outfit around the selected item.
// Returns ErrNotFound for an unknown or unembedded selected id and
// ErrUpstreamUnavailable when the stylist call fails; unparsable or empty
// stylist output comes back as an unsuccessful Outfit, not an error.
func (s *Service) RecommendOutfit(ctx context.Context, ownerID string, selectedID int64) (*models.Outfit, error) {
	candidateSet, err := s.selector.Select(ctx, ownerID, selectedID)
	if err != nil {
		return nil, err
	}

	// One batch fetch for the selected item and every candidate
	fetchIDs := append([]int64{candidateSet.SelectedID}, candidateSet.CandidateIDs()...)
	details, err := s.store.DetailsForIDs(ctx, ownerID, fetchIDs, false)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidate details: %w", err)
	}

	byID := make(map[int64]models.ClothDetail, len(details))
	for _, d := range details {
		byID[d.ID] = d
	}

	selected, ok := byID[candidateSet.SelectedID]
	if !ok {
		// Deleted between the cache snapshot and the detail fetch
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, candidateSet.SelectedID)
	}

	candidates := make(map[string][]models.ClothDetail)
	for cat, cands := range candidateSet.ByCategory {
		for _, c := range cands {
			if d, found := byID[c.ID]; found {
				candidates[cat] = append(candidates[cat], d)
			}
		}
	}

	raw, err := s.composer.Compose(ctx, selected, candidates)
	if err != nil {
		return nil, err
	}

	return s.validator.Validate(ctx, ownerID, raw, candidateSet.Universe())
}

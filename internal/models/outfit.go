// ABOUTME: Recommendation models for candidate sets and outfit results
// ABOUTME: CandidateSet is per-request and ephemeral; Outfit is the final wire result
package models

import "sort"

// Candidate is one scored entry in a per-category candidate list.
type Candidate struct {
	ID    int64   `json:"id"`
	Score float64 `json:"score"`
}

// CandidateSet groups the top-N most similar entries per category for a single
// recommendation request. The selected entry never appears in ByCategory.
type CandidateSet struct {
	SelectedID       int64
	SelectedCategory string
	ByCategory       map[string][]Candidate
}

// Categories returns the candidate categories in sorted order, for
// deterministic iteration.
func (cs *CandidateSet) Categories() []string {
	cats := make([]string, 0, len(cs.ByCategory))
	for cat := range cs.ByCategory {
		cats = append(cats, cat)
	}
	sort.Strings(cats)
	return cats
}

// CandidateIDs returns every candidate id across all categories, in
// category-sorted then score order.
func (cs *CandidateSet) CandidateIDs() []int64 {
	var ids []int64
	for _, cat := range cs.Categories() {
		for _, c := range cs.ByCategory[cat] {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// Universe returns the set of ids a completion is allowed to reference:
// the selected id plus every listed candidate.
func (cs *CandidateSet) Universe() map[int64]bool {
	universe := map[int64]bool{cs.SelectedID: true}
	for _, cands := range cs.ByCategory {
		for _, c := range cands {
			universe[c.ID] = true
		}
	}
	return universe
}

// ErrorKind distinguishes the two expected negative outfit outcomes from a
// successful one. Neither is a system failure.
type ErrorKind string

const (
	ErrorKindNone             ErrorKind = ""
	ErrorKindInvalidResponse  ErrorKind = "invalid_response"
	ErrorKindNoRecommendation ErrorKind = "no_recommendation"
)

// Outfit is the final recommendation result returned to the caller.
// Success=false with an ErrorKind means "no outfit possible", not "broken".
type Outfit struct {
	Success     bool          `json:"success"`
	Message     string        `json:"message"`
	Items       []ClothDetail `json:"items"`
	StylePhrase string        `json:"stylePhrase"`
	StyleFlair  string        `json:"styleFlair"`
	ErrorKind   ErrorKind     `json:"-"`
}

// ABOUTME: End-to-end tests for the recommendation pipeline
// ABOUTME: Drives cache, selector, composer, and validator with fakes
package recommend

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/samsam9395/my-ootd/internal/models"
)

func newScenarioCatalog() *fakeCatalog {
	return &fakeCatalog{
		embedded: map[string][]models.EmbeddedCloth{
			"alice": {
				{ID: 1, Category: "dress", Embedding: []float64{1, 0}},
				{ID: 2, Category: "shoes", Embedding: []float64{0.9, 0.1}},
				{ID: 3, Category: "shoes", Embedding: []float64{0.2, 0.8}},
			},
		},
		details: map[int64]models.ClothDetail{
			1: {ID: 1, Name: "Silk Dress", Type: "dress", Colour: "red", Category: "dress", Styles: []string{"elegant"}},
			2: {ID: 2, Name: "Heels", Type: "heels", Colour: "black", Category: "shoes", Styles: []string{"formal"}},
			3: {ID: 3, Name: "Sneakers", Type: "sneakers", Colour: "white", Category: "shoes", Styles: []string{"casual"}},
		},
	}
}

func TestRecommendOutfit_EndToEnd(t *testing.T) {
	catalog := newScenarioCatalog()
	stylist := &fakeStylist{response: `{"shoes": 2, "stylePhrase": "minimalist", "styleFlair": "lunch"}`}
	service := NewService(catalog, stylist, time.Hour, 3)

	outfit, err := service.RecommendOutfit(context.Background(), "alice", 1)
	if err != nil {
		t.Fatalf("RecommendOutfit() error = %v", err)
	}

	if !outfit.Success {
		t.Fatalf("Success = false, want true: %+v", outfit)
	}
	if len(outfit.Items) != 1 || outfit.Items[0].ID != 2 {
		t.Errorf("Items = %v, want just the heels", outfit.Items)
	}
	if outfit.StylePhrase != "minimalist" {
		t.Errorf("StylePhrase = %q, want minimalist", outfit.StylePhrase)
	}
	if outfit.StyleFlair != "lunch" {
		t.Errorf("StyleFlair = %q, want lunch", outfit.StyleFlair)
	}

	// Prompt must enumerate both shoe candidates by id
	if !strings.Contains(stylist.prompt, "(id: 2)") || !strings.Contains(stylist.prompt, "(id: 3)") {
		t.Errorf("prompt missing candidate ids:\n%s", stylist.prompt)
	}
	// Higher-similarity candidate listed first
	if strings.Index(stylist.prompt, "(id: 2)") > strings.Index(stylist.prompt, "(id: 3)") {
		t.Error("candidates not listed in similarity order")
	}
}

func TestRecommendOutfit_UnknownSelectedID(t *testing.T) {
	service := NewService(newScenarioCatalog(), &fakeStylist{}, time.Hour, 3)

	_, err := service.RecommendOutfit(context.Background(), "alice", 404)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("RecommendOutfit() error = %v, want ErrNotFound", err)
	}
}

func TestRecommendOutfit_StylistFailure(t *testing.T) {
	catalog := newScenarioCatalog()
	stylist := &fakeStylist{err: errors.New("gateway timeout")}
	service := NewService(catalog, stylist, time.Hour, 3)

	_, err := service.RecommendOutfit(context.Background(), "alice", 1)
	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Errorf("RecommendOutfit() error = %v, want ErrUpstreamUnavailable", err)
	}
}

func TestRecommendOutfit_FabricatedIDsYieldNoRecommendation(t *testing.T) {
	catalog := newScenarioCatalog()
	stylist := &fakeStylist{response: `{"shoes": 777}`}
	service := NewService(catalog, stylist, time.Hour, 3)

	outfit, err := service.RecommendOutfit(context.Background(), "alice", 1)
	if err != nil {
		t.Fatalf("RecommendOutfit() error = %v", err)
	}
	if outfit.Success {
		t.Error("Success = true, want false for fabricated ids")
	}
	if outfit.ErrorKind != models.ErrorKindNoRecommendation {
		t.Errorf("ErrorKind = %q, want NoRecommendation", outfit.ErrorKind)
	}
}

func TestRecommendOutfit_InvalidationAfterWardrobeChange(t *testing.T) {
	catalog := newScenarioCatalog()
	stylist := &fakeStylist{response: `{"shoes": 2}`}
	service := NewService(catalog, stylist, time.Hour, 3)
	ctx := context.Background()

	if _, err := service.RecommendOutfit(ctx, "alice", 1); err != nil {
		t.Fatalf("RecommendOutfit() error = %v", err)
	}
	before := catalog.calls()

	// New cloth appears; mutation path invalidates the owner
	catalog.mu.Lock()
	catalog.embedded["alice"] = append(catalog.embedded["alice"],
		models.EmbeddedCloth{ID: 9, Category: "outerwear", Embedding: []float64{0.5, 0.5}})
	catalog.mu.Unlock()
	service.Cache().Invalidate("alice")

	if _, err := service.RecommendOutfit(ctx, "alice", 1); err != nil {
		t.Fatalf("RecommendOutfit() error = %v", err)
	}
	if catalog.calls() != before+1 {
		t.Errorf("catalog reads = %d, want %d after invalidation", catalog.calls(), before+1)
	}
}

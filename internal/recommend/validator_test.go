// ABOUTME: Tests for validating and mapping generative output
// ABOUTME: Covers unknown-id dropping, partial success, and unparsable payloads
package recommend

import (
	"context"
	"testing"

	"github.com/samsam9395/my-ootd/internal/models"
)

func newTestValidator() *Validator {
	return NewValidator(&fakeCatalog{details: map[int64]models.ClothDetail{
		4: {ID: 4, Name: "Heels", Type: "heels", Colour: "black", Category: "shoes"},
		5: {ID: 5, Name: "Flats", Type: "flats", Colour: "nude", Category: "shoes"},
		6: {ID: 6, Name: "Clutch", Type: "bag", Colour: "gold", Category: "accessories"},
	}})
}

func TestValidate_DropsUnknownIDs(t *testing.T) {
	v := newTestValidator()
	universe := map[int64]bool{4: true, 5: true, 6: true}

	outfit, err := v.Validate(context.Background(), "alice", `{"shoes": 99, "stylePhrase": "x"}`, universe)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if outfit.Success {
		t.Error("Success = true, want false when nothing survives")
	}
	if outfit.ErrorKind != models.ErrorKindNoRecommendation {
		t.Errorf("ErrorKind = %q, want NoRecommendation", outfit.ErrorKind)
	}
	if len(outfit.Items) != 0 {
		t.Errorf("Items = %v, want empty", outfit.Items)
	}
	if outfit.StylePhrase != "x" {
		t.Errorf("StylePhrase = %q, want passthrough %q", outfit.StylePhrase, "x")
	}
}

func TestValidate_PartialSuccess(t *testing.T) {
	v := newTestValidator()
	universe := map[int64]bool{4: true, 5: true}

	raw := `{"shoes": 4, "bag": 999, "stylePhrase": "casual", "styleFlair": "brunch"}`
	outfit, err := v.Validate(context.Background(), "alice", raw, universe)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if !outfit.Success {
		t.Fatalf("Success = false, want true: %+v", outfit)
	}
	if len(outfit.Items) != 1 || outfit.Items[0].ID != 4 {
		t.Errorf("Items = %v, want just entry 4 (999 silently dropped)", outfit.Items)
	}
	if outfit.StylePhrase != "casual" {
		t.Errorf("StylePhrase = %q, want casual", outfit.StylePhrase)
	}
	if outfit.StyleFlair != "brunch" {
		t.Errorf("StyleFlair = %q, want brunch", outfit.StyleFlair)
	}
}

func TestValidate_UnparsablePayload(t *testing.T) {
	v := newTestValidator()

	outfit, err := v.Validate(context.Background(), "alice", "sure! here is an outfit for you", map[int64]bool{4: true})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if outfit.Success {
		t.Error("Success = true, want false for unparsable payload")
	}
	if outfit.ErrorKind != models.ErrorKindInvalidResponse {
		t.Errorf("ErrorKind = %q, want InvalidResponse", outfit.ErrorKind)
	}
}

func TestValidate_FencedJSON(t *testing.T) {
	v := newTestValidator()
	raw := "```json\n{\"shoes\": 4, \"stylePhrase\": \"clean\"}\n```"

	outfit, err := v.Validate(context.Background(), "alice", raw, map[int64]bool{4: true})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if !outfit.Success {
		t.Fatalf("Success = false, want fenced JSON accepted: %+v", outfit)
	}
	if len(outfit.Items) != 1 || outfit.Items[0].ID != 4 {
		t.Errorf("Items = %v, want entry 4", outfit.Items)
	}
}

func TestValidate_StringIDsAccepted(t *testing.T) {
	v := newTestValidator()

	outfit, err := v.Validate(context.Background(), "alice", `{"shoes": "4"}`, map[int64]bool{4: true})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if !outfit.Success || len(outfit.Items) != 1 {
		t.Errorf("Validate() = %+v, want quoted id accepted", outfit)
	}
}

func TestValidate_HallucinatedCategoryKeyIsHarmless(t *testing.T) {
	v := newTestValidator()

	// "spacesuit" is not a real category, but the id is valid
	outfit, err := v.Validate(context.Background(), "alice", `{"spacesuit": 6}`, map[int64]bool{6: true})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if !outfit.Success || len(outfit.Items) != 1 || outfit.Items[0].ID != 6 {
		t.Errorf("Validate() = %+v, want entry 6 kept despite odd key", outfit)
	}
}

func TestValidate_DuplicateIDsCollapsed(t *testing.T) {
	v := newTestValidator()

	outfit, err := v.Validate(context.Background(), "alice", `{"shoes": 4, "footwear": 4}`, map[int64]bool{4: true})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if len(outfit.Items) != 1 {
		t.Errorf("Items = %v, want duplicate id collapsed", outfit.Items)
	}
}

func TestValidate_NonObjectJSON(t *testing.T) {
	v := newTestValidator()

	outfit, err := v.Validate(context.Background(), "alice", `[4, 5]`, map[int64]bool{4: true})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if outfit.ErrorKind != models.ErrorKindInvalidResponse {
		t.Errorf("ErrorKind = %q, want InvalidResponse for non-object payload", outfit.ErrorKind)
	}
}

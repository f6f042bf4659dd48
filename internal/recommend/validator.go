// ABOUTME: Validates generative output and maps it back onto the owner's catalog
// ABOUTME: Unknown ids are silently dropped; negative outcomes are results, not errors
package recommend

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/samsam9395/my-ootd/internal/models"
)

// detailFetcher is the slice of the catalog store the validator resolves
// surviving ids against
type detailFetcher interface {
	DetailsForIDs(ctx context.Context, ownerID string, ids []int64, withImage bool) ([]models.ClothDetail, error)
}

// Validator turns an untrusted completion payload into a verified Outfit
type Validator struct {
	store detailFetcher
}

// NewValidator creates a validator resolving ids through the given store
func NewValidator(store detailFetcher) *Validator {
	return &Validator{store: store}
}

// Validate parses the raw completion and keeps only ids inside the candidate
// universe. Category keys are not checked against real categories: a
// hallucinated key with a valid id is harmless, while a valid-looking key
// with a fabricated id is dropped. An unparsable payload or an empty
// surviving set is an unsuccessful Outfit, not an error.
func (v *Validator) Validate(ctx context.Context, ownerID, raw string, universe map[int64]bool) (*models.Outfit, error) {
	payload, ok := decodeCompletion(raw)
	if !ok {
		return &models.Outfit{
			Success:   false,
			Message:   "stylist response could not be parsed",
			Items:     []models.ClothDetail{},
			ErrorKind: models.ErrorKindInvalidResponse,
		}, nil
	}

	outfit := &models.Outfit{Items: []models.ClothDetail{}}

	// Key-sorted iteration keeps item order deterministic
	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var ids []int64
	seen := make(map[int64]bool)
	for _, key := range keys {
		value := payload[key]
		switch key {
		case "stylePhrase":
			outfit.StylePhrase = asString(value)
		case "styleFlair":
			outfit.StyleFlair = asString(value)
		default:
			id, idOK := asID(value)
			if !idOK || !universe[id] || seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
		}
	}

	if len(ids) == 0 {
		outfit.Message = "no matching outfit could be built from your wardrobe"
		outfit.ErrorKind = models.ErrorKindNoRecommendation
		return outfit, nil
	}

	items, err := v.store.DetailsForIDs(ctx, ownerID, ids, true)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		outfit.Message = "no matching outfit could be built from your wardrobe"
		outfit.ErrorKind = models.ErrorKindNoRecommendation
		return outfit, nil
	}

	outfit.Success = true
	outfit.Message = "outfit ready"
	outfit.Items = items
	return outfit, nil
}

// decodeCompletion unmarshals the payload, tolerating a markdown code fence
// around the JSON object
func decodeCompletion(raw string) (map[string]interface{}, bool) {
	text := strings.TrimSpace(raw)

	if strings.HasPrefix(text, "```") {
		if idx := strings.Index(text, "\n"); idx >= 0 {
			text = text[idx+1:]
		} else {
			text = strings.TrimPrefix(text, "```")
		}
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
		text = strings.TrimSpace(text)
	}

	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, false
	}
	return payload, true
}

// asString renders a payload value as free text
func asString(v interface{}) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// asID coerces a payload value to a candidate id. JSON numbers arrive as
// float64; models sometimes quote ids as strings.
func asID(v interface{}) (int64, bool) {
	switch val := v.(type) {
	case float64:
		return int64(val), true
	case string:
		id, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
		if err != nil {
			return 0, false
		}
		return id, true
	default:
		return 0, false
	}
}

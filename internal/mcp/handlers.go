// ABOUTME: MCP tool handler implementations for the wardrobe server
// ABOUTME: Bridges tool calls onto the catalog store and recommendation pipeline
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/samsam9395/my-ootd/internal/recommend"
	"github.com/samsam9395/my-ootd/internal/storage/sqlite"
)

const (
	defaultListLimit = 30
	shuffleCount     = 5
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	store       *sqlite.Store
	recommender recommender
	cache       interface{ Invalidate(ownerID string) }
	ownerID     string
}

// SetCacheInvalidator wires the vector cache dropped on wardrobe mutations
func (h *Handlers) SetCacheInvalidator(cache interface{ Invalidate(ownerID string) }) {
	h.cache = cache
}

// RecommendOutfit handles the recommend_outfit tool
func (h *Handlers) RecommendOutfit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	itemID, err := request.RequireFloat("item_id")
	if err != nil {
		return mcp.NewToolResultError("item_id argument is required and must be a number"), nil
	}

	outfit, err := h.recommender.RecommendOutfit(ctx, h.ownerID, int64(itemID))
	if err != nil {
		switch {
		case errors.Is(err, recommend.ErrNotFound):
			return mcp.NewToolResultError(fmt.Sprintf("no wardrobe item with id %d", int64(itemID))), nil
		case errors.Is(err, recommend.ErrUpstreamUnavailable):
			return mcp.NewToolResultError("the stylist service is unavailable, try again shortly"), nil
		default:
			log.Printf("[MCP] recommendation failed for item %d: %v", int64(itemID), err)
			return mcp.NewToolResultError(fmt.Sprintf("recommendation failed: %v", err)), nil
		}
	}

	return jsonResult(outfit)
}

// ListWardrobe handles the list_wardrobe tool
func (h *Handlers) ListWardrobe(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category := request.GetString("category", "")
	if category == "all" {
		category = ""
	}
	limit := int(request.GetFloat("limit", defaultListLimit))
	if limit < 1 {
		limit = defaultListLimit
	}

	details, err := h.store.ListByCategory(ctx, h.ownerID, category, limit, 0)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list wardrobe: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"count":   len(details),
		"clothes": details,
	})
}

// ShuffleWardrobe handles the shuffle_wardrobe tool
func (h *Handlers) ShuffleWardrobe(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	details, err := h.store.RandomClothes(ctx, h.ownerID, shuffleCount)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to shuffle wardrobe: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{"clothes": details})
}

// AddCloth handles the add_cloth tool
func (h *Handlers) AddCloth(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name argument is required and must be a string"), nil
	}
	typ, err := request.RequireString("type")
	if err != nil {
		return mcp.NewToolResultError("type argument is required and must be a string"), nil
	}
	category, err := request.RequireString("category")
	if err != nil {
		return mcp.NewToolResultError("category argument is required and must be a string"), nil
	}
	colour, err := request.RequireString("colour")
	if err != nil {
		return mcp.NewToolResultError("colour argument is required and must be a string"), nil
	}

	cloth, err := h.store.UpsertCloth(ctx, h.ownerID, sqlite.ClothInput{
		Name:     name,
		Type:     typ,
		Category: category,
		Colour:   colour,
		Styles:   request.GetStringSlice("styles", nil),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to save cloth: %v", err)), nil
	}

	if h.cache != nil {
		h.cache.Invalidate(h.ownerID)
	}

	return jsonResult(cloth)
}

// jsonResult marshals a payload into a text tool result
func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(raw)), nil
}

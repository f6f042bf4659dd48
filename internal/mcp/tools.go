// ABOUTME: MCP tool definitions and registration for the wardrobe server
// ABOUTME: Exposes recommendation and wardrobe browsing tools over MCP
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/samsam9395/my-ootd/internal/models"
	"github.com/samsam9395/my-ootd/internal/storage/sqlite"
)

// recommender is the slice of the recommendation service the tools invoke
type recommender interface {
	RecommendOutfit(ctx context.Context, ownerID string, selectedID int64) (*models.Outfit, error)
}

// RegisterTools registers all MCP tools with the server. The MCP transport has
// no per-request auth, so every call operates on the configured owner.
func RegisterTools(server *mcpserver.MCPServer, store *sqlite.Store, rec recommender, ownerID string) *Handlers {
	handlers := &Handlers{
		store:       store,
		recommender: rec,
		ownerID:     ownerID,
	}

	// 1. recommend_outfit - Compose an outfit around one wardrobe item
	server.AddTool(mcp.Tool{
		Name:        "recommend_outfit",
		Description: "Compose an outfit around a selected wardrobe item. Picks matching pieces from compatible categories and returns their details.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"item_id": map[string]interface{}{
					"type":        "number",
					"description": "ID of the wardrobe item to build the outfit around",
				},
			},
			Required: []string{"item_id"},
		},
	}, handlers.RecommendOutfit)

	// 2. list_wardrobe - Browse the wardrobe, optionally by category
	server.AddTool(mcp.Tool{
		Name:        "list_wardrobe",
		Description: "List wardrobe items with their ids, colours, and style tags. Optionally filter by category (top, bottom, dress, shoes, outerwear, accessories).",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"category": map[string]interface{}{
					"type":        "string",
					"description": "Category to filter by (default: all categories)",
				},
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of items to return (default: 30)",
					"default":     30,
				},
			},
		},
	}, handlers.ListWardrobe)

	// 3. shuffle_wardrobe - Random sample for inspiration
	server.AddTool(mcp.Tool{
		Name:        "shuffle_wardrobe",
		Description: "Return a random handful of wardrobe items for inspiration.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.ShuffleWardrobe)

	// 4. add_cloth - Add or update a wardrobe item
	server.AddTool(mcp.Tool{
		Name:        "add_cloth",
		Description: "Add a clothing item to the wardrobe, or update the existing item with the same name.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Item name, unique within the wardrobe",
				},
				"type": map[string]interface{}{
					"type":        "string",
					"description": "Garment type (e.g. shirt, heels, trench coat)",
				},
				"category": map[string]interface{}{
					"type":        "string",
					"description": "Category: top, bottom, dress, shoes, outerwear, or accessories",
				},
				"colour": map[string]interface{}{
					"type":        "string",
					"description": "Primary colour",
				},
				"styles": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Style tags (e.g. casual, elegant)",
				},
			},
			Required: []string{"name", "type", "category", "colour"},
		},
	}, handlers.AddCloth)

	return handlers
}

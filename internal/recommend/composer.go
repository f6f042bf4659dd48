// ABOUTME: Builds the stylist prompt and invokes the generative completion service
// ABOUTME: Single blocking call, no internal retry; output is untrusted text
package recommend

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/samsam9395/my-ootd/internal/models"
)

// Stylist is the boundary to the external generative completion service
type Stylist interface {
	CompleteOutfit(ctx context.Context, prompt string) (string, error)
}

// Composer turns a selected item and its candidates into a stylist prompt
// and returns the raw completion for the validator to pick apart.
type Composer struct {
	stylist Stylist
}

// NewComposer creates a composer backed by the given stylist
func NewComposer(stylist Stylist) *Composer {
	return &Composer{stylist: stylist}
}

// Compose issues the completion request. Any transport failure surfaces as
// ErrUpstreamUnavailable; retrying belongs to the transport layer, not here.
func (c *Composer) Compose(ctx context.Context, selected models.ClothDetail, candidates map[string][]models.ClothDetail) (string, error) {
	raw, err := c.stylist.CompleteOutfit(ctx, BuildPrompt(selected, candidates))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	return raw, nil
}

// BuildPrompt renders the selection instruction. Every candidate carries its
// numeric id so the completion can reference items unambiguously.
func BuildPrompt(selected models.ClothDetail, candidates map[string][]models.ClothDetail) string {
	var b strings.Builder

	b.WriteString("You are a fashion stylist. Create a complete outfit based on:\n")
	fmt.Fprintf(&b, "- %s, colour: %s, styles: %s\n\n", selected.Name, selected.Colour, strings.Join(selected.Styles, ", "))

	b.WriteString("Here are the candidates:\n")
	categories := make([]string, 0, len(candidates))
	for cat := range candidates {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	for _, cat := range categories {
		fmt.Fprintf(&b, "%s:\n", cat)
		for _, item := range candidates[cat] {
			fmt.Fprintf(&b, "- %s (id: %d): %s, colour: %s, styles: %s\n",
				item.Type, item.ID, item.Name, item.Colour, strings.Join(item.Styles, ", "))
		}
	}

	b.WriteString("\nInstructions:\n")
	b.WriteString("- Pick exactly ONE id per listed category.\n")
	b.WriteString("- Reply with a single flat JSON object mapping each category name to the chosen id.\n")
	b.WriteString(`- Add "stylePhrase": one short phrase for the outfit's overall style (e.g. "casual chic").` + "\n")
	b.WriteString(`- Add "styleFlair": a short occasion the outfit suits (e.g. "weekend brunch").` + "\n")
	b.WriteString("- Never invent ids or categories that are not listed above.\n")
	b.WriteString("- Do not explain or justify your choices.\n")

	return b.String()
}

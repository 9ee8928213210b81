package cooking

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// IngredientID enumerates the closed set of ingredients a scenario offers.
// Zero is reserved for "nothing selected yet".
type IngredientID uint32

// NoIngredient is the sentinel held by an empty selection slot.
const NoIngredient IngredientID = 0

// Ingredient is a pantry entry the presentation layer can draw.
type Ingredient struct {
	ID    IngredientID `json:"id"`              // 1..n, also the number key that selects it
	Name  string       `json:"name"`            // e.g. "pumpkin"
	Asset string       `json:"asset,omitempty"` // Item sprite, e.g. "items/pumpkin_1.png"
}

// Pantry indexes ingredients by id.
type Pantry map[IngredientID]Ingredient

// NewPantry builds a pantry and rejects sentinel or duplicate ids.
func NewPantry(ingredients []Ingredient) (Pantry, error) {
	p := make(Pantry, len(ingredients))
	for _, ing := range ingredients {
		if ing.ID == NoIngredient {
			return nil, fmt.Errorf("ingredient %q uses reserved id 0", ing.Name)
		}
		if prev, dup := p[ing.ID]; dup {
			return nil, fmt.Errorf("ingredient id %d used by both %q and %q", ing.ID, prev.Name, ing.Name)
		}
		p[ing.ID] = ing
	}
	return p, nil
}

// Has reports whether id is a real ingredient in the pantry.
func (p Pantry) Has(id IngredientID) bool {
	_, ok := p[id]
	return ok
}

// DisplayName returns a title-cased ingredient name, "Nothing" for the sentinel
// and a numbered placeholder for ids the pantry doesn't know.
func (p Pantry) DisplayName(id IngredientID) string {
	if id == NoIngredient {
		return "Nothing"
	}
	ing, ok := p[id]
	if !ok || ing.Name == "" {
		return fmt.Sprintf("Ingredient #%d", id)
	}
	return cases.Title(language.English).String(ing.Name)
}

// IDs returns the pantry ids in ascending order.
func (p Pantry) IDs() []IngredientID {
	ids := make([]IngredientID, 0, len(p))
	for id := range p {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Describe renders the selection as "ingredients selected: X and Y".
func (p Pantry) Describe(s Selection) string {
	var b strings.Builder
	b.WriteString("ingredients selected: ")
	switch {
	case s.Previous() == NoIngredient && s.Current() == NoIngredient:
		b.WriteString("none")
	case s.Previous() == NoIngredient:
		b.WriteString(p.DisplayName(s.Current()))
	default:
		b.WriteString(p.DisplayName(s.Previous()))
		b.WriteString(" and ")
		b.WriteString(p.DisplayName(s.Current()))
	}
	return b.String()
}

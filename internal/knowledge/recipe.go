package knowledge

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RecipeEntry is one row of the recipe-graph source: a dish with aliases,
// ingredients, and allergen hints (spec.md §3 "Recipe graph").
type RecipeEntry struct {
	Name            string   `json:"name"`
	Aliases         []string `json:"aliases"`
	Ingredients     []string `json:"ingredients"`
	AllergenCodes   []string `json:"allergen_codes"`
	HiddenAllergens []string `json:"hidden_allergen_codes"`
	Narrative       string   `json:"narrative"`
}

// LoadRecipeSource parses the recipe-graph KB's JSON source into
// loadedRecords. Composite fields are JSON-stringified before being
// placed in the flat metadata map, per spec.md §9 "heterogeneous
// metadata in the vector store".
func LoadRecipeSource(raw []byte) ([]loadedRecord, error) {
	var entries []RecipeEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}
	out := make([]loadedRecord, len(entries))
	for i, e := range entries {
		text := fmt.Sprintf(
			"%s（别名：%s）。主要食材：%s。%s",
			e.Name, strings.Join(e.Aliases, "、"), strings.Join(e.Ingredients, "、"), e.Narrative,
		)
		out[i] = loadedRecord{
			Text: text,
			Metadata: map[string]interface{}{
				"name":                  e.Name,
				"aliases":               mustMarshal(e.Aliases),
				"ingredients":           mustMarshal(e.Ingredients),
				"allergen_codes":        mustMarshal(e.AllergenCodes),
				"hidden_allergen_codes": mustMarshal(e.HiddenAllergens),
				"narrative":             e.Narrative,
			},
		}
	}
	return out, nil
}

// DecodeRecipeMetadata reverses the JSON-stringification applied above,
// unpacking a recipe-graph search hit's metadata back into typed slices.
func DecodeRecipeMetadata(md map[string]interface{}) RecipeEntry {
	e := RecipeEntry{}
	if v, ok := md["name"].(string); ok {
		e.Name = v
	}
	if v, ok := md["narrative"].(string); ok {
		e.Narrative = v
	}
	decodeStringSlice(md["aliases"], &e.Aliases)
	decodeStringSlice(md["ingredients"], &e.Ingredients)
	decodeStringSlice(md["allergen_codes"], &e.AllergenCodes)
	decodeStringSlice(md["hidden_allergen_codes"], &e.HiddenAllergens)
	return e
}

func decodeStringSlice(v interface{}, out *[]string) {
	s, ok := v.(string)
	if !ok || s == "" {
		return
	}
	var parsed []string
	if err := json.Unmarshal([]byte(s), &parsed); err == nil {
		*out = parsed
	}
}

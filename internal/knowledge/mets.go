package knowledge

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MetsEntry is one row of the exercise-METs source table.
type MetsEntry struct {
	CanonicalName string   `json:"canonical_name"`
	Aliases       []string `json:"aliases"`
	Category      string   `json:"category"`
	METs          float64  `json:"mets"`
	Intensity     string   `json:"intensity"` // light|moderate|vigorous
	Description   string   `json:"description"`
}

// LoadMetsSource parses the exercise-METs KB's JSON source into
// loadedRecords (spec.md §3 "Exercise METs").
func LoadMetsSource(raw []byte) ([]loadedRecord, error) {
	var entries []MetsEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}
	out := make([]loadedRecord, len(entries))
	for i, e := range entries {
		text := fmt.Sprintf(
			"%s（别名：%s，分类：%s，强度：%s）METs值：%.1f。%s",
			e.CanonicalName, strings.Join(e.Aliases, "、"), e.Category, e.Intensity, e.METs, e.Description,
		)
		out[i] = loadedRecord{
			Text: text,
			Metadata: map[string]interface{}{
				"canonical_name": e.CanonicalName,
				"aliases":        mustMarshal(e.Aliases),
				"category":       e.Category,
				"mets":           e.METs,
				"intensity":      e.Intensity,
				"description":    e.Description,
			},
		}
	}
	return out, nil
}

// DecodeMetsMetadata reverses the JSON-stringification of the aliases
// field for a search hit's metadata.
func DecodeMetsMetadata(md map[string]interface{}) MetsEntry {
	e := MetsEntry{}
	if v, ok := md["canonical_name"].(string); ok {
		e.CanonicalName = v
	}
	if v, ok := md["category"].(string); ok {
		e.Category = v
	}
	if v, ok := md["intensity"].(string); ok {
		e.Intensity = v
	}
	if v, ok := md["description"].(string); ok {
		e.Description = v
	}
	if v, ok := md["mets"].(float64); ok {
		e.METs = v
	}
	decodeStringSlice(md["aliases"], &e.Aliases)
	return e
}

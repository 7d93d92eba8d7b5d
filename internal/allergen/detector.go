package allergen

import "strings"

// Finding is one detected allergen with its matched keywords and
// confidence, before fusion with AI/graph sources.
type Finding struct {
	Code            Code     `json:"code"`
	Name            string   `json:"name"`
	MatchedKeywords []string `json:"matched_keywords"`
	Confidence      string   `json:"confidence"` // high | medium
}

// CheckResult is the keyword detector's output (spec.md §4.9 "check").
type CheckResult struct {
	DetectedAllergens []Finding `json:"detected_allergens"`
	Warnings          []string  `json:"warnings"`
	HasAllergens      bool      `json:"has_allergens"`
	HasWarnings       bool      `json:"has_warnings"`
}

// Check substring-matches the catalog's keyword sets against
// foodName+ingredients, and emits a per-user warning when a matched class
// intersects userAllergens (matched by code, English name, Chinese name,
// or any matched keyword).
func Check(foodName string, ingredients []string, userAllergens []string) CheckResult {
	haystack := strings.ToLower(foodName + " " + strings.Join(ingredients, " "))

	var result CheckResult
	for _, cat := range Catalog {
		var matched []string
		for _, kw := range cat.Keywords {
			if strings.Contains(haystack, strings.ToLower(kw)) {
				matched = append(matched, kw)
			}
		}
		if len(matched) == 0 {
			continue
		}
		confidence := "medium"
		if len(matched) >= 2 {
			confidence = "high"
		}
		finding := Finding{Code: cat.Code, Name: cat.NameEN, MatchedKeywords: matched, Confidence: confidence}
		result.DetectedAllergens = append(result.DetectedAllergens, finding)

		if userIsSensitiveTo(cat, matched, userAllergens) {
			result.Warnings = append(result.Warnings, "警告：该菜品可能含有"+cat.NameCN+"（"+cat.NameEN+"），via keyword match")
		}
	}

	result.HasAllergens = len(result.DetectedAllergens) > 0
	result.HasWarnings = len(result.Warnings) > 0
	return result
}

// userIsSensitiveTo reports whether userAllergens names cat by canonical
// code, English name, Chinese name, or any of the keywords that matched.
func userIsSensitiveTo(cat Category, matchedKeywords []string, userAllergens []string) bool {
	for _, ua := range userAllergens {
		uaLower := strings.ToLower(strings.TrimSpace(ua))
		if uaLower == "" {
			continue
		}
		if uaLower == strings.ToLower(string(cat.Code)) ||
			uaLower == strings.ToLower(cat.NameEN) ||
			ua == cat.NameCN {
			return true
		}
		for _, kw := range matchedKeywords {
			if uaLower == strings.ToLower(kw) {
				return true
			}
		}
	}
	return false
}

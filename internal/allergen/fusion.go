package allergen

import "strings"

// MergedFinding is one entry in the fused result, annotated with its
// provenance across the keyword/AI/graph sources.
type MergedFinding struct {
	Code       Code   `json:"code"`
	Name       string `json:"name"`
	Source     string `json:"source"` // keyword | ai | keyword+ai | graph
	Confidence string `json:"confidence"`
}

// DetectionMethodCounts reports how many codes each source contributed
// and the size of the union.
type DetectionMethodCounts struct {
	KeywordCount int `json:"keyword_count"`
	AICount      int `json:"ai_count"`
	MergedCount  int `json:"merged_count"`
}

// MergeResult is the fusion engine's output (spec.md §4.9 "merge").
type MergeResult struct {
	DetectedAllergens []MergedFinding       `json:"detected_allergens"`
	Warnings          []string              `json:"warnings"`
	HasAllergens      bool                  `json:"has_allergens"`
	HasWarnings       bool                  `json:"has_warnings"`
	DetectionMethods  DetectionMethodCounts `json:"detection_methods"`
	AIReasoning       string                `json:"ai_reasoning"`
}

// GraphHint is an optional third source: a hidden-allergen code surfaced
// by a recipe-graph KB lookup (spec.md §4.9, §4.3).
type GraphHint struct {
	Code Code
}

// Merge fuses keyword-detector output with AI-inferred allergen codes
// (and, optionally, recipe-graph hidden-allergen hints) into one
// provenance-annotated result.
func Merge(foodName string, keywordResult CheckResult, aiAllergens []string, aiReasoning string, userAllergens []string, graphHints []GraphHint) MergeResult {
	keywordByCode := make(map[Code]Finding, len(keywordResult.DetectedAllergens))
	for _, f := range keywordResult.DetectedAllergens {
		keywordByCode[f.Code] = f
	}

	aiSet := make(map[Code]bool, len(aiAllergens))
	for _, raw := range aiAllergens {
		code := NormalizeCode(raw)
		if code == "" {
			code = Code(strings.ToLower(strings.TrimSpace(raw)))
			if !IsCanonical(string(code)) {
				continue
			}
		}
		aiSet[code] = true
	}

	graphSet := make(map[Code]bool, len(graphHints))
	for _, h := range graphHints {
		graphSet[h.Code] = true
	}

	union := make(map[Code]bool)
	for c := range keywordByCode {
		union[c] = true
	}
	for c := range aiSet {
		union[c] = true
	}
	for c := range graphSet {
		union[c] = true
	}

	var result MergeResult
	result.AIReasoning = aiReasoning
	result.DetectionMethods.KeywordCount = len(keywordByCode)
	result.DetectionMethods.AICount = len(aiSet)
	result.DetectionMethods.MergedCount = len(union)

	// Stable iteration order: catalog order. Codes outside the catalog are
	// not emitted.
	ordered := make([]Code, 0, len(union))
	for _, cat := range Catalog {
		if union[cat.Code] {
			ordered = append(ordered, cat.Code)
		}
	}

	for _, code := range ordered {
		cat, _ := ByCode(code)
		kwFinding, inKeyword := keywordByCode[code]
		inAI := aiSet[code]
		inGraph := graphSet[code]

		var source, confidence string
		switch {
		case inKeyword && inAI:
			source = "keyword+ai"
			confidence = "high"
		case inKeyword:
			source = "keyword"
			confidence = kwFinding.Confidence
		case inAI:
			source = "ai"
			confidence = "medium"
		case inGraph:
			source = "graph"
			confidence = "medium"
		}

		result.DetectedAllergens = append(result.DetectedAllergens, MergedFinding{
			Code: code, Name: cat.NameEN, Source: source, Confidence: confidence,
		})

		if userIsSensitiveTo(cat, kwFinding.MatchedKeywords, userAllergens) {
			result.Warnings = append(result.Warnings, warningFor(cat, source))
		}
	}

	result.HasAllergens = len(result.DetectedAllergens) > 0
	result.HasWarnings = len(result.Warnings) > 0
	return result
}

func warningFor(cat Category, source string) string {
	var via string
	switch source {
	case "keyword":
		via = "via keyword match"
	case "ai":
		via = "via AI inference"
	case "keyword+ai":
		via = "via both"
	case "graph":
		via = "via recipe graph"
	}
	return "警告：该菜品可能含有" + cat.NameCN + "（" + cat.NameEN + "），" + via
}

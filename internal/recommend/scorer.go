package recommend

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/TheBreeze12/lifehub-backend/internal/allergen"
	"github.com/TheBreeze12/lifehub-backend/internal/model"
	"github.com/TheBreeze12/lifehub-backend/internal/repository"
)

// HistoryLookbackDays bounds how far back dish-history counts are drawn
// from for the preference score.
const HistoryLookbackDays = 30

// preferenceKeywords are the dish-name tokens used for keyword-overlap
// bonus scoring (spec.md §4.13 step 5).
var preferenceKeywords = []string{"鱼", "虾", "鸡", "牛", "豆", "蛋", "菜", "粥"}

// Recommendation is one scored dish in a Recommend response.
type Recommendation struct {
	FoodName string   `json:"food_name"`
	Calories float64  `json:"calories"`
	Protein  float64  `json:"protein"`
	Fat      float64  `json:"fat"`
	Carbs    float64  `json:"carbs"`
	Score    float64  `json:"score"`
	Reason   string   `json:"reason"`
	Tags     []string `json:"tags"`
}

// Scorer produces top-N dish recommendations for one user and meal slot.
type Scorer struct {
	diet repository.DietRecordRepository
}

func NewScorer(diet repository.DietRecordRepository) *Scorer {
	return &Scorer{diet: diet}
}

// Recommend scores every catalog dish compatible with mealType and the
// user's allergens, and returns the top `limit` by score.
func (s *Scorer) Recommend(ctx context.Context, user *model.User, mealType string, limit int, today time.Time) ([]Recommendation, error) {
	history, err := s.diet.DishHistoryCounts(ctx, user.ID, today.AddDate(0, 0, -HistoryLookbackDays))
	if err != nil {
		return nil, err
	}
	eatenToday, err := s.diet.DishNamesEatenOn(ctx, user.ID, today)
	if err != nil {
		return nil, err
	}
	eatenTodaySet := make(map[string]bool, len(eatenToday))
	for _, name := range eatenToday {
		eatenTodaySet[name] = true
	}

	records, err := s.diet.ListByUserAndDate(ctx, user.ID, today)
	if err != nil {
		return nil, err
	}
	todayIntake := 0.0
	for _, r := range records {
		todayIntake += r.Calories
	}

	goal := user.HealthGoal
	if goal == "" || goal == "unset" {
		goal = "balanced"
	}
	dailyTarget := dailyTargetKcal(user, goal)
	remaining := dailyTarget - todayIntake
	if remaining < 0 {
		remaining = 0
	}

	userAllergens := normalizeUserAllergens(user.Allergens)

	var scored []Recommendation
	for _, dish := range Catalog {
		if !dish.servesMeal(mealType) || !dish.disjointFrom(userAllergens) {
			continue
		}

		goalScore := goalScoreFor(goal, dish)
		calorieFit := calorieFitScore(dish.Calories, remaining)
		preference := preferenceScore(dish, history)
		variety := 15.0
		if eatenTodaySet[dish.Name] {
			variety = 0
		}

		total := clampScore(goalScore+calorieFit+preference+variety, 0, 100)
		total = roundTo(total, 1)

		scored = append(scored, Recommendation{
			FoodName: dish.Name,
			Calories: dish.Calories,
			Protein:  dish.Protein,
			Fat:      dish.Fat,
			Carbs:    dish.Carbs,
			Score:    total,
			Reason:   buildReason(goal, dish, remaining, history[dish.Name]),
			Tags:     tagsFor(dish),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if limit > 0 && limit < len(scored) {
		scored = scored[:limit]
	}
	return scored, nil
}

// dailyTargetKcal derives the Mifflin-St Jeor-based daily target,
// adjusted by goal (spec.md §4.13 step 1).
func dailyTargetKcal(user *model.User, goal string) float64 {
	bmr := user.BodyParamsOrDefault().MifflinStJeorBMR() * 1.375
	switch goal {
	case "reduce-fat":
		return bmr - 500
	case "gain-muscle":
		return bmr + 300
	default:
		return bmr
	}
}

func normalizeUserAllergens(raw model.JSONSlice) map[allergen.Code]bool {
	set := make(map[allergen.Code]bool, len(raw))
	for _, v := range raw {
		token, ok := v.(string)
		if !ok {
			continue
		}
		if code := allergen.NormalizeCode(token); code != "" {
			set[code] = true
		}
	}
	return set
}

func clampScore(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func roundTo(v float64, decimals int) float64 {
	scale := 1.0
	for i := 0; i < decimals; i++ {
		scale *= 10
	}
	return float64(int(v*scale+0.5)) / scale
}

// rewardLow scores value at max when <= ideal, decaying linearly to 0 at
// ideal+span.
func rewardLow(value, ideal, span, max float64) float64 {
	if value <= ideal {
		return max
	}
	excess := value - ideal
	return clampScore(max*(1-excess/span), 0, max)
}

// rewardHigh scores value at max when >= ideal, decaying linearly to 0
// at value=0.
func rewardHigh(value, ideal, max float64) float64 {
	if value >= ideal {
		return max
	}
	if ideal <= 0 {
		return max
	}
	return clampScore(max*(value/ideal), 0, max)
}

// rewardRange scores value at max inside [lo,hi], decaying linearly to 0
// over `span` outside the band.
func rewardRange(value, lo, hi, span, max float64) float64 {
	if value >= lo && value <= hi {
		return max
	}
	var dist float64
	if value < lo {
		dist = lo - value
	} else {
		dist = value - hi
	}
	return clampScore(max*(1-dist/span), 0, max)
}

// goalScoreFor implements spec.md §4.13's 40-point goal-specific rubric.
func goalScoreFor(goal string, d Dish) float64 {
	switch goal {
	case "reduce-fat":
		return rewardLow(d.Calories, 150, 300, 15) +
			rewardHigh(d.Protein, 20, 15) +
			rewardLow(d.Fat, 5, 25, 10)
	case "gain-muscle":
		return rewardHigh(d.Protein, 25, 25) +
			rewardRange(d.Calories, 150, 350, 150, 15)
	case "control-sugar":
		return rewardLow(d.Carbs, 10, 40, 20) +
			rewardHigh(d.Protein, 20, 20)
	default: // balanced
		macroKcal := d.Protein*4 + d.Fat*9 + d.Carbs*4
		proteinPct := safeDivide(d.Protein*4, macroKcal) * 100
		fatPct := safeDivide(d.Fat*9, macroKcal) * 100
		carbsPct := safeDivide(d.Carbs*4, macroKcal) * 100
		ratioScore := (bandFit(proteinPct, 10, 15) + bandFit(fatPct, 20, 30) + bandFit(carbsPct, 50, 65)) / 3 * 20
		return ratioScore + rewardRange(d.Calories, 200, 400, 200, 20)
	}
}

func safeDivide(numerator, denom float64) float64 {
	if denom == 0 {
		return 0
	}
	return numerator / denom
}

// bandFit returns 1 when pct is within [lo,hi], decaying toward 0 the
// farther outside the band it falls.
func bandFit(pct, lo, hi float64) float64 {
	if pct >= lo && pct <= hi {
		return 1
	}
	var dist float64
	if pct < lo {
		dist = lo - pct
	} else {
		dist = pct - hi
	}
	return clampScore(1-dist/30, 0, 1)
}

// calorieFitScore implements spec.md §4.13 step 5's 30-point calorie-fit
// rubric: peak within [0.1,0.5]*remaining, linear decay outside, and the
// degenerate remaining<=0 case where only very small dishes score above 10.
func calorieFitScore(calories, remaining float64) float64 {
	if remaining <= 0 {
		if calories <= 50 {
			return clampScore(30-calories*0.4, 10, 30)
		}
		return clampScore(10-(calories-50)*0.05, 0, 10)
	}
	lo := 0.1 * remaining
	hi := 0.5 * remaining
	if calories >= lo && calories <= hi {
		return 30
	}
	span := hi - lo
	if span <= 0 {
		span = remaining
	}
	var dist float64
	if calories < lo {
		dist = lo - calories
	} else {
		dist = calories - hi
	}
	return clampScore(30*(1-dist/span), 0, 30)
}

// preferenceScore implements spec.md §4.13 step 5's 15-point preference
// rubric: direct history count for the dish itself, plus a small bonus
// for keyword overlap with other dishes the user eats often.
func preferenceScore(d Dish, history map[string]int) float64 {
	direct := float64(history[d.Name]) * 2.5
	if direct > 10 {
		direct = 10
	}

	bonus := 0.0
	for _, kw := range preferenceKeywords {
		if !containsRune(d.Name, kw) {
			continue
		}
		for otherName, count := range history {
			if otherName == d.Name || count == 0 {
				continue
			}
			if containsRune(otherName, kw) {
				bonus++
				break
			}
		}
	}
	if bonus > 5 {
		bonus = 5
	}
	return direct + bonus
}

func containsRune(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}

// tagsFor derives display tags from absolute nutrient thresholds
// (spec.md §4.13 step 6).
func tagsFor(d Dish) []string {
	var tags []string
	if d.Calories <= 100 {
		tags = append(tags, "低卡")
	}
	if d.Calories >= 300 {
		tags = append(tags, "高卡")
	}
	if d.Protein >= 15 {
		tags = append(tags, "高蛋白")
	}
	if d.Fat <= 3 {
		tags = append(tags, "低脂")
	}
	if d.Fat >= 20 {
		tags = append(tags, "高脂")
	}
	if d.Carbs <= 5 {
		tags = append(tags, "低碳水")
	}
	if d.Carbs >= 30 {
		tags = append(tags, "高碳水")
	}
	return tags
}

func buildReason(goal string, d Dish, remaining float64, historyCount int) string {
	goalPhrase := map[string]string{
		"reduce-fat":    "低热量、低脂肪，契合减脂目标",
		"gain-muscle":   "蛋白质含量高，有助于增肌",
		"control-sugar": "碳水含量低，适合控糖",
		"balanced":      "营养比例均衡",
	}[goal]
	if goalPhrase == "" {
		goalPhrase = "营养比例均衡"
	}

	reason := goalPhrase
	if remaining > 0 {
		reason += fmt.Sprintf("，热量符合今日剩余 %.0f kcal 额度", remaining)
	} else {
		reason += "，今日热量额度已接近上限，推荐低热量选项"
	}
	if historyCount > 0 {
		reason += fmt.Sprintf("，你过去常吃这道菜（%d 次）", historyCount)
	}
	return reason
}

// Package recommend implements spec.md §4.13: a transparent, rubric-based
// dish scorer over a fixed in-memory catalog. Grounded on the source
// backend's nutrition_service.go scoring-by-rubric style and
// statistics_service.go's history-lookup idiom.
package recommend

import "github.com/TheBreeze12/lifehub-backend/internal/allergen"

// Dish is one fixed catalog entry available for recommendation.
type Dish struct {
	Name       string
	Calories   float64
	Protein    float64
	Fat        float64
	Carbs      float64
	MealTypes  []string
	Allergens  []allergen.Code
}

func (d Dish) servesMeal(mealType string) bool {
	for _, m := range d.MealTypes {
		if m == mealType {
			return true
		}
	}
	return false
}

func (d Dish) disjointFrom(userAllergens map[allergen.Code]bool) bool {
	for _, a := range d.Allergens {
		if userAllergens[a] {
			return false
		}
	}
	return true
}

// Catalog is the fixed candidate pool every recommendation is drawn from.
var Catalog = []Dish{
	{Name: "清蒸鲈鱼", Calories: 180, Protein: 28, Fat: 6, Carbs: 2, MealTypes: []string{"lunch", "dinner"}, Allergens: []allergen.Code{allergen.Fish}},
	{Name: "白灼虾", Calories: 110, Protein: 20, Fat: 2, Carbs: 1, MealTypes: []string{"lunch", "dinner"}, Allergens: []allergen.Code{allergen.Shellfish}},
	{Name: "鸡胸肉沙拉", Calories: 220, Protein: 32, Fat: 7, Carbs: 8, MealTypes: []string{"lunch", "dinner"}, Allergens: []allergen.Code{}},
	{Name: "番茄炒蛋", Calories: 210, Protein: 12, Fat: 14, Carbs: 8, MealTypes: []string{"breakfast", "lunch", "dinner"}, Allergens: []allergen.Code{allergen.Egg}},
	{Name: "牛肉汉堡", Calories: 520, Protein: 26, Fat: 28, Carbs: 38, MealTypes: []string{"lunch", "dinner"}, Allergens: []allergen.Code{allergen.Wheat}},
	{Name: "红烧肉", Calories: 480, Protein: 18, Fat: 38, Carbs: 10, MealTypes: []string{"lunch", "dinner"}, Allergens: []allergen.Code{}},
	{Name: "皮蛋瘦肉粥", Calories: 260, Protein: 14, Fat: 6, Carbs: 38, MealTypes: []string{"breakfast"}, Allergens: []allergen.Code{allergen.Egg}},
	{Name: "豆浆油条", Calories: 390, Protein: 10, Fat: 18, Carbs: 45, MealTypes: []string{"breakfast"}, Allergens: []allergen.Code{allergen.Soy, allergen.Wheat}},
	{Name: "牛奶燕麦", Calories: 240, Protein: 10, Fat: 6, Carbs: 36, MealTypes: []string{"breakfast"}, Allergens: []allergen.Code{allergen.Milk}},
	{Name: "全麦面包", Calories: 160, Protein: 6, Fat: 2, Carbs: 30, MealTypes: []string{"breakfast", "snack"}, Allergens: []allergen.Code{allergen.Wheat}},
	{Name: "水煮蛋", Calories: 78, Protein: 7, Fat: 5, Carbs: 1, MealTypes: []string{"breakfast", "snack"}, Allergens: []allergen.Code{allergen.Egg}},
	{Name: "坚果酸奶杯", Calories: 190, Protein: 9, Fat: 10, Carbs: 16, MealTypes: []string{"snack"}, Allergens: []allergen.Code{allergen.Milk, allergen.TreeNut}},
	{Name: "水果拼盘", Calories: 90, Protein: 1, Fat: 0, Carbs: 22, MealTypes: []string{"snack"}, Allergens: []allergen.Code{}},
	{Name: "蛋白粉奶昔", Calories: 150, Protein: 25, Fat: 3, Carbs: 8, MealTypes: []string{"snack"}, Allergens: []allergen.Code{allergen.Milk}},
	{Name: "豆腐青菜汤", Calories: 95, Protein: 8, Fat: 3, Carbs: 7, MealTypes: []string{"lunch", "dinner"}, Allergens: []allergen.Code{allergen.Soy}},
	{Name: "糙米饭套餐", Calories: 320, Protein: 10, Fat: 5, Carbs: 60, MealTypes: []string{"lunch", "dinner"}, Allergens: []allergen.Code{}},
	{Name: "藜麦沙拉", Calories: 230, Protein: 9, Fat: 8, Carbs: 30, MealTypes: []string{"lunch", "dinner"}, Allergens: []allergen.Code{}},
	{Name: "清炒时蔬", Calories: 85, Protein: 3, Fat: 4, Carbs: 9, MealTypes: []string{"lunch", "dinner"}, Allergens: []allergen.Code{}},
	{Name: "牛排配蔬菜", Calories: 410, Protein: 38, Fat: 24, Carbs: 12, MealTypes: []string{"lunch", "dinner"}, Allergens: []allergen.Code{}},
	{Name: "虾仁炒饭", Calories: 430, Protein: 16, Fat: 12, Carbs: 58, MealTypes: []string{"lunch", "dinner"}, Allergens: []allergen.Code{allergen.Shellfish, allergen.Egg}},
}

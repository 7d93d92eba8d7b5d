// Package allergen implements spec.md §4.9: a fixed eight-class keyword
// detector fused with AI-inferred allergens and recipe-graph hidden
// hints, with per-finding provenance and confidence.
package allergen

// Code is one of the fixed, closed eight-class allergen taxonomy.
type Code string

const (
	Milk     Code = "milk"
	Egg      Code = "egg"
	Fish     Code = "fish"
	Shellfish Code = "shellfish"
	Peanut   Code = "peanut"
	TreeNut  Code = "tree_nut"
	Wheat    Code = "wheat"
	Soy      Code = "soy"
)

// Category describes one allergen class: display names, description, and
// its curated keyword set.
type Category struct {
	Code        Code
	NameEN      string
	NameCN      string
	Description string
	Keywords    []string
}

// Catalog is the canonical, closed eight-class taxonomy (spec.md §4.9).
var Catalog = []Category{
	{
		Code: Milk, NameEN: "Milk", NameCN: "乳制品",
		Description: "Dairy products and anything derived from cow, goat, or sheep milk.",
		Keywords: []string{
			"牛奶", "鲜奶", "奶粉", "酸奶", "乳酪", "芝士", "奶酪", "黄油", "奶油", "炼乳",
			"乳清", "酪蛋白", "milk", "cheese", "butter", "cream", "yogurt", "whey", "casein",
			"奶茶", "拿铁", "提拉米苏", "奶昔",
		},
	},
	{
		Code: Egg, NameEN: "Egg", NameCN: "蛋类",
		Description: "Chicken, duck, or other bird eggs and their derivatives.",
		Keywords: []string{
			"鸡蛋", "鸭蛋", "蛋黄", "蛋白", "蛋液", "荷包蛋", "煎蛋", "炒蛋", "蛋花",
			"蛋羹", "蛋挞", "蛋糕", "卡仕达", "蛋黄酱", "egg", "mayonnaise", "meringue",
			"番茄炒蛋", "蛋炒饭", "木须肉",
		},
	},
	{
		Code: Fish, NameEN: "Fish", NameCN: "鱼类",
		Description: "Finfish of any species and fish-derived sauces.",
		Keywords: []string{
			"鱼", "三文鱼", "鳕鱼", "带鱼", "鲈鱼", "鲤鱼", "草鱼", "鱼片", "鱼丸", "鱼露",
			"鱼子酱", "fish", "salmon", "tuna", "cod", "anchovy", "fish sauce",
		},
	},
	{
		Code: Shellfish, NameEN: "Shellfish", NameCN: "贝壳类",
		Description: "Crustaceans and mollusks: shrimp, crab, clams, oysters, squid.",
		Keywords: []string{
			"虾", "蟹", "螃蟹", "龙虾", "扇贝", "蛤蜊", "牡蛎", "生蚝", "鱿鱼", "墨鱼",
			"章鱼", "海参", "shrimp", "crab", "lobster", "oyster", "scallop", "squid", "clam",
		},
	},
	{
		Code: Peanut, NameEN: "Peanut", NameCN: "花生",
		Description: "Peanuts and peanut-derived ingredients.",
		Keywords: []string{
			"花生", "花生酱", "花生油", "花生碎", "peanut", "peanut butter", "groundnut",
		},
	},
	{
		Code: TreeNut, NameEN: "Tree nut", NameCN: "坚果",
		Description: "Tree nuts: almond, walnut, cashew, pistachio, pecan, hazelnut.",
		Keywords: []string{
			"杏仁", "核桃", "腰果", "开心果", "榛子", "夏威夷果", "松子", "板栗", "栗子",
			"almond", "walnut", "cashew", "pistachio", "hazelnut", "pecan",
		},
	},
	{
		Code: Wheat, NameEN: "Wheat", NameCN: "小麦",
		Description: "Wheat flour and products made from it (gluten-containing grains).",
		Keywords: []string{
			"小麦", "面粉", "面条", "面包", "馒头", "包子", "饺子皮", "面皮", "麸质",
			"酱油", "wheat", "flour", "bread", "noodle", "gluten", "dumpling wrapper",
		},
	},
	{
		Code: Soy, NameEN: "Soy", NameCN: "大豆",
		Description: "Soybeans and soy-derived products.",
		Keywords: []string{
			"大豆", "黄豆", "豆腐", "豆浆", "豆皮", "腐竹", "酱油", "豆瓣酱", "味噌",
			"soy", "soybean", "tofu", "soy sauce", "miso", "edamame",
		},
	},
}

// ByCode looks up a Category by its canonical code.
func ByCode(code Code) (Category, bool) {
	for _, c := range Catalog {
		if c.Code == code {
			return c, true
		}
	}
	return Category{}, false
}

// NormalizeCode maps a free-text token — canonical code, English name, or
// Chinese name — onto its canonical Code, or "" if it matches none.
func NormalizeCode(token string) Code {
	for _, c := range Catalog {
		if string(c.Code) == token || c.NameEN == token || c.NameCN == token {
			return c.Code
		}
	}
	return ""
}

// IsCanonical reports whether code is one of the eight fixed classes.
func IsCanonical(code string) bool {
	_, ok := ByCode(Code(code))
	return ok
}

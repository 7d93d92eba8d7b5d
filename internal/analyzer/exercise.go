package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/TheBreeze12/lifehub-backend/internal/aiclient"
	"github.com/TheBreeze12/lifehub-backend/internal/mets"
	"github.com/TheBreeze12/lifehub-backend/internal/model"
)

// now is overridable in tests so the sentinel-date and "today" rules in
// spec.md §4.10 can be exercised deterministically.
var now = time.Now

const dateLayout = "2006-01-02"

// sentinelDates are well-known example dates the model sometimes echoes
// back verbatim from its own prompt examples instead of reasoning about
// the real query.
var sentinelDates = map[string]bool{
	"2026-01-27": true,
	"1970-01-01": true,
}

// LatLon is an optional user location hint for destination resolution.
type LatLon struct {
	Lat float64
	Lon float64
}

// Intent is stage 1's normalized output (spec.md §4.10).
type Intent struct {
	Destination    string    `json:"destination"`
	StartDate      time.Time `json:"-"`
	EndDate        time.Time `json:"-"`
	Days           int       `json:"days"`
	CaloriesTarget float64   `json:"calories_target"`
	ExerciseType   string    `json:"exercise_type"`
}

// PlanItem is one entry of a generated plan (spec.md §4.10 stage 2).
type PlanItem struct {
	DayIndex  int     `json:"dayIndex"`
	StartTime string  `json:"startTime"`
	PlaceName string  `json:"placeName"`
	PlaceType string  `json:"placeType"`
	Duration  int     `json:"duration"`
	Cost      float64 `json:"cost"`
	Notes     string  `json:"notes"`
}

// GeneratedPlan is stage 2's output before it is persisted as a
// TripPlan/[]TripItem pair.
type GeneratedPlan struct {
	Title       string
	Destination string
	StartDate   time.Time
	EndDate     time.Time
	Items       []PlanItem
}

var validPlaceTypes = map[string]bool{
	"walking": true, "running": true, "cycling": true, "park": true,
	"gym": true, "indoor": true, "outdoor": true,
}

var forbiddenPlaceTokens = []string{"示例", "测试", "XX", "虚构", "unknown", "N/A"}

var vagueDestinationTokens = []string{"附近", "nearby"}

// diversityAlternatives offers substitute place names keyed by exercise
// type, used to de-duplicate identical placeNames within one plan.
var diversityAlternatives = map[string][]string{
	"walking": {"滨江步道", "中心公园步道", "老城区街道", "环湖步道"},
	"running": {"体育中心跑道", "滨河绿道", "大学城环道", "运动公园跑道"},
	"cycling": {"绿道骑行线", "环山公路", "滨海骑行道", "郊野公园车道"},
	"park":    {"人民公园", "中央公园", "滨江公园", "森林公园"},
	"gym":     {"综合健身中心", "社区健身房", "运动俱乐部", "全民健身馆"},
	"indoor":  {"室内运动馆", "综合体育馆", "健身工作室", "室内球馆"},
	"outdoor": {"户外运动基地", "郊野训练场", "露天运动场", "城市广场"},
}

// ExerciseIntentGenerator implements spec.md §4.10's two-stage
// composition: natural-language intent extraction, then plan expansion
// with deterministic post-processing.
type ExerciseIntentGenerator struct {
	adapter *aiclient.Adapter
	cfg     *aiclient.Config
}

func NewExerciseIntentGenerator(adapter *aiclient.Adapter, cfg *aiclient.Config) *ExerciseIntentGenerator {
	return &ExerciseIntentGenerator{adapter: adapter, cfg: cfg}
}

// ExtractIntent runs stage 1.
func (g *ExerciseIntentGenerator) ExtractIntent(ctx context.Context, query string, caloriesIntake *float64, preferences []string, userLocation *LatLon) (Intent, error) {
	prompt := g.buildIntentPrompt(query, caloriesIntake, preferences, userLocation)

	raw, err := g.adapter.Generate(ctx, model.CallTypeExerciseIntent, nil, prompt, g.cfg)
	if err != nil {
		return Intent{}, fmt.Errorf("exercise intent extraction failed: %w", err)
	}

	jsonStr := extractJSON(raw)
	if jsonStr == "" {
		return Intent{}, fmt.Errorf("exercise intent extraction: no JSON object in response")
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
		return Intent{}, fmt.Errorf("exercise intent extraction: invalid JSON: %w", err)
	}

	return g.normalizeIntent(parsed, query, userLocation), nil
}

func (g *ExerciseIntentGenerator) buildIntentPrompt(query string, caloriesIntake *float64, preferences []string, userLocation *LatLon) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("当前系统日期：%s。请勿在回答中照抄示例日期。\n\n", now().Format(dateLayout)))
	sb.WriteString(fmt.Sprintf("用户请求：%s\n", query))
	if caloriesIntake != nil {
		sb.WriteString(fmt.Sprintf("今日摄入热量：%.0f千卡\n", *caloriesIntake))
	}
	if len(preferences) > 0 {
		sb.WriteString(fmt.Sprintf("偏好：%s\n", strings.Join(preferences, "、")))
	}
	if userLocation != nil {
		sb.WriteString(fmt.Sprintf("用户位置：纬度%.4f 经度%.4f\n", userLocation.Lat, userLocation.Lon))
	}
	sb.WriteString("\n请以如下JSON结构返回（示例日期仅供格式参考，不要照抄）：\n")
	sb.WriteString(`{"destination":"某地","startDate":"2026-08-05","endDate":"2026-08-06","days":2,"calories_target":500,"exercise_type":"running"}`)
	return sb.String()
}

// normalizeIntent applies stage 1's post-processing rules.
func (g *ExerciseIntentGenerator) normalizeIntent(parsed map[string]interface{}, query string, userLocation *LatLon) Intent {
	intent := Intent{
		CaloriesTarget: coerceFloat(parsed["calories_target"], 0),
		ExerciseType:   coerceString(parsed["exercise_type"], "walking"),
	}

	start := parseSentinelAwareDate(coerceString(parsed["startDate"], ""))
	end := parseSentinelAwareDate(coerceString(parsed["endDate"], ""))
	days := int(coerceFloat(parsed["days"], 0))

	switch {
	case !start.IsZero() && !end.IsZero():
		days = int(end.Sub(start).Hours()/24) + 1
	case !start.IsZero() && days > 0:
		end = start.AddDate(0, 0, days-1)
	case start.IsZero() && !end.IsZero():
		start = end
		if days > 1 {
			start = end.AddDate(0, 0, -(days - 1))
		}
	case start.IsZero() && end.IsZero():
		start = now()
		if days < 1 {
			days = 1
		}
		end = start.AddDate(0, 0, days-1)
	}
	if days < 1 {
		days = 1
	}

	intent.StartDate = start
	intent.EndDate = end
	intent.Days = days

	destination := coerceString(parsed["destination"], "")
	intent.Destination = resolveDestination(destination, query, userLocation)

	return intent
}

// parseSentinelAwareDate parses a YYYY-MM-DD string, returning the zero
// time for an empty, unparsable, or sentinel-example value.
func parseSentinelAwareDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" || sentinelDates[s] {
		return time.Time{}
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// knownCities is a curated list of common Chinese city names used to
// detect an explicit city mention in a free-text query. A generic
// Han-character regex would also swallow the surrounding sentence (no
// word boundaries in Chinese), so matching against a fixed catalog is
// the deterministic alternative.
var knownCities = []string{
	"北京市", "上海市", "广州市", "深圳市", "杭州市", "南京市", "成都市",
	"武汉市", "西安市", "重庆市", "天津市", "苏州市", "青岛市", "厦门市",
	"长沙市", "郑州市", "济南市", "昆明市", "大连市", "宁波市",
	"北京", "上海", "广州", "深圳", "杭州", "南京", "成都",
	"武汉", "西安", "重庆", "天津", "苏州", "青岛", "厦门",
	"长沙", "郑州", "济南", "昆明", "大连", "宁波",
}

// findCityInQuery returns the first known city name found as a
// substring of query, preferring the longer "XX市" form when both
// appear.
func findCityInQuery(query string) string {
	for _, city := range knownCities {
		if strings.Contains(query, city) {
			return city
		}
	}
	return ""
}

// resolveDestination implements the "nearby-*" replacement rule: prefer
// a city explicitly named in the query, then reverse-geocode the user's
// location, then fall back to a generic literal.
func resolveDestination(destination, query string, userLocation *LatLon) string {
	isVague := destination == ""
	for _, tok := range vagueDestinationTokens {
		if strings.Contains(destination, tok) {
			isVague = true
		}
	}
	if !isVague {
		return destination
	}

	if city := findCityInQuery(query); city != "" {
		return city
	}
	if userLocation != nil {
		return reverseGeocodeStub(*userLocation)
	}
	return "运动场所"
}

// reverseGeocodeStub stands in for a real reverse-geocoding service
// (none is available in this deployment): it derives a stable,
// coordinate-grounded label rather than calling out to a provider.
func reverseGeocodeStub(loc LatLon) string {
	return fmt.Sprintf("坐标(%.2f,%.2f)附近运动区域", loc.Lat, loc.Lon)
}

// GeneratePlan runs stage 2: plan expansion from a normalized Intent,
// followed by the four deterministic post-processing layers.
func (g *ExerciseIntentGenerator) GeneratePlan(ctx context.Context, intent Intent, query string) GeneratedPlan {
	prompt := buildPlanPrompt(intent)

	raw, err := g.adapter.Generate(ctx, model.CallTypeExerciseIntent, nil, prompt, g.cfg)
	if err != nil {
		return defaultPlan(intent)
	}

	jsonStr := extractJSON(raw)
	if jsonStr == "" {
		return defaultPlan(intent)
	}

	var parsed struct {
		Title       string `json:"title"`
		Destination string `json:"destination"`
		Items       []struct {
			DayIndex  int     `json:"dayIndex"`
			StartTime string  `json:"startTime"`
			PlaceName string  `json:"placeName"`
			PlaceType string  `json:"placeType"`
			Duration  int     `json:"duration"`
			Cost      float64 `json:"cost"`
			Notes     string  `json:"notes"`
		} `json:"items"`
	}
	if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
		return defaultPlan(intent)
	}
	if len(parsed.Items) == 0 {
		return defaultPlan(intent)
	}

	items := make([]PlanItem, 0, len(parsed.Items))
	for _, it := range parsed.Items {
		placeType := it.PlaceType
		if !validPlaceTypes[placeType] {
			placeType = "walking"
		}
		items = append(items, PlanItem{
			DayIndex: it.DayIndex, StartTime: it.StartTime, PlaceName: it.PlaceName,
			PlaceType: placeType, Duration: it.Duration, Cost: it.Cost, Notes: it.Notes,
		})
	}

	city := findCityInQuery(query)
	if city == "" && !strings.Contains(intent.Destination, "坐标") && intent.Destination != "运动场所" {
		city = intent.Destination
	}

	items = concretizeLocations(items, city)
	items = enforceDiversity(items)
	items = adjustStartTimes(items, query, intent.StartDate)
	items = sanitizeItems(items)

	title := parsed.Title
	if title == "" {
		title = fmt.Sprintf("%s运动计划", intent.Destination)
	}
	destination := parsed.Destination
	if destination == "" {
		destination = intent.Destination
	}

	return GeneratedPlan{
		Title: title, Destination: destination,
		StartDate: intent.StartDate, EndDate: intent.EndDate, Items: items,
	}
}

func buildPlanPrompt(intent Intent) string {
	return fmt.Sprintf(
		"请为以下运动意图生成详细计划，仅返回JSON对象：\n目的地：%s\n开始日期：%s\n结束日期：%s\n天数：%d\n目标消耗热量：%.0f千卡\n运动类型：%s\n\n返回结构：{\"title\":\"...\",\"destination\":\"...\",\"startDate\":\"...\",\"endDate\":\"...\",\"items\":[{\"dayIndex\":1,\"startTime\":\"08:00\",\"placeName\":\"...\",\"placeType\":\"walking\",\"duration\":30,\"cost\":150,\"notes\":\"...\"}]}",
		intent.Destination, intent.StartDate.Format(dateLayout), intent.EndDate.Format(dateLayout),
		intent.Days, intent.CaloriesTarget, intent.ExerciseType,
	)
}

// defaultPlan is the fallback used on any LLM failure (spec.md §4.10
// last paragraph): 1-2 walking/running items totaling calories_target.
func defaultPlan(intent Intent) GeneratedPlan {
	target := intent.CaloriesTarget
	if target <= 0 {
		target = 300
	}
	half := target / 2
	duration1 := mets.DurationForTarget("walking", mets.DefaultWeightKg, half)
	duration2 := mets.DurationForTarget("running", mets.DefaultWeightKg, target-half)

	return GeneratedPlan{
		Title:       "默认运动计划",
		Destination: intent.Destination,
		StartDate:   intent.StartDate,
		EndDate:     intent.EndDate,
		Items: []PlanItem{
			{DayIndex: 1, StartTime: "08:00", PlaceName: "运动场所", PlaceType: "walking", Duration: duration1, Cost: half, Notes: "默认计划：步行"},
			{DayIndex: 1, StartTime: "18:00", PlaceName: "运动场所", PlaceType: "running", Duration: duration2, Cost: target - half, Notes: "默认计划：跑步"},
		},
	}
}

// concretizeLocations strips vague tokens from every placeName and, when
// a city was detected, prefixes every item with it.
func concretizeLocations(items []PlanItem, city string) []PlanItem {
	for i := range items {
		name := items[i].PlaceName
		for _, tok := range vagueDestinationTokens {
			name = strings.ReplaceAll(name, tok, "")
		}
		name = strings.TrimSpace(name)
		if city != "" && !strings.HasPrefix(name, city) {
			name = city + name
		}
		items[i].PlaceName = name
	}
	return items
}

// enforceDiversity substitutes duplicate placeNames from a curated
// per-type alternative list so every item's placeName is unique.
func enforceDiversity(items []PlanItem) []PlanItem {
	seen := make(map[string]int)
	for i := range items {
		name := items[i].PlaceName
		seen[name]++
		if seen[name] == 1 {
			continue
		}
		alternatives := diversityAlternatives[items[i].PlaceType]
		if len(alternatives) == 0 {
			alternatives = diversityAlternatives["walking"]
		}
		start := seen[name] - 2
		replacement := fmt.Sprintf("%s%d", name, seen[name])
		for j := 0; j < len(alternatives); j++ {
			if cand := alternatives[(start+j)%len(alternatives)]; seen[cand] == 0 {
				replacement = cand
				break
			}
		}
		items[i].PlaceName = replacement
		seen[replacement]++
	}
	return items
}

// adjustStartTimes overrides each item's startTime per spec.md §4.10
// rule 3: meal-slot keyword in query, dayIndex, and current time.
func adjustStartTimes(items []PlanItem, query string, startDate time.Time) []PlanItem {
	base := "18:00"
	switch {
	case containsAny(query, "早餐", "早上", "上午"):
		base = "08:00"
	case containsAny(query, "午餐", "中午"):
		base = "12:00"
	case containsAny(query, "晚餐", "傍晚", "晚上"):
		base = "19:00"
	case containsAny(query, "下午"):
		base = "15:00"
	default:
		if isToday(startDate) {
			nowT := now()
			base = nowT.Format("15:04")
		}
	}

	for i := range items {
		offsetMinutes := 30 + ((items[i].DayIndex * 11) % 31)
		t := addMinutesToClock(base, offsetMinutes)
		items[i].StartTime = clamp(t, "06:30", "21:30")
	}
	return items
}

func containsAny(s string, tokens ...string) bool {
	for _, tok := range tokens {
		if strings.Contains(s, tok) {
			return true
		}
	}
	return false
}

func isToday(t time.Time) bool {
	nowT := now()
	y1, m1, d1 := t.Date()
	y2, m2, d2 := nowT.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func addMinutesToClock(clock string, minutes int) string {
	h, m := parseClock(clock)
	total := h*60 + m + minutes
	total = ((total % 1440) + 1440) % 1440
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

func parseClock(clock string) (int, int) {
	parts := strings.Split(clock, ":")
	if len(parts) != 2 {
		return 18, 0
	}
	h, errH := strconv.Atoi(parts[0])
	m, errM := strconv.Atoi(parts[1])
	if errH != nil || errM != nil {
		return 18, 0
	}
	return h, m
}

func clamp(clock, min, max string) string {
	if clockMinutes(clock) < clockMinutes(min) {
		return min
	}
	if clockMinutes(clock) > clockMinutes(max) {
		return max
	}
	return clock
}

func clockMinutes(clock string) int {
	h, m := parseClock(clock)
	return h*60 + m
}

// sanitizeItems drops forbidden tokens, truncates placeName to 30
// runes, and defaults empty names to "运动场所".
func sanitizeItems(items []PlanItem) []PlanItem {
	for i := range items {
		name := items[i].PlaceName
		for _, tok := range forbiddenPlaceTokens {
			name = strings.ReplaceAll(name, tok, "")
		}
		name = strings.TrimSpace(name)
		r := []rune(name)
		if len(r) > 30 {
			name = string(r[:30])
		}
		if name == "" {
			name = "运动场所"
		}
		items[i].PlaceName = name
	}
	return items
}

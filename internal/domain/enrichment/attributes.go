package enrichment

import (
	"regexp"
	"strings"
)

// Condition grades listing condition from seller wording.
type Condition string

const (
	ConditionNew     Condition = "new"
	ConditionLikeNew Condition = "like_new"
	ConditionGood    Condition = "good"
	ConditionFair    Condition = "fair"
)

// conditionDisplay maps condition grades to marketplace display strings.
var conditionDisplay = map[Condition]string{
	ConditionNew:     "New",
	ConditionLikeNew: "Like New",
	ConditionGood:    "Good",
	ConditionFair:    "Fair",
}

// Display returns the marketplace-facing label for a condition grade.
func (c Condition) Display() string {
	return conditionDisplay[c]
}

// ExtractedAttributes holds the structured attributes pulled out of a
// listing. Model, Weight, Year and Gender are only filled by the AI merge;
// the rule extractor leaves them empty.
type ExtractedAttributes struct {
	Brand         string            `json:"brand,omitempty"`
	Model         string            `json:"model,omitempty"`
	Color         string            `json:"color,omitempty"`
	Size          string            `json:"size,omitempty"`
	Material      string            `json:"material,omitempty"`
	Condition     Condition         `json:"condition,omitempty"`
	Category      string            `json:"category,omitempty"`
	Weight        string            `json:"weight,omitempty"`
	Year          string            `json:"year,omitempty"`
	Gender        string            `json:"gender,omitempty"`
	ItemSpecifics map[string]string `json:"itemSpecifics,omitempty"`
	Confidence    float64           `json:"confidence"`
}

// scalarSpecifics renders the scalar attributes as marketplace item
// specifics.
func (a ExtractedAttributes) scalarSpecifics() map[string]string {
	specifics := make(map[string]string)
	if a.Brand != "" {
		specifics["Brand"] = a.Brand
	}
	if a.Color != "" {
		specifics["Color"] = a.Color
	}
	if a.Material != "" {
		specifics["Material"] = a.Material
	}
	if a.Size != "" {
		specifics["Size"] = a.Size
	}
	if a.Condition != "" {
		specifics["Condition"] = a.Condition.Display()
	}
	return specifics
}

// keywordEntry maps a set of trigger keywords to an extracted value.
// Entries are scanned in order and the first hit wins, so longer or more
// specific phrases must come before their substrings.
type keywordEntry struct {
	Keywords []string
	Value    string
}

var brandDictionary = []keywordEntry{
	{Keywords: []string{"seiko", "セイコー"}, Value: "SEIKO"},
	{Keywords: []string{"citizen", "シチズン"}, Value: "CITIZEN"},
	{Keywords: []string{"casio", "カシオ"}, Value: "CASIO"},
	{Keywords: []string{"orient", "オリエント"}, Value: "ORIENT"},
	{Keywords: []string{"omega", "オメガ"}, Value: "OMEGA"},
	{Keywords: []string{"rolex", "ロレックス"}, Value: "ROLEX"},
	{Keywords: []string{"tag heuer", "タグホイヤー"}, Value: "TAG HEUER"},
	{Keywords: []string{"tissot", "ティソ"}, Value: "TISSOT"},
	{Keywords: []string{"hamilton", "ハミルトン"}, Value: "HAMILTON"},
	{Keywords: []string{"louis vuitton", "ルイヴィトン", "ヴィトン"}, Value: "LOUIS VUITTON"},
	{Keywords: []string{"gucci", "グッチ"}, Value: "GUCCI"},
	{Keywords: []string{"chanel", "シャネル"}, Value: "CHANEL"},
	{Keywords: []string{"hermes", "エルメス"}, Value: "HERMES"},
	{Keywords: []string{"prada", "プラダ"}, Value: "PRADA"},
	{Keywords: []string{"coach", "コーチ"}, Value: "COACH"},
	{Keywords: []string{"good smile", "グッドスマイル"}, Value: "Good Smile Company"},
	{Keywords: []string{"kotobukiya", "コトブキヤ"}, Value: "KOTOBUKIYA"},
	{Keywords: []string{"bandai", "バンダイ"}, Value: "BANDAI"},
	{Keywords: []string{"canon", "キヤノン", "キャノン"}, Value: "CANON"},
	{Keywords: []string{"nikon", "ニコン"}, Value: "NIKON"},
	{Keywords: []string{"fujifilm", "富士フイルム"}, Value: "FUJIFILM"},
	{Keywords: []string{"olympus", "オリンパス"}, Value: "OLYMPUS"},
	{Keywords: []string{"sony", "ソニー"}, Value: "SONY"},
	{Keywords: []string{"nike", "ナイキ"}, Value: "NIKE"},
	{Keywords: []string{"adidas", "アディダス"}, Value: "ADIDAS"},
}

var colorDictionary = []keywordEntry{
	{Keywords: []string{"ブラック", "黒", "black"}, Value: "Black"},
	{Keywords: []string{"ホワイト", "白", "white"}, Value: "White"},
	{Keywords: []string{"レッド", "赤", "red"}, Value: "Red"},
	{Keywords: []string{"ブルー", "青", "blue"}, Value: "Blue"},
	{Keywords: []string{"グリーン", "緑", "green"}, Value: "Green"},
	{Keywords: []string{"イエロー", "黄色", "yellow"}, Value: "Yellow"},
	{Keywords: []string{"ピンク", "pink"}, Value: "Pink"},
	{Keywords: []string{"パープル", "紫", "purple"}, Value: "Purple"},
	{Keywords: []string{"ブラウン", "茶色", "brown"}, Value: "Brown"},
	{Keywords: []string{"グレー", "灰色", "gray", "grey"}, Value: "Gray"},
	{Keywords: []string{"シルバー", "銀色", "silver"}, Value: "Silver"},
	{Keywords: []string{"ゴールド", "金色", "gold"}, Value: "Gold"},
	{Keywords: []string{"ネイビー", "紺", "navy"}, Value: "Navy"},
	{Keywords: []string{"ベージュ", "beige"}, Value: "Beige"},
}

// conditionDictionary: the like-new phrases contain 未使用, so they must be
// scanned before the plain new-condition keywords.
var conditionDictionary = []keywordEntry{
	{Keywords: []string{"未使用に近い", "ほぼ新品", "ほぼ未使用", "like new"}, Value: string(ConditionLikeNew)},
	{Keywords: []string{"新品未使用", "新品", "未使用", "unused", "brand new"}, Value: string(ConditionNew)},
	{Keywords: []string{"美品", "良品", "good condition", "中古美品"}, Value: string(ConditionGood)},
	{Keywords: []string{"傷あり", "汚れあり", "難あり", "ジャンク", "junk", "as is"}, Value: string(ConditionFair)},
}

var materialDictionary = []keywordEntry{
	{Keywords: []string{"ステンレス", "stainless"}, Value: "Stainless Steel"},
	{Keywords: []string{"チタン", "titanium"}, Value: "Titanium"},
	{Keywords: []string{"レザー", "本革", "革", "leather"}, Value: "Leather"},
	{Keywords: []string{"コットン", "綿", "cotton"}, Value: "Cotton"},
	{Keywords: []string{"ウール", "wool"}, Value: "Wool"},
	{Keywords: []string{"シルク", "絹", "silk"}, Value: "Silk"},
	{Keywords: []string{"ポリエステル", "polyester"}, Value: "Polyester"},
	{Keywords: []string{"ナイロン", "nylon"}, Value: "Nylon"},
	{Keywords: []string{"デニム", "denim"}, Value: "Denim"},
	{Keywords: []string{"アルミ", "aluminum"}, Value: "Aluminum"},
	{Keywords: []string{"セラミック", "ceramic"}, Value: "Ceramic"},
	{Keywords: []string{"ガラス", "glass"}, Value: "Glass"},
	{Keywords: []string{"陶器", "porcelain"}, Value: "Porcelain"},
	{Keywords: []string{"木製", "ウッド", "wood"}, Value: "Wood"},
	{Keywords: []string{"プラスチック", "plastic"}, Value: "Plastic"},
}

// sizePatterns are tried in order; the first capture group of the first
// matching pattern becomes the size.
var sizePatterns = []*regexp.Regexp{
	regexp.MustCompile(`size[:：]?\s*([0-9]+(?:\.[0-9]+)?(?:cm|mm)?|xxl|xl|xs|s|m|l)\b`),
	regexp.MustCompile(`サイズ[:：]?\s*([0-9]+(?:\.[0-9]+)?(?:cm|mm)?|xxl|xl|xs|s|m|l)`),
	regexp.MustCompile(`\b(xxl|xl|xs|[sml])サイズ`),
	regexp.MustCompile(`([0-9]+(?:\.[0-9]+)?\s*(?:cm|mm|インチ|inch))`),
}

var categoryKeywordDictionary = []keywordEntry{
	{Keywords: []string{"腕時計", "時計", "watch"}, Value: "腕時計"},
	{Keywords: []string{"フィギュア", "フィギア", "figure"}, Value: "フィギュア"},
	{Keywords: []string{"ポケモンカード", "ポケカ"}, Value: "ポケモンカード"},
	{Keywords: []string{"遊戯王"}, Value: "遊戯王カード"},
	{Keywords: []string{"トレカ", "トレーディングカード"}, Value: "トレーディングカード"},
	{Keywords: []string{"ゲームソフト", "ゲーム", "game"}, Value: "ゲームソフト"},
	{Keywords: []string{"カメラ", "camera"}, Value: "カメラ"},
	{Keywords: []string{"レンズ", "lens"}, Value: "レンズ"},
	{Keywords: []string{"バッグ", "鞄", "かばん"}, Value: "バッグ"},
	{Keywords: []string{"財布", "wallet"}, Value: "財布"},
	{Keywords: []string{"スニーカー", "シューズ", "靴"}, Value: "靴"},
	{Keywords: []string{"ガンプラ"}, Value: "ガンプラ"},
	{Keywords: []string{"プラモデル", "プラモ"}, Value: "プラモデル"},
	{Keywords: []string{"ギター", "guitar"}, Value: "ギター"},
	{Keywords: []string{"ネックレス", "necklace"}, Value: "ネックレス"},
	{Keywords: []string{"指輪", "リング"}, Value: "指輪"},
}

// ExtractAttributes pulls structured attributes from the listing text using
// the keyword dictionaries. The category falls back to sourceCategory when
// no keyword matches. Confidence grows with the number of populated fields:
// 0.3 base plus 0.1 each, capped at 0.9.
func ExtractAttributes(title, description, sourceCategory string) ExtractedAttributes {
	text := normalizeText(title + " " + description)

	attrs := ExtractedAttributes{
		Brand:    matchDictionary(brandDictionary, text),
		Color:    matchDictionary(colorDictionary, text),
		Material: matchDictionary(materialDictionary, text),
		Size:     matchSize(text),
		Category: matchDictionary(categoryKeywordDictionary, text),
	}
	if cond := matchDictionary(conditionDictionary, text); cond != "" {
		attrs.Condition = Condition(cond)
	}
	if attrs.Category == "" {
		attrs.Category = sourceCategory
	}
	attrs.ItemSpecifics = attrs.scalarSpecifics()

	populated := 0
	for _, v := range []string{attrs.Brand, attrs.Color, attrs.Material, attrs.Size, string(attrs.Condition), attrs.Category} {
		if v != "" {
			populated++
		}
	}
	attrs.Confidence = 0.3 + 0.1*float64(populated)
	if attrs.Confidence > 0.9 {
		attrs.Confidence = 0.9
	}
	return attrs
}

// MergeAttributes overlays AI-extracted attributes on the rule-based ones.
// Each scalar takes the AI value when present, otherwise the rule value.
// Confidence is taken wholesale from the AI result when one exists; partial
// AI results do not blend confidences.
func MergeAttributes(ai *ExtractedAttributes, rule ExtractedAttributes) ExtractedAttributes {
	if ai == nil {
		return rule
	}
	merged := rule
	if ai.Brand != "" {
		merged.Brand = ai.Brand
	}
	if ai.Model != "" {
		merged.Model = ai.Model
	}
	if ai.Color != "" {
		merged.Color = ai.Color
	}
	if ai.Size != "" {
		merged.Size = ai.Size
	}
	if ai.Material != "" {
		merged.Material = ai.Material
	}
	if ai.Condition != "" {
		merged.Condition = ai.Condition
	}
	if ai.Category != "" {
		merged.Category = ai.Category
	}
	if ai.Weight != "" {
		merged.Weight = ai.Weight
	}
	if ai.Year != "" {
		merged.Year = ai.Year
	}
	if ai.Gender != "" {
		merged.Gender = ai.Gender
	}
	if len(rule.ItemSpecifics) > 0 || len(ai.ItemSpecifics) > 0 {
		specifics := make(map[string]string, len(rule.ItemSpecifics)+len(ai.ItemSpecifics))
		for k, v := range rule.ItemSpecifics {
			specifics[k] = v
		}
		// AI entries win on key collision.
		for k, v := range ai.ItemSpecifics {
			specifics[k] = v
		}
		merged.ItemSpecifics = specifics
	}
	if ai.Confidence > 0 {
		merged.Confidence = clamp01(ai.Confidence)
	}
	return merged
}

func matchDictionary(dict []keywordEntry, text string) string {
	for _, entry := range dict {
		for _, kw := range entry.Keywords {
			if strings.Contains(text, normalizeText(kw)) {
				return entry.Value
			}
		}
	}
	return ""
}

func matchSize(text string) string {
	for _, pattern := range sizePatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

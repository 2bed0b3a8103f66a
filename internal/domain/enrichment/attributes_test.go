package enrichment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractAttributes(t *testing.T) {
	attrs := ExtractAttributes("SEIKO 腕時計 ブラック 新品", "ステンレス ケース", "")

	assert.Equal(t, "SEIKO", attrs.Brand)
	assert.Equal(t, "Black", attrs.Color)
	assert.Equal(t, ConditionNew, attrs.Condition)
	assert.Equal(t, "Stainless Steel", attrs.Material)
	assert.Equal(t, "腕時計", attrs.Category)
	assert.Empty(t, attrs.Size)
	// five populated fields: 0.3 + 5*0.1
	assert.InDelta(t, 0.8, attrs.Confidence, 1e-9)
}

func TestExtractAttributesConfidenceCap(t *testing.T) {
	attrs := ExtractAttributes("SEIKO 腕時計 ブラック 新品 ステンレス Lサイズ", "", "")

	assert.Equal(t, "l", attrs.Size)
	assert.InDelta(t, 0.9, attrs.Confidence, 1e-9)
}

func TestExtractAttributesCategoryFallback(t *testing.T) {
	attrs := ExtractAttributes("ノーブランド雑貨", "", "キッチン用品")

	assert.Equal(t, "キッチン用品", attrs.Category)
	assert.InDelta(t, 0.4, attrs.Confidence, 1e-9)
}

func TestExtractAttributesConditionOrdering(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected Condition
	}{
		{"like-new phrase wins over its 未使用 substring", "未使用に近い 美品", ConditionLikeNew},
		{"plain new", "新品未開封", ConditionNew},
		{"good", "中古美品です", ConditionGood},
		{"fair", "傷あり 動作未確認", ConditionFair},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attrs := ExtractAttributes(tt.text, "", "")
			assert.Equal(t, tt.expected, attrs.Condition)
		})
	}
}

func TestExtractAttributesSizePatterns(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{"latin size prefix", "Tシャツ size: M 美品", "m"},
		{"japanese size prefix", "スカート サイズ：64cm", "64cm"},
		{"size suffix", "パーカー XLサイズ", "xl"},
		{"dimension with unit", "フィギュア 全高25cm", "25cm"},
		{"no size", "腕時計 自動巻き", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attrs := ExtractAttributes(tt.text, "", "")
			assert.Equal(t, tt.expected, attrs.Size)
		})
	}
}

func TestExtractAttributesFoldsFullWidthText(t *testing.T) {
	// Full-width latin brand name still matches the dictionary.
	attrs := ExtractAttributes("ＳＥＩＫＯ クロノグラフ", "", "")
	assert.Equal(t, "SEIKO", attrs.Brand)
}

func TestExtractAttributesBuildsItemSpecifics(t *testing.T) {
	attrs := ExtractAttributes("SEIKO 腕時計 ブラック ステンレス size: 40mm", "未使用に近い", "")

	assert.Equal(t, "SEIKO", attrs.ItemSpecifics["Brand"])
	assert.Equal(t, "Black", attrs.ItemSpecifics["Color"])
	assert.Equal(t, "Stainless Steel", attrs.ItemSpecifics["Material"])
	assert.Equal(t, "40mm", attrs.ItemSpecifics["Size"])
	assert.Equal(t, "Like New", attrs.ItemSpecifics["Condition"])
}

func TestItemSpecificsSkipEmptyFields(t *testing.T) {
	attrs := ExtractAttributes("カシオ 電卓", "", "")

	assert.Equal(t, map[string]string{"Brand": "CASIO"}, attrs.ItemSpecifics)
}

func TestMergeAttributes(t *testing.T) {
	rule := ExtractedAttributes{
		Brand:      "SEIKO",
		Color:      "Black",
		Category:   "腕時計",
		Confidence: 0.8,
	}

	t.Run("nil AI result keeps rule output", func(t *testing.T) {
		assert.Equal(t, rule, MergeAttributes(nil, rule))
	})

	t.Run("AI scalar wins when present", func(t *testing.T) {
		ai := &ExtractedAttributes{Color: "Silver", Model: "SNK809", Confidence: 0.95}

		merged := MergeAttributes(ai, rule)

		assert.Equal(t, "SEIKO", merged.Brand)
		assert.Equal(t, "Silver", merged.Color)
		assert.Equal(t, "SNK809", merged.Model)
		assert.Equal(t, "腕時計", merged.Category)
		assert.InDelta(t, 0.95, merged.Confidence, 1e-9)
	})

	t.Run("AI confidence replaces rule confidence wholesale", func(t *testing.T) {
		ai := &ExtractedAttributes{Confidence: 0.5}

		merged := MergeAttributes(ai, rule)

		assert.InDelta(t, 0.5, merged.Confidence, 1e-9)
	})

	t.Run("missing AI confidence keeps rule confidence", func(t *testing.T) {
		ai := &ExtractedAttributes{Brand: "CITIZEN"}

		merged := MergeAttributes(ai, rule)

		assert.Equal(t, "CITIZEN", merged.Brand)
		assert.InDelta(t, 0.8, merged.Confidence, 1e-9)
	})

	t.Run("out of range AI confidence is clamped", func(t *testing.T) {
		ai := &ExtractedAttributes{Confidence: 2.0}

		assert.Equal(t, 1.0, MergeAttributes(ai, rule).Confidence)
	})

	t.Run("item specifics union with AI winning collisions", func(t *testing.T) {
		withSpecifics := rule
		withSpecifics.ItemSpecifics = map[string]string{"Brand": "SEIKO", "Color": "Black"}
		ai := &ExtractedAttributes{
			ItemSpecifics: map[string]string{"Type": "Nendoroid", "Color": "Silver"},
		}

		merged := MergeAttributes(ai, withSpecifics)

		assert.Equal(t, map[string]string{
			"Brand": "SEIKO",
			"Color": "Silver",
			"Type":  "Nendoroid",
		}, merged.ItemSpecifics)
	})

	t.Run("rule specifics survive an AI result without any", func(t *testing.T) {
		withSpecifics := rule
		withSpecifics.ItemSpecifics = map[string]string{"Brand": "SEIKO"}

		merged := MergeAttributes(&ExtractedAttributes{Model: "SNK809"}, withSpecifics)

		assert.Equal(t, map[string]string{"Brand": "SEIKO"}, merged.ItemSpecifics)
	})
}

package ai

import (
	"strings"

	"github.com/rakuda/backend/internal/domain/enrichment"
)

const maxDescriptionRunes = 500

// buildCategoryPrompt asks the model to pick one taxonomy category for a
// listing. The reply must be a JSON object.
func buildCategoryPrompt(title, description string) string {
	var b strings.Builder
	b.WriteString("あなたは越境EC出品のカテゴリ分類エキスパートです。\n\n")
	b.WriteString("以下の商品情報を分析し、最も適切なカテゴリを選択してください。\n\n")
	b.WriteString("商品タイトル: ")
	b.WriteString(title)
	b.WriteString("\n商品説明: ")
	b.WriteString(truncateRunes(description, maxDescriptionRunes))
	b.WriteString("\n\n利用可能なカテゴリ:\n")
	b.WriteString(categoryList())
	b.WriteString("\n\n回答はJSON形式で返してください:\n")
	b.WriteString(`{
  "category": "選択したカテゴリ名（上記リストから選択。該当なしの場合はnull）",
  "confidence": 0.0,
  "reasoning": "選択理由の簡潔な説明"
}`)
	return b.String()
}

// buildEnrichmentPrompt asks for translations, attributes and a compliance
// judgement in a single JSON reply.
func buildEnrichmentPrompt(title, description, category string) string {
	var b strings.Builder
	b.WriteString("あなたは越境EC商品データの専門家です。\n")
	b.WriteString("以下の日本語商品情報を分析し、JSON形式で出力してください。\n\n")
	b.WriteString("【入力】\nタイトル: ")
	b.WriteString(title)
	b.WriteString("\n説明文: ")
	b.WriteString(truncateRunes(description, maxDescriptionRunes))
	b.WriteString("\nカテゴリ: ")
	b.WriteString(category)
	b.WriteString("\n\n【出力形式】\n")
	b.WriteString(`{
  "translations": {
    "en": { "title": "英語タイトル", "description": "英語説明文" },
    "ru": { "title": "ロシア語タイトル", "description": "ロシア語説明文" }
  },
  "attributes": {
    "brand": "ブランド名（英語）",
    "model": "型番",
    "color": "色（英語）",
    "size": "サイズ",
    "material": "素材（英語）",
    "condition": "new|like_new|good|fair",
    "category": "カテゴリ",
    "weight": "重量",
    "year": "年式",
    "gender": "対象（英語）",
    "itemSpecifics": { "項目名（英語）": "値（英語）" },
    "confidence": 0.0
  },
  "validation": {
    "status": "approved|review_required|rejected",
    "flags": ["検出したフラグ"],
    "reviewNotes": "問題がある場合のみ記載",
    "riskScore": 0
  }
}`)
	b.WriteString("\n\n【翻訳のルール】\n")
	b.WriteString("- 商品説明として自然で魅力的な表現にする\n")
	b.WriteString("- 専門用語は正確に翻訳する\n")
	b.WriteString("- ブランド名は翻訳しない\n\n")
	b.WriteString("【属性抽出のルール】\n")
	b.WriteString("- 元データから確実に推測できるもののみ抽出\n")
	b.WriteString("- 不明な場合は空文字にする\n")
	b.WriteString("- itemSpecificsには上記項目に収まらない特記事項（Type、Seriesなど）を入れる\n")
	b.WriteString("- confidenceは抽出の確信度（0.0-1.0）\n\n")
	b.WriteString("【検証のルール】\n")
	b.WriteString("- 禁制品（武器、リチウム電池、ワシントン条約対象、危険物、成人向け）はrejected\n")
	b.WriteString("- 疑わしい商品（偽ブランドの疑い、医薬品、食品、化粧品）はreview_required\n")
	return b.String()
}

func categoryList() string {
	defs := enrichment.AllCategories()
	keys := make([]string, len(defs))
	for i, def := range defs {
		keys[i] = def.Key
	}
	return strings.Join(keys, ", ")
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

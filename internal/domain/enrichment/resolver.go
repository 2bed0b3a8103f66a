package enrichment

import (
	"context"
	"sort"
	"strings"
)

// MappingSource identifies which resolution stage produced a mapping.
type MappingSource string

const (
	SourceExact    MappingSource = "exact"
	SourceAlias    MappingSource = "alias"
	SourceFuzzy    MappingSource = "fuzzy"
	SourceAI       MappingSource = "ai"
	SourceFallback MappingSource = "fallback"
)

// MappingResult is the outcome of mapping a source category to the
// marketplace taxonomy.
type MappingResult struct {
	CategoryID    string              `json:"categoryId"`
	CategoryName  string              `json:"categoryName"`
	CategoryPath  string              `json:"categoryPath"`
	Confidence    float64             `json:"confidence"`
	Source        MappingSource       `json:"source"`
	ItemSpecifics map[string][]string `json:"itemSpecifics,omitempty"`
}

// CategorySuggestion is one ranked candidate from SuggestCategories.
type CategorySuggestion struct {
	Category   string  `json:"category"`
	CategoryID string  `json:"categoryId"`
	Similarity float64 `json:"similarity"`
}

const fuzzyThreshold = 0.6

// Resolver maps Japanese source categories to marketplace categories.
// The classifier is optional; with a nil classifier the AI stage is skipped.
type Resolver struct {
	classifier Classifier
}

// NewResolver creates a resolver. classifier may be nil.
func NewResolver(classifier Classifier) *Resolver {
	return &Resolver{classifier: classifier}
}

// Resolve maps a listing to a marketplace category. Stages run in strict
// order and the first hit wins: exact key match, alias match, keyword
// inference over the listing text, fuzzy similarity on the source category,
// AI inference, fallback.
func (r *Resolver) Resolve(ctx context.Context, sourceCategory, title, description string, useAI bool) MappingResult {
	// 1. Exact key match.
	if sourceCategory != "" {
		if def, ok := LookupCategory(sourceCategory); ok {
			return mappingFrom(def, 1.0, SourceExact)
		}
	}

	// 2. Alias match on the source category.
	if sourceCategory != "" {
		for _, entry := range categoryAliases {
			for _, alias := range entry.Aliases {
				if strings.EqualFold(alias, sourceCategory) {
					if def, ok := LookupCategory(entry.Category); ok {
						return mappingFrom(def, 0.9, SourceAlias)
					}
				}
			}
		}
	}

	// 3. Keyword inference over title and description.
	if key, confidence, ok := inferCategoryFromText(title, description); ok {
		if def, found := LookupCategory(key); found {
			return mappingFrom(def, confidence, SourceFuzzy)
		}
	}

	// 4. Fuzzy similarity against category names and aliases.
	if sourceCategory != "" {
		if key, sim, ok := fuzzyMatchCategory(sourceCategory); ok {
			if def, found := LookupCategory(key); found {
				return mappingFrom(def, sim*0.8, SourceFuzzy)
			}
		}
	}

	// 5. AI inference, only when requested and a classifier is wired in.
	if useAI && r.classifier != nil {
		if inference, err := r.classifier.InferCategory(ctx, title, description); err == nil {
			if def, ok := LookupCategory(inference.Category); ok {
				return mappingFrom(def, clamp01(inference.Confidence), SourceAI)
			}
		}
	}

	// 6. Fallback.
	return mappingFrom(FallbackCategory, 0.1, SourceFallback)
}

// inferCategoryFromText scans the listing text for brand hints, verbatim
// category names and alias tokens, in that priority order.
func inferCategoryFromText(title, description string) (category string, confidence float64, ok bool) {
	text := normalizeText(title + " " + description)

	for _, hint := range brandHints {
		if strings.Contains(text, normalizeText(hint.Brand)) {
			return hint.Category, 0.7, true
		}
	}
	for _, def := range categoryTable {
		if strings.Contains(text, normalizeText(def.Key)) {
			return def.Key, 0.9, true
		}
	}
	for _, entry := range categoryAliases {
		for _, alias := range entry.Aliases {
			if strings.Contains(text, normalizeText(alias)) {
				return entry.Category, 0.75, true
			}
		}
	}
	return "", 0, false
}

// fuzzyMatchCategory finds the closest category for a free-form query.
// Alias similarities are discounted so a direct name match of equal
// similarity always wins.
func fuzzyMatchCategory(query string) (category string, similarity float64, ok bool) {
	best := ""
	bestSim := 0.0

	for _, def := range categoryTable {
		if sim := Similarity(query, def.Key); sim >= fuzzyThreshold && sim > bestSim {
			best, bestSim = def.Key, sim
		}
	}
	for _, entry := range categoryAliases {
		for _, alias := range entry.Aliases {
			if sim := Similarity(query, alias) * 0.9; sim >= fuzzyThreshold && sim > bestSim {
				best, bestSim = entry.Category, sim
			}
		}
	}
	if best == "" {
		return "", 0, false
	}
	return best, bestSim, true
}

// SuggestCategories ranks taxonomy candidates for a free-form query.
// Category names match above 0.3, aliases above 0.4 with a 0.9 discount.
// Duplicated marketplace ids keep their first occurrence.
func SuggestCategories(query string, limit int) []CategorySuggestion {
	results := make([]CategorySuggestion, 0, limit)
	seen := make(map[string]bool)

	add := func(category, id string, sim float64) {
		if seen[id] {
			return
		}
		seen[id] = true
		results = append(results, CategorySuggestion{Category: category, CategoryID: id, Similarity: sim})
	}

	for _, def := range categoryTable {
		if sim := Similarity(query, def.Key); sim > 0.3 {
			add(def.Key, def.ID, sim)
		}
	}
	for _, entry := range categoryAliases {
		def, ok := LookupCategory(entry.Category)
		if !ok {
			continue
		}
		for _, alias := range entry.Aliases {
			if sim := Similarity(query, alias); sim > 0.4 {
				add(def.Key, def.ID, sim*0.9)
			}
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

func mappingFrom(def CategoryDefinition, confidence float64, source MappingSource) MappingResult {
	return MappingResult{
		CategoryID:    def.ID,
		CategoryName:  def.Name,
		CategoryPath:  def.Path,
		Confidence:    confidence,
		Source:        source,
		ItemSpecifics: def.ItemSpecifics,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

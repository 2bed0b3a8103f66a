package enrichment

import (
	"context"
	"time"
)

// CategoryInference is a classifier's opinion on the best category for a
// listing. Category is a Japanese source category name; callers must verify
// it against the taxonomy before trusting it.
type CategoryInference struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// TranslatedText is a translated title/description pair.
type TranslatedText struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Translations holds the target-marketplace translations of a listing.
type Translations struct {
	EN TranslatedText `json:"en"`
	RU TranslatedText `json:"ru"`
}

// ListingValidation is the classifier's compliance judgement on a listing.
type ListingValidation struct {
	Status      ValidationStatus `json:"status"`
	Flags       []string         `json:"flags"`
	ReviewNotes string           `json:"reviewNotes"`
	RiskScore   int              `json:"riskScore"`
}

// ListingEnrichment is the combined classifier response: translations,
// extracted attributes and a compliance judgement from a single call.
// Attributes and Validation are nil when the classifier omitted them.
type ListingEnrichment struct {
	Translations Translations         `json:"translations"`
	Attributes   *ExtractedAttributes `json:"attributes"`
	Validation   *ListingValidation   `json:"validation"`
	TokensUsed   int                  `json:"tokensUsed"`
}

// Classifier is the optional AI collaborator. Implementations are expected
// to honor ctx cancellation; any error is treated as "AI unavailable" by
// callers and never fails the overall operation. A nil Classifier means
// rule-only operation.
type Classifier interface {
	// InferCategory picks the best source category for a listing.
	InferCategory(ctx context.Context, title, description string) (CategoryInference, error)

	// EnrichListing translates, extracts attributes and validates a listing
	// in one call.
	EnrichListing(ctx context.Context, title, description, category string) (*ListingEnrichment, error)
}

// EnrichmentResult is the full outcome of enriching one listing.
type EnrichmentResult struct {
	Translations   Translations        `json:"translations"`
	Attributes     ExtractedAttributes `json:"attributes"`
	Validation     ValidationResult    `json:"validation"`
	TokensUsed     int                 `json:"tokensUsed"`
	ProcessingTime time.Duration       `json:"processingTime"`
}

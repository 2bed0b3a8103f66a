package enrichment

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/rakuda/backend/internal/domain/enrichment"
	"github.com/rakuda/backend/internal/domain/shared"
)

// ResultCache caches combined classifier responses so identical listings
// skip the AI call. Implementations swallow backend errors and report a
// miss instead; the pipeline must keep working without the cache.
type ResultCache interface {
	Get(ctx context.Context, title, description, category string) (*enrichment.ListingEnrichment, bool)
	Set(ctx context.Context, title, description, category string, result *enrichment.ListingEnrichment)
}

// EnrichmentService orchestrates the listing enrichment pipeline: rule
// extraction and validation first, then an optional AI pass that can only
// refine the outcome, never fail it.
type EnrichmentService struct {
	resolver   *enrichment.Resolver
	classifier enrichment.Classifier
	cache      ResultCache
	logger     *zap.Logger

	enrichCounter    metric.Int64Counter
	rejectCounter    metric.Int64Counter
	aiFailureCounter metric.Int64Counter
}

// NewEnrichmentService creates the orchestrator. classifier and cache are
// optional; with a nil classifier the service runs rule-only.
func NewEnrichmentService(classifier enrichment.Classifier, cache ResultCache, logger *zap.Logger) *EnrichmentService {
	meter := otel.Meter("enrichment")
	enrichCounter, _ := meter.Int64Counter("enrichment.listings.processed",
		metric.WithDescription("Listings run through the enrichment pipeline"))
	rejectCounter, _ := meter.Int64Counter("enrichment.listings.rejected",
		metric.WithDescription("Listings rejected by the content validator"))
	aiFailureCounter, _ := meter.Int64Counter("enrichment.ai.failures",
		metric.WithDescription("AI enrichment calls that fell back to rule-only output"))

	return &EnrichmentService{
		resolver:         enrichment.NewResolver(classifier),
		classifier:       classifier,
		cache:            cache,
		logger:           logger,
		enrichCounter:    enrichCounter,
		rejectCounter:    rejectCounter,
		aiFailureCounter: aiFailureCounter,
	}
}

// EnrichProduct runs the full pipeline on one listing. It never returns an
// error: rule output is always available, and AI problems degrade to it.
func (s *EnrichmentService) EnrichProduct(ctx context.Context, title, description, category string) *enrichment.EnrichmentResult {
	start := time.Now()
	s.enrichCounter.Add(ctx, 1)

	attrs := enrichment.ExtractAttributes(title, description, category)
	validation := enrichment.ValidateContent(title, description, category)

	result := &enrichment.EnrichmentResult{
		Translations: placeholderTranslations(title, description),
		Attributes:   attrs,
		Validation:   validation,
	}

	// Prohibited listings never reach the classifier.
	if validation.IsProhibited() {
		s.rejectCounter.Add(ctx, 1)
		s.logger.Warn("listing rejected by content validator",
			zap.Strings("flags", validation.Flags),
			zap.Int("risk_score", validation.RiskScore))
		result.ProcessingTime = time.Since(start)
		return result
	}

	if s.classifier != nil {
		ai, err := s.classify(ctx, title, description, category)
		if err != nil {
			s.aiFailureCounter.Add(ctx, 1)
			s.logger.Warn("AI enrichment unavailable, using rule-only output", zap.Error(err))
		} else {
			result.Attributes = enrichment.MergeAttributes(ai.Attributes, attrs)
			result.Validation = enrichment.MergeValidation(ai.Validation, validation)
			if ai.Translations != (enrichment.Translations{}) {
				result.Translations = ai.Translations
			}
			result.TokensUsed = ai.TokensUsed
			if result.Validation.IsProhibited() {
				s.rejectCounter.Add(ctx, 1)
			}
		}
	}

	result.ProcessingTime = time.Since(start)
	return result
}

// QuickValidate runs only the rule validator, for cheap pre-screening.
func (s *EnrichmentService) QuickValidate(title, description, category string) QuickValidationResult {
	validation := enrichment.ValidateContent(title, description, category)
	return QuickValidationResult{
		CanProcess: !validation.IsProhibited(),
		Flags:      validation.Flags,
	}
}

// ValidateContent exposes the full rule validator verdict.
func (s *EnrichmentService) ValidateContent(title, description, category string) enrichment.ValidationResult {
	return enrichment.ValidateContent(title, description, category)
}

// ResolveCategory maps a listing to the marketplace taxonomy.
func (s *EnrichmentService) ResolveCategory(ctx context.Context, req ResolveCategoryRequest) enrichment.MappingResult {
	return s.resolver.Resolve(ctx, req.SourceCategory, req.Title, req.Description, req.UseAI)
}

// SuggestCategories ranks taxonomy candidates for a free-form query.
func (s *EnrichmentService) SuggestCategories(query string, limit int) []enrichment.CategorySuggestion {
	return enrichment.SuggestCategories(query, limit)
}

// Categories returns the full taxonomy.
func (s *EnrichmentService) Categories() []enrichment.CategoryDefinition {
	return enrichment.AllCategories()
}

// ItemSpecifics returns the item-specific defaults for a marketplace
// category id.
func (s *EnrichmentService) ItemSpecifics(categoryID string) (map[string][]string, error) {
	specifics, ok := enrichment.ItemSpecificsFor(categoryID)
	if !ok {
		return nil, shared.ErrNotFound
	}
	if specifics == nil {
		specifics = map[string][]string{}
	}
	return specifics, nil
}

// Flags returns the validation flag catalog.
func (s *EnrichmentService) Flags() map[string]string {
	return enrichment.AllFlags()
}

// FlagDescription looks up one validation flag.
func (s *EnrichmentService) FlagDescription(flag string) (string, error) {
	desc, ok := enrichment.FlagDescription(flag)
	if !ok {
		return "", shared.ErrNotFound
	}
	return desc, nil
}

// classify fetches the combined AI enrichment, going through the cache
// when one is wired in.
func (s *EnrichmentService) classify(ctx context.Context, title, description, category string) (*enrichment.ListingEnrichment, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, title, description, category); ok {
			s.logger.Debug("AI enrichment cache hit")
			return cached, nil
		}
	}

	result, err := s.classifier.EnrichListing(ctx, title, description, category)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, shared.NewDomainError("EMPTY_AI_RESPONSE", "Classifier returned no result")
	}

	if s.cache != nil {
		s.cache.Set(ctx, title, description, category, result)
	}
	return result, nil
}

// placeholderTranslations echoes the source text until a real translation
// exists, so downstream consumers always see a populated structure.
func placeholderTranslations(title, description string) enrichment.Translations {
	text := enrichment.TranslatedText{Title: title, Description: description}
	return enrichment.Translations{EN: text, RU: text}
}

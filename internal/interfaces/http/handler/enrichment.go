package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	enrichapp "github.com/rakuda/backend/internal/application/enrichment"
)

// EnrichmentHandler handles listing enrichment API endpoints
type EnrichmentHandler struct {
	BaseHandler
	enrichmentService *enrichapp.EnrichmentService
	pricingService    *enrichapp.PricingService
}

// NewEnrichmentHandler creates a new EnrichmentHandler
func NewEnrichmentHandler(enrichmentService *enrichapp.EnrichmentService, pricingService *enrichapp.PricingService) *EnrichmentHandler {
	return &EnrichmentHandler{
		enrichmentService: enrichmentService,
		pricingService:    pricingService,
	}
}

// RegisterRoutes registers enrichment routes
func (h *EnrichmentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	enrich := rg.Group("/enrichment")
	{
		enrich.POST("/enrich", h.Enrich)
		enrich.POST("/validate", h.Validate)
		enrich.POST("/validate/quick", h.QuickValidate)
		enrich.GET("/flags", h.Flags)
		enrich.GET("/flags/:flag", h.Flag)
		enrich.POST("/pricing/calculate", h.CalculatePrice)

		categories := enrich.Group("/categories")
		{
			categories.GET("", h.Categories)
			categories.GET("/suggest", h.SuggestCategories)
			categories.GET("/:id/item-specifics", h.ItemSpecifics)
			categories.POST("/resolve", h.ResolveCategory)
		}
	}
}

// Enrich runs a listing through the full enrichment pipeline
func (h *EnrichmentHandler) Enrich(c *gin.Context) {
	var req enrichapp.EnrichRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result := h.enrichmentService.EnrichProduct(c.Request.Context(), req.Title, req.Description, req.Category)
	h.Success(c, result)
}

// Validate runs the rule-based compliance scan
func (h *EnrichmentHandler) Validate(c *gin.Context) {
	var req enrichapp.ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result := h.enrichmentService.ValidateContent(req.Title, req.Description, req.Category)
	h.Success(c, result)
}

// QuickValidate answers whether a listing is worth processing at all
func (h *EnrichmentHandler) QuickValidate(c *gin.Context) {
	var req enrichapp.ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result := h.enrichmentService.QuickValidate(req.Title, req.Description, req.Category)
	h.Success(c, result)
}

// ResolveCategory maps a listing to the marketplace taxonomy
func (h *EnrichmentHandler) ResolveCategory(c *gin.Context) {
	var req enrichapp.ResolveCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result := h.enrichmentService.ResolveCategory(c.Request.Context(), req)
	h.Success(c, result)
}

// Categories returns the full marketplace taxonomy
func (h *EnrichmentHandler) Categories(c *gin.Context) {
	h.Success(c, h.enrichmentService.Categories())
}

// SuggestCategories ranks taxonomy candidates for a free-form query
func (h *EnrichmentHandler) SuggestCategories(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		h.BadRequest(c, "query parameter is required")
		return
	}

	limit := 5
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 50 {
			h.BadRequest(c, "limit must be an integer between 1 and 50")
			return
		}
		limit = parsed
	}

	h.Success(c, h.enrichmentService.SuggestCategories(query, limit))
}

// ItemSpecifics returns the item-specific defaults for a marketplace
// category ID
func (h *EnrichmentHandler) ItemSpecifics(c *gin.Context) {
	specifics, err := h.enrichmentService.ItemSpecifics(c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, specifics)
}

// Flags returns the validation flag catalog
func (h *EnrichmentHandler) Flags(c *gin.Context) {
	h.Success(c, h.enrichmentService.Flags())
}

// Flag looks up a single validation flag
func (h *EnrichmentHandler) Flag(c *gin.Context) {
	flag := c.Param("flag")
	description, err := h.enrichmentService.FlagDescription(flag)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"flag": flag, "description": description})
}

// CalculatePrice derives a USD listing price from a JPY cost
func (h *EnrichmentHandler) CalculatePrice(c *gin.Context) {
	var req enrichapp.CalculatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	breakdown, err := h.pricingService.Calculate(req.CostJPY)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, breakdown)
}

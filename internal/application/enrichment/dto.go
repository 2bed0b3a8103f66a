package enrichment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rakuda/backend/internal/domain/enrichment"
)

// EnrichRequest carries a listing through the enrichment pipeline.
type EnrichRequest struct {
	Title       string `json:"title" binding:"required,notblank,max=500"`
	Description string `json:"description" binding:"max=10000"`
	Category    string `json:"category" binding:"max=200"`
}

// ResolveCategoryRequest asks for a marketplace category mapping.
type ResolveCategoryRequest struct {
	SourceCategory string `json:"sourceCategory" binding:"max=200"`
	Title          string `json:"title" binding:"required,notblank,max=500"`
	Description    string `json:"description" binding:"max=10000"`
	UseAI          bool   `json:"useAI"`
}

// ValidateRequest asks for a compliance scan of listing text.
type ValidateRequest struct {
	Title       string `json:"title" binding:"required,notblank,max=500"`
	Description string `json:"description" binding:"max=10000"`
	Category    string `json:"category" binding:"max=200"`
}

// QuickValidationResult answers whether a listing is worth processing.
type QuickValidationResult struct {
	CanProcess bool     `json:"canProcess"`
	Flags      []string `json:"flags"`
}

// CreateTaskRequest queues a listing for enrichment.
type CreateTaskRequest struct {
	Title          string `json:"title" binding:"required,notblank,max=500"`
	Description    string `json:"description" binding:"max=10000"`
	SourceCategory string `json:"sourceCategory" binding:"max=200"`
	Priority       int    `json:"priority" binding:"min=0,max=100"`
}

// RejectTaskRequest declines a reviewed task.
type RejectTaskRequest struct {
	Reason string `json:"reason" binding:"max=1000"`
}

// TaskResponse is the API shape of an enrichment task.
type TaskResponse struct {
	ID             uuid.UUID                    `json:"id"`
	Title          string                       `json:"title"`
	Description    string                       `json:"description,omitempty"`
	SourceCategory string                       `json:"sourceCategory,omitempty"`
	Priority       int                          `json:"priority"`
	Status         enrichment.TaskStatus        `json:"status"`
	Result         *enrichment.EnrichmentResult `json:"result,omitempty"`
	ErrorCount     int                          `json:"errorCount"`
	LastError      string                       `json:"lastError,omitempty"`
	RejectReason   string                       `json:"rejectReason,omitempty"`
	DurationMS     int64                        `json:"durationMs"`
	CreatedAt      time.Time                    `json:"createdAt"`
	UpdatedAt      time.Time                    `json:"updatedAt"`
	StartedAt      *time.Time                   `json:"startedAt,omitempty"`
	CompletedAt    *time.Time                   `json:"completedAt,omitempty"`
}

// TaskStatsResponse aggregates task counts by status.
type TaskStatsResponse struct {
	Pending       int64 `json:"pending"`
	Processing    int64 `json:"processing"`
	Approved      int64 `json:"approved"`
	ReadyToReview int64 `json:"readyToReview"`
	Rejected      int64 `json:"rejected"`
	Failed        int64 `json:"failed"`
	Total         int64 `json:"total"`
}

// CalculatePriceRequest asks for a listing price from a JPY cost.
type CalculatePriceRequest struct {
	CostJPY decimal.Decimal `json:"costJpy" binding:"required"`
}

// PriceBreakdown itemizes how a listing price was derived.
type PriceBreakdown struct {
	CostJPY       decimal.Decimal `json:"costJpy"`
	CostUSD       decimal.Decimal `json:"costUsd"`
	ExchangeRate  decimal.Decimal `json:"exchangeRate"`
	ProfitRate    decimal.Decimal `json:"profitRate"`
	PlatformFee   decimal.Decimal `json:"platformFee"`
	PaymentFee    decimal.Decimal `json:"paymentFee"`
	ShippingCost  decimal.Decimal `json:"shippingCost"`
	FinalPriceUSD decimal.Decimal `json:"finalPriceUsd"`
}

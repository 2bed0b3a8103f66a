package enrichment

import (
	"github.com/shopspring/decimal"

	"github.com/rakuda/backend/internal/domain/shared"
)

// PricingConfig holds the cost model for cross-border listing prices.
// Rates are fractions (0.15 = 15%), ExchangeRate is JPY per USD.
type PricingConfig struct {
	ExchangeRate    decimal.Decimal
	BaseProfitRate  decimal.Decimal
	PlatformFeeRate decimal.Decimal
	PaymentFeeRate  decimal.Decimal
	ShippingCostUSD decimal.Decimal
}

// DefaultPricingConfig mirrors the operational defaults: 150 JPY/USD,
// 30% profit, 15% platform fee, 2.9% payment fee, $5 flat shipping.
func DefaultPricingConfig() PricingConfig {
	return PricingConfig{
		ExchangeRate:    decimal.NewFromInt(150),
		BaseProfitRate:  decimal.NewFromFloat(0.3),
		PlatformFeeRate: decimal.NewFromFloat(0.15),
		PaymentFeeRate:  decimal.NewFromFloat(0.029),
		ShippingCostUSD: decimal.NewFromInt(5),
	}
}

// PricingService derives USD listing prices from JPY acquisition costs.
type PricingService struct {
	config PricingConfig
}

// NewPricingService creates a pricing service with the given cost model.
func NewPricingService(config PricingConfig) *PricingService {
	return &PricingService{config: config}
}

// Calculate prices a listing. The fee rates apply to the fee-inclusive
// price, so the pre-shipping price is grossed up by 1/(1-fees); the final
// price is rounded up to the cent so fees never eat the margin.
func (s *PricingService) Calculate(costJPY decimal.Decimal) (PriceBreakdown, error) {
	if costJPY.IsNegative() || costJPY.IsZero() {
		return PriceBreakdown{}, shared.NewDomainError("INVALID_COST", "Cost must be a positive amount")
	}

	cfg := s.config
	feeRate := cfg.PlatformFeeRate.Add(cfg.PaymentFeeRate)
	if feeRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return PriceBreakdown{}, shared.NewDomainError("INVALID_FEE_RATE", "Combined fee rates must stay below 100%")
	}

	costUSD := costJPY.Div(cfg.ExchangeRate)
	basePrice := costUSD.Mul(decimal.NewFromInt(1).Add(cfg.BaseProfitRate))
	withFees := basePrice.Div(decimal.NewFromInt(1).Sub(feeRate))
	finalPrice := withFees.Add(cfg.ShippingCostUSD)

	return PriceBreakdown{
		CostJPY:       costJPY,
		CostUSD:       costUSD.Round(2),
		ExchangeRate:  cfg.ExchangeRate,
		ProfitRate:    cfg.BaseProfitRate,
		PlatformFee:   finalPrice.Mul(cfg.PlatformFeeRate).Round(2),
		PaymentFee:    finalPrice.Mul(cfg.PaymentFeeRate).Round(2),
		ShippingCost:  cfg.ShippingCostUSD,
		FinalPriceUSD: finalPrice.RoundCeil(2),
	}, nil
}

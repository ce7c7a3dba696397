// Package indicator computes indicator series from close prices.
// Every function is pure: it reads its input slice and returns a fresh, index-aligned output.
package indicator

import (
	"math"

	"github.com/rxtech-lab/argo-signal/internal/types"
	"github.com/rxtech-lab/argo-signal/pkg/errors"
)

// ClosePrices extracts the close price of every candle, preserving order.
func ClosePrices(candles []types.MarketData) []float64 {
	prices := make([]float64, len(candles))
	for i, candle := range candles {
		prices[i] = candle.Close
	}

	return prices
}

// checkFinite returns an ErrCodeIndicatorCalculation error naming the first NaN or infinite value.
func checkFinite(indicator types.IndicatorType, values []float64) error {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Newf(errors.ErrCodeIndicatorCalculation, "%s produced a non-finite value at index %d: %v", indicator, i, v)
		}
	}

	return nil
}

func validatePeriod(name string, period int) error {
	if period <= 0 {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "%s must be a positive integer, got %d", name, period)
	}

	return nil
}

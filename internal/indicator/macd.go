package indicator

import (
	"github.com/rxtech-lab/argo-signal/internal/types"
	"github.com/rxtech-lab/argo-signal/pkg/errors"
)

// MACDMinPoints is the number of prices MACD needs for the given periods.
func MACDMinPoints(slowPeriod, signalPeriod int) int {
	return slowPeriod + signalPeriod
}

// MACD computes the Moving Average Convergence Divergence lines of prices.
//
//	macd      = EMA(prices, fast) - EMA(prices, slow)
//	signal    = EMA(macd, signalPeriod)
//	histogram = macd - signal
//
// All three lines have one value per price. Fewer than slow+signal prices returns an
// empty series and an *errors.InsufficientDataError.
func MACD(prices []float64, fastPeriod, slowPeriod, signalPeriod int) (types.MACDSeries, error) {
	if err := validatePeriod("fastPeriod", fastPeriod); err != nil {
		return types.MACDSeries{}, err
	}

	if err := validatePeriod("slowPeriod", slowPeriod); err != nil {
		return types.MACDSeries{}, err
	}

	if err := validatePeriod("signalPeriod", signalPeriod); err != nil {
		return types.MACDSeries{}, err
	}

	required := MACDMinPoints(slowPeriod, signalPeriod)
	if len(prices) < required {
		return types.MACDSeries{}, errors.NewInsufficientDataErrorf(
			required, len(prices), "",
			"insufficient data for MACD(%d,%d,%d): required %d, got %d",
			fastPeriod, slowPeriod, signalPeriod, required, len(prices),
		)
	}

	fast, err := EMA(prices, fastPeriod)
	if err != nil {
		return types.MACDSeries{}, errors.Wrap(errors.ErrCodeIndicatorCalculation, "failed to calculate fast EMA", err)
	}

	slow, err := EMA(prices, slowPeriod)
	if err != nil {
		return types.MACDSeries{}, errors.Wrap(errors.ErrCodeIndicatorCalculation, "failed to calculate slow EMA", err)
	}

	macdLine := make([]float64, len(prices))
	for i := range prices {
		macdLine[i] = fast[i] - slow[i]
	}

	signalLine, err := EMA(macdLine, signalPeriod)
	if err != nil {
		return types.MACDSeries{}, errors.Wrap(errors.ErrCodeIndicatorCalculation, "failed to calculate signal line", err)
	}

	histogram := make([]float64, len(prices))
	for i := range prices {
		histogram[i] = macdLine[i] - signalLine[i]
	}

	if err := checkFinite(types.IndicatorTypeMACD, histogram); err != nil {
		return types.MACDSeries{}, err
	}

	return types.MACDSeries{
		MACD:      macdLine,
		Signal:    signalLine,
		Histogram: histogram,
	}, nil
}

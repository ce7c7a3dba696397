package indicator

import (
	"github.com/rxtech-lab/argo-signal/internal/types"
	"github.com/rxtech-lab/argo-signal/pkg/errors"
)

// RSIMinPoints is the number of prices RSI needs for the given period.
func RSIMinPoints(period int) int {
	return period + 2
}

// RSI computes the Relative Strength Index of prices using Wilder's smoothing.
//
// The first average gain and loss are the simple means of the first period price changes.
// Each later change updates them with avg = (avg*(period-1) + current) / period.
// The output has one value per price; indexes up to and including period carry the seed RSI.
//
// Fewer than period+2 prices returns an empty series and an *errors.InsufficientDataError.
func RSI(prices []float64, period int) (types.RSISeries, error) {
	if err := validatePeriod("period", period); err != nil {
		return nil, err
	}

	if len(prices) < RSIMinPoints(period) {
		return types.RSISeries{}, errors.NewInsufficientDataErrorf(
			RSIMinPoints(period), len(prices), "",
			"insufficient data for RSI(%d): required %d, got %d", period, RSIMinPoints(period), len(prices),
		)
	}

	out := make(types.RSISeries, len(prices))
	n := float64(period)

	avgGain, avgLoss := 0.0, 0.0
	for i := 1; i <= period; i++ {
		gain, loss := splitChange(prices[i] - prices[i-1])
		avgGain += gain
		avgLoss += loss
	}

	avgGain /= n
	avgLoss /= n

	seed := rsiFromAverages(avgGain, avgLoss)
	for i := 0; i <= period; i++ {
		out[i] = seed
	}

	for i := period + 1; i < len(prices); i++ {
		gain, loss := splitChange(prices[i] - prices[i-1])
		avgGain = (avgGain*(n-1) + gain) / n
		avgLoss = (avgLoss*(n-1) + loss) / n
		out[i] = rsiFromAverages(avgGain, avgLoss)
	}

	if err := checkFinite(types.IndicatorTypeRSI, out); err != nil {
		return nil, err
	}

	return out, nil
}

func splitChange(change float64) (gain float64, loss float64) {
	if change > 0 {
		return change, 0
	}

	return 0, -change
}

// rsiFromAverages maps the smoothed averages onto [0, 100].
// No losses means RS is infinite and RSI is 100, unless there were no gains either,
// in which case the market is flat and RSI is the neutral 50.
func rsiFromAverages(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			return 50
		}

		return 100
	}

	rs := avgGain / avgLoss

	return 100 - (100 / (1 + rs))
}

package indicator

import "github.com/rxtech-lab/argo-signal/internal/types"

// EMA returns the exponential moving average of values, one output per input.
//
// The first period outputs are the simple mean of the first period inputs. After that
// ema[i] = values[i]*k + ema[i-1]*(1-k) with k = 2/(period+1).
// When values is shorter than period every output is the mean of the whole input.
func EMA(values []float64, period int) ([]float64, error) {
	if err := validatePeriod("period", period); err != nil {
		return nil, err
	}

	out := make([]float64, len(values))
	if len(values) == 0 {
		return out, nil
	}

	seedLen := min(period, len(values))

	sma := 0.0
	for i := 0; i < seedLen; i++ {
		sma += values[i]
	}

	sma /= float64(seedLen)

	for i := 0; i < seedLen; i++ {
		out[i] = sma
	}

	k := 2.0 / float64(period+1)
	for i := seedLen; i < len(values); i++ {
		out[i] = values[i]*k + out[i-1]*(1-k)
	}

	if err := checkFinite(types.IndicatorTypeEMA, out); err != nil {
		return nil, err
	}

	return out, nil
}

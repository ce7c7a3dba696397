// Package detector decides whether an indicator crossed a threshold or another line
// between the last two points of a series.
package detector

import (
	"github.com/moznion/go-optional"
	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-signal/internal/logger"
	"github.com/rxtech-lab/argo-signal/internal/types"
)

// Detector holds no state besides its logger; every call looks only at the series it is given.
type Detector struct {
	logger *logger.Logger
}

// New creates a Detector. A nil logger discards output.
func New(log *logger.Logger) *Detector {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Detector{logger: log}
}

// CrossedBelow reports whether a value moved from at or above level to strictly below it.
func CrossedBelow(prev, curr, prevLevel, currLevel float64) bool {
	return prev >= prevLevel && curr < currLevel
}

// CrossedAbove reports whether a value moved from at or below level to strictly above it.
func CrossedAbove(prev, curr, prevLevel, currLevel float64) bool {
	return prev <= prevLevel && curr > currLevel
}

// RSI returns BUY when the last RSI value crossed into oversold territory and SELL when it
// crossed into overbought territory. Staying beyond a threshold does not fire again.
func (d *Detector) RSI(series types.RSISeries, oversold, overbought float64) optional.Option[types.SignalType] {
	prev, curr, ok := series.Last()
	if !ok {
		d.logger.Warn("RSI series too short for crossover detection", zap.Int("points", len(series)))

		return optional.None[types.SignalType]()
	}

	switch {
	case CrossedBelow(prev, curr, oversold, oversold):
		return optional.Some(types.SignalTypeBuy)
	case CrossedAbove(prev, curr, overbought, overbought):
		return optional.Some(types.SignalTypeSell)
	default:
		return optional.None[types.SignalType]()
	}
}

// MACD returns BUY on a bullish crossover of the MACD line over the signal line and SELL on a
// bearish one.
func (d *Detector) MACD(series types.MACDSeries) optional.Option[types.SignalType] {
	n := series.Len()
	if n < 2 {
		d.logger.Warn("MACD series too short for crossover detection",
			zap.Int("macd_points", len(series.MACD)),
			zap.Int("signal_points", len(series.Signal)))

		return optional.None[types.SignalType]()
	}

	prevMACD, currMACD := series.MACD[n-2], series.MACD[n-1]
	prevSignal, currSignal := series.Signal[n-2], series.Signal[n-1]

	switch {
	case CrossedAbove(prevMACD, currMACD, prevSignal, currSignal):
		return optional.Some(types.SignalTypeBuy)
	case CrossedBelow(prevMACD, currMACD, prevSignal, currSignal):
		return optional.Some(types.SignalTypeSell)
	default:
		return optional.None[types.SignalType]()
	}
}

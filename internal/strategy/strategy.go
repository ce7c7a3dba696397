// Package strategy turns candles into trading signals through a named, configurable strategy.
//
// Strategies form a closed set of variants registered in a Registry at startup. The Dispatcher
// holds exactly one active strategy and is the only entry point callers use.
package strategy

import (
	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-signal/internal/logger"
	"github.com/rxtech-lab/argo-signal/internal/types"
	"github.com/rxtech-lab/argo-signal/pkg/errors"
)

// Params is the raw configuration bag for one strategy, as read from YAML or JSON.
type Params map[string]any

// Strategy generates signals from a chronological candle sequence.
// Implementations hold only their configuration and must not keep state between calls.
type Strategy interface {
	// Name returns the registry name of the strategy
	Name() types.StrategyName
	// Config returns a copy of the decoded configuration
	Config() any
	// GenerateSignals evaluates the last two candles and returns zero or one signal.
	// Short input and numeric failures are logged and produce no signal.
	GenerateSignals(candles []types.MarketData) []types.Signal
}

// Factory builds a strategy from its configuration bag.
type Factory func(params Params, log *logger.Logger) (Strategy, error)

// logIndicatorFailure logs an indicator error at the level its kind deserves.
// Missing data is routine; anything else is a computation failure.
func logIndicatorFailure(log *logger.Logger, name types.StrategyName, candles []types.MarketData, err error) {
	fields := []zap.Field{
		zap.String("strategy", string(name)),
		zap.Int("candles", len(candles)),
		zap.Error(err),
	}

	if errors.IsInsufficientDataError(err) {
		log.Warn("Not enough candles for signal generation", fields...)

		return
	}

	log.Error("Indicator computation failed, no signal this cycle", fields...)
}

func newSignal(name types.StrategyName, indicator types.IndicatorType, signalType types.SignalType, candle types.MarketData, snapshot map[string]float64, reason string) types.Signal {
	return types.Signal{
		ID:        types.NewSignalID(name, candle.Symbol, signalType, candle.Time),
		Type:      signalType,
		Price:     candle.Close,
		Time:      candle.Time,
		Symbol:    candle.Symbol,
		Strategy:  name,
		Indicator: indicator,
		Snapshot:  snapshot,
		Reason:    reason,
	}
}

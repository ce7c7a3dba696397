package strategy

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-signal/internal/detector"
	"github.com/rxtech-lab/argo-signal/internal/indicator"
	"github.com/rxtech-lab/argo-signal/internal/logger"
	"github.com/rxtech-lab/argo-signal/internal/types"
)

// RSIStrategy emits BUY when RSI crosses into oversold and SELL when it crosses into overbought.
type RSIStrategy struct {
	config   RSIConfig
	detector *detector.Detector
	logger   *logger.Logger
}

// NewRSIStrategy is the Factory for types.StrategyNameRSI.
func NewRSIStrategy(params Params, log *logger.Logger) (Strategy, error) {
	config := DefaultRSIConfig()
	if err := decodeParams(types.StrategyNameRSI, params, &config); err != nil {
		return nil, err
	}

	log = log.Named(string(types.StrategyNameRSI))

	return &RSIStrategy{
		config:   config,
		detector: detector.New(log),
		logger:   log,
	}, nil
}

func (s *RSIStrategy) Name() types.StrategyName {
	return types.StrategyNameRSI
}

func (s *RSIStrategy) Config() any {
	return s.config
}

func (s *RSIStrategy) GenerateSignals(candles []types.MarketData) []types.Signal {
	rsi, err := indicator.RSI(indicator.ClosePrices(candles), s.config.Period)
	if err != nil {
		logIndicatorFailure(s.logger, s.Name(), candles, err)

		return []types.Signal{}
	}

	decision := s.detector.RSI(rsi, s.config.Oversold, s.config.Overbought)
	if decision.IsNone() {
		return []types.Signal{}
	}

	signalType := decision.Unwrap()
	last := candles[len(candles)-1]
	prev, curr, _ := rsi.Last()

	var reason string
	if signalType == types.SignalTypeBuy {
		reason = fmt.Sprintf("RSI crossed below oversold %.2f (%.2f -> %.2f)", s.config.Oversold, prev, curr)
	} else {
		reason = fmt.Sprintf("RSI crossed above overbought %.2f (%.2f -> %.2f)", s.config.Overbought, prev, curr)
	}

	s.logger.Debug("RSI crossover",
		zap.String("symbol", last.Symbol),
		zap.String("type", string(signalType)),
		zap.Float64("rsi", curr))

	return []types.Signal{
		newSignal(s.Name(), types.IndicatorTypeRSI, signalType, last, map[string]float64{
			"rsi":      curr,
			"rsi_prev": prev,
		}, reason),
	}
}

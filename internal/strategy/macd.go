package strategy

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-signal/internal/detector"
	"github.com/rxtech-lab/argo-signal/internal/indicator"
	"github.com/rxtech-lab/argo-signal/internal/logger"
	"github.com/rxtech-lab/argo-signal/internal/types"
)

// MACDStrategy emits BUY on a bullish MACD/signal crossover and SELL on a bearish one.
type MACDStrategy struct {
	config   MACDConfig
	detector *detector.Detector
	logger   *logger.Logger
}

// NewMACDStrategy is the Factory for types.StrategyNameMACD.
func NewMACDStrategy(params Params, log *logger.Logger) (Strategy, error) {
	config := DefaultMACDConfig()
	if err := decodeParams(types.StrategyNameMACD, params, &config); err != nil {
		return nil, err
	}

	log = log.Named(string(types.StrategyNameMACD))

	return &MACDStrategy{
		config:   config,
		detector: detector.New(log),
		logger:   log,
	}, nil
}

func (s *MACDStrategy) Name() types.StrategyName {
	return types.StrategyNameMACD
}

func (s *MACDStrategy) Config() any {
	return s.config
}

func (s *MACDStrategy) GenerateSignals(candles []types.MarketData) []types.Signal {
	macd, err := indicator.MACD(indicator.ClosePrices(candles), s.config.FastPeriod, s.config.SlowPeriod, s.config.SignalPeriod)
	if err != nil {
		logIndicatorFailure(s.logger, s.Name(), candles, err)

		return []types.Signal{}
	}

	decision := s.detector.MACD(macd)
	if decision.IsNone() {
		return []types.Signal{}
	}

	signalType := decision.Unwrap()
	last := candles[len(candles)-1]
	n := macd.Len()

	direction := "bullish"
	if signalType == types.SignalTypeSell {
		direction = "bearish"
	}

	s.logger.Debug("MACD crossover",
		zap.String("symbol", last.Symbol),
		zap.String("type", string(signalType)),
		zap.Float64("macd", macd.MACD[n-1]),
		zap.Float64("signal", macd.Signal[n-1]))

	return []types.Signal{
		newSignal(s.Name(), types.IndicatorTypeMACD, signalType, last, map[string]float64{
			"macd":      macd.MACD[n-1],
			"signal":    macd.Signal[n-1],
			"histogram": macd.Histogram[n-1],
		}, fmt.Sprintf("MACD %s crossover (macd=%.4f signal=%.4f)", direction, macd.MACD[n-1], macd.Signal[n-1])),
	}
}

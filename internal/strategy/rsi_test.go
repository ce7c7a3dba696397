package strategy

import (
	"math"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-signal/internal/logger"
	"github.com/rxtech-lab/argo-signal/internal/types"
	"github.com/rxtech-lab/argo-signal/mocks"
	"github.com/rxtech-lab/argo-signal/pkg/errors"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var testStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// workedExampleCloses produces RSI(14) 70.29 -> 72.41 -> 74.38 -> 75.32 -> 68.51 over its tail.
var workedExampleCloses = []float64{
	44, 44.25, 44.5, 43.75, 44.5, 44.9, 45.1, 45.4, 45.8, 46.1,
	45.9, 46.3, 46.1, 46.8, 47.1, 46.5, 46.9, 47.3, 47.5, 47.0,
}

// sellOffCloses oscillates upward then falls one point per candle.
// RSI(14) crosses 30 between the candles closing at 95.5 and 94.5.
func sellOffCloses(falling int) []float64 {
	closes := []float64{100, 101, 100.5, 101.5, 101, 102, 101.5, 102.5, 102, 103, 102.5, 103.5, 103, 104, 103.5, 104.5}

	price := 104.5
	for range falling {
		price -= 1.0
		closes = append(closes, price)
	}

	return closes
}

// rallyCloses mirrors sellOffCloses around 100: it oscillates downward then rises one point per candle.
// RSI(14) crosses 70 between the candles closing at 104.5 and 105.5.
func rallyCloses(rising int) []float64 {
	closes := []float64{100, 99, 99.5, 98.5, 99, 98, 98.5, 97.5, 98, 97, 97.5, 96.5, 97, 96, 96.5, 95.5}

	price := 95.5
	for range rising {
		price += 1.0
		closes = append(closes, price)
	}

	return closes
}

type RSIStrategyTestSuite struct {
	suite.Suite
	logs *observer.ObservedLogs
	log  *logger.Logger
}

func TestRSIStrategySuite(t *testing.T) {
	suite.Run(t, new(RSIStrategyTestSuite))
}

func (suite *RSIStrategyTestSuite) SetupTest() {
	core, logs := observer.New(zap.DebugLevel)
	suite.logs = logs
	suite.log = &logger.Logger{Logger: zap.New(core)}
}

func (suite *RSIStrategyTestSuite) newStrategy(params Params) Strategy {
	s, err := NewRSIStrategy(params, suite.log)
	suite.Require().NoError(err)

	return s
}

func (suite *RSIStrategyTestSuite) TestDefaults() {
	s := suite.newStrategy(nil)
	suite.Equal(types.StrategyNameRSI, s.Name())
	suite.Equal(DefaultRSIConfig(), s.Config())
}

func (suite *RSIStrategyTestSuite) TestParamsDecoding() {
	testCases := []struct {
		name     string
		params   Params
		expected RSIConfig
	}{
		{
			name:     "partial override keeps defaults",
			params:   Params{"period": 7},
			expected: RSIConfig{Period: 7, Oversold: 30, Overbought: 70},
		},
		{
			name:     "json numbers",
			params:   Params{"period": float64(21), "oversold": 25.0, "overbought": 75.0},
			expected: RSIConfig{Period: 21, Oversold: 25, Overbought: 75},
		},
		{
			name:     "numeric strings",
			params:   Params{"period": "10", "oversold": "20"},
			expected: RSIConfig{Period: 10, Oversold: 20, Overbought: 70},
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			suite.Equal(tc.expected, suite.newStrategy(tc.params).Config())
		})
	}
}

func (suite *RSIStrategyTestSuite) TestInvalidParams() {
	testCases := []struct {
		name   string
		params Params
		cause  errors.ErrorCode
	}{
		{name: "zero period", params: Params{"period": 0}, cause: errors.ErrCodeInvalidPeriod},
		{name: "negative period", params: Params{"period": -3}, cause: errors.ErrCodeInvalidPeriod},
		{name: "oversold above overbought", params: Params{"oversold": 80, "overbought": 20}, cause: errors.ErrCodeInvalidThreshold},
		{name: "equal thresholds", params: Params{"oversold": 50, "overbought": 50}, cause: errors.ErrCodeInvalidThreshold},
		{name: "threshold out of range", params: Params{"overbought": 120}, cause: errors.ErrCodeInvalidThreshold},
		{name: "unknown key", params: Params{"length": 14}},
		{name: "wrong type", params: Params{"period": "fourteen"}},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			s, err := NewRSIStrategy(tc.params, suite.log)
			suite.Nil(s)
			suite.Error(err)
			suite.Equal(errors.ErrCodeStrategyConfigError, errors.GetCode(err))

			if tc.cause != 0 {
				suite.True(errors.ContainsCode(err, tc.cause))
			}
		})
	}
}

func (suite *RSIStrategyTestSuite) TestBuyOnCrossIntoOversold() {
	s := suite.newStrategy(nil)
	candles := mocks.CandlesFromCloses("BTCUSDT", testStart, time.Hour, sellOffCloses(10))
	suite.Require().Len(candles, 26)

	signals := s.GenerateSignals(candles)
	suite.Require().Len(signals, 1)

	signal := signals[0]
	last := candles[len(candles)-1]
	suite.Equal(types.SignalTypeBuy, signal.Type)
	suite.Equal(94.5, signal.Price)
	suite.Equal(last.Time, signal.Time)
	suite.Equal("BTCUSDT", signal.Symbol)
	suite.Equal(types.StrategyNameRSI, signal.Strategy)
	suite.Equal(types.IndicatorTypeRSI, signal.Indicator)
	suite.InDelta(28.70835738861011, signal.Snapshot["rsi"], 1e-9)
	suite.InDelta(31.21540692502755, signal.Snapshot["rsi_prev"], 1e-9)
	suite.Equal("RSI crossed below oversold 30.00 (31.22 -> 28.71)", signal.Reason)
	suite.Equal(types.NewSignalID(types.StrategyNameRSI, "BTCUSDT", types.SignalTypeBuy, last.Time), signal.ID)
}

func (suite *RSIStrategyTestSuite) TestNoSignalWhileStayingOversold() {
	s := suite.newStrategy(nil)
	candles := mocks.CandlesFromCloses("BTCUSDT", testStart, time.Hour, sellOffCloses(11))

	signals := s.GenerateSignals(candles)
	suite.NotNil(signals)
	suite.Empty(signals)
}

func (suite *RSIStrategyTestSuite) TestSellOnCrossIntoOverbought() {
	s := suite.newStrategy(nil)
	candles := mocks.CandlesFromCloses("ETHUSDT", testStart, time.Minute, rallyCloses(10))

	signals := s.GenerateSignals(candles)
	suite.Require().Len(signals, 1)

	signal := signals[0]
	last := candles[len(candles)-1]
	suite.Equal(types.SignalTypeSell, signal.Type)
	suite.Equal(105.5, signal.Price)
	suite.Equal(last.Time, signal.Time)
	suite.Equal("ETHUSDT", signal.Symbol)
	suite.InDelta(71.29164261138988, signal.Snapshot["rsi"], 1e-9)
	suite.InDelta(68.78459307497245, signal.Snapshot["rsi_prev"], 1e-9)
	suite.Equal("RSI crossed above overbought 70.00 (68.78 -> 71.29)", signal.Reason)
}

func (suite *RSIStrategyTestSuite) TestNoSignalBeforeOverbought() {
	s := suite.newStrategy(nil)
	candles := mocks.CandlesFromCloses("ETHUSDT", testStart, time.Minute, rallyCloses(9))

	suite.Empty(s.GenerateSignals(candles))
}

func (suite *RSIStrategyTestSuite) TestNoSignalWhileStayingOverbought() {
	s := suite.newStrategy(nil)
	candles := mocks.CandlesFromCloses("ETHUSDT", testStart, time.Minute, workedExampleCloses[:17])

	suite.Empty(s.GenerateSignals(candles))
}

func (suite *RSIStrategyTestSuite) TestNoSignalWhenLeavingOverbought() {
	s := suite.newStrategy(nil)
	candles := mocks.CandlesFromCloses("ETHUSDT", testStart, time.Minute, workedExampleCloses)

	suite.Empty(s.GenerateSignals(candles))
}

func (suite *RSIStrategyTestSuite) TestInsufficientCandles() {
	s := suite.newStrategy(nil)

	for _, n := range []int{0, 1, 15} {
		candles := mocks.CandlesFromCloses("BTCUSDT", testStart, time.Hour, workedExampleCloses[:n])
		signals := s.GenerateSignals(candles)
		suite.NotNil(signals)
		suite.Empty(signals)
	}

	warnings := suite.logs.FilterMessage("Not enough candles for signal generation")
	suite.Equal(3, warnings.Len())
}

func (suite *RSIStrategyTestSuite) TestMinimumCandlesCanSignal() {
	// period+2 candles is exactly enough for one crossover check
	s := suite.newStrategy(Params{"period": 14})
	candles := mocks.CandlesFromCloses("ETHUSDT", testStart, time.Minute, workedExampleCloses[:16])

	suite.Empty(s.GenerateSignals(candles))
	suite.Equal(0, suite.logs.FilterMessage("Not enough candles for signal generation").Len())
}

func (suite *RSIStrategyTestSuite) TestNonFiniteCloseYieldsNoSignal() {
	s := suite.newStrategy(nil)
	candles := mocks.CandlesFromCloses("BTCUSDT", testStart, time.Hour, sellOffCloses(10))
	candles[20].Close = math.NaN()

	suite.Empty(s.GenerateSignals(candles))
	suite.Equal(1, suite.logs.FilterMessage("Indicator computation failed, no signal this cycle").Len())
}

func (suite *RSIStrategyTestSuite) TestDeterministic() {
	s := suite.newStrategy(nil)
	candles := mocks.CandlesFromCloses("BTCUSDT", testStart, time.Hour, sellOffCloses(10))

	first := s.GenerateSignals(candles)
	second := s.GenerateSignals(candles)
	suite.Equal(first, second)
}

package strategy

import (
	"sync"
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

type panickingStrategy struct{}

func (panickingStrategy) Name() types.StrategyName { return "panicking" }
func (panickingStrategy) Config() any              { return nil }
func (panickingStrategy) GenerateSignals([]types.MarketData) []types.Signal {
	panic("index out of range")
}

type DispatcherTestSuite struct {
	suite.Suite
	dispatcher *Dispatcher
	logs       *observer.ObservedLogs
}

func TestDispatcherSuite(t *testing.T) {
	suite.Run(t, new(DispatcherTestSuite))
}

func (suite *DispatcherTestSuite) SetupTest() {
	core, logs := observer.New(zap.InfoLevel)
	suite.logs = logs
	suite.dispatcher = NewDispatcher(NewDefaultRegistry(), &logger.Logger{Logger: zap.New(core)})
}

func (suite *DispatcherTestSuite) TestStartsUnloaded() {
	description := suite.dispatcher.DescribeActive()
	suite.Equal(types.StrategyStatusUnloaded, description.Status)
	suite.Empty(description.Name)
	suite.Nil(description.Config)
	suite.True(suite.dispatcher.Active().IsNone())

	signals, err := suite.dispatcher.GenerateSignals(nil)
	suite.Nil(signals)
	suite.Equal(errors.ErrCodeStrategyNotLoaded, errors.GetCode(err))
}

func (suite *DispatcherTestSuite) TestLoad() {
	s, err := suite.dispatcher.Load(types.StrategyNameRSI, Params{"period": 7})
	suite.Require().NoError(err)
	suite.Equal(types.StrategyNameRSI, s.Name())

	description := suite.dispatcher.DescribeActive()
	suite.Equal(types.StrategyStatusLoaded, description.Status)
	suite.Equal(types.StrategyNameRSI, description.Name)
	suite.Equal(RSIConfig{Period: 7, Oversold: 30, Overbought: 70}, description.Config)
	suite.Equal(1, suite.logs.FilterMessage("Strategy loaded").Len())
}

func (suite *DispatcherTestSuite) TestLoadUnknownKeepsActive() {
	_, err := suite.dispatcher.Load(types.StrategyNameMACD, nil)
	suite.Require().NoError(err)

	_, err = suite.dispatcher.Load("bollinger", nil)
	suite.Equal(errors.ErrCodeUnknownStrategy, errors.GetCode(err))
	suite.Equal(types.StrategyNameMACD, suite.dispatcher.DescribeActive().Name)

	entries := suite.logs.FilterMessage("Refusing to load unknown strategy").All()
	suite.Require().Len(entries, 1)
	suite.Equal("bollinger", entries[0].ContextMap()["strategy"])
}

func (suite *DispatcherTestSuite) TestLoadUnknownFromUnloaded() {
	_, err := suite.dispatcher.Load("bollinger", nil)
	suite.Error(err)
	suite.Equal(types.StrategyStatusUnloaded, suite.dispatcher.DescribeActive().Status)
}

func (suite *DispatcherTestSuite) TestSwitchWithInvalidConfigKeepsActive() {
	suite.Require().NoError(suite.dispatcher.SwitchStrategy(types.StrategyNameRSI, nil))

	err := suite.dispatcher.SwitchStrategy(types.StrategyNameMACD, Params{"fast_period": 40, "slow_period": 20})
	suite.Equal(errors.ErrCodeStrategyConfigError, errors.GetCode(err))
	suite.Equal(types.StrategyNameRSI, suite.dispatcher.DescribeActive().Name)
}

func (suite *DispatcherTestSuite) TestSwitchStrategy() {
	suite.Require().NoError(suite.dispatcher.SwitchStrategy(types.StrategyNameRSI, nil))
	suite.Require().NoError(suite.dispatcher.SwitchStrategy(types.StrategyNameMACD, fastMACDParams))

	description := suite.dispatcher.DescribeActive()
	suite.Equal(types.StrategyNameMACD, description.Name)
	suite.Equal(MACDConfig{FastPeriod: 3, SlowPeriod: 6, SignalPeriod: 3}, description.Config)

	entries := suite.logs.FilterMessage("Strategy switched").All()
	suite.Require().Len(entries, 2)
	suite.Equal("rsi", entries[1].ContextMap()["previous"])

	candles := mocks.CandlesFromCloses("BTCUSDT", testStart, time.Hour, []float64{20, 19, 18, 17, 16, 15, 14, 13, 12, 12.5})
	signals, err := suite.dispatcher.GenerateSignals(candles)
	suite.Require().NoError(err)
	suite.Require().Len(signals, 1)
	suite.Equal(types.StrategyNameMACD, signals[0].Strategy)
}

func (suite *DispatcherTestSuite) TestStrategyParamsOption() {
	dispatcher := NewDispatcher(NewDefaultRegistry(), logger.NewNopLogger(), WithStrategyParams(map[types.StrategyName]Params{
		types.StrategyNameMACD: fastMACDParams,
	}))

	s, err := dispatcher.Load(types.StrategyNameMACD, nil)
	suite.Require().NoError(err)
	suite.Equal(MACDConfig{FastPeriod: 3, SlowPeriod: 6, SignalPeriod: 3}, s.Config())

	// explicit params take precedence
	s, err = dispatcher.Load(types.StrategyNameMACD, Params{"signal_period": 5})
	suite.Require().NoError(err)
	suite.Equal(MACDConfig{FastPeriod: 12, SlowPeriod: 26, SignalPeriod: 5}, s.Config())
}

func (suite *DispatcherTestSuite) TestGenerateSignalsDelegates() {
	_, err := suite.dispatcher.Load(types.StrategyNameRSI, nil)
	suite.Require().NoError(err)

	candles := mocks.CandlesFromCloses("BTCUSDT", testStart, time.Hour, sellOffCloses(10))
	signals, err := suite.dispatcher.GenerateSignals(candles)
	suite.Require().NoError(err)
	suite.Require().Len(signals, 1)
	suite.Equal(types.SignalTypeBuy, signals[0].Type)

	signals, err = suite.dispatcher.GenerateSignals(candles[:3])
	suite.NoError(err)
	suite.NotNil(signals)
	suite.Empty(signals)
}

func (suite *DispatcherTestSuite) TestPanickingStrategyYieldsNoSignal() {
	registry := NewRegistry()
	suite.Require().NoError(registry.Register("panicking", Registration{
		Factory: func(Params, *logger.Logger) (Strategy, error) { return panickingStrategy{}, nil },
	}))

	core, logs := observer.New(zap.ErrorLevel)
	dispatcher := NewDispatcher(registry, &logger.Logger{Logger: zap.New(core)})
	_, err := dispatcher.Load("panicking", nil)
	suite.Require().NoError(err)

	signals, err := dispatcher.GenerateSignals(mocks.CandlesFromCloses("BTCUSDT", testStart, time.Hour, []float64{1, 2, 3}))
	suite.NoError(err)
	suite.NotNil(signals)
	suite.Empty(signals)
	suite.Equal(1, logs.FilterMessage("Strategy failed, no signal this cycle").Len())
}

func (suite *DispatcherTestSuite) TestConcurrentSwitchAndGenerate() {
	_, err := suite.dispatcher.Load(types.StrategyNameRSI, nil)
	suite.Require().NoError(err)

	candles := mocks.NewDataGenerator(42).Generate(mocks.DefaultConfig())

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(2)

		go func() {
			defer wg.Done()

			name := types.StrategyNameRSI
			if i%2 == 0 {
				name = types.StrategyNameMACD
			}

			suite.NoError(suite.dispatcher.SwitchStrategy(name, nil))
		}()

		go func() {
			defer wg.Done()

			_, err := suite.dispatcher.GenerateSignals(candles)
			suite.NoError(err)
		}()
	}

	wg.Wait()
	suite.Equal(types.StrategyStatusLoaded, suite.dispatcher.DescribeActive().Status)
}

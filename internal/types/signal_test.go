package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type SignalTestSuite struct {
	suite.Suite
}

func TestSignalSuite(t *testing.T) {
	suite.Run(t, new(SignalTestSuite))
}

func (suite *SignalTestSuite) TestSignalTypeConstants() {
	suite.Equal(SignalType("buy"), SignalTypeBuy)
	suite.Equal(SignalType("sell"), SignalTypeSell)
}

func (suite *SignalTestSuite) TestNewSignalIDIsDeterministic() {
	ts := time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)

	first := NewSignalID(StrategyNameRSI, "BTCUSDT", SignalTypeBuy, ts)
	second := NewSignalID(StrategyNameRSI, "BTCUSDT", SignalTypeBuy, ts)
	suite.Equal(first, second)

	parsed, err := uuid.Parse(first)
	suite.NoError(err)
	suite.Equal(uuid.Version(5), parsed.Version())
}

func (suite *SignalTestSuite) TestNewSignalIDDiffersPerField() {
	ts := time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)
	base := NewSignalID(StrategyNameRSI, "BTCUSDT", SignalTypeBuy, ts)

	suite.NotEqual(base, NewSignalID(StrategyNameMACD, "BTCUSDT", SignalTypeBuy, ts))
	suite.NotEqual(base, NewSignalID(StrategyNameRSI, "ETHUSDT", SignalTypeBuy, ts))
	suite.NotEqual(base, NewSignalID(StrategyNameRSI, "BTCUSDT", SignalTypeSell, ts))
	suite.NotEqual(base, NewSignalID(StrategyNameRSI, "BTCUSDT", SignalTypeBuy, ts.Add(time.Minute)))
}

func (suite *SignalTestSuite) TestSignalJSON() {
	ts := time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)
	signal := Signal{
		ID:        NewSignalID(StrategyNameRSI, "BTCUSDT", SignalTypeBuy, ts),
		Type:      SignalTypeBuy,
		Price:     42000.5,
		Time:      ts,
		Symbol:    "BTCUSDT",
		Strategy:  StrategyNameRSI,
		Indicator: IndicatorTypeRSI,
		Snapshot:  map[string]float64{"rsi": 29, "rsi_prev": 31},
		Reason:    "RSI crossed below 30.00",
	}

	raw, err := json.Marshal(signal)
	suite.NoError(err)
	suite.Contains(string(raw), `"type":"buy"`)
	suite.Contains(string(raw), `"strategy":"rsi"`)
	suite.Contains(string(raw), `"rsi_prev":31`)
}

package types

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

type SignalType string

const (
	// SignalTypeBuy is emitted when the active strategy detects a bullish crossing
	SignalTypeBuy SignalType = "buy"
	// SignalTypeSell is emitted when the active strategy detects a bearish crossing
	SignalTypeSell SignalType = "sell"
)

// signalNamespace scopes the name-based signal IDs.
var signalNamespace = uuid.MustParse("6f1c2d3e-8a4b-4c5d-9e6f-7a8b9c0d1e2f")

type Signal struct {
	// ID is derived from strategy, symbol, type and time, so re-evaluating the same candles yields the same ID
	ID string `json:"id"`
	// Type is BUY or SELL
	Type SignalType `json:"type"`
	// Price is the close of the triggering candle
	Price float64 `json:"price"`
	// Time is the time of the triggering candle
	Time time.Time `json:"time"`
	// Symbol is the symbol of the triggering candle
	Symbol string `json:"symbol"`
	// Strategy is the strategy that produced the signal
	Strategy StrategyName `json:"strategy"`
	// Indicator is the indicator that crossed
	Indicator IndicatorType `json:"indicator"`
	// Snapshot holds the indicator values that triggered the signal
	Snapshot map[string]float64 `json:"snapshot"`
	// Reason is a human readable explanation
	Reason string `json:"reason"`
}

// NewSignalID returns a deterministic UUIDv5 for a signal.
func NewSignalID(strategy StrategyName, symbol string, signalType SignalType, t time.Time) string {
	key := string(strategy) + "|" + symbol + "|" + string(signalType) + "|" + strconv.FormatInt(t.UnixNano(), 10)

	return uuid.NewSHA1(signalNamespace, []byte(key)).String()
}

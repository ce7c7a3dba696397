package types

import "time"

// MarketData is one OHLCV candle. A strategy receives a chronological slice of them.
type MarketData struct {
	Symbol string    `json:"symbol" yaml:"symbol"`
	Time   time.Time `json:"time" yaml:"time"`
	Open   float64   `json:"open" yaml:"open"`
	High   float64   `json:"high" yaml:"high"`
	Low    float64   `json:"low" yaml:"low"`
	Close  float64   `json:"close" yaml:"close"`
	Volume float64   `json:"volume" yaml:"volume"`
}

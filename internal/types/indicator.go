package types

type IndicatorType string

const (
	IndicatorTypeRSI  IndicatorType = "rsi"
	IndicatorTypeMACD IndicatorType = "macd"
	IndicatorTypeEMA  IndicatorType = "ema"
)

// RSISeries holds one RSI value per input candle, each in [0, 100].
type RSISeries []float64

// Last returns the last two values of the series.
// ok is false when the series has fewer than two points.
func (s RSISeries) Last() (prev float64, curr float64, ok bool) {
	if len(s) < 2 {
		return 0, 0, false
	}

	return s[len(s)-2], s[len(s)-1], true
}

// MACDSeries holds the three index-aligned MACD lines.
type MACDSeries struct {
	MACD      []float64 `json:"macd"`
	Signal    []float64 `json:"signal"`
	Histogram []float64 `json:"histogram"`
}

// Len returns the number of points in the series, or 0 when the lines disagree in length.
func (s MACDSeries) Len() int {
	if len(s.MACD) != len(s.Signal) || len(s.MACD) != len(s.Histogram) {
		return 0
	}

	return len(s.MACD)
}

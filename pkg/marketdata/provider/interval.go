package provider

import (
	"fmt"
	"time"

	"github.com/polygon-io/client-go/rest/models"

	"github.com/rxtech-lab/argo-signal/pkg/errors"
)

// Interval is a candle width in exchange notation.
type Interval string

const (
	IntervalOneMinute      Interval = "1m"
	IntervalThreeMinutes   Interval = "3m"
	IntervalFiveMinutes    Interval = "5m"
	IntervalFifteenMinutes Interval = "15m"
	IntervalThirtyMinutes  Interval = "30m"
	IntervalOneHour        Interval = "1h"
	IntervalTwoHours       Interval = "2h"
	IntervalFourHours      Interval = "4h"
	IntervalSixHours       Interval = "6h"
	IntervalEightHours     Interval = "8h"
	IntervalTwelveHours    Interval = "12h"
	IntervalOneDay         Interval = "1d"
	IntervalThreeDays      Interval = "3d"
	IntervalOneWeek        Interval = "1w"
	IntervalOneMonth       Interval = "1M"
)

// SupportedIntervals lists every interval a CandleSource accepts, shortest first.
var SupportedIntervals = []Interval{
	IntervalOneMinute, IntervalThreeMinutes, IntervalFiveMinutes, IntervalFifteenMinutes, IntervalThirtyMinutes,
	IntervalOneHour, IntervalTwoHours, IntervalFourHours, IntervalSixHours, IntervalEightHours, IntervalTwelveHours,
	IntervalOneDay, IntervalThreeDays, IntervalOneWeek, IntervalOneMonth,
}

// ParseInterval validates s against SupportedIntervals.
func ParseInterval(s string) (Interval, error) {
	for _, interval := range SupportedIntervals {
		if string(interval) == s {
			return interval, nil
		}
	}

	return "", errors.Newf(errors.ErrCodeInvalidInterval, "unsupported interval %q", s)
}

// Multiplier returns the number of base units in the interval.
func (i Interval) Multiplier() int {
	switch i {
	case IntervalThreeMinutes, IntervalThreeDays:
		return 3
	case IntervalFiveMinutes:
		return 5
	case IntervalFifteenMinutes:
		return 15
	case IntervalThirtyMinutes:
		return 30
	case IntervalTwoHours:
		return 2
	case IntervalFourHours:
		return 4
	case IntervalSixHours:
		return 6
	case IntervalEightHours:
		return 8
	case IntervalTwelveHours:
		return 12
	default:
		return 1
	}
}

// Timespan returns the Polygon base unit of the interval.
func (i Interval) Timespan() models.Timespan {
	switch i {
	case IntervalOneMinute, IntervalThreeMinutes, IntervalFiveMinutes, IntervalFifteenMinutes, IntervalThirtyMinutes:
		return models.Minute
	case IntervalOneHour, IntervalTwoHours, IntervalFourHours, IntervalSixHours, IntervalEightHours, IntervalTwelveHours:
		return models.Hour
	case IntervalOneWeek:
		return models.Week
	case IntervalOneMonth:
		return models.Month
	default:
		return models.Day
	}
}

// Duration returns the nominal width of one candle. A month counts as 30 days.
func (i Interval) Duration() time.Duration {
	unit := 24 * time.Hour

	switch i.Timespan() {
	case models.Minute:
		unit = time.Minute
	case models.Hour:
		unit = time.Hour
	case models.Week:
		unit = 7 * 24 * time.Hour
	case models.Month:
		unit = 30 * 24 * time.Hour
	}

	return time.Duration(i.Multiplier()) * unit
}

// sqlInterval renders the interval as a DuckDB INTERVAL literal body.
func (i Interval) sqlInterval() string {
	switch i.Timespan() {
	case models.Minute:
		return fmt.Sprintf("%d minutes", i.Multiplier())
	case models.Hour:
		return fmt.Sprintf("%d hours", i.Multiplier())
	case models.Week:
		return fmt.Sprintf("%d days", 7*i.Multiplier())
	case models.Month:
		return fmt.Sprintf("%d months", i.Multiplier())
	default:
		return fmt.Sprintf("%d days", i.Multiplier())
	}
}

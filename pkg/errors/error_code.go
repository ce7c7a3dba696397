package errors

import "fmt"

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInsufficientData     ErrorCode = 106
	ErrCodeInvalidPeriod        ErrorCode = 108
	ErrCodeMissingParameter     ErrorCode = 109
	ErrCodeInvalidThreshold     ErrorCode = 112

	// Indicator errors (300-399)
	ErrCodeIndicatorCalculation ErrorCode = 302

	// Strategy errors (400-499)
	ErrCodeStrategyNotLoaded         ErrorCode = 400
	ErrCodeStrategyConfigError       ErrorCode = 401
	ErrCodeStrategyRuntimeError      ErrorCode = 402
	ErrCodeUnknownStrategy           ErrorCode = 403
	ErrCodeStrategyAlreadyRegistered ErrorCode = 405

	// Market data errors (700-799)
	ErrCodeMarketDataFetchFailed ErrorCode = 700
	ErrCodeMarketDataParseFailed ErrorCode = 702
	ErrCodeInvalidInterval       ErrorCode = 703
	ErrCodeInvalidProvider       ErrorCode = 704
)

// Category groups error codes by the hundreds digit.
type Category string

const (
	CategoryGeneral    Category = "general"
	CategoryValidation Category = "validation"
	CategoryIndicator  Category = "indicator"
	CategoryStrategy   Category = "strategy"
	CategoryMarketData Category = "market_data"
)

var codeNames = map[ErrorCode]string{
	ErrCodeUnknown:                   "unknown",
	ErrCodeInvalidParameter:          "invalid_parameter",
	ErrCodeInvalidConfiguration:      "invalid_configuration",
	ErrCodeInsufficientData:          "insufficient_data",
	ErrCodeInvalidPeriod:             "invalid_period",
	ErrCodeMissingParameter:          "missing_parameter",
	ErrCodeInvalidThreshold:          "invalid_threshold",
	ErrCodeIndicatorCalculation:      "indicator_calculation",
	ErrCodeStrategyNotLoaded:         "strategy_not_loaded",
	ErrCodeStrategyConfigError:       "strategy_config_error",
	ErrCodeStrategyRuntimeError:      "strategy_runtime_error",
	ErrCodeUnknownStrategy:           "unknown_strategy",
	ErrCodeStrategyAlreadyRegistered: "strategy_already_registered",
	ErrCodeMarketDataFetchFailed:     "market_data_fetch_failed",
	ErrCodeMarketDataParseFailed:     "market_data_parse_failed",
	ErrCodeInvalidInterval:           "invalid_interval",
	ErrCodeInvalidProvider:           "invalid_provider",
}

// String returns the snake_case name of the code, or "code_<n>" for unnamed codes.
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}

	return fmt.Sprintf("code_%d", int(c))
}

// Category reports which range the code belongs to.
func (c ErrorCode) Category() Category {
	switch c / 100 {
	case 1:
		return CategoryValidation
	case 3:
		return CategoryIndicator
	case 4:
		return CategoryStrategy
	case 7:
		return CategoryMarketData
	default:
		return CategoryGeneral
	}
}

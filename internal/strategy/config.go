package strategy

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"

	"github.com/rxtech-lab/argo-signal/internal/types"
	"github.com/rxtech-lab/argo-signal/pkg/errors"
)

// RSIConfig configures the RSI threshold-crossing strategy.
type RSIConfig struct {
	Period     int     `mapstructure:"period" json:"period" yaml:"period" validate:"gt=0" jsonschema:"title=Period,description=Number of price changes in the RSI window,minimum=1,default=14"`
	Oversold   float64 `mapstructure:"oversold" json:"oversold" yaml:"oversold" validate:"gte=0,lte=100,ltfield=Overbought" jsonschema:"title=Oversold,description=Crossing below this level emits BUY,minimum=0,maximum=100,default=30"`
	Overbought float64 `mapstructure:"overbought" json:"overbought" yaml:"overbought" validate:"gte=0,lte=100" jsonschema:"title=Overbought,description=Crossing above this level emits SELL,minimum=0,maximum=100,default=70"`
}

// DefaultRSIConfig returns the conventional 14/30/70 setup.
func DefaultRSIConfig() RSIConfig {
	return RSIConfig{
		Period:     14,
		Oversold:   30,
		Overbought: 70,
	}
}

// MACDConfig configures the MACD line/signal crossover strategy.
type MACDConfig struct {
	FastPeriod   int `mapstructure:"fast_period" json:"fast_period" yaml:"fast_period" validate:"gt=0,ltfield=SlowPeriod" jsonschema:"title=Fast Period,description=Period of the fast EMA,minimum=1,default=12"`
	SlowPeriod   int `mapstructure:"slow_period" json:"slow_period" yaml:"slow_period" validate:"gt=0" jsonschema:"title=Slow Period,description=Period of the slow EMA,minimum=1,default=26"`
	SignalPeriod int `mapstructure:"signal_period" json:"signal_period" yaml:"signal_period" validate:"gt=0" jsonschema:"title=Signal Period,description=Period of the EMA over the MACD line,minimum=1,default=9"`
}

// DefaultMACDConfig returns the conventional 12/26/9 setup.
func DefaultMACDConfig() MACDConfig {
	return MACDConfig{
		FastPeriod:   12,
		SlowPeriod:   26,
		SignalPeriod: 9,
	}
}

var validate = validator.New()

// decodeParams overlays params onto target (which already holds the defaults) and validates the result.
// Numeric strings and floats are accepted for integer fields; unknown keys are rejected.
func decodeParams(name types.StrategyName, params Params, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return errors.Wrapf(errors.ErrCodeStrategyConfigError, err, "failed to build decoder for %s", name)
	}

	if len(params) > 0 {
		if err := decoder.Decode(map[string]any(params)); err != nil {
			return errors.Wrapf(errors.ErrCodeStrategyConfigError, err, "invalid parameters for %s", name)
		}
	}

	if err := validate.Struct(target); err != nil {
		return errors.Wrapf(errors.ErrCodeStrategyConfigError, classifyValidation(err), "invalid configuration for %s", name)
	}

	return nil
}

// classifyValidation tags the first failed field with the code of its kind.
func classifyValidation(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	field := fieldErrs[0]

	code := errors.ErrCodeInvalidParameter
	switch {
	case field.StructField() == "Oversold" || field.StructField() == "Overbought":
		code = errors.ErrCodeInvalidThreshold
	case strings.HasSuffix(field.StructField(), "Period"):
		code = errors.ErrCodeInvalidPeriod
	}

	return errors.Wrapf(code, err, "%s fails %s", field.Field(), field.Tag())
}

package indicator

import (
	"math"
	"testing"

	"github.com/rxtech-lab/argo-signal/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type RSIUnitTestSuite struct {
	suite.Suite
}

func TestRSIUnitSuite(t *testing.T) {
	suite.Run(t, new(RSIUnitTestSuite))
}

// wilderCloses is the 20 candle worked example used across the strategy tests.
var wilderCloses = []float64{
	44, 44.25, 44.5, 43.75, 44.5, 44.9, 45.1, 45.4, 45.8, 46.1,
	45.9, 46.3, 46.1, 46.8, 47.1, 46.5, 46.9, 47.3, 47.5, 47.0,
}

func (suite *RSIUnitTestSuite) TestWorkedExample() {
	rsi, err := RSI(wilderCloses, 14)
	suite.Require().NoError(err)
	suite.Len(rsi, len(wilderCloses))

	// Seed: 14 deltas, gains sum 4.25, losses sum 1.15.
	seed := 100 - 100/(1+(4.25/14)/(1.15/14))
	for i := 0; i <= 14; i++ {
		suite.InDelta(seed, rsi[i], 1e-9, "index %d should carry the seed value", i)
	}

	suite.InDelta(78.70370370370372, rsi[14], 1e-9)
	suite.InDelta(70.29262086513995, rsi[15], 1e-9)
	suite.InDelta(72.40956189783675, rsi[16], 1e-9)
	suite.InDelta(74.3759821301022, rsi[17], 1e-9)
	suite.InDelta(75.32301388550829, rsi[18], 1e-9)
	suite.InDelta(68.50633638230569, rsi[19], 1e-9)
}

func (suite *RSIUnitTestSuite) TestShapes() {
	testCases := []struct {
		name     string
		prices   func() []float64
		expected float64
	}{
		{
			name: "flat series is neutral",
			prices: func() []float64 {
				p := make([]float64, 30)
				for i := range p {
					p[i] = 100
				}

				return p
			},
			expected: 50,
		},
		{
			name: "rising series has no losses",
			prices: func() []float64 {
				p := make([]float64, 30)
				for i := range p {
					p[i] = 100 + float64(i)
				}

				return p
			},
			expected: 100,
		},
		{
			name: "falling series has no gains",
			prices: func() []float64 {
				p := make([]float64, 30)
				for i := range p {
					p[i] = 100 - float64(i)
				}

				return p
			},
			expected: 0,
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			prices := tc.prices()
			rsi, err := RSI(prices, 14)
			suite.Require().NoError(err)
			suite.Len(rsi, len(prices))
			for _, v := range rsi {
				suite.InDelta(tc.expected, v, 1e-9)
			}
		})
	}
}

func (suite *RSIUnitTestSuite) TestBounded() {
	prices := []float64{10, 12, 9, 15, 3, 20, 1, 18, 2, 30, 5, 25, 7, 40, 0.5, 33, 8}
	rsi, err := RSI(prices, 3)
	suite.Require().NoError(err)
	suite.Len(rsi, len(prices))

	for _, v := range rsi {
		suite.GreaterOrEqual(v, 0.0)
		suite.LessOrEqual(v, 100.0)
	}
}

func (suite *RSIUnitTestSuite) TestInsufficientData() {
	rsi, err := RSI([]float64{1, 2, 3, 4, 5}, 4)
	suite.Error(err)
	suite.True(errors.IsInsufficientDataError(err))
	suite.Empty(rsi)

	var insufficient *errors.InsufficientDataError
	suite.Require().True(errors.As(err, &insufficient))
	suite.Equal(6, insufficient.Required)
	suite.Equal(5, insufficient.Actual)

	// period+2 is the smallest accepted input
	rsi, err = RSI([]float64{1, 2, 3, 4, 5, 6}, 4)
	suite.NoError(err)
	suite.Len(rsi, 6)
}

func (suite *RSIUnitTestSuite) TestInvalidPeriod() {
	_, err := RSI([]float64{1, 2, 3}, 0)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidPeriod))

	_, err = RSI([]float64{1, 2, 3}, -3)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidPeriod))
}

func (suite *RSIUnitTestSuite) TestNonFiniteInput() {
	prices := []float64{1, 2, 3, math.NaN(), 5, 6, 7, 8}
	_, err := RSI(prices, 3)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeIndicatorCalculation))
}

func (suite *RSIUnitTestSuite) TestDoesNotMutateInput() {
	prices := append([]float64(nil), wilderCloses...)
	_, err := RSI(prices, 14)
	suite.NoError(err)
	suite.Equal(wilderCloses, prices)
}

package provider_test

import (
	"context"
	"testing"
	"time"

	binance "github.com/adshao/go-binance/v2"
	"github.com/rxtech-lab/argo-signal/internal/logger"
	"github.com/rxtech-lab/argo-signal/mocks"
	"github.com/rxtech-lab/argo-signal/pkg/marketdata/provider"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type requestKey struct{}

type BinanceMockTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller
	api  *mocks.MockBinanceKlinesAPI
}

func TestBinanceMockSuite(t *testing.T) {
	suite.Run(t, new(BinanceMockTestSuite))
}

func (suite *BinanceMockTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.api = mocks.NewMockBinanceKlinesAPI(suite.ctrl)
}

func (suite *BinanceMockTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func (suite *BinanceMockTestSuite) TestFetchPassesContextAndPaging() {
	ctx := context.WithValue(context.Background(), requestKey{}, "request")
	start := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)

	//nolint:exhaustruct // only the fields the source reads
	kline := &binance.Kline{
		OpenTime:  start.UnixMilli(),
		CloseTime: start.Add(4*time.Hour).UnixMilli() - 1,
		Open:      "1850.5",
		High:      "1870",
		Low:       "1840.25",
		Close:     "1865.75",
		Volume:    "3200.125",
	}

	suite.api.EXPECT().
		Klines(ctx, "ETHUSDT", "4h", 51).
		Return([]*binance.Kline{kline}, nil).
		Times(1)

	source := provider.NewBinanceSourceWithAPI(suite.api, logger.NewNopLogger())
	candles, err := source.Fetch(ctx, "ETHUSDT", "4h", 50)
	suite.Require().NoError(err)
	suite.Require().Len(candles, 1)
	suite.Equal(1865.75, candles[0].Close)
	suite.Equal(3200.125, candles[0].Volume)
	suite.Equal(start, candles[0].Time)
}

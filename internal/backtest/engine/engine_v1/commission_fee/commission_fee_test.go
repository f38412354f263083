package commission_fee

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type CommissionFeeTestSuite struct {
	suite.Suite
}

func TestCommissionFeeSuite(t *testing.T) {
	suite.Run(t, new(CommissionFeeTestSuite))
}

func (suite *CommissionFeeTestSuite) TestZeroCommissionFee() {
	fee := NewZeroCommissionFee()
	suite.NotNil(fee)

	tests := []struct {
		name     string
		notional float64
	}{
		{"zero notional", 0},
		{"small notional", 10},
		{"large notional", 10000},
		{"negative notional", -100},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.Equal(0.0, fee.Calculate(tc.notional))
		})
	}
}

func (suite *CommissionFeeTestSuite) TestBinanceSpotCommissionFee() {
	fee := NewBinanceSpotCommissionFee()

	tests := []struct {
		name     string
		notional float64
		expected float64
	}{
		{"zero notional", 0, 0},
		{"negative notional", -50, 0},
		{"default balance", 1000, 1},
		{"large notional", 250000, 250},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.InDelta(tc.expected, fee.Calculate(tc.notional), 1e-9)
		})
	}
}

func (suite *CommissionFeeTestSuite) TestGetCommissionFeeHandler() {
	tests := []struct {
		name           string
		broker         Broker
		expectedResult float64
	}{
		{"binance spot", BrokerBinanceSpot, 1.0},
		{"zero commission", BrokerZero, 0.0},
		{"unknown broker defaults to zero", Broker("unknown"), 0.0},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			handler := GetCommissionFeeHandler(tc.broker)
			suite.NotNil(handler)
			suite.InDelta(tc.expectedResult, handler.Calculate(1000), 1e-9)
		})
	}
}

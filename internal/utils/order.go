package utils

import (
	"math"

	"github.com/coinify-labs/coinify-bot/internal/backtest/engine/engine_v1/commission_fee"
)

// CalculateMaxQuantity returns the largest quantity whose notional plus fee fits in quoteAmount.
func CalculateMaxQuantity(quoteAmount float64, price float64, commissionFee commission_fee.CommissionFee) float64 {
	if price <= 0 || quoteAmount <= 0 {
		return 0
	}

	maxQty := quoteAmount / price

	// converges in a couple of rounds for proportional fees
	for i := 0; i < 10; i++ {
		totalCost := maxQty*price + commissionFee.Calculate(maxQty*price)
		if totalCost <= quoteAmount {
			break
		}

		maxQty *= quoteAmount / totalCost
	}

	return maxQty
}

// RoundToDecimalPrecision rounds the quantity down to the given number of decimals.
func RoundToDecimalPrecision(quantity float64, decimalPrecision int) float64 {
	multiplier := math.Pow10(decimalPrecision)

	return math.Floor(quantity*multiplier) / multiplier
}

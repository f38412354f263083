package commission_fee

// BinanceSpotTakerRate is the regular-tier spot taker fee.
const BinanceSpotTakerRate = 0.001

type BinanceSpotCommissionFee struct {
	rate float64
}

func NewBinanceSpotCommissionFee() CommissionFee {
	return &BinanceSpotCommissionFee{rate: BinanceSpotTakerRate}
}

func (c *BinanceSpotCommissionFee) Calculate(notional float64) float64 {
	if notional <= 0 {
		return 0
	}

	return notional * c.rate
}

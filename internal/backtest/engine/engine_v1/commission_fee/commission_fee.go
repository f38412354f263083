package commission_fee

// CommissionFee prices one side of a round trip.
type CommissionFee interface {
	// Calculate returns the fee, in quote currency, for trading the given notional.
	Calculate(notional float64) float64
}

type Broker string

const (
	BrokerZero        Broker = "zero_commission"
	BrokerBinanceSpot Broker = "binance_spot"
)

var AllBrokers = []any{
	BrokerZero,
	BrokerBinanceSpot,
}

// GetCommissionFeeHandler returns the fee model of broker. Unknown brokers pay nothing.
func GetCommissionFeeHandler(broker Broker) CommissionFee {
	switch broker {
	case BrokerBinanceSpot:
		return NewBinanceSpotCommissionFee()
	case BrokerZero:
		return NewZeroCommissionFee()
	default:
		return NewZeroCommissionFee()
	}
}

package tradingprovider

import (
	"context"
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/coinify-labs/coinify-bot/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/coinify-labs/coinify-bot/internal/logger"
	"github.com/coinify-labs/coinify-bot/internal/types"
	"github.com/coinify-labs/coinify-bot/internal/utils"
	"github.com/coinify-labs/coinify-bot/pkg/errors"
)

// PaperProviderConfig configures the paper provider.
type PaperProviderConfig struct {
	Broker commission_fee.Broker `json:"broker" yaml:"broker" jsonschema:"title=Broker,description=Fee model charged on every paper fill,enum=zero_commission,enum=binance_spot,default=zero_commission" validate:"omitempty,oneof=zero_commission binance_spot"`
}

func parsePaperConfig(jsonConfig string) (*PaperProviderConfig, error) {
	config := PaperProviderConfig{Broker: commission_fee.BrokerZero}
	if jsonConfig != "" {
		if err := json.Unmarshal([]byte(jsonConfig), &config); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse paper config", err)
		}
	}

	if err := validator.New().Struct(config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid paper provider config", err)
	}

	return &config, nil
}

// PaperExecutionProvider fills every order immediately at the order's reference price.
// Buys spend QuoteAmount including the broker fee; sells are filled in full.
type PaperExecutionProvider struct {
	fee commission_fee.CommissionFee
	log *logger.Logger
}

func NewPaperExecutionProvider(config PaperProviderConfig, log *logger.Logger) *PaperExecutionProvider {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &PaperExecutionProvider{
		fee: commission_fee.GetCommissionFeeHandler(config.Broker),
		log: log.Named("paper"),
	}
}

func (p *PaperExecutionProvider) ExecuteOrder(ctx context.Context, order types.ExecuteOrder) (types.ExecutionReport, error) {
	if err := ctx.Err(); err != nil {
		return types.ExecutionReport{}, err
	}

	if order.Price <= 0 {
		return types.ExecutionReport{}, errors.Newf(errors.ErrCodeInvalidParameter, "paper fill needs a positive price, got %v", order.Price)
	}

	var quantity float64

	switch order.Side {
	case types.PurchaseTypeBuy:
		quantity = utils.CalculateMaxQuantity(order.QuoteAmount, order.Price, p.fee)
	case types.PurchaseTypeSell:
		quantity = order.Quantity
	default:
		return types.ExecutionReport{}, errors.Newf(errors.ErrCodeInvalidParameter, "unsupported order side: %s", order.Side)
	}

	if quantity <= 0 {
		return types.ExecutionReport{}, errors.Newf(errors.ErrCodeOrderFailed, "paper %s order %s has nothing to fill", order.Side, order.ID)
	}

	p.log.Debug("Paper fill",
		zap.String("order_id", order.ID),
		zap.String("side", string(order.Side)),
		zap.Float64("quantity", quantity),
		zap.Float64("price", order.Price),
	)

	return types.ExecutionReport{
		OrderID:          order.ID,
		ExecutedQuantity: quantity,
		AveragePrice:     order.Price,
	}, nil
}

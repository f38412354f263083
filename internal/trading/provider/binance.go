package tradingprovider

import (
	"context"
	"strconv"

	"github.com/adshao/go-binance/v2"
	"go.uber.org/zap"

	"github.com/coinify-labs/coinify-bot/internal/logger"
	"github.com/coinify-labs/coinify-bot/internal/types"
	"github.com/coinify-labs/coinify-bot/internal/utils"
	"github.com/coinify-labs/coinify-bot/pkg/errors"
)

const (
	// BinanceDecimalPrecision is a default decimal precision used as a fallback.
	// 8 decimals allows for satoshi-level precision (0.00000001 BTC) for BTC-like assets.
	BinanceDecimalPrecision = 8
	// BinanceQuoteDecimalPrecision is used for quoteOrderQty on market buys.
	BinanceQuoteDecimalPrecision = 2
)

// Service interfaces for mocking the Binance API

// CreateOrderService interface for creating orders.
type CreateOrderService interface {
	Symbol(symbol string) CreateOrderService
	Side(side binance.SideType) CreateOrderService
	Type(orderType binance.OrderType) CreateOrderService
	Quantity(quantity string) CreateOrderService
	QuoteOrderQty(quoteOrderQty string) CreateOrderService
	NewClientOrderID(clientOrderID string) CreateOrderService
	Do(ctx context.Context) (*binance.CreateOrderResponse, error)
}

// GetAccountService interface for getting account info.
type GetAccountService interface {
	Do(ctx context.Context) (*binance.Account, error)
}

// BinanceClient interface abstracts the Binance client for testing.
type BinanceClient interface {
	NewCreateOrderService() CreateOrderService
	NewGetAccountService() GetAccountService
}

// realBinanceClient wraps the actual binance.Client.
type realBinanceClient struct {
	client *binance.Client
}

func (r *realBinanceClient) NewCreateOrderService() CreateOrderService {
	return &realCreateOrderService{service: r.client.NewCreateOrderService()}
}

func (r *realBinanceClient) NewGetAccountService() GetAccountService {
	return &realGetAccountService{service: r.client.NewGetAccountService()}
}

type realCreateOrderService struct {
	service *binance.CreateOrderService
}

func (s *realCreateOrderService) Symbol(symbol string) CreateOrderService {
	s.service = s.service.Symbol(symbol)

	return s
}

func (s *realCreateOrderService) Side(side binance.SideType) CreateOrderService {
	s.service = s.service.Side(side)

	return s
}

func (s *realCreateOrderService) Type(orderType binance.OrderType) CreateOrderService {
	s.service = s.service.Type(orderType)

	return s
}

func (s *realCreateOrderService) Quantity(quantity string) CreateOrderService {
	s.service = s.service.Quantity(quantity)

	return s
}

func (s *realCreateOrderService) QuoteOrderQty(quoteOrderQty string) CreateOrderService {
	s.service = s.service.QuoteOrderQty(quoteOrderQty)

	return s
}

func (s *realCreateOrderService) NewClientOrderID(clientOrderID string) CreateOrderService {
	s.service = s.service.NewClientOrderID(clientOrderID)

	return s
}

func (s *realCreateOrderService) Do(ctx context.Context) (*binance.CreateOrderResponse, error) {
	return s.service.Do(ctx)
}

type realGetAccountService struct {
	service *binance.GetAccountService
}

func (s *realGetAccountService) Do(ctx context.Context) (*binance.Account, error) {
	return s.service.Do(ctx)
}

// BinanceExecutionProvider sends the live loop's market orders to Binance spot.
// Buys are sized in quote currency through quoteOrderQty, sells in base quantity.
type BinanceExecutionProvider struct {
	client           BinanceClient
	decimalPrecision int
	log              *logger.Logger
}

// NewBinanceExecutionProvider creates a provider for Binance spot.
// If useTestnet is true, connects to Binance Testnet (https://testnet.binance.vision/).
// If config.BaseURL is set, it takes precedence over useTestnet.
func NewBinanceExecutionProvider(config BinanceProviderConfig, useTestnet bool, log *logger.Logger) *BinanceExecutionProvider {
	if useTestnet {
		binance.UseTestnet = true
	}

	client := binance.NewClient(config.ApiKey, config.SecretKey)

	if config.BaseURL != "" {
		client.BaseURL = config.BaseURL
	}

	return newBinanceExecutionProviderWithClient(&realBinanceClient{client: client}, BinanceDecimalPrecision, log)
}

func newBinanceExecutionProviderWithClient(client BinanceClient, decimalPrecision int, log *logger.Logger) *BinanceExecutionProvider {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &BinanceExecutionProvider{
		client:           client,
		decimalPrecision: decimalPrecision,
		log:              log.Named("binance"),
	}
}

// ExecuteOrder places a market order and reports the fill.
func (b *BinanceExecutionProvider) ExecuteOrder(ctx context.Context, order types.ExecuteOrder) (types.ExecutionReport, error) {
	orderService := b.client.NewCreateOrderService().
		Symbol(order.Symbol).
		Type(binance.OrderTypeMarket).
		NewClientOrderID(order.ID)

	switch order.Side {
	case types.PurchaseTypeBuy:
		quote := utils.RoundToDecimalPrecision(order.QuoteAmount, BinanceQuoteDecimalPrecision)
		if quote <= 0 {
			return types.ExecutionReport{}, errors.Newf(errors.ErrCodeInvalidParameter,
				"quote amount %.8f is too small for a market buy", order.QuoteAmount)
		}

		orderService = orderService.
			Side(binance.SideTypeBuy).
			QuoteOrderQty(strconv.FormatFloat(quote, 'f', BinanceQuoteDecimalPrecision, 64))
	case types.PurchaseTypeSell:
		quantity := utils.RoundToDecimalPrecision(order.Quantity, b.decimalPrecision)
		if quantity <= 0 {
			return types.ExecutionReport{}, errors.Newf(errors.ErrCodeInvalidParameter,
				"order quantity %.8f is too small after rounding to %d decimal places",
				order.Quantity, b.decimalPrecision)
		}

		orderService = orderService.
			Side(binance.SideTypeSell).
			Quantity(strconv.FormatFloat(quantity, 'f', b.decimalPrecision, 64))
	default:
		return types.ExecutionReport{}, errors.Newf(errors.ErrCodeInvalidParameter, "unsupported order side: %s", order.Side)
	}

	response, err := orderService.Do(ctx)
	if err != nil {
		return types.ExecutionReport{}, errors.Wrap(errors.ErrCodeOrderFailed, "failed to place order on Binance", err)
	}

	report, err := convertCreateOrderResponse(response)
	if err != nil {
		return types.ExecutionReport{}, err
	}

	b.log.Debug("Binance order placed",
		zap.String("client_order_id", order.ID),
		zap.String("order_id", report.OrderID),
		zap.String("status", string(response.Status)),
	)

	return report, nil
}

// CheckConnection verifies the API keys by reading the account.
func (b *BinanceExecutionProvider) CheckConnection(ctx context.Context) error {
	_, err := b.client.NewGetAccountService().Do(ctx)
	if err != nil {
		return errors.Wrap(errors.ErrCodeOrderFailed, "failed to connect to Binance API", err)
	}

	return nil
}

func convertCreateOrderResponse(response *binance.CreateOrderResponse) (types.ExecutionReport, error) {
	if response == nil {
		return types.ExecutionReport{}, errors.New(errors.ErrCodeOrderFailed, "empty order response from Binance")
	}

	switch response.Status {
	case binance.OrderStatusTypeRejected, binance.OrderStatusTypeExpired, binance.OrderStatusTypeCanceled:
		return types.ExecutionReport{}, errors.Newf(errors.ErrCodeOrderFailed, "order %d was %s", response.OrderID, response.Status)
	}

	executed, err := strconv.ParseFloat(response.ExecutedQuantity, 64)
	if err != nil {
		return types.ExecutionReport{}, errors.Wrapf(errors.ErrCodeOrderFailed, err, "invalid executed quantity %q", response.ExecutedQuantity)
	}

	quote, err := strconv.ParseFloat(response.CummulativeQuoteQuantity, 64)
	if err != nil {
		return types.ExecutionReport{}, errors.Wrapf(errors.ErrCodeOrderFailed, err, "invalid cumulative quote quantity %q", response.CummulativeQuoteQuantity)
	}

	if executed <= 0 {
		return types.ExecutionReport{}, errors.Newf(errors.ErrCodeOrderFailed, "order %d was not filled", response.OrderID)
	}

	return types.ExecutionReport{
		OrderID:          strconv.FormatInt(response.OrderID, 10),
		ExecutedQuantity: executed,
		AveragePrice:     quote / executed,
	}, nil
}

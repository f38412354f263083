package types

import "time"

// PurchaseType is the side of an order forwarded to the execution collaborator.
type PurchaseType string

const (
	PurchaseTypeBuy  PurchaseType = "BUY"
	PurchaseTypeSell PurchaseType = "SELL"
)

// ExecuteOrder is a market order the live loop forwards in live mode.
// Buys are sized in quote currency, sells in base quantity.
type ExecuteOrder struct {
	ID          string       `yaml:"id" json:"id" validate:"required,uuid"`
	Symbol      string       `yaml:"symbol" json:"symbol" validate:"required"`
	Side        PurchaseType `yaml:"side" json:"side" validate:"required,oneof=BUY SELL"`
	QuoteAmount float64      `yaml:"quote_amount" json:"quote_amount" validate:"required_if=Side BUY,gte=0"`
	Quantity    float64      `yaml:"quantity" json:"quantity" validate:"required_if=Side SELL,gte=0"`
	Price       float64      `yaml:"price" json:"price" validate:"gt=0"`
	Reason      string       `yaml:"reason" json:"reason"`
	CreatedAt   time.Time    `yaml:"created_at" json:"created_at"`
}

// ExecutionReport is what the execution collaborator returns for a filled order.
type ExecutionReport struct {
	OrderID          string  `yaml:"order_id" json:"order_id"`
	ExecutedQuantity float64 `yaml:"executed_quantity" json:"executed_quantity"`
	AveragePrice     float64 `yaml:"average_price" json:"average_price"`
}

package journal

import (
	"github.com/coinify-labs/coinify-bot/internal/types"
)

// TradesWriter persists closed round trips to a parquet file.
type TradesWriter struct {
	table  *parquetTable
	symbol string
}

// NewTradesWriter creates a writer for outputPath. Existing rows in the file are kept.
func NewTradesWriter(outputPath string, symbol string) *TradesWriter {
	return &TradesWriter{
		table: newParquetTable(outputPath, "trades", `
			symbol TEXT,
			entry_time TIMESTAMP,
			exit_time TIMESTAMP,
			entry_price DOUBLE,
			exit_price DOUBLE,
			realized_return DOUBLE,
			outcome TEXT
		`, "exit_time ASC", []string{"symbol", "entry_time", "exit_time", "entry_price", "exit_price", "realized_return", "outcome"}),
		symbol: symbol,
	}
}

// Initialize opens the writer and loads any existing rows.
func (w *TradesWriter) Initialize() error {
	return w.table.initialize()
}

// Write appends a trade and exports the file.
func (w *TradesWriter) Write(trade types.TradeRecord) error {
	return w.table.insert(w.symbol, trade.EntryTime, trade.ExitTime, trade.EntryPrice, trade.ExitPrice,
		trade.RealizedReturn, string(trade.Outcome))
}

// Count returns the number of stored trades.
func (w *TradesWriter) Count() (int, error) {
	return w.table.count()
}

// GetOutputPath returns the parquet file path.
func (w *TradesWriter) GetOutputPath() string {
	return w.table.outputPath
}

// Close releases database resources. The file on disk is already complete.
func (w *TradesWriter) Close() error {
	return w.table.close()
}

// DecisionsWriter persists every live decision to a parquet file.
type DecisionsWriter struct {
	table *parquetTable
}

// NewDecisionsWriter creates a writer for outputPath. Existing rows in the file are kept.
func NewDecisionsWriter(outputPath string) *DecisionsWriter {
	return &DecisionsWriter{
		table: newParquetTable(outputPath, "decisions", `
			id TEXT,
			tick_time TIMESTAMP,
			bar_time TIMESTAMP,
			symbol TEXT,
			close DOUBLE,
			signal TEXT,
			action TEXT,
			confluence_score INTEGER,
			confluence_decision TEXT,
			band_zone TEXT,
			mode TEXT,
			position_state TEXT,
			entry_price DOUBLE,
			order_id TEXT,
			executed_quantity DOUBLE,
			average_price DOUBLE,
			realized_return DOUBLE
		`, "tick_time ASC", []string{
			"id", "tick_time", "bar_time", "symbol", "close", "signal", "action",
			"confluence_score", "confluence_decision", "band_zone", "mode",
			"position_state", "entry_price", "order_id", "executed_quantity", "average_price", "realized_return",
		}),
	}
}

// Initialize opens the writer and loads any existing rows.
func (w *DecisionsWriter) Initialize() error {
	return w.table.initialize()
}

// Write appends a decision and exports the file. Order and trade columns are NULL when absent.
func (w *DecisionsWriter) Write(decision types.Decision) error {
	var orderID, executedQuantity, averagePrice, realizedReturn any

	if decision.Order != nil {
		orderID = decision.Order.OrderID
		executedQuantity = decision.Order.ExecutedQuantity
		averagePrice = decision.Order.AveragePrice
	}

	if decision.Trade != nil {
		realizedReturn = decision.Trade.RealizedReturn
	}

	return w.table.insert(
		decision.ID,
		decision.TickTime,
		decision.BarTime,
		decision.Symbol,
		decision.Close,
		string(decision.Signal),
		string(decision.Action),
		decision.Confluence.Score,
		string(decision.Confluence.Decision),
		string(decision.BandZone),
		string(decision.Mode),
		string(decision.Position.State),
		decision.Position.EntryPrice,
		orderID,
		executedQuantity,
		averagePrice,
		realizedReturn,
	)
}

// Count returns the number of stored decisions.
func (w *DecisionsWriter) Count() (int, error) {
	return w.table.count()
}

// GetOutputPath returns the parquet file path.
func (w *DecisionsWriter) GetOutputPath() string {
	return w.table.outputPath
}

// Close releases database resources. The file on disk is already complete.
func (w *DecisionsWriter) Close() error {
	return w.table.close()
}

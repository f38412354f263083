package engine

import (
	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"

	"github.com/coinify-labs/coinify-bot/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/coinify-labs/coinify-bot/internal/types"
)

// BacktestState is the state of a single run: one position, the balance and
// the trade log. It is owned by exactly one run and needs no locking.
type BacktestState struct {
	initialBalance decimal.Decimal
	balance        decimal.Decimal
	entryFee       decimal.Decimal
	position       types.Position
	trades         []types.TradeRecord
	wins           int
	fee            commission_fee.CommissionFee
}

// NewBacktestState creates a flat state holding initialBalance.
func NewBacktestState(initialBalance float64, fee commission_fee.CommissionFee) *BacktestState {
	if fee == nil {
		fee = commission_fee.NewZeroCommissionFee()
	}

	return &BacktestState{
		initialBalance: decimal.NewFromFloat(initialBalance),
		balance:        decimal.NewFromFloat(initialBalance),
		entryFee:       decimal.Zero,
		position:       types.FlatPosition(),
		trades:         []types.TradeRecord{},
		wins:           0,
		fee:            fee,
	}
}

// Apply advances the state machine with the decision taken on frame.
// A buy while flat opens a long at the close; a sell while long closes it and
// returns the resulting trade. Every other combination is a no-op.
func (s *BacktestState) Apply(frame types.IndicatorFrame, signal types.Signal) optional.Option[types.TradeRecord] {
	switch {
	case signal == types.SignalBuy && !s.position.IsLong():
		s.open(frame)
	case signal == types.SignalSell && s.position.IsLong():
		return optional.Some(s.close(frame))
	}

	return optional.None[types.TradeRecord]()
}

func (s *BacktestState) open(frame types.IndicatorFrame) {
	s.position = types.Position{
		State:      types.PositionLong,
		EntryPrice: frame.Close,
		EntryTime:  frame.Time,
	}
	// charged on exit, the balance only moves on realized trades
	s.entryFee = decimal.NewFromFloat(s.fee.Calculate(s.balance.InexactFloat64()))
}

func (s *BacktestState) close(frame types.IndicatorFrame) types.TradeRecord {
	entry := decimal.NewFromFloat(s.position.EntryPrice)
	exit := decimal.NewFromFloat(frame.Close)
	realizedReturn := exit.Sub(entry).Div(entry)

	gross := s.balance.Mul(decimal.NewFromInt(1).Add(realizedReturn))
	exitFee := decimal.NewFromFloat(s.fee.Calculate(gross.InexactFloat64()))
	s.balance = gross.Sub(s.entryFee).Sub(exitFee)

	r := realizedReturn.InexactFloat64()
	trade := types.TradeRecord{
		EntryTime:      s.position.EntryTime,
		ExitTime:       frame.Time,
		EntryPrice:     s.position.EntryPrice,
		ExitPrice:      frame.Close,
		RealizedReturn: r,
		Outcome:        types.OutcomeForReturn(r),
	}

	if trade.Outcome == types.TradeOutcomeWin {
		s.wins++
	}

	s.trades = append(s.trades, trade)
	s.position = types.FlatPosition()
	s.entryFee = decimal.Zero

	return trade
}

// Position returns the current position.
func (s *BacktestState) Position() types.Position {
	return s.position
}

// Balance returns the realized balance.
func (s *BacktestState) Balance() float64 {
	return s.balance.InexactFloat64()
}

// Trades returns a copy of the trade log.
func (s *BacktestState) Trades() []types.TradeRecord {
	return append([]types.TradeRecord{}, s.trades...)
}

// Summarize fills the realized metrics of result. An open position is
// reported but never counted.
func (s *BacktestState) Summarize(result *types.BacktestResult) {
	initial := s.initialBalance.InexactFloat64()
	final := s.balance.InexactFloat64()

	result.InitialBalance = initial
	result.FinalBalance = final
	result.Trades = s.Trades()
	result.TradeCount = len(s.trades)
	result.Wins = s.wins
	result.Losses = len(s.trades) - s.wins
	result.WinRate = types.WinRate(s.wins, len(s.trades))
	result.TotalReturn = 0
	if !s.initialBalance.IsZero() {
		result.TotalReturn = s.balance.Div(s.initialBalance).Sub(decimal.NewFromInt(1)).InexactFloat64()
	}

	result.OpenPosition = s.position
}

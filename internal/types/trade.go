package types

import "time"

// PositionState is the state of the single position a run owns.
type PositionState string

const (
	PositionFlat PositionState = "flat"
	PositionLong PositionState = "long"
)

// Position is owned by exactly one backtest run or live loop instance.
type Position struct {
	State      PositionState `yaml:"state" json:"state"`
	EntryPrice float64       `yaml:"entry_price" json:"entry_price"`
	EntryTime  time.Time     `yaml:"entry_time" json:"entry_time"`
}

// FlatPosition returns the initial position of every run.
func FlatPosition() Position {
	return Position{State: PositionFlat}
}

// IsLong reports whether the position is open.
func (p Position) IsLong() bool {
	return p.State == PositionLong
}

// TradeOutcome classifies a closed round trip.
type TradeOutcome string

const (
	TradeOutcomeWin  TradeOutcome = "win"
	TradeOutcomeLoss TradeOutcome = "loss"
)

// TradeRecord is appended to the trade log every time a long position goes flat.
type TradeRecord struct {
	EntryTime      time.Time    `yaml:"entry_time" json:"entry_time" csv:"entry_time"`
	ExitTime       time.Time    `yaml:"exit_time" json:"exit_time" csv:"exit_time"`
	EntryPrice     float64      `yaml:"entry_price" json:"entry_price" csv:"entry_price"`
	ExitPrice      float64      `yaml:"exit_price" json:"exit_price" csv:"exit_price"`
	RealizedReturn float64      `yaml:"realized_return" json:"realized_return" csv:"realized_return"`
	Outcome        TradeOutcome `yaml:"outcome" json:"outcome" csv:"outcome"`
}

// OutcomeForReturn classifies a realized return; zero counts as a loss.
func OutcomeForReturn(realizedReturn float64) TradeOutcome {
	if realizedReturn > 0 {
		return TradeOutcomeWin
	}

	return TradeOutcomeLoss
}

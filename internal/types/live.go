package types

import "time"

// EngineStatus represents the current state of the live polling loop.
type EngineStatus string

const (
	// EngineStatusRunning indicates the loop is polling.
	EngineStatusRunning EngineStatus = "running"
	// EngineStatusStopped indicates the loop has exited or never started.
	EngineStatusStopped EngineStatus = "stopped"
)

// TradeAction is what a live decision did to the position.
type TradeAction string

const (
	TradeActionOpen  TradeAction = "open"
	TradeActionClose TradeAction = "close"
	TradeActionNone  TradeAction = "none"
)

// Decision is emitted once per successful live tick, for the last closed bar.
type Decision struct {
	ID         string        `yaml:"id" json:"id"`
	TickTime   time.Time     `yaml:"tick_time" json:"tick_time"`
	BarTime    time.Time     `yaml:"bar_time" json:"bar_time"`
	Symbol     string        `yaml:"symbol" json:"symbol"`
	Close      float64       `yaml:"close" json:"close"`
	Signal     Signal        `yaml:"signal" json:"signal"`
	Action     TradeAction   `yaml:"action" json:"action"`
	Confluence Confluence    `yaml:"confluence" json:"confluence"`
	BandZone   BandZone      `yaml:"band_zone" json:"band_zone"`
	Mode       OperatingMode `yaml:"mode" json:"mode"`
	// Position after the action was applied.
	Position Position `yaml:"position" json:"position"`
	// Trade is set when the decision closed a position.
	Trade *TradeRecord `yaml:"trade,omitempty" json:"trade,omitempty"`
	// Order is set when the decision was forwarded for execution.
	Order *ExecutionReport `yaml:"order,omitempty" json:"order,omitempty"`
}

// LiveStatus is a point-in-time snapshot of the live loop, served by the status endpoint.
type LiveStatus struct {
	Status       EngineStatus  `yaml:"status" json:"status"`
	Symbol       string        `yaml:"symbol" json:"symbol"`
	Interval     string        `yaml:"interval" json:"interval"`
	Mode         OperatingMode `yaml:"mode" json:"mode"`
	Ticks        int           `yaml:"ticks" json:"ticks"`
	Failures     int           `yaml:"failures" json:"failures"`
	LastTick     time.Time     `yaml:"last_tick" json:"last_tick"`
	LastError    string        `yaml:"last_error,omitempty" json:"last_error,omitempty"`
	LastDecision *Decision     `yaml:"last_decision,omitempty" json:"last_decision,omitempty"`
	Position     Position      `yaml:"position" json:"position"`
	TradeCount   int           `yaml:"trade_count" json:"trade_count"`
	Wins         int           `yaml:"wins" json:"wins"`
}

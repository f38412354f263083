package types

// Signal is the simple-mode trading decision for one frame.
type Signal string

const (
	// SignalBuy tells a flat position to go long
	SignalBuy Signal = "buy"
	// SignalSell tells a long position to go flat
	SignalSell Signal = "sell"
	// SignalHold keeps the current position
	SignalHold Signal = "hold"
)

// ConfluenceDecision is the outcome of the confluence-mode rule.
type ConfluenceDecision string

const (
	ConfluenceStrongBuy ConfluenceDecision = "strong_buy"
	ConfluenceSellZone  ConfluenceDecision = "sell_zone"
	ConfluenceNeutral   ConfluenceDecision = "neutral"
)

// Confluence holds the four buy predicates, their count and the resulting decision.
type Confluence struct {
	BBBuy    bool               `yaml:"bb_buy" json:"bb_buy"`
	RSIBuy   bool               `yaml:"rsi_buy" json:"rsi_buy"`
	MACDBuy  bool               `yaml:"macd_buy" json:"macd_buy"`
	SMABuy   bool               `yaml:"sma_buy" json:"sma_buy"`
	Score    int                `yaml:"score" json:"score"`
	Decision ConfluenceDecision `yaml:"decision" json:"decision"`
}

// BandZone is where the close sits relative to the Bollinger bands.
type BandZone string

const (
	BandZoneBuy     BandZone = "buy_zone"
	BandZoneSell    BandZone = "sell_zone"
	BandZoneNeutral BandZone = "neutral"
)

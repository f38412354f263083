package types

// IndicatorFrame is one bar extended with every derived indicator value.
// Frames are only produced for bars past the warm-up, so every field is defined.
type IndicatorFrame struct {
	Bar `yaml:",inline" json:"bar"`

	// Bollinger bands
	Middle float64 `yaml:"middle" json:"middle"`
	Upper  float64 `yaml:"upper" json:"upper"`
	Lower  float64 `yaml:"lower" json:"lower"`

	RSI float64 `yaml:"rsi" json:"rsi"`

	EMAFast    float64 `yaml:"ema_fast" json:"ema_fast"`
	EMASlow    float64 `yaml:"ema_slow" json:"ema_slow"`
	MACD       float64 `yaml:"macd" json:"macd"`
	MACDSignal float64 `yaml:"macd_signal" json:"macd_signal"`

	SMALong float64 `yaml:"sma_long" json:"sma_long"`
}

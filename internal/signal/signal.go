// Package signal turns one indicator frame into a trading decision.
// Every function here is pure.
package signal

import (
	"github.com/samber/lo"

	"github.com/coinify-labs/coinify-bot/internal/types"
)

// StrongBuyScore is the minimum confluence score for a strong buy.
const StrongBuyScore = 3

// Simple is the decision rule used by the backtest simulator and the live loop.
//
// Buy is gated on the overbought threshold and sell on the oversold threshold.
// The gating is intentionally kept asymmetric.
func Simple(frame types.IndicatorFrame, params types.StrategyParams) types.Signal {
	switch {
	case frame.EMAFast > frame.EMASlow && frame.RSI < params.RSIOverbought:
		return types.SignalBuy
	case frame.EMAFast < frame.EMASlow && frame.RSI > params.RSIOversold:
		return types.SignalSell
	default:
		return types.SignalHold
	}
}

// Confluence scores the four buy predicates and applies the majority rule:
// a score of at least StrongBuyScore is a strong buy, otherwise an overbought
// close above the upper band is a sell zone, otherwise neutral.
func Confluence(frame types.IndicatorFrame, params types.StrategyParams) types.Confluence {
	c := types.Confluence{
		BBBuy:   frame.Close < frame.Lower,
		RSIBuy:  frame.RSI < params.RSIOversold,
		MACDBuy: frame.MACD > frame.MACDSignal,
		SMABuy:  frame.Close > frame.SMALong,
	}
	c.Score = lo.Count([]bool{c.BBBuy, c.RSIBuy, c.MACDBuy, c.SMABuy}, true)

	switch {
	case c.Score >= StrongBuyScore:
		c.Decision = types.ConfluenceStrongBuy
	case frame.Close > frame.Upper && frame.RSI > params.RSIOverbought:
		c.Decision = types.ConfluenceSellZone
	default:
		c.Decision = types.ConfluenceNeutral
	}

	return c
}

// BandZone places the close relative to the Bollinger bands.
func BandZone(frame types.IndicatorFrame) types.BandZone {
	switch {
	case frame.Close < frame.Lower:
		return types.BandZoneBuy
	case frame.Close > frame.Upper:
		return types.BandZoneSell
	default:
		return types.BandZoneNeutral
	}
}

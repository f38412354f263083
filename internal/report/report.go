// Package report renders backtest results, optimizer reports and live decisions
// for the terminal.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/coinify-labs/coinify-bot/internal/optimizer"
	"github.com/coinify-labs/coinify-bot/internal/types"
)

// Style definitions.
var (
	// TitleStyle for headers.
	TitleStyle = lipgloss.NewStyle().Bold(true)

	// LabelStyle for the left column of key/value blocks.
	LabelStyle = lipgloss.NewStyle().Faint(true).Width(18)

	// GainStyle for positive returns.
	GainStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

	// LossStyle for negative returns.
	LossStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	// BoxStyle frames a rendered block.
	BoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// FormatReturn formats a fractional return as a signed percentage colored by sign.
func FormatReturn(r float64) string {
	text := fmt.Sprintf("%+.2f%%", r*100)

	switch {
	case r > 0:
		return GainStyle.Render(text)
	case r < 0:
		return LossStyle.Render(text)
	default:
		return text
	}
}

// FormatParams renders the tunable parameters on one line.
func FormatParams(p types.StrategyParams) string {
	return fmt.Sprintf("ema %d/%d  rsi %d (%.0f/%.0f)  bb %d x%.1f  sma %d",
		p.EMAFast, p.EMASlow, p.RSIPeriod, p.RSIOversold, p.RSIOverbought, p.BBPeriod, p.BBStdDev, p.SMALong)
}

func row(label string, value string) string {
	return LabelStyle.Render(label) + value
}

// Backtest renders the summary of one run, followed by its trade log.
func Backtest(result types.BacktestResult) string {
	lines := []string{
		TitleStyle.Render("Backtest " + result.ID),
		row("Symbol", result.Symbol),
		row("Parameters", FormatParams(result.Params)),
		row("Bars", fmt.Sprintf("%d", result.BarsProcessed)),
		row("Initial balance", fmt.Sprintf("%.2f", result.InitialBalance)),
		row("Final balance", fmt.Sprintf("%.2f", result.FinalBalance)),
		row("Total return", FormatReturn(result.TotalReturn)),
		row("Trades", fmt.Sprintf("%d (%d wins, %d losses)", result.TradeCount, result.Wins, result.Losses)),
		row("Win rate", fmt.Sprintf("%.1f%%", result.WinRate)),
	}

	if result.OpenPosition.IsLong() {
		lines = append(lines, row("Open position", fmt.Sprintf("long @ %.4f since %s",
			result.OpenPosition.EntryPrice, result.OpenPosition.EntryTime.Format("2006-01-02 15:04"))))
	}

	out := BoxStyle.Render(strings.Join(lines, "\n"))

	if len(result.Trades) > 0 {
		out += "\n" + Trades(result.Trades)
	}

	return out
}

// Trades renders the trade log, one round trip per line.
func Trades(trades []types.TradeRecord) string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render(fmt.Sprintf("%-17s %-17s %12s %12s %9s", "entry", "exit", "entry px", "exit px", "return")))

	for _, trade := range trades {
		fmt.Fprintf(&b, "\n%-17s %-17s %12.4f %12.4f %s",
			trade.EntryTime.Format("2006-01-02 15:04"),
			trade.ExitTime.Format("2006-01-02 15:04"),
			trade.EntryPrice,
			trade.ExitPrice,
			FormatReturn(trade.RealizedReturn),
		)
	}

	return b.String()
}

// Optimizer renders the grid search counts, the best combination and the top ranked results.
func Optimizer(r optimizer.Report, top int) string {
	lines := []string{
		TitleStyle.Render("Grid search"),
		row("Evaluated", fmt.Sprintf("%d", r.Evaluated)),
		row("Skipped", fmt.Sprintf("%d", r.Skipped)),
		row("Failed", fmt.Sprintf("%d", r.Failed)),
		row("Profitable", fmt.Sprintf("%d", len(r.Profitable))),
		"",
		TitleStyle.Render("Best"),
		row("Parameters", FormatParams(r.Best.Params)),
		row("Final balance", fmt.Sprintf("%.2f", r.Best.FinalBalance)),
		row("Total return", FormatReturn(r.Best.TotalReturn)),
		row("Trades", fmt.Sprintf("%d, win rate %.1f%%", r.Best.TradeCount, r.Best.WinRate)),
	}

	out := BoxStyle.Render(strings.Join(lines, "\n"))

	ranked := r.Results
	if top > 0 && len(ranked) > top {
		ranked = ranked[:top]
	}

	if len(ranked) == 0 {
		return out
	}

	var b strings.Builder

	b.WriteString(TitleStyle.Render(fmt.Sprintf("%4s  %-48s %12s %9s %7s", "#", "parameters", "balance", "return", "trades")))

	for i, result := range ranked {
		fmt.Fprintf(&b, "\n%4d  %-48s %12.2f %s %7d",
			i+1, FormatParams(result.Params), result.FinalBalance, FormatReturn(result.TotalReturn), result.TradeCount)
	}

	return out + "\n" + b.String()
}

// Decision renders one live decision on a single line.
func Decision(d types.Decision) string {
	line := fmt.Sprintf("%s %s close=%.4f signal=%s action=%s confluence=%s (%d/4) bands=%s position=%s",
		d.BarTime.Format("2006-01-02 15:04"),
		d.Symbol,
		d.Close,
		d.Signal,
		d.Action,
		d.Confluence.Decision,
		d.Confluence.Score,
		d.BandZone,
		d.Position.State,
	)

	if d.Trade != nil {
		line += " return=" + FormatReturn(d.Trade.RealizedReturn)
	}

	return line
}

package notifier

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"GoldenCross/internal/model"
	"GoldenCross/internal/recorder"
)

// FormatPercent renders a fractional return as a signed percentage, e.g. 0.1 -> "+10.00%".
// Non-finite values render as "n/a".
func FormatPercent(r float64) string {
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return "n/a"
	}
	d := decimal.NewFromFloat(r).Mul(decimal.NewFromInt(100)).Round(2)
	if d.IsPositive() {
		return "+" + d.StringFixed(2) + "%"
	}
	return d.StringFixed(2) + "%"
}

// FormatSummary renders the final returns of both curves and whether the
// strategy beat buy-and-hold. The text carries no markup.
func FormatSummary(finalMarket, finalStrategy float64) string {
	var b strings.Builder
	b.WriteString(strings.Repeat("=", 30) + "\n")
	b.WriteString("💰 回测结果报告\n")
	b.WriteString(fmt.Sprintf("1. 买入持有收益率: %s\n", FormatPercent(finalMarket)))
	b.WriteString(fmt.Sprintf("2. 均线策略收益率: %s\n", FormatPercent(finalStrategy)))
	if finalStrategy > finalMarket {
		b.WriteString("🏆 策略跑赢了买入持有\n")
	} else {
		b.WriteString("📉 策略没有跑赢买入持有\n")
	}
	b.WriteString(strings.Repeat("=", 30) + "\n")
	return b.String()
}

// FormatReport formats a full run for Telegram (HTML parse mode).
func FormatReport(r *model.Report) string {
	var b strings.Builder
	s := r.Series

	b.WriteString(fmt.Sprintf("📊 <b>GoldenCross 回测</b> | %s\n\n", r.GeneratedAt.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("标的: %s | MA%d / MA%d\n", s.Symbol(), r.FastWindow, r.SlowWindow))
	if s.Len() > 0 {
		b.WriteString(fmt.Sprintf("区间: %s ~ %s (%d 个交易日)\n",
			s.At(0).Date.Format("2006-01-02"), s.At(s.Len()-1).Date.Format("2006-01-02"), s.Len()))
	}
	b.WriteString(fmt.Sprintf("数据源: %s\n", s.Source()))
	if s.Synthetic() {
		b.WriteString("⚠️ <b>using synthetic data</b>: 行情源不可用, 结果基于模拟数据\n")
	}
	if r.InsufficientHistory {
		b.WriteString(fmt.Sprintf("⚠️ 历史数据不足 %d 天, 慢线全部未定义, 没有交易信号\n", r.SlowWindow))
	}
	b.WriteString("\n")

	res := r.Result
	b.WriteString(fmt.Sprintf("买入持有: %s\n", FormatPercent(res.FinalMarketReturn)))
	b.WriteString(fmt.Sprintf("均线策略: %s\n", FormatPercent(res.FinalStrategyReturn)))
	b.WriteString(FormatMetrics(r.Metrics))
	if r.BeatMarket() {
		b.WriteString("\n🏆 策略跑赢了买入持有")
	} else {
		b.WriteString("\n📉 策略没有跑赢买入持有")
	}
	return b.String()
}

// FormatMetrics formats drawdowns, exposure and trade counts.
func FormatMetrics(m model.Metrics) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("最大回撤: 市场 %s | 策略 %s\n",
		FormatPercent(-m.MaxDrawdownMarket), FormatPercent(-m.MaxDrawdownStrategy)))
	b.WriteString(fmt.Sprintf("持仓占比: %s\n", decimal.NewFromFloat(m.Exposure*100).StringFixed(1)+"%"))
	b.WriteString(fmt.Sprintf("金叉 %d 次 | 死叉 %d 次 | 完整交易 %d 笔\n", m.BuySignals, m.SellSignals, m.RoundTrips))
	return b.String()
}

// FormatRunRecord formats a stored run for the /last command.
func FormatRunRecord(rec *recorder.RunRecord) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🗂 <b>上次回测</b> | %s\n\n", rec.CreatedAt.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("标的: %s | MA%d / MA%d\n", rec.Symbol, rec.FastWindow, rec.SlowWindow))
	b.WriteString(fmt.Sprintf("区间: %s ~ %s (%d 个交易日)\n",
		rec.Start.Format("2006-01-02"), rec.End.Format("2006-01-02"), rec.Bars))
	b.WriteString(fmt.Sprintf("数据源: %s", rec.Source))
	if rec.Synthetic {
		b.WriteString(" (synthetic data)")
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("买入持有: %s | 均线策略: %s\n",
		FormatPercent(rec.FinalMarketReturn), FormatPercent(rec.FinalStrategyReturn)))
	if n := len(rec.Equity); n > 0 {
		p := rec.Equity[n-1]
		b.WriteString(fmt.Sprintf("最新持仓: %s | 收盘 %.2f (%s)\n", p.Position, p.Close, p.Date.Format("2006-01-02")))
	}
	b.WriteString(fmt.Sprintf("完整交易 %d 笔 | run %s", rec.RoundTrips, rec.RunID))
	return b.String()
}

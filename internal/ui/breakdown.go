package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/muurk/billwise/internal/billing"
)

const shareBarWidth = 20

var hundred = decimal.NewFromInt(100)

// Share is the part of the bill one charge accounts for
type Share struct {
	Item     billing.BreakdownItem
	Percent  decimal.Decimal // rounded to one decimal place
	Fraction float64         // 0.0 - 1.0, for bars
}

// ChargeShares splits the bill between its charges (energy, fixed, duty).
// It returns false when a charge is not a non-negative number or all charges
// are zero; the breakdown is then shown without shares.
func ChargeShares(b billing.Breakdown) ([]Share, bool) {
	items := b.Charges()
	amounts := make([]decimal.Decimal, len(items))
	total := decimal.Zero

	for i, item := range items {
		d, err := item.Value.Decimal()
		if err != nil || d.IsNegative() {
			return nil, false
		}
		amounts[i] = d
		total = total.Add(d)
	}
	if total.IsZero() {
		return nil, false
	}

	shares := make([]Share, len(items))
	for i, item := range items {
		ratio := amounts[i].Div(total)
		fraction, _ := ratio.Float64()
		shares[i] = Share{
			Item:     item,
			Percent:  ratio.Mul(hundred).Round(1),
			Fraction: fraction,
		}
	}
	return shares, true
}

// FormatTip returns a tip as it is displayed in a list
func FormatTip(tip string) string {
	return TipMarker + " " + tip
}

// RenderPrediction renders the predicted amount and its breakdown.
// Values are shown exactly as the service sent them.
func RenderPrediction(result *billing.PredictionResult, width int) string {
	if result == nil {
		return ""
	}
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	var lines []string
	lines = append(lines, "",
		ResultKeyStyle.Render("   Predicted amount:")+" "+AmountStyle.Render(result.PredictedAmount.String()),
		ResultKeyStyle.Render("   Tariff:")+" "+ResultValueStyle.Render(result.Tariff.String()),
		"",
	)

	shares, ok := ChargeShares(result.Breakdown)
	bar := progress.New(
		progress.WithSolidFill(string(PrimaryColor)),
		progress.WithWidth(shareBarWidth),
		progress.WithoutPercentage(),
	)

	valueWidth := 0
	for _, item := range result.Breakdown.Items() {
		if w := lipgloss.Width(item.Value.String()); w > valueWidth {
			valueWidth = w
		}
	}
	valueStyle := ResultValueStyle.Width(valueWidth + 2)

	for _, item := range result.Breakdown.Items() {
		line := ResultKeyStyle.Render("   "+item.Label+":") + " " + valueStyle.Render(item.Value.String())
		if ok {
			for _, s := range shares {
				if s.Item.Key == item.Key {
					line += bar.ViewAs(s.Fraction) + " " + ShareStyle.Render(s.Percent.StringFixed(1)+"%")
				}
			}
		}
		lines = append(lines, line)
	}
	lines = append(lines, "")

	return SuccessBoxStyle(width).Render(strings.Join(lines, "\n"))
}

// RenderTips renders the tips list. An empty list renders as an empty box.
func RenderTips(tips []string, width int) string {
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	lines := []string{"", HeaderTitleStyle.Render("SAVING TIPS"), ""}
	tipStyle := TipStyle.Width(width - 10)
	for _, tip := range tips {
		lines = append(lines, tipStyle.Render(FormatTip(tip)))
	}
	if len(tips) == 0 {
		lines = append(lines, ShareStyle.PaddingLeft(3).Render("(no tips)"))
	}
	lines = append(lines, "")

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(AccentColor).
		Width(width - 2).
		Render(strings.Join(lines, "\n"))
}

package tui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/mark3labs/smartagri/internal/i18n"
	"github.com/mark3labs/smartagri/internal/results"
	"github.com/mark3labs/smartagri/internal/tui/theme"
)

const gaugeWidth = 24

// renderResults draws the results screen body. cursor is the tip that
// receives enter/space.
func renderResults(p *results.Presenter, tr i18n.Translator, width, cursor int) string {
	if !p.Loaded() {
		return ""
	}
	t := func(key, fallback string) string { return i18n.Or(tr, key, fallback) }
	th := theme.Current()
	s := th.S()
	heading := lipgloss.NewStyle().Foreground(lipgloss.Color(th.Secondary)).Bold(true)
	wrap := lipgloss.NewStyle().Width(max(width-4, 20))

	var sections []string

	var crops []string
	for _, rc := range p.Ranking() {
		c := rc.Crop
		title := s.LabelFocused.Render(rc.Label) + " " + s.Value.Bold(true).Render(c.Name) +
			s.Muted.Render(fmt.Sprintf("  %s %.0f/100  ", t("score", "Score"), c.SuitabilityScore)) +
			bandStyle(rc.Band).Render(c.RiskLevel)
		lines := []string{title}
		lines = append(lines, "    "+s.Label.Render(t("estimated_profit", "Estimated Profit")+": ")+s.Value.Render(c.EstimatedProfit))
		lines = append(lines, "    "+s.Muted.Render(fmt.Sprintf("%s %s · %s %s · %s %s",
			t("yield_label", "Yield"), c.ExpectedYield,
			t("price", "Price"), c.PredictedPrice,
			t("cost", "Cost"), c.EstimatedCost)))
		if c.WhyThisCrop != "" {
			lines = append(lines, "    "+wrap.Render(s.Muted.Render(c.WhyThisCrop)))
		}
		crops = append(crops, strings.Join(lines, "\n"))
	}
	sections = append(sections, heading.Render(t("top_crop_recommendations", "Top Crop Recommendations"))+"\n"+strings.Join(crops, "\n\n"))

	if rows := p.MarketInsight(); len(rows) > 0 {
		lines := []string{heading.Render(t("market_insight", "Market Insight"))}
		for _, r := range rows {
			lines = append(lines, "  "+s.Label.Render(r.Label+": ")+s.Value.Render(r.Value))
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	g := p.RiskGauge()
	bar := bandStyle(g.Band).Render(results.GaugeBar(g, gaugeWidth))
	risk := []string{
		heading.Render(t("risk_assessment", "Risk Assessment")),
		"  " + bar + fmt.Sprintf(" %d%% ", g.Percent) + bandStyle(g.Band).Render(g.Level),
	}
	for _, f := range p.RiskFactors() {
		risk = append(risk, "  "+s.Label.Render(t(f.LabelKey, results.FormatKey(f.LabelKey))+": ")+bandStyle(f.Band).Render(f.Value))
	}
	sections = append(sections, strings.Join(risk, "\n"))

	if tips := p.Tips(); len(tips) > 0 {
		exp := p.Expansion()
		lines := []string{heading.Render(t("productivity_tips", "Productivity Tips"))}
		for i, tip := range tips {
			arrow := "▸"
			if exp.IsOpen(i) {
				arrow = "▾"
			}
			style := s.Value
			if i == cursor {
				style = s.LabelFocused
			}
			line := fmt.Sprintf("  %s %d. %s", arrow, i+1, style.Render(tip.Title))
			if tip.Category != "" {
				line += " " + s.Muted.Render("("+tip.Category+")")
			}
			lines = append(lines, line)
			if exp.IsOpen(i) {
				lines = append(lines, "      "+wrap.Render(s.Muted.Render(tip.Description)))
			}
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	return strings.Join(sections, "\n\n")
}

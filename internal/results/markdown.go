package results

import (
	"fmt"
	"strings"

	"charm.land/glamour/v2"

	"github.com/mark3labs/smartagri/internal/i18n"
	"github.com/mark3labs/smartagri/internal/recommend"
)

// Markdown renders res as a report with every tip expanded. Labels come from
// tr; a nil translator uses the built-in English fallbacks.
func Markdown(res *recommend.Result, tr i18n.Translator) string {
	if res == nil {
		return ""
	}
	t := func(key, fallback string) string { return i18n.Or(tr, key, fallback) }

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", t("top_crop_recommendations", "Top Crop Recommendations"))
	if res.State != "" || res.Season != "" {
		fmt.Fprintf(&b, "_%s · %s_\n\n", escape(res.State), escape(res.Season))
	}

	for _, rc := range Ranking(res) {
		c := rc.Crop
		fmt.Fprintf(&b, "## %s %s\n\n", rc.Label, escape(c.Name))
		fmt.Fprintf(&b, "- **%s:** %.0f/100\n", t("score", "Score"), c.SuitabilityScore)
		fmt.Fprintf(&b, "- **%s:** %s\n", t("estimated_profit", "Estimated Profit"), escape(c.EstimatedProfit))
		fmt.Fprintf(&b, "- **%s:** %s\n", t("yield_label", "Yield"), escape(c.ExpectedYield))
		fmt.Fprintf(&b, "- **%s:** %s\n", t("price", "Price"), escape(c.PredictedPrice))
		fmt.Fprintf(&b, "- **%s:** %s\n", t("cost", "Cost"), escape(c.EstimatedCost))
		fmt.Fprintf(&b, "- **%s:** %s\n", t("risk", "Risk"), escape(c.RiskLevel))
		if c.WhyThisCrop != "" {
			fmt.Fprintf(&b, "\n> **%s:** %s\n", t("why_this_crop", "Why this crop"), escape(c.WhyThisCrop))
		}
		b.WriteString("\n")
	}

	if rows := MarketInsight(res); len(rows) > 0 {
		fmt.Fprintf(&b, "## %s\n\n", t("market_insight", "Market Insight"))
		for _, r := range rows {
			fmt.Fprintf(&b, "- **%s:** %s\n", escape(r.Label), escape(r.Value))
		}
		b.WriteString("\n")
	}

	g := RiskGauge(res)
	fmt.Fprintf(&b, "## %s\n\n", t("risk_assessment", "Risk Assessment"))
	fmt.Fprintf(&b, "`%s` %d%% %s\n\n", GaugeBar(g, 20), g.Percent, escape(g.Level))
	for _, f := range RiskFactors(res) {
		fmt.Fprintf(&b, "- **%s:** %s\n", t(f.LabelKey, FormatKey(f.LabelKey)), escape(f.Value))
	}
	b.WriteString("\n")

	if len(res.ProductivityTips) > 0 {
		fmt.Fprintf(&b, "## %s\n\n", t("productivity_tips", "Productivity Tips"))
		for i, tip := range res.ProductivityTips {
			fmt.Fprintf(&b, "%d. **%s**", i+1, escape(tip.Title))
			if tip.Category != "" {
				fmt.Fprintf(&b, " _(%s)_", escape(tip.Category))
			}
			fmt.Fprintf(&b, "\n   %s\n", escape(tip.Description))
		}
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"#", `\#`,
	">", `\>`,
	"<", `\<`,
	"|", `\|`,
	"~", `\~`,
)

// escape makes a service-supplied value render literally.
func escape(s string) string {
	s = markdownEscaper.Replace(s)
	digits := 0
	for digits < len(s) && s[digits] >= '0' && s[digits] <= '9' {
		digits++
	}
	switch {
	case digits > 0 && listMarker(s[digits:]):
		return s[:digits] + `\` + s[digits:]
	case digits == 0 && (strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+")):
		return `\` + s
	}
	return s
}

// listMarker reports whether rest starts an ordered list item after a number.
func listMarker(rest string) bool {
	if rest == "" || (rest[0] != '.' && rest[0] != ')') {
		return false
	}
	return len(rest) == 1 || rest[1] == ' ' || rest[1] == '\t'
}

// GaugeBar draws the gauge as a fixed-width text bar.
func GaugeBar(g Gauge, width int) string {
	width = max(width, 0)
	filled := min(max(g.Filled(width), 0), width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// RenderMarkdown renders markdown for the terminal. It falls back to the raw
// markdown when glamour cannot render it.
func RenderMarkdown(md string, width int) string {
	if width <= 0 || width > 120 {
		width = 120
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}

	rendered, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimSuffix(rendered, "\n")
}

// Package results turns a recommendation result into display-ready pieces:
// the crop ranking, the risk gauge, market insight rows, and the productivity
// tip accordion. Every function here is a pure function of the result.
package results

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/mark3labs/smartagri/internal/recommend"
)

// Band is the colour band of a risk level.
type Band int

const (
	BandMedium Band = iota
	BandLow
	BandHigh
)

func (b Band) String() string {
	switch b {
	case BandLow:
		return "low"
	case BandHigh:
		return "high"
	default:
		return "medium"
	}
}

// Classify bands a free-text risk level by substring: anything containing
// "Low" is low, then anything containing "High" is high, the rest medium.
// "Medium-Low" is therefore low.
func Classify(level string) Band {
	switch {
	case strings.Contains(level, "Low"):
		return BandLow
	case strings.Contains(level, "High"):
		return BandHigh
	default:
		return BandMedium
	}
}

// RankedCrop is a crop with its 1-indexed display rank.
type RankedCrop struct {
	Rank  int
	Label string
	Crop  recommend.Crop
	Band  Band
}

// Ranking returns the crops in the order the service sent them.
// Suitability scores are never used to reorder.
func Ranking(res *recommend.Result) []RankedCrop {
	if res == nil {
		return nil
	}
	out := make([]RankedCrop, len(res.Crops))
	for i, c := range res.Crops {
		out[i] = RankedCrop{
			Rank:  i + 1,
			Label: fmt.Sprintf("#%d", i+1),
			Crop:  c,
			Band:  Classify(c.RiskLevel),
		}
	}
	return out
}

// Gauge is the overall risk indicator.
type Gauge struct {
	Fraction float64 // filled proportion in [0,1]
	Percent  int
	Level    string
	Band     Band
}

// RiskGauge builds the gauge from the overall score and level.
func RiskGauge(res *recommend.Result) Gauge {
	if res == nil {
		return Gauge{}
	}
	ra := res.RiskAssessment
	f := ra.OverallScore
	if math.IsNaN(f) || f < 0 {
		f = 0
	} else if f > 1 {
		f = 1
	}
	return Gauge{
		Fraction: f,
		Percent:  int(math.Round(f * 100)),
		Level:    ra.OverallLevel,
		Band:     Classify(ra.OverallLevel),
	}
}

// Filled returns how many of width cells the gauge fills.
func (g Gauge) Filled(width int) int {
	if width <= 0 {
		return 0
	}
	return int(math.Round(g.Fraction * float64(width)))
}

// RiskFactor is one of the individual risk dimensions.
type RiskFactor struct {
	LabelKey string
	Value    string
	Band     Band
}

// RiskFactors lists climate, water, market, and pest risk in that order.
func RiskFactors(res *recommend.Result) []RiskFactor {
	if res == nil {
		return nil
	}
	ra := res.RiskAssessment
	factors := []RiskFactor{
		{LabelKey: "climate_risk", Value: ra.ClimateRisk},
		{LabelKey: "water_risk", Value: ra.WaterRisk},
		{LabelKey: "market_risk", Value: ra.MarketRisk},
		{LabelKey: "pest_risk", Value: ra.PestRisk},
	}
	for i := range factors {
		factors[i].Band = Classify(factors[i].Value)
	}
	return factors
}

// InsightRow is one market insight entry.
type InsightRow struct {
	Key   string
	Label string
	Value string
}

// MarketInsight returns every insight entry in response order.
// Values are passed through untouched.
func MarketInsight(res *recommend.Result) []InsightRow {
	if res == nil {
		return nil
	}
	rows := make([]InsightRow, 0, res.MarketInsight.Len())
	res.MarketInsight.Each(func(k, v string) {
		rows = append(rows, InsightRow{Key: k, Label: FormatKey(k), Value: v})
	})
	return rows
}

// FormatKey turns "best_selling_window" into "Best Selling Window".
func FormatKey(key string) string {
	words := strings.Fields(strings.ReplaceAll(key, "_", " "))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

package results

import "github.com/mark3labs/smartagri/internal/recommend"

// Expansion is the productivity tip accordion: either nothing is open or
// exactly one index is. The zero value has nothing open.
type Expansion struct {
	open  int
	isSet bool
}

// Toggle opens tip i, collapsing any other. Toggling the open tip closes it.
func (e *Expansion) Toggle(i int) {
	if e.isSet && e.open == i {
		e.isSet = false
		return
	}
	e.open, e.isSet = i, true
}

// IsOpen reports whether tip i is expanded.
func (e Expansion) IsOpen(i int) bool {
	return e.isSet && e.open == i
}

// Open returns the expanded index, if any.
func (e Expansion) Open() (int, bool) {
	return e.open, e.isSet
}

// Collapse closes every tip.
func (e *Expansion) Collapse() {
	e.isSet = false
}

// Presenter holds the result on screen and its tip expansion.
type Presenter struct {
	result    *recommend.Result
	expansion Expansion
}

// Load shows res. Tip expansion starts collapsed for every new result.
func (p *Presenter) Load(res *recommend.Result) {
	p.result = res
	p.expansion.Collapse()
}

// Clear drops the result.
func (p *Presenter) Clear() {
	p.result = nil
	p.expansion.Collapse()
}

// Result returns the loaded result or nil.
func (p *Presenter) Result() *recommend.Result { return p.result }

// Loaded reports whether a result is shown.
func (p *Presenter) Loaded() bool { return p.result != nil }

// ToggleTip toggles tip i. Indices outside the tip list are ignored.
func (p *Presenter) ToggleTip(i int) {
	if p.result == nil || i < 0 || i >= len(p.result.ProductivityTips) {
		return
	}
	p.expansion.Toggle(i)
}

// Expansion returns the tip accordion state.
func (p *Presenter) Expansion() Expansion { return p.expansion }

// Ranking, RiskGauge, RiskFactors, and MarketInsight of the loaded result.
func (p *Presenter) Ranking() []RankedCrop { return Ranking(p.result) }

func (p *Presenter) RiskGauge() Gauge { return RiskGauge(p.result) }

func (p *Presenter) RiskFactors() []RiskFactor { return RiskFactors(p.result) }

func (p *Presenter) MarketInsight() []InsightRow { return MarketInsight(p.result) }

// Tips returns the productivity tips of the loaded result.
func (p *Presenter) Tips() []recommend.Tip {
	if p.result == nil {
		return nil
	}
	return p.result.ProductivityTips
}

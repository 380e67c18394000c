// Package recommend is the boundary to the crop recommendation service: the
// request contract, the result shape, and the HTTP client.
package recommend

import (
	"bytes"
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Request is the body of POST /recommend/.
type Request struct {
	State          string      `json:"state" yaml:"state"`
	District       string      `json:"district" yaml:"district"`
	LandSizeAcres  float64     `json:"land_size_acres" yaml:"land_size_acres"`
	IrrigationType string      `json:"irrigation_type" yaml:"irrigation_type"`
	PreviousCrop   string      `json:"previous_crop" yaml:"previous_crop"`
	Soil           SoilData    `json:"soil" yaml:"soil"`
	Weather        WeatherData `json:"weather" yaml:"weather"`
}

// SoilData is the soil sub-object of Request.
type SoilData struct {
	N        float64 `json:"N" yaml:"N"`
	P        float64 `json:"P" yaml:"P"`
	K        float64 `json:"K" yaml:"K"`
	PH       float64 `json:"ph" yaml:"ph"`
	SoilType string  `json:"soil_type" yaml:"soil_type"`
}

// WeatherData is the weather sub-object of Request.
type WeatherData struct {
	Temperature float64 `json:"temperature" yaml:"temperature"`
	Humidity    float64 `json:"humidity" yaml:"humidity"`
	Rainfall    float64 `json:"rainfall" yaml:"rainfall"`
	Season      string  `json:"season" yaml:"season"`
}

// QuickRequest is the flat body of POST /recommend/quick.
type QuickRequest struct {
	State          string  `json:"state"`
	Season         string  `json:"season"`
	SoilType       string  `json:"soil_type"`
	IrrigationType string  `json:"irrigation_type"`
	N              float64 `json:"N"`
	P              float64 `json:"P"`
	K              float64 `json:"K"`
	PH             float64 `json:"ph"`
	Temperature    float64 `json:"temperature"`
	Humidity       float64 `json:"humidity"`
	Rainfall       float64 `json:"rainfall"`
}

// Result is a complete recommendation as returned by the service.
// It is never modified after decoding.
type Result struct {
	ID               *int           `json:"id,omitempty"`
	State            string         `json:"state"`
	Season           string         `json:"season"`
	Crops            []Crop         `json:"crops"`
	MarketInsight    MarketInsight  `json:"market_insight"`
	RiskAssessment   RiskAssessment `json:"risk_assessment"`
	ProductivityTips []Tip          `json:"productivity_tips"`
}

// Crop is one ranked crop. Rank is its position in Result.Crops.
type Crop struct {
	Name             string  `json:"name"`
	SuitabilityScore float64 `json:"suitability_score"`
	ExpectedYield    string  `json:"expected_yield"`
	PredictedPrice   string  `json:"predicted_price"`
	EstimatedCost    string  `json:"estimated_cost"`
	EstimatedProfit  string  `json:"estimated_profit"`
	RiskLevel        string  `json:"risk_level"`
	WhyThisCrop      string  `json:"why_this_crop"`
}

// RiskAssessment summarises the overall risk of the top recommendation.
type RiskAssessment struct {
	OverallScore float64 `json:"overall_score"` // 0..1
	OverallLevel string  `json:"overall_level"`
	ClimateRisk  string  `json:"climate_risk"`
	WaterRisk    string  `json:"water_risk"`
	MarketRisk   string  `json:"market_risk"`
	PestRisk     string  `json:"pest_risk"`
}

// Tip is a single productivity suggestion.
type Tip struct {
	Title       string `json:"title"`
	Category    string `json:"category"` // rotation, water, sowing, nutrient, intercropping, soil
	Description string `json:"description"`
}

// MarketInsight is a string-to-string mapping that keeps the key order of
// the response body.
type MarketInsight struct {
	m *orderedmap.OrderedMap[string, string]
}

// NewMarketInsight builds an insight from alternating key/value arguments.
func NewMarketInsight(kv ...string) MarketInsight {
	om := orderedmap.New[string, string]()
	for i := 0; i+1 < len(kv); i += 2 {
		om.Set(kv[i], kv[i+1])
	}
	return MarketInsight{m: om}
}

// Len returns the number of entries.
func (mi MarketInsight) Len() int {
	if mi.m == nil {
		return 0
	}
	return mi.m.Len()
}

// Get returns the value stored under key.
func (mi MarketInsight) Get(key string) (string, bool) {
	if mi.m == nil {
		return "", false
	}
	return mi.m.Get(key)
}

// Each calls fn for every entry in insertion order.
func (mi MarketInsight) Each(fn func(key, value string)) {
	if mi.m == nil {
		return
	}
	for pair := mi.m.Oldest(); pair != nil; pair = pair.Next() {
		fn(pair.Key, pair.Value)
	}
}

// Keys returns the keys in insertion order.
func (mi MarketInsight) Keys() []string {
	keys := make([]string, 0, mi.Len())
	mi.Each(func(k, _ string) { keys = append(keys, k) })
	return keys
}

// MarshalJSON implements json.Marshaler.
func (mi MarketInsight) MarshalJSON() ([]byte, error) {
	if mi.m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(mi.m)
}

// UnmarshalJSON implements json.Unmarshaler.
func (mi *MarketInsight) UnmarshalJSON(data []byte) error {
	om := orderedmap.New[string, string]()
	if !bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		if err := json.Unmarshal(data, om); err != nil {
			return fmt.Errorf("decoding market_insight: %w", err)
		}
	}
	mi.m = om
	return nil
}

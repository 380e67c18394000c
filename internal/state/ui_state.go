// Package state remembers the last submitted farm inputs between runs so the
// wizard can start from them.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/smartagri/internal/farm"
	"github.com/mark3labs/smartagri/internal/logger"
	"github.com/mark3labs/smartagri/internal/recommend"
)

const fileName = "ui-state.json"

// UIState holds preferences that carry across runs.
type UIState struct {
	LastRequest *recommend.Request `json:"last_request,omitempty"`
}

// DefaultUIState returns an empty state.
func DefaultUIState() *UIState {
	return &UIState{}
}

// Load reads the UI state from <dataDir>/ui-state.json.
// Returns default state if the file doesn't exist or on error.
func Load(dataDir string) *UIState {
	path := filepath.Join(dataDir, fileName)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultUIState()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("Failed to read UI state file: %v", err)
		return DefaultUIState()
	}

	var state UIState
	if err := json.Unmarshal(data, &state); err != nil {
		logger.Warn("Failed to parse UI state JSON: %v", err)
		return DefaultUIState()
	}
	return &state
}

// Save writes the UI state to <dataDir>/ui-state.json.
// Creates the data directory if it doesn't exist.
func Save(dataDir string, state *UIState) error {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	path := filepath.Join(dataDir, fileName)
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling UI state: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing UI state file: %w", err)
	}

	logger.Debug("UI state saved to %s", path)
	return nil
}

// Remember records req as the last submitted inputs.
func (s *UIState) Remember(req recommend.Request) {
	s.LastRequest = &req
}

// Restore writes the remembered inputs into m. Values that no longer pass
// validation are skipped and keep their defaults.
func (s *UIState) Restore(m *farm.Model) {
	if s.LastRequest == nil {
		return
	}
	r := s.LastRequest
	values := []struct {
		field farm.Field
		value any
	}{
		{farm.FieldState, r.State},
		{farm.FieldDistrict, r.District},
		{farm.FieldLandSizeAcres, r.LandSizeAcres},
		{farm.FieldIrrigationType, r.IrrigationType},
		{farm.FieldPreviousCrop, r.PreviousCrop},
		{farm.FieldN, r.Soil.N},
		{farm.FieldP, r.Soil.P},
		{farm.FieldK, r.Soil.K},
		{farm.FieldPH, r.Soil.PH},
		{farm.FieldSoilType, r.Soil.SoilType},
		{farm.FieldTemperature, r.Weather.Temperature},
		{farm.FieldHumidity, r.Weather.Humidity},
		{farm.FieldRainfall, r.Weather.Rainfall},
		{farm.FieldSeason, r.Weather.Season},
	}
	for _, v := range values {
		if err := m.Set(v.field, v.value); err != nil {
			logger.Warn("Ignoring remembered %s: %v", v.field, err)
		}
	}
}

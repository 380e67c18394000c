package farm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	m := New()
	v := m.Snapshot()

	require.Equal(t, "", v.State)
	require.Equal(t, 2.0, v.LandSizeAcres)
	require.Equal(t, "Rainfed", v.IrrigationType)
	require.Equal(t, 60.0, v.N)
	require.Equal(t, 40.0, v.P)
	require.Equal(t, 40.0, v.K)
	require.Equal(t, 6.5, v.PH)
	require.Equal(t, "Loamy", v.SoilType)
	require.Equal(t, 28.0, v.Temperature)
	require.Equal(t, 70.0, v.Humidity)
	require.Equal(t, 150.0, v.Rainfall)
	require.Equal(t, "Kharif", v.Season)
}

func TestSet_NumericRange(t *testing.T) {
	tests := []struct {
		field Field
		below float64
		above float64
		in    float64
	}{
		{FieldLandSizeAcres, 0.4, 50.5, 12.5},
		{FieldN, -1, 151, 0},
		{FieldP, -0.1, 150.1, 150},
		{FieldK, -5, 251, 250},
		{FieldPH, 3.4, 10.1, 3.5},
		{FieldTemperature, 4, 46, 45},
		{FieldHumidity, 4.9, 101, 5},
		{FieldRainfall, -1, 401, 400},
	}

	for _, tt := range tests {
		t.Run(string(tt.field), func(t *testing.T) {
			m := New()
			before := m.Number(tt.field)

			for _, bad := range []float64{tt.below, tt.above} {
				err := m.Set(tt.field, bad)
				var rangeErr *OutOfRangeError
				require.ErrorAs(t, err, &rangeErr)
				assert.Equal(t, tt.field, rangeErr.Field)
				assert.Equal(t, bad, rangeErr.Value)
				assert.Equal(t, before, m.Number(tt.field), "rejected write must not change the value")
			}

			require.NoError(t, m.Set(tt.field, tt.in))
			assert.Equal(t, tt.in, m.Number(tt.field))
		})
	}
}

func TestSet_AcceptsInt(t *testing.T) {
	m := New()
	require.NoError(t, m.Set(FieldK, 120))
	require.Equal(t, 120.0, m.Number(FieldK))
}

func TestSet_Enums(t *testing.T) {
	m := New()

	require.NoError(t, m.Set(FieldState, "Punjab"))
	require.Equal(t, "Punjab", m.Text(FieldState))

	err := m.Set(FieldState, "Atlantis")
	var optErr *InvalidOptionError
	require.ErrorAs(t, err, &optErr)
	require.Equal(t, "Punjab", m.Text(FieldState))

	// state can be cleared, season cannot
	require.NoError(t, m.Set(FieldState, ""))
	require.Error(t, m.Set(FieldSeason, ""))
	require.Equal(t, "Kharif", m.Text(FieldSeason))

	require.NoError(t, m.Set(FieldIrrigationType, "Drip"))
	require.NoError(t, m.Set(FieldSoilType, "Laterite"))
	require.NoError(t, m.Set(FieldSeason, "Rabi"))
}

func TestSet_TypeAndUnknown(t *testing.T) {
	m := New()

	var typeErr *TypeError
	require.ErrorAs(t, m.Set(FieldN, "60"), &typeErr)
	require.ErrorAs(t, m.Set(FieldDistrict, 3), &typeErr)

	err := m.Set(Field("altitude"), 1.0)
	require.True(t, errors.Is(err, ErrUnknownField))

	_, err = m.Get(Field("altitude"))
	require.True(t, errors.Is(err, ErrUnknownField))
}

func TestGet(t *testing.T) {
	m := New()
	require.NoError(t, m.Set(FieldDistrict, "Ludhiana"))

	v, err := m.Get(FieldDistrict)
	require.NoError(t, err)
	require.Equal(t, "Ludhiana", v)

	v, err = m.Get(FieldPH)
	require.NoError(t, err)
	require.Equal(t, 6.5, v)
}

func TestValidate(t *testing.T) {
	m := New()

	res := m.Validate(GroupLocation)
	require.False(t, res.Valid)
	require.Contains(t, res.Errors, FieldState)

	// soil and weather are never blocking
	require.True(t, m.Validate(GroupSoil).Valid)
	require.True(t, m.Validate(GroupWeather).Valid)

	require.NoError(t, m.Set(FieldState, "Kerala"))
	res = m.Validate(GroupLocation)
	require.True(t, res.Valid)
	require.Empty(t, res.Errors)
}

func TestReset(t *testing.T) {
	m := New()
	require.NoError(t, m.Set(FieldState, "Bihar"))
	require.NoError(t, m.Set(FieldRainfall, 10.0))

	m.Reset()
	require.Equal(t, Defaults(), m.Snapshot())
}

func TestSpec_Nudge(t *testing.T) {
	ph, ok := Spec(FieldPH)
	require.True(t, ok)
	require.Equal(t, 6.6, ph.Nudge(6.5, 1))
	require.Equal(t, 10.0, ph.Nudge(9.95, 3))
	require.Equal(t, 3.5, ph.Nudge(3.6, -5))

	land, _ := Spec(FieldLandSizeAcres)
	require.Equal(t, 2.5, land.Nudge(2, 1))
	require.Equal(t, 0.5, land.Nudge(0.5, -1))
}

func TestFieldsIn(t *testing.T) {
	require.Equal(t, []Field{FieldState, FieldDistrict, FieldLandSizeAcres, FieldIrrigationType, FieldPreviousCrop}, FieldsIn(GroupLocation))
	require.Len(t, FieldsIn(GroupSoil), 5)
	require.Len(t, FieldsIn(GroupWeather), 4)
	require.Len(t, Fields(), 14)
}

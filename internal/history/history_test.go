package history

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mark3labs/smartagri/internal/nats"
	"github.com/mark3labs/smartagri/internal/recommend"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	e, err := nats.Start(context.Background(), t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })

	s := NewStore(e.JetStream, e.Stream)
	base := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}
	return s
}

func request(state, season string, n float64) recommend.Request {
	return recommend.Request{
		State:          state,
		LandSizeAcres:  2,
		IrrigationType: "Rainfed",
		Soil:           recommend.SoilData{N: n, P: 40, K: 40, PH: 6.5, SoilType: "Loamy"},
		Weather:        recommend.WeatherData{Temperature: 28, Humidity: 70, Rainfall: 150, Season: season},
	}
}

func result(crop string) *recommend.Result {
	return &recommend.Result{
		Crops:         []recommend.Crop{{Name: crop, SuitabilityScore: 80}},
		MarketInsight: recommend.NewMarketInsight("current_trend", "Stable", "demand_outlook", "Strong"),
	}
}

func TestSaveAndList(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	first, err := s.Save(ctx, recommend.EndpointRecommend, request("Punjab", "Kharif", 60), result("Rice"))
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)

	_, err = s.Save(ctx, recommend.EndpointRecommend, request("Tamil Nadu", "Rabi", 80), result("Groundnut"))
	require.NoError(t, err)
	third, err := s.Save(ctx, recommend.EndpointQuick, request("Punjab", "Rabi", 90), result("Wheat"))
	require.NoError(t, err)

	all, err := s.List(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, third.ID, all[0].ID, "newest first")
	require.Equal(t, "Wheat", all[0].TopCrop())
	require.Equal(t, recommend.EndpointQuick, all[0].Endpoint)
	require.Equal(t, []string{"current_trend", "demand_outlook"}, all[2].Result.MarketInsight.Keys())

	punjab, err := s.List(ctx, "Punjab", 0)
	require.NoError(t, err)
	require.Len(t, punjab, 2)
	for _, r := range punjab {
		require.Equal(t, "Punjab", r.Request.State)
	}

	limited, err := s.List(ctx, "", 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
}

func TestList_Empty(t *testing.T) {
	s := newTestStore(t)
	records, err := s.List(context.Background(), "", 0)
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestSave_RejectsNilResult(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Save(context.Background(), recommend.EndpointRecommend, request("Bihar", "Rabi", 60), nil)
	require.Error(t, err)
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	rec, err := s.Save(ctx, recommend.EndpointRecommend, request("Kerala", "Kharif", 60), result("Coconut"))
	require.NoError(t, err)

	got, err := s.Get(ctx, rec.ID)
	require.NoError(t, err)
	require.Equal(t, rec.ID, got.ID)
	require.Equal(t, "Coconut", got.TopCrop())

	got, err = s.Get(ctx, rec.ID[:12])
	require.NoError(t, err)
	require.Equal(t, rec.ID, got.ID)

	_, err = s.Get(ctx, "nonexistent")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get(ctx, "")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDiff(t *testing.T) {
	a := &Record{ID: "a", Request: request("Punjab", "Kharif", 60)}
	b := &Record{ID: "b", Request: request("Punjab", "Rabi", 60)}

	d, err := Diff(a, b)
	require.NoError(t, err)
	require.Contains(t, d, "--- a")
	require.Contains(t, d, "+++ b")
	require.Contains(t, d, "-    season: Kharif")
	require.Contains(t, d, "+    season: Rabi")

	same, err := Diff(a, a)
	require.NoError(t, err)
	require.Empty(t, same)
}

func TestRecord_TopCropEmpty(t *testing.T) {
	require.Equal(t, "", Record{}.TopCrop())
}

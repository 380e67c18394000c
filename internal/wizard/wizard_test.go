package wizard

import (
	"context"
	"errors"
	"testing"

	"github.com/mark3labs/smartagri/internal/farm"
	"github.com/mark3labs/smartagri/internal/i18n"
	"github.com/mark3labs/smartagri/internal/recommend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeSubmitter records every request and replies with a fixed outcome.
type fakeSubmitter struct {
	calls  []recommend.Request
	result *recommend.Result
	err    error
}

func (f *fakeSubmitter) Submit(_ context.Context, req recommend.Request) (*recommend.Result, error) {
	f.calls = append(f.calls, req)
	return f.result, f.err
}

func sampleResult() *recommend.Result {
	return &recommend.Result{
		State:  "Punjab",
		Season: "Kharif",
		Crops: []recommend.Crop{
			{Name: "Rice", SuitabilityScore: 82},
			{Name: "Maize", SuitabilityScore: 77},
		},
		MarketInsight:  recommend.NewMarketInsight("current_trend", "Stable"),
		RiskAssessment: recommend.RiskAssessment{OverallScore: 0.42, OverallLevel: "Medium"},
	}
}

func toWeather(t *testing.T, w *Wizard) {
	t.Helper()
	require.NoError(t, w.Set(farm.FieldState, "Punjab"))
	require.NoError(t, w.Next(context.Background()))
	require.NoError(t, w.Next(context.Background()))
	require.Equal(t, StepWeather, w.Step())
}

func TestNew_StartsAtLocationWithDefaults(t *testing.T) {
	w := New(&fakeSubmitter{})
	assert.Equal(t, StepLocation, w.Step())
	assert.Equal(t, farm.Defaults(), w.Fields())
	assert.False(t, w.Loading())
	assert.Nil(t, w.Result())
	assert.Empty(t, w.ErrorMessage())
}

func TestNext_LocationRequiresState(t *testing.T) {
	w := New(&fakeSubmitter{})

	err := w.Next(context.Background())
	var vf *ValidationFailedError
	require.ErrorAs(t, err, &vf)
	assert.Equal(t, StepLocation, vf.Step)
	assert.Contains(t, vf.Errors, farm.FieldState)
	assert.Equal(t, StepLocation, w.Step())

	require.NoError(t, w.Set(farm.FieldState, "Kerala"))
	require.NoError(t, w.Next(context.Background()))
	assert.Equal(t, StepSoil, w.Step())
}

func TestBack_IsLeftInverseOfNext(t *testing.T) {
	w := New(&fakeSubmitter{})
	require.NoError(t, w.Set(farm.FieldState, "Bihar"))
	before := w.Fields()

	require.NoError(t, w.Next(context.Background()))
	require.NoError(t, w.Back())
	assert.Equal(t, StepLocation, w.Step())
	assert.Equal(t, before, w.Fields())

	require.NoError(t, w.Next(context.Background()))
	require.NoError(t, w.Next(context.Background()))
	require.NoError(t, w.Back())
	assert.Equal(t, StepSoil, w.Step())
	assert.Equal(t, before, w.Fields())
}

func TestBack_NoOpAtLocation(t *testing.T) {
	w := New(&fakeSubmitter{})
	require.NoError(t, w.Back())
	assert.Equal(t, StepLocation, w.Step())
}

func TestNext_FromWeatherSuccess(t *testing.T) {
	sub := &fakeSubmitter{result: sampleResult()}
	w := New(sub)
	toWeather(t, w)
	require.NoError(t, w.Set(farm.FieldRainfall, 220.0))

	require.NoError(t, w.Next(context.Background()))
	assert.Equal(t, StepResults, w.Step())
	require.Len(t, sub.calls, 1)
	assert.Equal(t, 220.0, sub.calls[0].Weather.Rainfall)
	assert.Equal(t, "Punjab", sub.calls[0].State)
	assert.Equal(t, "Rice", w.Result().Crops[0].Name)
	assert.False(t, w.Loading())
}

func TestResults_IsTerminal(t *testing.T) {
	sub := &fakeSubmitter{result: sampleResult()}
	w := New(sub)
	toWeather(t, w)
	require.NoError(t, w.Next(context.Background()))

	require.NoError(t, w.Back())
	assert.Equal(t, StepResults, w.Step())
	require.NoError(t, w.Next(context.Background()))
	assert.Equal(t, StepResults, w.Step())
	assert.Len(t, sub.calls, 1)
}

func TestNext_EmptyStateReachesServiceAndShowsDetailVerbatim(t *testing.T) {
	sub := &fakeSubmitter{err: &recommend.ValidationError{Status: 400, Message: "State is required"}}
	w := New(sub)
	toWeather(t, w)
	require.NoError(t, w.Set(farm.FieldState, ""))

	err := w.Next(context.Background())
	require.Error(t, err)
	require.Len(t, sub.calls, 1, "an empty state must still reach the network call")
	assert.Equal(t, "", sub.calls[0].State)
	assert.Equal(t, StepWeather, w.Step())
	assert.Equal(t, "State is required", w.ErrorMessage())
	assert.Nil(t, w.Result())
}

func TestErrorMessage_GenericForNetworkAndTimeout(t *testing.T) {
	tests := []struct {
		name string
		err  error
		tr   i18n.Translator
		want string
	}{
		{"network", &recommend.NetworkError{Status: 502, Err: errors.New("Bad Gateway")}, nil, "Recommendation failed"},
		{"timeout", &recommend.TimeoutError{Err: context.DeadlineExceeded}, nil, "Recommendation failed"},
		{"unauthorized", &recommend.NetworkError{Status: 401, Err: recommend.ErrUnauthorized}, nil, "Recommendation failed"},
		{"translated", errors.New("boom"), i18n.MustLoad("en"), "Recommendation failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := New(&fakeSubmitter{err: tt.err}, WithTranslator(tt.tr))
			toWeather(t, w)
			require.Error(t, w.Next(context.Background()))
			assert.Equal(t, tt.want, w.ErrorMessage())
			assert.Equal(t, StepWeather, w.Step())
		})
	}
}

func TestNext_RetryAfterFailure(t *testing.T) {
	sub := &fakeSubmitter{err: &recommend.NetworkError{Err: errors.New("connection refused")}}
	w := New(sub)
	toWeather(t, w)

	require.Error(t, w.Next(context.Background()))
	sub.err = nil
	sub.result = sampleResult()
	require.NoError(t, w.Next(context.Background()))

	assert.Len(t, sub.calls, 2)
	assert.Equal(t, StepResults, w.Step())
	assert.Empty(t, w.ErrorMessage())
}

func TestNilResultIsAFailure(t *testing.T) {
	w := New(&fakeSubmitter{})
	toWeather(t, w)

	require.Error(t, w.Next(context.Background()))
	assert.Equal(t, StepWeather, w.Step())
	assert.Error(t, w.Err())
	assert.Equal(t, "Recommendation failed", w.ErrorMessage())
}

func TestBegin_GuardsSingleSubmission(t *testing.T) {
	w := New(&fakeSubmitter{})
	_, err := w.Begin()
	require.ErrorIs(t, err, ErrNotAtWeather)

	toWeather(t, w)
	s, err := w.Begin()
	require.NoError(t, err)
	assert.True(t, w.Loading())

	_, err = w.Begin()
	require.ErrorIs(t, err, ErrSubmissionInFlight)
	require.ErrorIs(t, w.Next(context.Background()), ErrSubmissionInFlight)
	require.ErrorIs(t, w.Back(), ErrSubmissionInFlight)
	require.ErrorIs(t, w.Set(farm.FieldN, 90.0), ErrSubmissionInFlight)
	assert.Equal(t, StepWeather, w.Step())

	assert.True(t, w.Finish(s, sampleResult(), nil))
	assert.Equal(t, StepResults, w.Step())
}

func TestAsyncSubmission_AppliedOnOwner(t *testing.T) {
	w := New(nil)
	toWeather(t, w)

	s, err := w.Begin()
	require.NoError(t, err)

	type outcome struct {
		res *recommend.Result
		err error
	}
	done := make(chan outcome, 1)
	go func(req recommend.Request) {
		done <- outcome{res: sampleResult()}
	}(s.Request)

	o := <-done
	require.True(t, w.Finish(s, o.res, o.err))
	assert.Equal(t, StepResults, w.Step())
}

func TestReset_DiscardsInFlightOutcome(t *testing.T) {
	w := New(nil)
	toWeather(t, w)

	s, err := w.Begin()
	require.NoError(t, err)
	w.Reset()

	assert.False(t, w.Finish(s, sampleResult(), nil))
	assert.Equal(t, StepLocation, w.Step())
	assert.Nil(t, w.Result())
	assert.False(t, w.Loading())
}

func TestDispose_DiscardsOutcome(t *testing.T) {
	w := New(nil)
	toWeather(t, w)

	s, err := w.Begin()
	require.NoError(t, err)

	release := make(chan struct{})
	done := make(chan *recommend.Result, 1)
	go func() {
		<-release
		done <- sampleResult()
	}()

	w.Dispose()
	close(release)
	assert.False(t, w.Finish(s, <-done, nil))
	assert.Nil(t, w.Result())
	assert.True(t, w.Disposed())
	require.ErrorIs(t, w.Next(context.Background()), ErrDisposed)
	_, err = w.Begin()
	require.ErrorIs(t, err, ErrDisposed)
}

func TestReset_AfterSuccessRestoresDefaults(t *testing.T) {
	w := New(&fakeSubmitter{result: sampleResult()})
	toWeather(t, w)
	require.NoError(t, w.Set(farm.FieldN, 120.0))
	require.NoError(t, w.Set(farm.FieldSeason, farm.SeasonRabi))
	require.NoError(t, w.Next(context.Background()))
	require.NotNil(t, w.Result())

	w.Reset()

	assert.Equal(t, StepLocation, w.Step())
	assert.Nil(t, w.Result())
	v := w.Fields()
	assert.Equal(t, 2.0, v.LandSizeAcres)
	assert.Equal(t, "Rainfed", v.IrrigationType)
	assert.Equal(t, 60.0, v.N)
	assert.Equal(t, 40.0, v.P)
	assert.Equal(t, 40.0, v.K)
	assert.Equal(t, 6.5, v.PH)
	assert.Equal(t, "Loamy", v.SoilType)
	assert.Equal(t, 28.0, v.Temperature)
	assert.Equal(t, 70.0, v.Humidity)
	assert.Equal(t, 150.0, v.Rainfall)
	assert.Equal(t, "Kharif", v.Season)
}

func TestSet_RejectsOutOfRangeThroughWizard(t *testing.T) {
	w := New(nil)
	err := w.Set(farm.FieldPH, 11.0)
	var oor *farm.OutOfRangeError
	require.ErrorAs(t, err, &oor)
	assert.Equal(t, 6.5, w.Fields().PH)
}

func TestWithFields(t *testing.T) {
	m := farm.New()
	require.NoError(t, m.Set(farm.FieldState, "Odisha"))
	w := New(nil, WithFields(m))
	assert.Equal(t, "Odisha", w.Fields().State)
	require.NoError(t, w.Next(context.Background()))
}

func TestStep_Labels(t *testing.T) {
	want := []string{"step_location", "step_soil", "step_weather", "step_results"}
	for i, s := range Steps {
		assert.Equal(t, want[i], s.LabelKey())
	}
	_, ok := StepResults.Group()
	assert.False(t, ok)
	g, ok := StepSoil.Group()
	assert.True(t, ok)
	assert.Equal(t, farm.GroupSoil, g)
}

func TestSubmitterFunc(t *testing.T) {
	var got recommend.Request
	w := New(SubmitterFunc(func(_ context.Context, req recommend.Request) (*recommend.Result, error) {
		got = req
		return sampleResult(), nil
	}))
	toWeather(t, w)
	require.NoError(t, w.Next(context.Background()))
	assert.Equal(t, "Punjab", got.State)
}

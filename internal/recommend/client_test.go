package recommend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mark3labs/smartagri/internal/metrics"
	"github.com/stretchr/testify/require"
)

const sampleResult = `{
	"id": 7,
	"state": "Punjab",
	"season": "Kharif",
	"crops": [
		{"name": "Rice", "suitability_score": 82, "expected_yield": "38.5 q/ha", "predicted_price": "₹2,183/q",
		 "estimated_cost": "₹42,000", "estimated_profit": "₹41,045", "risk_level": "Low", "why_this_crop": "Good rainfall"},
		{"name": "Maize", "suitability_score": 77, "expected_yield": "29 q/ha", "predicted_price": "₹1,962/q",
		 "estimated_cost": "₹28,000", "estimated_profit": "₹28,898", "risk_level": "Medium-Low", "why_this_crop": "Short cycle"}
	],
	"market_insight": {
		"current_trend": "Stable with slight upward trend",
		"demand_outlook": "Strong",
		"best_selling_window": "Oct-Dec",
		"volatility_level": "Low",
		"price_range": "₹2,000 - ₹2,400/q"
	},
	"risk_assessment": {"climate_risk": "Medium", "water_risk": "Medium", "market_risk": "Medium",
		"pest_risk": "Low", "overall_score": 0.42, "overall_level": "Medium"},
	"productivity_tips": [
		{"title": "Boost Nitrogen Naturally", "description": "Intercrop with legumes.", "category": "nutrient"}
	]
}`

type recordingRecorder struct {
	outcomes []string
}

func (r *recordingRecorder) ObserveSubmission(endpoint, outcome string, _ time.Duration) {
	r.outcomes = append(r.outcomes, endpoint+":"+outcome)
}

func TestSubmit_Success(t *testing.T) {
	var gotBody Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/recommend/", r.URL.Path)
		require.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, sampleResult)
	}))
	defer server.Close()

	rec := &recordingRecorder{}
	client := NewClient(server.URL+"/api/", WithToken("secret"), WithRecorder(rec))

	req := Request{State: "Punjab", LandSizeAcres: 2, Weather: WeatherData{Season: "Kharif"}}
	res, err := client.Submit(context.Background(), req)
	require.NoError(t, err)

	require.Equal(t, "Punjab", gotBody.State)
	require.Equal(t, "Punjab", res.State)
	require.Len(t, res.Crops, 2)
	require.Equal(t, "Rice", res.Crops[0].Name)
	require.Equal(t, 0.42, res.RiskAssessment.OverallScore)
	require.NotNil(t, res.ID)
	require.Equal(t, 7, *res.ID)
	require.Equal(t, []string{"current_trend", "demand_outlook", "best_selling_window", "volatility_level", "price_range"},
		res.MarketInsight.Keys())
	require.Equal(t, []string{"recommend:success"}, rec.outcomes)
}

func TestSubmit_CredentialResolvedPerRequest(t *testing.T) {
	var seen []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, sampleResult)
	}))
	defer server.Close()

	token := "first"
	client := NewClient(server.URL, WithCredential(func() string { return token }))

	_, err := client.Submit(context.Background(), Request{})
	require.NoError(t, err)
	token = ""
	_, err = client.Submit(context.Background(), Request{})
	require.NoError(t, err)

	require.Equal(t, []string{"Bearer first", ""}, seen)
}

func TestSubmit_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		check   func(t *testing.T, err error)
		outcome string
	}{
		{
			name:   "detail string is a validation error",
			status: http.StatusBadRequest,
			body:   `{"detail": "State must not be empty"}`,
			check: func(t *testing.T, err error) {
				var v *ValidationError
				require.ErrorAs(t, err, &v)
				require.Equal(t, "State must not be empty", v.Message)
				require.Equal(t, "State must not be empty", err.Error())
			},
			outcome: metrics.OutcomeValidation,
		},
		{
			name:   "detail list is joined",
			status: http.StatusUnprocessableEntity,
			body:   `{"detail": [{"loc": ["body", "soil", "N"], "msg": "ensure this value is less than or equal to 200"}, {"loc": ["body", "state"], "msg": "field required"}]}`,
			check: func(t *testing.T, err error) {
				var v *ValidationError
				require.ErrorAs(t, err, &v)
				require.Equal(t, "body.soil.N: ensure this value is less than or equal to 200; body.state: field required", v.Message)
			},
			outcome: metrics.OutcomeValidation,
		},
		{
			name:   "5xx without detail is a network error",
			status: http.StatusBadGateway,
			body:   `<html>bad gateway</html>`,
			check: func(t *testing.T, err error) {
				var n *NetworkError
				require.ErrorAs(t, err, &n)
				require.Equal(t, http.StatusBadGateway, n.Status)
				require.False(t, IsValidation(err))
			},
			outcome: metrics.OutcomeNetwork,
		},
		{
			name:   "401 is unauthorized even with detail",
			status: http.StatusUnauthorized,
			body:   `{"detail": "Token expired"}`,
			check: func(t *testing.T, err error) {
				var n *NetworkError
				require.ErrorAs(t, err, &n)
				require.True(t, IsUnauthorized(err))
				require.False(t, IsValidation(err))
			},
			outcome: metrics.OutcomeNetwork,
		},
		{
			name:   "undecodable success body",
			status: http.StatusOK,
			body:   `{"crops": "not a list"}`,
			check: func(t *testing.T, err error) {
				var n *NetworkError
				require.ErrorAs(t, err, &n)
			},
			outcome: metrics.OutcomeNetwork,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer server.Close()

			rec := &recordingRecorder{}
			client := NewClient(server.URL, WithRecorder(rec))
			res, err := client.Submit(context.Background(), Request{})
			require.Nil(t, res)
			require.Error(t, err)
			tt.check(t, err)
			require.Equal(t, []string{"recommend:" + tt.outcome}, rec.outcomes)
		})
	}
}

func TestSubmit_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := NewClient(server.URL, WithTimeout(50*time.Millisecond))
	_, err := client.Submit(context.Background(), Request{})
	require.Error(t, err)
	require.True(t, IsTimeout(err), "expected TimeoutError, got %T: %v", err, err)
}

func TestSubmit_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewClient(url).Submit(context.Background(), Request{})
	var n *NetworkError
	require.ErrorAs(t, err, &n)
	require.Equal(t, 0, n.Status)
}

func TestSubmit_ExactlyOneRequest(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Submit(context.Background(), Request{})
	require.Error(t, err)
	require.Equal(t, int32(1), calls.Load(), "failed submissions must not be retried")
}

func TestSubmitQuick(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/recommend/quick", r.URL.Path)
		var body QuickRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "Rabi", body.Season)
		_, _ = io.WriteString(w, sampleResult)
	}))
	defer server.Close()

	rec := &recordingRecorder{}
	res, err := NewClient(server.URL, WithRecorder(rec)).SubmitQuick(context.Background(), QuickRequest{Season: "Rabi"})
	require.NoError(t, err)
	require.Len(t, res.Crops, 2)
	require.Equal(t, []string{"recommend_quick:success"}, rec.outcomes)
}

func TestMarketInsight_JSONRoundTripKeepsOrder(t *testing.T) {
	mi := NewMarketInsight("z_key", "1", "a_key", "2")
	data, err := json.Marshal(mi)
	require.NoError(t, err)
	require.Equal(t, `{"z_key":"1","a_key":"2"}`, string(data))

	var empty MarketInsight
	data, err = json.Marshal(empty)
	require.NoError(t, err)
	require.Equal(t, `{}`, string(data))

	var decoded MarketInsight
	require.NoError(t, json.Unmarshal([]byte(`null`), &decoded))
	require.Equal(t, 0, decoded.Len())
}

func TestErrorHelpers(t *testing.T) {
	require.False(t, IsTimeout(errors.New("x")))
	require.True(t, IsTimeout(&TimeoutError{Err: context.DeadlineExceeded}))
	require.True(t, errors.Is(&TimeoutError{Err: context.DeadlineExceeded}, context.DeadlineExceeded))
	require.True(t, IsUnauthorized(&NetworkError{Status: 401, Err: ErrUnauthorized}))
}

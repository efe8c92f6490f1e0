package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	if m == nil {
		t.Fatal("NewMetrics returned nil")
	}

	if m.AnalysisRequestsTotal == nil {
		t.Error("AnalysisRequestsTotal is nil")
	}
	if m.AnalysisDuration == nil {
		t.Error("AnalysisDuration is nil")
	}
	if m.AnalysisFallbacksTotal == nil {
		t.Error("AnalysisFallbacksTotal is nil")
	}
	if m.ExternalAPIRequestsTotal == nil {
		t.Error("ExternalAPIRequestsTotal is nil")
	}
	if m.ExternalAPIErrorsTotal == nil {
		t.Error("ExternalAPIErrorsTotal is nil")
	}
	if m.ExternalAPIDuration == nil {
		t.Error("ExternalAPIDuration is nil")
	}
	if m.HTTPRequestsTotal == nil {
		t.Error("HTTPRequestsTotal is nil")
	}
	if m.HTTPRequestDuration == nil {
		t.Error("HTTPRequestDuration is nil")
	}
	if m.HTTPResponseSize == nil {
		t.Error("HTTPResponseSize is nil")
	}
	if m.CircuitBreakerState == nil {
		t.Error("CircuitBreakerState is nil")
	}
	if m.CircuitBreakerTrips == nil {
		t.Error("CircuitBreakerTrips is nil")
	}
	if m.DriftTicksTotal == nil {
		t.Error("DriftTicksTotal is nil")
	}
	if m.WatchlistSize == nil {
		t.Error("WatchlistSize is nil")
	}
}

func TestRecordAnalysisRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RecordAnalysisRequest("insight")
	m.RecordAnalysisRequest("insight")
	m.RecordAnalysisRequest("macro")

	insightCount := testutil.ToFloat64(m.AnalysisRequestsTotal.WithLabelValues("insight"))
	if insightCount != 2 {
		t.Errorf("Expected insight count to be 2, got %f", insightCount)
	}

	macroCount := testutil.ToFloat64(m.AnalysisRequestsTotal.WithLabelValues("macro"))
	if macroCount != 1 {
		t.Errorf("Expected macro count to be 1, got %f", macroCount)
	}
}

func TestRecordAnalysisFallback(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RecordAnalysisFallback("financial", "incomplete")
	m.RecordAnalysisFallback("financial", "incomplete")
	m.RecordAnalysisFallback("news", "backend_error")

	incomplete := testutil.ToFloat64(m.AnalysisFallbacksTotal.WithLabelValues("financial", "incomplete"))
	if incomplete != 2 {
		t.Errorf("Expected financial incomplete count to be 2, got %f", incomplete)
	}

	backendErr := testutil.ToFloat64(m.AnalysisFallbacksTotal.WithLabelValues("news", "backend_error"))
	if backendErr != 1 {
		t.Errorf("Expected news backend_error count to be 1, got %f", backendErr)
	}
}

func TestRecordExternalAPIRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RecordExternalAPIRequest("openai", "invoke")
	m.RecordExternalAPIRequest("openai", "invoke")
	m.RecordExternalAPIRequest("bedrock", "invoke")

	openaiInvoke := testutil.ToFloat64(m.ExternalAPIRequestsTotal.WithLabelValues("openai", "invoke"))
	if openaiInvoke != 2 {
		t.Errorf("Expected openai invoke count to be 2, got %f", openaiInvoke)
	}

	bedrockInvoke := testutil.ToFloat64(m.ExternalAPIRequestsTotal.WithLabelValues("bedrock", "invoke"))
	if bedrockInvoke != 1 {
		t.Errorf("Expected bedrock invoke count to be 1, got %f", bedrockInvoke)
	}
}

func TestRecordExternalAPIError(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RecordExternalAPIError("openai", "invoke", "timeout")
	m.RecordExternalAPIError("bedrock", "invoke", "rate_limit")

	openaiTimeout := testutil.ToFloat64(m.ExternalAPIErrorsTotal.WithLabelValues("openai", "invoke", "timeout"))
	if openaiTimeout != 1 {
		t.Errorf("Expected openai timeout count to be 1, got %f", openaiTimeout)
	}
}

func TestRecordHTTPRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RecordHTTPRequest("GET", "/api/health", "200", 10*time.Millisecond, 256)
	m.RecordHTTPRequest("POST", "/api/analysis/insight", "200", 2*time.Second, 4096)
	m.RecordHTTPRequest("GET", "/api/watchlist", "400", 5*time.Millisecond, 64)

	healthOK := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/health", "200"))
	if healthOK != 1 {
		t.Errorf("Expected GET /api/health 200 count to be 1, got %f", healthOK)
	}

	badMarkup := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/watchlist", "400"))
	if badMarkup != 1 {
		t.Errorf("Expected GET /api/watchlist 400 count to be 1, got %f", badMarkup)
	}
}

func TestCircuitBreakerMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.SetCircuitBreakerState("openai", 0)
	m.SetCircuitBreakerState("bedrock", 2)

	openaiState := testutil.ToFloat64(m.CircuitBreakerState.WithLabelValues("openai"))
	if openaiState != 0 {
		t.Errorf("Expected openai state to be 0 (closed), got %f", openaiState)
	}

	bedrockState := testutil.ToFloat64(m.CircuitBreakerState.WithLabelValues("bedrock"))
	if bedrockState != 2 {
		t.Errorf("Expected bedrock state to be 2 (open), got %f", bedrockState)
	}

	m.RecordCircuitBreakerTrip("openai")
	m.RecordCircuitBreakerTrip("openai")

	openaiTrips := testutil.ToFloat64(m.CircuitBreakerTrips.WithLabelValues("openai"))
	if openaiTrips != 2 {
		t.Errorf("Expected openai trips to be 2, got %f", openaiTrips)
	}
}

func TestMarketMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RecordDriftTick()
	m.RecordDriftTick()
	if got := testutil.ToFloat64(m.DriftTicksTotal); got != 2 {
		t.Errorf("Expected drift ticks to be 2, got %f", got)
	}

	m.SetWatchlistSize(60)
	if got := testutil.ToFloat64(m.WatchlistSize); got != 60 {
		t.Errorf("Expected watchlist size to be 60, got %f", got)
	}
}

func TestTimer(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	timer := m.NewTimer()
	if timer == nil {
		t.Fatal("NewTimer returned nil")
	}

	time.Sleep(10 * time.Millisecond)

	duration := timer.Duration()
	if duration < 10*time.Millisecond {
		t.Errorf("Expected duration to be at least 10ms, got %v", duration)
	}

	timer.ObserveAnalysis("insight", "ok")

	timer2 := m.NewTimer()
	time.Sleep(5 * time.Millisecond)
	timer2.ObserveExternalAPI("openai", "invoke")
}

func TestGetMetrics_Singleton(t *testing.T) {
	original := globalMetrics
	defer func() { globalMetrics = original }()

	reg := prometheus.NewRegistry()
	globalMetrics = NewMetrics(reg)

	m1 := GetMetrics()
	if m1 == nil {
		t.Fatal("GetMetrics returned nil")
	}

	m2 := GetMetrics()
	if m1 != m2 {
		t.Error("GetMetrics should return the same instance")
	}
}

func TestSetMetrics(t *testing.T) {
	original := globalMetrics
	defer func() { globalMetrics = original }()

	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	SetMetrics(m)

	if GetMetrics() != m {
		t.Error("GetMetrics should return the instance passed to SetMetrics")
	}
}

package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()
	m.ToolCalls.WithLabelValues("explain", "ok").Inc()
	m.ToolCalls.WithLabelValues("explain", "ok").Inc()
	m.Replies.WithLabelValues("demo").Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ToolCalls.WithLabelValues("explain", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Replies.WithLabelValues("demo")))
}

func TestHandler(t *testing.T) {
	m := New()
	m.Explanations.WithLabelValues("food_recommendation").Inc()
	m.Confidence.Observe(0.74)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `kids_nutrition_explanations_total{question_type="food_recommendation"} 1`)
	assert.Contains(t, string(body), "kids_nutrition_explanation_confidence_count 1")
}

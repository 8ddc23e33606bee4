package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCountersExposed(t *testing.T) {
	SignalsTotal.WithLabelValues("R_100", "most-appearing").Inc()
	assert.Equal(t, 1.0, testutil.ToFloat64(SignalsTotal.WithLabelValues("R_100", "most-appearing")))

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "relay_signals_total"))
}

package health

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	dispatcher "signal_bot/internal/modules/dispatcher/service"
	"signal_bot/internal/modules/health/service"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, mux *http.ServeMux, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestMux_ReadinessFollowsCycles(t *testing.T) {
	state := service.NewState()
	mux := NewMux(state)

	assert.Equal(t, http.StatusOK, get(t, mux, "/livez").Code)
	assert.Equal(t, http.StatusServiceUnavailable, get(t, mux, "/readyz").Code)

	state.ObserveCycle(dispatcher.CycleReport{
		FinishedAt: time.Unix(1_760_000_000, 0),
		Markets: []dispatcher.MarketReport{
			{Symbol: "R_10", Err: errors.New("feed down")},
			{Symbol: "R_25", Ticks: 60},
		},
	})

	assert.Equal(t, http.StatusOK, get(t, mux, "/readyz").Code)

	rec := get(t, mux, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Ready         bool   `json:"ready"`
		FeedReachable bool   `json:"feedReachable"`
		Cycles        int64  `json:"cycles"`
		LastOutcome   string `json:"lastOutcome"`
		LastCycleUnix int64  `json:"lastCycleUnix"`
	}
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Ready)
	assert.True(t, body.FeedReachable)
	assert.Equal(t, int64(1), body.Cycles)
	assert.Equal(t, dispatcher.OutcomePartial, body.LastOutcome)
	assert.Equal(t, int64(1_760_000_000), body.LastCycleUnix)
}

func TestState_FeedUnreachable(t *testing.T) {
	state := service.NewState()
	state.ObserveCycle(dispatcher.CycleReport{
		FinishedAt: time.Now(),
		Markets:    []dispatcher.MarketReport{{Symbol: "R_10", Err: errors.New("timeout")}},
	})

	assert.False(t, state.FeedReachable())
	assert.Equal(t, dispatcher.OutcomeFailed, state.LastOutcome())
	assert.True(t, state.Ready())
}

func TestMux_Metrics(t *testing.T) {
	rec := get(t, NewMux(service.NewState()), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
}

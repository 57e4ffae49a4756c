package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/collide/internal/world"
)

func TestNilRecorderIsNoop(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.SessionStarted()
		r.ObserveStep(time.Millisecond, world.Stats{NarrowTests: 2})
		r.SessionEnded()
	})
	assert.Nil(t, r.Registry())
}

func TestSessions(t *testing.T) {
	r := New()
	r.SessionStarted()
	r.SessionStarted()
	r.SessionEnded()

	assert.Equal(t, 1.0, testutil.ToFloat64(r.sessions))
}

func TestObserveStep(t *testing.T) {
	r := New()
	r.ObserveStep(2*time.Millisecond, world.Stats{
		Bodies:      12,
		Reinserts:   3,
		PairPasses:  1,
		NarrowTests: 10,
		NarrowHits:  4,
	})
	r.ObserveStep(time.Millisecond, world.Stats{Bodies: 12, PairPasses: 1})

	assert.Equal(t, 3.0, testutil.ToFloat64(r.ops.WithLabelValues("reinsert")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.ops.WithLabelValues("pairs")))
	assert.Equal(t, 4.0, testutil.ToFloat64(r.narrow.WithLabelValues("hit")))
	assert.Equal(t, 6.0, testutil.ToFloat64(r.narrow.WithLabelValues("miss")))
	assert.Equal(t, 12.0, testutil.ToFloat64(r.bodies))
	assert.Equal(t, 1, testutil.CollectAndCount(r.stepDuration))
}

func TestHandlerExposesMetrics(t *testing.T) {
	r := New()
	r.SessionStarted()

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "collide_sessions_active 1"), body)
	assert.True(t, strings.Contains(body, "collide_step_duration_seconds"), body)
}

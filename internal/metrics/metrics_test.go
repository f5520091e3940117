package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordRecompute(t *testing.T) {
	before := testutil.ToFloat64(Recomputes.WithLabelValues("review"))
	beforeErr := testutil.ToFloat64(RecomputeErrors.WithLabelValues("review"))

	RecordRecompute("review", nil)
	RecordRecompute("review", errors.New("boom"))

	assert.Equal(t, before+2, testutil.ToFloat64(Recomputes.WithLabelValues("review")))
	assert.Equal(t, beforeErr+1, testutil.ToFloat64(RecomputeErrors.WithLabelValues("review")))
}

func TestRecordUserCounter(t *testing.T) {
	before := testutil.ToFloat64(UserCounterAdjustments.WithLabelValues("review_count", "dec"))
	RecordUserCounter("review_count", -1)
	assert.Equal(t, before+1, testutil.ToFloat64(UserCounterAdjustments.WithLabelValues("review_count", "dec")))
}

func TestRecordRequest(t *testing.T) {
	RecordRequest("GET", "/api/search", 200, 15*time.Millisecond)
	assert.Equal(t, 1, testutil.CollectAndCount(HTTPRequestDuration, "engagement_http_request_duration_seconds"))
}

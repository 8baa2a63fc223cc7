package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCloudWatch struct {
	inputs []*cloudwatch.PutMetricDataInput
}

func (f *fakeCloudWatch) PutMetricData(_ context.Context, in *cloudwatch.PutMetricDataInput, _ ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	f.inputs = append(f.inputs, in)
	return &cloudwatch.PutMetricDataOutput{}, nil
}

func TestMetrics_RecordEnrichment(t *testing.T) {
	cw := &fakeCloudWatch{}
	m := NewMetrics("EduTube", cw, zap.NewNop())

	m.RecordEnrichment(context.Background(), "enriched")
	m.RecordEnrichment(context.Background(), "failed")
	m.RecordEnrichment(context.Background(), "enriched")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.EnrichmentItems.WithLabelValues("enriched")))
	require.Len(t, cw.inputs, 3)
	assert.Equal(t, "EduTube", aws.ToString(cw.inputs[0].Namespace))
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics("EduTube", nil, zap.NewNop())
	m.RecordHTTPRequest(http.MethodGet, "/api/v1/journeys", 200, 10*time.Millisecond)
	m.RecordQueueDepth(3)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(body, `edutube_http_requests_total{method="GET",route="/api/v1/journeys",status="200"} 1`))
	assert.True(t, strings.Contains(body, "edutube_enrichment_queue_depth 3"))
}

func TestTracer_DisabledRunsDirectly(t *testing.T) {
	tracer := NewTracer("edutube", false)
	called := false

	err := tracer.TraceSegment(context.Background(), "job", func(context.Context) error {
		called = true
		return nil
	})

	require.NoError(t, err)
	assert.True(t, called)

	var nilTracer *Tracer
	assert.False(t, nilTracer.Enabled())
}

package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordRequest("GET", "/solutions/projects/:id", 200, 5*time.Millisecond)
	c.RecordRequest("GET", "/solutions/projects/:id", 200, 7*time.Millisecond)
	c.RecordRequest("GET", "", 404, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.requests.WithLabelValues("GET", "/solutions/projects/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.requests.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 2, testutil.CollectAndCount(c.latency))
}

func TestRecordOutcomes(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())

	c.RecordLogin("success")
	c.RecordLogin("invalid_credentials")
	c.RecordLogin("success")
	c.RecordRegistration("duplicate")

	assert.Equal(t, 2.0, testutil.ToFloat64(c.logins.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.logins.WithLabelValues("invalid_credentials")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.registrations.WithLabelValues("duplicate")))
}

func TestHandlerServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordLogin("success")

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `climate_logins_total{outcome="success"} 1`)
}

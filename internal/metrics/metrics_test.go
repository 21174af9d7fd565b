package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	assert := assert.New(t)
	m := New()

	m.ServiceCall("light", "turn_on", "applied")
	m.ServiceCall("light", "turn_on", "applied")
	m.ServiceCall("fan", "turn_on", "unsupported")
	m.BridgeMessage("call_service")
	m.MQTTPublish()
	m.ModbusRequest("coils", true)
	m.ModbusRequest("coils", false)

	assert.Equal(2.0, testutil.ToFloat64(m.ServiceCalls.WithLabelValues("light", "turn_on", "applied")))
	assert.Equal(1.0, testutil.ToFloat64(m.ServiceCalls.WithLabelValues("fan", "turn_on", "unsupported")))
	assert.Equal(1.0, testutil.ToFloat64(m.BridgeMessages.WithLabelValues("call_service")))
	assert.Equal(1.0, testutil.ToFloat64(m.MQTTPublished))
	assert.Equal(1.0, testutil.ToFloat64(m.ModbusRequests.WithLabelValues("coils", "write")))
	assert.Equal(2, testutil.CollectAndCount(m.ModbusRequests))
}

func TestHandler(t *testing.T) {
	require := require.New(t)
	m := New()
	m.ServiceCall("lock", "lock", "applied")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(200, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(err)
	require.Contains(string(body), `demohome_service_calls_total{domain="lock",outcome="applied",service="lock"} 1`)
}

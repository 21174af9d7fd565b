package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	corea "github.com/Mugiii7/CustomHA/internal/core/actor"
	"github.com/Mugiii7/CustomHA/internal/core/domain"
	"github.com/Mugiii7/CustomHA/internal/core/service"
	"github.com/Mugiii7/CustomHA/internal/core/store"
	"github.com/Mugiii7/CustomHA/internal/metrics"
	"github.com/Mugiii7/CustomHA/internal/util"
	"github.com/Mugiii7/CustomHA/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testServer struct {
	handler http.Handler
	store   *store.MemoryStore
	metrics *metrics.Metrics
}

func newTestServer(t *testing.T) testServer {
	t.Helper()
	cfg := util.LoadTestConfig()
	cfg.MQTT.Enable = false
	cfg.MQTT.HADiscoveryEnable = false
	cfg.Modbus.Enable = false

	logger := zap.NewNop()
	m := metrics.New()
	s := store.NewDemo()
	integration := service.NewDemoIntegration(s, service.NewDispatcher(s, m, logger), cfg.Demo.ServerName)

	as := actorutil.NewActorSystemWithZapLogger(logger)
	pid, err := as.Root.SpawnNamed(actor.PropsFromProducer(func() actor.Actor {
		return corea.NewMasterOfPuppetsActor(cfg, integration, nil, nil, logger)
	}), domain.ACTOR_ID_MASTER)
	require.NoError(t, err)
	t.Cleanup(func() {
		as.Root.Stop(pid)
		as.Shutdown()
	})

	srv := &Server{
		rootContext: as.Root,
		masterActor: pid,
		integration: integration,
		metrics:     m,
		logger:      logger,
	}
	return testServer{handler: srv.RegisterRoutes(), store: s, metrics: m}
}

func (ts testServer) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(http.MethodGet, "/healthcheck", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "health_check: OK", rec.Body.String())
}

func TestReadRoutes(t *testing.T) {
	assert := assert.New(t)
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/api/", "")
	assert.Equal(http.StatusOK, rec.Code)
	assert.JSONEq(`{"message":"API running."}`, rec.Body.String())

	rec = ts.do(http.MethodGet, "/api/states", "")
	assert.Equal(http.StatusOK, rec.Code)
	var states []domain.Entity
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &states))
	assert.Len(states, 11)

	rec = ts.do(http.MethodGet, "/api/states/lock.front_door", "")
	assert.Equal(http.StatusOK, rec.Code)
	var lock domain.Entity
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lock))
	assert.Equal(domain.STATE_LOCKED, lock.State)

	rec = ts.do(http.MethodGet, "/api/states/light.garage", "")
	assert.Equal(http.StatusNotFound, rec.Code)
	assert.JSONEq(`{"message":"Entity not found."}`, rec.Body.String())

	rec = ts.do(http.MethodGet, "/api/zones", "")
	var zones []domain.Entity
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &zones))
	require.Len(t, zones, 1)
	assert.Equal(domain.HOME_ZONE_ID, zones[0].EntityId)
	assert.Equal(domain.ZONE_STATE, zones[0].State)

	rec = ts.do(http.MethodGet, "/api/services", "")
	assert.JSONEq(`[]`, rec.Body.String())

	rec = ts.do(http.MethodGet, "/api/config", "")
	var cfg domain.BackendConfig
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cfg))
	assert.Equal("Demo Home", cfg.LocationName)
	assert.Equal("UTC", cfg.TimeZone)
	assert.Equal(domain.DEMO_HA_VERSION, cfg.Version)

	rec = ts.do(http.MethodGet, "/api/registration", "")
	assert.JSONEq(`{"app_version":"Demo Version","device_name":"Demo Device","push_token":"demo_token"}`, rec.Body.String())

	rec = ts.do(http.MethodGet, "/api/demo", "")
	assert.JSONEq(`{"id":-999,"url":"http://demo.home-assistant.local","name":"Demo Home"}`, rec.Body.String())

	rec = ts.do(http.MethodPost, "/api/template", `{"template":"{{ states('sensor.temperature') }}"}`)
	assert.Equal(http.StatusOK, rec.Code)
	assert.Equal(service.TEMPLATE_RESULT, rec.Body.String())
}

func TestDashboard(t *testing.T) {
	assert := assert.New(t)
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/", "")
	assert.Equal(http.StatusOK, rec.Code)
	assert.Contains(rec.Header().Get("Content-Type"), "text/html")
	body := rec.Body.String()
	assert.True(strings.HasPrefix(body, "<!DOCTYPE html>"))
	assert.Contains(body, `data-entity-id="light.living_room"`)
	assert.Contains(body, "Front Door Lock")
}

func TestCallService(t *testing.T) {
	assert := assert.New(t)
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/api/services/light/turn_on", `{"entity_id":"light.kitchen"}`)
	assert.Equal(http.StatusOK, rec.Code)
	var changed []domain.Entity
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &changed))
	require.Len(t, changed, 1)
	assert.Equal("light.kitchen", changed[0].EntityId)
	assert.Equal(domain.STATE_ON, changed[0].State)

	kitchen, _ := ts.store.Get("light.kitchen")
	assert.Equal(domain.STATE_ON, kitchen.State)
	assert.Equal(1.0, testutil.ToFloat64(ts.metrics.ServiceCalls.WithLabelValues("light", "turn_on", service.OUTCOME_APPLIED)))

	// malformed body is an empty payload
	rec = ts.do(http.MethodPost, "/api/services/light/turn_off", `{not json`)
	assert.Equal(http.StatusOK, rec.Code)
	assert.JSONEq(`[]`, rec.Body.String())
	kitchen, _ = ts.store.Get("light.kitchen")
	assert.Equal(domain.STATE_ON, kitchen.State)

	rec = ts.do(http.MethodPost, "/api/services/sensor/turn_on", `{"entity_id":"sensor.temperature"}`)
	assert.Equal(http.StatusOK, rec.Code)
	assert.JSONEq(`[]`, rec.Body.String())
}

func TestBridge(t *testing.T) {
	assert := assert.New(t)
	ts := newTestServer(t)
	before := ts.store.List()

	rec := ts.do(http.MethodPost, "/api/bridge", `{"type":"connection-status","payload":{"event":"connected"}}`)
	assert.Equal(http.StatusAccepted, rec.Code)

	rec = ts.do(http.MethodPost, "/api/bridge",
		`{"type":"call_service","domain":"light","service":"turn_on","service_data":{"entity_id":"light.kitchen"}}`)
	assert.Equal(http.StatusAccepted, rec.Code)

	rec = ts.do(http.MethodPost, "/api/bridge", `{"type":"reload"}`)
	assert.Equal(http.StatusBadRequest, rec.Code)

	assert.Equal(1.0, testutil.ToFloat64(ts.metrics.BridgeMessages.WithLabelValues("connection-status")))
	assert.Equal(1.0, testutil.ToFloat64(ts.metrics.BridgeMessages.WithLabelValues("call_service")))
	assert.Equal(1.0, testutil.ToFloat64(ts.metrics.BridgeMessages.WithLabelValues("unknown")))

	// bridge envelopes never reach the store
	time.Sleep(50 * time.Millisecond)
	assert.Equal(before, ts.store.List())
}

func TestMetricsRoute(t *testing.T) {
	ts := newTestServer(t)
	ts.do(http.MethodPost, "/api/services/light/toggle", `{"entity_id":"light.bedroom"}`)

	rec := ts.do(http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `demohome_service_calls_total{domain="light",outcome="applied",service="toggle"} 1`)
}

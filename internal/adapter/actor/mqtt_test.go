package actor

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/Mugiii7/CustomHA/internal/core/domain"
	"github.com/Mugiii7/CustomHA/internal/util"
	"github.com/Mugiii7/CustomHA/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func receivePublished(t *testing.T, published <-chan domain.PublishMessageRequest) domain.PublishMessageRequest {
	t.Helper()
	select {
	case msg := <-published:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("no message published")
		return domain.PublishMessageRequest{}
	}
}

func TestMQTTActor(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	cfg := util.LoadTestConfig()
	logger := zap.NewNop()
	as := actorutil.NewActorSystemWithZapLogger(logger)
	context := as.Root

	es := &eventstream.EventStream{}
	published := make(chan domain.PublishMessageRequest, 32)

	props := actor.PropsFromProducer(func() actor.Actor { return NewTestMQTTActor(&cfg, es, published, logger) })
	pid := context.Spawn(props)

	result, err := context.RequestFuture(pid, domain.ActorHealthRequest{}, 2*time.Second).Result()
	require.NoError(err)
	resp, ok := result.(domain.ActorHealthResponse)
	require.True(ok)
	assert.True(resp.Healthy)
	assert.Equal(domain.ACTOR_ID_MQTT, resp.Id)

	now := time.Now()
	es.Publish(domain.EntityStateChangedEvent{
		EntityEventMixIn: domain.EntityEventMixIn{
			Entity: domain.NewEntity("light.kitchen", domain.STATE_ON, nil, now),
		},
		Service: domain.SERVICE_TURN_ON,
	})
	msg := receivePublished(t, published)
	assert.Equal("demohome/light/kitchen/state", msg.Topic)
	assert.Equal(domain.STATE_ON, msg.Payload)
	assert.True(msg.Retain)

	es.Publish(domain.EntityStateSnapshotEvent{
		EntityEventMixIn: domain.EntityEventMixIn{
			Entity: domain.NewEntity("sensor.temperature", "21.5", nil, now),
		},
	})
	msg = receivePublished(t, published)
	assert.Equal("demohome/sensor/temperature/state", msg.Topic)
	assert.Equal("21.5", msg.Payload)

	// unrelated events are ignored
	es.Publish("noise")

	context.Send(pid, domain.PublishBridgeMessageRequest{
		Type:    "connection-status",
		Payload: []byte(`{"type":"connection-status","payload":{"event":"connected"}}`),
	})
	msg = receivePublished(t, published)
	assert.Equal("demohome/bridge/outbound", msg.Topic)
	assert.False(msg.Retain)
	assert.JSONEq(`{"type":"connection-status","payload":{"event":"connected"}}`, msg.Payload)

	context.Stop(pid)
	as.Shutdown()
}

func TestMQTTActorDiscovery(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	cfg := util.LoadTestConfig()
	logger := zap.NewNop()
	as := actorutil.NewActorSystemWithZapLogger(logger)
	context := as.Root

	published := make(chan domain.PublishMessageRequest, 32)
	pid := context.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return NewTestMQTTActor(&cfg, nil, published, logger)
	}))

	bridge := domain.BridgeDevice(cfg.MQTT.BaseTopic, "test")
	entities := domain.DiscoveryEntities(bridge, []domain.Entity{
		domain.NewEntity("lock.front_door", domain.STATE_LOCKED, map[string]any{
			domain.ATTR_FRIENDLY_NAME: "Front Door Lock",
		}, time.Now()),
	})

	result, err := context.RequestFuture(pid, domain.PublishDiscoveryRequest{Entities: entities}, 2*time.Second).Result()
	require.NoError(err)
	resp, ok := result.(domain.PublishDiscoveryResponse)
	require.True(ok)
	assert.False(resp.HasResponseError())

	first := receivePublished(t, published)
	assert.Equal("homeassistant/binary_sensor/"+bridge.Id+"/bridge_state/config", first.Topic)
	assert.True(first.Retain)

	second := receivePublished(t, published)
	assert.Equal("homeassistant/lock/"+bridge.Id+"/front_door/config", second.Topic)
	var payload map[string]any
	require.NoError(json.Unmarshal([]byte(second.Payload), &payload))
	assert.Equal("demohome/lock/front_door/set", payload["command_topic"])
	assert.Equal("Front Door Lock", payload["name"])

	context.Stop(pid)
	as.Shutdown()
}

package actor

import (
	"testing"
	"time"

	adactor "github.com/Mugiii7/CustomHA/internal/adapter/actor"
	"github.com/Mugiii7/CustomHA/internal/core/domain"
	"github.com/Mugiii7/CustomHA/internal/util"
	"github.com/Mugiii7/CustomHA/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestHADiscoveryActor(t *testing.T) {
	assert := assert.New(t)

	cfg := util.LoadTestConfig()
	logger := zap.NewNop()
	as := actorutil.NewActorSystemWithZapLogger(logger)
	context := as.Root

	integration, _ := newTestIntegration()
	published := make(chan domain.PublishMessageRequest, 64)

	entitiesPID := context.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return NewEntitiesActor(integration, nil, 0, logger)
	}))
	mqttPID := context.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return adactor.NewTestMQTTActor(&cfg, nil, published, logger)
	}))
	pid := context.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return NewHADiscoveryActor(&cfg, entitiesPID, mqttPID, logger)
	}))

	topics := map[string]bool{}
	deadline := time.After(3 * time.Second)
	for len(topics) < 12 {
		select {
		case msg := <-published:
			assert.True(msg.Retain)
			topics[msg.Topic] = true
		case <-deadline:
			t.Fatalf("discovery incomplete: %d configs", len(topics))
		}
	}

	bridge := domain.BridgeDevice(cfg.MQTT.BaseTopic, "")
	assert.Contains(topics, "homeassistant/binary_sensor/"+bridge.Id+"/bridge_state/config")
	assert.Contains(topics, "homeassistant/light/"+bridge.Id+"/kitchen/config")
	assert.Contains(topics, "homeassistant/sensor/"+bridge.Id+"/living_room/config")
	assert.NotContains(topics, "homeassistant/climate/"+bridge.Id+"/living_room/config")

	context.Stop(pid)
	context.Stop(mqttPID)
	context.Stop(entitiesPID)
	as.Shutdown()
}

package actor

import (
	"errors"
	"fmt"
	"log"
	"time"

	adactor "github.com/Mugiii7/CustomHA/internal/adapter/actor"
	"github.com/Mugiii7/CustomHA/internal/config"
	"github.com/Mugiii7/CustomHA/internal/core/domain"
	"github.com/Mugiii7/CustomHA/internal/core/port"
	"github.com/Mugiii7/CustomHA/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"go.uber.org/zap"
)

type MQTTActorProvider func(*eventstream.EventStream) *adactor.MQTTActor

type ModbusActorProvider func() *adactor.ModbusActor

type MasterOfPuppetsActor struct {
	config      config.Config
	behavior    actor.Behavior
	stash       *actorutil.Stash
	integration port.Integration

	currentHealthCheck  healthCheckResult
	eventStream         *eventstream.EventStream
	entitiesActor       *actor.PID
	modbusActor         *actor.PID
	mqttActor           *actor.PID
	children            map[string]*actor.PID
	modbusActorProvider ModbusActorProvider
	mqttActorProvider   MQTTActorProvider
	logger              *zap.Logger
}

type healthCheckResult struct {
	expected  int
	healthy   map[string]bool
	received  int
	respondTo *actor.PID
}

// NewMasterOfPuppetsActor supervises the entities actor and, when enabled and
// provided, the transport actors. A nil provider disables its transport.
func NewMasterOfPuppetsActor(config config.Config, integration port.Integration, modbusActorProvider ModbusActorProvider,
	mqttActorProvider MQTTActorProvider, logger *zap.Logger) *MasterOfPuppetsActor {
	act := &MasterOfPuppetsActor{
		config:              config,
		integration:         integration,
		behavior:            actor.NewBehavior(),
		stash:               &actorutil.Stash{},
		children:            map[string]*actor.PID{},
		logger:              actorutil.ActorLogger(domain.ACTOR_ID_MASTER, logger),
		eventStream:         &eventstream.EventStream{},
		modbusActorProvider: modbusActorProvider,
		mqttActorProvider:   mqttActorProvider,
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *MasterOfPuppetsActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

// EventStream carries entity events from the entities actor to the transports.
func (state *MasterOfPuppetsActor) EventStream() *eventstream.EventStream {
	return state.eventStream
}

func (state *MasterOfPuppetsActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("master@starting started")

		entitiesPID, err := state.startEntitiesActor(ctx)
		if err != nil {
			panic(err)
		}
		state.entitiesActor = entitiesPID
		state.children[domain.ACTOR_ID_ENTITIES] = entitiesPID

		if state.config.Modbus.Enable && state.modbusActorProvider != nil {
			modbusPID, err := state.startModbusActor(ctx)
			if err != nil {
				panic(err)
			}
			state.modbusActor = modbusPID
			state.children[domain.ACTOR_ID_MODBUS] = modbusPID
		}

		if state.config.MQTT.Enable && state.mqttActorProvider != nil {
			mqttPID, err := state.startMQTTActor(ctx)
			if err != nil {
				panic(err)
			}
			state.mqttActor = mqttPID
			state.children[domain.ACTOR_ID_MQTT] = mqttPID

			if state.config.MQTT.HADiscoveryEnable {
				if _, err := state.startHADiscoveryActor(ctx); err != nil {
					panic(err)
				}
			}
		}

		state.behavior.Become(state.DefaultReceive)
		state.stash.UnstashAll(ctx)
	default:
		state.logger.Debug("master@starting stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *MasterOfPuppetsActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		state.logger.Debug("master@default ActorHealthRequest")
		state.currentHealthCheck.reset(len(state.children))
		state.currentHealthCheck.respondTo = actorutil.ForRequest(msg).ReplyTo(ctx)
		for id, pid := range state.children {
			PipeHealth(ctx, id, pid, 500*time.Millisecond)
		}
		ctx.SetReceiveTimeout(1 * time.Second)
		state.behavior.BecomeStacked(state.HealthCheckReceive)
	case domain.CallServiceRequest:
		ctx.Forward(state.entitiesActor)
	case domain.GetEntitiesRequest:
		ctx.Forward(state.entitiesActor)
	case domain.RepublishStatesRequest:
		ctx.Forward(state.entitiesActor)
	case domain.PublishBridgeMessageRequest:
		if state.mqttActor == nil {
			state.logger.Debug("master@default bridge message dropped, mqtt disabled", zap.String("type", msg.Type))
			return
		}
		ctx.Forward(state.mqttActor)
	case adactor.ParsedCommand:
		// mqtt commands become service calls
		state.logger.Debug("master@default parsedCommand", zap.Any("command", msg.Command))
		if msg.Command != nil {
			if req, ok := actorutil.ParsedMQTTCommandToCommand(*msg.Command); ok {
				ctx.Send(state.entitiesActor, req)
			}
		}
	case *actor.Terminated:
		if msg.Who.Equal(state.entitiesActor) {
			state.logger.Error("master@default entities terminated")
			panic(errors.New("entities terminated"))
		}
		state.logger.Warn("master@default child terminated", zap.String("who", msg.Who.Id))
	default:
		state.logger.Debug("master@default unhandled", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *MasterOfPuppetsActor) HealthCheckReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.ReceiveTimeout:
		// children that did not answer in time count as unhealthy
		state.logger.Warn("master@healthcheck timeout")
		state.finishHealthCheck(ctx)
	case domain.ActorHealthResponse:
		state.logger.Debug("master@healthcheck ActorHealthResponse", zap.String("sender", msg.Id), zap.Bool("healthy", msg.Healthy))
		state.currentHealthCheck.received++
		state.currentHealthCheck.healthy[msg.Id] = msg.Healthy
		if state.currentHealthCheck.allReceived() {
			state.finishHealthCheck(ctx)
		}
	default:
		state.logger.Debug("master@healthcheck stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *MasterOfPuppetsActor) finishHealthCheck(ctx actor.Context) {
	ctx.CancelReceiveTimeout()
	state.currentHealthCheck.respond(ctx)
	state.behavior.UnbecomeStacked()
	state.stash.UnstashAll(ctx)
}

// PipeHealth asks pid for its health and delivers the answer, or an unhealthy
// response on failure, back to the calling actor.
func PipeHealth(ctx actor.Context, id string, pid *actor.PID, timeout time.Duration) {
	actorutil.PipeToSelfWithRecover(ctx, ctx.RequestFuture(pid, domain.ActorHealthRequest{}, timeout), func(err error) any {
		return domain.ActorHealthResponse{
			Id:      id,
			Healthy: false,
		}
	})
}

func restartSupervisor() actor.SupervisorStrategy {
	decider := func(reason interface{}) actor.Directive {
		log.Printf("handling failure for child. reason: %v", reason)
		return actor.RestartDirective
	}
	return actor.NewOneForOneStrategy(1, 10*time.Second, decider)
}

func (state *MasterOfPuppetsActor) startEntitiesActor(ctx actor.Context) (*actor.PID, error) {
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewEntitiesActor(state.integration, state.eventStream, state.config.Publish.Interval(), state.logger)
	}, actor.WithSupervisor(restartSupervisor()))
	return ctx.SpawnNamed(props, domain.ACTOR_ID_ENTITIES)
}

func (state *MasterOfPuppetsActor) startModbusActor(ctx actor.Context) (*actor.PID, error) {
	supervisor := actor.NewExponentialBackoffStrategy(10*time.Second, 1*time.Second)

	props := actor.PropsFromProducer(func() actor.Actor {
		return state.modbusActorProvider()
	}, actor.WithSupervisor(supervisor))
	return ctx.SpawnNamed(props, domain.ACTOR_ID_MODBUS)
}

func (state *MasterOfPuppetsActor) startMQTTActor(ctx actor.Context) (*actor.PID, error) {
	supervisor := actor.NewExponentialBackoffStrategy(10*time.Second, 1*time.Second)

	props := actor.PropsFromProducer(func() actor.Actor {
		return state.mqttActorProvider(state.eventStream)
	}, actor.WithSupervisor(supervisor))
	return ctx.SpawnNamed(props, domain.ACTOR_ID_MQTT)
}

func (state *MasterOfPuppetsActor) startHADiscoveryActor(ctx actor.Context) (*actor.PID, error) {
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewHADiscoveryActor(&state.config, state.entitiesActor, state.mqttActor, state.logger)
	}, actor.WithSupervisor(restartSupervisor()))
	return ctx.SpawnNamed(props, domain.ACTOR_ID_HA_DISCOVERY)
}

func (state *healthCheckResult) reset(expected int) {
	state.expected = expected
	state.healthy = make(map[string]bool, expected)
	state.received = 0
	state.respondTo = nil
}

func (state *healthCheckResult) allReceived() bool {
	return state.received >= state.expected
}

func (state *healthCheckResult) allHealthy() bool {
	if len(state.healthy) < state.expected {
		return false
	}
	for _, ok := range state.healthy {
		if !ok {
			return false
		}
	}
	return true
}

func (state *healthCheckResult) respond(ctx actor.Context) {
	resp := domain.ActorHealthResponse{
		Id:      domain.ACTOR_ID_MASTER,
		Healthy: state.allHealthy(),
	}
	if state.respondTo != nil {
		ctx.Send(state.respondTo, resp)
	}
}

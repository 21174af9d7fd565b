package actor

import (
	"context"
	"fmt"
	"time"

	"github.com/Mugiii7/CustomHA/internal/core/domain"
	"github.com/Mugiii7/CustomHA/internal/core/port"
	"github.com/Mugiii7/CustomHA/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/asynkron/protoactor-go/scheduler"
	"go.uber.org/zap"
)

// EntitiesActor serializes every service call coming from HTTP, MQTT or Modbus
// and announces the resulting state changes on the event stream.
type EntitiesActor struct {
	behavior    actor.Behavior
	scheduler   *scheduler.TimerScheduler
	integration port.Integration
	eventStream *eventstream.EventStream
	interval    time.Duration

	logger *zap.Logger
}

type republishTick struct {
}

func NewEntitiesActor(integration port.Integration, eventStream *eventstream.EventStream, interval time.Duration, logger *zap.Logger) *EntitiesActor {
	act := &EntitiesActor{
		integration: integration,
		eventStream: eventStream,
		interval:    interval,
		behavior:    actor.NewBehavior(),
		logger:      actorutil.ActorLogger(domain.ACTOR_ID_ENTITIES, logger),
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *EntitiesActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *EntitiesActor) StartingReceive(ctx actor.Context) {
	switch ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("entities@starting started")
		if state.interval > 0 {
			state.scheduler = scheduler.NewTimerScheduler(ctx)
			state.scheduler.RequestOnce(state.interval, ctx.Self(), republishTick{})
		}
		state.behavior.Become(state.DefaultReceive)
	}
}

func (state *EntitiesActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		state.logger.Debug("entities@default ActorHealthRequest")
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_ENTITIES,
			Healthy: true,
			State:   "idle",
		})
	case domain.CallServiceRequest:
		state.logger.Debug("entities@default CallServiceRequest",
			zap.String("domain", msg.Domain), zap.String("service", msg.Service), zap.String("origin", msg.Origin))
		changed := state.integration.CallService(context.Background(), msg.Domain, msg.Service, msg.Data)
		for _, e := range changed {
			state.publish(domain.EntityStateChangedEvent{
				EntityEventMixIn: domain.EntityEventMixIn{Entity: e},
				Service:          msg.Service,
			})
		}
		actorutil.ForRequest(msg).Respond(ctx, domain.CallServiceResponse{
			Applied: len(changed) > 0,
			Changed: changed,
		})
	case domain.GetEntitiesRequest:
		state.logger.Debug("entities@default GetEntitiesRequest")
		actorutil.ForRequest(msg).Respond(ctx, domain.GetEntitiesResponse{
			Entities: state.integration.Entities(context.Background()),
		})
	case domain.RepublishStatesRequest:
		state.republish()
	case republishTick:
		state.logger.Debug("entities@default tick")
		state.republish()
		state.scheduler.RequestOnce(state.interval, ctx.Self(), republishTick{})
	default:
		state.logger.Debug("entities@default unhandled", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *EntitiesActor) republish() {
	for _, e := range state.integration.Entities(context.Background()) {
		state.publish(domain.EntityStateSnapshotEvent{
			EntityEventMixIn: domain.EntityEventMixIn{Entity: e},
		})
	}
}

func (state *EntitiesActor) publish(evt any) {
	if state.eventStream != nil {
		state.eventStream.Publish(evt)
	}
}

package actor

import (
	"errors"
	"fmt"
	"time"

	"github.com/Mugiii7/CustomHA/internal/config"
	"github.com/Mugiii7/CustomHA/internal/core/domain"
	"github.com/Mugiii7/CustomHA/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/carlmjohnson/versioninfo"
	"go.uber.org/zap"
)

// HADiscoveryActor announces every entity once the mqtt actor is up, then
// idles.
type HADiscoveryActor struct {
	config        *config.Config
	behavior      actor.Behavior
	stash         *actorutil.Stash
	entitiesActor *actor.PID
	mqttActor     *actor.PID

	logger *zap.Logger
}

func NewHADiscoveryActor(config *config.Config, entitiesActor *actor.PID, mqttActor *actor.PID, logger *zap.Logger) *HADiscoveryActor {
	act := &HADiscoveryActor{
		config:        config,
		entitiesActor: entitiesActor,
		mqttActor:     mqttActor,
		behavior:      actor.NewBehavior(),
		stash:         &actorutil.Stash{},
		logger:        actorutil.ActorLogger(domain.ACTOR_ID_HA_DISCOVERY, logger),
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *HADiscoveryActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *HADiscoveryActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("hadiscovery@starting started")
		PipeHealth(ctx, domain.ACTOR_ID_MQTT, state.mqttActor, 5*time.Second)
		state.behavior.Become(state.WaitingHealthyReceive)
	case *actor.Restarting:
	default:
		state.logger.Debug("hadiscovery@starting stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *HADiscoveryActor) WaitingHealthyReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthResponse:
		state.logger.Debug("hadiscovery@healthcheck ActorHealthResponse", zap.String("sender", msg.Id), zap.Bool("healthy", msg.Healthy))
		if !msg.Healthy {
			panic(errors.New("MQTT Actor is not healthy"))
		}
		actorutil.PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.entitiesActor, domain.GetEntitiesRequest{}, 2*time.Second), func(err error) any {
			return domain.GetEntitiesResponse{
				ActorResponseMixIn: domain.ErrorResponse(err),
			}
		})
		state.behavior.Become(state.WaitingEntitiesReceive)
		state.stash.UnstashAll(ctx)
	default:
		state.logger.Debug("hadiscovery@healthcheck stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *HADiscoveryActor) WaitingEntitiesReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.GetEntitiesResponse:
		if msg.HasResponseError() {
			panic(msg.GetResponseError())
		}
		state.logger.Debug("hadiscovery@entities GetEntitiesResponse", zap.Int("count", len(msg.Entities)))

		bridgeDevice := domain.BridgeDevice(state.config.MQTT.BaseTopic, versioninfo.Short())
		ctx.Send(state.mqttActor, domain.PublishDiscoveryRequest{
			Entities: domain.DiscoveryEntities(bridgeDevice, msg.Entities),
		})
		state.behavior.Become(state.Done)
	default:
		state.logger.Debug("hadiscovery@entities default recv", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *HADiscoveryActor) Done(ctx actor.Context) {
}

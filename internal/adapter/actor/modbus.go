package actor

import (
	"fmt"
	"time"

	"github.com/Mugiii7/CustomHA/internal/config"
	"github.com/Mugiii7/CustomHA/internal/core/domain"
	"github.com/Mugiii7/CustomHA/internal/core/port"
	"github.com/Mugiii7/CustomHA/internal/modbus"
	"github.com/Mugiii7/CustomHA/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	simonmodbus "github.com/simonvetter/modbus"
	"go.uber.org/zap"
)

// ModbusActor serves the entity set as a Modbus TCP device. Coil writes turn
// into service calls sent to the call target, the parent unless overridden.
type ModbusActor struct {
	actorutil.ActorWithStates
	stash      *actorutil.Stash
	config     config.ModbusConfig
	reader     port.EntityReader
	recorder   modbus.RequestRecorder
	server     *simonmodbus.ModbusServer
	callTarget *actor.PID
	logger     *zap.Logger
}

type modbusServerStarted struct {
}

type modbusServerFailed struct {
	Error error
}

type modbusStartingState struct {
	*ModbusActor
}

type modbusServingState struct {
	*ModbusActor
}

func NewModbusActor(config config.ModbusConfig, reader port.EntityReader, recorder modbus.RequestRecorder, logger *zap.Logger) *ModbusActor {
	act := &ModbusActor{
		config:   config,
		reader:   reader,
		recorder: recorder,
		stash:    &actorutil.Stash{},
		logger:   actorutil.ActorLogger(domain.ACTOR_ID_MODBUS, logger),
	}
	act.ActorWithStates = actorutil.NewActorWithStates(modbusStartingState{act})
	return act
}

// WithCallTarget routes coil writes to pid instead of the parent.
func (state *ModbusActor) WithCallTarget(pid *actor.PID) *ModbusActor {
	state.callTarget = pid
	return state
}

func (state *ModbusActor) health(ctx actor.Context) {
	ctx.Respond(domain.ActorHealthResponse{
		Id:      domain.ACTOR_ID_MODBUS,
		Healthy: state.server != nil && state.StateName() == "serving",
		State:   state.StateName(),
	})
}

func (s modbusStartingState) Name() string {
	return "starting"
}

func (s modbusStartingState) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		s.logger.Debug("modbus@starting started", zap.String("url", s.config.Url))
		server, err := s.newServer(ctx)
		if err != nil {
			panic(err)
		}
		s.server = server
		actorutil.NewBackgroundTaskErr(ctx, server.Start, modbusServerStarted{}).
			WithTimeout(5 * time.Second).
			OnError(func(err error) {
				ctx.Send(ctx.Self(), modbusServerFailed{Error: err})
			}).
			PipeTo(ctx.Self())
	case modbusServerStarted:
		s.logger.Info("modbus@starting listening", zap.String("url", s.config.Url))
		s.Become(modbusServingState{s.ModbusActor})
		s.stash.UnstashAll(ctx)
	case modbusServerFailed:
		s.logger.Error("modbus@starting could not start server", zap.Error(msg.Error))
		s.server = nil
		panic(msg.Error)
	case *actor.Restarting:
		s.stop()
	case *actor.Stopping:
		s.stop()
	default:
		s.logger.Debug("modbus@starting stash", zap.String("type", fmt.Sprintf("%T", msg)))
		s.stash.Stash(ctx, msg)
	}
}

func (s modbusServingState) Name() string {
	return "serving"
}

func (s modbusServingState) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		s.logger.Debug("modbus@serving ActorHealthRequest")
		s.health(ctx)
	case *actor.Restarting:
		s.stop()
	case *actor.Stopping:
		s.stop()
	default:
		s.logger.Debug("modbus@serving unhandled", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *ModbusActor) newServer(ctx actor.Context) (*simonmodbus.ModbusServer, error) {
	target := state.callTarget
	if target == nil {
		target = ctx.Parent()
	}
	root := ctx.ActorSystem().Root

	// runs on the server goroutines, so it only sends messages
	call := func(entityDomain string, service string, data map[string]any) {
		if target == nil {
			return
		}
		root.Send(target, domain.CallServiceRequest{
			Domain:  entityDomain,
			Service: service,
			Data:    data,
			Origin:  domain.ACTOR_ID_MODBUS,
		})
	}

	handler := modbus.NewRegisterMap(state.reader, call, state.recorder, state.logger)
	return simonmodbus.NewServer(&simonmodbus.ServerConfiguration{
		URL:        state.config.Url,
		Timeout:    state.config.Timeout(),
		MaxClients: state.config.MaxClients,
	}, handler)
}

func (state *ModbusActor) stop() {
	if state.server != nil {
		state.logger.Debug("modbus: stop server")
		if err := state.server.Stop(); err != nil {
			state.logger.Warn("modbus: stop server", zap.Error(err))
		}
		state.server = nil
	}
}

package actor

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Mugiii7/CustomHA/internal/config"
	"github.com/Mugiii7/CustomHA/internal/core/domain"
	"github.com/Mugiii7/CustomHA/internal/mqtt"
	"github.com/Mugiii7/CustomHA/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

type PublishRecorder interface {
	MQTTPublish()
}

type MQTTActor struct {
	config         *config.Config
	behavior       actor.Behavior
	stash          *actorutil.Stash
	client         *mqtt.MQTTClient
	topics         mqtt.Topics
	eventStream    *eventstream.EventStream
	eventStreamSub *eventstream.Subscription
	recorder       PublishRecorder
	logger         *zap.Logger

	// set by the dummy actor instead of a broker connection
	published chan<- domain.PublishMessageRequest
}

type MQTTConnected struct {
}

type MQTTSubscribed struct {
}

type MQTTConnectionLost struct {
	Error error
}

type publishResult struct {
	ReplyTo *actor.PID
	Error   error
}

type ParsedCommand struct {
	Command *mqtt.ParsedMQTTCommand
}

type onEventStreamMessage struct {
	message any
}

type rawMessage struct {
	topic   string
	message string
	retain  bool
}

func NewMQTTActor(config *config.Config, eventStream *eventstream.EventStream, recorder PublishRecorder, logger *zap.Logger) *MQTTActor {
	act := &MQTTActor{
		config:      config,
		behavior:    actor.NewBehavior(),
		stash:       &actorutil.Stash{},
		topics:      mqtt.NewTopics(config.MQTT),
		eventStream: eventStream,
		recorder:    recorder,
		logger:      actorutil.ActorLogger(domain.ACTOR_ID_MQTT, logger),
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *MQTTActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *MQTTActor) StartingReceive(ctx actor.Context) {
	self := ctx.Self()
	root := ctx.ActorSystem().Root
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("mqtt@starting started")

		// create MQTT client
		state.client = mqtt.CreateMQTTClient(state.config, mqtt.OptsFromConfig(state.config), func(_ pahomqtt.Client) {
		}, func(_ pahomqtt.Client, err error) {
			root.Send(self, MQTTConnectionLost{Error: err})
		})

		// connect to MQTT server
		state.client.Connect(func(err error) {
			if err != nil {
				root.Send(self, MQTTConnectionLost{Error: err})
			} else {
				root.Send(self, MQTTConnected{})
			}
		}, 10*time.Second)

	case MQTTConnected:
		state.logger.Debug("mqtt@starting connected")

		state.client.Publish(state.topics.BridgeStateTopic(), mqtt.MQTT_PAYLOAD_ONLINE, 0, true, func(error) {}, 500*time.Millisecond)

		state.subscribeEventStream(ctx)

		// subscribe to MQTT command topic
		state.client.SubscribeToCommandTopic(func(c pahomqtt.Client, m pahomqtt.Message) {
			cmd, err := state.client.ParseMQTTCommand(m)
			if err == nil && cmd != nil {
				root.Send(self, ParsedCommand{Command: cmd})
			}
		}, func(err error) {
			if err != nil {
				root.Send(self, MQTTConnectionLost{Error: err})
			} else {
				root.Send(self, MQTTSubscribed{})
			}
		}, 1*time.Second)
	case MQTTSubscribed:
		// init completed, transition to default state
		state.logger.Debug("mqtt@starting subscribed")
		state.behavior.Become(state.DefaultReceive)
		state.stash.UnstashAll(ctx)
	case MQTTConnectionLost:
		// if connection lost, stop actor and let supervisor decide
		state.logger.Error("mqtt@starting connection lost", zap.Error(msg.Error))
		panic(msg.Error)
	case *actor.Restarting:
		state.stop()
	case *actor.Stopping:
		state.stop()
	default:
		state.logger.Debug("mqtt@starting stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *MQTTActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Restarting:
		state.stop()
	case *actor.Stopping:
		state.stop()
	case domain.ActorHealthRequest:
		state.logger.Debug("mqtt@default ActorHealthRequest")
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_MQTT,
			Healthy: true,
			State:   "idle",
		})
	case ParsedCommand:
		// route command to parent
		state.logger.Debug("mqtt@default parsedCommand", zap.Any("command", msg.Command))
		ctx.Send(ctx.Parent(), msg)
	case domain.PublishMessageRequest:
		state.logger.Debug("mqtt@default PublishMessageRequest", zap.String("topic", msg.Topic))
		state.publishMessage(ctx, rawMessage{topic: msg.Topic, message: msg.Payload, retain: msg.Retain},
			actorutil.ForRequest(msg).ReplyTo(ctx))
	case onEventStreamMessage:
		// entity events from the entities actor
		if raw := state.event2MQTTMessage(msg.message); raw != nil {
			state.logger.Debug("mqtt@default entity event", zap.String("type", fmt.Sprintf("%T", msg.message)))
			state.publishMessage(ctx, *raw, nil)
		}
	case domain.PublishBridgeMessageRequest:
		state.logger.Debug("mqtt@default PublishBridgeMessageRequest", zap.String("type", msg.Type))
		state.publishMessage(ctx, state.bridgeMessage(msg), nil)
	case domain.PublishDiscoveryRequest:
		state.logger.Debug("mqtt@default PublishHADiscovery", zap.Int("entities", len(msg.Entities)))
		err := state.PublishHomeAssistantDiscovery(msg.Entities)
		if err != nil {
			state.logger.Error("mqtt@default PublishHADiscovery error", zap.Error(err))
		}
		actorutil.ForRequest(msg).Respond(ctx, domain.PublishDiscoveryResponse{
			ActorResponseMixIn: domain.ErrorResponse(err),
		})
	case MQTTConnectionLost:
		// if connection lost, stop actor and let supervisor decide
		state.logger.Error("mqtt@default connection lost", zap.Error(msg.Error))
		panic(msg.Error)
	default:
		state.logger.Debug("mqtt@default unhandled", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *MQTTActor) subscribeEventStream(ctx actor.Context) {
	if state.eventStream == nil {
		return
	}
	self := ctx.Self()
	root := ctx.ActorSystem().Root
	state.eventStreamSub = state.eventStream.Subscribe(func(value any) {
		root.Send(self, onEventStreamMessage{message: value})
	})
}

func (state *MQTTActor) event2MQTTMessage(event any) *rawMessage {
	switch msg := event.(type) {
	case domain.EntityStateChangedEvent:
		return &rawMessage{
			topic:   state.topics.EntityStateTopic(msg.EntityId()),
			message: msg.Entity.State,
			retain:  true,
		}
	case domain.EntityStateSnapshotEvent:
		return &rawMessage{
			topic:   state.topics.EntityStateTopic(msg.EntityId()),
			message: msg.Entity.State,
			retain:  true,
		}
	default:
		return nil
	}
}

func (state *MQTTActor) bridgeMessage(msg domain.PublishBridgeMessageRequest) rawMessage {
	return rawMessage{
		topic:   state.topics.BridgeOutboundTopic(),
		message: string(msg.Payload),
	}
}

func (state *MQTTActor) publishMessage(ctx actor.Context, msg rawMessage, replyTo *actor.PID) {
	state.logger.Sugar().Debugf("mqtt@publish: message publish %s => %s", msg.topic, msg.message)
	if state.recorder != nil {
		state.recorder.MQTTPublish()
	}
	self := ctx.Self()
	root := ctx.ActorSystem().Root
	state.client.Publish(msg.topic, msg.message, 1, msg.retain, func(err error) {
		root.Send(self, publishResult{ReplyTo: replyTo, Error: err})
	}, 5*time.Second)
	state.behavior.BecomeStacked(state.PublishResultReceive)
}

func (state *MQTTActor) PublishResultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case publishResult:
		// log error and return to default state
		if msg.Error != nil {
			state.logger.Error("mqtt@publishing could not publish a message", zap.Error(msg.Error))
		}
		if msg.ReplyTo != nil {
			ctx.Send(msg.ReplyTo, domain.PublishMessageResponse{
				ActorResponseMixIn: domain.ErrorResponse(msg.Error),
			})
		}
		state.behavior.UnbecomeStacked()
		state.stash.UnstashOldest(ctx)
	case *actor.Stopping:
		state.stop()
	default:
		state.logger.Debug("mqtt@publishing stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

// discoveryMessages builds the retained config messages for every entity.
func (state *MQTTActor) discoveryMessages(entities []domain.DiscoveryEntity) ([]rawMessage, error) {
	messages := make([]rawMessage, 0, len(entities))
	for i := range entities {
		payload, err := json.Marshal(state.topics.HADiscoveryMessage(entities[i]))
		if err != nil {
			return nil, err
		}
		messages = append(messages, rawMessage{
			topic:   state.topics.HADiscoveryTopic(entities[i]),
			message: string(payload),
			retain:  true,
		})
	}
	return messages, nil
}

func (state *MQTTActor) PublishHomeAssistantDiscovery(entities []domain.DiscoveryEntity) error {
	messages, err := state.discoveryMessages(entities)
	if err != nil {
		return err
	}
	for _, msg := range messages {
		if state.recorder != nil {
			state.recorder.MQTTPublish()
		}
		state.client.Publish(msg.topic, msg.message, 0, msg.retain, func(error) {}, 1*time.Second)
	}
	return nil
}

func (state *MQTTActor) stop() {
	if state.eventStreamSub != nil {
		state.eventStream.Unsubscribe(state.eventStreamSub)
		state.eventStreamSub = nil
	}
	if state.client != nil {
		state.logger.Debug("mqtt: disconnect")
		state.client.Publish(state.topics.BridgeStateTopic(), mqtt.MQTT_PAYLOAD_OFFLINE, 0, true, func(error) {}, 500*time.Millisecond)
		state.client.Disconnect(500 * time.Millisecond)
		state.client = nil
	}
}

// Dummy actor, records what would be published instead of talking to a broker
func NewTestMQTTActor(config *config.Config, eventStream *eventstream.EventStream, published chan<- domain.PublishMessageRequest, logger *zap.Logger) *MQTTActor {
	act := &MQTTActor{
		config:      config,
		behavior:    actor.NewBehavior(),
		stash:       &actorutil.Stash{},
		topics:      mqtt.NewTopics(config.MQTT),
		eventStream: eventStream,
		published:   published,
		logger:      actorutil.ActorLogger(domain.ACTOR_ID_MQTT, logger),
	}
	act.behavior.Become(act.DummyReceive)
	return act
}

func (state *MQTTActor) DummyReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.subscribeEventStream(ctx)
	case *actor.Stopping:
		state.stop()
	case domain.ActorHealthRequest:
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_MQTT,
			Healthy: true,
			State:   "idle",
		})
	case ParsedCommand:
		ctx.Send(ctx.Parent(), msg)
	case onEventStreamMessage:
		if raw := state.event2MQTTMessage(msg.message); raw != nil {
			state.record(*raw)
		}
	case domain.PublishBridgeMessageRequest:
		state.record(state.bridgeMessage(msg))
	case domain.PublishDiscoveryRequest:
		messages, err := state.discoveryMessages(msg.Entities)
		for _, raw := range messages {
			state.record(raw)
		}
		actorutil.ForRequest(msg).Respond(ctx, domain.PublishDiscoveryResponse{
			ActorResponseMixIn: domain.ErrorResponse(err),
		})
	case domain.PublishMessageRequest:
		state.record(rawMessage{topic: msg.Topic, message: msg.Payload, retain: msg.Retain})
		actorutil.ForRequest(msg).Respond(ctx, domain.PublishMessageResponse{})
	}
}

func (state *MQTTActor) record(msg rawMessage) {
	if state.published == nil {
		return
	}
	select {
	case state.published <- domain.PublishMessageRequest{Topic: msg.topic, Payload: msg.message, Retain: msg.retain}:
	default:
		state.logger.Warn("mqtt@dummy dropped message", zap.String("topic", msg.topic))
	}
}

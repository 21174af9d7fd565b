package mqtt

import (
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"github.com/Mugiii7/CustomHA/internal/config"
	"github.com/Mugiii7/CustomHA/internal/core/domain"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	MQTT_PAYLOAD_ONLINE  = "online"
	MQTT_PAYLOAD_OFFLINE = "offline"
	MQTT_PAYLOAD_ON      = "on"
	MQTT_PAYLOAD_OFF     = "off"
	MQTT_PAYLOAD_TOGGLE  = "toggle"
	MQTT_PAYLOAD_LOCK    = "lock"
	MQTT_PAYLOAD_UNLOCK  = "unlock"
)

func OptsFromConfig(cfg *config.Config) *mqtt.ClientOptions {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.MQTT.Host, cfg.MQTT.Port))
	opts.SetClientID(fmt.Sprintf("demohome_%d", rand.Intn(1000)))
	if cfg.MQTT.Username != "" && cfg.MQTT.Password != "" {
		opts.SetUsername(cfg.MQTT.Username)
		opts.SetPassword(cfg.MQTT.Password)
	}
	opts.WillEnabled = true
	opts.WillPayload = []byte(MQTT_PAYLOAD_OFFLINE)
	opts.WillRetained = true
	opts.WillTopic = bridgeStateTopic(cfg.MQTT.BaseTopic)
	opts.WillQos = 0

	return opts
}

func CreateMQTTClient(cfg *config.Config, opts *mqtt.ClientOptions, onConnectHandler func(client mqtt.Client),
	onConnectionLostHandler func(mqtt.Client, error)) *MQTTClient {
	if onConnectHandler != nil {
		opts.OnConnect = onConnectHandler
	}
	if onConnectionLostHandler != nil {
		opts.OnConnectionLost = onConnectionLostHandler
	}
	return &MQTTClient{
		client: mqtt.NewClient(opts),
		Topics: NewTopics(cfg.MQTT),
	}
}

type MQTTClient struct {
	client mqtt.Client
	Topics Topics
}

// Topics knows the topic layout for one base topic.
type Topics struct {
	base          string
	discovery     string
	commandRegexp *regexp.Regexp
}

func NewTopics(cfg config.MQTTConfig) Topics {
	return Topics{
		base:          cfg.BaseTopic,
		discovery:     cfg.HADiscoveryTopic,
		commandRegexp: commandExtractor(cfg.BaseTopic),
	}
}

type ParsedMQTTCommand struct {
	EntityId string
	Domain   string
	ObjectId string
	Service  string
	Payload  string
}

func (t Topics) BridgeStateTopic() string {
	return bridgeStateTopic(t.base)
}

func (t Topics) BridgeOutboundTopic() string {
	return fmt.Sprintf("%s/bridge/outbound", t.base)
}

func (t Topics) EntityStateTopic(entityId string) string {
	return fmt.Sprintf("%s/%s/%s/state", t.base, domain.DomainOf(entityId), domain.ObjectIdOf(entityId))
}

func (t Topics) EntityCommandTopic(entityId string) string {
	return fmt.Sprintf("%s/%s/%s/set", t.base, domain.DomainOf(entityId), domain.ObjectIdOf(entityId))
}

func (t Topics) CommandSubscription() string {
	return fmt.Sprintf("%s/+/+/set", t.base)
}

func (t Topics) DiscoveryTopic(component string, deviceId string, objectId string) string {
	return fmt.Sprintf("%s/%s/%s/%s/config", t.discovery, component, deviceId, objectId)
}

// ParseCommand maps a command topic and payload onto a service call.
func (t Topics) ParseCommand(topic string, payload []byte) (*ParsedMQTTCommand, error) {
	matches := t.commandRegexp.FindStringSubmatch(topic)
	if len(matches) != 3 {
		return nil, errors.New("invalid command")
	}
	service, ok := ServiceForPayload(string(payload))
	if !ok {
		return nil, fmt.Errorf("invalid command payload: %q", string(payload))
	}
	return &ParsedMQTTCommand{
		EntityId: matches[1] + "." + matches[2],
		Domain:   matches[1],
		ObjectId: matches[2],
		Service:  service,
		Payload:  string(payload),
	}, nil
}

func ServiceForPayload(payload string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(payload)) {
	case MQTT_PAYLOAD_ON:
		return domain.SERVICE_TURN_ON, true
	case MQTT_PAYLOAD_OFF:
		return domain.SERVICE_TURN_OFF, true
	case MQTT_PAYLOAD_TOGGLE:
		return domain.SERVICE_TOGGLE, true
	case MQTT_PAYLOAD_LOCK:
		return domain.SERVICE_LOCK, true
	case MQTT_PAYLOAD_UNLOCK:
		return domain.SERVICE_UNLOCK, true
	default:
		return "", false
	}
}

func (c *MQTTClient) ParseMQTTCommand(msg mqtt.Message) (*ParsedMQTTCommand, error) {
	return c.Topics.ParseCommand(msg.Topic(), msg.Payload())
}

func (c *MQTTClient) Publish(topic string, payload any, qos byte, retain bool, continuation func(error), timeout time.Duration) {
	waitFor(c.client.Publish(topic, qos, retain, payload), "publish", continuation, timeout)
}

func (c *MQTTClient) Subscribe(topic string, qos byte, handler mqtt.MessageHandler, continuation func(error), timeout time.Duration) {
	waitFor(c.client.Subscribe(topic, qos, handler), "subscribe", continuation, timeout)
}

func (c *MQTTClient) SubscribeToCommandTopic(handler mqtt.MessageHandler, continuation func(error), timeout time.Duration) {
	c.Subscribe(c.Topics.CommandSubscription(), 1, handler, continuation, timeout)
}

func (c *MQTTClient) Unsubscribe(topic string, continuation func(error), timeout time.Duration) {
	waitFor(c.client.Unsubscribe(topic), "unsubscribe", continuation, timeout)
}

func (c *MQTTClient) Connect(continuation func(error), timeout time.Duration) {
	waitFor(c.client.Connect(), "connect", continuation, timeout)
}

func (c *MQTTClient) Disconnect(timeout time.Duration) {
	c.client.Disconnect(uint(timeout.Milliseconds()))
}

func waitFor(token mqtt.Token, op string, continuation func(error), timeout time.Duration) {
	go func() {
		if !token.WaitTimeout(timeout) {
			continuation(fmt.Errorf("MQTT %s timed out", op))
		} else {
			continuation(token.Error())
		}
	}()
}

func commandExtractor(baseTopic string) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf("^%s/([a-z_]+)/([a-zA-Z0-9_]+)/set$", regexp.QuoteMeta(baseTopic)))
}

func bridgeStateTopic(baseTopic string) string {
	return fmt.Sprintf("%s/bridge/state", baseTopic)
}

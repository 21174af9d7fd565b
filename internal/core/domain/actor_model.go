package domain

const (
	ACTOR_ID_MASTER       = "master"
	ACTOR_ID_ENTITIES     = "entities"
	ACTOR_ID_MQTT         = "mqtt"
	ACTOR_ID_MODBUS       = "modbus"
	ACTOR_ID_HA_DISCOVERY = "hadiscovery"
)

// CallServiceRequest asks the entities actor to run one service call.
type CallServiceRequest struct {
	ActorRequestMixIn
	Domain  string
	Service string
	Data    map[string]any
	Origin  string
}

type CallServiceResponse struct {
	ActorResponseMixIn
	Applied bool
	Changed []Entity
}

type GetEntitiesRequest struct {
	ActorRequestMixIn
}

type GetEntitiesResponse struct {
	ActorResponseMixIn
	Entities []Entity
}

// RepublishStatesRequest triggers a snapshot event for every entity.
type RepublishStatesRequest struct{}

type PublishMessageRequest struct {
	ActorRequestMixIn
	Topic   string
	Payload string
	Retain  bool
}

type PublishMessageResponse struct {
	ActorResponseMixIn
}

type PublishDiscoveryRequest struct {
	ActorRequestMixIn
	Entities []DiscoveryEntity
}

type PublishDiscoveryResponse struct {
	ActorResponseMixIn
}

type PublishBridgeMessageRequest struct {
	ActorRequestMixIn
	Type    string
	Payload []byte
}

type ActorHealthRequest struct {
	ActorRequestMixIn
}

type ActorHealthResponse struct {
	ActorResponseMixIn
	Id      string
	Healthy bool
	State   string
}

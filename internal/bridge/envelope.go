package bridge

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	TYPE_CONNECTION_STATUS = "connection-status"
	TYPE_CALL_SERVICE      = "call_service"

	EVENT_CONNECTED = "connected"
)

var ErrUnknownType = errors.New("unknown bridge message type")

// Envelope is one outward message emitted by the dashboard runtime.
type Envelope struct {
	Type        string             `json:"type"`
	Payload     *ConnectionPayload `json:"payload,omitempty"`
	Domain      string             `json:"domain,omitempty"`
	Service     string             `json:"service,omitempty"`
	ServiceData *ServiceData       `json:"service_data,omitempty"`
}

type ConnectionPayload struct {
	Event string `json:"event"`
}

type ServiceData struct {
	EntityId string `json:"entity_id"`
}

func Connected() Envelope {
	return Envelope{
		Type:    TYPE_CONNECTION_STATUS,
		Payload: &ConnectionPayload{Event: EVENT_CONNECTED},
	}
}

// CallService builds the envelope the runtime emits after an optimistic toggle
// to newState.
func CallService(entityId string, newState string) Envelope {
	d, _, _ := strings.Cut(entityId, ".")
	service := "turn_off"
	if newState == "on" {
		service = "turn_on"
	}
	return Envelope{
		Type:        TYPE_CALL_SERVICE,
		Domain:      d,
		Service:     service,
		ServiceData: &ServiceData{EntityId: entityId},
	}
}

// Decode parses and validates one envelope.
func Decode(data []byte) (Envelope, error) {
	var e Envelope
	if err := json.Unmarshal(data, &e); err != nil {
		return Envelope{}, fmt.Errorf("invalid bridge message: %w", err)
	}
	switch e.Type {
	case TYPE_CONNECTION_STATUS:
		if e.Payload == nil || e.Payload.Event == "" {
			return Envelope{}, errors.New("connection-status message without event")
		}
	case TYPE_CALL_SERVICE:
		if e.Domain == "" || e.Service == "" {
			return Envelope{}, errors.New("call_service message without domain or service")
		}
		if e.ServiceData == nil || e.ServiceData.EntityId == "" {
			return Envelope{}, errors.New("call_service message without entity_id")
		}
	default:
		return Envelope{}, fmt.Errorf("%w: %q", ErrUnknownType, e.Type)
	}
	return e, nil
}

func (e Envelope) Encode() []byte {
	data, _ := json.Marshal(e)
	return data
}

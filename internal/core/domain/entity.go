package domain

import (
	"strings"
	"time"
)

const (
	DOMAIN_LIGHT         = "light"
	DOMAIN_SWITCH        = "switch"
	DOMAIN_SENSOR        = "sensor"
	DOMAIN_BINARY_SENSOR = "binary_sensor"
	DOMAIN_CLIMATE       = "climate"
	DOMAIN_LOCK          = "lock"
	DOMAIN_ZONE          = "zone"
)

const (
	STATE_ON       = "on"
	STATE_OFF      = "off"
	STATE_LOCKED   = "locked"
	STATE_UNLOCKED = "unlocked"
)

const (
	SERVICE_TURN_ON  = "turn_on"
	SERVICE_TURN_OFF = "turn_off"
	SERVICE_TOGGLE   = "toggle"
	SERVICE_LOCK     = "lock"
	SERVICE_UNLOCK   = "unlock"
)

const (
	ATTR_ENTITY_ID           = "entity_id"
	ATTR_FRIENDLY_NAME       = "friendly_name"
	ATTR_UNIT_OF_MEASUREMENT = "unit_of_measurement"
	ATTR_DEVICE_CLASS        = "device_class"
	ATTR_TEMPERATURE         = "temperature"
	ATTR_CURRENT_TEMPERATURE = "current_temperature"
)

// Entity is a simulated device or sensor record. Values are treated as
// immutable: updates replace the record instead of mutating it.
type Entity struct {
	EntityId    string         `json:"entity_id" yaml:"entity_id"`
	State       string         `json:"state" yaml:"state"`
	Attributes  map[string]any `json:"attributes" yaml:"attributes"`
	LastChanged time.Time      `json:"last_changed" yaml:"last_changed"`
	LastUpdated time.Time      `json:"last_updated" yaml:"last_updated"`
}

func NewEntity(id, state string, attributes map[string]any, now time.Time) Entity {
	return Entity{
		EntityId:    id,
		State:       state,
		Attributes:  attributes,
		LastChanged: now,
		LastUpdated: now,
	}
}

// Domain is the part of the id before the first dot.
func (e Entity) Domain() string {
	return DomainOf(e.EntityId)
}

// ObjectId is the part of the id after the first dot.
func (e Entity) ObjectId() string {
	return ObjectIdOf(e.EntityId)
}

// FriendlyName falls back to the entity id when the attribute is missing or
// is not a string.
func (e Entity) FriendlyName() string {
	if name, ok := e.Attributes[ATTR_FRIENDLY_NAME].(string); ok {
		return name
	}
	return e.EntityId
}

// StringAttribute returns "" for missing or non-string values.
func (e Entity) StringAttribute(key string) string {
	if value, ok := e.Attributes[key].(string); ok {
		return value
	}
	return ""
}

// NumberAttribute returns false for missing or non-numeric values.
func (e Entity) NumberAttribute(key string) (float64, bool) {
	switch v := e.Attributes[key].(type) {
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}

// WithState returns a copy carrying the new state and both timestamps set to
// ts. Attributes are carried over untouched.
func (e Entity) WithState(state string, ts time.Time) Entity {
	c := e.DeepCopy()
	c.State = state
	c.LastChanged = ts
	c.LastUpdated = ts
	return c
}

func (e Entity) DeepCopy() Entity {
	c := e
	if e.Attributes != nil {
		c.Attributes = make(map[string]any, len(e.Attributes))
		for k, v := range e.Attributes {
			c.Attributes[k] = copyValue(v)
		}
	}
	return c
}

func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, inner := range t {
			m[k] = copyValue(inner)
		}
		return m
	case []any:
		l := make([]any, len(t))
		for i := range t {
			l[i] = copyValue(t[i])
		}
		return l
	case []string:
		return append([]string(nil), t...)
	default:
		return v
	}
}

func DomainOf(entityId string) string {
	d, _, _ := strings.Cut(entityId, ".")
	return d
}

func ObjectIdOf(entityId string) string {
	_, o, found := strings.Cut(entityId, ".")
	if !found {
		return entityId
	}
	return o
}

package mqtt

import (
	"github.com/Mugiii7/CustomHA/internal/core/domain"
)

type HADiscoveryConfig struct {
	Device            HADiscoveryDevice `json:"device"`
	StateTopic        string            `json:"state_topic"`
	CommandTopic      string            `json:"command_topic,omitempty"`
	StateClass        string            `json:"state_class,omitempty"`
	DeviceClass       string            `json:"device_class,omitempty"`
	UnitOfMeasurement string            `json:"unit_of_measurement,omitempty"`
	AvTopic           string            `json:"availability_topic,omitempty"`
	EntityCategory    string            `json:"entity_category,omitempty"`
	Name              string            `json:"name"`
	UniqueId          string            `json:"unique_id"`
	Platform          string            `json:"platform"`
	PayloadOn         string            `json:"payload_on,omitempty"`
	PayloadOff        string            `json:"payload_off,omitempty"`
	StateOn           string            `json:"state_on,omitempty"`
	StateOff          string            `json:"state_off,omitempty"`
	PayloadLock       string            `json:"payload_lock,omitempty"`
	PayloadUnlock     string            `json:"payload_unlock,omitempty"`
	StateLocked       string            `json:"state_locked,omitempty"`
	StateUnlocked     string            `json:"state_unlocked,omitempty"`
	Icon              string            `json:"icon,omitempty"`
}

type HADiscoveryDevice struct {
	Id           []string `json:"identifiers"`
	Manufacturer string   `json:"manufacturer,omitempty"`
	Version      string   `json:"sw_version,omitempty"`
	Model        string   `json:"model,omitempty"`
	Name         string   `json:"name,omitempty"`
	ViaDevice    string   `json:"via_device,omitempty"`
}

// HAComponent is the discovery component an entity domain is announced as.
func HAComponent(entityDomain string) string {
	switch entityDomain {
	case domain.DOMAIN_LIGHT, domain.DOMAIN_SWITCH, domain.DOMAIN_LOCK,
		domain.DOMAIN_BINARY_SENSOR:
		return entityDomain
	default:
		// sensors and climate are announced read only
		return domain.DOMAIN_SENSOR
	}
}

func (t Topics) HADiscoveryTopic(entity domain.DiscoveryEntity) string {
	return t.DiscoveryTopic(HAComponent(entity.Domain), entity.Device.Id, entity.ObjectId)
}

func (t Topics) HADiscoveryMessage(entity domain.DiscoveryEntity) HADiscoveryConfig {
	disConfig := HADiscoveryConfig{
		Device:            device(entity.Device),
		DeviceClass:       entity.DeviceClass,
		UnitOfMeasurement: entity.UnitOfMeasurement,
		AvTopic:           t.BridgeStateTopic(),
		EntityCategory:    entity.EntityCategory,
		Name:              entity.Name,
		UniqueId:          entity.UniqueId,
		Icon:              entity.Icon,
		Platform:          "mqtt",
	}

	if entity.ObjectId == domain.DISCOVERY_ID_BRIDGE_STATE && entity.EntityId == "" {
		disConfig.StateTopic = t.BridgeStateTopic()
		disConfig.AvTopic = ""
		disConfig.PayloadOn = MQTT_PAYLOAD_ONLINE
		disConfig.PayloadOff = MQTT_PAYLOAD_OFFLINE
		return disConfig
	}

	disConfig.StateTopic = t.EntityStateTopic(entity.EntityId)
	switch HAComponent(entity.Domain) {
	case domain.DOMAIN_LIGHT, domain.DOMAIN_SWITCH:
		disConfig.CommandTopic = t.EntityCommandTopic(entity.EntityId)
		disConfig.PayloadOn = MQTT_PAYLOAD_ON
		disConfig.PayloadOff = MQTT_PAYLOAD_OFF
		disConfig.StateOn = domain.STATE_ON
		disConfig.StateOff = domain.STATE_OFF
	case domain.DOMAIN_BINARY_SENSOR:
		disConfig.PayloadOn = domain.STATE_ON
		disConfig.PayloadOff = domain.STATE_OFF
	case domain.DOMAIN_LOCK:
		disConfig.CommandTopic = t.EntityCommandTopic(entity.EntityId)
		disConfig.PayloadLock = MQTT_PAYLOAD_LOCK
		disConfig.PayloadUnlock = MQTT_PAYLOAD_UNLOCK
		disConfig.StateLocked = domain.STATE_LOCKED
		disConfig.StateUnlocked = domain.STATE_UNLOCKED
	case domain.DOMAIN_SENSOR:
		if entity.UnitOfMeasurement != "" {
			disConfig.StateClass = "measurement"
		}
	}
	return disConfig
}

func device(d domain.Device) HADiscoveryDevice {
	return HADiscoveryDevice{
		Id:           []string{d.Id},
		Manufacturer: d.Manufacturer,
		Version:      d.Version,
		Model:        d.Model,
		Name:         d.Name,
		ViaDevice:    d.ViaDevice,
	}
}

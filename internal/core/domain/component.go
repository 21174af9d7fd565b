package domain

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
)

const (
	DISCOVERY_ID_BRIDGE_STATE = "bridge_state"

	DEVICE_CLASS_CONNECTIVITY = "connectivity"
	ENTITY_CLASS_DIAGNOSTIC   = "diagnostic"
)

type Device struct {
	Id           string
	Name         string
	Version      string
	Model        string
	Manufacturer string
	ViaDevice    string
}

// DiscoveryEntity is what the discovery publisher needs to announce one entity.
type DiscoveryEntity struct {
	Device            Device
	EntityId          string
	Domain            string
	ObjectId          string
	Name              string
	UniqueId          string
	UnitOfMeasurement string
	DeviceClass       string
	EntityCategory    string
	Icon              string
}

func BridgeDevice(baseTopic string, version string) Device {
	return Device{
		Id:           fmt.Sprintf("demohome_bridge_%s", md5HashShort(baseTopic)),
		Manufacturer: "Demo Home",
		Model:        "Simulated Home",
		Version:      version,
		Name:         fmt.Sprintf("Demo Home %s", md5HashShort(baseTopic)),
	}
}

func IdDevice(device Device) Device {
	return Device{
		Id:   device.Id,
		Name: device.Name,
	}
}

// BridgeStateDiscovery announces the bridge connectivity sensor.
func BridgeStateDiscovery(bridgeDevice Device) DiscoveryEntity {
	return DiscoveryEntity{
		Device:         bridgeDevice,
		Domain:         DOMAIN_BINARY_SENSOR,
		ObjectId:       DISCOVERY_ID_BRIDGE_STATE,
		Name:           "Connection state",
		DeviceClass:    DEVICE_CLASS_CONNECTIVITY,
		EntityCategory: ENTITY_CLASS_DIAGNOSTIC,
		UniqueId:       uniqueId(bridgeDevice.Id, DISCOVERY_ID_BRIDGE_STATE),
	}
}

// DiscoveryEntities maps every entity onto the bridge device. Only the first
// entry carries the full device description.
func DiscoveryEntities(bridgeDevice Device, entities []Entity) []DiscoveryEntity {
	list := []DiscoveryEntity{BridgeStateDiscovery(bridgeDevice)}
	for _, e := range entities {
		list = append(list, DiscoveryEntity{
			Device:            IdDevice(bridgeDevice),
			EntityId:          e.EntityId,
			Domain:            e.Domain(),
			ObjectId:          e.ObjectId(),
			Name:              e.FriendlyName(),
			UniqueId:          uniqueId(bridgeDevice.Id, e.Domain()+"_"+e.ObjectId()),
			UnitOfMeasurement: e.StringAttribute(ATTR_UNIT_OF_MEASUREMENT),
			DeviceClass:       discoveryDeviceClass(e),
			Icon:              iconFor(e.Domain()),
		})
	}
	return list
}

// only pass through device classes HA accepts for the component
func discoveryDeviceClass(e Entity) string {
	class := e.StringAttribute(ATTR_DEVICE_CLASS)
	switch e.Domain() {
	case DOMAIN_SENSOR, DOMAIN_BINARY_SENSOR:
		return class
	case DOMAIN_SWITCH:
		if class == "outlet" || class == "switch" {
			return class
		}
	}
	return ""
}

func iconFor(domain string) string {
	switch domain {
	case DOMAIN_CLIMATE:
		return "mdi:thermostat"
	case DOMAIN_LOCK:
		return "mdi:lock"
	default:
		return ""
	}
}

func uniqueId(deviceId string, id string) string {
	return fmt.Sprintf("%s_%s", deviceId, id)
}

func md5HashShort(text string) string {
	hash := md5.Sum([]byte(text))
	return hex.EncodeToString(hash[:])[0:8]
}

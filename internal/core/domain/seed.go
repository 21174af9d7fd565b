package domain

import "time"

const (
	HOME_ZONE_ID = "zone.home"
	ZONE_STATE   = "zoning"
)

// SeedEntities builds the fixed demo entity set. The result is fresh on every
// call so callers own it.
func SeedEntities(now time.Time) []Entity {
	return []Entity{
		// lights
		NewEntity("light.living_room", STATE_OFF, map[string]any{
			ATTR_FRIENDLY_NAME:   "Living Room Light",
			"supported_features": 1,
			"brightness":         255,
		}, now),
		NewEntity("light.bedroom", STATE_ON, map[string]any{
			ATTR_FRIENDLY_NAME:   "Bedroom Light",
			"supported_features": 1,
			"brightness":         180,
		}, now),
		NewEntity("light.kitchen", STATE_OFF, map[string]any{
			ATTR_FRIENDLY_NAME:   "Kitchen Light",
			"supported_features": 1,
			"brightness":         255,
		}, now),

		// switches
		NewEntity("switch.porch_light", STATE_ON, map[string]any{
			ATTR_FRIENDLY_NAME: "Porch Light",
			ATTR_DEVICE_CLASS:  "switch",
		}, now),
		NewEntity("switch.coffee_maker", STATE_OFF, map[string]any{
			ATTR_FRIENDLY_NAME: "Coffee Maker",
			ATTR_DEVICE_CLASS:  "outlet",
		}, now),

		// sensors
		NewEntity("sensor.temperature", "21.5", map[string]any{
			ATTR_FRIENDLY_NAME:       "Living Room Temperature",
			ATTR_UNIT_OF_MEASUREMENT: "°C",
			ATTR_DEVICE_CLASS:        "temperature",
		}, now),
		NewEntity("sensor.humidity", "45", map[string]any{
			ATTR_FRIENDLY_NAME:       "Living Room Humidity",
			ATTR_UNIT_OF_MEASUREMENT: "%",
			ATTR_DEVICE_CLASS:        "humidity",
		}, now),

		// binary sensors
		NewEntity("binary_sensor.front_door", STATE_OFF, map[string]any{
			ATTR_FRIENDLY_NAME: "Front Door",
			ATTR_DEVICE_CLASS:  "door",
		}, now),
		NewEntity("binary_sensor.motion_living_room", STATE_OFF, map[string]any{
			ATTR_FRIENDLY_NAME: "Living Room Motion",
			ATTR_DEVICE_CLASS:  "motion",
		}, now),

		// climate
		NewEntity("climate.living_room", "heat", map[string]any{
			ATTR_FRIENDLY_NAME:       "Living Room Thermostat",
			ATTR_TEMPERATURE:         21,
			"target_temp_low":        18,
			"target_temp_high":       24,
			ATTR_CURRENT_TEMPERATURE: 21.5,
			"hvac_modes":             []string{"off", "heat", "cool", "auto"},
		}, now),

		// lock
		NewEntity("lock.front_door", STATE_LOCKED, map[string]any{
			ATTR_FRIENDLY_NAME: "Front Door Lock",
		}, now),
	}
}

// HomeZone is generated on every read and never stored.
func HomeZone(now time.Time) Entity {
	return NewEntity(HOME_ZONE_ID, ZONE_STATE, map[string]any{
		ATTR_FRIENDLY_NAME: "Home",
		"latitude":         0.0,
		"longitude":        0.0,
		"radius":           100,
	}, now)
}

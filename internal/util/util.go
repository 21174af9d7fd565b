package util

import (
	"github.com/Mugiii7/CustomHA/internal/config"

	"go.uber.org/zap"
)

func LoadTestConfig() config.Config {
	return config.Config{
		LogLevel: zap.DebugLevel,
		MQTT: config.MQTTConfig{
			Enable:            true,
			Host:              "localhost",
			Port:              1883,
			BaseTopic:         "demohome",
			HADiscoveryEnable: true,
			HADiscoveryTopic:  "homeassistant",
		},
		Modbus: config.ModbusConfig{
			Enable:        true,
			Url:           "tcp://127.0.0.1:0",
			MaxClients:    1,
			TimeoutMillis: 1000,
		},
		Publish: config.PublishConfig{
			IntervalMillis: 0,
		},
		Demo: config.DemoConfig{
			ServerName: "Demo Home",
		},
		Port: 8080,
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDefaults(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	t.Setenv("CONFIG_FILE", "")
	t.Setenv("PORT", "")
	cfg, err := Load(viper.New())
	require.NoError(err)

	assert.Equal(zap.WarnLevel, cfg.LogLevel)
	assert.Equal(uint(8080), cfg.Port)
	assert.False(cfg.MQTT.Enable)
	assert.Equal("demohome", cfg.MQTT.BaseTopic)
	assert.Equal("homeassistant", cfg.MQTT.HADiscoveryTopic)
	assert.Equal(1883, cfg.MQTT.Port)
	assert.False(cfg.Modbus.Enable)
	assert.Equal("tcp://0.0.0.0:5502", cfg.Modbus.Url)
	assert.Equal(30*time.Second, cfg.Modbus.Timeout())
	assert.Equal(time.Minute, cfg.Publish.Interval())
	assert.Equal("Demo Home", cfg.Demo.ServerName)
}

func TestEnvOverrides(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DEMOHOME_PORT", "")
	t.Setenv("PORT", "9090")
	t.Setenv("DEMOHOME_LOG_LEVEL", "debug")
	t.Setenv("DEMOHOME_MQTT_ENABLE", "true")
	t.Setenv("DEMOHOME_MQTT_BASE_TOPIC", "My_Home")

	cfg, err := Load(viper.New())
	require.NoError(err)
	assert.Equal(uint(9090), cfg.Port)
	assert.Equal(zap.DebugLevel, cfg.LogLevel)
	assert.True(cfg.MQTT.Enable)
	assert.Equal("my_home", cfg.MQTT.BaseTopic)
}

func TestConfigFile(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(os.WriteFile(path, []byte(`
log_level: error
mqtt:
  enable: true
  ha_discovery_enable: true
modbus:
  enable: true
  url: tcp://127.0.0.1:1502
demo:
  server_name: Cabin
`), 0o600))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load(viper.New())
	require.NoError(err)
	require.Equal(zap.ErrorLevel, cfg.LogLevel)
	require.True(cfg.MQTT.HADiscoveryEnable)
	require.Equal("tcp://127.0.0.1:1502", cfg.Modbus.Url)
	require.Equal("Cabin", cfg.Demo.ServerName)
}

func validConfig() Config {
	return Config{
		Port: 8080,
		MQTT: MQTTConfig{
			BaseTopic:        "demohome",
			HADiscoveryTopic: "homeassistant",
		},
		Modbus: ModbusConfig{
			Url:        "tcp://0.0.0.0:5502",
			MaxClients: 1,
		},
		Demo: DemoConfig{ServerName: "Demo Home"},
	}
}

func TestValidate(t *testing.T) {
	assert := assert.New(t)

	cfg := validConfig()
	assert.NoError(cfg.Validate())

	cases := map[string]func(*Config){
		"bad base topic":       func(c *Config) { c.MQTT.BaseTopic = "demo/home" },
		"bad discovery topic":  func(c *Config) { c.MQTT.HADiscoveryTopic = "" },
		"discovery needs mqtt": func(c *Config) { c.MQTT.HADiscoveryEnable = true },
		"port zero":            func(c *Config) { c.Port = 0 },
		"modbus url scheme":    func(c *Config) { c.Modbus.Enable = true; c.Modbus.Url = "0.0.0.0:5502" },
		"modbus clients":       func(c *Config) { c.Modbus.Enable = true; c.Modbus.MaxClients = 0 },
		"short publish":        func(c *Config) { c.Publish.IntervalMillis = 10 },
		"empty server name":    func(c *Config) { c.Demo.ServerName = " " },
	}
	for name, mutate := range cases {
		c := validConfig()
		mutate(&c)
		assert.Error(c.Validate(), name)
	}
}

func TestCheckMQTTTopic(t *testing.T) {
	assert := assert.New(t)

	topic, err := CheckMQTTTopic("Demo_Home_2")
	assert.NoError(err)
	assert.Equal("demo_home_2", topic)

	_, err = CheckMQTTTopic("demo-home")
	assert.Error(err)
}

func TestParseLogLevel(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(zap.DebugLevel, ParseLogLevel("trace"))
	assert.Equal(zap.WarnLevel, ParseLogLevel("WARN"))
	assert.Equal(zap.InfoLevel, ParseLogLevel("loud"))
}

func TestRedacted(t *testing.T) {
	cfg := validConfig()
	cfg.MQTT.Password = "secret"
	assert.Equal(t, "*redacted*", cfg.Redacted().MQTT.Password)
	assert.Equal(t, "secret", cfg.MQTT.Password)
}

package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const ENV_PREFIX = "demohome"

type Config struct {
	LogLevel zapcore.Level
	MQTT     MQTTConfig    `mapstructure:"mqtt"`
	Modbus   ModbusConfig  `mapstructure:"modbus"`
	Publish  PublishConfig `mapstructure:"publish"`
	Demo     DemoConfig    `mapstructure:"demo"`
	Port     uint          `mapstructure:"port"`
	HttpLog  bool          `mapstructure:"http_log"`
}

type MQTTConfig struct {
	Enable            bool
	Host              string
	Port              int
	Username          string
	Password          string
	BaseTopic         string `mapstructure:"base_topic"`
	HADiscoveryEnable bool   `mapstructure:"ha_discovery_enable"`
	HADiscoveryTopic  string `mapstructure:"ha_discovery_topic"`
}

type ModbusConfig struct {
	Enable        bool
	Url           string
	MaxClients    uint   `mapstructure:"max_clients"`
	TimeoutMillis uint32 `mapstructure:"timeout_millis"`
}

type PublishConfig struct {
	IntervalMillis uint32 `mapstructure:"interval_millis"`
}

type DemoConfig struct {
	ServerName string `mapstructure:"server_name"`
}

func (c ModbusConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMillis) * time.Millisecond
}

func (c PublishConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMillis) * time.Millisecond
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "warn")
	v.SetDefault("port", 8080)
	v.SetDefault("http_log", false)
	v.SetDefault("mqtt.enable", false)
	v.SetDefault("mqtt.host", "localhost")
	v.SetDefault("mqtt.port", 1883)
	v.SetDefault("mqtt.username", "")
	v.SetDefault("mqtt.password", "")
	v.SetDefault("mqtt.base_topic", "demohome")
	v.SetDefault("mqtt.ha_discovery_enable", false)
	v.SetDefault("mqtt.ha_discovery_topic", "homeassistant")
	v.SetDefault("modbus.enable", false)
	v.SetDefault("modbus.url", "tcp://0.0.0.0:5502")
	v.SetDefault("modbus.max_clients", 5)
	v.SetDefault("modbus.timeout_millis", 30000)
	v.SetDefault("publish.interval_millis", 60000)
	v.SetDefault("demo.server_name", "Demo Home")
}

// Load reads defaults, the optional CONFIG_FILE and the environment into a
// validated Config.
func Load(v *viper.Viper) (*Config, error) {

	// alias PORT => DEMOHOME_PORT
	if port := os.Getenv("PORT"); port != "" {
		os.Setenv(strings.ToUpper(ENV_PREFIX)+"_PORT", port)
	}

	SetDefaults(v)

	v.SetEnvPrefix(ENV_PREFIX)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// if defined, try to load config from yaml file
	if cfgFile := os.Getenv("CONFIG_FILE"); cfgFile != "" {
		if _, err := os.Stat(cfgFile); err == nil {
			v.SetConfigFile(cfgFile)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.LogLevel = ParseLogLevel(v.GetString("log_level"))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func ParseLogLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "trace", "debug":
		return zap.DebugLevel
	case "info":
		return zap.InfoLevel
	case "warn":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	case "fatal":
		return zap.FatalLevel
	default:
		return zap.InfoLevel
	}
}

// Validate checks bounds and normalizes the MQTT topics in place.
func (cfg *Config) Validate() error {
	// check and fix base topic
	baseTopic, err := CheckMQTTTopic(cfg.MQTT.BaseTopic)
	if err != nil {
		return errors.New("invalid base topic. can only contain letters, numbers and underscores")
	}
	cfg.MQTT.BaseTopic = baseTopic

	// check and fix homeassistant discovery topic
	hadBaseTopic, err := CheckMQTTTopic(cfg.MQTT.HADiscoveryTopic)
	if err != nil {
		return errors.New("invalid homeassistant discovery topic. can only contain letters, numbers and underscores")
	}
	cfg.MQTT.HADiscoveryTopic = hadBaseTopic

	if cfg.MQTT.HADiscoveryEnable && !cfg.MQTT.Enable {
		return errors.New("config param mqtt.ha_discovery_enable requires mqtt.enable")
	}
	if cfg.Port == 0 || cfg.Port > 65535 {
		return fmt.Errorf("config param port out of range: %d", cfg.Port)
	}
	if cfg.Modbus.Enable {
		if !strings.HasPrefix(cfg.Modbus.Url, "tcp://") {
			return errors.New("config param modbus.url must start with tcp://")
		}
		if cfg.Modbus.MaxClients == 0 {
			return errors.New("config param modbus.max_clients should be > 0")
		}
	}
	if cfg.Publish.IntervalMillis != 0 && cfg.Publish.IntervalMillis < 1000 {
		return errors.New("config param publish.interval_millis should be 0 or >= 1000")
	}
	if strings.TrimSpace(cfg.Demo.ServerName) == "" {
		return errors.New("config param demo.server_name must not be empty")
	}
	return nil
}

var topicRegexp = regexp.MustCompile("^[a-z0-9_]+$")

func CheckMQTTTopic(baseTopic string) (string, error) {
	// check and fix base topic
	lowerBaseTopic := strings.ToLower(baseTopic)
	if !topicRegexp.MatchString(lowerBaseTopic) {
		return "", errors.New("invalid topic. can only contain letters, numbers and underscores")
	}
	return lowerBaseTopic, nil
}

// Redacted returns a copy safe to log.
func (cfg Config) Redacted() Config {
	cfg.MQTT.Username = "*redacted*"
	cfg.MQTT.Password = "*redacted*"
	return cfg
}

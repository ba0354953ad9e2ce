package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by the alarm-server daemon and the alarmctl client.
type Config struct {
	// ServerAddress is the gRPC address of the alarm server.
	ServerAddress string `yaml:"server_addr"`
	// Timeout is the duration for network operations and RPC calls.
	Timeout time.Duration `yaml:"timeout"`
	// LogLevel is the minimum log level (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`
	// Tick is the cron spec (seconds field optional) driving alarm evaluation.
	Tick string `yaml:"tick"`
	// Snooze holds defaults applied to newly created alarms.
	Snooze Snooze `yaml:"snooze"`
	// Storage selects and configures the key/value backend.
	Storage Storage `yaml:"storage"`
	// MQTT configures the optional MQTT event sink.
	MQTT MQTT `yaml:"mqtt"`
	// Webhook configures the optional HTTP event sink.
	Webhook Webhook `yaml:"webhook"`
	// MCP configures the optional Model Context Protocol endpoint.
	MCP MCP `yaml:"mcp"`
}

// Snooze holds the process-wide snooze defaults.
type Snooze struct {
	// Minutes is the snooze duration, clamped to [1,60] by the scheduler.
	Minutes int `yaml:"minutes"`
	// MaxCount is the snooze ceiling, clamped to [0,10] by the scheduler.
	MaxCount *int `yaml:"max_count"`
}

// Storage configures the durable key/value store.
type Storage struct {
	// Backend is one of file, memory, redis or postgres.
	Backend string `yaml:"backend"`
	// Namespace prefixes every key written by the alarm repository.
	Namespace string `yaml:"namespace"`
	// File is the YAML state file used by the file backend.
	File string `yaml:"file"`
	// RedisURL is the connection URL used by the redis backend.
	RedisURL string `yaml:"redis_url"`
	// PostgresDSN is the connection string used by the postgres backend.
	PostgresDSN string `yaml:"postgres_dsn"`
}

// MQTT configures the MQTT event sink. An empty broker disables it.
type MQTT struct {
	// Broker is the broker URL, e.g. tcp://127.0.0.1:1883.
	Broker string `yaml:"broker"`
	// ClientID identifies this device on the broker.
	ClientID string `yaml:"client_id"`
	// Username is the optional broker user.
	Username string `yaml:"username"`
	// Password is the optional broker password.
	Password string `yaml:"password"`
	// TopicPrefix is prepended to every event topic.
	TopicPrefix string `yaml:"topic_prefix"`
	// QoS is the publish quality of service (0-2).
	QoS byte `yaml:"qos"`
}

// Webhook configures the HTTP event sink. An empty URL disables it.
type Webhook struct {
	// URL receives a POST with the JSON event for every notification.
	URL string `yaml:"url"`
	// Timeout bounds a single delivery attempt.
	Timeout time.Duration `yaml:"timeout"`
}

// MCP configures the Model Context Protocol tool endpoint. An empty address disables it.
type MCP struct {
	// ListenAddress is the HTTP address serving the streamable MCP endpoint.
	ListenAddress string `yaml:"listen_addr"`
}

// Storage backend names.
const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

const (
	// DefaultConfigFilename is the default filename for settings.
	DefaultConfigFilename = "alarm-clock-settings.yaml"

	// DefaultStateFilename is the default state file of the file backend.
	DefaultStateFilename = "alarm-clock-state.yaml"

	// DefaultNamespace is the default key namespace of the alarm repository.
	DefaultNamespace = "alarms"

	// DefaultTimeout is the default duration for network operations.
	DefaultTimeout = 5 * time.Second

	// DefaultTick evaluates alarms four times a minute.
	DefaultTick = "*/15 * * * * *"

	// DefaultSnoozeMinutes is the default snooze duration of new alarms.
	DefaultSnoozeMinutes = 5

	// DefaultMaxSnoozeCount is the default snooze ceiling of new alarms.
	DefaultMaxSnoozeCount = 3

	// DefaultTopicPrefix is the default MQTT topic prefix.
	DefaultTopicPrefix = "alarm-clock"

	// DefaultMQTTClientID is the default MQTT client id.
	DefaultMQTTClientID = "alarm-clock"

	// DefaultFilePermissions is the default file permission for config and state files.
	DefaultFilePermissions = 0o600

	// maxQoS is the highest MQTT quality of service level.
	maxQoS = 2
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errServerSocketRequired is returned when server address is missing.
	errServerSocketRequired = errors.New("server address must be provided")
	// errUnknownBackend is returned for unsupported storage backends.
	errUnknownBackend = errors.New("unknown storage backend")
	// errBackendSettingRequired is returned when a backend misses its connection setting.
	errBackendSettingRequired = errors.New("storage backend setting is required")
	// errInvalidQoS is returned for MQTT QoS values above 2.
	errInvalidQoS = errors.New("mqtt qos must be 0, 1 or 2")
)

// Load reads configuration from the provided path and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings for required fields and fills defaults.
func Validate(settings *Config) error {
	if settings == nil {
		return errConfigIsNotSet
	}

	if settings.ServerAddress == "" {
		return errServerSocketRequired
	}

	if _, err := net.ResolveTCPAddr("tcp", settings.ServerAddress); err != nil {
		return fmt.Errorf("invalid server socket: %w", err)
	}

	if settings.Timeout <= 0 {
		settings.Timeout = DefaultTimeout
	}

	if strings.TrimSpace(settings.Tick) == "" {
		settings.Tick = DefaultTick
	}

	if _, err := ParseTick(settings.Tick); err != nil {
		return err
	}

	if settings.Snooze.Minutes == 0 {
		settings.Snooze.Minutes = DefaultSnoozeMinutes
	}

	if settings.Snooze.MaxCount == nil {
		maxCount := DefaultMaxSnoozeCount
		settings.Snooze.MaxCount = &maxCount
	}

	if err := validateStorage(&settings.Storage); err != nil {
		return err
	}

	if err := validateMQTT(&settings.MQTT); err != nil {
		return err
	}

	return validateWebhook(&settings.Webhook, settings.Timeout)
}

// validateStorage fills storage defaults and checks backend-specific settings.
func validateStorage(storage *Storage) error {
	storage.Backend = strings.ToLower(strings.TrimSpace(storage.Backend))
	if storage.Backend == "" {
		storage.Backend = BackendFile
	}

	if storage.Namespace == "" {
		storage.Namespace = DefaultNamespace
	}

	switch storage.Backend {
	case BackendFile:
		if storage.File == "" {
			storage.File = DefaultStateFilename
		}
	case BackendMemory:
	case BackendRedis:
		if storage.RedisURL == "" {
			return fmt.Errorf("%w: redis_url", errBackendSettingRequired)
		}
	case BackendPostgres:
		if storage.PostgresDSN == "" {
			return fmt.Errorf("%w: postgres_dsn", errBackendSettingRequired)
		}
	default:
		return fmt.Errorf("%w: %q", errUnknownBackend, storage.Backend)
	}

	return nil
}

// validateMQTT fills MQTT defaults when the sink is enabled.
func validateMQTT(mqtt *MQTT) error {
	if mqtt.Broker == "" {
		return nil
	}

	if _, err := url.Parse(mqtt.Broker); err != nil {
		return fmt.Errorf("invalid mqtt broker: %w", err)
	}

	if mqtt.QoS > maxQoS {
		return errInvalidQoS
	}

	if mqtt.ClientID == "" {
		mqtt.ClientID = DefaultMQTTClientID
	}

	if mqtt.TopicPrefix == "" {
		mqtt.TopicPrefix = DefaultTopicPrefix
	}

	return nil
}

// validateWebhook checks the webhook URL and inherits the global timeout.
func validateWebhook(webhook *Webhook, timeout time.Duration) error {
	if webhook.URL == "" {
		return nil
	}

	if _, err := url.ParseRequestURI(webhook.URL); err != nil {
		return fmt.Errorf("invalid webhook URI: %w", err)
	}

	if webhook.Timeout <= 0 {
		webhook.Timeout = timeout
	}

	return nil
}

package config

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/relabs-tech/inertial_sessions/internal/session"
)

// Config holds all application configuration values.
type Config struct {
	// Session
	SessionRoot  string
	MessageTypes []session.MessageType // empty means every type

	// Pipeline
	ZeroTimestamp       bool
	ZeroTimestampOffset int64 // microseconds
	CropStart           *int64
	CropStop            *int64
	SampleRate          float64 // Hz, 0 disables resampling
	ZeroHeading         bool
	HeadingTimestamp    int64   // microseconds
	HeadingOffset       float64 // degrees
	ConvertEuler        bool

	// MQTT
	MQTTBroker          string
	MQTTClientIDReplay  string
	MQTTClientIDConsole string

	// Topics
	TopicPosePrefix     string
	TopicInertialPrefix string

	// Replay
	ReplaySpeed float64
	ReplayLoop  bool

	// Web Server
	WebServerPort int
}

// Package-level unexported variables for singleton pattern:
//   - globalConfig: only reachable through InitGlobal() and Get().
//   - configOnce: ensures InitGlobal() only runs once.
//   - configMu: write lock for initialization, read lock for Get().
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Default returns a Config with the defaults applied before a file is read.
func Default() *Config {
	return &Config{
		ZeroTimestamp: true,
		ReplaySpeed:   1,
	}
}

// Load reads the configuration file and returns a Config struct.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := Default()
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Validate required fields
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	var err error
	switch key {
	// Session
	case "SESSION_ROOT":
		c.SessionRoot = value
	case "MESSAGE_TYPES":
		c.MessageTypes, err = parseMessageTypes(value)

	// Pipeline
	case "ZERO_TIMESTAMP":
		c.ZeroTimestamp, err = parseBool(key, value)
	case "ZERO_TIMESTAMP_OFFSET":
		c.ZeroTimestampOffset, err = parseMicros(key, value)
	case "CROP_START":
		c.CropStart, err = parseOptionalMicros(key, value)
	case "CROP_STOP":
		c.CropStop, err = parseOptionalMicros(key, value)
	case "SAMPLE_RATE":
		c.SampleRate, err = parseFloat(key, value)
		if err == nil && c.SampleRate < 0 {
			err = fmt.Errorf("SAMPLE_RATE must be >= 0, got %v", c.SampleRate)
		}
	case "ZERO_HEADING":
		c.ZeroHeading, err = parseBool(key, value)
	case "HEADING_TIMESTAMP":
		c.HeadingTimestamp, err = parseMicros(key, value)
	case "HEADING_OFFSET":
		c.HeadingOffset, err = parseFloat(key, value)
	case "CONVERT_EULER":
		c.ConvertEuler, err = parseBool(key, value)

	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_REPLAY":
		c.MQTTClientIDReplay = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value

	// Topics
	case "TOPIC_POSE_PREFIX":
		c.TopicPosePrefix = strings.TrimSuffix(value, "/")
	case "TOPIC_INERTIAL_PREFIX":
		c.TopicInertialPrefix = strings.TrimSuffix(value, "/")

	// Replay
	case "REPLAY_SPEED":
		c.ReplaySpeed, err = parseFloat(key, value)
		if err == nil && c.ReplaySpeed <= 0 {
			err = fmt.Errorf("REPLAY_SPEED must be > 0, got %v", c.ReplaySpeed)
		}
	case "REPLAY_LOOP":
		c.ReplayLoop, err = parseBool(key, value)

	// Web Server
	case "WEB_SERVER_PORT":
		port, perr := strconv.Atoi(value)
		if perr != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, perr)
		}
		if port < 1 || port > 65535 {
			return fmt.Errorf("WEB_SERVER_PORT must be 1-65535, got %d", port)
		}
		c.WebServerPort = port

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return err
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	if c.SessionRoot == "" {
		return fmt.Errorf("SESSION_ROOT is required")
	}
	if c.CropStart != nil && c.CropStop != nil && *c.CropStart > *c.CropStop {
		return fmt.Errorf("CROP_START %d is after CROP_STOP %d", *c.CropStart, *c.CropStop)
	}
	return nil
}

// ValidateMQTT checks the keys needed by the replay producer and the MQTT
// console.
func (c *Config) ValidateMQTT() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	if c.TopicPosePrefix == "" {
		return fmt.Errorf("TOPIC_POSE_PREFIX is required")
	}
	return nil
}

// ValidateWeb checks the keys needed by the web server.
func (c *Config) ValidateWeb() error {
	if c.WebServerPort == 0 {
		return fmt.Errorf("WEB_SERVER_PORT is required")
	}
	return nil
}

func parseBool(key, value string) (bool, error) {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return b, nil
}

func parseFloat(key, value string) (float64, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%s must be finite, got %q", key, value)
	}
	return f, nil
}

func parseMicros(key, value string) (int64, error) {
	v, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return v, nil
}

// parseOptionalMicros treats an empty value as unset.
func parseOptionalMicros(key, value string) (*int64, error) {
	if value == "" {
		return nil, nil
	}
	v, err := parseMicros(key, value)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func parseMessageTypes(value string) ([]session.MessageType, error) {
	var types []session.MessageType
	for _, name := range strings.Split(value, ",") {
		if strings.TrimSpace(name) == "" {
			continue
		}
		t, err := session.ParseMessageType(name)
		if err != nil {
			return nil, fmt.Errorf("MESSAGE_TYPES: %w", err)
		}
		types = append(types, t)
	}
	return types, nil
}

// InitGlobal initializes the global configuration from file.
// Uses sync.Once to ensure this only runs once, even if called multiple times.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}

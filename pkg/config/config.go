// Package config holds the master station's configuration: connection
// and addressing, timing and retry policy, data link and application
// layer limits, class poll intervals, and logging -- plus an INI loader
// built on gopkg.in/ini.v1.
package config

import (
	"fmt"
	"strconv"
	"strings"
)

// DNP3Config is the full configuration surface for one master-to-outstation
// session.
type DNP3Config struct {
	// Network settings.
	Host string
	Port int

	// DNP3 addressing.
	MasterAddress     int
	OutstationAddress int

	// Timing settings.
	ResponseTimeout   float64 // seconds
	ConnectionTimeout float64 // seconds
	SelectTimeout     float64 // seconds, time allowed between SELECT and OPERATE

	// Retry settings.
	MaxRetries int
	RetryDelay float64 // seconds

	// Data link layer settings.
	ConfirmRequired bool
	MaxFrameSize    int // max user data per frame, protocol limit 250

	// Application layer settings.
	MaxAPDUSize        int
	EnableUnsolicited  bool

	// Class polling intervals, in seconds; 0 disables that poll.
	Class0PollInterval float64
	Class1PollInterval float64
	Class2PollInterval float64
	Class3PollInterval float64

	// Logging.
	LogLevel    string
	LogRawFrames bool
}

// Default returns a DNP3Config populated with the same defaults the
// reference driver ships, ready for Validate.
func Default() DNP3Config {
	return DNP3Config{
		Host:               "127.0.0.1",
		Port:               20000,
		MasterAddress:      1,
		OutstationAddress:  10,
		ResponseTimeout:    5.0,
		ConnectionTimeout:  10.0,
		SelectTimeout:      10.0,
		MaxRetries:         3,
		RetryDelay:         1.0,
		ConfirmRequired:    true,
		MaxFrameSize:       250,
		MaxAPDUSize:        2048,
		EnableUnsolicited:  true,
		Class0PollInterval: 60.0,
		Class1PollInterval: 5.0,
		Class2PollInterval: 10.0,
		Class3PollInterval: 30.0,
		LogLevel:           "INFO",
	}
}

// MaxValidAddress is the highest DNP3 station address not reserved for
// special purposes (65520-65534 reserved, 65535 broadcast).
const MaxValidAddress = 65519

// Validate checks every field is within its protocol-legal range and
// normalizes Host (trimmed) and LogLevel (trimmed, upper-cased). It
// mirrors the driver's original validation rules exactly, including the
// address reservation documented in spec section 4.2.
func (c *DNP3Config) Validate() error {
	c.Host = strings.TrimSpace(c.Host)
	if c.Host == "" {
		return fmt.Errorf("dnp3: host must be a non-empty string")
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("dnp3: port must be 1-65535, got %d", c.Port)
	}

	if c.MasterAddress < 0 || c.MasterAddress > MaxValidAddress {
		return fmt.Errorf("dnp3: master address must be 0-%d, got %d (65520-65535 are reserved)", MaxValidAddress, c.MasterAddress)
	}
	if c.OutstationAddress < 0 || c.OutstationAddress > MaxValidAddress {
		return fmt.Errorf("dnp3: outstation address must be 0-%d, got %d (65520-65535 are reserved)", MaxValidAddress, c.OutstationAddress)
	}

	for name, val := range map[string]float64{
		"response_timeout":   c.ResponseTimeout,
		"connection_timeout":  c.ConnectionTimeout,
		"select_timeout":      c.SelectTimeout,
	} {
		if val <= 0 {
			return fmt.Errorf("dnp3: %s must be positive, got %v", name, val)
		}
	}

	if c.MaxRetries < 0 {
		return fmt.Errorf("dnp3: max_retries must be >= 0, got %d", c.MaxRetries)
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("dnp3: retry_delay must be >= 0, got %v", c.RetryDelay)
	}

	if c.MaxFrameSize < 1 || c.MaxFrameSize > 250 {
		return fmt.Errorf("dnp3: max_frame_size must be 1-250, got %d", c.MaxFrameSize)
	}
	if c.MaxAPDUSize < 1 || c.MaxAPDUSize > 65536 {
		return fmt.Errorf("dnp3: max_apdu_size must be 1-65536, got %d", c.MaxAPDUSize)
	}

	for name, val := range map[string]float64{
		"class_0_poll_interval": c.Class0PollInterval,
		"class_1_poll_interval": c.Class1PollInterval,
		"class_2_poll_interval": c.Class2PollInterval,
		"class_3_poll_interval": c.Class3PollInterval,
	} {
		if val < 0 {
			return fmt.Errorf("dnp3: %s must be >= 0, got %v", name, val)
		}
	}

	normalized := strings.ToUpper(strings.TrimSpace(c.LogLevel))
	switch normalized {
	case "DEBUG", "INFO", "WARNING", "ERROR", "CRITICAL":
	default:
		return fmt.Errorf("dnp3: log_level must be one of DEBUG, INFO, WARNING, ERROR, CRITICAL, got %q", c.LogLevel)
	}
	c.LogLevel = normalized

	return nil
}

// parseFloat, parseInt and parseBool keep LoadINI's key-by-key parsing
// terse, falling back to the current value for an empty or unparsable key; ini.v1
// key values are always strings on disk.
func parseFloat(s string, fallback float64) float64 {
	if s == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return v
}

func parseInt(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return v
}

func parseBool(s string, fallback bool) bool {
	if s == "" {
		return fallback
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return fallback
	}
	return v
}

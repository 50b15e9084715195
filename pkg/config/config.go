package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/dougsko/ft1000cat/pkg/logging"
	"github.com/dougsko/ft1000cat/pkg/transport"
)

// Config represents the ft1000catd configuration
type Config struct {
	Radio struct {
		// Serial line
		Device   string `yaml:"device"`
		BaudRate int    `yaml:"baud_rate"`
		DataBits int    `yaml:"data_bits"`
		StopBits int    `yaml:"stop_bits"`
		DTR      string `yaml:"dtr"`
		RTS      string `yaml:"rts"`

		// Command discipline
		TimeoutMs        int `yaml:"timeout_ms"`
		Retries          int `yaml:"retries"`
		InterByteDelayMs int `yaml:"inter_byte_delay_ms"`
		SettleDelayMs    int `yaml:"settle_delay_ms"`

		// Simulate runs against an in-memory radio instead of a serial port
		Simulate     bool `yaml:"simulate"`
		PollInterval int  `yaml:"poll_interval_ms"`
	} `yaml:"radio"`

	Web struct {
		Port        int    `yaml:"port"`
		BindAddress string `yaml:"bind_address"`
	} `yaml:"web"`

	Logging struct {
		Level      string `yaml:"level"`
		File       string `yaml:"file"`
		Console    bool   `yaml:"console"`
		Structured bool   `yaml:"structured"`
		MaxSize    int    `yaml:"max_size"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAge     int    `yaml:"max_age"`
		Compress   bool   `yaml:"compress"`
	} `yaml:"logging"`

	Trace struct {
		File string `yaml:"file"`
	} `yaml:"trace"`
}

// Line control values for rts and dtr
const (
	LineDefault = "default"
	LineOn      = "on"
	LineOff     = "off"
)

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration and fills in defaults
func Parse(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	config.applyDefaults()
	return &config, nil
}

// Default returns a configuration with every default applied
func Default() *Config {
	var config Config
	config.applyDefaults()
	return &config
}

func (c *Config) applyDefaults() {
	def := transport.DefaultConfig()

	if c.Radio.BaudRate == 0 {
		c.Radio.BaudRate = def.BaudRate
	}
	if c.Radio.DataBits == 0 {
		c.Radio.DataBits = def.DataBits
	}
	if c.Radio.StopBits == 0 {
		c.Radio.StopBits = def.StopBits
	}
	if c.Radio.DTR == "" {
		c.Radio.DTR = LineDefault
	}
	if c.Radio.RTS == "" {
		c.Radio.RTS = LineDefault
	}
	if c.Radio.TimeoutMs == 0 {
		c.Radio.TimeoutMs = int(def.Timeout / time.Millisecond)
	}
	if c.Radio.Retries == 0 {
		c.Radio.Retries = def.Retries
	}
	if c.Radio.InterByteDelayMs == 0 {
		c.Radio.InterByteDelayMs = int(def.InterByteDelay / time.Millisecond)
	}
	if c.Radio.SettleDelayMs == 0 {
		c.Radio.SettleDelayMs = int(def.SettleDelay / time.Millisecond)
	}
	if c.Radio.PollInterval == 0 {
		c.Radio.PollInterval = 1000
	}
	if c.Web.Port == 0 {
		c.Web.Port = 8073
	}
	if c.Web.BindAddress == "" {
		c.Web.BindAddress = "127.0.0.1"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.MaxSize == 0 {
		c.Logging.MaxSize = 100
	}
	if c.Logging.MaxBackups == 0 {
		c.Logging.MaxBackups = 5
	}
	if c.Logging.MaxAge == 0 {
		c.Logging.MaxAge = 30
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if !c.Radio.Simulate && c.Radio.Device == "" {
		return fmt.Errorf("radio device is required unless simulate is set")
	}
	if c.Radio.BaudRate < 0 {
		return fmt.Errorf("invalid baud rate %d", c.Radio.BaudRate)
	}
	if c.Radio.DataBits < 5 || c.Radio.DataBits > 8 {
		return fmt.Errorf("invalid data bits %d", c.Radio.DataBits)
	}
	if c.Radio.StopBits != 1 && c.Radio.StopBits != 2 {
		return fmt.Errorf("invalid stop bits %d", c.Radio.StopBits)
	}
	if c.Radio.Retries < 1 {
		return fmt.Errorf("retries must be at least 1, got %d", c.Radio.Retries)
	}
	if c.Radio.TimeoutMs < 1 {
		return fmt.Errorf("timeout_ms must be positive, got %d", c.Radio.TimeoutMs)
	}
	if c.Radio.InterByteDelayMs < 0 || c.Radio.SettleDelayMs < 0 {
		return fmt.Errorf("delays must not be negative")
	}
	if _, err := parseLine(c.Radio.RTS); err != nil {
		return fmt.Errorf("rts: %w", err)
	}
	if _, err := parseLine(c.Radio.DTR); err != nil {
		return fmt.Errorf("dtr: %w", err)
	}
	if c.Web.Port < 1 || c.Web.Port > 65535 {
		return fmt.Errorf("invalid web port %d", c.Web.Port)
	}
	return nil
}

// parseLine maps a line-control setting to an override, nil meaning leave
// the line alone.
func parseLine(v string) (*bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", LineDefault:
		return nil, nil
	case LineOn, "true", "high":
		on := true
		return &on, nil
	case LineOff, "false", "low":
		off := false
		return &off, nil
	default:
		return nil, fmt.Errorf("unknown line setting %q (want on, off or default)", v)
	}
}

// TransportConfig builds the serial transport configuration. Invalid line
// settings are treated as default; call Validate first to reject them.
func (c *Config) TransportConfig() transport.Config {
	rts, _ := parseLine(c.Radio.RTS)
	dtr, _ := parseLine(c.Radio.DTR)

	return transport.Config{
		Port:           c.Radio.Device,
		BaudRate:       c.Radio.BaudRate,
		DataBits:       c.Radio.DataBits,
		StopBits:       c.Radio.StopBits,
		Timeout:        time.Duration(c.Radio.TimeoutMs) * time.Millisecond,
		Retries:        c.Radio.Retries,
		InterByteDelay: time.Duration(c.Radio.InterByteDelayMs) * time.Millisecond,
		SettleDelay:    time.Duration(c.Radio.SettleDelayMs) * time.Millisecond,
		RTS:            rts,
		DTR:            dtr,
	}
}

// LoggingOptions builds the logger options
func (c *Config) LoggingOptions() logging.Options {
	return logging.Options{
		Level:      c.Logging.Level,
		File:       c.Logging.File,
		Console:    c.Logging.Console,
		Structured: c.Logging.Structured,
		MaxSize:    c.Logging.MaxSize,
		MaxBackups: c.Logging.MaxBackups,
		MaxAge:     c.Logging.MaxAge,
		Compress:   c.Logging.Compress,
	}
}

// PollInterval returns the status poll interval for websocket clients
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Radio.PollInterval) * time.Millisecond
}

// ListenAddress returns host:port for the web server
func (c *Config) ListenAddress() string {
	return fmt.Sprintf("%s:%d", c.Web.BindAddress, c.Web.Port)
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	tempDir := t.TempDir()

	t.Run("Valid Config", func(t *testing.T) {
		configContent := `
radio:
  device: "/dev/ttyUSB0"
  baud_rate: 9600
  stop_bits: 1
  rts: "on"
  dtr: "off"
  timeout_ms: 250
  retries: 3
  inter_byte_delay_ms: 10
  poll_interval_ms: 500

web:
  port: 9000
  bind_address: "0.0.0.0"

logging:
  level: "debug"
  file: "/tmp/ft1000catd.log"
  console: true
  structured: true

trace:
  file: "/tmp/cat.trace"
`
		configPath := filepath.Join(tempDir, "valid.yaml")
		if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
			t.Fatalf("Failed to write config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if err := config.Validate(); err != nil {
			t.Fatalf("Expected valid config, got: %v", err)
		}

		if config.Radio.Device != "/dev/ttyUSB0" {
			t.Errorf("Expected device /dev/ttyUSB0, got %s", config.Radio.Device)
		}
		if config.Radio.BaudRate != 9600 {
			t.Errorf("Expected baud rate 9600, got %d", config.Radio.BaudRate)
		}
		if config.Web.Port != 9000 {
			t.Errorf("Expected web port 9000, got %d", config.Web.Port)
		}
		if !config.Logging.Structured {
			t.Error("Expected structured logging")
		}
		if config.Trace.File != "/tmp/cat.trace" {
			t.Errorf("Expected trace file /tmp/cat.trace, got %s", config.Trace.File)
		}
		if config.PollInterval() != 500*time.Millisecond {
			t.Errorf("Expected poll interval 500ms, got %v", config.PollInterval())
		}
		if config.ListenAddress() != "0.0.0.0:9000" {
			t.Errorf("Expected listen address 0.0.0.0:9000, got %s", config.ListenAddress())
		}

		tc := config.TransportConfig()
		if tc.Port != "/dev/ttyUSB0" || tc.BaudRate != 9600 || tc.StopBits != 1 || tc.DataBits != 8 {
			t.Errorf("Unexpected serial settings: %+v", tc)
		}
		if tc.Timeout != 250*time.Millisecond {
			t.Errorf("Expected timeout 250ms, got %v", tc.Timeout)
		}
		if tc.Retries != 3 {
			t.Errorf("Expected 3 retries, got %d", tc.Retries)
		}
		if tc.InterByteDelay != 10*time.Millisecond {
			t.Errorf("Expected inter-byte delay 10ms, got %v", tc.InterByteDelay)
		}
		if tc.RTS == nil || !*tc.RTS {
			t.Error("Expected RTS override on")
		}
		if tc.DTR == nil || *tc.DTR {
			t.Error("Expected DTR override off")
		}

		lo := config.LoggingOptions()
		if lo.Level != "debug" || !lo.Console || lo.File != "/tmp/ft1000catd.log" {
			t.Errorf("Unexpected logging options: %+v", lo)
		}
	})

	t.Run("Config With Defaults", func(t *testing.T) {
		configContent := `
radio:
  device: "/dev/ttyS0"
`
		configPath := filepath.Join(tempDir, "minimal.yaml")
		if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
			t.Fatalf("Failed to write config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}

		if config.Radio.BaudRate != 4800 {
			t.Errorf("Expected default baud rate 4800, got %d", config.Radio.BaudRate)
		}
		if config.Radio.DataBits != 8 {
			t.Errorf("Expected default data bits 8, got %d", config.Radio.DataBits)
		}
		if config.Radio.StopBits != 2 {
			t.Errorf("Expected default stop bits 2, got %d", config.Radio.StopBits)
		}
		if config.Radio.TimeoutMs != 400 {
			t.Errorf("Expected default timeout 400, got %d", config.Radio.TimeoutMs)
		}
		if config.Radio.Retries != 6 {
			t.Errorf("Expected default retries 6, got %d", config.Radio.Retries)
		}
		if config.Radio.InterByteDelayMs != 5 || config.Radio.SettleDelayMs != 5 {
			t.Errorf("Expected default delays 5/5, got %d/%d", config.Radio.InterByteDelayMs, config.Radio.SettleDelayMs)
		}
		if config.Radio.RTS != LineDefault || config.Radio.DTR != LineDefault {
			t.Errorf("Expected default line control, got rts=%s dtr=%s", config.Radio.RTS, config.Radio.DTR)
		}
		if config.Web.Port != 8073 {
			t.Errorf("Expected default web port 8073, got %d", config.Web.Port)
		}
		if config.Web.BindAddress != "127.0.0.1" {
			t.Errorf("Expected default bind address 127.0.0.1, got %s", config.Web.BindAddress)
		}
		if config.Logging.Level != "info" {
			t.Errorf("Expected default log level info, got %s", config.Logging.Level)
		}
		if config.Logging.MaxSize != 100 {
			t.Errorf("Expected default log max size 100, got %d", config.Logging.MaxSize)
		}
		if config.Logging.MaxBackups != 5 {
			t.Errorf("Expected default log max backups 5, got %d", config.Logging.MaxBackups)
		}
		if config.Logging.MaxAge != 30 {
			t.Errorf("Expected default log max age 30, got %d", config.Logging.MaxAge)
		}

		tc := config.TransportConfig()
		if tc.RTS != nil || tc.DTR != nil {
			t.Error("Expected no line overrides by default")
		}
	})

	t.Run("File Not Found", func(t *testing.T) {
		_, err := LoadConfig("/nonexistent/path/config.yaml")
		if err == nil {
			t.Fatal("Expected error for nonexistent file, got nil")
		}
		if !strings.Contains(err.Error(), "failed to read config file") {
			t.Errorf("Expected 'failed to read config file' error, got: %v", err)
		}
	})

	t.Run("Invalid YAML", func(t *testing.T) {
		configContent := `
radio:
  device: [invalid yaml structure
`
		configPath := filepath.Join(tempDir, "invalid.yaml")
		if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
			t.Fatalf("Failed to write config file: %v", err)
		}

		_, err := LoadConfig(configPath)
		if err == nil {
			t.Fatal("Expected error for invalid YAML, got nil")
		}
		if !strings.Contains(err.Error(), "failed to parse config file") {
			t.Errorf("Expected 'failed to parse config file' error, got: %v", err)
		}
	})

	t.Run("Empty File", func(t *testing.T) {
		config, err := Parse([]byte(""))
		if err != nil {
			t.Fatalf("Expected no error for empty file, got: %v", err)
		}
		if config.Radio.BaudRate != 4800 {
			t.Errorf("Expected default baud rate for empty file, got %d", config.Radio.BaudRate)
		}
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := Default()
		c.Radio.Device = "/dev/ttyUSB0"
		return c
	}

	t.Run("Valid Config", func(t *testing.T) {
		if err := valid().Validate(); err != nil {
			t.Errorf("Expected no error for valid config, got: %v", err)
		}
	})

	t.Run("Simulator Without Device", func(t *testing.T) {
		c := Default()
		c.Radio.Simulate = true
		if err := c.Validate(); err != nil {
			t.Errorf("Expected no error when simulating, got: %v", err)
		}
	})

	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"Missing Device", func(c *Config) { c.Radio.Device = "" }, "radio device is required"},
		{"Bad RTS", func(c *Config) { c.Radio.RTS = "sometimes" }, "rts"},
		{"Bad DTR", func(c *Config) { c.Radio.DTR = "maybe" }, "dtr"},
		{"Zero Retries", func(c *Config) { c.Radio.Retries = 0 }, "retries"},
		{"Bad Stop Bits", func(c *Config) { c.Radio.StopBits = 3 }, "stop bits"},
		{"Bad Data Bits", func(c *Config) { c.Radio.DataBits = 9 }, "data bits"},
		{"Bad Timeout", func(c *Config) { c.Radio.TimeoutMs = -1 }, "timeout_ms"},
		{"Bad Port", func(c *Config) { c.Web.Port = 70000 }, "web port"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := valid()
			tc.mutate(c)
			err := c.Validate()
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("Expected error containing %q, got: %v", tc.want, err)
			}
		})
	}
}

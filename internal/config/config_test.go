package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"
)

// clearEnv blanks every variable LoadFromEnv reads so each test starts
// from defaults regardless of the host environment.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV", "LOG_LEVEL", "HTTP_ADDR", "STATIC_DIR", "UPLOAD_DIR",
		"DB_DRIVER", "DB_DSN", "SQLITE_PATH",
		"DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS", "DB_CONN_MAX_LIFETIME",
		"OCR_ENABLED", "TESSERACT_PATH",
		"MQTT_BROKER", "MQTT_PORT", "MQTT_TOPIC", "MQTT_CLIENT_ID",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}

	if cfg.AppEnv != "dev" {
		t.Errorf("AppEnv = %q; want dev", cfg.AppEnv)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v; want info", cfg.LogLevel)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q; want :8080", cfg.HTTPAddr)
	}
	if cfg.Driver != "sqlite3" {
		t.Errorf("Driver = %q; want sqlite3", cfg.Driver)
	}
	if cfg.Path != "gaugeboard.db" {
		t.Errorf("Path = %q; want gaugeboard.db", cfg.Path)
	}
	if cfg.MaxOpenConns != 1 || cfg.MaxIdleConns != 1 {
		t.Errorf("conns = %d/%d; want 1/1", cfg.MaxOpenConns, cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime != 0 {
		t.Errorf("ConnMaxLifetime = %v; want 0", cfg.ConnMaxLifetime)
	}
	if !strings.HasSuffix(cfg.UploadDir, "uploads") {
		t.Errorf("UploadDir = %q; want default uploads dir", cfg.UploadDir)
	}
	if !strings.HasSuffix(cfg.StaticDir, "static") {
		t.Errorf("StaticDir = %q; want default static dir", cfg.StaticDir)
	}
	if cfg.OCREnabled {
		t.Error("OCREnabled = true; want false by default")
	}
	if cfg.TesseractPath != "tesseract" {
		t.Errorf("TesseractPath = %q; want tesseract", cfg.TesseractPath)
	}
	if cfg.MQTTBroker != "" {
		t.Errorf("MQTTBroker = %q; want empty", cfg.MQTTBroker)
	}
	if cfg.MQTTPort != 1883 {
		t.Errorf("MQTTPort = %d; want 1883", cfg.MQTTPort)
	}
	if cfg.MQTTTopic != "gaugeboard/photos" {
		t.Errorf("MQTTTopic = %q; want gaugeboard/photos", cfg.MQTTTopic)
	}
	if cfg.MQTTClientID != "gaugeboard-server" {
		t.Errorf("MQTTClientID = %q; want gaugeboard-server", cfg.MQTTClientID)
	}
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "prod")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("SQLITE_PATH", "/var/lib/gaugeboard/data.db")
	t.Setenv("DB_CONN_MAX_LIFETIME", "5m")
	t.Setenv("OCR_ENABLED", "true")
	t.Setenv("TESSERACT_PATH", "/opt/bin/tesseract")
	t.Setenv("MQTT_BROKER", "broker.local")
	t.Setenv("MQTT_PORT", "8883")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}

	if cfg.AppEnv != "prod" {
		t.Errorf("AppEnv = %q; want prod", cfg.AppEnv)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v; want debug", cfg.LogLevel)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Errorf("HTTPAddr = %q; want :9090", cfg.HTTPAddr)
	}
	if cfg.Path != "/var/lib/gaugeboard/data.db" {
		t.Errorf("Path = %q", cfg.Path)
	}
	if cfg.ConnMaxLifetime != 5*time.Minute {
		t.Errorf("ConnMaxLifetime = %v; want 5m", cfg.ConnMaxLifetime)
	}
	if !cfg.OCREnabled {
		t.Error("OCREnabled = false; want true")
	}
	if cfg.TesseractPath != "/opt/bin/tesseract" {
		t.Errorf("TesseractPath = %q", cfg.TesseractPath)
	}
	if cfg.MQTTBroker != "broker.local" || cfg.MQTTPort != 8883 {
		t.Errorf("MQTT = %q:%d; want broker.local:8883", cfg.MQTTBroker, cfg.MQTTPort)
	}
}

func TestLoadFromEnv_Invalid(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown app env", "APP_ENV", "staging"},
		{"unknown log level", "LOG_LEVEL", "verbose"},
		{"non-numeric max open conns", "DB_MAX_OPEN_CONNS", "many"},
		{"non-numeric max idle conns", "DB_MAX_IDLE_CONNS", "few"},
		{"malformed lifetime", "DB_CONN_MAX_LIFETIME", "forever"},
		{"malformed ocr flag", "OCR_ENABLED", "maybe"},
		{"non-numeric mqtt port", "MQTT_PORT", "default"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tc.key, tc.value)
			if _, err := LoadFromEnv(); err == nil {
				t.Errorf("LoadFromEnv with %s=%q: expected error", tc.key, tc.value)
			}
		})
	}
}

func Test_parseLogLevel(t *testing.T) {
	cases := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"  Error ", slog.LevelError},
	}
	for _, tc := range cases {
		got, err := parseLogLevel(tc.in)
		if err != nil {
			t.Errorf("parseLogLevel(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("parseLogLevel(%q) = %v; want %v", tc.in, got, tc.want)
		}
	}
}

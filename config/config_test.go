package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_PATH", path)
}

func TestLoadConfig(t *testing.T) {
	writeConfig(t, `
http:
  addr: ":8082"
grpc:
  addr: ":9092"
postgres:
  dsn: "postgres://u:p@localhost:5432/collab"
redis:
  enabled: true
  addr: "localhost:6379"
collab:
  lease_duration: 20s
  heartbeat_timeout: 1m
`)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.HTTP.Addr != ":8082" || cfg.GRPC.Addr != ":9092" {
		t.Fatalf("addr mismatch: %+v", cfg)
	}
	if !cfg.Redis.Enabled || cfg.Redis.Addr != "localhost:6379" {
		t.Fatalf("redis mismatch: %+v", cfg.Redis)
	}
	// дефолты логирования проставлены
	if cfg.Logging.Service != "collab-service" || cfg.Logging.Backend != "std" {
		t.Fatalf("logging defaults missing: %+v", cfg.Logging)
	}
	if got := cfg.Collab.LeaseDurationOr(30 * time.Second); got != 20*time.Second {
		t.Fatalf("lease_duration: got %v", got)
	}
	if got := cfg.Collab.HeartbeatTimeoutOr(45 * time.Second); got != time.Minute {
		t.Fatalf("heartbeat_timeout: got %v", got)
	}
	// не указано — берём дефолт
	if got := cfg.Collab.SweepIntervalOr(10 * time.Second); got != 10*time.Second {
		t.Fatalf("sweep_interval default: got %v", got)
	}
}

func TestLoadConfigMissingHTTPAddr(t *testing.T) {
	writeConfig(t, `
grpc:
  addr: ":9092"
postgres:
  dsn: "postgres://u:p@localhost:5432/collab"
`)
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected validation error for missing http.addr")
	}
}

func TestLoadConfigRedisAddrRequiredWhenEnabled(t *testing.T) {
	writeConfig(t, `
http:
  addr: ":8082"
grpc:
  addr: ":9092"
postgres:
  dsn: "postgres://u:p@localhost:5432/collab"
redis:
  enabled: true
`)
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected validation error for enabled redis without addr")
	}
}

func TestParseDurationOr(t *testing.T) {
	def := 30 * time.Second
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"15s", 15 * time.Second},
		{"", def},
		{"nonsense", def},
		{"-5s", def},
		{"0s", def},
	}
	for _, tc := range cases {
		if got := parseDurationOr(def, tc.in); got != tc.want {
			t.Fatalf("parseDurationOr(%q): got %v, want %v", tc.in, got, tc.want)
		}
	}
}

package config

import (
	"io"
	"log"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"ORDER_API_BASEURL", "ORDER_API_TIMEOUT", "DASHBOARD_ADDR", "ORDER_API_ADDR", "POSTGRES_DSN", "ORDER_SEED_FILE", "OTEL_EXPORTER_URL", "OTEL_SAMPLE_RATE"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.OrderAPIBaseURL != "http://localhost:3001" || cfg.OrderAPITimeout != 0 {
		t.Fatalf("cfg=%+v", cfg)
	}
	if cfg.DashboardAddr != ":8080" || cfg.OrderAPIAddr != ":3001" || cfg.SeedFile != "db.json" {
		t.Fatalf("cfg=%+v", cfg)
	}
	if cfg.TracingExporterURL != "" || cfg.TracingSampleRate != 1 {
		t.Fatalf("tracing defaults: %+v", cfg)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ORDER_API_BASEURL", "http://orders.internal:9000")
	t.Setenv("ORDER_API_TIMEOUT", "5s")
	t.Setenv("POSTGRES_DSN", "postgres://u:p@db/orders")
	t.Setenv("OTEL_EXPORTER_URL", "collector:4318")
	t.Setenv("OTEL_SAMPLE_RATE", "0.25")

	cfg := Load()
	if cfg.OrderAPIBaseURL != "http://orders.internal:9000" || cfg.OrderAPITimeout != 5*time.Second {
		t.Fatalf("cfg=%+v", cfg)
	}
	if cfg.PostgresDSN != "postgres://u:p@db/orders" {
		t.Fatalf("dsn=%q", cfg.PostgresDSN)
	}
	if cfg.TracingExporterURL != "collector:4318" || cfg.TracingSampleRate != 0.25 {
		t.Fatalf("tracing: %+v", cfg)
	}
}

func TestGetenvFloat_OutOfRange(t *testing.T) {
	for _, v := range []string{"often", "1.5", "-0.1"} {
		t.Setenv("OTEL_SAMPLE_RATE", v)
		if f := getenvFloat("OTEL_SAMPLE_RATE", 1); f != 1 {
			t.Errorf("%q: got %g, want default", v, f)
		}
	}
}

func TestGetenvDuration_Invalid(t *testing.T) {
	for _, v := range []string{"soon", "-1s"} {
		t.Setenv("ORDER_API_TIMEOUT", v)
		if d := getenvDuration("ORDER_API_TIMEOUT", time.Second); d != time.Second {
			t.Errorf("%q: got %s, want default", v, d)
		}
	}
}

func init() {
	log.SetOutput(io.Discard)
}

package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	OrderAPIBaseURL string
	OrderAPITimeout time.Duration
	DashboardAddr   string
	OrderAPIAddr    string
	PostgresDSN     string
	SeedFile        string

	TracingExporterURL string
	TracingSampleRate  float64
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		log.Printf("[config] ignoring %s=%q: not a non-negative duration", k, v)
		return def
	}
	return d
}

func getenvFloat(k string, def float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 || f > 1 {
		log.Printf("[config] ignoring %s=%q: not a ratio between 0 and 1", k, v)
		return def
	}
	return f
}

func Load() Config {
	_ = godotenv.Load() // load .env if it exists
	cfg := Config{
		OrderAPIBaseURL: getenv("ORDER_API_BASEURL", "http://localhost:3001"),
		OrderAPITimeout: getenvDuration("ORDER_API_TIMEOUT", 0),
		DashboardAddr:   getenv("DASHBOARD_ADDR", ":8080"),
		OrderAPIAddr:    getenv("ORDER_API_ADDR", ":3001"),
		PostgresDSN:     getenv("POSTGRES_DSN", ""),
		SeedFile:        getenv("ORDER_SEED_FILE", "db.json"),

		TracingExporterURL: getenv("OTEL_EXPORTER_URL", ""),
		TracingSampleRate:  getenvFloat("OTEL_SAMPLE_RATE", 1),
	}
	log.Printf("[config] ORDER_API_BASEURL=%s", cfg.OrderAPIBaseURL)
	log.Printf("[config] ORDER_API_TIMEOUT=%s", cfg.OrderAPITimeout)
	log.Printf("[config] DASHBOARD_ADDR=%s", cfg.DashboardAddr)
	log.Printf("[config] ORDER_API_ADDR=%s", cfg.OrderAPIAddr)
	log.Printf("[config] OTEL_EXPORTER_URL=%s OTEL_SAMPLE_RATE=%g", cfg.TracingExporterURL, cfg.TracingSampleRate)
	return cfg
}

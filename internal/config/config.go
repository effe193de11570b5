package config

import (
	"log"
	"os"
	"strings"
	"time"
)

// Drivers soportados para el almacenamiento persistente
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config contiene la configuración de la aplicación leída de variables de entorno
type Config struct {
	Port             string
	AllowedOrigins   []string
	CoinGeckoBaseURL string
	CoinGeckoAPIKey  string
	RefreshInterval  time.Duration
	DetailCacheTTL   time.Duration
	HTTPTimeout      time.Duration
	StoreDriver      string
	StorePath        string
	DatabaseURL      string
}

// Load lee la configuración del entorno aplicando valores por defecto
func Load() Config {
	cfg := Config{
		Port:             getEnv("PORT", "8080"),
		AllowedOrigins:   splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		CoinGeckoBaseURL: strings.TrimRight(getEnv("COINGECKO_BASE_URL", "https://api.coingecko.com/api/v3"), "/"),
		CoinGeckoAPIKey:  os.Getenv("COINGECKO_API_KEY"),
		RefreshInterval:  getDuration("REFRESH_INTERVAL", 30*time.Second),
		DetailCacheTTL:   getDuration("DETAIL_CACHE_TTL", 2*time.Minute),
		HTTPTimeout:      getDuration("HTTP_TIMEOUT", 10*time.Second),
		StoreDriver:      strings.ToLower(getEnv("STORE_DRIVER", DriverSQLite)),
		StorePath:        getEnv("STORE_PATH", "database/cryptotracker.db"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
	}

	switch cfg.StoreDriver {
	case DriverSQLite, DriverPostgres, DriverMemory:
	default:
		log.Printf("STORE_DRIVER desconocido %q, usando %s", cfg.StoreDriver, DriverSQLite)
		cfg.StoreDriver = DriverSQLite
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("Valor inválido para %s (%q), usando %v", key, raw, def)
		return def
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

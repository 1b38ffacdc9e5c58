package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures environment driven configuration values for the admin service.
type Config struct {
	HTTPPort        int
	SQLiteDSN       string
	SessionTTL      time.Duration
	HorizonWeeks    int
	TimezoneName    string
	ViaCEPBaseURL   string
	InitialSiblings int
}

// Load parses configuration values from the current process environment.
//
// A .env file in the working directory is honoured when present; explicit
// environment variables always win. Optional fields fall back to defaults
// mirroring the original panel behaviour (12-week recurrence horizon,
// America/Sao_Paulo calendar).
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		HTTPPort:        8080,
		SQLiteDSN:       "file:nexquadra.db?_pragma=foreign_keys(1)",
		SessionTTL:      24 * time.Hour,
		HorizonWeeks:    12,
		TimezoneName:    "America/Sao_Paulo",
		ViaCEPBaseURL:   "https://viacep.com.br",
		InitialSiblings: 5,
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("NEXQUADRA_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "NEXQUADRA_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("NEXQUADRA_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if ttlValue := strings.TrimSpace(os.Getenv("NEXQUADRA_SESSION_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "NEXQUADRA_SESSION_TTL")
		} else {
			cfg.SessionTTL = ttl
		}
	}

	if horizonValue := strings.TrimSpace(os.Getenv("NEXQUADRA_HORIZON_WEEKS")); horizonValue != "" {
		weeks, err := strconv.Atoi(horizonValue)
		if err != nil || weeks <= 0 {
			invalid = append(invalid, "NEXQUADRA_HORIZON_WEEKS")
		} else {
			cfg.HorizonWeeks = weeks
		}
	}

	if siblingsValue := strings.TrimSpace(os.Getenv("NEXQUADRA_INITIAL_SIBLINGS")); siblingsValue != "" {
		siblings, err := strconv.Atoi(siblingsValue)
		if err != nil || siblings <= 0 {
			invalid = append(invalid, "NEXQUADRA_INITIAL_SIBLINGS")
		} else {
			cfg.InitialSiblings = siblings
		}
	}

	if tz := strings.TrimSpace(os.Getenv("NEXQUADRA_TIMEZONE")); tz != "" {
		if _, err := time.LoadLocation(tz); err != nil {
			invalid = append(invalid, "NEXQUADRA_TIMEZONE")
		} else {
			cfg.TimezoneName = tz
		}
	}

	if base := strings.TrimSpace(os.Getenv("NEXQUADRA_VIACEP_URL")); base != "" {
		cfg.ViaCEPBaseURL = strings.TrimRight(base, "/")
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("variáveis de ambiente com valor inválido: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

// Location resolves the configured timezone, defaulting to America/Sao_Paulo.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimezoneName)
	if err != nil {
		return time.FixedZone("BRT", -3*60*60)
	}
	return loc
}

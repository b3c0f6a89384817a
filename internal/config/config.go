package config

import (
	"os"
	"strconv"

	"labfit/domain/circuit"
	"labfit/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Data       DataConfig
	Circuit    circuit.Config
	MonteCarlo MonteCarloConfig
}

// ServerConfig holds the HTTP fit-service settings
type ServerConfig struct {
	Port string
}

// DatabaseConfig holds report persistence settings. An empty URL means reports
// stay in memory.
type DatabaseConfig struct {
	URL string
}

// DataConfig holds data-source settings
type DataConfig struct {
	SweepFile string
}

// MonteCarloConfig holds uncertainty propagation settings
type MonteCarloConfig struct {
	Trials int
	Seed   int64
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Data: DataConfig{
			SweepFile: os.Getenv("SWEEP_FILE"),
		},
		Circuit: circuit.Config{
			SupplyVoltage:    getEnvFloat("SUPPLY_VOLTAGE", 5.0),
			SeriesResistance: getEnvFloat("SERIES_RESISTANCE", 1000.0),
			FullScaleVoltage: getEnvFloat("ADC_FULL_SCALE_VOLTAGE", 5.0),
			MaxCount:         getEnvInt("ADC_MAX_COUNT", 1023),
			ThermalVoltage:   getEnvFloat("THERMAL_VOLTAGE", 0.02569),
			VoltageSigma:     getEnvFloat("VOLTAGE_SIGMA", 0.005),
		},
		MonteCarlo: MonteCarloConfig{
			Trials: getEnvInt("MC_TRIALS", 10000),
			Seed:   int64(getEnvInt("MC_SEED", 42)),
		},
	}

	if err := cfg.Circuit.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid circuit configuration")
	}
	if cfg.MonteCarlo.Trials <= 0 {
		return nil, errors.ConfigInvalid("MC_TRIALS must be > 0")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

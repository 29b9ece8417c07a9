package main

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/quantdash/optpricer/models"
)

// Config is the process configuration, read from the environment with an
// optional .env overlay.
type Config struct {
	Port    string
	GinMode string
	Models  models.ModelConfig
}

func loadConfig() Config {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found, using environment defaults")
	}

	cfg := Config{
		Port:    envString("PORT", "8080"),
		GinMode: envString("GIN_MODE", "release"),
		Models: models.ModelConfig{
			BinomialSteps: envInt("BINOMIAL_STEPS", models.DefaultBinomialSteps),
			Simulations:   envInt("MC_SIMULATIONS", models.DefaultSimulations),
		}.Clamped(),
	}
	return cfg
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.WithField("key", key).Warnf("ignoring non-integer value %q", v)
		return fallback
	}
	return n
}

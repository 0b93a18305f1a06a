package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath    string
	OutputDir string
	HTTPAddr  string

	// Field weights for the candidate scorer. Calibrated against historical
	// supplier invoices; override per deployment if the mix of missing fields
	// shifts.
	MatchWeightCode  float64
	MatchWeightName  float64
	MatchWeightQty   float64
	MatchWeightPrice float64

	// Candidates at or below MatchMinScore are discarded as noise.
	MatchMinScore        float64
	MatchExactThreshold  float64
	MatchHighThreshold   float64
	MatchMediumThreshold float64

	MatchWorkers int
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:    getEnv("DB_PATH", filepath.Join(cwd, "data", "procure.db")),
		OutputDir: getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),
		HTTPAddr:  getEnv("HTTP_ADDR", ":8080"),

		MatchWeightCode:  getEnvFloat("MATCH_WEIGHT_CODE", 0.40),
		MatchWeightName:  getEnvFloat("MATCH_WEIGHT_NAME", 0.35),
		MatchWeightQty:   getEnvFloat("MATCH_WEIGHT_QTY", 0.15),
		MatchWeightPrice: getEnvFloat("MATCH_WEIGHT_PRICE", 0.10),

		MatchMinScore:        getEnvFloat("MATCH_MIN_SCORE", 0.30),
		MatchExactThreshold:  getEnvFloat("MATCH_EXACT_THRESHOLD", 0.90),
		MatchHighThreshold:   getEnvFloat("MATCH_HIGH_THRESHOLD", 0.70),
		MatchMediumThreshold: getEnvFloat("MATCH_MEDIUM_THRESHOLD", 0.50),

		MatchWorkers: getEnvInt("MATCH_WORKERS", 1),
	}

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

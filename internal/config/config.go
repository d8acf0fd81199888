package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/couchcryptid/flood-elevation-service/internal/domain"
	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	ShutdownTimeout  time.Duration

	BatchSize          int
	BatchFlushInterval time.Duration

	// Evaluation settings.
	EvalWorkers int
	EADGrid     domain.Grid

	// Optional HAZUS depth-damage table for requests that reference curves by ID.
	DamageTablePath      string
	DamageTableSheet     string
	DamageCurveCacheSize int
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	workers, err := parsePositiveInt("EVAL_WORKERS", runtime.NumCPU())
	if err != nil {
		return nil, err
	}

	grid, err := parseGrid()
	if err != nil {
		return nil, err
	}

	cacheSize, err := parsePositiveInt("DAMAGE_CURVE_CACHE_SIZE", 256)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "elevation-evaluation-requests"),
		KafkaSinkTopic:     sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "elevation-evaluation-results"),
		KafkaGroupID:       sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "flood-elevation-service"),
		HTTPAddr:           sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,

		EvalWorkers: workers,
		EADGrid:     grid,

		DamageTablePath:      os.Getenv("DAMAGE_TABLE_PATH"),
		DamageTableSheet:     os.Getenv("DAMAGE_TABLE_SHEET"),
		DamageCurveCacheSize: cacheSize,
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaSourceTopic == "" {
		return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
	}
	if cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}

	return cfg, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive integer", key, s)
	}
	return n, nil
}

func parseFloat(key string, def float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return v, nil
}

// parseGrid reads the deployment-wide EAD grid. Every evaluation served by the
// process uses it, so results stay comparable.
func parseGrid() (domain.Grid, error) {
	points, err := parsePositiveInt("EAD_GRID_POINTS", domain.DefaultGrid.Points)
	if err != nil {
		return domain.Grid{}, err
	}
	minP, err := parseFloat("EAD_GRID_MIN_P", domain.DefaultGrid.MinP)
	if err != nil {
		return domain.Grid{}, err
	}
	maxP, err := parseFloat("EAD_GRID_MAX_P", domain.DefaultGrid.MaxP)
	if err != nil {
		return domain.Grid{}, err
	}

	g := domain.Grid{Points: points, MinP: minP, MaxP: maxP}
	if err := g.Validate(); err != nil {
		return domain.Grid{}, fmt.Errorf("invalid EAD_GRID_*: %w", err)
	}
	return g, nil
}

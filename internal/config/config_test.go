package config

import (
	"runtime"
	"testing"
	"time"

	"github.com/couchcryptid/flood-elevation-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultBroker = "localhost:9092"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
	assert.Equal(t, "elevation-evaluation-requests", cfg.KafkaSourceTopic)
	assert.Equal(t, "elevation-evaluation-results", cfg.KafkaSinkTopic)
	assert.Equal(t, "flood-elevation-service", cfg.KafkaGroupID)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, 500*time.Millisecond, cfg.BatchFlushInterval)
	assert.Equal(t, runtime.NumCPU(), cfg.EvalWorkers)
	assert.Equal(t, domain.DefaultGrid, cfg.EADGrid)
	assert.Empty(t, cfg.DamageTablePath)
	assert.Empty(t, cfg.DamageTableSheet)
	assert.Equal(t, 256, cfg.DamageCurveCacheSize)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_SOURCE_TOPIC", "custom-source")
	t.Setenv("KAFKA_SINK_TOPIC", "custom-sink")
	t.Setenv("KAFKA_GROUP_ID", "custom-group")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("BATCH_SIZE", "100")
	t.Setenv("BATCH_FLUSH_INTERVAL", "1s")
	t.Setenv("EVAL_WORKERS", "3")
	t.Setenv("EAD_GRID_POINTS", "500")
	t.Setenv("EAD_GRID_MIN_P", "0.001")
	t.Setenv("EAD_GRID_MAX_P", "0.999")
	t.Setenv("DAMAGE_TABLE_PATH", "/data/flood_depth_damage.xlsx")
	t.Setenv("DAMAGE_TABLE_SHEET", "Flood")
	t.Setenv("DAMAGE_CURVE_CACHE_SIZE", "64")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-source", cfg.KafkaSourceTopic)
	assert.Equal(t, "custom-sink", cfg.KafkaSinkTopic)
	assert.Equal(t, "custom-group", cfg.KafkaGroupID)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, 1*time.Second, cfg.BatchFlushInterval)
	assert.Equal(t, 3, cfg.EvalWorkers)
	assert.Equal(t, domain.Grid{Points: 500, MinP: 0.001, MaxP: 0.999}, cfg.EADGrid)
	assert.Equal(t, "/data/flood_depth_damage.xlsx", cfg.DamageTablePath)
	assert.Equal(t, "Flood", cfg.DamageTableSheet)
	assert.Equal(t, 64, cfg.DamageCurveCacheSize)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_NegativeShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidBatchSize(t *testing.T) {
	t.Setenv("BATCH_SIZE", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BATCH_SIZE")
}

func TestLoad_BatchSizeTooLarge(t *testing.T) {
	t.Setenv("BATCH_SIZE", "9999")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BATCH_SIZE")
}

func TestLoad_InvalidBatchFlushInterval(t *testing.T) {
	t.Setenv("BATCH_FLUSH_INTERVAL", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BATCH_FLUSH_INTERVAL")
}

func TestLoad_InvalidNumbers(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"EVAL_WORKERS", "0"},
		{"EVAL_WORKERS", "many"},
		{"DAMAGE_CURVE_CACHE_SIZE", "-5"},
		{"EAD_GRID_POINTS", "1.5"},
		{"EAD_GRID_MIN_P", "tiny"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoad_InvalidGrid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"single point", map[string]string{"EAD_GRID_POINTS": "1"}},
		{"min above max", map[string]string{"EAD_GRID_MIN_P": "0.9", "EAD_GRID_MAX_P": "0.1"}},
		{"max at one", map[string]string{"EAD_GRID_MAX_P": "1"}},
		{"min at zero", map[string]string{"EAD_GRID_MIN_P": "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "EAD_GRID")
		})
	}
}

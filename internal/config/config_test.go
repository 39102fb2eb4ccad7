package config

import (
	"testing"
	"time"

	"github.com/dgallion1/mdchunk/internal/chunker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("MDCHUNK_API_KEY", "")
	t.Setenv("WORKER_COUNT", "")
	t.Setenv("CHUNK_TARGET_SIZE", "")

	cfg := Load()
	assert.Equal(t, "8090", cfg.Port)
	assert.Equal(t, 4, cfg.WorkerCount)
	assert.Equal(t, chunker.StrategySize, cfg.Strategy)
	assert.Equal(t, chunker.DefaultConfig(), cfg.Chunk)
	assert.Equal(t, time.Hour, cfg.JobTTL)
	assert.True(t, cfg.PDFFallbackPdftotext)

	assert.EqualError(t, cfg.Validate(), "MDCHUNK_API_KEY is required")
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("MDCHUNK_API_KEY", "secret")
	t.Setenv("WORKER_COUNT", "-1")
	t.Setenv("JOB_TTL", "5m")
	t.Setenv("CHUNK_STRATEGY", "headers")
	t.Setenv("CHUNK_TARGET_SIZE", "2000")
	t.Setenv("CHUNK_MIN_MERGE_SIZE", "500")
	t.Setenv("CHUNK_GROUP_LEVEL", "3")
	t.Setenv("PDF_FALLBACK_PDFTOTEXT", "false")

	cfg := Load()
	assert.Equal(t, 4, cfg.WorkerCount, "non-positive worker count falls back")
	assert.Equal(t, 5*time.Minute, cfg.JobTTL)
	assert.Equal(t, "headers", cfg.Strategy)
	assert.Equal(t, 2000, cfg.Chunk.TargetSize)
	assert.Equal(t, 500, cfg.Chunk.MinMergeSize)
	assert.Equal(t, 3, cfg.Chunk.GroupLevel)
	assert.False(t, cfg.PDFFallbackPdftotext)
	require.NoError(t, cfg.Validate())
}

func TestValidate_ChunkThresholds(t *testing.T) {
	t.Setenv("MDCHUNK_API_KEY", "secret")
	t.Setenv("CHUNK_MIN_MERGE_SIZE", "20000")
	t.Setenv("CHUNK_TARGET_SIZE", "10000")

	err := Load().Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, chunker.ErrInvalidConfig)
}

func TestValidate_UnknownStrategy(t *testing.T) {
	t.Setenv("MDCHUNK_API_KEY", "secret")
	t.Setenv("CHUNK_STRATEGY", "semantic")
	assert.Error(t, Load().Validate())
}

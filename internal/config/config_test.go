package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assistgen-gateway/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "disk", cfg.Storage.Backend)
	assert.Equal(t, "deepseek-chat", cfg.LLM.ChatModel)
	assert.Equal(t, "deepseek-reasoner", cfg.LLM.ReasonerModel)
	assert.Equal(t, 512, cfg.Index.ChunkSize)
	assert.Equal(t, 50, cfg.Index.ChunkOverlap)
	assert.False(t, cfg.Temporal.Enabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORAGE_BACKEND", "s3")
	t.Setenv("TEMPORAL_ENABLED", "true")
	t.Setenv("SEARCH_TIMEOUT", "3s")
	t.Setenv("LLM_CHAT_MODEL", "deepseek-chat-v2")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "s3", cfg.Storage.Backend)
	assert.True(t, cfg.Temporal.Enabled)
	assert.Equal(t, 3*time.Second, cfg.Search.Timeout)
	assert.Equal(t, "deepseek-chat-v2", cfg.LLM.ChatModel)
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-port")
	t.Setenv("TEMPORAL_ENABLED", "maybe")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.False(t, cfg.Temporal.Enabled)
}

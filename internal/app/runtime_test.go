package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartallies/incident/internal/llm"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"INCIDENT_LLM_PROVIDER", "INCIDENT_LLM_MODEL", "INCIDENT_LLM_ENDPOINT", "INCIDENT_LLM_API_KEY",
		"INCIDENT_LLM_LOG_CALLS", "INCIDENT_LLM_TIMEOUT_MS", "INCIDENT_LLM_MAX_RETRIES",
		"OPENAI_API_KEY", "ANTHROPIC_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY",
		"INCIDENT_ADDR", "INCIDENT_LOG_LEVEL", "INCIDENT_LOG_FORMAT", "INCIDENT_LOG_FILE",
		"INCIDENT_AFFIRMATION_FALLBACK",
	} {
		t.Setenv(name, "")
	}
}

func TestBuild_FromFileAndFlags(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "incident.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9090"
logging:
  level: warn
llm:
  endpoint: http://ollama.internal:11434
  model: llama3.1
workflow:
  affirmation_fallback: true
`), 0o600))

	rt, err := Build(context.Background(), Options{ConfigPath: path, LogLevel: "error", Model: "qwen2.5"})
	require.NoError(t, err)
	defer rt.Close()

	assert.Equal(t, ":9090", rt.Config.Server.Addr)
	assert.Equal(t, "error", rt.Config.Logging.Level)
	assert.Equal(t, "error", rt.Level.String())
	assert.Equal(t, llm.ProviderOllama, rt.LLMConfig.Provider)
	assert.Equal(t, "http://ollama.internal:11434", rt.LLMConfig.Endpoint)
	assert.Equal(t, "qwen2.5", rt.LLMConfig.Model)
	assert.True(t, rt.Config.Workflow.AffirmationFallback)
	assert.NotNil(t, rt.Engine)
	assert.Implements(t, (*llm.HealthChecker)(nil), rt.Client)
}

func TestBuild_Errors(t *testing.T) {
	clearEnv(t)

	_, err := Build(context.Background(), Options{LogLevel: "loud"})
	assert.Error(t, err)

	_, err = Build(context.Background(), Options{Provider: "anthropic"})
	assert.ErrorIs(t, err, llm.ErrMisconfigured)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [oops"), 0o600))
	_, err = Build(context.Background(), Options{ConfigPath: path})
	assert.ErrorContains(t, err, "loading config")
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartallies/incident/internal/domain"
	"github.com/smartallies/incident/internal/llm"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "incident.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, domain.EmergencyNumbers{Police: "117", Ambulance: "144", Fire: "118", Samaritan: "143"}, cfg.Emergency)
	assert.Len(t, cfg.Catalog().ResourcesFor(domain.IncidentHuman), 5)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownGrace())
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9090"
  shutdown_timeout: 3s
logging:
  level: debug
  format: console
workflow:
  affirmation_fallback: true
emergency:
  police: "112"
resources:
  facility:
    - "Front desk: ext 100"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownGrace())
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Workflow.AffirmationFallback)
	assert.Equal(t, "112", cfg.Emergency.Police)
	assert.Equal(t, "144", cfg.Emergency.Ambulance)
	assert.Equal(t, []string{"Front desk: ext 100"}, cfg.Catalog().ResourcesFor(domain.IncidentFacility))
	assert.Len(t, cfg.Catalog().ResourcesFor(domain.IncidentHuman), 5)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "emergency:\n  fire: \"999\"\n")
	t.Setenv("INCIDENT_EMERGENCY_FIRE", "118")
	t.Setenv("INCIDENT_ADDR", "127.0.0.1:7000")
	t.Setenv("INCIDENT_AFFIRMATION_FALLBACK", "true")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "118", cfg.Emergency.Fire)
	assert.Equal(t, "127.0.0.1:7000", cfg.Server.Addr)
	assert.True(t, cfg.Workflow.AffirmationFallback)
}

func TestLoad_RejectsInvalidFile(t *testing.T) {
	_, err := Load(writeConfig(t, "server: [not, a, map]"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "resources:\n  weather: [\"umbrella\"]\n"))
	assert.ErrorContains(t, err, "weather")

	_, err = Load(writeConfig(t, "emergency:\n  samaritan: \"\"\n"))
	assert.ErrorContains(t, err, "samaritan")
}

func TestResourceCatalog_IsImmutable(t *testing.T) {
	src := map[domain.IncidentType][]string{domain.IncidentHuman: {"a", "b"}}
	catalog := NewResourceCatalog(src)
	src[domain.IncidentHuman][0] = "changed"

	got := catalog.ResourcesFor(domain.IncidentHuman)
	assert.Equal(t, []string{"a", "b"}, got)

	got[1] = "mutated"
	assert.Equal(t, []string{"a", "b"}, catalog.ResourcesFor(domain.IncidentHuman))
	assert.Nil(t, catalog.ResourcesFor(domain.IncidentFacility))
}

func TestConfig_LLMConfigLayers(t *testing.T) {
	path := writeConfig(t, `
llm:
  provider: anthropic
  model: claude-sonnet-4-5-20250901
  max_retries: 1
`)
	t.Setenv("ANTHROPIC_API_KEY", "sk-file")
	t.Setenv("INCIDENT_LLM_MODEL", "")

	cfg, err := Load(path)
	require.NoError(t, err)

	llmCfg, err := cfg.LLMConfig()
	require.NoError(t, err)
	assert.Equal(t, llm.ProviderAnthropic, llmCfg.Provider)
	assert.Equal(t, "claude-sonnet-4-5-20250901", llmCfg.Model)
	assert.Equal(t, 1, llmCfg.MaxRetries)
	assert.Equal(t, "sk-file", llmCfg.APIKey)

	t.Setenv("INCIDENT_LLM_MODEL", "claude-haiku-4-5-20251001")
	llmCfg, err = cfg.LLMConfig()
	require.NoError(t, err)
	assert.Equal(t, "claude-haiku-4-5-20251001", llmCfg.Model)
}

package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func newCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("db", "", "")
	cmd.Flags().String("llm-provider", "", "")
	return cmd
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PLACEMENT_LLM_PROVIDER", "mock")
	t.Setenv("PLACEMENT_DB", filepath.Join(t.TempDir(), "placement.db"))

	cfg, err := Load(newCmd())
	require.NoError(t, err)

	require.Equal(t, "mock", cfg.LLM.Provider)
	require.Equal(t, "gemini-flash-lite", cfg.LLM.Gemini.Model)
	require.Equal(t, 30*time.Second, cfg.LLM.Timeout)
}

func TestLoadEnvOverrides(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "sub", "placement.db")
	t.Setenv("PLACEMENT_LLM_PROVIDER", "gemini")
	t.Setenv("PLACEMENT_GEMINI_API_KEY", "test-key")
	t.Setenv("PLACEMENT_GEMINI_MODEL", "gemini-2.5-flash")
	t.Setenv("PLACEMENT_LLM_TIMEOUT", "45s")
	t.Setenv("PLACEMENT_DB", dbPath)

	cfg, err := Load(newCmd())
	require.NoError(t, err)

	require.Equal(t, "gemini", cfg.LLM.Provider)
	require.Equal(t, "test-key", cfg.LLM.Gemini.APIKey)
	require.Equal(t, "gemini-2.5-flash", cfg.LLM.Gemini.Model)
	require.Equal(t, 45*time.Second, cfg.LLM.Timeout)
	require.Equal(t, dbPath, cfg.DBPath)
}

func TestLoadFlagBeatsEnv(t *testing.T) {
	t.Setenv("PLACEMENT_LLM_PROVIDER", "gemini")
	t.Setenv("PLACEMENT_DB", filepath.Join(t.TempDir(), "placement.db"))

	cmd := newCmd()
	require.NoError(t, cmd.Flags().Set("llm-provider", "mock"))

	cfg, err := Load(cmd)
	require.NoError(t, err)
	require.Equal(t, "mock", cfg.LLM.Provider)
}

func TestLoadMissingAPIKey(t *testing.T) {
	t.Setenv("PLACEMENT_LLM_PROVIDER", "gemini")
	t.Setenv("PLACEMENT_GEMINI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("PLACEMENT_DB", filepath.Join(t.TempDir(), "placement.db"))

	_, err := Load(newCmd())
	require.Error(t, err)
	require.Contains(t, err.Error(), "Gemini API key")
}

func TestSessionTimeout(t *testing.T) {
	cfg := Config{}
	require.Equal(t, 30*time.Second, cfg.SessionTimeout())

	cfg.LLM.Timeout = 2 * time.Minute
	require.Equal(t, 2*time.Minute, cfg.SessionTimeout())
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hitboxd.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.Server.Listen != ":8080" {
		t.Errorf("listen = %q, want :8080", cfg.Server.Listen)
	}
	if cfg.Engine.Seed != 42 {
		t.Errorf("seed = %d, want 42", cfg.Engine.Seed)
	}
	if cfg.Engine.DefaultTier != "high" {
		t.Errorf("default_tier = %q, want high", cfg.Engine.DefaultTier)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  listen: ":9090"
engine:
  default_tier: ultra
  pace_delay: 250ms
logging:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Listen)
	assert.Equal(t, "ultra", cfg.Engine.DefaultTier)
	assert.Equal(t, 250*time.Millisecond, cfg.Engine.PaceDelay)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Untouched sections keep their defaults.
	assert.Equal(t, "hitbox.db", cfg.Database.Path)
	assert.Equal(t, int64(42), cfg.Engine.Seed)
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestLoadInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantSub string
	}{
		{
			name:    "unknown tier",
			yaml:    "engine:\n  default_tier: extreme\n",
			wantSub: "default_tier",
		},
		{
			name:    "negative pace",
			yaml:    "engine:\n  pace_delay: -1s\n",
			wantSub: "pace_delay",
		},
		{
			name:    "empty listen",
			yaml:    "server:\n  listen: \"\"\n",
			wantSub: "listen",
		},
		{
			name:    "malformed yaml",
			yaml:    "engine: [not a map\n",
			wantSub: "loading config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.yaml)
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q does not mention %q", err, tt.wantSub)
			}
		})
	}
}

func TestTierAliasAccepted(t *testing.T) {
	path := writeConfig(t, "engine:\n  default_tier: super low\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Engine.DefaultTier != "super low" {
		t.Errorf("default_tier = %q, want alias preserved", cfg.Engine.DefaultTier)
	}
}

package config

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(flags)
	require.NoError(t, flags.Parse(args))
	return flags
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(newFlags(t))
	require.NoError(t, err)

	assert.Empty(t, cfg.Model)
	assert.Equal(t, DefaultFallback, cfg.Fallback)
	assert.Equal(t, DefaultRetries, cfg.Retries)
	assert.False(t, cfg.ForceOpaque)
	assert.False(t, cfg.Wireframe)
	assert.InDelta(t, DefaultMinRadius, cfg.MinRadius, 1e-9)
	assert.InDelta(t, DefaultMaxRadius, cfg.MaxRadius, 1e-9)
	assert.Equal(t, DefaultWidth, cfg.Width)
	assert.Equal(t, DefaultHeight, cfg.Height)
}

func TestLoadFlagsOverrideDefaults(t *testing.T) {
	cfg, err := Load(newFlags(t,
		"--model", "https://example.com/duck.glb",
		"--retries", "5",
		"--force-opaque",
		"--wireframe",
		"--zoom", "1.25",
	))
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/duck.glb", cfg.Model)
	assert.Equal(t, 5, cfg.Retries)
	assert.True(t, cfg.ForceOpaque)
	assert.True(t, cfg.Wireframe)
	assert.InDelta(t, 1.25, cfg.ZoomSpeed, 1e-9)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	t.Setenv("ORBIT_MODEL", "env.glb")
	t.Setenv("ORBIT_FORCE_OPAQUE", "true")
	t.Setenv("ORBIT_RETRIES", "7")

	cfg, err := Load(newFlags(t))
	require.NoError(t, err)

	assert.Equal(t, "env.glb", cfg.Model)
	assert.True(t, cfg.ForceOpaque)
	assert.Equal(t, 7, cfg.Retries)
}

func TestFlagsBeatEnv(t *testing.T) {
	t.Setenv("ORBIT_MODEL", "env.glb")

	cfg, err := Load(newFlags(t, "--model", "flag.glb"))
	require.NoError(t, err)
	assert.Equal(t, "flag.glb", cfg.Model)
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"zero retries", []string{"--retries", "0"}},
		{"negative min radius", []string{"--min-radius", "-1"}},
		{"max below min", []string{"--min-radius", "10", "--max-radius", "1"}},
		{"zero zoom", []string{"--zoom", "0"}},
		{"zero width", []string{"--width", "0"}},
		{"empty fallback", []string{"--fallback", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(newFlags(t, tt.args...))
			assert.Error(t, err)
		})
	}
}

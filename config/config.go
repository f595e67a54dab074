package config

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/orbit-go/assets"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Defaults applied before environment variables and flags.
const (
	DefaultFallback  = assets.PlaceholderURL
	DefaultRetries   = 3
	DefaultMinRadius = 0.5
	DefaultMaxRadius = 100.0
	DefaultZoomSpeed = 0.5
	DefaultWidth     = 1280
	DefaultHeight    = 720
)

// envPrefix namespaces the viewer's environment variables (e.g. ORBIT_MODEL).
const envPrefix = "ORBIT_"

// Config holds the fully merged viewer configuration.
// Precedence (highest to lowest): flags > environment > defaults.
type Config struct {
	// Model is the URL or local path of the model to load on startup.
	// Empty means show the placeholder.
	Model string `koanf:"model"`

	// Fallback is the placeholder asset shown when the model cannot load.
	Fallback string `koanf:"fallback"`

	// Retries is the per-load retry budget.
	Retries int `koanf:"retries"`

	// ForceOpaque renders every material fully opaque.
	ForceOpaque bool `koanf:"force-opaque"`

	// Wireframe renders every mesh as line geometry.
	Wireframe bool `koanf:"wireframe"`

	// MinRadius and MaxRadius bound the camera's orbit distance.
	MinRadius float64 `koanf:"min-radius"`
	MaxRadius float64 `koanf:"max-radius"`

	// ZoomSpeed scales scroll wheel zoom.
	ZoomSpeed float64 `koanf:"zoom"`

	// Width and Height are the initial window dimensions in pixels.
	Width  int `koanf:"width"`
	Height int `koanf:"height"`

	// Profile enables frame/memory profiling output.
	Profile bool `koanf:"profile"`

	// Verbose enables debug-level logging.
	Verbose bool `koanf:"verbose"`
}

// RegisterFlags declares every viewer flag on the given flag set. Call before
// parsing; Load reads only flags the user actually set.
//
// Parameters:
//   - flags: the flag set to register on
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String("model", "", "URL or path of the model to display")
	flags.String("fallback", DefaultFallback, "placeholder asset shown when the model cannot load")
	flags.Int("retries", DefaultRetries, "retry budget per model load")
	flags.Bool("force-opaque", false, "render every material fully opaque")
	flags.Bool("wireframe", false, "render meshes as wireframe")
	flags.Float64("min-radius", DefaultMinRadius, "minimum camera orbit distance")
	flags.Float64("max-radius", DefaultMaxRadius, "maximum camera orbit distance")
	flags.Float64("zoom", DefaultZoomSpeed, "scroll wheel zoom speed")
	flags.Int("width", DefaultWidth, "initial window width in pixels")
	flags.Int("height", DefaultHeight, "initial window height in pixels")
	flags.Bool("profile", false, "log frame rate and memory statistics")
	flags.Bool("verbose", false, "enable debug logging")
}

// Load merges defaults, ORBIT_* environment variables, and explicitly set
// flags into a validated Config.
//
// Parameters:
//   - flags: the parsed flag set, or nil to skip flag overrides
//
// Returns:
//   - *Config: the merged configuration
//   - error: a merge or validation error
func Load(flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults.
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"model":        "",
		"fallback":     DefaultFallback,
		"retries":      DefaultRetries,
		"force-opaque": false,
		"wireframe":    false,
		"min-radius":   DefaultMinRadius,
		"max-radius":   DefaultMaxRadius,
		"zoom":         DefaultZoomSpeed,
		"width":        DefaultWidth,
		"height":       DefaultHeight,
		"profile":      false,
		"verbose":      false,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Environment variables: ORBIT_FORCE_OPAQUE -> force-opaque.
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", "-")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	// 3. Flags the user explicitly set win over everything.
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			return f.Name, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for values the viewer cannot run with.
//
// Returns:
//   - error: the first validation failure, or nil
func (c *Config) Validate() error {
	if c.Fallback == "" {
		return fmt.Errorf("fallback asset path cannot be empty")
	}
	if c.Retries < 1 {
		return fmt.Errorf("retries must be at least 1, got %d", c.Retries)
	}
	if c.MinRadius <= 0 {
		return fmt.Errorf("min-radius must be positive, got %g", c.MinRadius)
	}
	if c.MaxRadius < c.MinRadius {
		return fmt.Errorf("max-radius (%g) must be at least min-radius (%g)", c.MaxRadius, c.MinRadius)
	}
	if c.ZoomSpeed <= 0 {
		return fmt.Errorf("zoom must be positive, got %g", c.ZoomSpeed)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("window dimensions must be positive, got %dx%d", c.Width, c.Height)
	}
	return nil
}

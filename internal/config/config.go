package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Pathfind    PathfindConfig    `mapstructure:"pathfind"`
	Fog         FogConfig         `mapstructure:"fog"`
	Scenario    ScenarioConfig    `mapstructure:"scenario"`
	Mapgen      MapgenConfig      `mapstructure:"mapgen"`
	Log         LogConfig         `mapstructure:"log"`
	Development DevelopmentConfig `mapstructure:"development"`
}

// PathfindConfig holds the default observer flags for tunnel queries
type PathfindConfig struct {
	SeeAll      bool `mapstructure:"see_all"`
	IgnoreUnits bool `mapstructure:"ignore_units"`
	CheckVision bool `mapstructure:"check_vision"`
}

// FogConfig holds fog of war settings
type FogConfig struct {
	Enabled      bool `mapstructure:"enabled"`
	VisionRadius int  `mapstructure:"vision_radius"`
}

// ScenarioConfig holds scenario file locations
type ScenarioConfig struct {
	Path     string `mapstructure:"path"`
	SavePath string `mapstructure:"save_path"`
}

// MapgenConfig holds demo map generation settings
type MapgenConfig struct {
	Width        int     `mapstructure:"width"`
	Height       int     `mapstructure:"height"`
	CaveRatio    float64 `mapstructure:"cave_ratio"`
	VillageRatio float64 `mapstructure:"village_ratio"`
	WallRatio    float64 `mapstructure:"wall_ratio"`
	Seed         int64   `mapstructure:"seed"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DevelopmentConfig holds development/debug settings
type DevelopmentConfig struct {
	VerboseLogging bool `mapstructure:"verbose_logging"`
	RenderBoard    bool `mapstructure:"render_board"`
}

var (
	// Global config instance
	cfg *Config
	v   *viper.Viper
)

// setViperDefaults sets all default values using Viper's SetDefault
func setViperDefaults(v *viper.Viper) {
	v.SetDefault("pathfind.see_all", false)
	v.SetDefault("pathfind.ignore_units", false)
	v.SetDefault("pathfind.check_vision", false)

	v.SetDefault("fog.enabled", true)
	v.SetDefault("fog.vision_radius", 2)

	v.SetDefault("scenario.path", "")
	v.SetDefault("scenario.save_path", "")

	v.SetDefault("mapgen.width", 16)
	v.SetDefault("mapgen.height", 10)
	v.SetDefault("mapgen.cave_ratio", 0.04)
	v.SetDefault("mapgen.village_ratio", 0.05)
	v.SetDefault("mapgen.wall_ratio", 0.1)
	v.SetDefault("mapgen.seed", 1)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("development.verbose_logging", false)
	v.SetDefault("development.render_board", true)
}

// Init initializes the configuration
func Init(configPath string) error {
	v = viper.New()

	setViperDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/generals-tunnels")
	}

	v.SetEnvPrefix("TUN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing explicit file falls back to defaults; for the default
		// locations only "not found" is tolerated.
		var notFound viper.ConfigFileNotFoundError
		if configPath == "" && !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg = &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

// Get returns the global config instance
func Get() *Config {
	if cfg == nil {
		if err := Init(""); err != nil {
			panic("failed to initialize config with defaults: " + err.Error())
		}
	}
	return cfg
}

// GetViper returns the viper instance for advanced usage
func GetViper() *viper.Viper {
	if v == nil {
		panic("config not initialized - call Init() first")
	}
	return v
}

// LoadEnvironmentConfig merges config.<env>.yaml over the loaded config, if present
func LoadEnvironmentConfig(env string) error {
	if env == "" {
		return nil
	}

	envFile := fmt.Sprintf("config.%s.yaml", env)

	v.SetConfigFile(envFile)
	if err := v.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("error merging environment config %s: %w", envFile, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode merged config into struct: %w", err)
	}

	return nil
}

// Set allows runtime config updates
func Set(key string, value interface{}) {
	v.Set(key, value)
	_ = v.Unmarshal(cfg)
}

// GetString gets a string value from config
func GetString(key string) string {
	return v.GetString(key)
}

// GetInt gets an int value from config
func GetInt(key string) int {
	return v.GetInt(key)
}

// GetBool gets a bool value from config
func GetBool(key string) bool {
	return v.GetBool(key)
}

// GetFloat64 gets a float64 value from config
func GetFloat64(key string) float64 {
	return v.GetFloat64(key)
}

// ConfigFilePath returns the path of the loaded config file
func ConfigFilePath() string {
	return v.ConfigFileUsed()
}

// WatchConfig enables hot-reloading of config file
func WatchConfig(onChange func()) {
	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		_ = v.Unmarshal(cfg)
		if onChange != nil {
			onChange()
		}
	})
}

// Validate validates the configuration values
func Validate(c *Config) error {
	if c.Fog.VisionRadius < 0 {
		return fmt.Errorf("fog.vision_radius must be non-negative")
	}

	if c.Mapgen.Width <= 0 || c.Mapgen.Height <= 0 {
		return fmt.Errorf("mapgen dimensions must be positive")
	}
	ratios := []struct {
		name  string
		value float64
	}{
		{"mapgen.cave_ratio", c.Mapgen.CaveRatio},
		{"mapgen.village_ratio", c.Mapgen.VillageRatio},
		{"mapgen.wall_ratio", c.Mapgen.WallRatio},
	}
	total := 0.0
	for _, r := range ratios {
		if r.value < 0 || r.value > 1 {
			return fmt.Errorf("%s must be between 0 and 1", r.name)
		}
		total += r.value
	}
	if total > 1 {
		return fmt.Errorf("mapgen ratios must sum to at most 1, got %.2f", total)
	}

	switch strings.ToLower(c.Log.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json, got %q", c.Log.Format)
	}

	return nil
}

package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete upkeep configuration
type Config struct {
	Mirror   MirrorConfig   `mapstructure:"mirror" yaml:"mirror"`
	Commands CommandsConfig `mapstructure:"commands" yaml:"commands"`
	Tasks    TasksConfig    `mapstructure:"tasks" yaml:"tasks"`
	UI       UIConfig       `mapstructure:"ui" yaml:"ui"`
	Report   ReportConfig   `mapstructure:"report" yaml:"report"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
}

// MirrorConfig controls the mirror list freshness check
type MirrorConfig struct {
	// ListPath is the pacman mirror list whose modification time is checked
	ListPath string `mapstructure:"list_path" yaml:"list_path"`
	// MaxAgeHours is the freshness window; an older list is re-ranked (default: 168, one week)
	MaxAgeHours int `mapstructure:"max_age_hours" yaml:"max_age_hours"`
}

// CommandsConfig names the external programs the tasks invoke
type CommandsConfig struct {
	// Sudo prefixes privileged commands. Empty runs them directly (e.g. as root).
	Sudo string `mapstructure:"sudo" yaml:"sudo"`
	// AURHelper performs the system upgrade (default: "yay")
	AURHelper string `mapstructure:"aur_helper" yaml:"aur_helper"`
	// ContainerRuntime is pruned by the docker task (default: "docker")
	ContainerRuntime string `mapstructure:"container_runtime" yaml:"container_runtime"`
	// TimeoutMinutes bounds each external command (0 = no timeout)
	TimeoutMinutes int `mapstructure:"timeout_minutes" yaml:"timeout_minutes"`
	// CacheDir is the user cache directory emptied by the cache task.
	// Empty uses the platform default from os.UserCacheDir.
	CacheDir string `mapstructure:"cache_dir" yaml:"cache_dir"`
}

// TasksConfig selects which tasks run
type TasksConfig struct {
	// Skip lists glob patterns of task names to leave out of the run
	Skip []string `mapstructure:"skip" yaml:"skip"`
}

// UIConfig controls console progress output
type UIConfig struct {
	// Progress is one of "auto", "interactive", "plain" or "off" (default: "auto")
	Progress string `mapstructure:"progress" yaml:"progress"`
}

// ReportConfig controls how the final report affects the exit status
type ReportConfig struct {
	// FailOnError exits nonzero when any task failed (default: false)
	FailOnError bool `mapstructure:"fail_on_error" yaml:"fail_on_error"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether the JSON debug log is written (default: true)
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level" yaml:"level"`
	// Dir is where upkeep.log lives. Empty uses the XDG state directory.
	Dir string `mapstructure:"dir" yaml:"dir"`
	// MaxSizeMB is the maximum log file size in megabytes before rotation (default: 10)
	MaxSizeMB int `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	// MaxBackups is the number of backup log files to keep (default: 3)
	MaxBackups int `mapstructure:"max_backups" yaml:"max_backups"`
}

// Progress display modes
const (
	ProgressAuto        = "auto"
	ProgressInteractive = "interactive"
	ProgressPlain       = "plain"
	ProgressOff         = "off"
)

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Mirror: MirrorConfig{
			ListPath:    "/etc/pacman.d/mirrorlist",
			MaxAgeHours: 168,
		},
		Commands: CommandsConfig{
			Sudo:             "sudo",
			AURHelper:        "yay",
			ContainerRuntime: "docker",
			TimeoutMinutes:   0,
		},
		Tasks: TasksConfig{
			Skip: []string{},
		},
		UI: UIConfig{
			Progress: ProgressAuto,
		},
		Report: ReportConfig{
			FailOnError: false,
		},
		Logging: LoggingConfig{
			Enabled:    true,
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// MaxAge returns the mirror freshness window as a time.Duration
func (c *MirrorConfig) MaxAge() time.Duration {
	return time.Duration(c.MaxAgeHours) * time.Hour
}

// Timeout returns the per-command timeout as a time.Duration (0 means disabled)
func (c *CommandsConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMinutes) * time.Minute
}

// ResolveCacheDir returns CacheDir, falling back to the platform user cache
// directory. It returns "" when neither is available.
func (c *CommandsConfig) ResolveCacheDir() string {
	if c.CacheDir != "" {
		return expandHome(c.CacheDir)
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return dir
}

// ResolveDir returns the log directory, falling back to
// $XDG_STATE_HOME/upkeep or ~/.local/state/upkeep.
func (c *LoggingConfig) ResolveDir() string {
	if c.Dir != "" {
		return expandHome(c.Dir)
	}
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "upkeep")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "upkeep")
	}
	return filepath.Join(home, ".local", "state", "upkeep")
}

func expandHome(path string) string {
	if len(path) < 2 || path[:2] != "~/" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("mirror.list_path", defaults.Mirror.ListPath)
	viper.SetDefault("mirror.max_age_hours", defaults.Mirror.MaxAgeHours)

	viper.SetDefault("commands.sudo", defaults.Commands.Sudo)
	viper.SetDefault("commands.aur_helper", defaults.Commands.AURHelper)
	viper.SetDefault("commands.container_runtime", defaults.Commands.ContainerRuntime)
	viper.SetDefault("commands.timeout_minutes", defaults.Commands.TimeoutMinutes)
	viper.SetDefault("commands.cache_dir", defaults.Commands.CacheDir)

	viper.SetDefault("tasks.skip", defaults.Tasks.Skip)

	viper.SetDefault("ui.progress", defaults.UI.Progress)

	viper.SetDefault("report.fail_on_error", defaults.Report.FailOnError)

	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration, falling back to defaults if the
// loaded configuration does not unmarshal or validate.
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "upkeep")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".upkeep"
	}
	return filepath.Join(home, ".config", "upkeep")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// ValidProgressModes returns the accepted values of ui.progress
func ValidProgressModes() []string {
	return []string{ProgressAuto, ProgressInteractive, ProgressPlain, ProgressOff}
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	// Project settings
	ProjectPath string `yaml:"project_path"`
	TestPath    string `yaml:"test_path"`

	// Host framework
	HostCommand  []string `yaml:"host_command"`
	ReportStream string   `yaml:"report_stream"`

	// Output settings
	OutputJSONFile string `yaml:"output_file"`
	OutputJSONDir  string `yaml:"output_dir"`
	DatabaseDSN    string `yaml:"database_dsn"`

	// Execution settings
	Shards    int    `yaml:"shards"`
	Processes int    `yaml:"processes"`
	Mode      string `yaml:"mode"`

	// Paths to ignore when scanning
	PathsToIgnore []string `yaml:"paths_to_ignore"`

	Blacklist BlacklistConfig `yaml:"blacklist"`

	// Command flags
	Flags Flags `yaml:"-"`
}

// BlacklistConfig holds rules that apply to every run
type BlacklistConfig struct {
	File  string   `yaml:"file"`
	Rules []string `yaml:"rules"`
}

// Flags holds command-line flags
type Flags struct {
	ConfigFile  string
	Verbosity   int
	TestPath    string
	Processes   int
	Shards      int
	CollectOnly bool
	Mode        string
	Static      bool
	ShowDropped bool
	JSON        bool
	Interactive bool
}

// New creates a new Config with defaults
func New() *Config {
	cfg := &Config{
		ProjectPath:    DefaultProjectPath,
		TestPath:       DefaultTestPath,
		ReportStream:   DefaultReportStream,
		OutputJSONFile: DefaultOutputJSONFile,
		OutputJSONDir:  DefaultOutputJSONDir,
		Shards:         DefaultShards,
		Mode:           DefaultMode,
	}
	cfg.HostCommand = append([]string(nil), DefaultHostCommand...)
	// Copy default paths to ignore
	cfg.PathsToIgnore = make([]string, len(DefaultPathsToIgnore))
	copy(cfg.PathsToIgnore, DefaultPathsToIgnore)
	return cfg
}

// LoadFile reads a YAML config over the defaults. A missing file yields the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := New()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if cfg.ProjectPath == "" {
		cfg.ProjectPath = DefaultProjectPath
	}
	return cfg, nil
}

// Load builds the config from file, environment and flags, in that order.
func Load(flags Flags) (*Config, error) {
	path := flags.ConfigFile
	if path == "" {
		path = filepath.Join(DefaultProjectPath, DefaultConfigFile)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	cfg.ApplyFlags(flags)
	return cfg, cfg.Validate()
}

// ApplyEnv loads the project's .env file, if any, then reads NBL_* overrides.
// A missing .env is fine; one that cannot be read or parsed is an error.
func (c *Config) ApplyEnv() error {
	envPath := filepath.Join(c.ProjectPath, ".env")
	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", envPath, err)
	}

	if v := os.Getenv("NBL_HOST_COMMAND"); v != "" {
		c.HostCommand = strings.Fields(v)
	}
	if v := os.Getenv("NBL_REPORT_STREAM"); v != "" {
		c.ReportStream = v
	}
	if v := os.Getenv("NBL_BLACKLIST_FILE"); v != "" {
		c.Blacklist.File = v
	}
	if v := os.Getenv("NBL_DB_DSN"); v != "" {
		c.DatabaseDSN = v
	}
	return nil
}

// ApplyFlags overrides config values with explicitly set flags
func (c *Config) ApplyFlags(flags Flags) {
	c.Flags = flags
	if flags.Processes > 0 {
		c.Processes = flags.Processes
	}
	if flags.Shards > 0 {
		c.Shards = flags.Shards
	}
	if flags.Mode != "" {
		c.Mode = flags.Mode
	}
}

// Validate rejects settings the runner cannot use
func (c *Config) Validate() error {
	if len(c.HostCommand) == 0 {
		return fmt.Errorf("host command is empty")
	}
	switch c.Mode {
	case ModeSelector, ModePlugin:
	default:
		return fmt.Errorf("unknown mode %q (use %s or %s)", c.Mode, ModeSelector, ModePlugin)
	}
	switch strings.ToLower(c.ReportStream) {
	case "stdout", "stderr", "combined":
	default:
		return fmt.Errorf("unknown report stream %q", c.ReportStream)
	}
	if c.Shards < 1 {
		c.Shards = 1
	}
	return nil
}

// GetTestPath returns the test path, using flag if provided
func (c *Config) GetTestPath() string {
	if c.Flags.TestPath != "" {
		// If TestPath is provided, make it relative to ProjectPath if it's not absolute
		if filepath.IsAbs(c.Flags.TestPath) {
			return c.Flags.TestPath
		}
		return filepath.Join(c.ProjectPath, c.Flags.TestPath)
	}

	// Default: combine project path and test path
	return filepath.Join(c.ProjectPath, c.TestPath)
}

// GetOutputPath returns the absolute path of the last-run JSON file
func (c *Config) GetOutputPath() string {
	p := filepath.Join(c.ProjectPath, c.OutputJSONDir, c.OutputJSONFile)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// GetBlacklistFile resolves the configured rules file against the project path
func (c *Config) GetBlacklistFile() string {
	if c.Blacklist.File == "" || filepath.IsAbs(c.Blacklist.File) {
		return c.Blacklist.File
	}
	return filepath.Join(c.ProjectPath, c.Blacklist.File)
}

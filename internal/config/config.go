package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the working directory and the
// user config dir.
const FileName = ".shopdash.yaml"

// Constants for default values.
const (
	DefaultDataDir   = "data"
	DefaultFormat    = "auto"
	DefaultTheme     = "default"
	DefaultTopN      = 5
	DefaultTitle     = "E-commerce Data Analytics Dashboard"
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
	DefaultLogMaxAge = 7 // days
)

// CliFlags holds the values of command-line flags.
type CliFlags struct {
	ConfigFile string
	DataDir    string
	Format     string
	Theme      string
	TopN       int
	Title      string
	Out        string
	PNGDir     string
	LogLevel   string
	NoColor    bool

	// Flags to track if they were explicitly set by the user
	DataDirSet  bool
	FormatSet   bool
	ThemeSet    bool
	TopNSet     bool
	TitleSet    bool
	OutSet      bool
	PNGDirSet   bool
	LogLevelSet bool
	NoColorSet  bool
}

// AppConfig represents the application's configuration from .shopdash.yaml.
type AppConfig struct {
	DataDir string        `yaml:"data_dir"`
	Format  string        `yaml:"format"`
	Theme   string        `yaml:"theme"`
	TopN    int           `yaml:"top_n"`
	Title   string        `yaml:"title,omitempty"`
	Out     string        `yaml:"out,omitempty"`
	PNGDir  string        `yaml:"png_dir,omitempty"`
	NoColor bool          `yaml:"no_color"`
	Palette PaletteConfig `yaml:"palette"`
	Log     LogConfig     `yaml:"log"`
}

// PaletteConfig overrides chart colors. Empty fields keep the theme's color.
type PaletteConfig struct {
	Highlight string `yaml:"highlight,omitempty"`
	Neutral   string `yaml:"neutral,omitempty"`
	Good      string `yaml:"good,omitempty"`
	Bad       string `yaml:"bad,omitempty"`
}

// LogConfig configures the diagnostic logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
	File   string `yaml:"file,omitempty"`
	MaxAge int    `yaml:"max_age_days"`
}

// Defaults returns the hardcoded configuration.
func Defaults() *AppConfig {
	return &AppConfig{
		DataDir: DefaultDataDir,
		Format:  DefaultFormat,
		Theme:   DefaultTheme,
		TopN:    DefaultTopN,
		Title:   DefaultTitle,
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
			MaxAge: DefaultLogMaxAge,
		},
	}
}

// readConfigFile returns the raw file settings, zero-valued where the file
// is silent. With an empty path the file is discovered via getConfigPath; a
// missing discovered file is not an error, a missing explicit one is. The
// returned string is the file actually read, or "" when none was.
func readConfigFile(path string) (*AppConfig, string, error) {
	explicit := path != ""
	if !explicit {
		path = getConfigPath()
		if path == "" {
			return &AppConfig{}, "", nil
		}
	}

	yamlFile, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return &AppConfig{}, "", nil
		}
		return nil, "", fmt.Errorf("reading config file %s: %w", path, err)
	}

	var fileCfg AppConfig
	if err := yaml.Unmarshal(yamlFile, &fileCfg); err != nil {
		return nil, "", fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return &fileCfg, path, nil
}

// getConfigPath tries to find the .shopdash.yaml configuration file.
// It checks local directory first, then XDG UserConfigDir (if valid).
func getConfigPath() string {
	if _, err := os.Stat(FileName); err == nil {
		return FileName
	}

	configHome, err := os.UserConfigDir()
	// An empty path or "/" is not suitable for XDG path construction here.
	if err != nil || configHome == "" || configHome == "/" {
		return ""
	}
	xdgPath := filepath.Join(configHome, "shopdash", FileName)
	if _, err := os.Stat(xdgPath); err == nil {
		return xdgPath
	}
	return ""
}

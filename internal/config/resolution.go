package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ErrInvalidConfig marks a resolved configuration that cannot be used. The
// CLI reports it as a usage error.
var ErrInvalidConfig = errors.New("invalid configuration")

// Source names reported in ResolvedConfig.Sources.
const (
	SourceCLI     = "cli"
	SourceEnv     = "env"
	SourceFile    = "file"
	SourceDefault = "default"
)

// Environment variables consulted by Resolve.
const (
	EnvConfig    = "SHOPDASH_CONFIG"
	EnvDataDir   = "SHOPDASH_DATA_DIR"
	EnvFormat    = "SHOPDASH_FORMAT"
	EnvTheme     = "SHOPDASH_THEME"
	EnvTopN      = "SHOPDASH_TOP_N"
	EnvTitle     = "SHOPDASH_TITLE"
	EnvOut       = "SHOPDASH_OUT"
	EnvPNGDir    = "SHOPDASH_PNG_DIR"
	EnvNoColor   = "SHOPDASH_NO_COLOR"
	EnvLogLevel  = "SHOPDASH_LOG_LEVEL"
	EnvLogFormat = "SHOPDASH_LOG_FORMAT"
	EnvLogFile   = "SHOPDASH_LOG_FILE"
)

var (
	validFormats   = []string{"auto", "terminal", "llm", "json", "html"}
	validThemes    = []string{"default", "orca", "mono"}
	validLogLevels = []string{"trace", "debug", "info", "warn", "warning", "error", "fatal", "panic"}
)

// ResolvedConfig holds the final resolved configuration after applying all priority rules.
type ResolvedConfig struct {
	DataDir string
	Format  string
	Theme   string
	TopN    int
	Title   string
	Out     string
	PNGDir  string
	NoColor bool
	Palette PaletteConfig
	Log     LogConfig

	// ConfigFile is the YAML file that was read, or "" when none was found.
	ConfigFile string
	// Sources maps a yaml field name to the source that set it.
	Sources map[string]string
}

// Resolve resolves configuration from all sources with explicit priority
// order CLI > env > file > default. NoColor forces the mono theme.
func Resolve(flags CliFlags) (*ResolvedConfig, error) {
	path := flags.ConfigFile
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	fileCfg, used, err := readConfigFile(path)
	if err != nil {
		return nil, err
	}

	def := Defaults()
	r := &resolver{sources: make(map[string]string)}
	resolved := &ResolvedConfig{
		DataDir:    r.str("data_dir", flags.DataDir, flags.DataDirSet, EnvDataDir, fileCfg.DataDir, def.DataDir),
		Format:     r.str("format", flags.Format, flags.FormatSet, EnvFormat, fileCfg.Format, def.Format),
		Theme:      r.str("theme", flags.Theme, flags.ThemeSet, EnvTheme, fileCfg.Theme, def.Theme),
		Title:      r.str("title", flags.Title, flags.TitleSet, EnvTitle, fileCfg.Title, def.Title),
		Out:        r.str("out", flags.Out, flags.OutSet, EnvOut, fileCfg.Out, def.Out),
		PNGDir:     r.str("png_dir", flags.PNGDir, flags.PNGDirSet, EnvPNGDir, fileCfg.PNGDir, def.PNGDir),
		Palette:    fileCfg.Palette,
		ConfigFile: used,
		Sources:    r.sources,
	}
	resolved.Log = LogConfig{
		Level:  r.str("log.level", flags.LogLevel, flags.LogLevelSet, EnvLogLevel, fileCfg.Log.Level, def.Log.Level),
		Format: r.str("log.format", "", false, EnvLogFormat, fileCfg.Log.Format, def.Log.Format),
		File:   r.str("log.file", "", false, EnvLogFile, fileCfg.Log.File, def.Log.File),
		MaxAge: def.Log.MaxAge,
	}
	if fileCfg.Log.MaxAge != 0 {
		resolved.Log.MaxAge = fileCfg.Log.MaxAge
	}

	if resolved.TopN, err = r.integer("top_n", flags.TopN, flags.TopNSet, EnvTopN, fileCfg.TopN, def.TopN); err != nil {
		return nil, err
	}

	// Resolve NoColor with priority: CLI > ENV > file > default
	switch {
	case flags.NoColorSet:
		resolved.NoColor = flags.NoColor
		r.sources["no_color"] = SourceCLI
	case envNoColor() != nil:
		resolved.NoColor = *envNoColor()
		r.sources["no_color"] = SourceEnv
	case fileCfg.NoColor:
		resolved.NoColor = true
		r.sources["no_color"] = SourceFile
	default:
		r.sources["no_color"] = SourceDefault
	}
	if resolved.NoColor {
		resolved.Theme = "mono"
	}

	resolved.Format = strings.ToLower(resolved.Format)
	resolved.Theme = strings.ToLower(resolved.Theme)
	resolved.Log.Level = strings.ToLower(resolved.Log.Level)
	resolved.Log.Format = strings.ToLower(resolved.Log.Format)

	if err := validateResolvedConfig(resolved); err != nil {
		return nil, err
	}
	return resolved, nil
}

// Source reports where field was resolved from.
func (c *ResolvedConfig) Source(field string) string {
	if s, ok := c.Sources[field]; ok {
		return s
	}
	return SourceDefault
}

type resolver struct {
	sources map[string]string
}

func (r *resolver) str(field, cli string, cliSet bool, envKey, file, def string) string {
	if cliSet {
		r.sources[field] = SourceCLI
		return cli
	}
	if v := os.Getenv(envKey); v != "" {
		r.sources[field] = SourceEnv
		return v
	}
	if file != "" {
		r.sources[field] = SourceFile
		return file
	}
	r.sources[field] = SourceDefault
	return def
}

func (r *resolver) integer(field string, cli int, cliSet bool, envKey string, file, def int) (int, error) {
	if cliSet {
		r.sources[field] = SourceCLI
		return cli, nil
	}
	if v := os.Getenv(envKey); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, envKey, v)
		}
		r.sources[field] = SourceEnv
		return n, nil
	}
	if file != 0 {
		r.sources[field] = SourceFile
		return file, nil
	}
	r.sources[field] = SourceDefault
	return def, nil
}

// envNoColor reads SHOPDASH_NO_COLOR as a boolean, then NO_COLOR, where any
// non-empty value disables color. Returns nil if neither applies.
func envNoColor() *bool {
	if val := os.Getenv(EnvNoColor); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return &b
		}
	}
	if os.Getenv("NO_COLOR") != "" {
		b := true
		return &b
	}
	return nil
}

// validateResolvedConfig validates the resolved configuration and returns errors for invalid states.
func validateResolvedConfig(cfg *ResolvedConfig) error {
	if !contains(validFormats, cfg.Format) {
		return fmt.Errorf("%w: format %q (must be: %s)", ErrInvalidConfig, cfg.Format, strings.Join(validFormats, ", "))
	}
	if !contains(validThemes, cfg.Theme) {
		return fmt.Errorf("%w: theme %q (must be: %s)", ErrInvalidConfig, cfg.Theme, strings.Join(validThemes, ", "))
	}
	if cfg.TopN <= 0 {
		return fmt.Errorf("%w: top_n must be positive, got: %d", ErrInvalidConfig, cfg.TopN)
	}
	if cfg.DataDir == "" {
		return fmt.Errorf("%w: data_dir cannot be empty", ErrInvalidConfig)
	}
	if !contains(validLogLevels, cfg.Log.Level) {
		return fmt.Errorf("%w: log level %q", ErrInvalidConfig, cfg.Log.Level)
	}
	if cfg.Log.Format != "text" && cfg.Log.Format != "json" {
		return fmt.Errorf("%w: log format %q (must be: text, json)", ErrInvalidConfig, cfg.Log.Format)
	}
	if cfg.Log.MaxAge < 0 {
		return fmt.Errorf("%w: log max_age_days must not be negative, got: %d", ErrInvalidConfig, cfg.Log.MaxAge)
	}
	return nil
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

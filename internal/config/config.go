package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ValentinaAkpan/Datacleaner/internal/cleaning"
	"github.com/ValentinaAkpan/Datacleaner/internal/table"
	"github.com/ValentinaAkpan/Datacleaner/internal/utils"
	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	envPrefix = "DATACLEANER"
	dirName   = ".datacleaner"
)

// Global configuration structure.
type Global struct {
	// Cleaning defaults, overridable per command with flags.
	RemoveDuplicates bool   `mapstructure:"remove_duplicates" yaml:"remove_duplicates"`
	MissingStrategy  string `mapstructure:"missing_strategy" yaml:"missing_strategy"`
	AllowEmptyResult bool   `mapstructure:"allow_empty_result" yaml:"allow_empty_result"`
	ShowDiagnostics  bool   `mapstructure:"show_diagnostics" yaml:"show_diagnostics"`

	// Files
	ExportName  string `mapstructure:"export_name" yaml:"export_name"`
	Delimiter   string `mapstructure:"delimiter" yaml:"delimiter"`
	SessionsDir string `mapstructure:"sessions_dir" yaml:"sessions_dir"`

	BatchWorkers int `mapstructure:"batch_workers" yaml:"batch_workers"`

	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
}

// Keys lists the settable keys in display order.
var Keys = []string{
	"remove_duplicates",
	"missing_strategy",
	"allow_empty_result",
	"show_diagnostics",
	"export_name",
	"delimiter",
	"sessions_dir",
	"batch_workers",
	"log_level",
	"log_format",
}

// ErrUnknownKey is returned by SetValue for keys outside Keys.
var ErrUnknownKey = errors.New("unknown config key")

func setDefaults(v *viper.Viper) {
	v.SetDefault("remove_duplicates", false)
	v.SetDefault("missing_strategy", "none")
	v.SetDefault("allow_empty_result", false)
	v.SetDefault("show_diagnostics", false)
	v.SetDefault("export_name", table.DefaultExportName)
	// empty: comma, or tab for .tsv inputs
	v.SetDefault("delimiter", "")
	v.SetDefault("sessions_dir", "")
	v.SetDefault("batch_workers", 4)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.datacleaner/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := configDir()
		if err != nil {
			return err
		}
		if err := utils.EnsureDir(dir); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := utils.SafeWriteFile(path, b); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (applied by the caller) > env > config file > defaults.
// A .env file in the working directory seeds the environment first without
// overriding variables that are already set.
func Load(cfgFile string) (*Global, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		// a missing explicit file is created by the first Save
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		if err := v.ReadInConfig(); err != nil {
			var nf viper.ConfigFileNotFoundError
			if !errors.As(err, &nf) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.SessionsDir == "" {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		c.SessionsDir = filepath.Join(dir, "sessions")
	}
	dir, err := utils.ExpandHome(c.SessionsDir)
	if err != nil {
		return nil, err
	}
	c.SessionsDir = dir
	return &c, nil
}

// CleaningConfig converts the stored defaults into an engine configuration.
func (c *Global) CleaningConfig() (cleaning.Config, error) {
	s, err := cleaning.ParseStrategy(c.MissingStrategy)
	if err != nil {
		return cleaning.Config{}, err
	}
	return cleaning.Config{
		RemoveDuplicates: c.RemoveDuplicates,
		MissingStrategy:  s,
		AllowEmptyResult: c.AllowEmptyResult,
	}, nil
}

// Comma returns the configured field delimiter. "\t" and "tab" select a tab.
func (c *Global) Comma() (rune, error) {
	d := c.Delimiter
	switch strings.ToLower(d) {
	case "":
		return ',', nil
	case `\t`, "tab":
		return '\t', nil
	}
	if utf8.RuneCountInString(d) != 1 {
		return 0, fmt.Errorf("invalid delimiter %q: must be a single character", d)
	}
	r, _ := utf8.DecodeRuneInString(d)
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return 0, fmt.Errorf("invalid delimiter %q", d)
	}
	return r, nil
}

// Get returns the display value of key.
func (c *Global) Get(key string) (string, error) {
	switch key {
	case "remove_duplicates":
		return cast.ToString(c.RemoveDuplicates), nil
	case "missing_strategy":
		return c.MissingStrategy, nil
	case "allow_empty_result":
		return cast.ToString(c.AllowEmptyResult), nil
	case "show_diagnostics":
		return cast.ToString(c.ShowDiagnostics), nil
	case "export_name":
		return c.ExportName, nil
	case "delimiter":
		return c.Delimiter, nil
	case "sessions_dir":
		return c.SessionsDir, nil
	case "batch_workers":
		return cast.ToString(c.BatchWorkers), nil
	case "log_level":
		return c.LogLevel, nil
	case "log_format":
		return c.LogFormat, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
}

// SetValue parses val for key and stores it, rejecting invalid values.
func (c *Global) SetValue(key, val string) error {
	switch key {
	case "remove_duplicates", "allow_empty_result", "show_diagnostics":
		b, err := cast.ToBoolE(val)
		if err != nil {
			return fmt.Errorf("invalid bool for %s: %q", key, val)
		}
		switch key {
		case "remove_duplicates":
			c.RemoveDuplicates = b
		case "allow_empty_result":
			c.AllowEmptyResult = b
		default:
			c.ShowDiagnostics = b
		}
	case "missing_strategy":
		s, err := cleaning.ParseStrategy(val)
		if err != nil {
			return err
		}
		c.MissingStrategy = s.String()
	case "export_name":
		if strings.TrimSpace(val) == "" {
			return errors.New("export_name cannot be empty")
		}
		c.ExportName = val
	case "delimiter":
		prev := c.Delimiter
		c.Delimiter = val
		if _, err := c.Comma(); err != nil {
			c.Delimiter = prev
			return err
		}
	case "sessions_dir":
		c.SessionsDir = val
	case "batch_workers":
		i, err := cast.ToIntE(val)
		if err != nil || i < 1 {
			return fmt.Errorf("invalid int for batch_workers: %q (must be >= 1)", val)
		}
		c.BatchWorkers = i
	case "log_level":
		switch strings.ToLower(val) {
		case "debug", "info", "warn", "error":
			c.LogLevel = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid log_level: %s (use debug, info, warn or error)", val)
		}
	case "log_format":
		switch strings.ToLower(val) {
		case "text", "json":
			c.LogFormat = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid log_format: %s (use text or json)", val)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return nil
}

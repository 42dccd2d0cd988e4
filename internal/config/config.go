// Package config loads the CLI configuration from defaults, an optional
// config file, environment variables and command-line flags, in increasing
// order of precedence.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Vocab  VocabConfig  `mapstructure:"vocab"`
	Output OutputConfig `mapstructure:"output"`
	Log    LogConfig    `mapstructure:"log"`
}

type VocabConfig struct {
	Path string `mapstructure:"path"`
}

type OutputConfig struct {
	Format string `mapstructure:"format"`
	IDType string `mapstructure:"id_type"`
	Words  bool   `mapstructure:"words"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type LoadOptions struct {
	Cmd        flagBinder
	ConfigFile string
	Defaults   Config
}

type flagBinder interface {
	Flags() *pflag.FlagSet
}

func DefaultConfig() Config {
	return Config{
		Vocab: VocabConfig{
			Path: "vocab.txt",
		},
		Output: OutputConfig{
			Format: "ids",
			IDType: "i64",
			Words:  false,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func RegisterFlags(fs *pflag.FlagSet, defaults Config) {
	fs.String("vocab-path", defaults.Vocab.Path, "Path to newline-separated vocabulary file")
	fs.String("output-format", defaults.Output.Format, "Output format: ids or json")
	fs.String("output-id-type", defaults.Output.IDType, "Numeric id representation: u64, i64, i32 or f64")
	fs.Bool("output-words", defaults.Output.Words, "Include per-word token index ranges")
	fs.String("log-level", defaults.Log.Level, "Log level: debug, info, warn or error")
}

func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	setDefaults(v, opts.Defaults)
	if opts.Cmd != nil {
		if err := v.BindPFlags(opts.Cmd.Flags()); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}
	registerAliases(v)

	v.SetEnvPrefix("WORDPIECE")
	replacer := strings.NewReplacer("-", "_", ".", "_", "__", "_")
	v.SetEnvKeyReplacer(replacer)
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("wordpiece")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	return cfg, nil
}

// ParseLogLevel maps a level name to its slog level.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("vocab.path", c.Vocab.Path)
	v.SetDefault("output.format", c.Output.Format)
	v.SetDefault("output.id_type", c.Output.IDType)
	v.SetDefault("output.words", c.Output.Words)
	v.SetDefault("log.level", c.Log.Level)
}

func registerAliases(v *viper.Viper) {
	v.RegisterAlias("vocab.path", "vocab-path")
	v.RegisterAlias("output.format", "output-format")
	v.RegisterAlias("output.id_type", "output-id-type")
	v.RegisterAlias("output.words", "output-words")
	v.RegisterAlias("log.level", "log-level")
}

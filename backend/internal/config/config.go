// Package config loads weedops settings from a config file, WEEDOPS_*
// environment variables and command line flags, in increasing precedence.
package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"

	"github.com/JustUsingaWebsite/weedops/backend/internal/csvops"
	"github.com/JustUsingaWebsite/weedops/backend/internal/logger"
	"github.com/JustUsingaWebsite/weedops/backend/internal/utils"
	"github.com/JustUsingaWebsite/weedops/backend/internal/weederr"
)

const EnvPrefix = "WEEDOPS"

type InputConfig struct {
	Separator  string `mapstructure:"separator"` // "" detects from the extension
	Sheet      string `mapstructure:"sheet"`
	TrimSpaces bool   `mapstructure:"trim_spaces"`
}

type OutputConfig struct {
	WithHeader bool   `mapstructure:"with_header"`
	Separator  string `mapstructure:"separator"`
	Sheet      string `mapstructure:"sheet"`
}

type Config struct {
	Log          logger.Config       `mapstructure:"log"`
	Input        InputConfig         `mapstructure:"input"`
	Output       OutputConfig        `mapstructure:"output"`
	Match        csvops.MatchOptions `mapstructure:"match"`
	OnParseError string              `mapstructure:"on_parse_error"`
	Coercion     string              `mapstructure:"coercion"`
	Pairing      string              `mapstructure:"pairing"`
	Color        bool                `mapstructure:"color"`
}

// Policies are the validated stage policies of a Config.
type Policies struct {
	Match        csvops.MatchOptions
	OnParseError csvops.ParseErrorPolicy
	Coercion     csvops.CoercionPolicy
	Pairing      csvops.Pairing
}

// New returns a viper instance with defaults and environment binding set up.
// Nested keys map to variables like WEEDOPS_LOG_LEVEL.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	def := logger.DefaultConfig()
	v.SetDefault("log.level", def.Level)
	v.SetDefault("log.encoding", def.Encoding)
	v.SetDefault("log.development", def.Development)
	v.SetDefault("log.output_paths", def.OutputPaths)
	v.SetDefault("input.separator", "")
	v.SetDefault("input.sheet", "")
	v.SetDefault("input.trim_spaces", false)
	v.SetDefault("output.with_header", true)
	v.SetDefault("output.separator", "")
	v.SetDefault("output.sheet", "")
	v.SetDefault("match.mode", string(csvops.MatchRegex))
	v.SetDefault("match.case_insensitive", false)
	v.SetDefault("on_parse_error", string(csvops.SkipCell))
	v.SetDefault("coercion", string(csvops.Permissive))
	v.SetDefault("pairing", string(csvops.Cartesian))
	v.SetDefault("color", false)
	return v
}

// Load reads file when given, otherwise looks for weedops.yaml in the working
// directory and $HOME/.config/weedops. A missing default file is not an error.
func Load(v *viper.Viper, file string) (Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("weedops")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/weedops")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, weederr.Wrap(err, weederr.KindConfig, "failed to read config")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, weederr.Wrap(err, weederr.KindConfig, "failed to decode config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if _, err := c.Policies(); err != nil {
		return err
	}
	for _, sep := range []string{c.Input.Separator, c.Output.Separator} {
		if sep == "" {
			continue
		}
		if _, err := utils.Separator(sep); err != nil {
			return weederr.Config("separator", sep, err.Error())
		}
	}
	return nil
}

func (c Config) Policies() (Policies, error) {
	mode, err := csvops.ParseMatchMode(string(c.Match.Mode))
	if err != nil {
		return Policies{}, err
	}
	onParse, err := csvops.ParseParseErrorPolicy(c.OnParseError)
	if err != nil {
		return Policies{}, err
	}
	coercion, err := csvops.ParseCoercionPolicy(c.Coercion)
	if err != nil {
		return Policies{}, err
	}
	pairing, err := csvops.ParsePairing(c.Pairing)
	if err != nil {
		return Policies{}, err
	}
	return Policies{
		Match:        csvops.MatchOptions{Mode: mode, CaseInsensitive: c.Match.CaseInsensitive},
		OnParseError: onParse,
		Coercion:     coercion,
		Pairing:      pairing,
	}, nil
}

// InputSeparator returns the configured input separator, or 0 to let the
// storage layer pick one from the file extension.
func (c Config) InputSeparator() rune { return separator(c.Input.Separator) }

func (c Config) OutputSeparator() rune { return separator(c.Output.Separator) }

// separator assumes Validate has passed
func separator(s string) rune {
	if s == "" {
		return 0
	}
	r, _ := utils.Separator(s)
	return r
}

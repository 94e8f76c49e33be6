package cli

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/spf13/cobra"
)

// Config holds the kvc settings. Values come from an optional YAML file, then the
// environment, then command-line flags, each layer overriding the previous one.
type Config struct {
	LogLevel     string `yaml:"log_level"     env:"KVC_LOG_LEVEL"     env-default:"info"  env-description:"Minimum log level (debug, info, warn, error)"`
	LogJSON      bool   `yaml:"log_json"      env:"KVC_LOG_JSON"      env-default:"false" env-description:"Write logs as JSON"`
	InputFormat  string `yaml:"input_format"  env:"KVC_INPUT_FORMAT"  env-default:"json"  env-description:"Input format (json, yaml, delimited)"`
	OutputFormat string `yaml:"output_format" env:"KVC_OUTPUT_FORMAT" env-default:"json"  env-description:"Output format (json, xml, yaml, table)"`
	Separator    string `yaml:"separator"     env:"KVC_SEPARATOR"     env-default:","     env-description:"Token separator for delimited input"`
	Charset      string `yaml:"charset"       env:"KVC_CHARSET"                           env-description:"Input charset label; detected when empty"`
	Normalize    bool   `yaml:"normalize"     env:"KVC_NORMALIZE"     env-default:"false" env-description:"Apply Unicode NFC normalization to the input"`
	MetricsFile  string `yaml:"metrics_file"  env:"KVC_METRICS_FILE"                      env-description:"Write Prometheus metrics to this file after each command"`
}

// LoadConfig reads the config file at path (when non-empty) and the environment.
func LoadConfig(path string) (Config, error) {
	var cfg Config

	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("error reading config %s: %w", path, err)
		}

		return cfg, nil
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("error reading environment: %w", err)
	}

	return cfg, nil
}

// applyFlags copies every flag the user set explicitly over the loaded config.
func applyFlags(cmd *cobra.Command, cfg *Config, flags *flagValues) {
	set := cmd.Flags().Changed

	if set("log-level") {
		cfg.LogLevel = flags.logLevel
	}

	if set("log-json") {
		cfg.LogJSON = flags.logJSON
	}

	if set("from") {
		cfg.InputFormat = flags.from
	}

	if set("to") {
		cfg.OutputFormat = flags.to
	}

	if set("separator") {
		cfg.Separator = flags.separator
	}

	if set("charset") {
		cfg.Charset = flags.charset
	}

	if set("normalize") {
		cfg.Normalize = flags.normalize
	}

	if set("metrics-file") {
		cfg.MetricsFile = flags.metricsFile
	}
}

// addEnvHelp appends the environment variable reference to the command's usage.
func addEnvHelp(cmd *cobra.Command) {
	envHelp, err := cleanenv.GetDescription(&Config{}, nil)
	if err != nil {
		return
	}

	cmd.SetUsageTemplate(cmd.UsageTemplate() + "\n" + envHelp + "\n")
}

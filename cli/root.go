// Package cli implements kvc, a command-line tool that loads ordered key-value
// documents into a kvcollection.Collection and converts, queries or fingerprints them.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/amp-labs/kvcollection/build"
	"github.com/amp-labs/kvcollection/hashing"
	"github.com/amp-labs/kvcollection/kvcollection"
	"github.com/amp-labs/kvcollection/kvmetrics"
	"github.com/amp-labs/kvcollection/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

const subsystemName = "kvc"

type flagValues struct {
	configPath  string
	logLevel    string
	logJSON     bool
	from        string
	to          string
	separator   string
	charset     string
	normalize   bool
	metricsFile string
}

type app struct {
	cfg       Config
	flags     flagValues
	picker    Picker
	buildInfo func() build.Info
}

// Option customizes the command tree built by NewRootCommand.
type Option func(*app)

// WithPicker replaces the interactive picker used by the pick command.
func WithPicker(picker Picker) Option {
	return func(a *app) {
		a.picker = picker
	}
}

// WithBuildInfo replaces the source of the metadata printed by the version command.
func WithBuildInfo(info func() build.Info) Option {
	return func(a *app) {
		a.buildInfo = info
	}
}

// NewRootCommand builds the kvc command tree.
func NewRootCommand(opts ...Option) *cobra.Command {
	a := &app{picker: PromptPicker, buildInfo: build.Current}

	for _, opt := range opts {
		opt(a)
	}

	root := &cobra.Command{
		Use:           "kvc",
		Short:         "Inspect and convert ordered key-value documents",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.writeMetrics(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.flags.configPath, "config", "c", "", "Path to a YAML configuration file")
	pf.StringVar(&a.flags.logLevel, "log-level", "info", "Minimum log level")
	pf.BoolVar(&a.flags.logJSON, "log-json", false, "Write logs as JSON")
	pf.StringVarP(&a.flags.from, "from", "f", "json", "Input format: json, yaml or delimited")
	pf.StringVarP(&a.flags.separator, "separator", "s", ",", "Separator for delimited input")
	pf.StringVar(&a.flags.charset, "charset", "", "Input charset label; detected when empty")
	pf.BoolVar(&a.flags.normalize, "normalize", false, "Apply Unicode NFC normalization to the input")
	pf.StringVar(&a.flags.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file after the command")

	root.AddCommand(
		a.convertCommand(),
		a.getCommand(),
		a.fingerprintCommand(),
		a.pickCommand(),
		a.versionCommand(),
	)

	addEnvHelp(root)

	return root
}

// setup loads the configuration and, unless the context already carries a logger,
// configures process-wide logging.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := LoadConfig(a.flags.configPath)
	if err != nil {
		return err
	}

	applyFlags(cmd, &cfg, &a.flags)
	a.cfg = cfg

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if !logger.HasLogger(ctx) {
		level, err := logger.ParseLevel(cfg.LogLevel)
		if err != nil {
			return err
		}

		logger.ConfigureLoggingWithOptions(logger.Options{
			Subsystem: subsystemName,
			JSON:      cfg.LogJSON,
			MinLevel:  level,
			Output:    os.Stderr,
		})
	}

	cmd.SetContext(logger.With(logger.WithSubsystem(ctx, subsystemName), "command", cmd.Name()))

	return nil
}

// load reads, decodes and parses the command's input.
func (a *app) load(cmd *cobra.Command, args []string) (*kvcollection.Collection[string, any], error) {
	ctx := cmd.Context()

	raw, err := readInput(ctx, cmd.InOrStdin(), args)
	if err != nil {
		return nil, err
	}

	data, used, err := toUTF8(raw, a.cfg.Charset)
	if err != nil {
		return nil, err
	}

	parsed, err := parseCollection(data, a.cfg)
	if err != nil {
		return nil, err
	}

	c := kvcollection.New[string, any](kvcollection.WithCapacity[any](parsed.Count()))
	kvmetrics.Instrument(c, cmd.Name()+":"+sourceName(args))

	for key, value := range parsed.All() {
		c.Add(key, value)
	}

	logger.Get(ctx).Debug("input loaded",
		"format", a.cfg.InputFormat,
		"charset", used,
		"bytes", len(raw),
		"entries", c.Count())

	return c, nil
}

// writeMetrics exports the default Prometheus registry in the text format
// read by node_exporter's textfile collector.
func (a *app) writeMetrics(cmd *cobra.Command) error {
	if a.cfg.MetricsFile == "" {
		return nil
	}

	if err := prometheus.WriteToTextfile(a.cfg.MetricsFile, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("error writing metrics: %w", err)
	}

	logger.Get(cmd.Context()).Debug("metrics written", "path", a.cfg.MetricsFile)

	return nil
}

func sourceName(args []string) string {
	if len(args) == 0 || args[0] == "-" {
		return "stdin"
	}

	return filepath.Base(args[0])
}

func (a *app) convertCommand() *cobra.Command {
	var (
		sortBy  string
		natural bool
	)

	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Convert a document to json, xml, yaml or a table",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.load(cmd, args)
			if err != nil {
				return err
			}

			if err := applySort(c, sortBy, natural); err != nil {
				return err
			}

			logger.Get(cmd.Context()).Info("converting",
				"from", a.cfg.InputFormat,
				"to", a.cfg.OutputFormat,
				"entries", c.Count())

			return render(cmd.OutOrStdout(), c, a.cfg.OutputFormat)
		},
	}

	cmd.Flags().StringVarP(&a.flags.to, "to", "t", "json", "Output format: json, xml, yaml or table")
	cmd.Flags().StringVar(&sortBy, "sort", "none", "Sort entries by key or value")
	cmd.Flags().BoolVar(&natural, "natural", false, "Compare strings in natural order when sorting")

	return cmd
}

func (a *app) getCommand() *cobra.Command {
	var (
		key   string
		index int
	)

	cmd := &cobra.Command{
		Use:   "get [file]",
		Short: "Print the value stored under a key or at a position",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.load(cmd, args)
			if err != nil {
				return err
			}

			var value any
			if cmd.Flags().Changed("key") {
				value, err = c.Get(key)
			} else {
				value, err = c.GetAt(index)
			}

			if err != nil {
				return err
			}

			out, err := formatValue(value)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)

			return err
		},
	}

	cmd.Flags().StringVarP(&key, "key", "k", "", "Key to look up (first match)")
	cmd.Flags().IntVarP(&index, "index", "i", 0, "Zero-based position to read")
	cmd.MarkFlagsMutuallyExclusive("key", "index")
	cmd.MarkFlagsOneRequired("key", "index")

	return cmd
}

func (a *app) fingerprintCommand() *cobra.Command {
	var algorithm string

	cmd := &cobra.Command{
		Use:   "fingerprint [file]",
		Short: "Print a hash of the ordered entries",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hashFn, err := hashing.Lookup(algorithm)
			if err != nil {
				return err
			}

			c, err := a.load(cmd, args)
			if err != nil {
				return err
			}

			sum, err := hashFn(c)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), sum)

			return err
		},
	}

	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", "xxh3",
		"Hash algorithm: "+strings.Join(hashing.Algorithms(), ", "))

	return cmd
}

func (a *app) pickCommand() *cobra.Command {
	var showKey bool

	cmd := &cobra.Command{
		Use:   "pick file",
		Short: "Choose an entry interactively and print its value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.load(cmd, args)
			if err != nil {
				return err
			}

			entry, err := pickEntry(c, a.picker, cmd.InOrStdin(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			out, err := formatValue(entry.Value)
			if err != nil {
				return err
			}

			if showKey {
				out = strconv.Quote(entry.Key) + "\t" + out
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)

			return err
		},
	}

	cmd.Flags().BoolVar(&showKey, "show-key", false, "Print the quoted key before the value")

	return cmd
}

// Package cmd wires configuration, candidate sources and the terminal UI
// into the suggestbox command line.
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"suggestbox/internal/config"
	"suggestbox/internal/logger"
)

// NewCLI builds the root command and its subcommands
func NewCLI() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "suggestbox",
		Short: "Terminal text fields with asynchronous suggestions",
		Long: "suggestbox runs a small form whose fields suggest words as you type.\n" +
			"Suggestions come from a built-in dictionary, your own TSV files, or a\n" +
			"completion server spawned as a child process.",
		Args: cobra.NoArgs,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Disable usage printing on errors
			cmd.SilenceUsage = true
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runUI(cmd.Context(), cfg)
		},
	}

	rootCmd.PersistentFlags().String("config", "", "Path to the config file (default $XDG_CONFIG_HOME/suggestbox/config.toml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringP("dictionary", "d", "", "Dictionary file or directory of .tsv files")

	flags := rootCmd.Flags()
	flags.String("source", "", "Where suggestions come from: index or ipc")
	flags.Int("debounce", 0, "Milliseconds to wait after the last keystroke")
	flags.Int("min-length", 0, "Characters needed before suggestions are fetched")
	flags.Int("latency", 0, "Artificial fetch latency in milliseconds")
	flags.Int("jitter", 0, "Random extra latency in milliseconds")
	flags.Bool("copy", false, "Copy accepted suggestions to the clipboard")
	flags.String("log-file", "", "File the interface logs to")

	cobra.EnableCommandSorting = false
	rootCmd.AddCommand(newServeCmd(), newConfigCmd())
	return rootCmd
}

func configService(cmd *cobra.Command) config.ConfigService {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return config.NewConfigServiceAt(path)
	}
	return config.NewConfigService()
}

// loadConfig reads the config file and applies flags the user set
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := configService(cmd).Load()
	if err != nil {
		return nil, err
	}
	if err := applyFlags(cmd.Flags(), cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFlags overrides cfg with every flag that was given explicitly
func applyFlags(flags *pflag.FlagSet, cfg *config.Config) error {
	var err error
	flags.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "log-level":
			cfg.Log.Level = f.Value.String()
		case "log-file":
			cfg.Log.File = f.Value.String()
		case "dictionary":
			cfg.Source.Dictionary = f.Value.String()
		case "source":
			cfg.Source.Kind = f.Value.String()
		case "debounce":
			cfg.Autocomplete.DebounceWaitMs, err = flags.GetInt(f.Name)
		case "min-length":
			cfg.Autocomplete.MinLength, err = flags.GetInt(f.Name)
		case "latency":
			cfg.Source.LatencyMs, err = flags.GetInt(f.Name)
		case "jitter":
			cfg.Source.JitterMs, err = flags.GetInt(f.Name)
		case "copy":
			cfg.UI.CopyOnSelect, err = flags.GetBool(f.Name)
		}
	})
	return err
}

// fileLogger opens the configured log file, falling back to no logging
func fileLogger(cfg *config.Config) (*log.Logger, func() error) {
	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	if cfg.Log.File == "" {
		return logger.Discard(), func() error { return nil }
	}
	l, closeFn, err := logger.OpenFile(cfg.Log.File, "suggestbox", level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v; logging disabled\n", err)
		return logger.Discard(), func() error { return nil }
	}
	return l, closeFn
}

// stderrLogger logs to standard error at the configured level
func stderrLogger(cfg *config.Config, prefix string) *log.Logger {
	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	return logger.New(os.Stderr, prefix, level)
}

func printConfig(w io.Writer, path string, cfg *config.Config) error {
	data, err := config.Encode(cfg)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "# %s\n", path)
	_, err = w.Write(data)
	return err
}

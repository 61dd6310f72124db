// Package cmd wires the countdown command line.
package cmd

import (
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"countdown_tui/internal"
	"countdown_tui/internal/config"
	"countdown_tui/internal/duration"
	"countdown_tui/internal/logging"
)

type rootOptions struct {
	configPath  string
	hours       string
	minutes     string
	seconds     string
	start       bool
	interval    time.Duration
	noAltScreen bool
	logFile     string
	debug       bool
}

var rootOpts rootOptions

var rootCmd = &cobra.Command{
	Use:   "countdown",
	Short: "A countdown timer for the terminal",
	Long: `countdown - set hours, minutes and seconds, then start, pause or reset
the countdown and watch it drain.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTimer(cmd, &rootOpts)
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&rootOpts.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/countdown/config.yaml)")

	f = rootCmd.Flags()
	f.StringVar(&rootOpts.hours, "hours", "", "prefill hours")
	f.StringVar(&rootOpts.minutes, "minutes", "", "prefill minutes (0-59)")
	f.StringVar(&rootOpts.seconds, "seconds", "", "prefill seconds (0-59)")
	f.BoolVar(&rootOpts.start, "start", false, "start counting down immediately")
	f.DurationVar(&rootOpts.interval, "interval", 0, "readout update interval (default from config, 1s)")
	f.BoolVar(&rootOpts.noAltScreen, "no-alt-screen", false, "disable the alternate screen buffer")
	f.StringVar(&rootOpts.logFile, "log-file", "", "write JSON logs to this file")
	f.BoolVar(&rootOpts.debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(configCmd)
}

func loadConfig(path string) (*config.Config, string, error) {
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, "", err
		}
		path = p
	}
	cfg, err := config.LoadFromFile(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// applyFlags layers explicitly set flags over the loaded config.
func applyFlags(cmd *cobra.Command, cfg *config.Config, opts *rootOptions) {
	flags := cmd.Flags()
	if flags.Changed("hours") {
		cfg.Timer.Hours = duration.NormalizeHours(opts.hours)
	}
	if flags.Changed("minutes") {
		cfg.Timer.Minutes = duration.NormalizeMinuteOrSecond(opts.minutes)
	}
	if flags.Changed("seconds") {
		cfg.Timer.Seconds = duration.NormalizeMinuteOrSecond(opts.seconds)
	}
	if flags.Changed("interval") && opts.interval > 0 {
		cfg.Timer.Interval = opts.interval
	}
	if opts.noAltScreen {
		cfg.UI.AltScreen = false
	}
	if opts.logFile != "" {
		cfg.Log.File = opts.logFile
	}
}

// loggerConfig maps the log settings and the --debug flag onto the logger.
func loggerConfig(cfg *config.Config, opts *rootOptions, out io.Writer) logging.Config {
	return logging.Config{
		Output: out,
		Level:  logging.ParseLevel(cfg.Log.Level),
		Debug:  opts.debug,
	}
}

func runTimer(cmd *cobra.Command, opts *rootOptions) error {
	cfg, path, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg, opts)

	out, closeLog, err := logging.OpenFile(cfg.Log.File)
	if err != nil {
		return err
	}
	defer closeLog()
	logger := logging.New(loggerConfig(cfg, opts, out))
	logger.Info("countdown starting", "config", path, "interval", cfg.Timer.Interval)

	m, err := internal.NewModel(internal.Config{
		Interval:      cfg.Timer.Interval,
		Hours:         cfg.Timer.Hours,
		Minutes:       cfg.Timer.Minutes,
		Seconds:       cfg.Timer.Seconds,
		AutoStart:     opts.start,
		GradientStart: cfg.UI.GradientStart,
		GradientEnd:   cfg.UI.GradientEnd,
		HistoryLimit:  cfg.UI.HistoryLimit,
		Logger:        logger,
	})
	if err != nil {
		return err
	}
	defer m.Close()

	progOpts := []tea.ProgramOption{}
	if cfg.UI.AltScreen {
		progOpts = append(progOpts, tea.WithAltScreen())
	}
	p := tea.NewProgram(m, progOpts...)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	logger.Info("countdown exiting")
	return nil
}

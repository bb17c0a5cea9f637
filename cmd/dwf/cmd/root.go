package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceDWF/internal/config"
	"github.com/OpenTraceLab/OpenTraceDWF/internal/logging"
	"github.com/OpenTraceLab/OpenTraceDWF/pkg/capture"
	"github.com/OpenTraceLab/OpenTraceDWF/pkg/dwf"
)

// Version is the CLI version, overridden at link time.
var Version = "0.3.0"

var (
	// Global flags
	configFile string
	verbose    bool

	cfg *config.Config
	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "dwf",
	Short: "Control Digilent WaveForms instruments",
	Long: `Drive the oscilloscope, waveform generator, logic analyzer, pattern
generator and UART of Digilent WaveForms devices (Analog Discovery,
Digital Discovery, Electronics Explorer) through libdwf.

Settings come from flags, DWF_* environment variables and dwf.yaml in the
working directory or $HOME/.config/dwf.

Examples:
  dwf devices                                   # List attached devices
  dwf --backend sim scope capture --rate 1MHz   # Capture from the simulator
  dwf wavegen 0 --function sine --frequency 1kHz --amplitude 1V
  dwf run loopback.yaml --capture scope --save  # Apply a profile and capture`,
	Version:           Version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command. An interrupt cancels the running command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file (default: dwf.yaml in . or $HOME/.config/dwf)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	pf.String("backend", config.BackendNative, "instrument backend (native, sim)")
	pf.StringP("device", "d", "", "device index, serial number or user name")
	pf.String("log-level", "info", "log level (trace, debug, info, warn, error)")
	pf.String("store", config.DefaultStorePath(), "capture database path")
	pf.String("metrics-addr", "", "serve Prometheus metrics on this address while streaming")
	pf.Duration("poll-interval", 10*time.Millisecond, "instrument status poll interval")
}

// setup resolves configuration and logging before every command.
func setup(cmd *cobra.Command, args []string) error {
	v := config.New()
	pf := cmd.Root().PersistentFlags()
	for key, flag := range map[string]string{
		"backend":       "backend",
		"device":        "device",
		"log_level":     "log-level",
		"store":         "store",
		"metrics_addr":  "metrics-addr",
		"poll_interval": "poll-interval",
	} {
		if err := v.BindPFlag(key, pf.Lookup(flag)); err != nil {
			return err
		}
	}

	c, err := config.Load(v, configFile)
	if err != nil {
		return err
	}
	if verbose {
		c.LogLevel = "debug"
	}
	cfg = c

	log, err = logging.Setup(cfg.LogLevel)
	if err != nil {
		return err
	}
	log.Debug().Str("backend", cfg.Backend).Str("device", cfg.Device).Msg("configured")
	return nil
}

func newDriver() (dwf.Driver, error) {
	switch cfg.Backend {
	case config.BackendSim:
		return dwf.NewSimulator(), nil
	case config.BackendNative:
		return dwf.NewNativeDriver()
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

// openDevice opens the configured device. Callers must Close the handle.
func openDevice() (*dwf.Handle, error) {
	drv, err := newDriver()
	if err != nil {
		return nil, err
	}
	devs, err := dwf.Enumerate(drv, dwf.EnumFilterAll)
	if err != nil {
		return nil, err
	}
	dev, err := dwf.FindDevice(devs, cfg.Device)
	if err != nil {
		return nil, err
	}
	h, err := dev.Open(
		dwf.WithLogger(logging.Component(log, "dwf")),
		dwf.WithPollInterval(cfg.PollInterval),
	)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dev, err)
	}
	log.Debug().Str("device", dev.String()).Msg("device opened")
	return h, nil
}

func openStore(ctx context.Context) (*capture.Store, error) {
	return capture.Open(ctx, cfg.Store)
}

// commandContext ends when timeout elapses, or never when timeout is zero.
func commandContext(cmd *cobra.Command, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = log.WithContext(ctx)
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

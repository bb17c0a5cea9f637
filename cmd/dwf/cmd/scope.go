package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceDWF/pkg/capture"
	"github.com/OpenTraceLab/OpenTraceDWF/pkg/dwf"
	"github.com/OpenTraceLab/OpenTraceDWF/pkg/units"
)

var (
	scopeRate     string
	scopeBuffer   int
	scopeRange    string
	scopeOffset   string
	scopeChannels string
	scopeTrigger  string
	scopeLevel    string
	scopeSlope    string
	scopeTimeout  time.Duration
	scopeRecord   string
	scopeSave     bool
	scopeLabel    string
	scopeCSV      string
)

var scopeCmd = &cobra.Command{
	Use:   "scope",
	Short: "Acquire analog signals with the oscilloscope",
}

var scopeCaptureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Acquire one buffer",
	Long: `Acquire one buffer from the enabled oscilloscope channels and print a
per-channel summary.

Examples:
  dwf scope capture --rate 1MHz --buffer 8192
  dwf scope capture --channels 0 --trigger detector-analog-in --level 0.5V --save
  dwf scope capture --csv out.csv`,
	Args: cobra.NoArgs,
	RunE: runScopeCapture,
}

var scopeStreamCmd = &cobra.Command{
	Use:   "stream",
	Short: "Record continuously for a fixed length",
	Long: `Record samples continuously in record mode, reporting lost and
corrupted samples. Counters are served on --metrics-addr when set.

Examples:
  dwf scope stream --rate 100kHz --record 10s --save`,
	Args: cobra.NoArgs,
	RunE: runScopeStream,
}

func init() {
	rootCmd.AddCommand(scopeCmd)
	scopeCmd.AddCommand(scopeCaptureCmd, scopeStreamCmd)

	for _, c := range []*cobra.Command{scopeCaptureCmd, scopeStreamCmd} {
		f := c.Flags()
		f.StringVar(&scopeRate, "rate", "", "sample rate, e.g. 1MHz (default: device default)")
		f.IntVar(&scopeBuffer, "buffer", 0, "samples per buffer (default: device default)")
		f.StringVar(&scopeRange, "range", "", "input range of the selected channels, e.g. 5V")
		f.StringVar(&scopeOffset, "offset", "", "input offset of the selected channels, e.g. 0V")
		f.StringVar(&scopeChannels, "channels", "", "comma-separated channel indexes to enable (default: all)")
		f.BoolVar(&scopeSave, "save", false, "save the capture to the store")
		f.StringVar(&scopeLabel, "label", "", "label stored with a saved capture")
		f.StringVar(&scopeCSV, "csv", "", "write the samples to this CSV file")
	}
	f := scopeCaptureCmd.Flags()
	f.StringVar(&scopeTrigger, "trigger", "", "trigger source, e.g. pc, detector-analog-in")
	f.StringVar(&scopeLevel, "level", "", "trigger level, e.g. 0.5V")
	f.StringVar(&scopeSlope, "slope", "", "trigger slope (rise, fall, either)")
	f.DurationVar(&scopeTimeout, "timeout", 10*time.Second, "give up waiting for the trigger after this long")
	scopeStreamCmd.Flags().StringVar(&scopeRecord, "record", "1s", "record length, 0 for until interrupted")
}

func parseChannels(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out []int
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid channel %q", part)
		}
		out = append(out, n)
	}
	return out, nil
}

func configureScope(scope *dwf.Oscilloscope) error {
	if scopeRate != "" {
		f, err := units.ParseFrequency(scopeRate)
		if err != nil {
			return err
		}
		if err := scope.SetSampleFrequency(f); err != nil {
			return err
		}
	}
	if scopeBuffer > 0 {
		if err := scope.SetBufferSize(scopeBuffer); err != nil {
			return err
		}
	}

	selected, err := parseChannels(scopeChannels)
	if err != nil {
		return err
	}
	chans, err := scope.Channels()
	if err != nil {
		return err
	}
	for _, ch := range chans {
		on := selected == nil
		for _, n := range selected {
			on = on || n == ch.Index()
		}
		if !on {
			if err := ch.Disable(); err != nil {
				return err
			}
			continue
		}
		if err := ch.Enable(); err != nil {
			return err
		}
		if scopeRange != "" {
			v, err := units.ParseVoltage(scopeRange)
			if err != nil {
				return err
			}
			if err := ch.SetRange(v); err != nil {
				return err
			}
		}
		if scopeOffset != "" {
			v, err := units.ParseVoltage(scopeOffset)
			if err != nil {
				return err
			}
			if err := ch.SetOffset(v); err != nil {
				return err
			}
		}
	}
	return nil
}

func configureScopeTrigger(scope *dwf.Oscilloscope) error {
	if scopeTrigger != "" {
		src, err := dwf.ParseTriggerSource(scopeTrigger)
		if err != nil {
			return err
		}
		if err := scope.SetTriggerSource(src); err != nil {
			return err
		}
	}
	if scopeLevel != "" {
		v, err := units.ParseVoltage(scopeLevel)
		if err != nil {
			return err
		}
		if err := scope.SetTriggerLevel(v); err != nil {
			return err
		}
	}
	if scopeSlope != "" {
		s, err := dwf.ParseTriggerSlope(scopeSlope)
		if err != nil {
			return err
		}
		if err := scope.SetTriggerSlope(s); err != nil {
			return err
		}
	}
	return nil
}

func printScopeSummary(c *dwf.Capture) {
	fmt.Printf("Captured %d samples at %s (%s)\n", c.Len(), c.Rate, c.Duration())
	for _, ch := range c.Channels {
		if len(ch.Samples) == 0 {
			continue
		}
		lo, hi := ch.Samples[0], ch.Samples[0]
		var sum float64
		for _, v := range ch.Samples {
			lo, hi = min(lo, v), max(hi, v)
			sum += v.Volts()
		}
		mean := units.Volts(sum / float64(len(ch.Samples)))
		fmt.Printf("  Channel %d: min %s  max %s  mean %s\n", ch.Index, lo, hi, mean)
	}
}

// finishRecord writes the CSV and saves the record when requested.
func finishRecord(ctx context.Context, rec *capture.Record, csvPath string, save bool) error {
	if csvPath != "" {
		f, err := os.Create(csvPath)
		if err != nil {
			return err
		}
		if err := capture.WriteCSV(f, rec); err != nil {
			f.Close()
			return fmt.Errorf("write csv: %w", err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", csvPath)
	}
	if save {
		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Save(ctx, rec); err != nil {
			return err
		}
		fmt.Printf("Saved capture %s\n", rec.ID)
	}
	return nil
}

func runScopeCapture(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd, scopeTimeout)
	defer cancel()

	h, err := openDevice()
	if err != nil {
		return err
	}
	defer h.Close()

	scope := h.Oscilloscope()
	if err := configureScope(scope); err != nil {
		return fmt.Errorf("configure scope: %w", err)
	}
	if err := configureScopeTrigger(scope); err != nil {
		return fmt.Errorf("configure trigger: %w", err)
	}

	c, err := scope.Acquire(ctx)
	if err != nil {
		return err
	}
	printScopeSummary(c)
	return finishRecord(ctx, capture.NewScopeRecord(h.Device().String(), scopeLabel, c), scopeCSV, scopeSave)
}

func runScopeStream(cmd *cobra.Command, args []string) error {
	record, err := units.ParseTime(scopeRecord)
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd, 0)
	defer cancel()

	h, err := openDevice()
	if err != nil {
		return err
	}
	defer h.Close()

	scope := h.Oscilloscope()
	if err := configureScope(scope); err != nil {
		return fmt.Errorf("configure scope: %w", err)
	}
	if err := scope.SetRecordLength(record); err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	metrics := capture.NewStreamMetrics(reg)
	if cfg.MetricsAddr != "" {
		srv := &http.Server{Addr: cfg.MetricsAddr, Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{})}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("metrics server failed")
			}
		}()
		defer srv.Close()
		log.Info().Str("addr", cfg.MetricsAddr).Msg("serving metrics")
	}

	var (
		all             dwf.Capture
		lost, corrupted int
		keep            = scopeSave || scopeCSV != ""
	)
	all.Time = time.Now()
	err = scope.Stream(ctx, func(c dwf.Chunk) error {
		metrics.Observe(c)
		lost += c.Lost
		corrupted += c.Corrupted
		if keep {
			capture.AppendChunk(&all, c)
		}
		if verbose && len(c.Channels) > 0 {
			fmt.Printf("chunk %d: %d samples\n", c.Seq, len(c.Channels[0].Samples))
		}
		return nil
	})
	interrupted := ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded))
	if err != nil && !interrupted {
		return err
	}
	if interrupted {
		fmt.Println("Interrupted, stream stopped.")
	}

	total := 0
	if len(all.Channels) > 0 {
		total = all.Len()
	}
	fmt.Printf("Stream finished: lost %d, corrupted %d\n", lost, corrupted)
	if !keep {
		return nil
	}
	if total == 0 {
		fmt.Println("No samples recorded.")
		return nil
	}
	fmt.Printf("Recorded %d samples at %s\n", total, all.Rate)
	// the command context may already be canceled; saving must still run
	return finishRecord(context.WithoutCancel(ctx), capture.NewScopeRecord(h.Device().String(), scopeLabel, &all), scopeCSV, scopeSave)
}

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceDWF/pkg/capture"
	"github.com/OpenTraceLab/OpenTraceDWF/pkg/dwf"
	"github.com/OpenTraceLab/OpenTraceDWF/pkg/units"
)

var (
	logicRate    string
	logicBuffer  int
	logicTrigger string
	logicLines   int
	logicTimeout time.Duration
	logicSave    bool
	logicLabel   string
	logicCSV     string
)

var logicCmd = &cobra.Command{
	Use:   "logic",
	Short: "Sample DIO lines with the logic analyzer",
}

var logicCaptureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Acquire one buffer of DIO samples",
	Long: `Acquire one buffer from the logic analyzer and print the edge count and
duty cycle of each line.

Examples:
  dwf logic capture --rate 10MHz --buffer 4096
  dwf logic capture --lines 4 --csv dio.csv --save`,
	Args: cobra.NoArgs,
	RunE: runLogicCapture,
}

func init() {
	rootCmd.AddCommand(logicCmd)
	logicCmd.AddCommand(logicCaptureCmd)

	f := logicCaptureCmd.Flags()
	f.StringVar(&logicRate, "rate", "", "sample rate, e.g. 10MHz (default: device default)")
	f.IntVar(&logicBuffer, "buffer", 0, "samples per buffer (default: device default)")
	f.StringVar(&logicTrigger, "trigger", "", "trigger source, e.g. pc, detector-digital-in")
	f.IntVar(&logicLines, "lines", 0, "number of DIO lines to report and store (default: all)")
	f.DurationVar(&logicTimeout, "timeout", 10*time.Second, "give up waiting for the trigger after this long")
	f.BoolVar(&logicSave, "save", false, "save the capture to the store")
	f.StringVar(&logicLabel, "label", "", "label stored with a saved capture")
	f.StringVar(&logicCSV, "csv", "", "write the samples to this CSV file")
}

func configureLogic(la *dwf.LogicAnalyzer) error {
	if logicRate != "" {
		f, err := units.ParseFrequency(logicRate)
		if err != nil {
			return err
		}
		if err := la.SetSampleFrequency(f); err != nil {
			return err
		}
	}
	if logicBuffer > 0 {
		if err := la.SetBufferSize(logicBuffer); err != nil {
			return err
		}
	}
	if logicTrigger != "" {
		src, err := dwf.ParseTriggerSource(logicTrigger)
		if err != nil {
			return err
		}
		if err := la.SetTriggerSource(src); err != nil {
			return err
		}
	}
	return nil
}

func printLogicSummary(c *dwf.LogicCapture, lines int) {
	fmt.Printf("Captured %d samples at %s\n", len(c.Samples), c.Rate)
	if len(c.Samples) == 0 {
		return
	}
	for n := range lines {
		levels := c.Line(n)
		edges, high := 0, 0
		for i, v := range levels {
			if v {
				high++
			}
			if i > 0 && v != levels[i-1] {
				edges++
			}
		}
		fmt.Printf("  DIO %d: %d edges, high %.0f%%\n", n, edges, 100*float64(high)/float64(len(levels)))
	}
}

func runLogicCapture(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd, logicTimeout)
	defer cancel()

	h, err := openDevice()
	if err != nil {
		return err
	}
	defer h.Close()

	la := h.LogicAnalyzer()
	if err := configureLogic(la); err != nil {
		return fmt.Errorf("configure logic analyzer: %w", err)
	}
	width, err := la.BitWidth()
	if err != nil {
		return err
	}
	lines := width
	if logicLines > 0 {
		lines = min(logicLines, width)
	}

	c, err := la.Acquire(ctx)
	if err != nil {
		return err
	}
	printLogicSummary(c, lines)
	return finishRecord(ctx, capture.NewLogicRecord(h.Device().String(), logicLabel, c, lines), logicCSV, logicSave)
}

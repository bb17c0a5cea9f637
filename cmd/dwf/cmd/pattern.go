package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceDWF/pkg/dwf"
	"github.com/OpenTraceLab/OpenTraceDWF/pkg/profile"
	"github.com/OpenTraceLab/OpenTraceDWF/pkg/units"
)

var (
	patternClock   string
	patternBits    string
	patternDivider uint32
	patternIdle    string
	patternHold    time.Duration
)

var patternCmd = &cobra.Command{
	Use:   "pattern <pin>",
	Short: "Drive a DIO pin from the pattern generator",
	Long: `Output a clock or a repeating custom bit sequence on one DIO pin.
Exactly one of --clock and --bits is required. With --bits each bit lasts
--divider internal clock ticks.

Examples:
  dwf pattern 0 --clock 1MHz
  dwf pattern 3 --bits 1011_0000 --divider 100 --idle low --hold 2s`,
	Args: cobra.ExactArgs(1),
	RunE: runPattern,
}

func init() {
	rootCmd.AddCommand(patternCmd)
	f := patternCmd.Flags()
	f.StringVar(&patternClock, "clock", "", "square wave frequency, e.g. 1MHz")
	f.StringVar(&patternBits, "bits", "", "custom bit sequence, e.g. 1011_0000")
	f.Uint32Var(&patternDivider, "divider", 1, "internal clock divider for --bits")
	f.StringVar(&patternIdle, "idle", "", "level while stopped (init, low, high, tristate)")
	f.DurationVar(&patternHold, "hold", 0, "keep the output running this long (0 waits for an interrupt)")
}

func runPattern(cmd *cobra.Command, args []string) error {
	pin, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid pin %q", args[0])
	}
	if (patternClock == "") == (patternBits == "") {
		return fmt.Errorf("exactly one of --clock and --bits is required")
	}

	h, err := openDevice()
	if err != nil {
		return err
	}
	defer h.Close()

	gen := h.PatternGenerator()
	if err := gen.Reset(); err != nil {
		return err
	}
	ch := gen.Channel(pin)
	if patternIdle != "" {
		idle, err := dwf.ParseIdle(patternIdle)
		if err != nil {
			return err
		}
		if err := ch.SetIdle(idle); err != nil {
			return fmt.Errorf("pin %d: %w", pin, err)
		}
	}

	if patternClock != "" {
		f, err := units.ParseFrequency(patternClock)
		if err != nil {
			return err
		}
		if err := ch.SetClock(f); err != nil {
			return fmt.Errorf("pin %d: %w", pin, err)
		}
		fmt.Printf("Pin %d: clock %s\n", pin, f)
	} else {
		bits, err := profile.ParseBits(patternBits)
		if err != nil {
			return err
		}
		if len(bits) == 0 {
			return fmt.Errorf("--bits is empty")
		}
		steps := []func() error{
			ch.Enable,
			func() error { return ch.SetType(dwf.OutputTypeCustom) },
			func() error { return ch.SetDivider(patternDivider) },
			func() error { return ch.SetData(bits) },
		}
		for _, step := range steps {
			if err := step(); err != nil {
				return fmt.Errorf("pin %d: %w", pin, err)
			}
		}
		fmt.Printf("Pin %d: %d-bit pattern, divider %d\n", pin, len(bits), patternDivider)
	}

	if err := gen.Start(); err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd, patternHold)
	defer cancel()
	<-ctx.Done()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		fmt.Println("Output stopped.")
		return nil
	}
	fmt.Println("Interrupted, output stopped.")
	return nil
}

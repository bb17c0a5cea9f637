package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceDWF/pkg/dwf"
	"github.com/OpenTraceLab/OpenTraceDWF/pkg/units"
)

var (
	wavegenFunction  string
	wavegenFrequency string
	wavegenAmplitude string
	wavegenOffset    string
	wavegenSymmetry  float64
	wavegenPhase     float64
	wavegenHold      time.Duration
)

var wavegenCmd = &cobra.Command{
	Use:   "wavegen <channel>",
	Short: "Drive a waveform generator channel",
	Long: `Configure and start one waveform generator channel. The output runs
until --hold elapses or the command is interrupted, and stops when the
device is closed.

Examples:
  dwf wavegen 0 --function sine --frequency 1kHz --amplitude 1V
  dwf wavegen 1 --function square --frequency 10kHz --symmetry 25 --hold 5s
  dwf wavegen 0 --function dc --offset 1.5V`,
	Args: cobra.ExactArgs(1),
	RunE: runWavegen,
}

func init() {
	rootCmd.AddCommand(wavegenCmd)
	f := wavegenCmd.Flags()
	f.StringVarP(&wavegenFunction, "function", "f", "sine", "waveform (dc, sine, square, triangle, ramp-up, ramp-down, noise, trapezium, sine-power)")
	f.StringVar(&wavegenFrequency, "frequency", "1kHz", "frequency")
	f.StringVar(&wavegenAmplitude, "amplitude", "1V", "amplitude")
	f.StringVar(&wavegenOffset, "offset", "0V", "DC offset")
	f.Float64Var(&wavegenSymmetry, "symmetry", 50, "symmetry in percent")
	f.Float64Var(&wavegenPhase, "phase", 0, "phase in degrees")
	f.DurationVar(&wavegenHold, "hold", 0, "keep the output running this long (0 waits for an interrupt)")
}

func runWavegen(cmd *cobra.Command, args []string) error {
	index, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid channel %q", args[0])
	}
	fn, err := dwf.ParseFunction(wavegenFunction)
	if err != nil {
		return err
	}
	if fn == dwf.FunctionCustom {
		return fmt.Errorf("custom waveforms need sample data; use a profile with wavegen data")
	}
	freq, err := units.ParseFrequency(wavegenFrequency)
	if err != nil {
		return err
	}
	amp, err := units.ParseVoltage(wavegenAmplitude)
	if err != nil {
		return err
	}
	offset, err := units.ParseVoltage(wavegenOffset)
	if err != nil {
		return err
	}

	h, err := openDevice()
	if err != nil {
		return err
	}
	defer h.Close()

	chans, err := h.WaveformGenerator().Channels()
	if err != nil {
		return err
	}
	if index < 0 || index >= len(chans) {
		return fmt.Errorf("channel %d out of range, device has %d", index, len(chans))
	}
	ch := chans[index]
	carrier := ch.Carrier()
	steps := []func() error{
		carrier.Enable,
		func() error { return carrier.SetFunction(fn) },
		func() error { return carrier.SetFrequency(freq) },
		func() error { return carrier.SetAmplitude(amp) },
		func() error { return carrier.SetOffset(offset) },
		func() error { return carrier.SetSymmetry(wavegenSymmetry) },
		func() error { return carrier.SetPhase(wavegenPhase) },
		ch.Start,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return fmt.Errorf("channel %d: %w", index, err)
		}
	}

	// read back the values the device settled on
	gotFreq, err := carrier.Frequency()
	if err != nil {
		return err
	}
	gotAmp, err := carrier.Amplitude()
	if err != nil {
		return err
	}
	gotOffset, err := carrier.Offset()
	if err != nil {
		return err
	}
	fmt.Printf("Channel %d: %s %s amplitude %s offset %s\n", index, fn, gotFreq, gotAmp, gotOffset)

	ctx, cancel := commandContext(cmd, wavegenHold)
	defer cancel()
	<-ctx.Done()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		fmt.Println("Output stopped.")
		return nil
	}
	fmt.Println("Interrupted, output stopped.")
	return nil
}

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceDWF/pkg/capture"
	"github.com/OpenTraceLab/OpenTraceDWF/pkg/profile"
)

var (
	runCapture string
	runTimeout time.Duration
	runSave    bool
	runLabel   string
	runCSV     string
)

var runCmd = &cobra.Command{
	Use:   "run <profile.yaml>",
	Short: "Apply a bench profile and optionally capture",
	Long: `Load a YAML bench profile, configure the device from it and start its
generators. With --capture the oscilloscope or logic analyzer then
acquires one buffer using the profile's acquisition settings.

Examples:
  dwf run loopback.yaml
  dwf run loopback.yaml --capture scope --save --label "after fix"
  dwf run bus.yaml --capture logic --csv bus.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runProfile,
}

func init() {
	rootCmd.AddCommand(runCmd)
	f := runCmd.Flags()
	f.StringVar(&runCapture, "capture", "none", "instrument to acquire with after applying (none, scope, logic)")
	f.DurationVar(&runTimeout, "timeout", 10*time.Second, "give up waiting for the trigger after this long")
	f.BoolVar(&runSave, "save", false, "save the capture to the store")
	f.StringVar(&runLabel, "label", "", "label stored with a saved capture (default: profile name)")
	f.StringVar(&runCSV, "csv", "", "write the samples to this CSV file")
}

func runProfile(cmd *cobra.Command, args []string) error {
	switch runCapture {
	case "none", "scope", "logic":
	default:
		return fmt.Errorf("unknown --capture %q (want none, scope or logic)", runCapture)
	}

	p, err := profile.Load(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd, runTimeout)
	defer cancel()

	h, err := openDevice()
	if err != nil {
		return err
	}
	defer h.Close()

	if err := p.Apply(ctx, h); err != nil {
		return err
	}
	fmt.Printf("Applied profile %s to %s\n", p.Name, h.Device())

	label := runLabel
	if label == "" {
		label = p.Name
	}
	switch runCapture {
	case "scope":
		c, err := h.Oscilloscope().Acquire(ctx)
		if err != nil {
			return err
		}
		printScopeSummary(c)
		return finishRecord(ctx, capture.NewScopeRecord(h.Device().String(), label, c), runCSV, runSave)
	case "logic":
		la := h.LogicAnalyzer()
		lines, err := la.BitWidth()
		if err != nil {
			return err
		}
		c, err := la.Acquire(ctx)
		if err != nil {
			return err
		}
		printLogicSummary(c, lines)
		return finishRecord(ctx, capture.NewLogicRecord(h.Device().String(), label, c, lines), runCSV, runSave)
	}
	return nil
}

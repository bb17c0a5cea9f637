package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceDWF/pkg/dwf"
)

var triggerCmd = &cobra.Command{
	Use:   "trigger",
	Short: "Inspect and route the external trigger pins",
}

var triggerGetCmd = &cobra.Command{
	Use:   "get [pin]",
	Short: "Show the source routed to each trigger pin",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTriggerGet,
}

var triggerSetCmd = &cobra.Command{
	Use:   "set <pin> <source>",
	Short: "Route a trigger source to a pin",
	Long: `Route a trigger source to an external trigger pin.

Examples:
  dwf trigger set 0 pc
  dwf trigger set 1 analog-in`,
	Args: cobra.ExactArgs(2),
	RunE: runTriggerSet,
}

var triggerPCCmd = &cobra.Command{
	Use:   "pc",
	Short: "Generate a software (PC) trigger pulse",
	Args:  cobra.NoArgs,
	RunE:  runTriggerPC,
}

func init() {
	rootCmd.AddCommand(triggerCmd)
	triggerCmd.AddCommand(triggerGetCmd, triggerSetCmd, triggerPCCmd)
}

func runTriggerGet(cmd *cobra.Command, args []string) error {
	h, err := openDevice()
	if err != nil {
		return err
	}
	defer h.Close()

	sources, err := h.TriggerSources()
	if err != nil {
		return err
	}
	fmt.Printf("Supported sources: %s\n", sources)

	pins := []int{0, 1}
	if len(args) == 1 {
		pin, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid pin %q", args[0])
		}
		pins = []int{pin}
	}
	for _, pin := range pins {
		src, err := h.Trigger(pin)
		if err != nil {
			return fmt.Errorf("pin %d: %w", pin, err)
		}
		fmt.Printf("Pin %d: %s\n", pin, src)
	}
	return nil
}

func runTriggerSet(cmd *cobra.Command, args []string) error {
	pin, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid pin %q", args[0])
	}
	src, err := dwf.ParseTriggerSource(args[1])
	if err != nil {
		return err
	}

	h, err := openDevice()
	if err != nil {
		return err
	}
	defer h.Close()

	if err := h.SetTrigger(pin, src); err != nil {
		return fmt.Errorf("pin %d: %w", pin, err)
	}
	fmt.Printf("Pin %d: %s\n", pin, src)
	return nil
}

func runTriggerPC(cmd *cobra.Command, args []string) error {
	h, err := openDevice()
	if err != nil {
		return err
	}
	defer h.Close()

	if err := h.TriggerPC(); err != nil {
		return err
	}
	fmt.Println("Trigger pulse sent.")
	return nil
}

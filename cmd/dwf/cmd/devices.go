package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceDWF/pkg/dwf"
)

var devicesFilter string

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List WaveForms devices",
	Long: `Enumerate devices through the SDK and show their configurations.

Examples:
  dwf devices
  dwf devices --filter analog-discovery-2`,
	Args: cobra.NoArgs,
	RunE: runDevices,
}

func init() {
	rootCmd.AddCommand(devicesCmd)
	devicesCmd.Flags().StringVar(&devicesFilter, "filter", "all",
		"device family (all, electronics-explorer, analog-discovery, analog-discovery-2, digital-discovery)")
}

func runDevices(cmd *cobra.Command, args []string) error {
	filter, err := dwf.ParseEnumFilter(devicesFilter)
	if err != nil {
		return err
	}
	drv, err := newDriver()
	if err != nil {
		return err
	}
	devs, err := dwf.Enumerate(drv, filter)
	if err != nil {
		return err
	}

	if len(devs) == 0 {
		fmt.Println("No devices found.")
		return nil
	}

	fmt.Printf("Found %d device(s)\n\n", len(devs))
	for _, d := range devs {
		fmt.Printf("[%d] %s\n", d.Index, d.Name)
		fmt.Printf("    Type:      %s (revision %d)\n", d.Type, d.Revision)
		fmt.Printf("    Serial:    %s\n", d.SerialNumber)
		if d.UserName != "" {
			fmt.Printf("    User name: %s\n", d.UserName)
		}
		fmt.Printf("    Configurations:\n")
		for _, c := range d.Configs {
			fmt.Printf("      #%d  analog in %d x %d, out %d x %d   digital in %d x %d, out %d x %d\n",
				c.Index,
				c.Analog.InputChannels, c.Analog.InputBufferSize,
				c.Analog.OutputChannels, c.Analog.OutputBufferSize,
				c.Digital.InputChannels, c.Digital.InputBufferSize,
				c.Digital.OutputChannels, c.Digital.OutputBufferSize)
		}
	}
	return nil
}

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceDWF/pkg/dwf"
)

var usbCmd = &cobra.Command{
	Use:   "usb",
	Short: "List Digilent instruments on the USB bus",
	Long: `Scan the USB bus for Digilent instruments by vendor and product ID
without going through the WaveForms SDK. Use this to check cabling and
permissions when "dwf devices" finds nothing.`,
	Args: cobra.NoArgs,
	RunE: runUSB,
}

func init() {
	rootCmd.AddCommand(usbCmd)
}

func runUSB(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd, 5*time.Second)
	defer cancel()

	devs, err := dwf.DiscoverUSB(ctx)
	if err != nil {
		return fmt.Errorf("discover usb devices: %w", err)
	}

	if len(devs) == 0 {
		fmt.Println("No Digilent USB devices found.")
		return nil
	}

	fmt.Println("Detected USB devices:")
	for _, d := range devs {
		fmt.Printf("  - %s (VID:PID %04X:%04X, bus %d address %d)\n", d.Label(), d.VendorID, d.ProductID, d.Bus, d.Address)
	}
	return nil
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceDWF/pkg/dwf"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the CLI and WaveForms SDK versions",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, args []string) error {
	fmt.Printf("dwf %s\n", Version)

	drv, err := newDriver()
	if err != nil {
		fmt.Printf("WaveForms SDK: unavailable (%v)\n", err)
		return nil
	}
	v, err := dwf.Version(drv)
	if err != nil {
		return fmt.Errorf("query SDK version: %w", err)
	}
	fmt.Printf("WaveForms SDK: %s (%s backend)\n", v, cfg.Backend)
	return nil
}

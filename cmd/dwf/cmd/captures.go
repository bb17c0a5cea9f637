package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceDWF/pkg/capture"
)

var exportOutput string

var capturesCmd = &cobra.Command{
	Use:     "captures",
	Aliases: []string{"cap"},
	Short:   "Manage saved captures",
	Long: `List, inspect, export and delete captures saved with --save. IDs may be
abbreviated to any unique prefix.

Examples:
  dwf captures list
  dwf captures show 3f2a
  dwf captures export 3f2a -o capture.csv
  dwf captures rm 3f2a`,
}

var capturesListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List saved captures, newest first",
	Args:    cobra.NoArgs,
	RunE:    runCapturesList,
}

var capturesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a capture summary",
	Args:  cobra.ExactArgs(1),
	RunE:  runCapturesShow,
}

var capturesExportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Export a capture as CSV",
	Args:  cobra.ExactArgs(1),
	RunE:  runCapturesExport,
}

var capturesRmCmd = &cobra.Command{
	Use:     "rm <id>...",
	Aliases: []string{"delete"},
	Short:   "Delete captures",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runCapturesRm,
}

func init() {
	rootCmd.AddCommand(capturesCmd)
	capturesCmd.AddCommand(capturesListCmd, capturesShowCmd, capturesExportCmd, capturesRmCmd)
	capturesExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
}

func runCapturesList(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd, 0)
	defer cancel()
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	list, err := store.List(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("No saved captures.")
		return nil
	}
	fmt.Printf("%d capture(s):\n", len(list))
	for _, s := range list {
		fmt.Printf("  %s  %-5s  %s  %d x %d @ %s",
			s.ID.String()[:8], s.Kind, s.CreatedAt.Local().Format(time.DateTime), s.Channels, s.Samples, s.Rate)
		if s.Label != "" {
			fmt.Printf("  %q", s.Label)
		}
		fmt.Println()
	}
	return nil
}

func loadCapture(cmd *cobra.Command, ref string) (*capture.Record, error) {
	ctx, cancel := commandContext(cmd, 0)
	defer cancel()
	store, err := openStore(ctx)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	id, err := store.Lookup(ctx, ref)
	if err != nil {
		return nil, err
	}
	return store.Get(ctx, id)
}

func runCapturesShow(cmd *cobra.Command, args []string) error {
	rec, err := loadCapture(cmd, args[0])
	if err != nil {
		return err
	}
	fmt.Printf("ID:       %s\n", rec.ID)
	fmt.Printf("Kind:     %s\n", rec.Kind)
	fmt.Printf("Device:   %s\n", rec.Device)
	if rec.Label != "" {
		fmt.Printf("Label:    %s\n", rec.Label)
	}
	fmt.Printf("Created:  %s\n", rec.CreatedAt.Local().Format(time.DateTime))
	switch {
	case rec.Scope != nil:
		printScopeSummary(rec.Scope)
	case rec.Logic != nil:
		printLogicSummary(rec.Logic, rec.Lines)
	}
	return nil
}

func runCapturesExport(cmd *cobra.Command, args []string) error {
	rec, err := loadCapture(cmd, args[0])
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if exportOutput != "" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	if err := capture.WriteCSV(w, rec); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	if exportOutput != "" {
		fmt.Printf("Wrote %s\n", exportOutput)
	}
	return nil
}

func runCapturesRm(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd, 0)
	defer cancel()
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	for _, ref := range args {
		id, err := store.Lookup(ctx, ref)
		if err != nil {
			return err
		}
		if err := store.Delete(ctx, id); err != nil {
			return err
		}
		fmt.Printf("Deleted %s\n", id)
	}
	return nil
}

package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceDWF/pkg/capture"
	"github.com/OpenTraceLab/OpenTraceDWF/pkg/dwf"
	"github.com/OpenTraceLab/OpenTraceDWF/pkg/units"
)

// resetCommands puts every flag back to its default and hands ctx to every
// command, so neither flag values nor an earlier context leak between runs
// of the shared root command.
func resetCommands(c *cobra.Command, ctx context.Context) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	c.SetContext(ctx)
	for _, sub := range c.Commands() {
		resetCommands(sub, ctx)
	}
}

// runCLI executes the root command against the simulator and returns what
// it printed to stdout.
func runCLI(t *testing.T, store string, args ...string) (string, error) {
	t.Helper()
	return runCLIContext(t, context.Background(), store, args...)
}

func runCLIContext(t *testing.T, ctx context.Context, store string, args ...string) (string, error) {
	t.Helper()

	// Capture stdout
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	// Read in background to prevent pipe buffer from blocking
	var buf bytes.Buffer
	done := make(chan struct{})
	go func() {
		buf.ReadFrom(r)
		close(done)
	}()

	resetCommands(rootCmd, ctx)
	configFile = ""
	rootCmd.SetArgs(append([]string{"--backend", "sim", "--store", store}, args...))
	err := rootCmd.ExecuteContext(ctx)

	w.Close()
	os.Stdout = old
	<-done
	return buf.String(), err
}

type cliCase struct {
	name        string
	args        []string
	wantErr     bool
	wantContain []string
}

func runCases(t *testing.T, store string, tests []cliCase) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := runCLI(t, store, tt.args...)

			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error but got none\nOutput: %s", output)
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error: %v\nOutput: %s", err, output)
				return
			}
			for _, want := range tt.wantContain {
				if !strings.Contains(output, want) {
					t.Errorf("Output missing expected string: %q\nGot:\n%s", want, output)
				}
			}
		})
	}
}

func testEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return filepath.Join(home, "captures.db")
}

// TestDeviceE2E tests the device level commands end-to-end
func TestDeviceE2E(t *testing.T) {
	store := testEnv(t)
	runCases(t, store, []cliCase{
		{
			name:        "version",
			args:        []string{"version"},
			wantContain: []string{"dwf " + Version, "WaveForms SDK: 3.21.3 (sim backend)"},
		},
		{
			name: "devices",
			args: []string{"devices"},
			wantContain: []string{
				"Found 1 device(s)",
				"[0] Analog Discovery 2",
				"SN:210321A1B2C3",
				"#1",
			},
		},
		{
			name:    "devices bad filter",
			args:    []string{"devices", "--filter", "toaster"},
			wantErr: true,
		},
		{
			name:    "unknown device",
			args:    []string{"--device", "nope", "trigger", "get"},
			wantErr: true,
		},
		{
			name:        "trigger get",
			args:        []string{"trigger", "get"},
			wantContain: []string{"Supported sources:", "pc", "Pin 0: none", "Pin 1: none"},
		},
		{
			name:        "trigger set",
			args:        []string{"trigger", "set", "1", "pc"},
			wantContain: []string{"Pin 1: pc"},
		},
		{
			name:    "trigger set bad source",
			args:    []string{"trigger", "set", "0", "lightning"},
			wantErr: true,
		},
		{
			name:        "trigger pc",
			args:        []string{"trigger", "pc"},
			wantContain: []string{"Trigger pulse sent."},
		},
		{
			name:    "unknown backend",
			args:    []string{"--backend", "bogus", "version"},
			wantErr: true,
		},
	})
}

// TestInstrumentE2E tests the instrument commands end-to-end
func TestInstrumentE2E(t *testing.T) {
	store := testEnv(t)
	csvPath := filepath.Join(t.TempDir(), "scope.csv")

	runCases(t, store, []cliCase{
		{
			name:        "scope capture",
			args:        []string{"scope", "capture", "--rate", "1MHz", "--buffer", "1000", "--channels", "0", "--csv", csvPath},
			wantContain: []string{"Captured 1000 samples at 1 MHz", "Channel 0:", "Wrote " + csvPath},
		},
		{
			name:    "scope capture bad channels",
			args:    []string{"scope", "capture", "--channels", "zero"},
			wantErr: true,
		},
		{
			name:    "scope capture trigger timeout",
			args:    []string{"scope", "capture", "--trigger", "pc", "--timeout", "50ms"},
			wantErr: true,
		},
		{
			name:        "scope stream",
			args:        []string{"scope", "stream", "--rate", "1kHz", "--record", "50ms", "--buffer", "16", "--save"},
			wantContain: []string{"Stream finished: lost 0, corrupted 0", "Recorded 50 samples", "Saved capture"},
		},
		{
			name:        "wavegen",
			args:        []string{"wavegen", "0", "--function", "square", "--frequency", "10kHz", "--hold", "10ms"},
			wantContain: []string{"Channel 0: square 10 kHz", "Output stopped."},
		},
		{
			name:    "wavegen bad channel",
			args:    []string{"wavegen", "5", "--hold", "10ms"},
			wantErr: true,
		},
		{
			name:    "wavegen custom",
			args:    []string{"wavegen", "0", "--function", "custom"},
			wantErr: true,
		},
		{
			name:        "logic capture",
			args:        []string{"logic", "capture", "--rate", "10MHz", "--buffer", "64", "--lines", "2", "--save"},
			wantContain: []string{"Captured 64 samples at 10 MHz", "DIO 0:", "DIO 1:", "Saved capture"},
		},
		{
			name:        "pattern clock",
			args:        []string{"pattern", "0", "--clock", "1MHz", "--hold", "10ms"},
			wantContain: []string{"Pin 0: clock 1 MHz", "Output stopped."},
		},
		{
			name:        "pattern bits",
			args:        []string{"pattern", "3", "--bits", "1011_0000", "--divider", "10", "--idle", "low", "--hold", "10ms"},
			wantContain: []string{"Pin 3: 8-bit pattern, divider 10"},
		},
		{
			name:    "pattern needs a source",
			args:    []string{"pattern", "0"},
			wantErr: true,
		},
		{
			name:    "pattern both sources",
			args:    []string{"pattern", "0", "--clock", "1MHz", "--bits", "10"},
			wantErr: true,
		},
		{
			name:        "uart loopback",
			args:        []string{"uart", "tx", "hello", "--baud", "115200", "--tx", "0", "--rx", "0", "--read", "50ms"},
			wantContain: []string{"Sent 5 bytes at 115200 baud.", `Received 5 bytes: "hello"`},
		},
		{
			name:        "uart rx nothing",
			args:        []string{"uart", "rx", "--timeout", "30ms"},
			wantContain: []string{`Received 0 bytes: ""`},
		},
		{
			name:    "uart bad parity",
			args:    []string{"uart", "tx", "x", "--parity", "mark"},
			wantErr: true,
		},
	})

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1001)
	require.Equal(t, "time_s,ch0_V", lines[0])

	output, err := runCLI(t, store, "captures", "list")
	require.NoError(t, err)
	require.Contains(t, output, "2 capture(s):")
	require.Contains(t, output, "logic")
	require.Contains(t, output, "scope")
}

// TestRunE2E tests applying a profile end-to-end
func TestRunE2E(t *testing.T) {
	store := testEnv(t)
	profilePath := filepath.Join("..", "..", "..", "pkg", "profile", "testdata", "loopback.yaml")

	runCases(t, store, []cliCase{
		{
			name:        "apply only",
			args:        []string{"run", profilePath},
			wantContain: []string{"Applied profile loopback to Analog Discovery 2"},
		},
		{
			name:        "scope capture",
			args:        []string{"run", profilePath, "--capture", "scope", "--save"},
			wantContain: []string{"Captured 1000 samples at 1 MHz", "Channel 0:", "Saved capture"},
		},
		{
			name:        "logic capture",
			args:        []string{"run", profilePath, "--capture", "logic"},
			wantContain: []string{"Captured 40 samples at 10 MHz", "DIO 15:"},
		},
		{
			name:    "bad capture",
			args:    []string{"run", profilePath, "--capture", "spectrum"},
			wantErr: true,
		},
		{
			name:    "missing profile",
			args:    []string{"run", "does-not-exist.yaml"},
			wantErr: true,
		},
		{
			name:        "saved under profile name",
			args:        []string{"captures", "list"},
			wantContain: []string{"1 capture(s):", `"loopback"`},
		},
	})
}

// TestCapturesE2E tests the capture store commands end-to-end
func TestCapturesE2E(t *testing.T) {
	store := testEnv(t)

	ctx := context.Background()
	s, err := capture.Open(ctx, store)
	require.NoError(t, err)
	rec := capture.NewScopeRecord("Analog Discovery 2 SN:1", "seeded", &dwf.Capture{
		Rate:     units.Kilohertz(1),
		Time:     time.Now(),
		Channels: []dwf.ChannelData{{Index: 0, Samples: []units.Voltage{0, 0.5, 1}}},
	})
	rec.ID = uuid.MustParse("c0ffee00-0000-4000-8000-000000000001")
	require.NoError(t, s.Save(ctx, rec))
	other := capture.NewLogicRecord("dev", "", &dwf.LogicCapture{Rate: units.Megahertz(1), Samples: []uint32{1, 0}}, 1)
	other.ID = uuid.MustParse("c0ffee00-0000-4000-8000-000000000002")
	require.NoError(t, s.Save(ctx, other))
	require.NoError(t, s.Close())

	exportPath := filepath.Join(t.TempDir(), "export.csv")
	runCases(t, store, []cliCase{
		{
			name:        "list",
			args:        []string{"captures", "list"},
			wantContain: []string{"2 capture(s):", "c0ffee00", `"seeded"`},
		},
		{
			name:        "show full id",
			args:        []string{"captures", "show", "c0ffee00-0000-4000-8000-000000000001"},
			wantContain: []string{"Kind:     scope", "Label:    seeded", "Captured 3 samples at 1 kHz"},
		},
		{
			name:    "show ambiguous prefix",
			args:    []string{"captures", "show", "c0ffee"},
			wantErr: true,
		},
		{
			name:    "show unknown",
			args:    []string{"captures", "show", "deadbeef"},
			wantErr: true,
		},
		{
			name:        "export to stdout",
			args:        []string{"captures", "export", "c0ffee00-0000-4000-8000-000000000001"},
			wantContain: []string{"time_s,ch0_V", "0.002,1"},
		},
		{
			name:        "export to file",
			args:        []string{"captures", "export", "c0ffee00-0000-4000-8000-000000000002", "-o", exportPath},
			wantContain: []string{"Wrote " + exportPath},
		},
		{
			name:        "rm",
			args:        []string{"captures", "rm", "c0ffee00-0000-4000-8000-000000000002"},
			wantContain: []string{"Deleted c0ffee00-0000-4000-8000-000000000002"},
		},
		{
			name:        "prefix is unique after rm",
			args:        []string{"captures", "show", "c0ffee"},
			wantContain: []string{"Label:    seeded"},
		},
		{
			name:    "rm twice",
			args:    []string{"captures", "rm", "c0ffee00-0000-4000-8000-000000000002"},
			wantErr: true,
		},
	})

	data, err := os.ReadFile(exportPath)
	require.NoError(t, err)
	require.Equal(t, "time_s,dio0\n0,1\n1e-06,0\n", string(data))
}

// TestScopeStreamInterruptE2E stops an open-ended stream by canceling the
// command context and expects the recording to be kept.
func TestScopeStreamInterruptE2E(t *testing.T) {
	store := testEnv(t)
	csvPath := filepath.Join(t.TempDir(), "stream.csv")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		time.Sleep(150 * time.Millisecond)
		cancel()
	}()

	output, err := runCLIContext(t, ctx, store,
		"scope", "stream", "--rate", "1kHz", "--buffer", "16", "--record", "0", "--csv", csvPath, "--save")
	require.NoError(t, err, output)
	for _, want := range []string{"Interrupted, stream stopped.", "Stream finished: lost 0, corrupted 0", "Recorded", "Wrote " + csvPath, "Saved capture"} {
		require.Contains(t, output, want)
	}

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Greater(t, len(lines), 1)
	require.Equal(t, "time_s,ch0_V,ch1_V", lines[0])

	output, err = runCLI(t, store, "captures", "list")
	require.NoError(t, err)
	require.Contains(t, output, "1 capture(s):")
}

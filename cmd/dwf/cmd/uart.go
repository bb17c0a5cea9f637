package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceDWF/pkg/dwf"
)

var (
	uartBaud     float64
	uartDataBits int
	uartParity   string
	uartStopBits float64
	uartTxPin    int
	uartRxPin    int
	uartSize     int
	uartTimeout  time.Duration
	uartRead     time.Duration
)

var uartCmd = &cobra.Command{
	Use:   "uart",
	Short: "Send and receive serial data on DIO pins",
}

var uartTxCmd = &cobra.Command{
	Use:   "tx <text>",
	Short: "Transmit text",
	Long: `Transmit text on the TX pin. With --read the receiver is polled
afterwards and anything that arrives is printed, which with --tx and --rx
on the same pin makes a loopback test.

Examples:
  dwf uart tx "hello" --baud 115200
  dwf uart tx "ping" --tx 0 --rx 0 --read 100ms`,
	Args: cobra.ExactArgs(1),
	RunE: runUARTTx,
}

var uartRxCmd = &cobra.Command{
	Use:   "rx",
	Short: "Receive until the buffer fills or the timeout elapses",
	Args:  cobra.NoArgs,
	RunE:  runUARTRx,
}

func init() {
	rootCmd.AddCommand(uartCmd)
	uartCmd.AddCommand(uartTxCmd, uartRxCmd)

	def := dwf.DefaultUARTConfig()
	pf := uartCmd.PersistentFlags()
	pf.Float64Var(&uartBaud, "baud", def.Baud, "baud rate")
	pf.IntVar(&uartDataBits, "data-bits", def.DataBits, "data bits (5-9)")
	pf.StringVar(&uartParity, "parity", def.Parity.String(), "parity (none, odd, even)")
	pf.Float64Var(&uartStopBits, "stop-bits", def.StopBits, "stop bits (1, 1.5, 2)")
	pf.IntVar(&uartTxPin, "tx", def.TxPin, "TX DIO pin")
	pf.IntVar(&uartRxPin, "rx", def.RxPin, "RX DIO pin")

	uartTxCmd.Flags().DurationVar(&uartRead, "read", 0, "poll the receiver this long after sending")
	uartRxCmd.Flags().IntVar(&uartSize, "size", 256, "stop after this many bytes")
	uartRxCmd.Flags().DurationVar(&uartTimeout, "timeout", 5*time.Second, "stop after this long")
}

func uartConfig() (dwf.UARTConfig, error) {
	parity, err := dwf.ParseParity(uartParity)
	if err != nil {
		return dwf.UARTConfig{}, err
	}
	return dwf.UARTConfig{
		Baud:     uartBaud,
		DataBits: uartDataBits,
		Parity:   parity,
		StopBits: uartStopBits,
		TxPin:    uartTxPin,
		RxPin:    uartRxPin,
	}, nil
}

func openUART() (*dwf.Handle, *dwf.UART, error) {
	cfg, err := uartConfig()
	if err != nil {
		return nil, nil, err
	}
	h, err := openDevice()
	if err != nil {
		return nil, nil, err
	}
	u := h.Protocols().UART()
	if err := u.Configure(cfg); err != nil {
		h.Close()
		return nil, nil, err
	}
	return h, u, nil
}

// receive polls u until size bytes arrived or ctx ends. Running out of
// time is not an error.
func receive(ctx context.Context, u *dwf.UART, size int) ([]byte, error) {
	var out []byte
	ticker := time.NewTicker(cfg.PollInterval)
	defer ticker.Stop()
	for len(out) < size {
		data, status, err := u.Rx(size - len(out))
		if err != nil {
			return out, err
		}
		if status.Overflow() {
			log.Warn().Msg("uart receive buffer overflowed")
		}
		if status.ParityError() {
			log.Warn().Int("byte", len(out)+status.ParityIndex()).Msg("uart parity error")
		}
		out = append(out, data...)

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return out, nil
			}
			return out, ctx.Err()
		case <-ticker.C:
		}
	}
	return out, nil
}

func printReceived(data []byte) {
	fmt.Printf("Received %d bytes: %q\n", len(data), data)
}

func runUARTTx(cmd *cobra.Command, args []string) error {
	h, u, err := openUART()
	if err != nil {
		return err
	}
	defer h.Close()

	if err := u.Tx([]byte(args[0])); err != nil {
		return err
	}
	fmt.Printf("Sent %d bytes at %g baud.\n", len(args[0]), uartBaud)

	if uartRead <= 0 {
		return nil
	}
	ctx, cancel := commandContext(cmd, uartRead)
	defer cancel()
	data, err := receive(ctx, u, 4096)
	if err != nil {
		return err
	}
	printReceived(data)
	return nil
}

func runUARTRx(cmd *cobra.Command, args []string) error {
	if uartSize <= 0 {
		return fmt.Errorf("--size must be positive")
	}
	h, u, err := openUART()
	if err != nil {
		return err
	}
	defer h.Close()

	ctx, cancel := commandContext(cmd, uartTimeout)
	defer cancel()
	data, err := receive(ctx, u, uartSize)
	if err != nil {
		return err
	}
	printReceived(data)
	return nil
}

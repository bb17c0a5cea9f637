package dwf

import "fmt"

// Protocols groups the serial protocol engines that run over DIO pins.
type Protocols struct {
	h *Handle
}

// UART returns the UART engine.
func (p *Protocols) UART() *UART { return &UART{h: p.h} }

// Parity is the UART parity setting.
type Parity int

const (
	ParityNone Parity = 0
	ParityOdd  Parity = 1
	ParityEven Parity = 2
)

var parityTable = []variant[Parity]{
	{ParityNone, "none"},
	{ParityOdd, "odd"},
	{ParityEven, "even"},
}

func (p Parity) String() string { return enumName("Parity", parityTable, p) }
func (p Parity) Known() bool { return enumKnown(parityTable, p) }

// ParseParity maps a parity name as printed by String back to its value.
func ParseParity(s string) (Parity, error) {
	for _, e := range parityTable {
		if e.name == s {
			return e.value, nil
		}
	}
	return 0, fmt.Errorf("dwf: unknown parity %q", s)
}

// UARTConfig is the line setup of the UART engine.
type UARTConfig struct {
	Baud     float64
	DataBits int
	Parity   Parity
	StopBits float64
	TxPin    int
	RxPin    int
}

// DefaultUARTConfig is 9600 8N1 on DIO 0 (TX) and DIO 1 (RX).
func DefaultUARTConfig() UARTConfig {
	return UARTConfig{Baud: 9600, DataBits: 8, Parity: ParityNone, StopBits: 1, TxPin: 0, RxPin: 1}
}

// Validate checks the configuration for values the engine cannot produce.
func (c UARTConfig) Validate() error {
	if c.Baud <= 0 {
		return fmt.Errorf("uart: baud rate must be positive, got %g", c.Baud)
	}
	if c.DataBits < 5 || c.DataBits > 9 {
		return fmt.Errorf("uart: data bits must be 5..9, got %d", c.DataBits)
	}
	if !c.Parity.Known() {
		return fmt.Errorf("uart: unknown parity %d", int(c.Parity))
	}
	if c.StopBits != 1 && c.StopBits != 1.5 && c.StopBits != 2 {
		return fmt.Errorf("uart: stop bits must be 1, 1.5 or 2, got %g", c.StopBits)
	}
	if c.TxPin < 0 || c.RxPin < 0 {
		return fmt.Errorf("uart: pins must be non-negative")
	}
	return nil
}

// UART transmits and receives asynchronous serial data on DIO pins.
type UART struct {
	h *Handle
}

func (u *UART) Reset() error {
	return u.h.call(func(d Driver, r RawHandle) error { return d.DigitalUARTReset(r) })
}

// Configure applies cfg and resets the receiver.
func (u *UART) Configure(cfg UARTConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	err := u.h.call(func(d Driver, r RawHandle) error {
		steps := []func() error{
			func() error { return d.DigitalUARTRateSet(r, cfg.Baud) },
			func() error { return d.DigitalUARTBitsSet(r, cfg.DataBits) },
			func() error { return d.DigitalUARTParitySet(r, int(cfg.Parity)) },
			func() error { return d.DigitalUARTStopSet(r, cfg.StopBits) },
			func() error { return d.DigitalUARTTxSet(r, cfg.TxPin) },
			func() error { return d.DigitalUARTRxSet(r, cfg.RxPin) },
			// Tx with no data initializes the TX line; Rx with an empty
			// buffer starts reception.
			func() error { return d.DigitalUARTTx(r, nil) },
			func() error { _, _, err := d.DigitalUARTRx(r, nil); return err },
		}
		for _, step := range steps {
			if err := step(); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("configure uart: %w", err)
	}
	u.h.log.Debug().Float64("baud", cfg.Baud).Int("tx", cfg.TxPin).Int("rx", cfg.RxPin).Msg("uart configured")
	return nil
}

// Tx sends data and blocks until it has been shifted out.
func (u *UART) Tx(data []byte) error {
	return u.h.call(func(d Driver, r RawHandle) error { return d.DigitalUARTTx(r, data) })
}

// RxStatus is the SDK's receive status indicator.
type RxStatus int

// Overflow reports whether the receive buffer overflowed.
func (s RxStatus) Overflow() bool { return s < 0 }

// ParityError reports whether a parity error was detected. ParityIndex
// gives the position of the first offending byte.
func (s RxStatus) ParityError() bool { return s > 0 }

func (s RxStatus) ParityIndex() int {
	if s <= 0 {
		return -1
	}
	return int(s) - 1
}

// Rx returns up to size bytes received since the previous call.
func (u *UART) Rx(size int) ([]byte, RxStatus, error) {
	if size <= 0 {
		return nil, 0, invalidParam(1, "receive size must be positive, got %d", size)
	}
	buf := make([]byte, size)
	var (
		n      int
		parity int
	)
	err := u.h.call(func(d Driver, r RawHandle) error {
		var err error
		n, parity, err = d.DigitalUARTRx(r, buf)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return buf[:n], RxStatus(parity), nil
}

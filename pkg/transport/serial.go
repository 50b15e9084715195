package transport

import (
	"fmt"

	"go.bug.st/serial"
)

// Port is the part of a serial port the transport uses. go.bug.st/serial
// ports satisfy it, as does the hardware simulator.
//
// Read must return (0, nil) when its read timeout elapses with no data.
type Port interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	ResetInputBuffer() error
	ResetOutputBuffer() error
	Close() error
}

// Opener opens the port described by cfg.
type Opener func(cfg Config) (Port, error)

// SerialOpener opens a real serial device with the radio's framing
// (8 data bits, no parity, 2 stop bits by default) and applies any RTS/DTR
// overrides.
func SerialOpener(cfg Config) (Port, error) {
	mode := &serial.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: cfg.DataBits,
		Parity:   serial.NoParity,
		StopBits: serialStopBits(cfg.StopBits),
	}

	p, err := serial.Open(cfg.Port, mode)
	if err != nil {
		return nil, err
	}

	if err := p.SetReadTimeout(cfg.Timeout); err != nil {
		p.Close()
		return nil, fmt.Errorf("set read timeout: %w", err)
	}
	if cfg.RTS != nil {
		if err := p.SetRTS(*cfg.RTS); err != nil {
			p.Close()
			return nil, fmt.Errorf("set RTS: %w", err)
		}
	}
	if cfg.DTR != nil {
		if err := p.SetDTR(*cfg.DTR); err != nil {
			p.Close()
			return nil, fmt.Errorf("set DTR: %w", err)
		}
	}
	return p, nil
}

func serialStopBits(n int) serial.StopBits {
	if n == 1 {
		return serial.OneStopBit
	}
	return serial.TwoStopBits
}

// Package trace captures CAT traffic as a stream of CBOR-encoded events.
//
// A trace file is an append-only sequence of Event values, one per frame
// written or response read. It is a diagnostic record of what crossed the
// serial line and holds no radio state.
package trace

import "time"

// Direction of a traced frame.
type Direction uint8

const (
	DirectionTX Direction = 0
	DirectionRX Direction = 1
)

// String returns "TX" or "RX".
func (d Direction) String() string {
	switch d {
	case DirectionTX:
		return "TX"
	case DirectionRX:
		return "RX"
	default:
		return "UNKNOWN"
	}
}

// Outcome of a traced exchange.
type Outcome uint8

const (
	OutcomeOK      Outcome = 0
	OutcomeShort   Outcome = 1
	OutcomeTimeout Outcome = 2
	OutcomeError   Outcome = 3
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeShort:
		return "short"
	case OutcomeTimeout:
		return "timeout"
	case OutcomeError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is one traced frame. CBOR encoding uses integer keys.
type Event struct {
	Timestamp time.Time `cbor:"1,keyasint"`
	Session   string    `cbor:"2,keyasint"`
	Direction Direction `cbor:"3,keyasint"`
	Opcode    uint8     `cbor:"4,keyasint"`
	Attempt   int       `cbor:"5,keyasint,omitempty"`
	Data      []byte    `cbor:"6,keyasint,omitempty"`
	Expected  int       `cbor:"7,keyasint,omitempty"`
	Outcome   Outcome   `cbor:"8,keyasint"`
}

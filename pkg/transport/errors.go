package transport

import (
	"errors"
	"fmt"

	"github.com/dougsko/ft1000cat/pkg/protocol"
)

var (
	// ErrConnection means the serial line could not be opened or used.
	// The session should be closed and reopened.
	ErrConnection = errors.New("connection failure")

	// ErrTimeout means no full-length response arrived within the
	// configured attempts. The radio may or may not have acted on the
	// command.
	ErrTimeout = errors.New("command timeout")

	errNotOpen = errors.New("port is not open")
)

// ConnectionError reports a failure to open or use the serial port.
type ConnectionError struct {
	Port string
	Op   string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%v: %s %s: %v", ErrConnection, e.Op, e.Port, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

func (e *ConnectionError) Is(target error) bool { return target == ErrConnection }

// TimeoutError reports a command that never got its full response.
type TimeoutError struct {
	Opcode   protocol.Opcode
	Expected int
	Got      int // bytes received on the last attempt
	Attempts int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%v: %s expected %d bytes, got %d after %d attempts",
		ErrTimeout, e.Opcode, e.Expected, e.Got, e.Attempts)
}

func (e *TimeoutError) Unwrap() error { return ErrTimeout }

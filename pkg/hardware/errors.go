package hardware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dougsko/ft1000cat/pkg/protocol"
)

// Validation errors. They are returned before anything is sent to the
// radio.
var (
	ErrInvalidFrequency = errors.New("invalid frequency")
	ErrInvalidMode      = errors.New("invalid mode")
	ErrInvalidChannel   = errors.New("invalid memory channel")
	ErrInvalidOffset    = errors.New("invalid clarifier offset")
)

// FrequencyError reports a frequency outside the radio's range
type FrequencyError struct {
	Frequency int
}

func (e *FrequencyError) Error() string {
	return fmt.Sprintf("%v: %d Hz is outside %d-%d Hz", ErrInvalidFrequency, e.Frequency, MinFrequency, MaxFrequency)
}

func (e *FrequencyError) Unwrap() error { return ErrInvalidFrequency }

// ModeError reports an unrecognized mode name
type ModeError struct {
	Name string
}

func (e *ModeError) Error() string {
	return fmt.Sprintf("%v: %q (valid modes: %s)", ErrInvalidMode, e.Name, strings.Join(protocol.ModeNames(), ", "))
}

func (e *ModeError) Unwrap() error { return ErrInvalidMode }

// ChannelError reports a memory channel outside 1-99
type ChannelError struct {
	Channel int
}

func (e *ChannelError) Error() string {
	return fmt.Sprintf("%v: %d (must be %d-%d)", ErrInvalidChannel, e.Channel, protocol.MinChannel, protocol.MaxChannel)
}

func (e *ChannelError) Unwrap() error { return ErrInvalidChannel }

// OffsetError reports a clarifier offset beyond what the radio can encode
type OffsetError struct {
	Offset int
}

func (e *OffsetError) Error() string {
	return fmt.Sprintf("%v: %d Hz (limit is +/-%d Hz)", ErrInvalidOffset, e.Offset, MaxClarifierOffset)
}

func (e *OffsetError) Unwrap() error { return ErrInvalidOffset }

// IsValidationError reports whether err was raised by input validation,
// meaning nothing reached the radio.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidFrequency) ||
		errors.Is(err, ErrInvalidMode) ||
		errors.Is(err, ErrInvalidChannel) ||
		errors.Is(err, ErrInvalidOffset) ||
		errors.Is(err, protocol.ErrInvalidVFO)
}

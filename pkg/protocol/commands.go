package protocol

import (
	"fmt"

	"github.com/dougsko/ft1000cat/pkg/codec"
)

// Frame is a complete command: four parameter bytes then the opcode.
type Frame [FrameSize]byte

// Opcode returns the final byte of the frame.
func (f Frame) Opcode() Opcode {
	return Opcode(f[FrameSize-1])
}

// Params returns P1..P4.
func (f Frame) Params() [4]byte {
	return [4]byte{f[0], f[1], f[2], f[3]}
}

// String renders the frame as hex bytes followed by the opcode name.
func (f Frame) String() string {
	return fmt.Sprintf("% X (%s)", f[:], f.Opcode())
}

// Bytes returns a copy of the frame as a slice.
func (f Frame) Bytes() []byte {
	b := make([]byte, FrameSize)
	copy(b, f[:])
	return b
}

func frame(op Opcode, p1, p2, p3, p4 byte) Frame {
	return Frame{p1, p2, p3, p4, byte(op)}
}

func boolByte(on bool) byte {
	if on {
		return 0x01
	}
	return 0x00
}

// SetFrequencyA sets VFO-A. The frequency is not range checked here.
func SetFrequencyA(hz int) Frame {
	b := codec.EncodeForSet(hz)
	return frame(OpSetFreqA, b[0], b[1], b[2], b[3])
}

// SetFrequencyB sets VFO-B. The frequency is not range checked here.
func SetFrequencyB(hz int) Frame {
	b := codec.EncodeForSet(hz)
	return frame(OpSetFreqB, b[0], b[1], b[2], b[3])
}

// SetMode sets the operating mode of VFO-A, or VFO-B when vfoB is true.
func SetMode(m Mode, vfoB bool) (Frame, error) {
	code, err := m.SetCode()
	if err != nil {
		return Frame{}, err
	}
	if vfoB {
		code |= setModeVFOBit
	}
	return frame(OpSetMode, 0, 0, 0, code), nil
}

// SelectVFO switches the active VFO.
//
// Some firmware revisions report stale frequencies after a raw VFO switch.
// Setting frequency and mode per VFO avoids depending on which is active.
func SelectVFO(v VFO) (Frame, error) {
	if v != VFOA && v != VFOB {
		return Frame{}, fmt.Errorf("%w: %s", ErrInvalidVFO, v)
	}
	return frame(OpSelectVFO, 0, 0, 0, byte(v)), nil
}

// Split turns split operation on or off.
func Split(on bool) Frame {
	return frame(OpSplit, 0, 0, 0, boolByte(on))
}

// Clarifier turns the clarifier on or off.
func Clarifier(on bool) Frame {
	return frame(OpClarifier, 0, 0, 0, boolByte(on))
}

// ClarifierOffset sets the clarifier offset in Hz. The parameter bytes carry
// up to codec.MaxClarifierOffset; larger magnitudes saturate. The radio's own
// range is narrower and is enforced by the caller.
func ClarifierOffset(hz int) Frame {
	tens, khz, dir := codec.EncodeClarifierOffset(hz)
	return frame(OpClarifier, tens, khz, dir, clarifierOffsetMarker)
}

// PTT keys or unkeys the transmitter.
func PTT(on bool) Frame {
	return frame(OpPTT, 0, 0, 0, boolByte(on))
}

// StatusUpdate requests a status block for the current VFO or both VFOs.
func StatusUpdate(t StatusTarget) (Frame, error) {
	if t.ResponseLength() == 0 {
		return Frame{}, fmt.Errorf("%w: 0x%02X", ErrInvalidTarget, byte(t))
	}
	return frame(OpStatusUpdate, 0, 0, 0, byte(t)), nil
}

// ReadFlags requests the 5-byte flags response.
func ReadFlags() Frame {
	return frame(OpReadFlags, 0, 0, 0, 0)
}

func memoryFrame(op Opcode, channel int) (Frame, error) {
	if channel < MinChannel || channel > MaxChannel {
		return Frame{}, fmt.Errorf("%w: %d", ErrInvalidChannel, channel)
	}
	return frame(op, 0, 0, 0, byte(channel)), nil
}

// RecallMemory selects a memory channel, putting the radio in memory mode.
func RecallMemory(channel int) (Frame, error) {
	return memoryFrame(OpRecallMemory, channel)
}

// StoreMemory writes the active VFO into a memory channel. The radio expects
// the channel to have been selected with RecallMemory first.
func StoreMemory(channel int) (Frame, error) {
	return memoryFrame(OpVFOToMemory, channel)
}

// TransferMemory copies a memory channel into the active VFO.
func TransferMemory(channel int) (Frame, error) {
	return memoryFrame(OpMemoryToVFO, channel)
}

// CopyVFOAToB copies VFO-A frequency and mode to VFO-B.
func CopyVFOAToB() Frame {
	return frame(OpCopyVFOAToB, 0, 0, 0, 0)
}

// Pacing sets the delay the radio inserts between bytes of its responses,
// in milliseconds.
func Pacing(ms uint8) Frame {
	return frame(OpPacing, 0, 0, 0, ms)
}

// ResponseLength returns the number of bytes the radio answers f with.
func ResponseLength(f Frame) int {
	switch f.Opcode() {
	case OpReadFlags:
		return FlagsResponseSize
	case OpStatusUpdate:
		return StatusTarget(f[3]).ResponseLength()
	default:
		return NoResponse
	}
}

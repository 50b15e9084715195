// Package codec converts frequencies and clarifier offsets to and from the
// FT-1000MP wire encodings.
//
// The radio uses different encodings depending on direction:
//
//	host -> radio (set commands):  little-endian packed BCD of Hz/10
//	radio -> host (status blocks): big-endian binary, Hz = raw*10/16
//
// The two are not inverses of each other. Functions are named for the
// direction they serve and must not be cross-applied.
package codec

import "encoding/binary"

// Resolution is the smallest frequency step the radio accepts, in Hz.
const Resolution = 10

// FrequencySize is the number of bytes in an encoded frequency.
const FrequencySize = 4

// ClarifierSize is the number of bytes in an encoded status clarifier offset.
const ClarifierSize = 2

// status scale factor: Hz = raw * statusNum / statusDen
const (
	statusNum = 10
	statusDen = 16
)

const clarifierSignBit = 0x8000

// ToBCD packs a two-digit decimal value (0-99) into one byte, tens digit in
// the high nibble. Values outside 0-99 are reduced modulo 100.
func ToBCD(n int) byte {
	if n < 0 {
		n = -n
	}
	n %= 100
	return byte((n/10)<<4 | n%10)
}

// FromBCD unpacks a packed-decimal byte into its two-digit value.
func FromBCD(b byte) int {
	return int(b>>4)*10 + int(b&0x0F)
}

// EncodeForSet encodes a frequency for the set-frequency commands.
// Sub-10 Hz remainders are truncated. The eight decimal digits of hz/10
// are packed two per byte, least-significant pair first.
func EncodeForSet(hz int) [FrequencySize]byte {
	var out [FrequencySize]byte
	if hz < 0 {
		return out
	}
	val := hz / Resolution
	for i := 0; i < FrequencySize; i++ {
		out[i] = ToBCD(val % 100)
		val /= 100
	}
	return out
}

// DecodeForSet reverses EncodeForSet. Only the radio side of the link reads
// set-frequency payloads, so this exists for the simulator.
func DecodeForSet(b []byte) int {
	if len(b) < FrequencySize {
		return 0
	}
	val := 0
	for i := FrequencySize - 1; i >= 0; i-- {
		val = val*100 + FromBCD(b[i])
	}
	return val * Resolution
}

// DecodeFromStatus decodes the frequency field of a status block. Only the
// first four bytes of b are read.
func DecodeFromStatus(b []byte) int {
	if len(b) < FrequencySize {
		return 0
	}
	raw := binary.BigEndian.Uint32(b[:FrequencySize])
	return int(uint64(raw) * statusNum / statusDen)
}

// EncodeForStatus produces the status-block representation of hz, the way
// the radio reports it.
func EncodeForStatus(hz int) [FrequencySize]byte {
	var out [FrequencySize]byte
	if hz < 0 {
		return out
	}
	binary.BigEndian.PutUint32(out[:], uint32(uint64(hz)*statusDen/statusNum))
	return out
}

// DecodeClarifier decodes the sign-magnitude clarifier field of a status
// block: bit 15 set means negative, the low 15 bits are the magnitude, with
// the same 10/16 scale as frequencies.
func DecodeClarifier(b []byte) int {
	if len(b) < ClarifierSize {
		return 0
	}
	raw := binary.BigEndian.Uint16(b[:ClarifierSize])
	hz := int(raw&^clarifierSignBit) * statusNum / statusDen
	if raw&clarifierSignBit != 0 {
		return -hz
	}
	return hz
}

// EncodeClarifierStatus produces the status-block representation of a
// clarifier offset. Magnitudes beyond 15 bits are clamped.
func EncodeClarifierStatus(hz int) [ClarifierSize]byte {
	var sign uint16
	if hz < 0 {
		sign = clarifierSignBit
		hz = -hz
	}
	mag := hz * statusDen / statusNum
	if mag > clarifierSignBit-1 {
		mag = clarifierSignBit - 1
	}
	var out [ClarifierSize]byte
	binary.BigEndian.PutUint16(out[:], uint16(mag)|sign)
	return out
}

// Clarifier offset direction bytes.
const (
	DirectionUp   = 0x00
	DirectionDown = 0xFF
)

// MaxClarifierOffset is the largest offset magnitude in Hz the set-offset
// parameter bytes can carry.
const MaxClarifierOffset = 99_990

// EncodeClarifierOffset splits a signed offset for the set-offset command
// into a BCD tens-of-Hz byte, a BCD kHz byte and a direction byte.
// Magnitudes above MaxClarifierOffset saturate rather than wrap.
func EncodeClarifierOffset(hz int) (tens, khz, direction byte) {
	direction = DirectionUp
	if hz < 0 {
		direction = DirectionDown
		hz = -hz
	}
	if hz > MaxClarifierOffset {
		hz = MaxClarifierOffset
	}
	tens = ToBCD((hz % 1000) / 10)
	khz = ToBCD(hz / 1000)
	return tens, khz, direction
}

// DecodeClarifierOffset reverses EncodeClarifierOffset.
func DecodeClarifierOffset(tens, khz, direction byte) int {
	hz := FromBCD(khz)*1000 + FromBCD(tens)*10
	if direction == DirectionDown {
		return -hz
	}
	return hz
}

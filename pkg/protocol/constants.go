package protocol

import "fmt"

// FrameSize is the length of every command frame.
const FrameSize = 5

// Opcode is the final byte of a command frame.
type Opcode byte

// Opcodes understood by the FT-1000MP.
const (
	OpSplit        Opcode = 0x01
	OpRecallMemory Opcode = 0x02
	OpVFOToMemory  Opcode = 0x03
	OpSelectVFO    Opcode = 0x05
	OpMemoryToVFO  Opcode = 0x06
	OpClarifier    Opcode = 0x09
	OpSetFreqA     Opcode = 0x0A
	OpSetMode      Opcode = 0x0C
	OpPacing       Opcode = 0x0E
	OpPTT          Opcode = 0x0F
	OpStatusUpdate Opcode = 0x10
	OpCopyVFOAToB  Opcode = 0x85
	OpSetFreqB     Opcode = 0x8A
	OpReadFlags    Opcode = 0xFA
)

var opcodeNames = map[Opcode]string{
	OpSplit:        "SPLIT",
	OpRecallMemory: "RECALL_MEMORY",
	OpVFOToMemory:  "VFO_TO_MEMORY",
	OpSelectVFO:    "SELECT_VFO",
	OpMemoryToVFO:  "MEMORY_TO_VFO",
	OpClarifier:    "CLARIFIER",
	OpSetFreqA:     "SET_FREQ_A",
	OpSetMode:      "SET_MODE",
	OpPacing:       "PACING",
	OpPTT:          "PTT",
	OpStatusUpdate: "STATUS_UPDATE",
	OpCopyVFOAToB:  "COPY_VFO_A_TO_B",
	OpSetFreqB:     "SET_FREQ_B",
	OpReadFlags:    "READ_FLAGS",
}

// String returns the opcode name, or its hex value if unknown.
func (o Opcode) String() string {
	if name, ok := opcodeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("OPCODE(0x%02X)", byte(o))
}

// Valid reports whether o is one of the defined opcodes.
func (o Opcode) Valid() bool {
	_, ok := opcodeNames[o]
	return ok
}

// Response lengths in bytes.
const (
	NoResponse        = 0
	FlagsResponseSize = 5
	VFOBlockSize      = 16
	DualVFOSize       = 2 * VFOBlockSize
)

// Bits in byte 0 of the flags response.
const (
	FlagSplit        = 0x01
	FlagClarifier    = 0x04
	FlagVFOB         = 0x10
	FlagTransmitting = 0x20
	FlagPriority     = 0x80
)

// Offsets within a 16-byte VFO status block.
const (
	offsetFrequency = 1 // 4 bytes
	offsetClarifier = 5 // 2 bytes
	offsetMode      = 7 // bits 0-2 mode, bit 7 user variant
	offsetFilter    = 8 // bit 7 sub-mode qualifier
	offsetRITXIT    = 9 // bit 0 XIT, bit 1 RIT
)

const (
	modeMask      = 0x07
	userModeBit   = 0x80
	qualifierBit  = 0x80
	xitBit        = 0x01
	ritBit        = 0x02
	setModeVFOBit = 0x80

	// P4 of a clarifier frame when it carries an offset rather than on/off.
	clarifierOffsetMarker = 0xFF
)

// Memory channel range, inclusive.
const (
	MinChannel = 1
	MaxChannel = 99
)

package protocol

import (
	"fmt"
	"sort"
	"strings"
)

// Mode is an operating mode. Its numeric value is the code the radio uses in
// status blocks (byte 7, bits 0-2).
type Mode byte

// Operating modes.
const (
	ModeLSB  Mode = 0x00
	ModeUSB  Mode = 0x01
	ModeCW   Mode = 0x02
	ModeAM   Mode = 0x03
	ModeFM   Mode = 0x04
	ModeRTTY Mode = 0x05
	ModePKT  Mode = 0x06
)

var modeNames = map[Mode]string{
	ModeLSB:  "LSB",
	ModeUSB:  "USB",
	ModeCW:   "CW",
	ModeAM:   "AM",
	ModeFM:   "FM",
	ModeRTTY: "RTTY",
	ModePKT:  "PKT",
}

var modesByName = func() map[string]Mode {
	m := make(map[string]Mode, len(modeNames))
	for mode, name := range modeNames {
		m[name] = mode
	}
	return m
}()

// setModeCodes holds the P4 values for the set-mode command. They are not
// the status codes.
var setModeCodes = map[Mode]byte{
	ModeLSB:  0x00,
	ModeUSB:  0x01,
	ModeCW:   0x02,
	ModeAM:   0x04,
	ModeFM:   0x06,
	ModeRTTY: 0x08,
	ModePKT:  0x0A,
}

type subModeKey struct {
	mode      Mode
	qualifier bool
}

// subModeNames refines a mode for display using the qualifier bit in byte 8
// of a status block.
var subModeNames = map[subModeKey]string{
	{ModeCW, false}:   "CW-R",
	{ModeCW, true}:    "CW",
	{ModeAM, false}:   "AM",
	{ModeAM, true}:    "SAM",
	{ModeRTTY, false}: "RTTY",
	{ModeRTTY, true}:  "RTTY-R",
	{ModePKT, false}:  "PKT-L",
	{ModePKT, true}:   "PKT-FM",
}

// String returns the mode name, or UNKNOWN(0xNN) for codes the table does
// not define.
func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(0x%02X)", byte(m))
}

// Valid reports whether m is one of the seven defined modes.
func (m Mode) Valid() bool {
	_, ok := modeNames[m]
	return ok
}

// StatusCode returns the code the radio uses for m in status blocks.
func (m Mode) StatusCode() (byte, error) {
	if !m.Valid() {
		return 0, fmt.Errorf("%w: 0x%02X", ErrInvalidMode, byte(m))
	}
	return byte(m), nil
}

// SetCode returns the P4 value for m in a set-mode command.
func (m Mode) SetCode() (byte, error) {
	code, ok := setModeCodes[m]
	if !ok {
		return 0, fmt.Errorf("%w: 0x%02X", ErrInvalidMode, byte(m))
	}
	return code, nil
}

// ParseMode looks up a mode by name, ignoring case and surrounding space.
func ParseMode(name string) (Mode, bool) {
	m, ok := modesByName[strings.ToUpper(strings.TrimSpace(name))]
	return m, ok
}

// ModeFromSetCode maps a set-mode P4 value (without the VFO-B bit) back to
// its mode.
func ModeFromSetCode(code byte) (Mode, bool) {
	for m, c := range setModeCodes {
		if c == code {
			return m, true
		}
	}
	return 0, false
}

// ModeNames returns the defined mode names in alphabetical order.
func ModeNames() []string {
	names := make([]string, 0, len(modesByName))
	for name := range modesByName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SubModeName returns the display name for a mode and its qualifier bit.
// Modes without a refinement display their plain name.
func SubModeName(m Mode, qualifier bool) string {
	if name, ok := subModeNames[subModeKey{m, qualifier}]; ok {
		return name
	}
	return m.String()
}

// VFO selects one of the two oscillators.
type VFO byte

// VFOs.
const (
	VFOA VFO = 0x00
	VFOB VFO = 0x01
)

// String returns "A" or "B".
func (v VFO) String() string {
	switch v {
	case VFOA:
		return "A"
	case VFOB:
		return "B"
	default:
		return fmt.Sprintf("VFO(0x%02X)", byte(v))
	}
}

// ParseVFO accepts "a", "A", "b" or "B".
func ParseVFO(s string) (VFO, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A":
		return VFOA, true
	case "B":
		return VFOB, true
	default:
		return 0, false
	}
}

// StatusTarget selects what a status-update request returns.
type StatusTarget byte

// Status update targets.
const (
	StatusCurrent StatusTarget = 0x02 // current VFO, 16 bytes
	StatusBoth    StatusTarget = 0x03 // both VFOs, 32 bytes
)

// ResponseLength returns the reply size for the target, or 0 if unknown.
func (t StatusTarget) ResponseLength() int {
	switch t {
	case StatusCurrent:
		return VFOBlockSize
	case StatusBoth:
		return DualVFOSize
	default:
		return 0
	}
}

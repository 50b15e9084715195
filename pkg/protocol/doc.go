// Package protocol implements the FT-1000MP CAT command grammar and response
// parsers.
//
// # Command Frames
//
// Every command is exactly five bytes:
//
//	[P1][P2][P3][P4][OPCODE]
//
// Frame is a [5]byte, so a builder cannot produce anything else. Builders
// never touch shared state. Builders whose argument comes from a closed set
// (Mode, VFO, memory channel, status target) return an error for values
// outside it instead of emitting an undefined byte.
//
// # Responses
//
// Responses are fixed length per request: none, 5 bytes (flags), 16 bytes
// (one VFO) or 32 bytes (both VFOs, active first).
//
//	status, err := protocol.ParseVFOStatus(block)
//	active, inactive, err := protocol.ParseDualVFOStatus(buf)
//	flags, err := protocol.ParseFlags(buf)
//
// # Mode Tables
//
// The radio reports modes with one set of codes and accepts them with
// another (AM is 3 in a status block, 4 in a set-mode command). The two
// tables are kept separate and both are keyed by Mode.
package protocol

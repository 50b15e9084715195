package hardware

import "github.com/dougsko/ft1000cat/pkg/protocol"

// RadioInterface defines the CAT operations of an FT-1000MP. Every call is
// one blocking exchange with the radio; implementations are not safe for
// concurrent use.
type RadioInterface interface {
	Open() error
	Close() error
	IsConnected() bool

	// Frequency control
	SetFrequency(vfo protocol.VFO, hz int) error

	// Mode control
	SetModeFor(vfo protocol.VFO, name string) error

	// VFO control
	SelectVFO(vfo protocol.VFO) error
	CopyVFOAToB() error
	SetSplit(on bool) error

	// Clarifier
	SetClarifier(on bool) error
	SetClarifierOffset(hz int) error

	// PTT control
	SetPTT(on bool) error

	// Memory channels
	RecallMemory(channel int) error
	StoreMemory(channel int) error
	TransferMemory(channel int) error

	// Status
	GetVFOStatus() (protocol.VFOStatus, error)
	GetBothVFOStatus() (active, inactive protocol.VFOStatus, err error)
	ReadFlags() (protocol.RadioFlags, error)

	// Radio information
	GetRadioInfo() RadioInfo
}

// RadioInfo describes the radio behind a RadioInterface
type RadioInfo struct {
	Model        string   `json:"model"`
	Manufacturer string   `json:"manufacturer"`
	Port         string   `json:"port"`
	Simulated    bool     `json:"simulated"`
	Capabilities []string `json:"capabilities"`
}

// Frequency range accepted by the set-frequency commands, inclusive
const (
	MinFrequency = 100_000
	MaxFrequency = 30_000_000
)

// MaxClarifierOffset is the radio's clarifier range in Hz
const MaxClarifierOffset = 9_990

var capabilities = []string{
	"Frequency Control",
	"Mode Control",
	"VFO Control",
	"Split",
	"Clarifier",
	"PTT Control",
	"Memory Channels",
	"Status Readback",
}

package hardware

import (
	"fmt"

	"github.com/dougsko/ft1000cat/pkg/logging"
	"github.com/dougsko/ft1000cat/pkg/protocol"
	"github.com/dougsko/ft1000cat/pkg/transport"
)

const component = "radio"

// Sender is the transport the facade drives. *transport.Transport
// implements it.
type Sender interface {
	Open() error
	Close() error
	IsOpen() bool
	Send(frame protocol.Frame, responseLen int) ([]byte, error)
}

// FT1000MP controls a Yaesu FT-1000MP over CAT. Inputs are validated
// before any bytes are sent; each method performs at most one exchange.
type FT1000MP struct {
	link Sender
	info RadioInfo
}

// NewFT1000MP creates a facade over an existing transport
func NewFT1000MP(link Sender) *FT1000MP {
	return &FT1000MP{
		link: link,
		info: RadioInfo{
			Model:        "FT-1000MP",
			Manufacturer: "Yaesu",
			Capabilities: capabilities,
		},
	}
}

// NewSerialFT1000MP creates a facade that talks to a serial port
func NewSerialFT1000MP(cfg transport.Config, opts ...transport.Option) *FT1000MP {
	r := NewFT1000MP(transport.New(cfg, opts...))
	r.info.Port = cfg.Port
	return r
}

// NewSimulatedFT1000MP creates a facade wired to sim through a real
// transport, so framing, pacing and retries run exactly as on hardware.
func NewSimulatedFT1000MP(sim *Simulator, cfg transport.Config, opts ...transport.Option) *FT1000MP {
	opts = append([]transport.Option{transport.WithOpener(sim.Opener())}, opts...)
	r := NewFT1000MP(transport.New(cfg, opts...))
	r.info.Port = "simulator"
	r.info.Simulated = true
	return r
}

// Open opens the session
func (r *FT1000MP) Open() error {
	if err := r.link.Open(); err != nil {
		return err
	}
	logging.Infof(component, "%s %s connected on %s", r.info.Manufacturer, r.info.Model, r.info.Port)
	return nil
}

// Close closes the session
func (r *FT1000MP) Close() error {
	return r.link.Close()
}

// IsConnected reports whether the session is open
func (r *FT1000MP) IsConnected() bool {
	return r.link.IsOpen()
}

// GetRadioInfo describes the radio
func (r *FT1000MP) GetRadioInfo() RadioInfo {
	info := r.info
	info.Capabilities = append([]string(nil), r.info.Capabilities...)
	return info
}

func (r *FT1000MP) command(frame protocol.Frame) error {
	_, err := r.link.Send(frame, protocol.NoResponse)
	return err
}

func validFrequency(hz int) error {
	if hz < MinFrequency || hz > MaxFrequency {
		return &FrequencyError{Frequency: hz}
	}
	return nil
}

func validChannel(ch int) error {
	if ch < protocol.MinChannel || ch > protocol.MaxChannel {
		return &ChannelError{Channel: ch}
	}
	return nil
}

// SetFrequencyA sets VFO-A in Hz. Sub-10 Hz digits are dropped.
func (r *FT1000MP) SetFrequencyA(hz int) error {
	return r.SetFrequency(protocol.VFOA, hz)
}

// SetFrequencyB sets VFO-B in Hz. Sub-10 Hz digits are dropped.
func (r *FT1000MP) SetFrequencyB(hz int) error {
	return r.SetFrequency(protocol.VFOB, hz)
}

// SetFrequency sets the frequency of either VFO
func (r *FT1000MP) SetFrequency(vfo protocol.VFO, hz int) error {
	if err := validFrequency(hz); err != nil {
		return err
	}

	var frame protocol.Frame
	switch vfo {
	case protocol.VFOA:
		frame = protocol.SetFrequencyA(hz)
	case protocol.VFOB:
		frame = protocol.SetFrequencyB(hz)
	default:
		return fmt.Errorf("%w: %s", protocol.ErrInvalidVFO, vfo)
	}

	logging.Debugf(component, "Setting VFO-%s to %d Hz", vfo, hz)
	return r.command(frame)
}

// SetMode sets the VFO-A mode by name, ignoring case
func (r *FT1000MP) SetMode(name string) error {
	return r.SetModeFor(protocol.VFOA, name)
}

// SetModeB sets the VFO-B mode by name, ignoring case
func (r *FT1000MP) SetModeB(name string) error {
	return r.SetModeFor(protocol.VFOB, name)
}

// SetModeFor sets the mode of either VFO by name, ignoring case
func (r *FT1000MP) SetModeFor(vfo protocol.VFO, name string) error {
	mode, ok := protocol.ParseMode(name)
	if !ok {
		return &ModeError{Name: name}
	}
	if vfo != protocol.VFOA && vfo != protocol.VFOB {
		return fmt.Errorf("%w: %s", protocol.ErrInvalidVFO, vfo)
	}

	frame, err := protocol.SetMode(mode, vfo == protocol.VFOB)
	if err != nil {
		return err
	}

	logging.Debugf(component, "Setting VFO-%s mode to %s", vfo, mode)
	return r.command(frame)
}

// SelectVFO switches the active VFO.
//
// Frequencies read back after a raw switch are not always trustworthy on
// this radio. Prefer SetFrequency and SetModeFor, which address a VFO
// directly, and use GetBothVFOStatus (active VFO first) to read state.
func (r *FT1000MP) SelectVFO(vfo protocol.VFO) error {
	frame, err := protocol.SelectVFO(vfo)
	if err != nil {
		return err
	}
	logging.Debugf(component, "Selecting VFO-%s", vfo)
	return r.command(frame)
}

// CopyVFOAToB copies VFO-A to VFO-B
func (r *FT1000MP) CopyVFOAToB() error {
	return r.command(protocol.CopyVFOAToB())
}

// SetSplit turns split operation on or off
func (r *FT1000MP) SetSplit(on bool) error {
	return r.command(protocol.Split(on))
}

// SetClarifier turns the clarifier (RIT) on or off
func (r *FT1000MP) SetClarifier(on bool) error {
	return r.command(protocol.Clarifier(on))
}

// SetClarifierOffset sets the clarifier offset in Hz, up to +/-9.99 kHz
func (r *FT1000MP) SetClarifierOffset(hz int) error {
	if hz < -MaxClarifierOffset || hz > MaxClarifierOffset {
		return &OffsetError{Offset: hz}
	}
	return r.command(protocol.ClarifierOffset(hz))
}

// SetPTT keys or unkeys the transmitter
func (r *FT1000MP) SetPTT(on bool) error {
	if on {
		logging.Infof(component, "PTT ON")
	} else {
		logging.Infof(component, "PTT OFF")
	}
	return r.command(protocol.PTT(on))
}

// SetPacing sets the delay the radio inserts between response bytes
func (r *FT1000MP) SetPacing(ms uint8) error {
	return r.command(protocol.Pacing(ms))
}

// RecallMemory selects a memory channel (1-99) and enters memory mode
func (r *FT1000MP) RecallMemory(channel int) error {
	return r.memory(protocol.RecallMemory, channel)
}

// StoreMemory writes the active VFO into a channel (1-99). Recall the
// channel first so the radio's channel pointer matches.
func (r *FT1000MP) StoreMemory(channel int) error {
	return r.memory(protocol.StoreMemory, channel)
}

// TransferMemory copies a channel (1-99) into the active VFO
func (r *FT1000MP) TransferMemory(channel int) error {
	return r.memory(protocol.TransferMemory, channel)
}

func (r *FT1000MP) memory(build func(int) (protocol.Frame, error), channel int) error {
	if err := validChannel(channel); err != nil {
		return err
	}
	frame, err := build(channel)
	if err != nil {
		return err
	}
	logging.Debugf(component, "%s channel %d", frame.Opcode(), channel)
	return r.command(frame)
}

// GetVFOStatus reads the active VFO
func (r *FT1000MP) GetVFOStatus() (protocol.VFOStatus, error) {
	frame, err := protocol.StatusUpdate(protocol.StatusCurrent)
	if err != nil {
		return protocol.VFOStatus{}, err
	}
	data, err := r.link.Send(frame, protocol.VFOBlockSize)
	if err != nil {
		return protocol.VFOStatus{}, err
	}
	return protocol.ParseVFOStatus(data)
}

// GetBothVFOStatus reads both VFOs. The first result is whichever VFO is
// active, not necessarily VFO-A.
func (r *FT1000MP) GetBothVFOStatus() (active, inactive protocol.VFOStatus, err error) {
	frame, err := protocol.StatusUpdate(protocol.StatusBoth)
	if err != nil {
		return active, inactive, err
	}
	data, err := r.link.Send(frame, protocol.DualVFOSize)
	if err != nil {
		return active, inactive, err
	}
	return protocol.ParseDualVFOStatus(data)
}

// ReadFlags reads the status flags. The Clarifier flag is unreliable; use
// the RIT field of GetVFOStatus instead.
func (r *FT1000MP) ReadFlags() (protocol.RadioFlags, error) {
	data, err := r.link.Send(protocol.ReadFlags(), protocol.FlagsResponseSize)
	if err != nil {
		return protocol.RadioFlags{}, err
	}
	return protocol.ParseFlags(data)
}

var _ RadioInterface = (*FT1000MP)(nil)

package hardware

import (
	"errors"
	"sync"

	"github.com/dougsko/ft1000cat/pkg/codec"
	"github.com/dougsko/ft1000cat/pkg/logging"
	"github.com/dougsko/ft1000cat/pkg/protocol"
	"github.com/dougsko/ft1000cat/pkg/transport"
)

var errSimulatorClosed = errors.New("simulator port is closed")

// SimVFO is the simulated state of one VFO
type SimVFO struct {
	Frequency int
	Mode      protocol.Mode
	Qualifier bool
	Clarifier int
	RIT       bool
	XIT       bool
}

type simMemory struct {
	valid bool
	vfo   SimVFO
}

// Simulator is an in-memory FT-1000MP that speaks CAT. It implements
// transport.Port: frames written to it are decoded and applied, and status
// requests are answered in the radio's encoding with the active VFO first.
//
// Like the real radio, it never sets the clarifier bit of the flags
// response.
type Simulator struct {
	mutex sync.RWMutex

	closed     bool
	inbuf      []byte
	outbuf     []byte
	received   []protocol.Frame
	dropNext   int
	truncNext  int
	vfos       [2]SimVFO
	active     protocol.VFO
	split      bool
	ptt        bool
	memoryMode bool
	channel    int
	memories   [protocol.MaxChannel + 1]simMemory
	pacing     byte
}

// NewSimulator creates a simulator tuned to 14.074 MHz USB on both VFOs
func NewSimulator() *Simulator {
	s := &Simulator{closed: true}
	for i := range s.vfos {
		s.vfos[i] = SimVFO{Frequency: 14_074_000, Mode: protocol.ModeUSB}
	}
	return s
}

// Opener returns a transport opener that connects to the simulator
func (s *Simulator) Opener() transport.Opener {
	return func(transport.Config) (transport.Port, error) {
		s.mutex.Lock()
		defer s.mutex.Unlock()
		s.closed = false
		s.inbuf = nil
		s.outbuf = nil
		logging.Infof("simulator", "Simulated FT-1000MP connected")
		return s, nil
	}
}

// DropResponses discards the next n responses, as if the radio missed the
// commands.
func (s *Simulator) DropResponses(n int) {
	s.mutex.Lock()
	s.dropNext = n
	s.mutex.Unlock()
}

// TruncateResponses cuts the next n responses in half.
func (s *Simulator) TruncateResponses(n int) {
	s.mutex.Lock()
	s.truncNext = n
	s.mutex.Unlock()
}

// Received returns every complete frame written so far
func (s *Simulator) Received() []protocol.Frame {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return append([]protocol.Frame(nil), s.received...)
}

// VFO returns the simulated state of a VFO
func (s *Simulator) VFO(v protocol.VFO) SimVFO {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.vfos[v&1]
}

// SetVFO replaces the simulated state of a VFO
func (s *Simulator) SetVFO(v protocol.VFO, st SimVFO) {
	s.mutex.Lock()
	s.vfos[v&1] = st
	s.mutex.Unlock()
}

// Active returns the active VFO
func (s *Simulator) Active() protocol.VFO {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.active
}

// Split reports whether split is on
func (s *Simulator) Split() bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.split
}

// PTT reports whether the transmitter is keyed
func (s *Simulator) PTT() bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.ptt
}

// Memory returns the stored contents of a channel
func (s *Simulator) Memory(channel int) (SimVFO, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if channel < protocol.MinChannel || channel > protocol.MaxChannel {
		return SimVFO{}, false
	}
	m := s.memories[channel]
	return m.vfo, m.valid
}

// MemoryMode reports whether a channel is recalled and which one
func (s *Simulator) MemoryMode() (bool, int) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.memoryMode, s.channel
}

// Pacing returns the last pacing interval set
func (s *Simulator) Pacing() byte {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.pacing
}

// Write accepts command bytes. Every fifth byte completes a frame.
func (s *Simulator) Write(p []byte) (int, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed {
		return 0, errSimulatorClosed
	}
	for _, b := range p {
		s.inbuf = append(s.inbuf, b)
		if len(s.inbuf) == protocol.FrameSize {
			var f protocol.Frame
			copy(f[:], s.inbuf)
			s.inbuf = s.inbuf[:0]
			s.handle(f)
		}
	}
	return len(p), nil
}

// Read returns pending response bytes, or 0 when there are none.
func (s *Simulator) Read(p []byte) (int, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed {
		return 0, errSimulatorClosed
	}
	n := copy(p, s.outbuf)
	s.outbuf = s.outbuf[n:]
	return n, nil
}

func (s *Simulator) ResetInputBuffer() error {
	s.mutex.Lock()
	s.outbuf = nil
	s.mutex.Unlock()
	return nil
}

func (s *Simulator) ResetOutputBuffer() error {
	s.mutex.Lock()
	s.inbuf = s.inbuf[:0]
	s.mutex.Unlock()
	return nil
}

// Close disconnects the simulator. State survives for the next open.
func (s *Simulator) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.closed = true
	return nil
}

func (s *Simulator) reply(b []byte) {
	switch {
	case s.dropNext > 0:
		s.dropNext--
		logging.Debugf("simulator", "Dropping %d byte response", len(b))
	case s.truncNext > 0:
		s.truncNext--
		s.outbuf = append(s.outbuf, b[:len(b)/2]...)
	default:
		s.outbuf = append(s.outbuf, b...)
	}
}

func (s *Simulator) handle(f protocol.Frame) {
	s.received = append(s.received, f)
	p4 := f[3]
	cur := &s.vfos[s.active]

	switch f.Opcode() {
	case protocol.OpSetFreqA:
		s.vfos[protocol.VFOA].Frequency = codec.DecodeForSet(f[:4])
	case protocol.OpSetFreqB:
		s.vfos[protocol.VFOB].Frequency = codec.DecodeForSet(f[:4])
	case protocol.OpSetMode:
		target := protocol.VFOA
		if p4&0x80 != 0 {
			target = protocol.VFOB
		}
		if m, ok := protocol.ModeFromSetCode(p4 &^ 0x80); ok {
			s.vfos[target].Mode = m
			s.vfos[target].Qualifier = m == protocol.ModeCW
		}
	case protocol.OpSelectVFO:
		if p4 == byte(protocol.VFOA) || p4 == byte(protocol.VFOB) {
			s.active = protocol.VFO(p4)
		}
	case protocol.OpCopyVFOAToB:
		s.vfos[protocol.VFOB] = s.vfos[protocol.VFOA]
	case protocol.OpSplit:
		s.split = p4 != 0
	case protocol.OpClarifier:
		if p4 == 0xFF {
			cur.Clarifier = codec.DecodeClarifierOffset(f[0], f[1], f[2])
		} else {
			cur.RIT = p4 != 0
		}
	case protocol.OpPTT:
		s.ptt = p4 != 0
	case protocol.OpRecallMemory:
		if validChannel(int(p4)) == nil {
			s.memoryMode = true
			s.channel = int(p4)
		}
	case protocol.OpVFOToMemory:
		if validChannel(int(p4)) == nil {
			s.memories[p4] = simMemory{valid: true, vfo: *cur}
		}
	case protocol.OpMemoryToVFO:
		if validChannel(int(p4)) == nil && s.memories[p4].valid {
			*cur = s.memories[p4].vfo
			s.memoryMode = false
		}
	case protocol.OpPacing:
		s.pacing = p4
	case protocol.OpStatusUpdate:
		switch protocol.StatusTarget(p4) {
		case protocol.StatusCurrent:
			s.reply(s.block(s.active))
		case protocol.StatusBoth:
			s.reply(append(s.block(s.active), s.block(s.active^1)...))
		}
	case protocol.OpReadFlags:
		s.reply(s.flags())
	default:
		logging.Debugf("simulator", "Ignoring %s", f)
	}
}

// block encodes a VFO the way the radio reports it
func (s *Simulator) block(v protocol.VFO) []byte {
	st := s.vfos[v]
	b := make([]byte, protocol.VFOBlockSize)
	freq := codec.EncodeForStatus(st.Frequency)
	copy(b[1:5], freq[:])
	clar := codec.EncodeClarifierStatus(st.Clarifier)
	copy(b[5:7], clar[:])
	b[7] = byte(st.Mode) & 0x07
	if st.Qualifier {
		b[8] = 0x80
	}
	if st.XIT {
		b[9] |= 0x01
	}
	if st.RIT {
		b[9] |= 0x02
	}
	return b
}

func (s *Simulator) flags() []byte {
	var b byte
	if s.split {
		b |= protocol.FlagSplit
	}
	if s.active == protocol.VFOB {
		b |= protocol.FlagVFOB
	}
	if s.ptt {
		b |= protocol.FlagTransmitting
	}
	return []byte{b, 0, 0, 0, 0}
}

var _ transport.Port = (*Simulator)(nil)

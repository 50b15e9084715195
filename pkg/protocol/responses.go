package protocol

import "github.com/dougsko/ft1000cat/pkg/codec"

// VFOStatus is one decoded 16-byte status block.
type VFOStatus struct {
	Frequency int    `json:"frequency"`
	Mode      Mode   `json:"-"`
	ModeName  string `json:"mode"`
	UserMode  bool   `json:"user_mode"`
	Clarifier int    `json:"clarifier_offset"`
	RIT       bool   `json:"rit"`
	XIT       bool   `json:"xit"`
}

// RadioFlags is the decoded first byte of a flags response.
//
// Clarifier does not reliably track the radio's clarifier state. Use
// VFOStatus.RIT instead.
type RadioFlags struct {
	Split        bool `json:"split"`
	Clarifier    bool `json:"clarifier"`
	VFOBSelected bool `json:"vfo_b_selected"`
	Transmitting bool `json:"transmitting"`
	Priority     bool `json:"priority"`
	Raw          byte `json:"raw"`
}

// ParseVFOStatus decodes the first 16 bytes of block. Mode codes outside the
// table are reported as UNKNOWN rather than rejected.
func ParseVFOStatus(block []byte) (VFOStatus, error) {
	if len(block) < VFOBlockSize {
		return VFOStatus{}, &ShortResponseError{What: "vfo status", Want: VFOBlockSize, Got: len(block)}
	}

	mode := Mode(block[offsetMode] & modeMask)
	qualifier := block[offsetFilter]&qualifierBit != 0

	return VFOStatus{
		Frequency: codec.DecodeFromStatus(block[offsetFrequency:]),
		Mode:      mode,
		ModeName:  SubModeName(mode, qualifier),
		UserMode:  block[offsetMode]&userModeBit != 0,
		Clarifier: codec.DecodeClarifier(block[offsetClarifier:]),
		RIT:       block[offsetRITXIT]&ritBit != 0,
		XIT:       block[offsetRITXIT]&xitBit != 0,
	}, nil
}

// ParseDualVFOStatus decodes a 32-byte response. The radio sends the active
// VFO first, so after switching to B the first result describes VFO-B.
func ParseDualVFOStatus(buf []byte) (active, inactive VFOStatus, err error) {
	if len(buf) < DualVFOSize {
		return VFOStatus{}, VFOStatus{}, &ShortResponseError{What: "dual vfo status", Want: DualVFOSize, Got: len(buf)}
	}
	if active, err = ParseVFOStatus(buf[:VFOBlockSize]); err != nil {
		return VFOStatus{}, VFOStatus{}, err
	}
	if inactive, err = ParseVFOStatus(buf[VFOBlockSize:DualVFOSize]); err != nil {
		return VFOStatus{}, VFOStatus{}, err
	}
	return active, inactive, nil
}

// ParseFlags decodes a 5-byte flags response. Only byte 0 carries data.
func ParseFlags(buf []byte) (RadioFlags, error) {
	if len(buf) < FlagsResponseSize {
		return RadioFlags{}, &ShortResponseError{What: "flags", Want: FlagsResponseSize, Got: len(buf)}
	}
	b := buf[0]
	return RadioFlags{
		Split:        b&FlagSplit != 0,
		Clarifier:    b&FlagClarifier != 0,
		VFOBSelected: b&FlagVFOB != 0,
		Transmitting: b&FlagTransmitting != 0,
		Priority:     b&FlagPriority != 0,
		Raw:          b,
	}, nil
}

package protocol

import (
	"errors"
	"testing"

	"github.com/dougsko/ft1000cat/pkg/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// block builds a synthetic 16-byte status block the way the radio lays it out.
func block(hz int, modeByte, filterByte, ritxit byte, clar int) []byte {
	b := make([]byte, VFOBlockSize)
	b[0] = 0xAA // ignored
	f := codec.EncodeForStatus(hz)
	copy(b[1:5], f[:])
	c := codec.EncodeClarifierStatus(clar)
	copy(b[5:7], c[:])
	b[7] = modeByte
	b[8] = filterByte
	b[9] = ritxit
	return b
}

func TestParseVFOStatus(t *testing.T) {
	t.Run("Fields", func(t *testing.T) {
		st, err := ParseVFOStatus(block(14_195_000, byte(ModeUSB), 0, 0x02, -500))
		require.NoError(t, err)

		assert.InDelta(t, 14_195_000, st.Frequency, 10)
		assert.Equal(t, ModeUSB, st.Mode)
		assert.Equal(t, "USB", st.ModeName)
		assert.InDelta(t, -500, st.Clarifier, 10)
		assert.True(t, st.RIT)
		assert.False(t, st.XIT)
		assert.False(t, st.UserMode)
	})

	t.Run("XIT And User Mode", func(t *testing.T) {
		st, err := ParseVFOStatus(block(7_000_000, 0x80|byte(ModeLSB), 0, 0x01, 0))
		require.NoError(t, err)
		assert.Equal(t, ModeLSB, st.Mode)
		assert.True(t, st.UserMode)
		assert.True(t, st.XIT)
		assert.False(t, st.RIT)
	})

	t.Run("Sub Modes", func(t *testing.T) {
		cases := []struct {
			mode      Mode
			qualifier bool
			want      string
		}{
			{ModeCW, false, "CW-R"},
			{ModeCW, true, "CW"},
			{ModeAM, false, "AM"},
			{ModeAM, true, "SAM"},
			{ModeRTTY, false, "RTTY"},
			{ModeRTTY, true, "RTTY-R"},
			{ModePKT, false, "PKT-L"},
			{ModePKT, true, "PKT-FM"},
			{ModeFM, true, "FM"},
		}
		for _, c := range cases {
			var filter byte
			if c.qualifier {
				filter = 0x80
			}
			st, err := ParseVFOStatus(block(14_000_000, byte(c.mode), filter, 0, 0))
			require.NoError(t, err)
			if st.ModeName != c.want {
				t.Errorf("Expected %s, got %s", c.want, st.ModeName)
			}
		}
	})

	t.Run("Unknown Mode", func(t *testing.T) {
		st, err := ParseVFOStatus(block(14_000_000, 0x07, 0, 0, 0))
		require.NoError(t, err)
		assert.Equal(t, "UNKNOWN(0x07)", st.ModeName)
	})

	t.Run("Short Block", func(t *testing.T) {
		_, err := ParseVFOStatus(make([]byte, 15))
		var short *ShortResponseError
		require.True(t, errors.As(err, &short))
		assert.Equal(t, 16, short.Want)
		assert.Equal(t, 15, short.Got)
	})
}

func TestParseDualVFOStatus(t *testing.T) {
	first := block(14_074_000, byte(ModeUSB), 0, 0x02, 200)
	second := block(3_573_000, byte(ModeLSB), 0, 0x01, -100)
	buf := append(append([]byte{}, first...), second...)

	active, inactive, err := ParseDualVFOStatus(buf)
	require.NoError(t, err)

	wantActive, _ := ParseVFOStatus(first)
	wantInactive, _ := ParseVFOStatus(second)
	assert.Equal(t, wantActive, active)
	assert.Equal(t, wantInactive, inactive)
	assert.NotEqual(t, active.Frequency, inactive.Frequency)

	_, _, err = ParseDualVFOStatus(buf[:31])
	assert.Error(t, err)
}

func TestParseFlags(t *testing.T) {
	t.Run("All Set", func(t *testing.T) {
		f, err := ParseFlags([]byte{0x01 | 0x04 | 0x10 | 0x20 | 0x80, 0, 0, 0, 0})
		require.NoError(t, err)
		assert.True(t, f.Split)
		assert.True(t, f.Clarifier)
		assert.True(t, f.VFOBSelected)
		assert.True(t, f.Transmitting)
		assert.True(t, f.Priority)
		assert.Equal(t, byte(0xB5), f.Raw)
	})

	t.Run("Individual Bits", func(t *testing.T) {
		f, err := ParseFlags([]byte{FlagTransmitting, 0xFF, 0xFF, 0xFF, 0xFF})
		require.NoError(t, err)
		assert.Equal(t, RadioFlags{Transmitting: true, Raw: FlagTransmitting}, f)
	})

	t.Run("Short", func(t *testing.T) {
		_, err := ParseFlags([]byte{0x01})
		assert.Error(t, err)
	})
}

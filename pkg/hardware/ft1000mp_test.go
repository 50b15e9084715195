package hardware

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dougsko/ft1000cat/pkg/protocol"
	"github.com/dougsko/ft1000cat/pkg/transport"
)

func noSleep(time.Duration) {}

func newSimulatedRadio(t *testing.T) (*FT1000MP, *Simulator) {
	t.Helper()
	sim := NewSimulator()
	radio := NewSimulatedFT1000MP(sim, transport.DefaultConfig(), transport.WithSleep(noSleep))
	require.NoError(t, radio.Open())
	t.Cleanup(func() { radio.Close() })
	return radio, sim
}

// mockSender records frames without a transport
type mockSender struct {
	mock.Mock
}

func (m *mockSender) Open() error  { return m.Called().Error(0) }
func (m *mockSender) Close() error { return m.Called().Error(0) }
func (m *mockSender) IsOpen() bool { return m.Called().Bool(0) }

func (m *mockSender) Send(frame protocol.Frame, responseLen int) ([]byte, error) {
	args := m.Called(frame, responseLen)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

func TestFrequencyValidation(t *testing.T) {
	cases := []struct {
		hz    int
		valid bool
	}{
		{MinFrequency - 1, false},
		{MinFrequency, true},
		{14_074_000, true},
		{MaxFrequency, true},
		{MaxFrequency + 1, false},
		{0, false},
		{-7_000_000, false},
	}

	for _, c := range cases {
		sender := &mockSender{}
		radio := NewFT1000MP(sender)
		if c.valid {
			sender.On("Send", mock.Anything, protocol.NoResponse).Return(nil, nil).Twice()
		}

		errA := radio.SetFrequencyA(c.hz)
		errB := radio.SetFrequencyB(c.hz)

		if c.valid {
			assert.NoError(t, errA, "frequency %d", c.hz)
			assert.NoError(t, errB, "frequency %d", c.hz)
		} else {
			assert.ErrorIs(t, errA, ErrInvalidFrequency, "frequency %d", c.hz)
			assert.ErrorIs(t, errB, ErrInvalidFrequency, "frequency %d", c.hz)
			var fe *FrequencyError
			require.True(t, errors.As(errA, &fe))
			assert.Equal(t, c.hz, fe.Frequency)
			sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
		}
		sender.AssertExpectations(t)
	}
}

func TestValidationSendsNothing(t *testing.T) {
	sender := &mockSender{}
	radio := NewFT1000MP(sender)

	assert.ErrorIs(t, radio.SetMode("SSB"), ErrInvalidMode)
	assert.ErrorIs(t, radio.SetModeB(""), ErrInvalidMode)
	assert.ErrorIs(t, radio.RecallMemory(0), ErrInvalidChannel)
	assert.ErrorIs(t, radio.StoreMemory(100), ErrInvalidChannel)
	assert.ErrorIs(t, radio.TransferMemory(-5), ErrInvalidChannel)
	assert.ErrorIs(t, radio.SetClarifierOffset(10_000), ErrInvalidOffset)
	assert.ErrorIs(t, radio.SelectVFO(protocol.VFO(3)), protocol.ErrInvalidVFO)

	err := radio.SetMode("bogus")
	var me *ModeError
	require.True(t, errors.As(err, &me))
	assert.Equal(t, "bogus", me.Name)
	assert.Contains(t, err.Error(), "USB")
	assert.True(t, IsValidationError(err))

	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestFramesSent(t *testing.T) {
	sender := &mockSender{}
	radio := NewFT1000MP(sender)

	expect := func(f protocol.Frame) {
		sender.On("Send", f, protocol.NoResponse).Return(nil, nil).Once()
	}

	expect(protocol.Frame{0x00, 0x74, 0x70, 0x00, 0x8A})
	require.NoError(t, radio.SetFrequencyB(7_074_000))

	expect(protocol.Frame{0, 0, 0, 0x84, 0x0C})
	require.NoError(t, radio.SetModeB("am"))

	expect(protocol.Frame{0, 0, 0, 0x0A, 0x0C})
	require.NoError(t, radio.SetMode("Pkt"))

	expect(protocol.Frame{0x50, 0x00, 0x00, 0xFF, 0x09})
	require.NoError(t, radio.SetClarifierOffset(500))

	expect(protocol.Frame{0, 0, 0, 42, 0x02})
	require.NoError(t, radio.RecallMemory(42))

	expect(protocol.Frame{0, 0, 0, 1, 0x0F})
	require.NoError(t, radio.SetPTT(true))

	sender.AssertExpectations(t)
}

func TestStatusPropagatesTimeout(t *testing.T) {
	sender := &mockSender{}
	radio := NewFT1000MP(sender)
	timeout := &transport.TimeoutError{Opcode: protocol.OpReadFlags, Expected: 5, Attempts: 6}
	sender.On("Send", protocol.ReadFlags(), protocol.FlagsResponseSize).Return(nil, timeout)

	_, err := radio.ReadFlags()
	assert.ErrorIs(t, err, transport.ErrTimeout)
	assert.False(t, IsValidationError(err))
}

func TestSimulatedRadio(t *testing.T) {
	radio, sim := newSimulatedRadio(t)

	t.Run("Frequency And Mode", func(t *testing.T) {
		require.NoError(t, radio.SetFrequencyA(7_074_009))
		require.NoError(t, radio.SetMode("lsb"))

		st, err := radio.GetVFOStatus()
		require.NoError(t, err)
		assert.InDelta(t, 7_074_000, st.Frequency, 10)
		assert.Equal(t, protocol.ModeLSB, st.Mode)
		assert.Equal(t, "LSB", st.ModeName)
		assert.Equal(t, 7_074_000, sim.VFO(protocol.VFOA).Frequency, "sub-10 Hz digits are truncated")
	})

	t.Run("Independent VFOs", func(t *testing.T) {
		require.NoError(t, radio.SetFrequencyB(21_074_000))
		require.NoError(t, radio.SetModeB("CW"))

		active, inactive, err := radio.GetBothVFOStatus()
		require.NoError(t, err)
		assert.InDelta(t, 7_074_000, active.Frequency, 10)
		assert.InDelta(t, 21_074_000, inactive.Frequency, 10)
		assert.Equal(t, "CW", inactive.ModeName)
	})

	t.Run("Active VFO First After Switch", func(t *testing.T) {
		require.NoError(t, radio.SelectVFO(protocol.VFOB))

		active, inactive, err := radio.GetBothVFOStatus()
		require.NoError(t, err)
		assert.InDelta(t, 21_074_000, active.Frequency, 10)
		assert.InDelta(t, 7_074_000, inactive.Frequency, 10)

		flags, err := radio.ReadFlags()
		require.NoError(t, err)
		assert.True(t, flags.VFOBSelected)

		require.NoError(t, radio.SelectVFO(protocol.VFOA))
	})

	t.Run("Clarifier Uses RIT", func(t *testing.T) {
		require.NoError(t, radio.SetClarifier(true))
		require.NoError(t, radio.SetClarifierOffset(-1200))

		st, err := radio.GetVFOStatus()
		require.NoError(t, err)
		assert.True(t, st.RIT)
		assert.InDelta(t, -1200, st.Clarifier, 10)

		flags, err := radio.ReadFlags()
		require.NoError(t, err)
		assert.False(t, flags.Clarifier, "flags response does not track the clarifier")

		require.NoError(t, radio.SetClarifier(false))
	})

	t.Run("Split PTT Copy", func(t *testing.T) {
		require.NoError(t, radio.SetSplit(true))
		require.NoError(t, radio.SetPTT(true))

		flags, err := radio.ReadFlags()
		require.NoError(t, err)
		assert.True(t, flags.Split)
		assert.True(t, flags.Transmitting)

		require.NoError(t, radio.SetPTT(false))
		require.NoError(t, radio.SetSplit(false))
		assert.False(t, sim.PTT())

		require.NoError(t, radio.CopyVFOAToB())
		assert.Equal(t, sim.VFO(protocol.VFOA), sim.VFO(protocol.VFOB))
	})

	t.Run("Memory", func(t *testing.T) {
		require.NoError(t, radio.SetFrequencyA(3_573_000))
		require.NoError(t, radio.RecallMemory(12))
		require.NoError(t, radio.StoreMemory(12))

		stored, ok := sim.Memory(12)
		require.True(t, ok)
		assert.Equal(t, 3_573_000, stored.Frequency)

		require.NoError(t, radio.SetFrequencyA(28_074_000))
		require.NoError(t, radio.TransferMemory(12))
		st, err := radio.GetVFOStatus()
		require.NoError(t, err)
		assert.InDelta(t, 3_573_000, st.Frequency, 10)
	})

	t.Run("Pacing", func(t *testing.T) {
		require.NoError(t, radio.SetPacing(3))
		assert.Equal(t, byte(3), sim.Pacing())
	})
}

func TestSimulatedRetries(t *testing.T) {
	radio, sim := newSimulatedRadio(t)

	t.Run("Recovers From Dropped Responses", func(t *testing.T) {
		sim.DropResponses(2)
		before := len(sim.Received())

		_, err := radio.GetVFOStatus()
		require.NoError(t, err)
		assert.Equal(t, 3, len(sim.Received())-before, "each retry resends the frame")
	})

	t.Run("Recovers From Short Responses", func(t *testing.T) {
		sim.TruncateResponses(1)
		_, _, err := radio.GetBothVFOStatus()
		require.NoError(t, err)
	})

	t.Run("Times Out", func(t *testing.T) {
		sim.DropResponses(100)
		defer sim.DropResponses(0)

		_, err := radio.ReadFlags()
		var te *transport.TimeoutError
		require.True(t, errors.As(err, &te))
		assert.Equal(t, protocol.OpReadFlags, te.Opcode)
		assert.Equal(t, protocol.FlagsResponseSize, te.Expected)
		assert.Equal(t, 6, te.Attempts)
	})
}

func TestClosedRadio(t *testing.T) {
	sim := NewSimulator()
	radio := NewSimulatedFT1000MP(sim, transport.DefaultConfig(), transport.WithSleep(noSleep))

	assert.False(t, radio.IsConnected())
	err := radio.SetPTT(true)
	assert.ErrorIs(t, err, transport.ErrConnection)
	assert.Empty(t, sim.Received())

	info := radio.GetRadioInfo()
	assert.Equal(t, "FT-1000MP", info.Model)
	assert.True(t, info.Simulated)
}

// Package transport owns the serial session to the radio and runs each
// command as a synchronous write/read exchange with retries.
//
// A Transport is single-caller. Send blocks until the command completes or
// times out and must not be called concurrently; callers that share a
// Transport serialize access themselves.
package transport

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dougsko/ft1000cat/pkg/logging"
	"github.com/dougsko/ft1000cat/pkg/protocol"
	"github.com/dougsko/ft1000cat/pkg/trace"
)

const component = "transport"

// Config describes the serial line and retry discipline. It is always
// passed explicitly; nothing is read from the environment.
type Config struct {
	Port     string
	BaudRate int
	DataBits int
	StopBits int

	// Timeout bounds each response read and is also the pause before a
	// resend.
	Timeout time.Duration

	// Retries is the total number of attempts per command.
	Retries int

	InterByteDelay time.Duration
	SettleDelay    time.Duration

	// RTS and DTR override the line state when non-nil.
	RTS *bool
	DTR *bool
}

// DefaultConfig returns the FT-1000MP line settings: 4800 baud 8N2,
// 400 ms timeout, 6 attempts, 5 ms between bytes and after the frame.
func DefaultConfig() Config {
	return Config{
		BaudRate:       4800,
		DataBits:       8,
		StopBits:       2,
		Timeout:        400 * time.Millisecond,
		Retries:        6,
		InterByteDelay: 5 * time.Millisecond,
		SettleDelay:    5 * time.Millisecond,
	}
}

// Option customizes a Transport.
type Option func(*Transport)

// WithOpener replaces the serial port opener.
func WithOpener(o Opener) Option {
	return func(t *Transport) { t.opener = o }
}

// WithSleep replaces time.Sleep for pacing and retry delays.
func WithSleep(sleep func(time.Duration)) Option {
	return func(t *Transport) { t.sleep = sleep }
}

// WithRecorder traces every frame written and response read.
func WithRecorder(r trace.Recorder) Option {
	return func(t *Transport) { t.recorder = r }
}

// Transport is one serial session to the radio.
type Transport struct {
	cfg      Config
	opener   Opener
	sleep    func(time.Duration)
	now      func() time.Time
	recorder trace.Recorder

	port    Port
	session string
	state   State
}

// New returns a closed transport. Zero-valued Retries and Timeout fall back
// to the defaults.
func New(cfg Config, opts ...Option) *Transport {
	def := DefaultConfig()
	if cfg.Retries <= 0 {
		cfg.Retries = def.Retries
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.BaudRate == 0 {
		cfg.BaudRate = def.BaudRate
	}
	if cfg.DataBits == 0 {
		cfg.DataBits = def.DataBits
	}
	if cfg.StopBits == 0 {
		cfg.StopBits = def.StopBits
	}

	t := &Transport{
		cfg:      cfg,
		opener:   SerialOpener,
		sleep:    time.Sleep,
		now:      time.Now,
		recorder: trace.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Config returns the effective configuration.
func (t *Transport) Config() Config {
	return t.cfg
}

// Open opens the serial port. Opening an open transport does nothing.
func (t *Transport) Open() error {
	if t.port != nil {
		return nil
	}

	p, err := t.opener(t.cfg)
	if err != nil {
		return &ConnectionError{Port: t.cfg.Port, Op: "open", Err: err}
	}

	t.port = p
	t.session = uuid.NewString()
	t.state = StateIdle
	logging.Infof(component, "Opened %s at %d baud (session %s)", t.cfg.Port, t.cfg.BaudRate, t.session)
	return nil
}

// Close closes the serial port. Closing a closed transport does nothing.
func (t *Transport) Close() error {
	if t.port == nil {
		return nil
	}

	err := t.port.Close()
	logging.Infof(component, "Closed %s (session %s)", t.cfg.Port, t.session)
	t.port = nil
	t.session = ""
	t.state = StateIdle
	if err != nil {
		return &ConnectionError{Port: t.cfg.Port, Op: "close", Err: err}
	}
	return nil
}

// IsOpen reports whether a session is open.
func (t *Transport) IsOpen() bool {
	return t.port != nil
}

// Session returns the identifier of the open session, or "" when closed.
func (t *Transport) Session() string {
	return t.session
}

// State returns the current state machine position. Between commands it is
// always StateIdle.
func (t *Transport) State() State {
	return t.state
}

// Send writes frame and, when responseLen is non-zero, reads exactly
// responseLen bytes. A short read pauses for the timeout and resends the
// whole frame. The final failed attempt returns its TimeoutError at once,
// without the pause. The result is either the full response or an error; a
// short buffer is never returned.
func (t *Transport) Send(frame protocol.Frame, responseLen int) ([]byte, error) {
	if t.port == nil {
		return nil, &ConnectionError{Port: t.cfg.Port, Op: "send", Err: errNotOpen}
	}
	if responseLen < 0 {
		return nil, fmt.Errorf("negative response length %d", responseLen)
	}

	var (
		attempt  = 1
		got      int
		response []byte
		failure  error
	)

	defer t.step(eventReset, false)
	t.step(eventStart, false)

	for t.state != StateDone {
		switch t.state {
		case StateWriting:
			if err := t.write(frame, attempt); err != nil {
				failure = err
				t.step(eventFailed, false)
			} else if responseLen == protocol.NoResponse {
				t.step(eventSentNoWait, false)
			} else {
				t.step(eventSent, false)
			}

		case StateAwaitingResponse:
			buf, err := t.read(responseLen)
			got = len(buf)
			switch {
			case err != nil:
				t.record(trace.DirectionRX, frame, attempt, buf, responseLen, trace.OutcomeError)
				failure = err
				t.step(eventFailed, false)
			case got == responseLen:
				t.record(trace.DirectionRX, frame, attempt, buf, responseLen, trace.OutcomeOK)
				logging.Debugf(component, "RX % X", buf)
				response = buf
				t.step(eventFull, false)
			default:
				t.record(trace.DirectionRX, frame, attempt, buf, responseLen, trace.OutcomeShort)
				logging.Warnf(component, "%s: got %d of %d bytes (attempt %d/%d)",
					frame.Opcode(), got, responseLen, attempt, t.cfg.Retries)
				t.step(eventShort, attempt < t.cfg.Retries)
				if t.state == StateDone {
					failure = &TimeoutError{Opcode: frame.Opcode(), Expected: responseLen, Got: got, Attempts: attempt}
					t.record(trace.DirectionRX, frame, attempt, nil, responseLen, trace.OutcomeTimeout)
					logging.Errorf(component, "%v", failure)
				}
			}

		case StateRetry:
			t.sleep(t.cfg.Timeout)
			attempt++
			t.step(eventResend, false)

		default:
			return nil, fmt.Errorf("transport in unexpected state %s", t.state)
		}
	}

	return response, failure
}

func (t *Transport) step(e event, attemptsLeft bool) {
	s, ok := next(t.state, e, attemptsLeft)
	if !ok {
		logging.Errorf(component, "invalid transition %s on %s", t.state, e)
		s = StateDone
	}
	t.state = s
}

// write clears both buffers, then sends the frame one byte at a time.
func (t *Transport) write(frame protocol.Frame, attempt int) error {
	if err := t.port.ResetInputBuffer(); err != nil {
		return &ConnectionError{Port: t.cfg.Port, Op: "reset input", Err: err}
	}
	if err := t.port.ResetOutputBuffer(); err != nil {
		return &ConnectionError{Port: t.cfg.Port, Op: "reset output", Err: err}
	}

	logging.Debugf(component, "TX %s attempt %d", frame, attempt)
	t.record(trace.DirectionTX, frame, attempt, frame.Bytes(), 0, trace.OutcomeOK)

	for i := 0; i < protocol.FrameSize; i++ {
		n, err := t.port.Write(frame[i : i+1])
		if err != nil {
			return &ConnectionError{Port: t.cfg.Port, Op: "write", Err: err}
		}
		if n != 1 {
			return &ConnectionError{Port: t.cfg.Port, Op: "write", Err: fmt.Errorf("wrote %d bytes of 1", n)}
		}
		t.sleep(t.cfg.InterByteDelay)
	}
	t.sleep(t.cfg.SettleDelay)
	return nil
}

// read collects up to n bytes until the buffer is full, a read times out
// with nothing, or the overall timeout passes.
func (t *Transport) read(n int) ([]byte, error) {
	buf := make([]byte, n)
	total := 0
	deadline := t.now().Add(t.cfg.Timeout)

	for total < n {
		m, err := t.port.Read(buf[total:])
		total += m
		if err != nil {
			return buf[:total], &ConnectionError{Port: t.cfg.Port, Op: "read", Err: err}
		}
		if m == 0 || !t.now().Before(deadline) {
			break
		}
	}
	return buf[:total], nil
}

func (t *Transport) record(dir trace.Direction, frame protocol.Frame, attempt int, data []byte, expected int, outcome trace.Outcome) {
	t.recorder.Record(trace.Event{
		Timestamp: t.now(),
		Session:   t.session,
		Direction: dir,
		Opcode:    uint8(frame.Opcode()),
		Attempt:   attempt,
		Data:      data,
		Expected:  expected,
		Outcome:   outcome,
	})
}

package transport

import "fmt"

// State is a position in the per-command state machine:
//
//	Idle -> Writing -> AwaitingResponse -> Done
//	                         |
//	                       Retry -> Writing
//
// Writing goes straight to Done when no response is expected or the write
// fails. Done always returns to Idle.
type State int

const (
	StateIdle State = iota
	StateWriting
	StateAwaitingResponse
	StateRetry
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateWriting:
		return "writing"
	case StateAwaitingResponse:
		return "awaiting-response"
	case StateRetry:
		return "retry"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

type event int

const (
	eventStart      event = iota // command accepted
	eventSent                    // frame written, response expected
	eventSentNoWait              // frame written, no response expected
	eventFull                    // full-length response read
	eventShort                   // short or empty read
	eventResend                  // retry delay elapsed
	eventFailed                  // I/O error
	eventReset                   // result handed to caller
)

func (e event) String() string {
	return [...]string{"start", "sent", "sent-no-wait", "full", "short", "resend", "failed", "reset"}[e]
}

// next returns the state after e. attemptsLeft only matters for a short
// read. ok is false when e is not valid in s.
func next(s State, e event, attemptsLeft bool) (State, bool) {
	switch s {
	case StateIdle:
		if e == eventStart {
			return StateWriting, true
		}
	case StateWriting:
		switch e {
		case eventSent:
			return StateAwaitingResponse, true
		case eventSentNoWait, eventFailed:
			return StateDone, true
		}
	case StateAwaitingResponse:
		switch e {
		case eventFull, eventFailed:
			return StateDone, true
		case eventShort:
			if attemptsLeft {
				return StateRetry, true
			}
			return StateDone, true
		}
	case StateRetry:
		if e == eventResend {
			return StateWriting, true
		}
	}
	if e == eventReset {
		return StateIdle, true
	}
	return s, false
}

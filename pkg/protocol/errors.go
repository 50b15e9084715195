package protocol

import (
	"errors"
	"fmt"
)

// Builder errors. Each is returned, wrapped with the offending value, when a
// builder is given an argument outside its closed set.
var (
	ErrInvalidMode    = errors.New("invalid mode")
	ErrInvalidVFO     = errors.New("invalid VFO")
	ErrInvalidChannel = errors.New("invalid memory channel")
	ErrInvalidTarget  = errors.New("invalid status target")
)

// ShortResponseError indicates a response buffer smaller than its layout.
type ShortResponseError struct {
	What string
	Want int
	Got  int
}

func (e *ShortResponseError) Error() string {
	return fmt.Sprintf("%s: need %d bytes, got %d", e.What, e.Want, e.Got)
}

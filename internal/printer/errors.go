package printer

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedReply = errors.New("Invalid response received from printer")
	ErrUnknownMedia   = errors.New("Unknown media loaded in printer")
	ErrNoMediaLoaded  = errors.New("No media loaded into printer")
)

// TransportError wraps a failure of the underlying transport, such as an I/O
// error or a timeout, without interpreting it.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("Transport %s failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

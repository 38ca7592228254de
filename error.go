package mbim

import (
	"fmt"

	"github.com/pkg/errors"
)

// BufError is returned when a buffer is shorter than a decoder requires
type BufError struct {
	Cause error
	Need  int
	Got   int
}

func newBufError(cause error, need, got int) *BufError {
	return &BufError{Cause: cause, Need: need, Got: got}
}

func (be *BufError) Error() string {
	if be.Cause == nil {
		return fmt.Sprintf("need %d bytes got %d", be.Need, be.Got)
	}
	return fmt.Sprintf("%v: need %d bytes got %d", be.Cause, be.Need, be.Got)
}

func (be *BufError) Unwrap() error { return be.Cause }

// StatusError is returned by Message.Result when a function reports
// anything other than StatusNone
type StatusError struct {
	Status Status
}

func (se *StatusError) Error() string {
	return se.Status.String()
}

// ProtocolError is returned by Message.Result for FUNCTION_ERROR and
// HOST_ERROR messages
type ProtocolError struct {
	Code ProtocolErrorCode
}

func (pe *ProtocolError) Error() string {
	return pe.Code.String()
}

// IsStatus reports whether err is a StatusError carrying status
func IsStatus(err error, status Status) bool {
	se := &StatusError{}
	if errors.As(err, &se) {
		return se.Status == status
	}
	return false
}

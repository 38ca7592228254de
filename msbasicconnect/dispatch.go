package msbasicconnect

import (
	"context"
	"time"

	"github.com/abates/mbim"
	"github.com/pkg/errors"
)

// DefaultTimeout is how long a dispatched request may wait for its response
const DefaultTimeout = 10 * time.Second

var (
	ErrTimeout           = errors.New("Transaction timed out")
	ErrCancelled         = errors.New("operation cancelled")
	ErrAlreadyDispatched = errors.New("request already dispatched")
)

// TransportError is returned when a request could not be sent or its
// response never arrived
type TransportError struct {
	Err error
}

func (te *TransportError) Error() string { return te.Err.Error() }

func (te *TransportError) Unwrap() error { return te.Err }

// Commander sends a command message and returns the function's response
type Commander interface {
	Command(ctx context.Context, msg *mbim.Message) (*mbim.Message, error)
}

// State is the progress of a Dispatcher
type State int

const (
	StateIdle State = iota
	StateRequestBuilt
	StateDispatched
	StateCompletedOk
	StateCompletedError
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRequestBuilt:
		return "request built"
	case StateDispatched:
		return "dispatched"
	case StateCompletedOk:
		return "completed"
	case StateCompletedError:
		return "completed with error"
	case StateCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Completion is the single outcome of a dispatch.  Response is only set
// when State is StateCompletedOk
type Completion struct {
	State    State
	Response *mbim.Message
	Err      error
}

// Dispatcher sends exactly one request and waits for its completion
type Dispatcher struct {
	timeout time.Duration
	state   State
}

// NewDispatcher returns an idle dispatcher.  A timeout of zero or less
// selects DefaultTimeout
func NewDispatcher(timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Dispatcher{timeout: timeout}
}

// State returns the current state of the dispatcher
func (d *Dispatcher) State() State {
	return d.state
}

// Dispatch sends req using cmd and blocks until a response arrives, the
// timeout expires or ctx is cancelled, whichever happens first
func (d *Dispatcher) Dispatch(ctx context.Context, cmd Commander, req *Request) Completion {
	if d.state != StateIdle {
		return Completion{State: StateCompletedError, Err: ErrAlreadyDispatched}
	}

	msg := req.Message()
	d.state = StateRequestBuilt

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	ch := make(chan sent, 1)

	mbim.Log.Debugf("Asynchronously %s...", actionInfos[req.Action].progress)
	d.state = StateDispatched
	go func() {
		rsp, err := cmd.Command(ctx, msg)
		ch <- sent{rsp, err}
	}()

	completion := await(ctx, ch)
	d.state = completion.State
	return completion
}

type sent struct {
	rsp *mbim.Message
	err error
}

// await waits for the send to finish or ctx to expire.  A send that has
// already finished wins over an expired context
func await(ctx context.Context, ch <-chan sent) Completion {
	select {
	case s := <-ch:
		return s.completion(ctx)
	case <-ctx.Done():
		select {
		case s := <-ch:
			return s.completion(ctx)
		default:
			return expired(ctx.Err())
		}
	}
}

func (s sent) completion(ctx context.Context) Completion {
	switch {
	case s.err != nil && ctx.Err() != nil:
		return expired(ctx.Err())
	case s.err != nil:
		return Completion{State: StateCompletedError, Err: &TransportError{Err: s.err}}
	}
	return Completion{State: StateCompletedOk, Response: s.rsp}
}

func expired(err error) Completion {
	if errors.Is(err, context.DeadlineExceeded) {
		return Completion{State: StateCompletedError, Err: &TransportError{Err: ErrTimeout}}
	}
	return Completion{State: StateCancelled, Err: ErrCancelled}
}

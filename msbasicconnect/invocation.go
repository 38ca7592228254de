// Copyright 2018 Andrew Bates
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package msbasicconnect

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/abates/mbim"
	"github.com/pkg/errors"
)

// Device is what an Invocation needs from an opened MBIM device
type Device interface {
	Commander
	PathDisplay() string
}

// Option configures an Invocation
type Option func(inv *Invocation) error

// Output sets the writers used for results and for error reports
func Output(out, errOut io.Writer) Option {
	return func(inv *Invocation) error {
		if out == nil || errOut == nil {
			return errors.New("output writers must not be nil")
		}
		inv.out = out
		inv.errOut = errOut
		return nil
	}
}

// Done sets the callback made once the invocation finishes.  ok is true
// only when the response was decoded and reported
func Done(fn func(ok bool)) Option {
	return func(inv *Invocation) error {
		inv.done = fn
		return nil
	}
}

// OnRelease sets a hook called when the invocation lets go of its device
func OnRelease(fn func()) Option {
	return func(inv *Invocation) error {
		inv.onRelease = fn
		return nil
	}
}

// CommandTimeout overrides DefaultTimeout
func CommandTimeout(timeout time.Duration) Option {
	return func(inv *Invocation) error {
		if timeout <= 0 {
			return errors.Errorf("invalid command timeout %v", timeout)
		}
		inv.timeout = timeout
		return nil
	}
}

// Invocation runs the single action selected by a set of Flags
type Invocation struct {
	selection Selection
	out       io.Writer
	errOut    io.Writer
	timeout   time.Duration
	done      func(ok bool)
	doneOnce  sync.Once
	onRelease func()
	decode    func(Action, *mbim.Message) (Response, error)
}

// NewInvocation selects the requested action from flags.  A
// *ConfigurationError is returned when more than one action was requested,
// after Done(false) has been called.  Errors from options are returned
// without calling Done
func NewInvocation(flags *Flags, options ...Option) (*Invocation, error) {
	inv := &Invocation{
		out:     os.Stdout,
		errOut:  os.Stderr,
		timeout: DefaultTimeout,
		done:    func(bool) {},
		decode:  Decode,
	}

	for _, o := range options {
		if err := o(inv); err != nil {
			return nil, err
		}
	}

	selection, err := flags.Select()
	if err != nil {
		inv.doneOnce.Do(func() { inv.done(false) })
		return nil, err
	}
	inv.selection = selection
	return inv, nil
}

// Active reports whether an action was requested
func (inv *Invocation) Active() bool {
	return inv.selection.Action != ActionNone
}

// Action returns the requested action
func (inv *Invocation) Action() Action {
	return inv.selection.Action
}

// invocationContext holds the device and the cancellable context for the
// duration of one invocation
type invocationContext struct {
	ctx       context.Context
	cancel    context.CancelFunc
	device    Device
	onRelease func()
	once      sync.Once
}

func newInvocationContext(ctx context.Context, device Device, onRelease func()) *invocationContext {
	ic := &invocationContext{device: device, onRelease: onRelease}
	ic.ctx, ic.cancel = context.WithCancel(ctx)
	return ic
}

func (ic *invocationContext) release() {
	ic.once.Do(func() {
		ic.cancel()
		ic.device = nil
		if ic.onRelease != nil {
			ic.onRelease()
		}
	})
}

// Run performs the requested action against device and reports the
// outcome.  Whatever the outcome, the invocation is released and the Done
// callback is made exactly once before Run returns.  Run returns
// ErrNoAction without touching device when no action was requested
func (inv *Invocation) Run(ctx context.Context, device Device) error {
	if !inv.Active() {
		return ErrNoAction
	}

	ic := newInvocationContext(ctx, device, inv.onRelease)
	ok := false
	defer func() {
		ic.release()
		inv.doneOnce.Do(func() { inv.done(ok) })
	}()

	req, err := BuildRequest(inv.selection)
	if err != nil {
		ae := &ArgumentError{}
		if errors.As(err, &ae) {
			fmt.Fprintf(inv.errOut, "error: couldn't parse %s: %v\n", ae.Argument, err)
		} else {
			fmt.Fprintf(inv.errOut, "error: %v\n", err)
		}
		return err
	}

	completion := NewDispatcher(inv.timeout).Dispatch(ic.ctx, ic.device, req)
	switch completion.State {
	case StateCancelled:
		fmt.Fprintln(inv.errOut, "error: operation cancelled")
		return completion.Err
	case StateCompletedError:
		fmt.Fprintf(inv.errOut, "error: operation failed: %v\n", completion.Err)
		return completion.Err
	}

	rsp := completion.Response
	if err := rsp.Result(); err != nil {
		fmt.Fprintf(inv.errOut, "error: operation failed: %v\n", err)
		return err
	}

	path := ic.device.PathDisplay()
	if actionInfos[req.Action].banner {
		fmt.Fprintf(inv.out, "[%s] Successfully queried %v\n", path, req.Action)
	}

	decoded, err := inv.decode(req.Action, rsp)
	if err != nil {
		fmt.Fprintf(inv.errOut, "error: couldn't parse response message: %v\n", err)
		return err
	}

	decoded.Report(inv.out, path)
	ok = true
	return nil
}

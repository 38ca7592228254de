package msbasicconnect

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/abates/mbim"
)

type recorder struct {
	done     []bool
	released int
	decoded  int
}

func newTestInvocation(t *testing.T, flags *Flags, rec *recorder, out, errOut *bytes.Buffer, options ...Option) *Invocation {
	t.Helper()
	options = append([]Option{
		Output(out, errOut),
		Done(func(ok bool) { rec.done = append(rec.done, ok) }),
		OnRelease(func() { rec.released++ }),
	}, options...)

	inv, err := NewInvocation(flags, options...)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	decode := inv.decode
	inv.decode = func(action Action, msg *mbim.Message) (Response, error) {
		rec.decoded++
		return decode(action, msg)
	}
	return inv
}

func TestInvocationRun(t *testing.T) {
	sysCaps, _ := (&SysCaps{NumberExecutors: 1, NumberSlots: 2, Concurrency: 1, ModemID: 7}).MarshalBinary()
	slotInfo, _ := (&SlotInfoStatus{SlotIndex: 1, State: mbim.UiccSlotStateActive}).MarshalBinary()

	tests := []struct {
		name        string
		flags       Flags
		command     func(context.Context, *mbim.Message) (*mbim.Message, error)
		cancel      bool
		timeout     time.Duration
		wantOk      bool
		wantCalls   int
		wantDecoded int
		wantOut     string
		wantErrOut  string
	}{
		{
			name:        "sys caps",
			flags:       Flags{QuerySysCaps: true},
			command:     respond(mbim.StatusNone, sysCaps),
			wantOk:      true,
			wantCalls:   1,
			wantDecoded: 1,
			wantOut: "[/dev/cdc-wdm0] Successfully queried sys caps\n" +
				"[/dev/cdc-wdm0] System capabilities retrieved:\n" +
				"\t Number of executors: '1'\n" +
				"\t     Number of slots: '2'\n" +
				"\t         Concurrency: '1'\n" +
				"\t            Modem ID: '7'\n",
		},
		{
			name:        "slot info has no banner",
			flags:       Flags{QuerySlotInfoStatus: strp("1")},
			command:     respond(mbim.StatusNone, slotInfo),
			wantOk:      true,
			wantCalls:   1,
			wantDecoded: 1,
			wantOut: "[/dev/cdc-wdm0] Slot info status retrieved:\n" +
				"\t        Slot '1': 'active'\n",
		},
		{
			name:       "bad session id",
			flags:      Flags{QueryPCO: strp("256")},
			wantErrOut: "error: couldn't parse session ID: couldn't parse session ID '256' (must be 0-255)\n",
		},
		{
			name:       "missing slot index",
			flags:      Flags{QuerySlotInfoStatus: strp("")},
			wantErrOut: "error: couldn't parse slot index: slot index not given\n",
		},
		{
			name:       "status error is never decoded",
			flags:      Flags{QuerySysCaps: true},
			command:    respond(mbim.StatusFailure, sysCaps),
			wantCalls:  1,
			wantErrOut: "error: operation failed: failure\n",
		},
		{
			name:  "function error is never decoded",
			flags: Flags{QueryLteAttachInfo: true},
			command: func(ctx context.Context, msg *mbim.Message) (*mbim.Message, error) {
				return &mbim.Message{Type: mbim.MessageTypeFunctionError, TransactionID: msg.TransactionID, ErrorCode: mbim.ProtocolErrorNotOpened}, nil
			},
			wantCalls:  1,
			wantErrOut: "error: operation failed: not-opened\n",
		},
		{
			name:  "transport error",
			flags: Flags{QueryLteAttachConfiguration: true},
			command: func(context.Context, *mbim.Message) (*mbim.Message, error) {
				return nil, errors.New("Device is closed")
			},
			wantCalls:  1,
			wantErrOut: "error: operation failed: Device is closed\n",
		},
		{
			name:        "decode error",
			flags:       Flags{QuerySysCaps: true},
			command:     respond(mbim.StatusNone, sysCaps[:12]),
			wantCalls:   1,
			wantDecoded: 1,
			wantOut:     "[/dev/cdc-wdm0] Successfully queried sys caps\n",
			wantErrOut:  "error: couldn't parse response message: couldn't decode sys caps response: ModemId: Buffer is too short: need 20 bytes got 12\n",
		},
		{
			name:       "cancelled",
			flags:      Flags{QuerySysCaps: true},
			command:    block,
			cancel:     true,
			wantErrOut: "error: operation cancelled\n",
		},
		{
			name:       "timeout",
			flags:      Flags{QueryPCO: strp("")},
			command:    block,
			timeout:    10 * time.Millisecond,
			wantCalls:  1,
			wantErrOut: "error: operation failed: Transaction timed out\n",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rec := &recorder{}
			out, errOut := &bytes.Buffer{}, &bytes.Buffer{}

			var options []Option
			if test.timeout > 0 {
				options = append(options, CommandTimeout(test.timeout))
			}
			inv := newTestInvocation(t, &test.flags, rec, out, errOut, options...)
			if !inv.Active() {
				t.Fatalf("Expected invocation to be active")
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			if test.cancel {
				cancel()
			}

			device := &fakeDevice{path: "/dev/cdc-wdm0", command: test.command}
			err := inv.Run(ctx, device)
			if test.wantOk && err != nil {
				t.Errorf("Unexpected error: %v", err)
			} else if !test.wantOk && err == nil {
				t.Errorf("Expected an error")
			}

			if len(rec.done) != 1 || rec.done[0] != test.wantOk {
				t.Errorf("Wanted one done(%v) got %v", test.wantOk, rec.done)
			}

			if rec.released != 1 {
				t.Errorf("Wanted 1 release got %d", rec.released)
			}

			if rec.decoded != test.wantDecoded {
				t.Errorf("Wanted %d decodes got %d", test.wantDecoded, rec.decoded)
			}

			// a cancelled command may or may not reach the device
			if !test.cancel && device.Calls() != test.wantCalls {
				t.Errorf("Wanted %d calls got %d", test.wantCalls, device.Calls())
			}

			if out.String() != test.wantOut {
				t.Errorf("Wanted output %q got %q", test.wantOut, out.String())
			}

			if errOut.String() != test.wantErrOut {
				t.Errorf("Wanted error output %q got %q", test.wantErrOut, errOut.String())
			}
		})
	}
}

func TestInvocationCancelledErr(t *testing.T) {
	rec := &recorder{}
	inv := newTestInvocation(t, &Flags{QuerySysCaps: true}, rec, &bytes.Buffer{}, &bytes.Buffer{})

	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})
	device := &fakeDevice{command: func(ctx context.Context, msg *mbim.Message) (*mbim.Message, error) {
		close(started)
		return block(ctx, msg)
	}}

	go func() {
		<-started
		cancel()
	}()

	err := inv.Run(ctx, device)
	if !errors.Is(err, ErrCancelled) {
		t.Errorf("Wanted %v got %v", ErrCancelled, err)
	}

	if rec.decoded != 0 || rec.released != 1 {
		t.Errorf("Wanted 0 decodes and 1 release got %d and %d", rec.decoded, rec.released)
	}
}

func TestInvocationInactive(t *testing.T) {
	rec := &recorder{}
	inv := newTestInvocation(t, &Flags{}, rec, &bytes.Buffer{}, &bytes.Buffer{})
	if inv.Active() {
		t.Errorf("Expected invocation to be inactive")
	}

	device := &fakeDevice{command: respond(mbim.StatusNone, nil)}
	if err := inv.Run(context.Background(), device); err != ErrNoAction {
		t.Errorf("Wanted %v got %v", ErrNoAction, err)
	}

	if device.Calls() != 0 || len(rec.done) != 0 || rec.released != 0 {
		t.Errorf("Expected nothing to happen, got %d calls %v done %d releases", device.Calls(), rec.done, rec.released)
	}
}

func TestNewInvocationTooMany(t *testing.T) {
	device := &fakeDevice{command: respond(mbim.StatusNone, nil)}
	var results []bool
	inv, err := NewInvocation(&Flags{QuerySysCaps: true, QueryLteAttachInfo: true}, Done(func(ok bool) { results = append(results, ok) }))
	if inv != nil {
		t.Errorf("Wanted nil invocation")
	}

	ce := &ConfigurationError{}
	if !errors.As(err, &ce) {
		t.Fatalf("Wanted *ConfigurationError got %v", err)
	}

	if ce.Count != 2 {
		t.Errorf("Wanted 2 got %d", ce.Count)
	}

	if device.Calls() != 0 {
		t.Errorf("Expected the device to be untouched")
	}

	if !reflect.DeepEqual(results, []bool{false}) {
		t.Errorf("Wanted a single Done(false) got %v", results)
	}
}

func TestInvocationOptions(t *testing.T) {
	tests := []struct {
		name   string
		option Option
	}{
		{"nil output", Output(nil, &bytes.Buffer{})},
		{"zero timeout", CommandTimeout(0)},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := NewInvocation(&Flags{QuerySysCaps: true}, test.option)
			if err == nil {
				t.Errorf("Expected an error")
			}
		})
	}
}

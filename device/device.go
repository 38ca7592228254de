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

// Package device talks to an MBIM function over its control channel.
package device

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/abates/mbim"
	"github.com/pkg/errors"
)

var (
	ErrClosed       = errors.New("Device is closed")
	ErrOpenTimeout  = errors.New("Timeout waiting for the function to open")
	ErrCloseTimeout = errors.New("Timeout waiting for the function to close")
)

// Device matches commands written to a function with the responses it
// sends back.  Any number of goroutines may issue commands concurrently,
// each one is assigned its own transaction id
type Device struct {
	path               string
	timeout            time.Duration
	maxControlTransfer uint32
	port               *Port

	mu      sync.Mutex
	closed  bool
	nextTID uint32
	pending map[uint32]chan *mbim.Message
	done    chan struct{}
}

// New creates a device on top of readWriter and starts receiving messages
func New(readWriter io.ReadWriter, options ...Option) (*Device, error) {
	device := &Device{
		timeout:            5 * time.Second,
		maxControlTransfer: DefaultMaxControlTransfer,
		pending:            make(map[uint32]chan *mbim.Message),
		done:               make(chan struct{}),
	}

	for _, o := range options {
		err := o(device)
		if err != nil {
			mbim.Log.Infof("error setting device option: %v", err)
			return nil, err
		}
	}

	device.port = NewPort(readWriter, int(device.maxControlTransfer))
	go device.readLoop()
	return device, nil
}

// PathDisplay returns the name the device was opened with
func (device *Device) PathDisplay() string {
	return device.path
}

func (device *Device) readLoop() {
	for buf := range device.port.Messages() {
		msg := &mbim.Message{}
		err := msg.UnmarshalBinary(buf)
		if err != nil {
			mbim.Log.Infof("Failed to unmarshal message: %v", err)
			continue
		}
		mbim.Log.Debugf("RX %v", msg)

		if msg.Type == mbim.MessageTypeIndicateStatus {
			mbim.Log.Debugf("Ignoring indication from %s cid %d", msg.Service.Name(), msg.CID)
			continue
		}

		device.mu.Lock()
		ch, found := device.pending[msg.TransactionID]
		delete(device.pending, msg.TransactionID)
		device.mu.Unlock()

		if found {
			ch <- msg
		} else {
			mbim.Log.Debugf("Dropping %v for unknown transaction %d", msg.Type, msg.TransactionID)
		}
	}

	if err := device.port.Err(); err != nil && !errors.Is(err, io.EOF) {
		mbim.Log.Debugf("Read loop stopped: %v", err)
	}
	close(device.done)
}

// Command sends msg to the function and waits for the matching response.
// A transaction id is assigned to msg before it is written.  Command
// returns when the response arrives, when ctx is done or when the device
// stops receiving
func (device *Device) Command(ctx context.Context, msg *mbim.Message) (*mbim.Message, error) {
	ch := make(chan *mbim.Message, 1)

	device.mu.Lock()
	if device.closed {
		device.mu.Unlock()
		return nil, ErrClosed
	}
	device.nextTID++
	if device.nextTID == 0 {
		device.nextTID++
	}
	msg.TransactionID = device.nextTID
	device.pending[msg.TransactionID] = ch

	// writes happen under the lock so Close cannot stop the port mid write
	buf, err := msg.MarshalBinary()
	if err == nil {
		mbim.Log.Debugf("TX %v", msg)
		err = device.port.Write(buf)
	}
	device.mu.Unlock()

	defer func() {
		device.mu.Lock()
		delete(device.pending, msg.TransactionID)
		device.mu.Unlock()
	}()

	if err != nil {
		return nil, errors.Wrap(err, "write failed")
	}

	select {
	case rsp := <-ch:
		if rsp.Type != msg.Type.Response() && rsp.Type != mbim.MessageTypeFunctionError {
			return nil, errors.Wrapf(mbim.ErrUnexpectedMessage, "sent %v received %v", msg.Type, rsp.Type)
		}
		return rsp, nil
	case <-device.done:
		if err := device.port.Err(); err != nil && !errors.Is(err, io.EOF) {
			return nil, errors.Wrap(err, "read failed")
		}
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (device *Device) handshake(ctx context.Context, msg *mbim.Message, timeoutErr error) error {
	ctx, cancel := context.WithTimeout(ctx, device.timeout)
	defer cancel()

	rsp, err := device.Command(ctx, msg)
	if errors.Is(err, context.DeadlineExceeded) {
		return timeoutErr
	} else if err != nil {
		return err
	}
	return rsp.Result()
}

// Open sends MBIM_OPEN_MSG and waits for the function to acknowledge it
func (device *Device) Open(ctx context.Context) error {
	mbim.Log.Debugf("Opening %s", device.path)
	return device.handshake(ctx, &mbim.Message{Type: mbim.MessageTypeOpen, MaxControlTransfer: device.maxControlTransfer}, ErrOpenTimeout)
}

// Close optionally sends MBIM_CLOSE_MSG and then closes the control
// channel.  Once closed every Command fails with ErrClosed
func (device *Device) Close(ctx context.Context, sendClose bool) (err error) {
	if sendClose {
		mbim.Log.Debugf("Closing %s", device.path)
		err = device.handshake(ctx, &mbim.Message{Type: mbim.MessageTypeClose}, ErrCloseTimeout)
	}

	device.mu.Lock()
	defer device.mu.Unlock()
	if !device.closed {
		device.closed = true
		device.port.Close()
	}
	return err
}

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

package device

import (
	"time"

	"github.com/abates/mbim"
	"github.com/pkg/errors"
)

// The Option mechanism is based on the method described at https://dave.cheney.net/2014/10/17/functional-options-for-friendly-apis
type Option func(d *Device) error

// Timeout sets how long Open and Close wait for the function to respond
func Timeout(timeout time.Duration) Option {
	return func(d *Device) error {
		d.timeout = timeout
		return nil
	}
}

// MaxControlTransfer sets the largest message exchanged with the function.
// It is announced in MBIM_OPEN_MSG and bounds every received message
func MaxControlTransfer(size uint32) Option {
	return func(d *Device) error {
		if size < mbim.HeaderLen {
			return errors.Errorf("max control transfer %d is smaller than a message header", size)
		}
		d.maxControlTransfer = size
		return nil
	}
}

// PathDisplay sets the name reported by Device.PathDisplay
func PathDisplay(path string) Option {
	return func(d *Device) error {
		d.path = path
		return nil
	}
}

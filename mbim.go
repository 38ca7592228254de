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

// Package mbim implements the message layer of the Mobile Broadband
// Interface Model: control messages, information buffer fields and the
// status codes returned by a function.
package mbim

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var (
	ErrBufferTooShort    = errors.New("Buffer is too short")
	ErrUnexpectedMessage = errors.New("Unexpected message type")
	ErrFragmented        = errors.New("Fragmented messages are not supported")
	ErrLengthMismatch    = errors.New("Message length does not match header")
	ErrInvalidOffset     = errors.New("Field offset is outside of the information buffer")
	ErrUUIDFormat        = errors.New("UUID format is xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx (digits in hex)")
)

// UUID identifies a device service.  The bytes are kept in the order of
// the string form, which is also the order used on the wire
type UUID uuid.UUID

// Well known device services
var (
	ServiceBasicConnect             = MustParseUUID("a289cc33-bcbb-8b4f-b6b0-133ec2aae6df")
	ServiceSMS                      = MustParseUUID("533fbeeb-14fe-4467-9f90-33a223e56c3f")
	ServiceUSSD                     = MustParseUUID("e550a0c8-5e82-479e-82f7-10abf4c3351f")
	ServicePhonebook                = MustParseUUID("4bf38476-1e6a-41db-b1d8-bed289c25bdb")
	ServiceSTK                      = MustParseUUID("d8f20131-fcb5-4e17-8602-d6ed3816164c")
	ServiceAuth                     = MustParseUUID("1d2b5ff7-0aa1-48b2-aa52-50f15767174e")
	ServiceDSS                      = MustParseUUID("c08a26dd-7718-4382-8482-6e0d583c4d0e")
	ServiceMsBasicConnectExtensions = MustParseUUID("3d01dcc5-fef5-4d05-0d3a-bef7058e9aaf")
)

var serviceNames = map[UUID]string{
	ServiceBasicConnect:             "basic-connect",
	ServiceSMS:                      "sms",
	ServiceUSSD:                     "ussd",
	ServicePhonebook:                "phonebook",
	ServiceSTK:                      "stk",
	ServiceAuth:                     "auth",
	ServiceDSS:                      "dss",
	ServiceMsBasicConnectExtensions: "ms-basic-connect-extensions",
}

// ParseUUID parses the canonical 8-4-4-4-12 hex form
func ParseUUID(str string) (UUID, error) {
	u, err := uuid.Parse(str)
	if err != nil {
		return UUID{}, errors.Wrapf(ErrUUIDFormat, "got %q: %v", str, err)
	}
	return UUID(u), nil
}

// MustParseUUID is like ParseUUID but panics if the string cannot be parsed
func MustParseUUID(str string) UUID {
	u, err := ParseUUID(str)
	if err != nil {
		panic(err.Error())
	}
	return u
}

func (u UUID) String() string {
	return uuid.UUID(u).String()
}

// Name returns the service nickname, or the UUID string for unknown services
func (u UUID) Name() string {
	if name, found := serviceNames[u]; found {
		return name
	}
	return u.String()
}

// HexString renders buf as two digit lower-case hex values joined by sep
func HexString(buf []byte, sep string) string {
	str := make([]string, len(buf))
	for i, b := range buf {
		str[i] = fmt.Sprintf("%02x", b)
	}
	return strings.Join(str, sep)
}

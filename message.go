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

package mbim

import (
	"encoding/binary"
	"fmt"

	"github.com/pkg/errors"
)

// MessageType is the first field of every MBIM control message
type MessageType uint32

// Control message types. Messages sent by the function have the high
// bit set
const (
	MessageTypeOpen           MessageType = 0x00000001
	MessageTypeClose          MessageType = 0x00000002
	MessageTypeCommand        MessageType = 0x00000003
	MessageTypeHostError      MessageType = 0x00000004
	MessageTypeOpenDone       MessageType = 0x80000001
	MessageTypeCloseDone      MessageType = 0x80000002
	MessageTypeCommandDone    MessageType = 0x80000003
	MessageTypeFunctionError  MessageType = 0x80000004
	MessageTypeIndicateStatus MessageType = 0x80000007
)

var messageTypeStrings = map[MessageType]string{
	MessageTypeOpen:           "open",
	MessageTypeClose:          "close",
	MessageTypeCommand:        "command",
	MessageTypeHostError:      "host-error",
	MessageTypeOpenDone:       "open-done",
	MessageTypeCloseDone:      "close-done",
	MessageTypeCommandDone:    "command-done",
	MessageTypeFunctionError:  "function-error",
	MessageTypeIndicateStatus: "indicate-status",
}

func (mt MessageType) String() string {
	if str, found := messageTypeStrings[mt]; found {
		return str
	}
	return fmt.Sprintf("MessageType(0x%08x)", uint32(mt))
}

// Response returns the message type the function answers mt with
func (mt MessageType) Response() MessageType {
	return mt | 0x80000000
}

// CommandType distinguishes query and set commands
type CommandType uint32

const (
	CommandTypeQuery CommandType = 0
	CommandTypeSet   CommandType = 1
)

func (ct CommandType) String() string {
	switch ct {
	case CommandTypeQuery:
		return "query"
	case CommandTypeSet:
		return "set"
	}
	return fmt.Sprintf("CommandType(%d)", uint32(ct))
}

// HeaderLen is the length of the header common to every message
const HeaderLen = 12

const (
	fragmentLen = 8
	commandLen  = HeaderLen + fragmentLen + 16 + 12
	statusLen   = HeaderLen + 4
	indicateLen = HeaderLen + fragmentLen + 16 + 8
)

// Message is a single MBIM control message.  Only the fields relevant
// to Type are encoded or decoded
type Message struct {
	Type          MessageType
	TransactionID uint32

	// MaxControlTransfer is carried by OPEN
	MaxControlTransfer uint32

	// Service, CID and Buffer are carried by COMMAND, COMMAND_DONE
	// and INDICATE_STATUS
	Service     UUID
	CID         uint32
	CommandType CommandType
	Buffer      []byte

	// Status is carried by OPEN_DONE, CLOSE_DONE and COMMAND_DONE
	Status Status

	// ErrorCode is carried by FUNCTION_ERROR and HOST_ERROR
	ErrorCode ProtocolErrorCode
}

// NewCommand builds a COMMAND message for the given service and CID
func NewCommand(service UUID, cid uint32, commandType CommandType, buffer []byte) *Message {
	return &Message{
		Type:        MessageTypeCommand,
		Service:     service,
		CID:         cid,
		CommandType: commandType,
		Buffer:      buffer,
	}
}

func (m *Message) String() string {
	switch m.Type {
	case MessageTypeCommand:
		return fmt.Sprintf("%-15s tid %d %s cid %d %v (%d bytes)", m.Type, m.TransactionID, m.Service.Name(), m.CID, m.CommandType, len(m.Buffer))
	case MessageTypeCommandDone:
		return fmt.Sprintf("%-15s tid %d %s cid %d %v (%d bytes)", m.Type, m.TransactionID, m.Service.Name(), m.CID, m.Status, len(m.Buffer))
	case MessageTypeIndicateStatus:
		return fmt.Sprintf("%-15s tid %d %s cid %d (%d bytes)", m.Type, m.TransactionID, m.Service.Name(), m.CID, len(m.Buffer))
	case MessageTypeOpenDone, MessageTypeCloseDone:
		return fmt.Sprintf("%-15s tid %d %v", m.Type, m.TransactionID, m.Status)
	case MessageTypeFunctionError, MessageTypeHostError:
		return fmt.Sprintf("%-15s tid %d %v", m.Type, m.TransactionID, m.ErrorCode)
	}
	return fmt.Sprintf("%-15s tid %d", m.Type, m.TransactionID)
}

// Result checks that a response message indicates success.  It must be
// called before any attempt to decode the information buffer
func (m *Message) Result() error {
	switch m.Type {
	case MessageTypeOpenDone, MessageTypeCloseDone, MessageTypeCommandDone:
		if m.Status != StatusNone {
			return &StatusError{Status: m.Status}
		}
		return nil
	case MessageTypeFunctionError, MessageTypeHostError:
		return &ProtocolError{Code: m.ErrorCode}
	}
	return errors.Wrapf(ErrUnexpectedMessage, "%v", m.Type)
}

func (m *Message) length() int {
	switch m.Type {
	case MessageTypeOpen, MessageTypeOpenDone, MessageTypeCloseDone, MessageTypeFunctionError, MessageTypeHostError:
		return statusLen
	case MessageTypeCommand, MessageTypeCommandDone:
		return commandLen + len(m.Buffer)
	case MessageTypeIndicateStatus:
		return indicateLen + len(m.Buffer)
	}
	return HeaderLen
}

// MarshalBinary encodes the message as a single fragment
func (m *Message) MarshalBinary() ([]byte, error) {
	buf := make([]byte, m.length())
	binary.LittleEndian.PutUint32(buf[0:4], uint32(m.Type))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(len(buf)))
	binary.LittleEndian.PutUint32(buf[8:12], m.TransactionID)

	switch m.Type {
	case MessageTypeOpen:
		binary.LittleEndian.PutUint32(buf[12:16], m.MaxControlTransfer)
	case MessageTypeOpenDone, MessageTypeCloseDone:
		binary.LittleEndian.PutUint32(buf[12:16], uint32(m.Status))
	case MessageTypeFunctionError, MessageTypeHostError:
		binary.LittleEndian.PutUint32(buf[12:16], uint32(m.ErrorCode))
	case MessageTypeCommand, MessageTypeCommandDone, MessageTypeIndicateStatus:
		// single fragment
		binary.LittleEndian.PutUint32(buf[12:16], 1)
		binary.LittleEndian.PutUint32(buf[16:20], 0)
		copy(buf[20:36], m.Service[:])
		binary.LittleEndian.PutUint32(buf[36:40], m.CID)
		i := 40
		switch m.Type {
		case MessageTypeCommand:
			binary.LittleEndian.PutUint32(buf[i:i+4], uint32(m.CommandType))
			i += 4
		case MessageTypeCommandDone:
			binary.LittleEndian.PutUint32(buf[i:i+4], uint32(m.Status))
			i += 4
		}
		binary.LittleEndian.PutUint32(buf[i:i+4], uint32(len(m.Buffer)))
		copy(buf[i+4:], m.Buffer)
	}
	return buf, nil
}

// UnmarshalBinary decodes a complete message.  The length in the header
// must match len(buf)
func (m *Message) UnmarshalBinary(buf []byte) error {
	if len(buf) < HeaderLen {
		return newBufError(ErrBufferTooShort, HeaderLen, len(buf))
	}

	*m = Message{}
	m.Type = MessageType(binary.LittleEndian.Uint32(buf[0:4]))
	length := int(binary.LittleEndian.Uint32(buf[4:8]))
	m.TransactionID = binary.LittleEndian.Uint32(buf[8:12])
	if length != len(buf) {
		return errors.Wrapf(ErrLengthMismatch, "header says %d bytes got %d", length, len(buf))
	}

	need := m.length()
	if m.Type == MessageTypeCommand || m.Type == MessageTypeCommandDone {
		need = commandLen
	} else if m.Type == MessageTypeIndicateStatus {
		need = indicateLen
	}
	if len(buf) < need {
		return newBufError(ErrBufferTooShort, need, len(buf))
	}

	switch m.Type {
	case MessageTypeOpen:
		m.MaxControlTransfer = binary.LittleEndian.Uint32(buf[12:16])
	case MessageTypeOpenDone, MessageTypeCloseDone:
		m.Status = Status(binary.LittleEndian.Uint32(buf[12:16]))
	case MessageTypeFunctionError, MessageTypeHostError:
		m.ErrorCode = ProtocolErrorCode(binary.LittleEndian.Uint32(buf[12:16]))
	case MessageTypeCommand, MessageTypeCommandDone, MessageTypeIndicateStatus:
		total := binary.LittleEndian.Uint32(buf[12:16])
		current := binary.LittleEndian.Uint32(buf[16:20])
		if total != 1 || current != 0 {
			return errors.Wrapf(ErrFragmented, "fragment %d of %d", current, total)
		}
		copy(m.Service[:], buf[20:36])
		m.CID = binary.LittleEndian.Uint32(buf[36:40])
		i := 40
		switch m.Type {
		case MessageTypeCommand:
			m.CommandType = CommandType(binary.LittleEndian.Uint32(buf[i : i+4]))
			i += 4
		case MessageTypeCommandDone:
			m.Status = Status(binary.LittleEndian.Uint32(buf[i : i+4]))
			i += 4
		}
		bufLen := int(binary.LittleEndian.Uint32(buf[i : i+4]))
		i += 4
		if len(buf)-i != bufLen {
			return errors.Wrapf(ErrLengthMismatch, "information buffer says %d bytes got %d", bufLen, len(buf)-i)
		}
		m.Buffer = make([]byte, bufLen)
		copy(m.Buffer, buf[i:])
	}
	return nil
}

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

// Package msbasicconnect implements the query actions of the Microsoft
// Basic Connect Extensions device service: PCO, LTE attach configuration,
// LTE attach info, system capabilities and slot info status.
package msbasicconnect

import (
	"fmt"

	"github.com/spf13/pflag"
)

// Command IDs of the Microsoft Basic Connect Extensions service
const (
	CIDLteAttachConfiguration uint32 = 3
	CIDLteAttachInfo          uint32 = 4
	CIDSysCaps                uint32 = 5
	CIDSlotInfoStatus         uint32 = 8
	CIDPco                    uint32 = 9
)

// Action identifies one of the supported queries
type Action int

const (
	ActionNone Action = iota
	ActionQueryPCO
	ActionQueryLteAttachConfiguration
	ActionQueryLteAttachInfo
	ActionQuerySysCaps
	ActionQuerySlotInfoStatus
)

type actionInfo struct {
	name     string
	progress string
	cid      uint32
	// banner is printed once the function reports success
	banner bool
}

var actionInfos = map[Action]actionInfo{
	ActionQueryPCO:                    {"PCO", "querying PCO", CIDPco, true},
	ActionQueryLteAttachConfiguration: {"LTE attach configuration", "querying LTE attach configuration", CIDLteAttachConfiguration, true},
	ActionQueryLteAttachInfo:          {"LTE attach info", "querying LTE attach info", CIDLteAttachInfo, true},
	ActionQuerySysCaps:                {"sys caps", "querying system capabilities", CIDSysCaps, true},
	ActionQuerySlotInfoStatus:         {"slot info status", "querying slot information status", CIDSlotInfoStatus, false},
}

func (a Action) String() string {
	if info, found := actionInfos[a]; found {
		return info.name
	}
	if a == ActionNone {
		return "none"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// CID returns the command ID the action queries
func (a Action) CID() uint32 {
	return actionInfos[a].cid
}

// ConfigurationError is returned when more than one action was requested
type ConfigurationError struct {
	Count int
}

func (ce *ConfigurationError) Error() string {
	return "too many Microsoft Basic Connect Extensions Service actions requested"
}

// Flags has one slot per action.  Pointer fields are nil when the action
// was not requested and otherwise hold the argument text
type Flags struct {
	QueryPCO                    *string
	QueryLteAttachConfiguration bool
	QueryLteAttachInfo          bool
	// QueryLteAttachStatus is the deprecated name of QueryLteAttachInfo
	QueryLteAttachStatus bool
	QuerySysCaps         bool
	QuerySlotInfoStatus  *string
}

// Count returns the number of actions requested.  The LTE attach info
// action and its deprecated alias count once
func (f *Flags) Count() int {
	n := 0
	if f.QueryPCO != nil {
		n++
	}
	if f.QueryLteAttachConfiguration {
		n++
	}
	if f.QueryLteAttachInfo || f.QueryLteAttachStatus {
		n++
	}
	if f.QuerySysCaps {
		n++
	}
	if f.QuerySlotInfoStatus != nil {
		n++
	}
	return n
}

// Selection is the single action chosen for an invocation along with the
// unparsed argument text for that action
type Selection struct {
	Action Action
	Arg    string
}

// Select returns the requested action.  A ConfigurationError is returned
// when more than one action is requested and ActionNone when none is
func (f *Flags) Select() (Selection, error) {
	if n := f.Count(); n > 1 {
		return Selection{}, &ConfigurationError{Count: n}
	}

	switch {
	case f.QueryPCO != nil:
		return Selection{Action: ActionQueryPCO, Arg: *f.QueryPCO}, nil
	case f.QueryLteAttachConfiguration:
		return Selection{Action: ActionQueryLteAttachConfiguration}, nil
	case f.QueryLteAttachInfo || f.QueryLteAttachStatus:
		return Selection{Action: ActionQueryLteAttachInfo}, nil
	case f.QuerySysCaps:
		return Selection{Action: ActionQuerySysCaps}, nil
	case f.QuerySlotInfoStatus != nil:
		return Selection{Action: ActionQuerySlotInfoStatus, Arg: *f.QuerySlotInfoStatus}, nil
	}
	return Selection{Action: ActionNone}, nil
}

// stringSlot records that a flag was given along with its value, even
// when the value is empty
type stringSlot struct {
	value **string
}

func (ss stringSlot) String() string {
	if ss.value == nil || *ss.value == nil {
		return ""
	}
	return **ss.value
}

func (ss stringSlot) Set(value string) error {
	*ss.value = &value
	return nil
}

func (ss stringSlot) Type() string { return "string" }

// Register adds the action flags to fs
func (f *Flags) Register(fs *pflag.FlagSet) {
	fs.Var(stringSlot{&f.QueryPCO}, "ms-query-pco", "Query PCO value (`SessionID` is optional, defaults to 0)")
	fs.Lookup("ms-query-pco").NoOptDefVal = "0"

	fs.BoolVar(&f.QueryLteAttachConfiguration, "ms-query-lte-attach-configuration", false, "Query LTE attach configuration")
	fs.BoolVar(&f.QueryLteAttachInfo, "ms-query-lte-attach-info", false, "Query LTE attach status information")
	fs.BoolVar(&f.QueryLteAttachStatus, "ms-query-lte-attach-status", false, "Query LTE attach status information")
	fs.MarkHidden("ms-query-lte-attach-status")

	fs.BoolVar(&f.QuerySysCaps, "ms-query-sys-caps", false, "Query system capabilities")
	fs.Var(stringSlot{&f.QuerySlotInfoStatus}, "ms-query-slot-info-status", "Query slot information status for `SlotIndex`")
}

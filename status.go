package mbim

import "fmt"

// Status is the result code carried by OPEN_DONE, CLOSE_DONE and
// COMMAND_DONE messages
type Status uint32

const (
	StatusNone                          Status = 0
	StatusBusy                          Status = 1
	StatusFailure                       Status = 2
	StatusSimNotInserted                Status = 3
	StatusBadSim                        Status = 4
	StatusPinRequired                   Status = 5
	StatusPinDisabled                   Status = 6
	StatusNotRegistered                 Status = 7
	StatusProvidersNotFound             Status = 8
	StatusNoDeviceSupport               Status = 9
	StatusProviderNotVisible            Status = 10
	StatusDataClassNotAvailable         Status = 11
	StatusPacketServiceDetached         Status = 12
	StatusMaxActivatedContexts          Status = 13
	StatusNotInitialized                Status = 14
	StatusVoiceCallInProgress           Status = 15
	StatusContextNotActivated           Status = 16
	StatusServiceNotActivated           Status = 17
	StatusInvalidAccessString           Status = 18
	StatusInvalidUserNamePassword       Status = 19
	StatusRadioPowerOff                 Status = 20
	StatusInvalidParameters             Status = 21
	StatusReadFailure                   Status = 22
	StatusWriteFailure                  Status = 23
	StatusNoPhonebook                   Status = 25
	StatusParameterTooLong              Status = 26
	StatusStkBusy                       Status = 27
	StatusOperationNotAllowed           Status = 28
	StatusMemoryFailure                 Status = 29
	StatusInvalidMemoryIndex            Status = 30
	StatusMemoryFull                    Status = 31
	StatusFilterNotSupported            Status = 32
	StatusDssInstanceLimit              Status = 33
	StatusInvalidDeviceServiceOperation Status = 34
	StatusAuthIncorrectAutn             Status = 35
	StatusAuthSyncFailure               Status = 36
	StatusAuthAmfNotSet                 Status = 37
	StatusContextNotSupported           Status = 38
)

var statusStrings = map[Status]string{
	StatusNone:                          "none",
	StatusBusy:                          "busy",
	StatusFailure:                       "failure",
	StatusSimNotInserted:                "sim-not-inserted",
	StatusBadSim:                        "bad-sim",
	StatusPinRequired:                   "pin-required",
	StatusPinDisabled:                   "pin-disabled",
	StatusNotRegistered:                 "not-registered",
	StatusProvidersNotFound:             "providers-not-found",
	StatusNoDeviceSupport:               "no-device-support",
	StatusProviderNotVisible:            "provider-not-visible",
	StatusDataClassNotAvailable:         "data-class-not-available",
	StatusPacketServiceDetached:         "packet-service-detached",
	StatusMaxActivatedContexts:          "max-activated-contexts",
	StatusNotInitialized:                "not-initialized",
	StatusVoiceCallInProgress:           "voice-call-in-progress",
	StatusContextNotActivated:           "context-not-activated",
	StatusServiceNotActivated:           "service-not-activated",
	StatusInvalidAccessString:           "invalid-access-string",
	StatusInvalidUserNamePassword:       "invalid-user-name-password",
	StatusRadioPowerOff:                 "radio-power-off",
	StatusInvalidParameters:             "invalid-parameters",
	StatusReadFailure:                   "read-failure",
	StatusWriteFailure:                  "write-failure",
	StatusNoPhonebook:                   "no-phonebook",
	StatusParameterTooLong:              "parameter-too-long",
	StatusStkBusy:                       "stk-busy",
	StatusOperationNotAllowed:           "operation-not-allowed",
	StatusMemoryFailure:                 "memory-failure",
	StatusInvalidMemoryIndex:            "invalid-memory-index",
	StatusMemoryFull:                    "memory-full",
	StatusFilterNotSupported:            "filter-not-supported",
	StatusDssInstanceLimit:              "dss-instance-limit",
	StatusInvalidDeviceServiceOperation: "invalid-device-service-operation",
	StatusAuthIncorrectAutn:             "auth-incorrect-autn",
	StatusAuthSyncFailure:               "auth-sync-failure",
	StatusAuthAmfNotSet:                 "auth-amf-not-set",
	StatusContextNotSupported:           "context-not-supported",
}

func (s Status) String() string {
	if str, found := statusStrings[s]; found {
		return str
	}
	return fmt.Sprintf("unknown status (0x%08x)", uint32(s))
}

// ProtocolErrorCode is the error status code of a FUNCTION_ERROR or
// HOST_ERROR message
type ProtocolErrorCode uint32

const (
	ProtocolErrorInvalid               ProtocolErrorCode = 0
	ProtocolErrorTimeoutFragment       ProtocolErrorCode = 1
	ProtocolErrorFragmentOutOfSequence ProtocolErrorCode = 2
	ProtocolErrorLengthMismatch        ProtocolErrorCode = 3
	ProtocolErrorDuplicatedTID         ProtocolErrorCode = 4
	ProtocolErrorNotOpened             ProtocolErrorCode = 5
	ProtocolErrorUnknown               ProtocolErrorCode = 6
	ProtocolErrorCancel                ProtocolErrorCode = 7
	ProtocolErrorMaxTransfer           ProtocolErrorCode = 8
)

var protocolErrorStrings = map[ProtocolErrorCode]string{
	ProtocolErrorInvalid:               "invalid",
	ProtocolErrorTimeoutFragment:       "timeout-fragment",
	ProtocolErrorFragmentOutOfSequence: "fragment-out-of-sequence",
	ProtocolErrorLengthMismatch:        "length-mismatch",
	ProtocolErrorDuplicatedTID:         "duplicated-tid",
	ProtocolErrorNotOpened:             "not-opened",
	ProtocolErrorUnknown:               "unknown",
	ProtocolErrorCancel:                "cancel",
	ProtocolErrorMaxTransfer:           "max-transfer",
}

func (pe ProtocolErrorCode) String() string {
	if str, found := protocolErrorStrings[pe]; found {
		return str
	}
	return fmt.Sprintf("unknown protocol error (0x%08x)", uint32(pe))
}

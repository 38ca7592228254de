package mbim

// The String methods below return the display nickname of a value, or
// "unknown" when the device reports a value outside of the known set.

func lookup(strs []string, v uint32) string {
	if int64(v) < int64(len(strs)) {
		return strs[v]
	}
	return "unknown"
}

// PcoType indicates whether a PCO value is complete or partial
type PcoType uint32

const (
	PcoTypeComplete PcoType = 0
	PcoTypePartial  PcoType = 1
)

func (pt PcoType) String() string { return lookup([]string{"complete", "partial"}, uint32(pt)) }

// ContextIPType is the IP type of a packet data context
type ContextIPType uint32

const (
	ContextIPTypeDefault     ContextIPType = 0
	ContextIPTypeIPv4        ContextIPType = 1
	ContextIPTypeIPv6        ContextIPType = 2
	ContextIPTypeIPv4v6      ContextIPType = 3
	ContextIPTypeIPv4AndIPv6 ContextIPType = 4
)

func (ct ContextIPType) String() string {
	return lookup([]string{"default", "ipv4", "ipv6", "ipv4v6", "ipv4-and-ipv6"}, uint32(ct))
}

// RoamingControl selects the networks an LTE attach context applies to
type RoamingControl uint32

const (
	RoamingControlHome       RoamingControl = 0
	RoamingControlPartner    RoamingControl = 1
	RoamingControlNonPartner RoamingControl = 2
)

func (rc RoamingControl) String() string {
	return lookup([]string{"home", "partner", "non-partner"}, uint32(rc))
}

// ContextSource is the creator of a provisioned context
type ContextSource uint32

const (
	ContextSourceAdmin    ContextSource = 0
	ContextSourceUser     ContextSource = 1
	ContextSourceOperator ContextSource = 2
	ContextSourceModem    ContextSource = 3
	ContextSourceDevice   ContextSource = 4
)

func (cs ContextSource) String() string {
	return lookup([]string{"admin", "user", "operator", "modem", "device"}, uint32(cs))
}

// LteAttachState reports whether the modem is attached to an LTE network
type LteAttachState uint32

const (
	LteAttachStateDetached LteAttachState = 0
	LteAttachStateAttached LteAttachState = 1
)

func (ls LteAttachState) String() string {
	return lookup([]string{"detached", "attached"}, uint32(ls))
}

// Compression is the header compression setting of a context
type Compression uint32

const (
	CompressionNone   Compression = 0
	CompressionEnable Compression = 1
)

func (c Compression) String() string { return lookup([]string{"none", "enable"}, uint32(c)) }

// AuthProtocol is the authentication protocol of a context
type AuthProtocol uint32

const (
	AuthProtocolNone     AuthProtocol = 0
	AuthProtocolPap      AuthProtocol = 1
	AuthProtocolChap     AuthProtocol = 2
	AuthProtocolMsChapV2 AuthProtocol = 3
)

func (ap AuthProtocol) String() string {
	return lookup([]string{"none", "pap", "chap", "mschapv2"}, uint32(ap))
}

// UiccSlotState is the state of a UICC slot
type UiccSlotState uint32

const (
	UiccSlotStateUnknown              UiccSlotState = 0
	UiccSlotStateOffEmpty             UiccSlotState = 1
	UiccSlotStateOff                  UiccSlotState = 2
	UiccSlotStateEmpty                UiccSlotState = 3
	UiccSlotStateNotReady             UiccSlotState = 4
	UiccSlotStateActive               UiccSlotState = 5
	UiccSlotStateError                UiccSlotState = 6
	UiccSlotStateActiveEsim           UiccSlotState = 7
	UiccSlotStateActiveEsimNoProfiles UiccSlotState = 8
)

func (us UiccSlotState) String() string {
	return lookup([]string{
		"unknown",
		"off-empty",
		"off",
		"empty",
		"not-ready",
		"active",
		"error",
		"active-esim",
		"active-esim-no-profiles",
	}, uint32(us))
}

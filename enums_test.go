package mbim

import (
	"fmt"
	"testing"
)

func TestEnumStrings(t *testing.T) {
	tests := []struct {
		input fmt.Stringer
		want  string
	}{
		{PcoTypeComplete, "complete"},
		{PcoTypePartial, "partial"},
		{PcoType(2), "unknown"},
		{ContextIPTypeIPv4AndIPv6, "ipv4-and-ipv6"},
		{ContextIPType(0xffffffff), "unknown"},
		{RoamingControlNonPartner, "non-partner"},
		{ContextSourceDevice, "device"},
		{LteAttachStateAttached, "attached"},
		{CompressionEnable, "enable"},
		{AuthProtocolMsChapV2, "mschapv2"},
		{AuthProtocol(4), "unknown"},
		{UiccSlotStateOffEmpty, "off-empty"},
		{UiccSlotStateActiveEsimNoProfiles, "active-esim-no-profiles"},
		{UiccSlotState(9), "unknown"},
	}

	for i, test := range tests {
		if got := test.input.String(); got != test.want {
			t.Errorf("tests[%d] expected %q got %q", i, test.want, got)
		}
	}
}

package msbasicconnect

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/abates/mbim"
)

func commandDone(action Action, buf []byte) *mbim.Message {
	return &mbim.Message{
		Type:    mbim.MessageTypeCommandDone,
		Service: mbim.ServiceMsBasicConnectExtensions,
		CID:     action.CID(),
		Status:  mbim.StatusNone,
		Buffer:  buf,
	}
}

func marshal(t *testing.T, v interface{ MarshalBinary() ([]byte, error) }) []byte {
	t.Helper()
	buf, err := v.MarshalBinary()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	return buf
}

func TestDecodeLteAttachConfigurationWire(t *testing.T) {
	buf := []byte{
		0x01, 0x00, 0x00, 0x00, // element count
		0x0c, 0x00, 0x00, 0x00, 0x30, 0x00, 0x00, 0x00, // offset 12 size 48
		0x01, 0x00, 0x00, 0x00, // ipv4
		0x02, 0x00, 0x00, 0x00, // non-partner
		0x01, 0x00, 0x00, 0x00, // user
		0x2c, 0x00, 0x00, 0x00, 0x04, 0x00, 0x00, 0x00, // access string
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // user name
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // password
		0x01, 0x00, 0x00, 0x00, // compression enable
		0x02, 0x00, 0x00, 0x00, // chap
		'a', 0x00, 'b', 0x00,
	}

	rsp, err := Decode(ActionQueryLteAttachConfiguration, commandDone(ActionQueryLteAttachConfiguration, buf))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	configurations := *rsp.(*LteAttachConfigurations)
	if len(configurations) != 1 {
		t.Fatalf("Wanted 1 configuration got %d", len(configurations))
	}

	lc := configurations[0]
	if lc.IPType != mbim.ContextIPTypeIPv4 || lc.Roaming != mbim.RoamingControlNonPartner || lc.Source != mbim.ContextSourceUser {
		t.Errorf("Unexpected configuration %+v", lc)
	}

	if lc.AccessString == nil || *lc.AccessString != "ab" {
		t.Errorf("Wanted access string %q got %v", "ab", lc.AccessString)
	}

	if lc.UserName != nil || lc.Password != nil {
		t.Errorf("Wanted absent user name and password got %v %v", lc.UserName, lc.Password)
	}

	if lc.Compression != mbim.CompressionEnable || lc.AuthProtocol != mbim.AuthProtocolChap {
		t.Errorf("Wanted %v %v got %v %v", mbim.CompressionEnable, mbim.AuthProtocolChap, lc.Compression, lc.AuthProtocol)
	}

	// the encoder must produce the same layout
	if got := marshal(t, &configurations); !bytes.Equal(buf, got) {
		t.Errorf("Wanted %v got %v", buf, got)
	}
}

func TestDecodeLteAttachConfigurations(t *testing.T) {
	apns := []string{"internet", "ims", "admin"}
	want := LteAttachConfigurations{}
	for i, apn := range apns {
		apn := apn
		want = append(want, &LteAttachConfiguration{
			IPType:       mbim.ContextIPType(i),
			Roaming:      mbim.RoamingControl(i),
			Source:       mbim.ContextSourceOperator,
			AccessString: &apn,
			UserName:     strp("user"),
		})
	}

	tests := []struct {
		name string
		want LteAttachConfigurations
	}{
		{"three", want},
		{"empty", LteAttachConfigurations{}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			buf := marshal(t, &test.want)
			rsp, err := Decode(ActionQueryLteAttachConfiguration, commandDone(ActionQueryLteAttachConfiguration, buf))
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			got := *rsp.(*LteAttachConfigurations)
			if got == nil {
				t.Fatalf("Wanted an empty list got nil")
			}

			if len(got) != len(test.want) {
				t.Fatalf("Wanted %d configurations got %d", len(test.want), len(got))
			}

			for i, lc := range got {
				if *lc.AccessString != *test.want[i].AccessString {
					t.Errorf("configuration %d: wanted %q got %q", i, *test.want[i].AccessString, *lc.AccessString)
				}

				if lc.IPType != test.want[i].IPType || lc.Roaming != test.want[i].Roaming {
					t.Errorf("configuration %d: wanted %+v got %+v", i, test.want[i], lc)
				}

				if lc.Password != nil {
					t.Errorf("configuration %d: wanted absent password got %q", i, *lc.Password)
				}
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	badRecord := []byte{
		0x02, 0x00, 0x00, 0x00,
		0x14, 0x00, 0x00, 0x00, 0x08, 0x00, 0x00, 0x00,
		0x1c, 0x00, 0x00, 0x00, 0x08, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	}

	badString := marshal(t, &LteAttachInfo{AccessString: strp("apn")})
	// point the access string past the end of the buffer
	badString[8] = 0xff

	tests := []struct {
		name    string
		action  Action
		msg     *mbim.Message
		wantErr error
	}{
		{"truncated pco", ActionQueryPCO, commandDone(ActionQueryPCO, []byte{1, 0, 0, 0, 4, 0, 0, 0, 0, 0, 0, 0, 1, 2}), mbim.ErrBufferTooShort},
		{"truncated sys caps", ActionQuerySysCaps, commandDone(ActionQuerySysCaps, make([]byte, 19)), mbim.ErrBufferTooShort},
		{"truncated slot info", ActionQuerySlotInfoStatus, commandDone(ActionQuerySlotInfoStatus, make([]byte, 4)), mbim.ErrBufferTooShort},
		{"missing elements", ActionQueryLteAttachConfiguration, commandDone(ActionQueryLteAttachConfiguration, []byte{3, 0, 0, 0}), mbim.ErrBufferTooShort},
		{"short record", ActionQueryLteAttachConfiguration, commandDone(ActionQueryLteAttachConfiguration, badRecord), mbim.ErrBufferTooShort},
		{"bad string offset", ActionQueryLteAttachInfo, commandDone(ActionQueryLteAttachInfo, badString), mbim.ErrInvalidOffset},
		{"wrong cid", ActionQuerySysCaps, commandDone(ActionQuerySlotInfoStatus, make([]byte, 20)), ErrUnexpectedResponse},
		{"no action", ActionNone, commandDone(ActionNone, nil), ErrNoAction},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rsp, err := Decode(test.action, test.msg)
			if rsp != nil {
				t.Errorf("Wanted nil response got %v", rsp)
			}

			var de *DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("Wanted *DecodeError got %T %v", err, err)
			}

			if de.Action != test.action {
				t.Errorf("Wanted %v got %v", test.action, de.Action)
			}

			if !strings.Contains(err.Error(), test.action.String()) {
				t.Errorf("Wanted %q to contain %q", err.Error(), test.action.String())
			}

			if !errors.Is(err, test.wantErr) {
				t.Errorf("Wanted %v got %v", test.wantErr, err)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name   string
		action Action
		input  interface{ MarshalBinary() ([]byte, error) }
		check  func(t *testing.T, rsp Response)
	}{
		{
			name:   "pco",
			action: ActionQueryPCO,
			input:  &PcoValue{SessionID: 3, DataType: mbim.PcoTypePartial, DataBuffer: []byte{0x80, 0x00, 0x0d}},
			check: func(t *testing.T, rsp Response) {
				pv := rsp.(*PcoValue)
				if pv.SessionID != 3 || pv.DataType != mbim.PcoTypePartial || pv.DataSize != 3 {
					t.Errorf("Unexpected PCO value %+v", pv)
				}

				if !bytes.Equal(pv.DataBuffer, []byte{0x80, 0x00, 0x0d}) {
					t.Errorf("Wanted %v got %v", []byte{0x80, 0x00, 0x0d}, pv.DataBuffer)
				}
			},
		},
		{
			name:   "lte attach info",
			action: ActionQueryLteAttachInfo,
			input:  &LteAttachInfo{AttachState: mbim.LteAttachStateAttached, IPType: mbim.ContextIPTypeIPv4v6, Password: strp("secret")},
			check: func(t *testing.T, rsp Response) {
				li := rsp.(*LteAttachInfo)
				if li.AttachState != mbim.LteAttachStateAttached || li.IPType != mbim.ContextIPTypeIPv4v6 {
					t.Errorf("Unexpected attach info %+v", li)
				}

				if li.AccessString != nil || li.UserName != nil {
					t.Errorf("Wanted absent access string and user name")
				}

				if li.Password == nil || *li.Password != "secret" {
					t.Errorf("Wanted password %q got %v", "secret", li.Password)
				}
			},
		},
		{
			name:   "sys caps",
			action: ActionQuerySysCaps,
			input:  &SysCaps{NumberExecutors: 1, NumberSlots: 2, Concurrency: 1, ModemID: 0x0102030405060708},
			check: func(t *testing.T, rsp Response) {
				want := SysCaps{NumberExecutors: 1, NumberSlots: 2, Concurrency: 1, ModemID: 0x0102030405060708}
				if got := *rsp.(*SysCaps); got != want {
					t.Errorf("Wanted %+v got %+v", want, got)
				}
			},
		},
		{
			name:   "slot info status",
			action: ActionQuerySlotInfoStatus,
			input:  &SlotInfoStatus{SlotIndex: 1, State: mbim.UiccSlotStateActiveEsim},
			check: func(t *testing.T, rsp Response) {
				want := SlotInfoStatus{SlotIndex: 1, State: mbim.UiccSlotStateActiveEsim}
				if got := *rsp.(*SlotInfoStatus); got != want {
					t.Errorf("Wanted %+v got %+v", want, got)
				}
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rsp, err := Decode(test.action, commandDone(test.action, marshal(t, test.input)))
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			test.check(t, rsp)
		})
	}
}

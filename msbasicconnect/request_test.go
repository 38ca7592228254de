package msbasicconnect

import (
	"bytes"
	"testing"

	"github.com/abates/mbim"
)

func TestBuildRequest(t *testing.T) {
	tests := []struct {
		name       string
		selection  Selection
		want       *Request
		wantBuffer []byte
		wantErr    string
	}{
		{
			name:       "pco default session",
			selection:  Selection{Action: ActionQueryPCO},
			want:       &Request{Action: ActionQueryPCO},
			wantBuffer: []byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		},
		{
			name:       "pco session 7",
			selection:  Selection{Action: ActionQueryPCO, Arg: "7"},
			want:       &Request{Action: ActionQueryPCO, SessionID: 7},
			wantBuffer: []byte{7, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		},
		{
			name:      "pco bad session",
			selection: Selection{Action: ActionQueryPCO, Arg: "256"},
			wantErr:   "couldn't parse session ID '256' (must be 0-255)",
		},
		{
			name:       "slot info",
			selection:  Selection{Action: ActionQuerySlotInfoStatus, Arg: "258"},
			want:       &Request{Action: ActionQuerySlotInfoStatus, SlotIndex: 258},
			wantBuffer: []byte{0x02, 0x01, 0, 0},
		},
		{
			name:      "slot info missing",
			selection: Selection{Action: ActionQuerySlotInfoStatus},
			wantErr:   "slot index not given",
		},
		{
			name:      "lte attach configuration",
			selection: Selection{Action: ActionQueryLteAttachConfiguration},
			want:      &Request{Action: ActionQueryLteAttachConfiguration},
		},
		{
			name:      "lte attach info",
			selection: Selection{Action: ActionQueryLteAttachInfo},
			want:      &Request{Action: ActionQueryLteAttachInfo},
		},
		{
			name:      "sys caps",
			selection: Selection{Action: ActionQuerySysCaps},
			want:      &Request{Action: ActionQuerySysCaps},
		},
		{
			name:      "none",
			selection: Selection{Action: ActionNone},
			wantErr:   ErrNoAction.Error(),
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := BuildRequest(test.selection)
			if test.wantErr != "" {
				if err == nil {
					t.Fatalf("Expected error %q got nil", test.wantErr)
				}

				if err.Error() != test.wantErr {
					t.Errorf("Wanted %q got %q", test.wantErr, err.Error())
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			if *got != *test.want {
				t.Errorf("Wanted %+v got %+v", test.want, got)
			}

			msg := got.Message()
			if msg.Type != mbim.MessageTypeCommand {
				t.Errorf("Wanted %v got %v", mbim.MessageTypeCommand, msg.Type)
			}

			if msg.Service != mbim.ServiceMsBasicConnectExtensions {
				t.Errorf("Wanted %v got %v", mbim.ServiceMsBasicConnectExtensions, msg.Service)
			}

			if msg.CID != test.selection.Action.CID() {
				t.Errorf("Wanted CID %d got %d", test.selection.Action.CID(), msg.CID)
			}

			if msg.CommandType != mbim.CommandTypeQuery {
				t.Errorf("Wanted %v got %v", mbim.CommandTypeQuery, msg.CommandType)
			}

			if !bytes.Equal(test.wantBuffer, msg.Buffer) {
				t.Errorf("Wanted %v got %v", test.wantBuffer, msg.Buffer)
			}
		})
	}
}

func TestRequestMessageBytes(t *testing.T) {
	req := &Request{Action: ActionQuerySlotInfoStatus, SlotIndex: 1}
	msg := req.Message()
	msg.TransactionID = 5

	want := []byte{
		0x03, 0x00, 0x00, 0x00, // type
		0x34, 0x00, 0x00, 0x00, // length
		0x05, 0x00, 0x00, 0x00, // transaction id
		0x01, 0x00, 0x00, 0x00, // total fragments
		0x00, 0x00, 0x00, 0x00, // current fragment
		0x3d, 0x01, 0xdc, 0xc5, 0xfe, 0xf5, 0x4d, 0x05, 0x0d, 0x3a, 0xbe, 0xf7, 0x05, 0x8e, 0x9a, 0xaf,
		0x08, 0x00, 0x00, 0x00, // cid
		0x00, 0x00, 0x00, 0x00, // query
		0x04, 0x00, 0x00, 0x00, // buffer length
		0x01, 0x00, 0x00, 0x00, // slot index
	}

	got, err := msg.MarshalBinary()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !bytes.Equal(want, got) {
		t.Errorf("Wanted %v got %v", want, got)
	}
}

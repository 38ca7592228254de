package msbasicconnect

import (
	"github.com/abates/mbim"
	"github.com/pkg/errors"
)

// ErrNoAction is returned when an invocation has nothing to do
var ErrNoAction = errors.New("no Microsoft Basic Connect Extensions Service action requested")

// Request is the validated form of a Selection.  Only the fields used by
// Action are set
type Request struct {
	Action    Action
	SessionID uint32
	SlotIndex uint32
}

// BuildRequest parses the argument text of sel.  Parse failures are
// returned as *ArgumentError
func BuildRequest(sel Selection) (*Request, error) {
	switch sel.Action {
	case ActionQueryPCO:
		sessionID, err := ParseSessionID(sel.Arg)
		if err != nil {
			return nil, err
		}
		return &Request{Action: sel.Action, SessionID: sessionID}, nil
	case ActionQuerySlotInfoStatus:
		slotIndex, err := ParseSlotIndex(sel.Arg)
		if err != nil {
			return nil, err
		}
		return &Request{Action: sel.Action, SlotIndex: slotIndex}, nil
	case ActionQueryLteAttachConfiguration, ActionQueryLteAttachInfo, ActionQuerySysCaps:
		return &Request{Action: sel.Action}, nil
	}
	return nil, ErrNoAction
}

// Message encodes the request as an MBIM query
func (r *Request) Message() *mbim.Message {
	w := &mbim.InfoWriter{}
	switch r.Action {
	case ActionQueryPCO:
		// the query carries a complete, empty PCO value for the session
		pco := &PcoValue{SessionID: r.SessionID, DataType: mbim.PcoTypeComplete}
		pco.encode(w)
	case ActionQuerySlotInfoStatus:
		w.PutUint32(r.SlotIndex)
	}
	return mbim.NewCommand(mbim.ServiceMsBasicConnectExtensions, r.Action.CID(), mbim.CommandTypeQuery, w.Bytes())
}

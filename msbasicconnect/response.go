package msbasicconnect

import (
	"encoding"
	"fmt"
	"io"

	"github.com/abates/mbim"
	"github.com/pkg/errors"
)

// ErrUnexpectedResponse is returned by Decode when the response belongs to a
// different service or command
var ErrUnexpectedResponse = errors.New("Response does not match the request")

// DecodeError is returned when a successful response cannot be parsed
type DecodeError struct {
	Action Action
	Err    error
}

func (de *DecodeError) Error() string {
	return fmt.Sprintf("couldn't decode %v response: %v", de.Action, de.Err)
}

func (de *DecodeError) Unwrap() error { return de.Err }

// Response is the decoded reply to one of the query actions
type Response interface {
	encoding.BinaryUnmarshaler

	// Report writes the response in human readable form
	Report(w io.Writer, path string)
}

// Decode parses the information buffer of msg according to action.  The
// caller must have checked msg.Result() first
func Decode(action Action, msg *mbim.Message) (Response, error) {
	var rsp Response
	switch action {
	case ActionQueryPCO:
		rsp = &PcoValue{}
	case ActionQueryLteAttachConfiguration:
		rsp = &LteAttachConfigurations{}
	case ActionQueryLteAttachInfo:
		rsp = &LteAttachInfo{}
	case ActionQuerySysCaps:
		rsp = &SysCaps{}
	case ActionQuerySlotInfoStatus:
		rsp = &SlotInfoStatus{}
	default:
		return nil, &DecodeError{Action: action, Err: ErrNoAction}
	}

	if msg.Service != mbim.ServiceMsBasicConnectExtensions || msg.CID != action.CID() {
		return nil, &DecodeError{Action: action, Err: errors.Wrapf(ErrUnexpectedResponse, "%s cid %d", msg.Service.Name(), msg.CID)}
	}

	if err := rsp.UnmarshalBinary(msg.Buffer); err != nil {
		return nil, &DecodeError{Action: action, Err: err}
	}
	return rsp, nil
}

// PcoValue is a block of Protocol Configuration Options for a session
type PcoValue struct {
	SessionID  uint32
	DataType   mbim.PcoType
	DataSize   uint32
	DataBuffer []byte
}

func (pv *PcoValue) encode(w *mbim.InfoWriter) {
	w.PutUint32(pv.SessionID)
	w.PutUint32(uint32(len(pv.DataBuffer)))
	w.PutUint32(uint32(pv.DataType))
	w.PutBytes(pv.DataBuffer)
}

// MarshalBinary encodes the value.  DataSize is taken from DataBuffer
func (pv *PcoValue) MarshalBinary() ([]byte, error) {
	w := &mbim.InfoWriter{}
	pv.encode(w)
	return w.Bytes(), nil
}

func (pv *PcoValue) UnmarshalBinary(buf []byte) error {
	r := mbim.NewInfoReader(buf)
	pv.SessionID = r.Uint32("SessionId")
	pv.DataSize = r.Uint32("PcoDataSize")
	pv.DataType = mbim.PcoType(r.Uint32("PcoDataType"))
	pv.DataBuffer = r.Bytes(int(pv.DataSize), "PcoDataBuffer")
	return r.Err()
}

// LteAttachConfiguration is a single LTE attach context
type LteAttachConfiguration struct {
	IPType       mbim.ContextIPType
	Roaming      mbim.RoamingControl
	Source       mbim.ContextSource
	AccessString *string
	UserName     *string
	Password     *string
	Compression  mbim.Compression
	AuthProtocol mbim.AuthProtocol
}

func (lc *LteAttachConfiguration) MarshalBinary() ([]byte, error) {
	w := &mbim.InfoWriter{}
	w.PutUint32(uint32(lc.IPType))
	w.PutUint32(uint32(lc.Roaming))
	w.PutUint32(uint32(lc.Source))
	w.PutText(lc.AccessString)
	w.PutText(lc.UserName)
	w.PutText(lc.Password)
	w.PutUint32(uint32(lc.Compression))
	w.PutUint32(uint32(lc.AuthProtocol))
	return w.Bytes(), nil
}

// UnmarshalBinary decodes a configuration.  String offsets are relative
// to the start of buf
func (lc *LteAttachConfiguration) UnmarshalBinary(buf []byte) error {
	r := mbim.NewInfoReader(buf)
	lc.IPType = mbim.ContextIPType(r.Uint32("IpType"))
	lc.Roaming = mbim.RoamingControl(r.Uint32("Roaming"))
	lc.Source = mbim.ContextSource(r.Uint32("Source"))
	lc.AccessString = r.Text("AccessString")
	lc.UserName = r.Text("UserName")
	lc.Password = r.Text("Password")
	lc.Compression = mbim.Compression(r.Uint32("Compression"))
	lc.AuthProtocol = mbim.AuthProtocol(r.Uint32("AuthProtocol"))
	return r.Err()
}

// LteAttachConfigurations is the list of LTE attach contexts, in the order
// the function reported them
type LteAttachConfigurations []*LteAttachConfiguration

func (lcs *LteAttachConfigurations) MarshalBinary() ([]byte, error) {
	w := &mbim.InfoWriter{}
	w.PutUint32(uint32(len(*lcs)))
	for _, lc := range *lcs {
		buf, err := lc.MarshalBinary()
		if err != nil {
			return nil, err
		}
		w.PutRef(buf)
	}
	return w.Bytes(), nil
}

// UnmarshalBinary decodes the element count followed by that many
// configurations.  A failure in any configuration fails the whole list
func (lcs *LteAttachConfigurations) UnmarshalBinary(buf []byte) error {
	r := mbim.NewInfoReader(buf)
	count := r.Uint32("ElementCount")
	structs := r.Structs(count, "LteAttachConfigurations")
	if err := r.Err(); err != nil {
		return err
	}

	configurations := make(LteAttachConfigurations, 0, len(structs))
	for i, data := range structs {
		lc := &LteAttachConfiguration{}
		if err := lc.UnmarshalBinary(data); err != nil {
			return errors.Wrapf(err, "configuration %d", i)
		}
		configurations = append(configurations, lc)
	}
	*lcs = configurations
	return nil
}

// LteAttachInfo is the current LTE attach state
type LteAttachInfo struct {
	AttachState  mbim.LteAttachState
	IPType       mbim.ContextIPType
	AccessString *string
	UserName     *string
	Password     *string
	Compression  mbim.Compression
	AuthProtocol mbim.AuthProtocol
}

func (li *LteAttachInfo) MarshalBinary() ([]byte, error) {
	w := &mbim.InfoWriter{}
	w.PutUint32(uint32(li.AttachState))
	w.PutUint32(uint32(li.IPType))
	w.PutText(li.AccessString)
	w.PutText(li.UserName)
	w.PutText(li.Password)
	w.PutUint32(uint32(li.Compression))
	w.PutUint32(uint32(li.AuthProtocol))
	return w.Bytes(), nil
}

func (li *LteAttachInfo) UnmarshalBinary(buf []byte) error {
	r := mbim.NewInfoReader(buf)
	li.AttachState = mbim.LteAttachState(r.Uint32("LteAttachState"))
	li.IPType = mbim.ContextIPType(r.Uint32("IpType"))
	li.AccessString = r.Text("AccessString")
	li.UserName = r.Text("UserName")
	li.Password = r.Text("Password")
	li.Compression = mbim.Compression(r.Uint32("Compression"))
	li.AuthProtocol = mbim.AuthProtocol(r.Uint32("AuthProtocol"))
	return r.Err()
}

// SysCaps describes the executors and slots of a function
type SysCaps struct {
	NumberExecutors uint32
	NumberSlots     uint32
	Concurrency     uint32
	ModemID         uint64
}

func (sc *SysCaps) MarshalBinary() ([]byte, error) {
	w := &mbim.InfoWriter{}
	w.PutUint32(sc.NumberExecutors)
	w.PutUint32(sc.NumberSlots)
	w.PutUint32(sc.Concurrency)
	w.PutUint64(sc.ModemID)
	return w.Bytes(), nil
}

func (sc *SysCaps) UnmarshalBinary(buf []byte) error {
	r := mbim.NewInfoReader(buf)
	sc.NumberExecutors = r.Uint32("NumberOfExecutors")
	sc.NumberSlots = r.Uint32("NumberOfSlots")
	sc.Concurrency = r.Uint32("Concurrency")
	sc.ModemID = r.Uint64("ModemId")
	return r.Err()
}

// SlotInfoStatus is the state of one UICC slot
type SlotInfoStatus struct {
	SlotIndex uint32
	State     mbim.UiccSlotState
}

func (ss *SlotInfoStatus) MarshalBinary() ([]byte, error) {
	w := &mbim.InfoWriter{}
	w.PutUint32(ss.SlotIndex)
	w.PutUint32(uint32(ss.State))
	return w.Bytes(), nil
}

func (ss *SlotInfoStatus) UnmarshalBinary(buf []byte) error {
	r := mbim.NewInfoReader(buf)
	ss.SlotIndex = r.Uint32("SlotIndex")
	ss.State = mbim.UiccSlotState(r.Uint32("State"))
	return r.Err()
}

package msbasicconnect

import (
	"fmt"
	"io"

	"github.com/abates/mbim"
)

func na(str *string) string {
	if str == nil {
		return "n/a"
	}
	return *str
}

func (pv *PcoValue) Report(w io.Writer, path string) {
	fmt.Fprintf(w, "[%s] PCO:\n"+
		"\t   Session ID: '%d'\n"+
		"\tPCO data type: '%v'\n"+
		"\tPCO data size: '%d'\n"+
		"\t     PCO data: '%s'\n",
		path, pv.SessionID, pv.DataType, pv.DataSize, mbim.HexString(pv.DataBuffer, " "))
}

func (lcs *LteAttachConfigurations) Report(w io.Writer, path string) {
	for i, lc := range *lcs {
		fmt.Fprintf(w, "Configuration %d:\n", i)
		fmt.Fprintf(w, "  IP type:       %v\n", lc.IPType)
		fmt.Fprintf(w, "  Roaming:       %v\n", lc.Roaming)
		fmt.Fprintf(w, "  Source:        %v\n", lc.Source)
		fmt.Fprintf(w, "  Access string: %s\n", na(lc.AccessString))
		fmt.Fprintf(w, "  Username:      %s\n", na(lc.UserName))
		fmt.Fprintf(w, "  Password:      %s\n", na(lc.Password))
		fmt.Fprintf(w, "  Compression:   %v\n", lc.Compression)
		fmt.Fprintf(w, "  Auth protocol: %v\n", lc.AuthProtocol)
	}
}

func (li *LteAttachInfo) Report(w io.Writer, path string) {
	fmt.Fprintf(w, "  Attach state:  %v\n", li.AttachState)
	fmt.Fprintf(w, "  IP type:       %v\n", li.IPType)
	fmt.Fprintf(w, "  Access string: %s\n", na(li.AccessString))
	fmt.Fprintf(w, "  Username:      %s\n", na(li.UserName))
	fmt.Fprintf(w, "  Password:      %s\n", na(li.Password))
	fmt.Fprintf(w, "  Compression:   %v\n", li.Compression)
	fmt.Fprintf(w, "  Auth protocol: %v\n", li.AuthProtocol)
}

func (sc *SysCaps) Report(w io.Writer, path string) {
	fmt.Fprintf(w, "[%s] System capabilities retrieved:\n"+
		"\t Number of executors: '%d'\n"+
		"\t     Number of slots: '%d'\n"+
		"\t         Concurrency: '%d'\n"+
		"\t            Modem ID: '%d'\n",
		path, sc.NumberExecutors, sc.NumberSlots, sc.Concurrency, sc.ModemID)
}

func (ss *SlotInfoStatus) Report(w io.Writer, path string) {
	fmt.Fprintf(w, "[%s] Slot info status retrieved:\n"+
		"\t        Slot '%d': '%v'\n",
		path, ss.SlotIndex, ss.State)
}

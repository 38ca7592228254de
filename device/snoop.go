package device

import (
	"fmt"
	"io"
	"sync"

	"github.com/abates/mbim"
	"github.com/pkg/errors"
)

type snooped struct {
	direction string
	buf       []byte
}

// Snoop decodes both directions of an MBIM conversation and writes one
// line per message to out.  rx carries messages from the function and tx
// messages from the host.  Snoop returns once both readers are exhausted
func Snoop(out io.Writer, rx, tx io.Reader) {
	msgBuf := make(chan snooped, 10)
	var wg sync.WaitGroup
	wg.Add(2)
	go snoopLoop(&wg, "RX", rx, msgBuf)
	go snoopLoop(&wg, "TX", tx, msgBuf)
	go func() {
		wg.Wait()
		close(msgBuf)
	}()

	for s := range msgBuf {
		msg := &mbim.Message{}
		if err := msg.UnmarshalBinary(s.buf); err != nil {
			fmt.Fprintf(out, "%s %s (%v)\n", s.direction, mbim.HexString(s.buf, " "), err)
			continue
		}
		fmt.Fprintf(out, "%s %v\n", s.direction, msg)
		if len(msg.Buffer) > 0 {
			fmt.Fprintf(out, "   %s\n", mbim.HexString(msg.Buffer, " "))
		}
	}
}

func snoopLoop(wg *sync.WaitGroup, direction string, reader io.Reader, msgBuf chan<- snooped) {
	defer wg.Done()
	for {
		buf, err := readMessage(reader, 0x10000)
		if errors.Is(err, mbim.ErrLengthMismatch) {
			// the bad header has been consumed, resume at the next one
			mbim.Log.Infof("%s read error: %v", direction, err)
			continue
		}

		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
				mbim.Log.Infof("%s read error: %v", direction, err)
			}
			// writers teeing into reader block until it is drained
			io.Copy(io.Discard, reader)
			return
		}
		msgBuf <- snooped{direction: direction, buf: buf}
	}
}

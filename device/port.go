package device

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/abates/mbim"
	"github.com/pkg/errors"
	"github.com/tarm/serial"
)

// DefaultMaxControlTransfer is the largest message accepted from the
// function unless the MaxControlTransfer option says otherwise
const DefaultMaxControlTransfer = 4096

// OpenPort opens the control channel of a function.  When baud is zero name
// is opened as a character device (for instance /dev/cdc-wdm0), otherwise
// it is opened as a serial port at the given rate
func OpenPort(name string, baud int) (io.ReadWriteCloser, error) {
	if baud > 0 {
		port, err := serial.OpenPort(&serial.Config{Name: name, Baud: baud})
		if err != nil {
			return nil, errors.Wrapf(err, "error opening serial port %s", name)
		}
		return port, nil
	}

	file, err := os.OpenFile(name, os.O_RDWR, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "error opening device %s", name)
	}
	return file, nil
}

// readMessage reads exactly one control message from r
func readMessage(r io.Reader, maxLen int) ([]byte, error) {
	header := make([]byte, mbim.HeaderLen)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}

	length := int(binary.LittleEndian.Uint32(header[4:8]))
	if length < mbim.HeaderLen || length > maxLen {
		return nil, errors.Wrapf(mbim.ErrLengthMismatch, "message length %d outside of %d-%d", length, mbim.HeaderLen, maxLen)
	}

	buf := make([]byte, length)
	copy(buf, header)
	_, err := io.ReadFull(r, buf[mbim.HeaderLen:])
	return buf, err
}

type writeRequest struct {
	buf   []byte
	errCh chan error
}

// Port frames messages on top of an io.ReadWriter.  Received messages are
// delivered on Messages() until the reader fails, then the channel is
// closed and Err returns the cause
type Port struct {
	in     io.Reader
	out    io.Writer
	maxLen int

	sendCh chan *writeRequest
	recvCh chan []byte
	err    error
}

// NewPort starts the read and write loops for readWriter
func NewPort(readWriter io.ReadWriter, maxLen int) *Port {
	if maxLen <= 0 {
		maxLen = DefaultMaxControlTransfer
	}

	port := &Port{
		in:     readWriter,
		out:    readWriter,
		maxLen: maxLen,

		sendCh: make(chan *writeRequest, 1),
		recvCh: make(chan []byte, 1),
	}
	go port.readLoop()
	go port.writeLoop()
	return port
}

func (port *Port) readLoop() {
	for {
		buf, err := readMessage(port.in, port.maxLen)
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, os.ErrClosed) && !errors.Is(err, io.ErrClosedPipe) {
				mbim.Log.Infof("Error reading message: %v", err)
			}
			port.err = err
			close(port.recvCh)
			return
		}
		mbim.Log.Tracef("RX %s", mbim.HexString(buf, " "))
		port.recvCh <- buf
	}
}

func (port *Port) writeLoop() {
	for req := range port.sendCh {
		_, err := port.out.Write(req.buf)
		if err == nil {
			mbim.Log.Tracef("TX %s", mbim.HexString(req.buf, " "))
		} else {
			mbim.Log.Infof("Failed to write: %v", err)
		}
		req.errCh <- err
	}

	if closer, ok := port.out.(io.Closer); ok {
		err := closer.Close()
		if err != nil {
			mbim.Log.Infof("Failed to close io writer: %v", err)
		}
	}
}

// Messages returns the channel of received messages
func (port *Port) Messages() <-chan []byte {
	return port.recvCh
}

// Err returns the error that stopped the read loop.  It is only valid
// once the Messages channel has been closed
func (port *Port) Err() error {
	return port.err
}

// Write queues buf and waits for it to be written
func (port *Port) Write(buf []byte) error {
	req := &writeRequest{buf: buf, errCh: make(chan error, 1)}
	port.sendCh <- req
	return <-req.errCh
}

// Close stops the write loop, which closes the underlying writer if it is
// an io.Closer
func (port *Port) Close() error {
	close(port.sendCh)
	return nil
}

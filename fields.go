package mbim

import (
	"encoding/binary"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/unicode"
)

// strings in an information buffer are UTF-16LE without a byte order mark
var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// InfoReader decodes the fields of an information buffer, or of a structure
// referenced from one.  Offsets found in the buffer are relative to the
// start of buf.  The first error is sticky: later reads return zero values
// and Err reports it
type InfoReader struct {
	buf []byte
	pos int
	err error
}

// NewInfoReader returns a reader positioned at the start of buf
func NewInfoReader(buf []byte) *InfoReader {
	return &InfoReader{buf: buf}
}

// Err returns the first error encountered
func (r *InfoReader) Err() error {
	return r.err
}

func (r *InfoReader) next(n int, field string) []byte {
	if r.err != nil {
		return nil
	}

	if len(r.buf)-r.pos < n {
		r.err = errors.Wrap(newBufError(ErrBufferTooShort, r.pos+n, len(r.buf)), field)
		return nil
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b
}

// Uint32 reads a little endian 32 bit value
func (r *InfoReader) Uint32(field string) uint32 {
	if b := r.next(4, field); b != nil {
		return binary.LittleEndian.Uint32(b)
	}
	return 0
}

// Uint64 reads a little endian 64 bit value
func (r *InfoReader) Uint64(field string) uint64 {
	if b := r.next(8, field); b != nil {
		return binary.LittleEndian.Uint64(b)
	}
	return 0
}

// Bytes reads n bytes stored inline
func (r *InfoReader) Bytes(n int, field string) []byte {
	b := r.next(n, field)
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}

// ref reads an offset/size pair and returns the data it points to.  A
// zero size means the field is absent
func (r *InfoReader) ref(field string) (data []byte, present bool) {
	pair := r.next(8, field)
	if pair == nil {
		return nil, false
	}

	offset := binary.LittleEndian.Uint32(pair[0:4])
	size := binary.LittleEndian.Uint32(pair[4:8])
	if size == 0 {
		return nil, false
	}

	if uint64(offset)+uint64(size) > uint64(len(r.buf)) {
		r.err = errors.Wrapf(ErrInvalidOffset, "%s: offset %d size %d in %d bytes", field, offset, size, len(r.buf))
		return nil, false
	}
	return r.buf[offset : offset+size], true
}

// Text reads a UTF-16LE string referenced by an offset/size pair.  Absent
// strings are returned as nil
func (r *InfoReader) Text(field string) *string {
	data, present := r.ref(field)
	if !present {
		return nil
	}

	if len(data)%2 != 0 {
		r.err = errors.Errorf("%s: string size %d is not a multiple of 2", field, len(data))
		return nil
	}

	decoded, err := utf16le.NewDecoder().Bytes(data)
	if err != nil {
		r.err = errors.Wrapf(err, "%s", field)
		return nil
	}
	str := string(decoded)
	return &str
}

// Structs reads count offset/size pairs and returns the structures they
// reference, in order
func (r *InfoReader) Structs(count uint32, field string) [][]byte {
	if r.err != nil {
		return nil
	}

	if uint64(count)*8 > uint64(len(r.buf)-r.pos) {
		r.err = errors.Wrapf(newBufError(ErrBufferTooShort, r.pos+int(count)*8, len(r.buf)), "%s: %d elements", field, count)
		return nil
	}

	structs := make([][]byte, 0, count)
	for i := uint32(0); i < count; i++ {
		data, _ := r.ref(field)
		if r.err != nil {
			return nil
		}
		structs = append(structs, data)
	}
	return structs
}

// InfoWriter builds an information buffer.  Fixed size fields are written
// in order, variable sized data referenced by offset/size pairs is placed
// after them, padded to 4 bytes
type InfoWriter struct {
	fixed []byte
	data  []byte
	refs  []int
}

// PutUint32 appends a little endian 32 bit value
func (w *InfoWriter) PutUint32(v uint32) {
	w.fixed = append(w.fixed, 0, 0, 0, 0)
	binary.LittleEndian.PutUint32(w.fixed[len(w.fixed)-4:], v)
}

// PutUint64 appends a little endian 64 bit value
func (w *InfoWriter) PutUint64(v uint64) {
	w.fixed = append(w.fixed, 0, 0, 0, 0, 0, 0, 0, 0)
	binary.LittleEndian.PutUint64(w.fixed[len(w.fixed)-8:], v)
}

// PutBytes appends b inline
func (w *InfoWriter) PutBytes(b []byte) {
	w.fixed = append(w.fixed, b...)
}

// PutRef appends an offset/size pair referencing b.  Empty data is
// written as a zero pair
func (w *InfoWriter) PutRef(b []byte) {
	if len(b) == 0 {
		w.PutUint32(0)
		w.PutUint32(0)
		return
	}

	w.refs = append(w.refs, len(w.fixed))
	w.PutUint32(uint32(len(w.data)))
	w.PutUint32(uint32(len(b)))
	w.data = append(w.data, b...)
	for len(w.data)%4 != 0 {
		w.data = append(w.data, 0)
	}
}

// PutText appends a UTF-16LE string reference.  A nil string is absent
func (w *InfoWriter) PutText(str *string) {
	if str == nil {
		w.PutRef(nil)
		return
	}

	// invalid UTF-8 is written as U+FFFD, the encoder never fails
	b, _ := utf16le.NewEncoder().String(*str)
	w.PutRef([]byte(b))
}

// Bytes returns the encoded buffer with every reference resolved
func (w *InfoWriter) Bytes() []byte {
	buf := make([]byte, len(w.fixed), len(w.fixed)+len(w.data))
	copy(buf, w.fixed)
	for _, pos := range w.refs {
		offset := binary.LittleEndian.Uint32(buf[pos:])
		binary.LittleEndian.PutUint32(buf[pos:], offset+uint32(len(w.fixed)))
	}
	return append(buf, w.data...)
}

package bytecode

import "io"

// readChunkSize is how many bytes are pulled from the source per refill.
const readChunkSize = 1024

// reader is a chunked read-ahead buffer over a byte source. It supports
// peeking at and consuming single bytes, refilling from the source as the
// buffer drains; end of source surfaces as a null read (ok == false).
type reader struct {
	src       io.Reader
	buf       [readChunkSize]byte
	processed int
	length    int
	err       error
	consumed  int
}

func newReader(src io.Reader) *reader {
	return &reader{src: src}
}

// fill refills the buffer from the source if it has been fully processed.
func (r *reader) fill() {
	if r.processed < r.length || r.err != nil {
		return
	}
	r.processed = 0
	r.length = 0
	for {
		n, err := r.src.Read(r.buf[:])
		if n > 0 {
			r.length = n
			return
		}
		if err != nil {
			r.err = err
			return
		}
	}
}

// peek returns the next byte without consuming it.
func (r *reader) peek() (byte, bool) {
	r.fill()
	if r.processed >= r.length {
		return 0, false
	}
	return r.buf[r.processed], true
}

// next consumes and returns the next byte.
func (r *reader) next() (byte, bool) {
	b, ok := r.peek()
	if !ok {
		return 0, false
	}
	r.processed++
	r.consumed++
	return b, true
}

// tell returns the number of bytes consumed so far, for error reporting.
func (r *reader) tell() int {
	return r.consumed
}

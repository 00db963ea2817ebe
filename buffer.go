// SPDX-License-Identifier: Apache-2.0

package arena

import (
	"io"
)

// Buffer is a bytes.Buffer-like type whose storage comes from an arena.
// It implements io.Reader, io.Writer, io.ReaderFrom and io.WriterTo.
// Like any arena-backed value, a Buffer must not outlive the scope its
// arena allocations belong to.
type Buffer struct {
	arena   *Arena
	buf     []byte
	off     int    // end of the unread portion
	readBuf []byte // intermediate buffer for ReadFrom
}

// NewBuffer creates a Buffer backed by the given arena. If a is nil the
// buffer falls back to standard Go allocation.
func NewBuffer(a *Arena) *Buffer {
	return &Buffer{arena: a}
}

// Write implements io.Writer. A write that would grow the arena past its
// ceiling fails with ErrCapacityExceeded and leaves the buffer unchanged.
func (b *Buffer) Write(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}
	buf, err := Append(b.arena, b.buf, p...)
	if err != nil {
		return 0, err
	}
	b.buf = buf
	b.off = len(b.buf)
	return len(p), nil
}

// WriteByte writes a single byte to the buffer.
func (b *Buffer) WriteByte(c byte) error {
	buf, err := Append(b.arena, b.buf, c)
	if err != nil {
		return err
	}
	b.buf = buf
	b.off = len(b.buf)
	return nil
}

// WriteString writes a string to the buffer.
func (b *Buffer) WriteString(s string) (n int, err error) {
	return b.Write([]byte(s))
}

// WriteTo implements io.WriterTo.
func (b *Buffer) WriteTo(w io.Writer) (n int64, err error) {
	if b.off == 0 {
		return 0, nil
	}
	m, err := w.Write(b.buf[:b.off])
	if m > 0 {
		n += int64(m)
		copy(b.buf, b.buf[m:b.off])
		b.off -= m
	}
	return n, err
}

// Read reads up to len(p) bytes from the buffer into p.
func (b *Buffer) Read(p []byte) (n int, err error) {
	if b.off == 0 {
		return 0, io.EOF
	}
	n = copy(p, b.buf[:b.off])
	if n < len(p) {
		err = io.EOF
	}
	copy(b.buf, b.buf[n:b.off])
	b.off -= n
	return n, err
}

// ReadByte reads and returns the next byte from the buffer.
func (b *Buffer) ReadByte() (byte, error) {
	if b.off == 0 {
		return 0, io.EOF
	}
	c := b.buf[0]
	copy(b.buf, b.buf[1:b.off])
	b.off--
	return c, nil
}

// Bytes returns the unread portion of the buffer. The slice is valid only
// until the next buffer modification.
func (b *Buffer) Bytes() []byte {
	if b.off == 0 {
		return []byte{}
	}
	return b.buf[:b.off]
}

// String returns the unread portion of the buffer as a string.
func (b *Buffer) String() string {
	return string(b.buf[:b.off])
}

// Len returns the number of unread bytes in the buffer.
func (b *Buffer) Len() int {
	return b.off
}

// Cap returns the capacity of the buffer's backing slice.
func (b *Buffer) Cap() int {
	return cap(b.buf)
}

// Reset empties the buffer, keeping its backing storage.
func (b *Buffer) Reset() {
	b.off = 0
	if b.buf != nil {
		b.buf = b.buf[:0]
	}
}

// Truncate discards all but the first n unread bytes.
// It panics if n is negative or greater than the buffer's length.
func (b *Buffer) Truncate(n int) {
	if n < 0 || n > b.off {
		panic("arena: truncation out of range")
	}
	b.off = n
}

// ReadFrom implements io.ReaderFrom. It reads from r until EOF or error,
// appending to the buffer. The intermediate read buffer also comes from
// the arena.
func (b *Buffer) ReadFrom(r io.Reader) (n int64, err error) {
	const readBufferSize = 4 * 1024
	if b.readBuf == nil {
		b.readBuf, err = MakeSlice[byte](b.arena, readBufferSize, readBufferSize)
		if err != nil {
			return 0, err
		}
	}
	for {
		nr, er := r.Read(b.readBuf)
		if nr > 0 {
			if _, ew := b.Write(b.readBuf[:nr]); ew != nil {
				return n, ew
			}
			n += int64(nr)
		}
		if er != nil {
			if er == io.EOF {
				return n, nil
			}
			return n, er
		}
	}
}

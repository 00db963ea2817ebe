// SPDX-License-Identifier: Apache-2.0

package arena

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestBufferBasicOperations(t *testing.T) {
	a := NewArena(WithCapacity(1024))
	defer a.Release()
	buf := NewBuffer(a)

	// Initial state
	require.Equal(t, 0, buf.Len())
	require.Equal(t, 0, buf.Cap())
	require.Equal(t, "", buf.String())
	require.Equal(t, []byte{}, buf.Bytes())

	// Write
	n, err := buf.Write([]byte("hello"))
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, "hello", buf.String())

	// WriteByte
	require.NoError(t, buf.WriteByte(' '))

	// WriteString
	n, err = buf.WriteString("world")
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, "hello world", buf.String())
	require.Equal(t, 11, buf.Len())

	// The backing storage lives in the arena.
	require.True(t, inSlab(a, unsafe.Pointer(unsafe.SliceData(buf.Bytes()))))
}

func TestBufferRead(t *testing.T) {
	a := NewArena(WithCapacity(1024))
	defer a.Release()
	buf := NewBuffer(a)

	_, err := buf.WriteString("abcdef")
	require.NoError(t, err)

	p := make([]byte, 4)
	n, err := buf.Read(p)
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, "abcd", string(p))
	require.Equal(t, 2, buf.Len())

	// Draining past the end reports EOF.
	n, err = buf.Read(p)
	require.Equal(t, 2, n)
	require.Equal(t, io.EOF, err)

	_, err = buf.Read(p)
	require.Equal(t, io.EOF, err)
}

func TestBufferReadByte(t *testing.T) {
	a := NewArena(WithCapacity(256))
	defer a.Release()
	buf := NewBuffer(a)

	_, err := buf.WriteString("xy")
	require.NoError(t, err)

	c, err := buf.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte('x'), c)

	c, err = buf.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte('y'), c)

	_, err = buf.ReadByte()
	require.Equal(t, io.EOF, err)
}

func TestBufferWriteTo(t *testing.T) {
	a := NewArena(WithCapacity(1024))
	defer a.Release()
	buf := NewBuffer(a)

	_, err := buf.WriteString("payload")
	require.NoError(t, err)

	var sink bytes.Buffer
	n, err := buf.WriteTo(&sink)
	require.NoError(t, err)
	require.Equal(t, int64(7), n)
	require.Equal(t, "payload", sink.String())
	require.Equal(t, 0, buf.Len())
}

func TestBufferReadFrom(t *testing.T) {
	a := NewArena(WithCapacity(64 * 1024))
	defer a.Release()
	buf := NewBuffer(a)

	src := strings.Repeat("0123456789", 2000) // larger than the read buffer
	n, err := buf.ReadFrom(strings.NewReader(src))
	require.NoError(t, err)
	require.Equal(t, int64(len(src)), n)
	require.Equal(t, src, buf.String())
}

func TestBufferTruncateAndReset(t *testing.T) {
	a := NewArena(WithCapacity(256))
	defer a.Release()
	buf := NewBuffer(a)

	_, err := buf.WriteString("abcdef")
	require.NoError(t, err)

	buf.Truncate(3)
	require.Equal(t, "abc", buf.String())
	require.Panics(t, func() { buf.Truncate(-1) })
	require.Panics(t, func() { buf.Truncate(10) })

	buf.Reset()
	require.Equal(t, 0, buf.Len())
}

func TestBufferCapacityExceeded(t *testing.T) {
	a := NewArena(WithCapacity(32), WithCeiling(32))
	defer a.Release()
	buf := NewBuffer(a)

	_, err := buf.Write(make([]byte, 16))
	require.NoError(t, err)

	_, err = buf.Write(make([]byte, 64))
	require.ErrorIs(t, err, ErrCapacityExceeded)
	// The failed write leaves the buffer's contents unchanged.
	require.Equal(t, 16, buf.Len())
}

func TestBufferNilArena(t *testing.T) {
	buf := NewBuffer(nil)
	_, err := buf.WriteString("heap backed")
	require.NoError(t, err)
	require.Equal(t, "heap backed", buf.String())
}

func TestBufferScoped(t *testing.T) {
	a := NewArena(WithCapacity(1024))
	defer a.Release()

	err := a.Scoped(func(a *Arena) error {
		buf := NewBuffer(a)
		_, err := buf.WriteString("scratch output")
		require.NoError(t, err)
		require.Equal(t, "scratch output", buf.String())
		return nil
	})
	require.NoError(t, err)
	// The buffer's storage was reclaimed with the scope.
	require.Equal(t, 0, a.Len())
}

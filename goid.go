// SPDX-License-Identifier: Apache-2.0

package arena

import (
	"bytes"
	"runtime"
)

// goid returns the calling goroutine's id by parsing the runtime.Stack
// header ("goroutine 123 [running]:"). The runtime does not expose the id
// directly; the header format has been stable since Go 1.4.
func goid() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := buf[:n]
	b = b[len("goroutine "):]
	if i := bytes.IndexByte(b, ' '); i >= 0 {
		b = b[:i]
	}
	var id uint64
	for _, c := range b {
		if c < '0' || c > '9' {
			break
		}
		id = id*10 + uint64(c-'0')
	}
	return id
}

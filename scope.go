// SPDX-License-Identifier: Apache-2.0

package arena

// Scoped runs body between Save and a guaranteed Restore: every allocation
// body makes against the arena is reclaimed in bulk when Scoped returns,
// whether body returns nil, returns an error, or panics. Scopes nest
// freely, on the same arena or on different ones; inner scopes are
// restored before outer ones by construction.
//
// Regions allocated inside body must not be stored, returned, or captured
// beyond the call: after Scoped returns they point at memory that will be
// reused by the next allocation. The arena cannot detect this.
func (a *Arena) Scoped(body func(*Arena) error) error {
	cp := Save(a)
	defer cp.Restore()
	return body(a)
}

// Scoped runs body in a checkpointed scope on the calling goroutine's
// current arena (see Default). Equivalent to Default().Scoped(body).
func Scoped(body func(*Arena) error) error {
	return Default().Scoped(body)
}

// SPDX-License-Identifier: Apache-2.0

package arena

const growThreshold = 256

// Append appends data to s, moving s into the arena whenever it must grow.
// Capacity grows geometrically: doubling below growThreshold elements,
// +25% above. The abandoned old backing is reclaimed with the rest of the
// enclosing scope, not individually. If a is nil, Append behaves like the
// built-in append.
func Append[T any](a *Arena, s []T, data ...T) ([]T, error) {
	if a == nil {
		return append(s, data...), nil
	}
	s, err := growSlice(a, s, len(data))
	if err != nil {
		return s, err
	}
	return append(s, data...), nil
}

func growSlice[T any](a *Arena, s []T, dataLen int) ([]T, error) {
	newLen := len(s) + dataLen
	newCap := cap(s)

	if newCap > 0 {
		for newLen > newCap {
			if newCap < growThreshold {
				newCap *= 2
			} else {
				newCap += newCap / 4
			}
		}
	} else {
		newCap = dataLen
	}
	if newCap == cap(s) {
		return s, nil
	}
	s2, err := MakeSlice[T](a, len(s), newCap)
	if err != nil {
		return s, err
	}
	copy(s2, s)
	return s2, nil
}

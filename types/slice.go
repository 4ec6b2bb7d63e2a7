// SPDX-License-Identifier: NONE
package types

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/exp/slices"
)

type (
	// StringSlice for `string`.
	StringSlice []string
)

// Sort for `StringSlice`.
func (sl *StringSlice) Sort() { slices.Sort(*sl) }

// SortByLenDesc orders a `StringSlice` by descending rune count, ties ordered lexicographically.
func (sl *StringSlice) SortByLenDesc() {
	slices.SortFunc(*sl, func(a, b string) int {
		if la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b); la != lb {
			return lb - la
		}

		return strings.Compare(a, b)
	})
}

// Locate for `StringSlice`.
func (sl *StringSlice) Locate(val string) int { return slices.Index(*sl, val) }

// UniqueAppend to `StringSlice`.
func (sl *StringSlice) UniqueAppend(values ...string) {
	for index := range values {
		newValue := values[index]
		if sl.Locate(newValue) > -1 {
			continue
		}

		*sl = append(*sl, newValue)
	}
}

// SortedUnique sorts a `StringSlice` ascending & drops repeated values.
func (sl *StringSlice) SortedUnique() {
	sl.Sort()
	*sl = slices.Compact(*sl)
}

// Set converts a `StringSlice` into a set.
func (sl StringSlice) Set() (set map[string]struct{}) {
	set = make(map[string]struct{}, len(sl))
	for index := range sl {
		set[sl[index]] = struct{}{}
	}

	return
}

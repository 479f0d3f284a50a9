// SPDX-License-Identifier: MPL-2.0

package deploy

import (
	"errors"
	"os"
	"path/filepath"
	"unicode/utf8"
)

// ErrSlotsExhausted is returned when slot-name incrementing can no longer
// produce a fresh candidate under the deployment root.
var ErrSlotsExhausted = errors.New("deploy: no free slot names left")

// firstSlot is where candidate generation starts for every deploy pass.
const firstSlot = "a"

// allocateSlot returns a directory name under root that does not exist yet,
// starting from the given candidate. Candidates advance via nextSlot; when an
// advance produces no change, the namespace is exhausted for this mod.
// Taken-ness is a literal existence check on disk, not an in-memory set:
// earlier allocations in the same pass are visible because their copies have
// already landed.
func allocateSlot(root, candidate string) (string, error) {
	for {
		if _, err := os.Stat(filepath.Join(root, candidate)); os.IsNotExist(err) {
			return candidate, nil
		}
		next := nextSlot(candidate)
		if next == candidate {
			return "", ErrSlotsExhausted
		}
		candidate = next
	}
}

// nextSlot increments every character of s by one code point independently.
// There is no carrying between positions and the string never grows, so the
// usable namespace is deliberately narrower than the name length suggests; a
// character already at the top of the valid range stays put, and a candidate
// where every character is stuck signals exhaustion via the == comparison in
// allocateSlot.
func nextSlot(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if next := r + 1; utf8.ValidRune(next) {
			runes[i] = next
		}
	}
	return string(runes)
}

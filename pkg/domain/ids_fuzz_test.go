//go:build go1.18

package domain

import (
	"testing"
	"unicode/utf8"
)

// FuzzParseItemID checks that parsing never panics and only accepts short
// ASCII alphanumeric input.
func FuzzParseItemID(f *testing.F) {
	f.Add("")
	f.Add("ITEM1")
	f.Add("'; DROP TABLE inventory;--")
	f.Add(string([]byte{0x00, 0x01, 0x02}))
	f.Add("ABCDEFGHIJKLM")

	f.Fuzz(func(t *testing.T, input string) {
		id, err := ParseItemID(input)
		if err != nil {
			return
		}
		if len(id) == 0 || len(id) > 12 {
			t.Errorf("accepted identifier of length %d", len(id))
		}
		if !utf8.ValidString(input) {
			t.Error("non-UTF8 input was accepted")
		}
		for _, r := range input {
			if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
				t.Errorf("accepted non-alphanumeric rune %q", r)
			}
		}
	})
}

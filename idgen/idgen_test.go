package idgen

import (
	"strings"
	"testing"
)

func TestNanoID_Length(t *testing.T) {
	for _, length := range []int{8, 12, 16, 24} {
		gen := NanoID(length)
		id := gen()
		if len(id) != length {
			t.Fatalf("NanoID(%d): got length %d", length, len(id))
		}
	}
}

func TestNanoID_Alphabet(t *testing.T) {
	gen := NanoID(100)
	id := gen()
	for _, c := range id {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'z')) {
			t.Fatalf("NanoID: unexpected character %q in %q", c, id)
		}
	}
}

func TestNanoID_Uniqueness(t *testing.T) {
	gen := NanoID(12)
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		id := gen()
		if _, ok := seen[id]; ok {
			t.Fatalf("NanoID: duplicate at iteration %d: %q", i, id)
		}
		seen[id] = struct{}{}
	}
}

func TestUUIDv7_Format(t *testing.T) {
	gen := UUIDv7()
	id := gen()
	if len(id) != 36 || strings.Count(id, "-") != 4 {
		t.Fatalf("UUIDv7: unexpected format %q", id)
	}
	// Version nibble is the first character of the third group.
	if id[14] != '7' {
		t.Fatalf("UUIDv7: version nibble = %c, want 7", id[14])
	}
}

func TestUUIDv7_Sortable(t *testing.T) {
	gen := UUIDv7()
	prev := gen()
	for i := 0; i < 100; i++ {
		next := gen()
		if next < prev {
			t.Fatalf("UUIDv7: %q sorts before %q", next, prev)
		}
		prev = next
	}
}

func TestPrefixed(t *testing.T) {
	gen := Prefixed("aud_", NanoID(8))
	id := gen()
	if !strings.HasPrefix(id, "aud_") {
		t.Fatalf("Prefixed: got %q", id)
	}
	if len(id) != len("aud_")+8 {
		t.Fatalf("Prefixed: length %d", len(id))
	}
}

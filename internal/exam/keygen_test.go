package exam

import (
	"strings"
	"testing"
)

func TestNewAccessKey(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		key, err := NewAccessKey()
		if err != nil {
			t.Fatalf("NewAccessKey: %v", err)
		}
		if len(key) != accessKeyLength {
			t.Fatalf("key %q has length %d, want %d", key, len(key), accessKeyLength)
		}
		for _, c := range key {
			if !strings.ContainsRune(accessKeyAlphabet, c) {
				t.Fatalf("key %q contains %q, outside the alphabet", key, c)
			}
		}
		seen[key] = true
	}
	// 100 draws from a 36^8 space colliding would point at a broken generator
	if len(seen) < 100 {
		t.Fatalf("got %d distinct keys out of 100", len(seen))
	}
}

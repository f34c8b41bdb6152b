package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func TestBytes_MatchesSHA256(t *testing.T) {
	content := []byte(`{"a":1}`)

	sum := sha256.Sum256(content)
	want := hex.EncodeToString(sum[:])

	if got := Bytes(content); got != want {
		t.Errorf("Bytes = %q, want %q", got, want)
	}
}

func TestBytes_KnownVector(t *testing.T) {
	// FIPS 180-2 test vector for "abc".
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got := Bytes([]byte("abc")); got != want {
		t.Errorf("Bytes(\"abc\") = %q, want %q", got, want)
	}
}

func TestBytes_Deterministic(t *testing.T) {
	content := []byte("workflow step output")
	first := Bytes(content)
	for i := 0; i < 10; i++ {
		if got := Bytes(content); got != first {
			t.Fatalf("digest changed between calls: %q vs %q", got, first)
		}
	}
}

func TestBytes_EmptyInput(t *testing.T) {
	// SHA-256 of the empty string.
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got := Bytes(nil); got != want {
		t.Errorf("Bytes(nil) = %q, want %q", got, want)
	}
}

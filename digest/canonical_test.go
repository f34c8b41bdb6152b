package digest

import (
	"strings"
	"testing"
	"time"
)

func TestCanonicalJSON_SortsKeys(t *testing.T) {
	m := map[string]any{"b": 2, "a": 1, "c": 3}

	got, err := CanonicalJSON(m)
	if err != nil {
		t.Fatalf("CanonicalJSON failed: %v", err)
	}
	want := `{"a":1,"b":2,"c":3}`
	if string(got) != want {
		t.Errorf("CanonicalJSON = %s, want %s", got, want)
	}
}

func TestCanonicalJSON_NestedStructures(t *testing.T) {
	m := map[string]any{
		"outer": map[string]any{"z": "last", "a": "first"},
		"list":  []any{1, "two", map[string]any{"k": true}},
	}

	got, err := CanonicalJSON(m)
	if err != nil {
		t.Fatalf("CanonicalJSON failed: %v", err)
	}
	want := `{"list":[1,"two",{"k":true}],"outer":{"a":"first","z":"last"}}`
	if string(got) != want {
		t.Errorf("CanonicalJSON = %s, want %s", got, want)
	}
}

func TestCanonical_OrderIndependence(t *testing.T) {
	m1 := map[string]any{"queries": []any{"a", "b"}, "model": "large", "attempt": 3}
	m2 := map[string]any{}
	m2["attempt"] = 3
	m2["model"] = "large"
	m2["queries"] = []any{"a", "b"}

	d1, err := Canonical(m1)
	if err != nil {
		t.Fatalf("Canonical(m1) failed: %v", err)
	}
	d2, err := Canonical(m2)
	if err != nil {
		t.Fatalf("Canonical(m2) failed: %v", err)
	}
	if d1 != d2 {
		t.Errorf("deep-equal maps digest differently: %q vs %q", d1, d2)
	}
}

func TestCanonicalJSON_TimestampsNormalizedToUTC(t *testing.T) {
	offset := time.FixedZone("UTC+1", 3600)
	m := map[string]any{"at": time.Date(2025, 1, 2, 3, 4, 5, 0, offset)}

	got, err := CanonicalJSON(m)
	if err != nil {
		t.Fatalf("CanonicalJSON failed: %v", err)
	}
	want := `{"at":"2025-01-02T02:04:05Z"}`
	if string(got) != want {
		t.Errorf("CanonicalJSON = %s, want %s", got, want)
	}

	// Same instant expressed in UTC digests identically.
	utc := map[string]any{"at": time.Date(2025, 1, 2, 2, 4, 5, 0, time.UTC)}
	d1, _ := Canonical(m)
	d2, _ := Canonical(utc)
	if d1 != d2 {
		t.Errorf("same instant in different zones digests differently")
	}
}

func TestCanonicalJSON_PreservesLargeIntegers(t *testing.T) {
	// 2^53+1 cannot survive a float64 round trip.
	m := map[string]any{"n": int64(9007199254740993)}

	got, err := CanonicalJSON(m)
	if err != nil {
		t.Fatalf("CanonicalJSON failed: %v", err)
	}
	if !strings.Contains(string(got), "9007199254740993") {
		t.Errorf("integer mutated during canonicalization: %s", got)
	}
}

func TestCanonicalJSON_StructNormalized(t *testing.T) {
	type input struct {
		Model   string `json:"model"`
		Attempt int    `json:"attempt"`
	}
	s := input{Model: "large", Attempt: 3}
	m := map[string]any{"attempt": 3, "model": "large"}

	ds, err := Canonical(s)
	if err != nil {
		t.Fatalf("Canonical(struct) failed: %v", err)
	}
	dm, err := Canonical(m)
	if err != nil {
		t.Fatalf("Canonical(map) failed: %v", err)
	}
	if ds != dm {
		t.Errorf("struct and equivalent map digest differently: %q vs %q", ds, dm)
	}
}

func TestCanonicalJSON_UnsupportedType(t *testing.T) {
	if _, err := CanonicalJSON(map[string]any{"ch": make(chan int)}); err == nil {
		t.Fatal("expected error for unserializable value, got nil")
	}
}

package models

import "testing"

func TestJSONListRoundTrip(t *testing.T) {
	list := JSONList{"memes", "dankmemes"}

	val, err := list.Value()
	if err != nil {
		t.Fatalf("Value() failed: %v", err)
	}

	var out JSONList
	if err := out.Scan(val); err != nil {
		t.Fatalf("Scan() failed: %v", err)
	}

	if len(out) != 2 || out[0] != "memes" || out[1] != "dankmemes" {
		t.Errorf("round trip gave %v, want %v", out, list)
	}
}

func TestJSONListNilValue(t *testing.T) {
	var list JSONList
	val, err := list.Value()
	if err != nil {
		t.Fatalf("Value() failed: %v", err)
	}
	if val != "[]" {
		t.Errorf("nil list Value() = %v, want \"[]\"", val)
	}
}

func TestJSONMapScanNil(t *testing.T) {
	var m JSONMap
	if err := m.Scan(nil); err != nil {
		t.Fatalf("Scan(nil) failed: %v", err)
	}
	if len(m) != 0 {
		t.Errorf("Scan(nil) gave %v, want empty map", m)
	}
}

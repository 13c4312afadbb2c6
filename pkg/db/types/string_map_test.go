package dbtypes

import "testing"

func TestStringMapScanVariants(t *testing.T) {
	var m StringMap
	if err := m.Scan(nil); err != nil || len(m) != 0 {
		t.Fatalf("nil scan should yield empty map, got %v (%v)", m, err)
	}
	if err := m.Scan([]byte(`{"color":"red"}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m["color"] != "red" {
		t.Fatalf("expected color=red, got %v", m)
	}
	if err := m.Scan("null"); err != nil || len(m) != 0 {
		t.Fatalf("null should yield empty map, got %v (%v)", m, err)
	}
	if err := m.Scan(42); err == nil {
		t.Fatal("expected unsupported type error")
	}
	if err := m.Scan("{broken"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestStringMapValue(t *testing.T) {
	v, err := StringMap{}.Value()
	if err != nil || v != "{}" {
		t.Fatalf("expected {}, got %v (%v)", v, err)
	}
	v, err = StringMap{"size": "L"}.Value()
	if err != nil || v != `{"size":"L"}` {
		t.Fatalf(`expected {"size":"L"}, got %v (%v)`, v, err)
	}
}

package tunable

import "testing"

func TestNumberDefault(t *testing.T) {
	s := NewStore()
	n := s.Number("drive/kp", 0.08)

	if n.Get() != 0.08 {
		t.Errorf("expected default 0.08, got %f", n.Get())
	}
}

func TestNumberIdempotentRegistration(t *testing.T) {
	s := NewStore()
	a := s.Number("turn/kp", 9.0)
	b := s.Number("turn/kp", 123.0)

	if a != b {
		t.Fatal("expected same handle for same key")
	}
	if b.Get() != 9.0 {
		t.Errorf("second default must not apply, got %f", b.Get())
	}
}

func TestChangedPerSubscriber(t *testing.T) {
	s := NewStore()
	n := s.Number("drive/kv", 0.1)

	if n.Changed(0) {
		t.Error("no mutation yet, subscriber 0 should see no change")
	}

	n.Set(0.2)

	if !n.Changed(0) {
		t.Error("subscriber 0 should see the change")
	}
	if n.Changed(0) {
		t.Error("change must only be reported once per subscriber")
	}
	if !n.Changed(1) {
		t.Error("subscriber 1 has not acknowledged the change yet")
	}
}

func TestSetSameValueNotAChange(t *testing.T) {
	s := NewStore()
	n := s.Number("drive/ks", 0.5)
	n.Changed(0)

	n.Set(0.5)
	if n.Changed(0) {
		t.Error("writing the current value should not count as a change")
	}
}

func TestStoreSetUnknownKey(t *testing.T) {
	s := NewStore()
	if err := s.Set("nope", 1.0); err == nil {
		t.Error("expected error for unknown key")
	}
	if _, err := s.Get("nope"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestKeysSorted(t *testing.T) {
	s := NewStore()
	s.Number("b", 0)
	s.Number("a", 0)

	keys := s.Keys()
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Errorf("unexpected keys: %v", keys)
	}
}

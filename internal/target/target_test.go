package target

import (
	"testing"

	"github.com/ivlev/vortex/internal/value"
)

func TestMapReadWrite(t *testing.T) {
	m := NewMap("box", map[string]value.Value{"x": value.Number(3)})

	if m.ID() != "box" {
		t.Errorf("Expected id box, got %s", m.ID())
	}
	if _, ok := m.Read("missing"); ok {
		t.Error("Expected missing property to report !ok")
	}

	m.Write("x", value.Number(7))
	m.Write("state", value.Opaque("open"))

	if got := m.Float("x"); got != 7 {
		t.Errorf("Expected x = 7, got %v", got)
	}
	if got := m.Float("state"); got != 0 {
		t.Errorf("Expected non-numeric Float to be 0, got %v", got)
	}
	if m.Writes() != 2 {
		t.Errorf("Expected 2 writes, got %d", m.Writes())
	}

	keys := m.Keys()
	if len(keys) != 2 || keys[0] != "state" || keys[1] != "x" {
		t.Errorf("Unexpected keys: %v", keys)
	}
	if props := m.Properties(); props["state"] != "open" {
		t.Errorf("Expected state open, got %v", props["state"])
	}
}

package levels

import (
	"errors"
	"testing"
)

func TestLoadArena(t *testing.T) {
	for _, name := range []string{"arena", "arena.json", "levels/arena.json", ""} {
		lvl, err := Load(name)
		if err != nil {
			t.Fatalf("Load(%q): %v", name, err)
		}
		if lvl.Name != "arena" || len(lvl.Enemies) != 2 || len(lvl.Boxes) == 0 {
			t.Fatalf("Load(%q) = %+v", name, lvl)
		}
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load("nowhere"); err == nil {
		t.Fatalf("expected an error")
	}
}

func TestParseValidates(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty bounds", `{"bounds": {"min": {"x": 0}, "max": {"x": 0}}, "boxes": [{"layers": ["ground"]}]}`},
		{"no boxes", `{"bounds": {"min": {"x": 0}, "max": {"x": 1, "z": 1}}}`},
		{"box without layers", `{"bounds": {"min": {"x": 0}, "max": {"x": 1, "z": 1}}, "boxes": [{}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data), "test.json"); !errors.Is(err, ErrInvalidLevel) {
				t.Fatalf("expected ErrInvalidLevel, got %v", err)
			}
		})
	}

	lvl, err := Parse([]byte(`{"bounds": {"min": {"x": 0}, "max": {"x": 1, "z": 1}}, "boxes": [{"layers": ["ground"]}]}`), "tiny.json")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if lvl.Name != "tiny" {
		t.Fatalf("name = %q", lvl.Name)
	}
}

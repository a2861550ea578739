package main

import (
	"errors"
	"testing"
)

func TestParseChordSpec(t *testing.T) {
	reg := testRegistry()
	components := map[KeyID]ChordMask{keyA: 1, keyS: 2, keyE: 4}
	participants := map[KeyID]ChordMask{keyA: 1, keyB: 2, keyC: 8}

	tests := []struct {
		spec    string
		want    ChordMask
		wantErr error
	}{
		{"A", 1, nil},
		{"AS", 3, nil},
		{"SA", 3, nil},
		{"ASE", 7, nil},
		{"AA", 1, nil},
		{"C", 8, nil},
		{"EC", 12, nil},
		{"", 0, errEmptySpec},
		{"a", 0, errUnknownKey},
		{"A?", 0, errUnknownKey},
		{"AZ", 0, errUnknownComponent},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := parseChordSpec(reg, tt.spec, components, participants)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("parseChordSpec(%q) error = %v, want %v", tt.spec, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseChordSpec(%q): %v", tt.spec, err)
			}
			if got != tt.want {
				t.Errorf("parseChordSpec(%q) = %#x, want %#x", tt.spec, got, tt.want)
			}
		})
	}
}

func TestParseBinding(t *testing.T) {
	reg := testRegistry()

	b, err := parseBinding(reg, []string{"X", "KEY_C", "SPACE"})
	if err != nil {
		t.Fatalf("parseBinding: %v", err)
	}
	if len(b) != 3 || b[0] != keyX || b[1] != keyC || b[2] != keySpace {
		t.Fatalf("unexpected binding: %#v", b)
	}

	if _, err := parseBinding(reg, []string{"X", "nope"}); !errors.Is(err, errUnknownKey) {
		t.Fatalf("expected errUnknownKey, got %v", err)
	}
	if _, err := parseBinding(reg, []string{"EXIT", "X"}); !errors.Is(err, errExitInSequence) {
		t.Fatalf("expected errExitInSequence, got %v", err)
	}
	b, err = parseBinding(reg, []string{"EXIT"})
	if err != nil || !b.IsExit() {
		t.Fatalf("expected exit binding, got %#v, %v", b, err)
	}
}

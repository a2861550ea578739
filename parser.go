package main

import (
	"errors"
	"fmt"
)

var (
	errUnknownKey       = errors.New("unknown key")
	errUnknownComponent = errors.New("not a chord component")
	errEmptySpec        = errors.New("empty chord")
	errExitInSequence   = errors.New("EXIT must be the only output")
)

// resolveKey maps a key name to its identifier.
//
// Parameters:
//   - reg: Registry to resolve against.
//   - name: Canonical key name (e.g. "A", "SPACE", "KEY_LEFTCTRL").
//
// Returns:
//   - KeyID: The resolved key.
//   - error: errUnknownKey (wrapped with the name) if the name is not known.
func resolveKey(reg *KeyRegistry, name string) (KeyID, error) {
	id, ok := reg.Resolve(name)
	if !ok {
		return 0, fmt.Errorf("%w %q", errUnknownKey, name)
	}
	return id, nil
}

// parseChordSpec converts a chord spec such as "AB" into the mask formed by
// OR-ing the bit of every component. Each character names a components
// entry, or failing that a participants entry.
//
// Parameters:
//   - reg: Registry used to resolve each component character.
//   - spec: Concatenation of single-character component names.
//   - components: Output key to bit table built from output.keys.
//   - participants: Input key to bit table, or nil to accept components only.
//
// Returns:
//   - ChordMask: The combined mask.
//   - error: Non-nil if any component cannot be resolved.
func parseChordSpec(reg *KeyRegistry, spec string, components, participants map[KeyID]ChordMask) (ChordMask, error) {
	if spec == "" {
		return 0, errEmptySpec
	}
	var chord ChordMask
	for _, r := range spec {
		name := string(r)
		id, err := resolveKey(reg, name)
		if err != nil {
			return 0, err
		}
		bit, ok := components[id]
		if !ok {
			bit, ok = participants[id]
		}
		if !ok {
			return 0, fmt.Errorf("%q: %w", name, errUnknownComponent)
		}
		chord |= bit
	}
	return chord, nil
}

// parseBinding resolves the output side of a chord.
//
// Parameters:
//   - reg: Registry to resolve against.
//   - names: Output key names, emitted in order.
//
// Returns:
//   - Binding: The resolved keys.
//   - error: Non-nil if a name is unknown or EXIT is combined with other keys.
func parseBinding(reg *KeyRegistry, names []string) (Binding, error) {
	b := make(Binding, 0, len(names))
	for _, name := range names {
		id, err := resolveKey(reg, name)
		if err != nil {
			return nil, err
		}
		b = append(b, id)
	}
	if len(b) > 1 {
		for _, id := range b {
			if id == ExitKey {
				return nil, errExitInSequence
			}
		}
	}
	return b, nil
}

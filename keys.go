package main

import (
	"fmt"
	"log/slog"
	"strings"
)

// KeyID identifies a physical or virtual key by its Linux input key code.
type KeyID uint16

// ChordMask is a set of chord participants, one bit per participant key.
type ChordMask uint64

// maxParticipants is the number of bits available in a ChordMask.
const maxParticipants = 64

// ExitKey is the output value reserved for the session termination chord.
// It lies outside the kernel key code space and is never emitted.
const ExitKey KeyID = 0xffff

const (
	exitKeyName = "EXIT"
	keyPrefix   = "KEY_"
)

// KeyRegistry maps canonical key names to key identifiers and back.
// It is immutable once built.
type KeyRegistry struct {
	byName map[string]KeyID
	byID   map[KeyID]string
}

// newKeyRegistry builds a registry from a full-name table and a display table.
//
// Parameters:
//   - byName: Canonical long names (e.g. "KEY_A", "BTN_LEFT") to key codes.
//   - byID: Preferred display name per key code, used to pick one name among aliases.
//
// Returns:
//   - *KeyRegistry: A registry that also knows the reserved "EXIT" name.
func newKeyRegistry(byName map[string]KeyID, byID map[KeyID]string) *KeyRegistry {
	r := &KeyRegistry{
		byName: make(map[string]KeyID, len(byName)+1),
		byID:   make(map[KeyID]string, len(byID)+1),
	}
	for name, id := range byName {
		r.byName[name] = id
	}
	for id, name := range byID {
		r.byID[id] = name
	}
	r.byName[exitKeyName] = ExitKey
	r.byID[ExitKey] = exitKeyName
	return r
}

// Resolve looks up a key by name. "EXIT" always names ExitKey; the kernel's
// KEY_EXIT is only reachable by its full name. Other short names ("A",
// "SPACE") are tried in their long form first ("KEY_A", "KEY_SPACE"), then
// the name is tried as given. Lookups are case-sensitive.
func (r *KeyRegistry) Resolve(name string) (KeyID, bool) {
	switch name {
	case "":
		return 0, false
	case exitKeyName:
		return ExitKey, true
	}
	if !strings.HasPrefix(name, keyPrefix) {
		if id, ok := r.byName[keyPrefix+name]; ok {
			return id, true
		}
	}
	id, ok := r.byName[name]
	return id, ok
}

// Display returns a human-readable name for id, in a form Resolve accepts.
// It never fails, also on a nil registry.
func (r *KeyRegistry) Display(id KeyID) string {
	if r != nil {
		if name, ok := r.byID[id]; ok {
			if short := strings.TrimPrefix(name, keyPrefix); short != exitKeyName || id == ExitKey {
				return short
			}
			return name
		}
	}
	return fmt.Sprintf("KEY_0x%03x", uint16(id))
}

// keyName logs a key by its display name.
type keyName struct {
	reg *KeyRegistry
	id  KeyID
}

func (k keyName) LogValue() slog.Value {
	return slog.StringValue(k.reg.Display(k.id))
}

// bindingNames logs a binding as its space-separated key names.
type bindingNames struct {
	reg *KeyRegistry
	b   Binding
}

func (n bindingNames) LogValue() slog.Value {
	names := make([]string, len(n.b))
	for i, id := range n.b {
		names[i] = n.reg.Display(id)
	}
	return slog.StringValue(strings.Join(names, " "))
}

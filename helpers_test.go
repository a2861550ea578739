package main

import (
	"os"
	"path/filepath"
	"testing"
)

// Kernel key codes used throughout the tests.
const (
	keyEsc      KeyID = 1
	keyE        KeyID = 18
	keyY        KeyID = 21
	keyLeftCtrl KeyID = 29
	keyA        KeyID = 30
	keyS        KeyID = 31
	keyD        KeyID = 32
	keyZ        KeyID = 44
	keyX        KeyID = 45
	keyC        KeyID = 46
	keyB        KeyID = 48
	keySpace    KeyID = 57
	keyCapsLock KeyID = 58
	keyExit     KeyID = 174
	btnLeft     KeyID = 0x110
)

// testRegistry returns a small registry with the same naming scheme as the
// platform one.
func testRegistry() *KeyRegistry {
	byName := map[string]KeyID{
		"KEY_ESC":      keyEsc,
		"KEY_E":        keyE,
		"KEY_Y":        keyY,
		"KEY_LEFTCTRL": keyLeftCtrl,
		"KEY_A":        keyA,
		"KEY_S":        keyS,
		"KEY_D":        keyD,
		"KEY_Z":        keyZ,
		"KEY_X":        keyX,
		"KEY_C":        keyC,
		"KEY_B":        keyB,
		"KEY_SPACE":    keySpace,
		"KEY_CAPSLOCK": keyCapsLock,
		"KEY_EXIT":     keyExit,
		"BTN_LEFT":     btnLeft,
		"BTN_MOUSE":    btnLeft,
	}
	byID := make(map[KeyID]string, len(byName))
	for n, id := range byName {
		byID[id] = n
	}
	byID[btnLeft] = "BTN_LEFT"
	return newKeyRegistry(byName, byID)
}

// recorder is an Emitter that keeps every event it is given.
type recorder struct {
	events []KeyEvent
	calls  int
	err    error
}

func (r *recorder) Emit(events []KeyEvent) error {
	if r.err != nil {
		return r.err
	}
	r.calls++
	r.events = append(r.events, events...)
	return nil
}

func press(k KeyID) KeyEvent   { return KeyEvent{Key: k, Transition: Pressed} }
func release(k KeyID) KeyEvent { return KeyEvent{Key: k, Transition: Released} }
func repeat(k KeyID) KeyEvent  { return KeyEvent{Key: k, Transition: Repeated} }

func tap(k KeyID) []KeyEvent { return []KeyEvent{press(k), release(k)} }

// writeTemp writes contents to a file called base in a fresh temp dir.
func writeTemp(t *testing.T, base, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), base)
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

// mustCompile parses and compiles a TOML document, failing the test on error.
func mustCompile(t *testing.T, contents string) (*Config, []Diagnostic) {
	t.Helper()

	doc, err := parseDocument([]byte(contents), false)
	if err != nil {
		t.Fatalf("parseDocument: %v", err)
	}
	return compileConfig(doc, testRegistry())
}

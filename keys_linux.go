//go:build linux

package main

import (
	"sync"

	evdev "github.com/holoplot/go-evdev"
)

var (
	platformOnce sync.Once
	platformKeys *KeyRegistry
)

// platformRegistry returns the registry covering the kernel key code space.
// It is built once from the tables generated from input-event-codes.h.
func platformRegistry() *KeyRegistry {
	platformOnce.Do(func() {
		byName := make(map[string]KeyID, len(evdev.KEYFromString))
		for name, code := range evdev.KEYFromString {
			byName[name] = KeyID(code)
		}
		byID := make(map[KeyID]string, len(evdev.KEYToString))
		for code, name := range evdev.KEYToString {
			byID[KeyID(code)] = name
		}
		platformKeys = newKeyRegistry(byName, byID)
	})
	return platformKeys
}

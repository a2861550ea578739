package main

import "fmt"

// BatchReader blocks until the next batch of key events is available.
type BatchReader interface {
	ReadBatch() ([]KeyEvent, error)
}

// runLoop feeds batches from in to engine until reading or handling fails.
// Configs received on reloads are applied between reading and handling a
// batch, and again after handling it, but only while no key is down. A nil
// reloads channel disables reloading.
//
// Returns:
//   - error: ErrSessionEnd on the termination chord, otherwise the read or emit failure.
func runLoop(engine *ChordEngine, in BatchReader, reloads <-chan *Config) error {
	var pending *Config
	applyReload := func() {
		select {
		case cfg := <-reloads:
			pending = cfg
		default:
		}
		if pending != nil && engine.Idle() {
			engine.SetConfig(pending)
			pending = nil
			logger.Info("Applied reloaded config")
		}
	}

	for {
		batch, err := in.ReadBatch()
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}
		applyReload()
		if err := engine.HandleBatch(batch); err != nil {
			return err
		}
		applyReload()
	}
}

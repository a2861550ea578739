package main

import (
	"errors"
	"fmt"
)

// ErrSessionEnd is returned by the engine when the termination chord completes.
var ErrSessionEnd = errors.New("session termination chord")

// Emitter writes synthesized events to the output device.
type Emitter interface {
	Emit(events []KeyEvent) error
}

// ChordEngine accumulates participant keys into chords and routes every other
// key to the output, remapped or unchanged. It is not safe for concurrent use;
// exactly one goroutine drives it.
type ChordEngine struct {
	cfg *Config
	out Emitter

	// held mirrors the participant keys physically down.
	held ChordMask
	// accumulated is every participant bit set since held was last zero.
	accumulated ChordMask
	// down maps each non-participant key still pressed to the key emitted
	// for it, so its release goes out under the tables it was pressed with.
	down map[KeyID]KeyID
}

// NewChordEngine creates an engine with empty state. A nil cfg behaves like an
// empty config: every key passes through.
func NewChordEngine(cfg *Config, out Emitter) *ChordEngine {
	if cfg == nil {
		cfg = emptyConfig()
	}
	return &ChordEngine{cfg: cfg, out: out, down: make(map[KeyID]KeyID)}
}

// Idle reports whether no key the engine has seen pressed is still down.
func (e *ChordEngine) Idle() bool {
	return e.held == 0 && len(e.down) == 0
}

// SetConfig replaces the engine tables. Callers only swap tables while the
// engine is idle so a gesture is never split across two configs. Keys still
// recorded as down keep their old routing until released.
func (e *ChordEngine) SetConfig(cfg *Config) {
	if cfg == nil {
		cfg = emptyConfig()
	}
	e.cfg = cfg
	e.held = 0
	e.accumulated = 0
}

// HandleBatch processes events in order, stopping at the first error.
func (e *ChordEngine) HandleBatch(events []KeyEvent) error {
	for _, ev := range events {
		if err := e.Handle(ev); err != nil {
			return err
		}
	}
	return nil
}

// Handle processes a single event.
func (e *ChordEngine) Handle(ev KeyEvent) error {
	if to, ok := e.down[ev.Key]; ok {
		if ev.Transition == Released {
			delete(e.down, ev.Key)
		}
		return e.emit(OutputSequence{{Key: to, Transition: ev.Transition}})
	}
	if bit, ok := e.cfg.Participants[ev.Key]; ok {
		return e.apply(bit, ev.Transition)
	}

	to, ok := e.cfg.Remap[ev.Key]
	if ok {
		logger.Debug("remap", "from", e.name(ev.Key), "to", e.name(to), "transition", ev.Transition)
	} else {
		to = ev.Key
		logger.Debug("pass through", "key", e.name(ev.Key), "transition", ev.Transition)
	}
	if err := e.emit(OutputSequence{{Key: to, Transition: ev.Transition}}); err != nil {
		return err
	}
	if ev.Transition == Pressed {
		e.down[ev.Key] = to
	}
	return nil
}

func (e *ChordEngine) name(id KeyID) keyName {
	return keyName{reg: e.cfg.names, id: id}
}

func (e *ChordEngine) apply(bit ChordMask, t Transition) error {
	switch t {
	case Pressed:
		e.held |= bit
		e.accumulated |= bit
		return nil
	case Released:
		if e.held&bit == 0 {
			// Released before we saw it go down, e.g. held across startup.
			return nil
		}
		e.held &^= bit
	default:
		return nil
	}
	if e.held != 0 {
		return nil
	}

	chord := e.accumulated
	e.accumulated = 0
	b, ok := e.cfg.Chords[chord]
	if !ok {
		logger.Debug("unbound chord", "mask", fmt.Sprintf("%#x", uint64(chord)))
		return nil
	}
	if b.IsExit() {
		return ErrSessionEnd
	}
	logger.Debug("chord", "mask", fmt.Sprintf("%#x", uint64(chord)), "keys", bindingNames{reg: e.cfg.names, b: b})
	return e.emit(Sequence(b))
}

func (e *ChordEngine) emit(seq OutputSequence) error {
	if len(seq) == 0 {
		return nil
	}
	if err := e.out.Emit(seq); err != nil {
		return fmt.Errorf("emit: %w", err)
	}
	return nil
}

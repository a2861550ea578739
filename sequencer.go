package main

// Transition is the state change carried by a key event. Values match the
// kernel's EV_KEY event values.
type Transition int32

const (
	Released Transition = 0
	Pressed  Transition = 1
	Repeated Transition = 2
)

func (t Transition) String() string {
	switch t {
	case Released:
		return "release"
	case Pressed:
		return "press"
	case Repeated:
		return "repeat"
	}
	return "unknown"
}

// KeyEvent is a single key transition read from or written to a device.
type KeyEvent struct {
	Key        KeyID
	Transition Transition
}

// OutputSequence is an ordered list of events emitted as one unit.
type OutputSequence []KeyEvent

// Binding is the ordered list of output keys bound to a completed chord.
type Binding []KeyID

// IsExit reports whether the binding is the session termination chord.
func (b Binding) IsExit() bool {
	return len(b) == 1 && b[0] == ExitKey
}

// Sequence turns a binding into a tap (press then release) per key, in order.
// The exit binding yields no events.
func Sequence(b Binding) OutputSequence {
	if b.IsExit() {
		return nil
	}
	seq := make(OutputSequence, 0, 2*len(b))
	for _, k := range b {
		if k == ExitKey {
			continue
		}
		seq = append(seq, KeyEvent{Key: k, Transition: Pressed}, KeyEvent{Key: k, Transition: Released})
	}
	return seq
}

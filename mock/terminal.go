package mock

import "github.com/fwojciec/robbie"

// Interface compliance check.
var _ robbie.Terminal = (*Terminal)(nil)

// Terminal is a test double for robbie.Terminal.
// ReadEventFn panics when nil to catch missing setup. The mode methods and
// Write are nil-safe (no-op) because most tests only script events.
type Terminal struct {
	MakeRawFn      func() error
	RestoreFn      func() error
	EnablePasteFn  func() error
	DisablePasteFn func() error
	ReadEventFn    func() (robbie.Event, error)
	WriteFn        func(p []byte) (int, error)
}

// MakeRaw delegates to MakeRawFn. Returns nil when MakeRawFn is not set.
func (t *Terminal) MakeRaw() error {
	if t.MakeRawFn == nil {
		return nil
	}
	return t.MakeRawFn()
}

// Restore delegates to RestoreFn. Returns nil when RestoreFn is not set.
func (t *Terminal) Restore() error {
	if t.RestoreFn == nil {
		return nil
	}
	return t.RestoreFn()
}

// EnablePaste delegates to EnablePasteFn. Returns nil when not set.
func (t *Terminal) EnablePaste() error {
	if t.EnablePasteFn == nil {
		return nil
	}
	return t.EnablePasteFn()
}

// DisablePaste delegates to DisablePasteFn. Returns nil when not set.
func (t *Terminal) DisablePaste() error {
	if t.DisablePasteFn == nil {
		return nil
	}
	return t.DisablePasteFn()
}

// ReadEvent delegates to ReadEventFn.
func (t *Terminal) ReadEvent() (robbie.Event, error) {
	return t.ReadEventFn()
}

// Write delegates to WriteFn. Discards p when WriteFn is not set.
func (t *Terminal) Write(p []byte) (int, error) {
	if t.WriteFn == nil {
		return len(p), nil
	}
	return t.WriteFn(p)
}

// Events returns a ReadEventFn that yields events in order and then err.
func Events(err error, events ...robbie.Event) func() (robbie.Event, error) {
	i := 0
	return func() (robbie.Event, error) {
		if i >= len(events) {
			return nil, err
		}
		ev := events[i]
		i++
		return ev, nil
	}
}

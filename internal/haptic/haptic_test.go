package haptic

import (
	"errors"
	"testing"
)

func swapTrigger(t *testing.T, fn func(Event) error) {
	t.Helper()
	orig := triggerFn
	triggerFn = fn
	t.Cleanup(func() { triggerFn = orig })
}

func TestTriggerRespectsEnableFlags(t *testing.T) {
	var fired []Event
	swapTrigger(t, func(e Event) error {
		fired = append(fired, e)
		return nil
	})

	eng := New()
	eng.Trigger(EventLockToggle)
	eng.Trigger(EventReset)
	if len(fired) != 0 {
		t.Fatalf("disabled events fired: %v", fired)
	}

	eng.Enable(EventLockToggle, true)
	eng.Trigger(EventLockToggle)
	eng.Trigger(EventReset)
	if len(fired) != 1 || fired[0] != EventLockToggle {
		t.Fatalf("fired = %v, want [lock-toggle]", fired)
	}

	eng.Enable(EventLockToggle, false)
	eng.Trigger(EventLockToggle)
	if len(fired) != 1 {
		t.Fatalf("re-disabled event fired: %v", fired)
	}
}

func TestTriggerSwallowsBackendErrors(t *testing.T) {
	swapTrigger(t, func(Event) error { return errors.New("no daemon") })

	eng := New()
	eng.Enable(EventReset, true)
	eng.Trigger(EventReset)
}

func TestNilEngineIsInert(t *testing.T) {
	var called bool
	swapTrigger(t, func(Event) error {
		called = true
		return nil
	})

	var eng *Engine
	eng.Enable(EventReset, true)
	eng.Trigger(EventReset)
	if called {
		t.Fatal("nil engine dispatched")
	}
}

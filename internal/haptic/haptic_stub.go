//go:build !linux

package haptic

// platformTrigger is a no-op on platforms without a feedback backend.
func platformTrigger(Event) error {
	return nil
}

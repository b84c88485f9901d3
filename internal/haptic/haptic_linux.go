//go:build linux

package haptic

import (
	"fmt"
	"os"

	"github.com/godbus/dbus/v5"
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// feedbackd event names from the freedesktop feedback theme spec.
var feedbackNames = map[Event]string{
	EventLockToggle: "button-pressed",
	EventReset:      "button-released",
}

// platformTrigger asks feedbackd for a vibration. Desktops without a
// feedback daemon fall back to the X11 bell so the confirmation is still
// perceptible during development.
func platformTrigger(event Event) error {
	name, ok := feedbackNames[event]
	if !ok {
		return fmt.Errorf("no feedback mapping for %q", event)
	}
	if err := feedbackdTrigger(name); err == nil {
		return nil
	}
	return x11Bell()
}

func feedbackdTrigger(name string) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("dbus connect: %w", err)
	}
	defer conn.Close()

	obj := conn.Object("org.sigxcpu.Feedback", "/org/sigxcpu/Feedback")
	var id uint32
	call := obj.Call("org.sigxcpu.Feedback.TriggerFeedback", 0,
		"tracelens", name, map[string]dbus.Variant{}, int32(-1))
	if call.Err != nil {
		return fmt.Errorf("trigger feedback: %w", call.Err)
	}
	if err := call.Store(&id); err != nil {
		return fmt.Errorf("trigger feedback response: %w", err)
	}
	return nil
}

func x11Bell() error {
	if os.Getenv("DISPLAY") == "" {
		return fmt.Errorf("no display for bell fallback")
	}
	conn, err := xgb.NewConn()
	if err != nil {
		return fmt.Errorf("x11 connect: %w", err)
	}
	defer conn.Close()
	if err := xproto.BellChecked(conn, 0).Check(); err != nil {
		return fmt.Errorf("x11 bell: %w", err)
	}
	return nil
}

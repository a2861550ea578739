//go:build linux

package main

import (
	"github.com/godbus/dbus/v5"
)

const (
	notifyService = "org.freedesktop.Notifications"
	notifyPath    = "/org/freedesktop/Notifications"
	notifyMethod  = notifyService + ".Notify"
	notifyTimeout = int32(3000) // ms
)

// notifier posts desktop notifications over the session bus. A nil notifier
// is valid and does nothing.
type notifier struct {
	conn *dbus.Conn
}

// newNotifier connects to the session bus.
func newNotifier() (*notifier, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, err
	}
	return &notifier{conn: conn}, nil
}

// Notify shows a notification. Failures are logged only.
func (n *notifier) Notify(summary, body string) {
	if n == nil {
		return
	}
	obj := n.conn.Object(notifyService, dbus.ObjectPath(notifyPath))
	call := obj.Call(notifyMethod, 0,
		name, uint32(0), "input-keyboard", summary, body,
		[]string{}, map[string]dbus.Variant{}, notifyTimeout)
	if call.Err != nil {
		logger.Warn("Desktop notification failed", "err", call.Err)
	}
}

// Close disconnects from the session bus.
func (n *notifier) Close() {
	if n == nil {
		return
	}
	n.conn.Close() //nolint:errcheck
}

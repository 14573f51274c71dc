//go:build linux

package notify

import (
	"github.com/godbus/dbus/v5"
)

const (
	busName   = "org.freedesktop.Notifications"
	busPath   = "/org/freedesktop/Notifications"
	busMethod = busName + ".Notify"
	busClose  = busName + ".CloseNotification"
)

// caller is the part of dbus.BusObject the notifier uses.
type caller interface {
	Call(method string, flags dbus.Flags, args ...any) *dbus.Call
}

type busNotifier struct {
	bus caller
}

// New returns a Notifier on the session bus. Without a session bus the
// returned notifier drops everything.
func New() (Notifier, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return discard{}, nil //nolint:nilerr // notifications are optional
	}
	return &busNotifier{bus: conn.Object(busName, busPath)}, nil
}

func (b *busNotifier) Notify(n Notification) (uint32, error) {
	call := b.bus.Call(busMethod, 0,
		appName, n.ReplacesID, n.Icon, n.Title, n.Body,
		[]string{}, busHints(n), n.Timeout)
	if call.Err != nil {
		return 0, call.Err
	}
	var id uint32
	if err := call.Store(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (b *busNotifier) Close(id uint32) error {
	if id == 0 {
		return nil
	}
	return b.bus.Call(busClose, 0, id).Err
}

func busHints(n Notification) map[string]dbus.Variant {
	h := map[string]dbus.Variant{
		"urgency":       dbus.MakeVariant(byte(n.Urgency)),
		"desktop-entry": dbus.MakeVariant(desktopEntry),
	}
	if n.Category != "" {
		h["category"] = dbus.MakeVariant(n.Category)
	}
	// Low urgency announcements should not pile up in the history.
	if n.Urgency == UrgencyLow {
		h["transient"] = dbus.MakeVariant(true)
	}
	return h
}

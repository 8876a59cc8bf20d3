// Package notify sends desktop notifications for tunnel state changes
// over the freedesktop notification D-Bus interface.
package notify

import (
	"fmt"

	"github.com/godbus/dbus/v5"

	"github.com/yllada/wg-manager/common"
	"github.com/yllada/wg-manager/vpn"
)

const (
	busName    = "org.freedesktop.Notifications"
	objectPath = dbus.ObjectPath("/org/freedesktop/Notifications")
	notifyCall = busName + ".Notify"
)

// NotificationType represents the type of notification
type NotificationType int

const (
	NotificationInfo NotificationType = iota
	NotificationSuccess
	NotificationWarning
	NotificationError
)

// Urgency levels understood by notification daemons.
const (
	UrgencyLow      byte = 0
	UrgencyNormal   byte = 1
	UrgencyCritical byte = 2
)

// Notification represents a system notification
type Notification struct {
	Title   string
	Message string
	Type    NotificationType
	Icon    string
}

// icon returns the explicit icon or one matching the type.
func (n Notification) icon() string {
	if n.Icon != "" {
		return n.Icon
	}
	switch n.Type {
	case NotificationWarning:
		return "dialog-warning"
	case NotificationError:
		return "dialog-error"
	default:
		return "network-vpn"
	}
}

func (n Notification) urgency() byte {
	switch n.Type {
	case NotificationError:
		return UrgencyCritical
	case NotificationWarning:
		return UrgencyNormal
	default:
		return UrgencyLow
	}
}

// Notifier shows notifications.
type Notifier interface {
	Notify(n Notification) error
}

// DBusNotifier talks to the notification daemon on the session bus.
type DBusNotifier struct {
	conn *dbus.Conn
}

// NewDBusNotifier connects to the session bus.
func NewDBusNotifier() (*DBusNotifier, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect to session bus: %w", err)
	}
	return &DBusNotifier{conn: conn}, nil
}

// Notify implements Notifier.
func (d *DBusNotifier) Notify(n Notification) error {
	obj := d.conn.Object(busName, objectPath)
	hints := map[string]dbus.Variant{"urgency": dbus.MakeVariant(n.urgency())}
	call := obj.Call(notifyCall, 0,
		common.AppName, uint32(0), n.icon(), n.Title, n.Message,
		[]string{}, hints, int32(-1))
	if call.Err != nil {
		return fmt.Errorf("send notification: %w", call.Err)
	}
	return nil
}

// Close closes the bus connection.
func (d *DBusNotifier) Close() error {
	return d.conn.Close()
}

// StateChange builds the notification for a tunnel moving between states.
func StateChange(name string, from, to vpn.NetState) Notification {
	switch {
	case to == vpn.WgQuickUp:
		return Notification{
			Title:   "Tunnel Active",
			Message: name + " is up",
			Type:    NotificationSuccess,
			Icon:    "network-vpn",
		}
	case to == vpn.IplinkDown:
		return Notification{
			Title:   "Tunnel Link Down",
			Message: name + " is configured but its link is down",
			Type:    NotificationWarning,
		}
	case from == vpn.WgQuickUp:
		return Notification{
			Title:   "Tunnel Inactive",
			Message: name + " went down",
			Type:    NotificationInfo,
			Icon:    "network-vpn-disconnected",
		}
	default:
		return Notification{
			Title:   "Tunnel " + to.String(),
			Message: fmt.Sprintf("%s: %s -> %s", name, from, to),
			Type:    NotificationInfo,
		}
	}
}

// Func adapts a Notifier to a monitor callback. Failures are logged.
func Func(n Notifier) func(name string, from, to vpn.NetState) {
	return func(name string, from, to vpn.NetState) {
		if err := n.Notify(StateChange(name, from, to)); err != nil {
			common.LogWarn("Error showing notification: %v", err)
		}
	}
}

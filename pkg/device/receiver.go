package device

import "time"

var _ Device = (*Receiver)(nil)

// ControlMode is how a receiver was attached to its last channel.
type ControlMode int

const (
	ControlUnknown   ControlMode = -1
	ControlVideoOnly ControlMode = 1
	ControlExclusive ControlMode = 2
	ControlShared    ControlMode = 3
)

// String returns the name of the mode.
func (c ControlMode) String() string {
	switch c {
	case ControlVideoOnly:
		return "VideoOnly"
	case ControlExclusive:
		return "Exclusive"
	case ControlShared:
		return "Shared"
	default:
		return "Unknown"
	}
}

// Receiver is an RX endpoint at a user's desk.
type Receiver struct {
	Base
}

// NewReceiver builds a receiver from a device record.
func NewReceiver(m map[string]string) *Receiver {
	return &Receiver{Base: newBase(m)}
}

// Type implements Device.
func (r *Receiver) Type() Type { return TypeReceiver }

// ConnectionStart returns when the last known connection began.
func (r *Receiver) ConnectionStart() (time.Time, bool) { return r.a.Time("con_start_time") }

// ConnectionEnd returns when the last known connection ended. The bool is
// false while the connection is still open.
func (r *Receiver) ConnectionEnd() (time.Time, bool) { return r.a.Time("con_end_time") }

// Connected reports whether a connection has started and not ended. It
// agrees with ConnectionEnd: an end time that does not parse, such as a zero
// date, leaves the connection open.
func (r *Receiver) Connected() bool {
	_, started := r.ConnectionStart()
	_, ended := r.ConnectionEnd()

	return started && !ended
}

// ControlMode returns the control mode of the last connection.
func (r *Receiver) ControlMode() ControlMode {
	switch c := ControlMode(r.a.Int("con_control", int(ControlUnknown))); c {
	case ControlVideoOnly, ControlExclusive, ControlShared:
		return c
	default:
		return ControlUnknown
	}
}

// ChannelName returns the name of the last channel this receiver joined.
func (r *Receiver) ChannelName() string { return r.a.String("c_name") }

// LastUsername returns the last user seen on this receiver.
func (r *Receiver) LastUsername() string { return r.a.String("u_username") }

// LastUserID returns the id of the last user seen on this receiver, or 0.
// Servers report it as u_userid; older replies use u_id.
func (r *Receiver) LastUserID() int {
	if _, ok := r.a.Lookup("u_userid"); ok {
		return r.a.Int("u_userid", 0)
	}

	return r.a.Int("u_id", 0)
}

// GroupCount returns the number of receiver groups this belongs to.
func (r *Receiver) GroupCount() int { return r.a.Int("count_receiver_groups", 0) }

// PresetCount returns the number of presets this receiver appears in.
func (r *Receiver) PresetCount() int { return r.a.Int("count_receiver_presets", 0) }

// UserCount returns the number of users allowed to use this receiver.
func (r *Receiver) UserCount() int { return r.a.Int("count_users", 0) }

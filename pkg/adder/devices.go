package adder

import (
	"context"
	"iter"
	"strings"

	"github.com/mjiggidy/adderlib/pkg/apierr"
	"github.com/mjiggidy/adderlib/pkg/device"
)

// BlankSentinel is sent in place of an empty string to clear a device field;
// the server ignores parameters that are present but empty.
const BlankSentinel = "\x20"

var devicePath = []string{"devices", "device"}

// GetTransmitters lists transmitters. When ids are given only those devices
// are yielded; the API has no server-side id filter for devices.
func (a *API) GetTransmitters(ctx context.Context, ids ...string) (iter.Seq[*device.Transmitter], error) {
	p := a.authParams("get_devices")
	p.Set("device_type", "tx")

	env, err := a.do(ctx, p)
	if err != nil {
		return nil, err
	}

	return records(env, devicePath, device.NewTransmitter,
		matchAny(ids, (*device.Transmitter).ID)), nil
}

// GetReceivers lists receivers, optionally only those with the given ids.
func (a *API) GetReceivers(ctx context.Context, ids ...string) (iter.Seq[*device.Receiver], error) {
	p := a.authParams("get_devices")
	p.Set("device_type", "rx")

	env, err := a.do(ctx, p)
	if err != nil {
		return nil, err
	}

	return records(env, devicePath, device.NewReceiver,
		matchAny(ids, (*device.Receiver).ID)), nil
}

// GetServers lists the AIM nodes of the installation.
func (a *API) GetServers(ctx context.Context) (iter.Seq[*device.Server], error) {
	env, err := a.do(ctx, a.authParams("get_servers"))
	if err != nil {
		return nil, err
	}

	return records(env, []string{"servers", "server"}, device.NewServer, nil), nil
}

// GetUSBReceivers lists receiving C-USB LAN extenders, optionally only those
// with the given MAC addresses.
func (a *API) GetUSBReceivers(ctx context.Context, macs ...string) (iter.Seq[*device.USBExtender], error) {
	return a.getUSB(ctx, "rx", macs)
}

// GetUSBTransmitters lists transmitting C-USB LAN extenders, optionally only
// those with the given MAC addresses.
func (a *API) GetUSBTransmitters(ctx context.Context, macs ...string) (iter.Seq[*device.USBExtender], error) {
	return a.getUSB(ctx, "tx", macs)
}

func (a *API) getUSB(ctx context.Context, deviceType string, macs []string) (iter.Seq[*device.USBExtender], error) {
	p := a.authParams("get_all_c_usb")
	p.Set("device_type", deviceType)

	env, err := a.do(ctx, p)
	if err != nil {
		return nil, err
	}

	want := make([]string, len(macs))
	for i, m := range macs {
		want[i] = strings.ToLower(m)
	}

	return records(env, []string{"c_usb_lan_extenders", "c_usb_lan_extender"}, device.NewUSBExtender,
		matchAny(want, func(u *device.USBExtender) string { return strings.ToLower(u.MACAddress()) })), nil
}

// DeviceInfo holds the editable text fields of a device. A nil field is left
// unchanged; a pointer to "" clears the field.
type DeviceInfo struct {
	Description *string
	Location    *string
}

// SetDeviceInfo updates the description and/or location of dev. At least one
// field must be set.
func (a *API) SetDeviceInfo(ctx context.Context, dev device.Device, info DeviceInfo) error {
	if info.Description == nil && info.Location == nil {
		return &apierr.ValidationError{Field: "device info", Reason: "description or location is required"}
	}
	if isNil(dev) {
		return &apierr.ValidationError{Field: "device", Reason: "must not be nil"}
	}
	if err := requireID("device", dev.ID()); err != nil {
		return err
	}

	p := a.authParams("update_device")
	p.Set("id", dev.ID())
	if info.Description != nil {
		p.Set("desc", orBlank(*info.Description))
	}
	if info.Location != nil {
		p.Set("loc", orBlank(*info.Location))
	}

	return a.exec(ctx, p)
}

func orBlank(s string) string {
	if s == "" {
		return BlankSentinel
	}

	return s
}

// RebootDevices restarts every device in devs with one request.
func (a *API) RebootDevices(ctx context.Context, devs ...device.Device) error {
	ids, err := joinIDs("devices", devs)
	if err != nil {
		return err
	}

	p := a.authParams("reboot_devices")
	p.Set("ids", ids)

	return a.exec(ctx, p)
}

// ReplaceDevice moves the configuration of old onto its replacement.
func (a *API) ReplaceDevice(ctx context.Context, old, replacement device.Device) error {
	if isNil(old) || isNil(replacement) {
		return &apierr.ValidationError{Field: "device", Reason: "old and new devices are required"}
	}
	if err := requireID("old device", old.ID()); err != nil {
		return err
	}
	if err := requireID("new device", replacement.ID()); err != nil {
		return err
	}
	if old.Type() != replacement.Type() {
		return &apierr.ValidationError{
			Field:  "new device",
			Reason: "is a " + replacement.Type().String() + ", want " + old.Type().String(),
		}
	}

	p := a.authParams("replace_device")
	p.Set("old_id", old.ID())
	p.Set("new_id", replacement.ID())

	return a.exec(ctx, p)
}

// IdentifyDevice flashes the front-panel lights of dev.
func (a *API) IdentifyDevice(ctx context.Context, dev device.Device) error {
	if isNil(dev) {
		return &apierr.ValidationError{Field: "device", Reason: "must not be nil"}
	}
	if err := requireID("device", dev.ID()); err != nil {
		return err
	}

	p := a.authParams("identify_device")
	p.Set("id", dev.ID())

	return a.exec(ctx, p)
}

// joinIDs returns the ids of items joined by commas in input order.
func joinIDs[T interface{ ID() string }](field string, items []T) (string, error) {
	if len(items) == 0 {
		return "", &apierr.ValidationError{Field: field, Reason: "at least one is required"}
	}

	ids := make([]string, len(items))
	for i, it := range items {
		if isNil(it) {
			return "", &apierr.ValidationError{Field: field, Reason: "contains nil"}
		}
		if err := requireID(field, it.ID()); err != nil {
			return "", err
		}
		ids[i] = it.ID()
	}

	return strings.Join(ids, ","), nil
}

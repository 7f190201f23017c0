package adder

import (
	"context"
	"strings"

	"github.com/mjiggidy/adderlib/pkg/apierr"
	"github.com/mjiggidy/adderlib/pkg/device"
)

// ConnectUSB pairs a receiving C-USB extender with a transmitting one.
func (a *API) ConnectUSB(ctx context.Context, rx, tx *device.USBExtender) error {
	if err := requireUSB("usb receiver", rx, device.USBReceiver); err != nil {
		return err
	}
	if err := requireUSB("usb transmitter", tx, device.USBTransmitter); err != nil {
		return err
	}

	p := a.authParams("connect_c_usb")
	p.Set("rx_mac", rx.MACAddress())
	p.Set("tx_mac", tx.MACAddress())

	return a.exec(ctx, p)
}

// DisconnectUSB unpairs a receiving C-USB extender.
func (a *API) DisconnectUSB(ctx context.Context, rx *device.USBExtender) error {
	if err := requireUSB("usb receiver", rx, device.USBReceiver); err != nil {
		return err
	}

	p := a.authParams("disconnect_c_usb")
	p.Set("rx_mac", rx.MACAddress())

	return a.exec(ctx, p)
}

// RenameUSB sets the name of a C-USB extender.
func (a *API) RenameUSB(ctx context.Context, ext *device.USBExtender, name string) error {
	if err := requireUSB("usb extender", ext, device.USBUnknown); err != nil {
		return err
	}
	if strings.TrimSpace(name) == "" {
		return &apierr.ValidationError{Field: "usb name", Reason: "must not be empty"}
	}

	p := a.authParams("update_c_usb")
	p.Set("mac", ext.MACAddress())
	p.Set("name", name)

	return a.exec(ctx, p)
}

// DeleteUSB removes a C-USB extender from the server.
func (a *API) DeleteUSB(ctx context.Context, ext *device.USBExtender) error {
	if err := requireUSB("usb extender", ext, device.USBUnknown); err != nil {
		return err
	}

	p := a.authParams("delete_c_usb")
	p.Set("mac", ext.MACAddress())

	return a.exec(ctx, p)
}

// requireUSB checks that ext is addressable and, unless want is USBUnknown,
// of the wanted type.
func requireUSB(field string, ext *device.USBExtender, want device.USBType) error {
	if ext == nil {
		return &apierr.ValidationError{Field: field, Reason: "must not be nil"}
	}
	if strings.TrimSpace(ext.MACAddress()) == "" {
		return &apierr.ValidationError{Field: field, Reason: "has no MAC address"}
	}
	if want != device.USBUnknown && ext.USBType() != want {
		return &apierr.ValidationError{Field: field, Reason: "is a " + ext.USBType().String() + " unit"}
	}

	return nil
}

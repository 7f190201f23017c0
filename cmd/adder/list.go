package main

import (
	"context"
	"fmt"
	"io"
	"iter"
	"os"
	"strconv"
	"strings"

	"github.com/mjiggidy/adderlib/pkg/adder"
	"github.com/mjiggidy/adderlib/pkg/channel"
	"github.com/mjiggidy/adderlib/pkg/device"
	"github.com/mjiggidy/adderlib/pkg/preset"
)

func runDevices(ctx context.Context, args []string) error {
	fs, g := newFlagSet("devices", "devices [flags] [id...]")
	kind := fs.String("type", "all", "device type: tx, rx or all")
	online := fs.Bool("online", false, "only list devices that are online")
	network := fs.Bool("net", false, "show network interfaces instead of connections")

	ids, err := parseArgs(fs, args, 0, -1)
	if err != nil {
		return err
	}

	opts := deviceListing{Type: *kind, OnlineOnly: *online, Network: *network, IDs: ids}
	if err := opts.validate(); err != nil {
		return err
	}

	s, err := open(ctx, g)
	if err != nil {
		return err
	}
	defer s.close(ctx)

	return writeDevices(ctx, os.Stdout, s.api, opts)
}

type deviceListing struct {
	Type       string
	OnlineOnly bool
	Network    bool
	IDs        []string
}

func (o deviceListing) validate() error {
	switch o.Type {
	case "tx", "rx", "all":
		return nil
	default:
		return fmt.Errorf("devices: unknown type %q (want tx, rx or all)", o.Type)
	}
}

func writeDevices(ctx context.Context, w io.Writer, api *adder.API, o deviceListing) error {
	headers := []string{"ID", "NAME", "TYPE", "MODEL", "STATUS", "LOCATION", "CONNECTION"}
	if o.Network {
		headers = []string{"ID", "NAME", "TYPE", "STATUS", "IP", "MAC", "IP 2", "MAC 2"}
	}

	var rows [][]string

	if o.Type != "rx" {
		seq, err := api.GetTransmitters(ctx, o.IDs...)
		if err != nil {
			return err
		}
		for tx := range seq {
			if o.OnlineOnly && tx.Status() != device.StatusOnline {
				continue
			}
			rows = append(rows, deviceRow(tx.Base, device.TypeTransmitter, o.Network,
				fmt.Sprintf("%d channel(s)", tx.ChannelCount())))
		}
	}

	if o.Type != "tx" {
		seq, err := api.GetReceivers(ctx, o.IDs...)
		if err != nil {
			return err
		}
		for rx := range seq {
			if o.OnlineOnly && rx.Status() != device.StatusOnline {
				continue
			}
			rows = append(rows, deviceRow(rx.Base, device.TypeReceiver, o.Network, connection(rx)))
		}
	}

	_, err := fmt.Fprintln(w, renderTable(headers, rows))
	return err
}

func deviceRow(b device.Base, t device.Type, network bool, conn string) []string {
	status := statusCell(b.Status().String(), b.Status() == device.StatusOnline)

	if network {
		ifs := b.Interfaces()
		return []string{
			b.ID(), truncate(b.Name(), cellWidth), t.String(), status,
			orDash(ifs[0].IPAddress), orDash(ifs[0].MACAddress),
			orDash(ifs[1].IPAddress), orDash(ifs[1].MACAddress),
		}
	}

	return []string{
		b.ID(), truncate(b.Name(), cellWidth), t.String(), b.Model().String(),
		status, truncate(orDash(b.Location()), cellWidth), conn,
	}
}

// connection describes what a receiver is doing right now.
func connection(rx *device.Receiver) string {
	if !rx.Connected() {
		return dimStyle.Render("idle")
	}

	desc := fmt.Sprintf("%s (%s)", truncate(rx.ChannelName(), cellWidth), rx.ControlMode())
	if u := rx.LastUsername(); u != "" {
		desc += " by " + u
	}

	return desc
}

func runServers(ctx context.Context, args []string) error {
	fs, g := newFlagSet("servers", "servers [flags]")
	if _, err := parseArgs(fs, args, 0, 0); err != nil {
		return err
	}

	s, err := open(ctx, g)
	if err != nil {
		return err
	}
	defer s.close(ctx)

	return writeServers(ctx, os.Stdout, s.api)
}

func writeServers(ctx context.Context, w io.Writer, api *adder.API) error {
	seq, err := api.GetServers(ctx)
	if err != nil {
		return err
	}

	var rows [][]string
	for srv := range seq {
		rows = append(rows, []string{
			srv.ID(),
			truncate(srv.Name(), cellWidth),
			srv.Role().String(),
			statusCell(srv.ServerStatus().String(), srv.ServerStatus() == device.ServerActive),
			orDash(srv.IPAddress()),
			yesNo(srv.DualEthernet()),
			orDash(srv.Firmware()),
		})
	}

	_, err = fmt.Fprintln(w, renderTable(
		[]string{"ID", "NAME", "ROLE", "STATUS", "IP", "DUAL ETHERNET", "FIRMWARE"}, rows))
	return err
}

func runChannels(ctx context.Context, args []string) error {
	fs, g := newFlagSet("channels", "channels [flags] [id...]")
	name := fs.String("name", "", "server-side name filter")
	online := fs.Bool("online", false, "only list channels that are online")

	ids, err := parseArgs(fs, args, 0, -1)
	if err != nil {
		return err
	}

	s, err := open(ctx, g)
	if err != nil {
		return err
	}
	defer s.close(ctx)

	return writeChannels(ctx, os.Stdout, s.api, adder.ChannelFilter{IDs: ids, Name: *name}, *online)
}

func writeChannels(ctx context.Context, w io.Writer, api *adder.API, filter adder.ChannelFilter, onlineOnly bool) error {
	seq, err := api.GetChannels(ctx, filter)
	if err != nil {
		return err
	}

	var rows [][]string
	for ch := range seq {
		if onlineOnly && !ch.Online() {
			continue
		}

		fav := ""
		if ch.Favorite() {
			fav = "★ " + ch.Shortcut()
		}

		rows = append(rows, []string{
			ch.ID(),
			truncate(ch.Name(), cellWidth),
			truncate(orDash(ch.Location()), cellWidth),
			statusCell(yesNo(ch.Online()), ch.Online()),
			modeLetters(ch.Gates),
			fav,
		})
	}

	_, err = fmt.Fprintln(w, renderTable(
		[]string{"ID", "NAME", "LOCATION", "ONLINE", "MODES", "FAVOURITE"}, rows))
	return err
}

// modeLetters lists the connection modes a gate set allows, e.g. "vs".
func modeLetters(g channel.Gates) string {
	var b strings.Builder
	for _, m := range allModes {
		if g.Allows(m) {
			b.WriteString(m.String())
		}
	}

	if b.Len() == 0 {
		return dimStyle.Render("none")
	}
	return b.String()
}

var allModes = []channel.ConnectionMode{
	channel.ModeVideoOnly,
	channel.ModeShared,
	channel.ModeExclusive,
	channel.ModePrivate,
}

func runPresets(ctx context.Context, args []string) error {
	fs, g := newFlagSet("presets", "presets [flags] [id...]")

	ids, err := parseArgs(fs, args, 0, -1)
	if err != nil {
		return err
	}

	s, err := open(ctx, g)
	if err != nil {
		return err
	}
	defer s.close(ctx)

	return writePresets(ctx, os.Stdout, s.api, ids...)
}

func writePresets(ctx context.Context, w io.Writer, api *adder.API, ids ...string) error {
	seq, err := api.GetPresets(ctx, ids...)
	if err != nil {
		return err
	}

	var rows [][]string
	for p := range seq {
		problems := strconv.Itoa(p.ProblemPairCount())
		if p.ProblemPairCount() > 0 {
			problems = warnStyle.Render(problems)
		}

		rows = append(rows, []string{
			p.ID(),
			truncate(p.Name(), cellWidth),
			strconv.Itoa(p.PairCount()),
			problems,
			activeCell(p.Active()),
			strconv.Itoa(p.ConnectedReceiverCount()),
			modeLetters(p.Gates),
		})
	}

	_, err = fmt.Fprintln(w, renderTable(
		[]string{"ID", "NAME", "PAIRS", "PROBLEMS", "ACTIVE", "CONNECTED", "MODES"}, rows))
	return err
}

func activeCell(a preset.ActiveState) string {
	switch a {
	case preset.ActiveFull:
		return onlineStyle.Render(a.String())
	case preset.ActivePartial:
		return warnStyle.Render(a.String())
	default:
		return dimStyle.Render(a.String())
	}
}

func runUSB(ctx context.Context, args []string) error {
	fs, g := newFlagSet("usb", "usb [flags] [mac...]")

	macs, err := parseArgs(fs, args, 0, -1)
	if err != nil {
		return err
	}

	s, err := open(ctx, g)
	if err != nil {
		return err
	}
	defer s.close(ctx)

	return writeUSB(ctx, os.Stdout, s.api, macs...)
}

func writeUSB(ctx context.Context, w io.Writer, api *adder.API, macs ...string) error {
	var rows [][]string

	for _, get := range []func(context.Context, ...string) (iter.Seq[*device.USBExtender], error){
		api.GetUSBReceivers,
		api.GetUSBTransmitters,
	} {
		seq, err := get(ctx, macs...)
		if err != nil {
			return err
		}
		for u := range seq {
			rows = append(rows, []string{
				u.ID(),
				truncate(orDash(u.Name()), cellWidth),
				u.USBType().String(),
				u.MACAddress(),
				orDash(u.IPAddress()),
				statusCell(yesNo(u.Online()), u.Online()),
				orDash(u.ConnectedMAC()),
			})
		}
	}

	_, err := fmt.Fprintln(w, renderTable(
		[]string{"ID", "NAME", "TYPE", "MAC", "IP", "ONLINE", "CONNECTED TO"}, rows))
	return err
}

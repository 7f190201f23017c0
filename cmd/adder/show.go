package main

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/mjiggidy/adderlib/pkg/adder"
	"github.com/mjiggidy/adderlib/pkg/apierr"
	"github.com/mjiggidy/adderlib/pkg/channel"
	"github.com/mjiggidy/adderlib/pkg/device"
	"github.com/mjiggidy/adderlib/pkg/preset"
)

func runShow(ctx context.Context, args []string) error {
	fs, g := newFlagSet("show", "show [flags] <device|channel|preset> <id>")
	raw := fs.Bool("raw", false, "print markdown without rendering")
	width := fs.Int("width", 100, "word wrap width")

	rest, err := parseArgs(fs, args, 2, 2)
	if err != nil {
		return err
	}

	s, err := open(ctx, g)
	if err != nil {
		return err
	}
	defer s.close(ctx)

	md, err := describe(ctx, s.api, rest[0], rest[1])
	if err != nil {
		return err
	}

	return writeMarkdown(os.Stdout, md, *raw, *width)
}

// describe builds a markdown document for one entity.
func describe(ctx context.Context, api *adder.API, kind, id string) (string, error) {
	switch kind {
	case "device":
		return describeDevice(ctx, api, id)
	case "channel":
		seq, err := api.GetChannels(ctx, adder.ChannelFilter{IDs: []string{id}})
		if err != nil {
			return "", err
		}
		ch, ok := adder.First(seq)
		if !ok {
			return "", notFound("channel", id)
		}
		return channelMarkdown(ch), nil
	case "preset":
		seq, err := api.GetPresets(ctx, id)
		if err != nil {
			return "", err
		}
		p, ok := adder.First(seq)
		if !ok {
			return "", notFound("preset", id)
		}
		return presetMarkdown(p), nil
	default:
		return "", fmt.Errorf("show: unknown kind %q (want device, channel or preset)", kind)
	}
}

func describeDevice(ctx context.Context, api *adder.API, id string) (string, error) {
	rxs, err := api.GetReceivers(ctx, id)
	if err != nil {
		return "", err
	}
	if rx, ok := adder.First(rxs); ok {
		return receiverMarkdown(rx), nil
	}

	txs, err := api.GetTransmitters(ctx, id)
	if err != nil {
		return "", err
	}
	if tx, ok := adder.First(txs); ok {
		return transmitterMarkdown(tx), nil
	}

	return "", notFound("device", id)
}

func notFound(kind, id string) error {
	return &apierr.ValidationError{Field: kind, Reason: fmt.Sprintf("no %s with id %q", kind, id)}
}

func writeMarkdown(w io.Writer, md string, raw bool, width int) error {
	if raw {
		_, err := io.WriteString(w, md)
		return err
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return fmt.Errorf("show: %w", err)
	}

	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("show: %w", err)
	}

	_, err = io.WriteString(w, out)
	return err
}

// doc accumulates a markdown document with a heading and a property table.
type doc struct {
	b strings.Builder
}

func newDoc(title, subtitle string) *doc {
	d := &doc{}
	fmt.Fprintf(&d.b, "# %s\n\n", mdEscape(title))
	if subtitle != "" {
		fmt.Fprintf(&d.b, "_%s_\n\n", mdEscape(subtitle))
	}
	d.b.WriteString("| Property | Value |\n|---|---|\n")
	return d
}

func (d *doc) row(name, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	fmt.Fprintf(&d.b, "| %s | %s |\n", name, mdEscape(value))
}

func (d *doc) section(title string) {
	fmt.Fprintf(&d.b, "\n## %s\n\n", title)
}

func (d *doc) line(s string) {
	d.b.WriteString(s)
	d.b.WriteString("\n")
}

func (d *doc) String() string { return d.b.String() }

func mdEscape(s string) string {
	return strings.NewReplacer("|", `\|`, "\n", " ").Replace(s)
}

func baseRows(d *doc, b device.Base) {
	d.row("ID", b.ID())
	d.row("Model", b.Model().String())
	d.row("Status", b.Status().String())
	d.row("Description", b.Description())
	d.row("Location", b.Location())
	d.row("Serial number", b.SerialNumber())
	d.row("Firmware", b.Firmware())
	d.row("Backup firmware", b.BackupFirmware())
	d.row("Configured", yesNo(b.Configured()))
	if added, ok := b.DateAdded(); ok {
		d.row("Added", added.Format("2006-01-02 15:04"))
	}

	ifs := b.Interfaces()
	for i, nic := range ifs {
		if nic.MACAddress == "" && nic.IPAddress == "" {
			continue
		}
		d.row(fmt.Sprintf("Interface %d", i+1),
			fmt.Sprintf("%s %s (%s)", orDash(nic.IPAddress), orDash(nic.MACAddress), onOff(nic.Online)))
	}
}

func onOff(b bool) string {
	if b {
		return "up"
	}
	return "down"
}

func receiverMarkdown(rx *device.Receiver) string {
	d := newDoc(rx.Name(), "Receiver")
	baseRows(d, rx.Base)

	d.section("Connection")
	if !rx.Connected() {
		d.line("Not connected.")
	} else {
		d.line(fmt.Sprintf("Connected to **%s** in %s mode by %s.",
			mdEscape(rx.ChannelName()), rx.ControlMode(), orDash(rx.LastUsername())))
		if start, ok := rx.ConnectionStart(); ok {
			d.line("")
			d.line("Since " + start.Format("2006-01-02 15:04") + ".")
		}
	}

	d.section("Membership")
	d.line(fmt.Sprintf("- %d group(s)\n- %d preset(s)\n- %d user(s)",
		rx.GroupCount(), rx.PresetCount(), rx.UserCount()))

	return d.String()
}

func transmitterMarkdown(tx *device.Transmitter) string {
	d := newDoc(tx.Name(), "Transmitter")
	baseRows(d, tx.Base)

	d.section("Membership")
	d.line(fmt.Sprintf("- %d channel(s)\n- %d preset(s)", tx.ChannelCount(), tx.PresetCount()))

	return d.String()
}

func channelMarkdown(ch *channel.Channel) string {
	d := newDoc(ch.Name(), "Channel")
	d.row("ID", ch.ID())
	d.row("Description", ch.Description())
	d.row("Location", ch.Location())
	d.row("Type", ch.Type())
	d.row("Transmitter", ch.TransmitterID())
	d.row("Online", yesNo(ch.Online()))
	if ch.Favorite() {
		d.row("Favourite", ch.Shortcut())
	}

	gateRows(d, ch.Gates)

	if extras := ch.Extras(); len(extras) > 0 {
		d.section("Extra fields")
		for _, k := range slices.Sorted(maps.Keys(extras)) {
			d.line(fmt.Sprintf("- `%s`: %s", k, mdEscape(orDash(extras[k]))))
		}
	}

	return d.String()
}

func presetMarkdown(p *preset.Preset) string {
	d := newDoc(p.Name(), "Preset")
	d.row("ID", p.ID())
	d.row("Description", p.Description())
	d.row("Pairs", fmt.Sprint(p.PairCount()))
	d.row("Problem pairs", fmt.Sprint(p.ProblemPairCount()))
	d.row("Active", p.Active().String())
	d.row("Connected receivers", fmt.Sprint(p.ConnectedReceiverCount()))

	gateRows(d, p.Gates)

	return d.String()
}

func gateRows(d *doc, g channel.Gates) {
	d.section("Connection modes")
	d.line(fmt.Sprintf("- View only: %s\n- Shared: %s\n- Control: %s\n- Exclusive: %s",
		g.View(), g.Shared(), g.Control(), g.Exclusive()))
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/mjiggidy/adderlib/pkg/adder"
	"github.com/mjiggidy/adderlib/pkg/channel"
	"github.com/mjiggidy/adderlib/pkg/device"
	"github.com/mjiggidy/adderlib/pkg/preset"
	"github.com/mjiggidy/adderlib/pkg/tools/kvm"
)

const presetUsage = `Usage: adder preset <command> [flags]

Commands:
  create   Create a preset from channel/receiver pairs
  load     Connect every pair of a preset: load <id>
  unload   Disconnect every pair of a preset: unload <id>
  delete   Delete a preset: delete <id>
`

func runPreset(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, presetUsage)
		return errors.New("preset: missing command")
	}

	switch args[0] {
	case "create":
		return runPresetCreate(ctx, args[1:])
	case "load":
		return runPresetLoad(ctx, args[1:])
	case "unload":
		return runPresetUnload(ctx, args[1:])
	case "delete":
		return runPresetDelete(ctx, args[1:])
	default:
		fmt.Fprint(os.Stderr, presetUsage)
		return fmt.Errorf("preset: unknown command %q", args[0])
	}
}

// pairSpecs collects repeated -pair flags.
type pairSpecs []string

func (p *pairSpecs) String() string { return strings.Join(*p, ",") }

func (p *pairSpecs) Set(v string) error {
	*p = append(*p, v)
	return nil
}

func runPresetCreate(ctx context.Context, args []string) error {
	fs, g := newFlagSet("preset create", "preset create [flags]")
	name := fs.String("name", "", "preset name (prompted when empty)")
	modes := fs.String("modes", "", "allowed connection modes as letters, e.g. vs (default: all)")
	var specs pairSpecs
	fs.Var(&specs, "pair", "channel-id:receiver-id pair; repeat for more (prompted when absent)")

	if _, err := parseArgs(fs, args, 0, 0); err != nil {
		return err
	}

	allowed, err := parseModes(*modes)
	if err != nil {
		return err
	}

	s, err := open(ctx, g)
	if err != nil {
		return err
	}
	defer s.close(ctx)

	chSeq, err := s.api.GetChannels(ctx, adder.ChannelFilter{})
	if err != nil {
		return err
	}
	rxSeq, err := s.api.GetReceivers(ctx)
	if err != nil {
		return err
	}
	chs, rxs := adder.Collect(chSeq), adder.Collect(rxSeq)

	var pairs []preset.Pair
	if len(specs) > 0 {
		if pairs, err = parsePairs(specs, chs, rxs); err != nil {
			return err
		}
	} else if pairs, err = promptPairs(chs, rxs); err != nil {
		return err
	}

	if *name == "" {
		if err := runForm(huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("Preset name").Value(name).Validate(required("name")),
		))); err != nil {
			return err
		}
	}

	p, err := s.api.CreatePreset(ctx, *name, pairs, allowed...)
	if err != nil {
		return err
	}

	fmt.Printf("%s Created preset %s (id %s)\n", successStyle.Render("✓"), p.Name(), p.ID())
	for _, pair := range p.Pairs() {
		fmt.Printf("  %s → %s\n", pair.Channel.Name(), pair.Receiver.Name())
	}

	return nil
}

// parseModes reads mode letters such as "vs". Empty means every mode.
func parseModes(s string) ([]channel.ConnectionMode, error) {
	var out []channel.ConnectionMode
	for _, r := range s {
		m, ok := channel.ParseConnectionMode(string(r))
		if !ok {
			return nil, fmt.Errorf("modes: unknown mode %q", r)
		}
		out = append(out, m)
	}
	return out, nil
}

// parsePairs resolves channel-id:receiver-id specs against the listings.
func parsePairs(specs []string, chs []*channel.Channel, rxs []*device.Receiver) ([]preset.Pair, error) {
	pairs := make([]preset.Pair, 0, len(specs))
	seen := map[string]bool{}

	for _, spec := range specs {
		chID, rxID, ok := strings.Cut(spec, ":")
		if !ok || chID == "" || rxID == "" {
			return nil, fmt.Errorf("pair %q: want channel-id:receiver-id", spec)
		}
		if seen[rxID] {
			return nil, fmt.Errorf("pair %q: receiver %s is already paired", spec, rxID)
		}
		seen[rxID] = true

		ch := findByID(chs, chID)
		if ch == nil {
			return nil, notFound("channel", chID)
		}
		rx := findByID(rxs, rxID)
		if rx == nil {
			return nil, notFound("receiver", rxID)
		}

		pairs = append(pairs, preset.Pair{Channel: ch, Receiver: rx})
	}

	return pairs, nil
}

func findByID[T interface{ ID() string }](items []T, id string) T {
	for _, it := range items {
		if it.ID() == id {
			return it
		}
	}

	var zero T
	return zero
}

// promptPairs asks for one receiver and channel at a time until the user
// picks "done". A receiver can appear in one pair only.
func promptPairs(chs []*channel.Channel, rxs []*device.Receiver) ([]preset.Pair, error) {
	if len(chs) == 0 || len(rxs) == 0 {
		return nil, errors.New("preset: need at least one channel and one receiver")
	}

	var pairs []preset.Pair
	remaining := rxs

	for len(remaining) > 0 {
		var (
			rx *device.Receiver
			ch *channel.Channel
		)

		opts := receiverOptions(remaining)
		if len(pairs) > 0 {
			opts = append(opts, huh.NewOption[*device.Receiver]("Done", nil))
		}

		title := fmt.Sprintf("Receiver for pair %d", len(pairs)+1)
		if err := runForm(huh.NewForm(huh.NewGroup(
			huh.NewSelect[*device.Receiver]().Title(title).Options(opts...).Value(&rx),
		))); err != nil {
			return nil, err
		}
		if rx == nil {
			break
		}

		if err := runForm(huh.NewForm(huh.NewGroup(
			huh.NewSelect[*channel.Channel]().
				Title("Channel for " + rx.Name()).
				Options(channelOptions(chs)...).
				Value(&ch),
		))); err != nil {
			return nil, err
		}

		pairs = append(pairs, preset.Pair{Channel: ch, Receiver: rx})
		remaining = without(remaining, rx)
	}

	return pairs, nil
}

func without(rxs []*device.Receiver, drop *device.Receiver) []*device.Receiver {
	out := make([]*device.Receiver, 0, len(rxs))
	for _, rx := range rxs {
		if rx != drop {
			out = append(out, rx)
		}
	}
	return out
}

func runPresetLoad(ctx context.Context, args []string) error {
	fs, g := newFlagSet("preset load", "preset load [flags] <id>")
	mode := fs.String("mode", "s", "connection mode: v, s, e or p")
	force := fs.Bool("force", false, "take over receivers in use")

	rest, err := parseArgs(fs, args, 1, 1)
	if err != nil {
		return err
	}

	s, err := open(ctx, g)
	if err != nil {
		return err
	}
	defer s.close(ctx)

	return callTool(ctx, os.Stdout, kvm.Tools(s.api), "load_preset", map[string]any{
		"preset_id": rest[0],
		"mode":      *mode,
		"force":     *force,
	})
}

func runPresetUnload(ctx context.Context, args []string) error {
	fs, g := newFlagSet("preset unload", "preset unload [flags] <id>")
	force := fs.Bool("force", false, "disconnect receivers in use by other users")

	rest, err := parseArgs(fs, args, 1, 1)
	if err != nil {
		return err
	}

	s, err := open(ctx, g)
	if err != nil {
		return err
	}
	defer s.close(ctx)

	return callTool(ctx, os.Stdout, kvm.Tools(s.api), "unload_preset", map[string]any{
		"preset_id": rest[0],
		"force":     *force,
	})
}

func runPresetDelete(ctx context.Context, args []string) error {
	fs, g := newFlagSet("preset delete", "preset delete [flags] <id>")
	yes := fs.Bool("yes", false, "do not ask for confirmation")

	rest, err := parseArgs(fs, args, 1, 1)
	if err != nil {
		return err
	}

	s, err := open(ctx, g)
	if err != nil {
		return err
	}
	defer s.close(ctx)

	seq, err := s.api.GetPresets(ctx, rest[0])
	if err != nil {
		return err
	}
	p, ok := adder.First(seq)
	if !ok {
		return notFound("preset", rest[0])
	}

	if !*yes {
		confirmed := false
		if err := runForm(huh.NewForm(huh.NewGroup(
			huh.NewConfirm().Title(fmt.Sprintf("Delete preset %s?", p.Name())).Value(&confirmed),
		))); err != nil {
			return err
		}
		if !confirmed {
			return errCancelled
		}
	}

	if err := s.api.DeletePreset(ctx, p); err != nil {
		return err
	}

	fmt.Printf("%s Deleted preset %s\n", successStyle.Render("✓"), p.Name())
	return nil
}

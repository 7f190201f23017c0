package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/mjiggidy/adderlib/pkg/adder"
	"github.com/mjiggidy/adderlib/pkg/channel"
	"github.com/mjiggidy/adderlib/pkg/device"
)

var errCancelled = errors.New("cancelled")

// runForm runs a form on stderr so stdout stays clean for piping. Esc quits
// as well as ctrl+c.
func runForm(form *huh.Form) error {
	km := huh.NewDefaultKeyMap()
	km.Quit = key.NewBinding(
		key.WithKeys("ctrl+c", "esc"),
		key.WithHelp("esc", "quit"),
	)

	err := form.
		WithKeyMap(km).
		WithProgramOptions(tea.WithOutput(os.Stderr)).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return errCancelled
	}

	return err
}

func runSwitch(ctx context.Context, args []string) error {
	fs, g := newFlagSet("switch", "switch [flags]")
	all := fs.Bool("all", false, "offer offline receivers and channels too")

	if _, err := parseArgs(fs, args, 0, 0); err != nil {
		return err
	}

	s, err := open(ctx, g)
	if err != nil {
		return err
	}
	defer s.close(ctx)

	fmt.Fprintf(os.Stderr, "Logged in to %s as %s\n\n", s.api.Server().Host, s.api.User().Username())

	rxs, chs, err := switchChoices(ctx, s.api, *all)
	if err != nil {
		return err
	}

	var (
		rx   *device.Receiver
		ch   *channel.Channel
		mode = channel.ModeShared
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[*device.Receiver]().
				Title("Receiver").
				Options(receiverOptions(rxs)...).
				Value(&rx),
			huh.NewSelect[*channel.Channel]().
				Title("Channel").
				Options(channelOptions(chs)...).
				Value(&ch),
		),
		huh.NewGroup(
			huh.NewSelect[channel.ConnectionMode]().
				Title("Mode").
				OptionsFunc(func() []huh.Option[channel.ConnectionMode] {
					return modeOptions(ch)
				}, &ch).
				Value(&mode),
		),
	)
	if err := runForm(form); err != nil {
		return err
	}

	if err := s.api.ConnectToChannel(ctx, ch, rx, mode); err != nil {
		return err
	}

	fmt.Printf("%s Connected %s to %s (%s)\n", successStyle.Render("✓"), rx.Name(), ch.Name(), modeName(mode))

	return nil
}

// switchChoices lists the receivers and channels worth offering.
func switchChoices(ctx context.Context, api *adder.API, all bool) ([]*device.Receiver, []*channel.Channel, error) {
	rxSeq, err := api.GetReceivers(ctx)
	if err != nil {
		return nil, nil, err
	}
	rxs := slices.DeleteFunc(adder.Collect(rxSeq), func(rx *device.Receiver) bool {
		return !all && rx.Status() != device.StatusOnline
	})
	if len(rxs) == 0 {
		return nil, nil, errors.New("no receivers were found to be online")
	}

	chSeq, err := api.GetChannels(ctx, adder.ChannelFilter{})
	if err != nil {
		return nil, nil, err
	}
	chs := slices.DeleteFunc(adder.Collect(chSeq), func(ch *channel.Channel) bool {
		return !all && !ch.Online()
	})
	if len(chs) == 0 {
		return nil, nil, errors.New("no channels were found to be online")
	}

	return rxs, chs, nil
}

func receiverOptions(rxs []*device.Receiver) []huh.Option[*device.Receiver] {
	opts := make([]huh.Option[*device.Receiver], 0, len(rxs))
	for _, rx := range rxs {
		label := rx.Name()
		if rx.Connected() {
			label += dimStyle.Render(" → " + rx.ChannelName())
		}
		opts = append(opts, huh.NewOption(label, rx))
	}
	return opts
}

func channelOptions(chs []*channel.Channel) []huh.Option[*channel.Channel] {
	opts := make([]huh.Option[*channel.Channel], 0, len(chs))
	for _, ch := range chs {
		label := ch.Name()
		if loc := ch.Location(); loc != "" {
			label += dimStyle.Render(" (" + loc + ")")
		}
		opts = append(opts, huh.NewOption(label, ch))
	}
	return opts
}

// modeOptions offers the modes ch allows, shared first. A nil channel or
// one that reports no gates offers every mode and leaves the server to
// decide.
func modeOptions(ch *channel.Channel) []huh.Option[channel.ConnectionMode] {
	order := []channel.ConnectionMode{
		channel.ModeShared,
		channel.ModeVideoOnly,
		channel.ModeExclusive,
		channel.ModePrivate,
	}

	var opts []huh.Option[channel.ConnectionMode]
	for _, m := range order {
		if ch == nil || ch.Allows(m) {
			opts = append(opts, huh.NewOption(modeName(m), m))
		}
	}

	if len(opts) == 0 {
		for _, m := range order {
			opts = append(opts, huh.NewOption(modeName(m), m))
		}
	}

	return opts
}

func modeName(m channel.ConnectionMode) string {
	switch m {
	case channel.ModeVideoOnly:
		return "view only"
	case channel.ModeShared:
		return "shared"
	case channel.ModeExclusive:
		return "exclusive"
	case channel.ModePrivate:
		return "private"
	default:
		return m.String()
	}
}

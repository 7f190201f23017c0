package adder

import (
	"context"
	"iter"
	"strconv"
	"strings"

	"github.com/mjiggidy/adderlib/pkg/apierr"
	"github.com/mjiggidy/adderlib/pkg/channel"
	"github.com/mjiggidy/adderlib/pkg/device"
)

// ChannelFilter narrows a channel listing. Name is matched by the server; IDs
// are matched locally after the reply is parsed.
type ChannelFilter struct {
	IDs  []string
	Name string
}

// GetChannels lists the channels visible to the session user.
func (a *API) GetChannels(ctx context.Context, filter ChannelFilter) (iter.Seq[*channel.Channel], error) {
	p := a.authParams("get_channels")
	p.Set("filter_c_name", filter.Name)

	env, err := a.do(ctx, p)
	if err != nil {
		return nil, err
	}

	return records(env, []string{"channels", "channel"}, channel.New,
		matchAny(filter.IDs, (*channel.Channel).ID)), nil
}

// ConnectToChannel attaches rx to ch in mode. The zero mode means shared.
func (a *API) ConnectToChannel(ctx context.Context, ch *channel.Channel, rx *device.Receiver, mode channel.ConnectionMode) error {
	if mode == 0 {
		mode = channel.ModeShared
	}
	if !mode.Valid() {
		return &apierr.ValidationError{Field: "connection mode", Reason: "unknown mode " + mode.String()}
	}
	if ch == nil || rx == nil {
		return &apierr.ValidationError{Field: "connection", Reason: "channel and receiver are required"}
	}
	if err := requireID("channel", ch.ID()); err != nil {
		return err
	}
	if err := requireID("receiver", rx.ID()); err != nil {
		return err
	}

	p := a.authParams("connect_channel")
	p.Set("c_id", ch.ID())
	p.Set("rx_id", rx.ID())
	p.Set("mode", mode.String())

	return a.exec(ctx, p)
}

// DisconnectFromChannel drops each receiver from whatever channel it is on.
// With force set, connections held by other users are dropped too.
func (a *API) DisconnectFromChannel(ctx context.Context, force bool, receivers ...*device.Receiver) error {
	ids, err := joinIDs("receivers", receivers)
	if err != nil {
		return err
	}

	p := a.authParams("disconnect_channel")
	p.Set("rx_id", ids)
	if force {
		p.Set("force", "1")
	}

	return a.exec(ctx, p)
}

// NewChannel describes a channel to create. Video1 is required; the other
// sources are optional and each Head selects the video head of a dual-head
// transmitter (1 or 2, 0 for the default).
type NewChannel struct {
	Name        string
	Description string
	Location    string
	Video1      *device.Transmitter
	Video1Head  int
	Video2      *device.Transmitter
	Video2Head  int
	Audio       *device.Transmitter
	USB         *device.Transmitter
	Serial      *device.Transmitter
	GroupName   string
}

// CreateChannel creates a channel and reads it back so the returned value
// carries every field the server assigned.
func (a *API) CreateChannel(ctx context.Context, nc NewChannel) (*channel.Channel, error) {
	if strings.TrimSpace(nc.Name) == "" {
		return nil, &apierr.ValidationError{Field: "channel name", Reason: "must not be empty"}
	}
	if nc.Video1 == nil {
		return nil, &apierr.ValidationError{Field: "video1", Reason: "a transmitter is required"}
	}

	p := a.authParams("create_channel")
	p.Set("c_name", nc.Name)
	if nc.Description != "" {
		p.Set("c_desc", nc.Description)
	}
	if nc.Location != "" {
		p.Set("c_location", nc.Location)
	}

	sources := []struct {
		key  string
		tx   *device.Transmitter
		head int
	}{
		{"c_video1", nc.Video1, nc.Video1Head},
		{"c_video2", nc.Video2, nc.Video2Head},
		{"c_audio", nc.Audio, 0},
		{"c_usb", nc.USB, 0},
		{"c_serial", nc.Serial, 0},
	}
	for _, s := range sources {
		if s.tx == nil {
			continue
		}
		if err := requireID(s.key, s.tx.ID()); err != nil {
			return nil, err
		}
		p.Set(s.key, s.tx.ID())
		if s.head > 0 {
			p.Set(s.key+"_head", strconv.Itoa(s.head))
		}
	}
	if nc.GroupName != "" {
		p.Set("group_name", nc.GroupName)
	}

	env, err := a.do(ctx, p)
	if err != nil {
		return nil, err
	}

	id := strings.TrimSpace(env.Value("id"))
	if id == "" {
		return nil, &apierr.UnknownResponseError{Method: "create_channel", Detail: "success without an id"}
	}

	return a.channelByID(ctx, id)
}

func (a *API) channelByID(ctx context.Context, id string) (*channel.Channel, error) {
	seq, err := a.GetChannels(ctx, ChannelFilter{IDs: []string{id}})
	if err != nil {
		return nil, err
	}

	ch, ok := First(seq)
	if !ok {
		return nil, &apierr.UnknownResponseError{Method: "get_channels", Detail: "channel " + id + " not listed after create"}
	}

	return ch, nil
}

// DeleteChannel removes ch from the server.
func (a *API) DeleteChannel(ctx context.Context, ch *channel.Channel) error {
	if ch == nil {
		return &apierr.ValidationError{Field: "channel", Reason: "must not be nil"}
	}
	if err := requireID("channel", ch.ID()); err != nil {
		return err
	}

	p := a.authParams("delete_channel")
	p.Set("id", ch.ID())

	return a.exec(ctx, p)
}

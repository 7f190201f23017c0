// Package kvm exposes AIM operations as toolbox tools. Inputs and outputs are
// JSON; entities are looked up by id on every call, so tools never act on
// stale listings.
package kvm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mjiggidy/adderlib/pkg/adder"
	"github.com/mjiggidy/adderlib/pkg/apierr"
	"github.com/mjiggidy/adderlib/pkg/channel"
	"github.com/mjiggidy/adderlib/pkg/device"
	"github.com/mjiggidy/adderlib/pkg/preset"
	"github.com/mjiggidy/adderlib/pkg/tools/toolbox"
)

// ReadOnly names the tools that do not change anything on the server.
var ReadOnly = []string{
	"list_transmitters",
	"list_receivers",
	"list_servers",
	"list_channels",
	"list_presets",
}

// Tools returns a ToolBox whose tools act through api. api must already be
// logged in.
func Tools(api *adder.API) *toolbox.ToolBox {
	k := &kvm{api: api}

	tb := toolbox.New()
	tb.Register(
		toolbox.Tool{
			Name:        "list_transmitters",
			Description: "List KVM transmitters (computers that can be viewed).",
			InputSchema: idsSchema,
			Handler:     toolbox.JSON(k.listTransmitters),
		},
		toolbox.Tool{
			Name:        "list_receivers",
			Description: "List KVM receivers (desks) and what they are connected to.",
			InputSchema: idsSchema,
			Handler:     toolbox.JSON(k.listReceivers),
		},
		toolbox.Tool{
			Name:        "list_servers",
			Description: "List the AIM management servers and their cluster roles.",
			InputSchema: emptySchema,
			Handler:     toolbox.JSON(k.listServers),
		},
		toolbox.Tool{
			Name:        "list_channels",
			Description: "List channels, optionally filtered by name or id, with the connection modes allowed on each.",
			InputSchema: channelFilterSchema,
			Handler:     toolbox.JSON(k.listChannels),
		},
		toolbox.Tool{
			Name:        "list_presets",
			Description: "List connection presets and how much of each is active.",
			InputSchema: idsSchema,
			Handler:     toolbox.JSON(k.listPresets),
		},
		toolbox.Tool{
			Name:        "connect_channel",
			Description: "Connect a receiver to a channel. Mode is v (view only), s (shared), e (exclusive) or p (private).",
			InputSchema: connectSchema,
			Handler:     toolbox.JSON(k.connectChannel),
		},
		toolbox.Tool{
			Name:        "disconnect_channel",
			Description: "Disconnect one or more receivers from their current channel.",
			InputSchema: disconnectSchema,
			Handler:     toolbox.JSON(k.disconnectChannel),
		},
		toolbox.Tool{
			Name:        "load_preset",
			Description: "Connect every pair of a preset.",
			InputSchema: loadPresetSchema,
			Handler:     toolbox.JSON(k.loadPreset),
		},
		toolbox.Tool{
			Name:        "unload_preset",
			Description: "Disconnect every pair of a preset.",
			InputSchema: unloadPresetSchema,
			Handler:     toolbox.JSON(k.unloadPreset),
		},
		toolbox.Tool{
			Name:        "identify_device",
			Description: "Flash the lights of a transmitter or receiver so it can be found in the rack.",
			InputSchema: deviceSchema,
			Handler:     toolbox.JSON(k.identifyDevice),
		},
	)

	return tb
}

var (
	emptySchema = json.RawMessage(`{"type":"object","properties":{}}`)

	idsSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"ids": {"type": "array", "items": {"type": "string"}, "description": "Only return these ids"}
	}
}`)

	channelFilterSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"name": {"type": "string", "description": "Server-side name filter"},
		"ids": {"type": "array", "items": {"type": "string"}}
	}
}`)

	connectSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"channel_id": {"type": "string"},
		"receiver_id": {"type": "string"},
		"mode": {"type": "string", "enum": ["v", "s", "e", "p"]}
	},
	"required": ["channel_id", "receiver_id"]
}`)

	disconnectSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"receiver_ids": {"type": "array", "items": {"type": "string"}, "minItems": 1},
		"force": {"type": "boolean"}
	},
	"required": ["receiver_ids"]
}`)

	loadPresetSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"preset_id": {"type": "string"},
		"mode": {"type": "string", "enum": ["v", "s", "e", "p"]},
		"force": {"type": "boolean"}
	},
	"required": ["preset_id"]
}`)

	unloadPresetSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"preset_id": {"type": "string"},
		"force": {"type": "boolean"}
	},
	"required": ["preset_id"]
}`)

	deviceSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"device_id": {"type": "string"}
	},
	"required": ["device_id"]
}`)
)

type kvm struct {
	api *adder.API
}

type idsInput struct {
	IDs []string `json:"ids"`
}

func (k *kvm) listTransmitters(ctx context.Context, in idsInput) (any, error) {
	seq, err := k.api.GetTransmitters(ctx, in.IDs...)
	if err != nil {
		return nil, err
	}

	out := []DeviceView{}
	for tx := range seq {
		out = append(out, newDeviceView(tx.Base, device.TypeTransmitter))
	}

	return out, nil
}

func (k *kvm) listReceivers(ctx context.Context, in idsInput) (any, error) {
	seq, err := k.api.GetReceivers(ctx, in.IDs...)
	if err != nil {
		return nil, err
	}

	out := []DeviceView{}
	for rx := range seq {
		v := newDeviceView(rx.Base, device.TypeReceiver)
		if rx.Connected() {
			v.Channel = rx.ChannelName()
			v.User = rx.LastUsername()
			v.Control = rx.ControlMode().String()
		}
		out = append(out, v)
	}

	return out, nil
}

func (k *kvm) listServers(ctx context.Context, _ struct{}) (any, error) {
	seq, err := k.api.GetServers(ctx)
	if err != nil {
		return nil, err
	}

	out := []ServerView{}
	for s := range seq {
		out = append(out, ServerView{
			DeviceView:   newDeviceView(s.Base, device.TypeServer),
			Role:         s.Role().String(),
			ServerStatus: s.ServerStatus().String(),
			DualEthernet: s.DualEthernet(),
		})
	}

	return out, nil
}

type channelFilterInput struct {
	Name string   `json:"name"`
	IDs  []string `json:"ids"`
}

func (k *kvm) listChannels(ctx context.Context, in channelFilterInput) (any, error) {
	seq, err := k.api.GetChannels(ctx, adder.ChannelFilter{Name: in.Name, IDs: in.IDs})
	if err != nil {
		return nil, err
	}

	out := []ChannelView{}
	for ch := range seq {
		out = append(out, ChannelView{
			ID:          ch.ID(),
			Name:        ch.Name(),
			Description: ch.Description(),
			Location:    ch.Location(),
			Online:      ch.Online(),
			Modes:       allowedModes(ch.Gates),
		})
	}

	return out, nil
}

func (k *kvm) listPresets(ctx context.Context, in idsInput) (any, error) {
	seq, err := k.api.GetPresets(ctx, in.IDs...)
	if err != nil {
		return nil, err
	}

	out := []PresetView{}
	for p := range seq {
		out = append(out, PresetView{
			ID:                 p.ID(),
			Name:               p.Name(),
			Description:        p.Description(),
			Pairs:              p.PairCount(),
			ProblemPairs:       p.ProblemPairCount(),
			Active:             p.Active().String(),
			ConnectedReceivers: p.ConnectedReceiverCount(),
			Modes:              allowedModes(p.Gates),
		})
	}

	return out, nil
}

type connectInput struct {
	ChannelID  string `json:"channel_id"`
	ReceiverID string `json:"receiver_id"`
	Mode       string `json:"mode"`
}

func (k *kvm) connectChannel(ctx context.Context, in connectInput) (any, error) {
	mode, err := parseMode(in.Mode)
	if err != nil {
		return nil, err
	}

	ch, err := k.channel(ctx, in.ChannelID)
	if err != nil {
		return nil, err
	}

	rxs, err := k.receivers(ctx, []string{in.ReceiverID})
	if err != nil {
		return nil, err
	}

	if err := k.api.ConnectToChannel(ctx, ch, rxs[0], mode); err != nil {
		return nil, err
	}

	return done(fmt.Sprintf("connected %s to %s (%s)", rxs[0].Name(), ch.Name(), mode)), nil
}

type disconnectInput struct {
	ReceiverIDs []string `json:"receiver_ids"`
	Force       bool     `json:"force"`
}

func (k *kvm) disconnectChannel(ctx context.Context, in disconnectInput) (any, error) {
	rxs, err := k.receivers(ctx, in.ReceiverIDs)
	if err != nil {
		return nil, err
	}

	if err := k.api.DisconnectFromChannel(ctx, in.Force, rxs...); err != nil {
		return nil, err
	}

	return done(fmt.Sprintf("disconnected %d receiver(s)", len(rxs))), nil
}

type presetInput struct {
	PresetID string `json:"preset_id"`
	Mode     string `json:"mode"`
	Force    bool   `json:"force"`
}

func (k *kvm) loadPreset(ctx context.Context, in presetInput) (any, error) {
	mode, err := parseMode(in.Mode)
	if err != nil {
		return nil, err
	}

	p, err := k.preset(ctx, in.PresetID)
	if err != nil {
		return nil, err
	}

	if err := k.api.LoadPreset(ctx, p, mode, in.Force); err != nil {
		return nil, err
	}

	return done("loaded preset " + p.Name()), nil
}

func (k *kvm) unloadPreset(ctx context.Context, in presetInput) (any, error) {
	p, err := k.preset(ctx, in.PresetID)
	if err != nil {
		return nil, err
	}

	if err := k.api.UnloadPreset(ctx, p, in.Force); err != nil {
		return nil, err
	}

	return done("unloaded preset " + p.Name()), nil
}

type deviceInput struct {
	DeviceID string `json:"device_id"`
}

func (k *kvm) identifyDevice(ctx context.Context, in deviceInput) (any, error) {
	if in.DeviceID == "" {
		return nil, &apierr.ValidationError{Field: "device_id", Reason: "is required"}
	}

	var dev device.Device

	rxSeq, err := k.api.GetReceivers(ctx, in.DeviceID)
	if err != nil {
		return nil, err
	}
	if rx, ok := adder.First(rxSeq); ok {
		dev = rx
	} else {
		txSeq, err := k.api.GetTransmitters(ctx, in.DeviceID)
		if err != nil {
			return nil, err
		}
		if tx, ok := adder.First(txSeq); ok {
			dev = tx
		}
	}

	if dev == nil {
		return nil, notFound("device", in.DeviceID)
	}

	if err := k.api.IdentifyDevice(ctx, dev); err != nil {
		return nil, err
	}

	return done("identifying " + dev.Name()), nil
}

func (k *kvm) channel(ctx context.Context, id string) (*channel.Channel, error) {
	if id == "" {
		return nil, &apierr.ValidationError{Field: "channel_id", Reason: "is required"}
	}

	seq, err := k.api.GetChannels(ctx, adder.ChannelFilter{IDs: []string{id}})
	if err != nil {
		return nil, err
	}

	ch, ok := adder.First(seq)
	if !ok {
		return nil, notFound("channel", id)
	}

	return ch, nil
}

// receivers looks up every id, keeping the order of ids.
func (k *kvm) receivers(ctx context.Context, ids []string) ([]*device.Receiver, error) {
	if len(ids) == 0 {
		return nil, &apierr.ValidationError{Field: "receiver_ids", Reason: "at least one is required"}
	}

	seq, err := k.api.GetReceivers(ctx, ids...)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*device.Receiver, len(ids))
	for rx := range seq {
		byID[rx.ID()] = rx
	}

	out := make([]*device.Receiver, len(ids))
	for i, id := range ids {
		rx, ok := byID[id]
		if !ok {
			return nil, notFound("receiver", id)
		}
		out[i] = rx
	}

	return out, nil
}

func (k *kvm) preset(ctx context.Context, id string) (*preset.Preset, error) {
	if id == "" {
		return nil, &apierr.ValidationError{Field: "preset_id", Reason: "is required"}
	}

	seq, err := k.api.GetPresets(ctx, id)
	if err != nil {
		return nil, err
	}

	p, ok := adder.First(seq)
	if !ok {
		return nil, notFound("preset", id)
	}

	return p, nil
}

func parseMode(s string) (channel.ConnectionMode, error) {
	if s == "" {
		return channel.ModeShared, nil
	}

	mode, ok := channel.ParseConnectionMode(s)
	if !ok {
		return 0, &apierr.ValidationError{Field: "mode", Reason: fmt.Sprintf("unknown mode %q", s)}
	}

	return mode, nil
}

func notFound(kind, id string) error {
	return &apierr.ValidationError{Field: kind, Reason: fmt.Sprintf("no %s with id %q", kind, id)}
}

// Package preset provides a read-only view over AdderLink connection presets.
package preset

import (
	"slices"
	"strings"

	"github.com/mjiggidy/adderlib/pkg/attrs"
	"github.com/mjiggidy/adderlib/pkg/channel"
	"github.com/mjiggidy/adderlib/pkg/device"
)

// ActiveState says how much of a preset is currently connected.
type ActiveState int

const (
	ActiveUnknown ActiveState = iota
	ActiveFull
	ActivePartial
	ActiveNone
)

// String returns the name of the state.
func (s ActiveState) String() string {
	switch s {
	case ActiveFull:
		return "Full"
	case ActivePartial:
		return "Partial"
	case ActiveNone:
		return "None"
	default:
		return "Unknown"
	}
}

// Pair routes one channel to one receiver.
type Pair struct {
	Channel  *channel.Channel
	Receiver *device.Receiver
}

// String returns the pair in create_preset wire form, "<c_id>-<rx_id>".
func (p Pair) String() string {
	var cid, rid string
	if p.Channel != nil {
		cid = p.Channel.ID()
	}
	if p.Receiver != nil {
		rid = p.Receiver.ID()
	}

	return cid + "-" + rid
}

// Preset is a saved set of channel to receiver pairings.
type Preset struct {
	channel.Gates
	a     attrs.Attributes
	pairs []Pair
}

// New builds a preset from a connection_preset record. Pairs are only known
// for presets this process created; presets read back from a listing carry
// none and report their server-side totals through PairCount.
func New(m map[string]string, pairs ...Pair) *Preset {
	a := attrs.New(m)
	return &Preset{Gates: channel.NewGates(a), a: a, pairs: slices.Clone(pairs)}
}

// Attributes returns the raw record.
func (p *Preset) Attributes() attrs.Attributes { return p.a }

func (p *Preset) ID() string          { return p.a.String("cp_id") }
func (p *Preset) Name() string        { return p.a.String("cp_name") }
func (p *Preset) Description() string { return p.a.String("cp_description") }

// PairCount returns the number of pairs stored on the server.
func (p *Preset) PairCount() int { return p.a.Int("cp_pairs", 0) }

// ProblemPairCount returns the number of pairs that cannot currently connect.
func (p *Preset) ProblemPairCount() int { return p.a.Int("problem_cp_pairs", 0) }

// ConnectedReceiverCount returns how many receivers are currently attached.
func (p *Preset) ConnectedReceiverCount() int { return p.a.Int("connected_rx_count", 0) }

// Active returns how much of the preset is connected.
func (p *Preset) Active() ActiveState {
	switch strings.ToLower(strings.TrimSpace(p.a.String("cp_active"))) {
	case "full":
		return ActiveFull
	case "partial":
		return ActivePartial
	case "none":
		return ActiveNone
	default:
		return ActiveUnknown
	}
}

// Pairs returns the pairs supplied when the preset was created.
func (p *Preset) Pairs() []Pair { return slices.Clone(p.pairs) }

package adder

import (
	"context"
	"iter"
	"strings"

	"github.com/mjiggidy/adderlib/pkg/apierr"
	"github.com/mjiggidy/adderlib/pkg/channel"
	"github.com/mjiggidy/adderlib/pkg/preset"
)

// GetPresets lists connection presets, optionally only those with the given
// ids.
func (a *API) GetPresets(ctx context.Context, ids ...string) (iter.Seq[*preset.Preset], error) {
	env, err := a.do(ctx, a.authParams("get_presets"))
	if err != nil {
		return nil, err
	}

	wrap := func(m map[string]string) *preset.Preset { return preset.New(m) }

	return records(env, []string{"connection_presets", "connection_preset"}, wrap,
		matchAny(ids, (*preset.Preset).ID)), nil
}

// CreatePreset saves pairs under name. modes lists the connection modes the
// preset may later be loaded with; none means all of them. The returned
// preset is read back from the server and carries pairs.
func (a *API) CreatePreset(ctx context.Context, name string, pairs []preset.Pair, modes ...channel.ConnectionMode) (*preset.Preset, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &apierr.ValidationError{Field: "preset name", Reason: "must not be empty"}
	}
	if len(pairs) == 0 {
		return nil, &apierr.ValidationError{Field: "pairs", Reason: "at least one pair is required"}
	}

	wire := make([]string, len(pairs))
	for i, pair := range pairs {
		if pair.Channel == nil || pair.Receiver == nil {
			return nil, &apierr.ValidationError{Field: "pairs", Reason: "pair needs a channel and a receiver"}
		}
		if err := requireID("pair channel", pair.Channel.ID()); err != nil {
			return nil, err
		}
		if err := requireID("pair receiver", pair.Receiver.ID()); err != nil {
			return nil, err
		}
		wire[i] = pair.String()
	}

	if len(modes) == 0 {
		modes = []channel.ConnectionMode{channel.ModeVideoOnly, channel.ModeShared, channel.ModeExclusive, channel.ModePrivate}
	}

	var allowed strings.Builder
	for _, m := range modes {
		if !m.Valid() {
			return nil, &apierr.ValidationError{Field: "preset modes", Reason: "unknown mode " + m.String()}
		}
		if !strings.ContainsRune(allowed.String(), rune(m)) {
			allowed.WriteByte(byte(m))
		}
	}

	p := a.authParams("create_preset")
	p.Set("name", name)
	p.Set("pairs", strings.Join(wire, ","))
	p.Set("allowed", allowed.String())

	env, err := a.do(ctx, p)
	if err != nil {
		return nil, err
	}

	id := strings.TrimSpace(env.Value("id"))
	if id == "" {
		return nil, &apierr.UnknownResponseError{Method: "create_preset", Detail: "success without an id"}
	}

	seq, err := a.GetPresets(ctx, id)
	if err != nil {
		return nil, err
	}

	created, ok := First(seq)
	if !ok {
		return nil, &apierr.UnknownResponseError{Method: "get_presets", Detail: "preset " + id + " not listed after create"}
	}

	return preset.New(created.Attributes().Raw(), pairs...), nil
}

// LoadPreset connects every pair of p in mode. With force set, receivers in
// use by other users are taken over.
func (a *API) LoadPreset(ctx context.Context, p *preset.Preset, mode channel.ConnectionMode, force bool) error {
	if mode == 0 {
		mode = channel.ModeShared
	}
	if !mode.Valid() {
		return &apierr.ValidationError{Field: "connection mode", Reason: "unknown mode " + mode.String()}
	}
	if err := requirePreset(p); err != nil {
		return err
	}

	params := a.authParams("connect_preset")
	params.Set("id", p.ID())
	params.Set("mode", mode.String())
	if force {
		params.Set("force", "1")
	}

	return a.exec(ctx, params)
}

// UnloadPreset disconnects every pair of p.
func (a *API) UnloadPreset(ctx context.Context, p *preset.Preset, force bool) error {
	if err := requirePreset(p); err != nil {
		return err
	}

	params := a.authParams("disconnect_preset")
	params.Set("id", p.ID())
	if force {
		params.Set("force", "1")
	}

	return a.exec(ctx, params)
}

// DeletePreset removes p from the server.
func (a *API) DeletePreset(ctx context.Context, p *preset.Preset) error {
	if err := requirePreset(p); err != nil {
		return err
	}

	params := a.authParams("delete_preset")
	params.Set("id", p.ID())

	return a.exec(ctx, params)
}

func requirePreset(p *preset.Preset) error {
	if p == nil {
		return &apierr.ValidationError{Field: "preset", Reason: "must not be nil"}
	}

	return requireID("preset", p.ID())
}

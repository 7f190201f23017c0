package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mjiggidy/adderlib/pkg/tools/kvm"
	"github.com/mjiggidy/adderlib/pkg/tools/toolbox"
)

// callTool runs a kvm tool and prints its status message. The tools do the
// id lookups the commands need, so the CLI and MCP paths behave the same.
func callTool(ctx context.Context, w io.Writer, tb *toolbox.ToolBox, name string, input any) error {
	raw, err := json.Marshal(input)
	if err != nil {
		return err
	}

	res := tb.Call(ctx, name, raw)
	if res.IsError {
		return errors.New(res.Content)
	}

	var status kvm.Status
	if err := json.Unmarshal([]byte(res.Content), &status); err != nil {
		return fmt.Errorf("%s: unexpected result: %w", name, err)
	}

	_, err = fmt.Fprintln(w, successStyle.Render("✓")+" "+status.Message)
	return err
}

func runConnect(ctx context.Context, args []string) error {
	fs, g := newFlagSet("connect", "connect [flags] <channel-id> <receiver-id>")
	mode := fs.String("mode", "s", "connection mode: v (view only), s (shared), e (exclusive) or p (private)")

	rest, err := parseArgs(fs, args, 2, 2)
	if err != nil {
		return err
	}

	s, err := open(ctx, g)
	if err != nil {
		return err
	}
	defer s.close(ctx)

	return callTool(ctx, os.Stdout, kvm.Tools(s.api), "connect_channel", map[string]string{
		"channel_id":  rest[0],
		"receiver_id": rest[1],
		"mode":        *mode,
	})
}

func runDisconnect(ctx context.Context, args []string) error {
	fs, g := newFlagSet("disconnect", "disconnect [flags] <receiver-id>...")
	force := fs.Bool("force", false, "disconnect even if other users are connected")

	ids, err := parseArgs(fs, args, 1, -1)
	if err != nil {
		return err
	}

	s, err := open(ctx, g)
	if err != nil {
		return err
	}
	defer s.close(ctx)

	return callTool(ctx, os.Stdout, kvm.Tools(s.api), "disconnect_channel", map[string]any{
		"receiver_ids": ids,
		"force":        *force,
	})
}

func runIdentify(ctx context.Context, args []string) error {
	fs, g := newFlagSet("identify", "identify [flags] <device-id>")

	rest, err := parseArgs(fs, args, 1, 1)
	if err != nil {
		return err
	}

	s, err := open(ctx, g)
	if err != nil {
		return err
	}
	defer s.close(ctx)

	return callTool(ctx, os.Stdout, kvm.Tools(s.api), "identify_device", map[string]string{
		"device_id": rest[0],
	})
}

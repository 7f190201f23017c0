package main

import (
	"context"
	"errors"
	"os"

	"github.com/mjiggidy/adderlib/pkg/tools/kvm"
	"github.com/mjiggidy/adderlib/pkg/tools/mcpserver"
)

// version is reported to MCP clients.
var version = "dev"

func runMCP(ctx context.Context, args []string) error {
	fs, g := newFlagSet("mcp", "mcp [flags]")
	readOnly := fs.Bool("read-only", false, "only expose tools that do not change anything")

	if _, err := parseArgs(fs, args, 0, 0); err != nil {
		return err
	}

	cfg, err := loadConfig(g)
	if err != nil {
		return err
	}

	// stdin and stdout carry the protocol, so there is no terminal to prompt on.
	if !cfg.Fixtures.Enabled && (cfg.Username == "" || cfg.Password == "") {
		return errors.New("mcp: username and password must be configured")
	}

	s, err := openWith(ctx, cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer s.close(ctx)

	tb := kvm.Tools(s.api)
	if *readOnly {
		tb = tb.Filter(kvm.ReadOnly)
	}

	srv := mcpserver.New("adder", version, s.log)
	srv.RegisterToolBox(tb)

	s.log.Info("serving MCP", "server", s.api.Server().Host, "tools", len(tb.Tools()))

	return srv.Serve(ctx, os.Stdin, os.Stdout)
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

const usage = `Usage: adder <command> [flags] [args]

Commands:
  devices      List transmitters and receivers
  servers      List AIM servers
  channels     List channels
  presets      List connection presets
  usb          List C-USB LAN extenders
  show         Show one device, channel or preset: show <device|channel|preset> <id>
  connect      Connect a receiver to a channel: connect <channel-id> <receiver-id>
  disconnect   Disconnect receivers: disconnect <receiver-id>...
  identify     Flash a device's lights: identify <device-id>
  preset       Manage presets: preset <create|load|unload|delete> ...
  switch       Pick a receiver and a channel interactively and connect them
  watch        Live view of receivers and their connections
  mcp          Serve the KVM tools over MCP on stdin/stdout
  fixtures     List, record or compare canned replies: fixtures <list|record|diff>

Run "adder <command> -h" for the flags of a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	name, args := os.Args[1], os.Args[2:]
	if name == "-h" || name == "--help" || name == "help" {
		fmt.Fprint(os.Stdout, usage)
		return
	}

	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n\n%s", name, usage)
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cmd(ctx, args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type command func(ctx context.Context, args []string) error

var commands = map[string]command{
	"devices":    runDevices,
	"servers":    runServers,
	"channels":   runChannels,
	"presets":    runPresets,
	"usb":        runUSB,
	"show":       runShow,
	"connect":    runConnect,
	"disconnect": runDisconnect,
	"identify":   runIdentify,
	"preset":     runPreset,
	"switch":     runSwitch,
	"watch":      runWatch,
	"mcp":        runMCP,
	"fixtures":   runFixtures,
}

// newFlagSet creates a subcommand flag set with the connection flags every
// command shares.
func newFlagSet(name, synopsis string) (*flag.FlagSet, *globalFlags) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	g := &globalFlags{}

	fs.StringVar(&g.config, "config", "", "path to configuration file (default: adder.yaml if present)")
	fs.StringVar(&g.env, "env", ".env", "path to .env file (ignored if missing)")
	fs.StringVar(&g.server, "server", "", "AIM server address (overrides config)")
	fs.BoolVar(&g.fixtures, "fixtures", false, "use canned replies instead of a live server")
	fs.BoolVar(&g.verbose, "verbose", false, "log every API call")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: adder %s\n\nFlags:\n", synopsis)
		fs.PrintDefaults()
	}

	return fs, g
}

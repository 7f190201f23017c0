package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"os"
	"regexp"
	"slices"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/mjiggidy/adderlib/pkg/adder"
	"github.com/mjiggidy/adderlib/pkg/config"
	"github.com/mjiggidy/adderlib/pkg/fixtures"
	"github.com/mjiggidy/adderlib/pkg/transport"
)

const fixturesUsage = `Usage: adder fixtures <command> [flags]

Commands:
  list     Show the embedded fixture files
  record   Save the replies of a live server as a fixture directory
  diff     Compare live replies with the fixture set
`

func runFixtures(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, fixturesUsage)
		return errors.New("fixtures: missing command")
	}

	switch args[0] {
	case "list":
		return runFixturesList(args[1:])
	case "record":
		return runFixturesRecord(ctx, args[1:])
	case "diff":
		return runFixturesDiff(ctx, args[1:])
	default:
		fmt.Fprint(os.Stderr, fixturesUsage)
		return fmt.Errorf("fixtures: unknown command %q", args[0])
	}
}

func runFixturesList(args []string) error {
	flags, _ := newFlagSet("fixtures list", "fixtures list")
	if _, err := parseArgs(flags, args, 0, 0); err != nil {
		return err
	}

	return writeFixtureList(os.Stdout, fixtures.FS(), fixtures.Names())
}

// writeFixtureList prints each embedded reply with the method it answers and
// its size.
func writeFixtureList(w io.Writer, fsys fs.FS, names []string) error {
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		info, err := fs.Stat(fsys, name)
		if err != nil {
			return err
		}

		rows = append(rows, []string{name, fixtureMethod(name), fmt.Sprintf("%d B", info.Size())})
	}

	_, err := fmt.Fprintln(w, renderTable([]string{"FILE", "METHOD", "SIZE"}, rows))
	return err
}

// fixtureMethod strips the extension and any device type suffix.
func fixtureMethod(name string) string {
	base := strings.TrimSuffix(name, ".xml")
	for _, suffix := range []string{"_rx", "_tx"} {
		if m, ok := strings.CutSuffix(base, suffix); ok {
			return m
		}
	}

	return base
}

func runFixturesRecord(ctx context.Context, args []string) error {
	flags, g := newFlagSet("fixtures record", "fixtures record [flags] <dir>")

	rest, err := parseArgs(flags, args, 1, 1)
	if err != nil {
		return err
	}

	cfg, err := liveConfig(g)
	if err != nil {
		return err
	}

	if err := record(ctx, cfg, rest[0]); err != nil {
		return err
	}

	fmt.Printf("%s Recorded replies to %s\n", successStyle.Render("✓"), rest[0])
	return nil
}

func runFixturesDiff(ctx context.Context, args []string) error {
	flags, g := newFlagSet("fixtures diff", "fixtures diff [flags]")
	against := flags.String("against", "", "fixture directory to compare with (default: the embedded set)")
	strict := flags.Bool("strict", false, "also compare timestamps and tokens")

	if _, err := parseArgs(flags, args, 0, 0); err != nil {
		return err
	}

	cfg, err := liveConfig(g)
	if err != nil {
		return err
	}

	dir, err := os.MkdirTemp("", "adder-fixtures-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	if err := record(ctx, cfg, dir); err != nil {
		return err
	}

	want := fixtures.FS()
	if *against != "" {
		want = os.DirFS(*against)
	}

	n, err := diffFixtures(os.Stdout, want, os.DirFS(dir), !*strict)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("fixtures: %d file(s) differ", n)
	}

	fmt.Printf("%s Fixtures match the live server\n", successStyle.Render("✓"))
	return nil
}

// liveConfig loads the config and refuses fixture mode, since recording
// needs a real server.
func liveConfig(g *globalFlags) (config.Config, error) {
	if g.fixtures {
		return config.Config{}, errors.New("fixtures: -fixtures cannot be used when recording")
	}

	cfg, err := loadConfig(g)
	if err != nil {
		return config.Config{}, err
	}
	cfg.Fixtures.Enabled = false

	if cfg.Server == "" {
		return config.Config{}, errors.New("fixtures: a live server is required")
	}

	return cfg, nil
}

// record logs in through a Recorder, reads every listing, and logs out, so
// dir ends up with one reply file per call.
func record(ctx context.Context, cfg config.Config, dir string) error {
	log, err := cfg.NewLogger(os.Stderr)
	if err != nil {
		return err
	}

	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return err
	}

	rec := &transport.Recorder{Next: &transport.HTTP{Timeout: timeout}, Dir: dir}

	s, err := start(ctx, cfg, transport.Logged(log, rec), log)
	if err != nil {
		return err
	}

	if err := readListings(ctx, s.api); err != nil {
		s.close(ctx)
		return err
	}

	return s.api.Logout(ctx)
}

// readListings calls every listing operation once and drains the results.
func readListings(ctx context.Context, api *adder.API) error {
	return errors.Join(
		drain(api.GetTransmitters(ctx)),
		drain(api.GetReceivers(ctx)),
		drain(api.GetServers(ctx)),
		drain(api.GetChannels(ctx, adder.ChannelFilter{})),
		drain(api.GetPresets(ctx)),
		drain(api.GetUSBReceivers(ctx)),
		drain(api.GetUSBTransmitters(ctx)),
	)
}

func drain[T any](seq iter.Seq[T], err error) error {
	if err != nil {
		return err
	}
	for range seq {
	}
	return nil
}

var volatile = regexp.MustCompile(`<(timestamp|token)>[^<]*</(timestamp|token)>`)

// normalize blanks the elements that change on every call.
func normalize(body string) string {
	return volatile.ReplaceAllString(body, "<$1/>")
}

// diffFixtures writes a unified diff for every reply in got that differs from
// the same file in want and returns how many differ. Files only in want are
// ignored: a server need not exercise every fixture.
func diffFixtures(w io.Writer, want, got fs.FS, loose bool) (int, error) {
	names, err := fs.Glob(got, "*.xml")
	if err != nil {
		return 0, err
	}
	slices.Sort(names)

	differ := 0
	for _, name := range names {
		live, err := fs.ReadFile(got, name)
		if err != nil {
			return differ, err
		}

		canned, err := fs.ReadFile(want, name)
		if errors.Is(err, fs.ErrNotExist) {
			differ++
			fmt.Fprintf(w, "only in live: %s\n", name)
			continue
		}
		if err != nil {
			return differ, err
		}

		a, b := string(canned), string(live)
		if loose {
			a, b = normalize(a), normalize(b)
		}
		if a == b {
			continue
		}

		differ++
		text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(a),
			B:        difflib.SplitLines(b),
			FromFile: "fixture/" + name,
			ToFile:   "live/" + name,
			Context:  3,
		})
		if err != nil {
			return differ, err
		}
		fmt.Fprint(w, text)
	}

	return differ, nil
}

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/mjiggidy/adderlib/pkg/adder"
	"github.com/mjiggidy/adderlib/pkg/config"
	"github.com/mjiggidy/adderlib/pkg/fixtures"
	"github.com/mjiggidy/adderlib/pkg/transport"
)

// fixtureServer is the address used when fixtures are on and no server is set.
const fixtureServer = "fixtures.invalid"

// fixtureUser logs in against canned replies when no username is configured.
const fixtureUser = "admin"

type globalFlags struct {
	config   string
	env      string
	server   string
	fixtures bool
	verbose  bool
}

// loadConfig resolves the configuration for a command: file, then
// environment, then flags.
func loadConfig(g *globalFlags) (config.Config, error) {
	if err := loadDotEnv(g.env); err != nil {
		return config.Config{}, err
	}

	cfg := config.Default()
	if path := resolveConfigPath(g.config); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return config.Config{}, err
		}
	}

	applyEnv(&cfg)

	if g.server != "" {
		cfg.Server = g.server
	}
	if g.fixtures {
		cfg.Fixtures.Enabled = true
	}
	if g.verbose {
		cfg.Log.Level = "debug"
		cfg.Fixtures.Verbose = true
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}

	return cfg, nil
}

// applyEnv fills fields the config file left empty from ADDER_* variables.
func applyEnv(cfg *config.Config) {
	for _, f := range []struct {
		field *string
		env   string
	}{
		{&cfg.Server, "ADDER_SERVER"},
		{&cfg.Username, "ADDER_USERNAME"},
		{&cfg.Password, "ADDER_PASSWORD"},
	} {
		if *f.field == "" {
			*f.field = os.Getenv(f.env)
		}
	}
}

// newTransport builds the transport the config asks for, wrapped with call
// logging.
func newTransport(cfg config.Config, log *slog.Logger) (transport.Transport, error) {
	if cfg.Fixtures.Enabled {
		fc := transport.FixtureConfig{
			Dir:     cfg.Fixtures.Dir,
			Verbose: cfg.Fixtures.Verbose,
			Logger:  log,
		}
		if fc.Dir == "" {
			fc.FS = fixtures.FS()
		}

		fx, err := transport.NewFixture(fc)
		if err != nil {
			return nil, err
		}

		return transport.Logged(log, fx), nil
	}

	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, err
	}

	return transport.Logged(log, &transport.HTTP{Timeout: timeout}), nil
}

func newAPI(cfg config.Config, t transport.Transport, log *slog.Logger) (*adder.API, error) {
	server := cfg.Server
	if server == "" && cfg.Fixtures.Enabled {
		server = fixtureServer
	}

	return adder.New(server,
		adder.WithTransport(t),
		adder.WithAPIVersion(cfg.APIVersion),
		adder.WithLogger(log),
	)
}

// session is a logged-in API plus what the command needs around it.
type session struct {
	cfg config.Config
	api *adder.API
	log *slog.Logger
}

// open loads the config, builds the API and logs in. Callers must close the
// session to log out.
func open(ctx context.Context, g *globalFlags) (*session, error) {
	cfg, err := loadConfig(g)
	if err != nil {
		return nil, err
	}

	return openWith(ctx, cfg, os.Stderr)
}

func openWith(ctx context.Context, cfg config.Config, logOut io.Writer) (*session, error) {
	log, err := cfg.NewLogger(logOut)
	if err != nil {
		return nil, err
	}

	t, err := newTransport(cfg, log)
	if err != nil {
		return nil, err
	}

	return start(ctx, cfg, t, log)
}

// start builds the API over t and logs in.
func start(ctx context.Context, cfg config.Config, t transport.Transport, log *slog.Logger) (*session, error) {
	api, err := newAPI(cfg, t, log)
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg, api: api, log: log}
	if err := s.login(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *session) login(ctx context.Context) error {
	username, password := s.cfg.Username, s.cfg.Password

	if s.cfg.Fixtures.Enabled && username == "" {
		username = fixtureUser
	}

	if username == "" || (password == "" && !s.cfg.Fixtures.Enabled) {
		var err error
		if username, password, err = promptCredentials(s.api.Server().Host, username); err != nil {
			return err
		}
	}

	if err := s.api.Login(ctx, username, password); err != nil {
		return fmt.Errorf("log in to %s as %s: %w", s.api.Server().Host, username, err)
	}

	return nil
}

// close logs out, reporting but not returning a failure.
func (s *session) close(ctx context.Context) {
	if !s.api.User().LoggedIn() {
		return
	}

	if err := s.api.Logout(context.WithoutCancel(ctx)); err != nil {
		s.log.Warn("logout failed", "error", err)
	}
}

// promptCredentials asks for whatever is missing. The password is never
// echoed.
func promptCredentials(server, username string) (string, string, error) {
	var password string

	fields := []huh.Field{}
	if username == "" {
		fields = append(fields, huh.NewInput().
			Title("Username").
			Value(&username).
			Validate(required("username")))
	}
	fields = append(fields, huh.NewInput().
		Title("Password").
		EchoMode(huh.EchoModePassword).
		Value(&password))

	form := huh.NewForm(huh.NewGroup(fields...).Title("Log in to " + server))
	if err := runForm(form); err != nil {
		return "", "", fmt.Errorf("credentials: %w", err)
	}

	return username, password, nil
}

func required(what string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", what)
		}
		return nil
	}
}

package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mjiggidy/adderlib/pkg/adder"
	"github.com/mjiggidy/adderlib/pkg/device"
)

func runWatch(ctx context.Context, args []string) error {
	fs, g := newFlagSet("watch", "watch [flags]")
	interval := fs.Duration("interval", 5*time.Second, "refresh interval")

	if _, err := parseArgs(fs, args, 0, 0); err != nil {
		return err
	}
	if *interval <= 0 {
		return fmt.Errorf("watch: interval must be positive, got %s", *interval)
	}

	s, err := open(ctx, g)
	if err != nil {
		return err
	}
	defer s.close(ctx)

	p := tea.NewProgram(newWatchModel(ctx, s.api, *interval), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}

type watchKeys struct {
	Up      key.Binding
	Down    key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

func (k watchKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Refresh, k.Quit}
}

func (k watchKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var defaultWatchKeys = watchKeys{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

type receiversMsg struct {
	rows []table.Row
	at   time.Time
}

type watchErrMsg struct{ err error }

// tickMsg carries the generation it was scheduled for; ticks from an older
// generation are dropped so manual refreshes do not stack timers.
type tickMsg struct{ gen int }

// watchModel polls the receiver listing. The API is not safe for concurrent
// use, so at most one fetch is in flight.
type watchModel struct {
	ctx      context.Context
	api      *adder.API
	interval time.Duration

	table   table.Model
	help    help.Model
	keys    watchKeys
	loading bool
	gen     int
	updated time.Time
	err     error
}

func newWatchModel(ctx context.Context, api *adder.API, interval time.Duration) watchModel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 6},
			{Title: "RECEIVER", Width: 24},
			{Title: "STATUS", Width: 10},
			{Title: "CHANNEL", Width: 24},
			{Title: "MODE", Width: 10},
			{Title: "USER", Width: 16},
			{Title: "SINCE", Width: 16},
		}),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	return watchModel{
		ctx:      ctx,
		api:      api,
		interval: interval,
		table:    t,
		help:     help.New(),
		keys:     defaultWatchKeys,
		loading:  true,
	}
}

func (m watchModel) Init() tea.Cmd {
	return m.fetch()
}

func (m watchModel) fetch() tea.Cmd {
	ctx, api := m.ctx, m.api

	return func() tea.Msg {
		seq, err := api.GetReceivers(ctx)
		if err != nil {
			return watchErrMsg{err: err}
		}

		var rows []table.Row
		for rx := range seq {
			rows = append(rows, receiverRow(rx))
		}

		return receiversMsg{rows: rows, at: time.Now()}
	}
}

func (m watchModel) schedule() tea.Cmd {
	gen := m.gen
	return tea.Tick(m.interval, func(time.Time) tea.Msg { return tickMsg{gen: gen} })
}

func receiverRow(rx *device.Receiver) table.Row {
	row := table.Row{rx.ID(), rx.Name(), rx.Status().String(), "", "", "", ""}
	if rx.Connected() {
		row[3] = rx.ChannelName()
		row[4] = rx.ControlMode().String()
		row[5] = rx.LastUsername()
		if start, ok := rx.ConnectionStart(); ok {
			row[6] = start.Format("2006-01-02 15:04")
		}
	}
	return row
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
			if m.loading {
				return m, nil
			}
			m.loading = true
			m.gen++
			return m, m.fetch()
		}

	case tea.WindowSizeMsg:
		m.table.SetHeight(max(msg.Height-6, 3))
		m.help.Width = msg.Width
		return m, nil

	case receiversMsg:
		m.table.SetRows(msg.rows)
		m.updated = msg.at
		m.err = nil
		m.loading = false
		m.gen++
		return m, m.schedule()

	case watchErrMsg:
		m.err = msg.err
		m.loading = false
		m.gen++
		return m, m.schedule()

	case tickMsg:
		if msg.gen != m.gen || m.loading {
			return m, nil
		}
		m.loading = true
		return m, m.fetch()
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m watchModel) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("Receivers on %s", m.api.Server().Host)))
	b.WriteString("\n\n")
	b.WriteString(m.table.View())
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(offlineStyle.Render("error: " + m.err.Error()))
	case m.loading:
		b.WriteString(dimStyle.Render("refreshing…"))
	default:
		b.WriteString(dimStyle.Render("updated " + m.updated.Format("15:04:05")))
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

package app

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	dispatchdto "shakker/internal/modules/dispatch/dto"
	"shakker/internal/ui/theme"
	alarmsview "shakker/internal/ui/views/alarms"
	dismissview "shakker/internal/ui/views/dismiss"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type dispatchPort interface {
	TimerFired(ctx context.Context, alarmID int64, challenge string) (dispatchdto.FiredOutput, error)
	Silence(ctx context.Context) error
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabAlarms tabID = iota
	tabDismiss
	tabCount
)

var tabLabels = [tabCount]string{"Alarms", "Dismiss"}

// ─── async messages ──────────────────────────────────────────────────────────

type firedMsg struct {
	out dispatchdto.FiredOutput
	err error
}

// ─── key bindings ────────────────────────────────────────────────────────────

type keyMap struct {
	Tab  key.Binding
	Help key.Binding
	Quit key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit: key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Tab, k.Help, k.Quit}}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model: tab routing between the alarm list and
// the dismissal view, plus the global help bar. Business logic stays behind
// the port interfaces.
type Model struct {
	dispatch dispatchPort

	alarmsView  alarmsview.Model
	dismissView dismissview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	status    string
	width     int
	height    int
}

func NewModel(alarms alarmsview.AlarmPort, dispatch dispatchPort, challenge dismissview.ChallengePort, feed dismissview.FeedPort) Model {
	return Model{
		dispatch:    dispatch,
		alarmsView:  alarmsview.New(alarms),
		dismissView: dismissview.New(challenge, feed),
		keys:        defaultKeys(),
		help:        help.New(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.alarmsView.Init(), m.dismissView.Init())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		inner := tea.WindowSizeMsg{Width: msg.Width - 4, Height: msg.Height - 6}
		var aCmd, dCmd tea.Cmd
		m.alarmsView, aCmd = m.alarmsView.Update(inner)
		m.dismissView, dCmd = m.dismissView.Update(inner)
		return m, tea.Batch(aCmd, dCmd)

	case alarmsview.FireRequestedMsg:
		m.activeTab = tabDismiss
		return m, m.fireCmd(msg.AlarmID, msg.Challenge)

	case firedMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
		} else {
			m.status = msg.out.Message
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			// Leave the alarm ringing; quitting the TUI is not a dismissal.
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil
		}
	}

	switch m.activeTab {
	case tabAlarms:
		var cmd tea.Cmd
		m.alarmsView, cmd = m.alarmsView.Update(msg)
		cmds = append(cmds, cmd)
		// The dismissal poller keeps running so a firing alarm is noticed
		// from any tab.
		if _, ok := msg.(tea.KeyMsg); !ok {
			var dCmd tea.Cmd
			m.dismissView, dCmd = m.dismissView.Update(msg)
			cmds = append(cmds, dCmd)
		}
	case tabDismiss:
		var cmd tea.Cmd
		m.dismissView, cmd = m.dismissView.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	tabs := make([]string, 0, int(tabCount))
	for i, label := range tabLabels {
		if tabID(i) == m.activeTab {
			tabs = append(tabs, theme.Hot.Render("["+label+"]"))
		} else {
			tabs = append(tabs, theme.Muted.Render(" "+label+" "))
		}
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	var body string
	switch m.activeTab {
	case tabAlarms:
		body = m.alarmsView.View()
	case tabDismiss:
		body = m.dismissView.View()
	}

	footer := m.help.ShortHelpView(m.keys.ShortHelp())
	if m.showHelp {
		bindings := append(m.keys.ShortHelp(), m.currentBindings()...)
		footer = m.help.ShortHelpView(bindings)
	}
	if m.status != "" {
		footer = theme.Muted.Render(m.status) + "  " + footer
	}

	return theme.App.Width(m.width).Height(m.height).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, "", body, "", footer))
}

func (m Model) currentBindings() []key.Binding {
	switch m.activeTab {
	case tabAlarms:
		return m.alarmsView.Bindings()
	case tabDismiss:
		return m.dismissView.Bindings()
	}
	return nil
}

func (m Model) fireCmd(alarmID int64, challenge string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.dispatch.TimerFired(context.Background(), alarmID, challenge)
		if err != nil {
			return firedMsg{err: fmt.Errorf("fire alarm %d: %w", alarmID, err)}
		}
		return firedMsg{out: out}
	}
}

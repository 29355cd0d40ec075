package alarms

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	alarmdto "shakker/internal/modules/alarm/dto"
	"shakker/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type AlarmPort interface {
	List(ctx context.Context) ([]alarmdto.AlarmOutput, error)
	SetEnabled(ctx context.Context, id int64, enabled bool) (alarmdto.AlarmOutput, error)
	Delete(ctx context.Context, id int64) error
}

// ─── messages ────────────────────────────────────────────────────────────────

type AlarmsLoadedMsg struct {
	Alarms []alarmdto.AlarmOutput
	Err    error
}

type AlarmChangedMsg struct {
	Err error
}

// FireRequestedMsg asks the app layer to ring the selected alarm now.
type FireRequestedMsg struct {
	AlarmID   int64
	Challenge string
}

// ─── list item ───────────────────────────────────────────────────────────────

type alarmItem struct {
	alarm alarmdto.AlarmOutput
}

func (i alarmItem) Title() string {
	state := "off"
	if i.alarm.Enabled {
		state = "on"
	}
	return fmt.Sprintf("%s  %s  [%s]", i.alarm.TimeLabel, i.alarm.Message, state)
}

func (i alarmItem) Description() string {
	parts := []string{i.alarm.Repeat, i.alarm.Challenge}
	if i.alarm.Armed {
		parts = append(parts, "armed")
	}
	if i.alarm.Denied {
		parts = append(parts, "timer denied")
	}
	return strings.Join(parts, "  ")
}

func (i alarmItem) FilterValue() string { return i.alarm.Message }

// ─── keys ────────────────────────────────────────────────────────────────────

type keyMap struct {
	Toggle  key.Binding
	Delete  key.Binding
	Fire    key.Binding
	Refresh key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Toggle:  key.NewBinding(key.WithKeys("t", " "), key.WithHelp("t", "toggle")),
		Delete:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete")),
		Fire:    key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "fire now")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port   AlarmPort
	list   list.Model
	keys   keyMap
	status string
	width  int
	height int
}

func New(port AlarmPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Alarms"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return Model{port: port, list: l, keys: defaultKeys()}
}

func (m Model) Init() tea.Cmd {
	return m.loadCmd()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(m.width, m.height-2)

	case AlarmsLoadedMsg:
		if msg.Err != nil {
			m.status = msg.Err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("%d alarms", len(msg.Alarms))
		items := make([]list.Item, len(msg.Alarms))
		for i, alarm := range msg.Alarms {
			items[i] = alarmItem{alarm: alarm}
		}
		cmds = append(cmds, m.list.SetItems(items))

	case AlarmChangedMsg:
		if msg.Err != nil {
			m.status = msg.Err.Error()
		}
		cmds = append(cmds, m.loadCmd())

	case tea.KeyMsg:
		item, ok := m.list.SelectedItem().(alarmItem)
		switch {
		case key.Matches(msg, m.keys.Toggle):
			if ok {
				return m, m.toggleCmd(item.alarm)
			}
		case key.Matches(msg, m.keys.Delete):
			if ok {
				return m, m.deleteCmd(item.alarm.ID)
			}
		case key.Matches(msg, m.keys.Fire):
			if ok {
				return m, func() tea.Msg {
					return FireRequestedMsg{AlarmID: item.alarm.ID, Challenge: item.alarm.Challenge}
				}
			}
		case key.Matches(msg, m.keys.Refresh):
			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	status := theme.Muted.Render(m.status)
	hint := theme.Muted.Render("t toggle  x delete  f fire now  r refresh")
	return lipgloss.JoinVertical(lipgloss.Left, m.list.View(), status, hint)
}

func (m Model) Bindings() []key.Binding {
	return []key.Binding{m.keys.Toggle, m.keys.Delete, m.keys.Fire, m.keys.Refresh}
}

// ─── commands ────────────────────────────────────────────────────────────────

func (m Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		alarms, err := m.port.List(context.Background())
		return AlarmsLoadedMsg{Alarms: alarms, Err: err}
	}
}

func (m Model) toggleCmd(alarm alarmdto.AlarmOutput) tea.Cmd {
	return func() tea.Msg {
		_, err := m.port.SetEnabled(context.Background(), alarm.ID, !alarm.Enabled)
		return AlarmChangedMsg{Err: err}
	}
}

func (m Model) deleteCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		return AlarmChangedMsg{Err: m.port.Delete(context.Background(), id)}
	}
}

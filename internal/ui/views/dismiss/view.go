package dismiss

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	challengedto "shakker/internal/modules/challenge/dto"
	challengeout "shakker/internal/modules/challenge/port/out"
	apperrors "shakker/internal/platform/errors"
	"shakker/internal/ui/theme"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type ChallengePort interface {
	Submit(ctx context.Context, answer int) (challengedto.SessionOutput, error)
	ManualDismiss(ctx context.Context) error
	Active(ctx context.Context) (challengedto.SessionOutput, error)
}

// FeedPort pushes simulated sensor samples. Nil when a real sensor plugin is
// configured; the simulation keys are then disabled.
type FeedPort interface {
	PushAccel(sample challengeout.AccelSample)
	PushLux(sample challengeout.LuxSample)
}

// ─── messages ────────────────────────────────────────────────────────────────

type tickMsg time.Time

type SessionMsg struct {
	Session challengedto.SessionOutput
	Active  bool
	Err     error
}

type DismissedMsg struct {
	Err error
}

// ─── keys ────────────────────────────────────────────────────────────────────

type keyMap struct {
	Shake  key.Binding
	Light  key.Binding
	Manual key.Binding
	Submit key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Shake:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "shake")),
		Light:  key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "light")),
		Manual: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "manual dismiss")),
		Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "answer")),
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port ChallengePort
	feed FeedPort

	keys    keyMap
	bar     progress.Model
	answer  textinput.Model
	session challengedto.SessionOutput
	active  bool
	status  string
	width   int
	height  int
}

func New(port ChallengePort, feed FeedPort) Model {
	bar := progress.New(progress.WithGradient(string(theme.Peach), string(theme.Green)))
	input := textinput.New()
	input.Placeholder = "answer"
	input.CharLimit = 4
	input.Width = 10
	return Model{port: port, feed: feed, keys: defaultKeys(), bar: bar, answer: input}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.pollCmd(), tick())
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = m.width - 10

	case tickMsg:
		cmds = append(cmds, m.pollCmd(), tick())

	case SessionMsg:
		if msg.Err != nil {
			m.status = msg.Err.Error()
			break
		}
		wasActive := m.active
		m.session = msg.Session
		m.active = msg.Active
		if m.active && !wasActive {
			m.answer.Reset()
			if m.session.Kind == "MATH" {
				cmds = append(cmds, m.answer.Focus())
			}
			m.status = ""
		}

	case DismissedMsg:
		if msg.Err != nil {
			m.status = msg.Err.Error()
		}
		cmds = append(cmds, m.pollCmd())

	case tea.KeyMsg:
		if !m.active {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Submit) && m.session.Kind == "MATH":
			value, err := strconv.Atoi(m.answer.Value())
			if err != nil {
				m.status = "numbers only"
				m.answer.Reset()
				break
			}
			m.answer.Reset()
			return m, m.submitCmd(value)
		case key.Matches(msg, m.keys.Shake) && m.feed != nil:
			return m, m.shakeCmd()
		case key.Matches(msg, m.keys.Light) && m.feed != nil:
			return m, m.lightCmd()
		case key.Matches(msg, m.keys.Manual) && m.session.Degraded:
			return m, m.manualCmd()
		}
	}

	var cmd tea.Cmd
	m.answer, cmd = m.answer.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if !m.active {
		body := theme.Muted.Render("No alarm is ringing.")
		if m.status != "" {
			body += "\n" + theme.Muted.Render(m.status)
		}
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
	}

	header := theme.Alert.Render(fmt.Sprintf("⏰ alarm %d is ringing", m.session.AlarmID))
	lines := []string{header, ""}

	switch m.session.Kind {
	case "MATH":
		lines = append(lines,
			theme.Title.Render("Solve to dismiss: ")+theme.Hot.Render(m.session.Question),
			m.answer.View())
	case "LUX":
		lines = append(lines, theme.Title.Render("Let there be light."))
		if m.feed != nil {
			lines = append(lines, theme.Muted.Render("l simulates sunlight"))
		}
	default:
		lines = append(lines,
			theme.Title.Render("Shake to dismiss"),
			m.bar.ViewAs(float64(m.session.Progress)/100))
		if m.feed != nil {
			lines = append(lines, theme.Muted.Render("s simulates a shake"))
		}
	}

	if m.session.Degraded {
		lines = append(lines, "", theme.Hot.Render("sensor unavailable, press m to dismiss manually"))
	}
	if m.status != "" {
		lines = append(lines, "", theme.Muted.Render(m.status))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) Bindings() []key.Binding {
	return []key.Binding{m.keys.Shake, m.keys.Light, m.keys.Submit, m.keys.Manual}
}

// ─── commands ────────────────────────────────────────────────────────────────

func tick() tea.Cmd {
	return tea.Tick(300*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) pollCmd() tea.Cmd {
	return func() tea.Msg {
		session, err := m.port.Active(context.Background())
		if errors.Is(err, apperrors.ErrNoActiveChallenge) {
			return SessionMsg{Active: false}
		}
		return SessionMsg{Session: session, Active: err == nil, Err: err}
	}
}

func (m Model) submitCmd(answer int) tea.Cmd {
	return func() tea.Msg {
		session, err := m.port.Submit(context.Background(), answer)
		if err != nil {
			return SessionMsg{Err: err}
		}
		return SessionMsg{Session: session, Active: session.State == "ARMED"}
	}
}

func (m Model) shakeCmd() tea.Cmd {
	return func() tea.Msg {
		m.feed.PushAccel(challengeout.AccelSample{X: 18, Y: 12, Z: 9.81})
		return nil
	}
}

func (m Model) lightCmd() tea.Cmd {
	return func() tea.Msg {
		m.feed.PushLux(challengeout.LuxSample{Lux: 400})
		return nil
	}
}

func (m Model) manualCmd() tea.Cmd {
	return func() tea.Msg {
		return DismissedMsg{Err: m.port.ManualDismiss(context.Background())}
	}
}

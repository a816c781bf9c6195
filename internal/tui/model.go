package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/watchfire-io/cursoragents/internal/cloudapi"
	"github.com/watchfire-io/cursoragents/internal/models"
)

// Rows taken by the header and the footer.
const chromeHeight = 4

// transition records when the watcher first saw a status.
type transition struct {
	At     time.Time
	Status models.AgentStatus
}

// Model is the bubbletea model for the watcher.
type Model struct {
	ctx     context.Context
	fetcher Fetcher
	opts    Options

	spinner  spinner.Model
	viewport viewport.Model
	help     help.Model

	agent        *models.Agent
	history      []transition
	conversation *models.Conversation
	lastPoll     time.Time
	err          error

	// pollGen identifies the live poll chain. Ticks and replies from
	// older chains do not schedule further polls.
	pollGen int

	showConversation bool
	loadingConv      bool
	done             bool

	width  int
	height int
}

// NewModel creates the initial watcher model.
func NewModel(ctx context.Context, fetcher Fetcher, opts Options) Model {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	return Model{
		ctx:      ctx,
		fetcher:  fetcher,
		opts:     opts,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(spinnerStyle)),
		viewport: viewport.New(80, 20),
		help:     help.New(),
		width:    80,
		height:   24,
	}
}

// Init starts the spinner and the first poll.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		fetchAgentCmd(m.ctx, m.fetcher, m.opts.AgentID, m.pollGen),
	)
}

// Update processes messages and returns an updated model and commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-chromeHeight, 3)
		m.help.Width = msg.Width
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Refresh):
			if m.showConversation {
				m.loadingConv = true
				return m, fetchConversationCmd(m.ctx, m.fetcher, m.opts.AgentID)
			}
			m.pollGen++
			return m, fetchAgentCmd(m.ctx, m.fetcher, m.opts.AgentID, m.pollGen)
		case key.Matches(msg, keys.Conversation):
			m.showConversation = !m.showConversation
			m.refreshViewport()
			if m.showConversation && m.conversation == nil {
				m.loadingConv = true
				return m, fetchConversationCmd(m.ctx, m.fetcher, m.opts.AgentID)
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case agentMsg:
		m.err = nil
		m.lastPoll = msg.At
		if m.agent == nil || m.agent.Status != msg.Agent.Status {
			m.history = append(m.history, transition{At: msg.At, Status: msg.Agent.Status})
		}
		m.agent = msg.Agent
		m.refreshViewport()

		if msg.Agent.Status.IsTerminal() {
			m.done = true
			if !m.opts.KeepOpen {
				return m, tea.Quit
			}
			return m, nil
		}
		if msg.Gen != m.pollGen {
			return m, nil
		}
		return m, pollTick(m.opts.Interval, m.pollGen)

	case conversationMsg:
		m.err = nil
		m.loadingConv = false
		m.conversation = msg.Conversation
		m.refreshViewport()
		return m, nil

	case errMsg:
		m.err = msg.Err
		m.loadingConv = false
		if cloudapi.IsUnauthorized(msg.Err) || cloudapi.IsNotFound(msg.Err) {
			m.done = true
			return m, tea.Quit
		}
		// Transient failures are shown and polling carries on.
		if m.done || msg.Conversation || msg.Gen != m.pollGen {
			return m, nil
		}
		return m, pollTick(m.opts.Interval, m.pollGen)

	case pollMsg:
		if m.done || msg.Gen != m.pollGen {
			return m, nil
		}
		return m, fetchAgentCmd(m.ctx, m.fetcher, m.opts.AgentID, m.pollGen)
	}

	return m, nil
}

// View renders the watcher.
func (m Model) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.viewport.View(),
		m.renderFooter(),
		m.help.View(keys),
	)
}

func (m *Model) refreshViewport() {
	if m.showConversation {
		m.viewport.SetContent(m.renderConversation())
		return
	}
	m.viewport.SetContent(m.renderDetails())
}

func (m Model) renderHeader() string {
	status := models.AgentStatus("")
	if m.agent != nil {
		status = m.agent.Status
	}
	left := " " + m.opts.AgentID
	if m.agent != nil && m.agent.Name != "" {
		left += "  " + m.agent.Name
	}
	right := renderStatus(status) + " "

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		left = ansi.Truncate(left, max(m.width-lipgloss.Width(right)-1, 0), "…")
		gap = 1
	}
	return headerStyle.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) renderFooter() string {
	var line string
	switch {
	case m.err != nil:
		line = errorStyle.Render("Error: " + m.err.Error())
	case m.loadingConv:
		line = m.spinner.View() + " Loading conversation…"
	case m.done:
		line = dimStyle.Render("Agent reached a final status.")
	case m.agent == nil:
		line = m.spinner.View() + " Fetching agent…"
	default:
		line = fmt.Sprintf("%s Polling every %s · last update %s",
			m.spinner.View(), m.opts.Interval, m.lastPoll.Format("15:04:05"))
	}
	return ansi.Truncate(" "+line, m.width, "…")
}

func (m Model) renderDetails() string {
	if m.agent == nil {
		return ""
	}
	a := m.agent
	var b strings.Builder

	field := func(label, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(&b, " %s %s\n", labelStyle.Render(fmt.Sprintf("%-11s", label+":")), valueStyle.Render(value))
	}

	b.WriteString("\n")
	if a.Source != nil {
		field("Repository", a.Source.Repository)
		field("Ref", a.Source.Ref)
	}
	field("Branch", a.BranchName())
	if a.Target != nil {
		field("URL", a.Target.URL)
		field("PR", a.Target.PRURL)
	}
	if a.CreatedAt != nil {
		field("Created", a.CreatedAt.Local().Format(time.DateTime))
	}

	if a.Summary != "" {
		b.WriteString("\n " + sectionStyle.Render("Summary") + "\n")
		b.WriteString(m.markdown(a.Summary) + "\n")
	}

	b.WriteString("\n " + sectionStyle.Render("History") + "\n")
	for _, t := range m.history {
		fmt.Fprintf(&b, " %s  %s\n", dimStyle.Render(t.At.Format("15:04:05")), renderStatus(t.Status))
	}
	return b.String()
}

func (m Model) renderConversation() string {
	if m.conversation == nil {
		return ""
	}
	if len(m.conversation.Messages) == 0 {
		return dimStyle.Render("\n No messages yet.")
	}

	var b strings.Builder
	for _, msg := range m.conversation.Messages {
		role := userRoleStyle
		text := msg.Text
		if msg.Type == models.MessageTypeAssistant {
			role = assistantRoleStyle
			text = m.markdown(text)
		}
		b.WriteString("\n " + role.Render("["+msg.Role()+"]") + "\n")
		b.WriteString(text + "\n")
	}
	return b.String()
}

func (m Model) markdown(text string) string {
	if m.opts.Markdown == nil {
		return text
	}
	return m.opts.Markdown(text, m.width)
}

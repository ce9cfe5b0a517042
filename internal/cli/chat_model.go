package cli

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/huh"

	"github.com/smartallies/incident/internal/app"
	"github.com/smartallies/incident/internal/cli/formatter"
	"github.com/smartallies/incident/internal/contract"
)

const ownAnswerOption = "Type my own answer"

type replyMsg struct {
	resp *contract.ChatResponse
}

type actionChosenMsg struct {
	choice string
}

// chatModel is the bubbletea model for the interactive chat.
type chatModel struct {
	ctx       context.Context
	engine    app.ChatUseCase
	sessionID string
	newID     func() string

	input    textinput.Model
	spinner  spinner.Model
	viewport viewport.Model
	renderer *glamour.TermRenderer

	// suggested-action picker, nil when the text input is active
	form    *huh.Form
	choice  *string
	actions []string

	transcript   []string
	pendingImage string
	waiting      bool
	quitting     bool
}

func newChatModel(ctx context.Context, engine app.ChatUseCase, sessionID string, newID func() string, renderer *glamour.TermRenderer) *chatModel {
	ti := textinput.New()
	ti.Placeholder = "Describe what happened…"
	ti.Prompt = ""
	ti.CharLimit = 2000
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = formatter.StylePurple

	m := &chatModel{
		ctx:       ctx,
		engine:    engine,
		sessionID: sessionID,
		newID:     newID,
		input:     ti,
		spinner:   sp,
		viewport:  viewport.New(80, 20),
		renderer:  renderer,
	}
	m.appendTranscript(formatter.FormatWelcome(sessionID))
	return m
}

func (m *chatModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-4, 3)
		m.input.Width = msg.Width - 8
		if m.form != nil {
			m.form = m.form.WithWidth(msg.Width)
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
		if m.form != nil {
			return m.updateForm(msg)
		}
		switch msg.Type {
		case tea.KeyEnter:
			if m.waiting {
				return m, nil
			}
			line := m.input.Value()
			m.input.Reset()
			return m, m.handleLine(line)
		case tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case replyMsg:
		m.waiting = false
		m.appendTranscript(formatter.FormatReply(msg.resp, m.renderer))
		if len(msg.resp.SuggestedActions) > 0 {
			return m, m.startActions(msg.resp.SuggestedActions)
		}
		return m, nil

	case actionChosenMsg:
		if msg.choice == ownAnswerOption || msg.choice == "" {
			m.input.Focus()
			return m, nil
		}
		return m, m.submit(msg.choice)

	case spinner.TickMsg:
		if !m.waiting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.form != nil {
		return m.updateForm(msg)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *chatModel) View() string {
	if m.quitting {
		return formatter.Dim("Goodbye.") + "\n"
	}

	var footer string
	switch {
	case m.form != nil:
		footer = m.form.View()
	case m.waiting:
		footer = m.spinner.View() + " " + formatter.Dim("thinking…")
	default:
		footer = formatter.StylePurple.Render("you") + formatter.Dim(" ❯ ") + m.input.View()
	}
	return m.viewport.View() + "\n" + footer
}

func (m *chatModel) handleLine(line string) tea.Cmd {
	input := parseInput(line, m.actions)
	switch input.kind {
	case inputEmpty:
		return nil
	case inputQuit:
		m.quitting = true
		return tea.Quit
	case inputReset:
		m.engine.Reset(m.sessionID)
		m.sessionID = m.newID()
		m.actions = nil
		m.appendTranscript(formatter.Dim("Started a new session " + m.sessionID))
		return nil
	case inputImage:
		m.pendingImage = input.text
		m.appendTranscript(formatter.Dim("Image attached to your next message."))
		return nil
	}
	return m.submit(input.text)
}

func (m *chatModel) submit(text string) tea.Cmd {
	m.appendTranscript(formatter.FormatUser(text))
	m.waiting = true
	m.actions = nil

	req := contract.ChatRequest{SessionID: m.sessionID, Message: text, ImageURL: m.pendingImage}
	m.pendingImage = ""

	engine, ctx := m.engine, m.ctx
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		return replyMsg{resp: engine.Respond(ctx, req)}
	})
}

func (m *chatModel) startActions(actions []string) tea.Cmd {
	m.actions = actions
	m.choice = new(string)
	options := append(append([]string{}, actions...), ownAnswerOption)
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Reply with").
				Options(huh.NewOptions(options...)...).
				Value(m.choice),
		),
	).WithShowHelp(false)
	if m.viewport.Width > 0 {
		m.form = m.form.WithWidth(m.viewport.Width)
	}
	m.input.Blur()
	return m.form.Init()
}

func (m *chatModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.closeForm()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		choice := *m.choice
		m.closeForm()
		return m, tea.Batch(cmd, func() tea.Msg { return actionChosenMsg{choice: choice} })
	case huh.StateAborted:
		m.closeForm()
	}
	return m, cmd
}

// closeForm hides the picker; numbered picks stay valid in the text input.
func (m *chatModel) closeForm() {
	m.form = nil
	m.choice = nil
	m.input.Focus()
}

func (m *chatModel) appendTranscript(entry string) {
	m.transcript = append(m.transcript, entry)
	m.refresh()
}

func (m *chatModel) refresh() {
	m.viewport.SetContent(strings.Join(m.transcript, "\n\n"))
	m.viewport.GotoBottom()
}

package bubbletea

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fwojciec/chatstream"
)

var _ tea.Model = Model{}

// Model is the Bubble Tea model for the chat TUI. It renders a read-only
// projection of the controller's timeline. All timeline mutations go through
// the controller and are driven from Update, which keeps the controller on a
// single goroutine as it requires.
type Model struct {
	// Input is the text input component. Exported for test access.
	Input textinput.Model
	// Viewport is the scrollable output area. Exported for test access.
	Viewport viewport.Model

	ctrl   *chatstream.Controller
	theme  chatstream.Theme
	styles Styles

	blocks   []MessageBlock
	blockIDs []string // turn ID per block, for reconciliation

	exchange *chatstream.Exchange
	ready    bool
}

// New creates a new TUI Model hosting the given controller.
func New(ctrl *chatstream.Controller, theme chatstream.Theme) Model {
	ti := textinput.New()
	ti.Placeholder = "Type a message..."
	ti.Prompt = ""
	ti.Focus()
	ti.CharLimit = 0

	m := Model{
		Input:  ti,
		ctrl:   ctrl,
		theme:  theme,
		styles: NewStyles(theme),
	}
	return m.syncBlocks()
}

// Streaming reports whether an exchange is currently active.
func (m Model) Streaming() bool { return m.ctrl.StreamActive() }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m = m.handleWindowSize(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case StreamEventMsg:
		m.ctrl.HandleEvent(msg.Seq, msg.Event)
		m = m.syncBlocks()
		m.Viewport.SetContent(m.renderContent())
		m.Viewport.GotoBottom()
		if m.exchange != nil && msg.Seq == m.exchange.Seq {
			return m, listenForEvent(m.exchange)
		}
		return m, nil

	case StreamDoneMsg:
		m.ctrl.HandleDone(msg.Seq, msg.Err)
		if m.exchange != nil && msg.Seq == m.exchange.Seq {
			m.exchange = nil
		}
		m = m.syncBlocks()
		m.Viewport.SetContent(m.renderContent())
		m.Viewport.GotoBottom()
		cmds = append(cmds, m.Input.Focus())
		return m, tea.Batch(cmds...)
	}

	// Pass remaining messages to sub-components. Viewport always receives
	// messages for scrolling (keyboard and mouse).
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)

	if !m.ctrl.StreamActive() {
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.Viewport.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.Input.View())
	return b.String()
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	inputHeight := 1
	statusHeight := 1
	borderHeight := 2 // newlines between sections
	vpHeight := msg.Height - inputHeight - statusHeight - borderHeight
	if vpHeight < 1 {
		vpHeight = 1
	}

	if !m.ready {
		m.Viewport = viewport.New(msg.Width, vpHeight)
		m.ready = true
	} else {
		m.Viewport.Width = msg.Width
		m.Viewport.Height = vpHeight
	}
	m.Viewport.SetContent(m.renderContent())
	m.Viewport.GotoBottom()
	m.Input.Width = msg.Width
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.ctrl.StreamActive() {
			return m.stopStreaming(), nil
		}
		return m, tea.Quit

	case tea.KeyEsc:
		if m.ctrl.StreamActive() {
			return m.stopStreaming(), nil
		}
		return m, nil

	case tea.KeyCtrlR:
		// Return to the initial conversation; cancels any active stream.
		m.ctrl.Reset()
		m.exchange = nil
		m = m.syncBlocks()
		m.Viewport.SetContent(m.renderContent())
		m.Viewport.GotoBottom()
		return m, nil

	case tea.KeyEnter:
		if m.ctrl.StreamActive() {
			return m, nil
		}
		return m.submitInput(m.Input.Value())
	}

	// When idle, pass keys to both input (for typing) and viewport (for
	// scrolling). Only forward non-character keys to viewport to avoid
	// conflicts (e.g. 'j'/'k' are viewport scroll AND text characters).
	if !m.ctrl.StreamActive() {
		var cmd tea.Cmd
		var cmds []tea.Cmd

		if msg.Type != tea.KeyRunes {
			m.Viewport, cmd = m.Viewport.Update(msg)
			cmds = append(cmds, cmd)
		}

		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)

		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m Model) submitInput(text string) (tea.Model, tea.Cmd) {
	ex, ok := m.ctrl.Submit(text)
	if !ok {
		return m, nil
	}

	m.Input.SetValue("")
	m.Input.Blur()
	m.exchange = ex
	m = m.syncBlocks()
	m.Viewport.SetContent(m.renderContent())
	m.Viewport.GotoBottom()

	return m, listenForEvent(ex)
}

func (m Model) stopStreaming() Model {
	m.ctrl.Stop()
	m.exchange = nil
	m = m.syncBlocks()
	m.Viewport.SetContent(m.renderContent())
	return m
}

// syncBlocks reconciles the block list with the controller's timeline,
// keyed by turn ID. Existing assistant blocks are updated in place so their
// width-keyed render caches survive; a diverging ID (Reset) rebuilds the
// tail.
func (m Model) syncBlocks() Model {
	turns := m.ctrl.Turns()

	for i, turn := range turns {
		if i < len(m.blockIDs) {
			if m.blockIDs[i] == turn.ID {
				if b, ok := m.blocks[i].(*AssistantTurnBlock); ok {
					b.SetText(turn.Text)
					b.SetStreaming(turn.Streaming)
				}
				continue
			}
			m.blocks = m.blocks[:i]
			m.blockIDs = m.blockIDs[:i]
		}
		m.blocks = append(m.blocks, m.newBlock(turn))
		m.blockIDs = append(m.blockIDs, turn.ID)
	}

	if len(turns) < len(m.blockIDs) {
		m.blocks = m.blocks[:len(turns)]
		m.blockIDs = m.blockIDs[:len(turns)]
	}
	return m
}

func (m Model) newBlock(turn chatstream.Turn) MessageBlock {
	if turn.Speaker == chatstream.SpeakerUser {
		return NewUserTurnBlock(turn.Text, m.styles)
	}
	b := NewAssistantTurnBlock(m.theme)
	b.SetText(turn.Text)
	b.SetStreaming(turn.Streaming)
	return b
}

func (m Model) renderContent() string {
	if len(m.blocks) == 0 {
		return ""
	}
	var b strings.Builder
	for i, block := range m.blocks {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(block.View(m.Viewport.Width))
	}
	return b.String()
}

func (m Model) statusLine() string {
	if m.ctrl.Thinking() {
		return m.styles.Muted.Render("Thinking...")
	}
	if m.ctrl.StreamActive() {
		return m.styles.Muted.Render("Streaming... (Esc to stop)")
	}
	return m.styles.Muted.Render("Enter to send, Ctrl+R to start over, Ctrl+C to quit")
}

// listenForEvent waits for the next event from the exchange. When the event
// channel closes, it reads the completion value and returns StreamDoneMsg.
func listenForEvent(ex *chatstream.Exchange) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-ex.Events
		if !ok {
			return StreamDoneMsg{Seq: ex.Seq, Err: <-ex.Done}
		}
		return StreamEventMsg{Seq: ex.Seq, Event: evt}
	}
}

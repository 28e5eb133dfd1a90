package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/jwebster45206/hearth/pkg/house"
)

const PlaceHolderText = "Type a command, e.g. /assign Alice"

type entryKind int

const (
	entryCommand entryKind = iota
	entryResult
	entryEvent
	entryError
)

type logEntry struct {
	kind entryKind
	text string
}

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config       *ConsoleConfig
	api          *apiClient
	logViewport  viewport.Model
	metaViewport viewport.Model
	textarea     textarea.Model
	ready        bool
	width        int
	height       int
	loading      bool

	entries []logEntry
	houses  *housesResponse
	status  string

	events chan SSEEvent

	// Quit confirmation state
	showQuitModal bool

	// Progress bar state
	progressTick int
}

type commandResultMsg struct {
	cmd  command
	text string
	err  error
}

type housesMsg struct {
	houses *housesResponse
	err    error
}

type sseEventMsg SSEEvent

type sseClosedMsg struct {
	err error
}

type progressTickMsg struct{}

var (
	logPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")). // amber
			Bold(true)

	commandStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	eventStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")) // purple

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	homeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true).
			Align(lipgloss.Center)
)

var separatorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")) // dark grey

func NewConsoleUI(cfg *ConsoleConfig, api *apiClient) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 200
	ta.SetWidth(50)
	ta.SetHeight(1)
	ta.ShowLineNumbers = false

	logVp := viewport.New(50, 20)
	logVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	return ConsoleUI{
		config:       cfg,
		api:          api,
		textarea:     ta,
		logViewport:  logVp,
		metaViewport: metaVp,
		events:       make(chan SSEEvent, 32),
		entries:      []logEntry{{kind: entryResult, text: "Type /help to see the commands."}},
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.refreshHouses(), m.startEvents(), m.waitForEvent())
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.logViewport, vpCmd = m.logViewport.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		logWidth := int(float64(m.width)*0.70) - 4
		metaWidth := m.width - logWidth - 6

		m.logViewport.Width = logWidth - 2
		m.logViewport.Height = m.height - 7
		m.metaViewport.Width = metaWidth - 2
		m.metaViewport.Height = m.height - 4
		m.textarea.SetWidth(logWidth - 4)

		m.ready = true
		m.writeLogContent()
		m.metaViewport.SetContent(writeHouses(m.houses, m.status))

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyCtrlY:
			if err := clipboard.WriteAll(m.plainLog()); err != nil {
				m.status = "Copy failed: " + err.Error()
			} else {
				m.status = fmt.Sprintf("Copied %d log lines", len(m.entries))
			}
			m.metaViewport.SetContent(writeHouses(m.houses, m.status))
			return m, nil
		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}
			input := strings.TrimSpace(m.textarea.Value())
			m.textarea.Reset()
			if input == "" {
				return m, nil
			}

			m.addEntry(entryCommand, input)
			c, err := parseCommand(input)
			if err != nil {
				m.addEntry(entryError, err.Error())
				return m, nil
			}
			m.loading = true
			m.progressTick = 0
			m.writeLogContent()
			return m, tea.Batch(m.runCommand(c), progressTick())
		}

	case commandResultMsg:
		m.loading = false
		if msg.err != nil {
			m.addEntry(entryError, "Error: "+msg.err.Error())
		} else {
			m.addEntry(entryResult, msg.text)
		}
		if msg.err == nil && msg.cmd.changesHouses() {
			return m, m.refreshHouses()
		}
		return m, nil

	case housesMsg:
		if msg.err != nil {
			m.status = "Refresh failed: " + msg.err.Error()
		} else {
			m.houses = msg.houses
		}
		m.metaViewport.SetContent(writeHouses(m.houses, m.status))

	case sseEventMsg:
		m.addEntry(entryEvent, formatEvent(SSEEvent(msg)))
		cmds := []tea.Cmd{m.waitForEvent()}
		if msg.Type != "connected" {
			cmds = append(cmds, m.refreshHouses())
		}
		return m, tea.Batch(cmds...)

	case sseClosedMsg:
		if msg.err != nil {
			m.addEntry(entryError, "Event stream closed: "+msg.err.Error())
		}

	case progressTickMsg:
		if m.loading {
			m.progressTick++
			m.writeLogContent()
			return m, progressTick()
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.logViewport, vpCmd = m.logViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

func (m *ConsoleUI) addEntry(kind entryKind, text string) {
	m.entries = append(m.entries, logEntry{kind: kind, text: text})
	m.writeLogContent()
}

// writeLogContent rebuilds the log for the current viewport width
func (m *ConsoleUI) writeLogContent() {
	width := m.logViewport.Width - 6 // Account for left(3) + right(3) padding
	if width < 10 {
		width = 10
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render("HEARTH") + "\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", width)) + "\n\n")

	for _, e := range m.entries {
		content.WriteString(renderEntry(e, width) + "\n\n")
	}

	if m.loading {
		content.WriteString(m.renderProgressBar())
	}

	m.logViewport.SetContent(content.String())
	m.logViewport.GotoBottom()
}

func renderEntry(e logEntry, width int) string {
	switch e.kind {
	case entryCommand:
		return commandStyle.Render("> ") + wordwrap.String(e.text, width-2)
	case entryEvent:
		return eventStyle.Render("• " + wordwrap.String(e.text, width-2))
	case entryError:
		return errorStyle.Render(wordwrap.String(e.text, width))
	default:
		return resultStyle.Render(wordwrap.String(e.text, width))
	}
}

// plainLog is the log without styling, for the clipboard.
func (m ConsoleUI) plainLog() string {
	lines := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		switch e.kind {
		case entryCommand:
			lines = append(lines, "> "+e.text)
		case entryEvent:
			lines = append(lines, "• "+e.text)
		default:
			lines = append(lines, e.text)
		}
	}
	return strings.Join(lines, "\n")
}

func writeHouses(h *housesResponse, status string) string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("HOUSES") + "\n\n")

	if h == nil {
		content.WriteString("Loading...\n")
	} else {
		if len(h.Houses) == 0 {
			content.WriteString("Nobody has a house yet.\n")
		}
		for _, info := range h.Houses {
			line := fmt.Sprintf("%s\n  %s (%g, %g)", info.Occupant, info.Type, info.Location.X, info.Location.Y)
			if info.IsHome {
				line += " " + homeStyle.Render("home")
			}
			content.WriteString(line + "\n")
		}
		content.WriteString(fmt.Sprintf("\nAvailable: %d\n", len(h.Available)))
		for _, e := range h.Available {
			marker := ""
			if e.Type == house.TypeMansion {
				marker = " ★"
			}
			content.WriteString(fmt.Sprintf("  (%d, %d)%s\n", e.X, e.Y, marker))
		}
	}

	content.WriteString("\nKeys:\n")
	content.WriteString("• Enter: Run\n")
	content.WriteString("• Ctrl+Y: Copy log\n")
	content.WriteString("• Ctrl+C: Quit\n")

	if status != "" {
		content.WriteString("\n" + promptStyle.Render(status) + "\n")
	}
	return content.String()
}

func (m ConsoleUI) runCommand(c command) tea.Cmd {
	return func() tea.Msg {
		text, err := run(m.api, c)
		return commandResultMsg{cmd: c, text: text, err: err}
	}
}

func (m ConsoleUI) refreshHouses() tea.Cmd {
	return func() tea.Msg {
		h, err := m.api.listHouses()
		return housesMsg{houses: h, err: err}
	}
}

// startEvents runs the SSE listener for the life of the program.
func (m ConsoleUI) startEvents() tea.Cmd {
	return func() tea.Msg {
		err := m.api.listenToSSE(context.Background(), m.events)
		close(m.events)
		return sseClosedMsg{err: err}
	}
}

func (m ConsoleUI) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		e, ok := <-m.events
		if !ok {
			return nil
		}
		return sseEventMsg(e)
	}
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit?"))
	content.WriteString("\n\n")
	content.WriteString("The world keeps running on the server.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	logWidth := int(float64(m.width)*0.70) - 4
	metaWidth := m.width - logWidth - 6

	logPanel := logPanelStyle.Width(logWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.logViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", logWidth-4)),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, logPanel, metaPanel)
}

// renderProgressBar creates an animated progress bar for loading states
func (m ConsoleUI) renderProgressBar() string {
	usable := m.logViewport.Width - 6
	if usable > 80 {
		usable = 80
	} else if usable < 10 {
		usable = 10
	}

	const totalFrames = 40
	frame := m.progressTick % totalFrames
	filled := (frame * usable) / totalFrames

	var bar strings.Builder
	for i := 0; i < usable; i++ {
		if i < filled {
			bar.WriteString("█")
		} else if i == filled && frame%4 < 2 {
			bar.WriteString("▓") // Blinking effect at the progress point
		} else {
			bar.WriteString("░")
		}
	}
	return separatorStyle.Render(bar.String())
}

// progressTick creates a command that sends a progress tick message
func progressTick() tea.Cmd {
	return tea.Tick(time.Millisecond*200, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}

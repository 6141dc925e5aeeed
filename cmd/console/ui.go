package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/rescuesim/rescue-engine/pkg/player"
	"github.com/rescuesim/rescue-engine/pkg/rescue"
	"github.com/rescuesim/rescue-engine/pkg/textfilter"
)

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config        *ConsoleConfig
	client        *http.Client
	frame         *player.Frame
	sceneViewport viewport.Model
	metaViewport  viewport.Model
	ready         bool
	width         int
	height        int
	err           error
	statusLine    string

	// Rescue selection state
	showRescueModal bool
	rescues         []rescue.RescueItem
	selectedRescue  int
	loadingRescues  bool
	creating        bool

	// Quit confirmation state
	showQuitModal bool

	// generation stamps every frame request; responses from an older
	// generation are stale and dropped.
	generation int
}

type rescuesLoadedMsg struct {
	rescues []rescue.RescueItem
	err     error
}

type frameMsg struct {
	frame      *player.Frame
	generation int
	err        error
}

type pollTickMsg struct {
	generation int
}

var (
	scenePanelStyle = lipgloss.NewStyle().
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
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	activeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")). // green
			Bold(true)

	badgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	completedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")). // bright green
			Bold(true)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)

	modalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	modalSelectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey
)

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client) ConsoleUI {
	sceneVp := viewport.New(50, 20)
	sceneVp.MouseWheelEnabled = true
	metaVp := viewport.New(20, 20)

	return ConsoleUI{
		config:          cfg,
		client:          client,
		sceneViewport:   sceneVp,
		metaViewport:    metaVp,
		showRescueModal: true,
		loadingRescues:  true,
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return m.loadRescues()
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}
	if m.showRescueModal {
		return m.updateRescueModal(msg)
	}

	var (
		svCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.writeSceneContent()
		m.writeMetadata()
		m.ready = true

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		}

		switch msg.String() {
		case "q":
			m.showQuitModal = true
			return m, nil
		case "c":
			if m.frame != nil {
				if err := clipboard.WriteAll(m.frame.SessionID); err != nil {
					m.statusLine = "Clipboard unavailable"
				} else {
					m.statusLine = "Session ID copied"
				}
				m.writeMetadata()
			}
			return m, nil
		case "1", "2", "3", "4", "5", "6", "7", "8", "9":
			return m.handleNumberKey(int(msg.String()[0] - '0'))
		}

	case rescuesLoadedMsg:
		// Late arrival after the modal closed; nothing to do.

	case frameMsg:
		if msg.generation < m.generation {
			// Stale response from before the last press; drop it.
			return m, nil
		}
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.err = nil
			m.frame = msg.frame
		}
		m.writeSceneContent()
		m.writeMetadata()
		return m, nil

	case pollTickMsg:
		if msg.generation < m.generation || m.frame == nil {
			return m, nil
		}
		if m.frame.Completed {
			// The session no longer ticks; stop polling.
			return m, nil
		}
		return m, tea.Batch(m.fetchFrame(m.generation), m.pollTick(m.generation))
	}

	m.sceneViewport, svCmd = m.sceneViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)
	return m, tea.Batch(svCmd, mvCmd)
}

// handleNumberKey routes digit presses: with a folder open the digits select
// folder children, otherwise they press scene triggers.
func (m ConsoleUI) handleNumberKey(n int) (tea.Model, tea.Cmd) {
	if m.frame == nil || m.frame.Completed {
		return m, nil
	}
	idx := n - 1

	if len(m.frame.FolderItems) > 0 {
		if idx >= len(m.frame.FolderItems) {
			return m, nil
		}
		item := m.frame.FolderItems[idx]
		m.generation++
		return m, tea.Batch(
			m.doFolderPress(item.TriggerID, item.ItemID, m.generation),
			m.pollTick(m.generation),
		)
	}

	if idx >= len(m.frame.Elements) {
		return m, nil
	}
	m.generation++
	return m, tea.Batch(
		m.doPress(m.frame.Elements[idx].TriggerID, m.generation),
		m.pollTick(m.generation),
	)
}

func (m *ConsoleUI) layout() {
	sceneWidth := int(float64(m.width)*0.7) - 4
	metaWidth := m.width - sceneWidth - 6
	m.sceneViewport.Width = sceneWidth - 2
	m.sceneViewport.Height = m.height - 4
	m.metaViewport.Width = metaWidth - 2
	m.metaViewport.Height = m.height - 4
}

func (m *ConsoleUI) writeSceneContent() {
	width := m.sceneViewport.Width - 6
	if width < 20 {
		width = 20
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render("RESCUE PLAYER") + "\n\n")

	if m.err != nil {
		content.WriteString(errorStyle.Render("Error: "+m.err.Error()) + "\n\n")
	}
	if m.frame == nil {
		content.WriteString(loadingStyle.Render("Waiting for session..."))
		m.sceneViewport.SetContent(content.String())
		return
	}

	sceneName := m.frame.SceneName
	if sceneName == "" {
		sceneName = fmt.Sprintf("Scene %d", m.frame.SceneIndex+1)
	}
	content.WriteString(wordwrap.String(sceneName, width) + "\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", width)) + "\n\n")

	if m.frame.Completed {
		content.WriteString(completedStyle.Render("SCENARIO COMPLETE") + "\n\n")
		content.WriteString("Press q to exit, or fetch the debrief report from the API.\n")
		m.sceneViewport.SetContent(content.String())
		return
	}

	if len(m.frame.FolderItems) > 0 {
		content.WriteString(titleStyle.Render("Open Folder") + "\n")
		for i, item := range m.frame.FolderItems {
			content.WriteString(fmt.Sprintf("  %d. %s (%s)\n", i+1, item.Name, item.Variant))
		}
		content.WriteString(promptStyle.Render("\nPress a number to use an item\n\n"))
	} else if len(m.frame.Elements) > 0 {
		content.WriteString(titleStyle.Render("Triggers") + "\n")
		for i, el := range m.frame.Elements {
			marker := "  "
			name := el.Name
			if el.Active {
				marker = activeStyle.Render("◉ ")
				name = activeStyle.Render(name)
			}
			content.WriteString(fmt.Sprintf("  %d. %s%s\n", i+1, marker, name))
		}
		content.WriteString(promptStyle.Render("\nPress a number to press a trigger\n\n"))
	}

	if len(m.frame.Parameters) > 0 {
		content.WriteString(titleStyle.Render("Vitals") + "\n")
		for _, b := range m.frame.Parameters {
			label := b.Label
			if label == "" {
				label = textfilter.Label(b.ID)
			}
			content.WriteString(fmt.Sprintf("  %s: %s\n",
				badgeStyle.Render(label), b.Display))
		}
	}

	m.sceneViewport.SetContent(content.String())
}

func (m *ConsoleUI) writeMetadata() {
	if m.frame == nil {
		return
	}
	var content strings.Builder
	content.WriteString(titleStyle.Render("SESSION") + "\n\n")

	content.WriteString("Session ID:\n")
	content.WriteString(m.frame.SessionID[:8] + "...\n\n")

	content.WriteString("Scene:\n")
	content.WriteString(fmt.Sprintf("%d of %d\n\n", m.frame.SceneIndex+1, m.frame.SceneCount))

	content.WriteString("Ticks:\n")
	content.WriteString(fmt.Sprintf("%d\n\n", m.frame.Ticks))

	if m.statusLine != "" {
		content.WriteString(loadingStyle.Render(m.statusLine) + "\n\n")
	}

	content.WriteString("Commands:\n")
	content.WriteString("• 1-9: Press trigger\n")
	content.WriteString("• c: Copy session ID\n")
	content.WriteString("• q: Quit\n")

	m.metaViewport.SetContent(content.String())
}

func (m ConsoleUI) loadRescues() tea.Cmd {
	return func() tea.Msg {
		items, err := listRescues(m.client, m.config.APIBaseURL)
		return rescuesLoadedMsg{items, err}
	}
}

func (m ConsoleUI) startSession(rescueID string, generation int) tea.Cmd {
	return func() tea.Msg {
		frame, err := createSession(m.client, m.config.APIBaseURL, rescueID)
		return frameMsg{frame, generation, err}
	}
}

func (m ConsoleUI) fetchFrame(generation int) tea.Cmd {
	return func() tea.Msg {
		frame, err := getFrame(m.client, m.config.APIBaseURL, m.frame.SessionID)
		return frameMsg{frame, generation, err}
	}
}

func (m ConsoleUI) doPress(triggerID string, generation int) tea.Cmd {
	return func() tea.Msg {
		frame, err := pressTrigger(m.client, m.config.APIBaseURL, m.frame.SessionID, triggerID)
		return frameMsg{frame, generation, err}
	}
}

func (m ConsoleUI) doFolderPress(triggerID, itemID string, generation int) tea.Cmd {
	return func() tea.Msg {
		frame, err := pressFolderItem(m.client, m.config.APIBaseURL, m.frame.SessionID, triggerID, itemID)
		return frameMsg{frame, generation, err}
	}
}

// pollTick schedules the next frame refresh. The generation stamp lets the
// update loop discard ticks scheduled before a press.
func (m ConsoleUI) pollTick(generation int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return pollTickMsg{generation}
	})
}

func (m ConsoleUI) updateRescueModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case rescuesLoadedMsg:
		m.loadingRescues = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.rescues = msg.rescues
		}

	case frameMsg:
		m.creating = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.frame = msg.frame
		m.showRescueModal = false
		m.layout()
		m.writeSceneContent()
		m.writeMetadata()
		m.ready = true
		return m, m.pollTick(m.generation)

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyUp:
			if m.selectedRescue > 0 {
				m.selectedRescue--
			}
		case tea.KeyDown:
			if m.selectedRescue < len(m.rescues)-1 {
				m.selectedRescue++
			}
		case tea.KeyEnter:
			if !m.loadingRescues && !m.creating && len(m.rescues) > 0 {
				m.creating = true
				return m, m.startSession(m.rescues[m.selectedRescue].ID, m.generation)
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "y", "Y", "enter", "ctrl+c", "esc":
			return m, m.quitAndEnd()
		case "n", "N":
			m.showQuitModal = false
			return m, nil
		}
	}

	return m, nil
}

// quitAndEnd tears the session down server-side before exiting.
func (m ConsoleUI) quitAndEnd() tea.Cmd {
	return func() tea.Msg {
		if m.frame != nil {
			_ = endSession(m.client, m.config.APIBaseURL, m.frame.SessionID)
		}
		return tea.Quit()
	}
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("End Session?"))
	content.WriteString("\n\n")
	content.WriteString("Leaving ends the rescue session on the server.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderRescueModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder

	if m.loadingRescues {
		content.WriteString(modalTitleStyle.Render("Loading Scenarios..."))
		content.WriteString("\n\n")
		content.WriteString(loadingStyle.Render("Fetching available rescue scenarios..."))
	} else if m.err != nil {
		content.WriteString(modalTitleStyle.Render("Error"))
		content.WriteString("\n\n")
		content.WriteString(errorStyle.Render(fmt.Sprintf("Failed to load scenarios: %v", m.err)))
		content.WriteString("\n\n")
		content.WriteString("Press Ctrl+C to exit")
	} else if m.creating {
		content.WriteString(modalTitleStyle.Render("Starting Session..."))
		content.WriteString("\n\n")
		content.WriteString(loadingStyle.Render("Loading scenario data..."))
	} else if len(m.rescues) == 0 {
		content.WriteString(modalTitleStyle.Render("No Scenarios"))
		content.WriteString("\n\n")
		content.WriteString("The server has no rescue scenarios yet.")
	} else {
		content.WriteString(modalTitleStyle.Render("Select a Rescue Scenario"))
		content.WriteString("\n\n")

		for i, item := range m.rescues {
			name := textfilter.Truncate(item.Name, 50)
			if i == m.selectedRescue {
				content.WriteString(modalSelectedItemStyle.Render(fmt.Sprintf("▶ %s", name)))
			} else {
				content.WriteString(modalItemStyle.Render(fmt.Sprintf("  %s", name)))
			}
			content.WriteString("\n")
		}

		content.WriteString("\n")
		content.WriteString(promptStyle.Render("Use ↑/↓ to navigate, Enter to start, Ctrl+C to exit"))
	}

	modal := modalStyle.Width(60).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}
	if m.showRescueModal {
		return m.renderRescueModal()
	}
	if !m.ready {
		return "\n  Initializing..."
	}

	sceneWidth := int(float64(m.width)*0.7) - 4
	metaWidth := m.width - sceneWidth - 6

	scenePanel := scenePanelStyle.Width(sceneWidth).Height(m.height - 2).Render(
		m.sceneViewport.View(),
	)
	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, scenePanel, metaPanel)
}

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

	"github.com/jwebster45206/badge-adventure/internal/indicator"
	"github.com/jwebster45206/badge-adventure/pkg/engine"
	"github.com/jwebster45206/badge-adventure/pkg/world"
)

const (
	PlaceHolderText = "Type a command, or use the arrow keys to walk..."
	promptMarker    = "> "
)

// ConsoleUI is the BubbleTea model that runs the badge in a terminal.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	ctx      context.Context
	eng      *engine.Engine
	strip    *indicator.Strip
	out      *transcript
	interval time.Duration

	chatViewport viewport.Model
	metaViewport viewport.Model
	textarea     textarea.Model
	ready        bool
	width        int
	height       int
	status       string

	// Quit confirmation state
	showQuitModal bool
}

type frameTickMsg struct{}

var (
	chatPanelStyle = lipgloss.NewStyle().
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

	speakerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	flagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")). // green
			Bold(true)

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

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
)

var separatorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")) // dark grey

// arrowLines maps arrow keys to the badge's direction buttons.
var arrowLines = map[tea.KeyType]string{
	tea.KeyUp:    "n",
	tea.KeyDown:  "s",
	tea.KeyLeft:  "w",
	tea.KeyRight: "e",
}

func NewConsoleUI(ctx context.Context, eng *engine.Engine, strip *indicator.Strip, out *transcript, interval time.Duration) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 256
	ta.SetWidth(50)
	ta.SetHeight(1)
	ta.ShowLineNumbers = false

	chatVp := viewport.New(50, 20)
	chatVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	return ConsoleUI{
		ctx:          ctx,
		eng:          eng,
		strip:        strip,
		out:          out,
		interval:     interval,
		textarea:     ta,
		chatViewport: chatVp,
		metaViewport: metaVp,
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.frameTick())
}

func (m ConsoleUI) frameTick() tea.Cmd {
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return frameTickMsg{}
	})
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
		m.chatViewport, vpCmd = m.chatViewport.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.ready = true
		m.refresh()

	case frameTickMsg:
		m.strip.Next()
		m.metaViewport.SetContent(m.writeMetadata())
		return m, m.frameTick()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEnter:
			input := strings.TrimSpace(m.textarea.Value())
			m.textarea.Reset()
			if strings.HasPrefix(input, "/") {
				return m.handleCommand(input)
			}
			m.send(input)
			return m, nil
		case tea.KeyUp, tea.KeyDown, tea.KeyLeft, tea.KeyRight:
			// Arrows act as the badge buttons only while nothing is typed.
			if m.textarea.Value() == "" {
				m.send(arrowLines[msg.Type])
				return m, nil
			}
		case tea.KeyPgUp, tea.KeyPgDown:
			m.chatViewport, vpCmd = m.chatViewport.Update(msg)
			return m, vpCmd
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	return m, tiCmd
}

// send runs one turn of the game with line as input.
func (m *ConsoleUI) send(line string) {
	m.out.echo(line)
	m.eng.Turn(m.ctx, line)
	m.status = ""
	m.refresh()
}

func (m *ConsoleUI) layout() {
	chatWidth := int(float64(m.width)*0.7) - 4
	metaWidth := m.width - chatWidth - 6

	m.chatViewport.Width = chatWidth - 2
	m.chatViewport.Height = m.height - 7
	m.metaViewport.Width = metaWidth - 2
	m.metaViewport.Height = m.height - 4
	m.textarea.SetWidth(chatWidth - 4)
}

// refresh rebuilds both panels after the game or the window changed.
func (m *ConsoleUI) refresh() {
	content := m.out.render(m.chatViewport.Width - 6)
	if m.status != "" {
		content += "\n" + m.status + "\n"
	}
	m.chatViewport.SetContent(content)
	m.chatViewport.GotoBottom()
	m.metaViewport.SetContent(m.writeMetadata())
}

func (m ConsoleUI) writeMetadata() string {
	sess := m.eng.Session()
	w := sess.World

	var content strings.Builder
	content.WriteString(titleStyle.Render("BADGE") + "\n\n")

	content.WriteString("Nickname:\n")
	content.WriteString(sess.Player.Name + "\n\n")

	if serial := m.eng.Serial(); len(serial) >= 8 {
		content.WriteString("Serial:\n")
		content.WriteString(serial[:8] + "...\n\n")
	}

	content.WriteString("Location:\n")
	content.WriteString(roomTitle(w, sess.Player.Room) + "\n\n")

	frame := m.strip.Last()
	content.WriteString("Lights: " + frame.Mode + "\n")
	for i, on := range frame.LEDs {
		glyph := "○"
		if on {
			glyph = flagStyle.Render("●")
		}
		content.WriteString(fmt.Sprintf("%s %d  ", glyph, i))
	}
	content.WriteString("\n")
	ambient := errorStyle.Render("●")
	if frame.Ambient == indicator.Green {
		ambient = flagStyle.Render("●")
	}
	content.WriteString("Ambient " + ambient + "\n\n")

	done := 0
	for _, q := range w.Quests {
		if sess.Flags.IsSet(q) {
			done++
		}
	}
	content.WriteString(fmt.Sprintf("Quests:\n%d of %d complete\n\n", done, len(w.Quests)))

	content.WriteString("Inventory:\n")
	held := sess.Inventory.Held()
	if len(held) == 0 {
		content.WriteString("Empty\n")
	}
	for _, e := range held {
		content.WriteString(fmt.Sprintf("• %s x %d\n", w.ItemName(e.ID), e.Count))
	}

	content.WriteString("\n")
	content.WriteString("Keys:\n")
	content.WriteString("• Arrows: Walk\n")
	content.WriteString("• Enter: Send\n")
	content.WriteString("• /copy: Copy notebook\n")
	content.WriteString("• Ctrl+C: Quit\n")

	return content.String()
}

func (m ConsoleUI) handleCommand(input string) (tea.Model, tea.Cmd) {
	switch strings.ToLower(input) {
	case "/help":
		m.status = titleStyle.Render("Console:") + `
• help - Badge commands
• /copy - Copy your notebook to the clipboard
• /serial - Copy the badge serial to the clipboard
• Arrow keys - Press the direction buttons
`
	case "/copy":
		m.status = m.copy(strings.Join(m.eng.Session().Player.Notebook, "\n"), "Notebook")
	case "/serial":
		m.status = m.copy(m.eng.Serial(), "Badge serial")
	default:
		m.status = errorStyle.Render("Unknown console command " + input)
	}
	m.refresh()
	return m, nil
}

func (m ConsoleUI) copy(text, what string) string {
	if text == "" {
		return promptStyle.Render(what + " is empty.")
	}
	if err := clipboard.WriteAll(text); err != nil {
		return errorStyle.Render("Clipboard unavailable: " + err.Error())
	}
	return promptStyle.Render(what + " copied to clipboard.")
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, m.quit()
		default:
			switch msg.String() {
			case "y", "Y":
				return m, m.quit()
			case "n", "N":
				m.showQuitModal = false
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
	}

	return m, nil
}

// quit saves the game the way the exit command leaves it.
func (m ConsoleUI) quit() tea.Cmd {
	if m.eng.Playing() {
		m.eng.Turn(m.ctx, "save")
	}
	return tea.Quit
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit?"))
	content.WriteString("\n\n")
	content.WriteString("Your progress will be saved to the badge.")
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

	chatWidth := int(float64(m.width)*0.7) - 4
	metaWidth := m.width - chatWidth - 6

	chatPanel := chatPanelStyle.Width(chatWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.chatViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", max(chatWidth-4, 0))),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, chatPanel, metaPanel)
}

func roomTitle(w *world.World, id world.RoomID) string {
	if room, err := w.Room(id); err == nil {
		return room.Title
	}
	return "Unknown"
}

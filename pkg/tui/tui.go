// Package tui provides a terminal user interface for rtttl2midi
package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/hako/durafmt"

	"github.com/james-see/rtttl2midi/pkg/converter"
	"github.com/james-see/rtttl2midi/pkg/rtttl"
)

// Nokia LCD inspired color scheme
var (
	lcdGreen  = lipgloss.Color("#9BBC0F")
	lcdYellow = lipgloss.Color("#E0F8A0")
	lcdGray   = lipgloss.Color("#C0C0C0")
	lcdDark   = lipgloss.Color("#0F380F")

	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lcdGreen).
			Background(lcdDark).
			Padding(0, 2).
			MarginBottom(1)

	menuStyle = lipgloss.NewStyle().
			Foreground(lcdGray).
			PaddingLeft(2)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lcdGreen).
			Bold(true).
			PaddingLeft(2)

	statusStyle = lipgloss.NewStyle().
			Foreground(lcdYellow).
			PaddingTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lcdGreen).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lcdGreen).
			Padding(1, 2)
)

// State represents the current TUI state
type State int

const (
	StateMenu State = iota
	StateFilePicker
	StateInput
	StateConverting
	StateResult
	StateInspect
)

// MenuItem represents a menu option
type MenuItem struct {
	Title       string
	Description string
	FromFormat  converter.Format
	ToFormat    converter.Format
}

var menuItems = []MenuItem{
	{Title: "RTTTL → MIDI", Description: "Convert an RTTTL ring tone file to a MIDI file", FromFormat: converter.FormatRTTTL, ToFormat: converter.FormatMIDI},
	{Title: "MIDI → RTTTL", Description: "Extract the melody of a MIDI file as an RTTTL ring tone", FromFormat: converter.FormatMIDI, ToFormat: converter.FormatRTTTL},
	{Title: "Inspect RTTTL", Description: "Type an RTTTL string and show its tones", FromFormat: converter.FormatRTTTL},
	{Title: "Exit", Description: "Exit the application"},
}

// Model represents the TUI model
type Model struct {
	state        State
	menuIndex    int
	filePicker   filepicker.Model
	spinner      spinner.Model
	input        textinput.Model
	selectedFile string
	outputFile   string
	conversion   MenuItem
	sequence     *rtttl.ToneSequence
	canonical    string
	err          error
	width        int
	height       int
}

// conversionDoneMsg signals conversion completion
type conversionDoneMsg struct {
	outputFile string
	err        error
}

// Init initializes the TUI model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick)
}

// New creates a new TUI model
func New() Model {
	// Initialize file picker
	fp := filepicker.New()
	fp.AllowedTypes = []string{".rtttl", ".rtx", ".txt", ".mid", ".midi"}
	fp.CurrentDirectory, _ = os.Getwd()

	// Initialize spinner
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lcdGreen)

	// Initialize RTTTL input
	ti := textinput.New()
	ti.Placeholder = "Auld L S:d=4,o=6,b=101:g5,c,8c,c,e"
	ti.CharLimit = 4096
	ti.Width = 60

	return Model{
		state:      StateMenu,
		menuIndex:  0,
		filePicker: fp,
		spinner:    s,
		input:      ti,
	}
}

// Update handles TUI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle file picker state first - it needs to receive all messages
	if m.state == StateFilePicker {
		// Check for escape/quit keys first
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "esc":
				m.state = StateMenu
				return m, nil
			case "q", "ctrl+c":
				return m, tea.Quit
			}
		}

		// Pass all other messages to the file picker
		var cmd tea.Cmd
		m.filePicker, cmd = m.filePicker.Update(msg)

		// Check if file was selected
		if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
			m.selectedFile = path
			m.state = StateConverting
			return m, tea.Batch(m.spinner.Tick, m.performConversion())
		}

		return m, cmd
	}

	if m.state == StateInput {
		return m.updateInput(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.filePicker.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case StateMenu:
			return m.updateMenu(msg)
		case StateResult, StateInspect:
			return m.updateResult(msg)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case conversionDoneMsg:
		m.state = StateResult
		m.outputFile = msg.outputFile
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.menuIndex > 0 {
			m.menuIndex--
		}
	case "down", "j":
		if m.menuIndex < len(menuItems)-1 {
			m.menuIndex++
		}
	case "enter":
		if m.menuIndex == len(menuItems)-1 {
			return m, tea.Quit
		}
		m.conversion = menuItems[m.menuIndex]

		if m.conversion.ToFormat == "" {
			m.state = StateInput
			m.input.SetValue("")
			return m, m.input.Focus()
		}

		m.state = StateFilePicker

		// Set file picker filter based on input format
		switch m.conversion.FromFormat {
		case converter.FormatMIDI:
			m.filePicker.AllowedTypes = []string{".mid", ".midi"}
		case converter.FormatRTTTL:
			m.filePicker.AllowedTypes = []string{".rtttl", ".rtx", ".txt"}
		}

		return m, m.filePicker.Init()
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEsc:
			m.input.Blur()
			m.state = StateMenu
			return m, nil
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEnter:
			m.input.Blur()
			m.state = StateInspect
			m.sequence, m.canonical, m.err = inspect(m.input.Value())
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.state = StateMenu
		m.err = nil
		m.selectedFile = ""
		m.outputFile = ""
		m.sequence = nil
		m.canonical = ""
		return m, nil
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func inspect(str string) (*rtttl.ToneSequence, string, error) {
	seq, err := rtttl.Parse(strings.TrimSpace(str))
	if err != nil {
		return nil, "", err
	}
	canonical, err := rtttl.Encode(seq)
	if err != nil {
		return nil, "", err
	}
	return seq, canonical, nil
}

func (m Model) performConversion() tea.Cmd {
	return func() tea.Msg {
		conv := converter.New()

		data, err := os.ReadFile(m.selectedFile)
		if err != nil {
			return conversionDoneMsg{err: err}
		}

		result, err := conv.Convert(data, m.conversion.FromFormat, m.conversion.ToFormat)
		if err != nil {
			return conversionDoneMsg{err: err}
		}

		outputExt := ".mid"
		if m.conversion.ToFormat == converter.FormatRTTTL {
			outputExt = ".rtttl"
			result = append(result, '\n')
		}

		// Generate output filename
		base := strings.TrimSuffix(m.selectedFile, filepath.Ext(m.selectedFile))
		outputFile := base + outputExt

		err = os.WriteFile(outputFile, result, 0644)
		if err != nil {
			return conversionDoneMsg{err: err}
		}

		return conversionDoneMsg{outputFile: outputFile}
	}
}

// View renders the TUI
func (m Model) View() string {
	var s strings.Builder

	// Header
	header := asciiLogo()
	s.WriteString(header)
	s.WriteString("\n")

	switch m.state {
	case StateMenu:
		s.WriteString(m.viewMenu())
	case StateFilePicker:
		s.WriteString(m.viewFilePicker())
	case StateInput:
		s.WriteString(m.viewInput())
	case StateConverting:
		s.WriteString(m.viewConverting())
	case StateResult:
		s.WriteString(m.viewResult())
	case StateInspect:
		s.WriteString(m.viewInspect())
	}

	// Footer help
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("↑/↓: navigate • enter: select • q: quit"))

	return s.String()
}

func (m Model) viewMenu() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" SELECT ACTION "))
	s.WriteString("\n\n")

	for i, item := range menuItems {
		if i == m.menuIndex {
			s.WriteString(selectedStyle.Render(fmt.Sprintf("▸ %s", item.Title)))
			s.WriteString("\n")
			s.WriteString(lipgloss.NewStyle().Foreground(lcdYellow).PaddingLeft(4).Render(item.Description))
		} else {
			s.WriteString(menuStyle.Render(fmt.Sprintf("  %s", item.Title)))
		}
		s.WriteString("\n")
	}

	return boxStyle.Render(s.String())
}

func (m Model) viewFilePicker() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(fmt.Sprintf(" SELECT %s FILE ", strings.ToUpper(string(m.conversion.FromFormat)))))
	s.WriteString("\n\n")
	s.WriteString(m.filePicker.View())
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("esc: back to menu"))

	return s.String()
}

func (m Model) viewInput() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" ENTER RTTTL "))
	s.WriteString("\n\n")
	s.WriteString(m.input.View())
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("enter: inspect • esc: back to menu"))

	return boxStyle.Render(s.String())
}

func (m Model) viewConverting() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" CONVERTING "))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("%s Converting %s...\n", m.spinner.View(), filepath.Base(m.selectedFile)))
	s.WriteString(statusStyle.Render(fmt.Sprintf("  %s → %s", m.conversion.FromFormat, m.conversion.ToFormat)))

	return boxStyle.Render(s.String())
}

func (m Model) viewResult() string {
	var s strings.Builder

	if m.err != nil {
		s.WriteString(titleStyle.Render(" ERROR "))
		s.WriteString("\n\n")
		s.WriteString(errorStyle.Render(fmt.Sprintf("✗ Conversion failed: %s", m.err.Error())))
	} else {
		s.WriteString(titleStyle.Render(" SUCCESS "))
		s.WriteString("\n\n")
		s.WriteString(successStyle.Render("✓ Conversion complete!"))
		s.WriteString("\n\n")
		s.WriteString(fmt.Sprintf("Input:  %s\n", filepath.Base(m.selectedFile)))
		s.WriteString(fmt.Sprintf("Output: %s", filepath.Base(m.outputFile)))
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("Press enter to continue"))

	return boxStyle.Render(s.String())
}

func (m Model) viewInspect() string {
	var s strings.Builder

	if m.err != nil {
		s.WriteString(titleStyle.Render(" PARSE ERROR "))
		s.WriteString("\n\n")
		s.WriteString(errorStyle.Render(fmt.Sprintf("✗ %s", m.err.Error())))
	} else {
		seq := m.sequence
		s.WriteString(titleStyle.Render(" " + strings.ToUpper(seq.Name()) + " "))
		s.WriteString("\n\n")
		s.WriteString(fmt.Sprintf("Octave: %d  Duration: %s  Tempo: %d bpm  Length: %s\n\n",
			seq.DefaultOctave(), seq.DefaultDuration(), seq.BeatsPerMinute(),
			durafmt.Parse(seq.Length()).LimitFirstN(2).String()))
		s.WriteString(toneTable(seq))
		s.WriteString(statusStyle.Render(m.canonical))
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("Press enter to continue"))

	return boxStyle.Render(s.String())
}

// toneTable renders one line per tone
func toneTable(seq *rtttl.ToneSequence) string {
	var s strings.Builder
	bpm := float64(seq.BeatsPerMinute())
	for i, t := range seq.Tones() {
		pitch := "rest"
		hz := ""
		if n, ok := t.Note(); ok {
			pitch = n.String()
			hz = fmt.Sprintf("%8.2f Hz", n.Hz())
		}
		s.WriteString(menuStyle.Render(fmt.Sprintf("%3d  %-5s %-20s %6.3fs %s", i+1, pitch, t.Duration, t.Seconds(bpm), hz)))
		s.WriteString("\n")
	}
	return s.String()
}

func asciiLogo() string {
	logo := `
   ____  _____ _____ _____ _      ____  __  __ ___ ____ ___ 
  |  _ \|_   _|_   _|_   _| |    |___ \|  \/  |_ _|  _ \_ _|
  | |_) | | |   | |   | | | |      __) | |\/| || || | | | | 
  |  _ <  | |   | |   | | | |___  / __/| |  | || || |_| | | 
  |_| \_\ |_|   |_|   |_| |_____||_____|_|  |_|___|____/___|
`
	return lipgloss.NewStyle().Foreground(lcdGreen).Render(logo)
}

// Run starts the TUI application
func Run() error {
	p := tea.NewProgram(New(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

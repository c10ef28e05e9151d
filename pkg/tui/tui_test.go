package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/james-see/rtttl2midi/pkg/converter"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model
}

func TestMenuNavigation(t *testing.T) {
	m := New()
	assert.Equal(t, StateMenu, m.state)

	m = update(t, m, key("up"))
	assert.Equal(t, 0, m.menuIndex)

	for i := 0; i < len(menuItems)+2; i++ {
		m = update(t, m, key("down"))
	}
	assert.Equal(t, len(menuItems)-1, m.menuIndex)

	m = update(t, m, key("k"))
	assert.Equal(t, len(menuItems)-2, m.menuIndex)
}

func TestMenuSelectFilePicker(t *testing.T) {
	m := New()
	m = update(t, m, key("down"))
	m = update(t, m, key("enter"))

	assert.Equal(t, StateFilePicker, m.state)
	assert.Equal(t, converter.FormatMIDI, m.conversion.FromFormat)
	assert.Equal(t, []string{".mid", ".midi"}, m.filePicker.AllowedTypes)
	assert.Contains(t, m.View(), "SELECT MIDI FILE")

	m = update(t, m, key("esc"))
	assert.Equal(t, StateMenu, m.state)
}

func TestInspect(t *testing.T) {
	m := New()
	m = update(t, m, key("down"))
	m = update(t, m, key("down"))
	m = update(t, m, key("enter"))
	require.Equal(t, StateInput, m.state)

	m.input.SetValue("Tune:d=8,o=5,b=120:c,e,4.g,p")
	m = update(t, m, key("enter"))

	require.Equal(t, StateInspect, m.state)
	require.NoError(t, m.err)
	require.NotNil(t, m.sequence)
	assert.Equal(t, 4, m.sequence.Len())
	assert.Equal(t, "Tune:o=5,d=8,b=120:c,e,4g.,p", m.canonical)

	view := m.View()
	assert.Contains(t, view, "TUNE")
	assert.Contains(t, view, "rest")
	assert.Contains(t, view, "120 bpm")

	m = update(t, m, key("enter"))
	assert.Equal(t, StateMenu, m.state)
	assert.Nil(t, m.sequence)
}

func TestInspectError(t *testing.T) {
	m := New()
	m.state = StateInput
	m.input.SetValue("Tune:d=8:c,x5")
	m = update(t, m, key("enter"))

	require.Equal(t, StateInspect, m.state)
	require.Error(t, m.err)
	assert.Contains(t, m.View(), "PARSE ERROR")
}

func TestPerformConversion(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "tune.rtttl")
	require.NoError(t, os.WriteFile(input, []byte("Tune:d=8,o=5,b=120:c,e,g\n"), 0644))

	m := New()
	m.selectedFile = input
	m.conversion = menuItems[0]

	msg := m.performConversion()()
	done, ok := msg.(conversionDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.err)
	assert.Equal(t, filepath.Join(dir, "tune.mid"), done.outputFile)

	data, err := os.ReadFile(done.outputFile)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "MThd"))

	m.state = StateConverting
	m = update(t, m, done)
	assert.Equal(t, StateResult, m.state)
	assert.Contains(t, m.View(), "tune.mid")
}

func TestPerformConversionMissingFile(t *testing.T) {
	m := New()
	m.selectedFile = filepath.Join(t.TempDir(), "missing.rtttl")
	m.conversion = menuItems[0]

	done := m.performConversion()().(conversionDoneMsg)
	assert.Error(t, done.err)
}

func TestExit(t *testing.T) {
	m := New()
	m.menuIndex = len(menuItems) - 1
	_, cmd := m.Update(key("enter"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

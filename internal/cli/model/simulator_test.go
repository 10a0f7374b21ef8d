package model

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benchview/benchview/internal/bridge"
)

type fakePublisher struct {
	published []bridge.Command
	count     int
}

func (f *fakePublisher) Publish(cmd bridge.Command) (int, error) {
	f.published = append(f.published, cmd)
	return f.count, nil
}

func (f *fakePublisher) SubscriberCount() int { return f.count }

func key(s string) tea.KeyMsg {
	if len(s) == 1 {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func step(t *testing.T, m tea.Model, msg tea.Msg) SimulatorModel {
	t.Helper()
	next, _ := m.Update(msg)
	sim, ok := next.(SimulatorModel)
	require.True(t, ok)
	return sim
}

func TestSimulatorPublishesTogglePanel(t *testing.T) {
	pub := &fakePublisher{count: 2}
	m := NewSimulatorModel(pub)

	m = step(t, m, key("enter")) // first preset is toggle panel

	require.Len(t, pub.published, 1)
	assert.IsType(t, bridge.TogglePanel{}, pub.published[0])
	assert.Equal(t, 1, m.published)
	assert.Equal(t, 2, m.reached)
	assert.Equal(t, "togglePanel", m.lastCmd)
}

func TestSimulatorCollectsURLArgument(t *testing.T) {
	pub := &fakePublisher{}
	m := NewSimulatorModel(pub)

	m = step(t, m, key("down")) // open url
	m = step(t, m, key("enter"))
	require.True(t, m.entering)

	for _, r := range "wikipedia.org" {
		m = step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	m = step(t, m, key("enter"))

	require.Len(t, pub.published, 1)
	setURL, ok := pub.published[0].(bridge.SetURL)
	require.True(t, ok)
	assert.Equal(t, "https://wikipedia.org", setURL.URL)
	assert.False(t, m.entering)
}

func TestSimulatorRejectsBadSplit(t *testing.T) {
	pub := &fakePublisher{}
	m := NewSimulatorModel(pub)

	m = step(t, m, key("down"))
	m = step(t, m, key("down")) // set split
	m = step(t, m, key("enter"))
	require.True(t, m.entering)

	m = step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	m = step(t, m, key("enter"))

	assert.Empty(t, pub.published)
	assert.Error(t, m.err)
}

func TestSimulatorEscCancelsInput(t *testing.T) {
	pub := &fakePublisher{}
	m := NewSimulatorModel(pub)

	m = step(t, m, key("down"))
	m = step(t, m, key("enter"))
	require.True(t, m.entering)

	m = step(t, m, key("esc"))
	assert.False(t, m.entering)
	assert.Empty(t, pub.published)
}

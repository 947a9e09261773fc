package adapters

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"suggestbox/internal/domain"
)

func TestTextFieldTracksInput(t *testing.T) {
	f := NewTextField("word", "Word", "type", func() domain.Rect { return domain.Rect{X: 2, Y: 3, Width: 20, Height: 1} })
	f.Focus()

	f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("ap")})

	assert.Equal(t, "word", f.ID())
	assert.Equal(t, "ap", f.Value())
	assert.True(t, f.Focused())
	assert.Equal(t, 3, f.Bounds().Y)

	f.Blur()
	assert.False(t, f.Focused())
}

func TestTextFieldIgnoresKeysWhenBlurred(t *testing.T) {
	f := NewTextField("word", "Word", "", nil)

	f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})

	assert.Empty(t, f.Value())
	assert.Equal(t, domain.Rect{}, f.Bounds())
}

func TestSetValueMovesCursorToEnd(t *testing.T) {
	f := NewTextField("word", "Word", "", nil)
	f.Focus()
	f.SetValue("apple")

	f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	assert.Equal(t, "apples", f.Value())
}

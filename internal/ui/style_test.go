package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func TestSelectedRowIsHighlighted(t *testing.T) {
	prev := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.TrueColor)
	t.Cleanup(func() { lipgloss.SetColorProfile(prev) })

	m := loaded(t)
	first := renderTable(m.view(), 0)
	second := renderTable(m.view(), 1)

	assert.Contains(t, first, "\x1b[")
	assert.NotEqual(t, first, second)
}

func TestSelectedCardUsesAccentBorder(t *testing.T) {
	prev := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.TrueColor)
	t.Cleanup(func() { lipgloss.SetColorProfile(prev) })

	m := loaded(t)
	m.Update(tea.WindowSizeMsg{Width: 60, Height: 40})
	cards := renderCards(m.view(), 0, 60)
	assert.Equal(t, 3, strings.Count(cards, "╭"))
	assert.NotEqual(t, cards, renderCards(m.view(), 2, 60))
}

func TestPlainMarkdown(t *testing.T) {
	out := PlainMarkdown("# Título\n\nTexto **forte** aqui")
	assert.NotContains(t, out, "#")
	assert.NotContains(t, out, "**")
	assert.Contains(t, out, "Título")
	assert.Contains(t, out, "forte")
}

func TestRenderMarkdown(t *testing.T) {
	out, err := RenderMarkdown("# Hello")
	assert.NoError(t, err)
	assert.Contains(t, out, "Hello")
}

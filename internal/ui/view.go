package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Alia5/padnav/pkg/surface"
)

const paletteMaxMatches = 6

var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)
	itemStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("249"))
	focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	modalStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("33")).
			Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("padnav demo dashboard"))
	b.WriteString("  ")
	if m.connected {
		b.WriteString(infoStyle.Render("[pad connected]"))
	} else {
		b.WriteString(dimStyle.Render("[pad disconnected]"))
	}
	if m.menuOpen {
		b.WriteString("  " + infoStyle.Render("[menu]"))
	}
	b.WriteString("\n\n")

	b.WriteString(m.renderControls())
	b.WriteString(m.renderRows())

	if overlay := m.openOverlay(); overlay != nil {
		b.WriteString("\n")
		b.WriteString(m.renderModal(overlay))
	}

	if m.cursorOn {
		b.WriteString(dimStyle.Render(fmt.Sprintf("\ncursor at %.0f,%.0f", m.cursorX, m.cursorY)))
		b.WriteString("\n")
	}
	if m.lastClick != "" {
		b.WriteString(infoStyle.Render("\nclicked: " + m.lastClick))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.paletteOpen {
		b.WriteString(m.renderPalette())
	} else {
		b.WriteString(footerStyle.Render("arrows move · enter confirm · esc cancel · m menu · wasd cursor · b boost · / jump · q quit"))
	}
	b.WriteString("\n")
	return b.String()
}

func (m *Model) renderControls() string {
	var parts []string
	for _, n := range m.dash.NavLinks() {
		parts = append(parts, m.renderNode(n))
	}
	for _, n := range m.dash.HeaderButtons() {
		parts = append(parts, m.renderNode(n))
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "  ") + "\n\n"
}

func (m *Model) renderRows() string {
	var b strings.Builder
	for _, row := range m.dash.Rows() {
		b.WriteString(m.renderNode(row))
		for _, a := range m.dash.RowActions(row) {
			b.WriteString("  " + m.renderNode(a))
		}
		b.WriteString("\n")
	}
	if add := m.dash.AddControl(); add != nil {
		b.WriteString(m.renderNode(add))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) openOverlay() surface.Node {
	for _, o := range m.dash.Overlays() {
		if o.Visible() && !o.Bounds().Empty() {
			return o
		}
	}
	return nil
}

func (m *Model) renderModal(overlay surface.Node) string {
	var lines []string
	lines = append(lines, headerStyle.Render(overlay.Label()))
	var cards []string
	for _, c := range m.dash.GridOptions(overlay) {
		cards = append(cards, m.renderNode(c))
	}
	if len(cards) > 0 {
		lines = append(lines, strings.Join(cards, "  "))
	}
	var controls []string
	for _, c := range m.dash.Within(overlay) {
		controls = append(controls, m.renderNode(c))
	}
	if len(controls) > 0 {
		lines = append(lines, strings.Join(controls, "  "))
	}
	return modalStyle.Render(strings.Join(lines, "\n")) + "\n"
}

func (m *Model) renderNode(n surface.Node) string {
	label := "[" + n.Label() + "]"
	if n == m.focused {
		return focusedStyle.Render(label)
	}
	return itemStyle.Render(label)
}

func (m *Model) renderPalette() string {
	var b strings.Builder
	b.WriteString(infoStyle.Render("jump> ") + m.paletteQuery + "▏\n")
	for _, label := range m.paletteMatches(paletteMaxMatches) {
		b.WriteString(dimStyle.Render("  " + label))
		b.WriteString("\n")
	}
	return b.String()
}

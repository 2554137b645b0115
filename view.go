package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/esuji5/uchiwa-generator/internal/export"
	"github.com/esuji5/uchiwa-generator/internal/interact"
	"github.com/esuji5/uchiwa-generator/internal/scene"
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	titleStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Faint(true)
)

func (m model) View() string {
	if m.help {
		return m.helpView()
	}

	g := m.grid()
	selected := ""
	if m.hasSelection {
		selected = m.selected.ID
	}
	cells := paintCanvas(g, m.surface.DisplayList(), selected)

	var result strings.Builder
	for i, line := range renderCells(cells, g.originX) {
		if i > 0 {
			result.WriteString("\n")
		}
		result.WriteString(line)
	}

	if m.mode == ModeEditing {
		result.WriteString("\n")
		result.WriteString(m.editor.View())
	}

	result.WriteString("\n")
	result.WriteString(m.statusLine())
	return result.String()
}

func (m model) modeString() string {
	switch m.mode {
	case ModeNormal:
		return "NORMAL"
	case ModeEditing:
		return "EDIT"
	case ModeConfirm:
		return "CONFIRM"
	default:
		return "UNKNOWN"
	}
}

func (m model) statusLine() string {
	switch m.mode {
	case ModeEditing:
		return fmt.Sprintf("Mode: EDIT | %s | Enter=newline, Ctrl+S=save, Esc=cancel", m.selectionLabel())
	case ModeConfirm:
		var message string
		switch m.confirmAction {
		case ConfirmReset:
			message = scene.ResetPrompt + " (y/n)"
		case ConfirmClearDecorations:
			message = "Remove all shapes? (y/n)"
		case ConfirmQuit:
			message = "Quit uchiwa? (y/n)"
		}
		return fmt.Sprintf("Mode: CONFIRM | %s", message)
	}

	settings := m.scene.Settings()
	status := fmt.Sprintf("Mode: %s | Selected: %s | Fill: %s | BG: %s",
		m.modeString(), m.selectionLabel(), settings.FillMode, settings.BackgroundColor)
	if m.hasSelection && m.selected.Kind == interact.KindText {
		if t, ok := m.scene.TextItem(m.selected.ID); ok {
			status += fmt.Sprintf(" | %.0fpx %+.0f° %s", t.FontSize, t.Rotate, t.OutlineType)
		}
	}
	if m.pipeline.Busy() || m.exportState != export.Idle && m.exportState != export.Failed {
		status += " | " + pendingStyle.Render("Export: "+m.exportState.String())
	}
	if m.status.successMessage != "" {
		status += " | " + successStyle.Render(m.status.successMessage)
	}
	if m.status.errorMessage != "" {
		status += " | " + errorStyle.Render("ERROR: "+m.status.errorMessage)
	} else if m.status.successMessage == "" {
		status += " | " + mutedStyle.Render("? for help | q to quit")
	}
	return status
}

func (m model) helpLines() []string {
	lines := []string{
		titleStyle.Render("Uchiwa Help"),
		"===========",
		"",
		"Click an item to select it, drag it to move it. Click × on a shape to delete it.",
		"Shift+h/j/k/l moves the selected item 2x faster.",
		"",
	}
	for _, section := range m.keys.sections() {
		lines = append(lines, section.title+":", strings.Repeat("-", len(section.title)+1))
		for _, b := range section.bindings {
			h := b.Help()
			lines = append(lines, fmt.Sprintf("  %-16s %s", h.Key, h.Desc))
		}
		lines = append(lines, "")
	}
	lines = append(lines,
		"Edit mode:",
		"----------",
		"  Enter            New line",
		"  Ctrl+S           Save text and return to normal mode",
		"  Esc              Cancel edit",
	)
	return lines
}

func (m model) helpView() string {
	helpLines := m.helpLines()

	visibleHeight := m.height - 1
	if visibleHeight < 1 {
		visibleHeight = 1
	}

	startLine := m.helpScroll
	if startLine > len(helpLines)-visibleHeight {
		startLine = max(0, len(helpLines)-visibleHeight)
	}
	endLine := min(startLine+visibleHeight, len(helpLines))

	result := strings.Join(helpLines[startLine:endLine], "\n")
	statusLine := fmt.Sprintf("Help (%d-%d of %d lines) | j/k to scroll, Esc to close",
		startLine+1, endLine, len(helpLines))
	return result + "\n" + statusLine
}

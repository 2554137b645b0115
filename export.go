package main

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/esuji5/uchiwa-generator/internal/export"
	"github.com/esuji5/uchiwa-generator/internal/scene"
	"github.com/esuji5/uchiwa-generator/internal/sharecode"
)

// exportPNG starts a PNG export. The pipeline reports its progress through
// the program; the command's result only says where the file went.
func (m *model) exportPNG() tea.Cmd {
	if m.pipeline.Busy() {
		m.status.Notify("Export already running")
		return nil
	}
	m.status.success("Exporting...")
	pipeline := m.pipeline
	return func() tea.Msg {
		path, err := pipeline.Export(context.Background())
		return exportDoneMsg{path: path, err: err}
	}
}

// exportSVG writes the SVG file. It waits for a running PNG export, which
// owns the surface's export mode until it finishes.
func (m *model) exportSVG() {
	if m.pipeline.Busy() {
		m.status.Notify("Export already running")
		return
	}
	path, err := m.sink.SaveSVG(export.DefaultSVGFilename, m.surface)
	if err != nil {
		m.status.Notify(fmt.Sprintf("SVG export failed: %v", err))
		return
	}
	m.status.success(fmt.Sprintf("Saved %s", path))
}

func (m *model) handleExportDone(msg exportDoneMsg) {
	switch {
	case msg.err == nil:
		m.status.success(fmt.Sprintf("Saved %s", msg.path))
	case errors.Is(msg.err, export.ErrBusy):
		m.status.Notify("Export already running")
	default:
		// The pipeline has already put its failure notice on the status line.
		if m.status.errorMessage == "" {
			m.status.Notify("Image export failed: " + msg.err.Error())
		}
	}
}

// copyShareURL puts the share link for the current scene on the clipboard.
// With paramsOnly set only the "?state=..." part is copied.
func (m *model) copyShareURL(paramsOnly bool) {
	snapshot := m.scene.Snapshot()
	var (
		text string
		err  error
	)
	if paramsOnly {
		text, err = sharecode.ParamsOnly(snapshot)
	} else {
		text, err = sharecode.ShareURL(m.config.BaseURL, snapshot)
	}
	if err != nil {
		m.status.Notify(fmt.Sprintf("Could not build share link: %v", err))
		return
	}
	if err := clipboardWrite(text); err != nil {
		m.status.Notify(fmt.Sprintf("Clipboard copy failed: %v", err))
		return
	}
	if paramsOnly {
		m.status.success("Parameters copied to clipboard")
	} else {
		m.status.success("Share URL copied to clipboard")
	}
}

// pasteText replaces the selected text item's text with the clipboard
// contents.
func (m *model) pasteText() {
	item, ok := m.selectedText()
	if !ok {
		m.status.Notify("Select a text item to paste into")
		return
	}
	raw, err := clipboardRead()
	if err != nil {
		m.status.Notify(fmt.Sprintf("Clipboard read failed: %v", err))
		return
	}
	text := cleanClipboardText(raw)
	if text == "" {
		m.status.Notify("Clipboard is empty")
		return
	}
	m.mutate(func() { m.scene.UpdateTextItem(item.ID, scene.TextPatch{Text: &text}) })
	m.status.success("Pasted")
}

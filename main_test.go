package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/esuji5/uchiwa-generator/internal/export"
	"github.com/esuji5/uchiwa-generator/internal/fonts"
	"github.com/esuji5/uchiwa-generator/internal/interact"
	"github.com/esuji5/uchiwa-generator/internal/render"
	"github.com/esuji5/uchiwa-generator/internal/scene"
	"github.com/esuji5/uchiwa-generator/internal/sharecode"
)

func testConfig(t *testing.T) *Config {
	t.Helper()
	return &Config{
		SaveDirectory: t.TempDir(),
		DataDirectory: t.TempDir(),
		FontTimeout:   time.Second,
		BaseURL:       defaultBaseURL,
		Confirmations: true,
	}
}

func newTestModel(t *testing.T, config *Config, address string) model {
	t.Helper()
	registry := fonts.NewRegistry(context.Background(), "", nil)
	m := newModel(config, mustAddress(t, address), registry, func(tea.Msg) {})
	t.Cleanup(m.close)
	return m
}

func update(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(model)
}

// press sends each key as a rune key press.
func press(t *testing.T, m model, keys ...string) model {
	t.Helper()
	for _, k := range keys {
		m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
	}
	return m
}

func selected(t *testing.T, m model) scene.TextItem {
	t.Helper()
	item, ok := m.selectedText()
	if !ok {
		t.Fatal("no text item selected")
	}
	return item
}

func TestAddTextUndoRedo(t *testing.T) {
	m := newTestModel(t, testConfig(t), "")
	if got := len(m.scene.Texts()); got != 1 {
		t.Fatalf("starting texts = %d, want 1", got)
	}

	m = press(t, m, "t")
	if got := len(m.scene.Texts()); got != 2 {
		t.Fatalf("texts after add = %d, want 2", got)
	}
	if item := selected(t, m); item.X != 180 || item.Y != 110 {
		t.Errorf("new item at %v,%v, want the top preset 180,110", item.X, item.Y)
	}

	m = press(t, m, "u")
	if got := len(m.scene.Texts()); got != 1 {
		t.Errorf("texts after undo = %d, want 1", got)
	}
	if m.selectionLabel() != "Text 1" {
		t.Errorf("selection after undo = %q, want Text 1", m.selectionLabel())
	}
	m = press(t, m, "U")
	if got := len(m.scene.Texts()); got != 2 {
		t.Errorf("texts after redo = %d, want 2", got)
	}
}

func TestNudgeSelected(t *testing.T) {
	m := newTestModel(t, testConfig(t), "")
	m = press(t, m, "l")
	if got := selected(t, m).X; got != 184 {
		t.Errorf("X after l = %v, want 184", got)
	}
	m = press(t, m, "L")
	if got := selected(t, m).X; got != 192 {
		t.Errorf("X after L = %v, want 192", got)
	}
	m = press(t, m, "k")
	if got := selected(t, m).Y; got != 176 {
		t.Errorf("Y after k = %v, want 176", got)
	}
	if got := len(m.undoStack); got != 3 {
		t.Errorf("undo steps = %d, want 3", got)
	}
}

func TestSelectedItemEdits(t *testing.T) {
	m := newTestModel(t, testConfig(t), "")
	start := selected(t, m)

	m = press(t, m, "]", "]", "+", "o")
	item := selected(t, m)
	if item.Rotate != 10 {
		t.Errorf("Rotate = %v, want 10", item.Rotate)
	}
	if item.FontSize != start.FontSize+fontSizeStep {
		t.Errorf("FontSize = %v, want %v", item.FontSize, start.FontSize+fontSizeStep)
	}
	if item.OutlineType != start.OutlineType.Next() {
		t.Errorf("OutlineType = %v, want %v", item.OutlineType, start.OutlineType.Next())
	}

	m = press(t, m, "c")
	if got := selected(t, m).Color; got != textColors[2] {
		t.Errorf("Color = %q, want the swatch after the default %q", got, textColors[2])
	}

	for range 20 {
		m = press(t, m, "[")
	}
	if got := selected(t, m).Rotate; got != scene.MinTextRotate {
		t.Errorf("Rotate = %v, want it held at %v", got, scene.MinTextRotate)
	}

	m = press(t, m, "d")
	if got := m.status.errorMessage; got != "The last text item cannot be deleted" {
		t.Errorf("status = %q, want the last-item notice", got)
	}
	if got := len(m.scene.Texts()); got != 1 {
		t.Errorf("texts = %d, want 1", got)
	}
}

func TestCanvasSettingKeys(t *testing.T) {
	m := newTestModel(t, testConfig(t), "")
	m = press(t, m, "f", "b")
	settings := m.scene.Settings()
	if settings.FillMode != scene.FillAll {
		t.Errorf("FillMode = %v, want %v", settings.FillMode, scene.FillAll)
	}
	if settings.BackgroundColor != backgroundColors[1] {
		t.Errorf("BackgroundColor = %q, want %q", settings.BackgroundColor, backgroundColors[1])
	}
	m = press(t, m, "u", "u")
	if got := m.scene.Settings(); got != scene.DefaultSettings() {
		t.Errorf("settings after undo = %+v, want defaults", got)
	}
}

func TestDecorationCapacity(t *testing.T) {
	m := newTestModel(t, testConfig(t), "")
	m = press(t, m, "1", "2", "3", "4", "5")
	decos := m.scene.Decorations()
	if len(decos) != scene.MaxDecorations {
		t.Fatalf("decorations = %d, want %d", len(decos), scene.MaxDecorations)
	}
	for i, d := range decos {
		if d.Shape != scene.Palette[i].Shape || d.Color != scene.Palette[i].Color {
			t.Errorf("decoration %d = %s %s, want %s %s", i, d.Shape, d.Color, scene.Palette[i].Shape, scene.Palette[i].Color)
		}
	}
	undoDepth := len(m.undoStack)

	m = press(t, m, "1")
	if got := m.status.errorMessage; got != scene.CapacityNotice {
		t.Errorf("status = %q, want %q", got, scene.CapacityNotice)
	}
	if got := len(m.undoStack); got != undoDepth {
		t.Errorf("undo steps = %d, want %d after a refused add", got, undoDepth)
	}

	m = press(t, m, "x")
	if m.mode != ModeConfirm || m.confirmAction != ConfirmClearDecorations {
		t.Fatalf("mode = %v, want the clear confirmation", m.mode)
	}
	m = press(t, m, "y")
	if got := len(m.scene.Decorations()); got != 0 {
		t.Errorf("decorations after clear = %d, want 0", got)
	}
}

func TestScatterDecorations(t *testing.T) {
	m := newTestModel(t, testConfig(t), "")
	m = press(t, m, "r")
	if got := len(m.scene.Decorations()); got != scene.MaxDecorations {
		t.Errorf("decorations = %d, want %d", got, scene.MaxDecorations)
	}
	if !strings.HasPrefix(m.status.successMessage, "Added ") {
		t.Errorf("status = %q, want the added count", m.status.successMessage)
	}
	m = press(t, m, "u")
	if got := len(m.scene.Decorations()); got != 0 {
		t.Errorf("decorations after undo = %d, want 0", got)
	}
}

func TestMouseDrag(t *testing.T) {
	m := newTestModel(t, testConfig(t), "")
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 41})

	m = update(t, m, tea.MouseMsg{X: 50, Y: 20, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if _, dragging := m.drag.Active(); !dragging {
		t.Fatal("press on the text did not start a drag")
	}
	m = update(t, m, tea.MouseMsg{X: 60, Y: 25, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m = update(t, m, tea.MouseMsg{X: 60, Y: 25, Action: tea.MouseActionRelease, Button: tea.MouseButtonNone})

	item := selected(t, m)
	if item.X != 225 || item.Y != 225 {
		t.Errorf("dragged to %v,%v, want 225,225", item.X, item.Y)
	}
	if _, dragging := m.drag.Active(); dragging {
		t.Error("drag still active after release")
	}
	if got := m.doc.Listeners(); got != 0 {
		t.Errorf("listeners after release = %d, want 0", got)
	}

	m = press(t, m, "u")
	if item := selected(t, m); item.X != 180 || item.Y != 180 {
		t.Errorf("after undo at %v,%v, want 180,180", item.X, item.Y)
	}
}

func TestMouseDeleteButton(t *testing.T) {
	m := newTestModel(t, testConfig(t), "")
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 41})
	m = press(t, m, "1")
	d, ok := m.selectedDecoration()
	if !ok || d.X != 180 || d.Y != 200 {
		t.Fatalf("selected decoration = %+v, want the new heart at 180,200", d)
	}

	m = update(t, m, tea.MouseMsg{X: 53, Y: 20, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if got := len(m.scene.Decorations()); got != 0 {
		t.Errorf("decorations = %d, want 0 after clicking ×", got)
	}
	if _, dragging := m.drag.Active(); dragging {
		t.Error("delete click started a drag")
	}
	if m.selected.Kind != interact.KindText {
		t.Errorf("selection = %q, want it back on the text", m.selectionLabel())
	}
}

func TestMousePressOffCanvas(t *testing.T) {
	m := newTestModel(t, testConfig(t), "")
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 41})
	m = update(t, m, tea.MouseMsg{X: 2, Y: 20, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if !m.hasSelection {
		t.Error("press outside the canvas dropped the selection")
	}
	m = update(t, m, tea.MouseMsg{X: 12, Y: 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if m.hasSelection {
		t.Error("press on empty canvas kept the selection")
	}
}

func TestResetConfirmation(t *testing.T) {
	token := mustToken(t, scene.Scene{
		Texts:    []scene.TextItem{{Text: "ピース", X: 100, Y: 100, FontSize: 50}},
		Settings: scene.Settings{BackgroundColor: "#1976d2", FillMode: scene.FillAll},
	})
	m := newTestModel(t, testConfig(t), "https://uchiwa.example/?ref=x&state="+token)
	if got := selected(t, m).Text; got != "ピース" {
		t.Fatalf("text = %q, want the shared scene", got)
	}

	m = press(t, m, "X")
	if m.mode != ModeConfirm {
		t.Fatalf("mode = %v, want confirm", m.mode)
	}
	if !strings.Contains(m.statusLine(), scene.ResetPrompt) {
		t.Errorf("status line = %q, want the reset prompt", m.statusLine())
	}
	m = press(t, m, "n")
	if got := selected(t, m).Text; got != "ピース" {
		t.Errorf("text = %q after declining, want it kept", got)
	}
	if _, ok := m.address.StateToken(); !ok {
		t.Error("declined reset cleared the address token")
	}

	m = press(t, m, "X", "y")
	if got := selected(t, m).Text; got != scene.DefaultText {
		t.Errorf("text = %q after reset, want %q", got, scene.DefaultText)
	}
	if got := m.scene.Settings(); got != scene.DefaultSettings() {
		t.Errorf("settings = %+v after reset, want defaults", got)
	}
	if got := m.address.String(); got != "https://uchiwa.example/?ref=x" {
		t.Errorf("address = %q, want the token dropped", got)
	}

	m = press(t, m, "u")
	if got := selected(t, m).Text; got != "ピース" {
		t.Errorf("text = %q after undoing the reset, want ピース", got)
	}
}

func TestQuitConfirmation(t *testing.T) {
	m := newTestModel(t, testConfig(t), "")
	m = press(t, m, "q")
	if m.mode != ModeConfirm || m.confirmAction != ConfirmQuit {
		t.Fatalf("mode = %v, want the quit confirmation", m.mode)
	}
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	if cmd == nil {
		t.Fatal("confirming quit returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("confirming quit did not quit")
	}
	if next.(model).mode != ModeNormal {
		t.Error("mode not restored after the prompt")
	}
}

func TestCopyShareURL(t *testing.T) {
	var copied string
	orig := clipboardWrite
	clipboardWrite = func(s string) error { copied = s; return nil }
	t.Cleanup(func() { clipboardWrite = orig })

	m := newTestModel(t, testConfig(t), "")
	m = press(t, m, "y")
	prefix := defaultBaseURL + "?" + sharecode.Param + "="
	if !strings.HasPrefix(copied, prefix) {
		t.Fatalf("copied %q, want a %s link", copied, prefix)
	}
	got, err := sharecode.Decode(strings.TrimPrefix(copied, prefix))
	if err != nil {
		t.Fatal(err)
	}
	if !got.SameContent(m.scene.Snapshot()) {
		t.Errorf("shared scene = %+v, want %+v", got, m.scene.Snapshot())
	}
	if m.status.successMessage != "Share URL copied to clipboard" {
		t.Errorf("status = %q", m.status.successMessage)
	}

	m = press(t, m, "Y")
	if !strings.HasPrefix(copied, "?"+sharecode.Param+"=") {
		t.Errorf("copied %q, want parameters only", copied)
	}

	clipboardWrite = func(string) error { return errors.New("no clipboard") }
	m = press(t, m, "y")
	if got := m.status.errorMessage; got != "Clipboard copy failed: no clipboard" {
		t.Errorf("status = %q", got)
	}
}

func TestPasteText(t *testing.T) {
	orig := clipboardRead
	clipboardRead = func() (string, error) { return "<div>うちわ</div><div>最高</div>", nil }
	t.Cleanup(func() { clipboardRead = orig })

	m := newTestModel(t, testConfig(t), "")
	m = press(t, m, "p")
	if got := selected(t, m).Text; got != "うちわ\n最高" {
		t.Errorf("text = %q, want the pasted lines", got)
	}
	// pasting the same text again records no undo step
	m = press(t, m, "p")
	if got := len(m.undoStack); got != 1 {
		t.Errorf("undo depth = %d after a repeated paste, want 1", got)
	}
	m = press(t, m, "u")
	if got := selected(t, m).Text; got != scene.DefaultText {
		t.Errorf("text after undo = %q, want %q", got, scene.DefaultText)
	}

	clipboardRead = func() (string, error) { return "\r\n", nil }
	m = press(t, m, "p")
	if got := m.status.errorMessage; got != "Clipboard is empty" {
		t.Errorf("status = %q, want the empty clipboard notice", got)
	}
}

func TestEditText(t *testing.T) {
	m := newTestModel(t, testConfig(t), "")
	m = press(t, m, "e")
	if m.mode != ModeEditing {
		t.Fatalf("mode = %v, want editing", m.mode)
	}
	if got := m.editor.Value(); got != scene.DefaultText {
		t.Errorf("editor = %q, want the current text", got)
	}

	m.editor.SetValue("うちわ\nだいすき")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.mode != ModeNormal {
		t.Errorf("mode = %v after save, want normal", m.mode)
	}
	if got := selected(t, m).Text; got != "うちわ\nだいすき" {
		t.Errorf("text = %q after save", got)
	}

	m = press(t, m, "e")
	m.editor.SetValue("discarded")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if got := selected(t, m).Text; got != "うちわ\nだいすき" {
		t.Errorf("text = %q after cancel, want it unchanged", got)
	}
}

func TestExportDone(t *testing.T) {
	tests := []struct {
		name        string
		msg         exportDoneMsg
		preset      string
		wantError   string
		wantSuccess string
	}{
		{"saved", exportDoneMsg{path: "out/uchiwa.png"}, "", "", "Saved out/uchiwa.png"},
		{"busy", exportDoneMsg{err: export.ErrBusy}, "", "Export already running", ""},
		{"failure already shown", exportDoneMsg{err: export.ErrSave}, "Image export failed: disk full", "Image export failed: disk full", ""},
		{"failure", exportDoneMsg{err: export.ErrSave}, "", "Image export failed: " + export.ErrSave.Error(), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t, testConfig(t), "")
			if tt.preset != "" {
				m = update(t, m, noticeMsg(tt.preset))
			}
			m = update(t, m, tt.msg)
			if m.status.errorMessage != tt.wantError {
				t.Errorf("error = %q, want %q", m.status.errorMessage, tt.wantError)
			}
			if m.status.successMessage != tt.wantSuccess {
				t.Errorf("success = %q, want %q", m.status.successMessage, tt.wantSuccess)
			}
		})
	}
}

func TestExportFiles(t *testing.T) {
	config := testConfig(t)
	config.ExportName = "fan.png"
	m := newTestModel(t, config, "")
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 41})

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	m = next.(model)
	if cmd == nil {
		t.Fatal("export key returned no command")
	}
	m = update(t, m, cmd())
	want := filepath.Join(config.SaveDirectory, "fan.png")
	if m.status.successMessage != "Saved "+want {
		t.Errorf("status = %q, want Saved %s", m.status.successMessage, want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("PNG not written: %v", err)
	}
	if p := m.surface.Presentation(); p.Width != 80 || p.Height != 40 {
		t.Errorf("presentation = %+v after export, want it restored", p)
	}

	m = press(t, m, "S")
	svg, err := os.ReadFile(filepath.Join(config.SaveDirectory, export.DefaultSVGFilename))
	if err != nil {
		t.Fatalf("SVG not written: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Errorf("SVG file does not hold an svg document")
	}
	if m.surface.Exporting() {
		t.Error("surface left in export mode")
	}
}

// heldFonts keeps an export waiting on fonts until release is closed.
type heldFonts struct{ release chan struct{} }

func (f heldFonts) Ready(ctx context.Context) error {
	select {
	case <-f.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func TestSVGExportWaitsForPNG(t *testing.T) {
	config := testConfig(t)
	m := newTestModel(t, config, "")
	fonts := heldFonts{release: make(chan struct{})}
	surface := m.surface
	m.pipeline = export.New(
		func() export.Surface { return surface },
		fonts,
		render.NewRasterizer(nil),
		m.sink,
		export.WithFontTimeout(time.Minute),
	)

	done := make(chan error, 1)
	go func() {
		_, err := m.pipeline.Export(context.Background())
		done <- err
	}()
	deadline := time.Now().Add(5 * time.Second)
	for !surface.Exporting() {
		if time.Now().After(deadline) {
			t.Fatal("PNG export never started")
		}
		time.Sleep(time.Millisecond)
	}

	m = press(t, m, "S")
	if got := m.status.errorMessage; got != "Export already running" {
		t.Errorf("status = %q, want the busy notice", got)
	}
	if !surface.Exporting() {
		t.Error("SVG export took the surface out of export mode")
	}
	if _, err := os.Stat(filepath.Join(config.SaveDirectory, export.DefaultSVGFilename)); !os.IsNotExist(err) {
		t.Errorf("SVG written during a PNG export: %v", err)
	}

	close(fonts.release)
	if err := <-done; err != nil {
		t.Fatalf("PNG export: %v", err)
	}
	m = press(t, m, "S")
	if _, err := os.Stat(filepath.Join(config.SaveDirectory, export.DefaultSVGFilename)); err != nil {
		t.Errorf("SVG not written once the PNG export finished: %v", err)
	}
}

func TestPersistAcrossSessions(t *testing.T) {
	config := testConfig(t)
	first := newTestModel(t, config, "")
	first = press(t, first, "t", "2")
	first.close()

	second := newTestModel(t, config, "")
	if got := len(second.scene.Texts()); got != 2 {
		t.Errorf("texts = %d, want 2 restored", got)
	}
	decos := second.scene.Decorations()
	if len(decos) != 1 || decos[0].Shape != scene.ShapeStar {
		t.Errorf("decorations = %+v, want one star", decos)
	}
	if got := second.scene.Settings(); got != scene.DefaultSettings() {
		t.Errorf("settings = %+v, want defaults since they are not stored", got)
	}
}

func TestHelpView(t *testing.T) {
	m := newTestModel(t, testConfig(t), "")
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 10})
	m = press(t, m, "?")
	if !m.help {
		t.Fatal("help not shown")
	}
	view := m.View()
	if !strings.Contains(view, "Help (1-9 of") {
		t.Errorf("help view status missing: %q", view)
	}
	m = press(t, m, "j")
	if m.helpScroll != 1 {
		t.Errorf("helpScroll = %d, want 1", m.helpScroll)
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.help {
		t.Error("esc did not close help")
	}
}

func TestCycleSelection(t *testing.T) {
	m := newTestModel(t, testConfig(t), "")
	m = press(t, m, "t", "1")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if got := m.selectionLabel(); got != "Text 1" {
		t.Errorf("after tab = %q, want Text 1 (wrapped)", got)
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if got := m.selectionLabel(); got != "heart 1" {
		t.Errorf("after shift+tab = %q, want heart 1", got)
	}
}

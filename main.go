package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/esuji5/uchiwa-generator/internal/export"
	"github.com/esuji5/uchiwa-generator/internal/fonts"
	"github.com/esuji5/uchiwa-generator/internal/interact"
	"github.com/esuji5/uchiwa-generator/internal/render"
	"github.com/esuji5/uchiwa-generator/internal/scene"
	"github.com/esuji5/uchiwa-generator/internal/sharecode"
	"github.com/esuji5/uchiwa-generator/internal/store/jsonstore"
)

func main() {
	stateFlag := flag.String("state", "", "share token to open")
	urlFlag := flag.String("url", "", "share URL to open")
	configFlag := flag.String("config", "", "config file (default ~/.uchiwarc)")
	flag.Parse()

	if os.Getenv("UCHIWA_DEBUG") != "" {
		f, err := tea.LogToFile("uchiwa-debug.log", "")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	address, err := openAddress(*urlFlag, *stateFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	config := loadConfig(*configFlag)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	registry := fonts.NewRegistry(ctx, config.FontDirectory, log.New(log.Writer(), "[fonts] ", log.LstdFlags))

	var p *tea.Program
	send := func(msg tea.Msg) {
		if p != nil {
			p.Send(msg)
		}
	}
	m := newModel(config, address, registry, send)
	p = tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err = p.Run()
	m.close()
	if err != nil {
		log.Fatal(err)
	}
}

// openAddress builds the session's address from the -url and -state flags.
// A bare token given with -state is carried as the state parameter.
func openAddress(rawURL, token string) (*sharecode.Address, error) {
	addr, err := sharecode.ParseAddress(rawURL)
	if err != nil {
		return nil, err
	}
	if token != "" {
		addr.SetState(token)
	}
	return addr, nil
}

func newModel(config *Config, address *sharecode.Address, registry *fonts.Registry, send func(tea.Msg)) model {
	st := &status{}
	opts := []scene.Option{scene.WithNotifier(st), scene.WithAddress(address)}

	var (
		store     *jsonstore.Store
		persister *jsonstore.Persister
	)
	if config.DataDirectory != "" {
		store = jsonstore.New(config.DataDirectory)
		persister = jsonstore.NewPersister(store, log.New(log.Writer(), "[store] ", log.LstdFlags))
		opts = append(opts, scene.WithObserver(persister))
	}

	sceneModel := scene.New(opts...)
	sceneModel.Replace(startScene(address, store, sceneModel.Snapshot()))

	surface := render.NewSurface()
	sink := export.FileSink{Dir: config.SaveDirectory}
	exportOpts := []export.Option{
		export.WithFontTimeout(config.FontTimeout),
		export.WithNotifier(notifyFunc(func(msg string) { send(noticeMsg(msg)) })),
		export.WithStateFunc(func(s export.State) { send(exportStateMsg(s)) }),
		export.WithLogger(log.New(log.Writer(), "[export] ", log.LstdFlags)),
	}
	if config.ExportName != "" {
		exportOpts = append(exportOpts, export.WithFilename(config.ExportName))
	}
	pipeline := export.New(
		func() export.Surface { return surface },
		registry,
		render.NewRasterizer(registry),
		sink,
		exportOpts...,
	)

	editor := textarea.New()
	editor.Placeholder = "Text..."
	editor.ShowLineNumbers = false
	editor.CharLimit = 0
	editor.SetHeight(editorHeight)

	doc := interact.NewDocument()
	m := model{
		mode:      ModeNormal,
		keys:      newKeyMap(),
		scene:     sceneModel,
		doc:       doc,
		drag:      interact.NewController(doc, sceneModel),
		surface:   surface,
		pipeline:  pipeline,
		sink:      sink,
		store:     store,
		persister: persister,
		fonts:     registry,
		address:   address,
		config:    config,
		editor:    editor,
		status:    st,
	}
	m.syncSelection()
	m.syncSurface()
	return m
}

// close ends any drag and writes pending changes.
func (m model) close() {
	m.drag.Close()
	if m.persister != nil {
		m.persister.Close()
	}
}

func (m model) Init() tea.Cmd {
	registry := m.fonts
	return func() tea.Msg {
		if err := registry.Ready(context.Background()); err != nil {
			return noticeMsg("Font loading failed: " + err.Error())
		}
		if failed := registry.Failed(); len(failed) > 0 {
			return noticeMsg(fmt.Sprintf("%d font files could not be loaded", len(failed)))
		}
		return nil
	}
}

// grid lays the canvas out in the space left by the status line and, while
// editing, the text editor.
func (m model) grid() grid {
	reserved := 1
	if m.mode == ModeEditing {
		reserved += editorHeight + 1
	}
	return layoutGrid(m.width, m.height, reserved)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.editor.SetWidth(max(20, min(72, msg.Width-2)))
		g := m.grid()
		m.surface.SetPresentation(render.Presentation{Width: g.cols, Height: g.rows})
		return m, nil

	case noticeMsg:
		m.status.Notify(string(msg))
		return m, nil

	case exportStateMsg:
		m.exportState = export.State(msg)
		return m, nil

	case exportDoneMsg:
		m.handleExportDone(msg)
		return m, nil

	case tea.MouseMsg:
		if m.mode == ModeNormal && !m.help {
			m.handleMouse(msg)
		}
		return m, nil

	case tea.KeyMsg:
		if m.help {
			return m.updateHelp(msg), nil
		}
		switch m.mode {
		case ModeEditing:
			return m.updateEditing(msg)
		case ModeConfirm:
			return m.updateConfirm(msg)
		}
		return m.updateNormal(msg)
	}

	if m.mode == ModeEditing {
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) updateHelp(msg tea.KeyMsg) model {
	switch msg.String() {
	case "esc", "q", "?":
		m.help = false
		m.helpScroll = 0
	case "j", "down":
		if m.helpScroll < len(m.helpLines())-1 {
			m.helpScroll++
		}
	case "k", "up":
		if m.helpScroll > 0 {
			m.helpScroll--
		}
	}
	return m
}

func (m model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+s":
		if t, ok := m.selectedText(); ok {
			text := m.editor.Value()
			m.mutate(func() { m.scene.UpdateTextItem(t.ID, scene.TextPatch{Text: &text}) })
		}
		m.editor.Blur()
		m.mode = ModeNormal
		return m, nil
	case "esc":
		m.editor.Blur()
		m.mode = ModeNormal
		return m, nil
	}
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var yes bool
	switch msg.String() {
	case "y", "Y":
		yes = true
	case "n", "N", "esc":
	default:
		return m, nil
	}
	m.mode = ModeNormal
	switch m.confirmAction {
	case ConfirmReset:
		m.resetAll(yes)
	case ConfirmClearDecorations:
		if yes {
			m.clearDecorations()
		}
	case ConfirmQuit:
		if yes {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *model) confirm(action ConfirmAction) {
	m.confirmAction = action
	m.mode = ModeConfirm
}

func (m model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status.clear()
	k := m.keys

	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, k.Quit):
		if m.config.Confirmations {
			m.confirm(ConfirmQuit)
			return m, nil
		}
		return m, tea.Quit
	case key.Matches(msg, k.Help):
		m.help = true
		m.helpScroll = 0

	case key.Matches(msg, k.Left, k.Right, k.Up, k.Down):
		m.handleNudge(msg.String(), m.getMoveSpeed(msg.String()))
	case key.Matches(msg, k.NextItem):
		m.cycleSelection(1)
	case key.Matches(msg, k.PrevItem):
		m.cycleSelection(-1)

	case key.Matches(msg, k.AddText):
		m.addText()
	case key.Matches(msg, k.Edit):
		t, ok := m.selectedText()
		if !ok {
			m.status.Notify("Select a text item to edit")
			return m, nil
		}
		m.editor.SetValue(t.Text)
		m.mode = ModeEditing
		return m, m.editor.Focus()
	case key.Matches(msg, k.Delete):
		m.deleteSelected()
	case key.Matches(msg, k.Paste):
		m.pasteText()
	case key.Matches(msg, k.RotateLeft):
		m.rotateSelected(-1)
	case key.Matches(msg, k.RotateRight):
		m.rotateSelected(1)
	case key.Matches(msg, k.Bigger):
		m.resizeSelected(1)
	case key.Matches(msg, k.Smaller):
		m.resizeSelected(-1)
	case key.Matches(msg, k.Outline):
		m.cycleOutline()
	case key.Matches(msg, k.Color):
		m.cycleColor()
	case key.Matches(msg, k.Font):
		m.cycleFont()

	case key.Matches(msg, k.AddShape):
		m.addShape(int(msg.Runes[0] - '1'))
	case key.Matches(msg, k.Random):
		m.scatter("")
	case key.Matches(msg, k.RandomShape):
		m.scatterSelectedShape()
	case key.Matches(msg, k.DecoSize):
		m.cycleDecorationSize()
	case key.Matches(msg, k.ClearDecos):
		if m.config.Confirmations && len(m.scene.Decorations()) > 0 {
			m.confirm(ConfirmClearDecorations)
		} else {
			m.clearDecorations()
		}

	case key.Matches(msg, k.Background):
		m.cycleBackground()
	case key.Matches(msg, k.FillMode):
		m.cycleFillMode()

	case key.Matches(msg, k.ExportPNG):
		return m, m.exportPNG()
	case key.Matches(msg, k.ExportSVG):
		m.exportSVG()
	case key.Matches(msg, k.CopyURL):
		m.copyShareURL(false)
	case key.Matches(msg, k.CopyParams):
		m.copyShareURL(true)

	case key.Matches(msg, k.Undo):
		m.undo()
	case key.Matches(msg, k.Redo):
		m.redo()
	case key.Matches(msg, k.Reset):
		if m.config.Confirmations {
			m.confirm(ConfirmReset)
		} else {
			m.resetAll(true)
		}
	case key.Matches(msg, k.Reload):
		m.reload()
		m.status.success("Reloaded")
	}
	return m, nil
}

// handleMouse feeds mouse input to hit testing and the drag controller.
func (m *model) handleMouse(msg tea.MouseMsg) {
	g := m.grid()
	ux, uy, onCanvas := g.toUnits(msg.X, msg.Y)
	ev := interact.PointerEvent{X: ux, Y: uy}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !onCanvas {
			return
		}
		m.status.clear()
		hit := interact.HitTest(m.scene.Snapshot(), ux, uy, m.surface.Exporting())
		if hit.Kind == interact.HitDeleteButton {
			m.mutate(func() { m.scene.RemoveDecoration(hit.ID) })
			return
		}
		t, ok := hit.Target()
		if !ok {
			m.hasSelection = false
			return
		}
		m.selectTarget(t)
		m.pushUndo()
		if !m.drag.PointerDown(t, ev) {
			m.dropUndo()
		}
	case tea.MouseActionMotion:
		if _, dragging := m.drag.Active(); dragging {
			m.doc.DispatchMove(ev)
			m.syncSurface()
		}
	case tea.MouseActionRelease:
		if _, dragging := m.drag.Active(); dragging {
			m.doc.DispatchUp(ev)
			m.dropUndo()
			m.syncSurface()
		}
	}
}

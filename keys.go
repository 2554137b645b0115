package main

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Left, Right, Up, Down key.Binding
	NextItem, PrevItem    key.Binding

	AddText, Edit, Delete, Paste key.Binding
	RotateLeft, RotateRight      key.Binding
	Bigger, Smaller              key.Binding
	Outline, Color, Font         key.Binding

	AddShape, Random, RandomShape, DecoSize, ClearDecos key.Binding

	Background, FillMode key.Binding

	ExportPNG, ExportSVG, CopyURL, CopyParams key.Binding

	Undo, Redo, Reset, Reload, Help, Quit key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Left:  key.NewBinding(key.WithKeys("h", "left", "H", "shift+left"), key.WithHelp("h/←", "move item left")),
		Right: key.NewBinding(key.WithKeys("l", "right", "L", "shift+right"), key.WithHelp("l/→", "move item right")),
		Up:    key.NewBinding(key.WithKeys("k", "up", "K", "shift+up"), key.WithHelp("k/↑", "move item up")),
		Down:  key.NewBinding(key.WithKeys("j", "down", "J", "shift+down"), key.WithHelp("j/↓", "move item down")),

		NextItem: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "select next item")),
		PrevItem: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "select previous item")),

		AddText:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "add text item")),
		Edit:        key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e/enter", "edit selected text")),
		Delete:      key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete selected item")),
		Paste:       key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "paste clipboard into selected text")),
		RotateLeft:  key.NewBinding(key.WithKeys("["), key.WithHelp("[", "rotate left")),
		RotateRight: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "rotate right")),
		Bigger:      key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "larger")),
		Smaller:     key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "smaller")),
		Outline:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "cycle text outline")),
		Color:       key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "cycle color")),
		Font:        key.NewBinding(key.WithKeys("F"), key.WithHelp("F", "cycle font")),

		AddShape:    key.NewBinding(key.WithKeys("1", "2", "3", "4", "5"), key.WithHelp("1-5", "add heart/star/note/sparkle/circle")),
		Random:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "scatter random shapes")),
		RandomShape: key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "scatter the selected shape")),
		DecoSize:    key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "cycle size for new shapes")),
		ClearDecos:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear all shapes")),

		Background: key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "cycle background color")),
		FillMode:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "cycle fill mode")),

		ExportPNG:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "export PNG")),
		ExportSVG:  key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "export SVG")),
		CopyURL:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy share URL")),
		CopyParams: key.NewBinding(key.WithKeys("Y"), key.WithHelp("Y", "copy share parameters only")),

		Undo:   key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo")),
		Redo:   key.NewBinding(key.WithKeys("U"), key.WithHelp("U", "redo")),
		Reset:  key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "reset everything")),
		Reload: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload from address and saved state")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle this help")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q/ctrl+c", "quit")),
	}
}

type helpSection struct {
	title    string
	bindings []key.Binding
}

func (k keyMap) sections() []helpSection {
	return []helpSection{
		{"Selection", []key.Binding{k.NextItem, k.PrevItem, k.Left, k.Right, k.Up, k.Down}},
		{"Text", []key.Binding{k.AddText, k.Edit, k.Paste, k.Outline, k.Font}},
		{"Selected item", []key.Binding{k.Delete, k.RotateLeft, k.RotateRight, k.Bigger, k.Smaller, k.Color}},
		{"Shapes", []key.Binding{k.AddShape, k.Random, k.RandomShape, k.DecoSize, k.ClearDecos}},
		{"Canvas", []key.Binding{k.Background, k.FillMode}},
		{"Share & export", []key.Binding{k.ExportPNG, k.ExportSVG, k.CopyURL, k.CopyParams}},
		{"General", []key.Binding{k.Undo, k.Redo, k.Reset, k.Reload, k.Help, k.Quit}},
	}
}

package main

import (
	"github.com/charmbracelet/bubbles/textarea"

	"github.com/esuji5/uchiwa-generator/internal/export"
	"github.com/esuji5/uchiwa-generator/internal/fonts"
	"github.com/esuji5/uchiwa-generator/internal/interact"
	"github.com/esuji5/uchiwa-generator/internal/render"
	"github.com/esuji5/uchiwa-generator/internal/scene"
	"github.com/esuji5/uchiwa-generator/internal/sharecode"
	"github.com/esuji5/uchiwa-generator/internal/store/jsonstore"
)

type model struct {
	width      int
	height     int
	mode       Mode
	help       bool
	helpScroll int
	keys       keyMap

	confirmAction ConfirmAction

	scene     *scene.Model
	doc       *interact.Document
	drag      *interact.Controller
	surface   *render.Surface
	pipeline  *export.Pipeline
	sink      export.FileSink
	store     *jsonstore.Store
	persister *jsonstore.Persister
	fonts     *fonts.Registry
	address   *sharecode.Address
	config    *Config

	selected     interact.Target
	hasSelection bool
	editor       textarea.Model

	undoStack []scene.Scene
	redoStack []scene.Scene

	// status is shared by every copy of the model so that notifiers handed
	// to the scene model keep writing to the live status line.
	status      *status
	exportState export.State
}

// status holds the one-shot messages shown in the status line.
type status struct {
	errorMessage   string
	successMessage string
}

func (s *status) Notify(msg string) {
	s.errorMessage = msg
	s.successMessage = ""
}

func (s *status) success(msg string) {
	s.successMessage = msg
	s.errorMessage = ""
}

func (s *status) clear() {
	s.errorMessage = ""
	s.successMessage = ""
}

// answer is a Confirmer whose decision was already taken in the confirm
// prompt.
type answer bool

func (a answer) Confirm(string) bool { return bool(a) }

type noticeMsg string

type exportStateMsg export.State

type exportDoneMsg struct {
	path string
	err  error
}

// notifyFunc adapts a function to the Notifier interfaces.
type notifyFunc func(msg string)

func (f notifyFunc) Notify(msg string) { f(msg) }

package main

import (
	"log"

	"github.com/esuji5/uchiwa-generator/internal/scene"
	"github.com/esuji5/uchiwa-generator/internal/sharecode"
	"github.com/esuji5/uchiwa-generator/internal/store/jsonstore"
)

// startScene works out the scene a session opens with. A token on the
// address that decodes wins: its texts when it carries any, its decorations
// and its canvas settings always. Whatever the token leaves open comes from
// the store, and after that from factory.
func startScene(addr *sharecode.Address, store *jsonstore.Store, factory scene.Scene) scene.Scene {
	out := factory.Clone()

	var (
		token   scene.Scene
		decoded bool
	)
	if raw, ok := addr.StateToken(); ok {
		s, err := sharecode.Decode(raw)
		if err != nil {
			log.Printf("[sharecode] ignoring address token: %v", err)
		} else {
			token, decoded = s, true
		}
	}

	if decoded {
		out.Settings = token.Settings
	}

	switch {
	case decoded && len(token.Texts) > 0:
		out.Texts = token.Texts
	case store != nil:
		texts, err := store.LoadTexts()
		if err != nil {
			log.Printf("[store] %v", err)
		} else if len(texts) > 0 {
			out.Texts = texts
		}
	}

	switch {
	case decoded:
		out.Decorations = token.Decorations
	case store != nil:
		decos, err := store.LoadDecorations()
		if err != nil {
			log.Printf("[store] %v", err)
		} else if decos != nil {
			out.Decorations = decos
		}
	}

	return out
}

// reload re-runs the startup precedence against the current address, as a
// page reload would. Pending writes are flushed first so the store is
// current.
func (m *model) reload() {
	if m.persister != nil {
		m.persister.Flush()
	}
	m.pushUndo()
	m.scene.Replace(startScene(m.address, m.store, scene.New().Snapshot()))
	m.syncSelection()
	m.syncSurface()
}

package main

// pushUndo records the scene as it is before a mutation. Any redo history
// is dropped.
func (m *model) pushUndo() {
	m.undoStack = append(m.undoStack, m.scene.Snapshot())
	if len(m.undoStack) > maxUndo {
		m.undoStack = m.undoStack[len(m.undoStack)-maxUndo:]
	}
	m.redoStack = m.redoStack[:0]
}

// dropUndo forgets the last recorded snapshot when the mutation it was
// taken for turned out to be a no-op.
func (m *model) dropUndo() {
	if n := len(m.undoStack); n > 0 && m.undoStack[n-1].SameContent(m.scene.Snapshot()) {
		m.undoStack = m.undoStack[:n-1]
	}
}

func (m *model) undo() {
	if len(m.undoStack) == 0 {
		return
	}

	lastIndex := len(m.undoStack) - 1
	prev := m.undoStack[lastIndex]
	m.undoStack = m.undoStack[:lastIndex]

	m.redoStack = append(m.redoStack, m.scene.Snapshot())
	m.scene.Replace(prev)
	m.syncSelection()
	m.syncSurface()
}

func (m *model) redo() {
	if len(m.redoStack) == 0 {
		return
	}

	lastIndex := len(m.redoStack) - 1
	next := m.redoStack[lastIndex]
	m.redoStack = m.redoStack[:lastIndex]

	m.undoStack = append(m.undoStack, m.scene.Snapshot())
	m.scene.Replace(next)
	m.syncSelection()
	m.syncSurface()
}

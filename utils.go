package main

import (
	"fmt"
	"html"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/esuji5/uchiwa-generator/internal/interact"
	"github.com/esuji5/uchiwa-generator/internal/scene"
)

var (
	clipboardWrite = clipboard.WriteAll
	clipboardRead  = readClipboardText
)

// syncSurface hands the current scene to the render surface.
func (m *model) syncSurface() {
	m.surface.SetScene(m.scene.Snapshot())
}

// syncSelection drops a selection whose item no longer exists and falls back
// to the first text item.
func (m *model) syncSelection() {
	if m.hasSelection {
		if _, _, ok := m.selectedPosition(); ok {
			return
		}
	}
	m.hasSelection = false
	if texts := m.scene.Texts(); len(texts) > 0 {
		m.selectTarget(interact.Target{Kind: interact.KindText, ID: texts[0].ID})
	}
}

func (m *model) selectTarget(t interact.Target) {
	m.selected = t
	m.hasSelection = true
}

// targets lists every item in drawing order, text first.
func (m *model) targets() []interact.Target {
	var out []interact.Target
	for _, t := range m.scene.Texts() {
		out = append(out, interact.Target{Kind: interact.KindText, ID: t.ID})
	}
	for _, d := range m.scene.Decorations() {
		out = append(out, interact.Target{Kind: interact.KindDecoration, ID: d.ID})
	}
	return out
}

// cycleSelection moves the selection dir steps through targets().
func (m *model) cycleSelection(dir int) {
	all := m.targets()
	if len(all) == 0 {
		m.hasSelection = false
		return
	}
	i := -1
	if m.hasSelection {
		for j, t := range all {
			if t == m.selected {
				i = j
				break
			}
		}
	}
	if i < 0 && dir < 0 {
		i = 0
	}
	m.selectTarget(all[((i+dir)%len(all)+len(all))%len(all)])
}

func (m *model) selectedText() (scene.TextItem, bool) {
	if !m.hasSelection || m.selected.Kind != interact.KindText {
		return scene.TextItem{}, false
	}
	return m.scene.TextItem(m.selected.ID)
}

func (m *model) selectedDecoration() (scene.Decoration, bool) {
	if !m.hasSelection || m.selected.Kind != interact.KindDecoration {
		return scene.Decoration{}, false
	}
	return m.scene.Decoration(m.selected.ID)
}

func (m *model) selectionLabel() string {
	if !m.hasSelection {
		return "none"
	}
	switch m.selected.Kind {
	case interact.KindText:
		for i, t := range m.scene.Texts() {
			if t.ID == m.selected.ID {
				return fmt.Sprintf("Text %d", i+1)
			}
		}
	case interact.KindDecoration:
		for i, d := range m.scene.Decorations() {
			if d.ID == m.selected.ID {
				return fmt.Sprintf("%s %d", d.Shape, i+1)
			}
		}
	}
	return "none"
}

func readClipboardText() (string, error) {
	if runtime.GOOS == "darwin" {
		if output, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(output), nil
		}
		if output, err := exec.Command("pbpaste").Output(); err == nil {
			return string(output), nil
		}
	}
	return clipboard.ReadAll()
}

func isRTF(text string) bool {
	return strings.HasPrefix(text, "{\\rtf") || strings.Contains(text, "\\rtf1")
}

func isHTML(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), "<") &&
		(strings.Contains(text, "<html") || strings.Contains(text, "<body") || strings.Contains(text, "<div"))
}

// rtfDestinations are groups that hold tables and metadata, not text.
var rtfDestinations = map[string]bool{
	"fonttbl":          true,
	"colortbl":         true,
	"expandedcolortbl": true,
	"stylesheet":       true,
	"info":             true,
}

func isASCIILetter(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }

func isRTFParam(c byte) bool { return c == '-' || c >= '0' && c <= '9' }

func extractTextFromRTF(rtf string) string {
	var result strings.Builder
	result.Grow(len(rtf))
	b := []byte(rtf)

	depth := 0
	skipFrom := -1 // depth of the destination group being skipped
	groupStart := false
	uc, fallback := 1, 0

	emit := func(r rune) {
		if skipFrom < 0 {
			result.WriteRune(r)
		}
	}

	for i := 0; i < len(b); i++ {
		c := b[i]
		switch c {
		case '{':
			depth++
			groupStart = true
			continue
		case '}':
			if depth == skipFrom {
				skipFrom = -1
			}
			depth--
			groupStart = false
			continue
		case '\\':
		default:
			groupStart = false
			if fallback > 0 {
				fallback--
				continue
			}
			if c >= 32 && c < 127 || c == '\t' {
				emit(rune(c))
			}
			continue
		}

		if i+1 >= len(b) {
			break
		}
		next := b[i+1]
		switch {
		case next == '*':
			i++
			if groupStart && skipFrom < 0 {
				skipFrom = depth
			}
			continue
		case next == '\'' && i+3 < len(b):
			v, err := strconv.ParseUint(string(b[i+2:i+4]), 16, 8)
			i += 3
			if fallback > 0 {
				fallback--
			} else if err == nil {
				emit(rune(v))
			}
		case next == '\\' || next == '{' || next == '}':
			emit(rune(next))
			i++
		case next == '~':
			emit(' ')
			i++
		case next == '\n' || next == '\r':
			emit('\n')
			i++
		case isASCIILetter(next):
			start := i + 1
			for i+1 < len(b) && isASCIILetter(b[i+1]) {
				i++
			}
			word := string(b[start : i+1])
			pstart := i + 1
			for i+1 < len(b) && isRTFParam(b[i+1]) {
				i++
			}
			param, _ := strconv.Atoi(string(b[pstart : i+1]))
			if i+1 < len(b) && b[i+1] == ' ' {
				i++
			}
			if groupStart && rtfDestinations[word] && skipFrom < 0 {
				skipFrom = depth
			}
			switch word {
			case "par", "line":
				emit('\n')
			case "tab":
				emit('\t')
			case "uc":
				uc = param
			case "u":
				if param < 0 {
					param += 65536
				}
				emit(rune(param))
				fallback = uc
			}
		default:
			i++
		}
		groupStart = false
	}
	return result.String()
}

func extractTextFromHTML(markup string) string {
	var result, tag strings.Builder
	result.Grow(len(markup))
	inTag := false
	for _, r := range markup {
		switch {
		case r == '<':
			inTag = true
			tag.Reset()
		case r == '>' && inTag:
			inTag = false
			if htmlLineBreak(tag.String()) && !strings.HasSuffix(result.String(), "\n") && result.Len() > 0 {
				result.WriteByte('\n')
			}
		case inTag:
			tag.WriteRune(r)
		case r == '\n' || r == '\r':
			// source formatting, not text
		default:
			result.WriteRune(r)
		}
	}
	return html.UnescapeString(result.String())
}

// htmlLineBreak reports whether a tag body ends a line of text.
func htmlLineBreak(tag string) bool {
	name := strings.ToLower(strings.TrimSpace(tag))
	name = strings.TrimSuffix(name, "/")
	if i := strings.IndexAny(name, " \t"); i >= 0 {
		name = name[:i]
	}
	switch name {
	case "br", "/p", "/div", "/li", "/h1", "/h2", "/h3":
		return true
	}
	return false
}

// cleanClipboardText reduces pasted rich text to plain lines: RTF and HTML
// markup is dropped, control characters other than tab and newline are
// removed, line endings become \n and trailing blank lines are trimmed.
func cleanClipboardText(text string) string {
	if text == "" {
		return text
	}
	switch {
	case isRTF(text):
		text = extractTextFromRTF(text)
	case isHTML(text):
		text = extractTextFromHTML(text)
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	var result strings.Builder
	result.Grow(len(text))
	for _, r := range text {
		if r == '\n' || r == '\t' || r >= 32 && r != 127 {
			result.WriteRune(r)
		}
	}
	return strings.TrimRight(result.String(), "\n")
}

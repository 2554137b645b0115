package main

type Mode int

const (
	ModeNormal Mode = iota
	ModeEditing
	ModeConfirm
)

type ConfirmAction int

const (
	ConfirmReset ConfirmAction = iota
	ConfirmClearDecorations
	ConfirmQuit
)

const (
	fontSizeStep  = 4
	rotateStep    = 5
	nudgeStep     = 4 // canvas units per key press
	maxUndo       = 100
	editorHeight  = 4
	randomDecoCap = 8
)

// textColors is the swatch row offered for text items.
var textColors = []string{
	"#ffe54f", "#FF69B4", "#80deea", "#ffb114",
	"#81f784", "#ff2222", "#ce93d8", "#ffffff",
}

var backgroundColors = []string{
	"#000000", "#ffffff", "#FF69B4", "#1976d2", "#333333", "#ffe54f",
}

type fontChoice struct {
	label string
	value string
}

var fontChoices = []fontChoice{
	{"M PLUS Rounded 1c", `"M PLUS Rounded 1c", sans-serif`},
	{"Hiragino Maru Gothic", "Hiragino Maru Gothic ProN, Hiragino Maru Gothic, sans-serif"},
	{"Kosugi Maru", `"Kosugi Maru", sans-serif`},
	{"RocknRoll One", `"RocknRoll One", sans-serif`},
	{"Yomogi", `"Yomogi", sans-serif`},
	{"Noto Sans JP", "Noto Sans JP, sans-serif"},
	{"Yu Gothic", `YuGothic, "Yu Gothic", sans-serif`},
	{"Kaisei Opti", `"Kaisei Opti", serif`},
	{"Meiryo", "Meiryo, sans-serif"},
	{"Arial", "Arial, sans-serif"},
	{"Impact", "Impact, Charcoal, sans-serif"},
}

// Package sharecode turns a scene into the single query value carried by a
// share link, and back.
//
// A token is the JSON form below, query-escaped so multi-byte text survives
// any URL handling:
//
//	{"t":[{"text":"ピース","x":180,"y":190,"c":"#FF69B4","s":60,"f":"...","r":0,"o":"black-over-white"}],
//	 "d":[{"x":180,"y":200,"c":"#FFD600","s":48,"r":0,"t":"star"}],
//	 "bg":"#000000","fm":"rounded"}
//
// Positions are rounded to integers. Item ids are not part of the token.
package sharecode

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strings"

	"github.com/esuji5/uchiwa-generator/internal/scene"
)

// ErrMalformed is wrapped by every Decode failure.
var ErrMalformed = errors.New("sharecode: malformed token")

type wireText struct {
	Text *string  `json:"text,omitempty"`
	X    *float64 `json:"x,omitempty"`
	Y    *float64 `json:"y,omitempty"`
	C    *string  `json:"c,omitempty"`
	S    *float64 `json:"s,omitempty"`
	F    *string  `json:"f,omitempty"`
	R    *float64 `json:"r,omitempty"`
	O    *string  `json:"o,omitempty"`
}

type wireDeco struct {
	X *float64 `json:"x,omitempty"`
	Y *float64 `json:"y,omitempty"`
	C *string  `json:"c,omitempty"`
	S *float64 `json:"s,omitempty"`
	R *float64 `json:"r,omitempty"`
	T *string  `json:"t,omitempty"`
}

type wireScene struct {
	T  []wireText `json:"t"`
	D  []wireDeco `json:"d"`
	BG *string    `json:"bg,omitempty"`
	FM *string    `json:"fm,omitempty"`
}

// round matches the half-up rounding of the web client that first produced
// these tokens.
func round(v float64) *float64 {
	r := math.Floor(v + 0.5)
	return &r
}

func ptr[T any](v T) *T { return &v }

func toWire(s scene.Scene) wireScene {
	w := wireScene{
		T:  make([]wireText, 0, len(s.Texts)),
		D:  make([]wireDeco, 0, len(s.Decorations)),
		BG: ptr(s.Settings.BackgroundColor),
		FM: ptr(string(s.Settings.FillMode)),
	}
	for _, t := range s.Texts {
		w.T = append(w.T, wireText{
			Text: ptr(t.Text),
			X:    round(t.X),
			Y:    round(t.Y),
			C:    ptr(t.Color),
			S:    ptr(t.FontSize),
			F:    ptr(t.Font),
			R:    ptr(t.Rotate),
			O:    ptr(string(t.OutlineType)),
		})
	}
	for _, d := range s.Decorations {
		w.D = append(w.D, wireDeco{
			X: round(d.X),
			Y: round(d.Y),
			C: ptr(d.Color),
			S: ptr(d.Size),
			R: ptr(d.Rotate),
			T: ptr(string(d.Shape)),
		})
	}
	return w
}

// Encode returns the share token for s.
func Encode(s scene.Scene) (string, error) {
	b, err := json.Marshal(toWire(s))
	if err != nil {
		return "", fmt.Errorf("sharecode: marshal: %w", err)
	}
	return url.QueryEscape(string(b)), nil
}

// Decode parses a token produced by Encode. It also accepts the bare JSON
// form, which is what a token looks like after url.Values has unescaped it.
// Missing fields take their value from Defaults and the decoration list is
// cut to the first Defaults.MaxDecorations entries. Fresh ids are assigned.
func Decode(token string) (scene.Scene, error) {
	raw := strings.TrimSpace(token)
	if raw == "" {
		return scene.Scene{}, fmt.Errorf("%w: empty", ErrMalformed)
	}
	if !strings.HasPrefix(raw, "{") {
		unescaped, err := url.QueryUnescape(raw)
		if err != nil {
			return scene.Scene{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		raw = unescaped
	}
	if !strings.HasPrefix(strings.TrimSpace(raw), "{") {
		return scene.Scene{}, fmt.Errorf("%w: not an object", ErrMalformed)
	}
	var w wireScene
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		return scene.Scene{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return Defaults.build(w), nil
}

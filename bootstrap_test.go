package main

import (
	"testing"

	"github.com/esuji5/uchiwa-generator/internal/scene"
	"github.com/esuji5/uchiwa-generator/internal/sharecode"
	"github.com/esuji5/uchiwa-generator/internal/store/jsonstore"
)

func mustToken(t *testing.T, s scene.Scene) string {
	t.Helper()
	token, err := sharecode.Encode(s)
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func mustAddress(t *testing.T, raw string) *sharecode.Address {
	t.Helper()
	addr, err := sharecode.ParseAddress(raw)
	if err != nil {
		t.Fatal(err)
	}
	return addr
}

func TestStartScenePrecedence(t *testing.T) {
	factory := scene.New().Snapshot()

	full := mustToken(t, scene.Scene{
		Texts:       []scene.TextItem{{Text: "ピース", X: 100, Y: 120, Color: "#ffffff", FontSize: 50, Font: scene.DefaultFont}},
		Decorations: []scene.Decoration{{X: 50, Y: 60, Color: "#FFD600", Size: 80, Shape: scene.ShapeStar}},
		Settings:    scene.Settings{BackgroundColor: "#1976d2", FillMode: scene.FillAll},
	})
	noTexts := mustToken(t, scene.Scene{
		Decorations: []scene.Decoration{},
		Settings:    scene.Settings{BackgroundColor: "#ffffff", FillMode: scene.FillNone},
	})

	stored := jsonstore.New(t.TempDir())
	if err := stored.Save(jsonstore.TextsKey, []scene.TextItem{{ID: "s1", Text: "saved", X: 180, Y: 180, FontSize: 40}}); err != nil {
		t.Fatal(err)
	}
	if err := stored.Save(jsonstore.DecorationsKey, []scene.Decoration{{ID: "d1", X: 10, Y: 10, Size: 48, Shape: scene.ShapeHeart}}); err != nil {
		t.Fatal(err)
	}
	emptyStore := jsonstore.New(t.TempDir())
	if err := emptyStore.Save(jsonstore.TextsKey, []scene.TextItem{}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		address   string
		store     *jsonstore.Store
		wantText  string
		wantDecos []scene.Shape
		want      scene.Settings
	}{
		{"nothing saved", "", nil, scene.DefaultText, nil, scene.DefaultSettings()},
		{"store only", "", stored, "saved", []scene.Shape{scene.ShapeHeart}, scene.DefaultSettings()},
		{"token wins", "https://uchiwa.example/?state=" + full, stored, "ピース", []scene.Shape{scene.ShapeStar},
			scene.Settings{BackgroundColor: "#1976d2", FillMode: scene.FillAll}},
		{"token without texts", "?state=" + noTexts, stored, "saved", nil,
			scene.Settings{BackgroundColor: "#ffffff", FillMode: scene.FillNone}},
		{"malformed token", "?state=%7Bbroken", stored, "saved", []scene.Shape{scene.ShapeHeart}, scene.DefaultSettings()},
		{"empty stored texts", "", emptyStore, scene.DefaultText, nil, scene.DefaultSettings()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := startScene(mustAddress(t, tt.address), tt.store, factory)
			if len(got.Texts) != 1 || got.Texts[0].Text != tt.wantText {
				t.Errorf("texts = %+v, want one item %q", got.Texts, tt.wantText)
			}
			var shapes []scene.Shape
			for _, d := range got.Decorations {
				shapes = append(shapes, d.Shape)
			}
			if len(shapes) != len(tt.wantDecos) {
				t.Fatalf("decorations = %v, want %v", shapes, tt.wantDecos)
			}
			for i := range shapes {
				if shapes[i] != tt.wantDecos[i] {
					t.Errorf("decorations = %v, want %v", shapes, tt.wantDecos)
				}
			}
			if got.Settings != tt.want {
				t.Errorf("settings = %+v, want %+v", got.Settings, tt.want)
			}
		})
	}
}

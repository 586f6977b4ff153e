package dsl_test

import (
	"strings"
	"testing"

	"github.com/ByLCY/teletype/dsl"
)

const sampleScene = `
scene Demo {
  box: [520, 209]
  padding: 20
  font: "fonts/Pixel.ttf"
  font-size: 35
  text-color: #000000

  background {
    kind: gradient
    axis: vertical
    from: #FFFFFF
    to: #797979
  }

  timing {
    fps: 30
    char-speed: 1
    pause-comma: 4
    pause-punctuation: 10
    dwell: 3
  }

  text {
    "Hello, ${user.name}."
    ""
    "Welcome to town!"
  }
}
`

func TestParseScene(t *testing.T) {
	scene, err := dsl.ParseString(sampleScene)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if scene.Name != "Demo" {
		t.Fatalf("expected scene name Demo, got %s", scene.Name)
	}

	var assignments, blocks int
	for _, st := range scene.Statements {
		switch st.Kind() {
		case "assignment":
			assignments++
		case "block":
			blocks++
		}
	}
	if assignments != 5 {
		t.Fatalf("expected 5 top-level assignments, got %d", assignments)
	}
	if blocks != 3 {
		t.Fatalf("expected 3 named blocks, got %d", blocks)
	}
}

func TestParseSceneValues(t *testing.T) {
	scene, err := dsl.ParseString(sampleScene)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	byKey := map[string]*dsl.Value{}
	for _, st := range scene.Statements {
		if st.Assignment != nil {
			byKey[st.Assignment.Key] = st.Assignment.Value
		}
	}

	if v, ok := byKey["padding"]; !ok {
		t.Fatalf("missing padding assignment")
	} else if n, ok := v.AsNumber(); !ok || n != 20 {
		t.Fatalf("padding should be 20, got %v (%v)", n, ok)
	}

	if v, ok := byKey["font"]; !ok {
		t.Fatalf("missing font assignment")
	} else if s, ok := v.AsString(); !ok || s != "fonts/Pixel.ttf" {
		t.Fatalf("font should be unquoted path, got %q", s)
	}

	if v, ok := byKey["text-color"]; !ok {
		t.Fatalf("missing text-color assignment")
	} else if c, ok := v.AsColor(); !ok || c != "#000000" {
		t.Fatalf("text-color literal mismatch: %q", c)
	}

	box, ok := byKey["box"]
	if !ok || box.Array == nil || len(box.Array.Values) != 2 {
		t.Fatalf("box should be a two-element array")
	}
	if w, ok := box.Array.Values[0].AsNumber(); !ok || w != 520 {
		t.Fatalf("box width should be 520, got %v", w)
	}
}

func TestParseSceneTextBlock(t *testing.T) {
	scene, err := dsl.ParseString(sampleScene)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	var text *dsl.NamedBlock
	for _, st := range scene.Statements {
		if st.Block != nil && st.Block.Name == "text" {
			text = st.Block
		}
	}
	if text == nil {
		t.Fatalf("missing text block")
	}

	var paragraphs []string
	for _, st := range text.Statements {
		if st.Text == nil {
			t.Fatalf("text block must only contain string literals, got %s", st.Kind())
		}
		paragraphs = append(paragraphs, string(st.Text.Value))
	}
	want := []string{"Hello, ${user.name}.", "", "Welcome to town!"}
	if len(paragraphs) != len(want) {
		t.Fatalf("expected %d paragraphs, got %d", len(want), len(paragraphs))
	}
	for i := range want {
		if paragraphs[i] != want[i] {
			t.Fatalf("paragraph %d mismatch: got %q want %q", i, paragraphs[i], want[i])
		}
	}
}

func TestParseSceneBareIdentValue(t *testing.T) {
	scene, err := dsl.ParseString(`scene S { background { kind: solid; color: #333 } }`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	bg := scene.Statements[0].Block
	if bg == nil || bg.Name != "background" {
		t.Fatalf("expected background block")
	}
	kind := bg.Statements[0].Assignment
	if kind == nil || kind.Key != "kind" {
		t.Fatalf("expected kind assignment")
	}
	if s, ok := kind.Value.AsString(); !ok || s != "solid" {
		t.Fatalf("kind should capture bare identifier, got %q", s)
	}
}

func TestParseInvalidScene(t *testing.T) {
	cases := []string{
		`scene {`,
		`scene X { padding 20 }`,
		`box: [10, 20]`,
	}
	for _, input := range cases {
		if _, err := dsl.Parse(strings.NewReader(input)); err == nil {
			t.Fatalf("expected parse error for %q", input)
		}
	}
}

package dsl

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	sceneLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{8}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{3})`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `-?(?:\d+\.\d+|\d+)`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[][(),.=+\-*/%<>!?;]`},
		{Name: "Colon", Pattern: `:`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	sceneParser = participle.MustBuild[Scene](
		participle.Lexer(sceneLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
	)
)

// Scene is the root AST node for a teletype scene file.
type Scene struct {
	Pos        lexer.Position `parser:"" json:"-"`
	Name       string         `parser:"Newline* 'scene' @Ident"`
	Statements []*Statement   `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}' Newline*"`
}

// Statement inside a scene or nested block (assignment/block/text literal).
type Statement struct {
	Assignment *Assignment  `parser:"  @@"`
	Block      *NamedBlock  `parser:"| @@"`
	Text       *TextLiteral `parser:"| @@"`
}

// Assignment uses colon syntax (key: value).
type Assignment struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident"`
	Value *Value         `parser:"Colon Newline* @@"`
}

// NamedBlock groups statements under a keyword (background/timing/text).
type NamedBlock struct {
	Pos        lexer.Position `parser:"" json:"-"`
	Name       string         `parser:"@Ident"`
	Statements []*Statement   `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// TextLiteral encapsulates raw string statements within blocks; inside a
// text block each literal is one paragraph of dialogue.
type TextLiteral struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Value StringLiteral  `parser:"@String"`
}

// Value represents generic property values.
type Value struct {
	String *StringLiteral `parser:"  @String"`
	Ident  *string        `parser:"| @Ident"`
	Number *string        `parser:"| @Number"`
	Color  *string        `parser:"| @Color"`
	Array  *ArrayValue    `parser:"| @@"`
}

// ArrayValue captures `[ ... ]` expressions.
type ArrayValue struct {
	Values []*Value `parser:"'[' Newline* ( @@ ( (',' | ';' | Newline+) Newline* @@ )* )? Newline* ']'"`
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Kind returns the human-readable statement type, mostly for error messages.
func (s *Statement) Kind() string {
	switch {
	case s == nil:
		return "unknown"
	case s.Assignment != nil:
		return "assignment"
	case s.Block != nil:
		return "block"
	case s.Text != nil:
		return "text"
	default:
		return "unknown"
	}
}

// AsNumber converts a Value to float64 when possible.
func (v *Value) AsNumber() (float64, bool) {
	if v == nil || v.Number == nil {
		return 0, false
	}
	n, err := strconv.ParseFloat(*v.Number, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// AsString returns the string or bare-identifier form of a Value.
func (v *Value) AsString() (string, bool) {
	switch {
	case v == nil:
		return "", false
	case v.String != nil:
		return string(*v.String), true
	case v.Ident != nil:
		return *v.Ident, true
	default:
		return "", false
	}
}

// AsColor returns the raw #RGB/#RRGGBB/#RRGGBBAA literal.
func (v *Value) AsColor() (string, bool) {
	if v == nil || v.Color == nil {
		return "", false
	}
	return *v.Color, true
}

// Parse parses a scene file from an io.Reader.
func Parse(r io.Reader) (*Scene, error) {
	return sceneParser.Parse("", r)
}

// ParseString parses a scene file from a string.
func ParseString(input string) (*Scene, error) {
	return sceneParser.ParseString("", input)
}

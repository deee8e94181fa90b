package dsl

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	dslLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{8}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{3})\b`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `-?(?:\d+\.\d+|\d+)(?:px|%|rem|em|pt)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[][(),.=;:]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	scriptParser = participle.MustBuild[Script](
		participle.Lexer(dslLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
	)
)

// Script is the root AST node of a .blueprint editing script:
//
//	blueprint "Accueil" {
//	  drop button at 120 200 as cta
//	  update cta { content: "Commander" style.backgroundColor: #e67e22 }
//	}
type Script struct {
	Pos  lexer.Position `parser:"" json:"-"`
	Name StringLiteral  `parser:"Newline* 'blueprint' @String"`
	Body *Block         `parser:"@@ Newline*"`
}

// Block is a delimited list of statements.
type Block struct {
	Statements []*Statement `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Statement is one editing command: a verb, positional arguments and an optional
// property block. 参数与属性值共用 Value 语法，换行、分号或 { 结束参数列表。
type Statement struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Verb  string         `parser:"@Ident"`
	Args  []*Value       `parser:"@@*"`
	Props *Properties    `parser:"@@?"`
}

// Properties captures `{ key: value ... }` after a statement.
type Properties struct {
	Entries []*Property `parser:"'{' Newline* ( @@ ( ';' | ',' | Newline )* )* '}'"`
}

// Property uses colon syntax; dotted keys address nested fields (style.color).
type Property struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   []string       `parser:"@Ident ( '.' @Ident )*"`
	Value *Value         `parser:"':' Newline* @@"`
}

// Value represents statement arguments and property values.
type Value struct {
	Pos    lexer.Position `parser:"" json:"-"`
	String *StringLiteral `parser:"  @String"`
	Number *string        `parser:"| @Number"`
	Color  *string        `parser:"| @Color"`
	List   *ListValue     `parser:"| @@"`
	Ident  *string        `parser:"| @Ident"`
}

// ListValue captures `[ ... ]` expressions.
type ListValue struct {
	Values []*Value `parser:"'[' Newline* ( @@ ( (',' | Newline+) Newline* @@ )* )? Newline* ']'"`
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

// Arg returns the i-th argument or nil.
func (s *Statement) Arg(i int) *Value {
	if i < 0 || i >= len(s.Args) {
		return nil
	}
	return s.Args[i]
}

// Words returns the raw argument values.
func (s *Statement) Words() []string {
	out := make([]string, len(s.Args))
	for i, a := range s.Args {
		out[i] = a.Text()
	}
	return out
}

// Path joins a dotted property key.
func (p *Property) Path() string { return strings.Join(p.Key, ".") }

// Text returns the scalar value as a string; lists are joined with ", ".
func (v *Value) Text() string {
	switch {
	case v == nil:
		return ""
	case v.String != nil:
		return string(*v.String)
	case v.Number != nil:
		return *v.Number
	case v.Color != nil:
		return *v.Color
	case v.Ident != nil:
		return *v.Ident
	case v.List != nil:
		return strings.Join(v.Strings(), ", ")
	}
	return ""
}

// Strings returns list items as text; a scalar yields a one-item list.
func (v *Value) Strings() []string {
	if v == nil {
		return nil
	}
	if v.List == nil {
		return []string{v.Text()}
	}
	out := make([]string, 0, len(v.List.Values))
	for _, item := range v.List.Values {
		out = append(out, item.Text())
	}
	return out
}

// Kind names the token the value was written with: String, Number, Color, List or Ident.
func (v *Value) Kind() string {
	switch {
	case v == nil:
		return ""
	case v.String != nil:
		return "String"
	case v.Number != nil:
		return "Number"
	case v.Color != nil:
		return "Color"
	case v.List != nil:
		return "List"
	}
	return "Ident"
}

// Float parses a numeric value, ignoring a px suffix.
func (v *Value) Float() (float64, error) {
	if v == nil {
		return 0, fmt.Errorf("缺少数值参数")
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(v.Text()), "px"), 64)
	if err != nil {
		return 0, fmt.Errorf("%d:%d: %q 不是数值", v.Pos.Line, v.Pos.Column, v.Text())
	}
	return f, nil
}

// Parse parses a script from an io.Reader.
func Parse(r io.Reader) (*Script, error) {
	return scriptParser.Parse("", r)
}

// ParseString parses a script from a string.
func ParseString(input string) (*Script, error) {
	return scriptParser.ParseString("", input)
}

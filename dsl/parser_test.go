package dsl_test

import (
	"strings"
	"testing"

	"github.com/ByLCY/blueprint/dsl"
)

const sampleScript = `
// page d'accueil
blueprint "Accueil" {
  canvas background #f5f5f5

  drop button at 120 200 as cta
  update cta {
    content: "Commander"
    style.backgroundColor: #e67e22
    style.width: 150px
    attributes.htmlId: "cta"
  }
  move cta by -10 20; center cta

  /* formulaire */
  add input-form at 40 400 as contact
  child contact add input-email as mail { description: "Votre email" }
  update contact { options: ["A", "B", "C"] }
  select contact child mail
  key Delete
  preview
}
`

func TestParseScript(t *testing.T) {
	s, err := dsl.ParseString(sampleScript)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if s.Name != "Accueil" {
		t.Fatalf("expected script name Accueil, got %s", s.Name)
	}
	var verbs []string
	for _, st := range s.Body.Statements {
		verbs = append(verbs, st.Verb)
	}
	want := "canvas drop update move center add child update select key preview"
	if got := strings.Join(verbs, " "); got != want {
		t.Fatalf("unexpected verbs:\n got %s\nwant %s", got, want)
	}
}

func TestStatementArguments(t *testing.T) {
	s, err := dsl.ParseString(sampleScript)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	bg := s.Body.Statements[0]
	if bg.Arg(1).Kind() != "Color" || bg.Arg(1).Text() != "#f5f5f5" {
		t.Fatalf("expected colour argument, got %+v", bg.Arg(1))
	}
	drop := s.Body.Statements[1]
	if got := strings.Join(drop.Words(), " "); got != "button at 120 200 as cta" {
		t.Fatalf("unexpected drop args %q", got)
	}
	move := s.Body.Statements[3]
	dx, err := move.Arg(2).Float()
	if err != nil || dx != -10 {
		t.Fatalf("expected dx -10, got %g (%v)", dx, err)
	}
	if move.Arg(9) != nil {
		t.Fatalf("out-of-range argument should be nil")
	}
	if _, err := drop.Arg(0).Float(); err == nil {
		t.Fatalf("non-numeric argument should fail")
	}
}

func TestStatementProperties(t *testing.T) {
	s, err := dsl.ParseString(sampleScript)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	update := s.Body.Statements[2]
	if update.Props == nil || len(update.Props.Entries) != 4 {
		t.Fatalf("expected 4 properties, got %+v", update.Props)
	}
	got := map[string]string{}
	for _, p := range update.Props.Entries {
		got[p.Path()] = p.Value.Text()
	}
	want := map[string]string{
		"content":               "Commander",
		"style.backgroundColor": "#e67e22",
		"style.width":           "150px",
		"attributes.htmlId":     "cta",
	}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("property %s: got %q want %q", k, got[k], v)
		}
	}

	child := s.Body.Statements[6]
	if child.Props == nil || child.Props.Entries[0].Value.Text() != "Votre email" {
		t.Fatalf("child statement should carry its property block")
	}

	opts := s.Body.Statements[7].Props.Entries[0].Value
	if strings.Join(opts.Strings(), "|") != "A|B|C" {
		t.Fatalf("unexpected list %v", opts.Strings())
	}
}

func TestParseErrors(t *testing.T) {
	cases := []string{
		`drop button at 1 2`,
		`blueprint Accueil { }`,
		`blueprint "x" { update a { content "missing colon" } }`,
		`blueprint "x" { drop button`,
	}
	for _, src := range cases {
		if _, err := dsl.ParseString(src); err == nil {
			t.Fatalf("expected parse error for %q", src)
		}
	}
}

func TestEmptyScript(t *testing.T) {
	s, err := dsl.Parse(strings.NewReader(`blueprint "vide" {}`))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(s.Body.Statements) != 0 {
		t.Fatalf("expected no statements")
	}
}

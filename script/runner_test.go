package script

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ByLCY/blueprint/editor"
	"github.com/ByLCY/blueprint/logger"
)

func newEditor(t *testing.T) *editor.Editor {
	t.Helper()
	n := 0
	return editor.New(
		editor.WithIDGenerator(func() string { n++; return fmt.Sprintf("el-%d", n) }),
		editor.WithClock(func() time.Time { return time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC) }),
	)
}

func run(t *testing.T, src string, opts ...Option) (*editor.Editor, *Runner) {
	t.Helper()
	ed := newEditor(t)
	r := New(ed, opts...)
	require.NoError(t, r.RunString(src))
	return ed, r
}

func element(t *testing.T, ed *editor.Editor, r *Runner, alias string) editor.Element {
	t.Helper()
	id, ok := r.Lookup(alias)
	require.True(t, ok, "alias %s", alias)
	el, ok := ed.Element(id)
	require.True(t, ok, "element %s", id)
	return el
}

func TestDropIsPushedBelowHeader(t *testing.T) {
	ed, r := run(t, `blueprint "t" {
  drop button at 10 10 as cta
  add text at 10 10 as raw
}`)
	cta := element(t, ed, r, "cta")
	assert.Equal(t, 10.0, cta.X)
	assert.Equal(t, 90.0, cta.Y)

	raw := element(t, ed, r, "raw")
	assert.Equal(t, 10.0, raw.Y, "add keeps coordinates as given")
}

func TestUpdateStyleAttributesAndContent(t *testing.T) {
	ed, r := run(t, `blueprint "t" {
  drop button at 100 200 as cta {
    content: "Commander"
    style.backgroundColor: #e67e22
    style.letterSpacing: "1px"
    attributes.htmlId: "cta"
    attributes.data-track: "hero"
  }
  update cta { description: "Bouton principal"; x: 120px }
}`)
	cta := element(t, ed, r, "cta")
	assert.Equal(t, "Commander", cta.Content)
	assert.Equal(t, "#e67e22", cta.Style.BackgroundColor)
	assert.Equal(t, "#ffffff", cta.Style.Color, "defaults are merged, not replaced")
	assert.Equal(t, "1px", cta.Style.Extra["letterSpacing"])
	assert.Equal(t, "cta", cta.Attributes.HTMLID)
	assert.Equal(t, "hero", cta.Attributes.Extra["data-track"])
	assert.Equal(t, "Bouton principal", cta.Description)
	assert.Equal(t, 120.0, cta.X)
}

func TestGeometryStatements(t *testing.T) {
	ed, r := run(t, `blueprint "t" {
  add button at 300 300 as b
  resize b se by 50 -10
  move b by 5 5
  add image at 0 500 as img
  move img to 20 600
  add text at 0 0 as c
  center c
}`)
	b := element(t, ed, r, "b")
	assert.Equal(t, "150px", b.Style.Width)
	assert.Equal(t, "90px", b.Style.Height)
	assert.Equal(t, 305.0, b.X)
	assert.Equal(t, 305.0, b.Y)

	img := element(t, ed, r, "img")
	assert.Equal(t, 20.0, img.X)
	assert.Equal(t, 600.0, img.Y)

	c := element(t, ed, r, "c")
	assert.Equal(t, 350.0, c.X)
	assert.Equal(t, 450.0, c.Y)
}

func TestFormChildrenAndSelection(t *testing.T) {
	ed, r := run(t, `blueprint "t" {
  add input-form at 40 400 as contact
  child contact add input-email as mail { description: "Votre email" }
  child contact update mail { content: "a@b.c" }
  select contact child mail
}`)
	form := element(t, ed, r, "contact")
	require.Len(t, form.Children, 4)
	mail := form.Children[3]
	assert.Equal(t, editor.TypeInputEmail, mail.Type)
	assert.Equal(t, "Votre email", mail.Description)
	assert.Equal(t, "a@b.c", mail.Content)
	assert.Equal(t, editor.Selection{ElementID: form.ID, ChildID: mail.ID}, ed.Selection())

	require.NoError(t, r.RunString(`blueprint "t2" { child contact remove mail }`))
	form, _ = ed.Element(form.ID)
	assert.Len(t, form.Children, 3)
	assert.Empty(t, ed.Selection().ChildID)
}

func TestKeyDeleteAndPreview(t *testing.T) {
	ed, r := run(t, `blueprint "t" {
  add text at 200 200 as a
  select a
  key Delete editable
}`)
	_, ok := r.Lookup("a")
	assert.True(t, ok, "editable focus blocks deletion")

	require.NoError(t, r.RunString(`blueprint "t" { key Delete }`))
	_, ok = r.Lookup("a")
	assert.False(t, ok, "alias is pruned once the element is gone")
	assert.Equal(t, 2, ed.Document().Len())

	require.NoError(t, r.RunString(`blueprint "t" { preview }`))
	assert.True(t, ed.IsPreview())
	require.NoError(t, r.RunString(`blueprint "t" { toggle }`))
	assert.False(t, ed.IsPreview())
}

func TestOptionsAndSlides(t *testing.T) {
	ed, r := run(t, `blueprint "t" {
  add select at 200 200 as s
  option s add
  option s remove 0
  add carousel at 100 400 as car
  slide car add
  slide car remove 0
  update s { options: ["Paris", "Lyon"] }
  add map at 100 100 as m { coordinates: [45.76, 4.83] }
}`)
	s := element(t, ed, r, "s")
	assert.Equal(t, []string{"Paris", "Lyon"}, s.Options)

	car := element(t, ed, r, "car")
	assert.Equal(t, "0", car.Content)
	assert.Len(t, car.Slides, 3)

	m := element(t, ed, r, "m")
	require.NotNil(t, m.Coordinates)
	assert.Equal(t, 45.76, m.Coordinates.Lat)
}

func TestInterpolatesData(t *testing.T) {
	data := map[string]any{"site": map[string]any{"name": "Boulangerie"}}
	ed, r := run(t, `blueprint "${site.name}" {
  update main-header { content: "${site.name}" }
  drop text at 200 300 as t { content: "${slogan|Le bon pain}" }
}`, WithData(data))
	assert.Equal(t, "Boulangerie", r.Name())
	assert.Equal(t, "Le bon pain", element(t, ed, r, "t").Content)
	header, ok := ed.Document().Header()
	require.True(t, ok)
	assert.Equal(t, "Boulangerie", header.Content)
}

func TestRuntimeErrors(t *testing.T) {
	cases := map[string]string{
		"unknown alias":    `blueprint "t" { update ghost { content: "x" } }`,
		"unknown type":     `blueprint "t" { drop spaceship at 1 2 }`,
		"unknown verb":     `blueprint "t" { explode }`,
		"bad number":       `blueprint "t" { add text at a b }`,
		"bad handle":       `blueprint "t" { add text at 1 1 as x; resize x up by 1 1 }`,
		"unknown property": `blueprint "t" { add text at 1 1 as x { colour: "red" } }`,
		"missing props":    `blueprint "t" { add text at 1 1 as x; update x }`,
		"no selection":     `blueprint "t" { center selected }`,
		"bad alias syntax": `blueprint "t" { add text at 1 1 named x }`,
		"parse error":      `blueprint { }`,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			r := New(newEditor(t))
			assert.Error(t, r.RunString(src))
		})
	}
}

func TestLogsStatements(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	_, _ = run(t, `blueprint "t" { add text at 1 1 }`, WithLogger(logger.NewWithCore(core)))
	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "执行语句", logs.All()[0].Message)
	assert.Equal(t, "脚本执行完成", logs.All()[1].Message)
}

package editor

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONShape(t *testing.T) {
	ed, _ := newTestEditor(t)
	for i, typ := range ElementTypes {
		ed.AddElement(typ, 20, float64(100+i*40))
	}
	ed.UpdateElement(ed.AddElement(TypeButton, 300, 300), Update{Content: String("")})

	data, err := ed.JSON()
	require.NoError(t, err)

	var top map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &top))
	keys := make([]string, 0, len(top))
	for k := range top {
		keys = append(keys, k)
	}
	assert.ElementsMatch(t, []string{"meta", "canvas", "elements"}, keys)

	var doc struct {
		Meta struct {
			Version string `json:"version"`
			Date    string `json:"date"`
		} `json:"meta"`
		Canvas   map[string]any `json:"canvas"`
		Elements []struct {
			ID        string `json:"id"`
			AriaLabel string `json:"ariaLabel"`
			Children  []struct {
				AriaLabel string `json:"ariaLabel"`
			} `json:"children"`
		} `json:"elements"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "1.0", doc.Meta.Version)
	assert.Equal(t, "2025-03-14T09:30:00Z", doc.Meta.Date)
	assert.Equal(t, map[string]any{"backgroundColor": "#ffffff", "width": 800.0, "height": 1000.0}, doc.Canvas)
	require.Len(t, doc.Elements, len(ElementTypes)+3)
	for _, el := range doc.Elements {
		assert.NotEmpty(t, el.AriaLabel, el.ID)
		for _, c := range el.Children {
			assert.NotEmpty(t, c.AriaLabel, el.ID)
		}
	}
}

func TestAriaLabel(t *testing.T) {
	cases := []struct {
		name string
		node Node
		want string
	}{
		{"description wins", Node{Type: TypeButton, Content: "Envoyer", Description: "Envoyer le formulaire"}, "Envoyer le formulaire"},
		{"button label", Node{Type: TypeButton, Content: "Envoyer"}, "Envoyer"},
		{"empty button", Node{Type: TypeButton}, "Bouton"},
		{"number field ignores content", Node{Type: TypeInputNumber, Content: "42"}, "Champ numérique"},
		{"image ignores url", Node{Type: TypeImage, Content: "https://example.com/a.png"}, "Image"},
		{"card title", Node{Type: TypeCard, Content: "Titre Carte"}, "Titre Carte"},
		{"form title", Node{Type: TypeInputForm, Content: "Contact"}, "Contact"},
		{"calendar", Node{Type: TypeCalendar, Content: "2025-03-14"}, "Calendrier"},
		{"unknown type", Node{Type: "widget"}, "widget"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, AriaLabel(c.node))
		})
	}
	for _, typ := range ElementTypes {
		assert.NotEmpty(t, AriaLabel(Node{Type: typ}), typ)
	}
}

func TestExportIsPure(t *testing.T) {
	ed, rec := newTestEditor(t)
	form := ed.AddElement(TypeInputForm, 100, 200)
	ed.Select(form)
	before := ed.Elements()
	rev := ed.Revision()
	n := len(rec.events)

	doc := ed.Export()
	doc.Elements[0].Content = "changed"
	doc.Elements[2].Children[0].Style.Color = "pink"
	_, err := ed.JSON()
	require.NoError(t, err)

	assert.Equal(t, before, ed.Elements())
	assert.Equal(t, rev, ed.Revision())
	assert.Len(t, rec.events, n)
	assert.Equal(t, Selection{ElementID: form}, ed.Selection())
}

func TestExportInPreviewMode(t *testing.T) {
	ed, _ := newTestEditor(t)
	ed.TogglePreview()

	doc := ed.Export()
	assert.Len(t, doc.Elements, 2)
	assert.True(t, ed.IsPreview())
}

func TestStyleJSONFlattensExtra(t *testing.T) {
	s := Style{Width: "800px", Color: "#fff"}.Set("letterSpacing", "1px")
	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"width":"800px","color":"#fff","letterSpacing":"1px"}`, string(data))

	var back Style
	require.NoError(t, json.Unmarshal([]byte(`{"width":300,"fontSize":"14px","zIndex":2,"custom":"x"}`), &back))
	assert.Equal(t, "300", back.Width)
	assert.Equal(t, "14px", back.FontSize)
	assert.Equal(t, "2", back.ZIndex)
	assert.Equal(t, "x", back.Extra["custom"])
}

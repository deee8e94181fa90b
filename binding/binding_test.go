package binding

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sample(t *testing.T) any {
	t.Helper()
	var data any
	raw := `{"site":{"name":"Boulangerie","tags":["pain","café"]},"cta":"Commander","count":3}`
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		t.Fatal(err)
	}
	return data
}

func TestInterpolate(t *testing.T) {
	data := sample(t)
	cases := map[string]string{
		"${site.name}":                "Boulangerie",
		"Bienvenue chez ${site.name}": "Bienvenue chez Boulangerie",
		"${site.tags[1]}":             "café",
		"${count} articles":           "3 articles",
		"${missing}":                  "${missing}",
		"${missing|Mon Super Site}":   "Mon Super Site",
		"${site.name|ignoré}":         "Boulangerie",
		"${missing|}":                 "",
		"${site.tags[9]}":             "${site.tags[9]}",
		"${ }":                        "${ }",
	}
	for in, want := range cases {
		assert.Equal(t, want, Interpolate(in, data), in)
	}
}

func TestInterpolateNilDataKeepsDefaults(t *testing.T) {
	assert.Equal(t, "x ${a}", Interpolate("x ${a}", nil))
	assert.Equal(t, "x y", Interpolate("x ${a|y}", nil))
}

func TestLookupStringMaps(t *testing.T) {
	v, ok := Lookup(map[string]any{"env": map[string]string{"name": "prod"}}, "env.name")
	assert.True(t, ok)
	assert.Equal(t, "prod", v)
	_, ok = Lookup(map[string]any{"list": []string{"a"}}, "list[1]")
	assert.False(t, ok)
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, []string{"a.b", "c"}, Placeholders("${a.b} et ${ c | d }"))
	assert.Empty(t, Placeholders("rien"))
}

func TestLookupTypedCollections(t *testing.T) {
	data := map[string]any{"items": []map[string]int{{"n": 2}, {"n": 5}}}
	v, ok := Lookup(data, "items[1].n")
	assert.True(t, ok)
	assert.Equal(t, 5, v)

	for _, bad := range []string{"items..n", "items[x]", "items[-1]", "items[0", "items.n"} {
		_, ok := Lookup(data, bad)
		assert.False(t, ok, bad)
	}
}

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ByLCY/blueprint/logger"
)

func TestResolveFormat(t *testing.T) {
	cases := []struct {
		flag, out, want string
	}{
		{"", "out/page.png", "png"},
		{"", "out/page.JPEG", "jpg"},
		{"pdf", "out/page.json", "pdf"},
		{"", "out/page", "json"},
		{" JPG ", "", "jpg"},
	}
	for _, c := range cases {
		if got := resolveFormat(c.flag, c.out); got != c.want {
			t.Fatalf("resolveFormat(%q, %q) = %q, want %q", c.flag, c.out, got, c.want)
		}
	}
}

func TestRunExportsJSON(t *testing.T) {
	out := filepath.Join(t.TempDir(), "nested", "accueil.json")
	err := run(runOptions{
		input:  filepath.Join("examples", "accueil.blueprint"),
		output: out,
		format: "json",
		data:   map[string]any{"site": map[string]any{"name": "Boulangerie"}},
		log:    logger.NewNop(),
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	var doc struct {
		Canvas struct {
			BackgroundColor string `json:"backgroundColor"`
		} `json:"canvas"`
		Elements []struct {
			Type    string `json:"type"`
			Content string `json:"content"`
		} `json:"elements"`
		Logo map[string]any `json:"logo"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if doc.Canvas.BackgroundColor != "#f5f5f5" {
		t.Fatalf("unexpected background %q", doc.Canvas.BackgroundColor)
	}
	if doc.Elements[0].Type != "header" || doc.Elements[0].Content != "Boulangerie" {
		t.Fatalf("header not bound to data: %+v", doc.Elements[0])
	}
	if doc.Logo == nil {
		t.Fatalf("logo block missing")
	}
	if !bytes.Contains(data, []byte(`"ariaLabel": "Vitrine de la boulangerie"`)) {
		t.Fatalf("image description should become its aria label")
	}
}

func TestRunRejectsUnknownFormat(t *testing.T) {
	err := run(runOptions{
		input:  filepath.Join("examples", "accueil.blueprint"),
		output: filepath.Join(t.TempDir(), "x.gif"),
		format: "gif",
		log:    logger.NewNop(),
	})
	if err == nil {
		t.Fatalf("expected error for gif")
	}
}

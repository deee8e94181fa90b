package layout

import "testing"

func TestParseColor(t *testing.T) {
	cases := []struct {
		in   string
		want Color
	}{
		{"#fff", Color{R: 255, G: 255, B: 255}},
		{"#3498db", Color{R: 52, G: 152, B: 219}},
		{"#00000080", Color{A: 128}},
		{"rgb(10, 20, 30)", Color{R: 10, G: 20, B: 30}},
		{"rgba(10, 20, 300, 0.5)", Color{R: 10, G: 20, B: 255, A: 127}},
		{"  White ", Color{R: 255, G: 255, B: 255}},
		{"transparent", Color{A: 1}},
	}
	for _, c := range cases {
		got, err := ParseColor(c.in)
		if err != nil {
			t.Fatalf("ParseColor(%q) 返回错误: %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("ParseColor(%q) 期望 %+v，实际 %+v", c.in, c.want, got)
		}
	}
	for _, bad := range []string{"", "#12", "#ggg", "rgb(1,2)", "hsl(0,0%,0%)", "bleu"} {
		if _, err := ParseColor(bad); err == nil {
			t.Fatalf("ParseColor(%q) 应当失败", bad)
		}
	}
}

func TestResolveColorFallback(t *testing.T) {
	fb := Color{R: 1, G: 2, B: 3}
	if got := ResolveColor("nope", fb); got != fb {
		t.Fatalf("无效颜色应回退，实际 %+v", got)
	}
	if got := ResolveColor("#ff0000", fb).Hex(); got != "#ff0000" {
		t.Fatalf("Hex 期望 #ff0000，实际 %s", got)
	}
}

func TestColorAlpha(t *testing.T) {
	if a := (Color{}).Alpha(); a != 1 {
		t.Fatalf("零值应不透明，实际 %g", a)
	}
	if a := (Color{A: 51}).Alpha(); a < 0.19 || a > 0.21 {
		t.Fatalf("A=51 期望约 0.2，实际 %g", a)
	}
}

package layout

import (
	"math"
	"testing"
)

// TestPxMmRoundTrip 验证 px↔mm 换算的往返精度。
func TestPxMmRoundTrip(t *testing.T) {
	samples := []float64{0, 0.5, 1, 16, 80, 96, 800, 1000}
	for _, px := range samples {
		back := px * PxToMm * MmToPx
		if diff := math.Abs(back - px); diff > 1e-9 {
			t.Fatalf("px→mm→px 往返误差过大: in=%gpx back=%g diff=%g", px, back, diff)
		}
	}
	// 96px = 1in = 25.4mm（PtToMm 为近似值，允许 1e-3 误差）
	if got := 96 * PxToMm; math.Abs(got-25.4) > 1e-3 {
		t.Fatalf("96px 转 mm 期望 25.4，实际 %g", got)
	}
}

// TestParseFontSize 覆盖常见字号写法与回退。
func TestParseFontSize(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"14px", 14},
		{"12pt", 16},
		{"1.5em", 24},
		{"18", 18},
		{"150%", 24},
		{"", DefaultFontSize},
		{"large", DefaultFontSize},
		{"-3px", DefaultFontSize},
	}
	for _, c := range cases {
		if got := ParseFontSize(c.in, DefaultFontSize); math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("ParseFontSize(%q) 期望 %g，实际 %g", c.in, c.want, got)
		}
	}
}

// TestParsePadding 验证 1 到 4 个值的简写语义。
func TestParsePadding(t *testing.T) {
	cases := []struct {
		in   string
		want Padding
	}{
		{"10px", Padding{10, 10, 10, 10}},
		{"10px 20px", Padding{10, 20, 10, 20}},
		{"1px 2px 3px", Padding{1, 2, 3, 2}},
		{"1px 2px 3px 4px", Padding{1, 2, 3, 4}},
		{"", Padding{}},
		{"auto 5px", Padding{0, 5, 0, 5}},
	}
	for _, c := range cases {
		if got := ParsePadding(c.in); got != c.want {
			t.Fatalf("ParsePadding(%q) 期望 %+v，实际 %+v", c.in, c.want, got)
		}
	}
}

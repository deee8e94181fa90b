package editor

import (
	"math"
	"testing"
)

// TestPxPtRoundTrip 验证 px↔pt 换算的往返精度（允许极小的浮点误差）。
func TestPxPtRoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 1, 12, 14.4, 72, 96, 144, 1000}
	for _, px := range samples {
		pt := px * PxToPt
		back := pt * PtToPx
		if diff := math.Abs(back - px); diff > 1e-9 {
			t.Fatalf("px→pt→px 往返误差过大: in=%gpx pt=%g back=%g diff=%g", px, pt, back, diff)
		}
	}
}

// TestParseLengthUnits 覆盖常见单位的解析，rem 不能被误识别为 em。
func TestParseLengthUnits(t *testing.T) {
	cases := []struct {
		in   string
		want Length
	}{
		{"800px", Length{Value: 800, Unit: UnitPX, Valid: true}},
		{" 80 ", Length{Value: 80, Unit: UnitNone, Valid: true}},
		{"50%", Length{Value: 50, Unit: UnitPercent, Valid: true}},
		{"1.5rem", Length{Value: 1.5, Unit: UnitREM, Valid: true}},
		{"2em", Length{Value: 2, Unit: UnitEM, Valid: true}},
		{"12pt", Length{Value: 12, Unit: UnitPT, Valid: true}},
		{"auto", Length{}},
		{"", Length{}},
		{"px", Length{}},
		{"NaN", Length{}},
		{"nanpx", Length{}},
		{"Inf", Length{}},
		{"-Infinity", Length{}},
	}
	for _, c := range cases {
		if got := ParseLength(c.in); got != c.want {
			t.Fatalf("ParseLength(%q) = %+v, want %+v", c.in, got, c.want)
		}
	}
}

// TestLengthToPX 验证各单位到像素的换算。
func TestLengthToPX(t *testing.T) {
	if got := (Length{Value: 50, Unit: UnitPercent}).ToPX(800); got != 400 {
		t.Fatalf("50%% of 800 期望 400，实际 %g", got)
	}
	if got := (Length{Value: 2, Unit: UnitREM}).ToPX(0); got != 32 {
		t.Fatalf("2rem 期望 32px，实际 %g", got)
	}
	if got := (Length{Value: 12, Unit: UnitPT}).ToPX(0); math.Abs(got-16) > 1e-9 {
		t.Fatalf("12pt 期望 16px，实际 %g", got)
	}
}

// TestParsePixelsFallback 非像素值与无法解析的值都回退到默认值。
func TestParsePixelsFallback(t *testing.T) {
	if got := ParsePixels("150px", 100); got != 150 {
		t.Fatalf("150px 期望 150，实际 %g", got)
	}
	if got := ParsePixels("90", 100); got != 90 {
		t.Fatalf("90 期望 90，实际 %g", got)
	}
	for _, in := range []string{"", "auto", "50%", "abc", "NaN", "nanpx", "+Inf"} {
		if got := ParsePixels(in, 100); got != 100 {
			t.Fatalf("ParsePixels(%q) 期望回退 100，实际 %g", in, got)
		}
	}
	if got := FormatPixels(150); got != "150px" {
		t.Fatalf("FormatPixels(150) = %q", got)
	}
}

package layout

import (
	"strings"

	"github.com/ByLCY/blueprint/editor"
)

// 像素、点与毫米之间的换算（CSS 约定 96px = 1in = 72pt = 25.4mm）。
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
	PxToPt = editor.PxToPt
	PtToPx = editor.PtToPx
	PxToMm = PxToPt * PtToMm
	MmToPx = 1.0 / PxToMm
)

// DefaultFontSize is the body font size in px when a style does not set one.
const DefaultFontSize = 16.0

// ParseFontSize resolves a CSS font-size ("14px", "12pt", "1.5em", "18") to px.
func ParseFontSize(value string, fallback float64) float64 {
	l := editor.ParseLength(value)
	if !l.Valid || l.Value <= 0 {
		return fallback
	}
	if l.Unit == editor.UnitPercent {
		return fallback * l.Value / 100
	}
	return l.ToPX(fallback)
}

// Padding is a resolved CSS padding shorthand in px.
type Padding struct {
	Top, Right, Bottom, Left float64
}

// ParsePadding 解析 CSS padding 简写（1 到 4 个值），无法解析的值按 0 处理。
func ParsePadding(value string) Padding {
	fields := strings.Fields(value)
	vals := make([]float64, len(fields))
	for i, f := range fields {
		vals[i] = editor.ParsePixels(f, 0)
	}
	switch len(vals) {
	case 1:
		return Padding{vals[0], vals[0], vals[0], vals[0]}
	case 2:
		return Padding{vals[0], vals[1], vals[0], vals[1]}
	case 3:
		return Padding{vals[0], vals[1], vals[2], vals[1]}
	case 4:
		return Padding{vals[0], vals[1], vals[2], vals[3]}
	}
	return Padding{}
}

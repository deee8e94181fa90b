package editor

import (
	"math"
	"strconv"
	"strings"
)

// This file defines unit-aware parsing for CSS-like style lengths.

// Unit represents the original unit of a style length.
type Unit int

const (
	UnitNone    Unit = iota // bare numbers, treated as pixels
	UnitPX                  // pixels
	UnitPercent             // percentage of the container
	UnitEM                  // relative to font size
	UnitREM                 // relative to root font size
	UnitPT                  // points
)

// Conversion constants used by renderers.
const (
	PxToPt         = 0.75
	PtToPx         = 1.0 / PxToPt
	RootFontSizePx = 16.0
)

// UnitToString returns a short string for a Unit value.
func UnitToString(u Unit) string {
	switch u {
	case UnitPX:
		return "px"
	case UnitPercent:
		return "%"
	case UnitEM:
		return "em"
	case UnitREM:
		return "rem"
	case UnitPT:
		return "pt"
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
	Valid bool    `json:"valid"`
}

// ToPX converts to pixels. Percentages resolve against reference.
func (l Length) ToPX(reference float64) float64 {
	switch l.Unit {
	case UnitPercent:
		return reference * l.Value / 100
	case UnitEM, UnitREM:
		return l.Value * RootFontSizePx
	case UnitPT:
		return l.Value * PtToPx
	default:
		return l.Value
	}
}

// ParseLength parses "800px", "50%", "1.5em", "12pt" or a bare number.
// Anything else ("auto", "", "abc", "NaN", "Inf") yields an invalid Length.
func ParseLength(value string) Length {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}
	}
	unit := UnitNone
	num := v
	// rem 必须排在 em 之前匹配
	for _, suf := range []struct {
		s string
		u Unit
	}{{"px", UnitPX}, {"%", UnitPercent}, {"rem", UnitREM}, {"em", UnitEM}, {"pt", UnitPT}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	// ParseFloat 接受 NaN/Inf，样式长度必须是有限值
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return Length{}
	}
	return Length{Value: f, Unit: unit, Valid: true}
}

// ParsePixels returns the pixel value of a px/bare style length, or fallback when the
// value is absent, non-pixel or unparseable.
func ParsePixels(value string, fallback float64) float64 {
	l := ParseLength(value)
	if !l.Valid || (l.Unit != UnitPX && l.Unit != UnitNone) {
		return fallback
	}
	return l.Value
}

// FormatPixels renders a pixel value the way the toolbar stores it ("150px").
func FormatPixels(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}

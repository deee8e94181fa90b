package layout

import (
	"fmt"
	"strconv"
	"strings"
)

var namedColors = map[string]Color{
	"black":       {R: 0, G: 0, B: 0},
	"white":       {R: 255, G: 255, B: 255},
	"red":         {R: 255, G: 0, B: 0},
	"green":       {R: 0, G: 128, B: 0},
	"blue":        {R: 0, G: 0, B: 255},
	"gray":        {R: 128, G: 128, B: 128},
	"grey":        {R: 128, G: 128, B: 128},
	"orange":      {R: 255, G: 165, B: 0},
	"yellow":      {R: 255, G: 255, B: 0},
	"purple":      {R: 128, G: 0, B: 128},
	"pink":        {R: 255, G: 192, B: 203},
	"transparent": {A: 1},
}

// ParseColor 解析 #rgb、#rrggbb、#rrggbbaa、rgb()/rgba() 以及常见颜色名。
func ParseColor(value string) (Color, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Color{}, fmt.Errorf("颜色为空")
	}
	if c, ok := namedColors[v]; ok {
		return c, nil
	}
	if strings.HasPrefix(v, "#") {
		return parseHex(strings.TrimPrefix(v, "#"))
	}
	if strings.HasPrefix(v, "rgb") {
		return parseRGBFunc(v)
	}
	return Color{}, fmt.Errorf("无法识别的颜色 %q", value)
}

func parseHex(hex string) (Color, error) {
	for _, r := range hex {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return Color{}, fmt.Errorf("非法十六进制颜色 #%s", hex)
		}
	}
	switch len(hex) {
	case 3:
		return Color{
			R: mustHex(strings.Repeat(hex[0:1], 2)),
			G: mustHex(strings.Repeat(hex[1:2], 2)),
			B: mustHex(strings.Repeat(hex[2:3], 2)),
		}, nil
	case 6, 8:
		c := Color{R: mustHex(hex[0:2]), G: mustHex(hex[2:4]), B: mustHex(hex[4:6])}
		if len(hex) == 8 {
			c.A = max(mustHex(hex[6:8]), 1)
		}
		return c, nil
	}
	return Color{}, fmt.Errorf("非法十六进制颜色 #%s", hex)
}

func parseRGBFunc(v string) (Color, error) {
	open, end := strings.IndexByte(v, '('), strings.LastIndexByte(v, ')')
	if open < 0 || end < open {
		return Color{}, fmt.Errorf("非法颜色函数 %q", v)
	}
	parts := strings.Split(v[open+1:end], ",")
	if len(parts) < 3 {
		return Color{}, fmt.Errorf("非法颜色函数 %q", v)
	}
	var ch [3]int
	for i := 0; i < 3; i++ {
		n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil {
			return Color{}, fmt.Errorf("非法颜色分量 %q: %w", parts[i], err)
		}
		ch[i] = min(max(n, 0), 255)
	}
	c := Color{R: ch[0], G: ch[1], B: ch[2]}
	if len(parts) == 4 {
		if a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64); err == nil && a < 1 {
			c.A = max(int(a*255), 1)
		}
	}
	return c, nil
}

func mustHex(s string) int {
	v, _ := strconv.ParseInt(s, 16, 64)
	return int(v)
}

// ResolveColor returns the parsed colour or fallback when value is empty or invalid.
func ResolveColor(value string, fallback Color) Color {
	if c, err := ParseColor(value); err == nil {
		return c
	}
	return fallback
}

// Hex formats c as #rrggbb.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

package renderer

import (
	"math"
	"strings"
	"unicode"

	"github.com/ByLCY/blueprint/layout"
)

// MeasureFunc 返回文本在当前字体下的宽度（px）。
type MeasureFunc func(s string) float64

// GreedyWrap 按 wrap 模式贪心换行：
//   - nowrap：仅按显式换行划分；
//   - break-word：忽略空白，纯按宽度切分；
//   - anywhere（默认）：优先在空白处分割，超过限制时在词内拆分。
//
// width <= 0 表示不限宽。返回的行只填充 Content 与 Width。
func GreedyWrap(content string, width float64, measure MeasureFunc, wrap string) []layout.TextLine {
	limit := width
	if limit <= 0 {
		limit = math.MaxFloat64
	}

	if wrap == "nowrap" {
		parts := strings.Split(strings.ReplaceAll(content, "\r", ""), "\n")
		lines := make([]layout.TextLine, 0, len(parts))
		for _, p := range parts {
			lines = append(lines, layout.TextLine{Content: p, Width: measure(p)})
		}
		return lines
	}

	var lines []layout.TextLine
	var builder strings.Builder
	current := 0.0
	emit := func(force bool) {
		if builder.Len() == 0 {
			if force {
				lines = append(lines, layout.TextLine{})
			}
			return
		}
		lines = append(lines, layout.TextLine{Content: builder.String(), Width: current})
		builder.Reset()
		current = 0
	}
	appendToken := func(token string, w float64) {
		builder.WriteString(token)
		current += w
	}

	if wrap == "break-word" {
		for _, r := range content {
			if r == '\r' {
				continue
			}
			if r == '\n' {
				emit(true)
				continue
			}
			s := string(r)
			cw := measure(s)
			if current > 0 && current+cw > limit {
				emit(false)
			}
			appendToken(s, cw)
		}
		emit(true)
		return lines
	}

	for _, token := range tokenize(content) {
		if token == "\n" {
			emit(true)
			continue
		}
		tw := measure(token)
		if current > 0 && current+tw > limit {
			emit(false)
			// 行首不保留空白
			if strings.TrimSpace(token) == "" {
				continue
			}
		}
		if tw <= limit {
			appendToken(token, tw)
			continue
		}
		for _, chunk := range splitByWidth(token, limit, measure) {
			cw := measure(chunk)
			if current > 0 && current+cw > limit {
				emit(false)
			}
			appendToken(chunk, cw)
		}
	}
	emit(true)
	return lines
}

// ApplyLeading 用字体行高回填每行高度，并把 lineHeight 超出部分作为行前间距（首行为 0）。
func ApplyLeading(lines []layout.TextLine, textHeight, lineHeight float64) []layout.TextLine {
	if len(lines) == 0 {
		lines = []layout.TextLine{{}}
	}
	leading := math.Max(lineHeight-textHeight, 0)
	for i := range lines {
		if lines[i].Height <= 0 {
			lines[i].Height = textHeight
		}
		lines[i].GapBefore = leading
		if i == 0 {
			lines[i].GapBefore = 0
		}
	}
	return lines
}

func tokenize(s string) []string {
	var tokens []string
	var builder strings.Builder
	lastWasSpace := false
	flush := func() {
		if builder.Len() == 0 {
			return
		}
		tokens = append(tokens, builder.String())
		builder.Reset()
	}
	for _, r := range s {
		if r == '\r' {
			continue
		}
		if r == '\n' {
			flush()
			tokens = append(tokens, "\n")
			lastWasSpace = false
			continue
		}
		isSpace := unicode.IsSpace(r)
		if builder.Len() == 0 {
			lastWasSpace = isSpace
		} else if lastWasSpace != isSpace {
			flush()
			lastWasSpace = isSpace
		}
		builder.WriteRune(r)
	}
	flush()
	return tokens
}

func splitByWidth(token string, limit float64, measure MeasureFunc) []string {
	if limit <= 0 || limit == math.MaxFloat64 {
		return []string{token}
	}
	var parts []string
	var runes []rune
	for _, r := range token {
		runes = append(runes, r)
		if len(runes) > 1 && measure(string(runes)) > limit {
			parts = append(parts, string(runes[:len(runes)-1]))
			runes = []rune{r}
		}
	}
	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}
	return parts
}

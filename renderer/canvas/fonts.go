package canvasrenderer

import (
	"strings"
	"sync"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/blueprint/layout"
	"github.com/ByLCY/blueprint/renderer"
)

// loadedFont 是一个已加载的字体族及其字重。
type loadedFont struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

// fontCache 按 src+style 缓存字体族，加载失败的字体统一指向内置回退字体。
type fontCache struct {
	baseDir string

	mu       sync.Mutex
	loaded   map[string]loadedFont
	fallback *loadedFont
}

func newFontCache(baseDir string) *fontCache {
	return &fontCache{baseDir: baseDir, loaded: map[string]loadedFont{}}
}

// Face 返回 sizePt 磅的字体面。
func (fc *fontCache) Face(res layout.FontResource, sizePt float64, col layout.Color) (*canvas.FontFace, error) {
	f, err := fc.lookup(res)
	if err != nil {
		return nil, err
	}
	return f.family.Face(sizePt, colorFromLayout(col), f.style, canvas.FontNormal), nil
}

func (fc *fontCache) lookup(res layout.FontResource) (loadedFont, error) {
	key := res.Src + "#" + res.Style
	fc.mu.Lock()
	defer fc.mu.Unlock()
	if f, ok := fc.loaded[key]; ok {
		return f, nil
	}

	f := loadedFont{family: canvas.NewFontFamily(familyName(res)), style: parseFontStyle(res.Style)}
	data, err := renderer.ReadFont(fc.baseDir, res.Src)
	if err == nil {
		err = f.family.LoadFont(data, 0, f.style)
	}
	if err != nil {
		fb, fbErr := fc.fallbackFace()
		if fbErr != nil {
			return loadedFont{}, err
		}
		f = *fb
	}
	fc.loaded[key] = f
	return f, nil
}

// fallbackFace 加载内置 Go-Regular；调用方持有 mu。
func (fc *fontCache) fallbackFace() (*loadedFont, error) {
	if fc.fallback != nil {
		return fc.fallback, nil
	}
	data, err := renderer.ReadFont("", renderer.FallbackFont)
	if err != nil {
		return nil, err
	}
	family := canvas.NewFontFamily("blueprint-fallback")
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, err
	}
	fc.fallback = &loadedFont{family: family, style: canvas.FontRegular}
	return fc.fallback, nil
}

func familyName(res layout.FontResource) string {
	for _, name := range []string{res.Family, res.Name} {
		if name != "" {
			return name
		}
	}
	return "Body"
}

// fontFor 在文档资源中查找文本使用的字体，找不到时退回 Body。
func fontFor(name string, fonts map[string]layout.FontResource) layout.FontResource {
	if res, ok := fonts[name]; ok {
		return res
	}
	return fonts["Body"]
}

// parseFontStyle 将 CSS 风格的字重描述映射为 canvas 字重，例如 "bold italic"。
func parseFontStyle(style string) canvas.FontStyle {
	s := strings.ToLower(style)
	weights := []struct {
		word  string
		style canvas.FontStyle
	}{
		{"black", canvas.FontBlack},
		{"extrabold", canvas.FontExtraBold},
		{"semibold", canvas.FontSemiBold},
		{"demibold", canvas.FontSemiBold},
		{"bold", canvas.FontBold},
		{"medium", canvas.FontMedium},
		{"light", canvas.FontLight},
	}
	result := canvas.FontRegular
	for _, w := range weights {
		if strings.Contains(s, w.word) {
			result = w.style
			break
		}
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		result |= canvas.FontItalic
	}
	return result
}

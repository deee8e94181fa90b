package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"math"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/ByLCY/blueprint/fonts"
	"github.com/ByLCY/blueprint/layout"
	"github.com/ByLCY/blueprint/renderer"
)

// Renderer 使用 gg 将布局结果栅格化为 PNG 或 JPEG，Scale 为设备像素比。
type Renderer struct {
	baseDir string
	scale   float64
	format  renderer.Format
	quality int

	// truetype.Face 非并发安全，排版与绘制都在 mu 下进行
	mu     sync.Mutex
	parsed map[string]*truetype.Font
	faces  map[faceKey]font.Face
}

type faceKey struct {
	src  string
	size float64
}

var (
	_ renderer.Renderer   = (*Renderer)(nil)
	_ renderer.Typesetter = (*Renderer)(nil)
)

// Options configures the raster renderer.
type Options struct {
	BaseDir string
	Scale   float64 // 缺省为 2，与截图导出一致
	Format  string  // png（默认）或 jpeg/jpg
	Quality int     // JPEG 质量，缺省 90
}

// New creates a raster renderer.
func New(opts Options) *Renderer {
	r := &Renderer{
		baseDir: opts.BaseDir,
		scale:   opts.Scale,
		format:  renderer.FormatPNG,
		quality: opts.Quality,
		parsed:  map[string]*truetype.Font{},
		faces:   map[faceKey]font.Face{},
	}
	if r.scale <= 0 {
		r.scale = 2
	}
	if r.quality <= 0 || r.quality > 100 {
		r.quality = 90
	}
	switch strings.ToLower(opts.Format) {
	case "jpeg", "jpg":
		r.format = renderer.FormatJPEG
	}
	return r
}

// Format reports the output type.
func (r *Renderer) Format() renderer.Format { return r.format }

// Render 栅格化第一页。
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	page := result.Pages[0]
	w := int(math.Ceil(page.Width * r.scale))
	h := int(math.Ceil(page.Height * r.scale))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("页面尺寸无效: %gx%g", page.Width, page.Height)
	}
	dc := gg.NewContext(w, h)
	setColor(dc, page.Background)
	dc.Clear()

	for _, layer := range page.Layers {
		for _, rc := range layer.Rects {
			r.drawRect(dc, rc)
		}
		for _, ln := range layer.Lines {
			setColor(dc, ln.Color)
			dc.SetLineWidth(r.px(strokeOr(ln.Width)))
			dc.DrawLine(r.px(ln.X1), r.px(ln.Y1), r.px(ln.X2), r.px(ln.Y2))
			dc.Stroke()
		}
		for _, c := range layer.Circles {
			r.paint(dc, c.FillColor, c.StrokeColor, c.StrokeWidth, func() {
				dc.DrawCircle(r.px(c.CX), r.px(c.CY), r.px(c.R))
			})
		}
		for _, tb := range layer.Texts {
			if err := r.drawTextBox(dc, tb, result.Resources.Fonts); err != nil {
				return nil, fmt.Errorf("绘制元素 %s 文本失败: %w", layer.ElementID, err)
			}
		}
		for _, img := range layer.Images {
			if err := r.drawImage(dc, img); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if r.format == renderer.FormatJPEG {
		if err := jpeg.Encode(&buf, dc.Image(), &jpeg.Options{Quality: r.quality}); err != nil {
			return nil, fmt.Errorf("编码 JPEG 失败: %w", err)
		}
		return buf.Bytes(), nil
	}
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("编码 PNG 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// LayoutLines 实现 layout.Typesetter，使用与 PDF 渲染器相同的贪心换行，度量单位为 px。
func (r *Renderer) LayoutLines(content string, width float64, fr layout.FontResource, fontSize, lineHeight float64, wrap string) ([]layout.TextLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	face, err := r.face(fr, fontSize)
	if err != nil {
		return nil, err
	}
	measure := func(s string) float64 { return fixedToFloat(font.MeasureString(face, s)) }
	lines := renderer.GreedyWrap(content, width, measure, wrap)
	textHeight := fixedToFloat(face.Metrics().Height)
	if textHeight <= 0 {
		textHeight = lineHeight
	}
	return renderer.ApplyLeading(lines, textHeight, lineHeight), nil
}

func (r *Renderer) drawRect(dc *gg.Context, rc layout.Rect) {
	r.paint(dc, rc.FillColor, rc.StrokeColor, rc.StrokeWidth, func() {
		if rc.Radius > 0 {
			dc.DrawRoundedRectangle(r.px(rc.X), r.px(rc.Y), r.px(rc.Width), r.px(rc.Height), r.px(rc.Radius))
			return
		}
		dc.DrawRectangle(r.px(rc.X), r.px(rc.Y), r.px(rc.Width), r.px(rc.Height))
	})
}

// paint 先填充再描边；path 每次重新构建，nil 颜色表示跳过。
func (r *Renderer) paint(dc *gg.Context, fill, stroke *layout.Color, width float64, path func()) {
	if fill != nil {
		path()
		setColor(dc, *fill)
		dc.Fill()
	}
	if stroke != nil {
		path()
		setColor(dc, *stroke)
		dc.SetLineWidth(r.px(strokeOr(width)))
		dc.Stroke()
	}
}

func (r *Renderer) drawTextBox(dc *gg.Context, tb layout.TextBox, res map[string]layout.FontResource) error {
	fr, ok := res[tb.Font]
	if !ok {
		fr = res["Body"]
	}
	// 以设备像素创建字体面，避免放大后的模糊
	face, err := r.face(fr, tb.FontSize*r.scale)
	if err != nil {
		return err
	}
	dc.SetFontFace(face)
	setColor(dc, tb.Color)

	lines := tb.Lines
	if len(lines) == 0 {
		lines = []layout.TextLine{{Content: tb.Content, Height: tb.LineHeight}}
	}
	ascent := fixedToFloat(face.Metrics().Ascent)
	cursorY := tb.Y
	for _, line := range lines {
		cursorY += line.GapBefore
		w, _ := dc.MeasureString(line.Content)
		x := r.px(tb.X)
		switch strings.ToLower(tb.Align) {
		case "center":
			x = r.px(tb.X+tb.Width/2) - w/2
		case "right", "end":
			x = r.px(tb.X+tb.Width) - w
		}
		dc.DrawString(line.Content, x, r.px(cursorY)+ascent)
		lh := line.Height
		if lh <= 0 {
			lh = math.Max(tb.FontSize, tb.LineHeight)
		}
		cursorY += lh
	}
	return nil
}

func (r *Renderer) drawImage(dc *gg.Context, img layout.ImageBox) error {
	src, err := renderer.DecodeImage(r.baseDir, img.Path)
	if err != nil {
		return err
	}
	w, h := img.Width, img.Height
	if w <= 0 {
		w = float64(src.Bounds().Dx())
	}
	if h <= 0 {
		h = float64(src.Bounds().Dy())
	}
	dst := image.Rect(int(r.px(img.X)), int(r.px(img.Y)), int(math.Ceil(r.px(img.X+w))), int(math.Ceil(r.px(img.Y+h))))
	draw.CatmullRom.Scale(dc.Image().(draw.Image), dst, src, src.Bounds(), draw.Over, nil)
	return nil
}

// face 返回指定字号（px）的字体面。调用方持有 mu。
func (r *Renderer) face(fr layout.FontResource, size float64) (font.Face, error) {
	src := fr.Src
	if src == "" {
		src = renderer.FallbackFont
	}
	key := faceKey{src: src, size: size}
	if f, ok := r.faces[key]; ok {
		return f, nil
	}
	tt, ok := r.parsed[src]
	if !ok {
		data, err := renderer.ReadFont(r.baseDir, src)
		if err != nil {
			// 与 PDF 渲染器一致：加载失败时回退到 Go-Regular
			if data, err = fonts.Load(renderer.FallbackFont); err != nil {
				return nil, err
			}
		}
		tt, err = truetype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("解析字体 %s 失败: %w", src, err)
		}
		r.parsed[src] = tt
	}
	// DPI 72 时 Size 的单位即为像素
	f := truetype.NewFace(tt, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingNone})
	r.faces[key] = f
	return f, nil
}

func (r *Renderer) px(v float64) float64 { return v * r.scale }

func fixedToFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }

func setColor(dc *gg.Context, c layout.Color) {
	dc.SetRGBA(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, c.Alpha())
}

func strokeOr(w float64) float64 {
	if w <= 0 {
		return 1
	}
	return w
}

package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/blueprint/layout"
	"github.com/ByLCY/blueprint/renderer"
)

// 线宽缺省值（px）
const defaultStrokeWidth = 1.0

// Renderer draws layout results as PDF via github.com/tdewolff/canvas.
// 布局结果使用画布像素，进入 canvas 之前统一换算为 mm，字号换算为 pt。
type Renderer struct {
	baseDir string
	fonts   *fontCache
}

var (
	_ renderer.Renderer   = (*Renderer)(nil)
	_ renderer.Typesetter = (*Renderer)(nil)
)

// NewRenderer creates a PDF renderer resolving fonts and images under baseDir.
func NewRenderer(baseDir string) *Renderer {
	return &Renderer{baseDir: baseDir, fonts: newFontCache(baseDir)}
}

// Format reports the output type.
func (r *Renderer) Format() renderer.Format { return renderer.FormatPDF }

// Render renders the result into a PDF byte slice.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}

	var buf bytes.Buffer
	first := result.Pages[0]
	writer := pdf.New(&buf, mm(first.Width), mm(first.Height), nil)
	r.applyMeta(writer, result.Meta)
	for i, page := range result.Pages {
		if i > 0 {
			writer.NewPage(mm(page.Width), mm(page.Height))
		}
		c := canvas.New(mm(page.Width), mm(page.Height))
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与画布保持左上角为原点

		if err := r.drawPage(ctx, page, result.Resources); err != nil {
			return nil, err
		}
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) applyMeta(writer *pdf.PDF, meta layout.DocumentMeta) {
	if writer == nil {
		return
	}
	keywords := strings.Join(meta.Keywords, ", ")
	writer.SetInfo(meta.Title, meta.Subject, keywords, meta.Author, meta.Creator)
}

// LayoutLines 实现 layout.Typesetter 接口，使用贪心换行算法。
// 约定：width/fontSize/lineHeight 均为 px；字体面使用 pt，宽度测量结果从 mm 换算回 px。
func (r *Renderer) LayoutLines(content string, width float64, font layout.FontResource, fontSize, lineHeight float64, wrap string) ([]layout.TextLine, error) {
	face, err := r.fonts.Face(font, fontSize*layout.PxToPt, layout.Color{R: 30, G: 30, B: 30})
	if err != nil {
		return nil, err
	}
	measure := func(s string) float64 { return face.TextWidth(s) * layout.MmToPx }

	if wrap == "" {
		wrap = "anywhere"
	}
	lines := renderer.GreedyWrap(content, width, measure, wrap)
	textHeight := face.Metrics().LineHeight * layout.MmToPx
	if textHeight <= 0 {
		textHeight = lineHeight
	}
	return renderer.ApplyLeading(lines, textHeight, lineHeight), nil
}

func (r *Renderer) drawPage(ctx *canvas.Context, page layout.Page, resources layout.ResourceSet) error {
	bg := page.Background
	r.drawRects(ctx, []layout.Rect{{Width: page.Width, Height: page.Height, FillColor: &bg}})
	// 图层已按 zIndex 排好，图层内先形状，再文本与图片
	for _, layer := range page.Layers {
		r.drawRects(ctx, layer.Rects)
		r.drawLines(ctx, layer.Lines)
		r.drawCircles(ctx, layer.Circles)
		for _, tb := range layer.Texts {
			fontRes := fontFor(tb.Font, resources.Fonts)
			if err := r.drawTextBox(ctx, tb, fontRes); err != nil {
				return fmt.Errorf("绘制元素 %s 文本失败: %w", layer.ElementID, err)
			}
		}
		if err := r.drawImages(ctx, layer.Images); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) drawTextBox(ctx *canvas.Context, tb layout.TextBox, fontRes layout.FontResource) error {
	face, err := r.fonts.Face(fontRes, tb.FontSize*layout.PxToPt, tb.Color)
	if err != nil {
		return err
	}

	lines := tb.Lines
	if len(lines) == 0 {
		lines = []layout.TextLine{{Content: tb.Content, Width: tb.Width, Height: tb.LineHeight}}
	}

	// 处理水平对齐：left（默认）/center/right。
	var textAlign canvas.TextAlign
	var anchorX float64
	switch strings.ToLower(tb.Align) {
	case "center":
		textAlign = canvas.Center
		anchorX = tb.X + tb.Width/2
	case "right", "end":
		textAlign = canvas.Right
		anchorX = tb.X + tb.Width
	default:
		textAlign = canvas.Left
		anchorX = tb.X
	}

	ascent := face.Metrics().Ascent // mm
	cursorY := tb.Y
	for _, line := range lines {
		cursorY += line.GapBefore
		lineHeight := line.Height
		if lineHeight <= 0 {
			lineHeight = math.Max(tb.FontSize, tb.LineHeight)
		}
		ctx.DrawText(mm(anchorX), mm(cursorY)+ascent, canvas.NewTextLine(face, line.Content, textAlign))
		cursorY += lineHeight
	}
	return nil
}

func (r *Renderer) drawImages(ctx *canvas.Context, images []layout.ImageBox) error {
	for _, img := range images {
		if img.Path == "" {
			continue
		}
		data, err := renderer.DecodeImage(r.baseDir, img.Path)
		if err != nil {
			return err
		}

		width := img.Width
		if width <= 0 {
			width = float64(data.Bounds().Dx())
		}
		dpmm := float64(data.Bounds().Dx()) / mm(width)
		if dpmm <= 0 {
			dpmm = 1
		}
		ctx.DrawImage(mm(img.X), mm(img.Y), data, canvas.DPMM(dpmm))
	}
	return nil
}

func (r *Renderer) drawLines(ctx *canvas.Context, lines []layout.Line) {
	for _, ln := range lines {
		ctx.SetStrokeColor(colorFromLayout(ln.Color))
		ctx.SetStrokeWidth(mm(strokeOr(ln.Width)))
		p := &canvas.Path{}
		p.MoveTo(0, 0)
		p.LineTo(mm(ln.X2-ln.X1), mm(ln.Y2-ln.Y1))
		ctx.DrawPath(mm(ln.X1), mm(ln.Y1), p)
	}
}

func (r *Renderer) drawRects(ctx *canvas.Context, rects []layout.Rect) {
	for _, rc := range rects {
		r.setPaint(ctx, rc.FillColor, rc.StrokeColor, rc.StrokeWidth)
		shape := canvas.Rectangle(mm(rc.Width), mm(rc.Height))
		if rc.Radius > 0 {
			shape = canvas.RoundedRectangle(mm(rc.Width), mm(rc.Height), mm(rc.Radius))
		}
		ctx.DrawPath(mm(rc.X), mm(rc.Y), shape)
	}
}

func (r *Renderer) drawCircles(ctx *canvas.Context, circles []layout.Circle) {
	for _, c := range circles {
		r.setPaint(ctx, c.FillColor, c.StrokeColor, c.StrokeWidth)
		ctx.DrawPath(mm(c.CX-c.R), mm(c.CY-c.R), canvas.Circle(mm(c.R)))
	}
}

// setPaint 设置填充与描边；nil 表示透明。
func (r *Renderer) setPaint(ctx *canvas.Context, fill, stroke *layout.Color, width float64) {
	if fill != nil {
		ctx.SetFillColor(colorFromLayout(*fill))
	} else {
		ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
	}
	if stroke != nil {
		ctx.SetStrokeColor(colorFromLayout(*stroke))
		ctx.SetStrokeWidth(mm(strokeOr(width)))
	} else {
		ctx.SetStrokeColor(color.RGBA{0, 0, 0, 0})
		ctx.SetStrokeWidth(0)
	}
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, c.Alpha())
}

// mm 将画布像素换算为毫米。
func mm(px float64) float64 { return px * layout.PxToMm }

func strokeOr(w float64) float64 {
	if w <= 0 {
		return defaultStrokeWidth
	}
	return w
}

package layout

import (
	"fmt"
	"math"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/ByLCY/blueprint/editor"
)

const (
	lineHeightFactor = 1.4
	fieldHeight      = 36.0
	formRowGap       = 12.0
	labelGap         = 4.0
	markerRadius     = 8.0
	// 地图投影：每经纬度对应的像素数
	mapPixelsPerDegree = 2000.0
)

var (
	white         = Color{R: 255, G: 255, B: 255}
	defaultInk    = Color{R: 30, G: 30, B: 30}
	mutedInk      = Color{R: 127, G: 140, B: 141}
	borderGray    = Color{R: 204, G: 204, B: 204}
	placeholderBg = Color{R: 236, G: 240, B: 241}
	guideRed      = Color{R: 231, G: 76, B: 60}
	guideBlue     = Color{R: 52, G: 152, B: 219}
	shadowColor   = Color{R: 0, G: 0, B: 0, A: 40}
)

// defaultSizes 是渲染时的类型默认尺寸（px），0 表示由内容决定。
var defaultSizes = map[editor.ElementType][2]float64{
	editor.TypeHeader:      {800, 80},
	editor.TypeFooter:      {800, 60},
	editor.TypeText:        {300, 0},
	editor.TypeTitle:       {400, 0},
	editor.TypeButton:      {0, 0},
	editor.TypeImage:       {300, 200},
	editor.TypeVideo:       {480, 270},
	editor.TypeCard:        {300, 0},
	editor.TypeSelect:      {200, fieldHeight},
	editor.TypeCalendar:    {200, fieldHeight},
	editor.TypeInputText:   {240, fieldHeight},
	editor.TypeInputEmail:  {240, fieldHeight},
	editor.TypeInputNumber: {240, fieldHeight},
	editor.TypeInputForm:   {400, 0},
	editor.TypeMap:         {400, 300},
	editor.TypeCarousel:    {600, 300},
	editor.TypeLogo:        {80, 80},
}

var fieldPlaceholders = map[editor.ElementType]string{
	editor.TypeInputText:   "Texte...",
	editor.TypeInputEmail:  "email@exemple.com",
	editor.TypeInputNumber: "0",
	editor.TypeCalendar:    "jj/mm/aaaa",
	editor.TypeSelect:      "Choisir...",
}

// DefaultResources returns the built-in Go font families.
func DefaultResources() ResourceSet {
	return ResourceSet{Fonts: map[string]FontResource{
		"Body":   {Name: "Body", Src: "embed:Go-Regular", Family: "Go"},
		"Bold":   {Name: "Bold", Src: "embed:Go-Bold", Style: "bold", Family: "Go"},
		"Italic": {Name: "Italic", Src: "embed:Go-Italic", Style: "italic", Family: "Go"},
		"Mono":   {Name: "Mono", Src: "embed:Go-Mono", Family: "Go Mono"},
	}}
}

type builder struct {
	opts   BuildOptions
	res    ResourceSet
	bounds []Rect
}

// Build 将导出文档投影为单页显示列表：背景、按 zIndex 排序的元素图层、可选辅助线与 logo。
func Build(doc *editor.ExportDocument, opts BuildOptions) (*Result, error) {
	if doc == nil {
		return nil, fmt.Errorf("文档为空")
	}
	if opts.Typesetter == nil {
		return nil, fmt.Errorf("layout: 缺少排版后端 Typesetter")
	}
	b := &builder{opts: opts, res: DefaultResources()}

	page := Page{
		Width:      positiveOr(doc.Canvas.Width, editor.CanvasWidth),
		Height:     positiveOr(doc.Canvas.Height, editor.CanvasHeight),
		Background: ResolveColor(doc.Canvas.BackgroundColor, white),
	}

	elements := make([]editor.ExportElement, len(doc.Elements))
	copy(elements, doc.Elements)
	sort.SliceStable(elements, func(i, j int) bool {
		return zIndex(elements[i].Style) < zIndex(elements[j].Style)
	})
	for _, el := range elements {
		layer, err := b.element(el)
		if err != nil {
			return nil, fmt.Errorf("元素 %s (%s): %w", el.ID, el.Type, err)
		}
		page.Layers = append(page.Layers, layer)
	}

	if opts.Debug.Guides {
		page.Layers = append(page.Layers, b.guides(doc))
	}
	if opts.Logo != nil {
		layer, err := b.logo(*opts.Logo)
		if err != nil {
			return nil, fmt.Errorf("logo: %w", err)
		}
		page.Layers = append(page.Layers, layer)
	}

	meta := opts.Meta
	if meta.Date == "" {
		meta.Date = doc.Meta.Date
	}
	if meta.Creator == "" {
		meta.Creator = "blueprint"
	}
	return &Result{Pages: []Page{page}, Resources: b.res, Meta: meta}, nil
}

func (b *builder) element(el editor.ExportElement) (Layer, error) {
	n := el.Node
	layer := Layer{ElementID: n.ID, Kind: string(n.Type), ZIndex: zIndex(n.Style)}
	var (
		box Rect
		err error
	)
	switch n.Type {
	case editor.TypeHeader, editor.TypeFooter:
		box, err = b.panel(&layer, n)
	case editor.TypeButton:
		box, err = b.button(&layer, n)
	case editor.TypeImage, editor.TypeLogo:
		box, err = b.image(&layer, n, el.AriaLabel)
	case editor.TypeVideo:
		box, err = b.video(&layer, n)
	case editor.TypeCard:
		box, err = b.card(&layer, n)
	case editor.TypeSelect, editor.TypeCalendar, editor.TypeInputText, editor.TypeInputEmail, editor.TypeInputNumber:
		box = b.frame(n)
		err = b.field(&layer, n, box)
	case editor.TypeInputForm:
		box, err = b.form(&layer, el)
	case editor.TypeMap:
		box, err = b.mapView(&layer, n)
	case editor.TypeCarousel:
		box, err = b.carousel(&layer, n)
	default:
		box, err = b.textBlock(&layer, n)
	}
	if err != nil {
		return Layer{}, err
	}
	b.bounds = append(b.bounds, box)
	return layer, nil
}

// frame 返回元素在画布上的矩形；未设置或无法解析的尺寸使用类型默认值。
func (b *builder) frame(n editor.Node) Rect {
	def := defaultSizes[n.Type]
	return Rect{
		X:      n.X,
		Y:      n.Y,
		Width:  editor.ParsePixels(n.Style.Width, def[0]),
		Height: editor.ParsePixels(n.Style.Height, def[1]),
	}
}

type textStyle struct {
	font  string
	size  float64
	color Color
	align string
	wrap  string
}

func styleText(s editor.Style, size float64, ink Color) textStyle {
	ts := textStyle{
		font:  "Body",
		size:  ParseFontSize(s.FontSize, size),
		color: ResolveColor(s.Color, ink),
		align: strings.ToLower(strings.TrimSpace(s.TextAlign)),
	}
	family := strings.ToLower(s.FontFamily)
	weight := strings.ToLower(strings.TrimSpace(s.FontWeight))
	switch {
	case strings.Contains(family, "mono") || strings.Contains(family, "courier"):
		ts.font = "Mono"
	case weight == "bold" || weight == "bolder":
		ts.font = "Bold"
	default:
		if w, err := strconv.Atoi(weight); err == nil && w >= 600 {
			ts.font = "Bold"
		}
	}
	return ts
}

func (t textStyle) with(font string) textStyle {
	t.font = font
	return t
}

func (b *builder) text(content string, x, y, width float64, st textStyle) (TextBox, error) {
	font := b.res.Fonts[st.font]
	lineHeight := st.size * lineHeightFactor
	lines, err := b.opts.Typesetter.LayoutLines(content, width, font, st.size, lineHeight, st.wrap)
	if err != nil {
		return TextBox{}, err
	}
	if len(lines) == 0 {
		lines = []TextLine{{Content: "", Height: st.size}}
	}
	lines[0].GapBefore = 0
	total := 0.0
	for i := range lines {
		if lines[i].Height <= 0 {
			lines[i].Height = st.size
		}
		total += lines[i].GapBefore + lines[i].Height
	}
	align := st.align
	if align != "center" && align != "right" {
		align = ""
	}
	return TextBox{
		Content:    content,
		X:          x,
		Y:          y,
		Width:      width,
		LineHeight: lineHeight,
		Font:       st.font,
		FontSize:   st.size,
		Color:      st.color,
		Lines:      lines,
		Height:     total,
		Align:      align,
		Wrap:       st.wrap,
	}, nil
}

// measure 返回不折行时文本的宽高。
func (b *builder) measure(content string, st textStyle) (float64, float64, error) {
	st.wrap = "nowrap"
	tb, err := b.text(content, 0, 0, 0, st)
	if err != nil {
		return 0, 0, err
	}
	w := 0.0
	for _, l := range tb.Lines {
		w = math.Max(w, l.Width)
	}
	return w, tb.Height, nil
}

// surface 绘制背景、阴影与边框。fill 为空时不填充。
func surface(layer *Layer, box Rect, s editor.Style, fill *Color) {
	radius := editor.ParsePixels(s.BorderRadius, 0)
	if sh := strings.TrimSpace(s.BoxShadow); sh != "" && sh != "none" {
		c := shadowColor
		layer.Rects = append(layer.Rects, Rect{X: box.X + 2, Y: box.Y + 3, Width: box.Width, Height: box.Height, Radius: radius, FillColor: &c})
	}
	rc := Rect{X: box.X, Y: box.Y, Width: box.Width, Height: box.Height, Radius: radius, FillColor: fill}
	if w, c, ok := parseBorder(s.Border); ok {
		rc.StrokeColor, rc.StrokeWidth = &c, w
	}
	if rc.FillColor != nil || rc.StrokeColor != nil {
		layer.Rects = append(layer.Rects, rc)
	}
}

func fillOf(value string, fallback *Color) *Color {
	if c, err := ParseColor(value); err == nil {
		if c.A == 1 {
			return nil
		}
		return &c
	}
	return fallback
}

func colorPtr(c Color) *Color { return &c }

// parseBorder 解析 "1px solid #ccc" 形式的边框。
func parseBorder(v string) (float64, Color, bool) {
	v = strings.TrimSpace(v)
	if v == "" || v == "none" || v == "0" {
		return 0, Color{}, false
	}
	width, col := 1.0, borderGray
	for _, part := range strings.Fields(v) {
		if l := editor.ParseLength(part); l.Valid {
			width = l.ToPX(0)
			continue
		}
		if c, err := ParseColor(part); err == nil {
			col = c
		}
	}
	if width <= 0 {
		return 0, Color{}, false
	}
	return width, col, true
}

func (b *builder) panel(layer *Layer, n editor.Node) (Rect, error) {
	box := b.frame(n)
	def := Color{R: 44, G: 62, B: 80}
	if n.Type == editor.TypeFooter {
		def = Color{R: 149, G: 165, B: 166}
	}
	surface(layer, box, n.Style, fillOf(n.Style.BackgroundColor, &def))
	st := styleText(n.Style, 20, white)
	if st.align == "" {
		st.align = "center"
	}
	tb, err := b.text(n.Content, box.X, box.Y, box.Width, st)
	if err != nil {
		return Rect{}, err
	}
	tb.Y = box.Y + math.Max((box.Height-tb.Height)/2, 0)
	layer.Texts = append(layer.Texts, tb)
	return box, nil
}

func (b *builder) textBlock(layer *Layer, n editor.Node) (Rect, error) {
	box := b.frame(n)
	size := DefaultFontSize
	st := styleText(n.Style, size, defaultInk)
	if n.Type == editor.TypeTitle {
		st = styleText(n.Style, 28, Color{R: 44, G: 62, B: 80})
		if n.Style.FontWeight == "" {
			st.font = "Bold"
		}
	}
	pad := ParsePadding(n.Style.Padding)
	tb, err := b.text(n.Content, box.X+pad.Left, box.Y+pad.Top, box.Width-pad.Left-pad.Right, st)
	if err != nil {
		return Rect{}, err
	}
	if box.Height <= 0 {
		box.Height = tb.Height + pad.Top + pad.Bottom
	}
	surface(layer, box, n.Style, fillOf(n.Style.BackgroundColor, nil))
	layer.Texts = append(layer.Texts, tb)
	return box, nil
}

func (b *builder) button(layer *Layer, n editor.Node) (Rect, error) {
	box := b.frame(n)
	padding := n.Style.Padding
	if padding == "" {
		padding = "10px 20px"
	}
	pad := ParsePadding(padding)
	st := styleText(n.Style, DefaultFontSize, white)
	st.align = "center"
	w, h, err := b.measure(n.Content, st)
	if err != nil {
		return Rect{}, err
	}
	if box.Width <= 0 {
		box.Width = w + pad.Left + pad.Right
	}
	if box.Height <= 0 {
		box.Height = h + pad.Top + pad.Bottom
	}
	def := Color{R: 52, G: 152, B: 219}
	surface(layer, box, n.Style, fillOf(n.Style.BackgroundColor, &def))
	st.wrap = "nowrap"
	tb, err := b.text(n.Content, box.X, box.Y+(box.Height-h)/2, box.Width, st)
	if err != nil {
		return Rect{}, err
	}
	layer.Texts = append(layer.Texts, tb)
	return box, nil
}

// localAsset 返回存在于 AssetDir 下的本地图片路径。
func (b *builder) localAsset(src string) (string, bool) {
	if b.opts.AssetDir == "" || src == "" {
		return "", false
	}
	if u, err := url.Parse(src); err == nil && u.Scheme != "" {
		return "", false
	}
	p := filepath.Join(b.opts.AssetDir, filepath.FromSlash(strings.TrimPrefix(src, "/")))
	if st, err := os.Stat(p); err != nil || st.IsDir() {
		return "", false
	}
	return p, true
}

func caption(src, fallback string) string {
	if u, err := url.Parse(src); err == nil && u.Path != "" {
		if base := path.Base(u.Path); base != "/" && base != "." {
			return base
		}
	}
	return fallback
}

func (b *builder) image(layer *Layer, n editor.Node, label string) (Rect, error) {
	box := b.frame(n)
	if p, ok := b.localAsset(n.Content); ok {
		layer.Images = append(layer.Images, ImageBox{Path: p, X: box.X, Y: box.Y, Width: box.Width, Height: box.Height})
		surface(layer, box, n.Style, nil)
		return box, nil
	}
	return box, b.placeholder(layer, box, n.Style, caption(n.Content, label))
}

// placeholder 绘制带对角线的占位框与说明文字。
func (b *builder) placeholder(layer *Layer, box Rect, s editor.Style, label string) error {
	surface(layer, box, s, fillOf(s.BackgroundColor, colorPtr(placeholderBg)))
	layer.Rects = append(layer.Rects, Rect{X: box.X, Y: box.Y, Width: box.Width, Height: box.Height, StrokeColor: colorPtr(borderGray), StrokeWidth: 1})
	layer.Lines = append(layer.Lines,
		Line{X1: box.X, Y1: box.Y, X2: box.X + box.Width, Y2: box.Y + box.Height, Color: borderGray, Width: 1},
		Line{X1: box.X + box.Width, Y1: box.Y, X2: box.X, Y2: box.Y + box.Height, Color: borderGray, Width: 1},
	)
	st := textStyle{font: "Body", size: 12, color: mutedInk, align: "center", wrap: "break-word"}
	tb, err := b.text(label, box.X+4, box.Y, math.Max(box.Width-8, 1), st)
	if err != nil {
		return err
	}
	tb.Y = box.Y + math.Max((box.Height-tb.Height)/2, 0)
	layer.Texts = append(layer.Texts, tb)
	return nil
}

func (b *builder) video(layer *Layer, n editor.Node) (Rect, error) {
	box := b.frame(n)
	surface(layer, box, n.Style, fillOf(n.Style.BackgroundColor, &Color{}))
	// 播放按钮：居中的三角形
	cx, cy := box.X+box.Width/2, box.Y+box.Height/2
	s := math.Min(box.Width, box.Height) / 8
	tri := [][2]float64{{cx - s*0.8, cy - s}, {cx + s, cy}, {cx - s*0.8, cy + s}}
	for i := range tri {
		a, c := tri[i], tri[(i+1)%len(tri)]
		layer.Lines = append(layer.Lines, Line{X1: a[0], Y1: a[1], X2: c[0], Y2: c[1], Color: white, Width: 2})
	}
	st := textStyle{font: "Body", size: 12, color: Color{R: 200, G: 200, B: 200}, align: "center", wrap: "nowrap"}
	tb, err := b.text(caption(n.Content, "Vidéo"), box.X, box.Y+box.Height-24, box.Width, st)
	if err != nil {
		return Rect{}, err
	}
	layer.Texts = append(layer.Texts, tb)
	return box, nil
}

func (b *builder) card(layer *Layer, n editor.Node) (Rect, error) {
	box := b.frame(n)
	padding := n.Style.Padding
	if padding == "" {
		padding = "15px"
	}
	pad := ParsePadding(padding)
	inner := box.Width - pad.Left - pad.Right

	title, err := b.text(n.Content, box.X+pad.Left, box.Y+pad.Top, inner, styleText(n.Style, 18, defaultInk).with("Bold"))
	if err != nil {
		return Rect{}, err
	}
	body := styleText(editor.Style{FontSize: "14px", TextAlign: n.Style.TextAlign}, 14, Color{R: 85, G: 85, B: 85})
	desc, err := b.text(n.Description, title.X, title.Y+title.Height+8, inner, body)
	if err != nil {
		return Rect{}, err
	}
	if box.Height <= 0 {
		box.Height = desc.Y + desc.Height + pad.Bottom - box.Y
	}
	st := n.Style
	if st.Border == "" {
		st.Border = "1px solid #dddddd"
	}
	surface(layer, box, st, fillOf(n.Style.BackgroundColor, colorPtr(white)))
	layer.Texts = append(layer.Texts, title, desc)
	return box, nil
}

// field 绘制单行输入控件：边框、内容或占位文字，下拉框附加箭头。
func (b *builder) field(layer *Layer, n editor.Node, box Rect) error {
	st := n.Style
	if st.Border == "" {
		st.Border = "1px solid #cccccc"
	}
	if st.BorderRadius == "" {
		st.BorderRadius = "4px"
	}
	surface(layer, box, st, fillOf(n.Style.BackgroundColor, colorPtr(white)))

	ts := styleText(n.Style, 14, defaultInk)
	ts.wrap = "nowrap"
	content := n.Content
	if content == "" {
		content = fieldPlaceholders[n.Type]
		ts.color = mutedInk
	}
	tb, err := b.text(content, box.X+10, box.Y, math.Max(box.Width-36, 1), ts)
	if err != nil {
		return err
	}
	tb.Y = box.Y + math.Max((box.Height-tb.Height)/2, 0)
	layer.Texts = append(layer.Texts, tb)

	if n.Type == editor.TypeSelect {
		cx, cy := box.X+box.Width-16, box.Y+box.Height/2
		layer.Lines = append(layer.Lines,
			Line{X1: cx - 5, Y1: cy - 3, X2: cx, Y2: cy + 3, Color: mutedInk, Width: 1.5},
			Line{X1: cx, Y1: cy + 3, X2: cx + 5, Y2: cy - 3, Color: mutedInk, Width: 1.5},
		)
	}
	return nil
}

func (b *builder) form(layer *Layer, el editor.ExportElement) (Rect, error) {
	n := el.Node
	box := b.frame(n)
	padding := n.Style.Padding
	if padding == "" {
		padding = "20px"
	}
	pad := ParsePadding(padding)
	inner := box.Width - pad.Left - pad.Right

	title, err := b.text(n.Content, box.X+pad.Left, box.Y+pad.Top, inner, styleText(n.Style, 20, defaultInk).with("Bold"))
	if err != nil {
		return Rect{}, err
	}
	var (
		texts  = []TextBox{title}
		fields []func() error
		cursor = title.Y + title.Height + formRowGap
	)
	labelStyle := textStyle{font: "Body", size: 13, color: Color{R: 85, G: 85, B: 85}}
	for _, child := range el.Children {
		label, err := b.text(child.AriaLabel, box.X+pad.Left, cursor, inner, labelStyle)
		if err != nil {
			return Rect{}, err
		}
		texts = append(texts, label)
		cursor += label.Height + labelGap
		fieldBox := Rect{X: box.X + pad.Left, Y: cursor, Width: inner, Height: editor.ParsePixels(child.Style.Height, fieldHeight)}
		node := child.Node
		fields = append(fields, func() error { return b.field(layer, node, fieldBox) })
		cursor += fieldBox.Height + formRowGap
	}
	if box.Height <= 0 {
		box.Height = cursor - formRowGap + pad.Bottom - box.Y
	}
	def := Color{R: 248, G: 249, B: 250}
	surface(layer, box, n.Style, fillOf(n.Style.BackgroundColor, &def))
	layer.Texts = append(layer.Texts, texts...)
	for _, f := range fields {
		if err := f(); err != nil {
			return Rect{}, err
		}
	}
	return box, nil
}

func (b *builder) mapView(layer *Layer, n editor.Node) (Rect, error) {
	box := b.frame(n)
	def := Color{R: 229, G: 240, B: 219}
	st := n.Style
	if st.Border == "" {
		st.Border = "1px solid #bbbbbb"
	}
	surface(layer, box, st, fillOf(n.Style.BackgroundColor, &def))
	grid := Color{R: 255, G: 255, B: 255, A: 160}
	for x := box.X + 50; x < box.X+box.Width; x += 50 {
		layer.Lines = append(layer.Lines, Line{X1: x, Y1: box.Y, X2: x, Y2: box.Y + box.Height, Color: grid, Width: 1})
	}
	for y := box.Y + 50; y < box.Y+box.Height; y += 50 {
		layer.Lines = append(layer.Lines, Line{X1: box.X, Y1: y, X2: box.X + box.Width, Y2: y, Color: grid, Width: 1})
	}

	center := editor.LatLng{Lat: 48.8566, Lng: 2.3522}
	if n.Coordinates != nil {
		center = *n.Coordinates
	}
	cx, cy := box.X+box.Width/2, box.Y+box.Height/2
	labelStyle := textStyle{font: "Bold", size: 12, color: defaultInk, wrap: "nowrap"}
	for _, m := range n.Markers {
		mx := clamp(cx+(m.Lng-center.Lng)*mapPixelsPerDegree, box.X+markerRadius, box.X+box.Width-markerRadius)
		my := clamp(cy-(m.Lat-center.Lat)*mapPixelsPerDegree, box.Y+markerRadius, box.Y+box.Height-markerRadius)
		fill := ResolveColor(m.Color, guideRed)
		layer.Circles = append(layer.Circles, Circle{CX: mx, CY: my, R: markerRadius, FillColor: &fill, StrokeColor: colorPtr(white), StrokeWidth: 2})
		if m.Label != "" {
			tb, err := b.text(m.Label, mx+markerRadius+4, my-8, 0, labelStyle)
			if err != nil {
				return Rect{}, err
			}
			layer.Texts = append(layer.Texts, tb)
		}
	}
	if n.Content != "" {
		tb, err := b.text(n.Content, box.X+8, box.Y+8, box.Width-16, textStyle{font: "Body", size: 12, color: defaultInk, wrap: "nowrap"})
		if err != nil {
			return Rect{}, err
		}
		layer.Texts = append(layer.Texts, tb)
	}
	return box, nil
}

type slideView struct {
	title, description string
}

func slidesOf(n editor.Node) []slideView {
	var out []slideView
	if len(n.CarouselItems) > 0 {
		for _, it := range n.CarouselItems {
			title := it.Title
			if title == "" {
				title = strings.ToUpper(it.Type)
			}
			desc := it.Description
			if desc == "" {
				desc = caption(it.URL, "")
			}
			out = append(out, slideView{title: title, description: desc})
		}
		return out
	}
	for _, s := range n.Slides {
		out = append(out, slideView{title: s.Title, description: s.Description})
	}
	return out
}

func (b *builder) carousel(layer *Layer, n editor.Node) (Rect, error) {
	box := b.frame(n)
	def := Color{R: 52, G: 73, B: 94}
	surface(layer, box, n.Style, fillOf(n.Style.BackgroundColor, &def))

	slides := slidesOf(n)
	if len(slides) == 0 {
		return box, nil
	}
	current, err := strconv.Atoi(strings.TrimSpace(n.Content))
	if err != nil || current < 0 || current >= len(slides) {
		current = 0
	}
	s := slides[current]
	titleStyle := textStyle{font: "Bold", size: 24, color: white, align: "center"}
	title, err := b.text(s.title, box.X+40, box.Y, box.Width-80, titleStyle)
	if err != nil {
		return Rect{}, err
	}
	desc, err := b.text(s.description, box.X+40, box.Y, box.Width-80, textStyle{font: "Body", size: 16, color: white, align: "center"})
	if err != nil {
		return Rect{}, err
	}
	total := title.Height + 8 + desc.Height
	title.Y = box.Y + math.Max((box.Height-total)/2, 0)
	desc.Y = title.Y + title.Height + 8
	layer.Texts = append(layer.Texts, title, desc)

	arrows := textStyle{font: "Bold", size: 24, color: white, wrap: "nowrap"}
	for _, a := range []struct {
		s string
		x float64
	}{{"<", box.X + 12}, {">", box.X + box.Width - 24}} {
		tb, err := b.text(a.s, a.x, box.Y+box.Height/2-16, 0, arrows)
		if err != nil {
			return Rect{}, err
		}
		layer.Texts = append(layer.Texts, tb)
	}

	dots := float64(len(slides))
	start := box.X + box.Width/2 - (dots-1)*8
	for i := range slides {
		c := Color{R: 255, G: 255, B: 255, A: 110}
		if i == current {
			c = white
		}
		layer.Circles = append(layer.Circles, Circle{CX: start + float64(i)*16, CY: box.Y + box.Height - 16, R: 5, FillColor: colorPtr(c)})
	}
	return box, nil
}

// guides 绘制编辑模式下的辅助线：logo 保护区、页眉保护区与元素边框。
func (b *builder) guides(doc *editor.ExportDocument) Layer {
	layer := Layer{Kind: "guides", ZIndex: math.MaxInt32}
	zone := Color{R: guideRed.R, G: guideRed.G, B: guideRed.B, A: 30}
	lz := editor.LogoZone
	layer.Rects = append(layer.Rects, Rect{X: lz.X, Y: lz.Y, Width: lz.Width, Height: lz.Height, FillColor: &zone, StrokeColor: colorPtr(guideRed), StrokeWidth: 1})
	for _, el := range doc.Elements {
		if el.Type != editor.TypeHeader {
			continue
		}
		w := editor.ParsePixels(el.Style.Width, 800)
		h := editor.ParsePixels(el.Style.Height, 80)
		layer.Rects = append(layer.Rects, Rect{X: el.X, Y: el.Y, Width: w, Height: h, StrokeColor: colorPtr(guideRed), StrokeWidth: 1})
		break
	}
	for _, r := range b.bounds {
		layer.Rects = append(layer.Rects, Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height, StrokeColor: colorPtr(guideBlue), StrokeWidth: 1})
	}
	return layer
}

func (b *builder) logo(l Logo) (Layer, error) {
	layer := Layer{Kind: "logo", ZIndex: l.ZIndex}
	size := positiveOr(l.Width, 80)
	box := Rect{X: l.Left, Y: l.Top, Width: size, Height: size}
	if p, ok := b.localAsset(l.Src); ok {
		layer.Images = append(layer.Images, ImageBox{Path: p, X: box.X, Y: box.Y, Width: box.Width, Height: box.Height})
		return layer, nil
	}
	return layer, b.placeholder(&layer, box, editor.Style{}, l.Alt)
}

func zIndex(s editor.Style) int {
	z, err := strconv.Atoi(strings.TrimSpace(s.ZIndex))
	if err != nil {
		return 0
	}
	return z
}

func positiveOr(v, fallback float64) float64 {
	if v > 0 {
		return v
	}
	return fallback
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	return math.Min(math.Max(v, lo), hi)
}

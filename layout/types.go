package layout

// 该文件定义布局结果与资源描述，供布局计算、渲染与调试 JSON 共用。
// 所有坐标与尺寸均为画布像素（px），渲染器在边界处换算为 mm 或设备像素。

// Result 保存布局后的页面与资源信息。
type Result struct {
	Pages     []Page       `json:"pages"`
	Resources ResourceSet  `json:"resources"`
	Meta      DocumentMeta `json:"meta"`
}

// ResourceSet 记录可用的字体。
type ResourceSet struct {
	Fonts map[string]FontResource `json:"fonts"`
}

// FontResource 描述字体资源，src 可以是文件路径、内置 embed:* 或 built-in:* 形式。
type FontResource struct {
	Name     string `json:"name"`
	Src      string `json:"src"`
	Style    string `json:"style"`
	Family   string `json:"family"` // 渲染器使用的 Family 名称
	Fallback string `json:"fallback,omitempty"`
}

// Color 采用 0-255 的 RGBA 数值；A 为 0 视为不透明（零值即黑色）。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
	A int `json:"a,omitempty"`
}

// Alpha returns the opacity in [0,1].
func (c Color) Alpha() float64 {
	if c.A <= 0 || c.A >= 255 {
		return 1
	}
	return float64(c.A) / 255
}

// Page 是一张画布：尺寸、背景以及按绘制顺序排列的图层。
type Page struct {
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Background Color   `json:"background"`
	Layers     []Layer `json:"layers"`
}

// Layer 是一个元素（或辅助线）的全部图形，图层内先画形状再画文本与图片。
type Layer struct {
	ElementID string     `json:"elementId,omitempty"`
	Kind      string     `json:"kind"`
	ZIndex    int        `json:"zIndex,omitempty"`
	Rects     []Rect     `json:"rects,omitempty"`
	Lines     []Line     `json:"lines,omitempty"`
	Circles   []Circle   `json:"circles,omitempty"`
	Texts     []TextBox  `json:"texts,omitempty"`
	Images    []ImageBox `json:"images,omitempty"`
}

// TextBox 表示一个已经排好坐标的文本块。
type TextBox struct {
	Content    string     `json:"content"`
	X          float64    `json:"x"`
	Y          float64    `json:"y"`
	Width      float64    `json:"width"`
	LineHeight float64    `json:"lineHeight"`
	Font       string     `json:"font"`
	FontSize   float64    `json:"fontSize"`
	Color      Color      `json:"color"`
	Lines      []TextLine `json:"lines"`
	Height     float64    `json:"height"`
	Align      string     `json:"align,omitempty"` // left/center/right，默认 left
	Wrap       string     `json:"wrap,omitempty"`  // anywhere(默认)/break-word/nowrap
}

// TextLine 表示排版后的一行文本内容及其宽高。
type TextLine struct {
	Content   string  `json:"content"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	GapBefore float64 `json:"gapBefore,omitempty"`
}

// ImageBox 用于描述本地图片的位置与尺寸。
type ImageBox struct {
	Path   string  `json:"path"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Line 表示一条线段。
type Line struct {
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Color Color   `json:"color"`
	Width float64 `json:"width"` // <=0 时由渲染器给默认值
}

// Rect 表示一个矩形，Radius > 0 时为圆角矩形。
type Rect struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Radius      float64 `json:"radius,omitempty"`
	StrokeColor *Color  `json:"strokeColor,omitempty"` // 为空表示不描边
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
	FillColor   *Color  `json:"fillColor,omitempty"` // 为空表示不填充
}

// Circle 表示一个圆。
type Circle struct {
	CX          float64 `json:"cx"`
	CY          float64 `json:"cy"`
	R           float64 `json:"r"`
	StrokeColor *Color  `json:"strokeColor,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
	FillColor   *Color  `json:"fillColor,omitempty"`
}

// DocumentMeta 保存 PDF 元信息。
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
	Date     string   `json:"date,omitempty"`
}

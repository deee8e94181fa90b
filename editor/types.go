package editor

// 该文件定义文档模型：元素、表单子项、样式与画布设置，供编辑器、导出与渲染共用。

// ElementType 是元素种类的封闭集合。
type ElementType string

const (
	TypeHeader      ElementType = "header"
	TypeFooter      ElementType = "footer"
	TypeText        ElementType = "text"
	TypeTitle       ElementType = "title"
	TypeButton      ElementType = "button"
	TypeImage       ElementType = "image"
	TypeVideo       ElementType = "video"
	TypeCard        ElementType = "card"
	TypeSelect      ElementType = "select"
	TypeCalendar    ElementType = "calendar"
	TypeInputText   ElementType = "input-text"
	TypeInputEmail  ElementType = "input-email"
	TypeInputNumber ElementType = "input-number"
	TypeInputForm   ElementType = "input-form"
	TypeMap         ElementType = "map"
	TypeCarousel    ElementType = "carousel"
	TypeLogo        ElementType = "logo"
)

// ElementTypes lists every element type in palette order.
var ElementTypes = []ElementType{
	TypeHeader, TypeFooter, TypeText, TypeTitle, TypeButton, TypeImage, TypeVideo,
	TypeCard, TypeSelect, TypeCalendar, TypeInputText, TypeInputEmail, TypeInputNumber,
	TypeInputForm, TypeMap, TypeCarousel, TypeLogo,
}

// ParseElementType 校验类型名称。
func ParseElementType(name string) (ElementType, bool) {
	for _, t := range ElementTypes {
		if string(t) == name {
			return t, true
		}
	}
	return "", false
}

// Node 是顶层元素与表单子项共有的字段。
// 表单子项本身就是 Node，因此不存在"孙子"元素。
type Node struct {
	ID            string         `json:"id"`
	Type          ElementType    `json:"type"`
	Content       string         `json:"content"`
	X             float64        `json:"x"`
	Y             float64        `json:"y"`
	Style         Style          `json:"style"`
	Attributes    Attributes     `json:"attributes"`
	Description   string         `json:"description,omitempty"`
	Options       []string       `json:"options,omitempty"`
	Coordinates   *LatLng        `json:"coordinates,omitempty"`
	Markers       []MapMarker    `json:"markers,omitempty"`
	Slides        []Slide        `json:"slides,omitempty"`
	CarouselItems []CarouselItem `json:"carouselItems,omitempty"`
}

// Element 是画布上的顶层元素；只有 input-form 会用到 Children。
type Element struct {
	Node
	Children []Node `json:"children,omitempty"`
}

// LatLng 是地图中心点。
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// MapMarker 描述地图上的一个标记。
type MapMarker struct {
	ID    string  `json:"id"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Label string  `json:"label,omitempty"`
	Color string  `json:"color,omitempty"`
}

// Slide 是旧版轮播的一页。
type Slide struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
}

// CarouselItem 是混合轮播中的一项（image/video/card）。
type CarouselItem struct {
	Type        string `json:"type"`
	URL         string `json:"url,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// Attributes 保存透传的 HTML 标识，编辑器本身不解释这些值。
type Attributes struct {
	HTMLID    string            `json:"htmlId"`
	ClassName string            `json:"className"`
	Extra     map[string]string `json:"-"`
}

// CanvasSettings 记录画布背景色与固定尺寸（px）。
type CanvasSettings struct {
	BackgroundColor string  `json:"backgroundColor"`
	Width           float64 `json:"width"`
	Height          float64 `json:"height"`
}

// 画布尺寸在运行时只读。
const (
	CanvasWidth            = 800.0
	CanvasHeight           = 1000.0
	DefaultBackgroundColor = "#ffffff"
)

// clone 返回不与原值共享切片/映射的副本。
func (n Node) clone() Node {
	out := n
	out.Style = n.Style.clone()
	out.Attributes = n.Attributes.clone()
	out.Options = cloneSlice(n.Options)
	out.Markers = cloneSlice(n.Markers)
	out.Slides = cloneSlice(n.Slides)
	out.CarouselItems = cloneSlice(n.CarouselItems)
	if n.Coordinates != nil {
		c := *n.Coordinates
		out.Coordinates = &c
	}
	return out
}

func (e Element) clone() Element {
	out := Element{Node: e.Node.clone()}
	if e.Children != nil {
		out.Children = make([]Node, len(e.Children))
		for i, child := range e.Children {
			out.Children[i] = child.clone()
		}
	}
	return out
}

func (a Attributes) clone() Attributes {
	out := a
	out.Extra = cloneMap(a.Extra)
	return out
}

// Merge 逐键合并：非空值覆盖，空值保持原样。
func (a Attributes) Merge(patch Attributes) Attributes {
	out := a.clone()
	if patch.HTMLID != "" {
		out.HTMLID = patch.HTMLID
	}
	if patch.ClassName != "" {
		out.ClassName = patch.ClassName
	}
	for k, v := range patch.Extra {
		if out.Extra == nil {
			out.Extra = map[string]string{}
		}
		out.Extra[k] = v
	}
	return out
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func cloneMap(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

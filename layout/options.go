package layout

// BuildOptions 配置布局阶段所需的依赖，例如排版后端。
type BuildOptions struct {
	Typesetter Typesetter
	// AssetDir 用于解析本地图片（image/logo 的 content 为相对路径时）。
	AssetDir string
	// Logo 不为空时在最上层绘制固定 logo。
	Logo  *Logo
	Debug DebugOptions
	Meta  DocumentMeta
}

// DebugOptions 控制调试相关输出。
type DebugOptions struct {
	Guides bool // 绘制受保护区域与元素边框（编辑模式下的辅助线）
}

// Logo is the fixed, non-editable site logo drawn over the page.
type Logo struct {
	Src    string  `json:"src"`
	Alt    string  `json:"alt"`
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Width  float64 `json:"width"`
	ZIndex int     `json:"zIndex"`
}

// Typesetter 负责根据字体与宽度约束将文本拆成可绘制的行。宽度、字号与行高均为 px。
type Typesetter interface {
	LayoutLines(content string, width float64, font FontResource, fontSize float64, lineHeight float64, wrap string) ([]TextLine, error)
}

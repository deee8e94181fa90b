package renderer

import "github.com/ByLCY/blueprint/layout"

// Renderer 将布局结果输出为最终文件，例如 PDF 或 PNG。
// Render 返回生成的二进制数据以及可能的错误。
type Renderer interface {
	Render(result *layout.Result) ([]byte, error)
}

// Format 描述渲染器产出的文件类型，用于导出文件名与 HTTP Content-Type。
type Format struct {
	Ext         string
	ContentType string
}

var (
	FormatPDF  = Format{Ext: "pdf", ContentType: "application/pdf"}
	FormatPNG  = Format{Ext: "png", ContentType: "image/png"}
	FormatJPEG = Format{Ext: "jpg", ContentType: "image/jpeg"}
)

// Typesetter 是同时提供排版能力的渲染器。
type Typesetter interface {
	Renderer
	layout.Typesetter
}

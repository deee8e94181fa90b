// Package export implements the download side of the editor: logo injection,
// file naming, screenshot capture and clipboard copy.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"

	"github.com/ByLCY/blueprint/editor"
	"github.com/ByLCY/blueprint/layout"
	"github.com/ByLCY/blueprint/renderer"
)

// UnnamedFile 是用户输入空文件名时使用的名字。
const UnnamedFile = "export-sans-nom"

// FormatJSON describes the JSON download.
var FormatJSON = renderer.Format{Ext: "json", ContentType: "application/json"}

// LogoPosition is the fixed offset of the site logo in px.
type LogoPosition struct {
	Top  float64 `json:"top"`
	Left float64 `json:"left"`
}

// Logo is the non-editable site logo appended to downloaded documents.
type Logo struct {
	Src      string       `json:"src"`
	Alt      string       `json:"alt"`
	Position LogoPosition `json:"position"`
	Width    string       `json:"width"`
	ZIndex   int          `json:"zIndex"`
}

// DefaultLogo 与编辑器页面上固定显示的 logo 一致。
var DefaultLogo = Logo{
	Src:      "/assets/logo.png",
	Alt:      "Logo du site",
	Position: LogoPosition{Top: 2, Left: 20},
	Width:    "80px",
	ZIndex:   9999,
}

// Layout converts the logo into the display-list overlay.
func (l Logo) Layout() *layout.Logo {
	return &layout.Logo{
		Src:    l.Src,
		Alt:    l.Alt,
		Top:    l.Position.Top,
		Left:   l.Position.Left,
		Width:  editor.ParsePixels(l.Width, 80),
		ZIndex: l.ZIndex,
	}
}

// Document is the downloaded JSON: the export document plus the logo block.
type Document struct {
	editor.ExportDocument
	Logo *Logo `json:"logo,omitempty"`
}

// InjectLogo returns a copy of doc carrying DefaultLogo. doc itself is not modified.
func InjectLogo(doc editor.ExportDocument) Document {
	elements := make([]editor.ExportElement, len(doc.Elements))
	copy(elements, doc.Elements)
	doc.Elements = elements
	logo := DefaultLogo
	return Document{ExportDocument: doc, Logo: &logo}
}

// Encode 以两个空格缩进输出 JSON。
func Encode(doc Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("序列化导出文档失败: %w", err)
	}
	return data, nil
}

// DefaultName is the name proposed to the user, e.g. blueprint-2025-03-14.
func DefaultName(now time.Time) string {
	return "blueprint-" + now.UTC().Format("2006-01-02")
}

// FileName normalises a user-supplied name: surrounding blanks are trimmed, an empty
// name becomes UnnamedFile and the extension is appended unless already present.
func FileName(input, ext string) string {
	name := strings.TrimSpace(input)
	if name == "" {
		name = UnnamedFile
	}
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" || strings.HasSuffix(name, "."+ext) {
		return name
	}
	return name + "." + ext
}

// WriteJSON writes the logo-injected export of ed into dir and returns the file path.
func WriteJSON(dir, name string, ed *editor.Editor) (string, error) {
	data, err := Encode(InjectLogo(ed.Export()))
	if err != nil {
		return "", err
	}
	return writeFile(dir, FileName(name, FormatJSON.Ext), data)
}

// WriteImage writes rendered bytes into dir using the extension of f.
func WriteImage(dir, name string, data []byte, f renderer.Format) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("导出内容为空")
	}
	return writeFile(dir, FileName(name, f.Ext), data)
}

func writeFile(dir, name string, data []byte) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("创建输出目录失败: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("写入文件 %s 失败: %w", path, err)
	}
	return path, nil
}

// clipboardWrite 在测试中替换，避免依赖系统剪贴板。
var clipboardWrite = clipboard.WriteAll

// CopyJSON places the logo-injected export of ed on the system clipboard.
func CopyJSON(ed *editor.Editor) error {
	data, err := Encode(InjectLogo(ed.Export()))
	if err != nil {
		return err
	}
	if err := clipboardWrite(string(data)); err != nil {
		return fmt.Errorf("复制到剪贴板失败: %w", err)
	}
	return nil
}

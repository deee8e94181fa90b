package export

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/ByLCY/blueprint/editor"
	"github.com/ByLCY/blueprint/layout"
	"github.com/ByLCY/blueprint/logger"
	"github.com/ByLCY/blueprint/renderer"
)

// ErrCaptureFailed wraps every screenshot failure.
var ErrCaptureFailed = errors.New("capture failed")

// CaptureOptions tunes the layout used for a capture.
type CaptureOptions struct {
	AssetDir string
	Logo     *Logo
}

// Capture 在预览模式下渲染画布：若当前处于编辑模式则先切换到预览，
// 无论成功与否都恢复原来的模式。
func Capture(ed *editor.Editor, r renderer.Typesetter, opts CaptureOptions) (data []byte, err error) {
	if ed == nil || r == nil {
		return nil, fmt.Errorf("%w: 缺少编辑器或渲染器", ErrCaptureFailed)
	}
	prev := ed.Mode()
	if prev != editor.ModePreview {
		ed.SetMode(editor.ModePreview)
		defer ed.SetMode(prev)
	}

	// 预览模式下不绘制辅助线
	build := layout.BuildOptions{
		Typesetter: r,
		AssetDir:   opts.AssetDir,
	}
	if opts.Logo != nil {
		build.Logo = opts.Logo.Layout()
	}
	doc := ed.Export()
	result, err := layout.Build(&doc, build)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCaptureFailed, err)
	}
	data, err = r.Render(result)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCaptureFailed, err)
	}
	return data, nil
}

// Exporter 汇总 JSON 与各截图格式的导出。
type Exporter struct {
	dir      string
	assetDir string
	log      logger.Logger

	mu        sync.Mutex
	renderers map[string]renderer.Typesetter
	withLogo  bool
}

// Options configures an Exporter.
type Options struct {
	Dir      string
	AssetDir string
	Log      logger.Logger
	// NoLogo 为真时截图中不叠加站点 logo。
	NoLogo bool
}

// NewExporter creates an exporter; renderers are registered with Register.
func NewExporter(opts Options) *Exporter {
	log := opts.Log
	if log == nil {
		log = logger.NewNop()
	}
	return &Exporter{
		dir:       opts.Dir,
		assetDir:  opts.AssetDir,
		log:       log,
		renderers: map[string]renderer.Typesetter{},
		withLogo:  !opts.NoLogo,
	}
}

// Register binds a renderer to a format name such as "png" or "pdf".
func (x *Exporter) Register(name string, r renderer.Typesetter) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.renderers[normalizeFormat(name)] = r
}

// Formats lists the names accepted by Render, json included.
func (x *Exporter) Formats() []string {
	x.mu.Lock()
	defer x.mu.Unlock()
	out := []string{FormatJSON.Ext}
	for _, name := range []string{"png", "jpg", "pdf"} {
		if _, ok := x.renderers[name]; ok {
			out = append(out, name)
		}
	}
	return out
}

// Render produces the bytes of one export format.
func (x *Exporter) Render(ed *editor.Editor, format string) ([]byte, renderer.Format, error) {
	name := normalizeFormat(format)
	if name == FormatJSON.Ext {
		data, err := Encode(InjectLogo(ed.Export()))
		return data, FormatJSON, err
	}
	x.mu.Lock()
	r, ok := x.renderers[name]
	x.mu.Unlock()
	if !ok {
		return nil, renderer.Format{}, fmt.Errorf("不支持的导出格式: %s", format)
	}

	opts := CaptureOptions{AssetDir: x.assetDir}
	if x.withLogo {
		logo := DefaultLogo
		opts.Logo = &logo
	}
	data, err := Capture(ed, r, opts)
	if err != nil {
		x.log.Error("export", "截图导出失败", map[string]interface{}{"format": name, "error": err.Error()})
		return nil, renderer.Format{}, err
	}
	return data, formatOf(r, name), nil
}

// Save renders format and writes it into the export directory.
func (x *Exporter) Save(ed *editor.Editor, format, name string) (string, error) {
	data, f, err := x.Render(ed, format)
	if err != nil {
		return "", err
	}
	path, err := writeFile(x.dir, FileName(name, f.Ext), data)
	if err != nil {
		return "", err
	}
	x.log.Info("export", "导出完成", map[string]interface{}{"path": path, "bytes": len(data)})
	return path, nil
}

type formatter interface {
	Format() renderer.Format
}

func formatOf(r renderer.Typesetter, name string) renderer.Format {
	if f, ok := r.(formatter); ok {
		return f.Format()
	}
	switch name {
	case "pdf":
		return renderer.FormatPDF
	case "jpg":
		return renderer.FormatJPEG
	}
	return renderer.FormatPNG
}

func normalizeFormat(name string) string {
	name = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "."))
	if name == "jpeg" {
		return "jpg"
	}
	return name
}

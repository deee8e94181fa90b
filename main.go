package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/ByLCY/blueprint/editor"
	"github.com/ByLCY/blueprint/export"
	"github.com/ByLCY/blueprint/layout"
	"github.com/ByLCY/blueprint/logger"
	"github.com/ByLCY/blueprint/narration"
	"github.com/ByLCY/blueprint/renderer"
	canvasrenderer "github.com/ByLCY/blueprint/renderer/canvas"
	"github.com/ByLCY/blueprint/renderer/raster"
	"github.com/ByLCY/blueprint/script"
)

func main() {
	input := flag.String("in", "examples/accueil.blueprint", "编辑脚本路径")
	output := flag.String("out", "output/accueil.json", "导出文件路径")
	format := flag.String("format", "", "导出格式 json|png|jpg|pdf，缺省时按输出文件扩展名推断")
	debug := flag.String("debug", "", "布局调试 JSON 输出路径")
	guides := flag.Bool("guides", false, "在截图中绘制受保护区域与元素边框")
	assets := flag.String("assets", "", "图片资源目录，缺省为脚本所在目录")
	scale := flag.Float64("scale", 2, "PNG/JPG 的像素倍率")
	dataJSON := flag.String("data", "", "绑定到脚本的 JSON 数据")
	narrate := flag.Bool("narrate", false, "将语音描述写入日志")
	logFile := flag.String("log", "", "日志文件路径（lumberjack 滚动）")
	flag.Parse()

	var inputData any
	if *dataJSON != "" {
		if err := json.Unmarshal([]byte(*dataJSON), &inputData); err != nil {
			log.Fatalf("解析 data JSON 失败: %v", err)
		}
	}

	zl := logger.NewZapLogger(*logFile, false)
	defer zl.Sync()

	assetDir := *assets
	if assetDir == "" {
		assetDir = filepath.Dir(*input)
	}
	opts := runOptions{
		input:    *input,
		output:   *output,
		format:   resolveFormat(*format, *output),
		debug:    *debug,
		guides:   *guides,
		assetDir: assetDir,
		scale:    *scale,
		data:     inputData,
		log:      zl,
		narrate:  *narrate,
	}
	if err := run(opts); err != nil {
		log.Fatalf("导出失败: %v", err)
	}
	color.Green("已导出 %s：%s", strings.ToUpper(opts.format), opts.output)
}

type runOptions struct {
	input    string
	output   string
	format   string
	debug    string
	guides   bool
	assetDir string
	scale    float64
	data     any
	log      logger.Logger
	narrate  bool
}

// run 串联脚本回放、布局与渲染。
func run(o runOptions) error {
	var notifier editor.Notifier
	if o.narrate {
		notifier = narration.NewAnnouncer(narration.LogSpeaker{Log: o.log})
	}
	ed := editor.New(editor.WithNotifier(notifier))

	file, err := os.Open(o.input)
	if err != nil {
		return fmt.Errorf("无法打开脚本文件 %s: %w", o.input, err)
	}
	defer file.Close()

	runner := script.New(ed, script.WithData(o.data), script.WithLogger(o.log))
	if err := runner.RunReader(file); err != nil {
		return fmt.Errorf("执行脚本失败: %w", err)
	}

	var data []byte
	switch o.format {
	case "json":
		data, err = export.Encode(export.InjectLogo(ed.Export()))
	case "png", "jpg", "pdf":
		r := newRenderer(o.format, o.assetDir, o.scale)
		if o.debug != "" || o.guides {
			data, err = renderWithLayout(ed, r, o)
		} else {
			data, err = export.Capture(ed, r, export.CaptureOptions{AssetDir: o.assetDir, Logo: &export.DefaultLogo})
		}
	default:
		return fmt.Errorf("不支持的导出格式: %s", o.format)
	}
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(o.output), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := os.WriteFile(o.output, data, 0o644); err != nil {
		return fmt.Errorf("写入文件失败: %w", err)
	}
	o.log.Info("cli", "导出完成", map[string]interface{}{"script": runner.Name(), "path": o.output, "bytes": len(data)})
	return nil
}

// renderWithLayout 用于需要辅助线或调试输出的场景：不切换到预览模式，直接按当前状态布局。
func renderWithLayout(ed *editor.Editor, r renderer.Typesetter, o runOptions) ([]byte, error) {
	doc := ed.Export()
	result, err := layout.Build(&doc, layout.BuildOptions{
		Typesetter: r,
		AssetDir:   o.assetDir,
		Logo:       export.DefaultLogo.Layout(),
		Debug:      layout.DebugOptions{Guides: o.guides},
	})
	if err != nil {
		return nil, fmt.Errorf("布局计算失败: %w", err)
	}
	if o.debug != "" {
		if err := writeDebug(result, o.debug); err != nil {
			return nil, err
		}
	}
	data, err := r.Render(result)
	if err != nil {
		return nil, fmt.Errorf("渲染失败: %w", err)
	}
	return data, nil
}

func newRenderer(format, assetDir string, scale float64) renderer.Typesetter {
	if format == "pdf" {
		return canvasrenderer.NewRenderer(assetDir)
	}
	return raster.New(raster.Options{BaseDir: assetDir, Scale: scale, Format: format})
}

// resolveFormat 优先使用 -format，否则取输出文件扩展名，默认 json。
func resolveFormat(flagValue, output string) string {
	f := strings.ToLower(strings.TrimSpace(flagValue))
	if f == "" {
		f = strings.ToLower(strings.TrimPrefix(filepath.Ext(output), "."))
	}
	switch f {
	case "jpeg":
		return "jpg"
	case "":
		return "json"
	}
	return f
}

func writeDebug(result *layout.Result, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(result, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}

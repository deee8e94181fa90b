package main

import (
	"flag"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ByLCY/blueprint/editor"
	"github.com/ByLCY/blueprint/export"
	"github.com/ByLCY/blueprint/logger"
	"github.com/ByLCY/blueprint/narration"
	"github.com/ByLCY/blueprint/script"
	"github.com/ByLCY/blueprint/tui"
)

func main() {
	input := flag.String("in", "", "启动时回放的编辑脚本（可选）")
	outDir := flag.String("out", ".", "JSON 导出目录")
	logFile := flag.String("log", "blueprint-tui.log", "日志文件路径")
	mute := flag.Bool("mute", false, "关闭语音描述")
	flag.Parse()

	// 终端被界面占用，日志只写文件
	zl := logger.NewFileLogger(*logFile)
	defer zl.Sync()

	transcript := tui.NewTranscript(3)
	announcer := narration.NewAnnouncer(narration.SpeakerFunc(func(u narration.Utterance) {
		transcript.Speak(u)
		zl.Debug("narration", u.Text, nil)
	}))
	if *mute {
		announcer.SetEnabled(false)
	}
	ed := editor.New(editor.WithNotifier(announcer))

	if *input != "" {
		file, err := os.Open(*input)
		if err != nil {
			log.Fatalf("无法打开脚本文件 %s: %v", *input, err)
		}
		err = script.New(ed, script.WithLogger(zl)).RunReader(file)
		file.Close()
		if err != nil {
			log.Fatalf("执行脚本失败: %v", err)
		}
	}

	exporter := export.NewExporter(export.Options{Dir: *outDir, Log: zl})
	model := tui.New(ed, tui.Options{
		Exporter:   exporter,
		Announcer:  announcer,
		Transcript: transcript,
		OutDir:     *outDir,
	})
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatal(err)
	}
}

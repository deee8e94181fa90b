package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ByLCY/blueprint/config"
	"github.com/ByLCY/blueprint/editor"
	"github.com/ByLCY/blueprint/export"
	"github.com/ByLCY/blueprint/logger"
	"github.com/ByLCY/blueprint/narration"
	canvasrenderer "github.com/ByLCY/blueprint/renderer/canvas"
	"github.com/ByLCY/blueprint/renderer/raster"
	"github.com/ByLCY/blueprint/server"
)

// ============================================================
// Blueprint Editor Service
// ============================================================

func main() {
	cfg := config.Load()
	zl := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProd())
	defer zl.Sync()

	announcer := narration.NewAnnouncer(narration.LogSpeaker{Log: zl})
	announcer.SetLang(cfg.Narration.Lang)
	if !cfg.Narration.Enabled {
		announcer.SetEnabled(false)
	}
	ed := editor.New(editor.WithNotifier(announcer))

	exporter := export.NewExporter(export.Options{
		Dir:      cfg.Export.Dir,
		AssetDir: cfg.Export.AssetDir,
		Log:      zl,
	})
	exporter.Register("png", raster.New(raster.Options{BaseDir: cfg.Export.AssetDir, Scale: cfg.Export.Scale, Format: "png"}))
	exporter.Register("jpg", raster.New(raster.Options{BaseDir: cfg.Export.AssetDir, Scale: cfg.Export.Scale, Format: "jpg"}))
	exporter.Register("pdf", canvasrenderer.NewRenderer(cfg.Export.AssetDir))

	srv := server.New(cfg, ed, exporter, zl)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		zl.Info("server", "收到退出信号，正在关闭", nil)
		if err := srv.Shutdown(); err != nil {
			zl.Error("server", "关闭失败", map[string]interface{}{"error": err.Error()})
		}
	}()

	if err := srv.Run(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// Package server exposes one editing session over HTTP.
package server

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/patrickmn/go-cache"

	"github.com/ByLCY/blueprint/config"
	"github.com/ByLCY/blueprint/editor"
	"github.com/ByLCY/blueprint/export"
	"github.com/ByLCY/blueprint/logger"
)

type Server struct {
	app      *fiber.App
	cfg      *config.Config
	session  *Session
	exporter *export.Exporter
	exports  *cache.Cache
	validate *validator.Validate
	log      logger.Logger
	now      func() time.Time
}

// New 组装 fiber 应用：中间件、错误处理与全部路由。
func New(cfg *config.Config, ed *editor.Editor, x *export.Exporter, log logger.Logger) *Server {
	if log == nil {
		log = logger.NewNop()
	}
	if x == nil {
		x = export.NewExporter(export.Options{Dir: cfg.Export.Dir, Log: log})
	}
	ttl := cfg.Export.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	s := &Server{
		cfg:      cfg,
		session:  NewSession(ed),
		exporter: x,
		exports:  cache.New(ttl, 2*ttl),
		validate: newValidator(),
		log:      log,
		now:      time.Now,
	}

	app := fiber.New(fiber.Config{
		AppName:      "Blueprint Editor",
		BodyLimit:    cfg.App.BodyLimit,
		ErrorHandler: s.handleError,
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{"*"},
		AllowMethods: []string{"*"},
	}))
	if !cfg.IsProd() {
		app.Use(fiberlogger.New(fiberlogger.Config{
			Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
			TimeFormat: "15:04:05",
			TimeZone:   "Local",
		}))
	}

	app.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})

	s.registerRoutes(app.Group("/api"))
	s.app = app
	return s
}

// App exposes the fiber application, mainly for tests.
func (s *Server) App() *fiber.App { return s.app }

// Session returns the editing session served by s.
func (s *Server) Session() *Session { return s.session }

// Run listens on the configured port.
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%s", s.cfg.App.Port)
	s.log.Info("server", "编辑服务启动", map[string]interface{}{"addr": addr, "env": s.cfg.App.Environment})
	return s.app.Listen(addr)
}

// Shutdown stops the listener.
func (s *Server) Shutdown() error { return s.app.Shutdown() }

func (s *Server) registerRoutes(r fiber.Router) {
	r.Get("/document", s.getDocument)
	r.Get("/state", s.getState)

	el := r.Group("/elements")
	el.Get("", s.listElements)
	el.Post("", s.createElement)
	el.Get("/:id", s.getElement)
	el.Patch("/:id", s.updateElement)
	el.Delete("/:id", s.deleteElement)
	el.Put("/:id/position", s.setPosition)
	el.Post("/:id/move", s.moveElement)
	el.Post("/:id/resize", s.resizeElement)
	el.Post("/:id/center", s.centerElement)
	el.Post("/:id/options", s.addOption)
	el.Delete("/:id/options", s.removeOption)
	el.Post("/:id/slides", s.addSlide)
	el.Delete("/:id/slides", s.removeSlide)
	el.Post("/:id/children", s.addChild)
	el.Patch("/:id/children/:childId", s.updateChild)
	el.Delete("/:id/children/:childId", s.removeChild)

	r.Put("/selection", s.setSelection)
	r.Post("/preview/toggle", s.togglePreview)
	r.Put("/canvas/background", s.setBackground)
	r.Post("/keys", s.handleKey)
	r.Get("/export/:format", s.exportDocument)
}

// handleError 将错误统一输出为 {"error": ...}。
func (s *Server) handleError(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		s.log.Error("server", "请求处理失败", map[string]interface{}{
			"method": c.Method(),
			"path":   c.Path(),
			"error":  err.Error(),
		})
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

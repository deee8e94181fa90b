package server

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/patrickmn/go-cache"

	"github.com/ByLCY/blueprint/editor"
	"github.com/ByLCY/blueprint/export"
	"github.com/ByLCY/blueprint/renderer"
)

// ============================================================
// Document
// ============================================================

func (s *Server) getDocument(c fiber.Ctx) error {
	var doc editor.ExportDocument
	_ = s.session.Do(func(ed *editor.Editor) error {
		doc = ed.Export()
		return nil
	})
	return c.JSON(doc)
}

func (s *Server) getState(c fiber.Ctx) error {
	return c.JSON(s.session.Snapshot())
}

// ============================================================
// Elements
// ============================================================

func (s *Server) listElements(c fiber.Ctx) error {
	var out []editor.Element
	_ = s.session.Do(func(ed *editor.Editor) error {
		out = ed.Elements()
		return nil
	})
	return c.JSON(out)
}

func (s *Server) createElement(c fiber.Ctx) error {
	var req CreateElementRequest
	if err := s.decode(c, &req); err != nil {
		return err
	}
	t, _ := editor.ParseElementType(req.Type)
	var el editor.Element
	_ = s.session.Do(func(ed *editor.Editor) error {
		var id string
		if req.Drop {
			id = ed.DropNewElement(t, editor.DropPoint{ClientX: *req.X, ClientY: *req.Y})
		} else {
			id = ed.AddElement(t, *req.X, *req.Y)
		}
		el, _ = ed.Element(id)
		return nil
	})
	return c.Status(fiber.StatusCreated).JSON(el)
}

func (s *Server) getElement(c fiber.Ctx) error {
	return s.respondElement(c, func(*editor.Editor, string) {})
}

func (s *Server) updateElement(c fiber.Ctx) error {
	var u editor.Update
	if err := s.decode(c, &u); err != nil {
		return err
	}
	return s.respondElement(c, func(ed *editor.Editor, id string) {
		ed.UpdateElement(id, u)
	})
}

func (s *Server) deleteElement(c fiber.Ctx) error {
	id := c.Params("id")
	return s.session.Do(func(ed *editor.Editor) error {
		if _, ok := ed.Element(id); !ok {
			return notFound(id)
		}
		ed.RemoveElement(id)
		return c.SendStatus(fiber.StatusNoContent)
	})
}

func (s *Server) setPosition(c fiber.Ctx) error {
	var req PositionRequest
	if err := s.decode(c, &req); err != nil {
		return err
	}
	return s.respondElement(c, func(ed *editor.Editor, id string) {
		ed.UpdatePosition(id, *req.X, *req.Y)
	})
}

func (s *Server) moveElement(c fiber.Ctx) error {
	var req MoveRequest
	if err := s.decode(c, &req); err != nil {
		return err
	}
	return s.respondElement(c, func(ed *editor.Editor, id string) {
		ed.MoveElementBy(id, req.DX, req.DY)
	})
}

func (s *Server) resizeElement(c fiber.Ctx) error {
	var req ResizeRequest
	if err := s.decode(c, &req); err != nil {
		return err
	}
	h, _ := editor.ParseHandle(req.Handle)
	return s.respondElement(c, func(ed *editor.Editor, id string) {
		ed.ResizeElement(id, h, req.DX, req.DY)
	})
}

func (s *Server) centerElement(c fiber.Ctx) error {
	return s.respondElement(c, func(ed *editor.Editor, id string) {
		ed.CenterElement(id)
	})
}

func (s *Server) addOption(c fiber.Ctx) error {
	return s.respondElement(c, func(ed *editor.Editor, id string) { ed.AddOption(id) })
}

func (s *Server) removeOption(c fiber.Ctx) error {
	idx, err := indexParam(c)
	if err != nil {
		return err
	}
	return s.respondElement(c, func(ed *editor.Editor, id string) { ed.RemoveOption(id, idx) })
}

func (s *Server) addSlide(c fiber.Ctx) error {
	return s.respondElement(c, func(ed *editor.Editor, id string) { ed.AddSlide(id) })
}

func (s *Server) removeSlide(c fiber.Ctx) error {
	idx, err := indexParam(c)
	if err != nil {
		return err
	}
	return s.respondElement(c, func(ed *editor.Editor, id string) { ed.RemoveSlide(id, idx) })
}

// respondElement 在锁内校验元素存在、执行变更并返回最新的元素。
func (s *Server) respondElement(c fiber.Ctx, mutate func(ed *editor.Editor, id string)) error {
	id := c.Params("id")
	var el editor.Element
	err := s.session.Do(func(ed *editor.Editor) error {
		if _, ok := ed.Element(id); !ok {
			return notFound(id)
		}
		mutate(ed, id)
		el, _ = ed.Element(id)
		return nil
	})
	if err != nil {
		return err
	}
	return c.JSON(el)
}

// ============================================================
// Form children
// ============================================================

func (s *Server) addChild(c fiber.Ctx) error {
	var req CreateChildRequest
	if err := s.decode(c, &req); err != nil {
		return err
	}
	t, _ := editor.ParseElementType(req.Type)
	formID := c.Params("id")
	var child editor.Node
	err := s.session.Do(func(ed *editor.Editor) error {
		if _, ok := ed.Element(formID); !ok {
			return notFound(formID)
		}
		child = ed.NewFormChild(t)
		if req.Content != nil {
			child.Content = *req.Content
		}
		if req.Description != nil {
			child.Description = *req.Description
		}
		ed.AddChildToForm(formID, child)
		return nil
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(child)
}

func (s *Server) updateChild(c fiber.Ctx) error {
	var u editor.Update
	if err := s.decode(c, &u); err != nil {
		return err
	}
	formID, childID := c.Params("id"), c.Params("childId")
	var child editor.Node
	err := s.session.Do(func(ed *editor.Editor) error {
		if _, ok := ed.Document().FormChild(formID, childID); !ok {
			return notFound(childID)
		}
		ed.UpdateFormChild(formID, childID, u)
		child, _ = ed.Document().FormChild(formID, childID)
		return nil
	})
	if err != nil {
		return err
	}
	return c.JSON(child)
}

func (s *Server) removeChild(c fiber.Ctx) error {
	formID, childID := c.Params("id"), c.Params("childId")
	return s.session.Do(func(ed *editor.Editor) error {
		if _, ok := ed.Document().FormChild(formID, childID); !ok {
			return notFound(childID)
		}
		ed.RemoveChildFromForm(formID, childID)
		return c.SendStatus(fiber.StatusNoContent)
	})
}

// ============================================================
// Selection, mode, canvas, keyboard
// ============================================================

func (s *Server) setSelection(c fiber.Ctx) error {
	var req SelectionRequest
	if err := s.decode(c, &req); err != nil {
		return err
	}
	if req.ChildID != "" && req.ElementID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "childId requires elementId")
	}
	var sel editor.Selection
	_ = s.session.Do(func(ed *editor.Editor) error {
		if req.ChildID != "" {
			ed.SelectFormChild(req.ElementID, req.ChildID)
		} else {
			ed.Select(req.ElementID)
		}
		sel = ed.Selection()
		return nil
	})
	return c.JSON(sel)
}

func (s *Server) togglePreview(c fiber.Ctx) error {
	_ = s.session.Do(func(ed *editor.Editor) error {
		ed.TogglePreview()
		return nil
	})
	return c.JSON(s.session.Snapshot())
}

func (s *Server) setBackground(c fiber.Ctx) error {
	var req BackgroundRequest
	if err := s.decode(c, &req); err != nil {
		return err
	}
	var canvas editor.CanvasSettings
	_ = s.session.Do(func(ed *editor.Editor) error {
		ed.SetCanvasBackgroundColor(req.Color)
		canvas = ed.Canvas()
		return nil
	})
	return c.JSON(canvas)
}

func (s *Server) handleKey(c fiber.Ctx) error {
	var req KeyRequest
	if err := s.decode(c, &req); err != nil {
		return err
	}
	var handled bool
	_ = s.session.Do(func(ed *editor.Editor) error {
		handled = ed.HandleKey(editor.KeyEvent{Key: req.Key, EditableFocus: req.Editable})
		return nil
	})
	return c.JSON(fiber.Map{"handled": handled})
}

// ============================================================
// Export
// ============================================================

type cachedExport struct {
	data   []byte
	format renderer.Format
}

func exportKey(revision uint64, format string) string {
	return fmt.Sprintf("%d:%s", revision, format)
}

// exportDocument 返回 JSON 或截图。截图按修订号与格式缓存：截图本身会切换两次模式，
// 因此以截图完成后的修订号为键。
func (s *Server) exportDocument(c fiber.Ctx) error {
	format := strings.ToLower(c.Params("format"))
	if format == "jpeg" {
		format = "jpg"
	}
	if !slices.Contains(s.exporter.Formats(), format) {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("unsupported format %q", format))
	}

	var out cachedExport
	err := s.session.Do(func(ed *editor.Editor) error {
		if format != export.FormatJSON.Ext {
			if hit, ok := s.exports.Get(exportKey(ed.Revision(), format)); ok {
				out = hit.(cachedExport)
				return nil
			}
		}
		data, f, err := s.exporter.Render(ed, format)
		if err != nil {
			return err
		}
		out = cachedExport{data: data, format: f}
		if format != export.FormatJSON.Ext {
			s.exports.Set(exportKey(ed.Revision(), format), out, cache.DefaultExpiration)
		}
		return nil
	})
	if err != nil {
		return err
	}

	name := c.Query("name")
	if strings.TrimSpace(name) == "" {
		name = export.DefaultName(s.now())
	}
	c.Set(fiber.HeaderContentType, out.format.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", export.FileName(name, out.format.Ext)))
	return c.Send(out.data)
}

func indexParam(c fiber.Ctx) (int, error) {
	idx, err := strconv.Atoi(c.Query("index"))
	if err != nil || idx < 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "index must be a non-negative integer")
	}
	return idx, nil
}

func notFound(id string) error {
	return fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("element %s not found", id))
}

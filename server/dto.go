package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/ByLCY/blueprint/editor"
)

// CreateElementRequest adds an element. Drop applies the protected-zone adjustment of a
// palette drop; otherwise the coordinates are used as given.
type CreateElementRequest struct {
	Type string   `json:"type" validate:"required,elementtype"`
	X    *float64 `json:"x" validate:"required"`
	Y    *float64 `json:"y" validate:"required"`
	Drop bool     `json:"drop"`
}

type PositionRequest struct {
	X *float64 `json:"x" validate:"required"`
	Y *float64 `json:"y" validate:"required"`
}

type MoveRequest struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

type ResizeRequest struct {
	Handle string  `json:"handle" validate:"required,oneof=n s e w ne nw se sw"`
	DX     float64 `json:"dx"`
	DY     float64 `json:"dy"`
}

type CreateChildRequest struct {
	Type        string  `json:"type" validate:"required,elementtype"`
	Content     *string `json:"content"`
	Description *string `json:"description"`
}

type SelectionRequest struct {
	ElementID string `json:"elementId"`
	ChildID   string `json:"childId"`
}

type BackgroundRequest struct {
	Color string `json:"color" validate:"required,max=64"`
}

type KeyRequest struct {
	Key      string `json:"key" validate:"required,max=32"`
	Editable bool   `json:"editable"`
}

// newValidator 注册元素类型校验。
func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("elementtype", func(fl validator.FieldLevel) bool {
		_, ok := editor.ParseElementType(fl.Field().String())
		return ok
	})
	return v
}

// decode 解析 JSON 请求体并校验；错误统一转换为 400。
func (s *Server) decode(c fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "empty body")
	}
	if err := json.Unmarshal(c.Body(), out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	if err := s.validate.Struct(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, validationMessage(err))
	}
	return nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

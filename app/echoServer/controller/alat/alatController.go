// app/echoServer/controller/alat/alatController.go
package alat

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Sheila49/paket1-ukk-be/app/echoServer/jwtx"
	"github.com/Sheila49/paket1-ukk-be/model"
	alatsvc "github.com/Sheila49/paket1-ukk-be/service/alat"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc alatsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /api/alat
func (h *Controller) Create(c echo.Context) error {
	var req model.CreateAlatReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	uid, _ := jwtx.UserIDFromContext(c)

	a, err := h.Svc.Create(c.Request().Context(), uid, req)
	if err != nil {
		switch alatsvc.Code(err) {
		case alatsvc.ErrKodeTaken:
			return c.JSON(http.StatusConflict, echo.Map{"message": "kode alat already used"})
		case alatsvc.ErrBadInput:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "bad input"})
		default:
			h.Log.Error("alat create", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "created", "data": a})
}

// PUT /api/alat/:id
func (h *Controller) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req model.UpdateAlatReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	uid, _ := jwtx.UserIDFromContext(c)

	a, err := h.Svc.Update(c.Request().Context(), uid, id, req)
	if err != nil {
		switch alatsvc.Code(err) {
		case alatsvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "alat not found"})
		case alatsvc.ErrKodeTaken:
			return c.JSON(http.StatusConflict, echo.Map{"message": "kode alat already used"})
		case alatsvc.ErrBadInput:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "bad input"})
		default:
			h.Log.Error("alat update", "err", err, "id", id)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "updated", "data": a})
}

// DELETE /api/alat/:id
func (h *Controller) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, _ := jwtx.UserIDFromContext(c)

	if err := h.Svc.Delete(c.Request().Context(), uid, id); err != nil {
		switch alatsvc.Code(err) {
		case alatsvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "alat not found"})
		case alatsvc.ErrInUse:
			return c.JSON(http.StatusConflict, echo.Map{"message": "alat has loan history"})
		default:
			h.Log.Error("alat delete", "err", err, "id", id)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}

// GET /api/alat
func (h *Controller) List(c echo.Context) error {
	rows, err := h.Svc.List(c.Request().Context())
	if err != nil {
		h.Log.Error("alat list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /api/alat/:id
func (h *Controller) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	a, err := h.Svc.Detail(c.Request().Context(), id)
	if err != nil {
		if alatsvc.Code(err) == alatsvc.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "alat not found"})
		}
		h.Log.Error("alat detail", "err", err, "id", id)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": a})
}

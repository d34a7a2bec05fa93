// app/echoServer/controller/kategori/kategoriController.go
package kategori

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Sheila49/paket1-ukk-be/app/echoServer/jwtx"
	"github.com/Sheila49/paket1-ukk-be/model"
	katsvc "github.com/Sheila49/paket1-ukk-be/service/kategori"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc katsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /api/kategori
func (h *Controller) Create(c echo.Context) error {
	var req model.KategoriReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	uid, _ := jwtx.UserIDFromContext(c)

	k, err := h.Svc.Create(c.Request().Context(), uid, req)
	if err != nil {
		h.Log.Error("kategori create", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "created", "data": k})
}

// GET /api/kategori
func (h *Controller) List(c echo.Context) error {
	rows, err := h.Svc.List(c.Request().Context())
	if err != nil {
		h.Log.Error("kategori list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /api/kategori/:id
func (h *Controller) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	k, err := h.Svc.ByID(c.Request().Context(), id)
	if err != nil {
		if katsvc.Code(err) == katsvc.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "kategori not found"})
		}
		h.Log.Error("kategori detail", "err", err, "id", id)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": k})
}

// PUT /api/kategori/:id
func (h *Controller) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req model.KategoriReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	uid, _ := jwtx.UserIDFromContext(c)

	k, err := h.Svc.Update(c.Request().Context(), uid, id, req)
	if err != nil {
		if katsvc.Code(err) == katsvc.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "kategori not found"})
		}
		h.Log.Error("kategori update", "err", err, "id", id)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "updated", "data": k})
}

// DELETE /api/kategori/:id
func (h *Controller) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, _ := jwtx.UserIDFromContext(c)

	if err := h.Svc.Delete(c.Request().Context(), uid, id); err != nil {
		switch katsvc.Code(err) {
		case katsvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "kategori not found"})
		case katsvc.ErrInUse:
			return c.JSON(http.StatusConflict, echo.Map{"message": "kategori still referenced by alat"})
		default:
			h.Log.Error("kategori delete", "err", err, "id", id)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}

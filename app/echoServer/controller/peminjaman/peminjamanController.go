// app/echoServer/controller/peminjaman/peminjamanController.go
package peminjaman

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Sheila49/paket1-ukk-be/app/echoServer/jwtx"
	"github.com/Sheila49/paket1-ukk-be/model"
	pjmsvc "github.com/Sheila49/paket1-ukk-be/service/peminjaman"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc pjmsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /api/peminjaman
// @Summary      Ajukan peminjaman
// @Description  Files a loan request; stock is checked but reserved at approval
// @Tags         peminjaman
// @Accept       json
// @Produce      json
// @Param        payload  body  model.CreatePeminjamanReq  true  "Loan request"
// @Success      201  {object}  map[string]any
// @Failure      409  {object}  map[string]any "insufficient stock"
// @Router       /api/peminjaman [post]
func (h *Controller) Create(c echo.Context) error {
	var req model.CreatePeminjamanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	actor, err := jwtx.ActorFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	p, err := h.Svc.Create(c.Request().Context(), actor, req)
	if err != nil {
		switch pjmsvc.Code(err) {
		case pjmsvc.ErrAlatNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "alat not found"})
		case pjmsvc.ErrNoStock:
			return c.JSON(http.StatusConflict, echo.Map{"message": "insufficient stock"})
		case pjmsvc.ErrBadInput:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "bad input"})
		default:
			h.Log.Error("peminjaman create", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "diajukan", "data": p})
}

// PUT /api/peminjaman/:id/approve
func (h *Controller) Approve(c echo.Context) error {
	return h.decide(c, true)
}

// PUT /api/peminjaman/:id/reject
func (h *Controller) Reject(c echo.Context) error {
	return h.decide(c, false)
}

func (h *Controller) decide(c echo.Context, approve bool) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req model.ApprovePeminjamanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	actor, err := jwtx.ActorFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	var p *model.Peminjaman
	if approve {
		p, err = h.Svc.Approve(c.Request().Context(), actor, id, req.CatatanPersetujuan)
	} else {
		p, err = h.Svc.Reject(c.Request().Context(), actor, id, req.CatatanPersetujuan)
	}
	if err != nil {
		switch pjmsvc.Code(err) {
		case pjmsvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "peminjaman not found"})
		case pjmsvc.ErrAlreadyProcessed:
			return c.JSON(http.StatusConflict, echo.Map{"message": "peminjaman already processed"})
		case pjmsvc.ErrNoStock:
			return c.JSON(http.StatusConflict, echo.Map{"message": "insufficient stock"})
		default:
			h.Log.Error("peminjaman decide", "err", err, "id", id, "approve", approve)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": string(p.Status), "data": p})
}

// PUT /api/peminjaman/:id/dipinjam
func (h *Controller) MarkDipinjam(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	actor, err := jwtx.ActorFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	p, err := h.Svc.MarkDipinjam(c.Request().Context(), actor, id)
	if err != nil {
		switch pjmsvc.Code(err) {
		case pjmsvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "peminjaman not found"})
		case pjmsvc.ErrInvalidTransition:
			return c.JSON(http.StatusConflict, echo.Map{"message": "peminjaman is not disetujui"})
		default:
			h.Log.Error("peminjaman dipinjam", "err", err, "id", id)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "dipinjam", "data": p})
}

// GET /api/peminjaman
func (h *Controller) List(c echo.Context) error {
	actor, err := jwtx.ActorFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	var status *model.PeminjamanStatus
	if s := c.QueryParam("status"); s != "" {
		st := model.PeminjamanStatus(s)
		status = &st
	}
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	rows, total, err := h.Svc.List(c.Request().Context(), actor, status, page, limit)
	if err != nil {
		h.Log.Error("peminjaman list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows, "total": total})
}

// GET /api/peminjaman/:id
func (h *Controller) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	actor, err := jwtx.ActorFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	p, err := h.Svc.GetByID(c.Request().Context(), actor, id)
	if err != nil {
		switch pjmsvc.Code(err) {
		case pjmsvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "peminjaman not found"})
		case pjmsvc.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
		default:
			h.Log.Error("peminjaman detail", "err", err, "id", id)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"data": p})
}

// PUT /api/peminjaman/:id
func (h *Controller) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req model.UpdatePeminjamanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	actor, err := jwtx.ActorFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	p, err := h.Svc.Update(c.Request().Context(), actor, id, req)
	if err != nil {
		switch pjmsvc.Code(err) {
		case pjmsvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "peminjaman not found"})
		case pjmsvc.ErrBadInput:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "bad input"})
		default:
			h.Log.Error("peminjaman update", "err", err, "id", id)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "updated", "data": p})
}

// DELETE /api/peminjaman/:id
func (h *Controller) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	actor, err := jwtx.ActorFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	if err := h.Svc.Delete(c.Request().Context(), actor, id); err != nil {
		if pjmsvc.Code(err) == pjmsvc.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "peminjaman not found"})
		}
		h.Log.Error("peminjaman delete", "err", err, "id", id)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}

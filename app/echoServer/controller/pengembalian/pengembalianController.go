// app/echoServer/controller/pengembalian/pengembalianController.go
package pengembalian

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Sheila49/paket1-ukk-be/app/echoServer/jwtx"
	"github.com/Sheila49/paket1-ukk-be/model"
	"github.com/Sheila49/paket1-ukk-be/service/denda"
	gmbsvc "github.com/Sheila49/paket1-ukk-be/service/pengembalian"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc gmbsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /api/pengembalian
// @Summary      Proses pengembalian
// @Description  Closes a loan: records the return, computes denda, releases stock
// @Tags         pengembalian
// @Accept       json
// @Produce      json
// @Param        payload  body  model.CreatePengembalianReq  true  "Return payload"
// @Success      201  {object}  map[string]any
// @Failure      409  {object}  map[string]any "already returned / not returnable"
// @Router       /api/pengembalian [post]
func (h *Controller) Create(c echo.Context) error {
	var req model.CreatePengembalianReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	actor, err := jwtx.ReturnActorFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	g, rincian, err := h.Svc.Create(c.Request().Context(), actor, req)
	if err != nil {
		switch gmbsvc.Code(err) {
		case gmbsvc.ErrPeminjamanNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "peminjaman not found"})
		case gmbsvc.ErrInvalidState:
			return c.JSON(http.StatusConflict, echo.Map{"message": "peminjaman is not returnable"})
		case gmbsvc.ErrDuplicate:
			return c.JSON(http.StatusConflict, echo.Map{"message": "peminjaman already returned"})
		case gmbsvc.ErrInvalidCondition:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid kondisi_alat"})
		case gmbsvc.ErrInvalidInput:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "jumlah_dikembalikan must equal jumlah_pinjam"})
		default:
			h.Log.Error("pengembalian create", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "dikembalikan",
		"data":    g,
		"denda":   rincian,
	})
}

// POST /api/pengembalian/:id/bayar-denda
func (h *Controller) BayarDenda(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req model.BayarDendaReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	actor, err := jwtx.ReturnActorFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	g, err := h.Svc.KonfirmasiPembayaran(c.Request().Context(), actor, id, req)
	if err != nil {
		switch gmbsvc.Code(err) {
		case gmbsvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "pengembalian not found"})
		case gmbsvc.ErrNoFee:
			return c.JSON(http.StatusConflict, echo.Map{"message": "no denda to pay"})
		default:
			h.Log.Error("bayar denda", "err", err, "id", id)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "pembayaran dicatat", "data": g})
}

// GET /api/pengembalian/estimasi/:peminjamanId
func (h *Controller) Estimasi(c echo.Context) error {
	pid, err := strconv.ParseInt(c.Param("peminjamanId"), 10, 64)
	if err != nil || pid <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	actor, err := jwtx.ReturnActorFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	kondisi := model.Kondisi(c.QueryParam("kondisi"))

	r, err := h.Svc.Estimasi(c.Request().Context(), actor, pid, kondisi)
	if err != nil {
		switch gmbsvc.Code(err) {
		case gmbsvc.ErrPeminjamanNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "peminjaman not found"})
		case gmbsvc.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
		case gmbsvc.ErrInvalidState:
			return c.JSON(http.StatusConflict, echo.Map{"message": "peminjaman is not returnable"})
		case gmbsvc.ErrInvalidCondition:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid kondisi"})
		default:
			h.Log.Error("estimasi denda", "err", err, "peminjaman_id", pid)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"data":            r,
		"total_formatted": denda.FormatRupiah(r.Total),
	})
}

// GET /api/pengembalian
func (h *Controller) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	rows, total, err := h.Svc.List(c.Request().Context(), page, limit)
	if err != nil {
		h.Log.Error("pengembalian list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows, "total": total})
}

// GET /api/pengembalian/:id
func (h *Controller) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	g, err := h.Svc.GetByID(c.Request().Context(), id)
	if err != nil {
		if gmbsvc.Code(err) == gmbsvc.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "pengembalian not found"})
		}
		h.Log.Error("pengembalian detail", "err", err, "id", id)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": g})
}

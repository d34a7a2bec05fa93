// app/echoServer/controller/log/logController.go
package log

import (
	"log/slog"
	"net/http"
	"strconv"

	logsvc "github.com/Sheila49/paket1-ukk-be/service/log"

	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc logsvc.Service
	Log *slog.Logger
}

// GET /api/log-aktivitas
func (h *Controller) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	rows, total, err := h.Svc.List(c.Request().Context(), page, limit)
	if err != nil {
		h.Log.Error("log list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows, "total": total})
}

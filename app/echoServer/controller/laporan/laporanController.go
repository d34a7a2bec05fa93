// app/echoServer/controller/laporan/laporanController.go
package laporan

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Sheila49/paket1-ukk-be/model"
	"github.com/Sheila49/paket1-ukk-be/service/denda"

	"github.com/labstack/echo/v4"
)

// PeminjamanRepo is the slice of the loan repository the report needs.
type PeminjamanRepo interface {
	ListBetween(ctx context.Context, start, end *time.Time, status *model.PeminjamanStatus) ([]model.Peminjaman, error)
}

// PengembalianRepo feeds the denda summary.
type PengembalianRepo interface {
	ListBetween(ctx context.Context, start, end *time.Time) ([]model.Pengembalian, error)
}

type Controller struct {
	PjmRepo PeminjamanRepo
	GmbRepo PengembalianRepo
	Log     *slog.Logger
}

// GET /api/laporan/peminjaman?start=2024-01-01&end=2024-12-31&status=dikembalikan&format=csv
func (h *Controller) Peminjaman(c echo.Context) error {
	start, err := parseDate(c.QueryParam("start"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid start date"})
	}
	end, err := parseDate(c.QueryParam("end"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid end date"})
	}
	var status *model.PeminjamanStatus
	if s := c.QueryParam("status"); s != "" {
		st := model.PeminjamanStatus(s)
		status = &st
	}

	rows, err := h.PjmRepo.ListBetween(c.Request().Context(), start, end, status)
	if err != nil {
		h.Log.Error("laporan peminjaman", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}

	if c.QueryParam("format") != "csv" {
		return c.JSON(http.StatusOK, echo.Map{"data": rows, "total": len(rows)})
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	res.Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="laporan-peminjaman-%s.csv"`, time.Now().Format("20060102")))
	res.WriteHeader(http.StatusOK)

	w := csv.NewWriter(res)
	_ = w.Write([]string{
		"kode_peminjaman", "nama_peminjam", "nama_alat", "jumlah",
		"tanggal_pengajuan", "tanggal_kembali_rencana", "status",
	})
	for _, p := range rows {
		_ = w.Write([]string{
			p.KodePeminjaman,
			deref(p.NamaPeminjam),
			deref(p.NamaAlat),
			strconv.Itoa(p.JumlahPinjam),
			p.TanggalPengajuan.Format("2006-01-02"),
			p.TanggalKembaliRencana.Format("2006-01-02"),
			string(p.Status),
		})
	}
	w.Flush()
	return w.Error()
}

// GET /api/laporan/denda?start=...&end=...
// Amounts come from the stored denda, not a recomputation.
func (h *Controller) Denda(c echo.Context) error {
	start, err := parseDate(c.QueryParam("start"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid start date"})
	}
	end, err := parseDate(c.QueryParam("end"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid end date"})
	}

	rows, err := h.GmbRepo.ListBetween(c.Request().Context(), start, end)
	if err != nil {
		h.Log.Error("laporan denda", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}

	var total float64
	for _, g := range rows {
		total += g.Denda
	}
	return c.JSON(http.StatusOK, echo.Map{
		"data":            rows,
		"total_denda":     total,
		"total_formatted": denda.FormatRupiah(total),
	})
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

package denda_test

import (
	"testing"
	"time"

	"github.com/Sheila49/paket1-ukk-be/model"
	"github.com/Sheila49/paket1-ukk-be/service/denda"

	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestKeterlambatanHari(t *testing.T) {
	c := denda.NewCalculator(denda.DefaultConfig())
	rencana := date(2024, 1, 10)

	tests := []struct {
		name   string
		aktual time.Time
		want   int
	}{
		{"same day", date(2024, 1, 10), 0},
		{"early return", date(2024, 1, 8), 0},
		{"one day late", date(2024, 1, 11), 1},
		{"two days late", date(2024, 1, 12), 2},
		{"across month boundary", date(2024, 2, 10), 31},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, c.KeterlambatanHari(rencana, tt.aktual))
		})
	}
}

func TestKeterlambatanHari_PartialDayCountsFull(t *testing.T) {
	c := denda.NewCalculator(denda.DefaultConfig())

	// Returned at 08:00 the day after a 23:59 deadline is still one day late;
	// both ends are normalized to midnight.
	rencana := time.Date(2024, 1, 10, 23, 59, 0, 0, time.UTC)
	aktual := time.Date(2024, 1, 11, 8, 0, 0, 0, time.UTC)
	require.Equal(t, 1, c.KeterlambatanHari(rencana, aktual))
}

func TestDendaKeterlambatan_Cap(t *testing.T) {
	c := denda.NewCalculator(denda.DefaultConfig())

	require.Equal(t, float64(0), c.DendaKeterlambatan(0))
	require.Equal(t, float64(20000), c.DendaKeterlambatan(2))
	require.Equal(t, float64(1000000), c.DendaKeterlambatan(150))
}

func TestDendaKerusakan(t *testing.T) {
	c := denda.NewCalculator(denda.DefaultConfig())

	require.Equal(t, float64(0), c.DendaKerusakan(model.KondisiBaik, 500000))
	require.Equal(t, float64(50000), c.DendaKerusakan(model.KondisiRusakRingan, 500000))

	// Heavy damage: larger of the fixed rate and half the asset value.
	require.Equal(t, float64(250000), c.DendaKerusakan(model.KondisiRusakBerat, 500000))
	require.Equal(t, float64(200000), c.DendaKerusakan(model.KondisiRusakBerat, 100000))
	require.Equal(t, float64(200000), c.DendaKerusakan(model.KondisiRusakBerat, 0))
}

func TestHitung_OnTimeAndGood(t *testing.T) {
	c := denda.NewCalculator(denda.DefaultConfig())

	r := c.Hitung(date(2024, 1, 10), date(2024, 1, 10), model.KondisiBaik, 0)
	require.Equal(t, 0, r.KeterlambatanHari)
	require.Equal(t, float64(0), r.Total)
	require.Equal(t, []string{"Tidak ada denda"}, r.Detail)
}

func TestHitung_LateAndDamaged(t *testing.T) {
	c := denda.NewCalculator(denda.DefaultConfig())

	r := c.Hitung(date(2024, 1, 10), date(2024, 1, 12), model.KondisiRusakRingan, 0)
	require.Equal(t, 2, r.KeterlambatanHari)
	require.Equal(t, float64(20000), r.DendaKeterlambatan)
	require.Equal(t, float64(50000), r.DendaKerusakan)
	require.Equal(t, float64(70000), r.Total)
	require.Len(t, r.Detail, 2)
}

func TestHitung_TotalCapped(t *testing.T) {
	c := denda.NewCalculator(denda.DefaultConfig())

	// 150 days late plus heavy damage; components exceed the cap together.
	r := c.Hitung(date(2024, 1, 1), date(2024, 5, 30), model.KondisiRusakBerat, 5000000)
	require.Equal(t, float64(1000000), r.Total)
}

func TestHitung_CustomRates(t *testing.T) {
	c := denda.NewCalculator(denda.Config{
		PerHari:     5000,
		RusakRingan: 25000,
		RusakBerat:  100000,
		Maks:        300000,
	})

	r := c.Hitung(date(2024, 3, 1), date(2024, 3, 4), model.KondisiBaik, 0)
	require.Equal(t, 3, r.KeterlambatanHari)
	require.Equal(t, float64(15000), r.Total)
}

func TestFormatRupiah(t *testing.T) {
	require.Equal(t, "Rp 0", denda.FormatRupiah(0))
	require.Equal(t, "Rp 500", denda.FormatRupiah(500))
	require.Equal(t, "Rp 1.000", denda.FormatRupiah(1000))
	require.Equal(t, "Rp 20.000", denda.FormatRupiah(20000))
	require.Equal(t, "Rp 1.234.567", denda.FormatRupiah(1234567))
}

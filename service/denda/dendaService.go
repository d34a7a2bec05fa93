// Package denda computes late and damage fees. Pure and deterministic:
// everything derives from the two dates, the reported condition and the
// configured rates.
package denda

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Sheila49/paket1-ukk-be/model"
)

type Config struct {
	PerHari     float64
	RusakRingan float64
	RusakBerat  float64
	Maks        float64
}

func DefaultConfig() Config {
	return Config{
		PerHari:     10000,
		RusakRingan: 50000,
		RusakBerat:  200000,
		Maks:        1000000,
	}
}

type Calculator struct {
	cfg Config
}

func NewCalculator(cfg Config) Calculator { return Calculator{cfg: cfg} }

// Rincian is the fee breakdown for one return. Detail is display-only.
type Rincian struct {
	KeterlambatanHari  int      `json:"keterlambatan_hari"`
	DendaKeterlambatan float64  `json:"denda_keterlambatan"`
	DendaKerusakan     float64  `json:"denda_kerusakan"`
	Total              float64  `json:"total_denda"`
	Detail             []string `json:"detail"`
}

// KeterlambatanHari counts whole days late. Both dates are normalized to
// midnight first, so any partial day overdue counts as a full day.
func (c Calculator) KeterlambatanHari(rencana, aktual time.Time) int {
	rencana = midnight(rencana)
	aktual = midnight(aktual)

	diff := aktual.Sub(rencana)
	days := int(math.Ceil(diff.Hours() / 24))
	if days < 0 {
		return 0
	}
	return days
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DendaKeterlambatan is hari * rate, capped at Maks.
func (c Calculator) DendaKeterlambatan(hari int) float64 {
	d := float64(hari) * c.PerHari()
	return math.Min(d, c.cfg.Maks)
}

func (c Calculator) PerHari() float64 { return c.cfg.PerHari }

// DendaKerusakan maps a reported condition to its damage fee. For heavy
// damage the fee is the larger of the fixed rate and half the asset value
// when the value is known.
func (c Calculator) DendaKerusakan(kondisi model.Kondisi, nilaiAlat float64) float64 {
	switch kondisi {
	case model.KondisiBaik:
		return 0
	case model.KondisiRusakRingan:
		return c.cfg.RusakRingan
	case model.KondisiRusakBerat:
		if nilaiAlat > 0 {
			return math.Max(c.cfg.RusakBerat, math.Floor(nilaiAlat*0.5))
		}
		return c.cfg.RusakBerat
	}
	return 0
}

// Hitung computes the full breakdown for a return. The stored fee is the
// capped sum of late and damage components; the same formula backs the
// estimasi preview so the two can never disagree.
func (c Calculator) Hitung(rencana, aktual time.Time, kondisi model.Kondisi, nilaiAlat float64) Rincian {
	hari := c.KeterlambatanHari(rencana, aktual)
	late := c.DendaKeterlambatan(hari)
	damage := c.DendaKerusakan(kondisi, nilaiAlat)
	total := math.Min(late+damage, c.cfg.Maks)

	var detail []string
	if hari > 0 {
		detail = append(detail, fmt.Sprintf("Keterlambatan %d hari: %s", hari, FormatRupiah(late)))
	}
	if damage > 0 {
		detail = append(detail, fmt.Sprintf("Kerusakan (%s): %s", kondisi, FormatRupiah(damage)))
	}
	if len(detail) == 0 {
		detail = append(detail, "Tidak ada denda")
	}

	return Rincian{
		KeterlambatanHari:  hari,
		DendaKeterlambatan: late,
		DendaKerusakan:     damage,
		Total:              total,
		Detail:             detail,
	}
}

// Estimasi previews the fee for a loan that has not been returned yet,
// assuming it comes back now in the given condition.
func (c Calculator) Estimasi(rencana time.Time, kondisi model.Kondisi, nilaiAlat float64) Rincian {
	return c.Hitung(rencana, time.Now(), kondisi, nilaiAlat)
}

// FormatRupiah renders an amount with id-ID thousand separators, e.g.
// "Rp 1.000.000".
func FormatRupiah(amount float64) string {
	n := int64(math.Round(amount))
	neg := n < 0
	if neg {
		n = -n
	}
	s := strconv.FormatInt(n, 10)

	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
	}
	for i := pre; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s[i : i+3])
	}
	if neg {
		return "Rp -" + b.String()
	}
	return "Rp " + b.String()
}

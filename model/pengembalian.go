package model

import "time"

// Pengembalian is the terminal record closing a loan. At most one exists per
// peminjaman (unique index on peminjaman_id). Immutable after creation except
// for payment-confirmation annotations appended to Catatan.
type Pengembalian struct {
	ID                   int64     `json:"id"`
	PeminjamanID         int64     `json:"peminjaman_id"`
	TanggalKembaliAktual time.Time `json:"tanggal_kembali_aktual"`
	KondisiAlat          Kondisi   `json:"kondisi_alat"`
	JumlahDikembalikan   int       `json:"jumlah_dikembalikan"`
	KeterlambatanHari    int       `json:"keterlambatan_hari"`
	Denda                float64   `json:"denda"`
	Catatan              *string   `json:"catatan,omitempty"`
	DiterimaOleh         *int64    `json:"diterima_oleh,omitempty"`
	CreatedAt            time.Time `json:"created_at"`

	// Joined attributes for display.
	KodePeminjaman *string `json:"kode_peminjaman,omitempty"`
	NamaPeminjam   *string `json:"nama_peminjam,omitempty"`
	NamaAlat       *string `json:"nama_alat,omitempty"`
	NamaPenerima   *string `json:"nama_penerima,omitempty"`
}

type CreatePengembalianReq struct {
	PeminjamanID int64   `json:"peminjaman_id" validate:"required,gt=0"`
	KondisiAlat  string  `json:"kondisi_alat" validate:"required"`
	// Optional; when present it must equal the loan's jumlah_pinjam.
	// Partial returns are not supported.
	JumlahDikembalikan *int    `json:"jumlah_dikembalikan" validate:"omitempty,gte=1"`
	Catatan            *string `json:"catatan"`
}

type BayarDendaReq struct {
	MetodePembayaran string  `json:"metode_pembayaran" validate:"required,max=50"`
	BuktiPembayaran  *string `json:"bukti_pembayaran" validate:"omitempty,max=255"`
}

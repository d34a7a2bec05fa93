package model

import "time"

type PeminjamanStatus string

const (
	StatusDiajukan     PeminjamanStatus = "diajukan"
	StatusDisetujui    PeminjamanStatus = "disetujui"
	StatusDitolak      PeminjamanStatus = "ditolak"
	StatusDipinjam     PeminjamanStatus = "dipinjam"
	StatusDikembalikan PeminjamanStatus = "dikembalikan"
)

// Peminjaman is a loan request. Status is the single source of truth for the
// lifecycle position: diajukan -> disetujui|ditolak, disetujui -> dipinjam,
// disetujui|dipinjam -> dikembalikan. ditolak and dikembalikan are terminal.
type Peminjaman struct {
	ID                    int64            `json:"id"`
	KodePeminjaman        string           `json:"kode_peminjaman"`
	UserID                int64            `json:"user_id"`
	AlatID                int64            `json:"alat_id"`
	JumlahPinjam          int              `json:"jumlah_pinjam"`
	TanggalPengajuan      time.Time        `json:"tanggal_pengajuan"`
	TanggalPinjam         *time.Time       `json:"tanggal_pinjam,omitempty"`
	TanggalKembaliRencana time.Time        `json:"tanggal_kembali_rencana"`
	Keperluan             *string          `json:"keperluan,omitempty"`
	Status                PeminjamanStatus `json:"status"`
	DisetujuiOleh         *int64           `json:"disetujui_oleh,omitempty"`
	TanggalPersetujuan    *time.Time       `json:"tanggal_persetujuan,omitempty"`
	CatatanPersetujuan    *string          `json:"catatan_persetujuan,omitempty"`
	CreatedAt             time.Time        `json:"created_at"`
	UpdatedAt             time.Time        `json:"updated_at"`

	// Joined attributes for display, filled by list/detail queries.
	NamaPeminjam  *string `json:"nama_peminjam,omitempty"`
	NamaPenyetuju *string `json:"nama_penyetuju,omitempty"`
	NamaAlat      *string `json:"nama_alat,omitempty"`
	KodeAlat      *string `json:"kode_alat,omitempty"`
}

type CreatePeminjamanReq struct {
	AlatID                int64   `json:"alat_id" validate:"required,gt=0"`
	JumlahPinjam          int     `json:"jumlah_pinjam" validate:"required,gte=1"`
	TanggalKembaliRencana string  `json:"tanggal_kembali_rencana" validate:"required,datetime=2006-01-02"`
	Keperluan             *string `json:"keperluan"`
}

type ApprovePeminjamanReq struct {
	CatatanPersetujuan *string `json:"catatan_persetujuan"`
}

// UpdatePeminjamanReq is the administrative escape hatch. It edits fields
// directly and bypasses the state machine; no invariants are enforced here.
type UpdatePeminjamanReq struct {
	JumlahPinjam          *int    `json:"jumlah_pinjam" validate:"omitempty,gte=1"`
	TanggalKembaliRencana *string `json:"tanggal_kembali_rencana" validate:"omitempty,datetime=2006-01-02"`
	Keperluan             *string `json:"keperluan"`
	Status                *string `json:"status" validate:"omitempty,oneof=diajukan disetujui ditolak dipinjam dikembalikan"`
}

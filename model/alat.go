package model

import "time"

// Kondisi is the physical condition tag shared by alat and pengembalian.
type Kondisi string

const (
	KondisiBaik        Kondisi = "baik"
	KondisiRusakRingan Kondisi = "rusak ringan"
	KondisiRusakBerat  Kondisi = "rusak berat"
)

func (k Kondisi) Valid() bool {
	switch k {
	case KondisiBaik, KondisiRusakRingan, KondisiRusakBerat:
		return true
	}
	return false
}

type AlatStatus string

const (
	AlatTersedia AlatStatus = "tersedia"
	AlatDipinjam AlatStatus = "dipinjam"
)

// Alat is an equipment type. JumlahTersedia is a cached counter kept in step
// with outstanding reservations; it is mutated only through the stock ledger
// (ReserveStock / ReleaseStock).
type Alat struct {
	ID                int64      `json:"id"`
	KodeAlat          string     `json:"kode_alat"`
	NamaAlat          string     `json:"nama_alat"`
	KategoriID        *int64     `json:"kategori_id,omitempty"`
	NamaKategori      *string    `json:"nama_kategori,omitempty"`
	Deskripsi         *string    `json:"deskripsi,omitempty"`
	Kondisi           Kondisi    `json:"kondisi"`
	JumlahTotal       int        `json:"jumlah_total"`
	JumlahTersedia    int        `json:"jumlah_tersedia"`
	NilaiAlat         *float64   `json:"nilai_alat,omitempty"`
	LokasiPenyimpanan *string    `json:"lokasi_penyimpanan,omitempty"`
	GambarURL         *string    `json:"gambar_url,omitempty"`
	Status            AlatStatus `json:"status"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

type CreateAlatReq struct {
	KodeAlat          string   `json:"kode_alat" validate:"required,max=50"`
	NamaAlat          string   `json:"nama_alat" validate:"required,max=100"`
	KategoriID        *int64   `json:"kategori_id" validate:"omitempty,gt=0"`
	Deskripsi         *string  `json:"deskripsi"`
	Kondisi           string   `json:"kondisi" validate:"omitempty,oneof=baik 'rusak ringan' 'rusak berat'"`
	JumlahTotal       int      `json:"jumlah_total" validate:"required,gte=0"`
	JumlahTersedia    int      `json:"jumlah_tersedia" validate:"gte=0"`
	NilaiAlat         *float64 `json:"nilai_alat" validate:"omitempty,gte=0"`
	LokasiPenyimpanan *string  `json:"lokasi_penyimpanan" validate:"omitempty,max=100"`
	GambarURL         *string  `json:"gambar_url" validate:"omitempty,max=255"`
}

type UpdateAlatReq struct {
	KodeAlat          *string  `json:"kode_alat" validate:"omitempty,max=50"`
	NamaAlat          *string  `json:"nama_alat" validate:"omitempty,max=100"`
	KategoriID        *int64   `json:"kategori_id" validate:"omitempty,gt=0"`
	Deskripsi         *string  `json:"deskripsi"`
	Kondisi           *string  `json:"kondisi" validate:"omitempty,oneof=baik 'rusak ringan' 'rusak berat'"`
	JumlahTotal       *int     `json:"jumlah_total" validate:"omitempty,gte=0"`
	JumlahTersedia    *int     `json:"jumlah_tersedia" validate:"omitempty,gte=0"`
	NilaiAlat         *float64 `json:"nilai_alat" validate:"omitempty,gte=0"`
	LokasiPenyimpanan *string  `json:"lokasi_penyimpanan" validate:"omitempty,max=100"`
	GambarURL         *string  `json:"gambar_url" validate:"omitempty,max=255"`
}

package model

import "time"

type Kategori struct {
	ID           int64     `json:"id"`
	NamaKategori string    `json:"nama_kategori"`
	Deskripsi    *string   `json:"deskripsi,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type KategoriReq struct {
	NamaKategori string  `json:"nama_kategori" validate:"required,max=100"`
	Deskripsi    *string `json:"deskripsi"`
}

package alat

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Sheila49/paket1-ukk-be/model"
)

// Sentinel errors surfaced by the stock ledger. ErrStockOverflow means a
// release would push jumlah_tersedia past jumlah_total; that is a broken
// invariant, not a user error.
var (
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrStockOverflow     = errors.New("stock release exceeds total")
)

type Repo interface {
	Create(ctx context.Context, a *model.Alat) error
	Update(ctx context.Context, a *model.Alat) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]model.Alat, error)
	Detail(ctx context.Context, id int64) (*model.Alat, error)

	GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Alat, error)
	ReserveStock(ctx context.Context, tx *sql.Tx, id int64, n int) error
	ReleaseStock(ctx context.Context, tx *sql.Tx, id int64, n int) error
	SetStatus(ctx context.Context, tx *sql.Tx, id int64, status model.AlatStatus) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

const alatCols = `a.id, a.kode_alat, a.nama_alat, a.kategori_id, k.nama_kategori,
	a.deskripsi, a.kondisi, a.jumlah_total, a.jumlah_tersedia, a.nilai_alat,
	a.lokasi_penyimpanan, a.gambar_url, a.status, a.created_at, a.updated_at`

func scanAlat(row interface{ Scan(...any) error }) (*model.Alat, error) {
	var a model.Alat
	err := row.Scan(
		&a.ID, &a.KodeAlat, &a.NamaAlat, &a.KategoriID, &a.NamaKategori,
		&a.Deskripsi, &a.Kondisi, &a.JumlahTotal, &a.JumlahTersedia, &a.NilaiAlat,
		&a.LokasiPenyimpanan, &a.GambarURL, &a.Status, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repo) Create(ctx context.Context, a *model.Alat) error {
	const q = `
		INSERT INTO alat (kode_alat, nama_alat, kategori_id, deskripsi, kondisi,
			jumlah_total, jumlah_tersedia, nilai_alat, lokasi_penyimpanan, gambar_url, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, q,
		a.KodeAlat, a.NamaAlat, a.KategoriID, a.Deskripsi, a.Kondisi,
		a.JumlahTotal, a.JumlahTersedia, a.NilaiAlat, a.LokasiPenyimpanan, a.GambarURL, a.Status,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

func (r *repo) Update(ctx context.Context, a *model.Alat) error {
	const q = `
		UPDATE alat
		SET kode_alat = $2, nama_alat = $3, kategori_id = $4, deskripsi = $5,
			kondisi = $6, jumlah_total = $7, jumlah_tersedia = $8, nilai_alat = $9,
			lokasi_penyimpanan = $10, gambar_url = $11, updated_at = NOW()
		WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q,
		a.ID, a.KodeAlat, a.NamaAlat, a.KategoriID, a.Deskripsi,
		a.Kondisi, a.JumlahTotal, a.JumlahTersedia, a.NilaiAlat,
		a.LokasiPenyimpanan, a.GambarURL,
	)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM alat WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) List(ctx context.Context) ([]model.Alat, error) {
	const q = `
		SELECT ` + alatCols + `
		FROM alat a
		LEFT JOIN kategori k ON k.id = a.kategori_id
		ORDER BY a.nama_alat ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Alat
	for rows.Next() {
		a, err := scanAlat(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (r *repo) Detail(ctx context.Context, id int64) (*model.Alat, error) {
	const q = `
		SELECT ` + alatCols + `
		FROM alat a
		LEFT JOIN kategori k ON k.id = a.kategori_id
		WHERE a.id = $1`
	return scanAlat(r.db.QueryRowContext(ctx, q, id))
}

// GetForUpdate locks the alat row for the remainder of the transaction so
// concurrent reserve/release on the same alat serialize.
func (r *repo) GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Alat, error) {
	const q = `
		SELECT id, kode_alat, nama_alat, kategori_id, deskripsi, kondisi,
			jumlah_total, jumlah_tersedia, nilai_alat, lokasi_penyimpanan,
			gambar_url, status, created_at, updated_at
		FROM alat
		WHERE id = $1
		FOR UPDATE`
	var a model.Alat
	err := tx.QueryRowContext(ctx, q, id).Scan(
		&a.ID, &a.KodeAlat, &a.NamaAlat, &a.KategoriID, &a.Deskripsi, &a.Kondisi,
		&a.JumlahTotal, &a.JumlahTersedia, &a.NilaiAlat, &a.LokasiPenyimpanan,
		&a.GambarURL, &a.Status, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ReserveStock is the only path that decreases availability. The guard on
// jumlah_tersedia makes the check-and-decrement a single atomic statement;
// two concurrent reservations cannot jointly overdraw.
func (r *repo) ReserveStock(ctx context.Context, tx *sql.Tx, id int64, n int) error {
	const q = `
		UPDATE alat
		SET jumlah_tersedia = jumlah_tersedia - $2, updated_at = NOW()
		WHERE id = $1
		AND jumlah_tersedia >= $2`
	res, err := tx.ExecContext(ctx, q, id, n)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return ErrInsufficientStock
	}
	return nil
}

// ReleaseStock increments availability, never past jumlah_total.
func (r *repo) ReleaseStock(ctx context.Context, tx *sql.Tx, id int64, n int) error {
	const q = `
		UPDATE alat
		SET jumlah_tersedia = jumlah_tersedia + $2, updated_at = NOW()
		WHERE id = $1
		AND jumlah_tersedia + $2 <= jumlah_total`
	res, err := tx.ExecContext(ctx, q, id, n)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return ErrStockOverflow
	}
	return nil
}

// SetStatus flips the display flag only; it does not touch the counters.
func (r *repo) SetStatus(ctx context.Context, tx *sql.Tx, id int64, status model.AlatStatus) error {
	const q = `UPDATE alat SET status = $2, updated_at = NOW() WHERE id = $1`
	_, err := tx.ExecContext(ctx, q, id, status)
	return err
}

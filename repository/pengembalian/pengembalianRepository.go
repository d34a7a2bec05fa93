package pengembalian

import (
	"context"
	"database/sql"
	"time"

	"github.com/Sheila49/paket1-ukk-be/model"
)

type Repo interface {
	ExistsForPeminjaman(ctx context.Context, tx *sql.Tx, peminjamanID int64) (bool, error)
	Insert(ctx context.Context, tx *sql.Tx, p *model.Pengembalian) error
	GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Pengembalian, error)
	SetCatatan(ctx context.Context, tx *sql.Tx, id int64, catatan string) error

	GetByID(ctx context.Context, id int64) (*model.Pengembalian, error)
	List(ctx context.Context, page, limit int) ([]model.Pengembalian, int64, error)
	ListBetween(ctx context.Context, start, end *time.Time) ([]model.Pengembalian, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) ExistsForPeminjaman(ctx context.Context, tx *sql.Tx, peminjamanID int64) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM pengembalian WHERE peminjaman_id = $1)`
	var exists bool
	if err := tx.QueryRowContext(ctx, q, peminjamanID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Insert relies on the unique index on peminjaman_id as the backstop against
// a concurrent double return; callers map the unique violation.
func (r *repo) Insert(ctx context.Context, tx *sql.Tx, p *model.Pengembalian) error {
	const q = `
		INSERT INTO pengembalian (peminjaman_id, tanggal_kembali_aktual, kondisi_alat,
			jumlah_dikembalikan, keterlambatan_hari, denda, catatan, diterima_oleh)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id, created_at`
	return tx.QueryRowContext(ctx, q,
		p.PeminjamanID, p.TanggalKembaliAktual, p.KondisiAlat,
		p.JumlahDikembalikan, p.KeterlambatanHari, p.Denda, p.Catatan, p.DiterimaOleh,
	).Scan(&p.ID, &p.CreatedAt)
}

func (r *repo) GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Pengembalian, error) {
	const q = `
		SELECT id, peminjaman_id, tanggal_kembali_aktual, kondisi_alat,
			jumlah_dikembalikan, keterlambatan_hari, denda, catatan, diterima_oleh, created_at
		FROM pengembalian
		WHERE id = $1
		FOR UPDATE`
	var p model.Pengembalian
	err := tx.QueryRowContext(ctx, q, id).Scan(
		&p.ID, &p.PeminjamanID, &p.TanggalKembaliAktual, &p.KondisiAlat,
		&p.JumlahDikembalikan, &p.KeterlambatanHari, &p.Denda, &p.Catatan, &p.DiterimaOleh, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repo) SetCatatan(ctx context.Context, tx *sql.Tx, id int64, catatan string) error {
	const q = `UPDATE pengembalian SET catatan = $2 WHERE id = $1`
	_, err := tx.ExecContext(ctx, q, id, catatan)
	return err
}

const joined = `
	SELECT g.id, g.peminjaman_id, g.tanggal_kembali_aktual, g.kondisi_alat,
		g.jumlah_dikembalikan, g.keterlambatan_hari, g.denda, g.catatan,
		g.diterima_oleh, g.created_at,
		p.kode_peminjaman, u.nama_lengkap, a.nama_alat, pen.nama_lengkap
	FROM pengembalian g
	JOIN peminjaman p ON p.id = g.peminjaman_id
	JOIN users u ON u.id = p.user_id
	JOIN alat a ON a.id = p.alat_id
	LEFT JOIN users pen ON pen.id = g.diterima_oleh`

func scanJoined(row interface{ Scan(...any) error }, p *model.Pengembalian, extra ...any) error {
	dest := []any{
		&p.ID, &p.PeminjamanID, &p.TanggalKembaliAktual, &p.KondisiAlat,
		&p.JumlahDikembalikan, &p.KeterlambatanHari, &p.Denda, &p.Catatan,
		&p.DiterimaOleh, &p.CreatedAt,
		&p.KodePeminjaman, &p.NamaPeminjam, &p.NamaAlat, &p.NamaPenerima,
	}
	dest = append(dest, extra...)
	return row.Scan(dest...)
}

func (r *repo) GetByID(ctx context.Context, id int64) (*model.Pengembalian, error) {
	var p model.Pengembalian
	if err := scanJoined(r.db.QueryRowContext(ctx, joined+` WHERE g.id = $1`, id), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repo) List(ctx context.Context, page, limit int) ([]model.Pengembalian, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	const q = `
	SELECT g.id, g.peminjaman_id, g.tanggal_kembali_aktual, g.kondisi_alat,
		g.jumlah_dikembalikan, g.keterlambatan_hari, g.denda, g.catatan,
		g.diterima_oleh, g.created_at,
		p.kode_peminjaman, u.nama_lengkap, a.nama_alat, pen.nama_lengkap,
		COUNT(*) OVER() AS total
	FROM pengembalian g
	JOIN peminjaman p ON p.id = g.peminjaman_id
	JOIN users u ON u.id = p.user_id
	JOIN alat a ON a.id = p.alat_id
	LEFT JOIN users pen ON pen.id = g.diterima_oleh
	ORDER BY g.created_at DESC, g.id DESC
	LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, q, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []model.Pengembalian
	var total int64
	for rows.Next() {
		var p model.Pengembalian
		if err := scanJoined(rows, &p, &total); err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

// ListBetween feeds the denda report. Nil bounds are open-ended.
func (r *repo) ListBetween(ctx context.Context, start, end *time.Time) ([]model.Pengembalian, error) {
	q := joined + `
		WHERE ($1::TIMESTAMPTZ IS NULL OR g.tanggal_kembali_aktual >= $1)
		  AND ($2::TIMESTAMPTZ IS NULL OR g.tanggal_kembali_aktual < $2 + INTERVAL '1 day')
		ORDER BY g.tanggal_kembali_aktual DESC, g.id DESC`
	rows, err := r.db.QueryContext(ctx, q, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Pengembalian
	for rows.Next() {
		var p model.Pengembalian
		if err := scanJoined(rows, &p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

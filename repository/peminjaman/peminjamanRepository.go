package peminjaman

import (
	"context"
	"database/sql"
	"time"

	"github.com/Sheila49/paket1-ukk-be/model"
)

type ListFilter struct {
	UserID *int64
	Status *model.PeminjamanStatus
	Page   int
	Limit  int
}

type Repo interface {
	Insert(ctx context.Context, p *model.Peminjaman) error
	GetByID(ctx context.Context, id int64) (*model.Peminjaman, error)
	List(ctx context.Context, f ListFilter) ([]model.Peminjaman, int64, error)
	ListBetween(ctx context.Context, start, end *time.Time, status *model.PeminjamanStatus) ([]model.Peminjaman, error)

	GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Peminjaman, error)
	SetApproval(ctx context.Context, tx *sql.Tx, id int64, status model.PeminjamanStatus, approverID int64, approvedAt time.Time, tanggalPinjam *time.Time, catatan *string) error
	SetDipinjam(ctx context.Context, tx *sql.Tx, id int64, when time.Time) error
	SetStatus(ctx context.Context, tx *sql.Tx, id int64, status model.PeminjamanStatus) error

	Update(ctx context.Context, p *model.Peminjaman) error
	Delete(ctx context.Context, id int64) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) Insert(ctx context.Context, p *model.Peminjaman) error {
	const q = `
		INSERT INTO peminjaman (kode_peminjaman, user_id, alat_id, jumlah_pinjam,
			tanggal_pengajuan, tanggal_kembali_rencana, keperluan, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, q,
		p.KodePeminjaman, p.UserID, p.AlatID, p.JumlahPinjam,
		p.TanggalPengajuan, p.TanggalKembaliRencana, p.Keperluan, p.Status,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

const joinedCols = `p.id, p.kode_peminjaman, p.user_id, p.alat_id, p.jumlah_pinjam,
	p.tanggal_pengajuan, p.tanggal_pinjam, p.tanggal_kembali_rencana, p.keperluan,
	p.status, p.disetujui_oleh, p.tanggal_persetujuan, p.catatan_persetujuan,
	p.created_at, p.updated_at,
	u.nama_lengkap, pen.nama_lengkap, a.nama_alat, a.kode_alat`

const joinedFrom = `
	FROM peminjaman p
	JOIN users u ON u.id = p.user_id
	JOIN alat a ON a.id = p.alat_id
	LEFT JOIN users pen ON pen.id = p.disetujui_oleh`

func scanJoined(row interface{ Scan(...any) error }) (*model.Peminjaman, error) {
	var p model.Peminjaman
	err := row.Scan(
		&p.ID, &p.KodePeminjaman, &p.UserID, &p.AlatID, &p.JumlahPinjam,
		&p.TanggalPengajuan, &p.TanggalPinjam, &p.TanggalKembaliRencana, &p.Keperluan,
		&p.Status, &p.DisetujuiOleh, &p.TanggalPersetujuan, &p.CatatanPersetujuan,
		&p.CreatedAt, &p.UpdatedAt,
		&p.NamaPeminjam, &p.NamaPenyetuju, &p.NamaAlat, &p.KodeAlat,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repo) GetByID(ctx context.Context, id int64) (*model.Peminjaman, error) {
	const q = `SELECT ` + joinedCols + joinedFrom + ` WHERE p.id = $1`
	return scanJoined(r.db.QueryRowContext(ctx, q, id))
}

func (r *repo) List(ctx context.Context, f ListFilter) ([]model.Peminjaman, int64, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 10
	}
	offset := (f.Page - 1) * f.Limit

	const q = `
		SELECT ` + joinedCols + `, COUNT(*) OVER() AS total` + joinedFrom + `
		WHERE ($1::BIGINT IS NULL OR p.user_id = $1)
		AND ($2::TEXT IS NULL OR p.status = $2)
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.db.QueryContext(ctx, q, f.UserID, f.Status, f.Limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []model.Peminjaman
	var total int64
	for rows.Next() {
		var p model.Peminjaman
		if err := rows.Scan(
			&p.ID, &p.KodePeminjaman, &p.UserID, &p.AlatID, &p.JumlahPinjam,
			&p.TanggalPengajuan, &p.TanggalPinjam, &p.TanggalKembaliRencana, &p.Keperluan,
			&p.Status, &p.DisetujuiOleh, &p.TanggalPersetujuan, &p.CatatanPersetujuan,
			&p.CreatedAt, &p.UpdatedAt,
			&p.NamaPeminjam, &p.NamaPenyetuju, &p.NamaAlat, &p.KodeAlat,
			&total,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func (r *repo) ListBetween(ctx context.Context, start, end *time.Time, status *model.PeminjamanStatus) ([]model.Peminjaman, error) {
	const q = `
		SELECT ` + joinedCols + joinedFrom + `
		WHERE ($1::TIMESTAMPTZ IS NULL OR p.created_at >= $1)
		AND ($2::TIMESTAMPTZ IS NULL OR p.created_at <= $2)
		AND ($3::TEXT IS NULL OR p.status = $3)
		ORDER BY p.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, start, end, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Peminjaman
	for rows.Next() {
		p, err := scanJoined(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// GetForUpdate locks the loan row so two concurrent transitions on the same
// loan serialize; the loser re-reads a status that is no longer legal.
func (r *repo) GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Peminjaman, error) {
	const q = `
		SELECT id, kode_peminjaman, user_id, alat_id, jumlah_pinjam,
			tanggal_pengajuan, tanggal_pinjam, tanggal_kembali_rencana, keperluan,
			status, disetujui_oleh, tanggal_persetujuan, catatan_persetujuan,
			created_at, updated_at
		FROM peminjaman
		WHERE id = $1
		FOR UPDATE`
	var p model.Peminjaman
	err := tx.QueryRowContext(ctx, q, id).Scan(
		&p.ID, &p.KodePeminjaman, &p.UserID, &p.AlatID, &p.JumlahPinjam,
		&p.TanggalPengajuan, &p.TanggalPinjam, &p.TanggalKembaliRencana, &p.Keperluan,
		&p.Status, &p.DisetujuiOleh, &p.TanggalPersetujuan, &p.CatatanPersetujuan,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repo) SetApproval(ctx context.Context, tx *sql.Tx, id int64, status model.PeminjamanStatus, approverID int64, approvedAt time.Time, tanggalPinjam *time.Time, catatan *string) error {
	const q = `
		UPDATE peminjaman
		SET status = $2, disetujui_oleh = $3, tanggal_persetujuan = $4,
			tanggal_pinjam = COALESCE($5, tanggal_pinjam),
			catatan_persetujuan = $6, updated_at = NOW()
		WHERE id = $1`
	_, err := tx.ExecContext(ctx, q, id, status, approverID, approvedAt, tanggalPinjam, catatan)
	return err
}

func (r *repo) SetDipinjam(ctx context.Context, tx *sql.Tx, id int64, when time.Time) error {
	const q = `
		UPDATE peminjaman
		SET status = $2, tanggal_pinjam = $3, updated_at = NOW()
		WHERE id = $1`
	_, err := tx.ExecContext(ctx, q, id, model.StatusDipinjam, when)
	return err
}

func (r *repo) SetStatus(ctx context.Context, tx *sql.Tx, id int64, status model.PeminjamanStatus) error {
	const q = `UPDATE peminjaman SET status = $2, updated_at = NOW() WHERE id = $1`
	_, err := tx.ExecContext(ctx, q, id, status)
	return err
}

func (r *repo) Update(ctx context.Context, p *model.Peminjaman) error {
	const q = `
		UPDATE peminjaman
		SET jumlah_pinjam = $2, tanggal_kembali_rencana = $3, keperluan = $4,
			status = $5, updated_at = NOW()
		WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, p.ID, p.JumlahPinjam, p.TanggalKembaliRencana, p.Keperluan, p.Status)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM peminjaman WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}

package log

import (
	"context"
	"database/sql"

	"github.com/Sheila49/paket1-ukk-be/model"
)

type Repo interface {
	Insert(ctx context.Context, e *model.LogAktivitas) error
	List(ctx context.Context, page, limit int) ([]model.LogAktivitas, int64, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) Insert(ctx context.Context, e *model.LogAktivitas) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO log_aktivitas (user_id, aksi, tabel, record_id, detail, ip_address, user_agent)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id, created_at`,
		e.UserID, e.Aksi, e.Tabel, e.RecordID, e.Detail, e.IPAddress, e.UserAgent,
	).Scan(&e.ID, &e.CreatedAt)
}

func (r *repo) List(ctx context.Context, page, limit int) ([]model.LogAktivitas, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, aksi, tabel, record_id, detail, ip_address, user_agent,
			created_at, COUNT(*) OVER() AS total
		FROM log_aktivitas
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []model.LogAktivitas
	var total int64
	for rows.Next() {
		var e model.LogAktivitas
		if err := rows.Scan(&e.ID, &e.UserID, &e.Aksi, &e.Tabel, &e.RecordID,
			&e.Detail, &e.IPAddress, &e.UserAgent, &e.CreatedAt, &total); err != nil {
			return nil, 0, err
		}
		out = append(out, e)
	}
	return out, total, rows.Err()
}

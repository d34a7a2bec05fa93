package kategori

import (
	"context"
	"database/sql"

	"github.com/Sheila49/paket1-ukk-be/model"
)

type Repo interface {
	Create(ctx context.Context, k *model.Kategori) error
	List(ctx context.Context) ([]model.Kategori, error)
	ByID(ctx context.Context, id int64) (*model.Kategori, error)
	Update(ctx context.Context, k *model.Kategori) error
	Delete(ctx context.Context, id int64) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) Create(ctx context.Context, k *model.Kategori) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO kategori (nama_kategori, deskripsi)
		VALUES ($1,$2)
		RETURNING id, created_at`,
		k.NamaKategori, k.Deskripsi,
	).Scan(&k.ID, &k.CreatedAt)
}

func (r *repo) List(ctx context.Context) ([]model.Kategori, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, nama_kategori, deskripsi, created_at
		FROM kategori
		ORDER BY nama_kategori ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Kategori
	for rows.Next() {
		var k model.Kategori
		if err := rows.Scan(&k.ID, &k.NamaKategori, &k.Deskripsi, &k.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, rows.Err()
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.Kategori, error) {
	var k model.Kategori
	err := r.db.QueryRowContext(ctx, `
		SELECT id, nama_kategori, deskripsi, created_at
		FROM kategori
		WHERE id = $1`, id,
	).Scan(&k.ID, &k.NamaKategori, &k.Deskripsi, &k.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &k, nil
}

func (r *repo) Update(ctx context.Context, k *model.Kategori) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE kategori SET nama_kategori = $2, deskripsi = $3 WHERE id = $1`,
		k.ID, k.NamaKategori, k.Deskripsi,
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
	res, err := r.db.ExecContext(ctx, `DELETE FROM kategori WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}
